// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package postgres

import (
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"

	"github.com/holomush/linkguard/internal/catalog"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err, "failed to create mock")
	t.Cleanup(mock.Close)
	return mock
}

// slots renders locale values the way they are stored in a TEXT[] column.
func slots(values map[string]string) []string {
	s, err := catalog.NewLocalizedString(values)
	if err != nil {
		panic(err)
	}
	return s[:]
}

func en(name string) []string {
	return slots(map[string]string{"enUS": name})
}
