// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holomush/linkguard/pkg/errutil"
)

func TestSeed_RequiresDatabaseURL(t *testing.T) {
	_, err := run(t, context.Background(), nil, "seed", "--file", seedFixture)
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "CONFIG_INVALID")
}

func TestSeed_InvalidFileFailsBeforeConnecting(t *testing.T) {
	_, err := run(t, context.Background(), nil,
		"seed", "--file", "testdata/missing.yaml", "--database-url", "postgres://localhost/none")
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "SEED_READ_FAILED")
}

func TestSeedExport_RequiresDatabaseURL(t *testing.T) {
	_, err := run(t, context.Background(), nil, "seed", "export", "--seed-file", seedFixture)
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "CONFIG_INVALID")
}

func TestSeedCheck(t *testing.T) {
	out, err := run(t, context.Background(), nil, "seed", "check", seedFixture)
	require.NoError(t, err)
	assert.Equal(t, seedFixture+": format 1.0.0, 2 item(s), 1 quest(s), 5 spell(s), 1 achievement(s)\n", out)
}

func TestSeedCheck_DefaultsToConfiguredSeedFile(t *testing.T) {
	out, err := run(t, context.Background(), nil, "seed", "check", "--seed-file", seedFixture)
	require.NoError(t, err)
	assert.Contains(t, out, seedFixture+": format 1.0.0")
}

func TestSeedCheck_InvalidSeed(t *testing.T) {
	_, err := run(t, context.Background(), nil, "seed", "check", "testdata/invalid.yaml")
	require.Error(t, err)
}
