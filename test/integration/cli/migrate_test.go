// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

//go:build integration

package cli_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention
)

var _ = Describe("Migrate Command", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
		cleanupDatabase(ctx, env.pool)
	})

	It("reports pending migrations on a fresh database", func() {
		output, err := linkguard(ctx, "migrate", "version", "--seed-file", seedFile)
		Expect(err).NotTo(HaveOccurred(), "version failed: %s", output)
		Expect(output).To(ContainSubstring("Version: none"))
		Expect(output).To(ContainSubstring("Pending: 2"))
	})

	It("applies and rolls back the schema", func() {
		output, err := linkguard(ctx, "migrate", "up", "--seed-file", seedFile)
		Expect(err).NotTo(HaveOccurred(), "up failed: %s", output)
		Expect(output).To(ContainSubstring("Applied 2 migration(s)"))

		output, err = linkguard(ctx, "migrate", "up", "--seed-file", seedFile)
		Expect(err).NotTo(HaveOccurred())
		Expect(output).To(ContainSubstring("Schema is up to date"))

		output, err = linkguard(ctx, "migrate", "version", "--seed-file", seedFile)
		Expect(err).NotTo(HaveOccurred())
		Expect(output).To(ContainSubstring("Version: 2 (000002_catalog_imports)"))

		output, err = linkguard(ctx, "migrate", "down", "--yes", "--seed-file", seedFile)
		Expect(err).NotTo(HaveOccurred(), "down failed: %s", output)

		var exists bool
		Expect(env.pool.QueryRow(ctx, "SELECT to_regclass('public.items') IS NOT NULL").Scan(&exists)).To(Succeed())
		Expect(exists).To(BeFalse())
	})
})
