// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

//go:build integration

package cli_test

import (
	"context"
	"os/exec"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention
)

const seedFile = "testdata/catalog.yaml"

var _ = Describe("Seed Command", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
		cleanupDatabase(ctx, env.pool)

		output, err := linkguard(ctx, "migrate", "up", "--seed-file", seedFile)
		Expect(err).NotTo(HaveOccurred(), "migrate up failed: %s", output)
	})

	Describe("Catalog seeding", func() {
		It("imports every record of the seed file", func() {
			output, err := linkguard(ctx, "seed", "--file", seedFile)
			Expect(err).NotTo(HaveOccurred(), "seed command failed: %s", output)
			Expect(output).To(ContainSubstring("Imported " + seedFile + " as "))

			var name []string
			err = env.pool.QueryRow(ctx, "SELECT name FROM spells WHERE id = $1", 21563).Scan(&name)
			Expect(err).NotTo(HaveOccurred())
			Expect(name).To(ContainElement("Command"))
		})

		It("is idempotent (running twice succeeds without duplicates)", func() {
			output1, err := linkguard(ctx, "seed", "--file", seedFile)
			Expect(err).NotTo(HaveOccurred(), "first seed failed: %s", output1)

			output2, err := linkguard(ctx, "seed", "--file", seedFile)
			Expect(err).NotTo(HaveOccurred(), "second seed failed: %s", output2)
			Expect(output2).To(ContainSubstring("Catalog already seeded"))

			var count int
			Expect(env.pool.QueryRow(ctx, "SELECT count(*) FROM catalog_imports").Scan(&count)).To(Succeed())
			Expect(count).To(Equal(1))
		})

		It("replaces the catalog with --replace", func() {
			_, err := linkguard(ctx, "seed", "--file", seedFile)
			Expect(err).NotTo(HaveOccurred())

			output, err := linkguard(ctx, "seed", "--file", seedFile, "--replace")
			Expect(err).NotTo(HaveOccurred(), "replace failed: %s", output)

			var count int
			Expect(env.pool.QueryRow(ctx, "SELECT count(*) FROM catalog_imports").Scan(&count)).To(Succeed())
			Expect(count).To(Equal(2))
		})

		It("validates messages against the database catalog", func() {
			_, err := linkguard(ctx, "seed", "--file", seedFile)
			Expect(err).NotTo(HaveOccurred())

			output, err := linkguard(ctx, "validate", "--catalog-source", "postgres",
				"|cff71d5ff|Hspell:21563|h[Command]|h|r")
			Expect(err).NotTo(HaveOccurred(), "validate failed: %s", output)
			Expect(output).To(ContainSubstring("accepted: 1 link(s)"))
		})
	})

	Describe("Error handling", func() {
		It("fails with CONFIG_INVALID when DATABASE_URL is missing", func() {
			cmd := exec.CommandContext(ctx, "go", "run", ".", "seed", "--file", seedFile)
			cmd.Dir = "../../../cmd/linkguard"
			cmd.Env = append(cmd.Environ(), "DATABASE_URL=")

			output, err := cmd.CombinedOutput()
			Expect(err).To(HaveOccurred())
			Expect(string(output)).To(ContainSubstring("DATABASE_URL"))
		})
	})
})
