// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

//go:build integration

package catalog_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/holomush/linkguard/internal/catalog"
	"github.com/holomush/linkguard/internal/catalog/postgres"
	"github.com/holomush/linkguard/internal/chatlink"
)

const seedPath = "../../../cmd/linkguard/testdata/catalog.yaml"

var _ = Describe("PostgreSQL catalog", func() {
	var (
		ctx  context.Context
		seed *catalog.Seed
	)

	BeforeEach(func() {
		ctx = context.Background()
		resetSchema(env.connStr)

		var err error
		seed, err = catalog.LoadSeedFile(seedPath)
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("Importing a seed", func() {
		It("records the import and round-trips every record", func() {
			result, err := postgres.NewImporter(env.pool).Import(ctx, seed)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Stats.Spells).To(Equal(5))

			var formatVersion string
			err = env.pool.QueryRow(ctx,
				"SELECT format_version FROM catalog_imports WHERE id = $1",
				result.ID.String(),
			).Scan(&formatVersion)
			Expect(err).NotTo(HaveOccurred())
			Expect(formatVersion).To(Equal("1.0.0"))

			loaded, err := postgres.NewLoader(env.pool).Load(ctx)
			Expect(err).NotTo(HaveOccurred())

			want, err := seed.Build()
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.Stats()).To(Equal(want.Stats()))

			item, ok := loaded.ItemTemplate(2)
			Expect(ok).To(BeTrue())
			Expect(item.HasFlag3(catalog.ItemFlag3DisplayAsHeirloom)).To(BeTrue())
			Expect(item.Name.Get(catalog.LocaleDeDE)).To(Equal("Polierte Schiftung"))

			spell, ok := loaded.SpellInfo(3919, catalog.DifficultyNone)
			Expect(ok).To(BeTrue())
			Expect(spell.HasAttribute(catalog.SpellAttr0TradeSpell)).To(BeTrue())
			Expect(loaded.SkillLineAbilities(3919)).To(HaveLen(1))
		})

		It("refuses to import over an existing catalog", func() {
			_, err := postgres.NewImporter(env.pool).Import(ctx, seed)
			Expect(err).NotTo(HaveOccurred())

			_, err = postgres.NewImporter(env.pool).Import(ctx, seed)
			Expect(err).To(HaveOccurred())
			Expect(chatlink.Code(err)).To(Equal("CATALOG_ALREADY_SEEDED"))

			var imports int
			Expect(env.pool.QueryRow(ctx, "SELECT count(*) FROM catalog_imports").Scan(&imports)).To(Succeed())
			Expect(imports).To(Equal(1))
		})

		It("replaces the catalog when asked", func() {
			_, err := postgres.NewImporter(env.pool).Import(ctx, seed)
			Expect(err).NotTo(HaveOccurred())

			smaller := &catalog.Seed{
				FormatVersion: "1.1.0",
				Spells: []catalog.SeedSpell{
					{ID: 21563, Name: map[string]string{"enUS": "Command"}},
				},
			}
			_, err = postgres.NewImporter(env.pool, postgres.WithReplace()).Import(ctx, smaller)
			Expect(err).NotTo(HaveOccurred())

			loaded, err := postgres.NewLoader(env.pool).Load(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.Stats()).To(Equal(catalog.Stats{Spells: 1}))
		})
	})

	Describe("Validating against the loaded catalog", func() {
		var repos *chatlink.Repositories

		BeforeEach(func() {
			_, err := postgres.NewImporter(env.pool).Import(ctx, seed)
			Expect(err).NotTo(HaveOccurred())

			loaded, err := postgres.NewLoader(env.pool).Load(ctx)
			Expect(err).NotTo(HaveOccurred())
			repos = chatlink.RepositoriesFrom(loaded)
		})

		DescribeTable("messages",
			func(msg, wantCode string) {
				v, err := chatlink.NewValidator()
				Expect(err).NotTo(HaveOccurred())

				result, err := v.Validate(ctx, repos, msg)
				if wantCode == "" {
					Expect(err).NotTo(HaveOccurred())
					Expect(result.Links).NotTo(BeEmpty())
					return
				}
				Expect(err).To(HaveOccurred())
				Expect(chatlink.Code(err)).To(Equal(wantCode))
			},
			Entry("spell", "|cff71d5ff|Hspell:21563|h[Command]|h|r", ""),
			Entry("item with bonus lists",
				"|cffa335ee|Hitem:124382:0:0:0:0:0:0:0:0:0:0:0:4:42:562:565:567|h[Edict of Argus]|h|r", ""),
			Entry("localized quest title", "|cffffff00|Hquest:51101:-1:110:120:5|h[Le Roi blessé]|h|r", ""),
			Entry("talent", "|cff4e96f7|Htalent:2232:-1|h[Taste for Blood]|h|r", ""),
			Entry("glyph", "|cff66bbff|Hglyph:21:762|h[Glyph of Bladestorm]|h|r", ""),
			Entry("forged caption", "|cff71d5ff|Hspell:21563|h[NotCommand]|h|r", chatlink.CodeNameMismatch),
			Entry("unknown spell", "|cff71d5ff|Hspell:1|h[Command]|h|r", chatlink.CodeUnresolvedReference),
		)
	})
})
