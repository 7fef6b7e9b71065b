package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/iroha-tools/modbot/app/config"
	"github.com/iroha-tools/modbot/lib/modfilter"
)

func testCatalogs() config.Catalogs {
	return config.Catalogs{
		Options: config.ModerationConfig{AllowedChannels: []string{"general", "1234"}, Threshold: 2, StripEmoji: true},
		Pairs: []modfilter.Entry{
			{Trigger: "Free", Pairs: []string{"nitro", "gift"}},
			{Trigger: "airdrop", Pairs: []string{"claim"}},
			{Trigger: "scam"},
		},
		Translation: modfilter.TranslationTable{'\u0430': "a", '\u0435': "e", '\u200b': ""},
	}
}

func (s *StorageTestSuite) TestCatalog_NewCatalog() {
	ctx := context.Background()
	for _, db := range s.getTestDB() {
		s.Run(fmt.Sprintf("with %s", db.Type()), func() {
			defer s.dropTables(db, "restricted_pairs", "translations", "moderation_options")

			c, err := NewCatalog(ctx, db)
			s.Require().NoError(err)
			s.NotNil(c)

			_, err = NewCatalog(ctx, db)
			s.Require().NoError(err, "second init on existing tables")

			stats, err := c.Stats(ctx)
			s.Require().NoError(err)
			s.Equal(0, stats.Pairs)
			s.Equal(0, stats.Translations)
			s.True(stats.UpdatedAt.IsZero())
		})
	}

	s.Run("nil db", func() {
		_, err := NewCatalog(ctx, nil)
		s.Require().EqualError(err, "no db provided")
	})
}

func (s *StorageTestSuite) TestCatalog_ImportAndLoad() {
	ctx := context.Background()
	for _, db := range s.getTestDB() {
		s.Run(fmt.Sprintf("with %s", db.Type()), func() {
			defer s.dropTables(db, "restricted_pairs", "translations", "moderation_options")
			c, err := NewCatalog(ctx, db)
			s.Require().NoError(err)

			stats, err := c.Import(ctx, testCatalogs())
			s.Require().NoError(err)
			s.Equal("pairs: 3, translations: 3", stats.String())

			res, err := c.Load(ctx)
			s.Require().NoError(err)
			s.Equal(testCatalogs().Options, res.Options)
			s.Equal(testCatalogs().Translation, res.Translation)
			s.Equal([]modfilter.Entry{
				{Trigger: "free", Pairs: []string{"nitro", "gift"}},
				{Trigger: "airdrop", Pairs: []string{"claim"}},
				{Trigger: "scam", Pairs: []string{}},
			}, res.Pairs, "order kept, triggers lowercased")

			stats, err = c.Stats(ctx)
			s.Require().NoError(err)
			s.Equal(3, stats.Pairs)
			s.Equal(3, stats.Translations)
			s.False(stats.UpdatedAt.IsZero())

			s.Run("detector from stored catalogs", func() {
				d, err := res.Detector()
				s.Require().NoError(err)
				r, found := d.Check("fr\u0435\u0435 nitro\u200b for everyone")
				s.True(found)
				s.Equal("free", r.Trigger)
			})
		})
	}
}

func (s *StorageTestSuite) TestCatalog_ImportReplaces() {
	ctx := context.Background()
	for _, db := range s.getTestDB() {
		s.Run(fmt.Sprintf("with %s", db.Type()), func() {
			defer s.dropTables(db, "restricted_pairs", "translations", "moderation_options")
			c, err := NewCatalog(ctx, db)
			s.Require().NoError(err)

			_, err = c.Import(ctx, testCatalogs())
			s.Require().NoError(err)

			next := config.Catalogs{
				Options: config.ModerationConfig{AllowedChannels: []string{"random"}},
				Pairs:   []modfilter.Entry{{Trigger: "airdrop", Pairs: []string{"wallet"}}, {Trigger: "free", Pairs: []string{"robux"}}},
			}
			_, err = c.Import(ctx, next)
			s.Require().NoError(err)

			pairs, err := c.Pairs(ctx)
			s.Require().NoError(err)
			s.Equal([]modfilter.Entry{{Trigger: "airdrop", Pairs: []string{"wallet"}}, {Trigger: "free", Pairs: []string{"robux"}}}, pairs)

			tr, err := c.Translation(ctx)
			s.Require().NoError(err)
			s.Empty(tr)

			opts, err := c.Options(ctx)
			s.Require().NoError(err)
			s.Equal([]string{"random"}, opts.AllowedChannels)
			s.Equal(modfilter.DefaultThreshold, opts.Threshold, "zero threshold falls back to default")
		})
	}
}

func (s *StorageTestSuite) TestCatalog_ImportInvalid() {
	ctx := context.Background()
	for _, db := range s.getTestDB() {
		s.Run(fmt.Sprintf("with %s", db.Type()), func() {
			defer s.dropTables(db, "restricted_pairs", "translations", "moderation_options")
			c, err := NewCatalog(ctx, db)
			s.Require().NoError(err)
			_, err = c.Import(ctx, testCatalogs())
			s.Require().NoError(err)

			bad := config.Catalogs{Pairs: []modfilter.Entry{{Trigger: "free"}, {Trigger: "FREE"}}}
			_, err = c.Import(ctx, bad)
			s.Require().ErrorIs(err, modfilter.ErrDuplicateTrigger)

			_, err = c.Import(ctx, config.Catalogs{Pairs: []modfilter.Entry{{Trigger: " "}}})
			s.Require().ErrorIs(err, modfilter.ErrEmptyTrigger)

			stats, err := c.Stats(ctx)
			s.Require().NoError(err)
			s.Equal(3, stats.Pairs, "stored catalogs untouched")
		})
	}
}

func (s *StorageTestSuite) TestCatalog_DefaultOptions() {
	ctx := context.Background()
	for _, db := range s.getTestDB() {
		s.Run(fmt.Sprintf("with %s", db.Type()), func() {
			defer s.dropTables(db, "restricted_pairs", "translations", "moderation_options")
			c, err := NewCatalog(ctx, db)
			s.Require().NoError(err)

			opts, err := c.Options(ctx)
			s.Require().NoError(err)
			s.Equal(config.New(), opts)

			res, err := c.Load(ctx)
			s.Require().NoError(err)
			s.Empty(res.Pairs)
			s.Empty(res.Translation)
		})
	}
}

func (s *StorageTestSuite) TestCatalog_GroupIsolation() {
	ctx := context.Background()
	for _, db := range s.getTestDB() {
		s.Run(fmt.Sprintf("with %s", db.Type()), func() {
			defer s.dropTables(db, "restricted_pairs", "translations", "moderation_options")
			c, err := NewCatalog(ctx, db)
			s.Require().NoError(err)
			_, err = c.Import(ctx, testCatalogs())
			s.Require().NoError(err)

			// rows of another group written directly
			_, err = db.Exec(db.Adopt("INSERT INTO restricted_pairs (gid, position, word, pairs) VALUES (?, ?, ?, ?)"),
				"other", 0, "other", `["word"]`)
			s.Require().NoError(err)

			pairs, err := c.Pairs(ctx)
			s.Require().NoError(err)
			s.Len(pairs, 3)

			_, err = c.Import(ctx, config.Catalogs{})
			s.Require().NoError(err)
			var count int
			s.Require().NoError(db.Get(&count, "SELECT COUNT(*) FROM restricted_pairs"))
			s.Equal(1, count, "other group kept")
		})
	}
}

func (s *StorageTestSuite) TestCatalog_Concurrent() {
	ctx := context.Background()
	for _, db := range s.getTestDB() {
		s.Run(fmt.Sprintf("with %s", db.Type()), func() {
			defer s.dropTables(db, "restricted_pairs", "translations", "moderation_options")
			c, err := NewCatalog(ctx, db)
			s.Require().NoError(err)

			var wg sync.WaitGroup
			for i := 0; i < 10; i++ {
				wg.Add(2)
				go func() {
					defer wg.Done()
					_, err := c.Import(ctx, testCatalogs())
					s.NoError(err)
				}()
				go func() {
					defer wg.Done()
					_, err := c.Load(ctx)
					s.NoError(err)
				}()
			}
			wg.Wait()

			stats, err := c.Stats(ctx)
			s.Require().NoError(err)
			s.Equal(3, stats.Pairs)
		})
	}
}

func (s *StorageTestSuite) TestCatalog_ImportNonASCIITrigger() {
	ctx := context.Background()
	for _, db := range s.getTestDB() {
		s.Run(fmt.Sprintf("with %s", db.Type()), func() {
			defer s.dropTables(db, "restricted_pairs", "translations", "moderation_options")
			c, err := NewCatalog(ctx, db)
			s.Require().NoError(err)

			_, err = c.Import(ctx, config.Catalogs{Pairs: []modfilter.Entry{{Trigger: "\u039f\u0394\u039f\u03a3"}}})
			s.Require().NoError(err)

			res, err := c.Load(ctx)
			s.Require().NoError(err)
			s.Equal([]modfilter.Entry{{Trigger: "\u03bf\u03b4\u03bf\u03c2", Pairs: []string{}}}, res.Pairs)

			d, err := res.Detector()
			s.Require().NoError(err)
			r, found := d.Check("\u039f\u0394\u039f\u03a3 \u039f\u0394\u039f\u03a3")
			s.True(found)
			s.Equal(2, r.Count)
		})
	}
}
