package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iroha-tools/modbot/lib/modfilter"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadOptions(t *testing.T) {
	dir := t.TempDir()

	t.Run("json options", func(t *testing.T) {
		path := writeFile(t, dir, "options.json", `{"allowed_channels": ["general", "memes"], "threshold": 3, "other": 1}`)
		res, err := LoadOptions(path)
		require.NoError(t, err)
		assert.Equal(t, ModerationConfig{AllowedChannels: []string{"general", "memes"}, Threshold: 3}, res)
	})

	t.Run("json escapes", func(t *testing.T) {
		path := writeFile(t, dir, "escaped.json", `{"allowed_channels": ["a\/b", "\u043e\u0431\u0449\u0438\u0439", "\ud83d\udcac-chat"],
"strip_emoji": true}`)
		res, err := LoadOptions(path)
		require.NoError(t, err)
		assert.Equal(t, ModerationConfig{AllowedChannels: []string{"a/b", "\u043e\u0431\u0449\u0438\u0439", "\U0001f4ac-chat"},
			Threshold: 2, StripEmoji: true}, res)
	})

	t.Run("yaml options", func(t *testing.T) {
		path := writeFile(t, dir, "options.yml", "allowed_channels:\n  - general\nstrip_emoji: true\n")
		res, err := LoadOptions(path)
		require.NoError(t, err)
		assert.Equal(t, ModerationConfig{AllowedChannels: []string{"general"}, Threshold: 2, StripEmoji: true}, res)
	})

	t.Run("defaults", func(t *testing.T) {
		path := writeFile(t, dir, "empty-opts.json", `{}`)
		res, err := LoadOptions(path)
		require.NoError(t, err)
		assert.Equal(t, New(), res)

		path = writeFile(t, dir, "zero-threshold.json", `{"threshold": 0}`)
		res, err = LoadOptions(path)
		require.NoError(t, err)
		assert.Equal(t, 2, res.Threshold)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadOptions(filepath.Join(dir, "nope.json"))
		var cfgErr *ConfigLoadError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, filepath.Join(dir, "nope.json"), cfgErr.Path)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("broken json", func(t *testing.T) {
		path := writeFile(t, dir, "broken.json", `{"allowed_channels": [`)
		_, err := LoadOptions(path)
		var cfgErr *ConfigLoadError
		require.ErrorAs(t, err, &cfgErr)
	})

	t.Run("empty file", func(t *testing.T) {
		path := writeFile(t, dir, "blank.json", ``)
		_, err := LoadOptions(path)
		var cfgErr *ConfigLoadError
		require.ErrorAs(t, err, &cfgErr)
		assert.Contains(t, err.Error(), "empty document")
	})

	t.Run("schema errors aggregated", func(t *testing.T) {
		path := writeFile(t, dir, "bad.json", `{"allowed_channels": "general", "threshold": -1, "strip_emoji": "maybe"}`)
		_, err := LoadOptions(path)
		var cfgErr *ConfigLoadError
		require.ErrorAs(t, err, &cfgErr)
		assert.Contains(t, err.Error(), "allowed_channels: expected list")
		assert.Contains(t, err.Error(), "threshold: expected non-negative integer")
		assert.Contains(t, err.Error(), "strip_emoji: expected boolean")
	})

	t.Run("not a mapping", func(t *testing.T) {
		path := writeFile(t, dir, "list.json", `["general"]`)
		_, err := LoadOptions(path)
		var cfgErr *ConfigLoadError
		require.ErrorAs(t, err, &cfgErr)
		assert.Contains(t, err.Error(), "expected mapping, got list")
	})

	t.Run("non-string channel", func(t *testing.T) {
		path := writeFile(t, dir, "num-channel.json", `{"allowed_channels": ["general", 42]}`)
		_, err := LoadOptions(path)
		var cfgErr *ConfigLoadError
		require.ErrorAs(t, err, &cfgErr)
		assert.Contains(t, err.Error(), "expected string, got int")
	})
}

func TestLoadRestrictedPairs(t *testing.T) {
	dir := t.TempDir()

	t.Run("order preserved", func(t *testing.T) {
		path := writeFile(t, dir, "pairs.json", `{
  "nitro": ["free", "gift"],
  "Buy": ["now", "cheap"],
  "alpha": [],
  "zeta": null
}`)
		res, err := LoadRestrictedPairs(path)
		require.NoError(t, err)
		assert.Equal(t, []modfilter.Entry{
			{Trigger: "nitro", Pairs: []string{"free", "gift"}},
			{Trigger: "buy", Pairs: []string{"now", "cheap"}},
			{Trigger: "alpha", Pairs: []string{}},
			{Trigger: "zeta"},
		}, res)
	})

	t.Run("escaped and non-ascii triggers", func(t *testing.T) {
		path := writeFile(t, dir, "greek.json", `{"\u039f\u0394\u039f\u03a3": ["\ud835\udc1a", "x\/y"], "FREE": ["\u041d\u0418\u0422\u0420\u041e"]}`)
		res, err := LoadRestrictedPairs(path)
		require.NoError(t, err)
		assert.Equal(t, []modfilter.Entry{
			{Trigger: "\u03bf\u03b4\u03bf\u03c2", Pairs: []string{"\U0001d41a", "x/y"}},
			{Trigger: "free", Pairs: []string{"\u041d\u0418\u0422\u0420\u041e"}},
		}, res, "triggers lowercased like message text, pairs kept as written")

		catalog, err := modfilter.NewCatalog(res...)
		require.NoError(t, err)
		d := modfilter.NewDetector(catalog, nil, 2)
		found, ok := d.Check("\u039f\u0394\u039f\u03a3 \U0001d41a")
		require.True(t, ok)
		assert.Equal(t, "\u03bf\u03b4\u03bf\u03c2", found.Trigger)
	})

	t.Run("duplicate trigger", func(t *testing.T) {
		path := writeFile(t, dir, "dup.json", "{\n\"buy\": [\"now\"],\n\"BUY\": [\"cheap\"]\n}")
		_, err := LoadRestrictedPairs(path)
		var cfgErr *ConfigLoadError
		require.ErrorAs(t, err, &cfgErr)
		assert.ErrorIs(t, err, modfilter.ErrDuplicateTrigger)
		assert.Contains(t, err.Error(), "already defined on line 2")
	})

	t.Run("invalid values", func(t *testing.T) {
		path := writeFile(t, dir, "bad.json", `{"buy": "now", "sell": [1, 2], "": ["x"]}`)
		_, err := LoadRestrictedPairs(path)
		var cfgErr *ConfigLoadError
		require.ErrorAs(t, err, &cfgErr)
		assert.Contains(t, err.Error(), `trigger "buy": expected list of pairs, got str`)
		assert.Contains(t, err.Error(), `trigger "sell"`)
		assert.ErrorIs(t, err, modfilter.ErrEmptyTrigger)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadRestrictedPairs(filepath.Join(dir, "nope.json"))
		var cfgErr *ConfigLoadError
		require.ErrorAs(t, err, &cfgErr)
	})
}

func TestLoadTranslationTable(t *testing.T) {
	dir := t.TempDir()

	t.Run("all key and value forms", func(t *testing.T) {
		path := writeFile(t, dir, "table.json", `{
  "ａ": "a",
  "U+FF42": "b",
  "65347": "c",
  "1": "one",
  "ß": "ss",
  "\u200b": null,
  "Ь": 98
}`)
		res, err := LoadTranslationTable(path)
		require.NoError(t, err)
		assert.Equal(t, modfilter.TranslationTable{
			'ａ': "a", 'ｂ': "b", 'ｃ': "c", '1': "one", 'ß': "ss", '\u200b': "", 'Ь': "b",
		}, res)
	})

	t.Run("json escaped keys", func(t *testing.T) {
		// math bold letters are written as surrogate pairs by most json encoders
		path := writeFile(t, dir, "escaped.json", `{
  "\ud835\udc1a": "a",
  "\ud835\udc01": "B",
  "\u0430": "a",
  "\/": "",
  "\u200b": null
}`)
		res, err := LoadTranslationTable(path)
		require.NoError(t, err)
		assert.Equal(t, modfilter.TranslationTable{
			'\U0001d41a': "a", '\U0001d401': "B", '\u0430': "a", '/': "", '\u200b': "",
		}, res)
	})

	t.Run("json with broken surrogate pair", func(t *testing.T) {
		// a lone surrogate decodes to the replacement character, a single rune key
		path := writeFile(t, dir, "lone.json", `{"\ud835": "x"}`)
		res, err := LoadTranslationTable(path)
		require.NoError(t, err)
		assert.Equal(t, modfilter.TranslationTable{'\ufffd': "x"}, res)
	})

	t.Run("multi-char key", func(t *testing.T) {
		path := writeFile(t, dir, "multi.json", `{"ab": "c"}`)
		_, err := LoadTranslationTable(path)
		var tblErr *TranslationTableError
		require.ErrorAs(t, err, &tblErr)
		assert.Contains(t, err.Error(), "not a single character")
		var cfgErr *ConfigLoadError
		assert.False(t, errors.As(err, &cfgErr))
	})

	t.Run("duplicate key", func(t *testing.T) {
		path := writeFile(t, dir, "dup.json", `{"ａ": "a", "U+FF41": "A"}`)
		_, err := LoadTranslationTable(path)
		var tblErr *TranslationTableError
		require.ErrorAs(t, err, &tblErr)
		assert.Contains(t, err.Error(), "duplicate key")
	})

	t.Run("bad values", func(t *testing.T) {
		path := writeFile(t, dir, "vals.json", `{"ａ": ["a"], "ｂ": true, "ｃ": -5}`)
		_, err := LoadTranslationTable(path)
		var tblErr *TranslationTableError
		require.ErrorAs(t, err, &tblErr)
		assert.Contains(t, err.Error(), "expected string, got list")
		assert.Contains(t, err.Error(), "expected string, got !!bool")
		assert.Contains(t, err.Error(), "invalid code point -5")
	})

	t.Run("not a mapping", func(t *testing.T) {
		path := writeFile(t, dir, "str.json", `"abc"`)
		_, err := LoadTranslationTable(path)
		var tblErr *TranslationTableError
		require.ErrorAs(t, err, &tblErr)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadTranslationTable(filepath.Join(dir, "nope.json"))
		var tblErr *TranslationTableError
		require.ErrorAs(t, err, &tblErr)
		assert.Equal(t, filepath.Join(dir, "nope.json"), tblErr.Path)
	})
}

func TestParseTranslationKey(t *testing.T) {
	tbl := []struct {
		key     string
		want    rune
		wantErr bool
	}{
		{key: "a", want: 'a'},
		{key: "7", want: '7'},
		{key: "ｓ", want: 'ｓ'},
		{key: "U+0430", want: 'а'},
		{key: "u+0430", want: 'а'},
		{key: "1072", want: 'а'},
		{key: "", wantErr: true},
		{key: "ab", wantErr: true},
		{key: "U+ZZZZ", wantErr: true},
		{key: "U+D800", wantErr: true},
		{key: "99999999", wantErr: true},
	}
	for _, tt := range tbl {
		t.Run(tt.key, func(t *testing.T) {
			r, err := ParseTranslationKey(tt.key)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, r)
		})
	}
}

func TestLoadCatalogs(t *testing.T) {
	dir := t.TempDir()
	files := Files{
		Options:     writeFile(t, dir, "options.json", `{"allowed_channels": ["general"]}`),
		Pairs:       writeFile(t, dir, "restricted_pairs.json", `{"spam": []}`),
		Translation: writeFile(t, dir, "unicode_translation_table.json", `{"ｓ": "s", "ｐ": "p", "ａ": "a", "ｍ": "m"}`),
	}

	t.Run("loaded", func(t *testing.T) {
		c, err := LoadCatalogs(files)
		require.NoError(t, err)
		assert.Equal(t, []string{"general"}, c.Options.AllowedChannels)
		assert.Len(t, c.Pairs, 1)
		assert.Len(t, c.Translation, 4)

		d, err := c.Detector()
		require.NoError(t, err)
		res, found := d.Check("ｓｐａｍ spam")
		require.True(t, found)
		assert.Equal(t, modfilter.Result{Trigger: "spam", Count: 2, Threshold: 2}, res)
	})

	t.Run("bad pairs is config error", func(t *testing.T) {
		f := files
		f.Pairs = filepath.Join(dir, "missing.json")
		_, err := LoadCatalogs(f)
		var cfgErr *ConfigLoadError
		require.ErrorAs(t, err, &cfgErr)
	})

	t.Run("bad table is translation error", func(t *testing.T) {
		f := files
		f.Translation = writeFile(t, dir, "bad-table.json", `[1, 2]`)
		_, err := LoadCatalogs(f)
		var tblErr *TranslationTableError
		require.ErrorAs(t, err, &tblErr)
	})
}

func TestParseDoc(t *testing.T) {
	t.Run("json keeps key order and lines", func(t *testing.T) {
		node, err := parseDoc([]byte("{\n\"b\": [1, 2.5, true, null],\n\"a\": {\"c\": \"d\"}\n}"))
		require.NoError(t, err)
		require.Len(t, node.Content, 4)
		assert.Equal(t, "b", node.Content[0].Value)
		assert.Equal(t, 2, node.Content[0].Line)
		assert.Equal(t, "a", node.Content[2].Value)
		assert.Equal(t, 3, node.Content[2].Line)

		items := node.Content[1].Content
		require.Len(t, items, 4)
		tags := []string{items[0].ShortTag(), items[1].ShortTag(), items[2].ShortTag(), items[3].ShortTag()}
		assert.Equal(t, []string{"!!int", "!!float", "!!bool", "!!null"}, tags)
		assert.Equal(t, "mapping", kindName(node.Content[3]))
	})

	t.Run("yaml fallback", func(t *testing.T) {
		node, err := parseDoc([]byte("# comment\nb: [x]\na: y\n"))
		require.NoError(t, err)
		require.Len(t, node.Content, 4)
		assert.Equal(t, "b", node.Content[0].Value)
		assert.Equal(t, "a", node.Content[2].Value)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := parseDoc([]byte("  "))
		require.EqualError(t, err, "empty document")
	})

	t.Run("broken", func(t *testing.T) {
		_, err := parseDoc([]byte(`{"a": [}`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse")
	})
}
