package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"

	"github.com/iroha-tools/modbot/lib/modfilter"
)

// Files defines locations of the three moderation documents
type Files struct {
	Options     string
	Pairs       string
	Translation string
}

// LoadCatalogs reads all moderation documents. Returned errors are *ConfigLoadError or *TranslationTableError.
func LoadCatalogs(files Files) (Catalogs, error) {
	opts, err := LoadOptions(files.Options)
	if err != nil {
		return Catalogs{}, err
	}
	pairs, err := LoadRestrictedPairs(files.Pairs)
	if err != nil {
		return Catalogs{}, err
	}
	tbl, err := LoadTranslationTable(files.Translation)
	if err != nil {
		return Catalogs{}, err
	}
	return Catalogs{Options: opts, Pairs: pairs, Translation: tbl}, nil
}

// LoadOptions reads the options document, i.e. {"allowed_channels": ["general"], "threshold": 2}.
// Missing threshold set to default.
func LoadOptions(path string) (ModerationConfig, error) {
	node, err := readDoc(path)
	if err != nil {
		return ModerationConfig{}, &ConfigLoadError{Path: path, Err: err}
	}
	res, err := ParseOptions(node)
	if err != nil {
		return ModerationConfig{}, &ConfigLoadError{Path: path, Err: err}
	}
	return res, nil
}

// ParseOptions makes ModerationConfig from a decoded options document
func ParseOptions(node *yaml.Node) (ModerationConfig, error) {
	res := New()
	if node.Kind != yaml.MappingNode {
		return res, fmt.Errorf("expected mapping, got %s", kindName(node))
	}

	errs := new(multierror.Error)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		switch key.Value {
		case "allowed_channels":
			if val.Kind != yaml.SequenceNode {
				errs = multierror.Append(errs, fmt.Errorf("allowed_channels: expected list, got %s", kindName(val)))
				continue
			}
			channels, err := stringList(val)
			if err != nil {
				errs = multierror.Append(errs, fmt.Errorf("allowed_channels: %w", err))
				continue
			}
			res.AllowedChannels = channels
		case "threshold":
			if err := val.Decode(&res.Threshold); err != nil || res.Threshold < 0 {
				errs = multierror.Append(errs, fmt.Errorf("threshold: expected non-negative integer, got %q", val.Value))
				continue
			}
			if res.Threshold == 0 {
				res.Threshold = modfilter.DefaultThreshold
			}
		case "strip_emoji":
			if err := val.Decode(&res.StripEmoji); err != nil {
				errs = multierror.Append(errs, fmt.Errorf("strip_emoji: expected boolean, got %q", val.Value))
			}
		}
	}
	return res, errs.ErrorOrNil()
}

// LoadRestrictedPairs reads the restricted pairs document, a mapping of trigger to pair words.
// Document order is kept, it defines which trigger wins when several qualify.
func LoadRestrictedPairs(path string) ([]modfilter.Entry, error) {
	node, err := readDoc(path)
	if err != nil {
		return nil, &ConfigLoadError{Path: path, Err: err}
	}
	res, err := ParseRestrictedPairs(node)
	if err != nil {
		return nil, &ConfigLoadError{Path: path, Err: err}
	}
	return res, nil
}

// ParseRestrictedPairs makes ordered entries from a decoded restricted pairs document
func ParseRestrictedPairs(node *yaml.Node) ([]modfilter.Entry, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("expected mapping, got %s", kindName(node))
	}

	errs := new(multierror.Error)
	res := make([]modfilter.Entry, 0, len(node.Content)/2)
	seen := map[string]int{}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		trigger := modfilter.Lower(strings.TrimSpace(key.Value))
		if trigger == "" {
			errs = multierror.Append(errs, fmt.Errorf("line %d: %w", key.Line, modfilter.ErrEmptyTrigger))
			continue
		}
		if prev, ok := seen[trigger]; ok {
			errs = multierror.Append(errs, fmt.Errorf("line %d: trigger %q already defined on line %d: %w",
				key.Line, trigger, prev, modfilter.ErrDuplicateTrigger))
			continue
		}
		seen[trigger] = key.Line

		var pairs []string
		switch val.Kind {
		case yaml.SequenceNode:
			p, err := stringList(val)
			if err != nil {
				errs = multierror.Append(errs, fmt.Errorf("trigger %q: %w", trigger, err))
				continue
			}
			pairs = p
		case yaml.ScalarNode:
			if val.ShortTag() != "!!null" {
				errs = multierror.Append(errs, fmt.Errorf("trigger %q: expected list of pairs, got %s", trigger, kindName(val)))
				continue
			}
		default:
			errs = multierror.Append(errs, fmt.Errorf("trigger %q: expected list of pairs, got %s", trigger, kindName(val)))
			continue
		}
		res = append(res, modfilter.Entry{Trigger: trigger, Pairs: pairs})
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return res, nil
}

// LoadTranslationTable reads the character translation table. Keys are single characters,
// "U+XXXX" code points or decimal code points. Values are replacement strings, decimal
// code points or null to remove the character.
func LoadTranslationTable(path string) (modfilter.TranslationTable, error) {
	node, err := readDoc(path)
	if err != nil {
		return nil, &TranslationTableError{Path: path, Err: err}
	}
	res, err := ParseTranslationTable(node)
	if err != nil {
		return nil, &TranslationTableError{Path: path, Err: err}
	}
	return res, nil
}

// ParseTranslationTable makes a translation table from a decoded document
func ParseTranslationTable(node *yaml.Node) (modfilter.TranslationTable, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("expected mapping, got %s", kindName(node))
	}

	errs := new(multierror.Error)
	res := make(modfilter.TranslationTable, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		src, err := ParseTranslationKey(key.Value)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("line %d: %w", key.Line, err))
			continue
		}
		if _, ok := res[src]; ok {
			errs = multierror.Append(errs, fmt.Errorf("line %d: duplicate key %q", key.Line, key.Value))
			continue
		}
		dst, err := translationValue(val)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("line %d, key %q: %w", key.Line, key.Value, err))
			continue
		}
		res[src] = dst
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return res, nil
}

// ParseTranslationKey converts a translation table key to the rune it replaces.
// A single character is taken as is, so "1" is the digit one and not the code point 1.
func ParseTranslationKey(key string) (rune, error) {
	if key == "" {
		return 0, errors.New("empty key")
	}
	if utf8.RuneCountInString(key) == 1 {
		r, _ := utf8.DecodeRuneInString(key)
		return r, nil
	}
	if hex, ok := strings.CutPrefix(strings.ToUpper(key), "U+"); ok {
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil || !utf8.ValidRune(rune(v)) {
			return 0, fmt.Errorf("invalid code point %q", key)
		}
		return rune(v), nil
	}
	if v, err := strconv.ParseUint(key, 10, 32); err == nil {
		if !utf8.ValidRune(rune(v)) {
			return 0, fmt.Errorf("invalid code point %q", key)
		}
		return rune(v), nil
	}
	return 0, fmt.Errorf("key %q is not a single character", key)
}

func translationValue(val *yaml.Node) (string, error) {
	if val.Kind != yaml.ScalarNode {
		return "", fmt.Errorf("expected string, got %s", kindName(val))
	}
	switch val.ShortTag() {
	case "!!str":
		return val.Value, nil
	case "!!null":
		return "", nil
	case "!!int":
		v, err := strconv.ParseUint(val.Value, 10, 32)
		if err != nil || !utf8.ValidRune(rune(v)) {
			return "", fmt.Errorf("invalid code point %s", val.Value)
		}
		return string(rune(v)), nil
	default:
		return "", fmt.Errorf("expected string, got %s", val.ShortTag())
	}
}

// readDoc reads a JSON or YAML document and returns its root node
func readDoc(path string) (*yaml.Node, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path from cli options
	if err != nil {
		return nil, fmt.Errorf("failed to read: %w", err)
	}
	return parseDoc(data)
}

// parseDoc decodes JSON documents with encoding/json and everything else as YAML.
// Both end up as yaml nodes with mapping order kept.
func parseDoc(data []byte) (*yaml.Node, error) {
	if json.Valid(data) {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		root, err := jsonNode(dec, data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse: %w", err)
		}
		return root, nil
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, errors.New("empty document")
	}
	root := doc.Content[0]
	if root.Kind == yaml.AliasNode && root.Alias != nil {
		root = root.Alias
	}
	return root, nil
}

// jsonNode reads the next JSON value from the token stream as a yaml node.
// Line is the line where the value token ends.
func jsonNode(dec *json.Decoder, data []byte) (*yaml.Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	line := 1 + bytes.Count(data[:dec.InputOffset()], []byte("\n"))
	scalar := func(tag, val string) *yaml.Node {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: val, Line: line}
	}

	switch v := tok.(type) {
	case json.Delim:
		var node *yaml.Node
		switch v {
		case '{':
			node = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map", Line: line}
		case '[':
			node = &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Line: line}
		default:
			return nil, fmt.Errorf("unexpected %q on line %d", v, line)
		}
		for dec.More() {
			item, err := jsonNode(dec, data)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, item)
		}
		if _, err := dec.Token(); err != nil { // closing delimiter
			return nil, err
		}
		return node, nil
	case string:
		return scalar("!!str", v), nil
	case json.Number:
		if _, err := v.Int64(); err == nil {
			return scalar("!!int", v.String()), nil
		}
		return scalar("!!float", v.String()), nil
	case bool:
		return scalar("!!bool", strconv.FormatBool(v)), nil
	case nil:
		return scalar("!!null", "null"), nil
	}
	return nil, fmt.Errorf("unexpected token %v on line %d", tok, line)
}

func stringList(node *yaml.Node) ([]string, error) {
	res := make([]string, 0, len(node.Content))
	for _, item := range node.Content {
		if item.Kind != yaml.ScalarNode || item.ShortTag() != "!!str" {
			return nil, fmt.Errorf("line %d: expected string, got %s", item.Line, kindName(item))
		}
		res = append(res, item.Value)
	}
	return res, nil
}

func kindName(node *yaml.Node) string {
	switch node.Kind {
	case yaml.MappingNode:
		return "mapping"
	case yaml.SequenceNode:
		return "list"
	case yaml.ScalarNode:
		return strings.TrimPrefix(node.ShortTag(), "!!")
	case yaml.AliasNode:
		return "alias"
	default:
		return "document"
	}
}
