// Package config holds the fixed tables that drive classification,
// renaming and emission. The tables are decoded once and then only read.
package config

import (
	"bytes"
	_ "embed"
	"io"
	"os"
	"strings"
	"unicode"

	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalidTables is returned when a tables document is missing a
// required entry.
var ErrInvalidTables = errors.Base("invalid tables")

// Record describes the extensible record convention: a type tag followed
// by a next pointer at the head of the struct.
type Record struct {
	TagField  string `yaml:"tag_field"`
	TagType   string `yaml:"tag_type"`
	NextField string `yaml:"next_field"`
	TagPrefix string `yaml:"tag_prefix"`
}

// Emit holds the spelling of the generated wrapper code.
type Emit struct {
	Indent         string   `yaml:"indent"`
	EnumUnderlying string   `yaml:"enum_underlying"`
	BitmaskMacro   string   `yaml:"bitmask_macro"`
	RawMethod      string   `yaml:"raw_method"`
	NullPointer    string   `yaml:"null_pointer"`
	BitMarker      string   `yaml:"bit_marker"`
	PointerMarker  string   `yaml:"pointer_marker"`
	DigitPrefix    string   `yaml:"digit_prefix"`
	Includes       []string `yaml:"includes"`
}

type Tables struct {
	Prefix          string            `yaml:"prefix"`
	EnumBlacklist   []string          `yaml:"enum_blacklist"`
	StructBlacklist []string          `yaml:"struct_blacklist"`
	BoolType        string            `yaml:"bool_type"`
	Primitives      map[string]string `yaml:"primitives"`
	VendorSuffixes  []string          `yaml:"vendor_suffixes"`
	FlagSuffixes    []string          `yaml:"flag_suffixes"`
	RecordSuffixes  []string          `yaml:"record_suffixes"`
	Record          Record            `yaml:"record"`
	Emit            Emit              `yaml:"emit"`

	enumBlacklist   map[string]struct{}
	structBlacklist map[string]struct{}
	flagEndings     []string
	recordEndings   []string
	vendorWords     []string
}

// Default returns the built-in tables.
func Default() (*Tables, error) {
	return Parse(defaultsYAML)
}

// MustDefault is Default for callers that cannot recover from broken
// built-in tables, such as tests and package-level setup.
func MustDefault() *Tables {
	t, err := Default()
	if err != nil {
		panic(err)
	}
	return t
}

func Load(r io.Reader) (*Tables, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Errorf("reading tables: %w", err)
	}
	return Parse(data)
}

func LoadFile(path string) (*Tables, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Errorf("opening tables file %s: %w", path, err)
	}
	defer f.Close()

	t, err := Load(f)
	if err != nil {
		return nil, errors.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Parse decodes a tables document and builds its lookup index.
func Parse(data []byte) (*Tables, error) {
	t := &Tables{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(t); err != nil {
		return nil, errors.Errorf("decoding tables: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	t.index()
	return t, nil
}

func (t *Tables) Validate() error {
	var missing []string
	if t.Prefix == "" {
		missing = append(missing, "prefix")
	}
	if t.Record.TagField == "" {
		missing = append(missing, "record.tag_field")
	}
	if t.Record.NextField == "" {
		missing = append(missing, "record.next_field")
	}
	if t.Emit.Indent == "" {
		missing = append(missing, "emit.indent")
	}
	if t.Emit.RawMethod == "" {
		missing = append(missing, "emit.raw_method")
	}
	if len(missing) > 0 {
		return errors.WithDetails(
			errors.Errorf("%w: missing %s", ErrInvalidTables, strings.Join(missing, ", ")),
			"missing", missing,
		)
	}
	return nil
}

func (t *Tables) index() {
	t.enumBlacklist = toSet(t.EnumBlacklist)
	t.structBlacklist = toSet(t.StructBlacklist)
	t.flagEndings = crossSuffixes(t.FlagSuffixes, t.VendorSuffixes)
	t.recordEndings = crossSuffixes(t.RecordSuffixes, t.VendorSuffixes)

	t.vendorWords = t.vendorWords[:0]
	for _, v := range t.VendorSuffixes {
		if v != "" && strings.IndexFunc(v, func(r rune) bool { return !unicode.IsLetter(r) }) < 0 {
			t.vendorWords = append(t.vendorWords, v)
		}
	}
}

func toSet(list []string) map[string]struct{} {
	set := make(map[string]struct{}, len(list))
	for _, s := range list {
		set[s] = struct{}{}
	}
	return set
}

// crossSuffixes pairs every main suffix with every vendor suffix, so
// "FlagBits" and "KHR" give "FlagBitsKHR".
func crossSuffixes(mains, vendors []string) []string {
	if len(vendors) == 0 {
		vendors = []string{""}
	}
	out := make([]string, 0, len(mains)*len(vendors))
	for _, m := range mains {
		for _, v := range vendors {
			out = append(out, m+v)
		}
	}
	return out
}

func (t *Tables) HasPrefix(name string) bool {
	return strings.HasPrefix(name, t.Prefix)
}

func (t *Tables) EnumBlacklisted(name string) bool {
	_, ok := t.enumBlacklist[name]
	return ok
}

func (t *Tables) StructBlacklisted(name string) bool {
	_, ok := t.structBlacklist[name]
	return ok
}

// Primitive returns the target spelling of a primitive C type.
func (t *Tables) Primitive(name string) (string, bool) {
	p, ok := t.Primitives[name]
	return p, ok
}

func (t *Tables) IsBool(name string) bool {
	return t.BoolType != "" && name == t.BoolType
}

// FlagEnding returns the flag-style suffix that name ends with.
func (t *Tables) FlagEnding(name string) (string, bool) {
	return longestEnding(name, t.flagEndings)
}

// RecordEnding returns the extensible record suffix that name ends with.
func (t *Tables) RecordEnding(name string) (string, bool) {
	return longestEnding(name, t.recordEndings)
}

// VendorWords are the alphabetic vendor suffixes, e.g. KHR.
func (t *Tables) VendorWords() []string {
	return t.vendorWords
}

func longestEnding(name string, endings []string) (string, bool) {
	best, found := "", false
	for _, e := range endings {
		if strings.HasSuffix(name, e) && len(e) >= len(best) {
			best, found = e, true
		}
	}
	return best, found
}
