package glubsite

import (
	"io"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// AliasTableVersion is the alias file format understood by LoadAliasTable.
const AliasTableVersion = 1

// AliasTable maps authored section type names to canonical kinds. Names
// that are absent map to themselves.
type AliasTable struct {
	Version int               `yaml:"version"`
	Aliases map[string]string `yaml:"aliases"`
}

// DefaultAliasTable returns the built-in table.
func DefaultAliasTable() AliasTable {
	return AliasTable{
		Version: AliasTableVersion,
		Aliases: map[string]string{
			"AudioHero": "Hero",
			"MainHero":  "Hero",

			"StatsSection":   "ContentGrid",
			"FeaturedItems":  "ContentGrid",
			"FeatureGrid":    "ContentGrid",
			"Stats":          "ContentGrid",
			"Features":       "ContentGrid",
			"CaseStudies":    "ContentGrid",
			"TalentFeatures": "ContentGrid",

			"FeaturedText": "ContentBlock",
			"Quote":        "ContentBlock",
			"CtaBanner":    "ContentBlock",
			"MediaModule":  "ContentBlock",
		},
	}
}

// LoadAliasTable reads a YAML alias table:
//
//	version: 1
//	aliases:
//	  MainHero: Hero
//
// Every target must be an in-body kind. An alias may not point at another
// alias, so canonicalization is a single lookup.
func LoadAliasTable(r io.Reader) (AliasTable, error) {
	var t AliasTable
	if err := yaml.NewDecoder(r).Decode(&t); err != nil && err != io.EOF {
		return AliasTable{}, errors.Wrap(err, "decoding alias table")
	}
	if t.Version != AliasTableVersion {
		return AliasTable{}, errors.Errorf("unsupported alias table version %d", t.Version)
	}
	if err := t.Validate(); err != nil {
		return AliasTable{}, err
	}
	return t, nil
}

// Validate checks that every alias resolves to an in-body kind in one step.
func (t AliasTable) Validate() error {
	for _, from := range t.sortedNames() {
		to := t.Aliases[from]
		if strings.TrimSpace(from) == "" {
			return errors.New("alias with empty name")
		}
		k, ok := ParseKind(to)
		if !ok || !k.InBody() {
			return errors.Errorf("alias %q: %q is not a page section kind", from, to)
		}
		if _, chained := t.Aliases[to]; chained && to != from {
			return errors.Errorf("alias %q: target %q is itself an alias", from, to)
		}
	}
	return nil
}

func (t AliasTable) sortedNames() []string {
	names := make([]string, 0, len(t.Aliases))
	for n := range t.Aliases {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// adapter reshapes the props of one authored type for its canonical kind.
// It receives a private copy and may modify it.
type adapter func(Props) Props

// adapters is keyed by authored type name. It is a closed set: structural
// rewrites are code, not configuration.
var adapters = map[string]adapter{
	"TalentFeatures": func(p Props) Props {
		items := p["features"]
		if isEmpty(items) {
			items = p["items"]
		}
		if isEmpty(items) {
			items = []any{}
		}
		p["items"] = items
		return p
	},
}

func isEmpty(v any) bool {
	switch v := v.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case bool:
		return !v
	}
	return false
}

// Normalizer canonicalizes authored section types and adapts their props.
type Normalizer struct {
	table AliasTable
}

func NewNormalizer(t AliasTable) *Normalizer {
	return &Normalizer{table: t}
}

// Canonicalize maps an authored type name to its canonical name.
func (n *Normalizer) Canonicalize(authored string) string {
	if to, ok := n.table.Aliases[authored]; ok {
		return to
	}
	return authored
}

// AdaptProps returns the props to hand to the component of authored's
// canonical kind. The input is never modified.
func (n *Normalizer) AdaptProps(authored string, props Props) Props {
	out := props.Clone()
	if a, ok := adapters[authored]; ok {
		out = a(out)
	}
	return out
}
