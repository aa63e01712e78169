package glubsite

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultAliasTableIsValid(t *testing.T) {
	require.NoError(t, DefaultAliasTable().Validate())
}

func TestCanonicalize(t *testing.T) {
	n := NewNormalizer(DefaultAliasTable())
	tests := []struct {
		in, want string
	}{
		{"MainHero", "Hero"},
		{"AudioHero", "Hero"},
		{"Stats", "ContentGrid"},
		{"TalentFeatures", "ContentGrid"},
		{"Quote", "ContentBlock"},
		{"Hero", "Hero"},
		{"LogoCarousel", "LogoCarousel"},
		{"Bogus", "Bogus"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, n.Canonicalize(tt.in))
		})
	}
}

func TestCanonicalizeIsIdempotent(t *testing.T) {
	n := NewNormalizer(DefaultAliasTable())
	names := []string{"Bogus", "Hero", "ContentGrid"}
	for name := range DefaultAliasTable().Aliases {
		names = append(names, name)
	}
	for _, name := range names {
		once := n.Canonicalize(name)
		assert.Equal(t, once, n.Canonicalize(once), name)
	}
}

func TestAdaptPropsTalentFeatures(t *testing.T) {
	n := NewNormalizer(DefaultAliasTable())
	features := []any{map[string]any{"title": "A"}}
	in := Props{"features": features, "heading": "Talent"}

	got := n.AdaptProps("TalentFeatures", in)
	want := Props{"features": features, "items": features, "heading": "Talent"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("AdaptProps() mismatch (-want +got):\n%s", diff)
	}
	assert.NotContains(t, in, "items", "input must not be modified")
}

func TestAdaptPropsTalentFeaturesFallbacks(t *testing.T) {
	n := NewNormalizer(DefaultAliasTable())
	items := []any{map[string]any{"title": "B"}}

	got := n.AdaptProps("TalentFeatures", Props{"items": items})
	assert.Equal(t, items, got["items"])

	got = n.AdaptProps("TalentFeatures", Props{"features": nil})
	assert.Equal(t, []any{}, got["items"])
}

func TestAdaptPropsPassThrough(t *testing.T) {
	n := NewNormalizer(DefaultAliasTable())
	in := Props{"features": []any{"x"}, "heading": "h"}
	got := n.AdaptProps("Features", in)
	if diff := cmp.Diff(in, got); diff != "" {
		t.Errorf("AdaptProps() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadAliasTable(t *testing.T) {
	tbl, err := LoadAliasTable(strings.NewReader(`
version: 1
aliases:
  Banner: Hero
  Numbers: ContentGrid
`))
	require.NoError(t, err)
	n := NewNormalizer(tbl)
	assert.Equal(t, "Hero", n.Canonicalize("Banner"))
	assert.Equal(t, "ContentGrid", n.Canonicalize("Numbers"))
	assert.Equal(t, "MainHero", n.Canonicalize("MainHero"))
}

func TestLoadAliasTableErrors(t *testing.T) {
	tests := map[string]string{
		"version":   "version: 2\naliases: {A: Hero}\n",
		"no kind":   "version: 1\naliases: {A: Banner}\n",
		"frame":     "version: 1\naliases: {A: Footer}\n",
		"chained":   "version: 1\naliases: {A: Hero, Hero: ContentBlock}\n",
		"malformed": "version: [\n",
		"empty":     "",
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadAliasTable(strings.NewReader(in))
			assert.Error(t, err)
		})
	}
}
