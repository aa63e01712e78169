package glubsite

import (
	"context"
	"log/slog"
	"strings"

	"github.com/lemmi/glubsite/backend"
	"github.com/lemmi/glubsite/internal/ctxlog"
)

// Element is one resolved section, ready to render.
type Element struct {
	Key   string // list identity, the authored key or the type
	Kind  Kind
	Type  string // authored type
	Props Props  // adapted props, type and key removed
	View  View
}

// Builder turns authored section records into elements.
type Builder struct {
	registry   *Registry
	normalizer *Normalizer
}

func NewBuilder(r *Registry, n *Normalizer) *Builder {
	return &Builder{registry: r, normalizer: n}
}

// DefaultBuilder uses the default registry and alias table.
func DefaultBuilder() *Builder {
	return NewBuilder(DefaultRegistry(), NewNormalizer(DefaultAliasTable()))
}

// Registry returns the registry the builder resolves against.
func (b *Builder) Registry() *Registry { return b.registry }

func firstString(p Props, keys ...string) string {
	for _, k := range keys {
		if s, ok := p[k].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// Resolve builds the element of a single section record.
func (b *Builder) Resolve(section any) (Element, error) {
	rec, _ := asProps(section)
	typ := firstString(rec, "_type", "type")
	key := firstString(rec, "_key", "key")
	if typ == "" {
		return Element{}, &MissingTypeError{Key: key}
	}
	if key == "" {
		key = typ
	}

	canonical := b.normalizer.Canonicalize(typ)
	c, ok := b.registry.Resolve(canonical)
	if !ok {
		return Element{}, &UnknownTypeError{
			Type:      typ,
			Canonical: canonical,
			Known:     b.registry.Types(),
		}
	}

	rest := rec.Clone()
	for _, k := range [...]string{"_type", "type", "_key", "key"} {
		delete(rest, k)
	}
	props := b.normalizer.AdaptProps(typ, rest)

	return Element{
		Key:   key,
		Kind:  c.Kind,
		Type:  typ,
		Props: props,
		View:  c.New(props),
	}, nil
}

// BuildOne resolves section and logs a warning if that fails.
func (b *Builder) BuildOne(ctx context.Context, section any) (Element, bool) {
	e, err := b.Resolve(section)
	if err != nil {
		ctxlog.FromContext(ctx).Warn("skipping section", slog.Any("error", err))
		return Element{}, false
	}
	return e, true
}

// BuildMany resolves every section in order and drops the ones that fail.
// Anything but a list yields no elements.
func (b *Builder) BuildMany(ctx context.Context, sections any) []Element {
	var list []any
	switch s := sections.(type) {
	case []any:
		list = s
	case []map[string]any:
		for _, m := range s {
			list = append(list, m)
		}
	case []Props:
		for _, m := range s {
			list = append(list, m)
		}
	case []backend.Document:
		for _, m := range s {
			list = append(list, m)
		}
	default:
		return []Element{}
	}

	out := make([]Element, 0, len(list))
	for i, s := range list {
		e, ok := b.BuildOne(ctxlog.WithLogger(ctx, ctxlog.FromContext(ctx).With(slog.Int("section", i))), s)
		if ok {
			out = append(out, e)
		}
	}
	return out
}
