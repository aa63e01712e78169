package glubsite

import (
	"fmt"
)

// Kind is a canonical component type.
type Kind int

const (
	KindHero Kind = iota
	KindContentBlock
	KindContentGrid
	KindLogoCarousel

	// frame level, never part of a page body
	KindNavigation
	KindFooter

	kindCount
)

var kindNames = [kindCount]string{
	KindHero:         "Hero",
	KindContentBlock: "ContentBlock",
	KindContentGrid:  "ContentGrid",
	KindLogoCarousel: "LogoCarousel",
	KindNavigation:   "Navigation",
	KindFooter:       "Footer",
}

func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// InBody reports whether k may appear in a page's section list.
func (k Kind) InBody() bool {
	return k >= 0 && k < KindNavigation
}

// ParseKind returns the Kind named name.
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), true
		}
	}
	return 0, false
}

// View is the typed, defaulted prop struct of one component instance.
type View interface {
	Kind() Kind
}

// Component is a renderable component implementation: it turns a prop bag
// into its typed view.
type Component struct {
	Kind Kind
	New  func(Props) View
}

// newView is the single place binding kinds to their prop structs.
func newView(k Kind, p Props) View {
	switch k {
	case KindHero:
		return NewHero(p)
	case KindContentBlock:
		return NewContentBlock(p)
	case KindContentGrid:
		return NewContentGrid(p)
	case KindLogoCarousel:
		return NewLogoCarousel(p)
	case KindNavigation:
		return NewNavigation(p)
	case KindFooter:
		return NewFooter(p)
	}
	panic(fmt.Sprintf("glubsite: no view for %v", k))
}

// ComponentFor returns the built-in component of kind k.
func ComponentFor(k Kind) Component {
	return Component{
		Kind: k,
		New:  func(p Props) View { return newView(k, p) },
	}
}

// Registry maps canonical type names to components. It is populated at
// startup and read-only afterwards.
type Registry struct {
	byName map[string]Component
	order  []string
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Component)}
}

// DefaultRegistry registers every in-body kind under its canonical name.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for k := Kind(0); k < kindCount; k++ {
		if k.InBody() {
			r.Register(k.String(), ComponentFor(k))
		}
	}
	return r
}

// Register adds c under name. Registering a name twice is a programming
// error and panics.
func (r *Registry) Register(name string, c Component) {
	if _, exists := r.byName[name]; exists {
		panic(fmt.Sprintf("component %q already registered", name))
	}
	if c.New == nil {
		panic(fmt.Sprintf("component %q has no constructor", name))
	}
	r.byName[name] = c
	r.order = append(r.order, name)
}

// Resolve looks up name. A miss is not an error.
func (r *Registry) Resolve(name string) (Component, bool) {
	c, ok := r.byName[name]
	return c, ok
}

func (r *Registry) IsRegistered(name string) bool {
	_, ok := r.byName[name]
	return ok
}

// Types returns the registered names in registration order.
func (r *Registry) Types() []string {
	return append([]string(nil), r.order...)
}
