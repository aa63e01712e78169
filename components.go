package glubsite

import (
	"html/template"
	"strings"
)

// Hero is the page opening section.
type Hero struct {
	Heading    string
	Eyebrow    string
	Subheading string
	Body       template.HTML

	HeroImage       *Image
	BackgroundImage *Image
	VideoURL        string

	Layout        string // split (default), centered, full-width
	ImagePosition string // right (default), left

	Cta     *Cta
	Buttons []Cta

	BackgroundColor       string // gradient (default), white, dark, custom
	CustomBackgroundColor string
	Overlay               bool
	OverlayOpacity        float64
}

func NewHero(p Props) *Hero {
	return &Hero{
		Heading:    p.String("heading"),
		Eyebrow:    p.String("eyebrow"),
		Subheading: p.String("subheading"),
		Body:       Markdown(p.String("body")),

		HeroImage:       NewImage(p["heroImage"], p.String("heroImageAlt")),
		BackgroundImage: NewImage(p["backgroundImage"], ""),
		VideoURL:        AssetURL(p["videoUrl"]),

		Layout:        p.Enum("layout", "split", "split", "centered", "full-width"),
		ImagePosition: p.Enum("imagePosition", "right", "left", "right"),

		Cta:     NewCta(p.Map("cta")),
		Buttons: newCtas(p.List("buttons")),

		BackgroundColor:       p.Enum("backgroundColor", "gradient", "gradient", "white", "dark", "custom"),
		CustomBackgroundColor: p.String("customBackgroundColor"),
		Overlay:               p.Bool("overlay", true),
		OverlayOpacity:        clamp01(p.Float("overlayOpacity", 0.4)),
	}
}

func (*Hero) Kind() Kind { return KindHero }

func (h *Hero) Centered() bool  { return h.Layout == "centered" }
func (h *Hero) FullWidth() bool { return h.Layout == "full-width" }
func (h *Hero) HasMedia() bool  { return h.HeroImage != nil || h.VideoURL != "" }
func (h *Hero) ImageLeft() bool { return h.ImagePosition == "left" && !h.Centered() }

func (h *Hero) BackgroundClass() string {
	switch h.BackgroundColor {
	case "white":
		return "bg-white"
	case "dark":
		return "bg-gray-900"
	case "gradient":
		return "bg-gradient"
	}
	return ""
}

func (h *Hero) BackgroundStyle() template.CSS {
	if h.BackgroundColor != "custom" {
		return ""
	}
	return cssColor(h.CustomBackgroundColor)
}

// ContentBlock covers text, text with image, quotes and CTA banners.
type ContentBlock struct {
	Layout string // text-only (default), text-image, quote, cta-banner

	Heading string
	Body    template.HTML
	Quote   string
	Author  string

	Image         *Image
	ImagePosition string // right (default), left, top

	Cta *Cta

	BackgroundColor       string // white (default), gray, light, dark, custom
	CustomBackgroundColor string
	IsDark                bool
	HasIcon               bool
	TextAlign             string // left (default), center, right
}

func NewContentBlock(p Props) *ContentBlock {
	return &ContentBlock{
		Layout: p.Enum("layout", "text-only", "text-only", "text-image", "quote", "cta-banner"),

		Heading: p.String("heading"),
		Body:    Markdown(p.String("body")),
		Quote:   p.String("quote"),
		Author:  p.String("author"),

		Image:         NewImage(p["image"], p.String("imageAlt")),
		ImagePosition: p.Enum("imagePosition", "right", "left", "right", "top"),

		Cta: NewCta(p.Map("cta")),

		BackgroundColor:       p.Enum("backgroundColor", "white", "white", "gray", "light", "dark", "custom"),
		CustomBackgroundColor: p.String("customBackgroundColor"),
		IsDark:                p.Bool("isDark", false),
		HasIcon:               p.Bool("hasIcon", false),
		TextAlign:             p.Enum("textAlign", "left", "left", "center", "right"),
	}
}

func (*ContentBlock) Kind() Kind { return KindContentBlock }

func (b *ContentBlock) BackgroundClass() string {
	switch b.BackgroundColor {
	case "gray":
		return "bg-gray-50"
	case "light":
		return "bg-secondary-100"
	case "dark":
		if b.IsDark {
			return "bg-primary-500"
		}
		return "bg-secondary-600"
	case "custom":
		return ""
	}
	return "bg-white"
}

func (b *ContentBlock) BackgroundStyle() template.CSS {
	if b.BackgroundColor != "custom" {
		return ""
	}
	return cssColor(b.CustomBackgroundColor)
}

// GridItem is either a stat (Value, Label) or a feature / case study.
type GridItem struct {
	Key         string
	Value       string
	Label       string
	Title       string
	Subtitle    string
	Description string
	Image       *Image
	Logo        *Image
}

func (i GridItem) IsStat() bool {
	return i.Title == "" && (i.Value != "" || i.Label != "")
}

// ContentGrid lays out stats, features or case studies in columns.
type ContentGrid struct {
	Heading    string
	Subheading string
	Items      []GridItem

	TextAlign    string // left (default), center, right
	HeadingAlign string // center (default), left, right

	HasBorder             bool
	HasBackground         bool
	BackgroundColor       string // white (default), gray, green, custom
	CustomBackgroundColor string

	ItemPadding string // medium (default), small, large
	ItemShadow  bool

	Columns string // auto (default), 2, 3, 4
}

func NewContentGrid(p Props) *ContentGrid {
	g := &ContentGrid{
		Heading:    p.String("heading"),
		Subheading: p.String("subheading"),

		TextAlign:    p.Enum("textAlign", "left", "left", "center", "right"),
		HeadingAlign: p.Enum("headingAlign", "center", "left", "center", "right"),

		HasBorder:             p.Bool("hasBorder", false),
		HasBackground:         p.Bool("hasBackground", true),
		BackgroundColor:       p.Enum("backgroundColor", "white", "white", "gray", "green", "custom"),
		CustomBackgroundColor: p.String("customBackgroundColor"),

		ItemPadding: p.Enum("itemPadding", "medium", "small", "medium", "large"),
		ItemShadow:  p.Bool("itemShadow", false),

		Columns: p.Enum("columns", "auto", "auto", "2", "3", "4"),
	}
	for _, it := range p.List("items") {
		g.Items = append(g.Items, GridItem{
			Key:         it.String("_key"),
			Value:       it.String("value"),
			Label:       it.String("label"),
			Title:       it.String("title"),
			Subtitle:    it.String("subtitle"),
			Description: it.String("description"),
			Image:       NewImage(it["image"], it.String("imageAlt")),
			Logo:        NewImage(it["logo"], it.String("logoAlt")),
		})
	}
	return g
}

func (*ContentGrid) Kind() Kind { return KindContentGrid }

// GridClass picks the column layout: explicit columns win, otherwise it
// follows the item count.
func (g *ContentGrid) GridClass() string {
	switch g.Columns {
	case "2":
		return "grid grid-cols-1 md:grid-cols-2 gap-6 lg:gap-8"
	case "3":
		return "grid grid-cols-1 md:grid-cols-2 lg:grid-cols-3 gap-6 lg:gap-8"
	case "4":
		return "grid grid-cols-1 md:grid-cols-2 lg:grid-cols-4 gap-6"
	}
	switch len(g.Items) {
	case 2:
		return "grid grid-cols-1 md:grid-cols-2 gap-8 lg:gap-12"
	case 3:
		return "grid grid-cols-1 md:grid-cols-2 lg:grid-cols-3 gap-6 lg:gap-8"
	}
	return "grid grid-cols-1 md:grid-cols-2 lg:grid-cols-4 gap-6"
}

func (g *ContentGrid) BackgroundClass() string {
	if !g.HasBackground {
		return ""
	}
	switch g.BackgroundColor {
	case "gray":
		return "bg-gray-50"
	case "green":
		return "bg-green-50"
	case "custom":
		return ""
	}
	return "bg-white"
}

func (g *ContentGrid) BackgroundStyle() template.CSS {
	if !g.HasBackground || g.BackgroundColor != "custom" {
		return ""
	}
	return cssColor(g.CustomBackgroundColor)
}

func (g *ContentGrid) PaddingClass() string {
	switch g.ItemPadding {
	case "small":
		return "p-6"
	case "large":
		return "p-10 lg:p-12"
	}
	return "p-8 lg:p-10"
}

// LogoItem is a logo or, in the testimonials layout, a quote card.
type LogoItem struct {
	Key            string
	Logo           *Image
	Name           string
	Quote          string
	AuthorName     string
	AuthorPronouns string
	University     string
	ClassYear      string
}

// LogoCarousel shows partner logos or testimonials.
type LogoCarousel struct {
	Heading     string
	TitleText   string
	Items       []LogoItem
	ShowHeading bool
	LayoutType  string // logos (default), testimonials
}

func NewLogoCarousel(p Props) *LogoCarousel {
	c := &LogoCarousel{
		Heading:     p.String("heading"),
		TitleText:   p.String("titleText"),
		ShowHeading: p.Bool("showHeading", true),
		LayoutType:  p.Enum("layoutType", "logos", "logos", "testimonials"),
	}
	for _, it := range p.List("items") {
		logo := NewImage(it["logo"], it.String("logoAlt"))
		if logo == nil {
			logo = NewImage(it["image"], it.String("imageAlt"))
		}
		if logo != nil && logo.Alt == "" {
			logo.Alt = it.String("name")
		}
		c.Items = append(c.Items, LogoItem{
			Key:            it.String("_key"),
			Logo:           logo,
			Name:           it.String("name"),
			Quote:          it.String("quote"),
			AuthorName:     it.String("authorName"),
			AuthorPronouns: it.String("authorPronouns"),
			University:     it.String("university"),
			ClassYear:      it.String("classYear"),
		})
	}
	return c
}

func (*LogoCarousel) Kind() Kind { return KindLogoCarousel }

func (c *LogoCarousel) Testimonials() bool { return c.LayoutType == "testimonials" }

// MenuItem is a top level navigation entry, either a link or a submenu.
type MenuItem struct {
	Link
	Submenu []Link
}

// NavButton is a call to action in the header.
type NavButton struct {
	Link
	Primary bool
}

// Navigation is the site header.
type Navigation struct {
	Menu       []MenuItem
	CtaButtons []NavButton
}

func NewNavigation(p Props) *Navigation {
	n := &Navigation{}
	for _, it := range p.List("menu") {
		l, ok := newLink(it)
		if !ok {
			continue
		}
		n.Menu = append(n.Menu, MenuItem{Link: l, Submenu: newLinks(it.List("submenu"))})
	}
	for _, it := range p.List("ctaButtons") {
		l, ok := newLink(it)
		if !ok {
			continue
		}
		n.CtaButtons = append(n.CtaButtons, NavButton{Link: l, Primary: it.Bool("isPrimary", false)})
	}
	return n
}

func (*Navigation) Kind() Kind { return KindNavigation }

// FooterColumn is a titled group of links.
type FooterColumn struct {
	Title string
	Links []Link
}

func newFooterColumn(p Props) *FooterColumn {
	if p == nil {
		return nil
	}
	c := &FooterColumn{
		Title: strings.TrimSpace(p.String("title")),
		Links: newLinks(p.List("links")),
	}
	if c.Title == "" && len(c.Links) == 0 {
		return nil
	}
	return c
}

// AppStoreLinks point to the mobile apps.
type AppStoreLinks struct {
	IOS     string
	Android string
}

// Footer is the site footer.
type Footer struct {
	Columns       []FooterColumn
	CompanyColumn *FooterColumn
	Copyright     string
	AppStoreLinks *AppStoreLinks
	LegalLinks    []Link
}

func NewFooter(p Props) *Footer {
	f := &Footer{
		CompanyColumn: newFooterColumn(p.Map("companyColumn")),
		Copyright:     p.String("copyright"),
		LegalLinks:    newLinks(p.List("legalLinks")),
	}
	for _, c := range p.List("columns") {
		if col := newFooterColumn(c); col != nil {
			f.Columns = append(f.Columns, *col)
		}
	}
	if a := p.Map("appStoreLinks"); a != nil {
		links := AppStoreLinks{IOS: a.String("ios"), Android: a.String("android")}
		if links.IOS != "" || links.Android != "" {
			f.AppStoreLinks = &links
		}
	}
	return f
}

func (*Footer) Kind() Kind { return KindFooter }

// Empty reports whether there is nothing worth rendering.
func (f *Footer) Empty() bool {
	return f == nil || (len(f.Columns) == 0 && f.CompanyColumn == nil && f.Copyright == "")
}

func clamp01(f float64) float64 {
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}
