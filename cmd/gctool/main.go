package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/pkg/errors"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

type section struct {
	Type    string `yaml:"_type"`
	Key     string `yaml:"_key"`
	Heading string `yaml:"heading"`
}

type pageDoc struct {
	Title    string    `yaml:"title"`
	Slug     string    `yaml:"slug"`
	Sections []section `yaml:"sections"`
}

var umlauts = strings.NewReplacer(
	"ä", "ae",
	"ö", "oe",
	"ü", "ue",
	"ß", "ss")

func delspace(r rune) rune {
	if unicode.In(r, unicode.Latin, unicode.Digit) {
		return r
	}
	return '-'
}

// slugify turns a title into a URL path segment.
func slugify(title string) string {
	s := umlauts.Replace(strings.ToLower(strings.TrimSpace(title)))
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if r, _, err := transform.String(t, s); err == nil {
		s = r
	}
	s = strings.Map(delspace, s)
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	return strings.Trim(s, "-")
}

func newPage(title, slug, sectionType string) pageDoc {
	return pageDoc{
		Title: title,
		Slug:  "/" + strings.Trim(slug, "/"),
		Sections: []section{{
			Type:    sectionType,
			Key:     strings.ToLower(sectionType),
			Heading: title,
		}},
	}
}

func encode(p pageDoc) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(p); err != nil {
		return nil, errors.Wrap(err, "encoding page")
	}
	return buf.Bytes(), enc.Close()
}

// pageFile is the document path of slug below the content root.
func pageFile(content, locale, slug string) string {
	name := strings.ReplaceAll(strings.Trim(slug, "/"), "/", "_")
	if name == "" {
		name = "home"
	}
	return filepath.Join(content, "pages", locale, name+".yaml")
}

func writeNew(name string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(name), 0755); err != nil {
		return errors.Wrapf(err, "creating directory for %q", name)
	}
	f, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return errors.Wrapf(err, "creating %q", name)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return errors.Wrapf(err, "writing %q", name)
	}
	return f.Close()
}

func main() {
	title := flag.String("title", "New Page", "Set the title")
	slug := flag.String("slug", "", "Set the slug, derived from the title by default")
	locale := flag.String("locale", "en-GB", "Set the locale, empty for all locales")
	content := flag.String("content", ".", "path to the content root")
	sectionType := flag.String("section", "Hero", "Type of the starter section")
	drafts := flag.Bool("draft", false, "Create the page as draft")
	simulate := flag.Bool("n", false, "Only show the result")
	edit := flag.Bool("e", false, "Open vim to edit the file")
	flag.Parse()

	if *slug == "" {
		*slug = slugify(*title)
	}
	root := *content
	if *drafts {
		root = filepath.Join(root, "drafts")
	}

	b, err := encode(newPage(*title, *slug, *sectionType))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	name := pageFile(root, *locale, *slug)

	if !*simulate {
		if err := writeNew(name, b); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	fmt.Println(name)
	fmt.Print(string(b))

	if *edit && !*simulate {
		vimpath, err := exec.LookPath("vim")
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		cmd := exec.Command(vimpath, name)
		cmd.Stdin = os.Stdin
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}
