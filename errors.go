package glubsite

import (
	"fmt"
	"strings"
)

// MissingTypeError is returned for a section without a type.
type MissingTypeError struct {
	Key string
}

func (e *MissingTypeError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("section %q: missing type", e.Key)
	}
	return "section without type"
}

// UnknownTypeError is returned for a section whose canonical type has no
// registered component.
type UnknownTypeError struct {
	Type      string
	Canonical string
	Known     []string
}

func (e *UnknownTypeError) Error() string {
	name := e.Type
	if e.Canonical != e.Type {
		name = fmt.Sprintf("%s (%s)", e.Type, e.Canonical)
	}
	return fmt.Sprintf("no component registered for section type %s, known types: %s",
		name, strings.Join(e.Known, ", "))
}

// GlobalContentFetchError is returned when navigation or footer could not
// be fetched.
type GlobalContentFetchError struct {
	Document string
	Err      error
}

func (e *GlobalContentFetchError) Error() string {
	return fmt.Sprintf("fetching global %s: %v", e.Document, e.Err)
}

func (e *GlobalContentFetchError) Unwrap() error { return e.Err }
func (e *GlobalContentFetchError) Cause() error  { return e.Err }

// PageNotFoundError is returned when no page exists for a path and locale.
type PageNotFoundError struct {
	Path   string
	Locale string
}

func (e *PageNotFoundError) Error() string {
	if e.Locale == "" {
		return fmt.Sprintf("page %q not found", e.Path)
	}
	return fmt.Sprintf("page %q not found for locale %s", e.Path, e.Locale)
}
