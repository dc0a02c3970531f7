// Package errors defines the bundler's error kinds (spec.md §5): a fixed
// small set of Kinds, carrying the source location the way sentra's
// SentraError does, so the error text can show a caret-pointed source
// line instead of a bare Go error string. The relative-import resolver
// returns these; the other stages report failures as plain Go errors.
package errors

import (
	"fmt"
	"strings"
)

// Kind identifies the category of a BundleError.
type Kind string

const (
	ParseError             Kind = "ParseError"
	ResolveError           Kind = "ResolveError"
	InvalidRelativeImport  Kind = "InvalidRelativeImport"
	CycleDetected          Kind = "CycleDetected"
	MissingExport          Kind = "MissingExport"
	UnsupportedInlineImport Kind = "UnsupportedInlineImport"
)

// Location pinpoints where in a module an error occurred.
type Location struct {
	File   string
	Line   int
	Column int
}

// BundleError is a categorized bundling error with an optional location.
type BundleError struct {
	Kind     Kind
	Message  string
	Location Location
	Source   string // the source line the error refers to, if known
}

// Error implements the error interface, formatting a caret under the
// offending column when both a source line and a column are known.
func (e *BundleError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s: %s", e.Kind, e.Message))
	if e.Location.File != "" {
		sb.WriteString(fmt.Sprintf("\n  at %s:%d:%d", e.Location.File, e.Location.Line, e.Location.Column))
		if e.Source != "" {
			sb.WriteString(fmt.Sprintf("\n\n  %d | %s\n", e.Location.Line, e.Source))
			pad := len(fmt.Sprintf("  %d | ", e.Location.Line))
			sb.WriteString(strings.Repeat(" ", pad))
			if e.Location.Column > 0 {
				sb.WriteString(strings.Repeat(" ", e.Location.Column-1))
			}
			sb.WriteString("^")
		}
	}
	return sb.String()
}

// New builds a BundleError with no location attached.
func New(kind Kind, message string) *BundleError {
	return &BundleError{Kind: kind, Message: message}
}

// Newf builds a BundleError from a format string, for callers (like the
// relative-import resolver) that have no file/line to attach yet.
func Newf(kind Kind, format string, args ...interface{}) *BundleError {
	return &BundleError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// At attaches a source location to the error, returning e for chaining.
func (e *BundleError) At(file string, line, column int) *BundleError {
	e.Location = Location{File: file, Line: line, Column: column}
	return e
}

// WithSource attaches the literal source line the error refers to.
func (e *BundleError) WithSource(source string) *BundleError {
	e.Source = source
	return e
}
