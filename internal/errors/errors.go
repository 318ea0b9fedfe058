// Package errors provides the service's error taxonomy: standard library
// compatibility (Is/As/New) plus a builder for categorized errors carrying
// component and context metadata.
package errors

import (
	"errors"
	"fmt"
	"maps"
	"strings"
)

// Category classifies an error for handling and reporting decisions.
type Category string

const (
	CategoryValidation   Category = "validation"
	CategoryNetwork      Category = "network"
	CategoryNotFound     Category = "not-found"
	CategoryDataParse    Category = "data-parse"
	CategoryUnavailable  Category = "unavailable"
	CategoryConfig       Category = "configuration"
	CategoryCacheStorage Category = "cache-storage"
)

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool { return errors.Is(err, target) }

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool { return errors.As(err, target) }

// New returns an error that formats as the given text.
func New(text string) error { return errors.New(text) }

// Error is a categorized error with component and key/value context.
type Error struct {
	msg       string
	cause     error
	component string
	category  Category
	context   map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.msg)
	if e.cause != nil {
		b.WriteString(": ")
		b.WriteString(e.cause.Error())
	}
	return b.String()
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *Error) Unwrap() error { return e.cause }

// GetCategory returns the error's category.
func (e *Error) GetCategory() Category { return e.category }

// GetComponent returns the component that produced the error.
func (e *Error) GetComponent() string { return e.component }

// GetContext returns a copy of the error's context map.
func (e *Error) GetContext() map[string]any {
	if e.context == nil {
		return nil
	}
	return maps.Clone(e.context)
}

// Builder assembles an *Error fluently.
type Builder struct {
	err *Error
}

// Newf starts a builder with a formatted message.
func Newf(format string, args ...any) *Builder {
	return &Builder{err: &Error{msg: fmt.Sprintf(format, args...)}}
}

// Wrap starts a builder around an existing cause.
func Wrap(cause error, msg string) *Builder {
	return &Builder{err: &Error{msg: msg, cause: cause}}
}

// Component records the component the error originated from.
func (b *Builder) Component(name string) *Builder {
	b.err.component = name
	return b
}

// Category records the error's category.
func (b *Builder) Category(c Category) *Builder {
	b.err.category = c
	return b
}

// Context attaches a key/value pair to the error.
func (b *Builder) Context(key string, value any) *Builder {
	if b.err.context == nil {
		b.err.context = make(map[string]any)
	}
	b.err.context[key] = value
	return b
}

// Build finalizes the error.
func (b *Builder) Build() error { return b.err }

// CategoryOf returns the category of err if it is a categorized *Error
// anywhere in its chain, or the empty category otherwise.
func CategoryOf(err error) Category {
	var e *Error
	if errors.As(err, &e) {
		return e.category
	}
	return ""
}
