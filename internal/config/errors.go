package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// ErrValidationFailed is matched by every *ValidationError.
var ErrValidationFailed = errors.New("validation failed")

// ParseError is a TOML document that could not be decoded into a Config.
// Line and Column are 1-based and zero when the decoder gave no position.
type ParseError struct {
	Source string
	Line   int
	Column int
	Err    error

	detail string
}

func newParseError(source string, err error) *ParseError {
	pe := &ParseError{Source: source, Err: err, detail: err.Error()}

	var strict *toml.StrictMissingError
	var decode *toml.DecodeError
	switch {
	case errors.As(err, &strict) && len(strict.Errors) > 0:
		first := strict.Errors[0]
		pe.Line, pe.Column = first.Position()
		pe.detail = "unknown setting " + strings.Join(first.Key(), ".")
	case errors.As(err, &decode):
		pe.Line, pe.Column = decode.Position()
	}
	return pe
}

func (e *ParseError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("%s: %s", e.Source, e.detail)
	}
	return fmt.Sprintf("%s:%d:%d: %s", e.Source, e.Line, e.Column, e.detail)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ValidationError names a setting whose value is out of range.
type ValidationError struct {
	Setting string // dotted, e.g. "history.capacity"
	Problem string
}

func (e *ValidationError) Error() string {
	return e.Setting + " " + e.Problem
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidationFailed }
