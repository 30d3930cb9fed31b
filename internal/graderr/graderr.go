// Package graderr defines the grading engine's error type: a tagged kind,
// a human message, and enough addressing (file path, K-map id) to point a
// report straight at the offending artifact. It mirrors the teacher
// language's SentraError shape, generalized from source-location addressing
// to save-file addressing.
package graderr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies what about a save file failed to grade cleanly.
type Kind string

const (
	KindRead       Kind = "ReadError"
	KindStructure  Kind = "StructureError"
	KindDiagram    Kind = "DiagramError"
	KindTable      Kind = "TableError"
	KindKMap       Kind = "KMapError"
	KindExpression Kind = "ExpressionError"
)

// GradeError is a single addressable grading failure.
type GradeError struct {
	Kind    Kind
	Message string
	File    string
	KMapID  string
	cause   error
}

func (e *GradeError) Error() string {
	if e.KMapID != "" {
		return fmt.Sprintf("%s: %s (file %s, kmap %s)", e.Kind, e.Message, e.File, e.KMapID)
	}
	if e.File != "" {
		return fmt.Sprintf("%s: %s (file %s)", e.Kind, e.Message, e.File)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *GradeError) Unwrap() error { return e.cause }

// New builds a bare GradeError of the given kind.
func New(kind Kind, file, message string) *GradeError {
	return &GradeError{Kind: kind, Message: message, File: file}
}

// Wrap attaches a GradeError's context to an underlying cause, preserving
// it for errors.Is/As via Unwrap and prefixing its stack via pkg/errors.
func Wrap(kind Kind, file string, cause error, message string) *GradeError {
	return &GradeError{Kind: kind, Message: message, File: file, cause: errors.WithMessage(cause, message)}
}

// WithKMap annotates a GradeError with the K-map it was raised for.
func (e *GradeError) WithKMap(id string) *GradeError {
	e.KMapID = id
	return e
}
