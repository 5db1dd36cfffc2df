package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrActionKind indicates an action was added under a kind other than test_step or test_result.
	ErrActionKind = errors.New("unknown action kind")
	// ErrActionClash indicates a second payload of the same kind arrived for one action id.
	ErrActionClash = errors.New("action clash")
	// ErrDocumentStructure indicates a request the document cannot satisfy, such as a missing section.
	ErrDocumentStructure = errors.New("document structure error")
)

// CaseDocError is the base error type with context.
type CaseDocError struct {
	Phase      string // "config", "scan", "read", "parse", "build", "render", "export", "template", "write"
	File       string
	LineNumber int
	Message    string
	Suggestion string
	Cause      error
}

func (e *CaseDocError) Error() string {
	s := fmt.Sprintf("[%s]", e.Phase)
	if e.File != "" {
		s += fmt.Sprintf(" %s", e.File)
	}
	if e.LineNumber > 0 {
		s += fmt.Sprintf(":%d", e.LineNumber)
	}
	s += fmt.Sprintf(": %s", e.Message)
	if e.Cause != nil {
		s += fmt.Sprintf(": %v", e.Cause)
	}
	if e.Suggestion != "" {
		s += fmt.Sprintf(" (hint: %s)", e.Suggestion)
	}
	return s
}

func (e *CaseDocError) Unwrap() error {
	return e.Cause
}

// NewError creates a new CaseDocError.
func NewError(phase, file string, line int, message string, cause error) *CaseDocError {
	return &CaseDocError{
		Phase:      phase,
		File:       file,
		LineNumber: line,
		Message:    message,
		Cause:      cause,
	}
}

// NewErrorWithSuggestion creates a CaseDocError carrying a hint for the user.
func NewErrorWithSuggestion(phase, file string, line int, message, suggestion string, cause error) *CaseDocError {
	err := NewError(phase, file, line, message, cause)
	err.Suggestion = suggestion
	return err
}

// ActionKindError reports an add with a kind outside the recognized pair.
type ActionKindError struct {
	Kind string
}

func (e *ActionKindError) Error() string {
	return fmt.Sprintf("%v: %q (expected test_step or test_result)", ErrActionKind, e.Kind)
}

func (e *ActionKindError) Is(target error) bool {
	return target == ErrActionKind
}

// ActionClashError reports a payload that would replace an existing one.
type ActionClashError struct {
	ID   int
	Kind string
}

func (e *ActionClashError) Error() string {
	return fmt.Sprintf("%v: %s %d is already defined", ErrActionClash, e.Kind, e.ID)
}

func (e *ActionClashError) Is(target error) bool {
	return target == ErrActionClash
}

// DocumentStructureError reports a missing section or an unsupported export setting.
type DocumentStructureError struct {
	Message string
}

func (e *DocumentStructureError) Error() string {
	return fmt.Sprintf("%v: %s", ErrDocumentStructure, e.Message)
}

func (e *DocumentStructureError) Is(target error) bool {
	return target == ErrDocumentStructure
}
