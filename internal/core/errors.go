package core

import (
	"errors"
	"fmt"
)

var (
	// ErrParse marks bad command input. Nothing from a rejected parse is executed.
	ErrParse               = errors.New("parse error")
	ErrUnsupportedTag      = fmt.Errorf("%w: unsupported part-of-speech", ErrParse)
	ErrUnsupportedLanguage = fmt.Errorf("%w: unsupported language", ErrParse)

	ErrSourceUnavailable = errors.New("source unavailable")
	ErrIO                = errors.New("io error")
	ErrModelUnavailable  = errors.New("model unavailable")

	// ErrNoInput is returned when a configuration names neither a source nor literal text.
	ErrNoInput = errors.New("no input text or source given")
)

// ModelUnavailableError is returned when an annotator cannot be constructed.
// Remediation tells the user what to change before running again.
type ModelUnavailableError struct {
	Model       string
	Remediation string
	Err         error
}

func (e *ModelUnavailableError) Error() string {
	msg := fmt.Sprintf("model %q unavailable", e.Model)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Remediation != "" {
		msg += " (" + e.Remediation + ")"
	}
	return msg
}

func (e *ModelUnavailableError) Unwrap() error { return e.Err }

func (e *ModelUnavailableError) Is(target error) bool { return target == ErrModelUnavailable }
