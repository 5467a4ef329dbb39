package core

import (
	"errors"
	"fmt"
)

// ErrorKind classifies store failures so the HTTP layer can map them to
// status codes without inspecting message text.
type ErrorKind int

const (
	KindStorage ErrorKind = iota
	KindValidation
	KindNotFound
	KindForbidden
	KindStateConflict
)

type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewValidation(format string, args ...any) error {
	return &AppError{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NewNotFound(format string, args ...any) error {
	return &AppError{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func NewForbidden(format string, args ...any) error {
	return &AppError{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

func NewStateConflict(format string, args ...any) error {
	return &AppError{Kind: KindStateConflict, Message: fmt.Sprintf(format, args...)}
}

// WrapStorage tags an underlying database error. The raw error is kept for
// server-side logging but never shown to clients.
func WrapStorage(message string, err error) error {
	return &AppError{Kind: KindStorage, Message: message, Err: err}
}

// KindOf returns the classification of err, defaulting to KindStorage for
// anything untyped (a raw gorm/driver error).
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindStorage
}

// MessageOf returns the client-safe message for err.
func MessageOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
