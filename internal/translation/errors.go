package translation

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNotFound means no translation row satisfies the lookup.
	ErrNotFound = errors.New("translation not found")
	// ErrNoSourceTranslation means an article has neither an en nor a th row.
	ErrNoSourceTranslation = errors.New("article has no source translation")
	// ErrUnsupportedLocale is returned before any store access.
	ErrUnsupportedLocale = errors.New("unsupported locale")
)

// EngineError is a translation engine failure. No row is written when it is
// returned from ResolveExact.
type EngineError struct {
	Provider  string
	Message   string
	Cause     error
	Retryable bool
}

func (e *EngineError) Error() string {
	prefix := "engine error"
	if e.Provider != "" {
		prefix = fmt.Sprintf("engine error (%s)", e.Provider)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

func (e *EngineError) Unwrap() error {
	return e.Cause
}

// StoreError is a persistence failure from a Store adapter.
type StoreError struct {
	Op    string
	Cause error
}

func (e *StoreError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("store error: %s: %v", e.Op, e.Cause)
	}
	return fmt.Sprintf("store error: %s", e.Op)
}

func (e *StoreError) Unwrap() error {
	return e.Cause
}

// IsRetryable reports whether err is an engine failure worth another attempt.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var engineErr *EngineError
	if errors.As(err, &engineErr) {
		return engineErr.Retryable
	}
	return false
}

func asEngineError(provider string, err error) error {
	if err == nil {
		return nil
	}
	var engineErr *EngineError
	if errors.As(err, &engineErr) {
		return err
	}
	return &EngineError{Provider: provider, Message: "translate", Cause: err}
}

func asStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	var storeErr *StoreError
	if errors.As(err, &storeErr) {
		return err
	}
	return &StoreError{Op: op, Cause: err}
}
