package timeline

import (
	"errors"
	"fmt"
	"strconv"
)

// Error is the structured error type shared by the whole engine.
//
// Every failure surfaced to callers carries a stable code for
// programmatic handling, a category for routing, a human-readable
// message, and optional context key/values (clip IDs, file names,
// frame indices). Recoverable distinguishes failures the engine can
// skip past from failures that abort the current operation.
type Error struct {
	// Code identifies the exact failure. Stable across releases.
	Code Code

	// Category groups codes by subsystem.
	Category Category

	// Message is a human-readable description.
	Message string

	// Context carries additional identifiers for diagnostics.
	Context map[string]string

	// Recoverable is true when the engine may continue past the
	// failure (skip the clip, keep the remaining artifacts).
	Recoverable bool

	// Err is the wrapped cause, if any.
	Err error
}

// Category groups error codes by subsystem.
type Category string

const (
	CategoryAudio      Category = "audio"
	CategoryExport     Category = "export"
	CategoryValidation Category = "validation"
	CategoryFile       Category = "file"
)

// Code identifies an exact failure condition.
type Code string

const (
	// Audio codes.
	ErrCodeDecodeFailed      Code = "AUDIO_DECODE_FAILED"
	ErrCodePlaybackFailed    Code = "AUDIO_PLAYBACK_FAILED"
	ErrCodeCaptureFailed     Code = "AUDIO_CAPTURE_FAILED"
	ErrCodeDeviceUnavailable Code = "AUDIO_DEVICE_UNAVAILABLE"

	// Export codes.
	ErrCodeEncoderUnavailable Code = "EXPORT_ENCODER_UNAVAILABLE"
	ErrCodeFrameRenderFailed  Code = "EXPORT_FRAME_RENDER_FAILED"
	ErrCodeMuxFailed          Code = "EXPORT_MUX_FAILED"
	ErrCodeExportInProgress   Code = "EXPORT_IN_PROGRESS"
	ErrCodeExportCancelled    Code = "EXPORT_CANCELLED"

	// Validation codes.
	ErrCodeValueOutOfRange Code = "VALUE_OUT_OF_RANGE"
	ErrCodeInvalidEnum     Code = "INVALID_ENUM"
	ErrCodeNameTooLong     Code = "NAME_TOO_LONG"
	ErrCodeInvalidColor    Code = "INVALID_COLOR"
	ErrCodeClipOverlap     Code = "CLIP_OVERLAP"
	ErrCodeInvalidSplit    Code = "INVALID_SPLIT_POINT"
	ErrCodeInvalidTake     Code = "INVALID_TAKE"
	ErrCodeNotFound        Code = "NOT_FOUND"

	// File codes.
	ErrCodeUnsupportedFile Code = "FILE_UNSUPPORTED_TYPE"
	ErrCodeFileRead        Code = "FILE_READ_FAILED"
	ErrCodeFileWrite       Code = "FILE_WRITE_FAILED"
)

// Error implements the error interface.
func (e *Error) Error() string {
	if len(e.Context) > 0 {
		if id, ok := e.Context["clip_id"]; ok {
			return fmt.Sprintf("%s: %s (clip=%s)", e.Code, e.Message, id)
		}
		if path, ok := e.Context["path"]; ok {
			return fmt.Sprintf("%s: %s (path=%s)", e.Code, e.Message, path)
		}
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithCause attaches a wrapped cause and returns the error.
func (e *Error) WithCause(err error) *Error {
	e.Err = err
	return e
}

// WithContext adds a context key/value and returns the error.
func (e *Error) WithContext(key, value string) *Error {
	if e.Context == nil {
		e.Context = make(map[string]string)
	}
	e.Context[key] = value
	return e
}

// NewValidationError creates a recoverable validation error.
// Validation failures reject the mutation before any state changes.
func NewValidationError(code Code, message string, context map[string]string) *Error {
	return &Error{
		Code:        code,
		Category:    CategoryValidation,
		Message:     message,
		Context:     context,
		Recoverable: true,
	}
}

// NewAudioError creates an audio subsystem error. Audio failures are
// recoverable: the affected clip stays silent and playback continues.
func NewAudioError(code Code, message string, context map[string]string) *Error {
	return &Error{
		Code:        code,
		Category:    CategoryAudio,
		Message:     message,
		Context:     context,
		Recoverable: true,
	}
}

// NewExportError creates an export pipeline error. Recoverable controls
// whether the pipeline skips the failing item or aborts.
func NewExportError(code Code, message string, recoverable bool, context map[string]string) *Error {
	return &Error{
		Code:        code,
		Category:    CategoryExport,
		Message:     message,
		Context:     context,
		Recoverable: recoverable,
	}
}

// NewFileError creates a file handling error.
func NewFileError(code Code, message string, context map[string]string) *Error {
	return &Error{
		Code:        code,
		Category:    CategoryFile,
		Message:     message,
		Context:     context,
		Recoverable: true,
	}
}

// IsValidationError reports whether err is a validation-category Error.
// Uses errors.As to handle wrapped errors.
func IsValidationError(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Category == CategoryValidation
	}
	return false
}

// IsRecoverable reports whether err permits the engine to continue.
// Non-Error values are treated as non-recoverable.
func IsRecoverable(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Recoverable
	}
	return false
}

// CodeOf extracts the stable code from err, or "" for foreign errors.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsNotFound reports whether err is a missing-entity error.
func IsNotFound(err error) bool {
	return CodeOf(err) == ErrCodeNotFound
}

// NewNotFoundError creates the standard missing-entity error.
func NewNotFoundError(entity, id string) *Error {
	return NewValidationError(ErrCodeNotFound, fmt.Sprintf("%s not found", entity), map[string]string{
		"entity": entity,
		"id":     id,
	})
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
