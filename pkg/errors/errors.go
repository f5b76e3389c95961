package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"
	ErrPermission   ErrorCode = "PERMISSION"

	// Precondition errors
	ErrPreflight ErrorCode = "PREFLIGHT"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"

	// Profile errors
	ErrProfileRead  ErrorCode = "PROFILE_READ"
	ErrProfileWrite ErrorCode = "PROFILE_WRITE"

	// Theme errors
	ErrThemeNotFound ErrorCode = "THEME_NOT_FOUND"
	ErrThemeParse    ErrorCode = "THEME_PARSE"
	ErrThemeWrite    ErrorCode = "THEME_WRITE"

	// Settings errors
	ErrSettingsNotFound ErrorCode = "SETTINGS_NOT_FOUND"
	ErrSettingsParse    ErrorCode = "SETTINGS_PARSE"
	ErrSettingsShape    ErrorCode = "SETTINGS_SHAPE"
	ErrSettingsWrite    ErrorCode = "SETTINGS_WRITE"

	// Backup errors
	ErrBackupCreate ErrorCode = "BACKUP_CREATE"

	// WSL errors
	ErrDistroList ErrorCode = "DISTRO_LIST"

	// FileSystem errors
	ErrFileNotFound ErrorCode = "FILE_NOT_FOUND"
	ErrFileAccess   ErrorCode = "FILE_ACCESS"
	ErrFileWrite    ErrorCode = "FILE_WRITE"
	ErrDirCreate    ErrorCode = "DIR_CREATE"
)

// TermcwdError represents a structured error with code and details
type TermcwdError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *TermcwdError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *TermcwdError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *TermcwdError) Is(target error) bool {
	var targetErr *TermcwdError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new TermcwdError with the given code and message
func New(code ErrorCode, message string) *TermcwdError {
	return &TermcwdError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new TermcwdError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *TermcwdError {
	return &TermcwdError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a TermcwdError
func Wrap(err error, code ErrorCode, message string) *TermcwdError {
	if err == nil {
		return nil
	}
	return &TermcwdError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *TermcwdError {
	if err == nil {
		return nil
	}
	return &TermcwdError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *TermcwdError) WithDetail(key string, value interface{}) *TermcwdError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var terr *TermcwdError
	if errors.As(err, &terr) {
		return terr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a TermcwdError
func GetErrorCode(err error) ErrorCode {
	var terr *TermcwdError
	if errors.As(err, &terr) {
		return terr.Code
	}
	return ErrUnknown
}
