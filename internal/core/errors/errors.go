package errors

import (
	"errors"
	"fmt"
)

type ErrorCode string

const (
	CodeConfigNotFound   ErrorCode = "CONFIG_NOT_FOUND"
	CodeConfigParse      ErrorCode = "CONFIG_PARSE"
	CodeConfigValidation ErrorCode = "CONFIG_VALIDATION"
	CodeModuleValidation ErrorCode = "MODULE_VALIDATION"
	CodeTreeBuild        ErrorCode = "TREE_BUILD"
	CodeFileIO           ErrorCode = "FILE_IO"
	CodePathResolution   ErrorCode = "PATH_RESOLUTION"
	CodeExclusion        ErrorCode = "EXCLUSION"
	CodeEditFailed       ErrorCode = "EDIT_FAILED"
	CodeInterrupted      ErrorCode = "INTERRUPTED"
	CodeInternal         ErrorCode = "INTERNAL_ERROR"
)

type DomainError struct {
	Code    ErrorCode
	Message string
	Err     error
	Context map[string]interface{}
}

const (
	CtxPath       = "path"
	CtxModule     = "module"
	CtxPattern    = "pattern"
	CtxSourceRoot = "source_root"
	CtxOperation  = "operation"
)

func (e *DomainError) WithContext(key string, value interface{}) *DomainError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

func (e *DomainError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if len(e.Context) > 0 {
		msg += fmt.Sprintf(" %v", e.Context)
	}
	return msg
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func New(code ErrorCode, msg string) error {
	return &DomainError{Code: code, Message: msg}
}

func Wrap(err error, code ErrorCode, msg string) error {
	return &DomainError{Code: code, Message: msg, Err: err}
}

func AddContext(err error, key string, value interface{}) error {
	var de *DomainError
	if errors.As(err, &de) {
		de.WithContext(key, value)
		return de
	}
	return &DomainError{
		Code:    CodeInternal,
		Message: "wrapped error",
		Err:     err,
		Context: map[string]interface{}{key: value},
	}
}

func IsCode(err error, code ErrorCode) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}
