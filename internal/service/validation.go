package service

import (
	"errors"
	"strings"
)

// ErrValidation 输入校验失败的匹配目标（errors.Is）。
var ErrValidation = errors.New("validation failed")

// FieldError 单个字段的校验错误。Key 为 i18n 文案键。
type FieldError struct {
	Field string `json:"field"`
	Key   string `json:"key"`
}

// ValidationError 聚合一次请求的全部字段错误。
type ValidationError struct {
	Fields []FieldError
}

// Error 实现 error
func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return "validation failed"
	}
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.Field)
	}
	return "validation failed: " + strings.Join(names, ", ")
}

// Is 支持 errors.Is(err, ErrValidation)
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func newValidationError(fields ...FieldError) *ValidationError {
	return &ValidationError{Fields: fields}
}
