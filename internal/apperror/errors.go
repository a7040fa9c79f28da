package apperror

import (
	"errors"
	"fmt"
)

// Kind классифицирует ошибку для вызывающей стороны
type Kind string

const (
	KindValidation Kind = "validation"
	KindNotFound   Kind = "not_found"
	KindConflict   Kind = "conflict"
	KindDependency Kind = "dependency"
)

// Эталонные ошибки для errors.Is, сравнение только по Kind
var (
	ErrValidation = &Error{Kind: KindValidation}
	ErrNotFound   = &Error{Kind: KindNotFound}
	ErrConflict   = &Error{Kind: KindConflict}
	ErrDependency = &Error{Kind: KindDependency}
)

// KeyValue - пара ключ/значение, прикрепленная к ошибке
type KeyValue struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Error - типизированная ошибка, которую ядро возвращает вызывающей стороне
type Error struct {
	Kind    Kind       `json:"kind"`
	Message string     `json:"message"`
	Err     error      `json:"-"`
	Context []KeyValue `json:"context,omitempty"`
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return e.Message + ": " + e.Err.Error()
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	}
	return string(e.Kind) + " error"
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is сообщает, является ли target ошибкой *Error того же Kind
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// WithContext возвращает копию ошибки с дополнительным контекстом
func (e *Error) WithContext(key, value string) *Error {
	if e == nil {
		return nil
	}
	newErr := &Error{
		Kind:    e.Kind,
		Message: e.Message,
		Err:     e.Err,
		Context: make([]KeyValue, len(e.Context), len(e.Context)+1),
	}
	copy(newErr.Context, e.Context)
	newErr.Context = append(newErr.Context, KeyValue{Key: key, Value: value})
	return newErr
}

// Value возвращает значение контекста по ключу
func (e *Error) Value(key string) (string, bool) {
	for _, kv := range e.Context {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return "", false
}

func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// Dependency оборачивает сбой внешней зависимости (хранилище, канал доставки)
func Dependency(err error, format string, args ...any) *Error {
	return &Error{Kind: KindDependency, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf извлекает Kind первой *Error в цепочке
func KindOf(err error) (Kind, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind, true
	}
	return "", false
}

// ValueOf возвращает значение контекста первой *Error в цепочке
func ValueOf(err error, key string) (string, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Value(key)
	}
	return "", false
}
