package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrorKind классифицирует отказ удаленной модели
type ErrorKind string

const (
	KindUnavailable   ErrorKind = "model_unavailable"
	KindSchemaInvalid ErrorKind = "schema_invalid"
	KindTransport     ErrorKind = "transport"
)

// Error - ошибка вызова модели. Все виды ошибок обрабатываются одинаково
// (переход на резервный ответ), но различаются в логах.
type Error struct {
	Kind     ErrorKind
	Provider string
	Err      error
}

func NewError(kind ErrorKind, provider string, err error) *Error {
	return &Error{Kind: kind, Provider: provider, Err: err}
}

func (e *Error) Error() string {
	if e.Provider == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf сводит произвольную ошибку к ErrorKind.
// Дедлайны, отмена контекста и сетевые ошибки считаются транспортными.
func KindOf(err error) ErrorKind {
	var modelErr *Error
	if errors.As(err, &modelErr) {
		return modelErr.Kind
	}
	if isTransport(err) {
		return KindTransport
	}
	return KindUnavailable
}

func isTransport(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// classify заворачивает ошибку клиента провайдера в *Error
func classify(provider string, err error) error {
	var modelErr *Error
	if errors.As(err, &modelErr) {
		return err
	}
	if isTransport(err) {
		return NewError(KindTransport, provider, err)
	}
	return NewError(KindUnavailable, provider, err)
}
