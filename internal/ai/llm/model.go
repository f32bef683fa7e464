// Package llm содержит клиенты удаленных языковых моделей.
// Клиент делает ровно один запрос на вызов Generate, без повторов:
// решение о резервном ответе принимает вызывающая сторона.
package llm

import (
	"context"
	"errors"
)

// Schema - независимое от провайдера описание JSON-схемы ответа
type Schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Required    []string           `json:"required,omitempty"`
}

// Request - подготовленный запрос к модели
type Request struct {
	System string
	User   string
	Schema *Schema
}

// Model возвращает сырой JSON-текст ответа модели
type Model interface {
	Generate(ctx context.Context, req Request) (string, error)
	Name() string
}

// Disabled используется, когда ключ API не настроен: каждый вызов
// сразу завершается KindUnavailable, и ассистент работает в деградированном режиме.
type Disabled struct{}

func (Disabled) Name() string { return "disabled" }

func (Disabled) Generate(ctx context.Context, req Request) (string, error) {
	return "", NewError(KindUnavailable, "disabled", errors.New("no model configured"))
}
