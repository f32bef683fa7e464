package llm

import (
	"context"
	"fmt"
)

const (
	ProviderGemini  = providerGemini
	ProviderMistral = providerMistral
)

type ProviderConfig struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string
}

// New выбирает клиента по имени провайдера.
// Без ключа возвращается Disabled: ассистент работает только на резервных ответах.
func New(ctx context.Context, pc ProviderConfig) (Model, error) {
	if pc.APIKey == "" {
		return Disabled{}, nil
	}

	switch pc.Provider {
	case ProviderGemini, "":
		var opts []GeminiOption
		if pc.BaseURL != "" {
			opts = append(opts, WithGeminiBaseURL(pc.BaseURL))
		}
		client, err := NewGeminiClient(ctx, pc.APIKey, pc.Model, opts...)
		if err != nil {
			return nil, err
		}
		return client, nil
	case ProviderMistral:
		return NewMistralClient(pc.APIKey, pc.Model, pc.BaseURL), nil
	default:
		return nil, fmt.Errorf("unknown model provider %q", pc.Provider)
	}
}
