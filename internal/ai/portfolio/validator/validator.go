package validator

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Jamolkhon5/portfolio/internal/ai/llm"
	"github.com/Jamolkhon5/portfolio/internal/ai/portfolio/models"
)

type rawSuggestion struct {
	ID       *string `json:"id"`
	Title    *string `json:"title"`
	Employer *string `json:"employer"`
	Summary  *string `json:"summary"`
}

type rawAssistantOutput struct {
	Response          *string          `json:"response"`
	SuggestedProjects []*rawSuggestion `json:"suggestedProjects"`
}

type rawRecommendationOutput struct {
	ProjectIDs *[]*string `json:"projectIds"`
}

// ValidateAssistantOutput проверяет ответ модели на соответствие схеме.
// Любое несоответствие - ошибка всего вызова, частичное восстановление не допускается.
func ValidateAssistantOutput(provider, raw string) (models.ModelOutput, error) {
	var out rawAssistantOutput
	if err := decode(raw, &out); err != nil {
		return models.ModelOutput{}, invalid(provider, err)
	}

	if err := validateResponse(out.Response); err != nil {
		return models.ModelOutput{}, invalid(provider, err)
	}

	result := models.ModelOutput{
		Response:          *out.Response,
		SuggestedProjects: make([]models.SuggestedProject, 0, len(out.SuggestedProjects)),
	}
	for i, s := range out.SuggestedProjects {
		p, err := validateSuggestion(s)
		if err != nil {
			return models.ModelOutput{}, invalid(provider, fmt.Errorf("suggestedProjects[%d]: %w", i, err))
		}
		result.SuggestedProjects = append(result.SuggestedProjects, p)
	}

	return result, nil
}

// ValidateRecommendationOutput проверяет ответ подбора кейсов и возвращает список id
func ValidateRecommendationOutput(provider, raw string) ([]string, error) {
	var out rawRecommendationOutput
	if err := decode(raw, &out); err != nil {
		return nil, invalid(provider, err)
	}
	if out.ProjectIDs == nil {
		return nil, invalid(provider, errors.New("projectIds is required"))
	}

	ids := make([]string, 0, len(*out.ProjectIDs))
	for i, id := range *out.ProjectIDs {
		if id == nil || strings.TrimSpace(*id) == "" {
			return nil, invalid(provider, fmt.Errorf("projectIds[%d] is empty", i))
		}
		ids = append(ids, *id)
	}
	return ids, nil
}

func validateResponse(response *string) error {
	if response == nil {
		return errors.New("response is required")
	}
	if strings.TrimSpace(*response) == "" {
		return errors.New("response is empty")
	}
	return nil
}

func validateSuggestion(s *rawSuggestion) (models.SuggestedProject, error) {
	if s == nil {
		return models.SuggestedProject{}, errors.New("entry is null")
	}
	if s.ID == nil || strings.TrimSpace(*s.ID) == "" {
		return models.SuggestedProject{}, errors.New("id is required")
	}
	if s.Title == nil || s.Employer == nil || s.Summary == nil {
		return models.SuggestedProject{}, errors.New("title, employer and summary are required")
	}
	return models.SuggestedProject{
		ID:       *s.ID,
		Title:    *s.Title,
		Employer: *s.Employer,
		Summary:  *s.Summary,
	}, nil
}

func decode(raw string, v interface{}) error {
	clean := CleanJSON(raw)
	if clean == "" {
		return errors.New("empty output")
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(clean)))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("malformed output: %w", err)
	}
	if dec.More() {
		return errors.New("trailing data after JSON object")
	}
	return nil
}

func invalid(provider string, err error) error {
	return llm.NewError(llm.KindSchemaInvalid, provider, err)
}

const jsonFence = "```json"

// CleanJSON убирает markdown-обертку ```json ... ```, которую модели иногда добавляют
func CleanJSON(input string) string {
	clean := strings.TrimSpace(input)

	if len(clean) >= len(jsonFence) && strings.EqualFold(clean[:len(jsonFence)], jsonFence) {
		clean = clean[len(jsonFence):]
	} else {
		clean = strings.TrimPrefix(clean, "```")
	}
	clean = strings.TrimLeft(clean, "\r\n")
	clean = strings.TrimSuffix(clean, "```")

	return strings.TrimSpace(clean)
}
