package models

// AssistantRequest представляет запрос посетителя к AI-ассистенту
type AssistantRequest struct {
	Message string `json:"message"`
}

// SuggestedProject - сокращенная карточка кейса, достаточная для отображения без повторного запроса
type SuggestedProject struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Employer string `json:"employer"`
	Summary  string `json:"summary"`
}

// AssistantResponse представляет ответ ассистента.
// IsFallback выставляется, когда ответ сформирован резервным механизмом вместо модели.
type AssistantResponse struct {
	Success           bool               `json:"success"`
	Response          string             `json:"response"`
	SuggestedProjects []SuggestedProject `json:"suggestedProjects"`
	IsFallback        bool               `json:"isFallback,omitempty"`
}

// ModelOutput - проверенный ответ удаленной модели
type ModelOutput struct {
	Response          string             `json:"response"`
	SuggestedProjects []SuggestedProject `json:"suggestedProjects,omitempty"`
}

// RecommendationRequest - запрос подбора кейсов по описанию интересов (например, из формы контактов)
type RecommendationRequest struct {
	Message string `json:"message"`
}

// RecommendationResponse - подобранные кейсы
type RecommendationResponse struct {
	Success     bool               `json:"success"`
	Suggestions []SuggestedProject `json:"suggestions"`
	IsFallback  bool               `json:"isFallback,omitempty"`
}

// ErrorResponse возвращается при ошибке валидации запроса
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
