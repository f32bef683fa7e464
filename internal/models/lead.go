package models

import "time"

const LeadStatusNew = "new"

// ContactRequest - данные формы обратной связи
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
	Popia   bool   `json:"popia"`
}

// Lead - сохраненная заявка из формы обратной связи
type Lead struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Subject   string    `json:"subject" db:"subject"`
	Message   string    `json:"message" db:"message"`
	Status    string    `json:"status" db:"status"`
	ClientIP  string    `json:"-" db:"client_ip"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

type ContactResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	ID      string            `json:"id,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// ValidationState - результат проверки формы, ошибки по полям
type ValidationState struct {
	IsValid bool              `json:"isValid"`
	Errors  map[string]string `json:"errors"`
}

// LeadCreatedEvent публикуется в брокер после сохранения заявки
type LeadCreatedEvent struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewLeadCreatedEvent(lead *Lead) LeadCreatedEvent {
	return LeadCreatedEvent{
		ID:        lead.ID,
		Name:      lead.Name,
		Email:     lead.Email,
		Subject:   lead.Subject,
		CreatedAt: lead.CreatedAt,
	}
}
