package validator

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/Jamolkhon5/portfolio/internal/models"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const (
	MinNameLength    = 2
	MaxNameLength    = 200
	MinMessageLength = 10
	MaxMessageLength = 5000
)

// ValidateContact проверяет форму обратной связи, собирая ошибки по всем полям сразу
func ValidateContact(req *models.ContactRequest) models.ValidationState {
	state := models.ValidationState{
		Errors: make(map[string]string),
	}

	if msg := validateName(req.Name); msg != "" {
		state.Errors["name"] = msg
	}
	if msg := validateEmail(req.Email); msg != "" {
		state.Errors["email"] = msg
	}
	if strings.TrimSpace(req.Subject) == "" {
		state.Errors["subject"] = "Please select a subject."
	}
	if msg := validateMessage(req.Message); msg != "" {
		state.Errors["message"] = msg
	}
	if !req.Popia {
		state.Errors["popia"] = "You must accept the POPIA consent to proceed."
	}

	state.IsValid = len(state.Errors) == 0
	return state
}

func validateName(name string) string {
	n := utf8.RuneCountInString(strings.TrimSpace(name))
	if n < MinNameLength {
		return "Name must be at least 2 characters."
	}
	if n > MaxNameLength {
		return fmt.Sprintf("Name must be at most %d characters.", MaxNameLength)
	}
	return ""
}

func validateEmail(email string) string {
	if !emailRegex.MatchString(strings.TrimSpace(email)) {
		return "Please enter a valid email address."
	}
	return ""
}

func validateMessage(message string) string {
	n := utf8.RuneCountInString(strings.TrimSpace(message))
	if n < MinMessageLength {
		return "Message must be at least 10 characters."
	}
	if n > MaxMessageLength {
		return fmt.Sprintf("Message must be at most %d characters.", MaxMessageLength)
	}
	return ""
}
