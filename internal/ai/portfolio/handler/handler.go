package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Jamolkhon5/portfolio/internal/ai/portfolio/models"
	"github.com/Jamolkhon5/portfolio/internal/ai/portfolio/service"
)

const maxBodyBytes = 64 << 10

// Assistant - операции ассистента, которые нужны HTTP-слою
type Assistant interface {
	HandleMessage(ctx context.Context, message string) (*models.AssistantResponse, error)
	Recommend(ctx context.Context, message string) (*models.RecommendationResponse, error)
	Stats() service.Stats
}

type PortfolioAssistantHandler struct {
	assistant Assistant
	logger    *zap.Logger
}

func NewPortfolioAssistantHandler(assistant Assistant, logger *zap.Logger) *PortfolioAssistantHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PortfolioAssistantHandler{
		assistant: assistant,
		logger:    logger,
	}
}

// ChatWithAssistant отвечает на вопрос посетителя.
// Отказ модели сюда не доходит: сервис сам подставляет резервный ответ.
func (h *PortfolioAssistantHandler) ChatWithAssistant(w http.ResponseWriter, r *http.Request) {
	var req models.AssistantRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	response, err := h.assistant.HandleMessage(r.Context(), req.Message)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response)
}

// RecommendProjects подбирает кейсы по описанию интересов
func (h *PortfolioAssistantHandler) RecommendProjects(w http.ResponseWriter, r *http.Request) {
	var req models.RecommendationRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	response, err := h.assistant.Recommend(r.Context(), req.Message)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response)
}

func (h *PortfolioAssistantHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.assistant.Stats())
}

func (h *PortfolioAssistantHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, service.ErrEmptyMessage) {
		writeError(w, http.StatusBadRequest, "Message is required")
		return
	}

	h.logger.Error("assistant request failed",
		zap.Error(err),
		zap.String("request_id", middleware.GetReqID(r.Context())),
	)
	writeError(w, http.StatusInternalServerError, "Something went wrong. Please try again later.")
}

// RegisterRoutes регистрирует публичные маршруты AI-ассистента
func (h *PortfolioAssistantHandler) RegisterRoutes(r chi.Router) {
	r.Post("/v1/assistant", h.ChatWithAssistant)
	r.Post("/v1/assistant/recommendations", h.RecommendProjects)
}

// RegisterAdminRoutes регистрирует служебные маршруты. Счетчики деградации
// предназначены для оператора и на публичный роутер не попадают.
func (h *PortfolioAssistantHandler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/v1/assistant/stats", h.GetStats)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, models.ErrorResponse{Success: false, Error: message})
}
