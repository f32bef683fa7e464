package handler

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Jamolkhon5/portfolio/internal/catalog"
	"github.com/Jamolkhon5/portfolio/internal/models"
	"github.com/Jamolkhon5/portfolio/internal/notify"
	"github.com/Jamolkhon5/portfolio/internal/ratelimit"
	"github.com/Jamolkhon5/portfolio/internal/validator"
)

const (
	maxBodyBytes = 64 << 10

	msgContactOK      = "Thanks for connecting. I'll review your inquiry shortly."
	msgContactInvalid = "Please check the errors and try again."
	msgContactLimited = "Too many submissions. Please try again later."
	msgInternal       = "Something went wrong. Please try again later."
)

type LeadStore interface {
	SaveLead(ctx context.Context, lead *models.Lead) error
}

type Throttle interface {
	Allow(ctx context.Context, key string) error
}

type Handler struct {
	catalog   *catalog.Catalog
	leads     LeadStore
	throttle  Throttle
	publisher notify.Publisher
	logger    *zap.Logger
}

func NewHandler(cat *catalog.Catalog, leads LeadStore, throttle Throttle, publisher notify.Publisher, logger *zap.Logger) *Handler {
	if throttle == nil {
		throttle = ratelimit.Noop{}
	}
	if publisher == nil {
		publisher = notify.Noop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		catalog:   cat,
		leads:     leads,
		throttle:  throttle,
		publisher: publisher,
		logger:    logger,
	}
}

// ListCampaigns отдает кейсы с фильтрами ?employer=..&channel=.. (параметры повторяемые)
func (h *Handler) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	employers := make([]catalog.Employer, 0)
	for _, e := range splitParams(query["employer"]) {
		employers = append(employers, catalog.Employer(e))
	}
	channels := make([]catalog.Channel, 0)
	for _, c := range splitParams(query["channel"]) {
		channels = append(channels, catalog.Channel(c))
	}

	campaigns := h.catalog.Filter(employers, channels)
	writeJSON(w, http.StatusOK, models.CampaignsResponse{
		Success:   true,
		Total:     len(campaigns),
		Campaigns: campaigns,
	})
}

func (h *Handler) GetCampaign(w http.ResponseWriter, r *http.Request) {
	rec, err := h.catalog.Get(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, models.ContactResponse{Success: false, Message: "Campaign not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.ContactResponse{Success: false, Message: msgInternal})
		return
	}

	writeJSON(w, http.StatusOK, models.CampaignResponse{Success: true, Campaign: rec})
}

func (h *Handler) GetCampaignFilters(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.CampaignFiltersResponse{
		Success:   true,
		Employers: h.catalog.Employers(),
		Channels:  h.catalog.Channels(),
	})
}

// SubmitContact принимает заявку из формы обратной связи.
// Ошибка публикации события только логируется: заявка уже сохранена.
func (h *Handler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	var req models.ContactRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ContactResponse{Success: false, Message: "Invalid request body"})
		return
	}

	state := validator.ValidateContact(&req)
	if !state.IsValid {
		writeJSON(w, http.StatusBadRequest, models.ContactResponse{
			Success: false,
			Message: msgContactInvalid,
			Errors:  state.Errors,
		})
		return
	}

	reqID := middleware.GetReqID(r.Context())
	ip := clientIP(r)

	if err := h.throttle.Allow(r.Context(), ip); err != nil {
		var limitErr *ratelimit.LimitError
		if errors.As(err, &limitErr) {
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(limitErr.RetryAfter.Seconds()))))
			writeJSON(w, http.StatusTooManyRequests, models.ContactResponse{Success: false, Message: msgContactLimited})
			return
		}
		// без Redis форму не блокируем
		h.logger.Warn("contact throttle unavailable", zap.Error(err), zap.String("request_id", reqID))
	}

	if h.leads == nil {
		h.logger.Error("contact form submitted but no lead store is configured", zap.String("request_id", reqID))
		writeJSON(w, http.StatusInternalServerError, models.ContactResponse{Success: false, Message: msgInternal})
		return
	}

	lead := &models.Lead{
		Name:     strings.TrimSpace(req.Name),
		Email:    strings.TrimSpace(req.Email),
		Subject:  strings.TrimSpace(req.Subject),
		Message:  strings.TrimSpace(req.Message),
		Status:   models.LeadStatusNew,
		ClientIP: ip,
	}
	if err := h.leads.SaveLead(r.Context(), lead); err != nil {
		h.logger.Error("error saving lead", zap.Error(err), zap.String("request_id", reqID))
		writeJSON(w, http.StatusInternalServerError, models.ContactResponse{Success: false, Message: msgInternal})
		return
	}

	if err := h.publisher.PublishLeadCreated(r.Context(), models.NewLeadCreatedEvent(lead)); err != nil {
		h.logger.Warn("error publishing lead event",
			zap.Error(err),
			zap.String("lead_id", lead.ID),
			zap.String("request_id", reqID),
		)
	}

	h.logger.Info("lead received", zap.String("lead_id", lead.ID), zap.String("subject", lead.Subject))
	writeJSON(w, http.StatusCreated, models.ContactResponse{
		Success: true,
		Message: msgContactOK,
		ID:      lead.ID,
	})
}

// RegisterRoutes регистрирует маршруты кейсов и формы обратной связи
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/v1/campaigns", h.ListCampaigns)
	r.Get("/v1/campaigns/filters", h.GetCampaignFilters)
	r.Get("/v1/campaigns/{id}", h.GetCampaign)
	r.Post("/v1/contact", h.SubmitContact)
}

// splitParams поддерживает и ?channel=a&channel=b, и ?channel=a,b
func splitParams(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
