package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Jamolkhon5/portfolio/internal/ai/llm"
	"github.com/Jamolkhon5/portfolio/internal/ai/portfolio/models"
	"github.com/Jamolkhon5/portfolio/internal/ai/portfolio/prompts"
	"github.com/Jamolkhon5/portfolio/internal/ai/portfolio/validator"
	"github.com/Jamolkhon5/portfolio/internal/catalog"
)

const DefaultTimeout = 5 * time.Second

var ErrEmptyMessage = errors.New("message is empty")

// PortfolioAssistant отвечает на вопросы посетителей портфолио.
// Состояния между вызовами не хранит: каталог только для чтения, метрики атомарные.
type PortfolioAssistant struct {
	catalog  *catalog.Catalog
	model    llm.Model
	analyzer *IntentAnalyzer
	timeout  time.Duration
	logger   *zap.Logger
	metrics  *Metrics
}

// NewPortfolioAssistant паникует без каталога: это ошибка сборки, а не запроса.
func NewPortfolioAssistant(cat *catalog.Catalog, model llm.Model, timeout time.Duration, logger *zap.Logger) *PortfolioAssistant {
	if cat == nil {
		panic("service: nil catalog")
	}
	if model == nil {
		model = llm.Disabled{}
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PortfolioAssistant{
		catalog:  cat,
		model:    model,
		analyzer: NewIntentAnalyzer(),
		timeout:  timeout,
		logger:   logger,
		metrics:  &Metrics{},
	}
}

// HandleMessage обрабатывает вопрос посетителя: один вызов модели, проверка ответа,
// сопоставление id с каталогом. Любой отказ модели заменяется резервным ответом,
// ошибка возвращается только для пустого сообщения и локальных дефектов.
func (pa *PortfolioAssistant) HandleMessage(ctx context.Context, message string) (*models.AssistantResponse, error) {
	pa.metrics.recordRequest()
	if strings.TrimSpace(message) == "" {
		pa.metrics.recordRejected()
		return nil, ErrEmptyMessage
	}

	req, err := prompts.BuildAssistantRequest(message, pa.catalog.All())
	if err != nil {
		return nil, fmt.Errorf("error building prompt: %w", err)
	}

	output, latency, err := generate(ctx, pa, req, validator.ValidateAssistantOutput)
	if err != nil {
		pa.logFallback(ctx, "assistant", err, latency)
		text, ids := pa.analyzer.Respond(message)
		return &models.AssistantResponse{
			Success:           true,
			Response:          text,
			SuggestedProjects: pa.resolve(ids),
			IsFallback:        true,
		}, nil
	}

	ids := make([]string, 0, len(output.SuggestedProjects))
	for _, p := range output.SuggestedProjects {
		ids = append(ids, p.ID)
	}

	return &models.AssistantResponse{
		Success:           true,
		Response:          output.Response,
		SuggestedProjects: pa.resolve(ids),
	}, nil
}

// Recommend подбирает кейсы по описанию интересов посетителя.
// При отказе модели используются id резервного ответа.
func (pa *PortfolioAssistant) Recommend(ctx context.Context, message string) (*models.RecommendationResponse, error) {
	pa.metrics.recordRequest()
	if strings.TrimSpace(message) == "" {
		pa.metrics.recordRejected()
		return nil, ErrEmptyMessage
	}

	req, err := prompts.BuildRecommendationRequest(message, pa.catalog.All())
	if err != nil {
		return nil, fmt.Errorf("error building prompt: %w", err)
	}

	ids, latency, err := generate(ctx, pa, req, validator.ValidateRecommendationOutput)
	if err != nil {
		pa.logFallback(ctx, "recommendations", err, latency)
		_, fallbackIDs := pa.analyzer.Respond(message)
		return &models.RecommendationResponse{
			Success:     true,
			Suggestions: pa.resolve(fallbackIDs),
			IsFallback:  true,
		}, nil
	}

	return &models.RecommendationResponse{
		Success:     true,
		Suggestions: pa.resolve(ids),
	}, nil
}

func (pa *PortfolioAssistant) Stats() Stats {
	return pa.metrics.Snapshot()
}

// generate делает ровно один вызов модели под дедлайном и проверяет ответ.
// Повторов нет: любая ошибка сразу уходит в резервный путь.
func generate[T any](ctx context.Context, pa *PortfolioAssistant, req llm.Request,
	validate func(provider, raw string) (T, error)) (T, time.Duration, error) {
	var zero T

	callCtx, cancel := context.WithTimeout(ctx, pa.timeout)
	defer cancel()

	start := time.Now()
	raw, err := pa.model.Generate(callCtx, req)
	latency := time.Since(start)
	pa.metrics.recordModelCall(latency)
	if err != nil {
		return zero, latency, err
	}

	out, err := validate(pa.model.Name(), raw)
	if err != nil {
		return zero, latency, err
	}
	return out, latency, nil
}

// resolve сопоставляет id с каталогом в исходном порядке.
// Неизвестные и повторные id отбрасываются без ошибки.
func (pa *PortfolioAssistant) resolve(ids []string) []models.SuggestedProject {
	out := make([]models.SuggestedProject, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	dropped := 0

	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}

		rec, ok := pa.catalog.Lookup(id)
		if !ok {
			dropped++
			continue
		}
		out = append(out, models.SuggestedProject{
			ID:       rec.ID,
			Title:    rec.Title,
			Employer: string(rec.Employer),
			Summary:  rec.Summary,
		})
	}

	if dropped > 0 {
		pa.metrics.recordUnresolved(dropped)
		pa.logger.Debug("dropped unknown project ids", zap.Int("count", dropped))
	}
	return out
}

func (pa *PortfolioAssistant) logFallback(ctx context.Context, operation string, err error, latency time.Duration) {
	kind := llm.KindOf(err)
	pa.metrics.recordFallback(kind)

	fields := []zap.Field{
		zap.String("operation", operation),
		zap.String("error_kind", string(kind)),
		zap.String("provider", pa.model.Name()),
		zap.Error(err),
		zap.Duration("latency", latency),
	}
	if reqID := middleware.GetReqID(ctx); reqID != "" {
		fields = append(fields, zap.String("request_id", reqID))
	}
	pa.logger.Warn("model call failed, serving fallback response", fields...)
}
