package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/shyim/pagespeed-api/internal/models"
)

var (
	// ErrUpstreamUnavailable is returned when the audit provider call fails.
	ErrUpstreamUnavailable = errors.New("audit provider unavailable")
	// ErrMalformedResponse is returned when the payload lacks audits or categories.
	ErrMalformedResponse = errors.New("malformed audit response")
)

// Provider runs a Lighthouse audit for a URL.
type Provider interface {
	Run(ctx context.Context, url string, device models.Device, categories []models.Category) (*models.PageSpeedResponse, error)
}

type Analyzer struct {
	provider Provider
	tracer   trace.Tracer
	now      func() time.Time
}

func NewAnalyzer(provider Provider) *Analyzer {
	return &Analyzer{
		provider: provider,
		tracer:   otel.Tracer("github.com/shyim/pagespeed-api/internal/analysis"),
		now:      time.Now,
	}
}

// Analyze audits url and derives the result. The raw payload is returned
// alongside so callers can archive it.
func (a *Analyzer) Analyze(ctx context.Context, url string, device models.Device) (*models.AnalysisResult, *models.PageSpeedResponse, error) {
	ctx, span := a.tracer.Start(ctx, "analysis.Analyze", trace.WithAttributes(
		attribute.String("page.url", url),
		attribute.String("page.device", string(device)),
	))
	defer span.End()

	resp, err := a.provider.Run(ctx, url, device, models.Categories)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "provider failed")
		return nil, nil, err
	}

	if err := Validate(resp); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "malformed response")
		return nil, nil, err
	}

	result := Build(url, device, resp.LighthouseResult)
	result.ID = uuid.NewString()
	result.AnalyzedAt = a.now().UTC()

	span.SetAttributes(
		attribute.Int("analysis.performance_score", result.PerformanceScore),
		attribute.Int("analysis.recommendations", len(result.Recommendations)),
	)

	return result, resp, nil
}

// Validate checks the top-level shape of a PageSpeed payload.
func Validate(resp *models.PageSpeedResponse) error {
	switch {
	case resp == nil || resp.LighthouseResult == nil:
		return fmt.Errorf("%w: missing lighthouseResult", ErrMalformedResponse)
	case resp.LighthouseResult.Audits == nil:
		return fmt.Errorf("%w: missing lighthouseResult.audits", ErrMalformedResponse)
	case resp.LighthouseResult.Categories == nil:
		return fmt.Errorf("%w: missing lighthouseResult.categories", ErrMalformedResponse)
	}
	return nil
}

// Build derives a result from a validated Lighthouse result.
func Build(url string, device models.Device, lr *models.LighthouseResult) *models.AnalysisResult {
	metrics := Extract(lr)
	scores := CategoryScores(lr)

	return &models.AnalysisResult{
		URL:                url,
		Device:             device,
		PerformanceScore:   scores[models.CategoryPerformance],
		CategoryScores:     scores,
		Metrics:            Format(metrics),
		Recommendations:    Recommend(lr),
		Suggestions:        Suggest(lr),
		MetricsExplanation: Classify(metrics),
	}
}
