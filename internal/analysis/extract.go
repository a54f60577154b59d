package analysis

import (
	"fmt"
	"math"

	"github.com/shyim/pagespeed-api/internal/models"
)

// Lighthouse audit ids for the core timing metrics.
const (
	AuditFirstContentfulPaint   = "first-contentful-paint"
	AuditLargestContentfulPaint = "largest-contentful-paint"
	AuditTotalBlockingTime      = "total-blocking-time"
	AuditCumulativeLayoutShift  = "cumulative-layout-shift"
)

// Extract reads the four core metrics from the audits. Paint timings are
// converted to seconds, blocking time stays in milliseconds. Missing audits
// yield 0.
func Extract(result *models.LighthouseResult) models.Metrics {
	var audits map[string]models.Audit
	if result != nil {
		audits = result.Audits
	}

	return models.Metrics{
		FirstContentfulPaint:   numericValue(audits, AuditFirstContentfulPaint) / 1000,
		LargestContentfulPaint: numericValue(audits, AuditLargestContentfulPaint) / 1000,
		TotalBlockingTime:      numericValue(audits, AuditTotalBlockingTime),
		CumulativeLayoutShift:  numericValue(audits, AuditCumulativeLayoutShift),
	}
}

// CategoryScores rounds every category score that was returned to 0-100.
// Categories with a null score are left out.
func CategoryScores(result *models.LighthouseResult) map[models.Category]int {
	scores := make(map[models.Category]int)
	if result == nil {
		return scores
	}
	for id, c := range result.Categories {
		if c.Score == nil {
			continue
		}
		scores[models.Category(id)] = int(math.Round(clamp(*c.Score, 0, 1) * 100))
	}
	return scores
}

// Format renders metrics the way they are shown to users.
func Format(m models.Metrics) models.FormattedMetrics {
	return models.FormattedMetrics{
		FirstContentfulPaint:   fmt.Sprintf("%.1fs", m.FirstContentfulPaint),
		LargestContentfulPaint: fmt.Sprintf("%.1fs", m.LargestContentfulPaint),
		TotalBlockingTime:      fmt.Sprintf("%.0fms", m.TotalBlockingTime),
		CumulativeLayoutShift:  fmt.Sprintf("%.3f", m.CumulativeLayoutShift),
	}
}

func numericValue(audits map[string]models.Audit, id string) float64 {
	a, ok := audits[id]
	if !ok || a.NumericValue == nil {
		return 0
	}
	v := *a.NumericValue
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
