package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shyim/pagespeed-api/internal/models"
)

func TestExtract(t *testing.T) {
	lr := &models.LighthouseResult{
		Audits: map[string]models.Audit{
			AuditFirstContentfulPaint:   measured(1234),
			AuditLargestContentfulPaint: measured(2500),
			AuditTotalBlockingTime:      measured(150),
			AuditCumulativeLayoutShift:  measured(0.042),
		},
	}

	m := Extract(lr)
	assert.InDelta(t, 1.234, m.FirstContentfulPaint, 1e-9)
	assert.InDelta(t, 2.5, m.LargestContentfulPaint, 1e-9)
	assert.InDelta(t, 150, m.TotalBlockingTime, 1e-9)
	assert.InDelta(t, 0.042, m.CumulativeLayoutShift, 1e-9)
}

func TestExtractMissingAuditsDefaultToZero(t *testing.T) {
	tests := []struct {
		name string
		lr   *models.LighthouseResult
	}{
		{"nil result", nil},
		{"no audits", &models.LighthouseResult{}},
		{"empty audits", &models.LighthouseResult{Audits: map[string]models.Audit{}}},
		{"audits without numeric values", &models.LighthouseResult{Audits: map[string]models.Audit{
			AuditFirstContentfulPaint:   scored(0.5),
			AuditLargestContentfulPaint: {},
			AuditTotalBlockingTime:      {},
			AuditCumulativeLayoutShift:  {},
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, models.Metrics{}, Extract(tt.lr))
		})
	}
}

func TestExtractNeverNegative(t *testing.T) {
	lr := &models.LighthouseResult{
		Audits: map[string]models.Audit{
			AuditFirstContentfulPaint:   measured(-1),
			AuditLargestContentfulPaint: measured(-2500),
			AuditTotalBlockingTime:      measured(-3),
			AuditCumulativeLayoutShift:  measured(-0.1),
		},
	}

	m := Extract(lr)
	assert.GreaterOrEqual(t, m.FirstContentfulPaint, 0.0)
	assert.GreaterOrEqual(t, m.LargestContentfulPaint, 0.0)
	assert.GreaterOrEqual(t, m.TotalBlockingTime, 0.0)
	assert.GreaterOrEqual(t, m.CumulativeLayoutShift, 0.0)
}

func TestCategoryScores(t *testing.T) {
	lr := &models.LighthouseResult{
		Categories: map[string]models.CategoryResult{
			"performance":    {Score: ptr(0.42)},
			"seo":            {Score: ptr(0.916)},
			"accessibility":  {Score: nil},
			"best-practices": {Score: ptr(1)},
		},
	}

	scores := CategoryScores(lr)
	assert.Equal(t, map[models.Category]int{
		models.CategoryPerformance:   42,
		models.CategorySEO:           92,
		models.CategoryBestPractices: 100,
	}, scores)

	assert.Equal(t, 0, CategoryScores(&models.LighthouseResult{})[models.CategoryPerformance])
}

func TestFormat(t *testing.T) {
	f := Format(models.Metrics{
		FirstContentfulPaint:   1.26,
		LargestContentfulPaint: 3,
		TotalBlockingTime:      249.6,
		CumulativeLayoutShift:  0.0512,
	})

	assert.Equal(t, models.FormattedMetrics{
		FirstContentfulPaint:   "1.3s",
		LargestContentfulPaint: "3.0s",
		TotalBlockingTime:      "250ms",
		CumulativeLayoutShift:  "0.051",
	}, f)
}
