package analysis

import "github.com/shyim/pagespeed-api/internal/models"

func ptr(v float64) *float64 { return &v }

func scored(score float64) models.Audit {
	return models.Audit{Score: ptr(score)}
}

func measured(value float64) models.Audit {
	return models.Audit{NumericValue: ptr(value)}
}

// passingResult has every rule audit present and passing.
func passingResult() *models.LighthouseResult {
	return &models.LighthouseResult{
		Audits: map[string]models.Audit{
			"render-blocking-resources": scored(1),
			"unused-javascript":         scored(1),
			"uses-optimized-images":     scored(1),
			"enable-text-compression":   scored(1),
			"uses-long-cache-ttl":       scored(1),
			"meta-description":          scored(1),
		},
		Categories: map[string]models.CategoryResult{
			"performance": {Score: ptr(1)},
		},
	}
}
