package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shyim/pagespeed-api/internal/analysis"
	"github.com/shyim/pagespeed-api/internal/models"
)

func init() {
	color.NoColor = true
}

func sampleResult() *models.AnalysisResult {
	metrics := models.Metrics{
		FirstContentfulPaint:   1.5,
		LargestContentfulPaint: 3.0,
		TotalBlockingTime:      250,
		CumulativeLayoutShift:  0.05,
	}
	return &models.AnalysisResult{
		ID:               "abc",
		URL:              "https://example.com",
		Device:           models.DeviceMobile,
		PerformanceScore: 42,
		Metrics:          analysis.Format(metrics),
		Recommendations: []models.Recommendation{{
			Title:    "Reduce unused JavaScript",
			Priority: models.PriorityMedium,
			Category: models.CategoryPerformance,
			Impact:   40.00000000000001,
			Solution: "Use code splitting and load JavaScript modules dynamically.",
		}},
		Suggestions:        []string{"Remove unused JavaScript"},
		MetricsExplanation: analysis.Classify(metrics),
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, sampleResult(), ""))

	out := buf.String()
	assert.Contains(t, out, "PageSpeed report for https://example.com (mobile)")
	assert.Contains(t, out, "Performance score: 42")
	assert.Contains(t, out, "First Contentful Paint (FCP)")
	assert.Contains(t, out, "needs-improvement")
	assert.Contains(t, out, "250ms")
	assert.Contains(t, out, "40%")
	assert.Contains(t, out, "Reduce unused JavaScript")
	assert.Contains(t, out, "- Remove unused JavaScript")
}

func TestWriteTextStrategy(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, sampleResult(), analysis.StrategySimple))
	assert.NotContains(t, buf.String(), "40%")
	assert.Contains(t, buf.String(), "Quick checks:")

	buf.Reset()
	require.NoError(t, WriteText(&buf, sampleResult(), analysis.StrategyDetailed))
	assert.Contains(t, buf.String(), "40%")
	assert.NotContains(t, buf.String(), "Quick checks:")
}

func TestWriteTextNoRecommendations(t *testing.T) {
	result := sampleResult()
	result.Recommendations = nil
	result.Suggestions = nil

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, result, ""))
	assert.Contains(t, buf.String(), "No recommendations")
	assert.Contains(t, buf.String(), "none")
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleResult()))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, float64(42), decoded["performance_score"])
	assert.Equal(t, "1.5s", decoded["metrics"].(map[string]any)["first_contentful_paint"])
}
