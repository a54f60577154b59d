package models

import "time"

type Device string

const (
	DeviceMobile  Device = "mobile"
	DeviceDesktop Device = "desktop"
)

func (d Device) Valid() bool {
	return d == DeviceMobile || d == DeviceDesktop
}

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

type Category string

const (
	CategoryPerformance   Category = "performance"
	CategorySEO           Category = "seo"
	CategoryBestPractices Category = "best-practices"
	CategoryAccessibility Category = "accessibility"
)

// Categories requested from PageSpeed Insights on every run.
var Categories = []Category{CategoryPerformance, CategorySEO, CategoryBestPractices, CategoryAccessibility}

type Status string

const (
	StatusGood             Status = "good"
	StatusNeedsImprovement Status = "needs-improvement"
	StatusPoor             Status = "poor"
)

type AnalyzeRequest struct {
	URL    string `json:"url"`
	Device Device `json:"device"`
}

type ErrorResponse struct {
	Error   string  `json:"error"`
	Details *string `json:"details,omitempty"`
}

type Metrics struct {
	FirstContentfulPaint   float64 `json:"first_contentful_paint"`
	LargestContentfulPaint float64 `json:"largest_contentful_paint"`
	TotalBlockingTime      float64 `json:"total_blocking_time"`
	CumulativeLayoutShift  float64 `json:"cumulative_layout_shift"`
}

type FormattedMetrics struct {
	FirstContentfulPaint   string `json:"first_contentful_paint"`
	LargestContentfulPaint string `json:"largest_contentful_paint"`
	TotalBlockingTime      string `json:"total_blocking_time"`
	CumulativeLayoutShift  string `json:"cumulative_layout_shift"`
}

type Recommendation struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority"`
	Category    Category `json:"category"`
	Impact      float64  `json:"impact"`
	Solution    string   `json:"solution"`
}

type MetricStatus struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      Status `json:"status"`
}

type AnalysisResult struct {
	ID                 string                  `json:"id"`
	URL                string                  `json:"url"`
	Device             Device                  `json:"device"`
	PerformanceScore   int                     `json:"performance_score"`
	CategoryScores     map[Category]int        `json:"category_scores"`
	Metrics            FormattedMetrics        `json:"metrics"`
	Recommendations    []Recommendation        `json:"recommendations"`
	Suggestions        []string                `json:"suggestions"`
	MetricsExplanation map[string]MetricStatus `json:"metrics_explanation"`
	AnalyzedAt         time.Time               `json:"analyzed_at"`
}

// PageSpeed Insights v5 payload, reduced to the fields the analysis reads.

type PageSpeedResponse struct {
	ID               string            `json:"id"`
	LighthouseResult *LighthouseResult `json:"lighthouseResult"`
}

type LighthouseResult struct {
	RequestedURL string                    `json:"requestedUrl"`
	FinalURL     string                    `json:"finalUrl"`
	Audits       map[string]Audit          `json:"audits"`
	Categories   map[string]CategoryResult `json:"categories"`
}

// Audit is a single Lighthouse check. Score is null for informative or
// not-applicable audits.
type Audit struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Score        *float64 `json:"score"`
	NumericValue *float64 `json:"numericValue"`
	DisplayValue string   `json:"displayValue,omitempty"`
}

type CategoryResult struct {
	ID    string   `json:"id"`
	Title string   `json:"title"`
	Score *float64 `json:"score"`
}
