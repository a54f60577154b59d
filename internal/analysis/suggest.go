package analysis

import "github.com/shyim/pagespeed-api/internal/models"

const suggestScoreThreshold = 0.9

// Raw metric limits for Suggest, in milliseconds. These are stricter than the
// "poor" bounds used by Classify.
const (
	SuggestLCPLimitMs = 2500
	SuggestFCPLimitMs = 2000
	SuggestTBTLimitMs = 300
)

var suggestAudits = []struct {
	auditID string
	text    string
}{
	{"render-blocking-resources", "Reduce render-blocking resources"},
	{"unminified-javascript", "Minify JavaScript files"},
	{"unminified-css", "Minify CSS files"},
	{"unused-javascript", "Remove unused JavaScript"},
	{"unused-css-rules", "Remove unused CSS rules"},
	{"uses-optimized-images", "Optimize images"},
	{"enable-text-compression", "Enable GZIP compression"},
}

var suggestMetrics = []struct {
	auditID string
	limit   float64
	text    string
}{
	{AuditLargestContentfulPaint, SuggestLCPLimitMs, "Improve Largest Contentful Paint (LCP)"},
	{AuditFirstContentfulPaint, SuggestFCPLimitMs, "Improve First Contentful Paint (FCP)"},
	{AuditTotalBlockingTime, SuggestTBTLimitMs, "Reduce Total Blocking Time (TBT)"},
}

// Suggest returns short warnings. Audit checks come first, followed by checks
// on the raw metric values. The order is fixed and not ranked.
func Suggest(result *models.LighthouseResult) []string {
	suggestions := []string{}
	if result == nil {
		return suggestions
	}

	for _, s := range suggestAudits {
		if score, ok := auditScore(result.Audits, s.auditID); ok && score < suggestScoreThreshold {
			suggestions = append(suggestions, s.text)
		}
	}

	for _, s := range suggestMetrics {
		a, ok := result.Audits[s.auditID]
		if ok && a.NumericValue != nil && *a.NumericValue > s.limit {
			suggestions = append(suggestions, s.text)
		}
	}

	return suggestions
}
