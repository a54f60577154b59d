package analysis

import (
	"sort"

	"github.com/shyim/pagespeed-api/internal/models"
)

// Strategy names a recommendation mode.
type Strategy string

const (
	// StrategyDetailed produces structured, impact-ranked recommendations.
	StrategyDetailed Strategy = "detailed"
	// StrategySimple produces short warnings, including raw metric checks.
	StrategySimple Strategy = "simple"
)

// Rule describes one audit that can produce a recommendation.
type Rule struct {
	AuditID     string
	Category    models.Category
	Threshold   float64
	Title       string
	Description string
	Solution    string

	// Priority and Impact default to the graded functions when nil.
	Priority func(score float64) models.Priority
	Impact   func(score float64) float64
}

// Rules is evaluated in order. Ties in impact keep this order.
var Rules = []Rule{
	{
		AuditID:     "render-blocking-resources",
		Category:    models.CategoryPerformance,
		Threshold:   0.9,
		Title:       "Eliminate render-blocking resources",
		Description: "Render-blocking resources increase the time it takes for your page to be displayed.",
		Solution:    "Inline critical CSS and load non-critical scripts with async or defer.",
	},
	{
		AuditID:     "unused-javascript",
		Category:    models.CategoryPerformance,
		Threshold:   0.9,
		Title:       "Reduce unused JavaScript",
		Description: "Unused JavaScript increases load times and data usage.",
		Solution:    "Use code splitting and load JavaScript modules dynamically.",
	},
	{
		AuditID:     "uses-optimized-images",
		Category:    models.CategoryPerformance,
		Threshold:   0.9,
		Title:       "Optimize images",
		Description: "Unoptimized images significantly increase page load time.",
		Solution:    "Serve modern formats such as WebP, compress images and use srcset for responsive images.",
	},
	{
		AuditID:     "enable-text-compression",
		Category:    models.CategoryPerformance,
		Threshold:   0.9,
		Title:       "Enable text compression",
		Description: "Text compression can significantly reduce transfer size.",
		Solution:    "Enable GZIP or Brotli on your web server.",
	},
	{
		AuditID:     "uses-long-cache-ttl",
		Category:    models.CategoryBestPractices,
		Threshold:   0.9,
		Title:       "Improve cache policy",
		Description: "An efficient cache policy speeds up repeat visits.",
		Solution:    "Set appropriate cache headers for static assets.",
	},
	{
		// Pass/fail audit, the score carries no gradation.
		AuditID:     "meta-description",
		Category:    models.CategorySEO,
		Threshold:   1,
		Title:       "Add a meta description",
		Description: "The meta description matters for SEO and for visibility in search results.",
		Solution:    "Add a descriptive and unique meta description to the page.",
		Priority:    func(float64) models.Priority { return models.PriorityMedium },
		Impact:      func(float64) float64 { return 50 },
	},
}

// Recommend evaluates Rules against the audits and returns the triggered
// recommendations ordered by impact, highest first.
func Recommend(result *models.LighthouseResult) []models.Recommendation {
	return RecommendWith(result, Rules)
}

// RecommendWith is Recommend with a custom rule table.
func RecommendWith(result *models.LighthouseResult, rules []Rule) []models.Recommendation {
	recommendations := make([]models.Recommendation, 0, len(rules))
	if result == nil {
		return recommendations
	}

	for _, rule := range rules {
		score, ok := auditScore(result.Audits, rule.AuditID)
		if !ok || score >= rule.Threshold {
			continue
		}
		recommendations = append(recommendations, rule.apply(score))
	}

	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].Impact > recommendations[j].Impact
	})

	return recommendations
}

func (r Rule) apply(score float64) models.Recommendation {
	priority := GradedPriority
	if r.Priority != nil {
		priority = r.Priority
	}
	impact := GradedImpact
	if r.Impact != nil {
		impact = r.Impact
	}

	return models.Recommendation{
		Title:       r.Title,
		Description: r.Description,
		Priority:    priority(score),
		Category:    r.Category,
		Impact:      impact(score),
		Solution:    r.Solution,
	}
}

// GradedPriority maps an audit score to a priority.
func GradedPriority(score float64) models.Priority {
	switch {
	case score < 0.5:
		return models.PriorityHigh
	case score < 0.8:
		return models.PriorityMedium
	default:
		return models.PriorityLow
	}
}

// GradedImpact estimates the gain of fixing an audit, 0-100.
func GradedImpact(score float64) float64 {
	return (1 - clamp(score, 0, 1)) * 100
}

// auditScore reports the score of an audit. Absent audits and audits with a
// null score are not applicable.
func auditScore(audits map[string]models.Audit, id string) (float64, bool) {
	a, ok := audits[id]
	if !ok || a.Score == nil {
		return 0, false
	}
	return *a.Score, true
}
