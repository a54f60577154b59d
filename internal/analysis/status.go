package analysis

import "github.com/shyim/pagespeed-api/internal/models"

// Metric names used as keys of the explanation map.
const (
	MetricFirstContentfulPaint   = "first_contentful_paint"
	MetricLargestContentfulPaint = "largest_contentful_paint"
	MetricTotalBlockingTime      = "total_blocking_time"
	MetricCumulativeLayoutShift  = "cumulative_layout_shift"
)

// Band holds the upper bounds of the good and needs-improvement ranges.
type Band struct {
	Good             float64
	NeedsImprovement float64
}

// Status maps v to a status. Both bounds are exclusive.
func (b Band) Status(v float64) models.Status {
	switch {
	case v < b.Good:
		return models.StatusGood
	case v < b.NeedsImprovement:
		return models.StatusNeedsImprovement
	default:
		return models.StatusPoor
	}
}

var (
	BandFirstContentfulPaint   = Band{Good: 1.8, NeedsImprovement: 3}
	BandLargestContentfulPaint = Band{Good: 2.5, NeedsImprovement: 4}
	BandTotalBlockingTime      = Band{Good: 200, NeedsImprovement: 600}
	BandCumulativeLayoutShift  = Band{Good: 0.1, NeedsImprovement: 0.25}
)

// Classify explains each core metric and rates it.
func Classify(m models.Metrics) map[string]models.MetricStatus {
	return map[string]models.MetricStatus{
		MetricFirstContentfulPaint: {
			Title:       "First Contentful Paint (FCP)",
			Description: "Time from when the page starts loading until any part of its content is rendered on screen.",
			Status:      BandFirstContentfulPaint.Status(m.FirstContentfulPaint),
		},
		MetricLargestContentfulPaint: {
			Title:       "Largest Contentful Paint (LCP)",
			Description: "Time from when the page starts loading until the largest visible content element is rendered on screen.",
			Status:      BandLargestContentfulPaint.Status(m.LargestContentfulPaint),
		},
		MetricTotalBlockingTime: {
			Title:       "Total Blocking Time (TBT)",
			Description: "Sum of all periods between FCP and Time to Interactive where a task ran longer than 50ms.",
			Status:      BandTotalBlockingTime.Status(m.TotalBlockingTime),
		},
		MetricCumulativeLayoutShift: {
			Title:       "Cumulative Layout Shift (CLS)",
			Description: "Sum of all unexpected layout shifts on the page.",
			Status:      BandCumulativeLayoutShift.Status(m.CumulativeLayoutShift),
		},
	}
}
