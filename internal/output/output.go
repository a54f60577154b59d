// Package output renders analysis results for the command line.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/shyim/pagespeed-api/internal/analysis"
	"github.com/shyim/pagespeed-api/internal/models"
)

var (
	goodColor  = color.New(color.FgGreen)
	warnColor  = color.New(color.FgYellow)
	poorColor  = color.New(color.FgRed, color.Bold)
	titleColor = color.New(color.Bold)
)

// metricOrder is the display order of the core metrics.
var metricOrder = []string{
	analysis.MetricFirstContentfulPaint,
	analysis.MetricLargestContentfulPaint,
	analysis.MetricTotalBlockingTime,
	analysis.MetricCumulativeLayoutShift,
}

// WriteJSON writes result as indented JSON.
func WriteJSON(w io.Writer, result *models.AnalysisResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// WriteText writes a human readable summary. strategy selects which
// recommendations are listed; an empty strategy lists both.
func WriteText(w io.Writer, result *models.AnalysisResult, strategy analysis.Strategy) error {
	fmt.Fprintf(w, "%s %s (%s)\n", titleColor.Sprint("PageSpeed report for"), result.URL, result.Device)
	fmt.Fprintf(w, "Performance score: %s\n\n", scoreColor(result.PerformanceScore).Sprintf("%d", result.PerformanceScore))

	if err := writeMetrics(w, result); err != nil {
		return err
	}

	if strategy == "" || strategy == analysis.StrategyDetailed {
		fmt.Fprintln(w)
		if err := writeRecommendations(w, result.Recommendations); err != nil {
			return err
		}
	}

	if strategy == "" || strategy == analysis.StrategySimple {
		fmt.Fprintln(w)
		writeSuggestions(w, result.Suggestions)
	}

	return nil
}

func writeMetrics(w io.Writer, result *models.AnalysisResult) error {
	values := map[string]string{
		analysis.MetricFirstContentfulPaint:   result.Metrics.FirstContentfulPaint,
		analysis.MetricLargestContentfulPaint: result.Metrics.LargestContentfulPaint,
		analysis.MetricTotalBlockingTime:      result.Metrics.TotalBlockingTime,
		analysis.MetricCumulativeLayoutShift:  result.Metrics.CumulativeLayoutShift,
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Metric", "Value", "Status"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	var data [][]string
	for _, name := range metricOrder {
		explanation, ok := result.MetricsExplanation[name]
		if !ok {
			continue
		}
		data = append(data, []string{
			explanation.Title,
			values[name],
			statusColor(explanation.Status).Sprint(explanation.Status),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func writeRecommendations(w io.Writer, recs []models.Recommendation) error {
	if len(recs) == 0 {
		fmt.Fprintln(w, goodColor.Sprint("No recommendations, all audited checks pass."))
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Impact", "Priority", "Category", "Recommendation", "Solution"})

	var data [][]string
	for _, rec := range recs {
		data = append(data, []string{
			fmt.Sprintf("%d%%", int(math.Round(rec.Impact))),
			priorityColor(rec.Priority).Sprint(rec.Priority),
			string(rec.Category),
			rec.Title,
			rec.Solution,
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func writeSuggestions(w io.Writer, suggestions []string) {
	fmt.Fprintln(w, titleColor.Sprint("Quick checks:"))
	if len(suggestions) == 0 {
		fmt.Fprintln(w, "  none")
		return
	}
	for _, s := range suggestions {
		fmt.Fprintf(w, "  - %s\n", s)
	}
}

func scoreColor(score int) *color.Color {
	switch {
	case score >= 90:
		return goodColor
	case score >= 50:
		return warnColor
	default:
		return poorColor
	}
}

func statusColor(status models.Status) *color.Color {
	switch status {
	case models.StatusGood:
		return goodColor
	case models.StatusNeedsImprovement:
		return warnColor
	default:
		return poorColor
	}
}

func priorityColor(priority models.Priority) *color.Color {
	switch priority {
	case models.PriorityHigh:
		return poorColor
	case models.PriorityMedium:
		return warnColor
	default:
		return goodColor
	}
}
