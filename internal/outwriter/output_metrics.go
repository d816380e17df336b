package outwriter

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/modelbay/templatrend/internal/contract"
	"github.com/modelbay/templatrend/schema"
)

// WriteScoreDefinitions outputs the formal definitions of all scoring
// signals, dispatching based on the output format configured.
func WriteScoreDefinitions(cfg *contract.Config) error {
	model := buildScoreRenderModel(cfg.TrendWeights)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, model)
		}, "Wrote JSON")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeScoreDefinitionsText(model, cfg, w)
		}, "Wrote definitions")
	}
}

// writeScoreDefinitionsText writes the human-readable definition list.
func writeScoreDefinitionsText(model *schema.MetricsRenderModel, cfg *contract.Config, writer io.Writer) error {
	if _, err := fmt.Fprintln(writer, headerLine(cfg, "📐", model.Title)); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(writer, model.Description); err != nil {
		return err
	}
	for _, score := range model.Scores {
		if _, err := fmt.Fprintf(writer, "\n%s\n", strings.ToUpper(score.Name)); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(writer, "  Purpose: %s\n", score.Purpose); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(writer, "  Factors: %s\n", strings.Join(score.Factors, ", ")); err != nil {
			return err
		}
		if score.Formula != "" {
			if _, err := fmt.Fprintf(writer, "  Formula: %s\n", score.Formula); err != nil {
				return err
			}
		}
	}
	return nil
}

// buildScoreRenderModel constructs the complete render model with the
// active trend weights applied.
func buildScoreRenderModel(weights map[schema.TrendFactor]float64) *schema.MetricsRenderModel {
	if weights == nil {
		weights = schema.DefaultTrendWeights()
	}
	displayWeights := make(map[string]float64, len(weights))
	for k, v := range weights {
		displayWeights[string(k)] = v
	}

	scores := []schema.ScoreDefinition{
		{
			Name:    "trend",
			Purpose: "Primary popularity signal - weighted blend of normalized factors",
			Factors: []string{"Usage", "Users", "Success", "Rating", "Favorites", "Performance"},
			Weights: displayWeights,
			Formula: formatWeights(displayWeights),
		},
		{
			Name:    "weighted",
			Purpose: "Secondary composite - trend plus capped raw counts",
			Factors: []string{"Trend", "Usage", "Users", "Rating"},
			Formula: "0.40*trend + 0.30*min(usage,50) + 0.20*min(users*2,30) + 0.10*(rating/5)*20",
		},
		{
			Name:    "velocity",
			Purpose: "Adoption speed - how quickly usage accumulates within the period",
			Factors: []string{"UsageRate"},
			Formula: "min(uses_per_hour * 10, 100)",
		},
		{
			Name:    "growth",
			Purpose: "Period-over-period change in usage count",
			Factors: []string{"CurrentUsage", "PreviousUsage"},
			Formula: "100 * (current - previous) / previous",
		},
	}

	return &schema.MetricsRenderModel{
		Title:       "Templatrend Scoring Signals",
		Description: "Trend score drives ranking order; the other signals are informational",
		Scores:      scores,
	}
}

// formatWeights formats a weight map for display in formulas, in
// descending weight order for readability.
func formatWeights(weights map[string]float64) string {
	type pair struct {
		name   string
		weight float64
	}
	pairs := make([]pair, 0, len(weights))
	for k, v := range weights {
		if v > 0 {
			pairs = append(pairs, pair{k, v})
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].weight != pairs[j].weight {
			return pairs[i].weight > pairs[j].weight
		}
		return pairs[i].name < pairs[j].name
	})

	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		parts = append(parts, fmt.Sprintf("%.2f*%s", p.weight, p.name))
	}
	return strings.Join(parts, "+")
}
