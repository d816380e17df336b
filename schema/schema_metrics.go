package schema

// ScoreDefinition describes one scoring signal for display purposes.
type ScoreDefinition struct {
	Name    string             `json:"name"`
	Purpose string             `json:"purpose"`
	Factors []string           `json:"factors"`
	Weights map[string]float64 `json:"weights,omitempty"`
	Formula string             `json:"formula,omitempty"`
}

// MetricsRenderModel contains all processed data needed for displaying
// scoring definitions.
type MetricsRenderModel struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Scores      []ScoreDefinition `json:"scores"`
}
