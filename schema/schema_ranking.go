package schema

import "time"

// RankingKey identifies one ranking record. At most one record exists per
// key; recomputation overwrites in place.
type RankingKey struct {
	TemplateID   string       `json:"template_id"`
	TemplateType TemplateType `json:"template_type"`
	Period       Period       `json:"period"`
	PeriodStart  time.Time    `json:"period_start"`
}

// RankingRecord is the per-template, per-period popularity snapshot produced
// by a recomputation run. RankPosition is 0 until the rank pass assigns a
// 1-based position within the record's (period, periodStart, templateType)
// group.
type RankingRecord struct {
	TemplateID   string       `json:"template_id"`
	TemplateType TemplateType `json:"template_type"`
	Period       Period       `json:"period"`
	PeriodStart  time.Time    `json:"period_start"`

	UsageCount           int     `json:"usage_count"`
	UniqueUsers          int     `json:"unique_users"`
	SuccessRate          float64 `json:"success_rate"`           // 0-100
	AverageExecutionTime float64 `json:"average_execution_time"` // ms

	AverageRating float64 `json:"average_rating"` // 0-5
	TotalRatings  int     `json:"total_ratings"`
	FavoriteCount int     `json:"favorite_count"`

	TrendScore    float64 `json:"trend_score"`    // primary signal, 0-100
	WeightedScore float64 `json:"weighted_score"` // secondary signal
	VelocityScore float64 `json:"velocity_score"` // adoption speed, 0-100
	GrowthRate    float64 `json:"growth_rate"`    // %, signed, unbounded

	RankPosition int `json:"rank_position"` // 1-based, 0 = unranked
}

// Key returns the identifying key of the record.
func (r *RankingRecord) Key() RankingKey {
	return RankingKey{
		TemplateID:   r.TemplateID,
		TemplateType: r.TemplateType,
		Period:       r.Period,
		PeriodStart:  r.PeriodStart,
	}
}

// RankAssignment pairs a ranking key with its computed position for the
// rank-write pass.
type RankAssignment struct {
	Key          RankingKey `json:"key"`
	RankPosition int        `json:"rank_position"`
}

// TemplateFailure records one template whose aggregation failed during a
// batch run. Failures are isolated; they never abort the batch.
type TemplateFailure struct {
	Template TemplateRef `json:"template"`
	Reason   string      `json:"reason"`
}

// BatchResult summarizes one recomputation run.
type BatchResult struct {
	Period        Period            `json:"period"`
	PeriodStart   time.Time         `json:"period_start"`
	Calculated    int               `json:"calculated"`
	Skipped       int               `json:"skipped"`
	PersonalCount int               `json:"personal_count"`
	VerifiedCount int               `json:"verified_count"`
	TopTemplate   *RankingRecord    `json:"top_template,omitempty"`
	Failures      []TemplateFailure `json:"failures,omitempty"`
	Duration      time.Duration     `json:"duration"`
}

// CompetitionAnalysis describes where one template stands within its
// (period, templateType) group.
type CompetitionAnalysis struct {
	Template         TemplateRef     `json:"template"`
	Period           Period          `json:"period"`
	PeriodStart      time.Time       `json:"period_start"`
	RankPosition     int             `json:"rank_position"`
	TotalCompetitors int             `json:"total_competitors"`
	Percentile       float64         `json:"percentile"`
	Nearby           []RankingRecord `json:"nearby"` // up to 5, rank-2..rank+2 clipped
}
