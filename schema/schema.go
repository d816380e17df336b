// Package schema has records, enums and period rules for all parts of templatrend.
package schema

import "time"

// UsageRecord is a single template invocation from the usage log.
// Records are append-only and immutable once written.
type UsageRecord struct {
	TemplateID      string       `json:"template_id"`
	TemplateType    TemplateType `json:"template_type"`
	UserID          string       `json:"user_id"`
	UsedAt          time.Time    `json:"used_at"`
	ExecutionTimeMs int64        `json:"execution_time_ms"`
	WasSuccessful   bool         `json:"was_successful"`
}

// UsageMetrics is the reduction of one template's usage records for a period.
type UsageMetrics struct {
	UsageCount           int     `json:"usage_count"`
	UniqueUsers          int     `json:"unique_users"`
	SuccessRate          float64 `json:"success_rate"`           // 0-100
	AverageExecutionTime float64 `json:"average_execution_time"` // ms, successful records only
}

// TemplateRef identifies a template together with its family.
type TemplateRef struct {
	TemplateID   string       `json:"template_id"`
	TemplateType TemplateType `json:"template_type"`
}

// TemplateInfo is the catalog view of a template, used for promotion
// eligibility and validation only.
type TemplateInfo struct {
	TemplateID   string       `json:"template_id"`
	TemplateType TemplateType `json:"template_type"`
	Name         string       `json:"name"`
	AuthorID     string       `json:"author_id"`
	IsActive     bool         `json:"is_active"`
	IsPublic     bool         `json:"is_public"`
}

// TemplateStats is the lifetime usage snapshot used by the promotion
// eligibility gate.
type TemplateStats struct {
	TotalUsage  int     `json:"total_usage"`
	UniqueUsers int     `json:"unique_users"`
	SuccessRate float64 `json:"success_rate"` // 0-100
}

// RatingStats carries community rating signals for a template. A missing
// rating subsystem yields the zero value, which scores as "no ratings yet".
type RatingStats struct {
	AverageRating float64 `json:"average_rating"` // 0-5
	TotalRatings  int     `json:"total_ratings"`
	FavoriteCount int     `json:"favorite_count"`
}
