package schema

import "time"

// Actor identifies who is driving a workflow operation.
type Actor struct {
	ID   string    `json:"id"`
	Role ActorRole `json:"role"`
}

// IsAdmin reports whether the actor holds elevated privilege.
func (a Actor) IsAdmin() bool {
	return a.Role == AdminRole
}

// PromotionMetrics is the metrics snapshot frozen into a promotion request
// at creation time.
type PromotionMetrics struct {
	TotalUsage      int     `json:"total_usage"`
	UniqueUsers     int     `json:"unique_users"`
	SuccessRate     float64 `json:"success_rate"` // 0-100
	AverageRating   float64 `json:"average_rating"`
	RankingPosition int     `json:"ranking_position"`
	TrendScore      float64 `json:"trend_score"`
	GrowthRate      float64 `json:"growth_rate"`
}

// PromotionRequest tracks one personal template through the moderated
// promotion workflow. Status moves only through the transition table in the
// core package; at most one request per personal template may be active
// (pending or under_review) at a time.
type PromotionRequest struct {
	ID                 string           `json:"id"`
	PersonalTemplateID string           `json:"personal_template_id"`
	RequestedBy        string           `json:"requested_by"`
	OriginalAuthorID   string           `json:"original_author_id"`
	Reason             string           `json:"reason"`
	Justification      string           `json:"justification"`
	Priority           Priority         `json:"priority"`
	Metrics            PromotionMetrics `json:"metrics"`
	QualityScore       float64          `json:"quality_score"` // 0-10
	CreditToAuthor     bool             `json:"credit_to_author"`

	Status              PromotionStatus `json:"status"`
	ReviewedBy          string          `json:"reviewed_by,omitempty"`
	ReviewedAt          *time.Time      `json:"reviewed_at,omitempty"`
	ReviewComments      string          `json:"review_comments,omitempty"`
	VerifiedTemplateID  string          `json:"verified_template_id,omitempty"`
	ImplementationNotes string          `json:"implementation_notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsActive reports whether the request still occupies its template's single
// active-request slot.
func (r *PromotionRequest) IsActive() bool {
	return r.Status == StatusPending || r.Status == StatusUnderReview
}

// PromotionInput carries the caller-supplied fields for creating a
// promotion request.
type PromotionInput struct {
	PersonalTemplateID string   `json:"personal_template_id"`
	Actor              Actor    `json:"actor"`
	Reason             string   `json:"reason"`
	Justification      string   `json:"justification"`
	Priority           Priority `json:"priority"`
	CreditToAuthor     bool     `json:"credit_to_author"`
}
