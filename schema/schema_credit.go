package schema

import "time"

// AuthorCredit is the attribution record created when a promotion is
// implemented. Identity fields are immutable; visibility may change later.
// Exactly one credit exists per (verifiedTemplateID, originalTemplateID).
type AuthorCredit struct {
	ID                 string           `json:"id"`
	VerifiedTemplateID string           `json:"verified_template_id"`
	OriginalTemplateID string           `json:"original_template_id"`
	OriginalAuthorID   string           `json:"original_author_id"`
	CreditType         CreditType       `json:"credit_type"`
	PointsAwarded      int              `json:"points_awarded"`
	BadgeEarned        string           `json:"badge_earned"`
	RecognitionLevel   RecognitionLevel `json:"recognition_level"`
	Visibility         Visibility       `json:"visibility"`
	CreatedAt          time.Time        `json:"created_at"`
}
