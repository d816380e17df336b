package core

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/modelbay/templatrend/internal/contract"
	"github.com/modelbay/templatrend/schema"
)

// recognitionFor maps a promotion quality score onto an award tier.
func recognitionFor(qualityScore float64) schema.RecognitionLevel {
	switch {
	case qualityScore >= 9:
		return schema.PlatinumLevel
	case qualityScore >= 7.5:
		return schema.GoldLevel
	case qualityScore >= 6:
		return schema.SilverLevel
	default:
		return schema.BronzeLevel
	}
}

// badgeFor names the badge for a recognition tier.
func badgeFor(level schema.RecognitionLevel) string {
	switch level {
	case schema.PlatinumLevel:
		return "Platinum Template Author"
	case schema.GoldLevel:
		return "Gold Template Author"
	case schema.SilverLevel:
		return "Silver Template Author"
	default:
		return "Bronze Template Author"
	}
}

// IssueAuthorCredit creates the attribution record for an implemented
// promotion. Issuance is idempotent per (verified, original) template pair:
// calling it again returns the existing credit unchanged.
func IssueAuthorCredit(ctx context.Context, mgr contract.StoreManager, req *schema.PromotionRequest, verifiedTemplateID string) (*schema.AuthorCredit, error) {
	store := mgr.GetCreditStore()

	existing, err := store.FindByPromotion(ctx, verifiedTemplateID, req.PersonalTemplateID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	level := recognitionFor(req.QualityScore)
	credit := &schema.AuthorCredit{
		ID:                 uuid.NewString(),
		VerifiedTemplateID: verifiedTemplateID,
		OriginalTemplateID: req.PersonalTemplateID,
		OriginalAuthorID:   req.OriginalAuthorID,
		CreditType:         schema.FullAuthorCredit,
		PointsAwarded:      int(math.Round(req.QualityScore * 100)),
		BadgeEarned:        badgeFor(level),
		RecognitionLevel:   level,
		Visibility:         schema.PublicVisibility,
		CreatedAt:          time.Now().UTC(),
	}
	if err := store.Create(ctx, credit); err != nil {
		return nil, fmt.Errorf("failed to create author credit: %w", err)
	}
	return credit, nil
}
