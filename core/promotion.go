package core

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/modelbay/templatrend/internal/contract"
	"github.com/modelbay/templatrend/schema"
)

// Promotion eligibility thresholds. All three must hold before a request
// can be created.
const (
	minPromotionUsage       = 50
	minPromotionUsers       = 10
	minPromotionSuccessRate = 80.0
)

// implementAction is the pseudo-action used in transition errors for the
// implement step, which is not a reviewer decision.
const implementAction = "implement"

// reviewTransitions is the single source of truth for the promotion state
// machine's review step. A (status, action) pair absent from this table is
// an illegal transition. approved, rejected and implemented are terminal
// for reviews; implement has its own guard below.
var reviewTransitions = map[schema.PromotionStatus]map[schema.ReviewAction]schema.PromotionStatus{
	schema.StatusPending: {
		schema.ActionApprove:        schema.StatusApproved,
		schema.ActionReject:         schema.StatusRejected,
		schema.ActionRequestChanges: schema.StatusUnderReview,
	},
	schema.StatusUnderReview: {
		schema.ActionApprove:        schema.StatusApproved,
		schema.ActionReject:         schema.StatusRejected,
		schema.ActionRequestChanges: schema.StatusUnderReview,
	},
}

// computeQualityScore derives the 0-10 quality score attached to a
// promotion request from its metrics snapshot.
func computeQualityScore(m schema.PromotionMetrics) float64 {
	usageComponent := math.Min(float64(m.TotalUsage)/100, 1) * 3
	userComponent := math.Min(float64(m.UniqueUsers)/25, 1) * 2.5
	successComponent := (m.SuccessRate / 100) * 2.5
	trendComponent := math.Min(m.TrendScore/100, 1) * 2
	return schema.Round2(usageComponent + userComponent + successComponent + trendComponent)
}

// checkEligibility returns every unmet promotion criterion, so a rejected
// creation attempt reports all violations at once.
func checkEligibility(stats schema.TemplateStats) []string {
	var unmet []string
	if stats.TotalUsage < minPromotionUsage {
		unmet = append(unmet, fmt.Sprintf("total usage %d is below the required %d", stats.TotalUsage, minPromotionUsage))
	}
	if stats.UniqueUsers < minPromotionUsers {
		unmet = append(unmet, fmt.Sprintf("unique users %d is below the required %d", stats.UniqueUsers, minPromotionUsers))
	}
	if stats.SuccessRate < minPromotionSuccessRate {
		unmet = append(unmet, fmt.Sprintf("success rate %.1f%% is below the required %.0f%%", stats.SuccessRate, minPromotionSuccessRate))
	}
	return unmet
}

// CreatePromotionRequest validates eligibility and opens a promotion
// request for a personal template. Only admin actors may create requests,
// the template must be active and public, and a template can hold at most
// one active request at a time.
func CreatePromotionRequest(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, input schema.PromotionInput) (*schema.PromotionRequest, error) {
	if !input.Actor.IsAdmin() {
		return nil, fmt.Errorf("actor %q lacks the admin privilege required to create promotion requests", input.Actor.ID)
	}

	info, err := mgr.GetCatalog().FindByID(ctx, input.PersonalTemplateID, schema.PersonalTemplate)
	if err != nil {
		return nil, err
	}
	if !info.IsActive || !info.IsPublic {
		return nil, fmt.Errorf("template %q must be active and public to be promoted", input.PersonalTemplateID)
	}

	if existing, err := mgr.GetPromotionStore().FindActiveForTemplate(ctx, input.PersonalTemplateID); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, &contract.DuplicateRequestError{TemplateID: input.PersonalTemplateID, ExistingID: existing.ID}
	}

	stats, err := mgr.GetUsageStore().AggregateTemplateStats(ctx, input.PersonalTemplateID, schema.PersonalTemplate)
	if err != nil {
		return nil, err
	}
	if unmet := checkEligibility(stats); len(unmet) > 0 {
		return nil, &contract.EligibilityError{TemplateID: input.PersonalTemplateID, Unmet: unmet}
	}

	metrics := snapshotMetrics(ctx, cfg, mgr, input.PersonalTemplateID, stats)

	priority := input.Priority
	if priority == "" {
		priority = schema.MediumPriority
	} else if _, ok := schema.ValidPriorities[priority]; !ok {
		return nil, fmt.Errorf("invalid priority '%s'. must be low, medium, high, urgent", priority)
	}

	now := time.Now().UTC()
	req := &schema.PromotionRequest{
		ID:                 uuid.NewString(),
		PersonalTemplateID: input.PersonalTemplateID,
		RequestedBy:        input.Actor.ID,
		OriginalAuthorID:   info.AuthorID,
		Reason:             input.Reason,
		Justification:      input.Justification,
		Priority:           priority,
		Metrics:            metrics,
		QualityScore:       computeQualityScore(metrics),
		CreditToAuthor:     input.CreditToAuthor,
		Status:             schema.StatusPending,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := mgr.GetPromotionStore().Create(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to create promotion request: %w", err)
	}
	return req, nil
}

// snapshotMetrics freezes the template's current standing into the request.
// Ranking and rating signals are best-effort: a template that was never
// ranked snapshots zeros there, which only lowers its quality score.
func snapshotMetrics(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, templateID string, stats schema.TemplateStats) schema.PromotionMetrics {
	metrics := schema.PromotionMetrics{
		TotalUsage:  stats.TotalUsage,
		UniqueUsers: stats.UniqueUsers,
		SuccessRate: stats.SuccessRate,
	}

	if ratings := mgr.GetRatingSource(); ratings != nil {
		if rs, err := ratings.Stats(ctx, templateID, schema.PersonalTemplate); err == nil {
			metrics.AverageRating = rs.AverageRating
		}
	}

	periodStart := cfg.PeriodStart
	if periodStart.IsZero() {
		if ps, err := schema.PeriodStart(cfg.Period, time.Now().UTC()); err == nil {
			periodStart = ps
		}
	}
	key := schema.RankingKey{
		TemplateID:   templateID,
		TemplateType: schema.PersonalTemplate,
		Period:       cfg.Period,
		PeriodStart:  periodStart,
	}
	if record, err := mgr.GetRankingStore().Find(ctx, key); err == nil && record != nil {
		metrics.RankingPosition = record.RankPosition
		metrics.TrendScore = record.TrendScore
		metrics.GrowthRate = record.GrowthRate
	}
	return metrics
}

// ReviewPromotionRequest applies a reviewer decision. Reviews are only
// permitted from pending or under_review, comments are mandatory, and the
// status write is a compare-and-set so two reviewers cannot double-process
// the same request.
func ReviewPromotionRequest(ctx context.Context, mgr contract.StoreManager, requestID string, action schema.ReviewAction, reviewer schema.Actor, comments string) (*schema.PromotionRequest, error) {
	if _, ok := schema.ValidReviewActions[action]; !ok {
		return nil, fmt.Errorf("invalid review action '%s'. must be approve, reject, request_changes", action)
	}
	if strings.TrimSpace(comments) == "" {
		return nil, fmt.Errorf("review comments are required")
	}
	if !reviewer.IsAdmin() {
		return nil, fmt.Errorf("actor %q lacks the admin privilege required to review promotion requests", reviewer.ID)
	}

	req, err := mgr.GetPromotionStore().Find(ctx, requestID)
	if err != nil {
		return nil, err
	}

	actions, ok := reviewTransitions[req.Status]
	if !ok {
		return nil, &contract.StateTransitionError{RequestID: requestID, Current: req.Status, Action: string(action)}
	}
	next, ok := actions[action]
	if !ok {
		return nil, &contract.StateTransitionError{RequestID: requestID, Current: req.Status, Action: string(action)}
	}

	upd := contract.StatusUpdate{
		Status:         next,
		ReviewedBy:     reviewer.ID,
		ReviewedAt:     time.Now().UTC(),
		ReviewComments: comments,
	}
	updated, err := mgr.GetPromotionStore().UpdateStatus(ctx, requestID, []schema.PromotionStatus{schema.StatusPending, schema.StatusUnderReview}, upd)
	if err != nil {
		return nil, fmt.Errorf("failed to update promotion request: %w", err)
	}
	if !updated {
		// Another reviewer moved the request between read and write.
		return nil, &contract.StateTransitionError{RequestID: requestID, Current: req.Status, Action: string(action)}
	}

	return mgr.GetPromotionStore().Find(ctx, requestID)
}

// ImplementPromotionRequest finalizes an approved request: it attaches the
// new verified template, transitions to implemented, and issues the author
// credit when the request asks for one. Only approved requests may be
// implemented, and implementing twice neither succeeds nor duplicates the
// credit.
func ImplementPromotionRequest(ctx context.Context, mgr contract.StoreManager, requestID, verifiedTemplateID, notes string, actor schema.Actor) (*schema.PromotionRequest, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("actor %q lacks the admin privilege required to implement promotions", actor.ID)
	}
	if verifiedTemplateID == "" {
		return nil, fmt.Errorf("a verified template ID is required to implement a promotion")
	}

	req, err := mgr.GetPromotionStore().Find(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.Status != schema.StatusApproved {
		return nil, &contract.StateTransitionError{RequestID: requestID, Current: req.Status, Action: implementAction}
	}

	upd := contract.StatusUpdate{
		Status:              schema.StatusImplemented,
		ReviewedBy:          req.ReviewedBy,
		ReviewComments:      req.ReviewComments,
		VerifiedTemplateID:  verifiedTemplateID,
		ImplementationNotes: notes,
	}
	if req.ReviewedAt != nil {
		upd.ReviewedAt = *req.ReviewedAt
	}
	updated, err := mgr.GetPromotionStore().UpdateStatus(ctx, requestID, []schema.PromotionStatus{schema.StatusApproved}, upd)
	if err != nil {
		return nil, fmt.Errorf("failed to implement promotion request: %w", err)
	}
	if !updated {
		return nil, &contract.StateTransitionError{RequestID: requestID, Current: req.Status, Action: implementAction}
	}

	if req.CreditToAuthor {
		if _, err := IssueAuthorCredit(ctx, mgr, req, verifiedTemplateID); err != nil {
			// The promotion itself stands; credit issuance is surfaced
			// separately so it can be retried.
			return nil, fmt.Errorf("promotion implemented but credit issuance failed: %w", err)
		}
	}

	return mgr.GetPromotionStore().Find(ctx, requestID)
}
