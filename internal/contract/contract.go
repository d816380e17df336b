// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/modelbay/templatrend/schema"
)

// UsageStore defines read access to the append-only usage log. The engine
// never writes usage data; capture happens upstream.
type UsageStore interface {
	// Query returns all usage records for one template within the half-open
	// [start, end) window, ordered by usage timestamp.
	Query(ctx context.Context, templateID string, templateType schema.TemplateType, start, end time.Time) ([]schema.UsageRecord, error)

	// AggregateTemplateStats returns lifetime usage statistics for one
	// template, used by the promotion eligibility gate.
	AggregateTemplateStats(ctx context.Context, templateID string, templateType schema.TemplateType) (schema.TemplateStats, error)

	// ListActiveTemplates returns every template with at least one usage
	// record in [start, end). An empty typeFilter matches both families.
	ListActiveTemplates(ctx context.Context, start, end time.Time, typeFilter schema.TemplateType) ([]schema.TemplateRef, error)
}

// RankingStore defines persistence for ranking records.
type RankingStore interface {
	// BulkUpsert writes candidate records; an existing record with the same
	// key is overwritten in place so recomputation stays idempotent.
	BulkUpsert(ctx context.Context, records []schema.RankingRecord) error

	// QueryByPeriod returns all records for (period, periodStart), optionally
	// narrowed to one template type. An empty typeFilter matches both.
	QueryByPeriod(ctx context.Context, period schema.Period, periodStart time.Time, typeFilter schema.TemplateType) ([]schema.RankingRecord, error)

	// WriteRanks persists rank positions computed in the second pass.
	WriteRanks(ctx context.Context, assignments []schema.RankAssignment) error

	// Find returns the record for one key, or a NotFoundError.
	Find(ctx context.Context, key schema.RankingKey) (*schema.RankingRecord, error)

	// All returns every ranking record, used for exports and status checks.
	All(ctx context.Context) ([]schema.RankingRecord, error)
}

// PromotionStore defines persistence for promotion requests.
type PromotionStore interface {
	// Create persists a new request.
	Create(ctx context.Context, req *schema.PromotionRequest) error

	// Find returns the request with the given ID, or a NotFoundError.
	Find(ctx context.Context, id string) (*schema.PromotionRequest, error)

	// FindActiveForTemplate returns the pending or under_review request for
	// a personal template, or nil when none exists.
	FindActiveForTemplate(ctx context.Context, personalTemplateID string) (*schema.PromotionRequest, error)

	// UpdateStatus applies upd to the request only if its current status is
	// in the from set (single-row compare-and-set). It reports whether a row
	// was updated; false means another actor moved the request first.
	UpdateStatus(ctx context.Context, id string, from []schema.PromotionStatus, upd StatusUpdate) (bool, error)

	// FindPending returns all requests awaiting a decision (pending or
	// under_review), oldest first.
	FindPending(ctx context.Context) ([]schema.PromotionRequest, error)

	// FindHighPriority returns active requests with high or urgent priority.
	FindHighPriority(ctx context.Context) ([]schema.PromotionRequest, error)
}

// StatusUpdate carries the mutable fields written by a workflow transition.
type StatusUpdate struct {
	Status              schema.PromotionStatus
	ReviewedBy          string
	ReviewedAt          time.Time
	ReviewComments      string
	VerifiedTemplateID  string
	ImplementationNotes string
}

// AuthorCreditStore defines persistence for author credits.
type AuthorCreditStore interface {
	// Create persists a new credit record.
	Create(ctx context.Context, credit *schema.AuthorCredit) error

	// FindByVerifiedTemplate returns all credits attached to a verified template.
	FindByVerifiedTemplate(ctx context.Context, verifiedTemplateID string) ([]schema.AuthorCredit, error)

	// FindByPromotion returns the credit for one promotion lineage, or nil
	// when none exists. This is the issuance idempotency guard.
	FindByPromotion(ctx context.Context, verifiedTemplateID, originalTemplateID string) (*schema.AuthorCredit, error)
}

// TemplateCatalog defines lookup access to the template catalog. It is used
// for promotion eligibility and validation only.
type TemplateCatalog interface {
	FindByID(ctx context.Context, templateID string, templateType schema.TemplateType) (*schema.TemplateInfo, error)
}

// RatingSource defines optional access to community rating signals. A nil
// source is tolerated everywhere and scores as "no ratings yet".
type RatingSource interface {
	Stats(ctx context.Context, templateID string, templateType schema.TemplateType) (schema.RatingStats, error)
}

// StoreManager bundles all store handles for the engine. This allows the
// storage layer to be mocked for testing.
type StoreManager interface {
	GetUsageStore() UsageStore
	GetRankingStore() RankingStore
	GetPromotionStore() PromotionStore
	GetCreditStore() AuthorCreditStore
	GetCatalog() TemplateCatalog

	// GetRatingSource may return nil when no rating subsystem is configured.
	GetRatingSource() RatingSource
}
