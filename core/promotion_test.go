package core

import (
	"context"
	"testing"
	"time"

	"github.com/modelbay/templatrend/internal/contract"
	"github.com/modelbay/templatrend/internal/iostore"
	"github.com/modelbay/templatrend/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	adminActor  = schema.Actor{ID: "admin-1", Role: schema.AdminRole}
	memberActor = schema.Actor{ID: "member-1", Role: schema.MemberRole}
)

// promotionFixture seeds an eligible personal template: 60 uses across 15
// users, all successful.
func promotionFixture(t *testing.T) *iostore.MemoryStores {
	t.Helper()
	stores := iostore.NewMemoryStores()
	stores.Catalog.Put(schema.TemplateInfo{
		TemplateID:   "tmpl-alpha",
		TemplateType: schema.PersonalTemplate,
		Name:         "Alpha",
		AuthorID:     "author-1",
		IsActive:     true,
		IsPublic:     true,
	})
	seedUsage(stores, "tmpl-alpha", schema.PersonalTemplate, 15, 4, true)
	return stores
}

func promotionInput(actor schema.Actor) schema.PromotionInput {
	return schema.PromotionInput{
		PersonalTemplateID: "tmpl-alpha",
		Actor:              actor,
		Reason:             "high demand",
		Justification:      "consistent results across many teams",
		CreditToAuthor:     true,
	}
}

// TestCreatePromotionRequest covers the happy path and the metric snapshot.
func TestCreatePromotionRequest(t *testing.T) {
	stores := promotionFixture(t)
	stores.Rating.Set("tmpl-alpha", schema.PersonalTemplate, schema.RatingStats{AverageRating: 4.5, TotalRatings: 12})

	req, err := CreatePromotionRequest(context.Background(), testConfig(), stores.Manager(), promotionInput(adminActor))
	require.NoError(t, err)

	assert.NotEmpty(t, req.ID)
	assert.Equal(t, schema.StatusPending, req.Status)
	assert.Equal(t, schema.MediumPriority, req.Priority)
	assert.Equal(t, "admin-1", req.RequestedBy)
	assert.Equal(t, "author-1", req.OriginalAuthorID)
	assert.True(t, req.CreditToAuthor)

	assert.Equal(t, 60, req.Metrics.TotalUsage)
	assert.Equal(t, 15, req.Metrics.UniqueUsers)
	assert.InDelta(t, 100.0, req.Metrics.SuccessRate, 0.001)
	assert.InDelta(t, 4.5, req.Metrics.AverageRating, 0.001)

	// usage 1.8 + users 1.5 + success 2.5 + trend 0 (never ranked)
	assert.InDelta(t, 5.8, req.QualityScore, 0.001)
}

// TestCreatePromotionRequestGuards covers actor, catalog and duplicate
// rejections.
func TestCreatePromotionRequestGuards(t *testing.T) {
	t.Run("non-admin actor", func(t *testing.T) {
		stores := promotionFixture(t)
		_, err := CreatePromotionRequest(context.Background(), testConfig(), stores.Manager(), promotionInput(memberActor))
		assert.ErrorContains(t, err, "admin privilege")
	})

	t.Run("unknown template", func(t *testing.T) {
		stores := iostore.NewMemoryStores()
		_, err := CreatePromotionRequest(context.Background(), testConfig(), stores.Manager(), promotionInput(adminActor))
		var notFound *contract.NotFoundError
		assert.ErrorAs(t, err, &notFound)
	})

	t.Run("inactive template", func(t *testing.T) {
		stores := promotionFixture(t)
		stores.Catalog.Put(schema.TemplateInfo{
			TemplateID:   "tmpl-alpha",
			TemplateType: schema.PersonalTemplate,
			AuthorID:     "author-1",
			IsActive:     false,
			IsPublic:     true,
		})
		_, err := CreatePromotionRequest(context.Background(), testConfig(), stores.Manager(), promotionInput(adminActor))
		assert.ErrorContains(t, err, "active and public")
	})

	t.Run("invalid priority", func(t *testing.T) {
		stores := promotionFixture(t)
		input := promotionInput(adminActor)
		input.Priority = "immediately"
		_, err := CreatePromotionRequest(context.Background(), testConfig(), stores.Manager(), input)
		assert.ErrorContains(t, err, "invalid priority")
	})

	t.Run("one active request per template", func(t *testing.T) {
		stores := promotionFixture(t)
		mgr := stores.Manager()
		first, err := CreatePromotionRequest(context.Background(), testConfig(), mgr, promotionInput(adminActor))
		require.NoError(t, err)

		_, err = CreatePromotionRequest(context.Background(), testConfig(), mgr, promotionInput(adminActor))
		var dup *contract.DuplicateRequestError
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, first.ID, dup.ExistingID)
	})
}

// TestCreatePromotionRequestEligibility checks that every unmet criterion
// is reported at once.
func TestCreatePromotionRequestEligibility(t *testing.T) {
	t.Run("usage just below threshold", func(t *testing.T) {
		stores := iostore.NewMemoryStores()
		stores.Catalog.Put(schema.TemplateInfo{
			TemplateID:   "tmpl-alpha",
			TemplateType: schema.PersonalTemplate,
			AuthorID:     "author-1",
			IsActive:     true,
			IsPublic:     true,
		})
		// 49 uses, 12 users, all successful: only the usage gate fails.
		for i := range 49 {
			stores.Usage.Add(schema.UsageRecord{
				TemplateID:    "tmpl-alpha",
				TemplateType:  schema.PersonalTemplate,
				UserID:        string(rune('a'+i%12)) + "-user",
				UsedAt:        testWeekStart.Add(time.Duration(i) * time.Hour),
				WasSuccessful: true,
			})
		}

		_, err := CreatePromotionRequest(context.Background(), testConfig(), stores.Manager(), promotionInput(adminActor))
		var elig *contract.EligibilityError
		require.ErrorAs(t, err, &elig)
		require.Len(t, elig.Unmet, 1)
		assert.Contains(t, elig.Unmet[0], "total usage 49")
	})

	t.Run("all gates fail together", func(t *testing.T) {
		stores := iostore.NewMemoryStores()
		stores.Catalog.Put(schema.TemplateInfo{
			TemplateID:   "tmpl-alpha",
			TemplateType: schema.PersonalTemplate,
			AuthorID:     "author-1",
			IsActive:     true,
			IsPublic:     true,
		})
		seedUsage(stores, "tmpl-alpha", schema.PersonalTemplate, 2, 2, false)

		_, err := CreatePromotionRequest(context.Background(), testConfig(), stores.Manager(), promotionInput(adminActor))
		var elig *contract.EligibilityError
		require.ErrorAs(t, err, &elig)
		assert.Len(t, elig.Unmet, 3)
	})
}

// createRequest is a helper that opens a fresh eligible request.
func createRequest(t *testing.T, stores *iostore.MemoryStores) *schema.PromotionRequest {
	t.Helper()
	req, err := CreatePromotionRequest(context.Background(), testConfig(), stores.Manager(), promotionInput(adminActor))
	require.NoError(t, err)
	return req
}

// TestReviewPromotionRequest covers the review transitions.
func TestReviewPromotionRequest(t *testing.T) {
	t.Run("approve from pending", func(t *testing.T) {
		stores := promotionFixture(t)
		req := createRequest(t, stores)

		reviewed, err := ReviewPromotionRequest(context.Background(), stores.Manager(), req.ID, schema.ActionApprove, adminActor, "meets the bar")
		require.NoError(t, err)
		assert.Equal(t, schema.StatusApproved, reviewed.Status)
		assert.Equal(t, "admin-1", reviewed.ReviewedBy)
		assert.Equal(t, "meets the bar", reviewed.ReviewComments)
		require.NotNil(t, reviewed.ReviewedAt)
	})

	t.Run("request changes then approve", func(t *testing.T) {
		stores := promotionFixture(t)
		req := createRequest(t, stores)

		reviewed, err := ReviewPromotionRequest(context.Background(), stores.Manager(), req.ID, schema.ActionRequestChanges, adminActor, "tighten the description")
		require.NoError(t, err)
		assert.Equal(t, schema.StatusUnderReview, reviewed.Status)
		assert.True(t, reviewed.IsActive())

		reviewed, err = ReviewPromotionRequest(context.Background(), stores.Manager(), req.ID, schema.ActionApprove, adminActor, "much better")
		require.NoError(t, err)
		assert.Equal(t, schema.StatusApproved, reviewed.Status)
	})

	t.Run("terminal states refuse further reviews", func(t *testing.T) {
		stores := promotionFixture(t)
		req := createRequest(t, stores)
		_, err := ReviewPromotionRequest(context.Background(), stores.Manager(), req.ID, schema.ActionReject, adminActor, "not yet")
		require.NoError(t, err)

		_, err = ReviewPromotionRequest(context.Background(), stores.Manager(), req.ID, schema.ActionApprove, adminActor, "second thoughts")
		var transition *contract.StateTransitionError
		require.ErrorAs(t, err, &transition)
		assert.Equal(t, schema.StatusRejected, transition.Current)
	})

	t.Run("input guards", func(t *testing.T) {
		stores := promotionFixture(t)
		req := createRequest(t, stores)

		_, err := ReviewPromotionRequest(context.Background(), stores.Manager(), req.ID, "escalate", adminActor, "x")
		assert.ErrorContains(t, err, "invalid review action")

		_, err = ReviewPromotionRequest(context.Background(), stores.Manager(), req.ID, schema.ActionApprove, adminActor, "   ")
		assert.ErrorContains(t, err, "comments are required")

		_, err = ReviewPromotionRequest(context.Background(), stores.Manager(), req.ID, schema.ActionApprove, memberActor, "lgtm")
		assert.ErrorContains(t, err, "admin privilege")
	})
}

// TestImplementPromotionRequest covers implementation and credit issuance.
func TestImplementPromotionRequest(t *testing.T) {
	t.Run("implement approved request with credit", func(t *testing.T) {
		stores := promotionFixture(t)
		req := createRequest(t, stores)
		_, err := ReviewPromotionRequest(context.Background(), stores.Manager(), req.ID, schema.ActionApprove, adminActor, "meets the bar")
		require.NoError(t, err)

		done, err := ImplementPromotionRequest(context.Background(), stores.Manager(), req.ID, "tmpl-alpha-verified", "copied as-is", adminActor)
		require.NoError(t, err)
		assert.Equal(t, schema.StatusImplemented, done.Status)
		assert.Equal(t, "tmpl-alpha-verified", done.VerifiedTemplateID)
		assert.Equal(t, "copied as-is", done.ImplementationNotes)

		credit, err := stores.Credit.FindByPromotion(context.Background(), "tmpl-alpha-verified", "tmpl-alpha")
		require.NoError(t, err)
		require.NotNil(t, credit)
		assert.Equal(t, "author-1", credit.OriginalAuthorID)
		assert.Equal(t, 580, credit.PointsAwarded) // quality 5.8
		assert.Equal(t, schema.BronzeLevel, credit.RecognitionLevel)
	})

	t.Run("pending request cannot be implemented", func(t *testing.T) {
		stores := promotionFixture(t)
		req := createRequest(t, stores)

		_, err := ImplementPromotionRequest(context.Background(), stores.Manager(), req.ID, "tmpl-alpha-verified", "", adminActor)
		var transition *contract.StateTransitionError
		require.ErrorAs(t, err, &transition)
		assert.Equal(t, schema.StatusPending, transition.Current)
	})

	t.Run("implementing twice fails without duplicating the credit", func(t *testing.T) {
		stores := promotionFixture(t)
		req := createRequest(t, stores)
		_, err := ReviewPromotionRequest(context.Background(), stores.Manager(), req.ID, schema.ActionApprove, adminActor, "meets the bar")
		require.NoError(t, err)
		_, err = ImplementPromotionRequest(context.Background(), stores.Manager(), req.ID, "tmpl-alpha-verified", "", adminActor)
		require.NoError(t, err)

		_, err = ImplementPromotionRequest(context.Background(), stores.Manager(), req.ID, "tmpl-alpha-verified", "", adminActor)
		var transition *contract.StateTransitionError
		require.ErrorAs(t, err, &transition)

		credits, err := stores.Credit.FindByVerifiedTemplate(context.Background(), "tmpl-alpha-verified")
		require.NoError(t, err)
		assert.Len(t, credits, 1)
	})

	t.Run("input guards", func(t *testing.T) {
		stores := promotionFixture(t)
		req := createRequest(t, stores)

		_, err := ImplementPromotionRequest(context.Background(), stores.Manager(), req.ID, "tmpl-alpha-verified", "", memberActor)
		assert.ErrorContains(t, err, "admin privilege")

		_, err = ImplementPromotionRequest(context.Background(), stores.Manager(), req.ID, "", "", adminActor)
		assert.ErrorContains(t, err, "verified template ID is required")
	})
}

// TestGetPromotionQueue tests queue ordering and the high-priority filter.
func TestGetPromotionQueue(t *testing.T) {
	stores := iostore.NewMemoryStores()
	now := time.Now().UTC()
	add := func(id string, priority schema.Priority, age time.Duration) {
		require.NoError(t, stores.Promotion.Create(context.Background(), &schema.PromotionRequest{
			ID:                 id,
			PersonalTemplateID: "tmpl-" + id,
			Priority:           priority,
			Status:             schema.StatusPending,
			CreatedAt:          now.Add(-age),
		}))
	}
	add("old-low", schema.LowPriority, 3*time.Hour)
	add("new-high", schema.HighPriority, time.Hour)
	add("mid-urgent", schema.UrgentPriority, 2*time.Hour)

	all, err := GetPromotionQueue(context.Background(), stores.Manager(), false)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "old-low", all[0].ID) // oldest first

	high, err := GetPromotionQueue(context.Background(), stores.Manager(), true)
	require.NoError(t, err)
	require.Len(t, high, 2)
	assert.Equal(t, "mid-urgent", high[0].ID) // urgent outranks high
	assert.Equal(t, "new-high", high[1].ID)
}
