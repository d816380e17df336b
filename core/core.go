// Package core has core logic for aggregation, scoring, ranking and the
// promotion workflow.
package core

import (
	"context"
	"sort"
	"time"

	"github.com/modelbay/templatrend/internal/contract"
	"github.com/modelbay/templatrend/internal/outwriter"
	"github.com/modelbay/templatrend/schema"
)

// ExecutorFunc defines the function signature for executing engine commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error

// resolvePeriodStart returns the configured period start, or the canonical
// boundary containing the current instant when none was given.
func resolvePeriodStart(cfg *contract.Config) (time.Time, error) {
	if !cfg.PeriodStart.IsZero() {
		return cfg.PeriodStart, nil
	}
	return schema.PeriodStart(cfg.Period, time.Now().UTC())
}

// ExecuteRecompute runs a full ranking recomputation for the configured
// period and prints the batch summary. It serves as the main entry point
// for the 'recompute' command.
func ExecuteRecompute(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	result, err := RecomputeRankings(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	duration := time.Since(start)
	return outwriter.WriteBatchResult(result, cfg, duration)
}

// ExecuteTrending prints the current leaderboard for the configured period
// and template type. It serves as the main entry point for the 'trending'
// command.
func ExecuteTrending(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	records, err := GetTrendingResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	duration := time.Since(start)
	return outwriter.WriteTrendingResults(records, cfg, duration)
}

// GetTrendingResults returns the top ranked records for the configured
// period, ordered by rank position and capped at the result limit.
func GetTrendingResults(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) ([]schema.RankingRecord, error) {
	periodStart, err := resolvePeriodStart(cfg)
	if err != nil {
		return nil, err
	}
	records, err := mgr.GetRankingStore().QueryByPeriod(ctx, cfg.Period, periodStart, cfg.TemplateType)
	if err != nil {
		return nil, err
	}

	// Unranked records sort last; everything else by assigned position.
	sort.SliceStable(records, func(i, j int) bool {
		ri, rj := records[i].RankPosition, records[j].RankPosition
		if ri == 0 {
			return false
		}
		if rj == 0 {
			return true
		}
		return ri < rj
	})
	if len(records) > cfg.ResultLimit {
		records = records[:cfg.ResultLimit]
	}

	return records, nil
}

// ExecuteCompetition analyzes one template's standing within its ranking
// group. It serves as the main entry point for the 'compete' command.
func ExecuteCompetition(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, templateID string) error {
	analysis, err := GetCompetitionResult(ctx, cfg, mgr, templateID)
	if err != nil {
		return err
	}
	return outwriter.WriteCompetitionResult(analysis, cfg)
}

// GetCompetitionResult returns one template's standing within its
// (period, templateType) ranking group.
func GetCompetitionResult(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, templateID string) (*schema.CompetitionAnalysis, error) {
	periodStart, err := resolvePeriodStart(cfg)
	if err != nil {
		return nil, err
	}
	group, err := mgr.GetRankingStore().QueryByPeriod(ctx, cfg.Period, periodStart, cfg.TemplateType)
	if err != nil {
		return nil, err
	}
	if cfg.TemplateType == "" {
		group = narrowToFamily(group, templateID)
	}
	analysis := analyzeCompetition(group, templateID)
	if analysis == nil {
		return nil, &contract.NotFoundError{Kind: "ranking record", ID: templateID}
	}
	return analysis, nil
}

// narrowToFamily keeps only the records sharing the subject's template type.
// Competitor counts, percentiles and rank positions are defined within one
// family, so an unfiltered query must not mix personal and verified records.
func narrowToFamily(records []schema.RankingRecord, templateID string) []schema.RankingRecord {
	var family schema.TemplateType
	found := false
	for _, r := range records {
		if r.TemplateID == templateID {
			family = r.TemplateType
			found = true
			break
		}
	}
	if !found {
		return nil
	}
	group := make([]schema.RankingRecord, 0, len(records))
	for _, r := range records {
		if r.TemplateType == family {
			group = append(group, r)
		}
	}
	return group
}

// ExecutePromoteCreate opens a promotion request and prints it.
func ExecutePromoteCreate(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, input schema.PromotionInput) error {
	req, err := CreatePromotionRequest(ctx, cfg, mgr, input)
	if err != nil {
		return err
	}
	return outwriter.WritePromotionRequest(req, cfg)
}

// ExecutePromoteReview applies a reviewer decision and prints the updated
// request.
func ExecutePromoteReview(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, requestID string, action schema.ReviewAction, reviewer schema.Actor, comments string) error {
	req, err := ReviewPromotionRequest(ctx, mgr, requestID, action, reviewer, comments)
	if err != nil {
		return err
	}
	return outwriter.WritePromotionRequest(req, cfg)
}

// ExecutePromoteImplement finalizes an approved request and prints it.
func ExecutePromoteImplement(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, requestID, verifiedTemplateID, notes string, actor schema.Actor) error {
	req, err := ImplementPromotionRequest(ctx, mgr, requestID, verifiedTemplateID, notes, actor)
	if err != nil {
		return err
	}
	return outwriter.WritePromotionRequest(req, cfg)
}

// ExecutePromoteList prints the promotion queue, optionally narrowed to
// high and urgent priorities.
func ExecutePromoteList(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, highPriorityOnly bool) error {
	requests, err := GetPromotionQueue(ctx, mgr, highPriorityOnly)
	if err != nil {
		return err
	}
	return outwriter.WritePromotionQueue(requests, cfg)
}

// GetPromotionQueue returns the requests awaiting a decision, optionally
// narrowed to high and urgent priorities.
func GetPromotionQueue(ctx context.Context, mgr contract.StoreManager, highPriorityOnly bool) ([]schema.PromotionRequest, error) {
	if highPriorityOnly {
		return mgr.GetPromotionStore().FindHighPriority(ctx)
	}
	return mgr.GetPromotionStore().FindPending(ctx)
}

// ExecuteMetrics displays the formal definitions of all scoring signals.
// This is a static display that does not touch the stores.
func ExecuteMetrics(_ context.Context, cfg *contract.Config, _ contract.StoreManager) error {
	return outwriter.WriteScoreDefinitions(cfg)
}
