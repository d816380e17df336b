package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/modelbay/templatrend/internal/contract"
	"github.com/modelbay/templatrend/schema"
)

// buildOutcome carries one template's result through the worker pool.
// Exactly one of record/failure is set.
type buildOutcome struct {
	record  *schema.RankingRecord
	failure *schema.TemplateFailure
}

// RecomputeRankings runs one full ranking pass for a period bucket:
// aggregate-and-upsert in parallel, then a barrier, then rank assignment
// per template-type group. Per-template failures are isolated and counted;
// they never abort the batch. The configured timeout bounds the whole run,
// and a timeout between the two phases leaves already-upserted candidates
// valid since ranks are written in a separate pass.
func RecomputeRankings(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (*schema.BatchResult, error) {
	start := time.Now()

	periodStart := cfg.PeriodStart
	if periodStart.IsZero() {
		var err error
		periodStart, err = schema.PeriodStart(cfg.Period, time.Now().UTC())
		if err != nil {
			return nil, err
		}
	}
	periodEnd := schema.NextPeriodStart(cfg.Period, periodStart)

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	templates, err := mgr.GetUsageStore().ListActiveTemplates(ctx, periodStart, periodEnd, cfg.TemplateType)
	if err != nil {
		return nil, fmt.Errorf("failed to list active templates: %w", err)
	}

	// --- 1. Aggregation Phase (parallel, failure-isolated) ---
	outcomes := buildCandidates(ctx, cfg, mgr, templates, periodStart)

	records := make([]schema.RankingRecord, 0, len(outcomes))
	failures := make([]schema.TemplateFailure, 0)
	skipped := 0
	for _, o := range outcomes {
		switch {
		case o.failure != nil:
			failures = append(failures, *o.failure)
		case o.record != nil:
			records = append(records, *o.record)
		default:
			// No activity in the period: no record at all.
			skipped++
		}
	}

	if len(records) > 0 {
		if err := mgr.GetRankingStore().BulkUpsert(ctx, records); err != nil {
			return nil, fmt.Errorf("bulk upsert failed: %w", err)
		}
	}

	// --- 2. Barrier, then Rank Phase (single writer per group) ---
	personal, verified, err := rankGroups(ctx, cfg, mgr, periodStart)
	if err != nil {
		return nil, err
	}

	// Top template is picked across the mixed batch.
	mixed := append(append([]schema.RankingRecord{}, personal...), verified...)

	result := &schema.BatchResult{
		Period:        cfg.Period,
		PeriodStart:   periodStart,
		Calculated:    len(records),
		Skipped:       skipped,
		PersonalCount: len(personal),
		VerifiedCount: len(verified),
		TopTemplate:   topTemplate(mixed),
		Failures:      failures,
		Duration:      time.Since(start),
	}
	return result, nil
}

// buildCandidates runs the per-template aggregation across a bounded worker
// pool. One template's failure is captured as an outcome, logged, and the
// pool moves on.
func buildCandidates(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, templates []schema.TemplateRef, periodStart time.Time) []buildOutcome {
	templateCh := make(chan schema.TemplateRef, len(templates))
	outcomeCh := make(chan buildOutcome, len(templates))
	var wg sync.WaitGroup

	for range cfg.Workers {
		wg.Go(func() {
			for tmpl := range templateCh {
				outcomeCh <- buildOne(ctx, cfg, mgr, tmpl, periodStart)
			}
		})
	}

	for _, t := range templates {
		templateCh <- t
	}
	close(templateCh)

	wg.Wait()
	close(outcomeCh)

	outcomes := make([]buildOutcome, 0, len(templates))
	for o := range outcomeCh {
		outcomes = append(outcomes, o)
	}
	return outcomes
}

// buildOne aggregates and scores a single template. Zero-usage templates
// yield an empty outcome: no record, no failure.
func buildOne(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, tmpl schema.TemplateRef, periodStart time.Time) buildOutcome {
	builder := NewRankingRecordBuilder(cfg, mgr.GetUsageStore(), mgr.GetRatingSource(), tmpl, cfg.Period, periodStart)

	builder.
		LoadUsage(ctx).
		ComputeMetrics().
		FetchRatings(ctx).
		ComputeScores().
		ComputeGrowth(ctx)

	record, err := builder.Build()
	if err != nil {
		aggErr := &contract.AggregationError{Template: tmpl, Err: err}
		contract.LogWarn("skipping template in batch", aggErr)
		return buildOutcome{failure: &schema.TemplateFailure{Template: tmpl, Reason: err.Error()}}
	}

	if !builder.HasUsage() {
		// Absence of a record, not a zero-score record, represents "no activity".
		return buildOutcome{}
	}
	return buildOutcome{record: record}
}

// rankGroups performs the second pass: a consistent read of each
// (period, periodStart, templateType) group, deterministic ordering, and a
// single rank write per group. Groups are disjoint, so they could also run
// concurrently; two sequential passes keep the write path simple.
func rankGroups(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, periodStart time.Time) (personal, verified []schema.RankingRecord, err error) {
	types := []schema.TemplateType{schema.PersonalTemplate, schema.VerifiedTemplate}
	if cfg.TemplateType != "" {
		types = []schema.TemplateType{cfg.TemplateType}
	}

	byType := make(map[schema.TemplateType][]schema.RankingRecord, len(types))
	for _, tt := range types {
		group, err := mgr.GetRankingStore().QueryByPeriod(ctx, cfg.Period, periodStart, tt)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read %s group for ranking: %w", tt, err)
		}
		if len(group) == 0 {
			continue
		}
		assignments := assignRanks(group)
		if err := mgr.GetRankingStore().WriteRanks(ctx, assignments); err != nil {
			return nil, nil, fmt.Errorf("failed to write %s ranks: %w", tt, err)
		}
		byType[tt] = group
	}
	return byType[schema.PersonalTemplate], byType[schema.VerifiedTemplate], nil
}
