package core

import (
	"sort"

	"github.com/modelbay/templatrend/schema"
)

// competitionWindow is how many neighbors flank a template in competition
// analysis (rank-2 .. rank+2, clipped to the group's bounds).
const competitionWindow = 2

// rankLess defines the deterministic total order used for rank assignment:
// trend score descending, then usage count descending, then unique users
// descending, then template ID ascending. Every tie resolves the same way
// on every run.
func rankLess(a, b *schema.RankingRecord) bool {
	if a.TrendScore != b.TrendScore {
		return a.TrendScore > b.TrendScore
	}
	if a.UsageCount != b.UsageCount {
		return a.UsageCount > b.UsageCount
	}
	if a.UniqueUsers != b.UniqueUsers {
		return a.UniqueUsers > b.UniqueUsers
	}
	return a.TemplateID < b.TemplateID
}

// sortForRanking orders records in place by the ranking total order.
func sortForRanking(records []schema.RankingRecord) {
	sort.Slice(records, func(i, j int) bool {
		return rankLess(&records[i], &records[j])
	})
}

// assignRanks sorts one (period, periodStart, templateType) group and
// assigns contiguous 1-based rank positions. It returns the assignments for
// the persistence pass; the records themselves are updated in place.
func assignRanks(records []schema.RankingRecord) []schema.RankAssignment {
	sortForRanking(records)
	assignments := make([]schema.RankAssignment, 0, len(records))
	for i := range records {
		records[i].RankPosition = i + 1
		assignments = append(assignments, schema.RankAssignment{
			Key:          records[i].Key(),
			RankPosition: i + 1,
		})
	}
	return assignments
}

// topTemplate picks the single best record across a mixed batch, using the
// same ordering rule as rank assignment. Returns nil for an empty batch.
func topTemplate(records []schema.RankingRecord) *schema.RankingRecord {
	var best *schema.RankingRecord
	for i := range records {
		if best == nil || rankLess(&records[i], best) {
			best = &records[i]
		}
	}
	if best == nil {
		return nil
	}
	top := *best
	return &top
}

// analyzeCompetition locates one template within its ranked group and
// computes its percentile plus a window of nearby competitors. The group
// must already carry rank positions.
func analyzeCompetition(group []schema.RankingRecord, templateID string) *schema.CompetitionAnalysis {
	sort.Slice(group, func(i, j int) bool {
		return group[i].RankPosition < group[j].RankPosition
	})

	idx := -1
	for i := range group {
		if group[i].TemplateID == templateID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}

	subject := group[idx]
	total := len(group)
	percentile := schema.Round2(100 * float64(total-subject.RankPosition+1) / float64(total))

	lo := max(idx-competitionWindow, 0)
	hi := min(idx+competitionWindow, total-1)
	nearby := make([]schema.RankingRecord, hi-lo+1)
	copy(nearby, group[lo:hi+1])

	return &schema.CompetitionAnalysis{
		Template:         schema.TemplateRef{TemplateID: subject.TemplateID, TemplateType: subject.TemplateType},
		Period:           subject.Period,
		PeriodStart:      subject.PeriodStart,
		RankPosition:     subject.RankPosition,
		TotalCompetitors: total,
		Percentile:       percentile,
		Nearby:           nearby,
	}
}
