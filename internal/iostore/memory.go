package iostore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/modelbay/templatrend/internal/contract"
	"github.com/modelbay/templatrend/schema"
)

// MemoryStores bundles in-memory store implementations. They back the none
// backend and the engine test suites; all are safe for concurrent use.
type MemoryStores struct {
	Usage     *MemoryUsageStore
	Ranking   *MemoryRankingStore
	Promotion *MemoryPromotionStore
	Credit    *MemoryCreditStore
	Catalog   *MemoryCatalog
	Rating    *MemoryRatingSource
}

// NewMemoryStores returns a fresh set of empty in-memory stores.
func NewMemoryStores() *MemoryStores {
	return &MemoryStores{
		Usage:     &MemoryUsageStore{},
		Ranking:   &MemoryRankingStore{records: map[schema.RankingKey]schema.RankingRecord{}},
		Promotion: &MemoryPromotionStore{requests: map[string]schema.PromotionRequest{}},
		Credit:    &MemoryCreditStore{},
		Catalog:   &MemoryCatalog{templates: map[schema.TemplateRef]schema.TemplateInfo{}},
		Rating:    &MemoryRatingSource{stats: map[schema.TemplateRef]schema.RatingStats{}},
	}
}

// Manager returns a StoreManager view over the memory stores.
func (m *MemoryStores) Manager() contract.StoreManager {
	return &memoryManager{stores: m}
}

type memoryManager struct {
	stores *MemoryStores
}

func (m *memoryManager) GetUsageStore() contract.UsageStore         { return m.stores.Usage }
func (m *memoryManager) GetRankingStore() contract.RankingStore     { return m.stores.Ranking }
func (m *memoryManager) GetPromotionStore() contract.PromotionStore { return m.stores.Promotion }
func (m *memoryManager) GetCreditStore() contract.AuthorCreditStore { return m.stores.Credit }
func (m *memoryManager) GetCatalog() contract.TemplateCatalog       { return m.stores.Catalog }
func (m *memoryManager) GetRatingSource() contract.RatingSource     { return m.stores.Rating }

// MemoryUsageStore holds usage records in a slice.
type MemoryUsageStore struct {
	mu      sync.RWMutex
	records []schema.UsageRecord
}

var _ contract.UsageStore = &MemoryUsageStore{} // Compile-time check

// Add appends usage records, used to seed test fixtures.
func (s *MemoryUsageStore) Add(records ...schema.UsageRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, records...)
}

func (s *MemoryUsageStore) Query(_ context.Context, templateID string, templateType schema.TemplateType, start, end time.Time) ([]schema.UsageRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []schema.UsageRecord
	for _, rec := range s.records {
		if rec.TemplateID != templateID || rec.TemplateType != templateType {
			continue
		}
		if rec.UsedAt.Before(start) || !rec.UsedAt.Before(end) {
			continue
		}
		out = append(out, rec)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].UsedAt.Before(out[j].UsedAt) })

	return out, nil
}

func (s *MemoryUsageStore) AggregateTemplateStats(_ context.Context, templateID string, templateType schema.TemplateType) (schema.TemplateStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var stats schema.TemplateStats
	successful := 0
	users := map[string]struct{}{}
	for _, rec := range s.records {
		if rec.TemplateID != templateID || rec.TemplateType != templateType {
			continue
		}
		stats.TotalUsage++
		users[rec.UserID] = struct{}{}
		if rec.WasSuccessful {
			successful++
		}
	}
	stats.UniqueUsers = len(users)
	if stats.TotalUsage > 0 {
		stats.SuccessRate = float64(successful) / float64(stats.TotalUsage) * 100
	}

	return stats, nil
}

func (s *MemoryUsageStore) ListActiveTemplates(_ context.Context, start, end time.Time, typeFilter schema.TemplateType) ([]schema.TemplateRef, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := map[schema.TemplateRef]struct{}{}
	for _, rec := range s.records {
		if typeFilter != "" && rec.TemplateType != typeFilter {
			continue
		}
		if rec.UsedAt.Before(start) || !rec.UsedAt.Before(end) {
			continue
		}
		seen[schema.TemplateRef{TemplateID: rec.TemplateID, TemplateType: rec.TemplateType}] = struct{}{}
	}

	refs := make([]schema.TemplateRef, 0, len(seen))
	for ref := range seen {
		refs = append(refs, ref)
	}
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].TemplateType != refs[j].TemplateType {
			return refs[i].TemplateType < refs[j].TemplateType
		}
		return refs[i].TemplateID < refs[j].TemplateID
	})

	return refs, nil
}

// MemoryRankingStore holds ranking records keyed by their identity.
type MemoryRankingStore struct {
	mu      sync.RWMutex
	records map[schema.RankingKey]schema.RankingRecord
}

var _ contract.RankingStore = &MemoryRankingStore{} // Compile-time check

func (s *MemoryRankingStore) BulkUpsert(_ context.Context, records []schema.RankingRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range records {
		s.records[rec.Key()] = rec
	}
	return nil
}

func (s *MemoryRankingStore) QueryByPeriod(_ context.Context, period schema.Period, periodStart time.Time, typeFilter schema.TemplateType) ([]schema.RankingRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []schema.RankingRecord
	for _, rec := range s.records {
		if rec.Period != period || !rec.PeriodStart.Equal(periodStart) {
			continue
		}
		if typeFilter != "" && rec.TemplateType != typeFilter {
			continue
		}
		out = append(out, rec)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TrendScore != out[j].TrendScore {
			return out[i].TrendScore > out[j].TrendScore
		}
		return out[i].TemplateID < out[j].TemplateID
	})

	return out, nil
}

func (s *MemoryRankingStore) WriteRanks(_ context.Context, assignments []schema.RankAssignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range assignments {
		if rec, ok := s.records[a.Key]; ok {
			rec.RankPosition = a.RankPosition
			s.records[a.Key] = rec
		}
	}
	return nil
}

func (s *MemoryRankingStore) Find(_ context.Context, key schema.RankingKey) (*schema.RankingRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[key]
	if !ok {
		return nil, &contract.NotFoundError{Kind: "ranking record", ID: key.TemplateID}
	}
	return &rec, nil
}

func (s *MemoryRankingStore) All(_ context.Context) ([]schema.RankingRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]schema.RankingRecord, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Period != b.Period {
			return a.Period < b.Period
		}
		if !a.PeriodStart.Equal(b.PeriodStart) {
			return a.PeriodStart.Before(b.PeriodStart)
		}
		if a.TemplateType != b.TemplateType {
			return a.TemplateType < b.TemplateType
		}
		return a.TemplateID < b.TemplateID
	})

	return out, nil
}

// MemoryPromotionStore holds promotion requests keyed by ID.
type MemoryPromotionStore struct {
	mu       sync.Mutex
	requests map[string]schema.PromotionRequest
}

var _ contract.PromotionStore = &MemoryPromotionStore{} // Compile-time check

func (s *MemoryPromotionStore) Create(_ context.Context, req *schema.PromotionRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests[req.ID] = *req
	return nil
}

func (s *MemoryPromotionStore) Find(_ context.Context, id string) (*schema.PromotionRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.requests[id]
	if !ok {
		return nil, &contract.NotFoundError{Kind: "promotion request", ID: id}
	}
	return &req, nil
}

func (s *MemoryPromotionStore) FindActiveForTemplate(_ context.Context, personalTemplateID string) (*schema.PromotionRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var found *schema.PromotionRequest
	for _, req := range s.requests {
		if req.PersonalTemplateID != personalTemplateID || !req.IsActive() {
			continue
		}
		if found == nil || req.CreatedAt.After(found.CreatedAt) {
			r := req
			found = &r
		}
	}
	return found, nil
}

// UpdateStatus holds the store lock across the check and the write, which
// gives the same compare-and-set guarantee as the SQL stores.
func (s *MemoryPromotionStore) UpdateStatus(_ context.Context, id string, from []schema.PromotionStatus, upd contract.StatusUpdate) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.requests[id]
	if !ok {
		return false, nil
	}

	allowed := false
	for _, status := range from {
		if req.Status == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return false, nil
	}

	req.Status = upd.Status
	req.ReviewedBy = upd.ReviewedBy
	if !upd.ReviewedAt.IsZero() {
		at := upd.ReviewedAt
		req.ReviewedAt = &at
	}
	req.ReviewComments = upd.ReviewComments
	req.VerifiedTemplateID = upd.VerifiedTemplateID
	req.ImplementationNotes = upd.ImplementationNotes
	req.UpdatedAt = time.Now().UTC()
	s.requests[id] = req

	return true, nil
}

func (s *MemoryPromotionStore) FindPending(_ context.Context) ([]schema.PromotionRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []schema.PromotionRequest
	for _, req := range s.requests {
		if req.IsActive() {
			out = append(out, req)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })

	return out, nil
}

func (s *MemoryPromotionStore) FindHighPriority(_ context.Context) ([]schema.PromotionRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []schema.PromotionRequest
	for _, req := range s.requests {
		if !req.IsActive() {
			continue
		}
		if req.Priority == schema.HighPriority || req.Priority == schema.UrgentPriority {
			out = append(out, req)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority == schema.UrgentPriority
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out, nil
}

// MemoryCreditStore holds author credits in a slice.
type MemoryCreditStore struct {
	mu      sync.Mutex
	credits []schema.AuthorCredit
}

var _ contract.AuthorCreditStore = &MemoryCreditStore{} // Compile-time check

func (s *MemoryCreditStore) Create(_ context.Context, credit *schema.AuthorCredit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credits = append(s.credits, *credit)
	return nil
}

func (s *MemoryCreditStore) FindByVerifiedTemplate(_ context.Context, verifiedTemplateID string) ([]schema.AuthorCredit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []schema.AuthorCredit
	for _, credit := range s.credits {
		if credit.VerifiedTemplateID == verifiedTemplateID {
			out = append(out, credit)
		}
	}
	return out, nil
}

func (s *MemoryCreditStore) FindByPromotion(_ context.Context, verifiedTemplateID, originalTemplateID string) (*schema.AuthorCredit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, credit := range s.credits {
		if credit.VerifiedTemplateID == verifiedTemplateID && credit.OriginalTemplateID == originalTemplateID {
			c := credit
			return &c, nil
		}
	}
	return nil, nil
}

// MemoryCatalog holds template metadata keyed by (id, type).
type MemoryCatalog struct {
	mu        sync.RWMutex
	templates map[schema.TemplateRef]schema.TemplateInfo
}

var _ contract.TemplateCatalog = &MemoryCatalog{} // Compile-time check

// Put registers a template, used to seed test fixtures.
func (s *MemoryCatalog) Put(info schema.TemplateInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.templates[schema.TemplateRef{TemplateID: info.TemplateID, TemplateType: info.TemplateType}] = info
}

func (s *MemoryCatalog) FindByID(_ context.Context, templateID string, templateType schema.TemplateType) (*schema.TemplateInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	info, ok := s.templates[schema.TemplateRef{TemplateID: templateID, TemplateType: templateType}]
	if !ok {
		return nil, &contract.NotFoundError{Kind: "template", ID: templateID}
	}
	return &info, nil
}

// MemoryRatingSource holds rating aggregates keyed by (id, type).
type MemoryRatingSource struct {
	mu    sync.RWMutex
	stats map[schema.TemplateRef]schema.RatingStats
}

var _ contract.RatingSource = &MemoryRatingSource{} // Compile-time check

// Set records the rating aggregate for a template, used to seed fixtures.
func (s *MemoryRatingSource) Set(templateID string, templateType schema.TemplateType, stats schema.RatingStats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats[schema.TemplateRef{TemplateID: templateID, TemplateType: templateType}] = stats
}

func (s *MemoryRatingSource) Stats(_ context.Context, templateID string, templateType schema.TemplateType) (schema.RatingStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats[schema.TemplateRef{TemplateID: templateID, TemplateType: templateType}], nil
}
