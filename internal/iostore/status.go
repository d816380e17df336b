package iostore

import (
	"context"
	"fmt"
	"time"

	"github.com/modelbay/templatrend/schema"
)

// Status reports row counts and the ranking period range for the
// configured backend.
func Status(ctx context.Context) (*schema.StoreStatus, error) {
	Manager.RLock()
	backend := Manager.backend
	db := Manager.db
	Manager.RUnlock()

	status := &schema.StoreStatus{Backend: backend}

	if backend == schema.NoneBackend {
		records, err := Manager.GetRankingStore().All(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to read rankings: %w", err)
		}
		status.RankingRecords = int64(len(records))
		setPeriodRange(status, records)
		return status, nil
	}

	if db == nil {
		return nil, fmt.Errorf("store backend %s is not initialized", backend)
	}
	if backend == schema.SQLiteBackend {
		status.Location = GetStoreDBFilePath()
	}

	counts := []struct {
		table string
		dest  *int64
	}{
		{usageTable, &status.UsageRecords},
		{rankingTable, &status.RankingRecords},
		{promotionTable, &status.PromotionRecords},
		{creditTable, &status.CreditRecords},
	}
	for _, c := range counts {
		query := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(c.table, backend))
		if err := db.QueryRowContext(ctx, query).Scan(c.dest); err != nil {
			return nil, fmt.Errorf("failed to count rows in %s: %w", c.table, err)
		}
	}

	if status.RankingRecords > 0 {
		query := fmt.Sprintf("SELECT MIN(period_start), MAX(period_start) FROM %s",
			quoteTableName(rankingTable, backend))
		var oldest, newest *time.Time
		err := db.QueryRowContext(ctx, query).Scan(
			scannedNullTime{t: &oldest}, scannedNullTime{t: &newest})
		if err != nil {
			return nil, fmt.Errorf("failed to read ranking period range: %w", err)
		}
		status.OldestPeriod = oldest
		status.NewestPeriod = newest
	}

	return status, nil
}

// PrintStoreStatus prints store status information.
func PrintStoreStatus(status *schema.StoreStatus) {
	fmt.Printf("Store Backend: %s\n", status.Backend)
	if status.Location != "" {
		fmt.Printf("Location: %s\n", status.Location)
	}
	fmt.Printf("Usage Records: %d\n", status.UsageRecords)
	fmt.Printf("Ranking Records: %d\n", status.RankingRecords)
	fmt.Printf("Promotion Records: %d\n", status.PromotionRecords)
	fmt.Printf("Credit Records: %d\n", status.CreditRecords)
	if status.OldestPeriod != nil && status.NewestPeriod != nil {
		fmt.Printf("Oldest Period: %s\n", status.OldestPeriod.Format("2006-01-02"))
		fmt.Printf("Newest Period: %s\n", status.NewestPeriod.Format("2006-01-02"))
	}
}

func setPeriodRange(status *schema.StoreStatus, records []schema.RankingRecord) {
	for _, rec := range records {
		start := rec.PeriodStart
		if status.OldestPeriod == nil || start.Before(*status.OldestPeriod) {
			t := start
			status.OldestPeriod = &t
		}
		if status.NewestPeriod == nil || start.After(*status.NewestPeriod) {
			t := start
			status.NewestPeriod = &t
		}
	}
}
