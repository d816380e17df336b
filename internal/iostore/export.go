package iostore

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelbay/templatrend/internal/parquet"
)

// ExecuteRankingExport exports every ranking record to a Parquet file.
func ExecuteRankingExport(ctx context.Context, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	status, err := Status(ctx)
	if err != nil {
		return fmt.Errorf("failed to get store status: %w", err)
	}
	if status.RankingRecords == 0 {
		return errors.New("no ranking data found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total ranking records: %d\n", status.RankingRecords)

	records, err := Manager.GetRankingStore().All(ctx)
	if err != nil {
		return fmt.Errorf("failed to retrieve ranking records: %w", err)
	}

	rows := parquet.ConvertRankingRecords(records)
	if err := parquet.WriteRankingsParquet(rows, outputFile); err != nil {
		return fmt.Errorf("failed to write rankings: %w", err)
	}
	fmt.Printf("Exported %d ranking records to: %s\n", len(rows), outputFile)

	return nil
}
