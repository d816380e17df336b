package iostore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/modelbay/templatrend/internal/contract"
	"github.com/modelbay/templatrend/schema"
)

// CreditStoreImpl persists author credits in SQL storage. The unique
// constraint on (verified_template_id, original_template_id) backs the
// one-credit-per-lineage rule at the storage level.
type CreditStoreImpl struct {
	db      *sql.DB
	backend schema.StoreBackend
}

var _ contract.AuthorCreditStore = &CreditStoreImpl{} // Compile-time check

const creditColumns = `id, verified_template_id, original_template_id, original_author_id,
	credit_type, points_awarded, badge_earned, recognition_level, visibility, created_at`

// Create persists a new credit record.
func (s *CreditStoreImpl) Create(ctx context.Context, credit *schema.AuthorCredit) error {
	query := rebind(fmt.Sprintf(`
		INSERT INTO %s (%s) VALUES (%s)
	`, quoteTableName(creditTable, s.backend), creditColumns, inPlaceholders(10)), s.backend)

	_, err := s.db.ExecContext(ctx, query,
		credit.ID, credit.VerifiedTemplateID, credit.OriginalTemplateID, credit.OriginalAuthorID,
		string(credit.CreditType), credit.PointsAwarded, credit.BadgeEarned,
		string(credit.RecognitionLevel), string(credit.Visibility),
		formatTime(credit.CreatedAt, s.backend),
	)
	if err != nil {
		return fmt.Errorf("failed to create author credit %s: %w", credit.ID, err)
	}

	return nil
}

// FindByVerifiedTemplate returns all credits attached to a verified template.
func (s *CreditStoreImpl) FindByVerifiedTemplate(ctx context.Context, verifiedTemplateID string) ([]schema.AuthorCredit, error) {
	query := rebind(fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE verified_template_id = ?
		ORDER BY created_at ASC
	`, creditColumns, quoteTableName(creditTable, s.backend)), s.backend)

	rows, err := s.db.QueryContext(ctx, query, verifiedTemplateID)
	if err != nil {
		return nil, fmt.Errorf("failed to query author credits: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var credits []schema.AuthorCredit
	for rows.Next() {
		credit, err := scanCreditRow(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan author credit: %w", err)
		}
		credits = append(credits, *credit)
	}

	return credits, rows.Err()
}

// FindByPromotion returns the credit for one promotion lineage, or nil
// when none exists.
func (s *CreditStoreImpl) FindByPromotion(ctx context.Context, verifiedTemplateID, originalTemplateID string) (*schema.AuthorCredit, error) {
	query := rebind(fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE verified_template_id = ? AND original_template_id = ?
	`, creditColumns, quoteTableName(creditTable, s.backend)), s.backend)

	row := s.db.QueryRowContext(ctx, query, verifiedTemplateID, originalTemplateID)
	credit, err := scanCreditRow(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find credit for template %s: %w", verifiedTemplateID, err)
	}

	return credit, nil
}

func scanCreditRow(scan func(...any) error) (*schema.AuthorCredit, error) {
	var credit schema.AuthorCredit
	err := scan(
		&credit.ID, &credit.VerifiedTemplateID, &credit.OriginalTemplateID, &credit.OriginalAuthorID,
		&credit.CreditType, &credit.PointsAwarded, &credit.BadgeEarned,
		&credit.RecognitionLevel, &credit.Visibility,
		scannedTime{t: &credit.CreatedAt},
	)
	if err != nil {
		return nil, err
	}
	return &credit, nil
}
