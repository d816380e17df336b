package iostore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/modelbay/templatrend/internal/contract"
	"github.com/modelbay/templatrend/schema"
)

// PromotionStoreImpl persists promotion requests in SQL storage. The
// frozen metrics snapshot is stored as a JSON text column since it is
// never queried field-by-field.
type PromotionStoreImpl struct {
	db      *sql.DB
	backend schema.StoreBackend
}

var _ contract.PromotionStore = &PromotionStoreImpl{} // Compile-time check

const promotionColumns = `id, personal_template_id, requested_by, original_author_id,
	reason, justification, priority, metrics, quality_score, credit_to_author,
	status, reviewed_by, reviewed_at, review_comments,
	verified_template_id, implementation_notes, created_at, updated_at`

// Create persists a new request.
func (s *PromotionStoreImpl) Create(ctx context.Context, req *schema.PromotionRequest) error {
	metrics, err := json.Marshal(req.Metrics)
	if err != nil {
		return fmt.Errorf("failed to encode promotion metrics: %w", err)
	}

	query := rebind(fmt.Sprintf(`
		INSERT INTO %s (%s) VALUES (%s)
	`, quoteTableName(promotionTable, s.backend), promotionColumns, inPlaceholders(18)), s.backend)

	var reviewedAt any
	if req.ReviewedAt != nil {
		reviewedAt = formatTime(*req.ReviewedAt, s.backend)
	}

	_, err = s.db.ExecContext(ctx, query,
		req.ID, req.PersonalTemplateID, req.RequestedBy, req.OriginalAuthorID,
		req.Reason, req.Justification, string(req.Priority), string(metrics),
		req.QualityScore, req.CreditToAuthor,
		string(req.Status), req.ReviewedBy, reviewedAt, req.ReviewComments,
		req.VerifiedTemplateID, req.ImplementationNotes,
		formatTime(req.CreatedAt, s.backend), formatTime(req.UpdatedAt, s.backend),
	)
	if err != nil {
		return fmt.Errorf("failed to create promotion request %s: %w", req.ID, err)
	}

	return nil
}

// Find returns the request with the given ID, or a NotFoundError.
func (s *PromotionStoreImpl) Find(ctx context.Context, id string) (*schema.PromotionRequest, error) {
	query := rebind(fmt.Sprintf(`
		SELECT %s FROM %s WHERE id = ?
	`, promotionColumns, quoteTableName(promotionTable, s.backend)), s.backend)

	row := s.db.QueryRowContext(ctx, query, id)
	req, err := scanPromotionRow(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &contract.NotFoundError{Kind: "promotion request", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find promotion request %s: %w", id, err)
	}

	return req, nil
}

// FindActiveForTemplate returns the pending or under_review request for a
// personal template, or nil when none exists.
func (s *PromotionStoreImpl) FindActiveForTemplate(ctx context.Context, personalTemplateID string) (*schema.PromotionRequest, error) {
	query := rebind(fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE personal_template_id = ? AND status IN (?, ?)
		ORDER BY created_at DESC
		LIMIT 1
	`, promotionColumns, quoteTableName(promotionTable, s.backend)), s.backend)

	row := s.db.QueryRowContext(ctx, query,
		personalTemplateID, string(schema.StatusPending), string(schema.StatusUnderReview))
	req, err := scanPromotionRow(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find active promotion for template %s: %w", personalTemplateID, err)
	}

	return req, nil
}

// UpdateStatus applies upd only if the request's current status is in the
// from set. The WHERE clause makes the check-and-write a single atomic
// statement, so concurrent reviewers cannot both win.
func (s *PromotionStoreImpl) UpdateStatus(ctx context.Context, id string, from []schema.PromotionStatus, upd contract.StatusUpdate) (bool, error) {
	if len(from) == 0 {
		return false, fmt.Errorf("empty from-status set for promotion request %s", id)
	}

	query := rebind(fmt.Sprintf(`
		UPDATE %s SET
			status = ?, reviewed_by = ?, reviewed_at = ?, review_comments = ?,
			verified_template_id = ?, implementation_notes = ?, updated_at = ?
		WHERE id = ? AND status IN (%s)
	`, quoteTableName(promotionTable, s.backend), inPlaceholders(len(from))), s.backend)

	var reviewedAt any
	if !upd.ReviewedAt.IsZero() {
		reviewedAt = formatTime(upd.ReviewedAt, s.backend)
	}

	args := []any{
		string(upd.Status), upd.ReviewedBy, reviewedAt, upd.ReviewComments,
		upd.VerifiedTemplateID, upd.ImplementationNotes,
		formatTime(time.Now(), s.backend),
		id,
	}
	for _, status := range from {
		args = append(args, string(status))
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to update promotion request %s: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read update result for promotion request %s: %w", id, err)
	}

	return affected > 0, nil
}

// FindPending returns all requests awaiting a decision, oldest first.
func (s *PromotionStoreImpl) FindPending(ctx context.Context) ([]schema.PromotionRequest, error) {
	query := rebind(fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE status IN (?, ?)
		ORDER BY created_at ASC
	`, promotionColumns, quoteTableName(promotionTable, s.backend)), s.backend)

	return s.queryRequests(ctx, query,
		string(schema.StatusPending), string(schema.StatusUnderReview))
}

// FindHighPriority returns active requests with high or urgent priority,
// urgent before high, oldest first within each priority.
func (s *PromotionStoreImpl) FindHighPriority(ctx context.Context) ([]schema.PromotionRequest, error) {
	query := rebind(fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE status IN (?, ?) AND priority IN (?, ?)
		ORDER BY CASE priority WHEN ? THEN 0 ELSE 1 END ASC, created_at ASC
	`, promotionColumns, quoteTableName(promotionTable, s.backend)), s.backend)

	return s.queryRequests(ctx, query,
		string(schema.StatusPending), string(schema.StatusUnderReview),
		string(schema.HighPriority), string(schema.UrgentPriority),
		string(schema.UrgentPriority))
}

func (s *PromotionStoreImpl) queryRequests(ctx context.Context, query string, args ...any) ([]schema.PromotionRequest, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query promotion requests: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var requests []schema.PromotionRequest
	for rows.Next() {
		req, err := scanPromotionRow(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan promotion request: %w", err)
		}
		requests = append(requests, *req)
	}

	return requests, rows.Err()
}

func scanPromotionRow(scan func(...any) error) (*schema.PromotionRequest, error) {
	var req schema.PromotionRequest
	var metrics string
	var reviewedBy, reviewComments, verifiedTemplateID, implementationNotes sql.NullString

	err := scan(
		&req.ID, &req.PersonalTemplateID, &req.RequestedBy, &req.OriginalAuthorID,
		&req.Reason, &req.Justification, &req.Priority, &metrics,
		&req.QualityScore, &req.CreditToAuthor,
		&req.Status, &reviewedBy, scannedNullTime{t: &req.ReviewedAt}, &reviewComments,
		&verifiedTemplateID, &implementationNotes,
		scannedTime{t: &req.CreatedAt}, scannedTime{t: &req.UpdatedAt},
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(metrics), &req.Metrics); err != nil {
		return nil, fmt.Errorf("failed to decode promotion metrics: %w", err)
	}
	req.ReviewedBy = reviewedBy.String
	req.ReviewComments = reviewComments.String
	req.VerifiedTemplateID = verifiedTemplateID.String
	req.ImplementationNotes = implementationNotes.String

	return &req, nil
}
