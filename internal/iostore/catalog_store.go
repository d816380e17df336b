package iostore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/modelbay/templatrend/internal/contract"
	"github.com/modelbay/templatrend/schema"
)

// CatalogImpl looks up template metadata from SQL storage.
type CatalogImpl struct {
	db      *sql.DB
	backend schema.StoreBackend
}

var _ contract.TemplateCatalog = &CatalogImpl{} // Compile-time check

// FindByID returns the catalog entry for one template, or a NotFoundError.
func (s *CatalogImpl) FindByID(ctx context.Context, templateID string, templateType schema.TemplateType) (*schema.TemplateInfo, error) {
	query := rebind(fmt.Sprintf(`
		SELECT template_id, template_type, name, author_id, is_active, is_public
		FROM %s
		WHERE template_id = ? AND template_type = ?
	`, quoteTableName(catalogTable, s.backend)), s.backend)

	var info schema.TemplateInfo
	err := s.db.QueryRowContext(ctx, query, templateID, string(templateType)).Scan(
		&info.TemplateID, &info.TemplateType, &info.Name, &info.AuthorID,
		&info.IsActive, &info.IsPublic,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &contract.NotFoundError{Kind: "template", ID: templateID}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find template %s: %w", templateID, err)
	}

	return &info, nil
}

// RatingSourceImpl aggregates community rating signals from SQL storage.
type RatingSourceImpl struct {
	db      *sql.DB
	backend schema.StoreBackend
}

var _ contract.RatingSource = &RatingSourceImpl{} // Compile-time check

// Stats returns the rating aggregate for one template. A template with no
// ratings yields the zero value, not an error.
func (s *RatingSourceImpl) Stats(ctx context.Context, templateID string, templateType schema.TemplateType) (schema.RatingStats, error) {
	query := rebind(fmt.Sprintf(`
		SELECT COALESCE(AVG(rating), 0),
		       COUNT(*),
		       COALESCE(SUM(CASE WHEN is_favorite THEN 1 ELSE 0 END), 0)
		FROM %s
		WHERE template_id = ? AND template_type = ?
	`, quoteTableName(ratingTable, s.backend)), s.backend)

	var stats schema.RatingStats
	err := s.db.QueryRowContext(ctx, query, templateID, string(templateType)).Scan(
		&stats.AverageRating, &stats.TotalRatings, &stats.FavoriteCount,
	)
	if err != nil {
		return schema.RatingStats{}, fmt.Errorf("failed to aggregate ratings for template %s: %w", templateID, err)
	}

	return stats, nil
}
