package iostore

import (
	"database/sql"
	"fmt"

	"github.com/modelbay/templatrend/schema"
)

// createStoreTables creates every engine table for the backend.
func createStoreTables(db *sql.DB, backend schema.StoreBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{usageTable, getCreateUsageQuery(backend)},
		{rankingTable, getCreateRankingQuery(backend)},
		{promotionTable, getCreatePromotionQuery(backend)},
		{creditTable, getCreateCreditQuery(backend)},
		{catalogTable, getCreateCatalogQuery(backend)},
		{ratingTable, getCreateRatingQuery(backend)},
	}

	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}

	return nil
}

// timestampType returns the column type for timestamps per backend. SQLite
// stores fixed-width UTC strings so range comparisons stay chronological.
func timestampType(backend schema.StoreBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return "DATETIME(6)"
	case schema.PostgreSQLBackend:
		return "TIMESTAMPTZ"
	default: // SQLite
		return "TEXT"
	}
}

// boolType returns the column type for booleans per backend.
func boolType(backend schema.StoreBackend) string {
	switch backend {
	case schema.SQLiteBackend:
		return "INTEGER"
	default:
		return "BOOLEAN"
	}
}

// floatType returns the column type for floating point values per backend.
func floatType(backend schema.StoreBackend) string {
	switch backend {
	case schema.SQLiteBackend:
		return "REAL"
	case schema.MySQLBackend:
		return "DOUBLE"
	default:
		return "DOUBLE PRECISION"
	}
}

func getCreateUsageQuery(backend schema.StoreBackend) string {
	return fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			template_id VARCHAR(64) NOT NULL,
			template_type VARCHAR(16) NOT NULL,
			user_id VARCHAR(64) NOT NULL,
			used_at %s NOT NULL,
			execution_time_ms BIGINT NOT NULL,
			was_successful %s NOT NULL
		);
	`, quoteTableName(usageTable, backend), timestampType(backend), boolType(backend))
}

func getCreateRankingQuery(backend schema.StoreBackend) string {
	ts := timestampType(backend)
	fl := floatType(backend)
	return fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			template_id VARCHAR(64) NOT NULL,
			template_type VARCHAR(16) NOT NULL,
			period VARCHAR(16) NOT NULL,
			period_start %s NOT NULL,
			usage_count INT NOT NULL,
			unique_users INT NOT NULL,
			success_rate %s NOT NULL,
			avg_execution_ms %s NOT NULL,
			avg_rating %s NOT NULL,
			total_ratings INT NOT NULL,
			favorite_count INT NOT NULL,
			trend_score %s NOT NULL,
			weighted_score %s NOT NULL,
			velocity_score %s NOT NULL,
			growth_rate %s NOT NULL,
			rank_position INT NOT NULL,
			PRIMARY KEY (template_id, template_type, period, period_start)
		);
	`, quoteTableName(rankingTable, backend), ts, fl, fl, fl, fl, fl, fl, fl)
}

func getCreatePromotionQuery(backend schema.StoreBackend) string {
	ts := timestampType(backend)
	return fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id VARCHAR(64) PRIMARY KEY,
			personal_template_id VARCHAR(64) NOT NULL,
			requested_by VARCHAR(64) NOT NULL,
			original_author_id VARCHAR(64) NOT NULL,
			reason TEXT,
			justification TEXT,
			priority VARCHAR(16) NOT NULL,
			metrics TEXT NOT NULL,
			quality_score %s NOT NULL,
			credit_to_author %s NOT NULL,
			status VARCHAR(16) NOT NULL,
			reviewed_by VARCHAR(64),
			reviewed_at %s,
			review_comments TEXT,
			verified_template_id VARCHAR(64),
			implementation_notes TEXT,
			created_at %s NOT NULL,
			updated_at %s NOT NULL
		);
	`, quoteTableName(promotionTable, backend), floatType(backend), boolType(backend), ts, ts, ts)
}

func getCreateCreditQuery(backend schema.StoreBackend) string {
	return fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id VARCHAR(64) PRIMARY KEY,
			verified_template_id VARCHAR(64) NOT NULL,
			original_template_id VARCHAR(64) NOT NULL,
			original_author_id VARCHAR(64) NOT NULL,
			credit_type VARCHAR(32) NOT NULL,
			points_awarded INT NOT NULL,
			badge_earned VARCHAR(64) NOT NULL,
			recognition_level VARCHAR(16) NOT NULL,
			visibility VARCHAR(16) NOT NULL,
			created_at %s NOT NULL,
			UNIQUE (verified_template_id, original_template_id)
		);
	`, quoteTableName(creditTable, backend), timestampType(backend))
}

func getCreateCatalogQuery(backend schema.StoreBackend) string {
	b := boolType(backend)
	return fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			template_id VARCHAR(64) NOT NULL,
			template_type VARCHAR(16) NOT NULL,
			name VARCHAR(255) NOT NULL,
			author_id VARCHAR(64) NOT NULL,
			is_active %s NOT NULL,
			is_public %s NOT NULL,
			PRIMARY KEY (template_id, template_type)
		);
	`, quoteTableName(catalogTable, backend), b, b)
}

func getCreateRatingQuery(backend schema.StoreBackend) string {
	return fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			template_id VARCHAR(64) NOT NULL,
			template_type VARCHAR(16) NOT NULL,
			user_id VARCHAR(64) NOT NULL,
			rating %s NOT NULL,
			is_favorite %s NOT NULL,
			rated_at %s NOT NULL,
			PRIMARY KEY (template_id, template_type, user_id)
		);
	`, quoteTableName(ratingTable, backend), floatType(backend), boolType(backend), timestampType(backend))
}
