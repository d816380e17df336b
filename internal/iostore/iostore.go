// Package iostore is the persistence layer for the ranking engine.
package iostore

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/modelbay/templatrend/internal/contract"
	"github.com/modelbay/templatrend/schema"
)

// StoreManagerImpl bundles the engine stores over one shared connection.
type StoreManagerImpl struct {
	sync.RWMutex // Protects the store pointers during initialization
	backend      schema.StoreBackend
	db           *sql.DB

	usage     contract.UsageStore
	ranking   contract.RankingStore
	promotion contract.PromotionStore
	credit    contract.AuthorCreditStore
	catalog   contract.TemplateCatalog
	rating    contract.RatingSource
}

var _ contract.StoreManager = &StoreManagerImpl{} // Compile-time check

// Global Manager instance for main logic.
var (
	Manager   = &StoreManagerImpl{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// GetStoreDBFilePath returns the path to the SQLite DB file for engine storage.
func GetStoreDBFilePath() string {
	return contract.GetStoreDBFilePath()
}

// GetUsageStore returns the usage store.
func (mgr *StoreManagerImpl) GetUsageStore() contract.UsageStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.usage
}

// GetRankingStore returns the ranking store.
func (mgr *StoreManagerImpl) GetRankingStore() contract.RankingStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.ranking
}

// GetPromotionStore returns the promotion store.
func (mgr *StoreManagerImpl) GetPromotionStore() contract.PromotionStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.promotion
}

// GetCreditStore returns the author credit store.
func (mgr *StoreManagerImpl) GetCreditStore() contract.AuthorCreditStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.credit
}

// GetCatalog returns the template catalog.
func (mgr *StoreManagerImpl) GetCatalog() contract.TemplateCatalog {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.catalog
}

// GetRatingSource returns the rating source, which may be nil when no
// rating data is configured.
func (mgr *StoreManagerImpl) GetRatingSource() contract.RatingSource {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.rating
}

// Backend returns the configured store backend.
func (mgr *StoreManagerImpl) Backend() schema.StoreBackend {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.backend
}

// InitStores initializes the global store manager for the configured
// backend. The none backend wires purely in-memory stores, which is enough
// for dry runs and tests.
func InitStores(cfg *contract.Config) error {
	var initErr error

	initOnce.Do(func() {
		// This function body runs exactly once, even with concurrent calls.
		Manager.Lock()
		defer Manager.Unlock()
		Manager.backend = cfg.StoreBackend

		if cfg.StoreBackend == schema.NoneBackend {
			mem := NewMemoryStores()
			Manager.usage = mem.Usage
			Manager.ranking = mem.Ranking
			Manager.promotion = mem.Promotion
			Manager.credit = mem.Credit
			Manager.catalog = mem.Catalog
			Manager.rating = mem.Rating
			return
		}

		db, err := openDB(cfg.StoreBackend, cfg.StoreDBConnect)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize store backend: %w", err)
			return
		}
		if err := createStoreTables(db, cfg.StoreBackend); err != nil {
			_ = db.Close()
			initErr = fmt.Errorf("failed to create store tables: %w", err)
			return
		}

		Manager.db = db
		Manager.usage = &UsageStoreImpl{db: db, backend: cfg.StoreBackend}
		Manager.ranking = &RankingStoreImpl{db: db, backend: cfg.StoreBackend}
		Manager.promotion = &PromotionStoreImpl{db: db, backend: cfg.StoreBackend}
		Manager.credit = &CreditStoreImpl{db: db, backend: cfg.StoreBackend}
		Manager.catalog = &CatalogImpl{db: db, backend: cfg.StoreBackend}
		Manager.rating = &RatingSourceImpl{db: db, backend: cfg.StoreBackend}
	})

	// After once.Do, initErr will contain any error from the initialization block.
	return initErr
}

// CloseStores should be called on application shutdown.
func CloseStores() { // called in main defer
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.db != nil {
			_ = Manager.db.Close()
		}
	})
}

// ClearStores removes all engine data for the specified backend.
// For SQLite, it deletes the database file.
// For SQL backends (MySQL/PostgreSQL), it drops the tables.
// For the none backend, it does nothing.
func ClearStores(backend schema.StoreBackend, dbFilePath, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		if dbFilePath == "" {
			return fmt.Errorf("dbFilePath cannot be empty for SQLite backend")
		}
		// Remove the file; ignore if it doesn't exist
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend:
		return dropStoreTables("mysql", connStr)

	case schema.PostgreSQLBackend:
		return dropStoreTables("pgx", connStr)

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported store backend for clearing: %s", backend)
	}
}

// dropStoreTables connects to the SQL database and drops every engine table.
func dropStoreTables(driverName, connStr string) error {
	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s database: %w", driverName, err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping %s database: %w", driverName, err)
	}

	tables := []string{usageTable, rankingTable, promotionTable, creditTable, catalogTable, ratingTable}
	for _, table := range tables {
		query := fmt.Sprintf("DROP TABLE IF EXISTS %s", table)
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}

	return nil
}
