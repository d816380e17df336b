package schema

import "time"

// StoreStatus holds status information about the engine stores.
type StoreStatus struct {
	Backend          StoreBackend `json:"backend"`
	Location         string       `json:"location,omitempty"`
	UsageRecords     int64        `json:"usage_records"`
	RankingRecords   int64        `json:"ranking_records"`
	PromotionRecords int64        `json:"promotion_records"`
	CreditRecords    int64        `json:"credit_records"`
	OldestPeriod     *time.Time   `json:"oldest_period,omitempty"`
	NewestPeriod     *time.Time   `json:"newest_period,omitempty"`
}
