package models

import "time"

// UsageRecord is one row of the usage ledger: a single accepted generation.
type UsageRecord struct {
	Timestamp time.Time `json:"timestamp"`
	User      string    `json:"user"`
	Language  Language  `json:"language"`
	Activity  Activity  `json:"activity"`
	Attempts  int       `json:"attempts"` // cumulative attempts for User at that time
}

// CountEntry is a labelled count used by the admin summary.
type CountEntry struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// UsageSummary aggregates the usage ledger for the admin view.
type UsageSummary struct {
	Total      int           `json:"total"`
	Users      int           `json:"users"`
	ByUser     []CountEntry  `json:"by_user"`
	ByLanguage []CountEntry  `json:"by_language"`
	ByActivity []CountEntry  `json:"by_activity"`
	Recent     []UsageRecord `json:"recent"`
}
