package entity

import "time"

type RunStatus string

const (
	RunStatusSuccess RunStatus = "success"
	RunStatusError   RunStatus = "error"
)

// IngestionRun is the audit record of one source within one ingestion pass.
type IngestionRun struct {
	ID           int64
	PassID       string
	Source       string
	Status       RunStatus
	DealsScraped int
	ErrorMessage *string
	CreatedAt    time.Time
}

// SourceResult is what runIngestion reports per source.
type SourceResult struct {
	Source string
	Count  int
	Status RunStatus
	Error  string
}
