package entity

import "time"

type FileRecord struct {
	Filename string   `json:"filename"`
	Dirname  string   `json:"dirname"`
	Metadata FileStat `json:"metadata"`
}

type Manifest []FileRecord

// UnitResult is the outcome of one processed unit (file or animation group).
type UnitResult struct {
	Source  string
	Record  *FileRecord
	Failed  []error // Operations that produced no output
	Aborted error   // Set when the unit could not be processed at all
}

type RunSummary struct {
	RunID            string
	SourceDir        string
	OutputDir        string
	StartedAt        time.Time
	FinishedAt       time.Time
	Units            int
	FailedUnits      int
	FailedOperations int
	Manifest         Manifest
}
