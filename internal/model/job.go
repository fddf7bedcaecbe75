package model

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// MaxDescriptionLen is the number of characters of plain description kept per record.
const MaxDescriptionLen = 400

// Job is the normalized record produced from one upstream posting.
type Job struct {
	ID          string // sha256 hex of URL
	Company     string // configured board slug
	Title       string // job title
	Location    string // location string, may be a joined list
	Description string // plain description text
	URL         string // canonical hosted link
	Source      string // provider name
}

// Fingerprint returns the hex-encoded SHA-256 digest of text. Records are keyed
// by the fingerprint of their canonical URL.
func Fingerprint(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// SearchText is the text the query filter runs against:
// title, location and description separated by single spaces.
func (j Job) SearchText() string {
	return j.Title + " " + j.Location + " " + j.Description
}

// TruncateDescription returns s cut to at most MaxDescriptionLen characters.
func TruncateDescription(s string) string {
	if len(s) <= MaxDescriptionLen {
		return s
	}
	r := []rune(s)
	if len(r) <= MaxDescriptionLen {
		return s
	}
	return string(r[:MaxDescriptionLen])
}

// RunSummary describes one completed pipeline run.
type RunSummary struct {
	StartedAt time.Time
	Query     string
	Scraped   int      // post-filter matches across all companies
	New       int      // records appended to the stores
	Failed    []string // "provider/slug" of companies whose fetch failed
	DryRun    bool
}

// JobFetcher fetches job listings from one provider board.
type JobFetcher interface {
	FetchJobs(ctx context.Context) ([]Job, error)
}

// JobFilter decides whether a job matches the user's query.
type JobFilter interface {
	Match(job Job) bool
}

// Notifier reports newly stored jobs.
type Notifier interface {
	Notify(jobs []Job) error
}

// RunRecorder keeps a log of pipeline runs.
type RunRecorder interface {
	RecordRun(run RunSummary) error
}

// RecordStore is a persisted, append-only collection of job records.
type RecordStore interface {
	LoadIDs() (map[string]struct{}, error)
	Append(jobs []Job) error
}
