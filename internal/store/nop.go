package store

import "github.com/amishk599/jobdelta/internal/model"

// NopRecorder discards run summaries. Used when no history database is configured.
type NopRecorder struct{}

func NewNopRecorder() *NopRecorder { return &NopRecorder{} }

func (r *NopRecorder) RecordRun(model.RunSummary) error { return nil }
