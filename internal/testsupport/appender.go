package testsupport

import (
	"sync"

	"logbridge/internal/logging"
)

// RecordingAppender keeps every record it receives.
type RecordingAppender struct {
	mu      sync.Mutex
	records []*logging.Record
	err     error
}

// NewRecordingAppender returns an appender that fails every Append with err
// when err is non-nil.
func NewRecordingAppender(err error) *RecordingAppender {
	return &RecordingAppender{err: err}
}

// Append implements logging.Appender.
func (a *RecordingAppender) Append(rec *logging.Record) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.records = append(a.records, rec)
	return a.err
}

// Records returns the collected records.
func (a *RecordingAppender) Records() []*logging.Record {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]*logging.Record(nil), a.records...)
}
