// Package output writes harvested records to their destination.
package output

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"wallfetch/internal/model"
	"wallfetch/internal/store/archive"
)

// Sink receives records one at a time.
type Sink interface {
	Write(ctx context.Context, r model.Result) error
	Close() error
}

// JSONLSink writes one record per line.
type JSONLSink struct {
	w      *bufio.Writer
	closer io.Closer
}

// NewJSONL wraps w. Close flushes but does not close w.
func NewJSONL(w io.Writer) *JSONLSink {
	return &JSONLSink{w: bufio.NewWriter(w)}
}

// OpenJSONL creates path for writing; "-" means stdout.
func OpenJSONL(path string) (*JSONLSink, error) {
	if path == "" || path == "-" {
		return NewJSONL(os.Stdout), nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	s := NewJSONL(f)
	s.closer = f
	return s, nil
}

func (s *JSONLSink) Write(ctx context.Context, r model.Result) error {
	if !r.Found {
		return nil
	}
	if _, err := s.w.WriteString(r.Record); err != nil {
		return err
	}
	return s.w.WriteByte('\n')
}

func (s *JSONLSink) Close() error {
	err := s.w.Flush()
	if s.closer != nil {
		if cerr := s.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// ArchiveSink stores records in an archive database under one run id.
type ArchiveSink struct {
	db     *archive.DB
	runID  string
	domain string
	now    func() time.Time
}

// OpenArchive opens the archive at path and registers run.
func OpenArchive(ctx context.Context, path string, run archive.Run) (*ArchiveSink, error) {
	db, err := archive.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}
	if err := db.PutRun(ctx, run); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("register run: %w", err)
	}
	return NewArchive(db, run.ID, run.Domain), nil
}

// NewArchive wraps an already open database.
func NewArchive(db *archive.DB, runID, domain string) *ArchiveSink {
	return &ArchiveSink{db: db, runID: runID, domain: domain, now: func() time.Time { return time.Now().UTC() }}
}

func (s *ArchiveSink) Write(ctx context.Context, r model.Result) error {
	if !r.Found {
		return nil
	}
	return s.db.PutRecord(ctx, archive.Record{
		RunID:     s.runID,
		Domain:    s.domain,
		OwnerID:   r.OwnerID,
		PostID:    r.PostID,
		Body:      r.Record,
		FetchedAt: s.now(),
	})
}

func (s *ArchiveSink) Close() error { return s.db.Close() }
