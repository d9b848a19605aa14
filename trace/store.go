package trace

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/hazyhaar/tabctl/dbopen"
)

// Schema for the page_traces table. Call Store.Init() or apply
// manually.
const Schema = `
CREATE TABLE IF NOT EXISTS page_traces (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	page_id TEXT,
	op TEXT NOT NULL,
	target TEXT,
	duration_us INTEGER NOT NULL,
	error TEXT,
	timestamp INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_page_traces_ts ON page_traces(timestamp);
CREATE INDEX IF NOT EXISTS idx_page_traces_page ON page_traces(page_id) WHERE page_id != '';
CREATE INDEX IF NOT EXISTS idx_page_traces_slow ON page_traces(duration_us) WHERE duration_us > 100000;
`

// Store persists trace entries to SQLite asynchronously: buffered
// channel in, batched inserts out.
type Store struct {
	db   *sql.DB
	ch   chan *Entry
	done chan struct{}
	once sync.Once
}

// NewStore creates a store backed by the given database connection and
// starts its flush goroutine.
func NewStore(db *sql.DB) *Store {
	s := &Store{
		db:   db,
		ch:   make(chan *Entry, 1024),
		done: make(chan struct{}),
	}
	go s.flushLoop()
	return s
}

// Init creates the page_traces table if it doesn't exist.
func (s *Store) Init() error {
	_, err := s.db.Exec(Schema)
	return err
}

// RecordAsync queues an entry. Non-blocking; drops when the buffer is
// full so a slow disk never backpressures page operations.
func (s *Store) RecordAsync(e *Entry) {
	select {
	case s.ch <- e:
	default:
	}
}

// Close drains the buffer and stops the flush goroutine.
func (s *Store) Close() error {
	s.once.Do(func() {
		close(s.ch)
		<-s.done
	})
	return nil
}

func (s *Store) flushLoop() {
	defer close(s.done)

	batch := make([]*Entry, 0, 64)
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		s.insertBatch(batch)
		batch = batch[:0]
	}

	for {
		select {
		case e, ok := <-s.ch:
			if !ok {
				flush()
				return
			}
			batch = append(batch, e)
			if len(batch) >= 64 {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}

func (s *Store) insertBatch(batch []*Entry) {
	// Traces are advisory; a failed batch is dropped, not retried forever.
	dbopen.RunTx(context.Background(), s.db, func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`
			INSERT INTO page_traces (page_id, op, target, duration_us, error, timestamp)
			VALUES (?,?,?,?,?,?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, e := range batch {
			if _, err := stmt.Exec(e.PageID, e.Op, e.Target, e.DurationUs, e.Error, e.Timestamp); err != nil {
				return err
			}
		}
		return nil
	})
}

// Recent returns the newest n entries, newest first.
func (s *Store) Recent(n int) ([]Entry, error) {
	rows, err := s.db.Query(`
		SELECT page_id, op, target, duration_us, error, timestamp
		FROM page_traces ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.PageID, &e.Op, &e.Target, &e.DurationUs, &e.Error, &e.Timestamp); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
