package trace

import (
	"errors"
	"testing"
	"time"

	_ "modernc.org/sqlite" // register "sqlite" driver

	"github.com/hazyhaar/tabctl/dbopen"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	db := dbopen.OpenMemory(t, dbopen.WithSchema(Schema))
	return NewStore(db)
}

func TestStoreRecordAndRecent(t *testing.T) {
	s := testStore(t)

	Record(s, nil, "tab-1", "click", "#submit", time.Now(), nil)
	Record(s, nil, "tab-1", "navigate", "https://example.com", time.Now(), errors.New("net::ERR_FAILED"))

	// Close drains the async buffer.
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	entries, err := s.Recent(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	// Newest first.
	if entries[0].Op != "navigate" || entries[1].Op != "click" {
		t.Errorf("order = %s, %s", entries[0].Op, entries[1].Op)
	}
	if entries[0].Error == "" {
		t.Error("error text not persisted")
	}
	if entries[1].PageID != "tab-1" {
		t.Errorf("page id = %q", entries[1].PageID)
	}
}

func TestRecordWithoutStoreOnlyLogs(t *testing.T) {
	// Must not panic with nil recorder and nil logger.
	Record(nil, nil, "", "fill", "input[name=q]", time.Now(), nil)
}

func TestStoreDropsWhenFull(t *testing.T) {
	s := testStore(t)
	// Saturate far past the buffer; RecordAsync must never block.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 10000; i++ {
			s.RecordAsync(&Entry{Op: "click", Timestamp: int64(i)})
		}
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("RecordAsync blocked")
	}
	s.Close()
}
