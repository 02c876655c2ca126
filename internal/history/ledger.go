package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrRecordNotFound is returned for an index outside the ledger or a record
// whose backing file is gone.
var ErrRecordNotFound = errors.New("history record not found")

const (
	// DefaultDir is the history directory used when none is given.
	DefaultDir = "drawings"

	// FileName is the ledger file inside the history directory.
	FileName = "history.json"
)

// Record describes one saved drawing.
type Record struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	Title     string    `json:"title"`
	Timestamp time.Time `json:"timestamp"`
	Path      string    `json:"path"`
}

// naiveLayout is a timestamp without a zone, as left by ledgers written
// before records carried one. Such times are read as local time.
const naiveLayout = "2006-01-02T15:04:05.999999999"

// UnmarshalJSON decodes a record, accepting RFC 3339 timestamps as well as
// zone-less ones.
func (r *Record) UnmarshalJSON(data []byte) error {
	type plain Record
	aux := struct {
		*plain
		Timestamp string `json:"timestamp"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	r.Timestamp = time.Time{}
	if aux.Timestamp == "" {
		return nil
	}
	ts, err := time.Parse(time.RFC3339Nano, aux.Timestamp)
	if err != nil {
		ts, err = time.ParseInLocation(naiveLayout, aux.Timestamp, time.Local)
		if err != nil {
			return fmt.Errorf("record %q: bad timestamp %q", r.Filename, aux.Timestamp)
		}
	}
	r.Timestamp = ts
	return nil
}

// Ledger is the ordered list of saved drawings, oldest first, mirrored to a
// JSON file. Every mutation rewrites the whole file.
type Ledger struct {
	mu      sync.RWMutex
	dir     string
	records []Record

	now   func() time.Time
	newID func() string
}

// Open loads the ledger stored in dir, creating dir if needed. A missing
// ledger file yields an empty ledger.
func Open(dir string) (*Ledger, error) {
	if dir == "" {
		dir = DefaultDir
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}

	l := &Ledger{dir: dir, now: time.Now, newID: uuid.NewString}

	data, err := os.ReadFile(l.path())
	if err != nil {
		if os.IsNotExist(err) {
			return l, nil
		}
		return nil, fmt.Errorf("read history file: %w", err)
	}
	if err := json.Unmarshal(data, &l.records); err != nil {
		return nil, fmt.Errorf("parse history file: %w", err)
	}
	for i := range l.records {
		if l.records[i].ID == "" {
			l.records[i].ID = l.newID()
		}
	}
	return l, nil
}

// Dir returns the history directory.
func (l *Ledger) Dir() string { return l.dir }

func (l *Ledger) path() string {
	return filepath.Join(l.dir, FileName)
}

// Add appends a record for filename, which lives inside Dir. An empty title
// becomes "Drawing N", N being the new ledger length. If the ledger file
// cannot be written the record is not kept.
func (l *Ledger) Add(filename, title string) (Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if title == "" {
		title = fmt.Sprintf("Drawing %d", len(l.records)+1)
	}
	rec := Record{
		ID:        l.newID(),
		Filename:  filename,
		Title:     title,
		Timestamp: l.now(),
		Path:      filepath.Join(l.dir, filename),
	}

	l.records = append(l.records, rec)
	if err := l.save(); err != nil {
		l.records = l.records[:len(l.records)-1]
		return Record{}, err
	}
	return rec, nil
}

// All returns every record, oldest first.
func (l *Ledger) All() []Record {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]Record(nil), l.records...)
}

// Recent returns the last n records, oldest first. n <= 0 returns nil.
func (l *Ledger) Recent(n int) []Record {
	if n <= 0 {
		return nil
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	start := max(len(l.records)-n, 0)
	return append([]Record(nil), l.records[start:]...)
}

// Len returns the number of records.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}

// Get returns the record at index i of All.
func (l *Ledger) Get(i int) (Record, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if i < 0 || i >= len(l.records) {
		return Record{}, fmt.Errorf("%w: index %d of %d", ErrRecordNotFound, i, len(l.records))
	}
	return l.records[i], nil
}

// Delete removes the record at index i of All and then its drawing file.
//
// An out-of-range index returns ErrRecordNotFound and changes nothing. If the
// ledger file cannot be rewritten the record stays. A drawing file that is
// already gone is not an error.
func (l *Ledger) Delete(i int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if i < 0 || i >= len(l.records) {
		return fmt.Errorf("%w: index %d of %d", ErrRecordNotFound, i, len(l.records))
	}

	prev := l.records
	rec := prev[i]
	l.records = append(append([]Record(nil), prev[:i]...), prev[i+1:]...)
	if err := l.save(); err != nil {
		l.records = prev
		return err
	}

	if err := os.Remove(rec.Path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove drawing file: %w", err)
	}
	return nil
}

// save rewrites the ledger file. Callers hold mu.
func (l *Ledger) save() error {
	records := l.records
	if records == nil {
		records = []Record{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}
	if err := os.WriteFile(l.path(), data, 0644); err != nil {
		return fmt.Errorf("write history file: %w", err)
	}
	return nil
}
