package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

// openTestLedger opens a ledger in a fresh temp dir with a fixed clock and
// sequential IDs.
func openTestLedger(t *testing.T) *Ledger {
	t.Helper()
	l, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	calls := 0
	l.now = func() time.Time { return base.Add(time.Duration(calls) * time.Minute) }
	l.newID = func() string {
		calls++
		return fmt.Sprintf("id-%d", calls)
	}
	return l
}

// addDrawing writes a placeholder drawing file and records it.
func addDrawing(t *testing.T, l *Ledger, name, title string) Record {
	t.Helper()
	if err := os.WriteFile(filepath.Join(l.Dir(), name), []byte("png"), 0644); err != nil {
		t.Fatalf("write drawing: %v", err)
	}
	rec, err := l.Add(name, title)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	return rec
}

func titles(recs []Record) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.Title
	}
	return out
}

func TestOpen_CreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "drawings")
	l, err := Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if l.Len() != 0 {
		t.Errorf("new ledger should be empty, has %d", l.Len())
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("Open should create the history dir: %v", err)
	}
}

func TestOpen_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(dir); err == nil {
		t.Error("Open should fail on a corrupt ledger file")
	}
}

func TestOpen_ZonelessTimestamps(t *testing.T) {
	dir := t.TempDir()
	legacy := `[
  {
    "filename": "drawing_20240101_120000.png",
    "title": "Drawing 1",
    "timestamp": "2024-01-01T12:00:00.123456",
    "path": "drawings/drawing_20240101_120000.png"
  },
  {
    "id": "keep-me",
    "filename": "b.png",
    "title": "B",
    "timestamp": "2024-01-02T08:30:00Z",
    "path": "drawings/b.png"
  }
]`
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(legacy), 0644); err != nil {
		t.Fatal(err)
	}

	l, err := Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	all := l.All()
	if len(all) != 2 {
		t.Fatalf("records: got %d, want 2", len(all))
	}

	want := time.Date(2024, 1, 1, 12, 0, 0, 123456000, time.Local)
	if !all[0].Timestamp.Equal(want) {
		t.Errorf("zone-less timestamp: got %v, want %v", all[0].Timestamp, want)
	}
	if !all[1].Timestamp.Equal(time.Date(2024, 1, 2, 8, 30, 0, 0, time.UTC)) {
		t.Errorf("RFC 3339 timestamp: got %v", all[1].Timestamp)
	}
	if all[0].ID == "" || all[1].ID != "keep-me" {
		t.Errorf("IDs: got %q, %q", all[0].ID, all[1].ID)
	}
}

func TestOpen_BadTimestamp(t *testing.T) {
	dir := t.TempDir()
	data := `[{"filename":"a.png","title":"A","timestamp":"yesterday","path":"a.png"}]`
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(dir); err == nil {
		t.Error("Open should reject an unparseable timestamp")
	}
}

func TestLedger_Add(t *testing.T) {
	l := openTestLedger(t)

	first := addDrawing(t, l, "drawing_1.png", "")
	second := addDrawing(t, l, "drawing_2.png", "Cat")
	third := addDrawing(t, l, "drawing_3.png", "")

	if first.Title != "Drawing 1" || second.Title != "Cat" || third.Title != "Drawing 3" {
		t.Errorf("titles: got %q, %q, %q", first.Title, second.Title, third.Title)
	}
	if first.ID != "id-1" || third.ID != "id-3" {
		t.Errorf("IDs: got %q, %q", first.ID, third.ID)
	}
	if first.Path != filepath.Join(l.Dir(), "drawing_1.png") {
		t.Errorf("Path: got %s", first.Path)
	}
	if !second.Timestamp.After(first.Timestamp) {
		t.Error("timestamps should follow the clock")
	}
	if l.Len() != 3 {
		t.Errorf("Len: got %d, want 3", l.Len())
	}
}

func TestLedger_Persistence(t *testing.T) {
	l := openTestLedger(t)
	addDrawing(t, l, "a.png", "A")
	addDrawing(t, l, "b.png", "")

	data, err := os.ReadFile(filepath.Join(l.Dir(), FileName))
	if err != nil {
		t.Fatalf("ledger file missing: %v", err)
	}
	var onDisk []map[string]any
	if err := json.Unmarshal(data, &onDisk); err != nil {
		t.Fatalf("ledger file is not a JSON array: %v", err)
	}
	if len(onDisk) != 2 || onDisk[1]["title"] != "Drawing 2" {
		t.Errorf("unexpected ledger contents: %s", data)
	}

	reopened, err := Open(l.Dir())
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	if !reflect.DeepEqual(titles(reopened.All()), []string{"A", "Drawing 2"}) {
		t.Errorf("reopened titles: got %v", titles(reopened.All()))
	}
	if !reopened.All()[0].Timestamp.Equal(l.All()[0].Timestamp) {
		t.Error("timestamps should survive a reload")
	}
}

func TestLedger_Recent(t *testing.T) {
	l := openTestLedger(t)
	for i := 1; i <= 5; i++ {
		addDrawing(t, l, fmt.Sprintf("d%d.png", i), "")
	}

	tests := []struct {
		n    int
		want []string
	}{
		{2, []string{"Drawing 4", "Drawing 5"}},
		{5, []string{"Drawing 1", "Drawing 2", "Drawing 3", "Drawing 4", "Drawing 5"}},
		{20, []string{"Drawing 1", "Drawing 2", "Drawing 3", "Drawing 4", "Drawing 5"}},
		{1, []string{"Drawing 5"}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.n), func(t *testing.T) {
			if got := titles(l.Recent(tt.n)); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Recent(%d): got %v, want %v", tt.n, got, tt.want)
			}
		})
	}

	if l.Recent(0) != nil || l.Recent(-1) != nil {
		t.Error("Recent with n <= 0 should return nil")
	}
}

func TestLedger_Get(t *testing.T) {
	l := openTestLedger(t)
	a := addDrawing(t, l, "a.png", "A")
	b := addDrawing(t, l, "b.png", "B")

	if got, err := l.Get(0); err != nil || got != a {
		t.Errorf("Get(0): got %+v, %v", got, err)
	}
	got, err := l.Get(1)
	if err != nil || got != b {
		t.Errorf("Get(1): got %+v, %v", got, err)
	}
	for _, i := range []int{-1, 2, 100} {
		if _, err := l.Get(i); !errors.Is(err, ErrRecordNotFound) {
			t.Errorf("Get(%d): got %v, want ErrRecordNotFound", i, err)
		}
	}
}

func TestLedger_Delete(t *testing.T) {
	l := openTestLedger(t)
	addDrawing(t, l, "a.png", "A")
	b := addDrawing(t, l, "b.png", "B")
	addDrawing(t, l, "c.png", "C")

	if err := l.Delete(1); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if !reflect.DeepEqual(titles(l.All()), []string{"A", "C"}) {
		t.Errorf("after delete: got %v", titles(l.All()))
	}
	if _, err := os.Stat(b.Path); !os.IsNotExist(err) {
		t.Error("Delete should remove the drawing file")
	}

	reopened, err := Open(l.Dir())
	if err != nil {
		t.Fatal(err)
	}
	if reopened.Len() != 2 {
		t.Errorf("deletion should be persisted, reopened ledger has %d records", reopened.Len())
	}
}

func TestLedger_Delete_MissingFile(t *testing.T) {
	l := openTestLedger(t)
	rec := addDrawing(t, l, "a.png", "A")
	os.Remove(rec.Path)

	if err := l.Delete(0); err != nil {
		t.Errorf("deleting a record whose file is gone should succeed: %v", err)
	}
	if l.Len() != 0 {
		t.Errorf("Len: got %d, want 0", l.Len())
	}
}

func TestLedger_Delete_OutOfRange(t *testing.T) {
	l := openTestLedger(t)
	addDrawing(t, l, "a.png", "A")
	addDrawing(t, l, "b.png", "B")
	before := l.All()
	fileBefore, _ := os.ReadFile(filepath.Join(l.Dir(), FileName))

	for _, i := range []int{-1, 2, 50} {
		err := l.Delete(i)
		if !errors.Is(err, ErrRecordNotFound) {
			t.Errorf("Delete(%d): got %v, want ErrRecordNotFound", i, err)
		}
	}

	if !reflect.DeepEqual(l.All(), before) {
		t.Error("out-of-range delete must leave the ledger unchanged")
	}
	fileAfter, _ := os.ReadFile(filepath.Join(l.Dir(), FileName))
	if string(fileAfter) != string(fileBefore) {
		t.Error("out-of-range delete must not rewrite the ledger file")
	}
}

func TestLedger_WriteFailureKeepsState(t *testing.T) {
	l := openTestLedger(t)
	addDrawing(t, l, "a.png", "A")

	// A directory in place of the ledger file makes every write fail
	ledgerPath := filepath.Join(l.Dir(), FileName)
	if err := os.Remove(ledgerPath); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(ledgerPath, 0755); err != nil {
		t.Fatal(err)
	}

	if _, err := l.Add("b.png", ""); err == nil {
		t.Error("Add should fail when the ledger cannot be written")
	}
	if l.Len() != 1 {
		t.Errorf("failed Add must not keep the record, Len = %d", l.Len())
	}

	if err := l.Delete(0); err == nil {
		t.Error("Delete should fail when the ledger cannot be written")
	}
	if l.Len() != 1 {
		t.Errorf("failed Delete must keep the record, Len = %d", l.Len())
	}
	if _, err := os.Stat(filepath.Join(l.Dir(), "a.png")); err != nil {
		t.Error("failed Delete must keep the drawing file")
	}
}

func TestLedger_AllReturnsCopy(t *testing.T) {
	l := openTestLedger(t)
	addDrawing(t, l, "a.png", "A")

	all := l.All()
	all[0].Title = "changed"
	if l.All()[0].Title != "A" {
		t.Error("All should return a copy")
	}
}
