package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func features(v float64) []float64 {
	f := make([]float64, 42)
	for i := range f {
		f[i] = v
	}
	return f
}

func TestNewStore_CreatesDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	if _, err := os.Stat(dbPath); !os.IsNotExist(err) {
		t.Fatal("database file should not exist before creating store")
	}

	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Fatal("database file should exist after creating store")
	}
	if s.Path() != dbPath {
		t.Errorf("expected path %s, got %s", dbPath, s.Path())
	}
}

func TestNewStore_RunsMigrations(t *testing.T) {
	s := setupTestStore(t)

	var name string
	err := s.DB().QueryRow(
		"SELECT name FROM sqlite_master WHERE type='table' AND name=?",
		"samples",
	).Scan(&name)
	if err != nil {
		t.Fatalf("samples table should exist: %v", err)
	}
}

func TestNewStore_ReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	if err := s.Samples().Create(&Sample{Label: "fist", Features: features(0.1), Source: SourceImage}); err != nil {
		t.Fatalf("create: %v", err)
	}
	s.Close()

	s, err = New(dbPath)
	if err != nil {
		t.Fatalf("failed to reopen store: %v", err)
	}
	defer s.Close()

	samples, err := s.Samples().List("")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(samples) != 1 {
		t.Errorf("expected 1 sample after reopen, got %d", len(samples))
	}
}

func TestSampleRepository_CreateAndGet(t *testing.T) {
	s := setupTestStore(t)
	repo := s.Samples()

	sample := &Sample{Label: "palm", Features: features(0.5), Source: SourceLandmarks}
	if err := repo.Create(sample); err != nil {
		t.Fatalf("create: %v", err)
	}
	if sample.ID == "" || sample.CreatedAt.IsZero() {
		t.Fatalf("expected id and timestamp to be set, got %+v", sample)
	}

	got, err := repo.GetByID(sample.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Label != "palm" || got.Source != SourceLandmarks {
		t.Errorf("unexpected sample: %+v", got)
	}
	if len(got.Features) != 42 || got.Features[41] != 0.5 {
		t.Errorf("features not preserved: %v", got.Features)
	}

	t.Run("missing id", func(t *testing.T) {
		if _, err := repo.GetByID("nope"); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("bad source is rejected", func(t *testing.T) {
		if err := repo.Create(&Sample{Label: "palm", Features: features(0), Source: "camera"}); err == nil {
			t.Error("expected constraint error")
		}
	})
}

func TestSampleRepository_ListAndCounts(t *testing.T) {
	s := setupTestStore(t)
	repo := s.Samples()

	for _, label := range []string{"fist", "palm", "fist", "stale"} {
		if err := repo.Create(&Sample{Label: label, Features: features(0), Source: SourceImage}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	all, err := repo.List("")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 4 {
		t.Errorf("expected 4 samples, got %d", len(all))
	}

	fists, err := repo.List("fist")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(fists) != 2 {
		t.Errorf("expected 2 fist samples, got %d", len(fists))
	}

	none, err := repo.List("ok")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if none == nil || len(none) != 0 {
		t.Errorf("expected empty non-nil list, got %v", none)
	}

	counts, err := repo.Counts([]string{"fist", "palm", "ok"})
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	want := map[string]int{"fist": 2, "palm": 1, "ok": 0, "stale": 1}
	for label, n := range want {
		if counts[label] != n {
			t.Errorf("count[%s] = %d, want %d", label, counts[label], n)
		}
	}
}

func TestSampleRepository_Delete(t *testing.T) {
	s := setupTestStore(t)
	repo := s.Samples()

	a := &Sample{Label: "fist", Features: features(0), Source: SourceImage}
	b := &Sample{Label: "fist", Features: features(1), Source: SourceImage}
	c := &Sample{Label: "palm", Features: features(1), Source: SourceImage}
	for _, sample := range []*Sample{a, b, c} {
		if err := repo.Create(sample); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	if err := repo.Delete(a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(a.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}

	n, err := repo.DeleteByLabel("fist")
	if err != nil {
		t.Fatalf("delete by label: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 deleted, got %d", n)
	}

	n, err = repo.DeleteByLabel("fist")
	if err != nil || n != 0 {
		t.Errorf("expected nothing left to delete, got %d, %v", n, err)
	}

	if _, err := repo.GetByID(c.ID); err != nil {
		t.Errorf("palm sample should survive: %v", err)
	}
}
