package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/cognicore/cooc/pkg/cooc/internalerr"
	"github.com/cognicore/cooc/pkg/cooc/store"
)

func openTestStore(t *testing.T) store.Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := OpenSQLite(context.Background(), dbPath)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func sampleRun(id string, created time.Time) store.Run {
	return store.Run{
		ID:        id,
		CreatedAt: created,
		Params:    store.Params{MaxDocs: 4, MinCount: 1, MinScore: 0, MaxAssociates: 5, Seed: 9},
		Docs:      4,
		Words: []store.Word{
			{Token: "cold", Index: 0, Count: 2, DocCount: 2},
			{Token: "food", Index: 1, Count: 2, DocCount: 2},
			{Token: "hot", Index: 2, Count: 2, DocCount: 1},
			{Token: "room", Index: 3, Count: 2, DocCount: 2},
		},
		Associates: []store.Pair{
			{A: "hot", B: "food", Weight: 12.5},
			{A: "hot", B: "room", Weight: 20},
			{A: "cold", B: "room", Weight: 20},
		},
		Synonyms: []store.Pair{
			{A: "hot", B: "cold", Weight: 2},
			{A: "cold", B: "hot", Weight: 2},
			{A: "hot", B: "room", Weight: 1},
		},
	}
}

// TestSQLiteIntegrationRoundTrip tests saving and loading a full run
func TestSQLiteIntegrationRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	created := time.Date(2024, 5, 1, 12, 30, 0, 123, time.UTC)
	id := store.NewRunID(created)
	if err := st.SaveRun(ctx, sampleRun(id, created)); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	got, err := st.GetRun(ctx, id)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt mismatch: got %v, want %v", got.CreatedAt, created)
	}
	if got.Params.Seed != 9 || got.Params.MaxAssociates != 5 {
		t.Errorf("Params mismatch: %+v", got.Params)
	}
	if len(got.Words) != 4 || got.Words[2].Token != "hot" || got.Words[2].DocCount != 1 {
		t.Errorf("Words mismatch: %+v", got.Words)
	}
	if len(got.Associates) != 3 || len(got.Synonyms) != 3 {
		t.Errorf("Relations mismatch: %d associates, %d synonyms", len(got.Associates), len(got.Synonyms))
	}
}

func TestSQLiteDuplicateRun(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	r := sampleRun("01HX", time.Now())
	if err := st.SaveRun(ctx, r); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if err := st.SaveRun(ctx, r); !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}

func TestSQLiteLatestRun(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	if _, err := st.LatestRun(ctx); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("Expected ErrNotFound on empty store, got %v", err)
	}

	now := time.Now()
	older := store.NewRunID(now.Add(-time.Minute))
	newer := store.NewRunID(now)
	for _, id := range []string{newer, older} {
		if err := st.SaveRun(ctx, sampleRun(id, now)); err != nil {
			t.Fatal(err)
		}
	}

	latest, err := st.LatestRun(ctx)
	if err != nil {
		t.Fatalf("LatestRun: %v", err)
	}
	if latest.ID != newer {
		t.Errorf("Expected %s, got %s", newer, latest.ID)
	}
}

func TestSQLiteQueries(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)
	if err := st.SaveRun(ctx, sampleRun("01HX", time.Now())); err != nil {
		t.Fatal(err)
	}

	assoc, err := st.Associates(ctx, "01HX", "hot")
	if err != nil {
		t.Fatalf("Associates: %v", err)
	}
	if len(assoc) != 2 || assoc[0].Token != "room" || assoc[1].Token != "food" {
		t.Errorf("Expected [room food], got %v", assoc)
	}

	syn, err := st.Synonyms(ctx, "01HX", "hot", 1)
	if err != nil {
		t.Fatalf("Synonyms: %v", err)
	}
	if len(syn) != 1 || syn[0].Token != "cold" || syn[0].Weight != 2 {
		t.Errorf("Expected [cold 2], got %v", syn)
	}

	if _, err := st.Synonyms(ctx, "01HX", "railway", 3); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown word, got %v", err)
	}
	if _, err := st.Associates(ctx, "nope", "hot"); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown run, got %v", err)
	}
}

func TestSQLiteReopen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "reopen.db")

	st, err := OpenSQLite(ctx, dbPath)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	if err := st.SaveRun(ctx, sampleRun("01HX", time.Now())); err != nil {
		t.Fatal(err)
	}
	st.Close()

	st, err = OpenSQLite(ctx, dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer st.Close()

	if _, err := st.GetRun(ctx, "01HX"); err != nil {
		t.Errorf("run should survive reopen: %v", err)
	}
}
