package registry

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func openTestSQL(t *testing.T, path string) *SQLStore {
	t.Helper()
	s, err := OpenSQL(path)
	if err != nil {
		t.Fatalf("OpenSQL: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.db")
	store := openTestSQL(t, path)
	ctx := context.Background()

	saved := sampleRegistry("proj")
	if _, warn := store.Load(ctx, "proj"); warn != nil {
		t.Fatalf("initial Load warn: %v", warn)
	}
	if err := store.Save(ctx, saved); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, warn := store.Load(ctx, "proj")
	if warn != nil {
		t.Fatalf("Load warn: %v", warn)
	}
	if diff := cmp.Diff(saved, loaded); diff != "" {
		t.Errorf("round-trip mismatch (-saved +loaded):\n%s", diff)
	}
}

func TestSQLStore_LoadMissingIsFresh(t *testing.T) {
	store := openTestSQL(t, filepath.Join(t.TempDir(), "registry.db"))
	reg, warn := store.Load(context.Background(), "absent")
	if warn != nil {
		t.Errorf("missing row should not warn, got %v", warn)
	}
	if reg.Project != "absent" || len(reg.Records) != 0 {
		t.Errorf("expected fresh registry, got %+v", reg)
	}
}

func TestSQLStore_SaveAdvancesRevision(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.db")
	store := openTestSQL(t, path)
	ctx := context.Background()

	reg, _ := store.Load(ctx, "proj")
	if err := store.Save(ctx, reg); err != nil {
		t.Fatalf("first Save: %v", err)
	}
	// Same process may keep saving: revision tracks along.
	if err := store.Save(ctx, reg); err != nil {
		t.Fatalf("second Save: %v", err)
	}
}

func TestSQLStore_RevisionConflictOnInsertRace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.db")
	a := openTestSQL(t, path)
	b := openTestSQL(t, path)
	ctx := context.Background()

	regA, _ := a.Load(ctx, "proj")
	regB, _ := b.Load(ctx, "proj")

	if err := b.Save(ctx, regB); err != nil {
		t.Fatalf("b.Save: %v", err)
	}
	err := a.Save(ctx, regA)
	if !errors.Is(err, ErrRevisionConflict) {
		t.Errorf("a.Save = %v, want ErrRevisionConflict", err)
	}
}

func TestSQLStore_StorageFailureIsNotAConflict(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.db")
	store, err := OpenSQL(path)
	if err != nil {
		t.Fatalf("OpenSQL: %v", err)
	}
	ctx := context.Background()
	reg, _ := store.Load(ctx, "proj")

	// A broken storage medium must surface as a save failure, not as a
	// lost race against another writer.
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	err = store.Save(ctx, reg)
	if err == nil {
		t.Fatal("Save on closed store should fail")
	}
	if errors.Is(err, ErrRevisionConflict) {
		t.Errorf("storage failure misreported as revision conflict: %v", err)
	}
}

func TestSQLStore_RevisionConflictOnUpdateRace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.db")
	seed := openTestSQL(t, path)
	ctx := context.Background()
	reg, _ := seed.Load(ctx, "proj")
	if err := seed.Save(ctx, reg); err != nil {
		t.Fatalf("seed Save: %v", err)
	}

	a := openTestSQL(t, path)
	b := openTestSQL(t, path)
	regA, _ := a.Load(ctx, "proj")
	regB, _ := b.Load(ctx, "proj")

	if err := b.Save(ctx, regB); err != nil {
		t.Fatalf("b.Save: %v", err)
	}
	err := a.Save(ctx, regA)
	if !errors.Is(err, ErrRevisionConflict) {
		t.Errorf("a.Save = %v, want ErrRevisionConflict", err)
	}

	// After a fresh Load the writer observes the new revision and may save.
	regA2, _ := a.Load(ctx, "proj")
	if err := a.Save(ctx, regA2); err != nil {
		t.Errorf("Save after re-Load: %v", err)
	}
}
