package storage

import (
	"database/sql"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"PilatesStudioManager/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func newTestUser(t *testing.T, store *Store, email string) models.User {
	t.Helper()
	user, err := store.CreateUser(email, "hash", "Maria")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func strPtr(s string) *string { return &s }

func TestCreateUserDuplicateEmail(t *testing.T) {
	store := newTestStore(t)

	first := newTestUser(t, store, "maria@estudio.com")

	if _, err := store.CreateUser("maria@estudio.com", "otherhash", "Impostora"); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}

	// the original account is untouched
	got, err := store.GetUserByEmail("maria@estudio.com")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got.ID != first.ID || got.Name != "Maria" {
		t.Fatalf("duplicate signup altered the account: %+v", got)
	}
}

func TestGetUserByEmailMissing(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.GetUserByEmail("ghost@estudio.com"); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestGetStudioLazyCreateIdempotent(t *testing.T) {
	store := newTestStore(t)
	owner := newTestUser(t, store, "maria@estudio.com")

	first, err := store.GetStudioByOwner(owner.ID)
	if err != nil {
		t.Fatalf("first get: %v", err)
	}
	if first.OwnerID != owner.ID {
		t.Fatalf("expected owner %d, got %d", owner.ID, first.OwnerID)
	}
	if first.Name != "" || first.CNPJ != "" || first.Address != "" || first.Phone != "" {
		t.Fatalf("lazy-created studio must be blank, got %+v", first)
	}

	second, err := store.GetStudioByOwner(owner.ID)
	if err != nil {
		t.Fatalf("second get: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("second read returned a different record: %d != %d", second.ID, first.ID)
	}
}

func TestGetStudioLazyCreateConcurrent(t *testing.T) {
	store := newTestStore(t)
	owner := newTestUser(t, store, "maria@estudio.com")

	const readers = 8
	ids := make([]int64, readers)
	errs := make([]error, readers)

	var wg sync.WaitGroup
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			studio, err := store.GetStudioByOwner(owner.ID)
			ids[i], errs[i] = studio.ID, err
		}(i)
	}
	wg.Wait()

	for i := 0; i < readers; i++ {
		if errs[i] != nil {
			t.Fatalf("reader %d: %v", i, errs[i])
		}
		if ids[i] != ids[0] {
			t.Fatalf("racing first reads produced different records: %d != %d", ids[i], ids[0])
		}
	}
}

func TestUpdateStudioPartial(t *testing.T) {
	store := newTestStore(t)
	owner := newTestUser(t, store, "maria@estudio.com")

	if _, err := store.UpdateStudio(owner.ID, StudioPatch{
		Address: strPtr("Rua X"),
		Phone:   strPtr("11999999999"),
	}); !errors.Is(err, ErrStudioNotFound) {
		t.Fatalf("expected ErrStudioNotFound before first read, got %v", err)
	}

	if _, err := store.GetStudioByOwner(owner.ID); err != nil {
		t.Fatalf("lazy create: %v", err)
	}
	before, err := store.UpdateStudio(owner.ID, StudioPatch{
		Address: strPtr("Rua X"),
		Phone:   strPtr("11999999999"),
	})
	if err != nil {
		t.Fatalf("seed update: %v", err)
	}

	updated, err := store.UpdateStudio(owner.ID, StudioPatch{Name: strPtr("Estúdio A")})
	if err != nil {
		t.Fatalf("partial update: %v", err)
	}
	if updated.Name != "Estúdio A" {
		t.Fatalf("expected name update, got %q", updated.Name)
	}
	if updated.Address != before.Address || updated.Phone != before.Phone || updated.CNPJ != before.CNPJ {
		t.Fatalf("partial update touched other fields: %+v", updated)
	}
}

func TestUpdateStudioMissingOwner(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.UpdateStudio(42, StudioPatch{Name: strPtr("X")}); !errors.Is(err, ErrStudioNotFound) {
		t.Fatalf("expected ErrStudioNotFound, got %v", err)
	}
}

func TestStudioRoundTrip(t *testing.T) {
	store := newTestStore(t)
	owner := newTestUser(t, store, "maria@estudio.com")

	if _, err := store.GetStudioByOwner(owner.ID); err != nil {
		t.Fatalf("lazy create: %v", err)
	}
	if _, err := store.UpdateStudio(owner.ID, StudioPatch{
		Name:    strPtr("Estúdio A"),
		CNPJ:    strPtr(""),
		Address: strPtr("Rua X"),
		Phone:   strPtr("11999999999"),
	}); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := store.GetStudioByOwner(owner.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.Name != "Estúdio A" || got.CNPJ != "" || got.Address != "Rua X" || got.Phone != "11999999999" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}
