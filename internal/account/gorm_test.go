package account

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/onlygrow/identity/internal/logger"
	"github.com/onlygrow/identity/internal/password"
)

func newTestStore(t *testing.T) *GormStore {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&Account{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	hasher := password.NewBcryptHasher(password.WithCost(4))
	return NewGormStore(db, hasher, logger.NewDefault("test"))
}

func TestGormStore_CreateAndFind(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	a := &Account{
		Email:        "a@x.com",
		Username:     "alice",
		PasswordHash: "opaque",
		AuthProvider: ProviderEmail,
		IsActive:     true,
	}
	if err := store.Create(ctx, a); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if a.ID == uuid.Nil {
		t.Error("expected a generated id")
	}

	byEmail, err := store.FindByEmail(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("FindByEmail() error = %v", err)
	}
	if byEmail.Username != "alice" {
		t.Errorf("expected username alice, got %s", byEmail.Username)
	}

	byID, err := store.FindByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if byID.Email != "a@x.com" {
		t.Errorf("expected email a@x.com, got %s", byID.Email)
	}
}

func TestGormStore_FindMissing(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.FindByEmail(ctx, "nobody@x.com"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := store.FindByID(ctx, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGormStore_DuplicateEmail(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := &Account{Email: "a@x.com", Username: "alice", PasswordHash: "h", AuthProvider: ProviderEmail}
	if err := store.Create(ctx, first); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// same email under another provider must be rejected by the store
	second := &Account{Email: "a@x.com", Username: "alice2", PasswordHash: "h", AuthProvider: ProviderGoogle}
	if err := store.Create(ctx, second); !errors.Is(err, ErrDuplicateEmail) {
		t.Errorf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestGormStore_SetPassword(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	a := &Account{Email: "a@x.com", Username: "alice", PasswordHash: "old", AuthProvider: ProviderEmail}
	if err := store.Create(ctx, a); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := store.SetPassword(ctx, a, "newpassword1"); err != nil {
		t.Fatalf("SetPassword() error = %v", err)
	}
	if a.PasswordHash == "old" || a.PasswordHash == "newpassword1" {
		t.Error("password hash must change and must not be the plaintext")
	}

	reloaded, err := store.FindByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if reloaded.PasswordHash != a.PasswordHash {
		t.Error("expected hash to be persisted")
	}

	// short passwords are rejected by the hasher before any write
	if err := store.SetPassword(ctx, a, "short"); err == nil {
		t.Error("expected error for a short password")
	}
}

func TestGormStore_Save(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	a := &Account{Email: "a@x.com", Username: "alice", PasswordHash: "h", AuthProvider: ProviderEmail}
	if err := store.Create(ctx, a); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	a.IsVerified = true
	if err := store.Save(ctx, a); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	reloaded, _ := store.FindByID(ctx, a.ID)
	if !reloaded.IsVerified {
		t.Error("expected IsVerified to persist")
	}
}
