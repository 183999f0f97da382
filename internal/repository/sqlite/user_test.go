package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/lvogel/gotodo/internal/apperror"
	"github.com/lvogel/gotodo/internal/model"
)

// newTestDB returns a *DB backed by an in-memory SQLite database.
// The database disappears when the connection closes, so every test
// starts from an empty schema.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// createTestUser creates a user and fails the test if it errors.
// The stored hash is a fixed bcrypt-shaped string — repository tests
// never touch real password hashing.
func createTestUser(t *testing.T, u *UserDB, email string) *model.User {
	t.Helper()
	user := &model.User{
		Email:        email,
		PasswordHash: "$2a$04$fakefakefakefakefakefuXJ0yO3WNJvZ0kYQzF3a9X0XhXlqkG5e",
	}
	if err := u.Create(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// =========================================================================
// CREATE TESTS
// =========================================================================

func TestUserCreate(t *testing.T) {
	u := newTestDB(t).Users()

	user := &model.User{
		Email:        "test@example.com",
		PasswordHash: "some-hash",
	}

	if err := u.Create(context.Background(), user); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if user.ID == 0 {
		t.Error("Create() did not set user.ID")
	}
	if user.CreatedAt.IsZero() {
		t.Error("Create() did not set user.CreatedAt")
	}
}

func TestUserCreate_DuplicateEmail(t *testing.T) {
	u := newTestDB(t).Users()

	createTestUser(t, u, "dup@example.com")

	duplicate := &model.User{
		Email:        "dup@example.com",
		PasswordHash: "another-hash",
	}
	err := u.Create(context.Background(), duplicate)
	if err == nil {
		t.Fatal("Create() should have failed for a duplicate email")
	}
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("Create() error = %v, want ErrConflict", err)
	}

	// Only the first row may exist afterwards.
	found, err := u.GetByEmail(context.Background(), "dup@example.com")
	if err != nil {
		t.Fatalf("GetByEmail() after duplicate Create: %v", err)
	}
	if found.PasswordHash != "$2a$04$fakefakefakefakefakefuXJ0yO3WNJvZ0kYQzF3a9X0XhXlqkG5e" {
		t.Error("duplicate Create() overwrote the original row")
	}
}

// =========================================================================
// LOOKUP TESTS
// =========================================================================

func TestUserGetByEmail(t *testing.T) {
	u := newTestDB(t).Users()
	created := createTestUser(t, u, "lookup@example.com")

	found, err := u.GetByEmail(context.Background(), "lookup@example.com")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}

	if found.ID != created.ID {
		t.Errorf("ID = %d, want %d", found.ID, created.ID)
	}
	if found.Email != "lookup@example.com" {
		t.Errorf("Email = %q, want %q", found.Email, "lookup@example.com")
	}
	if found.PasswordHash == "" {
		t.Error("GetByEmail() did not load the password hash")
	}
}

func TestUserGetByEmail_NotFound(t *testing.T) {
	u := newTestDB(t).Users()

	_, err := u.GetByEmail(context.Background(), "nobody@example.com")

	if err == nil {
		t.Fatal("GetByEmail() should have returned an error for an unknown address")
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByEmail() error = %v, want ErrNotFound", err)
	}
}

func TestUserGetByID(t *testing.T) {
	u := newTestDB(t).Users()
	created := createTestUser(t, u, "byid@example.com")

	found, err := u.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if found.Email != "byid@example.com" {
		t.Errorf("Email = %q, want %q", found.Email, "byid@example.com")
	}
}

func TestUserGetByID_NotFound(t *testing.T) {
	u := newTestDB(t).Users()

	_, err := u.GetByID(context.Background(), 99999)

	if err == nil {
		t.Fatal("GetByID() should have returned an error for a nonexistent ID")
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}

// =========================================================================
// DELETE / CASCADE TESTS
// =========================================================================

func TestUserDelete_NotFound(t *testing.T) {
	u := newTestDB(t).Users()

	err := u.Delete(context.Background(), 12345)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Delete() error = %v, want ErrNotFound", err)
	}
}

// Deleting a user must cascade to their todos — none of the owned rows
// may remain retrievable afterwards, and other users' rows must survive.
func TestUserDelete_CascadesToTodos(t *testing.T) {
	db := newTestDB(t)
	u, todos := db.Users(), db.Todos()

	owner := createTestUser(t, u, "owner@example.com")
	other := createTestUser(t, u, "other@example.com")

	var ownedIDs []int64
	for _, content := range []string{"buy milk", "walk dog", "write tests"} {
		todo := &model.Todo{Content: content, UserID: owner.ID}
		if err := todos.Create(context.Background(), todo); err != nil {
			t.Fatalf("creating todo: %v", err)
		}
		ownedIDs = append(ownedIDs, todo.ID)
	}
	kept := &model.Todo{Content: "survives", UserID: other.ID}
	if err := todos.Create(context.Background(), kept); err != nil {
		t.Fatalf("creating other user's todo: %v", err)
	}

	if err := u.Delete(context.Background(), owner.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	for _, id := range ownedIDs {
		if _, err := todos.GetByID(context.Background(), id); !errors.Is(err, apperror.ErrNotFound) {
			t.Errorf("todo %d still retrievable after owner deletion: %v", id, err)
		}
	}

	survivor, err := todos.GetByID(context.Background(), kept.ID)
	if err != nil {
		t.Fatalf("other user's todo vanished: %v", err)
	}
	if survivor.Content != "survives" {
		t.Errorf("Content = %q, want %q", survivor.Content, "survives")
	}
}
