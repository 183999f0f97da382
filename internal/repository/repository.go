package repository

import (
	"context"

	"github.com/lvogel/gotodo/internal/model"
)

// UserRepository persists account records.
//
// Create relies on the database's UNIQUE index on email and returns
// apperror.ErrConflict when the address is taken — callers must not
// pre-check with GetByEmail, since a check-then-insert sequence races
// under concurrent registrations.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	// Delete removes a user and, via the FK cascade, every todo they own.
	Delete(ctx context.Context, id int64) error
}

// TodoRepository persists todo items. Ownership checks live in the
// service layer; the repository only stores and retrieves rows.
type TodoRepository interface {
	Create(ctx context.Context, todo *model.Todo) error
	GetByID(ctx context.Context, id int64) (*model.Todo, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]model.Todo, error)
	Update(ctx context.Context, todo *model.Todo) error
	Delete(ctx context.Context, id int64) error
}
