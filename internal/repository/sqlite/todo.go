package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lvogel/gotodo/internal/apperror"
	"github.com/lvogel/gotodo/internal/model"
	"github.com/lvogel/gotodo/internal/repository"
)

// TodoDB stores todo rows. Obtain one via DB.Todos().
type TodoDB struct {
	conn *sql.DB
}

// compile-time check that *TodoDB implements repository.TodoRepository
var _ repository.TodoRepository = (*TodoDB)(nil)

// Create inserts a new todo and fills in the generated ID and timestamp.
// Completed is stored as written on the struct; new todos arrive from
// the service with Completed=false.
func (db *TodoDB) Create(ctx context.Context, todo *model.Todo) error {
	todo.CreatedAt = time.Now()

	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO todos (content, completed, user_id, created_at)
		 VALUES (?, ?, ?, ?)`,
		todo.Content,
		todo.Completed,
		todo.UserID,
		todo.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting todo for user %d: %w", todo.UserID, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new todo id: %w", err)
	}
	todo.ID = id

	return nil
}

// GetByID retrieves a single todo.
// Returns apperror.ErrNotFound if no todo exists with that ID.
func (db *TodoDB) GetByID(ctx context.Context, id int64) (*model.Todo, error) {
	var t model.Todo

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, content, completed, user_id, created_at
		 FROM todos WHERE id = ?`,
		id,
	).Scan(&t.ID, &t.Content, &t.Completed, &t.UserID, &t.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("todo", id)
		}
		return nil, fmt.Errorf("sqlite: getting todo %d: %w", id, err)
	}

	return &t, nil
}

// ListByOwner returns every todo owned by the given user, in insertion
// order (ascending id). The order is stable across calls.
func (db *TodoDB) ListByOwner(ctx context.Context, ownerID int64) ([]model.Todo, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, content, completed, user_id, created_at
		 FROM todos
		 WHERE user_id = ?
		 ORDER BY id`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing todos for user %d: %w", ownerID, err)
	}
	defer rows.Close()

	todos := []model.Todo{}
	for rows.Next() {
		var t model.Todo
		if err := rows.Scan(&t.ID, &t.Content, &t.Completed, &t.UserID, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning todo row: %w", err)
		}
		todos = append(todos, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating todos: %w", err)
	}

	return todos, nil
}

// Update persists the mutable fields of an existing todo. The only
// field this application ever changes is the completion flag, but
// content is written too so the statement stays general.
func (db *TodoDB) Update(ctx context.Context, todo *model.Todo) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE todos SET content = ?, completed = ? WHERE id = ?`,
		todo.Content,
		todo.Completed,
		todo.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating todo %d: %w", todo.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.NotFound("todo", todo.ID)
	}

	return nil
}

// Delete removes a todo row. Same pattern as Update — RowsAffected
// detects "not found".
func (db *TodoDB) Delete(ctx context.Context, id int64) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM todos WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting todo %d: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.NotFound("todo", id)
	}

	return nil
}
