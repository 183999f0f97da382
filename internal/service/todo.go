package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/lvogel/gotodo/internal/apperror"
	"github.com/lvogel/gotodo/internal/model"
	"github.com/lvogel/gotodo/internal/repository"
)

// MaxContentLength is the longest todo content accepted, in characters
// (runes, not bytes — "ö" counts once).
const MaxContentLength = 200

// TodoService handles the todo business rules, most importantly the
// ownership check: every mutation verifies that the requester owns the
// row before touching it.
type TodoService struct {
	todos  repository.TodoRepository
	logger *slog.Logger
}

// NewTodoService creates a TodoService.
func NewTodoService(todos repository.TodoRepository, logger *slog.Logger) *TodoService {
	return &TodoService{
		todos:  todos,
		logger: logger,
	}
}

// Add validates and stores a new todo for the given owner. New todos
// always start with Completed=false.
func (s *TodoService) Add(ctx context.Context, ownerID int64, content string) (*model.Todo, error) {
	content = strings.TrimSpace(content)

	if content == "" {
		return nil, apperror.ValidationFailed("content", "todo content is required")
	}
	if utf8.RuneCountInString(content) > MaxContentLength {
		return nil, apperror.ValidationFailed("content",
			fmt.Sprintf("todo must be %d characters or less", MaxContentLength))
	}

	todo := &model.Todo{
		Content: content,
		UserID:  ownerID,
	}
	if err := s.todos.Create(ctx, todo); err != nil {
		s.logger.Error("failed to create todo",
			slog.Int64("ownerID", ownerID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("adding todo: %w", err)
	}

	s.logger.Info("todo added",
		slog.Int64("id", todo.ID),
		slog.Int64("ownerID", ownerID),
	)

	return todo, nil
}

// ListForOwner returns the owner's todos in insertion order.
func (s *TodoService) ListForOwner(ctx context.Context, ownerID int64) ([]model.Todo, error) {
	todos, err := s.todos.ListByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Error("failed to list todos",
			slog.Int64("ownerID", ownerID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing todos: %w", err)
	}
	return todos, nil
}

// Toggle flips the completion flag of a todo owned by requesterID.
// Returns apperror.ErrNotFound if the todo doesn't exist and
// apperror.ErrForbidden if it belongs to someone else.
func (s *TodoService) Toggle(ctx context.Context, id, requesterID int64) (*model.Todo, error) {
	todo, err := s.authorize(ctx, id, requesterID)
	if err != nil {
		return nil, err
	}

	todo.Completed = !todo.Completed
	if err := s.todos.Update(ctx, todo); err != nil {
		return nil, fmt.Errorf("toggling todo %d: %w", id, err)
	}

	s.logger.Info("todo toggled",
		slog.Int64("id", id),
		slog.Bool("completed", todo.Completed),
	)

	return todo, nil
}

// Delete removes a todo owned by requesterID. Same not-found and
// ownership semantics as Toggle.
func (s *TodoService) Delete(ctx context.Context, id, requesterID int64) error {
	if _, err := s.authorize(ctx, id, requesterID); err != nil {
		return err
	}

	if err := s.todos.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting todo %d: %w", id, err)
	}

	s.logger.Info("todo deleted", slog.Int64("id", id))
	return nil
}

// authorize loads a todo and checks it belongs to the requester. This
// load-then-compare is the single security-relevant rule in the
// application: toggle and delete both route through it.
func (s *TodoService) authorize(ctx context.Context, id, requesterID int64) (*model.Todo, error) {
	todo, err := s.todos.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if todo.UserID != requesterID {
		s.logger.Warn("ownership check failed",
			slog.Int64("todoID", id),
			slog.Int64("ownerID", todo.UserID),
			slog.Int64("requesterID", requesterID),
		)
		return nil, apperror.Forbidden("todo belongs to another user")
	}
	return todo, nil
}
