package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/lvogel/gotodo/internal/apperror"
	"github.com/lvogel/gotodo/internal/auth"
	"github.com/lvogel/gotodo/internal/form"
	"github.com/lvogel/gotodo/internal/service"
)

// TodoHandler serves the todo list and its mutations. All routes here
// sit behind RequireAuth, so a user is always present in the context.
type TodoHandler struct {
	todos    *service.TodoService
	renderer *Renderer
	logger   *slog.Logger
}

// NewTodoHandler creates a TodoHandler.
func NewTodoHandler(todos *service.TodoService, renderer *Renderer, logger *slog.Logger) *TodoHandler {
	return &TodoHandler{
		todos:    todos,
		renderer: renderer,
		logger:   logger,
	}
}

// HandleIndex renders the current user's todo list.
func (h *TodoHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	todos, err := h.todos.ListForOwner(r.Context(), user.ID)
	if err != nil {
		h.logger.Error("listing todos failed",
			slog.Int64("userID", user.ID),
			slog.String("error", err.Error()),
		)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.renderer.Render(w, r, "index", "My Todos", map[string]any{
		"Todos": todos,
	})
}

// HandleAdd creates a todo from the form submission and returns to the
// list, flashing the validation message if the content was rejected.
func (h *TodoHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	f, err := form.ParseTodo(r)
	if err != nil {
		setFlash(w, "danger", userMessage(err))
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if _, err := h.todos.Add(r.Context(), user.ID, f.Content); err != nil {
		if errors.Is(err, apperror.ErrValidation) {
			setFlash(w, "danger", userMessage(err))
		} else {
			h.logger.Error("adding todo failed", slog.String("error", err.Error()))
			setFlash(w, "danger", "Something went wrong, please try again")
		}
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleToggle flips a todo's completion flag.
func (h *TodoHandler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	id, err := todoID(r)
	if err != nil {
		setFlash(w, "danger", "Todo not found")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if _, err := h.todos.Toggle(r.Context(), id, user.ID); err != nil {
		h.flashMutationError(w, err, "toggle")
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleDelete removes a todo.
func (h *TodoHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	id, err := todoID(r)
	if err != nil {
		setFlash(w, "danger", "Todo not found")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if err := h.todos.Delete(r.Context(), id, user.ID); err != nil {
		h.flashMutationError(w, err, "delete")
	} else {
		setFlash(w, "success", "Todo deleted")
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// flashMutationError maps toggle/delete failures to flash notices. A
// todo owned by someone else is reported the same as a missing one, so
// the URL space doesn't leak which IDs exist.
func (h *TodoHandler) flashMutationError(w http.ResponseWriter, err error, action string) {
	switch {
	case errors.Is(err, apperror.ErrNotFound), errors.Is(err, apperror.ErrForbidden):
		setFlash(w, "danger", "Todo not found")
	default:
		h.logger.Error("todo mutation failed",
			slog.String("action", action),
			slog.String("error", err.Error()),
		)
		setFlash(w, "danger", "Something went wrong, please try again")
	}
}

// todoID parses the {id} route parameter.
func todoID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
