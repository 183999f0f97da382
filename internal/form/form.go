// Package form declares the submitted form shapes and their field
// rules, and decodes them from request bodies.
//
// Field-level validation (presence, email shape, length bounds,
// password confirmation) happens here, before anything reaches the
// service layer. The rules live in validator/v10 struct tags so the
// constraints sit next to the fields they constrain.
package form

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/lvogel/gotodo/internal/apperror"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// RegisterForm is the account creation form.
type RegisterForm struct {
	Email    string `validate:"required,email,max=100"`
	Password string `validate:"required,min=6,max=72"`
	Confirm  string `validate:"required,eqfield=Password"`
}

// LoginForm is the login form. Remember requests a long-lived session.
type LoginForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
	Remember bool
}

// TodoForm is the "add a todo" form. The max tag counts runes, which
// matches the 200-character bound on stored content.
type TodoForm struct {
	Content string `validate:"required,max=200"`
}

// ParseRegister decodes and validates a registration submission.
func ParseRegister(r *http.Request) (*RegisterForm, error) {
	if err := r.ParseForm(); err != nil {
		return nil, apperror.ValidationFailed("", "could not parse form data")
	}
	f := &RegisterForm{
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
		Confirm:  r.PostFormValue("confirm"),
	}
	if err := validate.Struct(f); err != nil {
		return nil, toValidationError(err)
	}
	return f, nil
}

// ParseLogin decodes and validates a login submission. An unticked
// checkbox simply doesn't appear in the form data, so any non-empty
// remember value counts as set.
func ParseLogin(r *http.Request) (*LoginForm, error) {
	if err := r.ParseForm(); err != nil {
		return nil, apperror.ValidationFailed("", "could not parse form data")
	}
	f := &LoginForm{
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
		Remember: r.PostFormValue("remember") != "",
	}
	if err := validate.Struct(f); err != nil {
		return nil, toValidationError(err)
	}
	return f, nil
}

// ParseTodo decodes and validates an "add todo" submission.
func ParseTodo(r *http.Request) (*TodoForm, error) {
	if err := r.ParseForm(); err != nil {
		return nil, apperror.ValidationFailed("", "could not parse form data")
	}
	f := &TodoForm{
		Content: r.PostFormValue("content"),
	}
	if err := validate.Struct(f); err != nil {
		return nil, toValidationError(err)
	}
	return f, nil
}

// toValidationError converts the first validator failure into an
// apperror.ValidationFailed with a message fit for a flash notice.
func toValidationError(err error) error {
	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return apperror.ValidationFailed("", "invalid form data")
	}

	fe := errs[0]
	switch fe.Field() {
	case "Email":
		switch fe.Tag() {
		case "required":
			return apperror.ValidationFailed("email", "email is required")
		case "email":
			return apperror.ValidationFailed("email", "enter a valid email address")
		default:
			return apperror.ValidationFailed("email", "email must be 100 characters or less")
		}
	case "Password":
		switch fe.Tag() {
		case "required":
			return apperror.ValidationFailed("password", "password is required")
		case "min":
			return apperror.ValidationFailed("password", "password must be at least 6 characters")
		default:
			return apperror.ValidationFailed("password", "password must be 72 characters or less")
		}
	case "Confirm":
		if fe.Tag() == "required" {
			return apperror.ValidationFailed("confirm", "password confirmation is required")
		}
		return apperror.ValidationFailed("confirm", "passwords must match")
	case "Content":
		if fe.Tag() == "required" {
			return apperror.ValidationFailed("content", "todo content is required")
		}
		return apperror.ValidationFailed("content", "todo must be 200 characters or less")
	}
	return apperror.ValidationFailed(fe.Field(), "invalid value")
}
