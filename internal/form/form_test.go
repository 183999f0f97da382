package form

import (
	"errors"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/lvogel/gotodo/internal/apperror"
)

func TestParseRegister(t *testing.T) {
	tests := []struct {
		name      string
		values    url.Values
		wantErr   bool
		wantField string
	}{
		{
			name: "valid",
			values: url.Values{
				"email":    {"a@x.com"},
				"password": {"secret1"},
				"confirm":  {"secret1"},
			},
		},
		{
			name: "missing email",
			values: url.Values{
				"password": {"secret1"},
				"confirm":  {"secret1"},
			},
			wantErr:   true,
			wantField: "email",
		},
		{
			name: "malformed email",
			values: url.Values{
				"email":    {"not-an-email"},
				"password": {"secret1"},
				"confirm":  {"secret1"},
			},
			wantErr:   true,
			wantField: "email",
		},
		{
			name: "password too short",
			values: url.Values{
				"email":    {"a@x.com"},
				"password": {"abc"},
				"confirm":  {"abc"},
			},
			wantErr:   true,
			wantField: "password",
		},
		{
			name: "confirmation mismatch",
			values: url.Values{
				"email":    {"a@x.com"},
				"password": {"secret1"},
				"confirm":  {"secret2"},
			},
			wantErr:   true,
			wantField: "confirm",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/register", strings.NewReader(tt.values.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

			f, err := ParseRegister(req)
			if tt.wantErr {
				if err == nil {
					t.Fatal("ParseRegister() error = nil, want validation error")
				}
				if !errors.Is(err, apperror.ErrValidation) {
					t.Errorf("error = %v, want ErrValidation", err)
				}
				var appErr *apperror.AppError
				if errors.As(err, &appErr) && appErr.Field != tt.wantField {
					t.Errorf("Field = %q, want %q", appErr.Field, tt.wantField)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRegister() error = %v", err)
			}
			if f.Email != "a@x.com" {
				t.Errorf("Email = %q", f.Email)
			}
		})
	}
}

func TestParseLogin(t *testing.T) {
	t.Run("remember unticked", func(t *testing.T) {
		values := url.Values{"email": {"a@x.com"}, "password": {"secret1"}}
		req := httptest.NewRequest("POST", "/login", strings.NewReader(values.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		f, err := ParseLogin(req)
		if err != nil {
			t.Fatalf("ParseLogin() error = %v", err)
		}
		if f.Remember {
			t.Error("Remember = true with no checkbox value")
		}
	})

	t.Run("remember ticked", func(t *testing.T) {
		values := url.Values{"email": {"a@x.com"}, "password": {"secret1"}, "remember": {"on"}}
		req := httptest.NewRequest("POST", "/login", strings.NewReader(values.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		f, err := ParseLogin(req)
		if err != nil {
			t.Fatalf("ParseLogin() error = %v", err)
		}
		if !f.Remember {
			t.Error("Remember = false with checkbox ticked")
		}
	})

	t.Run("missing password", func(t *testing.T) {
		values := url.Values{"email": {"a@x.com"}}
		req := httptest.NewRequest("POST", "/login", strings.NewReader(values.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		if _, err := ParseLogin(req); !errors.Is(err, apperror.ErrValidation) {
			t.Errorf("error = %v, want ErrValidation", err)
		}
	})
}

func TestParseTodo(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{name: "valid", content: "buy milk"},
		{name: "empty", content: "", wantErr: true},
		{name: "exactly 200 runes", content: strings.Repeat("x", 200)},
		{name: "201 runes", content: strings.Repeat("x", 201), wantErr: true},
		{name: "200 multibyte runes", content: strings.Repeat("ö", 200)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := url.Values{"content": {tt.content}}
			req := httptest.NewRequest("POST", "/todos", strings.NewReader(values.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

			_, err := ParseTodo(req)
			if tt.wantErr && !errors.Is(err, apperror.ErrValidation) {
				t.Errorf("error = %v, want ErrValidation", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("ParseTodo() error = %v", err)
			}
		})
	}
}
