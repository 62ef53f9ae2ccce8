package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/encore-live/backstage-api/internal/core/domain"
)

type stubAccountService struct {
	setEnabledFn func(ctx context.Context, id int64, enabled bool) error
	modifyFn     func(ctx context.Context, id int64, update domain.AccountUpdate) error
	deleteFn     func(ctx context.Context, id int64) error
}

func (s *stubAccountService) SetEnabled(ctx context.Context, id int64, enabled bool) error {
	return s.setEnabledFn(ctx, id, enabled)
}

func (s *stubAccountService) Modify(ctx context.Context, id int64, update domain.AccountUpdate) error {
	return s.modifyFn(ctx, id, update)
}

func (s *stubAccountService) Delete(ctx context.Context, id int64) error {
	return s.deleteFn(ctx, id)
}

func newUserContext(t *testing.T, method, body, id string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(id)
	return c, rec
}

func TestUserHandler_Delete(t *testing.T) {
	var gotID int64
	h := NewUserHandler(&stubAccountService{
		deleteFn: func(_ context.Context, id int64) error {
			gotID = id
			return nil
		},
	})

	c, rec := newUserContext(t, http.MethodDelete, "", "42")

	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if gotID != 42 {
		t.Fatalf("expected id 42, got %d", gotID)
	}
}

func TestUserHandler_Delete_NotFound(t *testing.T) {
	h := NewUserHandler(&stubAccountService{
		deleteFn: func(_ context.Context, _ int64) error {
			return domain.ErrAccountNotFound
		},
	})

	c, _ := newUserContext(t, http.MethodDelete, "", "42")

	if err := h.Delete(c); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestUserHandler_Delete_BadID(t *testing.T) {
	h := NewUserHandler(&stubAccountService{
		deleteFn: func(_ context.Context, _ int64) error {
			t.Fatalf("service should not be reached")
			return nil
		},
	})

	for _, id := range []string{"abc", "0", "-3"} {
		c, _ := newUserContext(t, http.MethodDelete, "", id)
		err := h.Delete(c)
		he, ok := err.(*echo.HTTPError)
		if !ok || he.Code != http.StatusUnprocessableEntity {
			t.Fatalf("id %q: expected 422, got %v", id, err)
		}
	}
}

func TestUserHandler_SetStatus(t *testing.T) {
	var gotID int64
	var gotEnabled bool
	h := NewUserHandler(&stubAccountService{
		setEnabledFn: func(_ context.Context, id int64, enabled bool) error {
			gotID, gotEnabled = id, enabled
			return nil
		},
	})

	c, rec := newUserContext(t, http.MethodPut, `{"enabled":false}`, "7")

	if err := h.SetStatus(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if gotID != 7 || gotEnabled != false {
		t.Fatalf("unexpected args: id=%d enabled=%v", gotID, gotEnabled)
	}
}

func TestUserHandler_SetStatus_MissingFlag(t *testing.T) {
	h := NewUserHandler(&stubAccountService{
		setEnabledFn: func(_ context.Context, _ int64, _ bool) error {
			t.Fatalf("service should not be reached")
			return nil
		},
	})

	c, _ := newUserContext(t, http.MethodPut, `{}`, "7")

	err := h.SetStatus(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %v", err)
	}
}

func TestUserHandler_Modify_Partial(t *testing.T) {
	var gotUpdate domain.AccountUpdate
	h := NewUserHandler(&stubAccountService{
		modifyFn: func(_ context.Context, id int64, update domain.AccountUpdate) error {
			if id != 7 {
				t.Fatalf("expected id 7, got %d", id)
			}
			gotUpdate = update
			return nil
		},
	})

	c, rec := newUserContext(t, http.MethodPut, `{"email":"new@example.com"}`, "7")

	if err := h.Modify(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if gotUpdate.Email == nil || *gotUpdate.Email != "new@example.com" {
		t.Fatalf("email not forwarded: %+v", gotUpdate)
	}
	if gotUpdate.Username != nil || gotUpdate.Password != nil {
		t.Fatalf("untouched fields should stay nil: %+v", gotUpdate)
	}
}

func TestUserHandler_Modify_InvalidEmail(t *testing.T) {
	h := NewUserHandler(&stubAccountService{
		modifyFn: func(_ context.Context, _ int64, _ domain.AccountUpdate) error {
			t.Fatalf("service should not be reached")
			return nil
		},
	})

	c, _ := newUserContext(t, http.MethodPut, `{"email":"nope"}`, "7")

	err := h.Modify(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %v", err)
	}
}

func TestUserHandler_Modify_DuplicateUsername(t *testing.T) {
	h := NewUserHandler(&stubAccountService{
		modifyFn: func(_ context.Context, _ int64, _ domain.AccountUpdate) error {
			return domain.ErrDuplicateUsername
		},
	})

	c, _ := newUserContext(t, http.MethodPut, `{"username":"taken"}`, "7")

	if err := h.Modify(c); !errors.Is(err, domain.ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}
}
