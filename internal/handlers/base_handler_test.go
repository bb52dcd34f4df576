package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"kandu_backend/internal/validator"
	"kandu_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newContext(method, target string, body string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	c.Request = req
	return c, w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) apperrors.ErrorCode {
	t.Helper()
	var body struct {
		Error struct {
			Code apperrors.ErrorCode `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error.Code
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		query     string
		wantPage  int
		wantLimit int
	}{
		{"", 1, 20},
		{"?page=3&limit=50", 3, 50},
		{"?page=-1&limit=0", 1, 20},
		{"?page=abc", 1, 20},
		{"?limit=1000", 1, 100},
		{"?page_size=15", 1, 15},
		{"?limit=10&page_size=15", 1, 10},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			c, _ := newContext(http.MethodGet, "/jobs"+tt.query, "")
			page, limit := ParsePagination(c)
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantLimit, limit)
		})
	}
}

func TestParseQueryBool(t *testing.T) {
	c, _ := newContext(http.MethodGet, "/n?unread_only=true&x=nope", "")
	assert.True(t, ParseQueryBool(c, "unread_only"))
	assert.False(t, ParseQueryBool(c, "x"))
	assert.False(t, ParseQueryBool(c, "missing"))
}

func TestParseQueryDateRange(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		c, _ := newContext(http.MethodGet, "/jobs/calendar", "")
		from, to, loc, err := ParseQueryDateRange(c, 31)
		require.NoError(t, err)
		assert.Equal(t, time.UTC, loc)
		assert.Equal(t, 0, from.Hour())
		assert.Equal(t, from.AddDate(0, 0, 31), to)
	})

	t.Run("date only covers whole last day", func(t *testing.T) {
		c, _ := newContext(http.MethodGet, "/jobs/calendar?date_from=2026-03-01&date_to=2026-03-02", "")
		from, to, _, err := ParseQueryDateRange(c, 31)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), from)
		assert.Equal(t, time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond), to)
	})

	t.Run("rfc3339 and timezone", func(t *testing.T) {
		c, _ := newContext(http.MethodGet, "/jobs/calendar?tz=Asia/Almaty&date_from=2026-03-01T10:00:00Z&date_to=2026-03-05", "")
		from, to, loc, err := ParseQueryDateRange(c, 31)
		require.NoError(t, err)
		assert.Equal(t, "Asia/Almaty", loc.String())
		assert.True(t, from.Equal(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)))
		assert.Equal(t, loc, to.Location())
	})

	t.Run("invalid", func(t *testing.T) {
		for _, q := range []string{
			"?tz=Mars/Olympus",
			"?date_from=yesterday",
			"?date_to=03/05/2026",
			"?date_from=2026-03-05&date_to=2026-03-01",
		} {
			c, _ := newContext(http.MethodGet, "/jobs/calendar"+q, "")
			_, _, _, err := ParseQueryDateRange(c, 31)
			assert.True(t, apperrors.HasCode(err, apperrors.CodeValidationFailed), q)
		}
	})
}

func TestGetCaller_Unauthenticated(t *testing.T) {
	h := NewBaseHandler(validator.New())
	c, w := newContext(http.MethodGet, "/users/me", "")

	_, ok := h.GetCaller(c)
	assert.False(t, ok)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, apperrors.CodeUnauthorized, errorCode(t, w))
}

func TestGetCaller_FromToken(t *testing.T) {
	h := NewBaseHandler(validator.New())
	c, _ := newContext(http.MethodGet, "/users/me", "")
	c.Set("userID", "u-1")
	c.Set("role", "worker")

	caller, ok := h.GetCaller(c)
	require.True(t, ok)
	assert.Equal(t, "u-1", caller.UserID)
	assert.Equal(t, "worker", string(caller.UserType))
}

type bindRequest struct {
	Title string `json:"title" validate:"required,min=3"`
}

func TestBindAndValidate_JSON(t *testing.T) {
	h := NewBaseHandler(validator.New())

	t.Run("malformed body", func(t *testing.T) {
		c, w := newContext(http.MethodPost, "/jobs", "{")
		var req bindRequest
		assert.False(t, h.BindAndValidate_JSON(c, &req))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("validation error", func(t *testing.T) {
		c, w := newContext(http.MethodPost, "/jobs", `{"title":"ab"}`)
		var req bindRequest
		assert.False(t, h.BindAndValidate_JSON(c, &req))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, apperrors.CodeValidationFailed, errorCode(t, w))
		assert.Contains(t, w.Body.String(), "title")
	})

	t.Run("valid", func(t *testing.T) {
		c, _ := newContext(http.MethodPost, "/jobs", `{"title":"Fix roof"}`)
		var req bindRequest
		assert.True(t, h.BindAndValidate_JSON(c, &req))
		assert.Equal(t, "Fix roof", req.Title)
	})
}

func TestHandleServiceError(t *testing.T) {
	h := NewBaseHandler(validator.New())

	c, w := newContext(http.MethodGet, "/jobs/1", "")
	h.HandleServiceError(c, apperrors.ErrInsufficientPermissions)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, apperrors.CodeForbidden, errorCode(t, w))

	c, w = newContext(http.MethodGet, "/jobs/1", "")
	h.HandleServiceError(c, errors.New("db exploded"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, apperrors.CodeInternalError, errorCode(t, w))
	assert.NotContains(t, w.Body.String(), "db exploded")
}
