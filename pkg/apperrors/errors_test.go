package apperrors_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"kandu_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithDetailsDoesNotMutateSharedError(t *testing.T) {
	withDetails := apperrors.ErrDuplicateApplication.WithDetails(map[string]string{"job_id": "j1"})

	assert.Nil(t, apperrors.ErrDuplicateApplication.Details)
	assert.NotNil(t, withDetails.Details)
	assert.True(t, errors.Is(withDetails, apperrors.ErrDuplicateApplication))
}

func TestHasCodeThroughWrapping(t *testing.T) {
	err := fmt.Errorf("apply: %w", apperrors.ErrDuplicateApplication)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeDuplicateApplication))
	assert.False(t, apperrors.HasCode(err, apperrors.CodeNotFound))
	assert.False(t, apperrors.HasCode(errors.New("plain"), apperrors.CodeNotFound))
}

func TestIsDistinguishesErrors(t *testing.T) {
	assert.False(t, errors.Is(apperrors.ErrJobNotFound, apperrors.ErrApplicationNotFound))
	assert.True(t, errors.Is(apperrors.ErrJobNotFound, apperrors.ErrJobNotFound))
}

func TestHandleError_RendersCodeAndStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/x", nil)

	apperrors.HandleError(c, apperrors.ErrDuplicateApplication)

	require.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"DUPLICATE_APPLICATION"`)
}

func TestHandleError_UnknownErrorIsInternal(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)

	apperrors.HandleError(c, errors.New("db exploded"))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"INTERNAL_ERROR"`)
	assert.NotContains(t, w.Body.String(), "db exploded")
}
