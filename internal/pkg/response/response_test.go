package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ilya24037/www.spa.com-sub004/internal/pkg/apperror"
)

func TestNewPageResponse(t *testing.T) {
	page := NewPageResponse[string](nil, 1, 20, 0)
	assert.NotNil(t, page.Items)
	assert.False(t, page.HasMore)

	page = NewPageResponse([]string{"a", "b"}, 1, 2, 5)
	assert.True(t, page.HasMore)

	page = NewPageResponse([]string{"e"}, 3, 2, 5)
	assert.False(t, page.HasMore)
}

func TestError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"app error", apperror.New(http.StatusConflict, "slot_conflict", "taken"), http.StatusConflict, "slot_conflict"},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError, "internal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			Error(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			var body ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.Code)
		})
	}
}
