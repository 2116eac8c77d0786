package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopfront/gateway/internal/domain/shared"
	"github.com/shopfront/gateway/internal/infrastructure/upstream"
	"github.com/shopfront/gateway/internal/interfaces/http/dto"
)

func TestBaseHandler_ErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "unauthorized sentinel",
			err:        shared.ErrUnauthorized,
			wantStatus: http.StatusUnauthorized,
			wantCode:   dto.ErrCodeUnauthorized,
		},
		{
			name:       "wrapped unauthorized",
			err:        fmt.Errorf("resolving session: %w", shared.ErrUnauthorized),
			wantStatus: http.StatusUnauthorized,
			wantCode:   dto.ErrCodeUnauthorized,
		},
		{
			name:       "platform outage sentinel",
			err:        shared.ErrUpstreamDown,
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   dto.ErrCodePlatformDown,
		},
		{
			name:       "transport failure",
			err:        fmt.Errorf("login: %w", upstream.ErrUnavailable),
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   dto.ErrCodePlatformDown,
		},
		{
			name:       "forbidden sentinel",
			err:        shared.ErrForbidden,
			wantStatus: http.StatusForbidden,
			wantCode:   dto.ErrCodeForbidden,
		},
		{
			name:       "not found sentinel",
			err:        shared.ErrNotFound,
			wantStatus: http.StatusNotFound,
			wantCode:   dto.ErrCodeNotFound,
		},
		{
			name:       "action in flight sentinel",
			err:        shared.ErrActionInFlight,
			wantStatus: http.StatusConflict,
			wantCode:   dto.ErrCodeActionInFlight,
		},
		{
			name:       "plain domain error keeps its code",
			err:        shared.NewDomainError("INVALID_DOCUMENT_KIND", "Unknown document kind"),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "INVALID_DOCUMENT_KIND",
		},
		{
			name:       "platform error passes through",
			err:        &upstream.APIError{HTTPStatus: http.StatusConflict, Code: "EMAIL_TAKEN", Message: "Email already registered"},
			wantStatus: http.StatusConflict,
			wantCode:   "EMAIL_TAKEN",
		},
		{
			name:       "platform error with bogus status becomes bad gateway",
			err:        &upstream.APIError{HTTPStatus: 0, Code: "WEIRD", Message: "malformed envelope"},
			wantStatus: http.StatusBadGateway,
			wantCode:   "WEIRD",
		},
		{
			name:       "unknown error",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   dto.ErrCodeInternal,
		},
	}

	h := &BaseHandler{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			h.Error(c, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)

			var resp dto.Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}
