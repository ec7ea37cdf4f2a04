package apperror

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestKind_HTTPStatus(t *testing.T) {
	tests := []struct {
		kind   Kind
		status int
		name   string
	}{
		{NotFound, http.StatusNotFound, "NOT_FOUND"},
		{Forbidden, http.StatusForbidden, "FORBIDDEN"},
		{Conflict, http.StatusConflict, "CONFLICT"},
		{InvalidArgument, http.StatusBadRequest, "INVALID_ARGUMENT"},
		{InvalidState, http.StatusConflict, "INVALID_STATE"},
		{Unauthenticated, http.StatusUnauthorized, "UNAUTHENTICATED"},
		{Internal, http.StatusInternalServerError, "INTERNAL"},
		{Kind(99), http.StatusInternalServerError, "INTERNAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.kind.HTTPStatus())
			assert.Equal(t, tt.name, tt.kind.String())
		})
	}
}

func TestKindOf(t *testing.T) {
	sentinel := New(NotFound, "project not found")

	assert.Equal(t, NotFound, KindOf(sentinel))
	assert.Equal(t, NotFound, KindOf(fmt.Errorf("get project: %w", sentinel)))
	assert.Equal(t, Internal, KindOf(errors.New("boom")))
	assert.Equal(t, Internal, KindOf(nil))
	assert.True(t, Is(fmt.Errorf("x: %w", sentinel), NotFound))
	assert.False(t, Is(nil, NotFound))
}

func TestWrap(t *testing.T) {
	cause := errors.New("duplicate key")
	err := Wrap(Conflict, "already a member", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "already a member: duplicate key", err.Error())
	assert.Equal(t, Conflict, KindOf(err))
	assert.Equal(t, "already a member", MessageOf(err))
}

func TestMessageOf(t *testing.T) {
	assert.Equal(t, "not the owner", MessageOf(New(Forbidden, "not the owner")))
	assert.Equal(t, "internal server error", MessageOf(errors.New("pq: connection reset")))
	assert.Equal(t, "internal server error", MessageOf(New(Internal, "decode failed")))
}

func TestRespond(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
		wantLogged  bool
	}{
		{
			name:        "classified error",
			err:         fmt.Errorf("accept: %w", New(InvalidState, "request is no longer pending")),
			wantStatus:  http.StatusConflict,
			wantMessage: "request is no longer pending",
		},
		{
			name:        "internal error hides cause",
			err:         errors.New("pq: password authentication failed"),
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "internal server error",
			wantLogged:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zap.ErrorLevel)
			router := gin.New()
			router.GET("/x", func(c *gin.Context) {
				Respond(c, zap.New(core).Sugar(), tt.err)
			})

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

			require.Equal(t, tt.wantStatus, w.Code)
			var body ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantStatus, body.Status)
			assert.Equal(t, http.StatusText(tt.wantStatus), body.Error)
			assert.Equal(t, tt.wantMessage, body.Message)
			_, err := time.Parse(time.RFC3339, body.Timestamp)
			assert.NoError(t, err)
			assert.Equal(t, tt.wantLogged, logs.Len() == 1)
		})
	}
}

func TestRespondKind(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/x", func(c *gin.Context) {
		RespondKind(c, InvalidArgument, "invalid project id")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"message":"invalid project id"`)
	assert.Contains(t, w.Body.String(), `"error":"Bad Request"`)
}
