package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestTimeout(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name         string
		timeout      time.Duration
		wantDeadline bool
	}{
		{name: "sets deadline", timeout: time.Second, wantDeadline: true},
		{name: "zero disables", timeout: 0, wantDeadline: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			var hasDeadline bool
			r := gin.New()
			r.Use(Timeout(tt.timeout))
			r.GET("/", func(c *gin.Context) {
				_, hasDeadline = c.Request.Context().Deadline()
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.wantDeadline, hasDeadline)
		})
	}
}
