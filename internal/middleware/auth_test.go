package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/weighin/internal/auth"
)

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	g := r.Group("/v1", AuthMiddleware("secret"))
	g.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": GetUserID(c), "community": GetCommunityID(c)})
	})
	g.GET("/admin", RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func do(r http.Handler, path, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := newRouter()
	member, _ := auth.GenerateToken("u1", "g1", false, "secret", time.Hour)
	admin, _ := auth.GenerateToken("u2", "g1", true, "secret", time.Hour)

	tests := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"missing header", "/v1/me", "", http.StatusUnauthorized},
		{"wrong scheme", "/v1/me", "Basic " + member, http.StatusUnauthorized},
		{"bad token", "/v1/me", "Bearer nope", http.StatusUnauthorized},
		{"member", "/v1/me", "Bearer " + member, http.StatusOK},
		{"member on admin route", "/v1/admin", "Bearer " + member, http.StatusForbidden},
		{"admin", "/v1/admin", "bearer " + admin, http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := do(r, tt.path, tt.header).Code; got != tt.want {
				t.Fatalf("status = %d, want %d", got, tt.want)
			}
		})
	}
}
