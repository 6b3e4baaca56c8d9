package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"anoa.com/jornalufc/internal/entity"
	"anoa.com/jornalufc/internal/policy"
	"anoa.com/jornalufc/pkg/apperror"
	"anoa.com/jornalufc/pkg/response"
	"github.com/gin-gonic/gin"
)

type fakeResolver struct {
	users map[string]*entity.User
	err   error
}

func (f *fakeResolver) ResolveAccessToken(ctx context.Context, accessToken string) (*entity.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[accessToken]
	if !ok {
		return nil, apperror.ErrUnauthorized
	}
	return u, nil
}

func newRouter(m *AuthMiddleware, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append([]gin.HandlerFunc{m.RequireAuth()}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		u, err := response.GetCurrentUser(c)
		if err != nil {
			c.Status(http.StatusTeapot)
			return
		}
		c.String(http.StatusOK, u.Email)
	})
	r.GET("/", handlers...)
	return r
}

func TestRequireAuth(t *testing.T) {
	resolver := &fakeResolver{users: map[string]*entity.User{
		"good": {ID: 1, Email: "leitor@gmail.com", Role: policy.RoleReader, IsActive: true},
	}}
	r := newRouter(NewAuthMiddleware(resolver))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic good", http.StatusUnauthorized},
		{"unknown token", "Bearer nope", http.StatusUnauthorized},
		{"valid token", "Bearer good", http.StatusOK},
		{"lowercase scheme", "bearer good", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestRequireAuthInactiveAccount(t *testing.T) {
	r := newRouter(NewAuthMiddleware(&fakeResolver{err: apperror.ErrInactiveAccount}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer any")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
}

func TestRequireRole(t *testing.T) {
	resolver := &fakeResolver{users: map[string]*entity.User{
		"reader": {ID: 1, Role: policy.RoleReader, IsActive: true},
		"admin":  {ID: 2, Role: policy.RoleAdmin, IsActive: true},
	}}
	m := NewAuthMiddleware(resolver)
	r := newRouter(m, m.RequireRole(policy.RoleAdmin))

	for token, want := range map[string]int{"reader": http.StatusForbidden, "admin": http.StatusOK} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != want {
			t.Errorf("%s: status = %d, want %d", token, w.Code, want)
		}
	}
}
