package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"devlink/auth"
)

func authRouter(tokens *auth.TokenService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/secure", Auth(tokens), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userId": c.GetString(UserIDKey)})
	})
	return r
}

func TestAuthMissingToken(t *testing.T) {
	r := authRouter(auth.NewTokenService("secret", time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestAuthInvalidToken(t *testing.T) {
	r := authRouter(auth.NewTokenService("secret", time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("x-auth-token", "bogus")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestAuthExpiredToken(t *testing.T) {
	expired := auth.NewTokenService("secret", -time.Minute)
	token, err := expired.Issue("abc")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	r := authRouter(auth.NewTokenService("secret", time.Hour))
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("x-auth-token", token)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestAuthValidTokenBothHeaders(t *testing.T) {
	tokens := auth.NewTokenService("secret", time.Hour)
	token, err := tokens.Issue("64a1f0c2e4b0a1b2c3d4e5f6")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	r := authRouter(tokens)

	for _, set := range []func(*http.Request){
		func(req *http.Request) { req.Header.Set("x-auth-token", token) },
		func(req *http.Request) { req.Header.Set("Authorization", "Bearer "+token) },
	} {
		req := httptest.NewRequest(http.MethodGet, "/secure", nil)
		set(req)
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)

		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
		}
	}
}
