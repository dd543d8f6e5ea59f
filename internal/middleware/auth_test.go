package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"apistarter/internal/domain"
	"apistarter/internal/pkg/apierror"
)

// stubVerifier resolves one fixed token to one fixed user.
type stubVerifier struct {
	token string
	user  *domain.User
	err   *apierror.Error
}

func (s *stubVerifier) VerifyToken(_ context.Context, accessToken string) (*domain.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	if accessToken != s.token {
		return nil, apierror.Unauthorized("Invalid token")
	}
	return s.user, nil
}

func testUser(roleNames ...string) *domain.User {
	roles := make([]domain.Role, 0, len(roleNames))
	for i, name := range roleNames {
		roles = append(roles, domain.Role{ID: int64(i + 1), Name: name})
	}
	return &domain.User{ID: 42, Email: "mw@example.com", IsActive: true, Roles: roles}
}

func TestAuthenticate_ValidToken(t *testing.T) {
	verifier := &stubVerifier{token: "good-token", user: testUser("user")}

	router := gin.New()
	router.Use(Authenticate(verifier))
	router.GET("/protected", func(c *gin.Context) {
		user, ok := CurrentUser(c)
		assert.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"user_id": user.ID})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "42")
}

func TestAuthenticate_NoHeader(t *testing.T) {
	router := gin.New()
	router.Use(Authenticate(&stubVerifier{}))
	router.GET("/protected", func(c *gin.Context) {
		t.Fatal("should not reach here")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/protected", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
}

func TestAuthenticate_WrongScheme(t *testing.T) {
	router := gin.New()
	router.Use(Authenticate(&stubVerifier{}))
	router.GET("/protected", func(c *gin.Context) {
		t.Fatal("should not reach here")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Basic dGVzdA==")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticate_ExpiredTokenCodeSurfaces(t *testing.T) {
	verifier := &stubVerifier{err: apierror.TokenExpired()}

	router := gin.New()
	router.Use(Authenticate(verifier))
	router.GET("/protected", func(c *gin.Context) {
		t.Fatal("should not reach here")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer whatever")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "TOKEN_EXPIRED")
}

func TestRequireAnyRole_Rejects(t *testing.T) {
	verifier := &stubVerifier{token: "good-token", user: testUser("user")}

	router := gin.New()
	router.Use(Authenticate(verifier), RequireAnyRole("admin"))
	router.GET("/admin", func(c *gin.Context) {
		t.Fatal("should not reach here")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Insufficient permissions")
}

func TestRequireAnyRole_AnyMatchSuffices(t *testing.T) {
	verifier := &stubVerifier{token: "good-token", user: testUser("editor")}

	router := gin.New()
	router.Use(Authenticate(verifier), RequireAnyRole("admin", "editor"))
	router.GET("/admin", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestOptionalAuth_ProceedsAnonymousOnBadToken(t *testing.T) {
	verifier := &stubVerifier{token: "good-token", user: testUser("user")}

	router := gin.New()
	router.Use(OptionalAuth(verifier))
	router.GET("/feed", func(c *gin.Context) {
		_, ok := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"authenticated": ok})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/feed", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "false")
}

func TestOptionalAuth_AttachesUserOnGoodToken(t *testing.T) {
	verifier := &stubVerifier{token: "good-token", user: testUser("user")}

	router := gin.New()
	router.Use(OptionalAuth(verifier))
	router.GET("/feed", func(c *gin.Context) {
		_, ok := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"authenticated": ok})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/feed", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "true")
}
