package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("middleware-test-secret")

func signToken(t *testing.T, claims jwt.MapClaims) string {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)
	return token
}

func protectedRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID())
	authed := router.Group("/", JWTAuth(testSecret))
	authed.GET("/me", func(c *gin.Context) {
		userID, role, ok := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "role": role, "ok": ok})
	})
	authed.GET("/admin", RequireRole("admin"), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return router
}

func do(router *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestJWTAuthAcceptsValidToken(t *testing.T) {
	token := signToken(t, jwt.MapClaims{
		"uid":  "12",
		"role": "customer",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	w := do(protectedRouter(), "/me", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":12,"role":"customer","ok":true}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestJWTAuthRejections(t *testing.T) {
	router := protectedRouter()
	future := time.Now().Add(time.Hour).Unix()

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"expired", "Bearer " + signToken(t, jwt.MapClaims{"uid": "1", "role": "customer", "exp": time.Now().Add(-time.Minute).Unix()})},
		{"unknown role", "Bearer " + signToken(t, jwt.MapClaims{"uid": "1", "role": "user", "exp": future})},
		{"missing uid", "Bearer " + signToken(t, jwt.MapClaims{"role": "customer", "exp": future})},
		{"wrong scheme", "Basic abc"},
		{"bad signature", "Bearer " + func() string {
			tok, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"uid": "1", "role": "admin", "exp": future}).SignedString([]byte("other"))
			return tok
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), `"error"`)
		})
	}
}

func TestRequireRole(t *testing.T) {
	router := protectedRouter()
	exp := time.Now().Add(time.Hour).Unix()

	customer := signToken(t, jwt.MapClaims{"uid": "3", "role": "customer", "exp": exp})
	w := do(router, "/admin", customer)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "FORBIDDEN")

	admin := signToken(t, jwt.MapClaims{"uid": "4", "role": "admin", "exp": exp})
	w = do(router, "/admin", admin)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRequestIDPropagatesCallerValue(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID(), RequestLogger())
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextRequestID))
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Body.String())
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(CORS([]string{"http://localhost:3000"}))
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}
