package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/servehub/servehub-api/config"
	"github.com/servehub/servehub-api/services"
	"github.com/servehub/servehub-api/tests/testutil"
)

func setupAuthTest(t *testing.T) string {
	t.Helper()

	gin.SetMode(gin.TestMode)
	config.SetConfig(&config.Config{
		GoEnv:              "test",
		JWTSecret:          "test-secret-do-not-use-in-production",
		AccessTokenTTLMin:  60,
		RefreshTokenTTLHrs: 168,
	})

	pair, err := services.IssueTokenPair(42)
	if err != nil {
		t.Fatalf("Failed to issue token pair: %v", err)
	}
	return pair.Access
}

// echoUserID is a terminal handler that reports what RequireAuth stored
func echoUserID(c *gin.Context) {
	userID, err := GetUserID(c)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"user_id": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_id": userID})
}

func TestRequireAuth(t *testing.T) {
	access := setupAuthTest(t)

	refreshPair, err := services.IssueTokenPair(42)
	assert.NoError(t, err)

	router := gin.New()
	router.GET("/protected", RequireAuth(), echoUserID)

	tests := []struct {
		name           string
		authHeader     string
		expectedStatus int
		expectedCode   string
	}{
		{"Valid access token", "Bearer " + access, http.StatusOK, ""},
		{"Missing header", "", http.StatusUnauthorized, "MISSING_TOKEN"},
		{"Wrong scheme", "Basic dXNlcjpwYXNz", http.StatusUnauthorized, "MISSING_TOKEN"},
		{"Garbage token", "Bearer not.a.token", http.StatusUnauthorized, "INVALID_TOKEN"},
		{"Refresh token is not an access token", "Bearer " + refreshPair.Refresh, http.StatusUnauthorized, "INVALID_TOKEN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var response map[string]interface{}
			assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

			if tt.expectedCode != "" {
				errData := response["error"].(map[string]interface{})
				assert.Equal(t, tt.expectedCode, errData["code"])
			} else {
				assert.Equal(t, float64(42), response["user_id"])
			}
		})
	}
}

func TestRequireAuth_WrongSecret(t *testing.T) {
	access := setupAuthTest(t)

	// Rotate the secret after issuing; the old token must die
	config.SetConfig(&config.Config{
		GoEnv:              "test",
		JWTSecret:          "rotated-secret",
		AccessTokenTTLMin:  60,
		RefreshTokenTTLHrs: 168,
	})

	router := gin.New()
	router.GET("/protected", RequireAuth(), echoUserID)

	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+access)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOptionalAuth(t *testing.T) {
	access := setupAuthTest(t)

	router := gin.New()
	router.GET("/open", OptionalAuth(), echoUserID)

	t.Run("Anonymous request passes through", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/open", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Nil(t, response["user_id"])
	})

	t.Run("Valid token is resolved", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/open", nil)
		req.Header.Set("Authorization", "Bearer "+access)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, float64(42), response["user_id"])
	})

	t.Run("Invalid token is treated as anonymous", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/open", nil)
		req.Header.Set("Authorization", "Bearer junk")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Nil(t, response["user_id"])
	})
}

func TestGetUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("Missing user id", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		_, err := GetUserID(c)
		assert.Error(t, err)

		var authErr *AuthError
		assert.ErrorAs(t, err, &authErr)
		assert.Equal(t, "MISSING_USER_ID", authErr.Code)
	})

	t.Run("Wrong type", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Set("user_id", "not-a-uint")
		_, err := GetUserID(c)
		assert.Error(t, err)
	})

	t.Run("Valid", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Set("user_id", uint(7))
		userID, err := GetUserID(c)
		assert.NoError(t, err)
		assert.Equal(t, uint(7), userID)
	})

	t.Run("Mock auth context helper", func(t *testing.T) {
		c, _ := testutil.CreateTestContext()
		testutil.SetMockAuthContext(c, 99)
		userID, err := GetUserID(c)
		assert.NoError(t, err)
		assert.Equal(t, uint(99), userID)
	})
}
