package testutil

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/servehub/servehub-api/config"
	"github.com/servehub/servehub-api/services"
)

// TestConfig returns a configuration suitable for in-memory test runs
func TestConfig() *config.Config {
	return &config.Config{
		DatabaseURL:        "sqlite://:memory:",
		Port:               "8080",
		GoEnv:              "test",
		JWTSecret:          "test-secret-do-not-use-in-production",
		AccessTokenTTLMin:  60,
		RefreshTokenTTLHrs: 168,
	}
}

// InstallTestConfig installs the test configuration globally so the token
// service can sign and verify tokens during tests
func InstallTestConfig() {
	config.SetConfig(TestConfig())
}

// AccessTokenFor issues a real signed access token for the given user ID.
// Fails the test when signing fails.
func AccessTokenFor(t *testing.T, userID uint) string {
	t.Helper()

	pair, err := services.IssueTokenPair(userID)
	if err != nil {
		t.Fatalf("Failed to issue token pair: %v", err)
	}
	return pair.Access
}

// BearerHeader returns the Authorization header value for a user's access token
func BearerHeader(t *testing.T, userID uint) string {
	t.Helper()
	return "Bearer " + AccessTokenFor(t, userID)
}

// SetMockAuthContext sets up a mock authenticated context for testing
func SetMockAuthContext(c *gin.Context, userID uint) {
	c.Set("user_id", userID)
}

// CreateTestContext creates a test Gin context backed by a response recorder
func CreateTestContext() (*gin.Context, *gin.Engine) {
	gin.SetMode(gin.TestMode)
	c, engine := gin.CreateTestContext(httptest.NewRecorder())
	return c, engine
}
