package middleware

import (
	"os"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/orgdesk/orgdesk/internal/auth"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Setenv(auth.JWTSecretEnv, "middleware-test-secret-that-is-32-chars")
	os.Exit(m.Run())
}
