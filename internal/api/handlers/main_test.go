package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/orgdesk/orgdesk/internal/auth"
	"github.com/orgdesk/orgdesk/internal/config"
	"github.com/orgdesk/orgdesk/internal/db/memory"
	"github.com/orgdesk/orgdesk/internal/middleware"
	"github.com/orgdesk/orgdesk/internal/services"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Setenv(auth.JWTSecretEnv, "handlers-test-secret-that-is-32-chars!")
	os.Exit(m.Run())
}

var testSessionConfig = config.SessionConfig{
	Store:      "memory",
	CookieName: "orgdesk_session",
	TTL:        time.Hour,
}

// testServer wires the handlers over a memory store the same way the router does
type testServer struct {
	store    *memory.Store
	sessions *auth.SessionManager
	router   *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := memory.New()
	sessions := auth.NewSessionManager(auth.NewMemorySessionStore(), testSessionConfig.TTL)

	sessionH := NewSessionHandlers(&testSessionConfig, services.NewSessionService(store, sessions))
	orgH := NewOrgHandlers(services.NewOrgService(store, true))
	clientH := NewClientHandlers(services.NewClientService(store, store, false))

	r := gin.New()
	r.Use(middleware.SessionMiddleware(sessions, store, testSessionConfig.CookieName))
	r.POST("/login", sessionH.LoginHandler())
	r.POST("/register", sessionH.RegisterHandler())

	authed := r.Group("")
	authed.Use(middleware.RequireAuth())
	authed.GET("/me", sessionH.MeHandler())
	authed.DELETE("/logout", sessionH.LogoutHandler())
	authed.GET("/orgs/all", orgH.ListHandler())
	authed.POST("/orgs", orgH.CreateHandler())
	authed.GET("/orgs/:id", orgH.GetHandler())
	authed.PUT("/orgs/:id", orgH.UpdateHandler())
	authed.DELETE("/orgs/:id", orgH.DeleteHandler())
	authed.POST("/clients", clientH.CreateHandler())
	authed.GET("/clients/:id", clientH.GetHandler())
	authed.PUT("/clients/:id", clientH.UpdateHandler())
	authed.DELETE("/clients/:id", clientH.DeleteHandler())

	return &testServer{store: store, sessions: sessions, router: r}
}

// do sends a request; token is sent as a Bearer header when non-empty
func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// register creates an account through the API and returns its session token
func (s *testServer) register(t *testing.T, email string) string {
	t.Helper()
	w := s.do(t, http.MethodPost, "/register", "", map[string]any{
		"username": "user", "email": email, "password": "secret", "confirm": "secret",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("register %s: status %d body %s", email, w.Code, w.Body.String())
	}
	for _, c := range w.Result().Cookies() {
		if c.Name == testSessionConfig.CookieName {
			return c.Value
		}
	}
	t.Fatal("register did not set a session cookie")
	return ""
}

// createOrg creates an org through the API and returns its id
func (s *testServer) createOrg(t *testing.T, token, name string) int64 {
	t.Helper()
	w := s.do(t, http.MethodPost, "/orgs", token, map[string]any{"name": name})
	if w.Code != http.StatusOK {
		t.Fatalf("create org %s: status %d body %s", name, w.Code, w.Body.String())
	}
	var body struct{ ID int64 }
	decode(t, w, &body)
	return body.ID
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
}

type errorBody struct {
	Errors []struct {
		Message string         `json:"message"`
		Field   string         `json:"field"`
		Rule    string         `json:"rule"`
		Meta    map[string]any `json:"meta"`
	} `json:"errors"`
}

func decodeErrors(t *testing.T, w *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	decode(t, w, &body)
	return body
}

const unauthorizedJSON = `{"errors":[{"message":"Unauthorized access"}]}`

func countClients(t *testing.T, s *testServer, name string) int {
	t.Helper()
	c, err := s.store.GetClientByName(context.Background(), name)
	if err != nil {
		t.Fatalf("GetClientByName: %v", err)
	}
	if c == nil {
		return 0
	}
	return 1
}
