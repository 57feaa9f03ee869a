package server_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ctfarena/backend/internal/auth"
	"github.com/ctfarena/backend/internal/config"
	"github.com/ctfarena/backend/internal/downstream"
	"github.com/ctfarena/backend/internal/interpreter"
	"github.com/ctfarena/backend/internal/orchestrator"
	"github.com/ctfarena/backend/internal/server"
)

const testSecret = "gateway-test-secret"

// gateway bundles the system under test with its stubbed downstreams
type gateway struct {
	router *gin.Engine
	cfg    *config.Config
}

// newGateway builds a gateway whose interpreter and orchestrator clients
// point at the given stub handlers.
func newGateway(t *testing.T, interpHandler, orchHandler http.Handler) *gateway {
	t.Helper()
	gin.SetMode(gin.TestMode)

	if interpHandler == nil {
		interpHandler = http.NotFoundHandler()
	}
	if orchHandler == nil {
		orchHandler = http.NotFoundHandler()
	}
	interpSrv := httptest.NewServer(interpHandler)
	t.Cleanup(interpSrv.Close)
	orchSrv := httptest.NewServer(orchHandler)
	t.Cleanup(orchSrv.Close)

	cfg := &config.Config{
		LogLevel: "error",
		Server: config.ServerConfig{
			AllowedOrigins: []string{"*"},
			RateLimit:      "1000-M",
		},
		JWT:         config.JWTConfig{Secret: testSecret},
		CallbackURL: "http://backend:8000/containers/callback",
	}

	logger := zap.NewNop()
	authSvc := auth.NewService(logger, testSecret)
	interp := interpreter.NewClient(logger, downstream.New(logger, "interpreter", interpSrv.URL, 5*time.Second, time.Second))
	orch := orchestrator.NewClient(logger, downstream.New(logger, "orchestrator", orchSrv.URL, 5*time.Second, time.Second))

	srv := server.NewServer(logger, cfg, authSvc, interp, orch)
	return &gateway{router: srv.Router(), cfg: cfg}
}

// token signs a test JWT for the given user and role
func token(t *testing.T, userID, username, role string) string {
	t.Helper()
	claims := auth.TokenClaims{
		UserID:   userID,
		Username: username,
		Email:    username + "@example.com",
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func adminToken(t *testing.T) string   { return token(t, "admin-1", "root", auth.RoleAdmin) }
func studentToken(t *testing.T) string { return token(t, "student-1", "alice", auth.RoleStudent) }

// request performs one request against the gateway router
func (g *gateway) request(t *testing.T, method, path, bearer string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	g.router.ServeHTTP(w, req)
	return w
}

// writeJSON is a stub-side helper
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func TestHealthCheck(t *testing.T) {
	g := newGateway(t, nil, nil)
	w := g.request(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "ok", resp["status"])
}

func TestMetricsEndpointExposed(t *testing.T) {
	g := newGateway(t, nil, nil)
	g.request(t, http.MethodGet, "/health", "", nil)
	w := g.request(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "gateway_http_requests_total")
}

func TestRequestIDAssignedAndEchoed(t *testing.T) {
	g := newGateway(t, nil, nil)

	w := g.request(t, http.MethodGet, "/health", "", nil)
	require.NotEmpty(t, w.Header().Get("X-Request-ID"))

	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-42")
	w = httptest.NewRecorder()
	g.router.ServeHTTP(w, req)
	require.Equal(t, "req-42", w.Header().Get("X-Request-ID"))
}

func TestMissingTokenIsUnauthorized(t *testing.T) {
	g := newGateway(t, nil, nil)
	w := g.request(t, http.MethodGet, "/exercises/my-solves", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMalformedAuthorizationHeaderIsUnauthorized(t *testing.T) {
	g := newGateway(t, nil, nil)
	req, _ := http.NewRequest(http.MethodGet, "/exercises/my-solves", nil)
	req.Header.Set("Authorization", "Token abc")
	w := httptest.NewRecorder()
	g.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestStudentDeniedOnAdminRoute(t *testing.T) {
	g := newGateway(t, nil, nil)
	w := g.request(t, http.MethodGet, "/attendance", studentToken(t), nil)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestInterpreterUnreachableMapsTo503(t *testing.T) {
	g := newGateway(t, nil, nil)

	// Point the interpreter stub at a closed server by rebuilding the
	// gateway against a dead address.
	dead := httptest.NewServer(http.NotFoundHandler())
	dead.Close()

	logger := zap.NewNop()
	interp := interpreter.NewClient(logger, downstream.New(logger, "interpreter", dead.URL, time.Second, time.Second))
	orch := orchestrator.NewClient(logger, downstream.New(logger, "orchestrator", dead.URL, time.Second, time.Second))
	srv := server.NewServer(logger, g.cfg, auth.NewService(logger, testSecret), interp, orch)

	req, _ := http.NewRequest(http.MethodGet, "/scoreboard/global", nil)
	req.Header.Set("Authorization", "Bearer "+studentToken(t))
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestInterpreterServerErrorMapsTo502(t *testing.T) {
	interp := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	g := newGateway(t, interp, nil)

	w := g.request(t, http.MethodGet, "/scoreboard/global", studentToken(t), nil)
	require.Equal(t, http.StatusBadGateway, w.Code)
}

func TestInterpreterClientErrorPassesThrough(t *testing.T) {
	interp := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusConflict, map[string]string{"detail": "invite code already used"})
	})
	g := newGateway(t, interp, nil)

	w := g.request(t, http.MethodPost, "/competitions/join", studentToken(t), map[string]string{"invite_code": "abc"})
	require.Equal(t, http.StatusConflict, w.Code)
	require.Contains(t, w.Body.String(), "invite code already used")
}
