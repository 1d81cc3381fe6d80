package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gatherly/server/internal/auth"
	"github.com/stretchr/testify/require"
)

func testManager() *auth.JWTManager {
	return auth.NewJWTManager("test-secret", time.Hour, "gatherly")
}

func actorEcho(t *testing.T, want *Actor) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor := ActorFrom(r)
		if want == nil {
			require.Nil(t, actor)
		} else {
			require.NotNil(t, actor)
			require.Equal(t, want.ID, actor.ID)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuthRejectsMissingHeader(t *testing.T) {
	handler := RequireAuth(testManager(), "test")(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/api/events", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	require.Equal(t, http.StatusUnauthorized, res.Code)
	require.Equal(t, "application/problem+json", res.Header().Get("Content-Type"))
}

func TestRequireAuthRejectsGarbageToken(t *testing.T) {
	handler := RequireAuth(testManager(), "test")(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/api/events", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	require.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestRequireAuthAttachesActor(t *testing.T) {
	manager := testManager()
	token, err := manager.Generate("01HQZX3Y4K6F7G8H9J0K1M2N3P", "Ada", "ada@example.com")
	require.NoError(t, err)

	handler := RequireAuth(manager, "test")(actorEcho(t, &Actor{ID: "01HQZX3Y4K6F7G8H9J0K1M2N3P"}))

	req := httptest.NewRequest(http.MethodPost, "/api/events", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	require.Equal(t, http.StatusOK, res.Code)
}

func TestOptionalAuthPassesAnonymous(t *testing.T) {
	handler := OptionalAuth(testManager())(actorEcho(t, nil))

	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	require.Equal(t, http.StatusOK, res.Code)
}

func TestOptionalAuthIgnoresInvalidToken(t *testing.T) {
	handler := OptionalAuth(testManager())(actorEcho(t, nil))

	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	require.Equal(t, http.StatusOK, res.Code)
}

func TestOptionalAuthAttachesValidActor(t *testing.T) {
	manager := testManager()
	token, err := manager.Generate("01HQZX3Y4K6F7G8H9J0K1M2N3P", "Ada", "ada@example.com")
	require.NoError(t, err)

	handler := OptionalAuth(manager)(actorEcho(t, &Actor{ID: "01HQZX3Y4K6F7G8H9J0K1M2N3P"}))

	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	require.Equal(t, http.StatusOK, res.Code)
}

func TestActorIDForAnonymous(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	require.Equal(t, "", ActorID(req))
}
