package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"team-task-board/internal/auth"
	"team-task-board/internal/handlers"
	"team-task-board/internal/identity"
	"team-task-board/internal/models"
	"team-task-board/internal/notify"
	"team-task-board/internal/routes"
	"team-task-board/internal/session"
	"team-task-board/internal/store"
	"team-task-board/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type fakeVerifier struct {
	profile identity.Profile
	err     error
}

func (f *fakeVerifier) Verify(credential string) (identity.Profile, error) {
	if f.err != nil {
		return identity.Profile{}, f.err
	}
	return f.profile, nil
}

type nullSender struct{}

func (nullSender) Send(notify.EmailMessage) error { return nil }

type testApp struct {
	app    *handlers.App
	router *gin.Engine
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)

	app := &handlers.App{
		Store:    store.New(db),
		Emitter:  notify.NewEmitter(notify.NewCenter(nil), nullSender{}),
		Sessions: session.NewRegistry(),
		Verifier: &fakeVerifier{err: errors.New("not configured")},
	}
	return &testApp{app: app, router: routes.SetupRoutes(app)}
}

func (ta *testApp) seedUser(t *testing.T, name string, role models.Role) models.User {
	t.Helper()
	hash, err := auth.HashPassword("password123")
	require.NoError(t, err)
	u, err := ta.app.Store.AddUser(name, name+"@example.com", hash, role, "")
	require.NoError(t, err)
	return u
}

func (ta *testApp) tokenFor(t *testing.T, user models.User) string {
	t.Helper()
	token, tokenID, err := auth.GenerateToken(user)
	require.NoError(t, err)
	ta.app.Sessions.Register(tokenID, user.ID)
	return token
}

func (ta *testApp) do(t *testing.T, method, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ta.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}
