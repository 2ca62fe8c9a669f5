package session_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mgiraldo/almacen/pkg/session"
)

func newApp(handler func(w http.ResponseWriter, r *http.Request)) http.Handler {
	mw := session.Middleware(session.NewMemoryStore(), session.DefaultOptions())
	return mw(http.HandlerFunc(handler))
}

func TestSessionPersistsAcrossRequests(t *testing.T) {
	app := newApp(func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromCtx(r)
		if r.URL.Path == "/set" {
			sess.Set("user_id", uint(7))
			sess.Set("nombre", "Ana")
			require.NoError(t, sess.Save(w))
			return
		}
		id, ok := sess.GetUint("user_id")
		assert.True(t, ok)
		assert.Equal(t, uint(7), id)
		name, _ := sess.GetString("nombre")
		assert.Equal(t, "Ana", name)
	})

	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/set", nil))
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodGet, "/get", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	app.ServeHTTP(httptest.NewRecorder(), req)
}

func TestFlashIsConsumedOnRead(t *testing.T) {
	app := newApp(func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromCtx(r)
		switch r.URL.Path {
		case "/flash":
			sess.Flash("error", "algo salió mal")
		case "/first":
			v, ok := sess.GetFlash("error")
			assert.True(t, ok)
			assert.Equal(t, "algo salió mal", v)
		case "/second":
			_, ok := sess.GetFlash("error")
			assert.False(t, ok)
		}
		require.NoError(t, sess.Save(w))
	})

	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/flash", nil))
	cookies := rec.Result().Cookies()

	for _, path := range []string{"/first", "/second"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		for _, c := range cookies {
			req.AddCookie(c)
		}
		app.ServeHTTP(httptest.NewRecorder(), req)
	}
}

func TestInvalidateDropsSessionData(t *testing.T) {
	app := newApp(func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromCtx(r)
		switch r.URL.Path {
		case "/login":
			sess.Set("user_id", uint(1))
		case "/logout":
			sess.Invalidate()
		case "/check":
			_, ok := sess.GetUint("user_id")
			assert.False(t, ok)
		}
		require.NoError(t, sess.Save(w))
	})

	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login", nil))
	cookies := rec.Result().Cookies()

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec2 := httptest.NewRecorder()
	app.ServeHTTP(rec2, req)

	// The old token is destroyed server-side; presenting it again yields an
	// empty session.
	req = httptest.NewRequest(http.MethodGet, "/check", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	app.ServeHTTP(httptest.NewRecorder(), req)
}
