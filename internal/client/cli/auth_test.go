package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noverdy/ispcli/internal/client/models"
	"github.com/noverdy/ispcli/internal/client/session"
)

// stubInputs replaces the prompt seams for the duration of a test.
func stubInputs(t *testing.T, answers []string, password string) {
	t.Helper()
	origST, origGP := getSimpleText, getPassword

	i := 0
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		if i >= len(answers) {
			return "", io.EOF
		}
		answer := answers[i]
		i++
		return answer, nil
	}
	getPassword = func(_ io.Writer) ([]byte, error) { return []byte(password), nil }

	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
	})
}

func newAppWithServer(t *testing.T, handler http.HandlerFunc) (*App, *atomic.Int32) {
	t.Helper()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	a := &App{
		session: session.NewStore(srv.URL, srv.Client(), ""),
		reader:  bufio.NewReader(strings.NewReader("")),
		out:     io.Discard,
	}
	return a, &calls
}

func TestLogin_Success(t *testing.T) {
	a, _ := newAppWithServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"token": "tok",
			"user":  models.User{ID: 1, Name: "Alice"},
		})
	})
	stubInputs(t, []string{"a@b.com"}, "secret")

	require.NoError(t, a.Login(context.Background()))
	assert.Equal(t, "tok", a.session.Token())
}

func TestLogin_ServerRejection(t *testing.T) {
	a, _ := newAppWithServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "Invalid email or password"})
	})
	stubInputs(t, []string{"a@b.com"}, "wrong-pass")

	err := a.Login(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid email or password")
	assert.Empty(t, a.session.Token())
}

func TestLogin_MalformedEmailNeverReachesNetwork(t *testing.T) {
	a, calls := newAppWithServer(t, func(w http.ResponseWriter, r *http.Request) {})
	stubInputs(t, []string{"not-an-email"}, "secret")

	err := a.Login(context.Background())
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "email", verr.Field)
	assert.Equal(t, int32(0), calls.Load())
}

func TestRegister_Success(t *testing.T) {
	a, _ := newAppWithServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{"user": models.User{ID: 2}})
	})
	stubInputs(t, []string{"Bob", "b@c.com"}, "secret")

	require.NoError(t, a.Register(context.Background()))
	assert.Empty(t, a.session.Token(), "registration must not authenticate")
}

func TestRegister_ShortPasswordNeverReachesNetwork(t *testing.T) {
	a, calls := newAppWithServer(t, func(w http.ResponseWriter, r *http.Request) {})
	stubInputs(t, []string{"Bob", "b@c.com"}, "abc")

	err := a.Register(context.Background())
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "password", verr.Field)
	assert.Equal(t, int32(0), calls.Load())
}

func TestResetPassword_Success(t *testing.T) {
	a, _ := newAppWithServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/reset-password", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{"message": "Password reset successfully"})
	})
	stubInputs(t, []string{"reset-tok"}, "newsecret")

	require.NoError(t, a.ResetPassword(context.Background()))
}

func TestLogout_ClearsSession(t *testing.T) {
	a, _ := newAppWithServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"token": "tok",
			"user":  models.User{ID: 1, Name: "Alice"},
		})
	})
	stubInputs(t, []string{"a@b.com"}, "secret")
	require.NoError(t, a.Login(context.Background()))

	a.Logout()
	assert.Empty(t, a.session.Token())
	assert.Nil(t, a.session.User())
}
