package auth

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/maltedev/luluka-scraper/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newAuthenticator(t *testing.T, mux *http.ServeMux) (*Authenticator, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	sess, err := session.New(session.Options{})
	require.NoError(t, err)

	return New(sess, srv.URL+"/", "login.aspx", testLogger()), srv
}

const loginPage = `
<html><body>
	<form action="/do-login.aspx" method="post">
		<input type="hidden" name="__VIEWSTATE" value="state123" />
		<input type="hidden" name="__EVENTVALIDATION" value="ev456" />
		<input type="text" name="ignored" value="notHidden" />
	</form>
</body></html>`

func TestLoginSuccess(t *testing.T) {
	var posted map[string][]string

	mux := http.NewServeMux()
	mux.HandleFunc("/login.aspx", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, loginPage)
	})
	mux.HandleFunc("/do-login.aspx", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		posted = r.PostForm
		io.WriteString(w, `<html><body><a href="/logout.aspx">Logout</a></body></html>`)
	})

	authenticator, _ := newAuthenticator(t, mux)

	ok := authenticator.Login(context.Background(), "usuario", "secreto")
	require.True(t, ok)

	// Hidden state fields are echoed back alongside the credentials.
	assert.Equal(t, "state123", posted["__VIEWSTATE"][0])
	assert.Equal(t, "ev456", posted["__EVENTVALIDATION"][0])
	assert.Equal(t, "usuario", posted["ctl00$ContentPlaceHolder1$usuariTextbox"][0])
	assert.Equal(t, "secreto", posted["ctl00$ContentPlaceHolder1$passwordTextbox"][0])
	assert.Equal(t, "Iniciar sesión", posted["ctl00$ContentPlaceHolder1$LoginBtn"][0])
	assert.NotContains(t, posted, "ignored", "non-hidden inputs are not harvested")
}

func TestLoginSuccessViaAccountText(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/login.aspx", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, loginPage)
	})
	mux.HandleFunc("/do-login.aspx", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `<html><body><span>Bienvenido a MI CUENTA</span></body></html>`)
	})

	authenticator, _ := newAuthenticator(t, mux)
	assert.True(t, authenticator.Login(context.Background(), "u", "p"))
}

func TestLoginRejectedByHeuristic(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/login.aspx", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, loginPage)
	})
	mux.HandleFunc("/do-login.aspx", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `<html><body>Credenciales incorrectas</body></html>`)
	})

	authenticator, _ := newAuthenticator(t, mux)
	assert.False(t, authenticator.Login(context.Background(), "u", "wrong"))
}

func TestLoginFailsWithoutForm(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/login.aspx", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `<html><body>mantenimiento</body></html>`)
	})

	authenticator, _ := newAuthenticator(t, mux)
	assert.False(t, authenticator.Login(context.Background(), "u", "p"))
}

func TestLoginFailsOnErrorLoginPage(t *testing.T) {
	posts := 0

	mux := http.NewServeMux()
	mux.HandleFunc("/login.aspx", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		io.WriteString(w, loginPage)
	})
	mux.HandleFunc("/do-login.aspx", func(w http.ResponseWriter, r *http.Request) {
		posts++
		io.WriteString(w, `<html><body><a href="/logout.aspx">Logout</a></body></html>`)
	})

	authenticator, _ := newAuthenticator(t, mux)
	assert.False(t, authenticator.Login(context.Background(), "u", "p"))
	assert.Equal(t, 0, posts, "credentials must not be posted to an error page's form")
}

func TestLoginFailsOnFetchError(t *testing.T) {
	mux := http.NewServeMux()
	authenticator, srv := newAuthenticator(t, mux)
	srv.Close()

	assert.False(t, authenticator.Login(context.Background(), "u", "p"))
}

func TestLoginFallsBackToLoginURLWithoutAction(t *testing.T) {
	posts := 0

	mux := http.NewServeMux()
	mux.HandleFunc("/login.aspx", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			posts++
			io.WriteString(w, `<html><body>logout</body></html>`)
			return
		}
		io.WriteString(w, `<html><body>
			<form method="post">
				<input type="hidden" name="__VIEWSTATE" value="x" />
			</form>
		</body></html>`)
	})

	authenticator, _ := newAuthenticator(t, mux)
	assert.True(t, authenticator.Login(context.Background(), "u", "p"))
	assert.Equal(t, 1, posts)
}
