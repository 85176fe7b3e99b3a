package scraper

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/maltedev/luluka-scraper/internal/fetch"
	"github.com/maltedev/luluka-scraper/internal/session"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestService wires a Service against a test server whose handler serves
// the site, with the courtesy delay disabled.
func newTestService(t *testing.T, handler http.Handler) (*Service, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	sess, err := session.New(session.Options{})
	require.NoError(t, err)

	logger := testLogger()
	service := NewService(fetch.New(sess, logger), Options{
		BaseURL: srv.URL + "/",
	}, logger)

	return service, srv
}

// siteMux serves fixed HTML bodies by path.
func siteMux(pages map[string]string) *http.ServeMux {
	mux := http.NewServeMux()
	for path, body := range pages {
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, body)
		})
	}
	return mux
}
