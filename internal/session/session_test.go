package session

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSendsConfiguredHeaders(t *testing.T) {
	var gotUA, gotLang string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotLang = r.Header.Get("Accept-Language")
	}))
	defer srv.Close()

	client, err := New(Options{
		UserAgent:      "TestAgent/1.0",
		AcceptLanguage: "es-ES,es;q=0.9",
	})
	require.NoError(t, err)

	resp, err := client.Get(context.Background(), srv.URL)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "TestAgent/1.0", gotUA)
	assert.Equal(t, "es-ES,es;q=0.9", gotLang)
}

func TestCookiesPersistAcrossRequests(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/set":
			http.SetCookie(w, &http.Cookie{Name: "ASP.NET_SessionId", Value: "abc123"})
		case "/check":
			cookie, err := r.Cookie("ASP.NET_SessionId")
			if err != nil {
				http.Error(w, "no session", http.StatusUnauthorized)
				return
			}
			io.WriteString(w, cookie.Value)
		}
	}))
	defer srv.Close()

	client, err := New(Options{})
	require.NoError(t, err)

	resp, err := client.Get(context.Background(), srv.URL+"/set")
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = client.Get(context.Background(), srv.URL+"/check")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "abc123", string(body))
}

func TestPostFormEncodesFields(t *testing.T) {
	var gotContentType string
	var gotForm url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, r.ParseForm())
		gotForm = r.PostForm
	}))
	defer srv.Close()

	client, err := New(Options{UserAgent: "TestAgent/1.0"})
	require.NoError(t, err)

	form := url.Values{}
	form.Set("user", "usuario")
	form.Set("pass", "secreto")

	resp, err := client.PostForm(context.Background(), srv.URL, form)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "application/x-www-form-urlencoded", gotContentType)
	assert.Equal(t, "usuario", gotForm.Get("user"))
	assert.Equal(t, "secreto", gotForm.Get("pass"))
}
