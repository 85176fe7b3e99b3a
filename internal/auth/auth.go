// Package auth performs the site's two-step WebForms login: GET the login
// page, harvest the hidden state fields (__VIEWSTATE and friends), then POST
// them back together with the credentials.
package auth

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/maltedev/luluka-scraper/internal/session"
)

// Form field names are fixed by the site's ASP.NET markup.
const (
	usernameField = "ctl00$ContentPlaceHolder1$usuariTextbox"
	passwordField = "ctl00$ContentPlaceHolder1$passwordTextbox"
	submitField   = "ctl00$ContentPlaceHolder1$LoginBtn"
	submitValue   = "Iniciar sesión"
)

type Authenticator struct {
	session  *session.Client
	baseURL  string
	loginURL string
	logger   *slog.Logger
}

func New(sess *session.Client, baseURL, loginPath string, logger *slog.Logger) *Authenticator {
	return &Authenticator{
		session:  sess,
		baseURL:  baseURL,
		loginURL: resolveURL(baseURL, loginPath),
		logger:   logger.With("component", "auth"),
	}
}

// Login authenticates the session. It reports success or failure only; no
// failure mode escapes as an error. Success is detected by a substring
// heuristic on the post-login page ("logout" / "mi cuenta"), which is
// locale-dependent and known to be brittle, but it is the site's observable
// contract.
func (a *Authenticator) Login(ctx context.Context, username, password string) bool {
	resp, err := a.session.Get(ctx, a.loginURL)
	if err != nil {
		a.logger.Warn("login page fetch failed", "url", a.loginURL, "error", err)
		return false
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		a.logger.Warn("login page fetch failed", "url", a.loginURL, "status", resp.StatusCode)
		resp.Body.Close()
		return false
	}
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	resp.Body.Close()
	if err != nil {
		a.logger.Warn("login page parse failed", "error", err)
		return false
	}

	form := doc.Find("form").First()
	if form.Length() == 0 {
		a.logger.Warn("login form not found", "url", a.loginURL)
		return false
	}

	fields := url.Values{}
	form.Find(`input[type="hidden"]`).Each(func(_ int, s *goquery.Selection) {
		name, _ := s.Attr("name")
		value, _ := s.Attr("value")
		if name != "" && value != "" {
			fields.Set(name, value)
		}
	})

	fields.Set(usernameField, username)
	fields.Set(passwordField, password)
	fields.Set(submitField, submitValue)

	postURL := a.loginURL
	if action, ok := form.Attr("action"); ok && action != "" {
		postURL = resolveURL(a.baseURL, action)
	}

	a.logger.Info("submitting credentials", "url", postURL)

	loginResp, err := a.session.PostForm(ctx, postURL, fields)
	if err != nil {
		a.logger.Warn("login post failed", "url", postURL, "error", err)
		return false
	}
	defer loginResp.Body.Close()

	if loginResp.StatusCode < http.StatusOK || loginResp.StatusCode >= http.StatusMultipleChoices {
		a.logger.Warn("login post failed", "url", postURL, "status", loginResp.StatusCode)
		return false
	}

	body, err := io.ReadAll(loginResp.Body)
	if err != nil {
		a.logger.Warn("login response read failed", "error", err)
		return false
	}

	page := strings.ToLower(string(body))
	if strings.Contains(page, "logout") || strings.Contains(page, "mi cuenta") {
		a.logger.Info("login succeeded")
		return true
	}

	a.logger.Warn("login rejected")
	return false
}

func resolveURL(base, ref string) string {
	baseURL, err := url.Parse(base)
	if err != nil {
		return ref
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return baseURL.ResolveReference(refURL).String()
}
