package handlers

import (
	"net/http"
	"net/url"

	"lifesim-server/internal/shared/config"
)

// resolveRedirectURI accepts a client-supplied redirect only when it points
// at the configured frontend origin.
func resolveRedirectURI(raw string) string {
	frontend := config.GlobalConfig.Frontend.URL
	if raw == "" {
		return frontend
	}

	want, err := url.Parse(frontend)
	if err != nil {
		return frontend
	}
	got, err := url.Parse(raw)
	if err != nil || got.Scheme != want.Scheme || got.Host != want.Host {
		return frontend
	}
	return raw
}

func redirectWithError(w http.ResponseWriter, r *http.Request, redirectURI, errorType string) {
	if redirectURI == "" {
		redirectURI = config.GlobalConfig.Frontend.URL
	}
	q := url.Values{"error": {errorType}}
	http.Redirect(w, r, redirectURI+"/auth/error?"+q.Encode(), http.StatusTemporaryRedirect)
}
