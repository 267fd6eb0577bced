package providers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/oauth2"
)

func TestGetJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/fail" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"id":"123","email":"a@b.c","verified_email":true}`))
	}))
	defer srv.Close()

	var got googleAPIResponse
	if err := getJSON(srv.Client(), srv.URL+"/ok", &got); err != nil {
		t.Fatalf("getJSON error: %v", err)
	}
	if got.ID != "123" || !got.VerifiedEmail {
		t.Errorf("decoded = %+v", got)
	}

	if err := getJSON(srv.Client(), srv.URL+"/fail", &got); err == nil {
		t.Error("expected error for 401")
	}
}

func TestPickGitHubEmail(t *testing.T) {
	tests := []struct {
		name   string
		emails []githubEmail
		want   string
		ok     bool
	}{
		{"primary verified", []githubEmail{{"a@x", false, true}, {"b@x", true, true}}, "b@x", true},
		{"verified fallback", []githubEmail{{"a@x", true, false}, {"c@x", false, true}}, "c@x", true},
		{"none verified", []githubEmail{{"a@x", true, false}}, "", false},
		{"empty", nil, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := pickGitHubEmail(tt.emails)
			if got != tt.want || ok != tt.ok {
				t.Errorf("pickGitHubEmail = %q, %v; want %q, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestDiscordProfile(t *testing.T) {
	u := discordAPIResponse{ID: "9", Username: "kim", Avatar: "abc"}
	if u.displayName() != "kim" {
		t.Errorf("displayName = %q", u.displayName())
	}
	if u.avatarURL() != "https://cdn.discordapp.com/avatars/9/abc.png" {
		t.Errorf("avatarURL = %q", u.avatarURL())
	}

	u.GlobalName = "Kim Lee"
	u.Avatar = ""
	if u.displayName() != "Kim Lee" || u.avatarURL() != "" {
		t.Errorf("profile = %q, %q", u.displayName(), u.avatarURL())
	}
}

func TestProviderNames(t *testing.T) {
	cfg := &oauth2.Config{}
	for i, p := range []OAuthProvider{NewGoogleProvider(cfg), NewGitHubProvider(cfg), NewDiscordProvider(cfg)} {
		if p.Name() != Names[i] {
			t.Errorf("provider %d Name() = %q, want %q", i, p.Name(), Names[i])
		}
		if !Known(p.Name()) {
			t.Errorf("Known(%q) = false", p.Name())
		}
	}

	for _, name := range []string{"", "twitter", "Google", "guest"} {
		if Known(name) {
			t.Errorf("Known(%q) = true", name)
		}
	}
}

func TestCanSignIn(t *testing.T) {
	tests := []struct {
		user OAuthUser
		want bool
	}{
		{OAuthUser{ID: "1", Email: "a@b.c", EmailVerified: true}, true},
		{OAuthUser{ID: "1", Email: "a@b.c"}, false},
		{OAuthUser{ID: "1", EmailVerified: true}, false},
	}

	for _, tt := range tests {
		if got := tt.user.CanSignIn(); got != tt.want {
			t.Errorf("CanSignIn(%+v) = %v, want %v", tt.user, got, tt.want)
		}
	}
}
