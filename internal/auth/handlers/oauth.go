package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"lifesim-server/internal/auth"
	"lifesim-server/internal/auth/providers"
	"lifesim-server/internal/shared/cookies"
	"lifesim-server/internal/shared/errors"
	"lifesim-server/internal/shared/response"
)

type OAuthHandler struct {
	provider     providers.OAuthProvider
	authService  *auth.Service
	isConfigured bool
}

func NewOAuthHandler(provider providers.OAuthProvider, authService *auth.Service, isConfigured bool) *OAuthHandler {
	return &OAuthHandler{
		provider:     provider,
		authService:  authService,
		isConfigured: isConfigured,
	}
}

func (h *OAuthHandler) HandleAuth(w http.ResponseWriter, r *http.Request) {
	name := h.provider.Name()
	logger := slog.With("handler", name+"_oauth_init")

	if !h.isConfigured {
		response.Error(w, r, logger, errors.External(fmt.Sprintf("%s OAuth is not properly configured", name)))
		return
	}

	redirectURI := resolveRedirectURI(r.URL.Query().Get("redirect_uri"))

	state, err := auth.GenerateOAuthState(name, r.UserAgent(), redirectURI)
	if err != nil {
		response.Error(w, r, logger, errors.WrapInternal("failed to initialize OAuth flow", err))
		return
	}

	http.Redirect(w, r, h.provider.GetAuthURL(state), http.StatusTemporaryRedirect)
}

func (h *OAuthHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	name := h.provider.Name()
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	errorParam := r.URL.Query().Get("error")

	logger := slog.With(
		"handler", name+"_oauth_callback",
		"ip", r.RemoteAddr,
		"has_code", code != "",
		"has_state", state != "",
	)

	entry, err := auth.ValidateOAuthState(state, name, r.UserAgent())
	if err != nil {
		logger.Warn("OAuth state validation failed", "error", err)
		redirectWithError(w, r, "", "invalid_state")
		return
	}
	redirectURI := entry.RedirectURI

	if errorParam != "" {
		logger.Warn("OAuth authorization denied",
			"oauth_error", errorParam,
			"error_description", r.URL.Query().Get("error_description"))
		redirectWithError(w, r, redirectURI, "oauth_denied")
		return
	}

	if code == "" {
		logger.Error("OAuth callback missing authorization code")
		redirectWithError(w, r, redirectURI, "oauth_error")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	token, err := h.provider.ExchangeCode(ctx, code)
	if err != nil {
		logger.Error("Failed to exchange authorization code", "error", err)
		redirectWithError(w, r, redirectURI, "oauth_error")
		return
	}

	userInfo, err := h.provider.GetUserInfo(ctx, token)
	if err != nil {
		logger.Error("Failed to get user info", "error", err)
		redirectWithError(w, r, redirectURI, "oauth_error")
		return
	}

	p, err := h.authService.LoginWithProvider(ctx, name, userInfo)
	if err != nil {
		logger.Error("Failed to sign in player", "provider_user_id", userInfo.ID, "error", err)
		if errors.GetType(err) == errors.ErrorTypeUnauthorized {
			redirectWithError(w, r, redirectURI, "email_required")
		} else {
			redirectWithError(w, r, redirectURI, "database_error")
		}
		return
	}

	playerLogger := logger.With("player_id", p.ID)

	jwtToken, err := auth.GenerateJWT(p)
	if err != nil {
		playerLogger.Error("Failed to generate JWT token", "error", err)
		redirectWithError(w, r, redirectURI, "auth_error")
		return
	}

	cookies.SetAuthCookie(w, jwtToken)

	playerLogger.Info("OAuth authentication successful",
		"player_username", p.Username,
		"player_role", p.Role)

	http.Redirect(w, r, redirectURI+"/auth/callback?success=true", http.StatusTemporaryRedirect)
}
