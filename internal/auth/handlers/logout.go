package handlers

import (
	"net/http"

	"lifesim-server/internal/shared/cookies"
	"lifesim-server/internal/shared/response"
)

func Logout(w http.ResponseWriter, r *http.Request) {
	cookies.ClearAuthCookie(w)
	response.Success(w, http.StatusOK, map[string]string{"status": "logged_out"})
}
