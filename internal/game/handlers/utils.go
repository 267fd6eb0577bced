package handlers

import (
	"encoding/json"
	"net/http"

	"lifesim-server/internal/middleware"
	"lifesim-server/internal/shared/errors"
)

const maxBodyBytes = 1 << 20 // 1 MB

func playerID(r *http.Request) (int, error) {
	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		return 0, errors.Unauthorized("authentication required")
	}
	return claims.PlayerID, nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.WrapValidation("invalid JSON in request body", err)
	}
	return nil
}
