package handlers

import (
	"net/http"
	"strings"
)

type credentialsRequest struct {
	APIKey string `json:"api_key"`
}

func (a *App) PutCredentials(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !a.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.APIKey) == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "api_key required")
		return
	}
	if err := a.Credentials.SetGeminiAPIKey(r.Context(), req.APIKey); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	a.Logger.Info().Msg("http: api key updated")
	a.json(w, http.StatusOK, map[string]bool{"authorized": true})
}

func (a *App) DeleteCredentials(w http.ResponseWriter, r *http.Request) {
	a.Credentials.Invalidate()
	w.WriteHeader(http.StatusNoContent)
}
