package handlers

import (
	"net/http"

	"datasetgen/internal/domain"
)

type profileRequest struct {
	Mode   string `json:"mode"`
	Manual string `json:"manual"`
}

type profileResponse struct {
	Profile string `json:"profile"`
}

func (a *App) AnalyzeProfile(w http.ResponseWriter, r *http.Request) {
	text, err := a.Studio.Analyze(r.Context())
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, profileResponse{Profile: text})
}

func (a *App) PutProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if !a.decode(w, r, &req) {
		return
	}
	if err := a.Studio.SetProfile(domain.ProfileMode(req.Mode), req.Manual); err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, a.Studio.Snapshot().Settings)
}
