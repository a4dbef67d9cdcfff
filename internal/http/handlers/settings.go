package handlers

import (
	"net/http"

	"datasetgen/internal/domain"
)

// settingsRequest fields are optional; absent ones keep their value.
type settingsRequest struct {
	Adjustments    *domain.CharacterAdjustments `json:"adjustments"`
	HairLocked     *bool                        `json:"hair_locked"`
	BodyLocked     *bool                        `json:"body_locked"`
	Resolution     *string                      `json:"resolution"`
	ProjectContext *string                      `json:"project_context"`
}

type selectionRequest struct {
	PoseIDs []string `json:"pose_ids"`
}

func (a *App) PutSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if !a.decode(w, r, &req) {
		return
	}
	current := a.Studio.Snapshot().Settings

	res, project := current.Resolution, current.ProjectContext
	if req.Resolution != nil {
		res = domain.Resolution(*req.Resolution)
	}
	if req.ProjectContext != nil {
		project = *req.ProjectContext
	}
	if err := a.Studio.SetOutput(res, project); err != nil {
		a.fail(w, err)
		return
	}
	if req.Adjustments != nil {
		a.Studio.SetAdjustments(*req.Adjustments)
	}
	if req.HairLocked != nil || req.BodyLocked != nil {
		hair, body := current.HairLocked, current.BodyLocked
		if req.HairLocked != nil {
			hair = *req.HairLocked
		}
		if req.BodyLocked != nil {
			body = *req.BodyLocked
		}
		a.Studio.SetLocks(hair, body)
	}
	a.json(w, http.StatusOK, a.Studio.Snapshot().Settings)
}

func (a *App) PutSelection(w http.ResponseWriter, r *http.Request) {
	var req selectionRequest
	if !a.decode(w, r, &req) {
		return
	}
	if err := a.Studio.Select(req.PoseIDs); err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, selectionRequest{PoseIDs: a.Studio.Snapshot().Batch.Selection})
}
