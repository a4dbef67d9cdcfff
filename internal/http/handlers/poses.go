package handlers

import (
	"net/http"

	"datasetgen/internal/domain"
)

type posesResponse struct {
	Poses    []domain.PoseDefinition `json:"poses"`
	Selected []string                `json:"selected"`
}

func (a *App) ListPoses(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, posesResponse{
		Poses:    a.Catalog.Poses(),
		Selected: a.Studio.Snapshot().Batch.Selection,
	})
}
