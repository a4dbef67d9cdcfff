package handlers

import (
	"net/http"
)

type snapshotMessage struct {
	Type  string `json:"type"`
	State any    `json:"state"`
}

func (a *App) StartBatch(w http.ResponseWriter, r *http.Request) {
	if err := a.Studio.Start(); err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

func (a *App) StopBatch(w http.ResponseWriter, r *http.Request) {
	if err := a.Studio.Stop(r.Context()); err != nil {
		a.Logger.Warn().Err(err).Msg("http: stop flag not persisted")
	}
	a.json(w, http.StatusOK, a.Studio.Snapshot().Batch.Task)
}

// GetBatch returns the studio state without image payloads.
func (a *App) GetBatch(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, withoutPayloads(a.Studio.Snapshot()))
}

func (a *App) StreamBatch(w http.ResponseWriter, r *http.Request) {
	a.Hub.ServeWS(w, r, snapshotMessage{Type: "batch.snapshot", State: withoutPayloads(a.Studio.Snapshot())})
}
