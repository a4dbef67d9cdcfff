package handlers

import (
	"encoding/json"
	"mime"
	"net/http"

	"datasetgen/internal/refimage"
)

type referenceRequest struct {
	DataURI string `json:"data_uri"`
}

// PutReference accepts either raw image bytes or {"data_uri": "..."}.
func (a *App) PutReference(w http.ResponseWriter, r *http.Request) {
	body, ok := a.readBody(w, r)
	if !ok {
		return
	}
	data := body
	if ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); ct == "application/json" {
		var req referenceRequest
		if err := json.Unmarshal(body, &req); err != nil {
			a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
			return
		}
		_, decoded, err := refimage.DecodeDataURI(req.DataURI)
		if err != nil {
			a.error(w, http.StatusBadRequest, "bad_request", err.Error())
			return
		}
		data = decoded
	}

	info, err := a.Studio.SetReference(data)
	if err != nil {
		a.error(w, http.StatusUnprocessableEntity, "invalid_image", err.Error())
		return
	}
	a.json(w, http.StatusOK, info)
}
