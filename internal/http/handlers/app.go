package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"datasetgen/internal/catalog"
	"datasetgen/internal/domain"
	"datasetgen/internal/http/stream"
	"datasetgen/internal/infra/credentials"
	"datasetgen/internal/studio"
)

const defaultMaxUploadBytes = 20 << 20

type App struct {
	Studio         *studio.Service
	Catalog        *catalog.Catalog
	Credentials    *credentials.Store
	Hub            *stream.Hub
	Logger         zerolog.Logger
	MaxUploadBytes int64
}

func NewApp(svc *studio.Service, cat *catalog.Catalog, creds *credentials.Store, hub *stream.Hub, logger zerolog.Logger) *App {
	return &App{
		Studio:         svc,
		Catalog:        cat,
		Credentials:    creds,
		Hub:            hub,
		Logger:         logger,
		MaxUploadBytes: defaultMaxUploadBytes,
	}
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, kind, message string) {
	a.json(w, code, errorResponse{Error: kind, Message: message})
}

// fail maps domain errors onto HTTP status codes.
func (a *App) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrAuthExpired):
		a.error(w, http.StatusUnauthorized, "auth_expired", err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		a.error(w, http.StatusUnauthorized, "unauthorized", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domain.ErrBatchRunning), errors.Is(err, domain.ErrNotReady):
		a.error(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, domain.ErrUnknownPose), errors.Is(err, domain.ErrInvalidSetting):
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
	default:
		a.Logger.Error().Err(err).Msg("http: request failed")
		a.error(w, http.StatusBadGateway, "upstream", err.Error())
	}
}

func (a *App) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	body := http.MaxBytesReader(w, r.Body, a.maxUpload())
	if err := json.NewDecoder(body).Decode(v); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", fmt.Sprintf("invalid payload: %v", err))
		return false
	}
	return true
}

func (a *App) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, a.maxUpload()))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			a.error(w, http.StatusRequestEntityTooLarge, "too_large", "upload exceeds size limit")
			return nil, false
		}
		a.error(w, http.StatusBadRequest, "bad_request", "could not read body")
		return nil, false
	}
	return data, true
}

func (a *App) maxUpload() int64 {
	if a.MaxUploadBytes <= 0 {
		return defaultMaxUploadBytes
	}
	return a.MaxUploadBytes
}
