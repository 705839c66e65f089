package handlers

import (
	"encoding/json"
	"net/http"

	"emojibooth/internal/collage"
	"emojibooth/internal/infra"
	imageprovider "emojibooth/internal/providers/image"
	"emojibooth/internal/session"
	"emojibooth/internal/storage"
)

// App is the handler container: everything the booth endpoints need, wired
// once at startup.
type App struct {
	Logger    infra.Logger
	Sessions  *session.Store
	Generator imageprovider.Generator
	Composer  *collage.Compositor
	Workers   int
	Exports   *storage.FileStore
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, status int, code, message string) {
	a.json(w, status, map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
}
