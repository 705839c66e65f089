package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/vincent-petithory/dataurl"

	"emojibooth/internal/booth"
	"emojibooth/internal/collage"
	"emojibooth/internal/emotion"
	imageprovider "emojibooth/internal/providers/image"
	"emojibooth/internal/session"
	"emojibooth/internal/storage"
	zippkg "emojibooth/pkg/zip"
)

const downloadJPEGQuality = 92

type createSessionRequest struct {
	Image string `json:"image"`
}

// CreateSession accepts the uploaded photo as a data URL and opens a booth
// session around it.
func (a *App) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	du, err := dataurl.DecodeString(strings.TrimSpace(req.Image))
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "image must be a data URL")
		return
	}
	if !strings.HasPrefix(du.ContentType(), "image/") {
		a.error(w, http.StatusBadRequest, "bad_request", "unsupported content type "+du.ContentType())
		return
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(du.Data)); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "image could not be decoded")
		return
	}

	source := imageprovider.SourceImage{Data: du.Data, MIME: du.ContentType()}
	pipeline := booth.New(booth.Options{
		Generator: a.Generator,
		Workers:   a.Workers,
		Logger:    a.Logger,
	})
	sess := session.New(source, pipeline)
	a.Sessions.Put(sess)

	a.Logger.Info().Str("session_id", sess.ID).Int("bytes", len(du.Data)).Msg("booth: session created")
	a.json(w, http.StatusCreated, a.sessionPayload(sess))
}

// Generate kicks off one pipeline run for the session. Runs are serialized
// per session; the generation itself settles in the background with no
// cancellation once issued.
func (a *App) Generate(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.loadSession(w, r)
	if !ok {
		return
	}
	if !sess.BeginRun() {
		a.error(w, http.StatusConflict, "generation_in_progress", "a generation run is already in flight")
		return
	}
	go func() {
		defer sess.FinishRun()
		sess.Pipeline.Run(context.Background(), sess.Source)
		a.Logger.Info().Str("session_id", sess.ID).Msg("booth: generation run settled")
	}()
	a.json(w, http.StatusAccepted, map[string]any{
		"session_id": sess.ID,
		"state":      string(session.StateGenerating),
	})
}

// GetSession reports the session phase and the per-emotion results.
func (a *App) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.loadSession(w, r)
	if !ok {
		return
	}
	a.json(w, http.StatusOK, a.sessionPayload(sess))
}

// Regenerate re-issues a single emotion. Regenerating a label that is
// already pending is a no-op, reported as issued=false.
func (a *App) Regenerate(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.loadSession(w, r)
	if !ok {
		return
	}
	spec, ok := a.loadEmotion(w, r)
	if !ok {
		return
	}
	issued, err := sess.Pipeline.RegenerateAsync(context.Background(), spec.Label)
	switch {
	case errors.Is(err, booth.ErrUnknownLabel):
		a.error(w, http.StatusNotFound, "not_found", "unknown emotion")
		return
	case errors.Is(err, booth.ErrNoSource):
		a.error(w, http.StatusConflict, "not_generated", "run generation before regenerating")
		return
	case err != nil:
		a.error(w, http.StatusInternalServerError, "internal", "failed to regenerate")
		return
	}
	a.json(w, http.StatusAccepted, map[string]any{
		"label":  spec.Label,
		"issued": issued,
	})
}

// Download serves one finished emotion as an attachment named
// emoji-<label>.jpg, transcoding to JPEG when needed.
func (a *App) Download(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.loadSession(w, r)
	if !ok {
		return
	}
	spec, ok := a.loadEmotion(w, r)
	if !ok {
		return
	}
	result, ok := sess.Pipeline.Results().Get(spec.Label)
	if !ok || result.Status != booth.StatusDone {
		a.error(w, http.StatusConflict, "not_ready", "emotion has not finished generating")
		return
	}
	data, err := jpegFromDataURL(result.URL)
	if err != nil {
		a.Logger.Error().Err(err).Str("session_id", sess.ID).Str("label", spec.Label).Msg("booth: download transcode failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to prepare download")
		return
	}
	serveAttachment(w, fmt.Sprintf("emoji-%s.jpg", spec.Label), "image/jpeg", data)
}

// Archive serves every finished emotion as one zip.
func (a *App) Archive(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.loadSession(w, r)
	if !ok {
		return
	}
	album := sess.Pipeline.Results().Album()
	if len(album) == 0 {
		a.error(w, http.StatusConflict, "no_results", "no finished emotions to archive")
		return
	}
	assets := make([]zippkg.Asset, 0, len(album))
	for _, entry := range album {
		data, err := jpegFromDataURL(entry.URL)
		if err != nil {
			a.Logger.Error().Err(err).Str("session_id", sess.ID).Str("label", entry.Label).Msg("booth: archive transcode failed")
			a.error(w, http.StatusInternalServerError, "internal", "failed to prepare archive")
			return
		}
		assets = append(assets, zippkg.Asset{
			Filename: fmt.Sprintf("emoji-%s.jpg", entry.Label),
			Data:     data,
		})
	}
	data, err := zippkg.ArchiveAssets(assets)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to build archive")
		return
	}
	serveAttachment(w, "emoji-collection.zip", "application/zip", data)
}

// Collage composes the album into the single collage artifact. The export
// is only offered once every emotion is done; a partial collage is never
// produced.
func (a *App) Collage(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.loadSession(w, r)
	if !ok {
		return
	}
	results := sess.Pipeline.Results()
	if !results.AllDone() {
		a.error(w, http.StatusConflict, "collage_not_ready", "every emotion must finish before exporting the collage")
		return
	}

	album := results.Album()
	items := make([]collage.Item, len(album))
	for i, entry := range album {
		items[i] = collage.Item{Label: entry.Label, URL: entry.URL}
	}
	artifact, err := a.Composer.ComposeDataURLs(r.Context(), items)
	if err != nil {
		a.Logger.Error().Err(err).Str("session_id", sess.ID).Msg("booth: collage composition failed")
		a.error(w, http.StatusInternalServerError, "collage_failed", "collage could not be composed")
		return
	}
	a.exportCollage(sess, artifact)

	a.json(w, http.StatusOK, map[string]any{
		"filename": "my-emoji-collection.jpg",
		"image":    artifact,
	})
}

// exportCollage archives a copy of the artifact when an export directory is
// configured. Failures are logged, not surfaced: the user already has the
// collage in hand.
func (a *App) exportCollage(sess *session.Session, artifact string) {
	if a.Exports == nil {
		return
	}
	du, err := dataurl.DecodeString(artifact)
	if err != nil {
		a.Logger.Warn().Err(err).Str("session_id", sess.ID).Msg("booth: collage export decode failed")
		return
	}
	key := storage.ExportKey(sess.ID, time.Now())
	if _, err := a.Exports.Write(context.Background(), key, du.Data); err != nil {
		a.Logger.Warn().Err(err).Str("session_id", sess.ID).Str("key", key).Msg("booth: collage export failed")
		return
	}
	a.Logger.Info().Str("session_id", sess.ID).Str("key", key).Msg("booth: collage exported")
}

func (a *App) loadSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id := chi.URLParam(r, "session_id")
	if id == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "session_id required")
		return nil, false
	}
	sess, ok := a.Sessions.Get(id)
	if !ok {
		a.error(w, http.StatusNotFound, "not_found", "session not found or expired")
		return nil, false
	}
	return sess, true
}

func (a *App) loadEmotion(w http.ResponseWriter, r *http.Request) (emotion.Spec, bool) {
	id := chi.URLParam(r, "emotion_id")
	spec, ok := emotion.ByID(id)
	if !ok {
		a.error(w, http.StatusNotFound, "not_found", "unknown emotion")
		return emotion.Spec{}, false
	}
	return spec, true
}

// sessionPayload renders the session with one entry per emotion in
// declaration order. Labels that have never been queued report idle.
func (a *App) sessionPayload(sess *session.Session) map[string]any {
	results := sess.Pipeline.Results()
	items := make([]map[string]any, 0, len(results.Labels()))
	for _, label := range results.Labels() {
		item := map[string]any{"label": label}
		if r, ok := results.Get(label); ok {
			item["status"] = string(r.Status)
			if r.URL != "" {
				item["url"] = r.URL
			}
			if r.Err != "" {
				item["error"] = r.Err
			}
		} else {
			item["status"] = "idle"
		}
		items = append(items, item)
	}
	return map[string]any{
		"session_id": sess.ID,
		"state":      string(sess.State()),
		"created_at": sess.CreatedAt,
		"results":    items,
	}
}

func serveAttachment(w http.ResponseWriter, filename, mime string, data []byte) {
	w.Header().Set("Content-Type", mime)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// jpegFromDataURL returns the image bytes as JPEG, decoding and re-encoding
// only when the source is in another format.
func jpegFromDataURL(s string) ([]byte, error) {
	du, err := dataurl.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decode data url: %w", err)
	}
	if du.ContentType() == "image/jpeg" {
		return du.Data, nil
	}
	img, _, err := image.Decode(bytes.NewReader(du.Data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: downloadJPEGQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
