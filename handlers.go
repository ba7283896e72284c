package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"karaoke-lyrics-go/cache"
	"karaoke-lyrics-go/engine"
	"karaoke-lyrics-go/logcolors"
	"karaoke-lyrics-go/lyrics"
	"karaoke-lyrics-go/preview"
	"karaoke-lyrics-go/session"
	"karaoke-lyrics-go/stats"
	"karaoke-lyrics-go/style"
	"karaoke-lyrics-go/utils"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// maxBodyBytes bounds request bodies; TTML files with word timing for a
// long song stay well below it.
const maxBodyBytes = 4 << 20

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// writeParseError maps parseDocument errors onto status codes.
func writeParseError(resp *APIResponse, err error) {
	var pe *parseError
	switch {
	case errors.As(err, &pe):
		resp.Error(http.StatusUnprocessableEntity, pe.Error())
	case errors.Is(err, errEmptyContent), errors.Is(err, errBothContents), errors.Is(err, errInvalidBase64):
		resp.Error(http.StatusBadRequest, err.Error())
	default:
		log.Errorf("%s Parse request failed: %v", logcolors.LogServer, err)
		resp.Error(http.StatusInternalServerError, "internal error")
	}
}

func helpHandler(w http.ResponseWriter, r *http.Request) {
	Respond(w, r).JSON(map[string]interface{}{
		"name": "karaoke-lyrics-go",
		"endpoints": map[string]string{
			"POST /parse":                       "Parse TTML, LRC or enhanced LRC. Body: {content|contentBase64, filename?, format?}",
			"POST /sessions":                    "Parse and start a playback session. Body adds {preset?, style?}",
			"GET /sessions/{id}":                "Session document and configuration",
			"DELETE /sessions/{id}":             "End a session",
			"GET /sessions/{id}/state?t=ms":     "Line states and scroll offset at t",
			"GET /sessions/{id}/characters?t=ms": "Per-character progress, colour and transform (line=i optional)",
			"PUT /sessions/{id}/config":         "Replace the style (JSON body over ?preset=)",
			"GET /sessions/{id}/preview?t=ms":   "Text frame of the lyrics at t",
			"GET /sessions/{id}/stream":         "WebSocket: send {\"t\":ms}, receive state",
			"GET /presets":                      "Style presets, gradient palettes and viewer types",
			"GET /presets/{name}":               "One style preset",
			"GET /health":                       "Health check",
			"GET /stats":                        "Server counters",
			"GET /cache":                        "Document cache summary (API key)",
		},
	})
}

func parseHandler(w http.ResponseWriter, r *http.Request) {
	resp := Respond(w, r)
	var req ParseRequest
	if err := decodeBody(w, r, &req); err != nil {
		resp.Error(http.StatusBadRequest, err.Error())
		return
	}

	doc, format, cacheStatus, err := parseDocument(r.Context(), req)
	if err != nil {
		writeParseError(resp, err)
		return
	}
	resp.SetCacheStatus(cacheStatus).SetFormat(format.String()).JSON(toParseResponse(doc, format))
}

// resolveStyle lays raw JSON over a preset (or base when preset is empty)
// and validates the result.
func resolveStyle(base style.Config, preset string, raw json.RawMessage) (style.Config, error) {
	cfg := base.Clone()
	if preset != "" {
		p, ok := style.Preset(preset)
		if !ok {
			return style.Config{}, fmt.Errorf("unknown preset %q (available: %s)", preset, strings.Join(style.PresetNames(), ", "))
		}
		cfg = p
	}
	if len(raw) > 0 && string(raw) != "null" {
		if err := json.Unmarshal(raw, &cfg); err != nil {
			return style.Config{}, fmt.Errorf("invalid style: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return style.Config{}, fmt.Errorf("invalid style: %w", err)
	}
	return cfg, nil
}

func sessionResponse(s *session.Session) SessionResponse {
	doc := lyrics.Document{Lines: s.Lines(), Metadata: s.Metadata, Warnings: s.Warnings}
	return SessionResponse{ID: s.ID, Document: toParseResponse(doc, s.Format), Config: s.Config()}
}

func createSessionHandler(w http.ResponseWriter, r *http.Request) {
	resp := Respond(w, r)
	var req CreateSessionRequest
	if err := decodeBody(w, r, &req); err != nil {
		resp.Error(http.StatusBadRequest, err.Error())
		return
	}

	cfg, err := resolveStyle(baseStyle, req.Preset, req.Style)
	if err != nil {
		resp.Error(http.StatusBadRequest, err.Error())
		return
	}

	doc, format, cacheStatus, err := parseDocument(r.Context(), req.ParseRequest)
	if err != nil {
		writeParseError(resp, err)
		return
	}

	s := sessions.Create(doc, format, cfg)
	stats.Get().SessionsCreated.Add(1)
	resp.SetCacheStatus(cacheStatus).SetSession(s.ID).SetFormat(format.String()).
		Status(http.StatusCreated, sessionResponse(s))
}

// withSession resolves {id} or answers 404.
func withSession(fn func(w http.ResponseWriter, r *http.Request, s *session.Session)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		s, ok := sessions.Get(id)
		if !ok {
			Respond(w, r).Error(http.StatusNotFound, "session not found")
			return
		}
		fn(w, r, s)
	}
}

// timeParam reads ?t= or answers 400.
func timeParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	t, err := utils.ParseMillis(r.URL.Query().Get("t"))
	if err != nil {
		Respond(w, r).Error(http.StatusBadRequest, err.Error())
		return 0, false
	}
	return t, true
}

func getSessionHandler(w http.ResponseWriter, r *http.Request, s *session.Session) {
	Respond(w, r).SetSession(s.ID).SetFormat(s.Format.String()).JSON(sessionResponse(s))
}

func deleteSessionHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !sessions.Delete(id) {
		Respond(w, r).Error(http.StatusNotFound, "session not found")
		return
	}
	Respond(w, r).SetSession(id).NoContent()
}

// tickSession advances s to t and builds the wire view.
func tickSession(s *session.Session, t int64) StateResponse {
	snap := s.Tick(t)
	stats.Get().Ticks.Add(1)

	out := StateResponse{
		CurrentTimeMs:    snap.State.CurrentTimeMs,
		CurrentLineIndex: snap.State.CurrentLineIndex,
		LineStates:       snap.State.LineStates,
		ScrollOffset:     snap.ScrollOffset,
		ScrollTarget:     snap.ScrollTarget,
		SongProgress:     lyrics.SongProgress(snap.State.Lines, t),
		ActiveSyllable:   -1,
	}
	if line, ok := snap.State.CurrentLine(); ok {
		out.LineProgress = lyrics.LineProgress(line, t)
		out.ActiveSyllable = lyrics.ActiveSyllableIndex(line, t)
	}
	return out
}

func sessionStateHandler(w http.ResponseWriter, r *http.Request, s *session.Session) {
	t, ok := timeParam(w, r)
	if !ok {
		return
	}
	Respond(w, r).SetSession(s.ID).JSON(tickSession(s, t))
}

// characterLine picks the line for the characters endpoint: ?line= when
// given, else the current line, else the next one.
func characterLine(r *http.Request, lines []lyrics.Line, state engine.UiState, t int64) (int, error) {
	if raw := r.URL.Query().Get("line"); raw != "" {
		idx, err := strconv.Atoi(raw)
		if err != nil || idx < 0 || idx >= len(lines) {
			return 0, fmt.Errorf("line must be between 0 and %d", len(lines)-1)
		}
		return idx, nil
	}
	if state.HasCurrentLine() {
		return state.CurrentLineIndex, nil
	}
	return lyrics.NextLineIndex(lines, t), nil
}

func sessionCharactersHandler(w http.ResponseWriter, r *http.Request, s *session.Session) {
	resp := Respond(w, r).SetSession(s.ID)
	t, ok := timeParam(w, r)
	if !ok {
		return
	}

	state := s.Tick(t).State
	stats.Get().Ticks.Add(1)
	lines := state.Lines
	idx, err := characterLine(r, lines, state, t)
	if err != nil {
		resp.Error(http.StatusBadRequest, err.Error())
		return
	}

	out := CharactersResponse{LineIndex: idx, TimeMs: t, Characters: []CharacterView{}}
	if idx < 0 {
		resp.JSON(out)
		return
	}

	cfg := s.Config()
	palette := engine.NewPalette(cfg.Visual)
	line := lines[idx]
	for _, c := range engine.CharacterTimings(line) {
		out.Characters = append(out.Characters, CharacterView{
			CharacterTiming: c,
			Progress:        engine.CharacterProgress(c, t),
			Color:           engine.CharacterColor(c.Start, c.End, t, palette).Hex(),
			Animation:       engine.CalculateCharacterAnimation(c.Start, c.End, t, cfg.Animation),
		})
	}
	if cfg.Visual.EnableGradient {
		out.Gradient = engine.GradientStops(cfg.Visual.GradientMode, lyrics.LineProgress(line, t), palette, cfg.Visual.GradientColors, cfg.Visual.GradientPreset)
	}
	resp.JSON(out)
}

func updateSessionConfigHandler(w http.ResponseWriter, r *http.Request, s *session.Session) {
	resp := Respond(w, r).SetSession(s.ID)

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		resp.Error(http.StatusBadRequest, "unreadable body")
		return
	}

	cfg, err := resolveStyle(s.Config(), r.URL.Query().Get("preset"), json.RawMessage(bytes.TrimSpace(raw)))
	if err != nil {
		resp.Error(http.StatusBadRequest, err.Error())
		return
	}
	s.UpdateConfig(cfg)
	log.Infof("%s Style updated (viewer: %s)", logcolors.Session(s.ID), cfg.Viewer.Type)
	resp.JSON(cfg)
}

func sessionPreviewHandler(w http.ResponseWriter, r *http.Request, s *session.Session) {
	t, ok := timeParam(w, r)
	if !ok {
		return
	}
	state := s.Tick(t).State

	var buf bytes.Buffer
	renderer := preview.New(s.Config(), &buf)
	frame := renderFrame(renderer, s.Metadata, state)
	stats.Get().PreviewsRendered.Add(1)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Session-ID", s.ID)
	io.WriteString(w, frame)
}

// renderFrame stacks header, lyric window and progress bar.
func renderFrame(renderer *preview.Renderer, meta lyrics.Metadata, state engine.UiState) string {
	var parts []string
	if header := renderer.Header(meta); header != "" {
		parts = append(parts, header, "")
	}
	parts = append(parts, renderer.Frame(state), "", renderer.ProgressBar(state.Lines, state.CurrentTimeMs))
	return strings.Join(parts, "\n") + "\n"
}

func listPresetsHandler(w http.ResponseWriter, r *http.Request) {
	viewers := make([]string, 0, len(style.ViewerTypes()))
	for _, v := range style.ViewerTypes() {
		viewers = append(viewers, v.String())
	}
	Respond(w, r).JSON(PresetsResponse{
		Presets:   style.PresetNames(),
		Gradients: style.GradientPaletteNames(),
		Viewers:   viewers,
	})
}

func getPresetHandler(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	cfg, ok := style.Preset(name)
	if !ok {
		Respond(w, r).Error(http.StatusNotFound, fmt.Sprintf("unknown preset %q", name))
		return
	}
	Respond(w, r).JSON(cfg)
}

func getHealthStatus(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	checks := map[string]string{"sessions": strconv.Itoa(sessions.Len())}

	if localCache != nil {
		checks["bolt"] = "ok"
	} else {
		checks["bolt"] = "disabled"
	}
	if sharedCache != nil {
		ctx, cancel := context.WithTimeout(r.Context(), time.Second)
		defer cancel()
		if err := sharedCache.Ping(ctx); err != nil {
			checks["redis"] = "unreachable"
			status = "degraded"
		} else {
			checks["redis"] = "ok"
		}
		checks["redis_breaker"] = redisBreaker.State().String()
	} else {
		checks["redis"] = "disabled"
	}

	Respond(w, r).JSON(map[string]interface{}{
		"status": status,
		"uptime": stats.Get().Uptime().Round(time.Second).String(),
		"checks": checks,
	})
}

func getStats(w http.ResponseWriter, r *http.Request) {
	snap := stats.Get().Snapshot()
	snap["active_sessions"] = sessions.Len()
	if rateLimiter != nil {
		snap["rate_limited_clients"] = rateLimiter.Clients()
	}
	Respond(w, r).JSON(snap)
}

func requireLocalCache(w http.ResponseWriter, r *http.Request) bool {
	if localCache == nil {
		Respond(w, r).Error(http.StatusServiceUnavailable, "document cache is disabled")
		return false
	}
	return true
}

func getCacheDump(w http.ResponseWriter, r *http.Request) {
	if !requireLocalCache(w, r) {
		return
	}
	st := localCache.Stats()
	out := CacheDumpResponse{
		NumberOfKeys: st.Entries,
		SizeInKB:     st.SizeBytes / 1024,
		Entries:      make(map[string]CacheEntrySummary, st.Entries),
	}
	if documentCache != nil {
		out.Tiers = documentCache.HitStats()
	}
	if redisBreaker != nil {
		snap := redisBreaker.Snapshot()
		out.Breaker = &snap
	}
	localCache.Range(func(key string, e cache.Entry) bool {
		out.Entries[key] = CacheEntrySummary{
			StoredAt:   e.StoredAt.Format(time.RFC3339),
			Compressed: e.Compressed,
			SizeBytes:  len(e.Value),
		}
		return true
	})
	Respond(w, r).JSON(out)
}

func backupCache(w http.ResponseWriter, r *http.Request) {
	if !requireLocalCache(w, r) {
		return
	}
	path, err := localCache.Backup()
	if err != nil {
		log.Errorf("%s %v", logcolors.LogCacheBackup, err)
		Respond(w, r).Error(http.StatusInternalServerError, "backup failed")
		return
	}
	Respond(w, r).JSON(map[string]string{"backup": path})
}

func clearCache(w http.ResponseWriter, r *http.Request) {
	if !requireLocalCache(w, r) {
		return
	}
	path, err := localCache.BackupAndClear()
	if err != nil {
		log.Errorf("%s %v", logcolors.LogCacheClear, err)
		Respond(w, r).Error(http.StatusInternalServerError, err.Error())
		return
	}
	Respond(w, r).JSON(map[string]string{"status": "cleared", "backup": path})
}

func listBackups(w http.ResponseWriter, r *http.Request) {
	if !requireLocalCache(w, r) {
		return
	}
	backups, err := localCache.ListBackups()
	if err != nil {
		Respond(w, r).Error(http.StatusInternalServerError, err.Error())
		return
	}
	if backups == nil {
		backups = []cache.BackupInfo{}
	}
	Respond(w, r).JSON(map[string]interface{}{"backups": backups, "count": len(backups)})
}

func restoreCache(w http.ResponseWriter, r *http.Request) {
	if !requireLocalCache(w, r) {
		return
	}
	name := r.URL.Query().Get("file")
	if name == "" {
		Respond(w, r).Error(http.StatusBadRequest, "file query parameter is required")
		return
	}
	if err := localCache.Restore(name); err != nil {
		code := http.StatusBadRequest
		if errors.Is(err, cache.ErrNotFound) {
			code = http.StatusNotFound
		}
		Respond(w, r).Error(code, err.Error())
		return
	}
	Respond(w, r).JSON(map[string]string{"status": "restored", "file": name})
}

func deleteBackup(w http.ResponseWriter, r *http.Request) {
	if !requireLocalCache(w, r) {
		return
	}
	name := mux.Vars(r)["file"]
	if err := localCache.DeleteBackup(name); err != nil {
		code := http.StatusBadRequest
		if errors.Is(err, cache.ErrNotFound) {
			code = http.StatusNotFound
		}
		Respond(w, r).Error(code, err.Error())
		return
	}
	Respond(w, r).NoContent()
}

func getCircuitBreakerStatus(w http.ResponseWriter, r *http.Request) {
	if redisBreaker == nil {
		Respond(w, r).Error(http.StatusNotFound, "no shared cache configured")
		return
	}
	Respond(w, r).JSON(redisBreaker.Snapshot())
}

func resetCircuitBreaker(w http.ResponseWriter, r *http.Request) {
	if redisBreaker == nil {
		Respond(w, r).Error(http.StatusNotFound, "no shared cache configured")
		return
	}
	redisBreaker.Reset()
	Respond(w, r).JSON(redisBreaker.Snapshot())
}
