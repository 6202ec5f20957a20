package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/togatoga/codevs-reborn/engine"
)

const maxThinkBody = 1 << 20

func NewRouter(session *Session, hub *AnalyticsHub) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	r.Get("/api/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, session.status())
	})

	r.Post("/api/think", func(w http.ResponseWriter, r *http.Request) {
		var req thinkRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxThinkBody)).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		result, err := offlineThink(session.Config(), req)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		session.publish("offline_think", req.Turn, result, 0)
		writeJSON(w, http.StatusOK, newSearchResultDTO(result))
	})

	r.Put("/api/config", func(w http.ResponseWriter, r *http.Request) {
		config := session.Config()
		if err := json.NewDecoder(r.Body).Decode(&config); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		if err := session.UpdateConfig(config); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, session.Config())
	})

	r.Delete("/api/cache", func(w http.ResponseWriter, r *http.Request) {
		cleared := session.ClearCache()
		writeJSON(w, http.StatusOK, map[string]any{
			"cleared": cleared,
			"entries": session.CacheLen(),
		})
	})

	r.Get("/ws/analytics", func(w http.ResponseWriter, r *http.Request) {
		serveAnalyticsWS(hub, session, w, r)
	})
	return r
}

// offlineThink evaluates one position on a throwaway Solver so the live
// caches stay untouched.
func offlineThink(config engine.Config, req thinkRequest) (engine.SearchResult, error) {
	if req.Config != nil {
		config = *req.Config
	}
	if err := config.Validate(); err != nil {
		return engine.SearchResult{}, err
	}
	packs, err := packsFromRequest(req.Packs)
	if err != nil {
		return engine.SearchResult{}, err
	}
	if req.Turn < 0 || req.Turn >= len(packs) {
		return engine.SearchResult{}, errors.New("turn outside the pack feed")
	}
	player, err := req.Player.toGameStatus()
	if err != nil {
		return engine.SearchResult{}, err
	}
	enemy, err := req.Enemy.toGameStatus()
	if err != nil {
		return engine.SearchResult{}, err
	}
	solver := engine.NewSolver(packs, config)
	solver.SetGameStatus(player, enemy)
	return solver.Think(req.Turn), nil
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			log.Debug().
				Str("component", "server").
				Str("request_id", middleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("elapsed", time.Since(start)).
				Msg("request")
		}()
		next.ServeHTTP(ww, r)
	})
}

// Run serves handler on addr until ctx is cancelled, then shuts down
// gracefully.
func Run(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
	}
	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
		close(serverErrCh)
	}()

	log.Info().Str("component", "server").Str("addr", addr).Msg("analytics listening")
	var runErr error
	select {
	case <-ctx.Done():
		log.Info().Str("component", "server").Err(ctx.Err()).Msg("shutdown requested")
	case err, ok := <-serverErrCh:
		if ok {
			runErr = err
			log.Error().Str("component", "server").Err(err).Msg("server error")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Warn().Str("component", "server").Err(err).Msg("graceful shutdown failed")
		if closeErr := srv.Close(); closeErr != nil && !errors.Is(closeErr, http.ErrServerClosed) {
			log.Warn().Str("component", "server").Err(closeErr).Msg("forced close failed")
		}
	}
	return runErr
}

func mustMarshal(v any) json.RawMessage {
	data, _ := json.Marshal(v)
	return data
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
