package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/trip-assistant/internal/conversation"
	"github.com/sells-group/trip-assistant/internal/itinerary"
	"github.com/sells-group/trip-assistant/internal/model"
	"github.com/sells-group/trip-assistant/internal/resilience"
	"github.com/sells-group/trip-assistant/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the chat HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initAssistant(ctx, "serve")
		if err != nil {
			return err
		}
		defer env.Close()

		if sw, ok := env.Store.(store.Sweeper); ok {
			go runSweeper(ctx, sw, sweepInterval(cfg.Store.TTLMinutes))
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           newRouter(env.Controller, env.Breakers, cfg.Server.CORSOrigins),
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// chatService is the part of the controller the HTTP API drives.
type chatService interface {
	Handle(ctx context.Context, sessionID, message string) (conversation.Reply, error)
	Reset(ctx context.Context, sessionID string) error
	Session(ctx context.Context, sessionID string) (*model.Session, error)
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type chatResponse struct {
	SessionID     string            `json:"session_id"`
	Response      string            `json:"response"`
	ExtractedData model.TripProfile `json:"extracted_data"`
	State         model.State       `json:"state"`
	Missing       []string          `json:"missing"`
}

type sessionResponse struct {
	SessionID     string               `json:"session_id"`
	State         model.State          `json:"state"`
	Profile       model.TripProfile    `json:"profile"`
	Confirmed     bool                 `json:"confirmed"`
	HasItinerary  bool                 `json:"has_itinerary"`
	CostBreakdown *model.CostBreakdown `json:"cost_breakdown,omitempty"`
	Messages      int                  `json:"messages"`
}

type handler struct {
	svc      chatService
	breakers *resilience.ServiceBreakers
}

// newRouter builds the chi router for the chat API. breakers may be nil.
func newRouter(svc chatService, breakers *resilience.ServiceBreakers, origins []string) http.Handler {
	h := &handler{svc: svc, breakers: breakers}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", h.health)
	r.Post("/chat", h.chat)
	r.Post("/reset/{sessionID}", h.reset)
	r.Get("/sessions/{sessionID}", h.session)
	r.Get("/sessions/{sessionID}/costs.xlsx", h.costSheet)
	r.Get("/sessions/{sessionID}/trip.ics", h.calendar)
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	body := map[string]any{"status": "ok"}
	if h.breakers != nil {
		circuits := make(map[string]string)
		for name, st := range h.breakers.States() {
			circuits[name] = st.String()
		}
		body["circuits"] = circuits
	}
	writeJSON(w, http.StatusOK, body)
}

func (h *handler) chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}

	reply, err := h.svc.Handle(r.Context(), req.SessionID, req.Message)
	status := http.StatusOK
	if err != nil {
		zap.L().Error("chat turn failed",
			zap.String("session_id", req.SessionID),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err),
		)
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, chatResponse{
		SessionID:     req.SessionID,
		Response:      reply.Response,
		ExtractedData: reply.Profile,
		State:         reply.State,
		Missing:       fieldKeys(reply.Missing),
	})
}

func fieldKeys(fs []model.Field) []string {
	return lo.Map(fs, func(f model.Field, _ int) string { return f.Key() })
}

func (h *handler) reset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	if err := h.svc.Reset(r.Context(), id); err != nil {
		zap.L().Error("reset failed", zap.String("session_id", id), zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, "could not reset the session, please try again later")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset", "session_id": id})
}

func (h *handler) loadSession(w http.ResponseWriter, r *http.Request) (*model.Session, bool) {
	id := chi.URLParam(r, "sessionID")
	s, err := h.svc.Session(r.Context(), id)
	if err != nil {
		zap.L().Error("load session failed", zap.String("session_id", id), zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, "could not load the session, please try again later")
		return nil, false
	}
	return s, true
}

func (h *handler) session(w http.ResponseWriter, r *http.Request) {
	s, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{
		SessionID:     s.ID,
		State:         s.State(),
		Profile:       s.Profile,
		Confirmed:     s.Confirmed,
		HasItinerary:  s.Itinerary != "",
		CostBreakdown: s.CostBreakdown,
		Messages:      len(s.History),
	})
}

func (h *handler) costSheet(w http.ResponseWriter, r *http.Request) {
	s, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	if s.CostBreakdown == nil {
		writeError(w, http.StatusNotFound, "no cost breakdown for this session")
		return
	}

	var buf bytes.Buffer
	if err := itinerary.WriteCostSheet(&buf, s.Profile, *s.CostBreakdown); err != nil {
		zap.L().Error("cost sheet failed", zap.String("session_id", s.ID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not build the cost sheet")
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="trip-costs.xlsx"`)
	_, _ = w.Write(buf.Bytes())
}

func (h *handler) calendar(w http.ResponseWriter, r *http.Request) {
	s, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	if s.Itinerary == "" {
		writeError(w, http.StatusNotFound, "no itinerary for this session")
		return
	}

	var buf bytes.Buffer
	if err := itinerary.WriteCalendar(&buf, s.ID, s.Profile, s.Itinerary, time.Now()); err != nil {
		zap.L().Error("calendar export failed", zap.String("session_id", s.ID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not build the calendar")
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="trip.ics"`)
	_, _ = w.Write(buf.Bytes())
}

func sweepInterval(ttlMinutes int) time.Duration {
	d := time.Duration(ttlMinutes) * time.Minute / 2
	return max(d, time.Minute)
}

// runSweeper deletes expired sessions every interval until ctx is done.
func runSweeper(ctx context.Context, sw store.Sweeper, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := sw.DeleteExpired(ctx)
			if err != nil {
				zap.L().Warn("sweep expired sessions failed", zap.Error(err))
				continue
			}
			if n > 0 {
				zap.L().Info("swept expired sessions", zap.Int("deleted", n))
			}
		}
	}
}
