package server

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dukerupert/choreboard/internal/ai"
	"github.com/dukerupert/choreboard/internal/chore"
	"github.com/dukerupert/choreboard/internal/handler"
	"github.com/dukerupert/choreboard/internal/middleware"
	"github.com/dukerupert/choreboard/internal/planner"
	"github.com/dukerupert/choreboard/internal/push"
	"github.com/dukerupert/choreboard/internal/store"
	ws "github.com/dukerupert/choreboard/internal/websocket"
)

const (
	loginLimit  = 10
	loginWindow = time.Minute
)

// Options are the server settings that do not come from the database.
type Options struct {
	SecureCookies bool

	// Push enables web push routes and reminders when its keys are set.
	Push       push.Config
	RemindHour int
}

type Server struct {
	db           *sql.DB
	hub          *ws.Hub
	userH        *handler.UserHandler
	authH        *handler.AuthHandler
	choreH       *handler.ChoreHandler
	aiH          *handler.AIHandler
	pushH        *handler.PushHandler
	sessionStore *store.SessionStore
	pushStore    *store.PushStore
	reminder     *push.Reminder
	rateLimiter  *middleware.RateLimiter
	reopener     *chore.Reopener
	logger       *slog.Logger
}

func New(db *sql.DB, gen ai.Generator, opts Options, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	userStore := store.NewUserStore(db)
	choreStore := store.NewChoreStore(db)
	sessionStore := store.NewSessionStore(db)

	pushStore := store.NewPushStore(db)

	plan := planner.NewService(gen, choreStore, userStore, logger.With("component", "planner"))

	var pushH *handler.PushHandler
	var reminder *push.Reminder
	if opts.Push.Enabled() {
		svc := push.NewService(opts.Push)
		pushH = handler.NewPushHandler(pushStore, svc, logger.With("component", "push"))
		reminder = push.NewReminder(pushStore, choreStore, svc, opts.RemindHour, logger.With("component", "reminder"))
	}

	return &Server{
		db:           db,
		hub:          hub,
		userH:        handler.NewUserHandler(userStore, hub, logger.With("component", "user")),
		authH:        handler.NewAuthHandler(userStore, sessionStore, opts.SecureCookies, logger.With("component", "auth")),
		choreH:       handler.NewChoreHandler(choreStore, userStore, hub, logger.With("component", "chore")),
		aiH:          handler.NewAIHandler(plan, hub, logger.With("component", "ai")),
		pushH:        pushH,
		sessionStore: sessionStore,
		pushStore:    pushStore,
		reminder:     reminder,
		rateLimiter:  middleware.NewRateLimiter(loginLimit, loginWindow),
		reopener:     chore.NewReopener(choreStore, logger.With("component", "recurring"), publishReopened(hub)),
		logger:       logger,
	}
}

// SessionStore returns the session store for cleanup tasks.
func (s *Server) SessionStore() *store.SessionStore {
	return s.sessionStore
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

// Reopener returns the recurring chore rollover for the scheduler.
func (s *Server) Reopener() *chore.Reopener {
	return s.reopener
}

// PushStore returns the push store for cleanup tasks.
func (s *Server) PushStore() *store.PushStore {
	return s.pushStore
}

// Reminder returns the push reminder job, or nil when push is not configured.
func (s *Server) Reminder() *push.Reminder {
	return s.reminder
}

// Hub returns the websocket hub so shutdown can disconnect clients.
func (s *Server) Hub() *ws.Hub {
	return s.hub
}

func publishReopened(hub *ws.Hub) func(ids []int64) {
	return func(ids []int64) {
		ev := ws.NewEvent(ws.EntityChore, ws.ActionReopened, 0, 0)
		ev.IDs = ids
		hub.Publish(ev)
	}
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes
	outerMux.HandleFunc("GET /health", s.healthHandler)
	outerMux.Handle("GET /metrics", promhttp.Handler())
	outerMux.HandleFunc("GET /api/users", s.userH.List)
	outerMux.HandleFunc("POST /api/users", s.userH.Create)
	outerMux.HandleFunc("POST /api/auth/login", s.rateLimitedHandler(s.authH.Login))
	outerMux.HandleFunc("GET /api/auth/session", s.authH.Session)
	outerMux.HandleFunc("POST /api/auth/logout", s.authH.Logout)

	// Single-route auth used by older web clients
	outerMux.HandleFunc("POST /api/auth", s.rateLimitedHandler(s.authH.Login))
	outerMux.HandleFunc("GET /api/auth", s.authH.Session)
	outerMux.HandleFunc("DELETE /api/auth", s.authH.Logout)

	// Protected routes
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.sessionStore, s.logger.With("component", "auth"))
	outerMux.Handle("/api/", authMiddleware(protectedMux))
	outerMux.Handle("GET /ws", authMiddleware(ws.Handler(s.hub, s.logger.With("component", "websocket"))))

	return middleware.RequestID(middleware.RequestLogger(s.logger.With("component", "http"))(outerMux))
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	mux.HandleFunc("DELETE /api/users/{id}", s.userH.Delete)
	mux.HandleFunc("DELETE /api/users", s.userH.DeleteByQuery)

	mux.HandleFunc("GET /api/chores", s.choreH.List)
	mux.HandleFunc("POST /api/chores", s.choreH.Create)
	mux.HandleFunc("PUT /api/chores/{id}", s.choreH.Update)
	mux.HandleFunc("PUT /api/chores", s.choreH.Update)
	mux.HandleFunc("DELETE /api/chores/{id}", s.choreH.Delete)
	mux.HandleFunc("DELETE /api/chores", s.choreH.DeleteByQuery)

	mux.HandleFunc("POST /api/ai/prioritize", s.aiH.Prioritize)
	mux.HandleFunc("POST /api/ai/reassign", s.aiH.Reassign)
	mux.HandleFunc("POST /api/ai/tips", s.aiH.Tips)

	if s.pushH != nil {
		mux.HandleFunc("GET /api/push/vapid-key", s.pushH.VAPIDKey)
		mux.HandleFunc("GET /api/push/subscriptions", s.pushH.List)
		mux.HandleFunc("POST /api/push/subscriptions", s.pushH.Subscribe)
		mux.HandleFunc("DELETE /api/push/subscriptions", s.pushH.Unsubscribe)
		mux.HandleFunc("POST /api/push/test", s.pushH.Test)
	}
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := s.db.PingContext(r.Context()); err != nil {
		s.logger.Error("health check", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"status":"unavailable"}` + "\n"))
		return
	}
	w.Write([]byte(`{"status":"ok"}` + "\n"))
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	return middleware.RateLimit(s.rateLimiter, middleware.RealIP)(h).ServeHTTP
}
