package auth

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/paintstock/paintstock/internal/platform/httpx"
)

// Handler wires HTTP endpoints for account flows.
type Handler struct {
	logger      *slog.Logger
	service     *Service
	loginPerMin int
}

// NewHandler constructs a Handler instance. loginPerMinute caps login and
// signup attempts per client IP; zero disables the limit.
func NewHandler(logger *slog.Logger, service *Service, loginPerMinute int) *Handler {
	return &Handler{logger: logger, service: service, loginPerMin: loginPerMinute}
}

// MountRoutes registers auth routes on provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Group(func(gr chi.Router) {
			if h.loginPerMin > 0 {
				gr.Use(httprate.Limit(h.loginPerMin, time.Minute,
					httprate.WithKeyFuncs(httprate.KeyByIP),
					httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
						httpx.Problem(w, http.StatusTooManyRequests, "Too Many Requests", "too many login attempts")
					}),
				))
			}
			gr.Post("/signup", h.handleSignup)
			gr.Post("/login", h.handleLogin)
		})
		r.Post("/logout", h.handleLogout)
		r.Get("/me", h.handleMe)
	})
}

func (h *Handler) handleSignup(w http.ResponseWriter, r *http.Request) {
	var in SignupInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	account, err := h.service.Signup(r.Context(), in)
	if err != nil {
		httpx.Fail(w, h.logger, "signup", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, account)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in LoginInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	session, err := h.service.Login(r.Context(), in)
	if err != nil {
		httpx.Fail(w, h.logger, "login", err)
		return
	}
	httpx.JSON(w, http.StatusOK, session)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Logout(r.Context()); err != nil {
		httpx.Fail(w, h.logger, "logout", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	account, err := h.service.Current(r.Context())
	if err != nil {
		httpx.Fail(w, h.logger, "current account", err)
		return
	}
	httpx.JSON(w, http.StatusOK, account)
}
