package auth

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/redmonkez12/bookdiary-api/internal/httputil"
	"github.com/redmonkez12/bookdiary-api/internal/logging"
	"github.com/redmonkez12/bookdiary-api/internal/metrics"
)

// RateLimiter is satisfied by *ratelimit.Limiter.
type RateLimiter interface {
	CheckIPRateLimitWithPurpose(ctx context.Context, ip, purpose string) (bool, error)
	RecordIPRequestWithPurpose(ctx context.Context, ip, purpose string) error
}

// Handler contains HTTP handlers for authentication endpoints
type Handler struct {
	service     *Service
	rateLimiter RateLimiter
	metrics     *metrics.Metrics
}

func NewHandler(service *Service, rateLimiter RateLimiter, m *metrics.Metrics) *Handler {
	return &Handler{
		service:     service,
		rateLimiter: rateLimiter,
		metrics:     m,
	}
}

// CredentialsRequest is the body of register and login.
type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register handles user registration
// @Summary      Register a new user
// @Description  Create an account and receive an access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body CredentialsRequest true "Registration credentials"
// @Success      201 {object} AuthResult
// @Failure      400 {object} httputil.ErrorResponse "Invalid request or validation error"
// @Failure      409 {object} httputil.ErrorResponse "Username already exists"
// @Failure      429 {object} httputil.ErrorResponse "Too many requests"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /auth/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	if !h.allow(w, r, logger, "register") {
		return
	}

	var req CredentialsRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		logger.Warn("invalid registration request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	logger = logger.WithFields(map[string]any{"username": req.Username})

	result, err := h.service.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrUsernameTaken):
			logger.Warn("registration failed: username already exists")
			httputil.RespondErrorWithCode(w, "username already exists", httputil.CodeUsernameTaken, http.StatusConflict)
		case errors.Is(err, ErrUsernameRequired):
			httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeUsernameRequired, http.StatusBadRequest)
		case errors.Is(err, ErrUsernameTooLong):
			httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeUsernameTooLong, http.StatusBadRequest)
		case errors.Is(err, ErrPasswordRequired):
			httputil.RespondErrorWithCode(w, err.Error(), httputil.CodePasswordRequired, http.StatusBadRequest)
		default:
			logger.Error("registration failed: internal error", "error", err.Error())
			httputil.RespondErrorWithCode(w, "failed to register user", httputil.CodeInternalError, http.StatusInternalServerError)
		}
		return
	}

	logger.Info("user registered successfully", "user_id", result.UserID)

	httputil.RespondJSON(w, result, http.StatusCreated)
}

// Login handles user login
// @Summary      User login
// @Description  Authenticate with username and password and receive an access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body CredentialsRequest true "Login credentials"
// @Success      200 {object} AuthResult
// @Failure      400 {object} httputil.ErrorResponse "Invalid request body"
// @Failure      401 {object} httputil.ErrorResponse "Invalid credentials"
// @Failure      429 {object} httputil.ErrorResponse "Too many requests"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	if !h.allow(w, r, logger, "login") {
		return
	}

	var req CredentialsRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		logger.Warn("invalid login request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	logger = logger.WithFields(map[string]any{"username": req.Username})

	result, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			h.metrics.ObserveLogin("invalid_credentials")
			logger.Warn("login failed: invalid credentials")
			httputil.RespondErrorWithCode(w, "incorrect username or password", httputil.CodeInvalidCredentials, http.StatusUnauthorized)
			return
		}
		h.metrics.ObserveLogin("error")
		logger.Error("login failed: internal error", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to login", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	h.metrics.ObserveLogin("success")
	logger.Info("user logged in successfully", "user_id", result.UserID)

	httputil.RespondJSON(w, result, http.StatusOK)
}

// Logout handles user logout
// @Summary      User logout
// @Description  Revoke the presented access token
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} httputil.MessageResponse
// @Failure      401 {object} httputil.ErrorResponse "Not authenticated"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /auth/logout [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	claims, ok := GetClaimsFromContext(r.Context())
	if !ok {
		RespondAuthError(w, logger, ErrMissingCredentials)
		return
	}

	if err := h.service.Logout(r.Context(), claims); err != nil {
		logger.Error("logout failed: internal error", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to logout", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	logger.Info("user logged out successfully")

	httputil.RespondMessage(w, "logged out", http.StatusOK)
}

// Me returns the authenticated user
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} user.User
// @Failure      401 {object} httputil.ErrorResponse "Not authenticated"
// @Router       /auth/me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	u, ok := GetUserFromContext(r.Context())
	if !ok {
		RespondAuthError(w, logging.GetLoggerFromContext(r.Context()), ErrMissingCredentials)
		return
	}

	httputil.RespondJSON(w, u, http.StatusOK)
}

// allow applies the per-IP limit for purpose. Limiter failures let the
// request through.
func (h *Handler) allow(w http.ResponseWriter, r *http.Request, logger *logging.Logger, purpose string) bool {
	ip := getClientIP(r)

	exceeded, err := h.rateLimiter.CheckIPRateLimitWithPurpose(r.Context(), ip, purpose)
	if err != nil {
		logger.Error("failed to check IP rate limit", "error", err.Error())
		return true
	}
	if exceeded {
		logger.Warn("IP rate limit exceeded", "ip", ip, "purpose", purpose)
		httputil.RespondErrorWithCode(w, "too many requests, please try again later", httputil.CodeTooManyRequests, http.StatusTooManyRequests)
		return false
	}

	if err := h.rateLimiter.RecordIPRequestWithPurpose(r.Context(), ip, purpose); err != nil {
		logger.Error("failed to record IP request", "error", err.Error())
	}

	return true
}

// getClientIP keys rate limits on the connection address. Proxy headers are
// only honoured through middleware.RealIP, which has already rewritten
// RemoteAddr by the time a handler runs.
func getClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
