package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/agleymelo/daily-diet-api/internal/api/respond"
	"github.com/agleymelo/daily-diet-api/internal/api/validate"
	"github.com/agleymelo/daily-diet-api/internal/auth"
	"github.com/agleymelo/daily-diet-api/internal/model"
	"github.com/agleymelo/daily-diet-api/internal/services"
)

type UserHandler struct {
	svc          *services.UserService
	log          zerolog.Logger
	cookieMaxAge time.Duration
	cookieSecure bool
}

func NewUserHandler(svc *services.UserService, log zerolog.Logger, cookieMaxAge time.Duration, cookieSecure bool) *UserHandler {
	return &UserHandler{svc: svc, log: log, cookieMaxAge: cookieMaxAge, cookieSecure: cookieSecure}
}

type registerRequest struct {
	Name  string `json:"name" validate:"required,max=100"`
	Email string `json:"email" validate:"required,email,max=320"`
}

// Register handles POST /users. The caller's sessionId cookie is reused when
// present; the response always sets the cookie the user is bound to.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in registerRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.WriteBadRequest(w, "invalid json")
		return
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if err := validate.Struct(in); err != nil {
		respond.WriteBadRequest(w, validate.Message(err))
		return
	}

	sessionID, _ := auth.ExtractSessionID(r)
	u, err := h.svc.Register(r.Context(), sessionID, in.Name, in.Email)
	if err != nil {
		if errors.Is(err, model.ErrConflict) {
			respond.WriteConflict(w, "User already exists")
			return
		}
		h.log.Error().Stack().Err(err).Msg("register user")
		respond.WriteInternalError(w, "failed to register user")
		return
	}
	usersRegisteredTotal.Inc()
	h.log.Info().Str("user_id", u.UserID).Msg("user registered")

	auth.SetSessionCookie(w, u.SessionID, h.cookieMaxAge, h.cookieSecure)
	w.WriteHeader(http.StatusCreated)
}
