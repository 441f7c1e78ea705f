package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/agleymelo/daily-diet-api/internal/api/respond"
	"github.com/agleymelo/daily-diet-api/internal/api/validate"
	"github.com/agleymelo/daily-diet-api/internal/auth"
	"github.com/agleymelo/daily-diet-api/internal/model"
	"github.com/agleymelo/daily-diet-api/internal/services"
)

type MealHandler struct {
	svc *services.MealService
	log zerolog.Logger
}

func NewMealHandler(svc *services.MealService, log zerolog.Logger) *MealHandler {
	return &MealHandler{svc: svc, log: log}
}

// Pointers distinguish "absent" from false or empty string.
type createMealRequest struct {
	Name        string  `json:"name" validate:"required,max=120"`
	Description *string `json:"description" validate:"required,max=1000"`
	Date        string  `json:"date" validate:"required,mealdate"`
	IsDiet      *bool   `json:"isDiet" validate:"required"`
}

type updateMealRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=120"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	Date        *string `json:"date" validate:"omitempty,mealdate"`
	IsDiet      *bool   `json:"isDiet"`
}

func (h *MealHandler) CreateMeal(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.UserFrom(r.Context())
	if !ok {
		respond.WriteUnauthorized(w)
		return
	}
	var in createMealRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.WriteBadRequest(w, "invalid json")
		return
	}
	in.Name = strings.TrimSpace(in.Name)
	if err := validate.Struct(in); err != nil {
		respond.WriteBadRequest(w, validate.Message(err))
		return
	}
	date, err := model.ParseMealDate(in.Date)
	if err != nil {
		respond.WriteBadRequest(w, validate.Message(err))
		return
	}

	m, err := h.svc.CreateMeal(r.Context(), u.UserID, model.MealInput{
		Name:        in.Name,
		Description: *in.Description,
		Date:        date,
		IsDiet:      *in.IsDiet,
	})
	if err != nil {
		h.writeServiceError(w, err, "create meal")
		return
	}
	mealsCreatedTotal.Inc()
	w.Header().Set("Location", "/meals/"+m.MealID)
	w.WriteHeader(http.StatusCreated)
}

func (h *MealHandler) ListMeals(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.UserFrom(r.Context())
	if !ok {
		respond.WriteUnauthorized(w)
		return
	}
	meals, err := h.svc.ListMeals(r.Context(), u.UserID)
	if err != nil {
		h.writeServiceError(w, err, "list meals")
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"meals": meals})
}

func (h *MealHandler) GetMeal(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.UserFrom(r.Context())
	if !ok {
		respond.WriteUnauthorized(w)
		return
	}
	m, err := h.svc.GetMeal(r.Context(), u.UserID, mux.Vars(r)["mealId"])
	if err != nil {
		h.writeServiceError(w, err, "get meal")
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"meal": m})
}

func (h *MealHandler) UpdateMeal(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.UserFrom(r.Context())
	if !ok {
		respond.WriteUnauthorized(w)
		return
	}
	var in updateMealRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.WriteBadRequest(w, "invalid json")
		return
	}
	if in.Name != nil {
		trimmed := strings.TrimSpace(*in.Name)
		in.Name = &trimmed
	}
	if err := validate.Struct(in); err != nil {
		respond.WriteBadRequest(w, validate.Message(err))
		return
	}
	upd := model.MealUpdate{Name: in.Name, Description: in.Description, IsDiet: in.IsDiet}
	if in.Date != nil {
		d, err := model.ParseMealDate(*in.Date)
		if err != nil {
			respond.WriteBadRequest(w, validate.Message(err))
			return
		}
		upd.Date = &d
	}

	if _, err := h.svc.UpdateMeal(r.Context(), u.UserID, mux.Vars(r)["mealId"], upd); err != nil {
		h.writeServiceError(w, err, "update meal")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *MealHandler) DeleteMeal(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.UserFrom(r.Context())
	if !ok {
		respond.WriteUnauthorized(w)
		return
	}
	if err := h.svc.DeleteMeal(r.Context(), u.UserID, mux.Vars(r)["mealId"]); err != nil {
		h.writeServiceError(w, err, "delete meal")
		return
	}
	mealsDeletedTotal.Inc()
	w.WriteHeader(http.StatusNoContent)
}

// Metrics handles GET /meals/metrics.
func (h *MealHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.UserFrom(r.Context())
	if !ok {
		respond.WriteUnauthorized(w)
		return
	}
	sum, err := h.svc.Metrics(r.Context(), u.UserID)
	if err != nil {
		h.writeServiceError(w, err, "meal metrics")
		return
	}
	respond.WriteJSON(w, http.StatusOK, sum)
}

func (h *MealHandler) writeServiceError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, model.ErrValidation):
		respond.WriteBadRequest(w, validate.Message(err))
	case errors.Is(err, model.ErrNotFound):
		respond.WriteNotFound(w, "Meal not found")
	default:
		h.log.Error().Stack().Err(err).Str("op", op).Msg("meal request failed")
		respond.WriteInternalError(w, op+" failed")
	}
}
