package adaptor

import (
	"net/http"
	"time"

	"movie-reservation/internal/data/entity"
	"movie-reservation/internal/dto/request"
	"movie-reservation/internal/dto/response"
	"movie-reservation/internal/usecase"
	"movie-reservation/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ScreeningHandler struct {
	service usecase.ScreeningService
	log     *zap.Logger
}

func NewScreeningHandler(service usecase.ScreeningService, log *zap.Logger) *ScreeningHandler {
	return &ScreeningHandler{
		service: service,
		log:     log.With(zap.String("handler", "screening")),
	}
}

func parseScreeningFilter(r *http.Request) (entity.ScreeningFilter, map[string]string) {
	query := r.URL.Query()
	var (
		filter entity.ScreeningFilter
		errs   = make(map[string]string)
	)

	if date := query.Get("date"); date != "" {
		if _, err := time.Parse(time.DateOnly, date); err != nil {
			errs["date"] = "Must match layout 2006-01-02"
		} else {
			filter.Date = &date
		}
	}

	var err error
	if filter.MovieID, err = utils.OptionalInt64(query.Get("movie_id")); err != nil {
		errs["movie_id"] = "Must be a number"
	}
	if filter.MinPrice, err = utils.OptionalInt(query.Get("min_price")); err != nil {
		errs["min_price"] = "Must be a number"
	}
	if filter.MaxPrice, err = utils.OptionalInt(query.Get("max_price")); err != nil {
		errs["max_price"] = "Must be a number"
	}
	return filter, errs
}

// GetScreenings handles GET /api/screenings?date=&movie_id=&min_price=&max_price=
func (h *ScreeningHandler) GetScreenings(w http.ResponseWriter, r *http.Request) {
	filter, errs := parseScreeningFilter(r)
	if len(errs) > 0 {
		utils.ResponseBadRequest(w, "Invalid filter", errs)
		return
	}

	screenings, err := h.service.GetScreenings(r.Context(), filter)
	if err != nil {
		handleServiceError(w, h.log, err, "get screenings")
		return
	}

	utils.ResponseSuccess(w, "success", response.ScreeningsToResponse(screenings))
}

// GetScreening handles GET /api/screenings/{id}
func (h *ScreeningHandler) GetScreening(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, chi.URLParam(r, "id"), "screening")
	if !ok {
		return
	}

	screening, err := h.service.GetScreeningByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.log, err, "get screening")
		return
	}
	if screening == nil {
		utils.ResponseNotFound(w, "Screening not found")
		return
	}

	utils.ResponseSuccess(w, "success", response.ScreeningToResponse(screening))
}

// ==================== ADMIN ====================

// CreateScreening handles POST /api/admin/screenings
func (h *ScreeningHandler) CreateScreening(w http.ResponseWriter, r *http.Request) {
	var req request.ScreeningRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	screening, err := h.service.AddScreening(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create screening")
		return
	}

	utils.ResponseCreated(w, "Screening created successfully", response.ScreeningToResponse(screening))
}

// UpdateScreening handles PUT /api/admin/screenings/{id}
func (h *ScreeningHandler) UpdateScreening(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, chi.URLParam(r, "id"), "screening")
	if !ok {
		return
	}

	var req request.ScreeningRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	current, err := h.service.GetScreeningByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.log, err, "update screening")
		return
	}
	if current == nil {
		utils.ResponseNotFound(w, "Screening not found")
		return
	}

	if current.MovieID != req.MovieID {
		current.Movie = nil
	}
	current.MovieID = req.MovieID
	current.Date = req.Date
	current.Time = req.Time
	current.Hall = req.Hall
	current.Price = req.Price
	current.AvailableSeats = req.AvailableSeats

	if err := h.service.UpdateScreening(r.Context(), current); err != nil {
		handleServiceError(w, h.log, err, "update screening")
		return
	}

	utils.ResponseSuccess(w, "Screening updated successfully", response.ScreeningToResponse(current))
}

// DeleteScreening handles DELETE /api/admin/screenings/{id}
func (h *ScreeningHandler) DeleteScreening(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, chi.URLParam(r, "id"), "screening")
	if !ok {
		return
	}

	deleted, err := h.service.DeleteScreening(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.log, err, "delete screening")
		return
	}
	if !deleted {
		utils.ResponseNotFound(w, "Screening not found")
		return
	}

	utils.ResponseSuccess(w, "Screening deleted successfully", nil)
}

// GenerateScreenings handles POST /api/admin/screenings/generate
func (h *ScreeningHandler) GenerateScreenings(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Bootstrap(r.Context()); err != nil {
		handleServiceError(w, h.log, err, "generate screenings")
		return
	}

	screenings, err := h.service.GetScreenings(r.Context(), entity.ScreeningFilter{})
	if err != nil {
		handleServiceError(w, h.log, err, "generate screenings")
		return
	}

	h.log.Info("Schedule regenerated", zap.Int("count", len(screenings)))
	utils.ResponseCreated(w, "Screenings generated successfully", response.ScreeningsToResponse(screenings))
}
