package adaptor

import (
	"context"
	"net/http"

	"movie-reservation/internal/data/entity"
	"movie-reservation/internal/dto/request"
	"movie-reservation/internal/dto/response"
	"movie-reservation/internal/usecase"
	"movie-reservation/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReservationHandler struct {
	service usecase.ReservationService
	log     *zap.Logger
}

func NewReservationHandler(service usecase.ReservationService, log *zap.Logger) *ReservationHandler {
	return &ReservationHandler{
		service: service,
		log:     log.With(zap.String("handler", "reservation")),
	}
}

// ==================== CART ====================

// GetCart handles GET /api/cart
func (h *ReservationHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	cart, err := h.service.GetCart(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.log, err, "get cart")
		return
	}

	utils.ResponseSuccess(w, "success", response.CartToResponse(cart))
}

// AddToCart handles POST /api/cart/items
func (h *ReservationHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req request.CartItemRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	screeningID, ok := pathUUID(w, req.ScreeningID, "screening")
	if !ok {
		return
	}

	cart, err := h.service.AddToCart(r.Context(), userID, screeningID)
	if err != nil {
		handleServiceError(w, h.log, err, "add to cart")
		return
	}
	if cart == nil {
		utils.ResponseConflict(w, "Screening not found or sold out")
		return
	}

	utils.ResponseSuccess(w, "Cart updated", response.CartToResponse(cart))
}

// RemoveFromCart handles DELETE /api/cart/items/{id}
func (h *ReservationHandler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	itemID, ok := pathUUID(w, chi.URLParam(r, "id"), "cart item")
	if !ok {
		return
	}

	cart, err := h.service.RemoveFromCart(r.Context(), userID, itemID)
	if err != nil {
		handleServiceError(w, h.log, err, "remove from cart")
		return
	}

	utils.ResponseSuccess(w, "Cart updated", response.CartToResponse(cart))
}

// ClearCart handles DELETE /api/cart
func (h *ReservationHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := h.service.ClearCart(r.Context(), userID); err != nil {
		handleServiceError(w, h.log, err, "clear cart")
		return
	}

	utils.ResponseSuccess(w, "Cart cleared", nil)
}

// Checkout handles POST /api/cart/checkout
func (h *ReservationHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	reservations, err := h.service.Checkout(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.log, err, "checkout")
		return
	}

	utils.ResponseCreated(w, "Checkout successful", response.ReservationsToResponse(reservations))
}

// ==================== RESERVATIONS ====================

// Reserve handles POST /api/reservations
func (h *ReservationHandler) Reserve(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req request.ReserveRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	screeningID, ok := pathUUID(w, req.ScreeningID, "screening")
	if !ok {
		return
	}

	res, err := h.service.Reserve(r.Context(), userID, screeningID)
	if err != nil {
		handleServiceError(w, h.log, err, "reserve")
		return
	}
	if res == nil {
		utils.ResponseConflict(w, "Screening not found or sold out")
		return
	}

	utils.ResponseCreated(w, "Reservation created", response.ReservationToResponse(res))
}

// GetReservations handles GET /api/reservations
func (h *ReservationHandler) GetReservations(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	reservations, err := h.service.GetUserReservations(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.log, err, "get reservations")
		return
	}

	utils.ResponseSuccess(w, "success", response.ReservationsToResponse(reservations))
}

// GetReservation handles GET /api/reservations/{id}
func (h *ReservationHandler) GetReservation(w http.ResponseWriter, r *http.Request) {
	res, ok := h.owned(w, r)
	if !ok {
		return
	}
	utils.ResponseSuccess(w, "success", response.ReservationToResponse(res))
}

// CancelReservation handles POST /api/reservations/{id}/cancel
func (h *ReservationHandler) CancelReservation(w http.ResponseWriter, r *http.Request) {
	h.change(w, r, "cancel reservation", "Reservation canceled", h.service.CancelReservation)
}

// WatchReservation handles POST /api/reservations/{id}/watch
func (h *ReservationHandler) WatchReservation(w http.ResponseWriter, r *http.Request) {
	h.change(w, r, "mark reservation watched", "Reservation marked as watched", h.service.MarkAsWatched)
}

// RateReservation handles POST /api/reservations/{id}/rate
func (h *ReservationHandler) RateReservation(w http.ResponseWriter, r *http.Request) {
	var req request.RateReservationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	h.change(w, r, "rate reservation", "Reservation rated", func(ctx context.Context, id uuid.UUID) (*entity.Reservation, error) {
		return h.service.RateReservation(ctx, id, req.Rating, req.ReviewText)
	})
}

func (h *ReservationHandler) change(
	w http.ResponseWriter,
	r *http.Request,
	operation, message string,
	apply func(ctx context.Context, id uuid.UUID) (*entity.Reservation, error),
) {
	current, ok := h.owned(w, r)
	if !ok {
		return
	}

	res, err := apply(r.Context(), current.ID)
	if err != nil {
		handleServiceError(w, h.log, err, operation)
		return
	}
	if res == nil {
		utils.ResponseNotFound(w, "Reservation not found")
		return
	}

	utils.ResponseSuccess(w, message, response.ReservationToResponse(res))
}

// owned loads the reservation in the path and hides reservations of other users.
func (h *ReservationHandler) owned(w http.ResponseWriter, r *http.Request) (*entity.Reservation, bool) {
	userID, ok := currentUser(w, r)
	if !ok {
		return nil, false
	}
	id, ok := pathUUID(w, chi.URLParam(r, "id"), "reservation")
	if !ok {
		return nil, false
	}

	res, err := h.service.GetReservationByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.log, err, "get reservation")
		return nil, false
	}
	if res == nil || res.UserID != userID {
		utils.ResponseNotFound(w, "Reservation not found")
		return nil, false
	}
	return res, true
}
