package wire

import (
	"net/http"

	"movie-reservation/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireReservation(r chi.Router, h *adaptor.ReservationHandler, auth func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(auth)

		r.Get("/api/cart", h.GetCart)
		r.Delete("/api/cart", h.ClearCart)
		r.Post("/api/cart/items", h.AddToCart)
		r.Delete("/api/cart/items/{id}", h.RemoveFromCart)
		r.Post("/api/cart/checkout", h.Checkout)

		r.Get("/api/reservations", h.GetReservations)
		r.Post("/api/reservations", h.Reserve)
		r.Get("/api/reservations/{id}", h.GetReservation)
		r.Post("/api/reservations/{id}/cancel", h.CancelReservation)
		r.Post("/api/reservations/{id}/watch", h.WatchReservation)
		r.Post("/api/reservations/{id}/rate", h.RateReservation)
	})
}
