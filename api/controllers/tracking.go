package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rizkypratama/warungpos/api/responses"
	"github.com/rizkypratama/warungpos/internal/shipping"
	"github.com/rizkypratama/warungpos/pkg/logger"
)

// ActiveShipments lists shipments still in flight, newest first.
func ActiveShipments(svc shipping.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		views, err := svc.Active(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, views)
	}
}

// TrackShipment returns one shipment with its status history.
func TrackShipment(svc shipping.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		view, err := svc.Track(ctx, chi.URLParam(r, "trackingCode"))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// ConfirmDelivery flips a shipment to DELIVERED and restocks its product.
func ConfirmDelivery(svc shipping.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		view, err := svc.MarkDelivered(ctx, chi.URLParam(r, "trackingCode"))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}
