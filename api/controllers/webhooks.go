package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rizkypratama/warungpos/api/responses"
	"github.com/rizkypratama/warungpos/api/validators"
	"github.com/rizkypratama/warungpos/internal/shipping"
	"github.com/rizkypratama/warungpos/pkg/logger"
)

type supplierShipmentPayload struct {
	TrackingCode    string     `json:"trackingCode" validate:"required,max=64"`
	ProductSKU      string     `json:"productSku" validate:"required,max=64"`
	ProductName     string     `json:"productName" validate:"omitempty,max=160"`
	Quantity        int        `json:"quantity" validate:"required,min=1"`
	SupplierName    string     `json:"supplierName" validate:"omitempty,max=160"`
	DistributorName string     `json:"distributorName" validate:"omitempty,max=160"`
	TotalPayment    *int64     `json:"totalPayment" validate:"omitempty,min=0"`
	ETA             *time.Time `json:"eta"`
}

type shipmentStatusPayload struct {
	Status string `json:"status" validate:"required,max=32"`
	Note   string `json:"note" validate:"omitempty,max=500"`
}

// SupplierShipmentReceived registers an announced shipment from a supplier.
func SupplierShipmentReceived(svc shipping.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload supplierShipmentPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		view, err := svc.Receive(ctx, shipping.ReceiveInput{
			TrackingCode:    payload.TrackingCode,
			ProductSKU:      payload.ProductSKU,
			ProductName:     payload.ProductName,
			Quantity:        payload.Quantity,
			SupplierName:    payload.SupplierName,
			DistributorName: payload.DistributorName,
			TotalPayment:    payload.TotalPayment,
			ETA:             payload.ETA,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

// SupplierShipmentStatus applies a distributor status callback.
func SupplierShipmentStatus(svc shipping.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload shipmentStatusPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		view, err := svc.UpdateStatus(ctx, chi.URLParam(r, "trackingCode"), shipping.StatusInput{
			Status: payload.Status,
			Note:   payload.Note,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}
