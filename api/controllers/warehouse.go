package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rizkypratama/warungpos/api/responses"
	"github.com/rizkypratama/warungpos/api/validators"
	"github.com/rizkypratama/warungpos/internal/warehouse"
	"github.com/rizkypratama/warungpos/pkg/logger"
)

type createProductPayload struct {
	SKU           string  `json:"sku" validate:"required,max=64"`
	Name          string  `json:"name" validate:"required,max=160"`
	SellPrice     int64   `json:"sellPrice" validate:"min=0"`
	SupplierPrice int64   `json:"supplierPrice" validate:"min=0"`
	Stock         int     `json:"stock" validate:"min=0"`
	WeightKG      float64 `json:"weightKg" validate:"min=0"`
	SupplierID    *int    `json:"supplierId"`
}

type restockPayload struct {
	SKU       string `json:"sku" validate:"required,max=64"`
	Qty       int    `json:"qty" validate:"required,min=1"`
	SellPrice *int64 `json:"sellPrice" validate:"omitempty,min=0"`
}

type updateProductPayload struct {
	Name          *string  `json:"name" validate:"omitempty,max=160"`
	SellPrice     *int64   `json:"sellPrice" validate:"omitempty,min=0"`
	SupplierPrice *int64   `json:"supplierPrice" validate:"omitempty,min=0"`
	Stock         *int     `json:"stock" validate:"omitempty,min=0"`
	WeightKG      *float64 `json:"weightKg" validate:"omitempty,min=0"`
}

// Catalog lists products, optionally filtered by ?q= substring.
func Catalog(svc warehouse.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		dto, err := svc.Catalog(ctx, validators.QueryString(r, "q"))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// GetProduct loads one product by SKU.
func GetProduct(svc warehouse.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		dto, err := svc.Get(ctx, chi.URLParam(r, "sku"))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// WarehouseStats returns inventory counters.
func WarehouseStats(svc warehouse.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		dto, err := svc.Stats(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// CreateProduct registers a new product.
func CreateProduct(svc warehouse.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload createProductPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		dto, err := svc.Create(ctx, warehouse.CreateInput{
			SKU:           payload.SKU,
			Name:          payload.Name,
			SellPrice:     payload.SellPrice,
			SupplierPrice: payload.SupplierPrice,
			Stock:         payload.Stock,
			WeightKG:      payload.WeightKG,
			SupplierID:    payload.SupplierID,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// RestockProduct increments stock for one SKU.
func RestockProduct(svc warehouse.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload restockPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		dto, err := svc.Restock(ctx, warehouse.RestockInput{
			SKU:       payload.SKU,
			Qty:       payload.Qty,
			SellPrice: payload.SellPrice,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// UpdateProduct patches product fields.
func UpdateProduct(svc warehouse.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload updateProductPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		dto, err := svc.Update(ctx, chi.URLParam(r, "sku"), warehouse.UpdateInput{
			Name:          payload.Name,
			SellPrice:     payload.SellPrice,
			SupplierPrice: payload.SupplierPrice,
			Stock:         payload.Stock,
			WeightKG:      payload.WeightKG,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}
