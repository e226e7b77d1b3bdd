package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rizkypratama/warungpos/api/responses"
	"github.com/rizkypratama/warungpos/api/validators"
	"github.com/rizkypratama/warungpos/internal/pos"
	pkgerrors "github.com/rizkypratama/warungpos/pkg/errors"
	"github.com/rizkypratama/warungpos/pkg/logger"
)

type openTransactionPayload struct {
	Customer      string `json:"customer" validate:"omitempty,max=120"`
	PaymentMethod string `json:"paymentMethod" validate:"omitempty,oneof=cash qris card"`
}

type addItemPayload struct {
	SKU           string `json:"sku" validate:"required,max=64"`
	Qty           int    `json:"qty" validate:"required,min=1"`
	PriceOverride *int64 `json:"priceOverride" validate:"omitempty,min=0"`
}

type setItemQtyPayload struct {
	Qty *int `json:"qty" validate:"required,min=0"`
}

type payPayload struct {
	PaymentMethod  string `json:"paymentMethod" validate:"omitempty,oneof=cash qris card"`
	AmountTendered int64  `json:"amountTendered" validate:"min=0"`
}

// OpenTransaction creates a fresh OPEN transaction.
func OpenTransaction(svc pos.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload openTransactionPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		view, err := svc.Open(ctx, pos.OpenInput{
			Customer:      payload.Customer,
			PaymentMethod: payload.PaymentMethod,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

// GetTransaction returns the canonical transaction snapshot.
func GetTransaction(svc pos.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := transactionID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		view, err := svc.Get(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// AddTransactionItem appends-or-merges one cart line.
func AddTransactionItem(svc pos.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := transactionID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload addItemPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		view, err := svc.AddItem(ctx, id, pos.AddItemInput{
			SKU:           payload.SKU,
			Qty:           payload.Qty,
			PriceOverride: payload.PriceOverride,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// SetTransactionItemQuantity replaces one line's quantity; zero removes it.
func SetTransactionItemQuantity(svc pos.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := transactionID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		sku := chi.URLParam(r, "sku")

		var payload setItemQtyPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		view, err := svc.SetItemQuantity(ctx, id, sku, *payload.Qty)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// PayTransaction settles the transaction.
func PayTransaction(svc pos.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := transactionID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload payPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		view, err := svc.Pay(ctx, id, pos.PayInput{
			PaymentMethod:  payload.PaymentMethod,
			AmountTendered: payload.AmountTendered,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// VoidTransaction cancels an OPEN transaction.
func VoidTransaction(svc pos.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := transactionID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.Void(ctx, id); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "VOID"})
	}
}

// ListTransactions returns recent transactions newest first.
func ListTransactions(svc pos.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, 200)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		rows, err := svc.List(ctx, pos.ListInput{
			Status: validators.QueryString(r, "status"),
			Q:      validators.QueryString(r, "q"),
			Limit:  limit,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"transactions": rows})
	}
}

func transactionID(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "transactionId")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction id must be a uuid")
	}
	return id, nil
}
