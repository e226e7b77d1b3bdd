package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/rizkypratama/warungpos/pkg/config"
	pkgerrors "github.com/rizkypratama/warungpos/pkg/errors"
	"github.com/rizkypratama/warungpos/pkg/types"
)

// Client talks to the POS backend over its JSON contract. Error envelopes
// are decoded back into coded errors so the terminal core classifies
// failures exactly as the backend emitted them.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

// New builds a client from the terminal configuration.
func New(cfg config.TerminalConfig) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BackendURL, "/"),
		http:    &http.Client{Timeout: cfg.RequestTimeout},
	}
}

// Login exchanges the operator PIN for a bearer token used on every
// subsequent call.
func (c *Client) Login(ctx context.Context, operator, pin string) error {
	var out struct {
		Token string `json:"token"`
	}
	payload := map[string]string{"operator": operator, "pin": pin}
	if err := c.call(ctx, http.MethodPost, "/api/auth/login", payload, false, &out); err != nil {
		return err
	}
	c.token = out.Token
	return nil
}

// OpenTransaction creates a transaction and returns its handle.
func (c *Client) OpenTransaction(ctx context.Context, customer, paymentMethod string) (string, error) {
	var out types.OpenTransactionView
	payload := map[string]string{"customer": customer, "paymentMethod": paymentMethod}
	if err := c.call(ctx, http.MethodPost, "/api/pos/transactions", payload, true, &out); err != nil {
		return "", err
	}
	return out.TransactionID, nil
}

// GetTransaction fetches the canonical snapshot.
func (c *Client) GetTransaction(ctx context.Context, id string) (*types.TransactionView, error) {
	var out types.TransactionView
	path := "/api/pos/transactions/" + url.PathEscape(id)
	if err := c.call(ctx, http.MethodGet, path, nil, false, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddItem appends-or-merges one cart line.
func (c *Client) AddItem(ctx context.Context, id, sku string, qty int, priceOverride *int64) error {
	payload := map[string]any{"sku": sku, "qty": qty}
	if priceOverride != nil {
		payload["priceOverride"] = *priceOverride
	}
	path := "/api/pos/transactions/" + url.PathEscape(id) + "/items"
	return c.call(ctx, http.MethodPost, path, payload, false, nil)
}

// SetItemQuantity replaces a line's quantity; zero removes it.
func (c *Client) SetItemQuantity(ctx context.Context, id, sku string, qty int) error {
	payload := map[string]int{"qty": qty}
	path := "/api/pos/transactions/" + url.PathEscape(id) + "/items/" + url.PathEscape(sku)
	return c.call(ctx, http.MethodPatch, path, payload, false, nil)
}

// Pay settles the transaction.
func (c *Client) Pay(ctx context.Context, id, paymentMethod string, amountTendered int64) (*types.SettlementView, error) {
	var out types.SettlementView
	payload := map[string]any{"paymentMethod": paymentMethod, "amountTendered": amountTendered}
	path := "/api/pos/transactions/" + url.PathEscape(id) + "/pay"
	if err := c.call(ctx, http.MethodPost, path, payload, true, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Void cancels the transaction.
func (c *Client) Void(ctx context.Context, id string) error {
	path := "/api/pos/transactions/" + url.PathEscape(id) + "/void"
	return c.call(ctx, http.MethodPost, path, map[string]any{}, true, nil)
}

// Catalog lists products matching the query.
func (c *Client) Catalog(ctx context.Context, query string) (*types.CatalogView, error) {
	var out types.CatalogView
	path := "/api/warehouse/catalog"
	if q := strings.TrimSpace(query); q != "" {
		path += "?q=" + url.QueryEscape(q)
	}
	if err := c.call(ctx, http.MethodGet, path, nil, false, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ActiveShipments lists shipments still in flight.
func (c *Client) ActiveShipments(ctx context.Context) ([]types.ShipmentView, error) {
	var out []types.ShipmentView
	if err := c.call(ctx, http.MethodGet, "/api/tracking/active", nil, false, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ShipmentHistory fetches one shipment with its status history.
func (c *Client) ShipmentHistory(ctx context.Context, trackingCode string) (*types.ShipmentView, error) {
	var out types.ShipmentView
	path := "/api/tracking/" + url.PathEscape(trackingCode)
	if err := c.call(ctx, http.MethodGet, path, nil, false, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MarkDelivered confirms delivery, triggering the server-side restock.
func (c *Client) MarkDelivered(ctx context.Context, trackingCode string) (*types.ShipmentView, error) {
	var out types.ShipmentView
	path := "/api/tracking/" + url.PathEscape(trackingCode) + "/delivered"
	if err := c.call(ctx, http.MethodPost, path, map[string]any{}, true, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// call performs one round-trip. idempotent marks mutations that should carry
// an Idempotency-Key so the backend can replay duplicates.
func (c *Client) call(ctx context.Context, method, path string, payload any, idempotent bool, out any) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode request")
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build request")
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if idempotent {
		req.Header.Set("Idempotency-Key", uuid.NewString())
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "backend unreachable")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read response")
	}

	if resp.StatusCode >= 400 {
		return decodeError(resp.StatusCode, raw)
	}

	if out == nil {
		return nil
	}
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil || envelope.Data == nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "malformed response envelope")
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode response")
	}
	return nil
}

// decodeError rebuilds a coded error from the backend's envelope, falling
// back to a status-derived code when the body is not parseable.
func decodeError(status int, raw []byte) error {
	var envelope types.ErrorEnvelope
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error.Code != "" {
		typed := pkgerrors.New(pkgerrors.Code(envelope.Error.Code), envelope.Error.Message)
		if envelope.Error.Details != nil {
			typed = typed.WithDetails(envelope.Error.Details)
		}
		return typed
	}
	return pkgerrors.New(pkgerrors.CodeForStatus(status), fmt.Sprintf("backend returned status %d", status))
}
