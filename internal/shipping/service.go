package shipping

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rizkypratama/warungpos/internal/warehouse"
	"github.com/rizkypratama/warungpos/pkg/db"
	"github.com/rizkypratama/warungpos/pkg/db/models"
	"github.com/rizkypratama/warungpos/pkg/enums"
	pkgerrors "github.com/rizkypratama/warungpos/pkg/errors"
	"github.com/rizkypratama/warungpos/pkg/logger"
	"github.com/rizkypratama/warungpos/pkg/types"
)

// ShipmentRepository is the persistence surface the service depends on.
type ShipmentRepository interface {
	WithTx(tx *gorm.DB) ShipmentRepository
	Create(ctx context.Context, shipment *models.Shipment) (*models.Shipment, error)
	FindByCode(ctx context.Context, trackingCode string) (*models.Shipment, error)
	Active(ctx context.Context) ([]models.Shipment, error)
	Save(ctx context.Context, shipment *models.Shipment) (*models.Shipment, error)
	AppendEvent(ctx context.Context, event *models.ShipmentEvent) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// CatalogInvalidator drops cached catalog listings after a delivery restock.
type CatalogInvalidator interface {
	InvalidateCatalog(ctx context.Context)
}

// Service exposes the tracking surface: lookups, supplier callbacks, and
// delivery confirmation with its restock side effect.
type Service interface {
	Track(ctx context.Context, trackingCode string) (*types.ShipmentView, error)
	Active(ctx context.Context) ([]types.ShipmentView, error)
	Receive(ctx context.Context, input ReceiveInput) (*types.ShipmentView, error)
	UpdateStatus(ctx context.Context, trackingCode string, input StatusInput) (*types.ShipmentView, error)
	MarkDelivered(ctx context.Context, trackingCode string) (*types.ShipmentView, error)
}

type service struct {
	repo     ShipmentRepository
	products warehouse.ProductRepository
	tx       txRunner
	catalog  CatalogInvalidator
	logg     *logger.Logger
}

// NewService builds the shipping service backed by the provided stack. The
// catalog invalidator is optional.
func NewService(repo ShipmentRepository, products warehouse.ProductRepository, tx txRunner, catalog CatalogInvalidator, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("shipment repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, products: products, tx: tx, catalog: catalog, logg: logg}, nil
}

// ReceiveInput is the supplier's shipment announcement.
type ReceiveInput struct {
	TrackingCode    string
	ProductSKU      string
	ProductName     string
	Quantity        int
	SupplierName    string
	DistributorName string
	TotalPayment    *int64
	ETA             *time.Time
}

// StatusInput carries a non-terminal status update from the distributor.
type StatusInput struct {
	Status string
	Note   string
}

// Track returns one shipment with its status history newest first.
func (s *service) Track(ctx context.Context, trackingCode string) (*types.ShipmentView, error) {
	shipment, err := s.load(ctx, trackingCode)
	if err != nil {
		return nil, err
	}
	view := toShipmentView(shipment, true)
	return &view, nil
}

// Active lists shipments still in flight.
func (s *service) Active(ctx context.Context) ([]types.ShipmentView, error) {
	shipments, err := s.repo.Active(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list active shipments")
	}
	out := make([]types.ShipmentView, 0, len(shipments))
	for i := range shipments {
		out = append(out, toShipmentView(&shipments[i], false))
	}
	return out, nil
}

// Receive registers an announced shipment in CREATED state.
func (s *service) Receive(ctx context.Context, input ReceiveInput) (*types.ShipmentView, error) {
	input.TrackingCode = strings.TrimSpace(input.TrackingCode)
	input.ProductSKU = strings.TrimSpace(input.ProductSKU)
	if input.TrackingCode == "" || input.ProductSKU == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tracking code and product sku are required")
	}
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	shipment := &models.Shipment{
		ID:              uuid.New(),
		TrackingCode:    input.TrackingCode,
		ProductSKU:      input.ProductSKU,
		ProductName:     strings.TrimSpace(input.ProductName),
		Quantity:        input.Quantity,
		SupplierName:    strings.TrimSpace(input.SupplierName),
		DistributorName: strings.TrimSpace(input.DistributorName),
		Status:          enums.ShipmentStatusCreated,
		TotalPayment:    input.TotalPayment,
		ETA:             input.ETA,
		Events: []models.ShipmentEvent{{
			ID:     uuid.New(),
			Status: enums.ShipmentStatusCreated,
		}},
	}

	created, err := s.repo.Create(ctx, shipment)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "tracking code already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create shipment")
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithTrackingCode(ctx, created.TrackingCode), "shipment registered")
	}
	view := toShipmentView(created, false)
	return &view, nil
}

// UpdateStatus applies a distributor callback. Delivery confirmation has its
// own path because of the restock side effect.
func (s *service) UpdateStatus(ctx context.Context, trackingCode string, input StatusInput) (*types.ShipmentView, error) {
	status := enums.ShipmentStatus(strings.ToUpper(strings.TrimSpace(input.Status)))
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown shipment status").
			WithDetails(map[string]any{"status": input.Status})
	}
	if status == enums.ShipmentStatusDelivered {
		return s.MarkDelivered(ctx, trackingCode)
	}

	shipment, err := s.load(ctx, trackingCode)
	if err != nil {
		return nil, err
	}
	if shipment.Status == enums.ShipmentStatusDelivered {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "shipment already delivered")
	}

	shipment.Status = status
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if _, err := txRepo.Save(ctx, shipment); err != nil {
			return err
		}
		return txRepo.AppendEvent(ctx, newEvent(shipment.ID, status, input.Note))
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update shipment status")
	}

	return s.Track(ctx, trackingCode)
}

// MarkDelivered flips a shipment to DELIVERED and restocks its product in the
// same transaction. Re-confirming a delivered shipment conflicts rather than
// double-counting stock.
func (s *service) MarkDelivered(ctx context.Context, trackingCode string) (*types.ShipmentView, error) {
	shipment, err := s.load(ctx, trackingCode)
	if err != nil {
		return nil, err
	}
	if shipment.Status == enums.ShipmentStatusDelivered {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "shipment already delivered")
	}

	shipment.Status = enums.ShipmentStatusDelivered
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		txProducts := s.products.WithTx(tx)

		if _, err := txRepo.Save(ctx, shipment); err != nil {
			return err
		}
		if err := txRepo.AppendEvent(ctx, newEvent(shipment.ID, enums.ShipmentStatusDelivered, "")); err != nil {
			return err
		}

		err := txProducts.AdjustStock(ctx, shipment.ProductSKU, shipment.Quantity)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// first delivery of a product the register has never sold
			_, err = txProducts.Create(ctx, &models.Product{
				SKU:   shipment.ProductSKU,
				Name:  shipment.ProductName,
				Stock: shipment.Quantity,
			})
		}
		return err
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "confirm delivery")
	}

	// the cached catalog still shows pre-restock stock counts
	if s.catalog != nil {
		s.catalog.InvalidateCatalog(ctx)
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithTrackingCode(ctx, shipment.TrackingCode), "shipment delivered, stock replenished")
	}
	return s.Track(ctx, trackingCode)
}

func (s *service) load(ctx context.Context, trackingCode string) (*models.Shipment, error) {
	trackingCode = strings.TrimSpace(trackingCode)
	if trackingCode == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tracking code is required")
	}
	shipment, err := s.repo.FindByCode(ctx, trackingCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "resi tidak ditemukan")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load shipment")
	}
	return shipment, nil
}

func newEvent(shipmentID uuid.UUID, status enums.ShipmentStatus, note string) *models.ShipmentEvent {
	event := &models.ShipmentEvent{
		ID:         uuid.New(),
		ShipmentID: shipmentID,
		Status:     status,
	}
	if note = strings.TrimSpace(note); note != "" {
		event.Note = &note
	}
	return event
}

func toShipmentView(shipment *models.Shipment, withEvents bool) types.ShipmentView {
	view := types.ShipmentView{
		TrackingCode:    shipment.TrackingCode,
		ProductSKU:      shipment.ProductSKU,
		ProductName:     shipment.ProductName,
		Quantity:        shipment.Quantity,
		SupplierName:    shipment.SupplierName,
		DistributorName: shipment.DistributorName,
		Status:          string(shipment.Status),
		TotalPayment:    shipment.TotalPayment,
		ETA:             shipment.ETA,
	}
	if withEvents {
		view.Events = make([]types.ShipmentEventView, 0, len(shipment.Events))
		for _, event := range shipment.Events {
			row := types.ShipmentEventView{
				Status:    string(event.Status),
				CreatedAt: event.CreatedAt,
			}
			if event.Note != nil {
				row.Note = *event.Note
			}
			view.Events = append(view.Events, row)
		}
	}
	return view
}
