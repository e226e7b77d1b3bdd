package pos

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rizkypratama/warungpos/pkg/config"
	"github.com/rizkypratama/warungpos/pkg/db/models"
	"github.com/rizkypratama/warungpos/pkg/enums"
	pkgerrors "github.com/rizkypratama/warungpos/pkg/errors"
	"github.com/rizkypratama/warungpos/pkg/logger"
	"github.com/rizkypratama/warungpos/pkg/metrics"
	"github.com/rizkypratama/warungpos/pkg/money"
	"github.com/rizkypratama/warungpos/pkg/types"
)

// DefaultCustomer labels walk-in sales the way the register always has.
const DefaultCustomer = "umum"

// TransactionRepository is the persistence surface the service depends on.
type TransactionRepository interface {
	WithTx(tx *gorm.DB) TransactionRepository
	Create(ctx context.Context, trx *models.Transaction) (*models.Transaction, error)
	Find(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
	Save(ctx context.Context, trx *models.Transaction) (*models.Transaction, error)
	FindItem(ctx context.Context, transactionID uuid.UUID, sku string) (*models.TransactionItem, error)
	CreateItem(ctx context.Context, item *models.TransactionItem) (*models.TransactionItem, error)
	SaveItem(ctx context.Context, item *models.TransactionItem) (*models.TransactionItem, error)
	DeleteItem(ctx context.Context, transactionID uuid.UUID, sku string) error
	List(ctx context.Context, status *enums.TransactionStatus, q string, limit int) ([]models.Transaction, error)
}

// ProductStore is the slice of the warehouse the register needs.
type ProductStore interface {
	WithTx(tx *gorm.DB) ProductStore
	Get(ctx context.Context, sku string) (*models.Product, error)
	GetMany(ctx context.Context, skus []string) ([]models.Product, error)
	AdjustStock(ctx context.Context, sku string, delta int) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// CatalogInvalidator drops cached catalog listings after settlement moves
// stock behind the warehouse's back.
type CatalogInvalidator interface {
	InvalidateCatalog(ctx context.Context)
}

// Service drives the transaction lifecycle: open, mutate, settle.
type Service interface {
	Open(ctx context.Context, input OpenInput) (*types.OpenTransactionView, error)
	Get(ctx context.Context, id uuid.UUID) (*types.TransactionView, error)
	AddItem(ctx context.Context, id uuid.UUID, input AddItemInput) (*types.TransactionView, error)
	SetItemQuantity(ctx context.Context, id uuid.UUID, sku string, qty int) (*types.TransactionView, error)
	Pay(ctx context.Context, id uuid.UUID, input PayInput) (*types.SettlementView, error)
	Void(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, input ListInput) ([]SummaryDTO, error)
}

type service struct {
	repo     TransactionRepository
	products ProductStore
	tx       txRunner
	catalog  CatalogInvalidator
	cfg      config.SalesConfig
	logg     *logger.Logger
	sales    *metrics.SalesMetrics
}

// NewService builds the POS service backed by the provided stack. The catalog
// invalidator and metrics are optional.
func NewService(repo TransactionRepository, products ProductStore, tx txRunner, catalog CatalogInvalidator, cfg config.SalesConfig, logg *logger.Logger, sales *metrics.SalesMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("transaction repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product store required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		repo:     repo,
		products: products,
		tx:       tx,
		catalog:  catalog,
		cfg:      cfg,
		logg:     logg,
		sales:    sales,
	}, nil
}

// OpenInput carries the optional header fields for a new transaction.
type OpenInput struct {
	Customer      string
	PaymentMethod string
}

// AddItemInput appends-or-merges one cart line.
type AddItemInput struct {
	SKU           string
	Qty           int
	PriceOverride *int64
}

// PayInput settles a transaction.
type PayInput struct {
	PaymentMethod  string
	AmountTendered int64
}

// ListInput filters the recent-transactions listing.
type ListInput struct {
	Status string
	Q      string
	Limit  int
}

// SummaryDTO is one row of the recent-transactions listing.
type SummaryDTO struct {
	ID            string `json:"id"`
	Customer      string `json:"customer"`
	PaymentMethod string `json:"paymentMethod"`
	Status        string `json:"status"`
	TotalAmount   int64  `json:"totalAmount"`
	ItemCount     int    `json:"itemCount"`
	CreatedAt     string `json:"createdAt"`
}

// Open creates a fresh OPEN transaction and returns its handle.
func (s *service) Open(ctx context.Context, input OpenInput) (*types.OpenTransactionView, error) {
	customer := strings.TrimSpace(input.Customer)
	if customer == "" {
		customer = DefaultCustomer
	}

	trx := &models.Transaction{
		ID:            uuid.New(),
		Customer:      customer,
		PaymentMethod: enums.NormalizePaymentMethod(input.PaymentMethod),
		Status:        enums.TransactionStatusOpen,
	}
	created, err := s.repo.Create(ctx, trx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create transaction")
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithTransactionID(ctx, created.ID.String()), "transaction opened")
	}
	return &types.OpenTransactionView{TransactionID: created.ID.String()}, nil
}

// Get returns the canonical snapshot for one transaction.
func (s *service) Get(ctx context.Context, id uuid.UUID) (*types.TransactionView, error) {
	trx, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.buildView(ctx, trx)
}

// AddItem appends-or-merges a cart line on an OPEN transaction.
func (s *service) AddItem(ctx context.Context, id uuid.UUID, input AddItemInput) (*types.TransactionView, error) {
	input.SKU = strings.TrimSpace(input.SKU)
	if input.SKU == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku is required")
	}
	if input.Qty < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "qty must be a positive integer")
	}
	if input.PriceOverride != nil && *input.PriceOverride < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price override must be non-negative")
	}

	trx, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireOpen(trx); err != nil {
		return nil, err
	}

	product, err := s.products.Get(ctx, input.SKU)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "barang tidak ditemukan")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	price := product.SellPrice
	if input.PriceOverride != nil {
		price = *input.PriceOverride
	}

	existing, err := s.repo.FindItem(ctx, trx.ID, input.SKU)
	switch {
	case err == nil:
		existing.Quantity += input.Qty
		existing.UnitPrice = price
		existing.LineTotal = money.LineTotal(existing.Quantity, price)
		if _, err := s.repo.SaveItem(ctx, existing); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "merge item")
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		item := &models.TransactionItem{
			ID:            uuid.New(),
			TransactionID: trx.ID,
			ProductSKU:    input.SKU,
			Quantity:      input.Qty,
			UnitPrice:     price,
			LineTotal:     money.LineTotal(input.Qty, price),
		}
		if _, err := s.repo.CreateItem(ctx, item); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append item")
		}
	default:
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find item")
	}

	return s.Get(ctx, id)
}

// SetItemQuantity replaces a line's quantity; zero or less deletes the line.
func (s *service) SetItemQuantity(ctx context.Context, id uuid.UUID, sku string, qty int) (*types.TransactionView, error) {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku is required")
	}

	trx, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireOpen(trx); err != nil {
		return nil, err
	}

	if qty <= 0 {
		if err := s.repo.DeleteItem(ctx, trx.ID, sku); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete item")
		}
		return s.Get(ctx, id)
	}

	item, err := s.repo.FindItem(ctx, trx.ID, sku)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item tidak ditemukan")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find item")
	}

	item.Quantity = qty
	item.LineTotal = money.LineTotal(qty, item.UnitPrice)
	if _, err := s.repo.SaveItem(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update item")
	}

	return s.Get(ctx, id)
}

// Pay settles an OPEN transaction: validates stock for every line and the
// tendered amount, then decrements stock and flips status atomically.
func (s *service) Pay(ctx context.Context, id uuid.UUID, input PayInput) (*types.SettlementView, error) {
	if input.AmountTendered < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "jumlah bayar must be non-negative")
	}

	trx, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireOpen(trx); err != nil {
		return nil, err
	}
	if len(trx.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeEmptyCart, "keranjang kosong")
	}

	productsBySKU, err := s.loadProducts(ctx, trx.Items)
	if err != nil {
		return nil, err
	}

	var shortages []types.StockShortage
	for _, item := range trx.Items {
		product, ok := productsBySKU[item.ProductSKU]
		stock := 0
		if ok {
			stock = product.Stock
		}
		if item.Quantity > stock {
			shortages = append(shortages, types.StockShortage{
				SKU:   item.ProductSKU,
				Stock: stock,
				Need:  item.Quantity,
			})
		}
	}
	if len(shortages) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInsufficientStock, "stok_kurang").WithDetails(shortages)
	}

	var subtotal int64
	for _, item := range trx.Items {
		subtotal += item.LineTotal
	}
	ppn := money.Tax(subtotal, s.cfg.TaxRatePercent)
	total := subtotal + ppn

	if input.AmountTendered < total {
		return nil, pkgerrors.New(pkgerrors.CodeInsufficientPayment, "bayar_kurang").
			WithDetails(map[string]any{"total": total})
	}

	change := money.Change(input.AmountTendered, total)
	method := trx.PaymentMethod
	if strings.TrimSpace(input.PaymentMethod) != "" {
		method = enums.NormalizePaymentMethod(input.PaymentMethod)
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		txProducts := s.products.WithTx(tx)

		for _, item := range trx.Items {
			if err := txProducts.AdjustStock(ctx, item.ProductSKU, -item.Quantity); err != nil {
				return fmt.Errorf("decrement stock for %s: %w", item.ProductSKU, err)
			}
		}

		tendered := input.AmountTendered
		trx.Status = enums.TransactionStatusPaid
		trx.PaymentMethod = method
		trx.TotalAmount = total
		trx.AmountTendered = &tendered
		trx.ChangeGiven = &change
		_, err := txRepo.Save(ctx, trx)
		return err
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "settle transaction")
	}

	// the cached catalog still shows pre-sale stock counts
	if s.catalog != nil {
		s.catalog.InvalidateCatalog(ctx)
	}

	s.sales.ObservePaid(string(method), total)
	if s.logg != nil {
		s.logg.Info(s.logg.WithTransactionID(ctx, trx.ID.String()), "transaction paid")
	}

	return &types.SettlementView{
		Subtotal: subtotal,
		PPN:      ppn,
		Total:    total,
		Change:   change,
	}, nil
}

// Void flips an OPEN transaction to VOID. Stock is untouched because it is
// only decremented at pay time.
func (s *service) Void(ctx context.Context, id uuid.UUID) error {
	trx, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := requireOpen(trx); err != nil {
		return err
	}

	trx.Status = enums.TransactionStatusVoid
	if _, err := s.repo.Save(ctx, trx); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "void transaction")
	}

	s.sales.ObserveVoided()
	if s.logg != nil {
		s.logg.Info(s.logg.WithTransactionID(ctx, trx.ID.String()), "transaction voided")
	}
	return nil
}

// List returns recent transactions newest first.
func (s *service) List(ctx context.Context, input ListInput) ([]SummaryDTO, error) {
	limit := input.Limit
	if limit <= 0 || limit > s.cfg.ListLimit {
		limit = s.cfg.ListLimit
	}

	var status *enums.TransactionStatus
	if parsed, ok := enums.ParseTransactionStatus(input.Status); ok {
		status = &parsed
	}

	trxs, err := s.repo.List(ctx, status, strings.ToLower(strings.TrimSpace(input.Q)), limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list transactions")
	}

	out := make([]SummaryDTO, 0, len(trxs))
	for _, trx := range trxs {
		out = append(out, SummaryDTO{
			ID:            trx.ID.String(),
			Customer:      trx.Customer,
			PaymentMethod: string(trx.PaymentMethod),
			Status:        string(trx.Status),
			TotalAmount:   trx.TotalAmount,
			ItemCount:     len(trx.Items),
			CreatedAt:     trx.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return out, nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction id is required")
	}
	trx, err := s.repo.Find(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "transaksi tidak ditemukan")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load transaction")
	}
	return trx, nil
}

func (s *service) loadProducts(ctx context.Context, items []models.TransactionItem) (map[string]*models.Product, error) {
	skus := make([]string, 0, len(items))
	for _, item := range items {
		skus = append(skus, item.ProductSKU)
	}
	products, err := s.products.GetMany(ctx, skus)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load products")
	}
	bySKU := make(map[string]*models.Product, len(products))
	for i := range products {
		bySKU[products[i].SKU] = &products[i]
	}
	return bySKU, nil
}

func (s *service) buildView(ctx context.Context, trx *models.Transaction) (*types.TransactionView, error) {
	productsBySKU, err := s.loadProducts(ctx, trx.Items)
	if err != nil {
		return nil, err
	}

	view := &types.TransactionView{
		ID: trx.ID.String(),
		Header: types.TransactionHeaderView{
			Customer:      trx.Customer,
			PaymentMethod: string(trx.PaymentMethod),
			Status:        string(trx.Status),
			CreatedAt:     trx.CreatedAt,
		},
		Items: make([]types.LineItemView, 0, len(trx.Items)),
	}

	var subtotal int64
	for _, item := range trx.Items {
		name := item.ProductSKU
		stock := 0
		if product, ok := productsBySKU[item.ProductSKU]; ok {
			name = product.Name
			stock = product.Stock
		}
		view.Items = append(view.Items, types.LineItemView{
			SKU:       item.ProductSKU,
			Nama:      name,
			Harga:     item.UnitPrice,
			Qty:       item.Quantity,
			LineTotal: item.LineTotal,
			Stock:     stock,
		})
		subtotal += item.LineTotal
	}

	view.Calc.Subtotal = subtotal
	view.Calc.PPN = money.Tax(subtotal, s.cfg.TaxRatePercent)
	view.Calc.Total = subtotal + view.Calc.PPN
	return view, nil
}

func requireOpen(trx *models.Transaction) error {
	if trx.Status != enums.TransactionStatusOpen {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "transaksi sudah ditutup").
			WithDetails(map[string]any{"status": string(trx.Status)})
	}
	return nil
}
