package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"flooring/internal/models"
	"flooring/internal/pricing"
	"flooring/internal/util"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// OrderStore persists orders
type OrderStore interface {
	NextOrderNumber() int
	AddOrder(order *models.Order) (*models.Order, error)
	GetOrder(date time.Time, orderNumber int) (*models.Order, error)
	EditOrder(order *models.Order) (*models.Order, error)
	RemoveOrder(date time.Time, orderNumber int) (*models.Order, error)
	GetOrdersForDate(date time.Time) ([]models.Order, error)
	GetAllOrders() (map[time.Time]map[int]models.Order, error)
}

// ProductCatalog looks up products. GetProduct returns nil for unknown types.
type ProductCatalog interface {
	GetProduct(productType string) (*models.Product, error)
	GetAllProducts() ([]models.Product, error)
}

// TaxCatalog looks up state taxes. GetTax returns nil for unknown states.
type TaxCatalog interface {
	GetTax(stateAbbreviation string) (*models.Tax, error)
	GetAllTaxes() ([]models.Tax, error)
}

// Exporter writes every order to a backup file
type Exporter interface {
	Export(allOrders map[time.Time]map[int]models.Order, format string) (int, error)
	Path(format string) string
}

// Auditor records completed changes
type Auditor interface {
	WriteEntry(message string) error
}

// OrderService handles order business logic
type OrderService struct {
	store    OrderStore
	products ProductCatalog
	taxes    TaxCatalog
	exporter Exporter
	auditor  Auditor
	logger   *zap.Logger
	now      func() time.Time
	minArea  decimal.Decimal
}

// Option customises an OrderService
type Option func(*OrderService)

// WithClock sets the clock used to decide which order dates are in the future
func WithClock(now func() time.Time) Option {
	return func(s *OrderService) {
		s.now = now
	}
}

// WithMinArea sets the smallest accepted order area
func WithMinArea(area decimal.Decimal) Option {
	return func(s *OrderService) {
		s.minArea = area
	}
}

// NewOrderService creates a new order service
func NewOrderService(
	store OrderStore,
	products ProductCatalog,
	taxes TaxCatalog,
	exporter Exporter,
	auditor Auditor,
	opts ...Option,
) *OrderService {
	s := &OrderService{
		store:    store,
		products: products,
		taxes:    taxes,
		exporter: exporter,
		auditor:  auditor,
		logger:   util.GetLogger(),
		now:      time.Now,
		minArea:  decimal.NewFromInt(100),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddOrderRequest holds the raw inputs of a new order
type AddOrderRequest struct {
	OrderDate    time.Time
	CustomerName string `validate:"required,customername"`
	State        string `validate:"required,alpha,len=2"`
	ProductType  string `validate:"required"`
	Area         decimal.Decimal
}

// EditOrderRequest holds the fields to change on an order. Empty fields
// keep their current value.
type EditOrderRequest struct {
	CustomerName string `validate:"omitempty,customername"`
	State        string `validate:"omitempty,alpha,len=2"`
	ProductType  string
	Area         *decimal.Decimal
}

// NextOrderNumber returns the number the next added order will receive
func (s *OrderService) NextOrderNumber(ctx context.Context) int {
	_, span := util.StartSpan(ctx, "OrderService.NextOrderNumber")
	defer span.End()

	return s.store.NextOrderNumber()
}

// PreviewOrder validates and prices a new order without saving it
func (s *OrderService) PreviewOrder(ctx context.Context, req *AddOrderRequest) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.PreviewOrder")
	defer span.End()

	order, err := s.buildOrder(ctx, req)
	if err != nil {
		return nil, err
	}

	order.OrderNumber = s.store.NextOrderNumber()
	return order, nil
}

// AddOrder validates, prices and saves a new order
func (s *OrderService) AddOrder(ctx context.Context, req *AddOrderRequest) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.AddOrder")
	defer span.End()

	order, err := s.buildOrder(ctx, req)
	if err != nil {
		util.OrderOperationsFailedTotal.WithLabelValues("add", failureReason(err)).Inc()
		return nil, err
	}

	stored, err := s.store.AddOrder(order)
	if err != nil {
		util.OrderOperationsFailedTotal.WithLabelValues("add", failureReason(err)).Inc()
		return nil, fmt.Errorf("failed to add order: %w", err)
	}

	span.SetAttributes(attribute.Int("order.number", stored.OrderNumber))
	util.OrdersAddedTotal.Inc()
	s.logger.Info("Order added",
		zap.Int("order_number", stored.OrderNumber),
		zap.String("order_date", stored.OrderDate.Format(models.DisplayDateLayout)),
		zap.String("total", stored.Total.StringFixed(2)))

	s.audit(models.OrderAuditMessage(stored.OrderNumber, models.AuditActionAdded))
	return stored, nil
}

// GetOrder retrieves one order
func (s *OrderService) GetOrder(ctx context.Context, date time.Time, orderNumber int) (*models.Order, error) {
	_, span := util.StartSpan(ctx, "OrderService.GetOrder")
	defer span.End()

	return s.store.GetOrder(date, orderNumber)
}

// EditOrder applies req to an existing order, refreshes its catalog rates
// and recomputes its totals before saving it.
func (s *OrderService) EditOrder(ctx context.Context, date time.Time, orderNumber int, req *EditOrderRequest) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.EditOrder")
	defer span.End()
	span.SetAttributes(attribute.Int("order.number", orderNumber))

	edited, err := s.editedOrder(ctx, date, orderNumber, req)
	if err != nil {
		util.OrderOperationsFailedTotal.WithLabelValues("edit", failureReason(err)).Inc()
		return nil, err
	}

	stored, err := s.store.EditOrder(edited)
	if err != nil {
		util.OrderOperationsFailedTotal.WithLabelValues("edit", failureReason(err)).Inc()
		return nil, fmt.Errorf("failed to edit order: %w", err)
	}

	util.OrdersEditedTotal.Inc()
	s.logger.Info("Order edited", zap.Int("order_number", stored.OrderNumber))

	s.audit(models.OrderAuditMessage(stored.OrderNumber, models.AuditActionEdited))
	return stored, nil
}

func (s *OrderService) editedOrder(ctx context.Context, date time.Time, orderNumber int, req *EditOrderRequest) (*models.Order, error) {
	existing, err := s.store.GetOrder(date, orderNumber)
	if err != nil {
		return nil, err
	}

	if err := validate(req); err != nil {
		return nil, err
	}

	edited := *existing
	if req.CustomerName != "" {
		edited.CustomerName = req.CustomerName
	}
	if req.State != "" {
		edited.State = req.State
	}
	if req.ProductType != "" {
		edited.ProductType = req.ProductType
	}
	if req.Area != nil {
		edited.Area = *req.Area
	}

	if err := s.checkArea(edited.Area); err != nil {
		return nil, err
	}
	if err := s.applyCatalog(ctx, &edited); err != nil {
		return nil, err
	}

	pricing.Apply(&edited)
	return &edited, nil
}

// RemoveOrder deletes an order
func (s *OrderService) RemoveOrder(ctx context.Context, date time.Time, orderNumber int) (*models.Order, error) {
	_, span := util.StartSpan(ctx, "OrderService.RemoveOrder")
	defer span.End()
	span.SetAttributes(attribute.Int("order.number", orderNumber))

	removed, err := s.store.RemoveOrder(date, orderNumber)
	if err != nil {
		util.OrderOperationsFailedTotal.WithLabelValues("remove", failureReason(err)).Inc()
		return nil, err
	}

	util.OrdersRemovedTotal.Inc()
	s.logger.Info("Order removed", zap.Int("order_number", orderNumber))

	s.audit(models.OrderAuditMessage(orderNumber, models.AuditActionRemoved))
	return removed, nil
}

// GetOrdersForDate retrieves the orders of one date
func (s *OrderService) GetOrdersForDate(ctx context.Context, date time.Time) ([]models.Order, error) {
	_, span := util.StartSpan(ctx, "OrderService.GetOrdersForDate")
	defer span.End()

	return s.store.GetOrdersForDate(date)
}

// ExportAllData writes every order to the backup file of the given format
// and returns its path and row count
func (s *OrderService) ExportAllData(ctx context.Context, format string) (string, int, error) {
	_, span := util.StartSpan(ctx, "OrderService.ExportAllData")
	defer span.End()

	allOrders, err := s.store.GetAllOrders()
	if err != nil {
		util.OrderOperationsFailedTotal.WithLabelValues("export", failureReason(err)).Inc()
		return "", 0, fmt.Errorf("failed to load orders: %w", err)
	}

	rows, err := s.exporter.Export(allOrders, format)
	if err != nil {
		util.OrderOperationsFailedTotal.WithLabelValues("export", failureReason(err)).Inc()
		return "", 0, fmt.Errorf("failed to export orders: %w", err)
	}

	if format == "" {
		format = "text"
	}
	util.ExportsTotal.WithLabelValues(format).Inc()
	util.ExportedRowsTotal.Add(float64(rows))

	s.audit(models.ExportAuditMessage())
	return s.exporter.Path(format), rows, nil
}

// GetAllProducts retrieves the product catalog
func (s *OrderService) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	_, span := util.StartSpan(ctx, "OrderService.GetAllProducts")
	defer span.End()

	return s.products.GetAllProducts()
}

// GetAllTaxes retrieves the tax catalog
func (s *OrderService) GetAllTaxes(ctx context.Context) ([]models.Tax, error) {
	_, span := util.StartSpan(ctx, "OrderService.GetAllTaxes")
	defer span.End()

	return s.taxes.GetAllTaxes()
}

// buildOrder turns a request into a priced, unsaved order
func (s *OrderService) buildOrder(ctx context.Context, req *AddOrderRequest) (*models.Order, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	if req.OrderDate.IsZero() {
		return nil, fmt.Errorf("%w: order date is required", models.ErrValidation)
	}
	date := models.DateOf(req.OrderDate)
	if !date.After(models.DateOf(s.now())) {
		return nil, fmt.Errorf("%w: order date %s must be in the future",
			models.ErrValidation, date.Format(models.DisplayDateLayout))
	}

	if err := s.checkArea(req.Area); err != nil {
		return nil, err
	}

	order := &models.Order{
		OrderDate:    date,
		CustomerName: req.CustomerName,
		State:        req.State,
		ProductType:  req.ProductType,
		Area:         req.Area,
	}
	if err := s.applyCatalog(ctx, order); err != nil {
		return nil, err
	}

	pricing.Apply(order)
	return order, nil
}

func (s *OrderService) checkArea(area decimal.Decimal) error {
	if area.LessThan(s.minArea) {
		return fmt.Errorf("%w: area %s is below the minimum of %s square feet",
			models.ErrValidation, area.String(), s.minArea.String())
	}
	return nil
}

// applyCatalog copies the current tax rate and product costs onto order
func (s *OrderService) applyCatalog(ctx context.Context, order *models.Order) error {
	_, span := util.StartSpan(ctx, "OrderService.applyCatalog")
	defer span.End()

	tax, err := s.taxes.GetTax(order.State)
	if err != nil {
		return err
	}
	if tax == nil {
		return fmt.Errorf("%w: we do not sell in state %q", models.ErrValidation, order.State)
	}

	product, err := s.products.GetProduct(order.ProductType)
	if err != nil {
		return err
	}
	if product == nil {
		return fmt.Errorf("%w: unknown product type %q", models.ErrValidation, order.ProductType)
	}

	order.State = tax.StateAbbreviation
	order.TaxRate = tax.TaxRate
	order.ProductType = product.ProductType
	order.CostPerSquareFoot = product.CostPerSquareFoot
	order.LaborCostPerSquareFoot = product.LaborCostPerSquareFoot
	return nil
}

// audit records a completed change. The change is already saved, so a
// failed audit write is logged rather than returned.
func (s *OrderService) audit(message string) {
	if err := s.auditor.WriteEntry(message); err != nil {
		util.OrderOperationsFailedTotal.WithLabelValues("audit", failureReason(err)).Inc()
		s.logger.Error("Failed to write audit entry", zap.String("entry", message), zap.Error(err))
	}
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return "not_found"
	case errors.Is(err, models.ErrValidation):
		return "validation"
	case errors.Is(err, models.ErrPersistence):
		return "persistence"
	default:
		return "error"
	}
}
