package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strconv"
	"time"

	"flooring/internal/flatfile"
	"flooring/internal/models"
	"flooring/internal/util"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderHeader is the first line of every per-date order file
const OrderHeader = "OrderNumber,CustomerName,State,TaxRate,ProductType,Area," +
	"CostPerSquareFoot,LaborCostPerSquareFoot,MaterialCost,LaborCost,Tax,Total"

// OrderFields is the number of columns in an order row
const OrderFields = 12

// NextOrderNumber scans every order file and returns one more than the
// largest order number ever seen. A directory that cannot be read is
// treated as holding no orders.
func (s *Store) NextOrderNumber() int {
	if err := s.loadAllOrders(); err != nil {
		s.logger.Warn("Could not scan orders, numbering from last known order", zap.Error(err))
	}
	return s.largestOrderNumber + 1
}

// AddOrder stores a new order. An order number of zero is replaced by the
// next free number; the caller's order is updated with it.
func (s *Store) AddOrder(order *models.Order) (*models.Order, error) {
	if order.OrderDate.IsZero() {
		return nil, fmt.Errorf("%w: order date is required", models.ErrValidation)
	}
	date := models.DateOf(order.OrderDate)

	orderNumber := order.OrderNumber
	if orderNumber == 0 {
		orderNumber = s.NextOrderNumber()
	}

	// loaded after numbering, since the full scan rebuilds the cache
	if err := s.loadOrdersForDate(date); err != nil {
		return nil, err
	}
	if _, exists := s.orders[date][orderNumber]; exists {
		return nil, fmt.Errorf("%w: order %d already exists on %s",
			models.ErrValidation, orderNumber, date.Format(models.DisplayDateLayout))
	}

	order.OrderNumber = orderNumber
	order.OrderDate = date

	if err := s.persistSequence(order.OrderNumber); err != nil {
		return nil, err
	}
	if order.OrderNumber > s.largestOrderNumber {
		s.largestOrderNumber = order.OrderNumber
	}

	ordersForDate, ok := s.orders[date]
	if !ok {
		ordersForDate = make(map[int]models.Order)
		s.orders[date] = ordersForDate
	}
	ordersForDate[order.OrderNumber] = *order

	if err := s.writeOrdersForDate(date); err != nil {
		return nil, err
	}

	stored := *order
	return &stored, nil
}

// GetOrder retrieves one order
func (s *Store) GetOrder(date time.Time, orderNumber int) (*models.Order, error) {
	date = models.DateOf(date)
	if err := s.loadOrdersForDate(date); err != nil {
		return nil, err
	}

	order, ok := s.orders[date][orderNumber]
	if !ok {
		return nil, notFound(date, orderNumber)
	}
	return &order, nil
}

// EditOrder replaces an existing order, identified by its date and number
func (s *Store) EditOrder(order *models.Order) (*models.Order, error) {
	date := models.DateOf(order.OrderDate)
	if err := s.loadOrdersForDate(date); err != nil {
		return nil, err
	}

	if _, ok := s.orders[date][order.OrderNumber]; !ok {
		return nil, notFound(date, order.OrderNumber)
	}

	order.OrderDate = date
	s.orders[date][order.OrderNumber] = *order

	if err := s.writeOrdersForDate(date); err != nil {
		return nil, err
	}

	stored := *order
	return &stored, nil
}

// RemoveOrder deletes an order and returns it. The date file is kept, with
// only its header if no orders remain.
func (s *Store) RemoveOrder(date time.Time, orderNumber int) (*models.Order, error) {
	date = models.DateOf(date)
	if err := s.loadOrdersForDate(date); err != nil {
		return nil, err
	}

	order, ok := s.orders[date][orderNumber]
	if !ok {
		return nil, notFound(date, orderNumber)
	}

	// once the row is gone only the sequence file remembers its number
	if err := s.persistSequence(max(orderNumber, s.largestOrderNumber)); err != nil {
		return nil, err
	}

	delete(s.orders[date], orderNumber)
	if err := s.writeOrdersForDate(date); err != nil {
		return nil, err
	}

	return &order, nil
}

// GetOrdersForDate retrieves the orders of one date sorted by order number.
// A date without a file yields an empty list.
func (s *Store) GetOrdersForDate(date time.Time) ([]models.Order, error) {
	date = models.DateOf(date)
	if err := s.loadOrdersForDate(date); err != nil {
		return nil, err
	}

	return sortedOrders(s.orders[date]), nil
}

// GetAllOrders reads every order file in the directory
func (s *Store) GetAllOrders() (map[time.Time]map[int]models.Order, error) {
	if err := s.loadAllOrders(); err != nil {
		return nil, err
	}

	all := make(map[time.Time]map[int]models.Order, len(s.orders))
	for date, ordersForDate := range s.orders {
		copied := make(map[int]models.Order, len(ordersForDate))
		for n, o := range ordersForDate {
			copied[n] = o
		}
		all[date] = copied
	}
	return all, nil
}

func notFound(date time.Time, orderNumber int) error {
	return fmt.Errorf("%w: no order with number %d on %s",
		models.ErrNotFound, orderNumber, date.Format(models.DisplayDateLayout))
}

func sortedOrders(ordersForDate map[int]models.Order) []models.Order {
	list := make([]models.Order, 0, len(ordersForDate))
	for _, o := range ordersForDate {
		list = append(list, o)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].OrderNumber < list[j].OrderNumber
	})
	return list
}

// loadOrdersForDate replaces the cached orders of date with the file contents
func (s *Store) loadOrdersForDate(date time.Time) error {
	path := s.orderFilePath(date)

	records, err := flatfile.ReadRecords(path, OrderHeader)
	if errors.Is(err, fs.ErrNotExist) {
		delete(s.orders, date)
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: could not load orders for %s: %w",
			models.ErrPersistence, date.Format(models.DisplayDateLayout), err)
	}

	ordersForDate := make(map[int]models.Order, len(records))
	for _, rec := range records {
		order, err := unmarshalOrder(rec.Fields, date)
		if err != nil {
			return fmt.Errorf("%w: %s line %d: %w", models.ErrPersistence, path, rec.Line, err)
		}
		ordersForDate[order.OrderNumber] = order

		if order.OrderNumber > s.largestOrderNumber {
			s.largestOrderNumber = order.OrderNumber
		}
	}

	s.orders[date] = ordersForDate
	util.OrderFilesLoadedTotal.Inc()
	return nil
}

// loadAllOrders rebuilds the cache from every order file in the directory
func (s *Store) loadAllOrders() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("%w: could not list orders directory: %w", models.ErrPersistence, err)
	}

	s.orders = make(map[time.Time]map[int]models.Order)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		date, ok := parseOrderFileName(entry.Name())
		if !ok {
			continue
		}
		if err := s.loadOrdersForDate(date); err != nil {
			return err
		}
	}

	return nil
}

// writeOrdersForDate rewrites the file of date from the cache
func (s *Store) writeOrdersForDate(date time.Time) error {
	start := time.Now()
	defer func() {
		util.OrderFileWriteLatency.Observe(time.Since(start).Seconds())
	}()

	orders := sortedOrders(s.orders[date])
	rows := make([][]string, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, MarshalOrder(o))
	}

	if err := flatfile.WriteFile(s.orderFilePath(date), OrderHeader, rows); err != nil {
		return fmt.Errorf("%w: could not save orders for %s: %w",
			models.ErrPersistence, date.Format(models.DisplayDateLayout), err)
	}

	s.logger.Debug("Order file written",
		zap.String("file", OrderFileName(date)),
		zap.Int("orders", len(rows)))
	return nil
}

// MarshalOrder returns the 12 stored columns of an order
func MarshalOrder(o models.Order) []string {
	return []string{
		strconv.Itoa(o.OrderNumber),
		o.CustomerName,
		o.State,
		flatfile.FormatDecimal(o.TaxRate),
		o.ProductType,
		flatfile.FormatDecimal(o.Area),
		flatfile.FormatDecimal(o.CostPerSquareFoot),
		flatfile.FormatDecimal(o.LaborCostPerSquareFoot),
		flatfile.FormatDecimal(o.MaterialCost),
		flatfile.FormatDecimal(o.LaborCost),
		flatfile.FormatDecimal(o.Tax),
		flatfile.FormatDecimal(o.Total),
	}
}

// unmarshalOrder parses one stored row; the date comes from the file name
func unmarshalOrder(fields []string, date time.Time) (models.Order, error) {
	if len(fields) != OrderFields {
		return models.Order{}, fmt.Errorf("expected %d fields, got %d", OrderFields, len(fields))
	}

	orderNumber, err := strconv.Atoi(fields[0])
	if err != nil {
		return models.Order{}, fmt.Errorf("order number: %w", err)
	}

	order := models.Order{
		OrderNumber:  orderNumber,
		OrderDate:    date,
		CustomerName: fields[1],
		State:        fields[2],
		ProductType:  fields[4],
	}

	decimals := []struct {
		name  string
		value string
		dst   *decimal.Decimal
	}{
		{"tax rate", fields[3], &order.TaxRate},
		{"area", fields[5], &order.Area},
		{"cost per square foot", fields[6], &order.CostPerSquareFoot},
		{"labor cost per square foot", fields[7], &order.LaborCostPerSquareFoot},
		{"material cost", fields[8], &order.MaterialCost},
		{"labor cost", fields[9], &order.LaborCost},
		{"tax", fields[10], &order.Tax},
		{"total", fields[11], &order.Total},
	}
	for _, d := range decimals {
		v, err := flatfile.ParseDecimal(d.value)
		if err != nil {
			return models.Order{}, fmt.Errorf("%s: %w", d.name, err)
		}
		*d.dst = v
	}

	return order, nil
}
