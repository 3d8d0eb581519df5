package order

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"localmart-be/internal/logger"
	"localmart-be/internal/notify"
	"localmart-be/internal/utils"

	"go.uber.org/zap"
)

// totalTolerance is the absolute slack allowed between the client-computed
// and server-computed totals, guarding against a tampered client total
// without tripping on float rounding.
const totalTolerance = 0.01

type NewOrderPayload struct {
	OrderID      uint    `json:"orderId"`
	VendorID     uint    `json:"vendorId"`
	CustomerName string  `json:"customerName"`
	Amount       float64 `json:"amount"`
}

type StatusUpdatedPayload struct {
	OrderID      uint        `json:"orderId"`
	Status       OrderStatus `json:"status"`
	CustomerName string      `json:"customerName"`
	Message      string      `json:"message"`
}

type Service interface {
	CreateOrder(ctx context.Context, customerID uint, input NewOrderInput) (*Order, error)
	GetOrdersForCustomer(ctx context.Context, customerID uint) ([]*Order, error)
	GetOrdersForVendor(ctx context.Context, vendorID uint, limit, page int) ([]*Order, error)
	GetOrder(ctx context.Context, orderID, callerID uint, callerRole string) (*Order, error)
	UpdateOrderStatus(ctx context.Context, orderID uint, target string, vendorID uint) (*Order, error)
}

type service struct {
	repo      Repository
	publisher notify.Publisher
}

// NewService wires the ledger to its storage and to the notification
// channel. The publisher is an explicit dependency, never a global.
func NewService(repo Repository, publisher notify.Publisher) Service {
	if publisher == nil {
		publisher = notify.NopPublisher{}
	}
	return &service{repo: repo, publisher: publisher}
}

func (s *service) CreateOrder(ctx context.Context, customerID uint, input NewOrderInput) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateOrder"),
		zap.Uint("customer_id", customerID),
		zap.Int("item_count", len(input.Items)),
	)

	if len(input.Items) == 0 {
		return nil, ErrEmptyOrder
	}
	if err := validateAddress(input.DeliveryAddress); err != nil {
		return nil, err
	}

	// Look up every product before touching anything: price is snapshotted
	// here, stock availability is pre-checked, and the conditional decrement
	// inside the transaction settles any race.
	items := make([]*OrderItem, 0, len(input.Items))
	var total float64

	for _, in := range input.Items {
		if in.Quantity < 1 {
			return nil, fmt.Errorf("%w: quantity must be at least 1 for product %d", ErrInvalidInput, in.ProductID)
		}

		p, err := s.repo.GetProductForOrder(ctx, in.ProductID)
		if err != nil {
			if err == ErrProductNotFound {
				return nil, fmt.Errorf("%w: %d", ErrProductNotFound, in.ProductID)
			}
			log.Error("product lookup failed", zap.Uint("product_id", in.ProductID), zap.Error(err))
			return nil, err
		}
		if !p.IsActive {
			return nil, fmt.Errorf("%w: %d", ErrProductNotFound, in.ProductID)
		}
		if p.Stock < in.Quantity {
			return nil, fmt.Errorf("%w for %s", ErrInsufficientStock, p.Name)
		}

		items = append(items, &OrderItem{
			ProductID:   p.ID,
			ProductName: p.Name,
			VendorID:    p.VendorID,
			Quantity:    in.Quantity,
			Price:       p.Price,
		})
		total += p.Price * float64(in.Quantity)
	}
	total = roundCents(total)

	if input.TotalAmount != nil && math.Abs(total-*input.TotalAmount) > totalTolerance {
		log.Warn("client total mismatch",
			zap.Float64("computed", total),
			zap.Float64("client", *input.TotalAmount),
		)
		return nil, ErrTotalMismatch
	}

	o := &Order{
		CustomerID:      customerID,
		Items:           items,
		TotalAmount:     total,
		Status:          StatusPending,
		DeliveryAddress: input.DeliveryAddress,
	}

	if err := s.repo.CreateOrderTx(ctx, o); err != nil {
		log.Error("failed to create order", zap.Error(err))
		return nil, err
	}

	log.Info("order created",
		zap.Uint("order_id", o.ID),
		zap.Float64("total", o.TotalAmount),
	)

	s.notifyVendors(ctx, o)

	return o, nil
}

// notifyVendors publishes one newOrder event per distinct vendor with that
// vendor's line-item subtotal. Delivery is fire-and-forget: a dead
// subscription never fails the order.
func (s *service) notifyVendors(ctx context.Context, o *Order) {
	customerName, err := s.repo.GetCustomerName(ctx, o.CustomerID)
	if err != nil {
		logger.FromCtx(ctx).Warn("could not resolve customer name for notification",
			zap.Uint("order_id", o.ID), zap.Error(err))
	}

	subtotals := make(map[uint]float64)
	for _, item := range o.Items {
		subtotals[item.VendorID] += item.Subtotal()
	}

	for vendorID, amount := range subtotals {
		s.publisher.Publish(vendorID, notify.Event{
			Type: notify.EventNewOrder,
			Data: NewOrderPayload{
				OrderID:      o.ID,
				VendorID:     vendorID,
				CustomerName: customerName,
				Amount:       roundCents(amount),
			},
		})
	}
}

func (s *service) GetOrdersForCustomer(ctx context.Context, customerID uint) ([]*Order, error) {
	return s.repo.FetchCustomerOrders(ctx, customerID)
}

// GetOrdersForVendor lists orders containing the vendor's items. The item
// list is already vendor-scoped by the repository; the total is replaced by
// the vendor's own subtotal so other vendors' revenue never leaks.
func (s *service) GetOrdersForVendor(ctx context.Context, vendorID uint, limit, page int) ([]*Order, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	orders, err := s.repo.FetchVendorOrders(ctx, vendorID, limit, page)
	if err != nil {
		return nil, err
	}

	for _, o := range orders {
		o.TotalAmount = roundCents(vendorSubtotal(o, vendorID))
	}
	return orders, nil
}

func (s *service) GetOrder(ctx context.Context, orderID, callerID uint, callerRole string) (*Order, error) {
	o, err := s.repo.GetOrderDetail(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if o.CustomerID == callerID {
		return o, nil
	}

	if callerRole == utils.RoleVendor && callerIsOwningVendor(o, callerID) {
		scopeToVendor(o, callerID)
		return o, nil
	}

	return nil, ErrForbidden
}

func (s *service) UpdateOrderStatus(ctx context.Context, orderID uint, target string, vendorID uint) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdateOrderStatus"),
		zap.Uint("order_id", orderID),
		zap.Uint("vendor_id", vendorID),
	)

	o, err := s.repo.GetOrderDetail(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !callerIsOwningVendor(o, vendorID) {
		log.Warn("vendor without line items attempted status update")
		return nil, ErrForbidden
	}

	status, err := ParseStatus(target)
	if err != nil {
		return nil, err
	}

	if !CanTransition(o.Status, status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, status)
	}

	now := time.Now()
	var deliveredAt *time.Time
	if status == StatusDelivered {
		deliveredAt = &now
	}

	changedAt, err := s.repo.UpdateOrderStatus(ctx, orderID, status, deliveredAt)
	if err != nil {
		log.Error("failed to update order status", zap.Error(err))
		return nil, err
	}

	o.Status = status
	o.DeliveredAt = deliveredAt
	o.StatusHistory = append(o.StatusHistory, StatusChange{Status: status, Timestamp: changedAt})

	log.Info("order status updated", zap.String("status", string(status)))

	s.publisher.Publish(o.CustomerID, notify.Event{
		Type: notify.EventOrderStatusUpdated,
		Data: StatusUpdatedPayload{
			OrderID:      o.ID,
			Status:       status,
			CustomerName: o.CustomerName,
			Message:      fmt.Sprintf("Your order #%d is now %s", o.ID, status),
		},
	})

	// The updating vendor gets the same scoped view the read path gives:
	// only their own line items, with their subtotal as the total.
	scopeToVendor(o, vendorID)
	return o, nil
}

func callerIsOwningVendor(o *Order, vendorID uint) bool {
	for _, item := range o.Items {
		if item.VendorID == vendorID {
			return true
		}
	}
	return false
}

func vendorSubtotal(o *Order, vendorID uint) float64 {
	var sum float64
	for _, item := range o.Items {
		if item.VendorID == vendorID {
			sum += item.Subtotal()
		}
	}
	return sum
}

// scopeToVendor strips foreign line items and rewrites the total with the
// vendor's own subtotal.
func scopeToVendor(o *Order, vendorID uint) {
	scoped := make([]*OrderItem, 0, len(o.Items))
	for _, item := range o.Items {
		if item.VendorID == vendorID {
			scoped = append(scoped, item)
		}
	}
	o.Items = scoped
	o.TotalAmount = roundCents(vendorSubtotal(o, vendorID))
}

func validateAddress(a Address) error {
	if strings.TrimSpace(a.Street) == "" {
		return fmt.Errorf("%w: street address is required", ErrInvalidInput)
	}
	if strings.TrimSpace(a.City) == "" {
		return fmt.Errorf("%w: city is required", ErrInvalidInput)
	}
	if strings.TrimSpace(a.Phone) == "" {
		return fmt.Errorf("%w: phone number is required", ErrInvalidInput)
	}
	return nil
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
