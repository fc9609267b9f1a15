package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"dk-delivery/internal/domain"
)

// CapabilityManageOrders lets a non-admin user drive status transitions for
// orders of a specific restaurant.
const CapabilityManageOrders = "manage_orders"

// DefaultDeliveryEstimate is used when no computed estimate is supplied.
const DefaultDeliveryEstimate = "30-45 min"

const loyaltyPointsDivisor = 10

type OptionInput struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	Price string `json:"price"`
}

type LineItemInput struct {
	Name     string        `json:"name"`
	Quantity int           `json:"quantity"`
	Price    string        `json:"price"`
	Notes    string        `json:"notes,omitempty"`
	Options  []OptionInput `json:"options,omitempty"`
}

type CreateOrderInput struct {
	UserID                int
	RestaurantID          int                    `json:"restaurant_id"`
	Items                 []LineItemInput        `json:"items"`
	DeliveryAddress       domain.DeliveryAddress `json:"delivery_address"`
	PaymentMethod         string                 `json:"payment_method"`
	Subtotal              string                 `json:"subtotal"`
	DeliveryFee           string                 `json:"delivery_fee"`
	Discount              string                 `json:"discount,omitempty"`
	Total                 string                 `json:"total"`
	EstimatedDeliveryTime string                 `json:"estimated_delivery_time,omitempty"`
}

type OrderService struct {
	repository  OrderRepository
	restaurants RestaurantDirectory
	users       UserStore
	marker      LoyaltyMarker
	publisher   OrderPublisher
	qrEncoder   QRGenerator
	now         func() time.Time
}

func NewOrderService(
	repository OrderRepository,
	restaurants RestaurantDirectory,
	users UserStore,
	marker LoyaltyMarker,
	publisher OrderPublisher,
	qrEncoder QRGenerator,
) *OrderService {
	return &OrderService{
		repository:  repository,
		restaurants: restaurants,
		users:       users,
		marker:      marker,
		publisher:   publisher,
		qrEncoder:   qrEncoder,
		now:         time.Now,
	}
}

func (s *OrderService) Create(ctx context.Context, input CreateOrderInput) (*domain.Order, error) {
	order, err := s.buildOrder(input)
	if err != nil {
		return nil, err
	}

	exists, err := s.restaurants.Exists(ctx, input.RestaurantID)
	if err != nil {
		return nil, fmt.Errorf("%w: restaurant lookup: %v", ErrDependency, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: restaurant %d", ErrNotFound, input.RestaurantID)
	}

	if err := s.repository.CreateOrder(ctx, order); err != nil {
		return nil, err
	}

	// The order is committed at this point. Everything below is best-effort
	// and must not unwind or fail the creation.
	s.awardLoyaltyPoints(ctx, order)

	if s.qrEncoder != nil {
		if qr, err := s.qrEncoder.Generate(order.ID); err == nil {
			_ = s.repository.SaveQRCode(ctx, order.ID, qr)
		}
	}

	s.publish(ctx, "order_created", order)

	return order, nil
}

func (s *OrderService) buildOrder(input CreateOrderInput) (*domain.Order, error) {
	if input.RestaurantID <= 0 {
		return nil, fmt.Errorf("%w: restaurant_id is required", ErrValidation)
	}
	if len(input.Items) == 0 {
		return nil, fmt.Errorf("%w: order has no items", ErrValidation)
	}
	if input.DeliveryAddress.Street == "" || input.DeliveryAddress.City == "" {
		return nil, fmt.Errorf("%w: delivery address needs street and city", ErrValidation)
	}
	method := domain.PaymentMethod(input.PaymentMethod)
	if !method.Valid() {
		return nil, fmt.Errorf("%w: unknown payment method %q", ErrValidation, input.PaymentMethod)
	}

	items := make([]domain.OrderLineItem, 0, len(input.Items))
	for _, in := range input.Items {
		if in.Name == "" {
			return nil, fmt.Errorf("%w: item name is required", ErrValidation)
		}
		if in.Quantity < 1 {
			return nil, fmt.Errorf("%w: item %q has quantity %d", ErrValidation, in.Name, in.Quantity)
		}
		price, err := domain.ParseMoney(in.Price)
		if err != nil {
			return nil, fmt.Errorf("%w: item %q price %q", ErrValidation, in.Name, in.Price)
		}
		item := domain.OrderLineItem{
			Name:     in.Name,
			Quantity: in.Quantity,
			Price:    price,
			Notes:    in.Notes,
		}
		for _, opt := range in.Options {
			optPrice, err := domain.ParseMoney(opt.Price)
			if err != nil {
				return nil, fmt.Errorf("%w: option %q price %q", ErrValidation, opt.Name, opt.Price)
			}
			item.Options = append(item.Options, domain.ItemOption{
				Name:  opt.Name,
				Value: opt.Value,
				Price: optPrice,
			})
		}
		items = append(items, item)
	}

	subtotal, err := domain.ParseMoney(input.Subtotal)
	if err != nil {
		return nil, fmt.Errorf("%w: subtotal %q", ErrValidation, input.Subtotal)
	}
	deliveryFee, err := domain.ParseMoney(input.DeliveryFee)
	if err != nil {
		return nil, fmt.Errorf("%w: delivery_fee %q", ErrValidation, input.DeliveryFee)
	}
	total, err := domain.ParseMoney(input.Total)
	if err != nil {
		return nil, fmt.Errorf("%w: total %q", ErrValidation, input.Total)
	}
	discount := domain.ZeroMoney()
	if input.Discount != "" {
		discount, err = domain.ParseMoney(input.Discount)
		if err != nil {
			return nil, fmt.Errorf("%w: discount %q", ErrValidation, input.Discount)
		}
	}

	estimate := input.EstimatedDeliveryTime
	if estimate == "" {
		estimate = DefaultDeliveryEstimate
	}

	now := s.now()
	return &domain.Order{
		UserID:                input.UserID,
		RestaurantID:          input.RestaurantID,
		Items:                 items,
		DeliveryAddress:       input.DeliveryAddress,
		PaymentMethod:         method,
		PaymentStatus:         domain.PaymentPending,
		OrderStatus:           domain.StatusPending,
		Subtotal:              subtotal,
		DeliveryFee:           deliveryFee,
		Discount:              discount,
		Total:                 total,
		EstimatedDeliveryTime: estimate,
		CreatedAt:             now,
		UpdatedAt:             now,
	}, nil
}

// awardLoyaltyPoints credits 1 point per 10 ETB of the order total. The
// award is keyed by order id through the marker so a retry never
// double-credits, and any failure is logged instead of surfaced: the order
// has already been committed.
func (s *OrderService) awardLoyaltyPoints(ctx context.Context, order *domain.Order) {
	points := int(order.Total.Amount / loyaltyPointsDivisor)
	if points <= 0 {
		return
	}

	if s.marker != nil {
		claimed, err := s.marker.ClaimAward(ctx, order.ID)
		if err != nil {
			log.Printf("WARNING: loyalty marker for order %d: %v", order.ID, err)
			return
		}
		if !claimed {
			return
		}
	}

	if err := s.users.IncrementLoyaltyPoints(ctx, order.UserID, points); err != nil {
		log.Printf("WARNING: failed to award %d loyalty points to user %d for order %d: %v",
			points, order.UserID, order.ID, err)
	}
}

func (s *OrderService) Get(ctx context.Context, orderID, callerID int) (*domain.Order, error) {
	order, err := s.repository.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("%w: order %d", ErrNotFound, orderID)
	}

	if order.UserID != callerID {
		caller, err := s.users.Get(ctx, callerID)
		if err != nil {
			return nil, fmt.Errorf("%w: caller lookup: %v", ErrDependency, err)
		}
		if caller == nil || !caller.IsAdmin {
			return nil, ErrNotAuthorized
		}
	}

	s.enrich(ctx, order)
	return order, nil
}

// enrich attaches the restaurant summary and, when a driver is assigned, the
// driver summary. A failed lookup degrades to a missing summary rather than
// failing the read.
func (s *OrderService) enrich(ctx context.Context, order *domain.Order) {
	summary, err := s.restaurants.Summary(ctx, order.RestaurantID)
	if err != nil {
		log.Printf("WARNING: restaurant summary for order %d: %v", order.ID, err)
	} else {
		order.Restaurant = summary
	}

	if order.DriverID != nil {
		driver, err := s.users.DriverSummary(ctx, *order.DriverID)
		if err != nil {
			log.Printf("WARNING: driver summary for order %d: %v", order.ID, err)
		} else {
			order.Driver = driver
		}
	}
}

func (s *OrderService) ListForUser(ctx context.Context, userID int) ([]domain.Order, error) {
	return s.repository.ListUserOrders(ctx, userID)
}

func (s *OrderService) UpdateStatus(ctx context.Context, orderID int, status domain.OrderStatus, callerID int) (*domain.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown order status %q", ErrValidation, status)
	}

	order, err := s.repository.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("%w: order %d", ErrNotFound, orderID)
	}

	if err := s.authorizeStatusUpdate(ctx, callerID, order.RestaurantID); err != nil {
		return nil, err
	}

	if !domain.CanTransition(order.OrderStatus, status) {
		return nil, fmt.Errorf("%w: cannot move order from %s to %s", ErrConflict, order.OrderStatus, status)
	}

	delivered := status == domain.StatusDelivered
	updated, err := s.repository.UpdateOrderStatus(ctx, orderID, order.OrderStatus, status, delivered)
	if err != nil {
		return nil, err
	}
	if !updated {
		// Lost the conditional write to a concurrent transition.
		return nil, fmt.Errorf("%w: order %d changed concurrently", ErrConflict, orderID)
	}

	now := s.now()
	order.OrderStatus = status
	order.UpdatedAt = now
	if delivered {
		order.ActualDeliveryTime = &now
	}

	s.publish(ctx, "status_changed", order)
	return order, nil
}

func (s *OrderService) authorizeStatusUpdate(ctx context.Context, callerID, restaurantID int) error {
	caller, err := s.users.Get(ctx, callerID)
	if err != nil {
		return fmt.Errorf("%w: caller lookup: %v", ErrDependency, err)
	}
	if caller != nil && caller.IsAdmin {
		return nil
	}
	ok, err := s.users.HasCapability(ctx, callerID, restaurantID, CapabilityManageOrders)
	if err != nil {
		return fmt.Errorf("%w: capability lookup: %v", ErrDependency, err)
	}
	if !ok {
		return ErrNotAuthorized
	}
	return nil
}

func (s *OrderService) Cancel(ctx context.Context, orderID, callerID int) (*domain.Order, error) {
	order, err := s.repository.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("%w: order %d", ErrNotFound, orderID)
	}

	if order.UserID != callerID {
		return nil, ErrNotAuthorized
	}

	if !order.OrderStatus.Cancellable() {
		return nil, fmt.Errorf("%w: cannot cancel order that is already being prepared or out for delivery", ErrConflict)
	}

	updated, err := s.repository.UpdateOrderStatus(ctx, orderID, order.OrderStatus, domain.StatusCancelled, false)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, fmt.Errorf("%w: order %d changed concurrently", ErrConflict, orderID)
	}

	order.OrderStatus = domain.StatusCancelled
	order.UpdatedAt = s.now()

	s.publish(ctx, "order_cancelled", order)
	return order, nil
}

func (s *OrderService) TrackingQRCode(ctx context.Context, orderID int) ([]byte, error) {
	order, err := s.repository.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("%w: order %d", ErrNotFound, orderID)
	}

	qr, err := s.repository.GetQRCode(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if len(qr) == 0 && s.qrEncoder != nil {
		regenerated, err := s.qrEncoder.Generate(orderID)
		if err != nil {
			return nil, err
		}
		if err := s.repository.SaveQRCode(ctx, orderID, regenerated); err != nil {
			log.Printf("WARNING: failed to cache regenerated QR code for order %d: %v", orderID, err)
		}
		return regenerated, nil
	}
	return qr, nil
}

func (s *OrderService) publish(ctx context.Context, eventType string, order *domain.Order) {
	if s.publisher == nil {
		return
	}
	err := s.publisher.PublishOrderEvent(ctx, domain.OrderEvent{
		Type:         eventType,
		OrderID:      order.ID,
		UserID:       order.UserID,
		RestaurantID: order.RestaurantID,
		Status:       order.OrderStatus,
		Timestamp:    s.now(),
	})
	if err != nil {
		log.Printf("WARNING: failed to publish %s event for order %d: %v", eventType, order.ID, err)
	}
}

var _ OrderServiceInterface = (*OrderService)(nil)
