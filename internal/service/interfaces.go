package service

import (
	"context"

	"dk-delivery/internal/domain"
)

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	GetOrder(ctx context.Context, orderID int) (*domain.Order, error)
	ListUserOrders(ctx context.Context, userID int) ([]domain.Order, error)
	// UpdateOrderStatus performs a conditional write: the order row is only
	// touched when its status still equals from. It reports whether a row
	// was updated.
	UpdateOrderStatus(ctx context.Context, orderID int, from, to domain.OrderStatus, deliveredAt bool) (bool, error)
	SaveQRCode(ctx context.Context, orderID int, qr []byte) error
	GetQRCode(ctx context.Context, orderID int) ([]byte, error)
}

type RestaurantDirectory interface {
	Exists(ctx context.Context, restaurantID int) (bool, error)
	Summary(ctx context.Context, restaurantID int) (*domain.RestaurantSummary, error)
}

type UserStore interface {
	Get(ctx context.Context, userID int) (*domain.User, error)
	// IncrementLoyaltyPoints must be an atomic counter increment in the
	// backing store, never read-modify-write in application code.
	IncrementLoyaltyPoints(ctx context.Context, userID, delta int) error
	DriverSummary(ctx context.Context, driverID int) (*domain.DriverSummary, error)
	// HasCapability reports whether the user holds the named capability for
	// a specific restaurant.
	HasCapability(ctx context.Context, userID, restaurantID int, capability string) (bool, error)
}

// UserAccountStore persists account credentials. UserByEmail returns the
// user together with its stored password hash, or (nil, "", nil) when no
// account carries the email.
type UserAccountStore interface {
	CreateUser(ctx context.Context, user *domain.User, passwordHash string) error
	UserByEmail(ctx context.Context, email string) (*domain.User, string, error)
	Get(ctx context.Context, userID int) (*domain.User, error)
}

// LoyaltyMarker guards the point award so an at-least-once retry keyed by
// order id never double-credits.
type LoyaltyMarker interface {
	ClaimAward(ctx context.Context, orderID int) (bool, error)
}

type OrderPublisher interface {
	PublishOrderEvent(ctx context.Context, event domain.OrderEvent) error
}

type QRGenerator interface {
	Generate(orderID int) ([]byte, error)
}

type RestaurantRepository interface {
	ListRestaurants(ctx context.Context, search, category string) ([]domain.Restaurant, error)
	ListFeatured(ctx context.Context) ([]domain.Restaurant, error)
	GetRestaurant(ctx context.Context, id int) (*domain.Restaurant, error)
}

type OrderServiceInterface interface {
	Create(ctx context.Context, input CreateOrderInput) (*domain.Order, error)
	Get(ctx context.Context, orderID, callerID int) (*domain.Order, error)
	ListForUser(ctx context.Context, userID int) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, orderID int, status domain.OrderStatus, callerID int) (*domain.Order, error)
	Cancel(ctx context.Context, orderID, callerID int) (*domain.Order, error)
	TrackingQRCode(ctx context.Context, orderID int) ([]byte, error)
}

type AuthServiceInterface interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, creds Credentials) (*domain.User, error)
	Profile(ctx context.Context, userID int) (*domain.User, error)
}

type RestaurantServiceInterface interface {
	List(ctx context.Context, search, category string) ([]domain.Restaurant, error)
	Featured(ctx context.Context) ([]domain.Restaurant, error)
	Get(ctx context.Context, id int) (*domain.Restaurant, error)
}
