// Package mocks holds testify mocks for the service-layer interfaces.
package mocks

import (
	"context"

	"dk-delivery/internal/domain"
	"dk-delivery/internal/service"

	"github.com/stretchr/testify/mock"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

func setup(t testingT, m *mock.Mock) {
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
}

type OrderRepository struct {
	mock.Mock
}

func NewOrderRepository(t testingT) *OrderRepository {
	m := &OrderRepository{}
	setup(t, &m.Mock)
	return m
}

func (m *OrderRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *OrderRepository) GetOrder(ctx context.Context, orderID int) (*domain.Order, error) {
	ret := m.Called(ctx, orderID)
	var order *domain.Order
	if ret.Get(0) != nil {
		order = ret.Get(0).(*domain.Order)
	}
	return order, ret.Error(1)
}

func (m *OrderRepository) ListUserOrders(ctx context.Context, userID int) ([]domain.Order, error) {
	ret := m.Called(ctx, userID)
	var orders []domain.Order
	if ret.Get(0) != nil {
		orders = ret.Get(0).([]domain.Order)
	}
	return orders, ret.Error(1)
}

func (m *OrderRepository) UpdateOrderStatus(ctx context.Context, orderID int, from, to domain.OrderStatus, deliveredAt bool) (bool, error) {
	ret := m.Called(ctx, orderID, from, to, deliveredAt)
	return ret.Bool(0), ret.Error(1)
}

func (m *OrderRepository) SaveQRCode(ctx context.Context, orderID int, qr []byte) error {
	return m.Called(ctx, orderID, qr).Error(0)
}

func (m *OrderRepository) GetQRCode(ctx context.Context, orderID int) ([]byte, error) {
	ret := m.Called(ctx, orderID)
	var qr []byte
	if ret.Get(0) != nil {
		qr = ret.Get(0).([]byte)
	}
	return qr, ret.Error(1)
}

type RestaurantDirectory struct {
	mock.Mock
}

func NewRestaurantDirectory(t testingT) *RestaurantDirectory {
	m := &RestaurantDirectory{}
	setup(t, &m.Mock)
	return m
}

func (m *RestaurantDirectory) Exists(ctx context.Context, restaurantID int) (bool, error) {
	ret := m.Called(ctx, restaurantID)
	return ret.Bool(0), ret.Error(1)
}

func (m *RestaurantDirectory) Summary(ctx context.Context, restaurantID int) (*domain.RestaurantSummary, error) {
	ret := m.Called(ctx, restaurantID)
	var summary *domain.RestaurantSummary
	if ret.Get(0) != nil {
		summary = ret.Get(0).(*domain.RestaurantSummary)
	}
	return summary, ret.Error(1)
}

type UserStore struct {
	mock.Mock
}

func NewUserStore(t testingT) *UserStore {
	m := &UserStore{}
	setup(t, &m.Mock)
	return m
}

func (m *UserStore) Get(ctx context.Context, userID int) (*domain.User, error) {
	ret := m.Called(ctx, userID)
	var user *domain.User
	if ret.Get(0) != nil {
		user = ret.Get(0).(*domain.User)
	}
	return user, ret.Error(1)
}

func (m *UserStore) IncrementLoyaltyPoints(ctx context.Context, userID, delta int) error {
	return m.Called(ctx, userID, delta).Error(0)
}

func (m *UserStore) DriverSummary(ctx context.Context, driverID int) (*domain.DriverSummary, error) {
	ret := m.Called(ctx, driverID)
	var driver *domain.DriverSummary
	if ret.Get(0) != nil {
		driver = ret.Get(0).(*domain.DriverSummary)
	}
	return driver, ret.Error(1)
}

func (m *UserStore) HasCapability(ctx context.Context, userID, restaurantID int, capability string) (bool, error) {
	ret := m.Called(ctx, userID, restaurantID, capability)
	return ret.Bool(0), ret.Error(1)
}

type UserAccountStore struct {
	mock.Mock
}

func NewUserAccountStore(t testingT) *UserAccountStore {
	m := &UserAccountStore{}
	setup(t, &m.Mock)
	return m
}

func (m *UserAccountStore) CreateUser(ctx context.Context, user *domain.User, passwordHash string) error {
	return m.Called(ctx, user, passwordHash).Error(0)
}

func (m *UserAccountStore) UserByEmail(ctx context.Context, email string) (*domain.User, string, error) {
	ret := m.Called(ctx, email)
	var user *domain.User
	if ret.Get(0) != nil {
		user = ret.Get(0).(*domain.User)
	}
	return user, ret.String(1), ret.Error(2)
}

func (m *UserAccountStore) Get(ctx context.Context, userID int) (*domain.User, error) {
	ret := m.Called(ctx, userID)
	var user *domain.User
	if ret.Get(0) != nil {
		user = ret.Get(0).(*domain.User)
	}
	return user, ret.Error(1)
}

type LoyaltyMarker struct {
	mock.Mock
}

func NewLoyaltyMarker(t testingT) *LoyaltyMarker {
	m := &LoyaltyMarker{}
	setup(t, &m.Mock)
	return m
}

func (m *LoyaltyMarker) ClaimAward(ctx context.Context, orderID int) (bool, error) {
	ret := m.Called(ctx, orderID)
	return ret.Bool(0), ret.Error(1)
}

type OrderPublisher struct {
	mock.Mock
}

func NewOrderPublisher(t testingT) *OrderPublisher {
	m := &OrderPublisher{}
	setup(t, &m.Mock)
	return m
}

func (m *OrderPublisher) PublishOrderEvent(ctx context.Context, event domain.OrderEvent) error {
	return m.Called(ctx, event).Error(0)
}

type QRGenerator struct {
	mock.Mock
}

func NewQRGenerator(t testingT) *QRGenerator {
	m := &QRGenerator{}
	setup(t, &m.Mock)
	return m
}

func (m *QRGenerator) Generate(orderID int) ([]byte, error) {
	ret := m.Called(orderID)
	var qr []byte
	if ret.Get(0) != nil {
		qr = ret.Get(0).([]byte)
	}
	return qr, ret.Error(1)
}

type OrderServiceInterface struct {
	mock.Mock
}

func NewOrderServiceInterface(t testingT) *OrderServiceInterface {
	m := &OrderServiceInterface{}
	setup(t, &m.Mock)
	return m
}

func (m *OrderServiceInterface) Create(ctx context.Context, input service.CreateOrderInput) (*domain.Order, error) {
	ret := m.Called(ctx, input)
	var order *domain.Order
	if ret.Get(0) != nil {
		order = ret.Get(0).(*domain.Order)
	}
	return order, ret.Error(1)
}

func (m *OrderServiceInterface) Get(ctx context.Context, orderID, callerID int) (*domain.Order, error) {
	ret := m.Called(ctx, orderID, callerID)
	var order *domain.Order
	if ret.Get(0) != nil {
		order = ret.Get(0).(*domain.Order)
	}
	return order, ret.Error(1)
}

func (m *OrderServiceInterface) ListForUser(ctx context.Context, userID int) ([]domain.Order, error) {
	ret := m.Called(ctx, userID)
	var orders []domain.Order
	if ret.Get(0) != nil {
		orders = ret.Get(0).([]domain.Order)
	}
	return orders, ret.Error(1)
}

func (m *OrderServiceInterface) UpdateStatus(ctx context.Context, orderID int, status domain.OrderStatus, callerID int) (*domain.Order, error) {
	ret := m.Called(ctx, orderID, status, callerID)
	var order *domain.Order
	if ret.Get(0) != nil {
		order = ret.Get(0).(*domain.Order)
	}
	return order, ret.Error(1)
}

func (m *OrderServiceInterface) Cancel(ctx context.Context, orderID, callerID int) (*domain.Order, error) {
	ret := m.Called(ctx, orderID, callerID)
	var order *domain.Order
	if ret.Get(0) != nil {
		order = ret.Get(0).(*domain.Order)
	}
	return order, ret.Error(1)
}

func (m *OrderServiceInterface) TrackingQRCode(ctx context.Context, orderID int) ([]byte, error) {
	ret := m.Called(ctx, orderID)
	var qr []byte
	if ret.Get(0) != nil {
		qr = ret.Get(0).([]byte)
	}
	return qr, ret.Error(1)
}

type AuthServiceInterface struct {
	mock.Mock
}

func NewAuthServiceInterface(t testingT) *AuthServiceInterface {
	m := &AuthServiceInterface{}
	setup(t, &m.Mock)
	return m
}

func (m *AuthServiceInterface) Register(ctx context.Context, input service.RegisterInput) (*domain.User, error) {
	ret := m.Called(ctx, input)
	var user *domain.User
	if ret.Get(0) != nil {
		user = ret.Get(0).(*domain.User)
	}
	return user, ret.Error(1)
}

func (m *AuthServiceInterface) Login(ctx context.Context, creds service.Credentials) (*domain.User, error) {
	ret := m.Called(ctx, creds)
	var user *domain.User
	if ret.Get(0) != nil {
		user = ret.Get(0).(*domain.User)
	}
	return user, ret.Error(1)
}

func (m *AuthServiceInterface) Profile(ctx context.Context, userID int) (*domain.User, error) {
	ret := m.Called(ctx, userID)
	var user *domain.User
	if ret.Get(0) != nil {
		user = ret.Get(0).(*domain.User)
	}
	return user, ret.Error(1)
}

type RestaurantServiceInterface struct {
	mock.Mock
}

func NewRestaurantServiceInterface(t testingT) *RestaurantServiceInterface {
	m := &RestaurantServiceInterface{}
	setup(t, &m.Mock)
	return m
}

func (m *RestaurantServiceInterface) List(ctx context.Context, search, category string) ([]domain.Restaurant, error) {
	ret := m.Called(ctx, search, category)
	var restaurants []domain.Restaurant
	if ret.Get(0) != nil {
		restaurants = ret.Get(0).([]domain.Restaurant)
	}
	return restaurants, ret.Error(1)
}

func (m *RestaurantServiceInterface) Featured(ctx context.Context) ([]domain.Restaurant, error) {
	ret := m.Called(ctx)
	var restaurants []domain.Restaurant
	if ret.Get(0) != nil {
		restaurants = ret.Get(0).([]domain.Restaurant)
	}
	return restaurants, ret.Error(1)
}

func (m *RestaurantServiceInterface) Get(ctx context.Context, id int) (*domain.Restaurant, error) {
	ret := m.Called(ctx, id)
	var rest *domain.Restaurant
	if ret.Get(0) != nil {
		rest = ret.Get(0).(*domain.Restaurant)
	}
	return rest, ret.Error(1)
}
