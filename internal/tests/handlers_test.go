package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	httpapi "dk-delivery/internal/api/http"
	"dk-delivery/internal/domain"
	"dk-delivery/internal/mocks"
	"dk-delivery/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

const testSecret = "test-secret"

type memoryStore struct {
	data map[string]string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: map[string]string{}}
}

func (s *memoryStore) Get(key string) (string, error) { return s.data[key], nil }

func (s *memoryStore) Set(key, value string) error {
	s.data[key] = value
	return nil
}

type testEnv struct {
	orders      *mocks.OrderServiceInterface
	restaurants *mocks.RestaurantServiceInterface
	accounts    *mocks.AuthServiceInterface
	store       *memoryStore
	router      http.Handler
	auth        *httpapi.Authenticator
}

func setupTestRouter(t *testing.T) testEnv {
	orders := mocks.NewOrderServiceInterface(t)
	restaurants := mocks.NewRestaurantServiceInterface(t)
	accounts := mocks.NewAuthServiceInterface(t)
	store := newMemoryStore()

	auth := httpapi.NewAuthenticator(testSecret)
	handler := httpapi.NewHandler(orders, restaurants, accounts, store)
	return testEnv{
		orders:      orders,
		restaurants: restaurants,
		accounts:    accounts,
		store:       store,
		router:      httpapi.NewRouter(handler, auth),
		auth:        auth,
	}
}

func (e testEnv) request(t *testing.T, method, path string, body string, userID int) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Buffer
	if body != "" {
		reader = bytes.NewBufferString(body)
	} else {
		reader = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, reader)
	if userID != 0 {
		token, err := e.auth.Issue(userID, time.Hour)
		if err != nil {
			t.Fatalf("failed to issue token: %v", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	recorder := httptest.NewRecorder()
	e.router.ServeHTTP(recorder, req)
	return recorder
}

func TestHandler_createOrder(t *testing.T) {
	payload := `{
		"restaurant_id": 3,
		"items": [{"name": "Kitfo", "quantity": 2, "price": "100 ETB"}],
		"delivery_address": {"street": "Bole Road", "city": "Addis Ababa"},
		"payment_method": "telebirr",
		"subtotal": "200 ETB",
		"delivery_fee": "45 ETB",
		"total": "245 ETB"
	}`

	tests := []struct {
		name         string
		serviceErr   error
		expectedCode int
	}{
		{name: "created", serviceErr: nil, expectedCode: http.StatusCreated},
		{name: "validation", serviceErr: service.ErrValidation, expectedCode: http.StatusBadRequest},
		{name: "restaurant_missing", serviceErr: service.ErrNotFound, expectedCode: http.StatusNotFound},
		{name: "dependency_down", serviceErr: service.ErrDependency, expectedCode: http.StatusBadGateway},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			env := setupTestRouter(t)
			if testCase.serviceErr == nil {
				env.orders.On("Create", mock.Anything, mock.Anything).
					Return(&domain.Order{ID: 42, UserID: 7}, nil).Once()
			} else {
				env.orders.On("Create", mock.Anything, mock.Anything).
					Return(nil, testCase.serviceErr).Once()
			}

			recorder := env.request(t, "POST", "/api/orders", payload, 7)
			assert.Equal(t, testCase.expectedCode, recorder.Code)
		})
	}
}

func TestHandler_createOrder_CallerFromToken(t *testing.T) {
	env := setupTestRouter(t)
	env.orders.On("Create", mock.Anything, mock.MatchedBy(func(in service.CreateOrderInput) bool {
		return in.UserID == 7
	})).Return(&domain.Order{ID: 1, UserID: 7}, nil).Once()

	recorder := env.request(t, "POST", "/api/orders",
		`{"restaurant_id":3,"items":[{"name":"x","quantity":1,"price":"10 ETB"}],"delivery_address":{"street":"s","city":"c"},"payment_method":"cash","subtotal":"10 ETB","delivery_fee":"0 ETB","total":"10 ETB"}`, 7)
	assert.Equal(t, http.StatusCreated, recorder.Code)
}

func TestHandler_RequiresToken(t *testing.T) {
	env := setupTestRouter(t)

	for _, route := range []struct{ method, path string }{
		{"POST", "/api/orders"},
		{"GET", "/api/orders"},
		{"GET", "/api/orders/1"},
		{"GET", "/api/orders/1/qrcode"},
		{"PUT", "/api/orders/1/status"},
		{"PUT", "/api/orders/1/cancel"},
		{"GET", "/api/cart"},
		{"GET", "/api/auth/profile"},
	} {
		recorder := env.request(t, route.method, route.path, "", 0)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code, "%s %s", route.method, route.path)
	}
}

func TestHandler_getOrder(t *testing.T) {
	env := setupTestRouter(t)
	env.orders.On("Get", mock.Anything, 42, 7).
		Return(&domain.Order{ID: 42, UserID: 7, OrderStatus: domain.StatusConfirmed}, nil).Once()

	recorder := env.request(t, "GET", "/api/orders/42", "", 7)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"order_status":"confirmed"`)
}

func TestHandler_getOrder_NotAuthorized(t *testing.T) {
	env := setupTestRouter(t)
	env.orders.On("Get", mock.Anything, 42, 8).
		Return(nil, service.ErrNotAuthorized).Once()

	recorder := env.request(t, "GET", "/api/orders/42", "", 8)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestHandler_getUserOrders(t *testing.T) {
	env := setupTestRouter(t)
	env.orders.On("ListForUser", mock.Anything, 7).
		Return([]domain.Order{{ID: 2}, {ID: 1}}, nil).Once()

	recorder := env.request(t, "GET", "/api/orders", "", 7)
	assert.Equal(t, http.StatusOK, recorder.Code)

	var orders []domain.Order
	json.NewDecoder(recorder.Body).Decode(&orders)
	assert.Len(t, orders, 2)
	assert.Equal(t, 2, orders[0].ID)
}

func TestHandler_updateOrderStatus(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		env := setupTestRouter(t)
		env.orders.On("UpdateStatus", mock.Anything, 1, domain.StatusConfirmed, 99).
			Return(&domain.Order{ID: 1, OrderStatus: domain.StatusConfirmed}, nil).Once()

		recorder := env.request(t, "PUT", "/api/orders/1/status", `{"order_status":"confirmed"}`, 99)
		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("illegal_jump", func(t *testing.T) {
		env := setupTestRouter(t)
		env.orders.On("UpdateStatus", mock.Anything, 1, domain.StatusDelivered, 99).
			Return(nil, service.ErrConflict).Once()

		recorder := env.request(t, "PUT", "/api/orders/1/status", `{"order_status":"delivered"}`, 99)
		assert.Equal(t, http.StatusConflict, recorder.Code)
	})
}

func TestHandler_cancelOrder(t *testing.T) {
	env := setupTestRouter(t)
	env.orders.On("Cancel", mock.Anything, 1, 7).
		Return(&domain.Order{ID: 1, OrderStatus: domain.StatusCancelled}, nil).Once()

	recorder := env.request(t, "PUT", "/api/orders/1/cancel", "", 7)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"order_status":"cancelled"`)
}

func TestHandler_getOrderQRCode(t *testing.T) {
	env := setupTestRouter(t)
	env.orders.On("TrackingQRCode", mock.Anything, 1).Return([]byte("png-bytes"), nil).Once()

	recorder := env.request(t, "GET", "/api/orders/1/qrcode", "", 7)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "image/png", recorder.Header().Get("Content-Type"))
}

func TestHandler_register(t *testing.T) {
	env := setupTestRouter(t)
	env.accounts.On("Register", mock.Anything, service.RegisterInput{
		Name:     "Abebe Kebede",
		Email:    "abebe@example.com",
		Phone:    "+251911000000",
		Password: "secret123",
	}).Return(&domain.User{ID: 7, Name: "Abebe Kebede", Email: "abebe@example.com"}, nil).Once()

	recorder := env.request(t, "POST", "/api/auth/register",
		`{"name":"Abebe Kebede","email":"abebe@example.com","phone":"+251911000000","password":"secret123"}`, 0)
	assert.Equal(t, http.StatusCreated, recorder.Code)

	var session struct {
		Token string      `json:"token"`
		User  domain.User `json:"user"`
	}
	json.NewDecoder(recorder.Body).Decode(&session)
	assert.Equal(t, 7, session.User.ID)

	// The issued token must authenticate as the new user.
	callerID, err := env.auth.Verify(session.Token)
	assert.NoError(t, err)
	assert.Equal(t, 7, callerID)
}

func TestHandler_register_DuplicateEmail(t *testing.T) {
	env := setupTestRouter(t)
	env.accounts.On("Register", mock.Anything, mock.Anything).
		Return(nil, service.ErrConflict).Once()

	recorder := env.request(t, "POST", "/api/auth/register",
		`{"name":"x","email":"abebe@example.com","phone":"1","password":"secret123"}`, 0)
	assert.Equal(t, http.StatusConflict, recorder.Code)
}

func TestHandler_login(t *testing.T) {
	env := setupTestRouter(t)
	env.accounts.On("Login", mock.Anything, service.Credentials{
		Email:    "abebe@example.com",
		Password: "secret123",
	}).Return(&domain.User{ID: 7}, nil).Once()
	env.accounts.On("Profile", mock.Anything, 7).
		Return(&domain.User{ID: 7, LoyaltyPoints: 42}, nil).Once()

	recorder := env.request(t, "POST", "/api/auth/login",
		`{"email":"abebe@example.com","password":"secret123"}`, 0)
	assert.Equal(t, http.StatusOK, recorder.Code)

	var session struct {
		Token string `json:"token"`
	}
	json.NewDecoder(recorder.Body).Decode(&session)

	// The returned token opens protected routes.
	req := httptest.NewRequest("GET", "/api/auth/profile", nil)
	req.Header.Set("Authorization", "Bearer "+session.Token)
	profile := httptest.NewRecorder()
	env.router.ServeHTTP(profile, req)
	assert.Equal(t, http.StatusOK, profile.Code)
	assert.Contains(t, profile.Body.String(), `"loyalty_points":42`)
}

func TestHandler_login_BadCredentials(t *testing.T) {
	env := setupTestRouter(t)
	env.accounts.On("Login", mock.Anything, mock.Anything).
		Return(nil, service.ErrNotAuthorized).Once()

	recorder := env.request(t, "POST", "/api/auth/login",
		`{"email":"abebe@example.com","password":"wrong"}`, 0)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestHandler_getRestaurants(t *testing.T) {
	env := setupTestRouter(t)
	env.restaurants.On("List", mock.Anything, "kitfo", "").
		Return([]domain.Restaurant{{ID: 1, Name: "Habesha Kitfo House"}}, nil).Once()

	recorder := env.request(t, "GET", "/api/restaurants?search=kitfo", "", 0)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Habesha Kitfo House")
}

func TestHandler_cartFlow(t *testing.T) {
	env := setupTestRouter(t)

	add := func(body, query string) *httptest.ResponseRecorder {
		return env.request(t, "POST", "/api/cart/items"+query, body, 7)
	}

	recorder := add(`{"id":"kitfo","restaurant_id":1,"name":"Kitfo","price":"100 ETB","quantity":2}`, "")
	assert.Equal(t, http.StatusOK, recorder.Code)

	recorder = add(`{"id":"shiro","restaurant_id":1,"name":"Shiro","price":"50 ETB","quantity":1,"options":[{"name":"extra","value":"injera","price":"10 ETB"}]}`, "")
	assert.Equal(t, http.StatusOK, recorder.Code)

	var view struct {
		Total        string `json:"total"`
		ItemCount    int    `json:"item_count"`
		RestaurantID int    `json:"restaurant_id"`
	}
	json.NewDecoder(recorder.Body).Decode(&view)
	assert.Equal(t, "260 ETB", view.Total)
	assert.Equal(t, 3, view.ItemCount)
	assert.Equal(t, 1, view.RestaurantID)

	// A different restaurant without an explicit decision is a conflict.
	recorder = add(`{"id":"pizza","restaurant_id":2,"name":"Pizza","price":"150 ETB","quantity":1}`, "")
	assert.Equal(t, http.StatusConflict, recorder.Code)

	// Declining keeps the cart.
	recorder = add(`{"id":"pizza","restaurant_id":2,"name":"Pizza","price":"150 ETB","quantity":1}`, "?replace=false")
	assert.Equal(t, http.StatusOK, recorder.Code)
	json.NewDecoder(recorder.Body).Decode(&view)
	assert.Equal(t, 1, view.RestaurantID)
	assert.Equal(t, 3, view.ItemCount)

	// Accepting replaces it with exactly the new item.
	recorder = add(`{"id":"pizza","restaurant_id":2,"name":"Pizza","price":"150 ETB","quantity":1}`, "?replace=true")
	assert.Equal(t, http.StatusOK, recorder.Code)
	json.NewDecoder(recorder.Body).Decode(&view)
	assert.Equal(t, 2, view.RestaurantID)
	assert.Equal(t, 1, view.ItemCount)
	assert.Equal(t, "150 ETB", view.Total)

	recorder = env.request(t, "PUT", "/api/cart/items/pizza", `{"quantity":0}`, 7)
	assert.Equal(t, http.StatusOK, recorder.Code)
	json.NewDecoder(recorder.Body).Decode(&view)
	assert.Equal(t, 0, view.ItemCount)
}

func TestHandler_addCartItem_BadReplaceValue(t *testing.T) {
	env := setupTestRouter(t)

	recorder := env.request(t, "POST", "/api/cart/items",
		`{"id":"kitfo","restaurant_id":1,"name":"Kitfo","price":"100 ETB","quantity":1}`, 7)
	assert.Equal(t, http.StatusOK, recorder.Code)

	// Anything but true/false is rejected, not treated as a decline.
	recorder = env.request(t, "POST", "/api/cart/items?replace=yes",
		`{"id":"pizza","restaurant_id":2,"name":"Pizza","price":"150 ETB","quantity":1}`, 7)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = env.request(t, "GET", "/api/cart", "", 7)
	var view struct {
		ItemCount    int `json:"item_count"`
		RestaurantID int `json:"restaurant_id"`
	}
	json.NewDecoder(recorder.Body).Decode(&view)
	assert.Equal(t, 1, view.ItemCount)
	assert.Equal(t, 1, view.RestaurantID)
}

func TestHandler_cartIsPerUser(t *testing.T) {
	env := setupTestRouter(t)

	recorder := env.request(t, "POST", "/api/cart/items",
		`{"id":"kitfo","restaurant_id":1,"name":"Kitfo","price":"100 ETB","quantity":1}`, 7)
	assert.Equal(t, http.StatusOK, recorder.Code)

	recorder = env.request(t, "GET", "/api/cart", "", 8)
	var view struct {
		ItemCount int `json:"item_count"`
	}
	json.NewDecoder(recorder.Body).Decode(&view)
	assert.Equal(t, 0, view.ItemCount, "user 8 must not see user 7's cart")
}

func TestHandler_healthCheck(t *testing.T) {
	env := setupTestRouter(t)
	recorder := env.request(t, "GET", "/health", "", 0)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "healthy")
}
