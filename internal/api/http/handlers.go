package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"dk-delivery/internal/cart"
	"dk-delivery/internal/domain"
	"dk-delivery/internal/service"

	"github.com/gorilla/mux"
)

// tokenTTL is how long an issued bearer token stays valid.
const tokenTTL = 7 * 24 * time.Hour

type Handler struct {
	Orders      service.OrderServiceInterface
	Restaurants service.RestaurantServiceInterface
	Auth        service.AuthServiceInterface
	CartStore   cart.Store

	tokens *Authenticator
}

func NewHandler(orderSvc service.OrderServiceInterface, restSvc service.RestaurantServiceInterface, authSvc service.AuthServiceInterface, cartStore cart.Store) *Handler {
	return &Handler{
		Orders:      orderSvc,
		Restaurants: restSvc,
		Auth:        authSvc,
		CartStore:   cartStore,
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router, auth *Authenticator) {
	h.tokens = auth

	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	r.HandleFunc("/api/auth/register", h.register).Methods("POST")
	r.HandleFunc("/api/auth/login", h.login).Methods("POST")

	r.HandleFunc("/api/restaurants", h.getRestaurants).Methods("GET")
	r.HandleFunc("/api/restaurants/featured", h.getFeaturedRestaurants).Methods("GET")
	r.HandleFunc("/api/restaurants/{id}", h.getRestaurant).Methods("GET")

	protected := r.NewRoute().Subrouter()
	protected.Use(auth.Middleware)
	protected.HandleFunc("/api/auth/profile", h.getProfile).Methods("GET")

	protected.HandleFunc("/api/orders", h.createOrder).Methods("POST")
	protected.HandleFunc("/api/orders", h.getUserOrders).Methods("GET")
	protected.HandleFunc("/api/orders/{id}", h.getOrder).Methods("GET")
	protected.HandleFunc("/api/orders/{id}/qrcode", h.getOrderQRCode).Methods("GET")
	protected.HandleFunc("/api/orders/{id}/status", h.updateOrderStatus).Methods("PUT")
	protected.HandleFunc("/api/orders/{id}/cancel", h.cancelOrder).Methods("PUT")

	protected.HandleFunc("/api/cart", h.getCart).Methods("GET")
	protected.HandleFunc("/api/cart", h.clearCart).Methods("DELETE")
	protected.HandleFunc("/api/cart/items", h.addCartItem).Methods("POST")
	protected.HandleFunc("/api/cart/items/{itemId}", h.updateCartItem).Methods("PUT")
	protected.HandleFunc("/api/cart/items/{itemId}", h.removeCartItem).Methods("DELETE")
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"service":   "order-svc",
		"timestamp": time.Now().Format(time.RFC3339),
	}
	writeJSON(w, http.StatusOK, response)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writeError maps the service error taxonomy onto HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, service.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, service.ErrNotAuthorized):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, service.ErrConflict):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, service.ErrDependency):
		http.Error(w, err.Error(), http.StatusBadGateway)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var input service.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid JSON format: "+err.Error(), http.StatusBadRequest)
		return
	}

	user, err := h.Auth.Register(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}
	h.writeSession(w, http.StatusCreated, user)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var creds service.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		http.Error(w, "Invalid JSON format: "+err.Error(), http.StatusBadRequest)
		return
	}

	user, err := h.Auth.Login(r.Context(), creds)
	if err != nil {
		writeError(w, err)
		return
	}
	h.writeSession(w, http.StatusOK, user)
}

func (h *Handler) writeSession(w http.ResponseWriter, status int, user *domain.User) {
	token, err := h.tokens.Issue(user.ID, tokenTTL)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, status, map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	user, err := h.Auth.Profile(r.Context(), CallerID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) getRestaurants(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")
	category := r.URL.Query().Get("category")

	restaurants, err := h.Restaurants.List(r.Context(), search, category)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, restaurants)
}

func (h *Handler) getFeaturedRestaurants(w http.ResponseWriter, r *http.Request) {
	restaurants, err := h.Restaurants.Featured(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, restaurants)
}

func (h *Handler) getRestaurant(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	rest, err := h.Restaurants.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rest)
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var input service.CreateOrderInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid JSON format: "+err.Error(), http.StatusBadRequest)
		return
	}
	input.UserID = CallerID(r)

	order, err := h.Orders.Create(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

func (h *Handler) getUserOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Orders.ListForUser(r.Context(), CallerID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	orderID, _ := strconv.Atoi(mux.Vars(r)["id"])
	order, err := h.Orders.Get(r.Context(), orderID, CallerID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID, _ := strconv.Atoi(mux.Vars(r)["id"])

	var payload struct {
		OrderStatus string `json:"order_status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	order, err := h.Orders.UpdateStatus(r.Context(), orderID, domain.OrderStatus(payload.OrderStatus), CallerID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	orderID, _ := strconv.Atoi(mux.Vars(r)["id"])
	order, err := h.Orders.Cancel(r.Context(), orderID, CallerID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) getOrderQRCode(w http.ResponseWriter, r *http.Request) {
	orderID, _ := strconv.Atoi(mux.Vars(r)["id"])
	qr, err := h.Orders.TrackingQRCode(r.Context(), orderID)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(qr)
}

func (h *Handler) userCart(r *http.Request) *cart.Cart {
	key := cart.StorageKey + ":" + strconv.Itoa(CallerID(r))
	return cart.New(h.CartStore, key)
}

type cartView struct {
	Items        []cart.Item `json:"items"`
	Total        string      `json:"total"`
	ItemCount    int         `json:"item_count"`
	RestaurantID int         `json:"restaurant_id,omitempty"`
}

func viewOf(c *cart.Cart) cartView {
	view := cartView{
		Items:     c.Items(),
		Total:     c.Total().String(),
		ItemCount: c.ItemCount(),
	}
	if id, ok := c.RestaurantID(); ok {
		view.RestaurantID = id
	}
	return view
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, viewOf(h.userCart(r)))
}

// addCartItem puts an item in the caller's cart. Adding from a different
// restaurant than the current cart needs an explicit replace=true|false
// query parameter; without one the request is rejected with 409 so the
// client can ask the user.
func (h *Handler) addCartItem(w http.ResponseWriter, r *http.Request) {
	var item cart.Item
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if item.ID == "" || item.RestaurantID <= 0 || item.Quantity < 1 {
		http.Error(w, "Invalid cart item", http.StatusBadRequest)
		return
	}

	replace := r.URL.Query().Get("replace")
	if replace != "" && replace != "true" && replace != "false" {
		http.Error(w, "Invalid replace parameter, must be true or false", http.StatusBadRequest)
		return
	}

	c := h.userCart(r)
	if current, ok := c.RestaurantID(); ok && current != item.RestaurantID && replace == "" {
		http.Error(w, "Cart contains items from a different restaurant", http.StatusConflict)
		return
	}

	c.Add(item, func(int, cart.Item) cart.Decision {
		if replace == "true" {
			return cart.ReplaceCart
		}
		return cart.KeepCart
	})

	writeJSON(w, http.StatusOK, viewOf(c))
}

func (h *Handler) updateCartItem(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	c := h.userCart(r)
	c.SetQuantity(mux.Vars(r)["itemId"], payload.Quantity)
	writeJSON(w, http.StatusOK, viewOf(c))
}

func (h *Handler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	c := h.userCart(r)
	c.Remove(mux.Vars(r)["itemId"])
	writeJSON(w, http.StatusOK, viewOf(c))
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	c := h.userCart(r)
	c.Clear()
	writeJSON(w, http.StatusOK, viewOf(c))
}
