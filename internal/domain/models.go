package domain

import "time"

type PaymentMethod string

const (
	PaymentTelebirr PaymentMethod = "telebirr"
	PaymentCard     PaymentMethod = "card"
	PaymentCash     PaymentMethod = "cash"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentTelebirr, PaymentCard, PaymentCash:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

type GeoPoint struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

type DeliveryAddress struct {
	Street     string    `json:"street"`
	City       string    `json:"city"`
	Region     string    `json:"region,omitempty"`
	PostalCode string    `json:"postal_code,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	Location   *GeoPoint `json:"location,omitempty"`
}

type ItemOption struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	Price Money  `json:"price"`
}

type OrderLineItem struct {
	Name     string       `json:"name"`
	Quantity int          `json:"quantity"`
	Price    Money        `json:"price"`
	Notes    string       `json:"notes,omitempty"`
	Options  []ItemOption `json:"options,omitempty"`
}

type Order struct {
	ID                    int                `json:"id"`
	UserID                int                `json:"user_id"`
	RestaurantID          int                `json:"restaurant_id"`
	Items                 []OrderLineItem    `json:"items"`
	DeliveryAddress       DeliveryAddress    `json:"delivery_address"`
	PaymentMethod         PaymentMethod      `json:"payment_method"`
	PaymentStatus         PaymentStatus      `json:"payment_status"`
	OrderStatus           OrderStatus        `json:"order_status"`
	Subtotal              Money              `json:"subtotal"`
	DeliveryFee           Money              `json:"delivery_fee"`
	Discount              Money              `json:"discount"`
	Total                 Money              `json:"total"`
	EstimatedDeliveryTime string             `json:"estimated_delivery_time"`
	ActualDeliveryTime    *time.Time         `json:"actual_delivery_time,omitempty"`
	DriverID              *int               `json:"driver_id,omitempty"`
	Restaurant            *RestaurantSummary `json:"restaurant,omitempty"`
	Driver                *DriverSummary     `json:"driver,omitempty"`
	CreatedAt             time.Time          `json:"created_at"`
	UpdatedAt             time.Time          `json:"updated_at"`
}

type Restaurant struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	CuisineType  string    `json:"cuisine_type"`
	ImageURL     string    `json:"image_url"`
	Rating       float64   `json:"rating"`
	DeliveryTime string    `json:"delivery_time"`
	DeliveryFee  Money     `json:"delivery_fee"`
	IsPromoted   bool      `json:"is_promoted"`
	Category     string    `json:"category"`
	CreatedAt    time.Time `json:"created_at"`
}

type RestaurantSummary struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	ImageURL    string `json:"image_url"`
	CuisineType string `json:"cuisine_type,omitempty"`
}

type DriverSummary struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type User struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email,omitempty"`
	Phone         string `json:"phone,omitempty"`
	IsAdmin       bool   `json:"is_admin"`
	LoyaltyPoints int    `json:"loyalty_points"`
}

type OrderEvent struct {
	Type         string      `json:"type"`
	OrderID      int         `json:"order_id"`
	UserID       int         `json:"user_id"`
	RestaurantID int         `json:"restaurant_id"`
	Status       OrderStatus `json:"status"`
	Timestamp    time.Time   `json:"timestamp"`
}
