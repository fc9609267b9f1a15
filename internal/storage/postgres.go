package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"dk-delivery/internal/domain"
)

type PostgresRepository struct {
	DB *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

// EnsureSchema creates the tables the service needs when they are missing.
func (r *PostgresRepository) EnsureSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT UNIQUE,
			phone TEXT NOT NULL DEFAULT '',
			password_hash TEXT NOT NULL DEFAULT '',
			is_admin BOOLEAN NOT NULL DEFAULT FALSE,
			loyalty_points INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS restaurants (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			cuisine_type TEXT NOT NULL DEFAULT '',
			image_url TEXT NOT NULL DEFAULT '',
			rating NUMERIC(3,1) NOT NULL DEFAULT 0,
			delivery_time TEXT NOT NULL DEFAULT '',
			delivery_fee BIGINT NOT NULL DEFAULT 0,
			is_promoted BOOLEAN NOT NULL DEFAULT FALSE,
			category TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS restaurant_staff (
			user_id INTEGER NOT NULL REFERENCES users(id),
			restaurant_id INTEGER NOT NULL REFERENCES restaurants(id),
			capability TEXT NOT NULL,
			PRIMARY KEY (user_id, restaurant_id, capability)
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id SERIAL PRIMARY KEY,
			user_id INTEGER NOT NULL REFERENCES users(id),
			restaurant_id INTEGER NOT NULL REFERENCES restaurants(id),
			items JSONB NOT NULL,
			delivery_address JSONB NOT NULL,
			payment_method TEXT NOT NULL,
			payment_status TEXT NOT NULL DEFAULT 'pending',
			order_status TEXT NOT NULL DEFAULT 'pending',
			subtotal BIGINT NOT NULL,
			delivery_fee BIGINT NOT NULL,
			discount BIGINT NOT NULL DEFAULT 0,
			total BIGINT NOT NULL,
			currency TEXT NOT NULL DEFAULT 'ETB',
			estimated_delivery_time TEXT NOT NULL DEFAULT '',
			actual_delivery_time TIMESTAMPTZ,
			driver_id INTEGER REFERENCES users(id),
			qr_code BYTEA,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS orders_user_created_idx ON orders (user_id, created_at DESC)`,
	}

	for _, stmt := range statements {
		if _, err := r.DB.Exec(stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

func (r *PostgresRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return err
	}
	address, err := json.Marshal(order.DeliveryAddress)
	if err != nil {
		return err
	}

	return r.DB.QueryRowContext(ctx, `
		INSERT INTO orders (user_id, restaurant_id, items, delivery_address,
			payment_method, payment_status, order_status,
			subtotal, delivery_fee, discount, total, currency,
			estimated_delivery_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at
	`, order.UserID, order.RestaurantID, items, address,
		order.PaymentMethod, order.PaymentStatus, order.OrderStatus,
		order.Subtotal.Amount, order.DeliveryFee.Amount, order.Discount.Amount,
		order.Total.Amount, domain.DefaultCurrency, order.EstimatedDeliveryTime).
		Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
}

func (r *PostgresRepository) GetOrder(ctx context.Context, orderID int) (*domain.Order, error) {
	var order domain.Order
	var items, address []byte
	var currency string
	var subtotal, deliveryFee, discount, total int64

	err := r.DB.QueryRowContext(ctx, `
		SELECT id, user_id, restaurant_id, items, delivery_address,
			payment_method, payment_status, order_status,
			subtotal, delivery_fee, discount, total, currency,
			estimated_delivery_time, actual_delivery_time, driver_id,
			created_at, updated_at
		FROM orders WHERE id = $1
	`, orderID).Scan(&order.ID, &order.UserID, &order.RestaurantID, &items, &address,
		&order.PaymentMethod, &order.PaymentStatus, &order.OrderStatus,
		&subtotal, &deliveryFee, &discount, &total, &currency,
		&order.EstimatedDeliveryTime, &order.ActualDeliveryTime, &order.DriverID,
		&order.CreatedAt, &order.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(items, &order.Items); err != nil {
		return nil, fmt.Errorf("decode order %d items: %w", order.ID, err)
	}
	if err := json.Unmarshal(address, &order.DeliveryAddress); err != nil {
		return nil, fmt.Errorf("decode order %d address: %w", order.ID, err)
	}

	order.Subtotal = domain.Money{Amount: subtotal, Currency: currency}
	order.DeliveryFee = domain.Money{Amount: deliveryFee, Currency: currency}
	order.Discount = domain.Money{Amount: discount, Currency: currency}
	order.Total = domain.Money{Amount: total, Currency: currency}

	return &order, nil
}

// ListUserOrders returns a user's orders newest first, each carrying the
// light restaurant projection (name and image only).
func (r *PostgresRepository) ListUserOrders(ctx context.Context, userID int) ([]domain.Order, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT o.id, o.user_id, o.restaurant_id, o.items,
			o.payment_method, o.payment_status, o.order_status,
			o.subtotal, o.delivery_fee, o.discount, o.total, o.currency,
			o.estimated_delivery_time, o.actual_delivery_time,
			o.created_at, o.updated_at,
			COALESCE(r.name, ''), COALESCE(r.image_url, '')
		FROM orders o
		LEFT JOIN restaurants r ON r.id = o.restaurant_id
		WHERE o.user_id = $1
		ORDER BY o.created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		var order domain.Order
		var items []byte
		var currency, restName, restImage string
		var subtotal, deliveryFee, discount, total int64
		if err := rows.Scan(&order.ID, &order.UserID, &order.RestaurantID, &items,
			&order.PaymentMethod, &order.PaymentStatus, &order.OrderStatus,
			&subtotal, &deliveryFee, &discount, &total, &currency,
			&order.EstimatedDeliveryTime, &order.ActualDeliveryTime,
			&order.CreatedAt, &order.UpdatedAt,
			&restName, &restImage); err != nil {
			continue
		}
		if err := json.Unmarshal(items, &order.Items); err != nil {
			continue
		}

		order.Subtotal = domain.Money{Amount: subtotal, Currency: currency}
		order.DeliveryFee = domain.Money{Amount: deliveryFee, Currency: currency}
		order.Discount = domain.Money{Amount: discount, Currency: currency}
		order.Total = domain.Money{Amount: total, Currency: currency}
		order.Restaurant = &domain.RestaurantSummary{
			ID:       order.RestaurantID,
			Name:     restName,
			ImageURL: restImage,
		}

		orders = append(orders, order)
	}
	return orders, nil
}

func (r *PostgresRepository) UpdateOrderStatus(ctx context.Context, orderID int, from, to domain.OrderStatus, deliveredAt bool) (bool, error) {
	result, err := r.DB.ExecContext(ctx, `
		UPDATE orders
		SET order_status = $1,
			updated_at = NOW(),
			actual_delivery_time = CASE WHEN $2 THEN NOW() ELSE actual_delivery_time END
		WHERE id = $3 AND order_status = $4
	`, to, deliveredAt, orderID, from)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *PostgresRepository) SaveQRCode(ctx context.Context, orderID int, qr []byte) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE orders SET qr_code = $1 WHERE id = $2`, qr, orderID)
	return err
}

func (r *PostgresRepository) GetQRCode(ctx context.Context, orderID int) ([]byte, error) {
	var qr []byte
	err := r.DB.QueryRowContext(ctx, `SELECT qr_code FROM orders WHERE id = $1`, orderID).Scan(&qr)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return qr, nil
}

func (r *PostgresRepository) Get(ctx context.Context, userID int) (*domain.User, error) {
	var user domain.User
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, name, COALESCE(email, ''), phone, is_admin, loyalty_points
		FROM users WHERE id = $1
	`, userID).Scan(&user.ID, &user.Name, &user.Email, &user.Phone,
		&user.IsAdmin, &user.LoyaltyPoints)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *PostgresRepository) CreateUser(ctx context.Context, user *domain.User, passwordHash string) error {
	return r.DB.QueryRowContext(ctx, `
		INSERT INTO users (name, email, phone, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, user.Name, user.Email, user.Phone, passwordHash).Scan(&user.ID)
}

func (r *PostgresRepository) UserByEmail(ctx context.Context, email string) (*domain.User, string, error) {
	var user domain.User
	var hash string
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, name, COALESCE(email, ''), phone, is_admin, loyalty_points, password_hash
		FROM users WHERE email = $1
	`, email).Scan(&user.ID, &user.Name, &user.Email, &user.Phone,
		&user.IsAdmin, &user.LoyaltyPoints, &hash)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", err
	}
	return &user, hash, nil
}

// IncrementLoyaltyPoints bumps the counter in a single statement so
// concurrent order creation by the same user never loses an award.
func (r *PostgresRepository) IncrementLoyaltyPoints(ctx context.Context, userID, delta int) error {
	result, err := r.DB.ExecContext(ctx, `
		UPDATE users SET loyalty_points = loyalty_points + $1 WHERE id = $2
	`, delta, userID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("user %d not found", userID)
	}
	return nil
}

func (r *PostgresRepository) DriverSummary(ctx context.Context, driverID int) (*domain.DriverSummary, error) {
	var driver domain.DriverSummary
	err := r.DB.QueryRowContext(ctx, `
		SELECT name, COALESCE(phone, '') FROM users WHERE id = $1
	`, driverID).Scan(&driver.Name, &driver.Phone)
	if err != nil {
		return nil, err
	}
	return &driver, nil
}

func (r *PostgresRepository) HasCapability(ctx context.Context, userID, restaurantID int, capability string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM restaurant_staff
			WHERE user_id = $1 AND restaurant_id = $2 AND capability = $3
		)
	`, userID, restaurantID, capability).Scan(&exists)
	return exists, err
}

func (r *PostgresRepository) Exists(ctx context.Context, restaurantID int) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM restaurants WHERE id = $1)`, restaurantID).Scan(&exists)
	return exists, err
}

func (r *PostgresRepository) Summary(ctx context.Context, restaurantID int) (*domain.RestaurantSummary, error) {
	var summary domain.RestaurantSummary
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, name, COALESCE(image_url, ''), COALESCE(cuisine_type, '')
		FROM restaurants WHERE id = $1
	`, restaurantID).Scan(&summary.ID, &summary.Name, &summary.ImageURL, &summary.CuisineType)
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

func (r *PostgresRepository) ListRestaurants(ctx context.Context, search, category string) ([]domain.Restaurant, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, name, cuisine_type, COALESCE(image_url, ''), rating,
			delivery_time, delivery_fee, is_promoted, category, created_at
		FROM restaurants
		WHERE ($1 = '' OR name ILIKE '%' || $1 || '%' OR cuisine_type ILIKE '%' || $1 || '%')
		  AND ($2 = '' OR category = $2)
		ORDER BY created_at DESC
	`, search, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRestaurants(rows)
}

func (r *PostgresRepository) ListFeatured(ctx context.Context) ([]domain.Restaurant, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, name, cuisine_type, COALESCE(image_url, ''), rating,
			delivery_time, delivery_fee, is_promoted, category, created_at
		FROM restaurants
		WHERE is_promoted
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRestaurants(rows)
}

func (r *PostgresRepository) GetRestaurant(ctx context.Context, id int) (*domain.Restaurant, error) {
	var rest domain.Restaurant
	var fee int64
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, name, cuisine_type, COALESCE(image_url, ''), rating,
			delivery_time, delivery_fee, is_promoted, category, created_at
		FROM restaurants WHERE id = $1
	`, id).Scan(&rest.ID, &rest.Name, &rest.CuisineType, &rest.ImageURL, &rest.Rating,
		&rest.DeliveryTime, &fee, &rest.IsPromoted, &rest.Category, &rest.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	rest.DeliveryFee = domain.NewMoney(fee)
	return &rest, nil
}

func scanRestaurants(rows *sql.Rows) ([]domain.Restaurant, error) {
	restaurants := []domain.Restaurant{}
	for rows.Next() {
		var rest domain.Restaurant
		var fee int64
		if err := rows.Scan(&rest.ID, &rest.Name, &rest.CuisineType, &rest.ImageURL,
			&rest.Rating, &rest.DeliveryTime, &fee, &rest.IsPromoted,
			&rest.Category, &rest.CreatedAt); err != nil {
			continue
		}
		rest.DeliveryFee = domain.NewMoney(fee)
		restaurants = append(restaurants, rest)
	}
	return restaurants, nil
}
