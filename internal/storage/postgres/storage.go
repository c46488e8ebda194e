package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	domainErrors "github.com/collinsmw/boutique/internal/domain/errors"
	"github.com/collinsmw/boutique/internal/domain/model"
	"github.com/collinsmw/boutique/internal/domain/repository"
)

// Pool is the subset of pgxpool.Pool used by the storage layer.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   Pool
	logger *slog.Logger
}

type userRepository struct {
	storage *Storage
}

type orderRepository struct {
	storage *Storage
}

// newPgxPool is swapped out in tests.
var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (Pool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Users() repository.UserRepository {
	return &userRepository{storage: s}
}

func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id SERIAL PRIMARY KEY,
            name TEXT NOT NULL,
            email TEXT UNIQUE NOT NULL,
            phone TEXT NOT NULL DEFAULT '',
            password_hash TEXT NOT NULL,
            is_admin BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS orders (
            id TEXT PRIMARY KEY,
            user_id BIGINT NOT NULL REFERENCES users(id),
            shipping_address TEXT NOT NULL,
            shipping_city TEXT NOT NULL,
            shipping_postal_code TEXT NOT NULL,
            shipping_country TEXT NOT NULL,
            shipping_method TEXT NOT NULL,
            payment_method TEXT NOT NULL,
            payment_contact TEXT,
            payment_reference TEXT,
            payment_external_id TEXT,
            payment_status TEXT,
            payment_update_time TEXT,
            payer_email TEXT,
            items_price NUMERIC NOT NULL DEFAULT 0,
            tax_price NUMERIC NOT NULL DEFAULT 0,
            shipping_price NUMERIC NOT NULL DEFAULT 0,
            total_price NUMERIC NOT NULL,
            is_paid BOOLEAN NOT NULL DEFAULT FALSE,
            paid_at TIMESTAMPTZ,
            is_delivered BOOLEAN NOT NULL DEFAULT FALSE,
            delivered_at TIMESTAMPTZ,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS order_items (
            id SERIAL PRIMARY KEY,
            order_id TEXT NOT NULL REFERENCES orders(id),
            product_id TEXT NOT NULL,
            name TEXT NOT NULL,
            size TEXT NOT NULL,
            quantity INT NOT NULL,
            price NUMERIC NOT NULL
        )`,
		`CREATE INDEX IF NOT EXISTS idx_orders_user ON orders(user_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_unreconciled ON orders(updated_at)
            WHERE is_paid = FALSE AND payment_reference IS NOT NULL`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// --- UserRepository implementation ---

func (r *userRepository) Create(ctx context.Context, name, email, phone, passwordHash string) (*model.User, error) {
	const query = `INSERT INTO users (name, email, phone, password_hash) VALUES ($1, $2, $3, $4) RETURNING id, created_at`
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, name, email, phone, passwordHash).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	u.Name = name
	u.Email = email
	u.Phone = phone
	u.PasswordHash = passwordHash
	return &u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	const query = `SELECT id, name, email, phone, password_hash, is_admin, created_at FROM users WHERE email=$1`
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, email).Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	const query = `SELECT id, name, email, phone, password_hash, is_admin, created_at FROM users WHERE id=$1`
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// --- OrderRepository implementation ---

// orderColumns is shared by every query returning full order rows. NUMERIC
// values travel as text to avoid lossy float conversion.
const orderColumns = `id, user_id, shipping_address, shipping_city, shipping_postal_code, shipping_country,
       shipping_method, payment_method, payment_contact, payment_reference,
       payment_external_id, payment_status, payment_update_time, payer_email,
       items_price::text, tax_price::text, shipping_price::text, total_price::text,
       is_paid, paid_at, is_delivered, delivered_at, created_at, updated_at`

func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const insertOrder = `INSERT INTO orders
            (id, user_id, shipping_address, shipping_city, shipping_postal_code, shipping_country,
             shipping_method, payment_method, payment_contact,
             items_price, tax_price, shipping_price, total_price)
            VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
            RETURNING created_at, updated_at`
		err := tx.QueryRow(ctx, insertOrder,
			order.ID, order.UserID,
			order.ShippingAddress.Address, order.ShippingAddress.City,
			order.ShippingAddress.PostalCode, order.ShippingAddress.Country,
			order.ShippingMethod, order.PaymentMethod, order.PaymentContact,
			order.ItemsPrice.String(), order.TaxPrice.String(),
			order.ShippingPrice.String(), order.TotalPrice.String(),
		).Scan(&order.CreatedAt, &order.UpdatedAt)
		if err != nil {
			return err
		}

		const insertItem = `INSERT INTO order_items (order_id, product_id, name, size, quantity, price)
            VALUES ($1,$2,$3,$4,$5,$6)`
		for _, item := range order.Items {
			if _, err := tx.Exec(ctx, insertItem,
				order.ID, item.ProductID, item.Name, item.Size, item.Quantity, item.Price.String()); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id=$1`
	row := r.storage.pool.QueryRow(ctx, query, id)
	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}

	const itemsQuery = `SELECT product_id, name, size, quantity, price::text FROM order_items WHERE order_id=$1`
	rows, err := r.storage.pool.Query(ctx, itemsQuery, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			item     model.OrderItem
			priceStr string
		)
		if err := rows.Scan(&item.ProductID, &item.Name, &item.Size, &item.Quantity, &priceStr); err != nil {
			return nil, err
		}
		if item.Price, err = decimal.NewFromString(priceStr); err != nil {
			return nil, fmt.Errorf("parse item price: %w", err)
		}
		order.Items = append(order.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) AttachPaymentReference(ctx context.Context, id, reference string) error {
	const query = `UPDATE orders SET payment_reference=$2, updated_at=NOW() WHERE id=$1 AND is_paid=FALSE`
	tag, err := r.storage.pool.Exec(ctx, query, id, reference)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		paid, err := r.paidState(ctx, id)
		if err != nil {
			return err
		}
		if paid {
			return domainErrors.ErrAlreadyPaid
		}
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *orderRepository) SetPaymentContact(ctx context.Context, id, phone string) error {
	const query = `UPDATE orders SET payment_contact=$2, updated_at=NOW() WHERE id=$1 AND is_paid=FALSE`
	tag, err := r.storage.pool.Exec(ctx, query, id, phone)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		paid, err := r.paidState(ctx, id)
		if err != nil {
			return err
		}
		if paid {
			return domainErrors.ErrAlreadyPaid
		}
		return domainErrors.ErrNotFound
	}
	return nil
}

// MarkPaid performs the paid transition as a single conditional write so two
// concurrent confirmations cannot both observe an unpaid order.
func (r *orderRepository) MarkPaid(ctx context.Context, id string, result model.PaymentResult, paidAt time.Time) (bool, error) {
	const query = `UPDATE orders
        SET is_paid=TRUE, paid_at=$2, payment_external_id=$3, payment_status=$4,
            payment_update_time=$5, payer_email=$6, updated_at=NOW()
        WHERE id=$1 AND is_paid=FALSE`
	tag, err := r.storage.pool.Exec(ctx, query, id, paidAt, result.ExternalID, result.Status, result.UpdateTime, result.PayerEmail)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() == 1 {
		return true, nil
	}

	paid, err := r.paidState(ctx, id)
	if err != nil {
		return false, err
	}
	if paid {
		return false, nil
	}
	return false, domainErrors.ErrNotFound
}

func (r *orderRepository) SelectUnreconciled(ctx context.Context, cutoff time.Time, limit int) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders
        WHERE is_paid=FALSE AND payment_reference IS NOT NULL AND updated_at < $1
        ORDER BY updated_at
        LIMIT $2`
	rows, err := r.storage.pool.Query(ctx, query, cutoff, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderRepository) paidState(ctx context.Context, id string) (bool, error) {
	var paid bool
	err := r.storage.pool.QueryRow(ctx, `SELECT is_paid FROM orders WHERE id=$1`, id).Scan(&paid)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, domainErrors.ErrNotFound
		}
		return false, err
	}
	return paid, nil
}

func scanOrder(row pgx.Row) (*model.Order, error) {
	var (
		o                model.Order
		externalID       *string
		status           *string
		updateTime       *string
		payerEmail       *string
		itemsPriceStr    string
		taxPriceStr      string
		shippingPriceStr string
		totalPriceStr    string
	)
	err := row.Scan(
		&o.ID, &o.UserID,
		&o.ShippingAddress.Address, &o.ShippingAddress.City,
		&o.ShippingAddress.PostalCode, &o.ShippingAddress.Country,
		&o.ShippingMethod, &o.PaymentMethod, &o.PaymentContact, &o.PaymentReference,
		&externalID, &status, &updateTime, &payerEmail,
		&itemsPriceStr, &taxPriceStr, &shippingPriceStr, &totalPriceStr,
		&o.IsPaid, &o.PaidAt, &o.IsDelivered, &o.DeliveredAt, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if o.ItemsPrice, err = decimal.NewFromString(itemsPriceStr); err != nil {
		return nil, fmt.Errorf("parse items price: %w", err)
	}
	if o.TaxPrice, err = decimal.NewFromString(taxPriceStr); err != nil {
		return nil, fmt.Errorf("parse tax price: %w", err)
	}
	if o.ShippingPrice, err = decimal.NewFromString(shippingPriceStr); err != nil {
		return nil, fmt.Errorf("parse shipping price: %w", err)
	}
	if o.TotalPrice, err = decimal.NewFromString(totalPriceStr); err != nil {
		return nil, fmt.Errorf("parse total price: %w", err)
	}

	if externalID != nil || status != nil {
		o.PaymentResult = &model.PaymentResult{}
		if externalID != nil {
			o.PaymentResult.ExternalID = *externalID
		}
		if status != nil {
			o.PaymentResult.Status = *status
		}
		if updateTime != nil {
			o.PaymentResult.UpdateTime = *updateTime
		}
		if payerEmail != nil {
			o.PaymentResult.PayerEmail = *payerEmail
		}
	}

	return &o, nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}
