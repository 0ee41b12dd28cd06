package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Store provides access to the catalog and the order ledger on Postgres.
// A Store obtained from New operates on the connection pool; a Store passed
// into a WithTx closure is bound to a single transaction, where product reads
// take a row lock so concurrent stock mutations are serialized.
type Store struct {
	db   sqlx.ExtContext
	root *sqlx.DB
}

// New constructs a Store on top of a connected pool.
func New(db *sqlx.DB) *Store {
	return &Store{db: db, root: db}
}

// WithTx runs fn against a transaction-bound view of the store. The
// transaction commits when fn returns nil and rolls back otherwise.
func (s *Store) WithTx(ctx context.Context, fn func(*Store) error) error {
	if s.root == nil {
		// Already inside a transaction; reuse it.
		return fn(s)
	}
	tx, err := s.root.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(&Store{db: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (s *Store) inTx() bool { return s.root == nil }

// ********** PRODUCTS / CATALOG **********

// GetProduct returns a product by id. Inside a transaction the row is locked
// for update to serialize stock contention between users.
func (s *Store) GetProduct(ctx context.Context, productID int64) (*Product, error) {
	query := `SELECT id, name, title, price, quantity, is_active, created_at, category_id
	          FROM product WHERE id = $1`
	if s.inTx() {
		query += ` FOR UPDATE`
	}
	var p Product
	if err := sqlx.GetContext(ctx, s.db, &p, query, productID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get product %d: %w", productID, err)
	}
	return &p, nil
}

// SetProductStock overwrites the stock quantity of a product.
func (s *Store) SetProductStock(ctx context.Context, productID int64, quantity int) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE product SET quantity = $2 WHERE id = $1`, productID, quantity)
	if err != nil {
		return fmt.Errorf("set product stock %d: %w", productID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set product stock %d: %w", productID, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// AddProduct inserts a new product and returns it.
func (s *Store) AddProduct(ctx context.Context, categoryID int64, name, title string, price float64, quantity int) (*Product, error) {
	var p Product
	err := sqlx.GetContext(ctx, s.db, &p,
		`INSERT INTO product (name, title, price, quantity, category_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, name, title, price, quantity, is_active, created_at, category_id`,
		name, title, price, quantity, categoryID)
	if err != nil {
		return nil, fmt.Errorf("add product %q: %w", name, err)
	}
	return &p, nil
}

// ListProductsByCategory returns products of a category in insertion order.
func (s *Store) ListProductsByCategory(ctx context.Context, categoryID int64) ([]Product, error) {
	var products []Product
	err := sqlx.SelectContext(ctx, s.db, &products,
		`SELECT id, name, title, price, quantity, is_active, created_at, category_id
		 FROM product WHERE category_id = $1 ORDER BY id`, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list products of category %d: %w", categoryID, err)
	}
	return products, nil
}

// DeleteProduct removes a product by id.
func (s *Store) DeleteProduct(ctx context.Context, productID int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM product WHERE id = $1`, productID)
	if err != nil {
		return fmt.Errorf("delete product %d: %w", productID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete product %d: %w", productID, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountProductsByCategory returns the number of products in a category.
func (s *Store) CountProductsByCategory(ctx context.Context, categoryID int64) (int, error) {
	var count int
	err := sqlx.GetContext(ctx, s.db, &count,
		`SELECT COUNT(id) FROM product WHERE category_id = $1`, categoryID)
	if err != nil {
		return 0, fmt.Errorf("count products of category %d: %w", categoryID, err)
	}
	return count, nil
}

// ********** CATEGORIES **********

// AddCategory inserts a new category. A duplicate name yields ErrDuplicate.
func (s *Store) AddCategory(ctx context.Context, name string) (*Category, error) {
	var c Category
	err := sqlx.GetContext(ctx, s.db, &c,
		`INSERT INTO category (name) VALUES ($1)
		 RETURNING id, name, is_active, created_at`, name)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("add category %q: %w", name, err)
	}
	return &c, nil
}

// GetCategory returns a category by id.
func (s *Store) GetCategory(ctx context.Context, categoryID int64) (*Category, error) {
	var c Category
	err := sqlx.GetContext(ctx, s.db, &c,
		`SELECT id, name, is_active, created_at FROM category WHERE id = $1`, categoryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get category %d: %w", categoryID, err)
	}
	return &c, nil
}

// ListCategories returns all categories in insertion order.
func (s *Store) ListCategories(ctx context.Context) ([]Category, error) {
	var categories []Category
	err := sqlx.SelectContext(ctx, s.db, &categories,
		`SELECT id, name, is_active, created_at FROM category ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// DeleteCategory removes a category; products cascade at the schema level.
func (s *Store) DeleteCategory(ctx context.Context, categoryID int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM category WHERE id = $1`, categoryID)
	if err != nil {
		return fmt.Errorf("delete category %d: %w", categoryID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete category %d: %w", categoryID, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ********** ORDER LEDGER **********

// ListOrderedProductIDs returns product ids of a user's order lines in
// insertion order.
func (s *Store) ListOrderedProductIDs(ctx context.Context, userID int64) ([]int64, error) {
	var ids []int64
	err := sqlx.SelectContext(ctx, s.db, &ids,
		`SELECT product_id FROM order_line WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list ordered product ids for user %d: %w", userID, err)
	}
	return ids, nil
}

// GetOrderLine returns the order line of a user for a product.
func (s *Store) GetOrderLine(ctx context.Context, productID, userID int64) (*OrderLine, error) {
	var line OrderLine
	err := sqlx.GetContext(ctx, s.db, &line,
		`SELECT id, quantity, created_at, product_id, user_id
		 FROM order_line WHERE product_id = $1 AND user_id = $2`, productID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get order line (product %d, user %d): %w", productID, userID, err)
	}
	return &line, nil
}

// UpsertOrderLine creates the line if absent, otherwise overwrites its quantity.
func (s *Store) UpsertOrderLine(ctx context.Context, productID, userID int64, quantity int) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO order_line (quantity, product_id, user_id)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (product_id, user_id) DO UPDATE SET quantity = EXCLUDED.quantity`,
		quantity, productID, userID)
	if err != nil {
		return fmt.Errorf("upsert order line (product %d, user %d): %w", productID, userID, err)
	}
	return nil
}

// DeleteOrderLine removes the line of a user for a product.
func (s *Store) DeleteOrderLine(ctx context.Context, productID, userID int64) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM order_line WHERE product_id = $1 AND user_id = $2`, productID, userID)
	if err != nil {
		return fmt.Errorf("delete order line (product %d, user %d): %w", productID, userID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete order line (product %d, user %d): %w", productID, userID, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAllOrderLines clears the whole order of a user.
func (s *Store) DeleteAllOrderLines(ctx context.Context, userID int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM order_line WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("delete all order lines for user %d: %w", userID, err)
	}
	return nil
}

// CountOrderLines returns the number of lines in a user's order.
func (s *Store) CountOrderLines(ctx context.Context, userID int64) (int, error) {
	var count int
	err := sqlx.GetContext(ctx, s.db, &count,
		`SELECT COUNT(id) FROM order_line WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("count order lines for user %d: %w", userID, err)
	}
	return count, nil
}
