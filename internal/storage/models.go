package storage

import "time"

// Category groups products. Deleting a category cascades to its products.
type Category struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	IsActive  bool      `db:"is_active"`
	CreatedAt time.Time `db:"created_at"`
}

// Product is a single catalog item. Quantity is the number of units on the
// shelf; units reserved into order lines are subtracted from it.
type Product struct {
	ID         int64     `db:"id"`
	Name       string    `db:"name"`
	Title      string    `db:"title"`
	Price      float64   `db:"price"`
	Quantity   int       `db:"quantity"`
	IsActive   bool      `db:"is_active"`
	CreatedAt  time.Time `db:"created_at"`
	CategoryID int64     `db:"category_id"`
}

// OrderLine binds one product, one user, and a reserved quantity.
// At most one line exists per (product, user) pair.
type OrderLine struct {
	ID        int64     `db:"id"`
	Quantity  int       `db:"quantity"`
	CreatedAt time.Time `db:"created_at"`
	ProductID int64     `db:"product_id"`
	UserID    int64     `db:"user_id"`
}
