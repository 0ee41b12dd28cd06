package shop

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ProductDraft accumulates the fields of the add-product dialog in its fixed
// order: category, name, title, price, quantity. Each setter validates its
// input; Complete reports whether every field has been collected.
type ProductDraft struct {
	CategoryID int64
	Name       string
	Title      string
	Price      float64
	Quantity   int

	hasCategory bool
	hasName     bool
	hasTitle    bool
	hasPrice    bool
	hasQuantity bool
}

// ErrDraftIncomplete is returned when a draft is committed before every field
// has been collected.
var ErrDraftIncomplete = errors.New("shop: product draft is incomplete")

// SetCategory records the selected category.
func (d *ProductDraft) SetCategory(categoryID int64) error {
	if categoryID <= 0 {
		return fmt.Errorf("invalid category id %d", categoryID)
	}
	d.CategoryID = categoryID
	d.hasCategory = true
	return nil
}

// SetName records the full product name.
func (d *ProductDraft) SetName(raw string) error {
	name := strings.TrimSpace(raw)
	if name == "" {
		return fmt.Errorf("product name must not be empty")
	}
	d.Name = name
	d.hasName = true
	return nil
}

// SetTitle records the short display title.
func (d *ProductDraft) SetTitle(raw string) error {
	title := strings.TrimSpace(raw)
	if title == "" {
		return fmt.Errorf("product title must not be empty")
	}
	d.Title = title
	d.hasTitle = true
	return nil
}

// SetPrice parses and records the unit price.
func (d *ProductDraft) SetPrice(raw string) error {
	price, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return fmt.Errorf("parse price %q: %w", raw, err)
	}
	if price < 0 {
		return fmt.Errorf("price must not be negative")
	}
	d.Price = price
	d.hasPrice = true
	return nil
}

// SetQuantity parses and records the initial stock quantity.
func (d *ProductDraft) SetQuantity(raw string) error {
	quantity, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("parse quantity %q: %w", raw, err)
	}
	if quantity < 0 {
		return fmt.Errorf("quantity must not be negative")
	}
	d.Quantity = quantity
	d.hasQuantity = true
	return nil
}

// Complete reports whether all five fields have been collected.
func (d *ProductDraft) Complete() bool {
	return d.hasCategory && d.hasName && d.hasTitle && d.hasPrice && d.hasQuantity
}

// Validate returns ErrDraftIncomplete unless the draft is ready to commit.
func (d *ProductDraft) Validate() error {
	if !d.Complete() {
		return ErrDraftIncomplete
	}
	return nil
}
