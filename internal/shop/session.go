package shop

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/KLYMENKORUS/telegram-bot-shop/internal/logger"
	"github.com/KLYMENKORUS/telegram-bot-shop/internal/storage"
)

// Line is the render-ready payload of one order line at the session cursor.
type Line struct {
	Step      int
	Total     int
	ProductID int64
	Name      string
	Title     string
	Price     float64
	Quantity  int
}

// Selection reports the outcome of adding a product to the order.
type Selection struct {
	ProductID    int64
	Name         string
	Title        string
	Price        float64
	Stock        int
	LineQuantity int
	// Added is false when the product was out of stock and nothing changed.
	Added bool
}

// Receipt holds checkout totals.
type Receipt struct {
	Cost     float64
	Quantity int
}

// session is the ephemeral cursor over a user's order lines.
type session struct {
	step      int
	lineCount int
}

func (s *session) reset() {
	s.step = 0
	s.lineCount = 0
}

// Engine presents each user's order lines as a navigable sequence and performs
// all quantity mutations. Every unit of a product is either on the shelf or
// reserved in exactly one order line; mutations that would break that are
// wrapped in a storage transaction. Sessions are keyed by user id and created
// on first use.
type Engine struct {
	store Store
	log   *slog.Logger

	mu       sync.Mutex
	sessions map[int64]*session
}

// NewEngine constructs the order session engine on top of a Store.
func NewEngine(store Store) *Engine {
	log := logger.SVCShop
	if log == nil {
		log = slog.Default()
	}
	return &Engine{
		store:    store,
		log:      log,
		sessions: make(map[int64]*session),
	}
}

func (e *Engine) session(userID int64) *session {
	e.mu.Lock()
	defer e.mu.Unlock()
	sess, ok := e.sessions[userID]
	if !ok {
		sess = &session{}
		e.sessions[userID] = sess
	}
	return sess
}

// OpenOrder resets the cursor to the first line and refreshes the line count.
// Returns ErrEmptyOrder when the user has no order lines.
func (e *Engine) OpenOrder(ctx context.Context, userID int64) (*Line, error) {
	sess := e.session(userID)
	count, err := e.store.CountOrderLines(ctx, userID)
	if err != nil {
		return nil, err
	}
	sess.step = 0
	sess.lineCount = count
	if count == 0 {
		return nil, ErrEmptyOrder
	}
	return e.render(ctx, e.store, sess, userID)
}

// CurrentLine returns the line at the cursor without moving it.
func (e *Engine) CurrentLine(ctx context.Context, userID int64) (*Line, error) {
	sess := e.session(userID)
	return e.render(ctx, e.store, sess, userID)
}

// StepBack moves the cursor one line back, clamped at the first line.
func (e *Engine) StepBack(ctx context.Context, userID int64) (*Line, error) {
	return e.step(ctx, userID, -1)
}

// StepForward moves the cursor one line forward, clamped at the last line.
func (e *Engine) StepForward(ctx context.Context, userID int64) (*Line, error) {
	return e.step(ctx, userID, +1)
}

func (e *Engine) step(ctx context.Context, userID int64, delta int) (*Line, error) {
	sess := e.session(userID)
	ids, err := e.store.ListOrderedProductIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		sess.reset()
		return nil, ErrEmptyOrder
	}
	next := sess.step + delta
	if next < 0 {
		next = 0
	}
	if next > len(ids)-1 {
		next = len(ids) - 1
	}
	view, err := e.renderAt(ctx, e.store, userID, ids, next)
	if err != nil {
		return nil, e.checkCursor(sess, err)
	}
	sess.step = next
	sess.lineCount = len(ids)
	return view, nil
}

// Select reserves one unit of a product into the user's order. The first
// selection creates the line; repeat selections increment it. A product with
// no stock left is a silent no-op reported via Selection.Added.
func (e *Engine) Select(ctx context.Context, userID, productID int64) (*Selection, error) {
	var sel *Selection
	err := e.store.WithTx(ctx, func(st Store) error {
		product, err := st.GetProduct(ctx, productID)
		if err != nil {
			return err
		}

		quantity := 0
		line, err := st.GetOrderLine(ctx, productID, userID)
		switch {
		case err == nil:
			quantity = line.Quantity
		case errors.Is(err, storage.ErrNotFound):
		default:
			return err
		}

		sel = &Selection{
			ProductID:    productID,
			Name:         product.Name,
			Title:        product.Title,
			Price:        product.Price,
			Stock:        product.Quantity,
			LineQuantity: quantity,
		}
		if product.Quantity == 0 {
			return nil
		}

		if err := st.UpsertOrderLine(ctx, productID, userID, quantity+1); err != nil {
			return err
		}
		if err := st.SetProductStock(ctx, productID, product.Quantity-1); err != nil {
			return err
		}
		sel.Stock = product.Quantity - 1
		sel.LineQuantity = quantity + 1
		sel.Added = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.log.Debug("product selected",
		slog.String("event", "shop.select"),
		slog.Int64("user_id", userID),
		slog.Int64("product_id", productID),
		slog.Bool("added", sel.Added),
	)
	return sel, nil
}

// Increase moves one unit from stock into the line at the cursor. When the
// product is out of stock the state is returned unchanged.
func (e *Engine) Increase(ctx context.Context, userID int64) (*Line, error) {
	return e.mutateCurrent(ctx, userID, func(ctx context.Context, st Store, line *storage.OrderLine, product *storage.Product) error {
		if product.Quantity == 0 {
			return nil
		}
		if err := st.UpsertOrderLine(ctx, product.ID, userID, line.Quantity+1); err != nil {
			return err
		}
		if err := st.SetProductStock(ctx, product.ID, product.Quantity-1); err != nil {
			return err
		}
		line.Quantity++
		product.Quantity--
		return nil
	})
}

// Decrease moves one unit from the line at the cursor back to stock. A line
// of quantity 1 is left untouched; removal is a separate explicit action.
func (e *Engine) Decrease(ctx context.Context, userID int64) (*Line, error) {
	return e.mutateCurrent(ctx, userID, func(ctx context.Context, st Store, line *storage.OrderLine, product *storage.Product) error {
		if line.Quantity <= 1 {
			return nil
		}
		if err := st.UpsertOrderLine(ctx, product.ID, userID, line.Quantity-1); err != nil {
			return err
		}
		if err := st.SetProductStock(ctx, product.ID, product.Quantity+1); err != nil {
			return err
		}
		line.Quantity--
		product.Quantity++
		return nil
	})
}

func (e *Engine) mutateCurrent(
	ctx context.Context,
	userID int64,
	mutate func(ctx context.Context, st Store, line *storage.OrderLine, product *storage.Product) error,
) (*Line, error) {
	sess := e.session(userID)
	saved := *sess

	var view *Line
	err := e.store.WithTx(ctx, func(st Store) error {
		ids, err := st.ListOrderedProductIDs(ctx, userID)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return ErrEmptyOrder
		}
		sess.lineCount = len(ids)
		if sess.step < 0 || sess.step >= len(ids) {
			return ErrInvalidCursor
		}
		productID := ids[sess.step]

		line, err := st.GetOrderLine(ctx, productID, userID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return ErrInvalidCursor
			}
			return err
		}
		product, err := st.GetProduct(ctx, productID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return ErrInvalidCursor
			}
			return err
		}

		if err := mutate(ctx, st, line, product); err != nil {
			return err
		}

		view = &Line{
			Step:      sess.step,
			Total:     len(ids),
			ProductID: productID,
			Name:      product.Name,
			Title:     product.Title,
			Price:     product.Price,
			Quantity:  line.Quantity,
		}
		return nil
	})
	if err != nil {
		*sess = saved
		return nil, e.checkCursor(sess, err)
	}
	return view, nil
}

// RemoveCurrent returns the line's whole quantity to stock and deletes the
// line. The cursor moves one step back, clamped at the first line. Returns
// ErrEmptyOrder when the removed line was the last one.
func (e *Engine) RemoveCurrent(ctx context.Context, userID int64) (*Line, error) {
	sess := e.session(userID)
	saved := *sess

	var view *Line
	empty := false
	err := e.store.WithTx(ctx, func(st Store) error {
		ids, err := st.ListOrderedProductIDs(ctx, userID)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return ErrEmptyOrder
		}
		if sess.step < 0 || sess.step >= len(ids) {
			return ErrInvalidCursor
		}
		productID := ids[sess.step]

		line, err := st.GetOrderLine(ctx, productID, userID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return ErrInvalidCursor
			}
			return err
		}
		product, err := st.GetProduct(ctx, productID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return ErrInvalidCursor
			}
			return err
		}

		if err := st.SetProductStock(ctx, productID, product.Quantity+line.Quantity); err != nil {
			return err
		}
		if err := st.DeleteOrderLine(ctx, productID, userID); err != nil {
			return err
		}

		sess.lineCount = len(ids) - 1
		if sess.step > 0 {
			sess.step--
		}
		if sess.lineCount == 0 {
			sess.reset()
			empty = true
			return nil
		}

		rest := append(ids[:saved.step:saved.step], ids[saved.step+1:]...)
		view, err = e.renderAt(ctx, st, userID, rest, sess.step)
		return err
	})
	if err != nil {
		*sess = saved
		return nil, e.checkCursor(sess, err)
	}
	if empty {
		return nil, ErrEmptyOrder
	}
	return view, nil
}

// Checkout computes totals over the whole order, then clears the ledger for
// the user. Reserved units are considered sold: stock is not returned.
func (e *Engine) Checkout(ctx context.Context, userID int64) (*Receipt, error) {
	sess := e.session(userID)

	var receipt *Receipt
	empty := false
	err := e.store.WithTx(ctx, func(st Store) error {
		count, err := st.CountOrderLines(ctx, userID)
		if err != nil {
			return err
		}
		if count == 0 {
			empty = true
			return nil
		}
		totals, err := Totals(ctx, st, userID)
		if err != nil {
			return err
		}
		if err := st.DeleteAllOrderLines(ctx, userID); err != nil {
			return err
		}
		receipt = &totals
		return nil
	})
	if err != nil {
		return nil, err
	}
	if empty {
		return nil, ErrEmptyOrder
	}
	sess.reset()
	e.log.Info("order checked out",
		slog.String("event", "shop.checkout"),
		slog.Int64("user_id", userID),
		slog.Int("total_quantity", receipt.Quantity),
		slog.Float64("total_cost", receipt.Cost),
	)
	return receipt, nil
}

// render lists the user's lines and builds the view at the session cursor.
func (e *Engine) render(ctx context.Context, st Store, sess *session, userID int64) (*Line, error) {
	ids, err := st.ListOrderedProductIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		sess.reset()
		return nil, ErrEmptyOrder
	}
	sess.lineCount = len(ids)
	if sess.step < 0 || sess.step >= len(ids) {
		return nil, e.checkCursor(sess, ErrInvalidCursor)
	}
	view, err := e.renderAt(ctx, st, userID, ids, sess.step)
	if err != nil {
		return nil, e.checkCursor(sess, err)
	}
	return view, nil
}

// renderAt builds the view for the line at the given index without touching
// session state.
func (e *Engine) renderAt(ctx context.Context, st Store, userID int64, ids []int64, step int) (*Line, error) {
	productID := ids[step]
	line, err := st.GetOrderLine(ctx, productID, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrInvalidCursor
		}
		return nil, err
	}
	product, err := st.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrInvalidCursor
		}
		return nil, err
	}
	return &Line{
		Step:      step,
		Total:     len(ids),
		ProductID: productID,
		Name:      product.Name,
		Title:     product.Title,
		Price:     product.Price,
		Quantity:  line.Quantity,
	}, nil
}

// checkCursor resets the session when the error is a cursor violation, so the
// next operation starts from OpenOrder semantics.
func (e *Engine) checkCursor(sess *session, err error) error {
	if errors.Is(err, ErrInvalidCursor) {
		e.log.Error("session cursor out of sync with ledger",
			slog.String("event", "shop.cursor_invalid"),
			slog.Int("step", sess.step),
			slog.Int("line_count", sess.lineCount),
		)
		sess.reset()
	}
	return err
}
