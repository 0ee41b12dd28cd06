package bot

import (
	"context"
	"errors"

	"log/slog"

	tele "gopkg.in/telebot.v4"

	"github.com/KLYMENKORUS/telegram-bot-shop/internal/logger"
	"github.com/KLYMENKORUS/telegram-bot-shop/internal/shop"
	tghelpers "github.com/KLYMENKORUS/telegram-bot-shop/internal/telegram/helpers"
)

// handleOrder opens the order at the current cursor position.
func (h *Handlers) handleOrder(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "order")
	line, err := h.engine.OpenOrder(ctx, c.Sender().ID)
	return h.renderOrder(c, line, err)
}

func (h *Handlers) handleOrderPrev(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "order_prev")
	line, err := h.engine.StepBack(ctx, c.Sender().ID)
	return h.renderOrder(c, line, err)
}

func (h *Handlers) handleOrderNext(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "order_next")
	line, err := h.engine.StepForward(ctx, c.Sender().ID)
	return h.renderOrder(c, line, err)
}

func (h *Handlers) handleOrderIncrease(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "order_incr")
	line, err := h.engine.Increase(ctx, c.Sender().ID)
	return h.renderOrder(c, line, err)
}

func (h *Handlers) handleOrderDecrease(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "order_decr")
	line, err := h.engine.Decrease(ctx, c.Sender().ID)
	return h.renderOrder(c, line, err)
}

// handleOrderRemove drops the current position and returns its units to stock.
func (h *Handlers) handleOrderRemove(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "order_remove")
	line, err := h.engine.RemoveCurrent(ctx, c.Sender().ID)
	return h.renderOrder(c, line, err)
}

// handleOrderApply confirms the order and shows the receipt.
func (h *Handlers) handleOrderApply(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "order_apply")
	userID := c.Sender().ID

	receipt, err := h.engine.Checkout(ctx, userID)
	if err != nil {
		if errors.Is(err, shop.ErrEmptyOrder) {
			return tghelpers.EditOrSendMD(c, textNoOrder, backMenu())
		}
		return err
	}

	logger.TG.LogAttrs(ctx, slog.LevelInfo, "order.confirmed",
		slog.String("status", "ok"),
		slog.Int64("user_id", userID),
		slog.Float64("cost", receipt.Cost),
		slog.Int("quantity", receipt.Quantity),
	)
	return tghelpers.EditOrSendMD(c, textReceipt(receipt), backMenu())
}

// renderOrder redraws the order card, mapping engine errors to user-facing views.
func (h *Handlers) renderOrder(c tele.Context, line *shop.Line, err error) error {
	if err != nil {
		switch {
		case errors.Is(err, shop.ErrEmptyOrder):
			return tghelpers.EditOrSendMD(c, textNoOrder, backMenu())
		case errors.Is(err, shop.ErrInvalidCursor):
			// session was reset; reopen from the first position
			ctx := tghelpers.BuildContext(c)
			return h.reopenOrder(ctx, c)
		}
		return err
	}
	return tghelpers.EditOrSendMD(c, textOrderLine(line), orderMenu(line.Step+1, line.Total, line.Quantity))
}

func (h *Handlers) reopenOrder(ctx context.Context, c tele.Context) error {
	line, err := h.engine.OpenOrder(ctx, c.Sender().ID)
	if err != nil {
		if errors.Is(err, shop.ErrEmptyOrder) {
			return tghelpers.EditOrSendMD(c, textNoOrder, backMenu())
		}
		return err
	}
	return tghelpers.EditOrSendMD(c, textOrderLine(line), orderMenu(line.Step+1, line.Total, line.Quantity))
}
