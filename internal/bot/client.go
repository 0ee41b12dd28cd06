package bot

import (
	"log/slog"

	tele "gopkg.in/telebot.v4"

	"github.com/KLYMENKORUS/telegram-bot-shop/internal/logger"
	"github.com/KLYMENKORUS/telegram-bot-shop/internal/telegram/callbacks"
	tghelpers "github.com/KLYMENKORUS/telegram-bot-shop/internal/telegram/helpers"
)

func firstName(c tele.Context) string {
	if u := c.Sender(); u != nil {
		return u.FirstName
	}
	return ""
}

// handleStart greets the user and shows the main menu.
func (h *Handlers) handleStart(c tele.Context) error {
	h.fsm.Clear(c.Sender().ID)
	return tghelpers.SendMD(c, textStart(firstName(c)), startMenu())
}

// handleMainMenu returns the user to the main menu in place.
func (h *Handlers) handleMainMenu(c tele.Context) error {
	h.fsm.Clear(c.Sender().ID)
	return tghelpers.EditOrSendMD(c, textStart(firstName(c)), startMenu())
}

func (h *Handlers) handleHelp(c tele.Context) error {
	return tghelpers.EditOrSendMD(c, textStart(firstName(c)), backMenu())
}

func (h *Handlers) handleInfo(c tele.Context) error {
	return tghelpers.EditOrSendMD(c, textAbout, backMenu())
}

func (h *Handlers) handleGuide(c tele.Context) error {
	return tghelpers.EditOrSendMD(c, textGuide, backMenu())
}

// handleChooseGoods lists product categories for browsing.
func (h *Handlers) handleChooseGoods(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "choose_goods")

	categories, err := h.store.ListCategories(ctx)
	if err != nil {
		return err
	}
	if len(categories) == 0 {
		return tghelpers.EditOrSendMD(c, textNoCategories(firstName(c)), backMenu())
	}
	return tghelpers.EditOrSendMD(c, textChooseCategory(firstName(c)), categoryMenu(categories))
}

// handleCategory lists products of the selected category.
func (h *Handlers) handleCategory(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "category")

	categoryID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return err
	}
	category, err := h.store.GetCategory(ctx, categoryID)
	if err != nil {
		return err
	}
	products, err := h.store.ListProductsByCategory(ctx, categoryID)
	if err != nil {
		return err
	}
	if len(products) == 0 {
		return tghelpers.EditOrSendMD(c, textNoProducts(firstName(c)), categoryMenu(nil))
	}
	return tghelpers.EditOrSendMD(c, textCategoryTitle(category.Name), productMenu(products))
}

// handleSelectProduct reserves one unit of the product into the user's order.
func (h *Handlers) handleSelectProduct(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "select_product")
	userID := c.Sender().ID

	productID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return err
	}

	sel, err := h.engine.Select(ctx, userID, productID)
	if err != nil {
		return err
	}
	if !sel.Added {
		return tghelpers.SendText(c, textOutOfStock(sel))
	}

	logger.TG.LogAttrs(ctx, slog.LevelInfo, "order.selected",
		slog.String("status", "ok"),
		slog.Int64("user_id", userID),
		slog.Int64("product_id", sel.ProductID),
		slog.Int("line_quantity", sel.LineQuantity),
	)
	return tghelpers.SendText(c, textProductAdded(sel))
}
