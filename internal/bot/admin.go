package bot

import (
	"errors"

	"log/slog"

	tele "gopkg.in/telebot.v4"

	"github.com/KLYMENKORUS/telegram-bot-shop/internal/logger"
	"github.com/KLYMENKORUS/telegram-bot-shop/internal/shop"
	"github.com/KLYMENKORUS/telegram-bot-shop/internal/storage"
	"github.com/KLYMENKORUS/telegram-bot-shop/internal/telegram/callbacks"
	tghelpers "github.com/KLYMENKORUS/telegram-bot-shop/internal/telegram/helpers"
	"github.com/KLYMENKORUS/telegram-bot-shop/internal/telegram/state"
)

// Wizard states for admin data entry.
const (
	stateAddCategoryName    state.State = "add_category:name"
	stateAddProductCategory state.State = "add_product:category"
	stateAddProductName     state.State = "add_product:name"
	stateAddProductTitle    state.State = "add_product:title"
	stateAddProductPrice    state.State = "add_product:price"
	stateAddProductQuantity state.State = "add_product:quantity"
)

const draftKey = "product_draft"

// requireAdmin guards admin callbacks; rejected users fall back to the client menu.
func (h *Handlers) requireAdmin(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		if c.Sender().ID != h.cfg.Telegram.AdminID {
			if err := tghelpers.SendText(c, textNotAdmin); err != nil {
				return err
			}
			return tghelpers.SendMD(c, textStart(firstName(c)), startMenu())
		}
		return next(c)
	}
}

// handleAdmin shows the admin menu.
func (h *Handlers) handleAdmin(c tele.Context) error {
	h.clearWizard(c.Sender().ID)
	return tghelpers.EditOrSendMD(c, textStartAdmin(firstName(c)), adminMenu())
}

func (h *Handlers) clearWizard(userID int64) {
	h.fsm.ClearState(userID)
	h.fsm.ClearTemp(userID, draftKey)
}

// handleCancel aborts any in-progress wizard and returns to the admin menu.
func (h *Handlers) handleCancel(c tele.Context) error {
	h.clearWizard(c.Sender().ID)
	if err := tghelpers.SendText(c, textWizardCancelled); err != nil {
		return err
	}
	return h.handleAdmin(c)
}

// ********** Categories **********

func (h *Handlers) handleAddCategory(c tele.Context) error {
	h.fsm.SetState(c.Sender().ID, stateAddCategoryName)
	return tghelpers.EditOrSendMD(c, textAddCategory(firstName(c)), cancelMenu("add_category"))
}

func (h *Handlers) onCategoryName(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "wizard.category_name")
	userID := c.Sender().ID
	name := c.Text()

	h.fsm.ClearState(userID)

	if _, err := h.store.AddCategory(ctx, name); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return tghelpers.SendMD(c, textCategoryAddFailed(firstName(c), name), adminMenu())
		}
		logger.TG.LogAttrs(ctx, slog.LevelError, "category.add",
			slog.String("status", "fail"),
			slog.String("err", err.Error()),
		)
		return tghelpers.SendMD(c, textSaveFailed(firstName(c)), adminMenu())
	}
	return tghelpers.SendMD(c, textCategoryAdded(firstName(c), name), adminMenu())
}

func (h *Handlers) handleListCategories(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "admin.list_categories")

	categories, err := h.store.ListCategories(ctx)
	if err != nil {
		return err
	}
	if len(categories) == 0 {
		return tghelpers.EditOrSendMD(c, textNoCategories(firstName(c)), adminMenu())
	}
	return tghelpers.EditOrSendMD(c, textChooseCategory(firstName(c)),
		adminCategoryMenu(categories, cbOnlyCategory, cbAdminMenu))
}

func (h *Handlers) handleOnlyCategory(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "admin.category")

	categoryID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return err
	}
	category, err := h.store.GetCategory(ctx, categoryID)
	if err != nil {
		return err
	}
	count, err := h.store.CountProductsByCategory(ctx, categoryID)
	if err != nil {
		return err
	}
	return tghelpers.EditOrSendMD(c, textCategoryView(category, count), categoryViewMenu(categoryID))
}

func (h *Handlers) handleDeleteCategory(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "admin.delete_category")

	categoryID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return err
	}
	if err := h.store.DeleteCategory(ctx, categoryID); err != nil {
		logger.TG.LogAttrs(ctx, slog.LevelError, "category.delete",
			slog.String("status", "fail"),
			slog.Int64("category_id", categoryID),
			slog.String("err", err.Error()),
		)
		if err := tghelpers.SendText(c, textCategoryDeleteFailed); err != nil {
			return err
		}
		return h.handleListCategories(c)
	}
	if err := tghelpers.SendText(c, textCategoryDeleted); err != nil {
		return err
	}
	return h.handleListCategories(c)
}

// ********** Product wizard **********

func (h *Handlers) draft(userID int64) *shop.ProductDraft {
	if v, ok := h.fsm.GetTemp(userID, draftKey); ok {
		if d, ok := v.(*shop.ProductDraft); ok {
			return d
		}
	}
	d := &shop.ProductDraft{}
	h.fsm.SetTemp(userID, draftKey, d)
	return d
}

func (h *Handlers) handleAddProduct(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "admin.add_product")
	userID := c.Sender().ID

	h.clearWizard(userID)

	categories, err := h.store.ListCategories(ctx)
	if err != nil {
		return err
	}
	if len(categories) == 0 {
		return tghelpers.EditOrSendMD(c, textNoCategories(firstName(c)), adminMenu())
	}
	h.fsm.SetState(userID, stateAddProductCategory)
	return tghelpers.EditOrSendMD(c, textSelectCategory(firstName(c)),
		adminCategoryMenu(categories, cbWizardCategory, cbAdminMenu))
}

func (h *Handlers) handleWizardCategory(c tele.Context) error {
	userID := c.Sender().ID

	categoryID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return err
	}
	if err := h.draft(userID).SetCategory(categoryID); err != nil {
		return tghelpers.EditOrSendMD(c, textBadInput(firstName(c)), cancelMenu("add_product"))
	}
	h.fsm.SetState(userID, stateAddProductName)
	return tghelpers.EditOrSendMD(c, textWriteName(firstName(c)), cancelMenu("add_product"))
}

func (h *Handlers) onProductName(c tele.Context) error {
	userID := c.Sender().ID
	if err := h.draft(userID).SetName(c.Text()); err != nil {
		return tghelpers.SendMD(c, textBadInput(firstName(c)), cancelMenu("add_product"))
	}
	h.fsm.SetState(userID, stateAddProductTitle)
	return tghelpers.SendMD(c, textWriteTitle(firstName(c)), cancelMenu("add_product"))
}

func (h *Handlers) onProductTitle(c tele.Context) error {
	userID := c.Sender().ID
	if err := h.draft(userID).SetTitle(c.Text()); err != nil {
		return tghelpers.SendMD(c, textBadInput(firstName(c)), cancelMenu("add_product"))
	}
	h.fsm.SetState(userID, stateAddProductPrice)
	return tghelpers.SendMD(c, textWritePrice(firstName(c)), cancelMenu("add_product"))
}

func (h *Handlers) onProductPrice(c tele.Context) error {
	userID := c.Sender().ID
	if err := h.draft(userID).SetPrice(c.Text()); err != nil {
		return tghelpers.SendMD(c, textBadInput(firstName(c)), cancelMenu("add_product"))
	}
	h.fsm.SetState(userID, stateAddProductQuantity)
	return tghelpers.SendMD(c, textWriteQuantity(firstName(c)), cancelMenu("add_product"))
}

func (h *Handlers) onProductQuantity(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "wizard.product_quantity")
	userID := c.Sender().ID

	d := h.draft(userID)
	if err := d.SetQuantity(c.Text()); err != nil {
		return tghelpers.SendMD(c, textBadInput(firstName(c)), cancelMenu("add_product"))
	}
	h.fsm.ClearState(userID)

	category, err := h.store.GetCategory(ctx, d.CategoryID)
	if err != nil {
		return err
	}
	return tghelpers.SendMD(c, textProductPreview(category.Name, d), previewMenu())
}

func (h *Handlers) handleSaveProduct(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "admin.save_product")
	userID := c.Sender().ID

	d := h.draft(userID)
	if err := d.Validate(); err != nil {
		h.clearWizard(userID)
		return tghelpers.EditOrSendMD(c, textSaveFailed(firstName(c)), adminMenu())
	}

	product, err := h.store.AddProduct(ctx, d.CategoryID, d.Name, d.Title, d.Price, d.Quantity)
	h.clearWizard(userID)
	if err != nil {
		logger.TG.LogAttrs(ctx, slog.LevelError, "product.add",
			slog.String("status", "fail"),
			slog.String("err", err.Error()),
		)
		return tghelpers.EditOrSendMD(c, textSaveFailed(firstName(c)), adminMenu())
	}

	logger.TG.LogAttrs(ctx, slog.LevelInfo, "product.add",
		slog.String("status", "ok"),
		slog.Int64("product_id", product.ID),
		slog.Int64("category_id", product.CategoryID),
	)
	if err := tghelpers.SendText(c, textProductSaved); err != nil {
		return err
	}
	return h.handleAdmin(c)
}

func (h *Handlers) handleRepealProduct(c tele.Context) error {
	h.clearWizard(c.Sender().ID)
	if err := tghelpers.SendText(c, textWizardCancelled); err != nil {
		return err
	}
	return h.handleAdmin(c)
}

// ********** Product management **********

func (h *Handlers) handleListProducts(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "admin.list_products")

	categories, err := h.store.ListCategories(ctx)
	if err != nil {
		return err
	}
	if len(categories) == 0 {
		return tghelpers.EditOrSendMD(c, textNoCategories(firstName(c)), adminMenu())
	}
	return tghelpers.EditOrSendMD(c, textChooseCategory(firstName(c)),
		adminCategoryMenu(categories, cbProductsOfCat, cbAdminMenu))
}

func (h *Handlers) handleProductsOfCategory(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "admin.products_of_category")

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
		return tghelpers.EditOrSendMD(c, textNoProducts(firstName(c)), adminMenu())
	}
	return tghelpers.EditOrSendMD(c, textCategoryTitle(category.Name),
		adminProductMenu(categoryID, products))
}

func (h *Handlers) handleOnlyProduct(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "admin.product")

	categoryID, productID, err := callbacks.PayloadTwoInt64(c, "|")
	if err != nil {
		return err
	}
	product, err := h.store.GetProduct(ctx, productID)
	if err != nil {
		return err
	}
	return tghelpers.EditOrSendMD(c, textProductView(product), productViewMenu(categoryID, productID))
}

func (h *Handlers) handleDeleteProduct(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "admin.delete_product")

	_, productID, err := callbacks.PayloadTwoInt64(c, "|")
	if err != nil {
		return err
	}
	if err := h.store.DeleteProduct(ctx, productID); err != nil {
		logger.TG.LogAttrs(ctx, slog.LevelError, "product.delete",
			slog.String("status", "fail"),
			slog.Int64("product_id", productID),
			slog.String("err", err.Error()),
		)
		if err := tghelpers.SendText(c, textProductDeleteFailed); err != nil {
			return err
		}
		return h.handleListProducts(c)
	}
	if err := tghelpers.SendText(c, textProductDeleted); err != nil {
		return err
	}
	return h.handleListProducts(c)
}
