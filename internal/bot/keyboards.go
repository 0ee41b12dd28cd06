package bot

import (
	"strconv"

	tele "gopkg.in/telebot.v4"

	"github.com/KLYMENKORUS/telegram-bot-shop/internal/storage"
	"github.com/KLYMENKORUS/telegram-bot-shop/internal/telegram/keyboard"
)

// Callback keys routed through the registry.
const (
	cbInfo        = "info"
	cbSettings    = "settings"
	cbHelp        = "help"
	cbMainMenu    = "main_menu"
	cbChooseGoods = "choose_goods"
	cbCategory    = "select_cat"
	cbProduct     = "product"

	cbOrder        = "order"
	cbOrderPrev    = "order_prev"
	cbOrderNext    = "order_next"
	cbOrderIncr    = "order_incr"
	cbOrderDecr    = "order_decr"
	cbOrderRemove  = "order_remove"
	cbOrderApply   = "order_apply"

	cbAdminMenu      = "back_to_admin"
	cbAddCategory    = "add_category"
	cbListCategory   = "list_category"
	cbOnlyCategory   = "only_cat"
	cbDeleteCategory = "delete_category"
	cbAddProduct     = "add_product"
	cbWizardCategory = "wizard_cat"
	cbSaveProduct    = "save_product"
	cbRepealProduct  = "repeal_save_product"
	cbListProduct    = "list_product"
	cbProductsOfCat  = "products_of_cat"
	cbOnlyProduct    = "only_product"
	cbDeleteProduct  = "delete_product"
	cbCancel         = "cancel"
)

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// ********** Client keyboards **********

func startMenu() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{{Text: btnChooseGoods, Unique: cbChooseGoods}},
		[]keyboard.InlineBtn{
			{Text: btnInfo, Unique: cbInfo},
			{Text: btnSettings, Unique: cbSettings},
		},
		[]keyboard.InlineBtn{{Text: btnHelp, Unique: cbHelp}},
	)
}

func backMenu() *tele.ReplyMarkup {
	return keyboard.InlineButtons([]keyboard.InlineBtn{{Text: btnBack, Unique: cbMainMenu}})
}

func categoryMenu(categories []storage.Category) *tele.ReplyMarkup {
	rows := make([][]keyboard.InlineBtn, 0, len(categories)+1)
	for _, c := range categories {
		rows = append(rows, []keyboard.InlineBtn{
			{Text: c.Name, Unique: cbCategory, Data: formatID(c.ID)},
		})
	}
	rows = append(rows, []keyboard.InlineBtn{
		{Text: btnBack, Unique: cbMainMenu},
		{Text: btnOrder, Unique: cbOrder},
	})
	return keyboard.InlineButtonsRows(rows...)
}

func productMenu(products []storage.Product) *tele.ReplyMarkup {
	rows := make([][]keyboard.InlineBtn, 0, len(products)+1)
	for _, p := range products {
		rows = append(rows, []keyboard.InlineBtn{
			{Text: p.Name, Unique: cbProduct, Data: formatID(p.ID)},
		})
	}
	rows = append(rows, []keyboard.InlineBtn{{Text: btnBack, Unique: cbChooseGoods}})
	return keyboard.InlineButtonsRows(rows...)
}

func orderMenu(position, total, quantity int) *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{
			{Text: btnPrevStep, Unique: cbOrderPrev},
			{Text: strconv.Itoa(position) + "/" + strconv.Itoa(total), Unique: cbOrder},
			{Text: btnNextStep, Unique: cbOrderNext},
		},
		[]keyboard.InlineBtn{
			{Text: btnDecrease, Unique: cbOrderDecr},
			{Text: strconv.Itoa(quantity), Unique: cbOrder},
			{Text: btnIncrease, Unique: cbOrderIncr},
		},
		[]keyboard.InlineBtn{{Text: btnRemove, Unique: cbOrderRemove}},
		[]keyboard.InlineBtn{{Text: btnApply, Unique: cbOrderApply}},
		[]keyboard.InlineBtn{{Text: btnBack, Unique: cbChooseGoods}},
	)
}

// ********** Admin keyboards **********

func adminMenu() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{
			{Text: btnAddCategory, Unique: cbAddCategory},
			{Text: btnListCategory, Unique: cbListCategory},
		},
		[]keyboard.InlineBtn{
			{Text: btnAddProduct, Unique: cbAddProduct},
			{Text: btnListProduct, Unique: cbListProduct},
		},
		[]keyboard.InlineBtn{{Text: btnBack, Unique: cbMainMenu}},
	)
}

func adminCategoryMenu(categories []storage.Category, itemKey, backKey string) *tele.ReplyMarkup {
	rows := make([][]keyboard.InlineBtn, 0, len(categories)+1)
	for _, c := range categories {
		rows = append(rows, []keyboard.InlineBtn{
			{Text: c.Name, Unique: itemKey, Data: formatID(c.ID)},
		})
	}
	rows = append(rows, []keyboard.InlineBtn{{Text: btnBack, Unique: backKey}})
	return keyboard.InlineButtonsRows(rows...)
}

func categoryViewMenu(categoryID int64) *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{
			{Text: btnDeleteCategory, Unique: cbDeleteCategory, Data: formatID(categoryID)},
		},
		[]keyboard.InlineBtn{{Text: btnBack, Unique: cbListCategory}},
	)
}

func adminProductMenu(categoryID int64, products []storage.Product) *tele.ReplyMarkup {
	rows := make([][]keyboard.InlineBtn, 0, len(products)+1)
	for _, p := range products {
		rows = append(rows, []keyboard.InlineBtn{
			{Text: p.Name, Unique: cbOnlyProduct, Data: formatID(categoryID) + "|" + formatID(p.ID)},
		})
	}
	rows = append(rows, []keyboard.InlineBtn{{Text: btnBack, Unique: cbListProduct}})
	return keyboard.InlineButtonsRows(rows...)
}

func productViewMenu(categoryID, productID int64) *tele.ReplyMarkup {
	payload := formatID(categoryID) + "|" + formatID(productID)
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{{Text: btnDeleteProduct, Unique: cbDeleteProduct, Data: payload}},
		[]keyboard.InlineBtn{{Text: btnBack, Unique: cbProductsOfCat, Data: formatID(categoryID)}},
	)
}

func previewMenu() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{
			{Text: btnSaveProduct, Unique: cbSaveProduct},
			{Text: btnCancel, Unique: cbRepealProduct},
		},
	)
}

func cancelMenu(action string) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	btn := keyboard.CancelButton(markup, cbCancel, action, btnCancel)
	markup.InlineKeyboard = [][]tele.InlineButton{{*btn.Inline()}}
	return markup
}
