package bot

import (
	"fmt"
	"strings"

	"github.com/KLYMENKORUS/telegram-bot-shop/internal/shop"
	"github.com/KLYMENKORUS/telegram-bot-shop/internal/storage"
)

// Button labels shared between keyboards and texts.
const (
	btnChooseGoods = "📂 Browse products"
	btnInfo        = "💬 About the store"
	btnSettings    = "⚙️ Guide"
	btnHelp        = "🤦 Help"
	btnBack        = "⏪"
	btnOrder       = "✅ ORDER"
	btnPrevStep    = "◀️"
	btnNextStep    = "▶️"
	btnDecrease    = "🔽"
	btnIncrease    = "🔼"
	btnRemove      = "❌"
	btnApply       = "✅ Checkout"
	btnMainMenu    = "Back to main menu"

	btnAddCategory    = "Add category"
	btnListCategory   = "📋 Categories"
	btnDeleteCategory = "❌ Delete category"
	btnAddProduct     = "Add product"
	btnListProduct    = "📋 Products"
	btnDeleteProduct  = "❌ Delete product"
	btnSaveProduct    = "✅ Save"
	btnCancel         = "❌ Cancel"
)

func textStart(firstName string) string {
	return fmt.Sprintf("%s, hello! Pick an action below.", firstName)
}

func textStartAdmin(firstName string) string {
	return fmt.Sprintf("Hi, admin %s. Awaiting your commands.", firstName)
}

const textNotAdmin = "This section is for admins only 🤷"

const textAbout = `*Welcome to GroceryStore!*

This bot is built for sales representatives and
warehouse keepers of wholesale and retail companies.

A sales rep assembles a customer's order right in
the chat; once confirmed, the order is forwarded to
the warehouse for picking.`

var textGuide = fmt.Sprintf(`*Quick guide*

_Navigation:_
- (%s) previous position
- (%s) next position
- (%s) more units
- (%s) fewer units

_Special buttons:_
- (%s) remove position
- (%s) open the order
- (%s) confirm the order`,
	btnPrevStep, btnNextStep, btnIncrease, btnDecrease,
	btnRemove, btnOrder, btnApply)

func textChooseCategory(firstName string) string {
	return fmt.Sprintf("%s, choose a product category", firstName)
}

func textNoCategories(firstName string) string {
	return fmt.Sprintf("%s, there are no categories yet.", firstName)
}

func textCategoryTitle(name string) string {
	return "Category " + name
}

func textProductAdded(sel *shop.Selection) string {
	return fmt.Sprintf("Added to the order:\n\n%s\n%s\nPrice: %.2f\n\n%d unit(s) left in stock",
		sel.Name, sel.Title, sel.Price, sel.Stock)
}

func textOutOfStock(sel *shop.Selection) string {
	return fmt.Sprintf("%s is out of stock", sel.Title)
}

const textNoOrder = "*The order is empty.*"

func textOrderLine(line *shop.Line) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*Position %d of %d*\n\n", line.Step+1, line.Total)
	fmt.Fprintf(&b, "_Name:_ *%s*\n", line.Name)
	fmt.Fprintf(&b, "_Description:_ *%s*\n", line.Title)
	fmt.Fprintf(&b, "_Price:_ *%.2f per unit*\n", line.Price)
	fmt.Fprintf(&b, "_Units:_ *%d*", line.Quantity)
	return b.String()
}

func textReceipt(r *shop.Receipt) string {
	return fmt.Sprintf("*Your order is confirmed!*\n\n_Total cost:_ *%.2f*\n_Total units:_ *%d*\n\n*The order was sent to the warehouse for picking.*",
		r.Cost, r.Quantity)
}

func textAddCategory(firstName string) string {
	return fmt.Sprintf("%s, send the name of the new category", firstName)
}

func textCategoryAdded(firstName, name string) string {
	return fmt.Sprintf("%s, category *%s* has been added", firstName, name)
}

func textCategoryAddFailed(firstName, name string) string {
	return fmt.Sprintf("%s, category *%s* was not added, it already exists", firstName, name)
}

func textCategoryView(c *storage.Category, productCount int) string {
	return fmt.Sprintf("*Category: %s*\nID: %d\nProducts: %d", c.Name, c.ID, productCount)
}

const (
	textCategoryDeleted      = "Category deleted"
	textCategoryDeleteFailed = "Failed to delete the category"
	textProductDeleted       = "Product deleted"
	textProductDeleteFailed  = "Failed to delete the product"
	textWizardCancelled      = "Operation cancelled"
	textProductSaved         = "Product saved"
)

func textSelectCategory(firstName string) string {
	return fmt.Sprintf("%s, pick a category for the new product", firstName)
}

func textWriteName(firstName string) string {
	return fmt.Sprintf("%s, send the full product name", firstName)
}

func textWriteTitle(firstName string) string {
	return fmt.Sprintf("%s, now send a short title for the product", firstName)
}

func textWritePrice(firstName string) string {
	return fmt.Sprintf("%s, now send the product price", firstName)
}

func textWriteQuantity(firstName string) string {
	return fmt.Sprintf("%s, now send the stock quantity", firstName)
}

func textBadInput(firstName string) string {
	return fmt.Sprintf("%s, that value does not look right, try again", firstName)
}

func textProductPreview(categoryName string, d *shop.ProductDraft) string {
	return fmt.Sprintf("*Product: %s*\nCategory: %s\nFull name: %s\nPrice: %.2f\nStock: %d",
		d.Title, categoryName, d.Name, d.Price, d.Quantity)
}

func textSaveFailed(firstName string) string {
	return fmt.Sprintf("%s, the product could not be saved 🤷", firstName)
}

func textProductView(p *storage.Product) string {
	return fmt.Sprintf("*%s*\n_%s_\nPrice: %.2f\nStock: %d", p.Title, p.Name, p.Price, p.Quantity)
}

func textNoProducts(firstName string) string {
	return fmt.Sprintf("%s, this category has no products yet.", firstName)
}
