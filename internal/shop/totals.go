package shop

import "context"

// Totals aggregates cost and quantity over all of a user's order lines. It is
// computed fresh from the ledger every time, never cached, so concurrent
// mutations cannot leave a stale total. Read failures propagate unchanged.
func Totals(ctx context.Context, store Store, userID int64) (Receipt, error) {
	ids, err := store.ListOrderedProductIDs(ctx, userID)
	if err != nil {
		return Receipt{}, err
	}

	var totals Receipt
	for _, productID := range ids {
		line, err := store.GetOrderLine(ctx, productID, userID)
		if err != nil {
			return Receipt{}, err
		}
		product, err := store.GetProduct(ctx, productID)
		if err != nil {
			return Receipt{}, err
		}
		totals.Cost += float64(line.Quantity) * product.Price
		totals.Quantity += line.Quantity
	}
	return totals, nil
}
