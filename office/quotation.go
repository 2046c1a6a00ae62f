package office

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// PriceItems recomputes every line total as quantity × unit price and
// returns the priced items with their subtotal. The quotation total equals
// the subtotal; there are no taxes or discounts.
func PriceItems(items []QuotationItem) ([]QuotationItem, decimal.Decimal) {
	priced := make([]QuotationItem, len(items))
	subtotal := decimal.Zero
	for i, item := range items {
		item.LineTotal = RoundMoney(item.Quantity.Mul(item.UnitPrice))
		subtotal = subtotal.Add(item.LineTotal)
		priced[i] = item
	}
	return priced, subtotal
}

// NextQuotationNumber returns the number following last. Only the leading
// digits of last are considered; when there are none the sequence restarts
// at "1".
func NextQuotationNumber(last string) string {
	end := 0
	for end < len(last) && last[end] >= '0' && last[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(last[:end])
	if err != nil {
		return "1"
	}
	return strconv.Itoa(n + 1)
}
