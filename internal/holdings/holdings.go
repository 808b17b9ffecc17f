// Package holdings derives position and portfolio figures from user-entered
// transactions and live symbol state. Everything here is a pure function over
// its inputs; the engine recomputes rather than mutating incrementally.
package holdings

import "stock-monitor/internal/types"

// ComputeHolding derives total quantity and average cost from a transaction
// list. Entries with non-positive quantity or price are excluded. Returns
// 0, 0 when no valid entry remains.
func ComputeHolding(txs []types.Transaction) (quantity, avgCost float64) {
	var totalQty, totalCost float64
	for _, tx := range txs {
		if tx.Quantity > 0 && tx.Price > 0 {
			totalQty += tx.Quantity
			totalCost += tx.Quantity * tx.Price
		}
	}
	if totalQty <= 0 {
		return 0, 0
	}
	return totalQty, totalCost / totalQty
}
