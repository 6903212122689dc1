package engine

import (
	"cmp"
	"slices"

	"superstore-dashboard/internal/models"
)

// CustomerOrders counts distinct orders and sums sales and profit per
// customer. A customer with exactly one order is "new", otherwise "repeat".
// Rows are ordered by customer id.
func CustomerOrders(records []models.Record) []models.CustomerOrders {
	type acc struct {
		name          string
		sales, profit float64
		orders        map[string]struct{}
	}
	groups := make(map[string]*acc)
	for _, r := range records {
		g := groups[r.CustomerID]
		if g == nil {
			g = &acc{name: r.CustomerName, orders: make(map[string]struct{})}
			groups[r.CustomerID] = g
		}
		g.sales += r.Sales
		g.profit += r.Profit
		g.orders[r.OrderID] = struct{}{}
	}

	out := make([]models.CustomerOrders, 0, len(groups))
	for _, id := range sortedKeys(groups) {
		g := groups[id]
		typ := models.CustomerRepeat
		if len(g.orders) == 1 {
			typ = models.CustomerNew
		}
		out = append(out, models.CustomerOrders{
			CustomerID:   id,
			CustomerName: g.name,
			Orders:       len(g.orders),
			Sales:        g.sales,
			Profit:       g.profit,
			Type:         typ,
		})
	}
	return out
}

// CustomerTypes rolls the per-customer classification up into new and repeat
// groups. Only types that occur are reported, new first.
func CustomerTypes(records []models.Record) []models.CustomerTypeSummary {
	byType := map[models.CustomerType]*models.CustomerTypeSummary{}
	for _, c := range CustomerOrders(records) {
		s := byType[c.Type]
		if s == nil {
			s = &models.CustomerTypeSummary{Type: c.Type}
			byType[c.Type] = s
		}
		s.Customers++
		s.Sales += c.Sales
		s.Profit += c.Profit
	}

	out := make([]models.CustomerTypeSummary, 0, len(byType))
	for _, typ := range []models.CustomerType{models.CustomerNew, models.CustomerRepeat} {
		if s := byType[typ]; s != nil {
			out = append(out, *s)
		}
	}
	return out
}

// TopCustomers returns at most n customers by sales, largest first.
func TopCustomers(records []models.Record, n int) []models.CustomerOrders {
	customers := CustomerOrders(records)
	slices.SortStableFunc(customers, func(a, b models.CustomerOrders) int {
		return cmp.Compare(b.Sales, a.Sales)
	})
	return head(customers, n)
}

// OrderCountDistribution counts customers per number of distinct orders.
func OrderCountDistribution(records []models.Record) []models.OrderCountBucket {
	counts := make(map[int]int)
	for _, c := range CustomerOrders(records) {
		counts[c.Orders]++
	}

	out := make([]models.OrderCountBucket, 0, len(counts))
	for _, orders := range sortedKeys(counts) {
		out = append(out, models.OrderCountBucket{Orders: orders, Customers: counts[orders]})
	}
	return out
}
