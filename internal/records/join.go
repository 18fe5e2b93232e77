package records

// CustomerIndex is a one-pass lookup table from customer ID to customer,
// built once per refresh so order joins stay O(1).
type CustomerIndex map[string]Customer

// BuildCustomerIndex indexes customers by ID. Later duplicates win, matching
// the booking source's own last-write semantics.
func BuildCustomerIndex(customers []Customer) CustomerIndex {
	index := make(CustomerIndex, len(customers))
	for _, customer := range customers {
		index[customer.ID] = customer
	}
	return index
}

// JoinOrderCustomer resolves an order's customer through the index. Orders
// with a missing or dangling customer reference return ok=false; the order
// itself stays usable.
func (idx CustomerIndex) JoinOrderCustomer(order Order) (Customer, bool) {
	if order.CustomerID == "" {
		return Customer{}, false
	}
	customer, ok := idx[order.CustomerID]
	return customer, ok
}

// AttachStockItems groups stock items under their owning equipment and
// returns new equipment values; neither input slice is mutated.
func AttachStockItems(equipment []EquipmentItem, items []StockItem) []EquipmentItem {
	byProduct := make(map[string][]StockItem, len(equipment))
	for _, item := range items {
		if item.ProductID == "" {
			continue
		}
		byProduct[item.ProductID] = append(byProduct[item.ProductID], item)
	}

	joined := make([]EquipmentItem, len(equipment))
	for i, product := range equipment {
		product.StockItems = byProduct[product.ID]
		joined[i] = product
	}
	return joined
}
