package domain

// --- Cart Entities ---

type LineItem struct {
	ID                 int64   `json:"id"`
	Title              string  `json:"title"`
	Price              float64 `json:"price"`
	Quantity           int     `json:"quantity"`
	Total              float64 `json:"total"`
	DiscountPercentage float64 `json:"discountPercentage"`
	DiscountedTotal    float64 `json:"discountedTotal"`
	Thumbnail          string  `json:"thumbnail"`
}

type Cart struct {
	ID              int64      `json:"id"`
	UserID          int64      `json:"userId"`
	Products        []LineItem `json:"products"`
	Total           float64    `json:"total"`
	DiscountedTotal float64    `json:"discountedTotal"`
	TotalProducts   int        `json:"totalProducts"`
	TotalQuantity   int        `json:"totalQuantity"`
}

// Recompute rebuilds every derived field from the line items. The aggregates
// are never patched incrementally: any mutation must call Recompute so the
// totals cannot drift from the item collection.
func (c *Cart) Recompute() {
	var total, discountedTotal float64
	totalQuantity := 0

	for i := range c.Products {
		p := &c.Products[i]
		p.Total = p.Price * float64(p.Quantity)
		p.DiscountedTotal = p.Total * (100 - p.DiscountPercentage) / 100
		total += p.Total
		discountedTotal += p.DiscountedTotal
		totalQuantity += p.Quantity
	}

	c.Total = total
	c.DiscountedTotal = discountedTotal
	c.TotalQuantity = totalQuantity
	c.TotalProducts = len(c.Products)
}

// UpdateQuantity sets the quantity of a line item, clamped to a minimum of 1.
// Unknown item IDs are a silent no-op.
func (c *Cart) UpdateQuantity(itemID int64, quantity int) {
	if c == nil {
		return
	}
	if quantity < 1 {
		quantity = 1
	}
	for i := range c.Products {
		if c.Products[i].ID == itemID {
			c.Products[i].Quantity = quantity
			c.Recompute()
			return
		}
	}
}

// RemoveLineItem deletes a line item if present; unknown IDs are a no-op.
func (c *Cart) RemoveLineItem(itemID int64) {
	if c == nil {
		return
	}
	for i := range c.Products {
		if c.Products[i].ID == itemID {
			c.Products = append(c.Products[:i], c.Products[i+1:]...)
			c.Recompute()
			return
		}
	}
}
