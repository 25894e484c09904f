package sales

import (
	"errors"
	"fmt"

	"github.com/mamadbah2/farmacia/internal/domain/models"
)

var (
	// ErrOutOfStock is returned when adding a medicine with no stock left.
	ErrOutOfStock = errors.New("sales: medicine out of stock")
	// ErrNotInCart is returned when a line does not exist.
	ErrNotInCart = errors.New("sales: medicine not in cart")
)

// StockLimitError reports a quantity request above the available stock. The
// line has already been clamped to Available when it is returned.
type StockLimitError struct {
	MedicineID   string
	MedicineName string
	Requested    int
	Available    int
}

func (e *StockLimitError) Error() string {
	return fmt.Sprintf("sales: only %d units of %s available, requested %d", e.Available, e.MedicineName, e.Requested)
}

// Cart is an ordered set of lines keyed by medicine id. Every line holds
// 1 <= quantity <= stock.
type Cart struct {
	items []models.CartItem
}

func (c *Cart) index(medicineID string) int {
	for i := range c.items {
		if c.items[i].ID == medicineID {
			return i
		}
	}
	return -1
}

// Add inserts the medicine with quantity 1, or increments an existing line.
func (c *Cart) Add(m models.Medicine) error {
	if i := c.index(m.ID); i >= 0 {
		return c.SetQuantity(m.ID, c.items[i].QuantityInCart+1)
	}
	if m.StockQuantity <= 0 {
		return ErrOutOfStock
	}
	c.items = append(c.items, models.CartItem{Medicine: m, QuantityInCart: 1})
	return nil
}

// SetQuantity sets a line's quantity. Zero or less removes the line; more
// than the stock clamps to the stock and returns a *StockLimitError.
func (c *Cart) SetQuantity(medicineID string, quantity int) error {
	i := c.index(medicineID)
	if i < 0 {
		return ErrNotInCart
	}
	if quantity <= 0 {
		c.removeAt(i)
		return nil
	}

	item := &c.items[i]
	if quantity > item.StockQuantity {
		if item.StockQuantity <= 0 {
			c.removeAt(i)
			return ErrOutOfStock
		}
		item.QuantityInCart = item.StockQuantity
		return &StockLimitError{
			MedicineID:   item.ID,
			MedicineName: item.Name,
			Requested:    quantity,
			Available:    item.StockQuantity,
		}
	}
	item.QuantityInCart = quantity
	return nil
}

// Remove deletes a line regardless of its quantity.
func (c *Cart) Remove(medicineID string) error {
	i := c.index(medicineID)
	if i < 0 {
		return ErrNotInCart
	}
	c.removeAt(i)
	return nil
}

func (c *Cart) removeAt(i int) {
	c.items = append(c.items[:i], c.items[i+1:]...)
}

// Len returns the number of lines.
func (c *Cart) Len() int {
	return len(c.items)
}

// Quantity returns the quantity of a line, or 0 when absent.
func (c *Cart) Quantity(medicineID string) int {
	if i := c.index(medicineID); i >= 0 {
		return c.items[i].QuantityInCart
	}
	return 0
}

// Items returns a copy of the lines in insertion order; nil when empty.
func (c *Cart) Items() []models.CartItem {
	if len(c.items) == 0 {
		return nil
	}
	out := make([]models.CartItem, len(c.items))
	copy(out, c.items)
	return out
}

// Total is the sum of price times quantity, rounded to cents.
func (c *Cart) Total() float64 {
	var total float64
	for _, item := range c.items {
		total += item.Price * float64(item.QuantityInCart)
	}
	return models.RoundCents(total)
}

// SaleItems converts the cart into submission lines.
func (c *Cart) SaleItems() []models.SaleItem {
	out := make([]models.SaleItem, len(c.items))
	for i, item := range c.items {
		out[i] = models.SaleItem{MedicineID: item.ID, Quantity: item.QuantityInCart}
	}
	return out
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.items = nil
}
