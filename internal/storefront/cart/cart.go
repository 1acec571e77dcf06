// Package cart holds the items a shopper has selected, with quantities,
// and derives the subtotal, delivery fee and total from them.
package cart

import (
	"sync"

	"github.com/chrisdamba/foodstore/internal/models"
	"github.com/shopspring/decimal"
)

// FeePolicy decides how delivery fees of the cart lines are combined.
type FeePolicy string

const (
	// PerLine charges every distinct line's delivery fee once.
	PerLine FeePolicy = models.DeliveryFeePerLine
	// PerRestaurant charges the highest line fee once per restaurant.
	PerRestaurant FeePolicy = models.DeliveryFeePerRestaurant
)

type Line struct {
	Item     models.MenuItem
	Quantity int
}

func (l Line) Amount() decimal.Decimal {
	return l.Item.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type Cart struct {
	mu     sync.Mutex
	lines  []Line
	policy FeePolicy
}

func New(policy FeePolicy) *Cart {
	if policy == "" {
		policy = PerLine
	}
	return &Cart{policy: policy}
}

// Add puts item in the cart at quantity 1, or bumps the quantity of the
// existing line with the same id.
func (c *Cart) Add(item models.MenuItem) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.index(item.ID); i >= 0 {
		c.lines[i].Quantity++
		return
	}
	c.lines = append(c.lines, Line{Item: item, Quantity: 1})
}

// SetQuantity is a no-op for n < 1 and for ids not in the cart.
func (c *Cart) SetQuantity(id string, n int) {
	if n < 1 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.index(id); i >= 0 {
		c.lines[i].Quantity = n
	}
}

// Increment and Decrement adjust by one; decrementing a line at 1 leaves it at 1.
func (c *Cart) Increment(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.index(id); i >= 0 {
		c.lines[i].Quantity++
	}
}

func (c *Cart) Decrement(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.index(id); i >= 0 && c.lines[i].Quantity > 1 {
		c.lines[i].Quantity--
	}
}

func (c *Cart) Remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.index(id); i >= 0 {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
	}
}

func (c *Cart) Clear() {
	c.mu.Lock()
	c.lines = nil
	c.mu.Unlock()
}

// Lines returns a copy of the cart lines in insertion order.
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines)
}

func (c *Cart) IsEmpty() bool {
	return c.Len() == 0
}

func (c *Cart) Subtotal() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.subtotal()
}

func (c *Cart) DeliveryFee() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deliveryFee()
}

// Total is subtotal plus delivery fee minus discount.
func (c *Cart) Total(discount decimal.Decimal) decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.subtotal().Add(c.deliveryFee()).Sub(discount)
}

// OrderLines is the id/quantity projection sent when placing an order.
func (c *Cart) OrderLines() []models.OrderLine {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]models.OrderLine, 0, len(c.lines))
	for _, l := range c.lines {
		out = append(out, models.OrderLine{ID: l.Item.ID, Quantity: l.Quantity})
	}
	return out
}

func (c *Cart) index(id string) int {
	for i := range c.lines {
		if c.lines[i].Item.ID == id {
			return i
		}
	}
	return -1
}

func (c *Cart) subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range c.lines {
		sum = sum.Add(l.Amount())
	}
	return sum
}

func (c *Cart) deliveryFee() decimal.Decimal {
	return FeeFor(c.policy, c.lines)
}

// FeeFor combines the delivery fees of lines under policy. The backend uses it
// to reprice orders, so both sides agree on the fee.
func FeeFor(policy FeePolicy, lines []Line) decimal.Decimal {
	sum := decimal.Zero
	if policy != PerRestaurant {
		for _, l := range lines {
			sum = sum.Add(l.Item.DeliveryFee)
		}
		return sum
	}

	byRestaurant := make(map[string]decimal.Decimal)
	var order []string
	for _, l := range lines {
		fee, seen := byRestaurant[l.Item.RestaurantID]
		if !seen {
			order = append(order, l.Item.RestaurantID)
		}
		if !seen || l.Item.DeliveryFee.GreaterThan(fee) {
			byRestaurant[l.Item.RestaurantID] = l.Item.DeliveryFee
		}
	}
	for _, id := range order {
		sum = sum.Add(byRestaurant[id])
	}
	return sum
}
