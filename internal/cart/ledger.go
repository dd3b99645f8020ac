// Package cart implements the in-memory shopping cart ledger.
package cart

import (
	"slices"
	"sync"

	"github.com/fairyhunter13/stylist-storefront/internal/model"
	"github.com/shopspring/decimal"
)

// Key identifies a distinct cart line: the same product in another size or
// color is a separate line.
type Key struct {
	ProductID int64  `json:"product_id"`
	Size      string `json:"size,omitempty"`
	Color     string `json:"color,omitempty"`
}

// Line is a product with a requested quantity and optional variant.
type Line struct {
	Product       model.Product `json:"product"`
	Quantity      int           `json:"quantity"`
	SelectedSize  string        `json:"selected_size,omitempty"`
	SelectedColor string        `json:"selected_color,omitempty"`
}

// Key returns the variant key of the line.
func (l Line) Key() Key {
	return Key{ProductID: l.Product.ID, Size: l.SelectedSize, Color: l.SelectedColor}
}

// Total returns price times quantity.
func (l Line) Total() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Op names the mutation reported in a Change.
type Op string

const (
	OpAdd           Op = "add"
	OpRemove        Op = "remove"
	OpRemoveProduct Op = "remove_product"
	OpSetQuantity   Op = "set_quantity"
	OpClear         Op = "clear"
)

// Change describes a completed mutation and the cart totals after it.
type Change struct {
	Op        Op
	Key       Key
	ItemCount int
	Subtotal  decimal.Decimal
}

// Listener is notified after every mutation.
type Listener func(Change)

// Ledger holds cart lines in insertion order. Every mutation notifies all
// subscribed listeners synchronously before returning. Listeners run without
// the ledger lock held; they may read the ledger but must not mutate it.
type Ledger struct {
	mu    sync.Mutex
	lines []Line

	lmu       sync.Mutex
	nextID    int
	listeners map[int]Listener
	order     []int

	// notify serializes listener delivery so changes arrive in mutation order.
	notify sync.Mutex
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{listeners: make(map[int]Listener)}
}

// Subscribe registers fn and returns a function that removes it.
func (l *Ledger) Subscribe(fn Listener) (unsubscribe func()) {
	l.lmu.Lock()
	id := l.nextID
	l.nextID++
	l.listeners[id] = fn
	l.order = append(l.order, id)
	l.lmu.Unlock()
	var once sync.Once
	return func() {
		once.Do(func() {
			l.lmu.Lock()
			defer l.lmu.Unlock()
			delete(l.listeners, id)
			l.order = slices.DeleteFunc(l.order, func(v int) bool { return v == id })
		})
	}
}

// Add increments the line for (product, size, color) by quantity, appending
// a new line if none exists. A non-positive quantity counts as one.
func (l *Ledger) Add(p model.Product, quantity int, size, color string) {
	if quantity <= 0 {
		quantity = 1
	}
	key := Key{ProductID: p.ID, Size: size, Color: color}
	l.mutate(OpAdd, key, func() bool {
		if i := l.indexOf(key); i >= 0 {
			l.lines[i].Quantity += quantity
			return true
		}
		l.lines = append(l.lines, Line{Product: p, Quantity: quantity, SelectedSize: size, SelectedColor: color})
		return true
	})
}

// Remove deletes the line with exactly this key. An absent key is a no-op.
func (l *Ledger) Remove(key Key) {
	l.mutate(OpRemove, key, func() bool {
		i := l.indexOf(key)
		if i < 0 {
			return false
		}
		l.lines = slices.Delete(l.lines, i, i+1)
		return true
	})
}

// RemoveProduct deletes every line of the product, whatever its variant.
func (l *Ledger) RemoveProduct(productID int64) {
	l.mutate(OpRemoveProduct, Key{ProductID: productID}, func() bool {
		n := len(l.lines)
		l.lines = slices.DeleteFunc(l.lines, func(ln Line) bool { return ln.Product.ID == productID })
		return len(l.lines) != n
	})
}

// SetQuantity sets the quantity of the line with this key. A quantity of
// zero or less removes the line. An absent key is a no-op.
func (l *Ledger) SetQuantity(key Key, quantity int) {
	l.mutate(OpSetQuantity, key, func() bool {
		i := l.indexOf(key)
		if i < 0 {
			return false
		}
		if quantity <= 0 {
			l.lines = slices.Delete(l.lines, i, i+1)
			return true
		}
		l.lines[i].Quantity = quantity
		return true
	})
}

// Clear empties the ledger.
func (l *Ledger) Clear() {
	l.mutate(OpClear, Key{}, func() bool {
		l.lines = nil
		return true
	})
}

// Lines returns a copy of the lines in insertion order.
func (l *Ledger) Lines() []Line {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.lines)
}

// Line returns the line with this key.
func (l *Ledger) Line(key Key) (Line, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.indexOf(key)
	if i < 0 {
		return Line{}, false
	}
	return l.lines[i], true
}

// Len returns the number of distinct lines.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.lines)
}

// Subtotal returns the sum of price times quantity over all lines.
func (l *Ledger) Subtotal() decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.subtotal()
}

// ItemCount returns the sum of quantities over all lines.
func (l *Ledger) ItemCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.itemCount()
}

func (l *Ledger) subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, ln := range l.lines {
		sum = sum.Add(ln.Total())
	}
	return sum
}

func (l *Ledger) itemCount() int {
	n := 0
	for _, ln := range l.lines {
		n += ln.Quantity
	}
	return n
}

// indexOf must be called with mu held.
func (l *Ledger) indexOf(key Key) int {
	return slices.IndexFunc(l.lines, func(ln Line) bool { return ln.Key() == key })
}

// mutate applies fn under the lock and, if fn reports a change, notifies
// listeners once the lock is released.
func (l *Ledger) mutate(op Op, key Key, fn func() bool) {
	l.notify.Lock()
	defer l.notify.Unlock()

	l.mu.Lock()
	changed := fn()
	ch := Change{Op: op, Key: key, ItemCount: l.itemCount(), Subtotal: l.subtotal()}
	l.mu.Unlock()
	if !changed {
		return
	}

	l.lmu.Lock()
	fns := make([]Listener, 0, len(l.order))
	for _, id := range l.order {
		fns = append(fns, l.listeners[id])
	}
	l.lmu.Unlock()
	for _, notify := range fns {
		notify(ch)
	}
}
