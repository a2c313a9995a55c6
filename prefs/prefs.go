// Package prefs implements the food-preference session model: an ordered,
// fixed set of rated categories with controlled mutation, an explicit
// observer hook for render layers, and the outbound payload contract used to
// hand the ratings back to the hosting Telegram client.
package prefs

import (
	"sync"

	"github.com/pkg/errors"
)

// Category identifies one rated food category.
type Category string

const (
	CategoryFruits     Category = "fruits"
	CategoryVegetables Category = "vegetables"
	CategoryMeat       Category = "meat"
	CategoryDairy      Category = "dairy"
)

const (
	// MinValue and MaxValue bound every rating.
	MinValue = 1
	MaxValue = 10
	// DefaultValue is the rating every category starts with and resets to.
	DefaultValue = 5
)

// Categories returns the fixed category set in display order. The set and
// order never change for the lifetime of a session.
func Categories() []Category {
	return []Category{CategoryFruits, CategoryVegetables, CategoryMeat, CategoryDairy}
}

var (
	// ErrIndexOutOfRange is returned when an index does not address a category.
	ErrIndexOutOfRange = errors.New("preference index out of range")
	// ErrValueOutOfRange is returned when a rating falls outside [MinValue, MaxValue].
	ErrValueOutOfRange = errors.New("preference value out of range")
)

// Preference is one category with its current rating.
type Preference struct {
	Name  Category `json:"name"`
	Value int      `json:"value"`
}

// List holds the session's preferences. It is created with every rating at
// DefaultValue and mutated in place for the lifetime of the session; nothing
// is persisted when the session ends.
//
// Render layers register with Subscribe instead of polling: every mutation
// notifies all subscribers synchronously, replacing implicit two-way binding
// with an explicit refresh signal.
type List struct {
	mu          sync.Mutex
	entries     []Preference
	subscribers []func()
}

// NewList creates a session preference list with all ratings at DefaultValue.
func NewList() *List {
	categories := Categories()
	entries := make([]Preference, 0, len(categories))
	for _, category := range categories {
		entries = append(entries, Preference{Name: category, Value: DefaultValue})
	}
	return &List{entries: entries}
}

// Len returns the number of categories. It is constant for a given session.
func (l *List) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Get returns the preference at index.
func (l *List) Get(index int) (Preference, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if index < 0 || index >= len(l.entries) {
		return Preference{}, errors.Wrapf(ErrIndexOutOfRange, "index %d", index)
	}
	return l.entries[index], nil
}

// SetValue updates the rating at index and notifies subscribers. The value
// must already be within [MinValue, MaxValue]; unlike the slider control on
// the Mini App page there is no input element in front of this store to clamp
// it, so out-of-range values are rejected.
func (l *List) SetValue(index, value int) error {
	l.mu.Lock()
	if index < 0 || index >= len(l.entries) {
		l.mu.Unlock()
		return errors.Wrapf(ErrIndexOutOfRange, "index %d", index)
	}
	if value < MinValue || value > MaxValue {
		l.mu.Unlock()
		return errors.Wrapf(ErrValueOutOfRange, "value %d", value)
	}
	l.entries[index].Value = value
	subscribers := l.subscribers
	l.mu.Unlock()

	notify(subscribers)
	return nil
}

// ResetAll sets every rating back to DefaultValue and notifies subscribers.
// Applying it twice is indistinguishable from applying it once.
func (l *List) ResetAll() {
	l.mu.Lock()
	for i := range l.entries {
		l.entries[i].Value = DefaultValue
	}
	subscribers := l.subscribers
	l.mu.Unlock()

	notify(subscribers)
}

// Subscribe registers fn to run synchronously after every mutation.
// Subscribers must not mutate the list from within the callback.
func (l *List) Subscribe(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.subscribers = append(l.subscribers, fn)
}

// Snapshot returns a copy of the current preferences in display order.
func (l *List) Snapshot() []Preference {
	l.mu.Lock()
	defer l.mu.Unlock()
	snapshot := make([]Preference, len(l.entries))
	copy(snapshot, l.entries)
	return snapshot
}

// notify runs outside the list mutex so subscribers may read the list.
func notify(subscribers []func()) {
	for _, fn := range subscribers {
		fn()
	}
}
