package prefs

import (
	"errors"
	"testing"
)

func TestNewListDefaults(t *testing.T) {
	list := NewList()

	if got, want := list.Len(), 4; got != want {
		t.Fatalf("Len() = %d, want %d", got, want)
	}

	wantOrder := []Category{CategoryFruits, CategoryVegetables, CategoryMeat, CategoryDairy}
	for i, want := range wantOrder {
		entry, err := list.Get(i)
		if err != nil {
			t.Fatalf("Get(%d) error = %v", i, err)
		}
		if entry.Name != want {
			t.Errorf("entry %d name = %q, want %q", i, entry.Name, want)
		}
		if entry.Value != DefaultValue {
			t.Errorf("entry %d value = %d, want %d", i, entry.Value, DefaultValue)
		}
	}
}

func TestSetValue(t *testing.T) {
	tests := []struct {
		name    string
		index   int
		value   int
		wantErr error
	}{
		{"first category minimum", 0, 1, nil},
		{"first category maximum", 0, 10, nil},
		{"last category", 3, 7, nil},
		{"negative index", -1, 5, ErrIndexOutOfRange},
		{"index past end", 4, 5, ErrIndexOutOfRange},
		{"value below range", 1, 0, ErrValueOutOfRange},
		{"value above range", 1, 11, ErrValueOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list := NewList()
			err := list.SetValue(tt.index, tt.value)
			if (tt.wantErr == nil && err != nil) || (tt.wantErr != nil && !errors.Is(err, tt.wantErr)) {
				t.Fatalf("SetValue(%d, %d) error = %v, want %v", tt.index, tt.value, err, tt.wantErr)
			}
			if tt.wantErr != nil {
				// A rejected mutation must leave every entry untouched.
				for _, entry := range list.Snapshot() {
					if entry.Value != DefaultValue {
						t.Errorf("entry %q value = %d after rejected mutation, want %d", entry.Name, entry.Value, DefaultValue)
					}
				}
				return
			}
			entry, err := list.Get(tt.index)
			if err != nil {
				t.Fatalf("Get(%d) error = %v", tt.index, err)
			}
			if entry.Value != tt.value {
				t.Errorf("entry %d value = %d, want %d", tt.index, entry.Value, tt.value)
			}
		})
	}
}

func TestSetValueLeavesOthersUnchanged(t *testing.T) {
	list := NewList()
	if err := list.SetValue(0, 8); err != nil {
		t.Fatalf("SetValue(0, 8) error = %v", err)
	}

	wantValues := []int{8, 5, 5, 5}
	for i, entry := range list.Snapshot() {
		if entry.Value != wantValues[i] {
			t.Errorf("entry %q value = %d, want %d", entry.Name, entry.Value, wantValues[i])
		}
	}
}

func TestResetAllIdempotent(t *testing.T) {
	list := NewList()
	for i := 0; i < list.Len(); i++ {
		if err := list.SetValue(i, i+2); err != nil {
			t.Fatalf("SetValue(%d) error = %v", i, err)
		}
	}

	list.ResetAll()
	first := list.Snapshot()
	list.ResetAll()
	second := list.Snapshot()

	for i := range first {
		if first[i].Value != DefaultValue {
			t.Errorf("entry %q value = %d after reset, want %d", first[i].Name, first[i].Value, DefaultValue)
		}
		if first[i] != second[i] {
			t.Errorf("entry %d differs between first and second reset: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestSubscribeNotifiedOnEveryMutation(t *testing.T) {
	list := NewList()
	notified := 0
	list.Subscribe(func() { notified++ })

	if err := list.SetValue(2, 9); err != nil {
		t.Fatalf("SetValue error = %v", err)
	}
	list.ResetAll()

	if notified != 2 {
		t.Errorf("subscriber notified %d times, want 2", notified)
	}

	// Rejected mutations must not notify.
	if err := list.SetValue(9, 5); err == nil {
		t.Fatal("SetValue(9, 5) expected error")
	}
	if notified != 2 {
		t.Errorf("subscriber notified %d times after rejected mutation, want 2", notified)
	}
}

func TestSubscriberMayReadList(t *testing.T) {
	list := NewList()
	var seen []Preference
	list.Subscribe(func() { seen = list.Snapshot() })

	if err := list.SetValue(1, 3); err != nil {
		t.Fatalf("SetValue error = %v", err)
	}
	if len(seen) != 4 || seen[1].Value != 3 {
		t.Errorf("subscriber saw %+v, want vegetables=3", seen)
	}
}
