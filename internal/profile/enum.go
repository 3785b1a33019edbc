package profile

import (
	"fmt"
	"slices"
)

// Enum is a bidirectional map between numbers and names.
type Enum struct {
	byValue map[int32]string
	byName  map[string]int32
}

// NewEnum returns an empty Enum.
func NewEnum() *Enum {
	return &Enum{
		byValue: make(map[int32]string),
		byName:  make(map[string]int32),
	}
}

// Add binds name to value. Both sides must be unique.
func (e *Enum) Add(value int32, name string) error {
	if name == "" {
		return fmt.Errorf("empty name for value %d", value)
	}
	if old, dup := e.byValue[value]; dup {
		return fmt.Errorf("value %d already named %q", value, old)
	}
	if old, dup := e.byName[name]; dup {
		return fmt.Errorf("name %q already bound to %d", name, old)
	}
	e.byValue[value] = name
	e.byName[name] = value
	return nil
}

// Name returns the name bound to value.
func (e *Enum) Name(value int32) (string, bool) {
	if e == nil {
		return "", false
	}
	n, ok := e.byValue[value]
	return n, ok
}

// Value returns the value bound to name.
func (e *Enum) Value(name string) (int32, bool) {
	if e == nil {
		return 0, false
	}
	v, ok := e.byName[name]
	return v, ok
}

// Len returns the number of bindings.
func (e *Enum) Len() int {
	if e == nil {
		return 0
	}
	return len(e.byValue)
}

// Values returns the bound values in ascending order.
func (e *Enum) Values() []int32 {
	if e == nil {
		return nil
	}
	vals := make([]int32, 0, len(e.byValue))
	for v := range e.byValue {
		vals = append(vals, v)
	}
	slices.Sort(vals)
	return vals
}
