package slot

// Status classifies one slot of a Values set.
type Status int

const (
	StatusRemaining Status = iota
	StatusDefault
	StatusAnswered
)

func (s Status) String() string {
	switch s {
	case StatusAnswered:
		return "answered"
	case StatusDefault:
		return "default"
	default:
		return "remaining"
	}
}

// Values maps slots to typed answers and tracks which answers are only preset defaults.
// It is not safe for concurrent use; the owning session serializes access.
type Values struct {
	vals     map[Slot]Value
	defaults map[Slot]bool
}

// NewValues returns an empty set.
func NewValues() *Values {
	return &Values{
		vals:     make(map[Slot]Value),
		defaults: make(map[Slot]bool),
	}
}

// Set stores a user-confirmed value and clears the slot's default flag.
func (v *Values) Set(val Value) {
	if val == nil {
		return
	}
	v.vals[val.Slot()] = val
	delete(v.defaults, val.Slot())
}

// SetDefault stores a preset default unless the slot holds a user-confirmed value.
// An earlier default is replaced. It reports whether the value was written.
func (v *Values) SetDefault(val Value) bool {
	if val == nil {
		return false
	}
	if _, ok := v.vals[val.Slot()]; ok && !v.defaults[val.Slot()] {
		return false
	}
	v.vals[val.Slot()] = val
	v.defaults[val.Slot()] = true
	return true
}

// Get returns the value held for s.
func (v *Values) Get(s Slot) (Value, bool) {
	val, ok := v.vals[s]
	return val, ok
}

// Has reports whether s holds any value, default or confirmed.
func (v *Values) Has(s Slot) bool {
	_, ok := v.vals[s]
	return ok
}

// IsDefault reports whether s holds only a preset default.
func (v *Values) IsDefault(s Slot) bool { return v.defaults[s] }

// Len is the number of slots holding a value.
func (v *Values) Len() int { return len(v.vals) }

// Classify returns the status of s.
func (v *Values) Classify(s Slot) Status {
	switch {
	case !v.Has(s):
		return StatusRemaining
	case v.defaults[s]:
		return StatusDefault
	default:
		return StatusAnswered
	}
}

// Defaults lists the default-provenance slots in question order.
func (v *Values) Defaults() []Slot {
	out := []Slot{}
	for _, s := range All() {
		if v.defaults[s] {
			out = append(out, s)
		}
	}
	return out
}

// Snapshot renders the live values keyed by slot tag.
func (v *Values) Snapshot() map[string]any {
	out := make(map[string]any, len(v.vals))
	for s, val := range v.vals {
		out[string(s)] = val.Raw()
	}
	return out
}

// Clone returns an independent copy.
func (v *Values) Clone() *Values {
	c := NewValues()
	for s, val := range v.vals {
		c.vals[s] = val
	}
	for s := range v.defaults {
		c.defaults[s] = true
	}
	return c
}

// Lookup returns the value for its slot typed as T.
func Lookup[T Value](v *Values, s Slot) (T, bool) {
	var zero T
	if v == nil {
		return zero, false
	}
	val, ok := v.vals[s]
	if !ok {
		return zero, false
	}
	t, ok := val.(T)
	return t, ok
}
