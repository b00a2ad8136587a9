package court

// Bank is the fixed set of courts in a session, addressed by one-based
// court id. Not safe for concurrent use; callers serialize access.
type Bank struct {
	courts []Court
}

// NewBank creates a bank of n empty courts. Non-positive n yields an
// empty bank.
func NewBank(n int) *Bank {
	if n < 0 {
		n = 0
	}

	return &Bank{courts: make([]Court, n)}
}

// Count returns the number of courts.
func (b *Bank) Count() int {
	return len(b.courts)
}

// IDs returns all court ids in ascending order.
func (b *Bank) IDs() []int {
	out := make([]int, len(b.courts))
	for i := range b.courts {
		out[i] = i + 1
	}

	return out
}

// Valid reports whether id addresses a court in the bank.
func (b *Bank) Valid(id int) bool {
	return id >= 1 && id <= len(b.courts)
}

// Get returns the court with the given id.
func (b *Bank) Get(id int) (Court, bool) {
	if !b.Valid(id) {
		return Court{}, false
	}

	return b.courts[id-1], true
}

// Set replaces the court with the given id.
func (b *Bank) Set(id int, c Court) bool {
	if !b.Valid(id) {
		return false
	}
	b.courts[id-1] = c

	return true
}

// SetSlot places name into one slot of one court. An empty name vacates
// the slot.
func (b *Bank) SetSlot(id, slot int, name string) bool {
	if !b.Valid(id) || slot < 0 || slot >= len(b.courts[id-1]) {
		return false
	}
	b.courts[id-1][slot] = name

	return true
}

// Clear empties every slot on every court, keeping the court count.
func (b *Bank) Clear() {
	for i := range b.courts {
		b.courts[i] = Court{}
	}
}

// Remove vacates the slot holding name, wherever it is. It returns
// false when the player is not seated.
func (b *Bank) Remove(name string) bool {
	id, slot, ok := b.SeatOf(name)
	if !ok {
		return false
	}
	b.courts[id-1][slot] = ""

	return true
}

// Seated returns every seated player, court by court in slot order.
func (b *Bank) Seated() []string {
	out := make([]string, 0, len(b.courts)*len(Court{}))
	for i := range b.courts {
		out = append(out, b.courts[i].Occupied()...)
	}

	return out
}

// SeatOf returns the court id and slot where name sits.
func (b *Bank) SeatOf(name string) (int, int, bool) {
	if name == "" {
		return 0, 0, false
	}
	for i := range b.courts {
		for slot, n := range b.courts[i] {
			if n == name {
				return i + 1, slot, true
			}
		}
	}

	return 0, 0, false
}

// Courts returns a copy of every court keyed by id.
func (b *Bank) Courts() map[int]Court {
	out := make(map[int]Court, len(b.courts))
	for i := range b.courts {
		out[i+1] = b.courts[i]
	}

	return out
}
