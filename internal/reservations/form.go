package reservations

// DefaultGuests is the party size a new form starts with.
const DefaultGuests = 2

// Form is the booking form state of one session.
type Form struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Mobile string `json:"mobile"`
	Guests int    `json:"guests"`
	Date   string `json:"date"`
	// Slot holds the selection value of the chosen TimeSlot. It is only valid
	// for Date: Submit resolves it against that day's listing.
	Slot  string `json:"slot"`
	Notes string `json:"notes"`
}

// NewForm returns an empty form for date with the default party size.
func NewForm(date string) Form {
	return Form{Guests: DefaultGuests, Date: date}
}

// SelectSlot records the selection value of a chosen slot.
func (f *Form) SelectSlot(value string) {
	f.Slot = value
}
