package enums

// AddOnMode controls how an add-on option combines with the rest of a selection.
// A single option replaces the whole selection; multi options toggle independently.
type AddOnMode string

const (
	AddOnModeSingle AddOnMode = "single"
	AddOnModeMulti  AddOnMode = "multi"
)

func (a AddOnMode) String() string {
	return string(a)
}

func (a AddOnMode) IsValid() bool {
	return a == AddOnModeSingle || a == AddOnModeMulti
}

// ParseAddOnMode converts raw input into an AddOnMode. Blank input defaults to multi.
func ParseAddOnMode(value string) (AddOnMode, error) {
	if normalize(value) == "" {
		return AddOnModeMulti, nil
	}
	return parse(value, "add-on mode", []AddOnMode{AddOnModeSingle, AddOnModeMulti})
}
