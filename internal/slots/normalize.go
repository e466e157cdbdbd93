package slots

import (
	"encoding/json"
	"fmt"
	"iter"
	"math"
	"strings"
	"time"
)

const labelSeparator = " — "

// TimeSlot is a displayable reservation slot derived from a RawSlot.
type TimeSlot struct {
	ID              string          `json:"id"`
	Start           *time.Time      `json:"startTimestamp"`
	StartValue      string          `json:"startISO"`
	Label           string          `json:"label"`
	StartDisplay    string          `json:"startTime"`
	EndDisplay      *string         `json:"endTime"`
	DurationMinutes int             `json:"durationMin"`
	Available       bool            `json:"available"`
	Raw             json.RawMessage `json:"raw"`
}

// SelectionValue is the identifier a booking form submits for this slot.
func (s TimeSlot) SelectionValue() string {
	switch {
	case s.StartValue != "":
		return s.StartValue
	case s.StartDisplay != "":
		return s.StartDisplay
	}
	return s.Label
}

// Normalizer turns raw slot records into TimeSlots rendered in a fixed location.
type Normalizer struct {
	loc *time.Location
}

func NewNormalizer(loc *time.Location) *Normalizer {
	if loc == nil {
		loc = time.Local
	}
	return &Normalizer{loc: loc}
}

// Normalize converts one record. The boolean is false when the record has no
// usable start time and must be dropped.
func (n *Normalizer) Normalize(raw RawSlot, index int) (TimeSlot, bool) {
	candidate, ok := raw.startCandidate()
	if !ok {
		if raw.Kind == RawText && raw.Text != "" {
			return n.fromText(raw, index), true
		}
		return TimeSlot{}, false
	}

	start, ok := n.parseStart(candidate)
	if !ok {
		return TimeSlot{}, false
	}

	duration := raw.duration.number()
	if math.IsNaN(duration) || duration < 0 {
		duration = 0
	}
	minutes := int(math.Trunc(duration))

	startValue := candidate.String()
	slot := TimeSlot{
		ID:              raw.id.String(),
		StartValue:      startValue,
		DurationMinutes: minutes,
		Available:       strings.ToUpper(raw.status.String()) == "AVAILABLE",
		Raw:             raw.Raw,
	}
	if !raw.id.truthy() {
		slot.ID = fmt.Sprintf("%s-%d", startValue, index)
	}
	n.applyTimes(&slot, start)
	return slot, true
}

// NormalizeAll lazily normalizes every record, skipping the ones that produce no slot.
// The sequence holds no state and can be ranged over repeatedly.
func (n *Normalizer) NormalizeAll(raws []RawSlot) iter.Seq[TimeSlot] {
	return func(yield func(TimeSlot) bool) {
		for i, raw := range raws {
			slot, ok := n.Normalize(raw, i)
			if !ok {
				continue
			}
			if !yield(slot) {
				return
			}
		}
	}
}

// fromText builds a best-effort slot from a bare string record. Parseable text
// gets display times; anything else is shown verbatim.
func (n *Normalizer) fromText(raw RawSlot, index int) TimeSlot {
	slot := TimeSlot{
		ID:           fmt.Sprintf("%s-%d", raw.Text, index),
		StartValue:   raw.Text,
		Label:        raw.Text,
		StartDisplay: raw.Text,
		Available:    true,
		Raw:          raw.Raw,
	}
	if start, ok := n.parseStart(rawValue{kind: valueString, str: raw.Text}); ok {
		n.applyTimes(&slot, start)
	}
	return slot
}

func (n *Normalizer) applyTimes(slot *TimeSlot, start time.Time) {
	local := start.In(n.loc)
	slot.Start = &local
	slot.StartDisplay = clock(local)
	slot.Label = slot.StartDisplay
	slot.EndDisplay = nil
	if slot.DurationMinutes > 0 {
		end := clock(local.Add(time.Duration(slot.DurationMinutes) * time.Minute))
		slot.EndDisplay = &end
		slot.Label = slot.StartDisplay + labelSeparator + end
	}
}

func clock(t time.Time) string {
	return t.Format("15:04")
}

var zonedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
	time.RFC1123Z,
	time.RFC1123,
}

var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// parseStart accepts ISO-8601 text (zoned, or zone-less in the configured
// location), a bare date (UTC midnight) or epoch milliseconds.
func (n *Normalizer) parseStart(v rawValue) (time.Time, bool) {
	switch v.kind {
	case valueNumber:
		if math.IsInf(v.num, 0) || math.IsNaN(v.num) {
			return time.Time{}, false
		}
		return time.UnixMilli(int64(v.num)), true
	case valueString:
		text := strings.TrimSpace(v.str)
		if text == "" {
			return time.Time{}, false
		}
		for _, layout := range zonedLayouts {
			if t, err := time.Parse(layout, text); err == nil {
				return t, true
			}
		}
		for _, layout := range localLayouts {
			if t, err := time.ParseInLocation(layout, text, n.loc); err == nil {
				return t, true
			}
		}
		if t, err := time.Parse(time.DateOnly, text); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
