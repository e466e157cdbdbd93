package slots

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// RawKind tags the JSON shape of a slot record as delivered by the upstream API.
type RawKind int

const (
	RawOther RawKind = iota
	RawObject
	RawText
)

type valueKind int

const (
	valueMissing valueKind = iota
	valueString
	valueNumber
	valueBool
)

// rawValue is a loosely typed scalar field of a slot record.
type rawValue struct {
	kind valueKind
	str  string
	num  float64
	b    bool
}

func decodeValue(data json.RawMessage) rawValue {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return rawValue{}
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return rawValue{kind: valueString, str: s}
		}
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(trimmed, &b); err == nil {
			return rawValue{kind: valueBool, b: b}
		}
	case 'n', '{', '[':
		return rawValue{}
	default:
		var n float64
		if err := json.Unmarshal(trimmed, &n); err == nil {
			return rawValue{kind: valueNumber, num: n}
		}
	}
	return rawValue{}
}

// truthy reports whether the value is populated: non-empty text, non-zero number or true.
func (v rawValue) truthy() bool {
	switch v.kind {
	case valueString:
		return v.str != ""
	case valueNumber:
		return v.num != 0
	case valueBool:
		return v.b
	}
	return false
}

func (v rawValue) String() string {
	switch v.kind {
	case valueString:
		return v.str
	case valueNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case valueBool:
		return strconv.FormatBool(v.b)
	}
	return ""
}

// number coerces the value to a float, returning 0 for anything non-numeric.
func (v rawValue) number() float64 {
	switch v.kind {
	case valueNumber:
		return v.num
	case valueString:
		n, err := strconv.ParseFloat(strings.TrimSpace(v.str), 64)
		if err != nil {
			return 0
		}
		return n
	case valueBool:
		if v.b {
			return 1
		}
	}
	return 0
}

// RawSlot is one element of the upstream slot listing. Object records expose
// their known fields; bare strings keep their text; anything else is retained
// only in Raw and never produces a slot.
type RawSlot struct {
	Kind RawKind
	Text string
	Raw  json.RawMessage

	id        rawValue
	startDate rawValue
	start     rawValue
	time      rawValue
	duration  rawValue
	status    rawValue
}

func (r *RawSlot) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	*r = RawSlot{Raw: append(json.RawMessage(nil), trimmed...)}
	if len(trimmed) == 0 {
		return nil
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return fmt.Errorf("decoding slot text: %w", err)
		}
		r.Kind = RawText
		r.Text = s
	case '{':
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &fields); err != nil {
			return fmt.Errorf("decoding slot object: %w", err)
		}
		r.Kind = RawObject
		r.id = decodeValue(fields["id"])
		r.startDate = decodeValue(fields["startDate"])
		r.start = decodeValue(fields["start"])
		r.time = decodeValue(fields["time"])
		r.duration = decodeValue(fields["duration"])
		r.status = decodeValue(fields["status"])
	}
	return nil
}

func (r RawSlot) MarshalJSON() ([]byte, error) {
	if len(r.Raw) == 0 {
		return []byte("null"), nil
	}
	return r.Raw, nil
}

// startCandidate returns the first populated start field in priority order.
func (r RawSlot) startCandidate() (rawValue, bool) {
	for _, v := range []rawValue{r.startDate, r.start, r.time} {
		if v.truthy() {
			return v, true
		}
	}
	return rawValue{}, false
}

// wrapperKeys lists the object fields that may carry the slot array, in priority order.
var wrapperKeys = []string{"gettimeslot", "getTimeslot", "timeslots", "data"}

// DecodeResponse extracts the slot array from an upstream response body. A bare
// array or an object wrapping an array under a known key is accepted; any other
// well-formed JSON yields an empty list.
func DecodeResponse(body []byte) ([]RawSlot, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return []RawSlot{}, nil
	}
	if !json.Valid(trimmed) {
		return nil, fmt.Errorf("slot response is not valid json")
	}

	switch trimmed[0] {
	case '[':
		return decodeArray(trimmed)
	case '{':
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &wrapper); err != nil {
			return nil, fmt.Errorf("decoding slot response: %w", err)
		}
		for _, key := range wrapperKeys {
			value := bytes.TrimSpace(wrapper[key])
			if len(value) > 0 && value[0] == '[' {
				return decodeArray(value)
			}
		}
	}
	return []RawSlot{}, nil
}

func decodeArray(data []byte) ([]RawSlot, error) {
	var out []RawSlot
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decoding slot array: %w", err)
	}
	if out == nil {
		out = []RawSlot{}
	}
	return out, nil
}
