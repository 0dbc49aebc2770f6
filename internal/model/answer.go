package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
)

// ErrInvalidAnswerValue is returned when a structured answer payload has an unknown shape
var ErrInvalidAnswerValue = errors.New("invalid answer value")

// ValueKind tags which variant an AnswerValue holds
type ValueKind string

const (
	ValueNone       ValueKind = ""
	ValueSelection  ValueKind = "selection"  // exactly one option
	ValueSelections ValueKind = "selections" // zero or more options
	ValueScale      ValueKind = "scale"      // numeric scale point
)

// AnswerValue is the structured part of an answer.
// Exactly one of Selected or Scale is meaningful, depending on Kind.
type AnswerValue struct {
	Kind     ValueKind `bson:"kind,omitempty"`
	Selected []string  `bson:"selected,omitempty"`
	Scale    float64   `bson:"scale,omitempty"`
}

// SelectionOf builds a single-selection value
func SelectionOf(option string) AnswerValue {
	return AnswerValue{Kind: ValueSelection, Selected: []string{option}}
}

// SelectionsOf builds a multi-selection value
func SelectionsOf(options ...string) AnswerValue {
	return AnswerValue{Kind: ValueSelections, Selected: append([]string{}, options...)}
}

// ScaleOf builds a scale value
func ScaleOf(n float64) AnswerValue {
	return AnswerValue{Kind: ValueScale, Scale: n}
}

// IsZero reports whether the value carries nothing
func (v AnswerValue) IsZero() bool {
	return v.Kind == ValueNone
}

// Observations flattens the value into one string per observation:
// one per selected option, or the formatted scale number.
func (v AnswerValue) Observations() []string {
	switch v.Kind {
	case ValueSelection, ValueSelections:
		return append([]string{}, v.Selected...)
	case ValueScale:
		return []string{FormatNumber(v.Scale)}
	}
	return nil
}

// ScaleValue returns the numeric value for scale answers
func (v AnswerValue) ScaleValue() (float64, bool) {
	if v.Kind != ValueScale {
		return 0, false
	}
	return v.Scale, true
}

// FormatNumber renders a number without trailing zeros ("3", "3.5")
func FormatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// MarshalJSON writes the client wire shape: {"selected": "a"}, {"selected": ["a","b"]} or {"scale": 3}
func (v AnswerValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case ValueSelection:
		sel := ""
		if len(v.Selected) > 0 {
			sel = v.Selected[0]
		}
		return json.Marshal(map[string]string{"selected": sel})
	case ValueSelections:
		sel := v.Selected
		if sel == nil {
			sel = []string{}
		}
		return json.Marshal(map[string][]string{"selected": sel})
	case ValueScale:
		return json.Marshal(map[string]float64{"scale": v.Scale})
	}
	return []byte("null"), nil
}

// UnmarshalJSON recognizes the wire shape once, so the rest of the code can switch on Kind
func (v *AnswerValue) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*v = AnswerValue{}
		return nil
	}

	var raw struct {
		Selected json.RawMessage `json:"selected"`
		Scale    *float64        `json:"scale"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return ErrInvalidAnswerValue
	}

	selected := bytes.TrimSpace(raw.Selected)
	hasSelection := len(selected) > 0 && !bytes.Equal(selected, []byte("null"))

	switch {
	case raw.Scale != nil && hasSelection:
		return ErrInvalidAnswerValue
	case raw.Scale != nil:
		*v = ScaleOf(*raw.Scale)
	case !hasSelection:
		*v = AnswerValue{}
	case selected[0] == '"':
		var one string
		if err := json.Unmarshal(selected, &one); err != nil {
			return ErrInvalidAnswerValue
		}
		*v = SelectionOf(one)
	case selected[0] == '[':
		var many []string
		if err := json.Unmarshal(selected, &many); err != nil {
			return ErrInvalidAnswerValue
		}
		*v = SelectionsOf(many...)
	default:
		return ErrInvalidAnswerValue
	}
	return nil
}

// Answer belongs to one question and one response
type Answer struct {
	QuestionID string      `json:"questionId" bson:"questionId"`
	ResponseID string      `json:"responseId,omitempty" bson:"-"` // set on analysis reads
	Text       string      `json:"valueText,omitempty" bson:"text,omitempty"`
	Value      AnswerValue `json:"valueJson" bson:"value"`
}
