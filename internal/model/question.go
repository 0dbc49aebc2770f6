package model

// QuestionType defines the type of question
type QuestionType string

const (
	QuestionTypeShortText    QuestionType = "SHORT_TEXT"    // Free text, one line
	QuestionTypeLongText     QuestionType = "LONG_TEXT"     // Free text, paragraph
	QuestionTypeSingleChoice QuestionType = "SINGLE_CHOICE" // One option from Options
	QuestionTypeMultiChoice  QuestionType = "MULTI_CHOICE"  // Any subset of Options
	QuestionTypeLinearScale  QuestionType = "LINEAR_SCALE"  // Integer in [Scale.Min, Scale.Max]
)

// IsText reports whether answers to this type are free text
func (t QuestionType) IsText() bool {
	return t == QuestionTypeShortText || t == QuestionTypeLongText
}

// IsValid reports whether t is one of the known question types
func (t QuestionType) IsValid() bool {
	switch t {
	case QuestionTypeShortText, QuestionTypeLongText,
		QuestionTypeSingleChoice, QuestionTypeMultiChoice, QuestionTypeLinearScale:
		return true
	}
	return false
}

// ScaleOptions configures a LINEAR_SCALE question
type ScaleOptions struct {
	Min      int    `json:"min" bson:"min"`
	Max      int    `json:"max" bson:"max"`
	MinLabel string `json:"minLabel,omitempty" bson:"minLabel,omitempty"`
	MaxLabel string `json:"maxLabel,omitempty" bson:"maxLabel,omitempty"`
}

// Question is a question embedded in a survey
type Question struct {
	ID       string        `json:"id" bson:"id"`
	Text     string        `json:"text" bson:"text"`
	Type     QuestionType  `json:"type" bson:"type"`
	Order    int           `json:"order" bson:"order"`
	Required bool          `json:"required" bson:"required"`
	Options  []string      `json:"options,omitempty" bson:"options,omitempty"` // SINGLE_CHOICE / MULTI_CHOICE
	Scale    *ScaleOptions `json:"scale,omitempty" bson:"scale,omitempty"`     // LINEAR_SCALE only

	// Answers is only populated for analysis reads, never stored on the survey.
	Answers []Answer `json:"answers,omitempty" bson:"-"`
}

// HasOption reports whether v is one of the question's choice options
func (q *Question) HasOption(v string) bool {
	for _, o := range q.Options {
		if o == v {
			return true
		}
	}
	return false
}
