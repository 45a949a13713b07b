package models

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"markethub_backend/pkg/apperrors"
)

// Question types understood by the form validator. Anything else is ignored.
const (
	QuestionTypeText           = "text"
	QuestionTypeSingleChoice   = "single_choice"
	QuestionTypeMultipleChoice = "multiple_choice"
)

// FormQuestion is one entry of a market's application form
type FormQuestion struct {
	ID       string   `json:"id"`
	Label    string   `json:"label,omitempty"`
	Type     string   `json:"type"`
	Required bool     `json:"required"`
	Options  []string `json:"options,omitempty"`
}

// ApplicationForm is the schema vendors answer when applying
type ApplicationForm struct {
	Questions []FormQuestion `json:"questions"`
}

// ParseApplicationForm decodes a stored form. A malformed or absent schema
// yields an empty form rather than an error, so markets with broken schemas
// still accept applications.
func ParseApplicationForm(raw datatypes.JSON) ApplicationForm {
	var form ApplicationForm
	if len(raw) == 0 {
		return form
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return ApplicationForm{}
	}
	qs, ok := probe["questions"]
	if !ok {
		return ApplicationForm{}
	}
	var questions []FormQuestion
	if err := json.Unmarshal(qs, &questions); err != nil {
		return ApplicationForm{}
	}
	form.Questions = questions
	return form
}

// ValidateAnswers checks a vendor's answers against the form schema.
// Returns a BadRequest error naming the offending question id.
func (f ApplicationForm) ValidateAnswers(raw datatypes.JSON) error {
	if len(f.Questions) == 0 {
		return nil
	}

	answers := map[string]interface{}{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &answers); err != nil {
			return apperrors.ErrBadRequest("application", "answers must be a JSON object")
		}
	}

	for _, q := range f.Questions {
		if q.ID == "" {
			continue
		}
		value, present := answers[q.ID]
		if !present || value == nil {
			if q.Required {
				return apperrors.ErrBadRequest("application",
					fmt.Sprintf("answer for required question %q is missing", q.ID))
			}
			continue
		}

		switch q.Type {
		case QuestionTypeSingleChoice:
			s, ok := value.(string)
			if !ok || !contains(q.Options, s) {
				return apperrors.ErrBadRequest("application",
					fmt.Sprintf("answer for question %q must be one of its options", q.ID))
			}
		case QuestionTypeMultipleChoice:
			list, ok := value.([]interface{})
			if !ok {
				return apperrors.ErrBadRequest("application",
					fmt.Sprintf("answer for question %q must be a list of options", q.ID))
			}
			for _, item := range list {
				s, ok := item.(string)
				if !ok || !contains(q.Options, s) {
					return apperrors.ErrBadRequest("application",
						fmt.Sprintf("answer for question %q contains a value outside its options", q.ID))
				}
			}
		}
	}
	return nil
}

func contains(options []string, v string) bool {
	for _, o := range options {
		if o == v {
			return true
		}
	}
	return false
}
