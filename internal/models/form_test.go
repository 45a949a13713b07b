package models

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"markethub_backend/pkg/apperrors"
)

func TestParseApplicationForm(t *testing.T) {
	t.Run("empty schema", func(t *testing.T) {
		form := ParseApplicationForm(nil)
		require.Empty(t, form.Questions)
	})

	t.Run("malformed schema is ignored", func(t *testing.T) {
		form := ParseApplicationForm(datatypes.JSON(`{"questions": "not a list"`))
		require.Empty(t, form.Questions)

		form = ParseApplicationForm(datatypes.JSON(`[1, 2, 3]`))
		require.Empty(t, form.Questions)
	})

	t.Run("valid schema", func(t *testing.T) {
		form := ParseApplicationForm(datatypes.JSON(`{"questions":[
			{"id":"setup","label":"Setup needs","type":"text","required":false},
			{"id":"booth","type":"single_choice","required":true,"options":["small","large"]}
		]}`))
		require.Len(t, form.Questions, 2)
		require.Equal(t, "booth", form.Questions[1].ID)
		require.True(t, form.Questions[1].Required)
	})
}

func TestValidateAnswers(t *testing.T) {
	form := ParseApplicationForm(datatypes.JSON(`{"questions":[
		{"id":"intro","type":"text","required":true},
		{"id":"booth","type":"single_choice","required":true,"options":["small","large"]},
		{"id":"days","type":"multiple_choice","required":false,"options":["sat","sun"]}
	]}`))

	cases := []struct {
		name    string
		answers string
		wantErr string
	}{
		{"all answered", `{"intro":"we make soap","booth":"small","days":["sat","sun"]}`, ""},
		{"optional omitted", `{"intro":"we make soap","booth":"large"}`, ""},
		{"required missing", `{"booth":"small"}`, "intro"},
		{"required null", `{"intro":null,"booth":"small"}`, "intro"},
		{"choice outside options", `{"intro":"hi","booth":"gigantic"}`, "booth"},
		{"choice wrong type", `{"intro":"hi","booth":["small"]}`, "booth"},
		{"multi with stray value", `{"intro":"hi","booth":"small","days":["sat","mon"]}`, "days"},
		{"multi not a list", `{"intro":"hi","booth":"small","days":"sat"}`, "days"},
		{"not an object", `["small"]`, "JSON object"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := form.ValidateAnswers(datatypes.JSON(tc.answers))
			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			var appErr *apperrors.AppError
			require.ErrorAs(t, err, &appErr)
			require.Contains(t, appErr.Message, tc.wantErr)
		})
	}
}

func TestValidateAnswersEmptyForm(t *testing.T) {
	var form ApplicationForm
	require.NoError(t, form.ValidateAnswers(nil))
	require.NoError(t, form.ValidateAnswers(datatypes.JSON(`{"anything":"goes"}`)))
}
