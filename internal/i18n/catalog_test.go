package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/selam-school/result-bot/internal/models"
	appErrors "github.com/selam-school/result-bot/pkg/errors"
)

var allMessageIDs = []MsgID{
	MsgWelcome, MsgHelp, MsgRegisterUsage, MsgLoginUsage, MsgLangUsage,
	MsgChooseLanguage, MsgPinIssued, MsgAlreadyRegistered, MsgStudentTaken,
	MsgRegistrationExpired, MsgInvalidInput, MsgInvalidPin, MsgNotOwner,
	MsgLoginOK, MsgNotLoggedIn, MsgNotAuthorized, MsgNotFound,
	MsgSheetInvalid, MsgPinExhausted, MsgAlreadyProcessed,
	MsgChooseSection, MsgChooseSectionTop3, MsgChooseSemester, MsgLanguageSet,
	MsgNoAverages, MsgExportCaption, MsgUnexpected,
}

func TestCatalogCoversEveryMessageInEveryLanguage(t *testing.T) {
	for _, lang := range []models.Language{models.LangEnglish, models.LangAmharic} {
		msgs, ok := catalog[lang]
		require.True(t, ok, "missing catalog for %s", lang)
		for _, id := range allMessageIDs {
			assert.NotEmpty(t, msgs[id], "language %s missing message %d", lang, id)
		}
	}
}

func TestTFallsBackToEnglish(t *testing.T) {
	assert.Equal(t, catalog[models.LangEnglish][MsgWelcome], T(models.Language("fr"), MsgWelcome))
}

func TestFromAppErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		want MsgID
	}{
		{appErrors.Clone(appErrors.ErrAlreadyBound, "bound"), MsgAlreadyRegistered},
		{appErrors.Clone(appErrors.ErrStudentTaken, "taken"), MsgStudentTaken},
		{appErrors.Clone(appErrors.ErrExpired, "expired"), MsgRegistrationExpired},
		{appErrors.Clone(appErrors.ErrInvalidPIN, "pin"), MsgInvalidPin},
		{appErrors.Clone(appErrors.ErrNotOwner, "owner"), MsgNotOwner},
		{appErrors.Clone(appErrors.ErrNotLoggedIn, "login"), MsgNotLoggedIn},
		{appErrors.Clone(appErrors.ErrForbidden, "forbidden"), MsgNotAuthorized},
		{appErrors.Clone(appErrors.ErrBadSheet, "sheet"), MsgSheetInvalid},
		{appErrors.Clone(appErrors.ErrPINExhausted, "pins"), MsgPinExhausted},
		{appErrors.Clone(appErrors.ErrInternal, "boom"), MsgUnexpected},
	}
	for _, tc := range cases {
		assert.Equal(t, T(models.LangEnglish, tc.want), FromAppError(models.LangEnglish, tc.err))
	}
}

func TestFromAppErrorEmbedsMessages(t *testing.T) {
	got := FromAppError(models.LangEnglish, appErrors.Clone(appErrors.ErrValidation, "roll number must be an integer"))
	assert.Contains(t, got, "roll number must be an integer")

	got = FromAppError(models.LangEnglish, appErrors.Clone(appErrors.ErrNoStudent, "student 10 not found in 2A - S1"))
	assert.Contains(t, got, "student 10 not found in 2A - S1")
}

func TestRenderResultIncludesAllFields(t *testing.T) {
	card := &models.ResultCard{
		Semester: models.SemesterOne,
		Section:  "2A",
		Roll:     "10",
		Name:     "Hana Tesfaye",
		Sex:      "F",
		Age:      "12",
		Subjects: []string{"80", "N/A", "82", "83", "84", "85", "86", "87"},
		Conduct:  "A",
		Sum:      "640",
		Average:  "91.5",
		Rank:     "1",
		Remark:   "N/A",
	}

	out := RenderResult(models.LangEnglish, card)
	assert.Contains(t, out, "Hana Tesfaye")
	assert.Contains(t, out, "S1")
	assert.Contains(t, out, "Amharic: 80")
	assert.Contains(t, out, "English: N/A")
	assert.Contains(t, out, "91.5")
}

func TestRenderTop3(t *testing.T) {
	entries := []models.TopEntry{
		{Rank: 1, Roll: "2", Name: "Hana", Average: 95.5},
		{Rank: 2, Roll: "3", Name: "Kaleb", Average: 95.5},
		{Rank: 3, Roll: "1", Name: "Abel", Average: 88.0},
	}

	out := RenderTop3(models.LangEnglish, "2A", models.SemesterOne, entries)
	assert.Contains(t, out, "1. 👤 Hana")
	assert.Contains(t, out, "95.5")
	assert.Contains(t, out, "3. 👤 Abel")

	empty := RenderTop3(models.LangEnglish, "2A", models.SemesterOne, nil)
	assert.Equal(t, Tf(models.LangEnglish, MsgNoAverages, "2A", models.SemesterOne), empty)
}
