package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/selam-school/result-bot/internal/models"
)

func TestParseCallback(t *testing.T) {
	cases := []struct {
		name string
		data string
		want callbackRoute
	}{
		{"menu results", "menu:results", callbackRoute{kind: routeMenuResults}},
		{"menu top3", "menu:top3", callbackRoute{kind: routeMenuTop3}},
		{"back menu", "back:menu", callbackRoute{kind: routeBackMenu}},
		{"back section", "back:sec", callbackRoute{kind: routeBackSection}},
		{"back top3 section", "back:top3sec", callbackRoute{kind: routeBackTop3Section}},
		{"section", "sec:2A", callbackRoute{kind: routeSection, section: "2A"}},
		{"top3 section", "top3sec:6B", callbackRoute{kind: routeTop3Section, section: "6B"}},
		{"semester", "sem:2A:S1", callbackRoute{kind: routeSemester, section: "2A", semester: models.SemesterOne}},
		{"aggregate semester", "sem:4B:Ave", callbackRoute{kind: routeSemester, section: "4B", semester: models.SemesterAve}},
		{"top3 semester", "top3sem:3A:S2", callbackRoute{kind: routeTop3Semester, section: "3A", semester: models.SemesterTwo}},
		{"language", "lang:am", callbackRoute{kind: routeSetLanguage, language: models.LangAmharic}},
		{"registration language", "reglang:en", callbackRoute{kind: routeRegistrationLanguage, language: models.LangEnglish}},
		{"transport prefix stripped", "\fmenu:results", callbackRoute{kind: routeMenuResults}},
		{"surrounding whitespace", " menu:top3 ", callbackRoute{kind: routeMenuTop3}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseCallback(tc.data)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseCallbackRejectsMalformedPayloads(t *testing.T) {
	for _, data := range []string{
		"",
		"menu:unknown",
		"sec:9Z",
		"top3sec:",
		"sem:2A",
		"sem:2A:S3",
		"sem:9Z:S1",
		"top3sem:2A:S1:extra",
		"lang:fr",
		"reglang:",
	} {
		t.Run(data, func(t *testing.T) {
			_, err := parseCallback(data)
			require.Error(t, err)
		})
	}
}
