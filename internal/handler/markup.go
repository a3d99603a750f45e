package handler

import (
	tele "gopkg.in/telebot.v3"

	"github.com/selam-school/result-bot/internal/models"
)

// Callback payload vocabulary. Every inline button routes through these
// prefixes; parseCallback is the single place that understands them.
const (
	cbMenuResults = "menu:results"
	cbMenuTop3    = "menu:top3"

	cbBackMenu        = "back:menu"
	cbBackSection     = "back:sec"
	cbBackTop3Section = "back:top3sec"

	cbSectionPrefix      = "sec:"     // sec:<code>
	cbTop3SectionPrefix  = "top3sec:" // top3sec:<code>
	cbSemesterPrefix     = "sem:"     // sem:<code>:<S1|S2|Ave>
	cbTop3SemesterPrefix = "top3sem:" // top3sem:<code>:<S1|S2|Ave>

	cbLangPrefix    = "lang:"    // lang:<en|am>, /lang menu
	cbRegLangPrefix = "reglang:" // reglang:<en|am>, registration completion
)

func menuMarkup() *tele.ReplyMarkup {
	return &tele.ReplyMarkup{InlineKeyboard: [][]tele.InlineButton{
		{{Text: "✅ Check Results", Data: cbMenuResults}},
		{{Text: "✅ View Top 3", Data: cbMenuTop3}},
	}}
}

func languageMarkup(registration bool) *tele.ReplyMarkup {
	prefix := cbLangPrefix
	if registration {
		prefix = cbRegLangPrefix
	}
	return &tele.ReplyMarkup{InlineKeyboard: [][]tele.InlineButton{{
		{Text: "English", Data: prefix + string(models.LangEnglish)},
		{Text: "አማርኛ", Data: prefix + string(models.LangAmharic)},
	}}}
}

func sectionMarkup(top3 bool) *tele.ReplyMarkup {
	prefix := cbSectionPrefix
	if top3 {
		prefix = cbTop3SectionPrefix
	}

	var rows [][]tele.InlineButton
	for i := 0; i < len(models.Sections); i += 4 {
		end := i + 4
		if end > len(models.Sections) {
			end = len(models.Sections)
		}
		var row []tele.InlineButton
		for _, sec := range models.Sections[i:end] {
			row = append(row, tele.InlineButton{Text: "✅ " + sec, Data: prefix + sec})
		}
		rows = append(rows, row)
	}
	rows = append(rows, []tele.InlineButton{{Text: "⬅️ Back", Data: cbBackMenu}})
	return &tele.ReplyMarkup{InlineKeyboard: rows}
}

func semesterMarkup(section string, top3 bool) *tele.ReplyMarkup {
	prefix, back := cbSemesterPrefix, cbBackSection
	if top3 {
		prefix, back = cbTop3SemesterPrefix, cbBackTop3Section
	}
	return &tele.ReplyMarkup{InlineKeyboard: [][]tele.InlineButton{{
		{Text: "✅ S1", Data: prefix + section + ":" + string(models.SemesterOne)},
		{Text: "✅ S2", Data: prefix + section + ":" + string(models.SemesterTwo)},
		{Text: "✅ Ave", Data: prefix + section + ":" + string(models.SemesterAve)},
		{Text: "⬅️ Back", Data: back},
	}}}
}
