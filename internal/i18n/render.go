package i18n

import (
	"fmt"
	"strings"

	"github.com/selam-school/result-bot/internal/models"
)

// resultLabels holds the per-language field labels of a rendered grade row.
type resultLabels struct {
	Title    string
	Roll     string
	Name     string
	Sex      string
	Age      string
	Subjects string
	Conduct  string
	Sum      string
	Average  string
	Rank     string
	Remark   string
	Footer   string
	Top3     string
	AvgShort string
	NoShort  string
}

var labels = map[models.Language]resultLabels{
	models.LangEnglish: {
		Title:    "📄 *Student Result - %s* 🎓",
		Roll:     "👤 *Student No:*",
		Name:     "👤 *Name:*",
		Sex:      "🔢 *Sex:*",
		Age:      "🎂 *Age:*",
		Subjects: "📚 *Subjects:*",
		Conduct:  "💡 *Conduct:*",
		Sum:      "🧮 *Sum:*",
		Average:  "📊 *Average:*",
		Rank:     "🏅 *Rank:*",
		Remark:   "📝 *Remark:*",
		Footer:   "✅ *Results displayed successfully!*",
		Top3:     "🏆 *Top 3 Students - %s, %s* 🎓",
		AvgShort: "Avg",
		NoShort:  "No",
	},
	models.LangAmharic: {
		Title:    "📄 *የተማሪ ውጤት - %s* 🎓",
		Roll:     "👤 *ተራ ቁጥር፦*",
		Name:     "👤 *ስም፦*",
		Sex:      "🔢 *ፆታ፦*",
		Age:      "🎂 *እድሜ፦*",
		Subjects: "📚 *ትምህርቶች፦*",
		Conduct:  "💡 *ጸባይ፦*",
		Sum:      "🧮 *ድምር፦*",
		Average:  "📊 *አማካይ፦*",
		Rank:     "🏅 *ደረጃ፦*",
		Remark:   "📝 *አስተያየት፦*",
		Footer:   "✅ *ውጤቱ በተሳካ ሁኔታ ታይቷል!*",
		Top3:     "🏆 *ከፍተኛ 3 ተማሪዎች - %s፣ %s* 🎓",
		AvgShort: "አማካይ",
		NoShort:  "ተራ ቁጥር",
	},
}

const divider = "--------------------------------"

// RenderResult renders one student's row into a localized chat message.
func RenderResult(lang models.Language, card *models.ResultCard) string {
	l := labelsFor(lang)

	var b strings.Builder
	fmt.Fprintf(&b, l.Title, card.Semester)
	b.WriteString("\n" + divider + "\n")
	fmt.Fprintf(&b, "%s %s\n", l.Roll, card.Roll)
	fmt.Fprintf(&b, "%s %s\n", l.Name, card.Name)
	fmt.Fprintf(&b, "%s %s\n", l.Sex, card.Sex)
	fmt.Fprintf(&b, "%s %s\n", l.Age, card.Age)
	b.WriteString(l.Subjects + "\n")
	for i, subject := range models.SubjectNames {
		fmt.Fprintf(&b, " - %s: %s\n", subject, card.Subjects[i])
	}
	fmt.Fprintf(&b, "%s %s\n", l.Conduct, card.Conduct)
	fmt.Fprintf(&b, "%s %s\n", l.Sum, card.Sum)
	fmt.Fprintf(&b, "%s %s\n", l.Average, card.Average)
	fmt.Fprintf(&b, "%s %s\n", l.Rank, card.Rank)
	fmt.Fprintf(&b, "%s %s\n", l.Remark, card.Remark)
	b.WriteString(divider + "\n")
	b.WriteString(l.Footer)
	return b.String()
}

// RenderTop3 renders the leaderboard into a localized chat message.
func RenderTop3(lang models.Language, section string, sem models.Semester, entries []models.TopEntry) string {
	if len(entries) == 0 {
		return Tf(lang, MsgNoAverages, section, sem)
	}
	l := labelsFor(lang)

	var b strings.Builder
	fmt.Fprintf(&b, l.Top3, section, sem)
	for _, e := range entries {
		b.WriteString("\n" + divider + "\n")
		fmt.Fprintf(&b, "%d. 👤 %s (%s: %s, 📊 %s: %.1f)", e.Rank, e.Name, l.NoShort, e.Roll, l.AvgShort, e.Average)
	}
	b.WriteString("\n" + divider + "\n")
	b.WriteString(l.Footer)
	return b.String()
}

func labelsFor(lang models.Language) resultLabels {
	if l, ok := labels[lang]; ok {
		return l
	}
	return labels[models.LangEnglish]
}
