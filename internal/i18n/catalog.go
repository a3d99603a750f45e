package i18n

import (
	"fmt"

	"github.com/selam-school/result-bot/internal/models"
	appErrors "github.com/selam-school/result-bot/pkg/errors"
)

// MsgID keys the message catalog. Every user-visible reply goes through one
// of these, so a missing translation is a compile-visible gap, not a silent
// fallthrough on a string key.
type MsgID int

const (
	MsgWelcome MsgID = iota
	MsgHelp
	MsgRegisterUsage
	MsgLoginUsage
	MsgLangUsage
	MsgChooseLanguage
	MsgPinIssued
	MsgAlreadyRegistered
	MsgStudentTaken
	MsgRegistrationExpired
	MsgInvalidInput
	MsgInvalidPin
	MsgNotOwner
	MsgLoginOK
	MsgNotLoggedIn
	MsgNotAuthorized
	MsgNotFound
	MsgSheetInvalid
	MsgPinExhausted
	MsgAlreadyProcessed
	MsgChooseSection
	MsgChooseSectionTop3
	MsgChooseSemester
	MsgLanguageSet
	MsgNoAverages
	MsgExportCaption
	MsgUnexpected
)

var catalog = map[models.Language]map[MsgID]string{
	models.LangEnglish: {
		MsgWelcome: "🎓 *Welcome to Selam Islamic Elementary School Result Bot* 🎓\n" +
			"--------------------------------\n" +
			"📚 Official bot for Selam Islamic Elementary School\n" +
			"🌐 Serving grades 1-6 with real-time results\n\n" +
			"New here? Register with `/register <section> <roll>` (e.g. `/register 1A 10`),\n" +
			"pick your language and keep the 6-digit PIN you receive.\n" +
			"Already registered? Use the buttons below.",
		MsgHelp: "🎓 *Result Bot Help* 🎓\n" +
			"--------------------------------\n" +
			"`/start` — welcome message and menu\n" +
			"`/help` — this message\n" +
			"`/register <section> <roll>` — register once (e.g. `/register 1A 10`)\n" +
			"`/login <pin>` — confirm your enrollment with your 6-digit PIN\n" +
			"`/lang en|am` — switch reply language\n" +
			"`/export` — receive your grade sheet as a PDF\n" +
			"--------------------------------\n" +
			"Sections: 1A 1B 1C 2A 2B 2C 3A 3B 4A 4B 5A 5B 6A 6B\n" +
			"ℹ️ Use the Back button to navigate. Contact the admin for data issues.",
		MsgRegisterUsage:       "Usage: `/register <section> <roll>` — e.g. `/register 1A 10`",
		MsgLoginUsage:          "Usage: `/login <pin>` — your 6-digit PIN",
		MsgLangUsage:           "Usage: `/lang en` or `/lang am`",
		MsgChooseLanguage:      "🌐 Almost done! Please choose your language:",
		MsgPinIssued:           "✅ *Registration complete!*\nYour access PIN: `%s`\nKeep it safe — only this chat can use it.",
		MsgAlreadyRegistered:   "❌ This chat is already registered. Contact the admin to change your enrollment.",
		MsgStudentTaken:        "❌ That student is already registered from another chat. Contact the admin if this is a mistake.",
		MsgRegistrationExpired: "⌛ Your registration session expired. Please run `/register` again.",
		MsgInvalidInput:        "❌ %s",
		MsgInvalidPin:          "❌ Invalid PIN.",
		MsgNotOwner:            "❌ This PIN was issued to a different chat and cannot be used here.",
		MsgLoginOK:             "✅ Logged in. Enrollment confirmed: section %s, student no. %s.",
		MsgNotLoggedIn:         "🔐 Please register with `/register` or log in with `/login <pin>` first.",
		MsgNotAuthorized:       "🚫 You can only view results for your own section.",
		MsgNotFound:            "📁 %s. Contact the admin.",
		MsgSheetInvalid:        "⚠️ The result sheet for this selection is invalid. Please contact the admin.",
		MsgPinExhausted:        "🚫 Registration is temporarily unavailable. Please contact the admin.",
		MsgAlreadyProcessed:    "Already processed.",
		MsgChooseSection:       "📋 *Select your grade and section* 🎓",
		MsgChooseSectionTop3:   "🏆 *Select a section for the top 3* 🎓",
		MsgChooseSemester:      "✅ %s selected.\n🌟 Please choose the semester:",
		MsgLanguageSet:         "✅ Language set to English.",
		MsgNoAverages:          "⚠️ No averages found for %s - %s.",
		MsgExportCaption:       "📄 Grade sheet for student no. %s, section %s.",
		MsgUnexpected:          "🚫 An unexpected issue occurred. Please try again or contact the admin.",
	},
	models.LangAmharic: {
		MsgWelcome: "🎓 *እንኳን ወደ ሰላም ኢስላሚክ የመጀመሪያ ደረጃ ት/ቤት የውጤት ቦት በደህና መጡ* 🎓\n" +
			"--------------------------------\n" +
			"📚 ከ1ኛ እስከ 6ኛ ክፍል ውጤቶችን ያገኛሉ።\n\n" +
			"አዲስ ከሆኑ በ`/register <ክፍል> <ተራ ቁጥር>` ይመዝገቡ (ለምሳሌ `/register 1A 10`)፣\n" +
			"ቋንቋ ይምረጡና የሚሰጥዎትን ባለ6 አሃዝ ፒን ይያዙ።\n" +
			"ከተመዘገቡ ከታች ያሉትን አዝራሮች ይጠቀሙ።",
		MsgHelp: "🎓 *የውጤት ቦት እገዛ* 🎓\n" +
			"--------------------------------\n" +
			"`/start` — የመግቢያ መልዕክትና ምናሌ\n" +
			"`/help` — ይህ መልዕክት\n" +
			"`/register <ክፍል> <ተራ ቁጥር>` — አንድ ጊዜ ይመዝገቡ\n" +
			"`/login <ፒን>` — በፒንዎ ይግቡ\n" +
			"`/lang en|am` — ቋንቋ ይቀይሩ\n" +
			"`/export` — ውጤትዎን በPDF ይቀበሉ\n" +
			"--------------------------------\n" +
			"ክፍሎች፦ 1A 1B 1C 2A 2B 2C 3A 3B 4A 4B 5A 5B 6A 6B",
		MsgRegisterUsage:       "አጠቃቀም፦ `/register <ክፍል> <ተራ ቁጥር>` — ለምሳሌ `/register 1A 10`",
		MsgLoginUsage:          "አጠቃቀም፦ `/login <ፒን>` — ባለ6 አሃዝ ፒንዎ",
		MsgLangUsage:           "አጠቃቀም፦ `/lang en` ወይም `/lang am`",
		MsgChooseLanguage:      "🌐 ሊጠናቀቅ ነው! እባክዎ ቋንቋ ይምረጡ፦",
		MsgPinIssued:           "✅ *ምዝገባዎ ተሳክቷል!*\nየመግቢያ ፒንዎ፦ `%s`\nበጥንቃቄ ይያዙት — በዚህ ውይይት ብቻ ይሰራል።",
		MsgAlreadyRegistered:   "❌ ይህ ውይይት አስቀድሞ ተመዝግቧል። ለማስተካከል አስተዳዳሪውን ያግኙ።",
		MsgStudentTaken:        "❌ ይህ ተማሪ በሌላ ውይይት ተመዝግቧል። ስህተት ከሆነ አስተዳዳሪውን ያግኙ።",
		MsgRegistrationExpired: "⌛ የምዝገባ ጊዜዎ አልፏል። እባክዎ `/register` እንደገና ይሞክሩ።",
		MsgInvalidInput:        "❌ %s",
		MsgInvalidPin:          "❌ ትክክል ያልሆነ ፒን።",
		MsgNotOwner:            "❌ ይህ ፒን ለሌላ ውይይት የተሰጠ ነው፤ እዚህ አይሰራም።",
		MsgLoginOK:             "✅ ገብተዋል። ክፍል %s፣ ተራ ቁጥር %s ተረጋግጧል።",
		MsgNotLoggedIn:         "🔐 እባክዎ መጀመሪያ በ`/register` ይመዝገቡ ወይም በ`/login <ፒን>` ይግቡ።",
		MsgNotAuthorized:       "🚫 የራስዎን ክፍል ውጤት ብቻ ማየት ይችላሉ።",
		MsgNotFound:            "📁 %s። አስተዳዳሪውን ያግኙ።",
		MsgSheetInvalid:        "⚠️ የውጤቱ ሰንጠረዥ ትክክል አይደለም። እባክዎ አስተዳዳሪውን ያግኙ።",
		MsgPinExhausted:        "🚫 ምዝገባ ለጊዜው አይቻልም። እባክዎ አስተዳዳሪውን ያግኙ።",
		MsgAlreadyProcessed:    "አስቀድሞ ተስተናግዷል።",
		MsgChooseSection:       "📋 *ክፍልዎን ይምረጡ* 🎓",
		MsgChooseSectionTop3:   "🏆 *ለከፍተኛ 3 ክፍል ይምረጡ* 🎓",
		MsgChooseSemester:      "✅ %s ተመርጧል።\n🌟 እባክዎ ሴሚስተር ይምረጡ፦",
		MsgLanguageSet:         "✅ ቋንቋ ወደ አማርኛ ተቀይሯል።",
		MsgNoAverages:          "⚠️ ለ%s - %s አማካይ ውጤቶች አልተገኙም።",
		MsgExportCaption:       "📄 የተማሪ ተራ ቁጥር %s፣ ክፍል %s የውጤት ሰንጠረዥ።",
		MsgUnexpected:          "🚫 ያልተጠበቀ ችግር ተፈጥሯል። እንደገና ይሞክሩ ወይም አስተዳዳሪውን ያግኙ።",
	},
}

// T returns the catalog entry, falling back to English.
func T(lang models.Language, id MsgID) string {
	if msgs, ok := catalog[lang]; ok {
		if msg, ok := msgs[id]; ok {
			return msg
		}
	}
	return catalog[models.LangEnglish][id]
}

// Tf formats the catalog entry with the given arguments.
func Tf(lang models.Language, id MsgID, args ...interface{}) string {
	return fmt.Sprintf(T(lang, id), args...)
}

// FromAppError maps a typed error to its localized user message.
func FromAppError(lang models.Language, err error) string {
	e := appErrors.FromError(err)
	switch e.Code {
	case appErrors.ErrValidation.Code:
		return Tf(lang, MsgInvalidInput, e.Message)
	case appErrors.ErrAlreadyBound.Code:
		return T(lang, MsgAlreadyRegistered)
	case appErrors.ErrStudentTaken.Code:
		return T(lang, MsgStudentTaken)
	case appErrors.ErrExpired.Code:
		return T(lang, MsgRegistrationExpired)
	case appErrors.ErrInvalidPIN.Code:
		return T(lang, MsgInvalidPin)
	case appErrors.ErrNotOwner.Code:
		return T(lang, MsgNotOwner)
	case appErrors.ErrNotLoggedIn.Code:
		return T(lang, MsgNotLoggedIn)
	case appErrors.ErrForbidden.Code:
		return T(lang, MsgNotAuthorized)
	case appErrors.ErrNotFound.Code, appErrors.ErrNoStudent.Code:
		return Tf(lang, MsgNotFound, e.Message)
	case appErrors.ErrBadSheet.Code:
		return T(lang, MsgSheetInvalid)
	case appErrors.ErrPINExhausted.Code:
		return T(lang, MsgPinExhausted)
	default:
		return T(lang, MsgUnexpected)
	}
}
