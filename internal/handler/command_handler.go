package handler

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"

	"github.com/selam-school/result-bot/internal/i18n"
	"github.com/selam-school/result-bot/internal/models"
	"github.com/selam-school/result-bot/internal/service"
	"github.com/selam-school/result-bot/pkg/export"
)

// CommandHandler serves the slash-command surface of the bot.
type CommandHandler struct {
	sessions      *service.SessionService
	registrations *service.RegistrationService
	results       *service.ResultService
	exporter      *export.PDFExporter
	sender        *Sender
	metrics       *service.MetricsService
	logger        *zap.Logger
}

// NewCommandHandler constructs a CommandHandler instance.
func NewCommandHandler(sessions *service.SessionService, registrations *service.RegistrationService, results *service.ResultService, exporter *export.PDFExporter, sender *Sender, metrics *service.MetricsService, logger *zap.Logger) *CommandHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommandHandler{
		sessions:      sessions,
		registrations: registrations,
		results:       results,
		exporter:      exporter,
		sender:        sender,
		metrics:       metrics,
		logger:        logger,
	}
}

// Register wires the command routes onto the bot.
func (h *CommandHandler) Register(b *tele.Bot) {
	b.Handle("/start", h.Start)
	b.Handle("/help", h.Help)
	b.Handle("/register", h.RegisterStudent)
	b.Handle("/login", h.Login)
	b.Handle("/lang", h.Lang)
	b.Handle("/export", h.Export)
}

// Start sends the welcome message with the top-level menu.
func (h *CommandHandler) Start(c tele.Context) error {
	h.metrics.UpdateHandled("command")
	lang := h.sessions.Language(chatID(c))
	return h.sender.Send(c, i18n.T(lang, i18n.MsgWelcome), menuMarkup(), tele.ModeMarkdown)
}

// Help sends the command reference.
func (h *CommandHandler) Help(c tele.Context) error {
	h.metrics.UpdateHandled("command")
	lang := h.sessions.Language(chatID(c))
	return h.sender.Send(c, i18n.T(lang, i18n.MsgHelp), tele.ModeMarkdown)
}

// RegisterStudent opens a pending registration for the chat and prompts for
// the language choice that completes it.
func (h *CommandHandler) RegisterStudent(c tele.Context) error {
	h.metrics.UpdateHandled("command")
	id := chatID(c)
	lang := h.sessions.Language(id)

	args := c.Args()
	if len(args) != 2 {
		return h.sender.Send(c, i18n.T(lang, i18n.MsgRegisterUsage), tele.ModeMarkdown)
	}

	if _, err := h.registrations.Begin(id, username(c), args[0], args[1]); err != nil {
		return h.replyError(c, lang, err)
	}
	return h.sender.Send(c, i18n.T(lang, i18n.MsgChooseLanguage), languageMarkup(true))
}

// Login redeems a pin and confirms the bound enrollment.
func (h *CommandHandler) Login(c tele.Context) error {
	h.metrics.UpdateHandled("command")
	id := chatID(c)
	lang := h.sessions.Language(id)

	args := c.Args()
	if len(args) != 1 {
		return h.sender.Send(c, i18n.T(lang, i18n.MsgLoginUsage), tele.ModeMarkdown)
	}

	enr, err := h.sessions.Redeem(id, args[0])
	if err != nil {
		return h.replyError(c, lang, err)
	}
	return h.sender.Send(c, i18n.Tf(lang, i18n.MsgLoginOK, enr.Section, enr.Roll), menuMarkup())
}

// Lang switches the preferred language, or prompts with buttons when called
// without an argument.
func (h *CommandHandler) Lang(c tele.Context) error {
	h.metrics.UpdateHandled("command")
	id := chatID(c)
	lang := h.sessions.Language(id)

	args := c.Args()
	if len(args) == 0 {
		return h.sender.Send(c, i18n.T(lang, i18n.MsgChooseLanguage), languageMarkup(false))
	}
	if len(args) != 1 {
		return h.sender.Send(c, i18n.T(lang, i18n.MsgLangUsage), tele.ModeMarkdown)
	}

	chosen := models.Language(args[0])
	if err := h.sessions.SetLanguage(id, chosen); err != nil {
		return h.replyError(c, lang, err)
	}
	return h.sender.Send(c, i18n.T(chosen, i18n.MsgLanguageSet))
}

// Export delivers the student's own grade sheet as a PDF document.
func (h *CommandHandler) Export(c tele.Context) error {
	h.metrics.UpdateHandled("command")
	id := chatID(c)
	lang := h.sessions.Language(id)

	enr, err := h.sessions.Resolve(id)
	if err != nil {
		return h.replyError(c, lang, err)
	}

	cards, err := h.results.GradeSheet(context.Background(), enr.Section, enr.Roll)
	if err != nil {
		return h.replyError(c, lang, err)
	}

	title := fmt.Sprintf("Grade Sheet - Section %s, Student No %s", enr.Section, enr.Roll)
	pdf, err := h.exporter.RenderGradeSheet(title, exportBlocks(cards))
	if err != nil {
		return h.replyError(c, lang, err)
	}

	doc := &tele.Document{
		File:     tele.FromReader(bytes.NewReader(pdf)),
		FileName: fmt.Sprintf("%s-%s.pdf", enr.Section, enr.Roll),
		MIME:     "application/pdf",
		Caption:  i18n.Tf(lang, i18n.MsgExportCaption, enr.Roll, enr.Section),
	}
	return h.sender.Send(c, doc)
}

func (h *CommandHandler) replyError(c tele.Context, lang models.Language, err error) error {
	h.logger.Sugar().Infow("command rejected", "chat_id", chatID(c), "error", err)
	return h.sender.Send(c, i18n.FromAppError(lang, err), tele.ModeMarkdown)
}

func exportBlocks(cards []*models.ResultCard) []export.SemesterBlock {
	blocks := make([]export.SemesterBlock, 0, len(cards))
	for _, card := range cards {
		fields := []export.Field{
			{Label: "Name", Value: card.Name},
			{Label: "Sex", Value: card.Sex},
			{Label: "Age", Value: card.Age},
		}
		for i, subject := range models.SubjectNames {
			fields = append(fields, export.Field{Label: subject, Value: card.Subjects[i]})
		}
		fields = append(fields,
			export.Field{Label: "Conduct", Value: card.Conduct},
			export.Field{Label: "Sum", Value: card.Sum},
			export.Field{Label: "Average", Value: card.Average},
			export.Field{Label: "Rank", Value: card.Rank},
			export.Field{Label: "Remark", Value: card.Remark},
		)
		blocks = append(blocks, export.SemesterBlock{
			Title:  fmt.Sprintf("Semester %s", card.Semester),
			Fields: fields,
		})
	}
	return blocks
}

func chatID(c tele.Context) string {
	if c.Sender() == nil {
		return ""
	}
	return strconv.FormatInt(c.Sender().ID, 10)
}

func username(c tele.Context) string {
	if c.Sender() == nil {
		return ""
	}
	return c.Sender().Username
}
