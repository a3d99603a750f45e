package handler

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"

	"github.com/selam-school/result-bot/internal/i18n"
	"github.com/selam-school/result-bot/internal/models"
	"github.com/selam-school/result-bot/internal/service"
)

type routeKind int

const (
	routeMenuResults routeKind = iota
	routeMenuTop3
	routeSection
	routeTop3Section
	routeSemester
	routeTop3Semester
	routeBackMenu
	routeBackSection
	routeBackTop3Section
	routeSetLanguage
	routeRegistrationLanguage
)

// callbackRoute is the parsed form of one interaction event payload.
type callbackRoute struct {
	kind     routeKind
	section  string
	semester models.Semester
	language models.Language
}

// CallbackHandler routes inbound interaction events with at-most-once
// processing per event id.
type CallbackHandler struct {
	dedup         *service.CallbackDedup
	sessions      *service.SessionService
	registrations *service.RegistrationService
	results       *service.ResultService
	sender        *Sender
	metrics       *service.MetricsService
	logger        *zap.Logger
}

// NewCallbackHandler constructs a CallbackHandler instance.
func NewCallbackHandler(dedup *service.CallbackDedup, sessions *service.SessionService, registrations *service.RegistrationService, results *service.ResultService, sender *Sender, metrics *service.MetricsService, logger *zap.Logger) *CallbackHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CallbackHandler{
		dedup:         dedup,
		sessions:      sessions,
		registrations: registrations,
		results:       results,
		sender:        sender,
		metrics:       metrics,
		logger:        logger,
	}
}

// Register wires the callback route onto the bot.
func (h *CallbackHandler) Register(b *tele.Bot) {
	b.Handle(tele.OnCallback, h.Handle)
}

// Handle deduplicates the event and dispatches it by payload shape. The
// transport may deliver the same event twice; a duplicate is acknowledged
// with no further side effect.
func (h *CallbackHandler) Handle(c tele.Context) error {
	cb := c.Callback()
	if cb == nil || c.Sender() == nil {
		return nil
	}

	id := chatID(c)
	lang := h.sessions.Language(id)

	if !h.dedup.MarkProcessed(cb.ID) {
		h.metrics.CallbackDuplicate()
		h.logger.Sugar().Debugw("duplicate callback short-circuited", "event_id", cb.ID, "chat_id", id)
		return c.Respond(&tele.CallbackResponse{Text: i18n.T(lang, i18n.MsgAlreadyProcessed)})
	}
	h.metrics.UpdateHandled("callback")

	route, err := parseCallback(cb.Data)
	if err != nil {
		h.logger.Sugar().Warnw("unroutable callback payload", "data", cb.Data, "chat_id", id)
		return c.Respond(&tele.CallbackResponse{})
	}
	if err := c.Respond(&tele.CallbackResponse{}); err != nil {
		h.logger.Sugar().Debugw("callback ack failed", "event_id", cb.ID, "error", err)
	}

	switch route.kind {
	case routeMenuResults:
		return h.promptSection(c, id, lang, false)
	case routeMenuTop3:
		return h.promptSection(c, id, lang, true)
	case routeBackMenu:
		return h.sender.Send(c, i18n.T(lang, i18n.MsgWelcome), menuMarkup(), tele.ModeMarkdown)
	case routeBackSection:
		return h.promptSection(c, id, lang, false)
	case routeBackTop3Section:
		return h.promptSection(c, id, lang, true)
	case routeSection:
		return h.promptSemester(c, id, lang, route.section, false)
	case routeTop3Section:
		return h.promptSemester(c, id, lang, route.section, true)
	case routeSemester:
		return h.sendResult(c, id, lang, route.section, route.semester)
	case routeTop3Semester:
		return h.sendTop3(c, id, lang, route.section, route.semester)
	case routeSetLanguage:
		return h.setLanguage(c, id, lang, route.language)
	case routeRegistrationLanguage:
		return h.completeRegistration(c, id, route.language)
	}
	return nil
}

func (h *CallbackHandler) promptSection(c tele.Context, id string, lang models.Language, top3 bool) error {
	if _, err := h.sessions.Resolve(id); err != nil {
		return h.replyError(c, id, lang, err)
	}
	msg := i18n.MsgChooseSection
	if top3 {
		msg = i18n.MsgChooseSectionTop3
	}
	return h.sender.Send(c, i18n.T(lang, msg), sectionMarkup(top3), tele.ModeMarkdown)
}

func (h *CallbackHandler) promptSemester(c tele.Context, id string, lang models.Language, section string, top3 bool) error {
	if _, err := h.sessions.Resolve(id); err != nil {
		return h.replyError(c, id, lang, err)
	}
	if !top3 && !h.sessions.Authorize(id, section) {
		return h.sender.Send(c, i18n.T(lang, i18n.MsgNotAuthorized))
	}
	return h.sender.Send(c, i18n.Tf(lang, i18n.MsgChooseSemester, section), semesterMarkup(section, top3), tele.ModeMarkdown)
}

func (h *CallbackHandler) sendResult(c tele.Context, id string, lang models.Language, section string, sem models.Semester) error {
	enr, err := h.sessions.Resolve(id)
	if err != nil {
		return h.replyError(c, id, lang, err)
	}
	// The section comes from menu state the client controls; the enrollment
	// decides whose row is read, and a mismatched section is refused.
	if !h.sessions.Authorize(id, section) {
		return h.sender.Send(c, i18n.T(lang, i18n.MsgNotAuthorized))
	}

	card, err := h.results.StudentResult(context.Background(), section, sem, enr.Roll)
	if err != nil {
		return h.replyError(c, id, lang, err)
	}
	return h.sender.Send(c, i18n.RenderResult(lang, card), tele.ModeMarkdown)
}

func (h *CallbackHandler) sendTop3(c tele.Context, id string, lang models.Language, section string, sem models.Semester) error {
	if _, err := h.sessions.Resolve(id); err != nil {
		return h.replyError(c, id, lang, err)
	}

	entries, err := h.results.TopThree(context.Background(), section, sem)
	if err != nil {
		return h.replyError(c, id, lang, err)
	}
	return h.sender.Send(c, i18n.RenderTop3(lang, section, sem, entries), tele.ModeMarkdown)
}

func (h *CallbackHandler) setLanguage(c tele.Context, id string, lang models.Language, chosen models.Language) error {
	if err := h.sessions.SetLanguage(id, chosen); err != nil {
		return h.replyError(c, id, lang, err)
	}
	return h.sender.Send(c, i18n.T(chosen, i18n.MsgLanguageSet))
}

func (h *CallbackHandler) completeRegistration(c tele.Context, id string, chosen models.Language) error {
	enr, err := h.registrations.Complete(id, chosen)
	if err != nil {
		// Render in the chosen language; the chat record may not exist yet.
		return h.replyError(c, id, chosen, err)
	}
	if err := h.sender.Send(c, i18n.Tf(chosen, i18n.MsgPinIssued, enr.PIN), tele.ModeMarkdown); err != nil {
		return err
	}
	return h.sender.Send(c, i18n.T(chosen, i18n.MsgWelcome), menuMarkup(), tele.ModeMarkdown)
}

func (h *CallbackHandler) replyError(c tele.Context, id string, lang models.Language, err error) error {
	h.logger.Sugar().Infow("callback rejected", "chat_id", id, "error", err)
	return h.sender.Send(c, i18n.FromAppError(lang, err), tele.ModeMarkdown)
}

// parseCallback decodes an interaction payload into a route. The transport
// may prefix payloads with "\f"; it is stripped before matching.
func parseCallback(data string) (callbackRoute, error) {
	data = strings.TrimPrefix(strings.TrimSpace(data), "\f")

	switch data {
	case cbMenuResults:
		return callbackRoute{kind: routeMenuResults}, nil
	case cbMenuTop3:
		return callbackRoute{kind: routeMenuTop3}, nil
	case cbBackMenu:
		return callbackRoute{kind: routeBackMenu}, nil
	case cbBackSection:
		return callbackRoute{kind: routeBackSection}, nil
	case cbBackTop3Section:
		return callbackRoute{kind: routeBackTop3Section}, nil
	}

	switch {
	case strings.HasPrefix(data, cbSectionPrefix):
		return sectionRoute(routeSection, strings.TrimPrefix(data, cbSectionPrefix))
	case strings.HasPrefix(data, cbTop3SectionPrefix):
		return sectionRoute(routeTop3Section, strings.TrimPrefix(data, cbTop3SectionPrefix))
	case strings.HasPrefix(data, cbSemesterPrefix):
		return semesterRoute(routeSemester, strings.TrimPrefix(data, cbSemesterPrefix))
	case strings.HasPrefix(data, cbTop3SemesterPrefix):
		return semesterRoute(routeTop3Semester, strings.TrimPrefix(data, cbTop3SemesterPrefix))
	case strings.HasPrefix(data, cbLangPrefix):
		return languageRoute(routeSetLanguage, strings.TrimPrefix(data, cbLangPrefix))
	case strings.HasPrefix(data, cbRegLangPrefix):
		return languageRoute(routeRegistrationLanguage, strings.TrimPrefix(data, cbRegLangPrefix))
	}
	return callbackRoute{}, fmt.Errorf("unknown callback payload %q", data)
}

func sectionRoute(kind routeKind, section string) (callbackRoute, error) {
	if !models.IsValidSection(section) {
		return callbackRoute{}, fmt.Errorf("unknown section %q", section)
	}
	return callbackRoute{kind: kind, section: section}, nil
}

func semesterRoute(kind routeKind, rest string) (callbackRoute, error) {
	parts := strings.Split(rest, ":")
	if len(parts) != 2 {
		return callbackRoute{}, fmt.Errorf("malformed semester payload %q", rest)
	}
	section, sem := parts[0], models.Semester(parts[1])
	if !models.IsValidSection(section) {
		return callbackRoute{}, fmt.Errorf("unknown section %q", section)
	}
	if !sem.IsValid() {
		return callbackRoute{}, fmt.Errorf("unknown semester %q", parts[1])
	}
	return callbackRoute{kind: kind, section: section, semester: sem}, nil
}

func languageRoute(kind routeKind, code string) (callbackRoute, error) {
	lang := models.Language(code)
	if !lang.IsValid() {
		return callbackRoute{}, fmt.Errorf("unknown language %q", code)
	}
	return callbackRoute{kind: kind, language: lang}, nil
}
