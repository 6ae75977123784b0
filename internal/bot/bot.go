// Package bot is the Telegram transport: it long-polls for updates,
// dispatches recognized commands into the service layer and renders
// replies with MarkdownV2 formatting and inline navigation keyboards.
package bot

import (
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"komaribot/internal/report"
	"komaribot/internal/service"
)

const startText = `Welcome to the Komari Telegram Bot

Send /help for usage`

const helpText = `Komari Telegram Bot
/start, /help - print this menu

/connect HTTP_URL - connect to a Komari instance (the WebSocket URL is inferred)
/disconnect - remove the saved connection
/update - refresh the saved connection info

/get_node_id - list all node ids known to this bot
/total_status - overview of all nodes
/status NODE_ID - status of a single node

/generate_notification_token - generate a webhook notification token`

// Bot wraps the Telegram API client together with the identity and
// webhook settings replies depend on.
type Bot struct {
	api            *tgbotapi.BotAPI
	name           string
	webhookBaseURL string
}

// New authenticates against the Telegram API. botName is the bot's
// @username without the leading @.
func New(token, botName, webhookBaseURL string, debug bool) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}
	api.Debug = debug
	if botName == "" {
		botName = api.Self.UserName
	}
	return &Bot{api: api, name: botName, webhookBaseURL: webhookBaseURL}, nil
}

// Run long-polls for updates until the channel closes. Each update is
// handled synchronously; concurrent reads for the same user are neither
// coordinated nor deduplicated.
func (b *Bot) Run() error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30

	log.Printf("[bot] authorized as @%s", b.api.Self.UserName)
	for update := range b.api.GetUpdatesChan(u) {
		switch {
		case update.Message != nil:
			b.handleMessage(update.Message)
		case update.CallbackQuery != nil:
			b.handleCallback(update.CallbackQuery)
		}
	}
	return nil
}

// Stop ends long polling. The update channel closes and Run returns
// once the in-flight batch is handled.
func (b *Bot) Stop() {
	b.api.StopReceivingUpdates()
}

// SendMessage delivers a plain-text message; the webhook relay uses it
// as its outbound path.
func (b *Bot) SendMessage(chatID int64, text string) error {
	_, err := b.api.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

func (b *Bot) handleMessage(msg *tgbotapi.Message) {
	// Channel posts carry no sender; ignore them.
	if msg.From == nil {
		return
	}

	cmd := parseCommand(msg.Text, b.name)
	if cmd == nil {
		return
	}
	log.Printf("[bot] command from %d: %s", msg.From.ID, msg.Text)

	userID := msg.From.ID
	switch cmd.kind {
	case cmdStart:
		b.reply(msg, startText, false)
	case cmdHelp:
		b.reply(msg, helpText, false)
	case cmdConnect:
		b.handleConnect(msg, userID, cmd.httpURL)
	case cmdDisconnect:
		if err := service.Disconnect(userID); err != nil {
			b.reply(msg, fmt.Sprintf("Failed to disconnect: %v", err), false)
			return
		}
		b.reply(msg, "Disconnected from Komari.", false)
	case cmdUpdate:
		s, err := service.RefreshSummary(userID)
		if err != nil {
			b.reply(msg, fmt.Sprintf("Failed to refresh instance info: %v", err), false)
			return
		}
		b.reply(msg, s.SummaryReport(), true)
	case cmdGetNodeID:
		text, err := service.NodeIDList(userID)
		if err != nil {
			b.reply(msg, fmt.Sprintf("Cannot list node ids: %v", err), false)
			return
		}
		b.reply(msg, text, true)
	case cmdTotalStatus:
		text, err := service.FleetStatus(userID)
		if err != nil {
			b.reply(msg, fmt.Sprintf("Cannot read Komari status: %v", err), false)
			return
		}
		b.reply(msg, text, true)
	case cmdStatus:
		b.handleStatus(msg, userID, cmd.nodeIndex)
	case cmdGenerateToken:
		b.handleGenerateToken(msg, userID)
	}
}

// handleConnect saves the profile, then immediately probes the instance.
// A failed probe rolls the insert back so a half-connected profile never
// survives.
func (b *Bot) handleConnect(msg *tgbotapi.Message, userID int64, rawURL string) {
	if err := service.Connect(userID, rawURL); err != nil {
		b.reply(msg, fmt.Sprintf("Failed to save the connection: %v", err), false)
		return
	}
	b.reply(msg, "Saved the monitor connection.", false)

	s, err := service.RefreshSummary(userID)
	if err != nil {
		b.reply(msg, fmt.Sprintf("Failed to read the instance, removing the saved connection: %v", err), false)
		if derr := service.Disconnect(userID); derr != nil {
			b.reply(msg, fmt.Sprintf("Failed to disconnect: %v", derr), false)
		}
		return
	}
	b.reply(msg, s.SummaryReport(), true)
}

func (b *Bot) handleStatus(msg *tgbotapi.Message, userID int64, index int) {
	text, nav, err := service.NodeStatus(userID, index)
	if err != nil {
		b.reply(msg, fmt.Sprintf("Cannot read Komari status: %v", err), false)
		return
	}

	reply := tgbotapi.NewMessage(msg.Chat.ID, text)
	reply.ReplyToMessageID = msg.MessageID
	reply.ParseMode = tgbotapi.ModeMarkdownV2
	reply.DisableWebPagePreview = true
	reply.ReplyMarkup = b.keyboard(nav)
	if _, err := b.api.Send(reply); err != nil {
		log.Printf("[bot] send failed: %v", err)
	}
}

func (b *Bot) handleGenerateToken(msg *tgbotapi.Message, userID int64) {
	if !msg.Chat.IsPrivate() {
		b.reply(msg, "This command can only be used in a private chat.", false)
		return
	}

	token, err := service.GenerateNotificationToken(userID)
	if err != nil {
		b.reply(msg, fmt.Sprintf("Cannot generate a notification token: %v", err), false)
		return
	}
	b.reply(msg, tokenInstructions(b.webhookBaseURL, userID, token), true)
}

// tokenInstructions composes the MarkdownV2 reply for a freshly minted
// token. Fenced blocks stay raw; only the prose around them is escaped.
func tokenInstructions(baseURL string, userID int64, token string) string {
	var b strings.Builder
	b.WriteString(report.EscapeMarkdown("A new token was generated:") + "\n")
	fmt.Fprintf(&b, "```\n%s\n```\n", token)
	b.WriteString(report.EscapeMarkdown("Use this URL as the callback URL:") + "\n")
	fmt.Fprintf(&b, "```\n%s/telegrambot/%d/%s/CHAT_ID\n```\n", baseURL, userID, token)
	b.WriteString(report.EscapeMarkdown("And this as the callback body:") + "\n")
	b.WriteString("```\n{\"message\":\"{{message}}\", \"title\":\"{{title}}\"}\n```\n\n")
	b.WriteString(report.EscapeMarkdown("Finally set the method to Post and save.") + "\n\n")
	b.WriteString(report.EscapeMarkdown("Replace CHAT_ID yourself and make sure this bot can reach that chat; CHAT_ID can be obtained from another bot."))
	return b.String()
}

// handleCallback serves the pagination buttons: decode the payload,
// verify it belongs to the pressing user and edit the original message
// in place with the re-rendered node view.
func (b *Bot) handleCallback(q *tgbotapi.CallbackQuery) {
	if q.Data == "" {
		return
	}
	// Always answer first so the client stops its spinner.
	if _, err := b.api.Request(tgbotapi.NewCallback(q.ID, "")); err != nil {
		log.Printf("[bot] answer callback failed: %v", err)
	}
	if q.Message == nil && q.InlineMessageID == "" {
		return
	}

	userID, index, err := report.ParseNavData(q.Data)
	if err != nil {
		log.Printf("[bot] %v", err)
		return
	}
	if userID != q.From.ID {
		return
	}

	text, nav, err := service.NodeStatus(userID, index)
	if err != nil {
		edit := editFor(q, fmt.Sprintf("Cannot read Komari status: %v", err))
		if _, err := b.api.Send(edit); err != nil {
			log.Printf("[bot] edit failed: %v", err)
		}
		return
	}

	kb := b.keyboard(nav)
	edit := editFor(q, text)
	edit.ReplyMarkup = &kb
	edit.ParseMode = tgbotapi.ModeMarkdownV2
	edit.DisableWebPagePreview = true
	if _, err := b.api.Send(edit); err != nil {
		log.Printf("[bot] edit failed: %v", err)
	}
}

// editFor targets an edit at the callback's origin: the chat message
// when one is attached, otherwise the inline message the keyboard was
// sent with.
func editFor(q *tgbotapi.CallbackQuery, text string) tgbotapi.EditMessageTextConfig {
	edit := tgbotapi.EditMessageTextConfig{Text: text}
	if q.Message != nil {
		edit.ChatID = q.Message.Chat.ID
		edit.MessageID = q.Message.MessageID
	} else {
		edit.InlineMessageID = q.InlineMessageID
	}
	return edit
}

// keyboard converts navigation state into an inline keyboard: one row of
// prev / "N of M" link / next, one row with the refresh button.
func (b *Bot) keyboard(nav report.Nav) tgbotapi.InlineKeyboardMarkup {
	var first []tgbotapi.InlineKeyboardButton
	if nav.Prev != nil {
		first = append(first, tgbotapi.NewInlineKeyboardButtonData(nav.Prev.Label, nav.Prev.Data))
	}
	first = append(first, tgbotapi.NewInlineKeyboardButtonURL(nav.Center, "https://t.me/"+b.name))
	if nav.Next != nil {
		first = append(first, tgbotapi.NewInlineKeyboardButtonData(nav.Next.Label, nav.Next.Data))
	}

	return tgbotapi.NewInlineKeyboardMarkup(
		first,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(nav.Refresh.Label, nav.Refresh.Data),
		),
	)
}

// reply sends a response linked to the triggering message. markdown
// selects MarkdownV2 rendering with link previews disabled; the text is
// expected to be pre-escaped in that case.
func (b *Bot) reply(msg *tgbotapi.Message, text string, markdown bool) {
	reply := tgbotapi.NewMessage(msg.Chat.ID, text)
	reply.ReplyToMessageID = msg.MessageID
	if markdown {
		reply.ParseMode = tgbotapi.ModeMarkdownV2
		reply.DisableWebPagePreview = true
	}
	if _, err := b.api.Send(reply); err != nil {
		log.Printf("[bot] send failed: %v", err)
	}
}
