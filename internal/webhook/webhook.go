// Package webhook provides the inbound notification relay: a Gin-based
// HTTP endpoint that re-forwards third-party alert payloads into
// Telegram messages, authenticated by the per-user rotating token.
package webhook

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"komaribot/internal/store"
)

// Sender is the outbound chat transport; the bot implements it.
type Sender interface {
	SendMessage(chatID int64, text string) error
}

// NewEngine builds the relay router. The single route accepts any alert
// source that can POST JSON to a templated URL.
func NewEngine(sender Sender) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.POST("/telegrambot/:telegram_id/:token/:chat_id", handleNotify(sender))
	return r
}

// NewServer wraps the relay router in an http.Server so the caller owns
// its lifecycle; Shutdown drains in-flight relays.
func NewServer(port int, sender Sender) *http.Server {
	addr := fmt.Sprintf(":%d", port)
	log.Printf("[webhook] listening on %s", addr)
	return &http.Server{Addr: addr, Handler: NewEngine(sender)}
}

// handleNotify relays one alert. Every failure branch is logged and
// silently dropped: the caller always gets 200 "OK" so a misconfigured
// alert source never learns whether a token guess was right.
func handleNotify(sender Sender) gin.HandlerFunc {
	return func(c *gin.Context) {
		// The response never varies.
		defer c.String(http.StatusOK, "OK")

		telegramID, err := strconv.ParseInt(c.Param("telegram_id"), 10, 64)
		if err != nil {
			log.Printf("[webhook] unparseable telegram id %q", c.Param("telegram_id"))
			return
		}

		m, err := store.GetMonitor(telegramID)
		if err != nil {
			log.Printf("[webhook] no profile for telegram id %d", telegramID)
			return
		}
		if m.NotificationToken == nil {
			log.Printf("[webhook] telegram id %d has no notification token", telegramID)
			return
		}
		if c.Param("token") != *m.NotificationToken {
			log.Printf("[webhook] token mismatch for telegram id %d", telegramID)
			return
		}

		var body struct {
			Title   *string `json:"title"`
			Message *string `json:"message"`
		}
		if err := json.NewDecoder(c.Request.Body).Decode(&body); err != nil {
			log.Printf("[webhook] unparseable body: %v", err)
			return
		}
		if body.Title == nil || body.Message == nil {
			log.Printf("[webhook] body missing title or message")
			return
		}

		chatID, err := strconv.ParseInt(c.Param("chat_id"), 10, 64)
		if err != nil {
			log.Printf("[webhook] unparseable chat id %q", c.Param("chat_id"))
			return
		}

		if err := sender.SendMessage(chatID, fmt.Sprintf("[%s] %s", *body.Title, *body.Message)); err != nil {
			log.Printf("[webhook] send failed: %v", err)
			return
		}
		log.Printf("[webhook] relayed notification for telegram id %d to chat %d", telegramID, chatID)
	}
}
