package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/proof-of-love/pol-api/internal/service"
)

const feedPingInterval = 30 * time.Second

// FeedHandler streams contribution events to websocket clients. Events are
// relayed from the broker, so every API instance serves the same feed.
type FeedHandler struct {
	events *service.EventPublisher
	logger zerolog.Logger
}

// NewFeedHandler constructs a feed handler.
func NewFeedHandler(events *service.EventPublisher, logger zerolog.Logger) *FeedHandler {
	return &FeedHandler{
		events: events,
		logger: logger.With().Str("component", "feed_handler").Logger(),
	}
}

// Register binds the feed websocket under the provided router group.
func (h *FeedHandler) Register(router fiber.Router) {
	router.Use("/feed", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	router.Get("/feed", websocket.New(h.handleConnection))
}

func (h *FeedHandler) handleConnection(conn *websocket.Conn) {
	defer conn.Close()

	broker := h.events.Conn()
	if broker == nil {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "event feed not configured"))
		return
	}

	messages := make(chan *nats.Msg, 32)
	subscription, err := broker.ChanSubscribe(h.events.Subject(), messages)
	if err != nil {
		h.logger.Error().Err(err).Msg("subscribe to contribution events")
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "subscription failed"))
		return
	}
	defer subscription.Unsubscribe()

	h.logger.Info().Str("subject", h.events.Subject()).Msg("feed websocket connected")

	// Drain client frames so close handshakes are noticed.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(feedPingInterval)
	defer ticker.Stop()

	for {
		select {
		case msg := <-messages:
			if err := conn.WriteMessage(websocket.TextMessage, msg.Data); err != nil {
				h.logger.Debug().Err(err).Msg("feed websocket write failed")
				return
			}
		case <-ticker.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-closed:
			h.logger.Info().Msg("feed websocket disconnected")
			return
		}
	}
}
