package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/rentledger/internal/bus"
)

const (
	ChannelTenants         = "tenants"
	ChannelPrices          = "prices"
	ChannelPrivacyKeywords = "privacy-keywords"
	ChannelMeterNames      = "meter-names"
	ChannelBills           = "bills"
)

// StreamEvents serves one notification channel over SSE. Subscribers only
// see events published after they connect; there is no backlog replay.
func (s *Server) StreamEvents(c *gin.Context) {
	if s.bus == nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}

	channel := strings.TrimSpace(c.Param("channel"))
	switch channel {
	case ChannelTenants:
		streamTopic(c, channel, s.bus.Tenant)
	case ChannelPrices:
		streamTopic(c, channel, s.bus.Price)
	case ChannelPrivacyKeywords:
		streamTopic(c, channel, s.bus.PrivacyKeywords)
	case ChannelMeterNames:
		streamTopic(c, channel, s.bus.MeterName)
	case ChannelBills:
		streamTopic(c, channel, s.bus.Bill)
	default:
		AbortWithError(c, invalidRequestError())
	}
}

func streamTopic[T any](c *gin.Context, channel string, topic *bus.Topic[T]) {
	subscription := topic.Subscribe()
	defer subscription.Close()

	writer := c.Writer
	headers := writer.Header()
	headers.Set("Content-Type", "text/event-stream")
	headers.Set("Cache-Control", "no-cache")
	headers.Set("Connection", "keep-alive")
	headers.Set("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	flusher, ok := writer.(http.Flusher)
	if !ok {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}

	if _, err := io.WriteString(writer, "retry: 2000\n\n"); err != nil {
		return
	}
	flusher.Flush()

	ctx := c.Request.Context()
	heartbeat := time.NewTicker(15 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case event := <-subscription.Events():
			if err := writeEvent(writer, channel, event); err != nil {
				return
			}
			flusher.Flush()
		case <-heartbeat.C:
			if _, err := io.WriteString(writer, ": heartbeat\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

type eventEnvelope struct {
	Channel string `json:"channel"`
	Payload any    `json:"payload"`
}

func writeEvent(w io.Writer, channel string, payload any) error {
	data, err := json.Marshal(eventEnvelope{Channel: channel, Payload: payload})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "data: %s\n\n", data)
	return err
}
