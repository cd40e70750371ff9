package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bernardokeke/fleetlease/internal/model"
)

// MessageSender delivers one text message through the gateway.
type MessageSender interface {
	Send(ctx context.Context, to, body string) error
}

// SMSHandler relays outbound text messages.
type SMSHandler struct {
	Sender MessageSender
}

func NewSMSHandler(s MessageSender) *SMSHandler {
	return &SMSHandler{Sender: s}
}

type sendSMSReq struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

// Send relays one message to the gateway. Local numbers starting with 0
// are rewritten to the 234 international prefix by the gateway client.
func (h *SMSHandler) Send(c echo.Context) error {
	if h.Sender == nil {
		return c.JSON(http.StatusServiceUnavailable, model.Fail("SMS gateway is not configured"))
	}
	var req sendSMSReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, model.Fail("invalid body"))
	}
	req.To = strings.TrimSpace(req.To)
	req.Body = strings.TrimSpace(req.Body)
	if req.To == "" || req.Body == "" {
		return c.JSON(http.StatusBadRequest, model.Fail("to and body are required"))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	if err := h.Sender.Send(ctx, req.To, req.Body); err != nil {
		return c.JSON(http.StatusBadGateway, model.Fail("Message could not be delivered"))
	}
	return c.JSON(http.StatusOK, model.Success(echo.Map{}))
}
