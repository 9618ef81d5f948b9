package handler

import (
	"fmt"
	"net/http"

	"eshop-assistant/internal/dto"
	"eshop-assistant/internal/middleware"
	"eshop-assistant/internal/service"

	"github.com/labstack/echo/v4"
)

type ChatHandler struct {
	chatbot service.ChatbotService
}

func NewChatHandler(chatbot service.ChatbotService) *ChatHandler {
	return &ChatHandler{chatbot: chatbot}
}

func (h *ChatHandler) Chat(c echo.Context) error {
	ctx := c.Request().Context()

	req := new(dto.ChatRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "message is required")
	}

	ident := middleware.IdentityFrom(c)
	reply, err := h.chatbot.Chat(ctx, sessionKey(c, ident), req.Message, ident)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.ChatResponse{Reply: reply})
}

func (h *ChatHandler) ClearHistory(c echo.Context) error {
	ctx := c.Request().Context()

	ident := middleware.IdentityFrom(c)
	if err := h.chatbot.ClearHistory(ctx, sessionKey(c, ident)); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Conversation history cleared."})
}

// sessionKey scopes the transcript to the user when logged in, otherwise to
// the caller's address.
func sessionKey(c echo.Context, ident service.Identity) string {
	if ident.Authenticated {
		return fmt.Sprintf("user:%d", ident.UserID)
	}
	if ip := c.RealIP(); ip != "" {
		return "anon:" + ip
	}
	return "anon"
}
