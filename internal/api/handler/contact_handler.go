package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gharunnepal/marketplace/internal/api/middleware"
	"github.com/gharunnepal/marketplace/internal/infrastructure/notify"
)

type ContactHandler struct {
	phone string
	msgs  middleware.Translator
}

func NewContactHandler(supportPhone string, msgs middleware.Translator) *ContactHandler {
	return &ContactHandler{phone: supportPhone, msgs: msgs}
}

// Contact handles GET /v1/contact.
//
// @Summary      Support contact links
// @Tags         contact
// @Produce      json
// @Success      200  {object}  notify.ContactLinks
// @Router       /v1/contact [get]
func (h *ContactHandler) Contact(c echo.Context) error {
	text := h.msgs.Sprintf(ctxLang(c), "contact.whatsapp_text")
	return c.JSON(http.StatusOK, notify.NewContactLinks(h.phone, text))
}
