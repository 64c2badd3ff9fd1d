package notify

import (
	"net/url"
	"strings"
)

// ContactLinks are the support channels shown to visitors.
type ContactLinks struct {
	Phone    string `json:"phone"`
	WhatsApp string `json:"whatsapp"`
	Tel      string `json:"tel"`
}

// NewContactLinks builds WhatsApp and tel links for phone. message is the
// prefilled WhatsApp text and may be empty.
func NewContactLinks(phone, message string) ContactLinks {
	digits := digitsOnly(phone)
	return ContactLinks{
		Phone:    phone,
		WhatsApp: WhatsAppLink(digits, message),
		Tel:      "tel:+" + digits,
	}
}

// WhatsAppLink returns a wa.me deep link.
func WhatsAppLink(phone, message string) string {
	link := "https://wa.me/" + digitsOnly(phone)
	if message != "" {
		link += "?text=" + strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	}
	return link
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
