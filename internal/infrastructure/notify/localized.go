package notify

import (
	"context"

	"github.com/gharunnepal/marketplace/internal/core/domain"
	"github.com/gharunnepal/marketplace/internal/core/ports"
)

// Translator prints a catalog message in a language.
type Translator interface {
	Sprintf(lang, key string, args ...any) string
}

// LocalizedSender fills in subject and body from the message catalog,
// in the recipient's language, before handing off to next. Manual
// notifications carry their own text and pass through unchanged.
type LocalizedSender struct {
	next ports.EmailSender
	msgs Translator
}

func NewLocalizedSender(next ports.EmailSender, msgs Translator) *LocalizedSender {
	return &LocalizedSender{next: next, msgs: msgs}
}

func (s *LocalizedSender) Send(ctx context.Context, n domain.Notification) error {
	if n.Event != domain.EventManual {
		prefix := "email." + string(n.Event)
		arg := n.Reference
		if n.Event == domain.EventWelcome {
			arg = n.Name
		}
		if n.Subject == "" {
			n.Subject = s.msgs.Sprintf(n.Language, prefix+".subject", arg)
		}
		if n.Message == "" {
			n.Message = s.msgs.Sprintf(n.Language, prefix+".body", arg)
		}
	}
	return s.next.Send(ctx, n)
}
