// Package notify records lightweight events addressed to a user: a new
// interest, a new message. The chat core fires these and forgets them; the
// inbox surface reads them back.
package notify

import (
	"pairwave/backend/internal/localization"
	"pairwave/backend/internal/models"
	"pairwave/backend/internal/storage"

	"go.uber.org/zap"
)

// Sink appends notifications. A failed append is logged and swallowed; a
// broken inbox must never block message delivery.
type Sink struct {
	Storage   storage.Storage
	Localizer *localization.Localizer
	Lang      string
	Log       *zap.Logger
}

func NewSink(s storage.Storage, l *localization.Localizer, lang string, log *zap.Logger) *Sink {
	return &Sink{Storage: s, Localizer: l, Lang: lang, Log: log}
}

// NewInterest records a LIKE event for the recipient.
func (s *Sink) NewInterest(recipient, sender uint) {
	s.append(recipient, sender, models.NotificationLike, localization.KeyNewInterest)
}

// NewMessage records a MESSAGE event for the recipient.
func (s *Sink) NewMessage(recipient, sender uint) {
	s.append(recipient, sender, models.NotificationMessage, localization.KeyNewMessage)
}

func (s *Sink) append(recipient, sender uint, kind, textKey string) {
	name := s.senderName(sender)
	n := &models.Notification{
		RecipientID: recipient,
		SenderID:    &sender,
		Kind:        kind,
		Text:        s.Localizer.Format(s.Lang, textKey, name),
	}
	if err := s.Storage.SaveNotification(n); err != nil {
		s.Log.Warn("failed to save notification",
			zap.Uint("recipient_id", recipient),
			zap.String("kind", kind),
			zap.Error(err))
	}
}

func (s *Sink) senderName(sender uint) string {
	user, err := s.Storage.GetUserByID(sender)
	if err != nil {
		s.Log.Warn("failed to resolve sender name", zap.Uint("sender_id", sender), zap.Error(err))
		return "?"
	}
	return user.DisplayName()
}
