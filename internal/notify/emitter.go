package notify

import (
	"team-task-board/internal/models"

	"github.com/sirupsen/logrus"
)

// Emitter fires both reminder channels together: an in-app transient
// notification and the external email transport. The email leg is
// fire-and-forget; its failure is logged and reported back, but callers are
// expected not to retry.
type Emitter struct {
	center *Center
	sender EmailSender
}

func NewEmitter(center *Center, sender EmailSender) *Emitter {
	return &Emitter{center: center, sender: sender}
}

// Center exposes the in-app notification center for the HTTP layer.
func (e *Emitter) Center() *Center {
	return e.center
}

// EmitReminder shows the in-app alert and delegates to the email transport.
func (e *Emitter) EmitReminder(msg EmailMessage) error {
	e.center.Push(msg.Subject, models.NotifyReminder)

	if err := e.sender.Send(msg); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"to":      msg.ToEmail,
			"subject": msg.Subject,
		}).Error("reminder email dispatch failed")
		return err
	}
	return nil
}

// EmitSuccess shows an in-app success alert only.
func (e *Emitter) EmitSuccess(message string) {
	e.center.Push(message, models.NotifySuccess)
}
