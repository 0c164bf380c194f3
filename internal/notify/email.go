package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// EmailMessage is one outbound reminder email.
type EmailMessage struct {
	ToName  string
	ToEmail string
	Subject string
	Body    string
}

// EmailSender delivers reminder emails. Delivery is fire-and-forget from the
// caller's perspective: a returned error is logged, never retried.
type EmailSender interface {
	Send(msg EmailMessage) error
}

// EmailConfig holds EmailJS-style REST transport credentials.
type EmailConfig struct {
	Endpoint   string
	ServiceID  string
	TemplateID string
	PublicKey  string
}

// HTTPEmailSender posts reminder emails to an EmailJS-compatible endpoint.
// When the credentials are not configured it logs and simulates the send
// instead of failing the caller.
type HTTPEmailSender struct {
	cfg    EmailConfig
	client *http.Client
}

func NewHTTPEmailSender(cfg EmailConfig) *HTTPEmailSender {
	return &HTTPEmailSender{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *HTTPEmailSender) configured() bool {
	return s.cfg.ServiceID != "" && s.cfg.TemplateID != "" && s.cfg.PublicKey != ""
}

// Send implements EmailSender.
func (s *HTTPEmailSender) Send(msg EmailMessage) error {
	if !s.configured() {
		logrus.WithFields(logrus.Fields{
			"to":      msg.ToEmail,
			"subject": msg.Subject,
		}).Warn("email transport not configured, simulating send")
		return nil
	}

	payload := map[string]any{
		"service_id":  s.cfg.ServiceID,
		"template_id": s.cfg.TemplateID,
		"user_id":     s.cfg.PublicKey,
		"template_params": map[string]string{
			"to_name":  msg.ToName,
			"to_email": msg.ToEmail,
			"subject":  msg.Subject,
			"body":     msg.Body,
		},
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	resp, err := s.client.Post(s.cfg.Endpoint, "application/json", bytes.NewReader(raw))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("email endpoint returned status %d", resp.StatusCode)
	}

	logrus.WithField("to", msg.ToEmail).Info("reminder email sent")
	return nil
}
