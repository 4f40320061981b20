// Package queue carries outbound mail over RabbitMQ so request handlers
// never wait on an SMTP relay.
package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/iliyamo/learning-platform/internal/mail"
)

// DefaultMailQueue is the durable queue outbound mail is published to.
const DefaultMailQueue = "mail.outbound"

// MailRequested is the message body published for each outbound email.
type MailRequested struct {
	To       string `json:"to"`
	Subject  string `json:"subject"`
	Body     string `json:"body"`
	QueuedAt string `json:"queued_at"`
}

func encode(m mail.Message, at time.Time) ([]byte, error) {
	return json.Marshal(MailRequested{
		To:       m.To,
		Subject:  m.Subject,
		Body:     m.Body,
		QueuedAt: at.UTC().Format(time.RFC3339),
	})
}

func decode(body []byte) (mail.Message, error) {
	var ev MailRequested
	if err := json.Unmarshal(body, &ev); err != nil {
		return mail.Message{}, fmt.Errorf("unmarshal: %w", err)
	}
	if ev.To == "" {
		return mail.Message{}, errors.New("message has no recipient")
	}
	return mail.Message{To: ev.To, Subject: ev.Subject, Body: ev.Body}, nil
}
