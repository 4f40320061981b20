package mail

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	raw := string(Render("noreply@lms.local", Message{To: "a@b.c", Subject: "Hi", Body: "text"}, at))

	assert.True(t, strings.HasPrefix(raw, "From: noreply@lms.local\r\nTo: a@b.c\r\nSubject: Hi\r\n"))
	assert.Contains(t, raw, "Content-Type: text/plain; charset=UTF-8\r\n")
	assert.True(t, strings.HasSuffix(raw, "\r\n\r\ntext"))
}

func TestSMTPSender(t *testing.T) {
	var (
		gotAddr string
		gotTo   []string
	)
	s := NewSMTPSender(SMTPConfig{Host: "smtp.local", Port: 2525, From: "noreply@lms.local"})
	s.sendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotTo = addr, to
		assert.Nil(t, a)
		return nil
	}

	require.NoError(t, s.Send(context.Background(), Message{To: "u@lms.local", Subject: "s", Body: "b"}))
	assert.Equal(t, "smtp.local:2525", gotAddr)
	assert.Equal(t, []string{"u@lms.local"}, gotTo)

	s.sendMail = func(string, smtp.Auth, string, []string, []byte) error { return errors.New("421 busy") }
	assert.Error(t, s.Send(context.Background(), Message{To: "u@lms.local"}))
}

func TestSMTPSenderNotConfigured(t *testing.T) {
	assert.Error(t, NewSMTPSender(SMTPConfig{}).Send(context.Background(), Message{To: "x@y.z"}))
}
