package testutil

import "sync"

// SentEmail records one delivery made through a FakeMailer.
type SentEmail struct {
	ReplyTo    string
	SenderName string
	To         string
	Subject    string
	HTMLBody   string
}

// FakeMailer is an in-memory Mailer that records deliveries. Set FailWith to
// make every Send return that error instead.
type FakeMailer struct {
	mu       sync.Mutex
	Sent     []SentEmail
	FailWith error
}

// Send records the email, or fails if FailWith is set.
func (m *FakeMailer) Send(replyToEmail, senderName, to, subject, htmlBody string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailWith != nil {
		return m.FailWith
	}
	m.Sent = append(m.Sent, SentEmail{
		ReplyTo:    replyToEmail,
		SenderName: senderName,
		To:         to,
		Subject:    subject,
		HTMLBody:   htmlBody,
	})
	return nil
}

// LastSent returns the most recent delivery, or nil when none were made.
func (m *FakeMailer) LastSent() *SentEmail {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.Sent) == 0 {
		return nil
	}
	return &m.Sent[len(m.Sent)-1]
}
