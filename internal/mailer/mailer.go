// Package mailer emails the business owner about new inquiries and bookings.
package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/Manikan-10/Party-Planners-Client/internal/config"
	"github.com/Manikan-10/Party-Planners-Client/internal/logger"
)

// Inquiry is a contact form submission.
type Inquiry struct {
	Name    string
	Email   string
	Phone   string
	Subject string
	Message string
}

// BookingNotice is a new booking request.
type BookingNotice struct {
	EventTitle    string
	EventDate     string
	EventTime     string
	Address       string
	FamilyMembers string
	SpecialNeeds  string
	HomePhotoURL  string
}

// Mailer sends notification mail over SMTP. When SMTP is not configured it
// only logs what it would have sent.
type Mailer struct {
	host      string
	port      int
	user      string
	password  string
	fromName  string
	fromEmail string
	to        string
	enabled   bool

	deliver func(ctx context.Context, m *mail.Msg) error
}

// New creates a Mailer from configuration.
func New(cfg *config.Config) *Mailer {
	m := &Mailer{
		host:      cfg.SMTPHost,
		port:      cfg.SMTPPort,
		user:      cfg.SMTPUser,
		password:  cfg.SMTPPassword,
		fromName:  cfg.SMTPFromName,
		fromEmail: cfg.SMTPFrom,
		to:        cfg.NotifyEmail,
		enabled:   cfg.MailConfigured(),
	}
	m.deliver = m.dialAndSend
	if !m.enabled {
		logger.Info("mailer: SMTP not configured, notifications are logged only")
	}
	return m
}

// NotifyInquiry emails a new contact form submission. Replies go to the visitor.
func (m *Mailer) NotifyInquiry(ctx context.Context, in Inquiry) error {
	subject := "New inquiry from " + in.Name
	if s := strings.TrimSpace(in.Subject); s != "" {
		subject += ": " + s
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\nEmail: %s\n", in.Name, in.Email)
	if in.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", in.Phone)
	}
	fmt.Fprintf(&b, "\n%s\n", in.Message)

	return m.send(ctx, subject, b.String(), in.Email)
}

// NotifyBooking emails a new booking request.
func (m *Mailer) NotifyBooking(ctx context.Context, bn BookingNotice) error {
	subject := fmt.Sprintf("New booking: %s on %s", bn.EventTitle, bn.EventDate)

	var b strings.Builder
	fmt.Fprintf(&b, "Event: %s\nDate: %s %s\nAddress: %s\nFamily members: %s\n",
		bn.EventTitle, bn.EventDate, bn.EventTime, bn.Address, bn.FamilyMembers)
	if bn.SpecialNeeds != "" {
		fmt.Fprintf(&b, "Special needs: %s\n", bn.SpecialNeeds)
	}
	if bn.HomePhotoURL != "" {
		fmt.Fprintf(&b, "Home photo: %s\n", bn.HomePhotoURL)
	}
	return m.send(ctx, subject, b.String(), "")
}

func (m *Mailer) send(ctx context.Context, subject, body, replyTo string) error {
	if !m.enabled {
		logger.WithField("subject", subject).Info("mailer: notification not sent, SMTP not configured")
		return nil
	}

	msg := mail.NewMsg()
	if err := msg.From(fmt.Sprintf("%s <%s>", m.fromName, m.fromEmail)); err != nil {
		return fmt.Errorf("set sender: %w", err)
	}
	if err := msg.To(m.to); err != nil {
		return fmt.Errorf("set recipient: %w", err)
	}
	if replyTo != "" {
		if err := msg.ReplyTo(replyTo); err != nil {
			logger.Warnf("mailer: ignoring reply-to %q: %v", replyTo, err)
		}
	}
	msg.Subject(subject)
	msg.SetDate()
	msg.SetBodyString(mail.TypeTextPlain, body)

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := m.deliver(ctx, msg); err != nil {
		return fmt.Errorf("send %q (host=%s port=%d): %w", subject, m.host, m.port, err)
	}
	return nil
}

func (m *Mailer) dialAndSend(ctx context.Context, msg *mail.Msg) error {
	opts := []mail.Option{
		mail.WithPort(m.port),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithTLSConfig(&tls.Config{ServerName: m.host}),
	}
	if m.user != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.user),
			mail.WithPassword(m.password),
		)
	}
	client, err := mail.NewClient(m.host, opts...)
	if err != nil {
		return fmt.Errorf("create SMTP client: %w", err)
	}
	return client.DialAndSendWithContext(ctx, msg)
}
