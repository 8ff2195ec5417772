package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"gopkg.in/gomail.v2"

	"vighnaharta-backend/internal/domain"
	"vighnaharta-backend/internal/logger"
)

const signature = "\n\nGanpati Bappa Morya,\nThe Vighnaharta Team"

// mailSender delivers one plain-text email.
type mailSender interface {
	send(ctx context.Context, to, subject, body string) error
	provider() string
}

type emailService struct {
	sender mailSender
	title  string
}

// NewSMTPEmailService sends through an SMTP relay with gomail.
func NewSMTPEmailService(host string, port int, username, password, from, title string) EmailService {
	d := gomail.NewDialer(host, port, username, password)
	return &emailService{
		sender: &smtpSender{from: from, dial: d.DialAndSend},
		title:  title,
	}
}

// NewSendGridEmailService sends through the SendGrid v3 API. An empty host
// selects the public endpoint.
func NewSendGridEmailService(apiKey, from, title, host string) EmailService {
	return &emailService{
		sender: &sendgridSender{apiKey: apiKey, from: from, fromName: title, host: host},
		title:  title,
	}
}

// NewNoopEmailService logs and drops every email.
func NewNoopEmailService() EmailService {
	return &emailService{sender: noopSender{}}
}

func (s *emailService) deliver(ctx context.Context, to, subject, body string) error {
	logger.ExternalServiceCall(s.sender.provider(), "send", "to", to, "subject", subject)
	err := s.sender.send(ctx, to, subject, body+signature)
	logger.ExternalServiceResult(s.sender.provider(), "send", err)
	return err
}

func (s *emailService) SendRegistrationNotification(ctx context.Context, adminEmail string, p domain.Participant) error {
	subject := fmt.Sprintf("New photo pass: %s (Flat %s)", p.Name, p.FlatNumber)
	body := fmt.Sprintf("Hello,\n\n%s from flat %s has registered a photo pass and is waiting for approval.\n\nPass: %s", p.Name, p.FlatNumber, p.ImageURL)
	return s.deliver(ctx, adminEmail, subject, body)
}

func (s *emailService) SendSecretMessageNotification(ctx context.Context, organizerEmail string, m domain.Message) error {
	subject := "You have a new secret message"
	body := fmt.Sprintf("Dear %s,\n\nSomeone left you a secret message:\n\n\"%s\"", m.Organizer, m.Text)
	return s.deliver(ctx, organizerEmail, subject, body)
}

func (s *emailService) SendPendingDigest(ctx context.Context, adminEmail string, pending []domain.Participant) error {
	if len(pending) == 0 {
		return nil
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Hello,\n\n%d participant(s) are waiting for approval:\n\n", len(pending))
	for _, p := range pending {
		fmt.Fprintf(&b, "- %s, Flat %s\n", p.Name, p.FlatNumber)
	}
	return s.deliver(ctx, adminEmail, fmt.Sprintf("%d photo passes pending approval", len(pending)), b.String())
}

type smtpSender struct {
	from string
	dial func(...*gomail.Message) error
}

func (s *smtpSender) provider() string { return "smtp" }

func (s *smtpSender) send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dial(m); err != nil {
		return fmt.Errorf("failed to send email via gomail: %w", err)
	}
	return nil
}

type sendgridSender struct {
	apiKey   string
	from     string
	fromName string
	host     string
}

func (s *sendgridSender) provider() string { return "sendgrid" }

func (s *sendgridSender) send(ctx context.Context, to, subject, body string) error {
	message := mail.NewSingleEmail(mail.NewEmail(s.fromName, s.from), subject, mail.NewEmail("", to), body, "")

	request := sendgrid.GetRequest(s.apiKey, "/v3/mail/send", s.host)
	request.Method = "POST"
	client := &sendgrid.Client{Request: request}

	response, err := client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

type noopSender struct{}

func (noopSender) provider() string { return "noop" }

func (noopSender) send(ctx context.Context, to, subject, body string) error {
	logger.Debug("Email dropped", "to", to, "subject", subject)
	return nil
}
