// Package email delivers notifications over SMTP.
package email

import (
	"context"
	"fmt"
	"html"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/gomail.v2"

	domain "campusdesk/internal/domain/notification"
	"campusdesk/internal/shared/logger"
)

type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromAddress string
	FromName    string
}

// Directory resolves a user id to a mailbox.
type Directory interface {
	EmailFor(ctx context.Context, userID uint) (string, error)
}

// DomainDirectory builds user-<id>@domain addresses. Used until a user directory is wired in.
type DomainDirectory struct {
	Domain string
}

func (d DomainDirectory) EmailFor(_ context.Context, userID uint) (string, error) {
	if d.Domain == "" {
		return "", fmt.Errorf("recipient domain is not configured")
	}
	return fmt.Sprintf("user-%d@%s", userID, d.Domain), nil
}

// sender is satisfied by *gomail.Dialer.
type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type NotificationMailer struct {
	config    SMTPConfig
	dialer    sender
	directory Directory
	title     cases.Caser
	logger    logger.Interface
}

func NewNotificationMailer(config SMTPConfig, directory Directory, logger logger.Interface) *NotificationMailer {
	return newNotificationMailer(config, gomail.NewDialer(config.Host, config.Port, config.Username, config.Password), directory, logger)
}

func newNotificationMailer(config SMTPConfig, dialer sender, directory Directory, logger logger.Interface) *NotificationMailer {
	return &NotificationMailer{
		config:    config,
		dialer:    dialer,
		directory: directory,
		title:     cases.Title(language.English),
		logger:    logger,
	}
}

func (s *NotificationMailer) Name() string { return "email" }

func (s *NotificationMailer) Deliver(ctx context.Context, n *domain.Notification) error {
	to, err := s.directory.EmailFor(ctx, n.RecipientID())
	if err != nil {
		return fmt.Errorf("failed to resolve recipient %d: %w", n.RecipientID(), err)
	}

	m := s.compose(to, n)
	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Debugw("notification email sent", "notification_id", n.ID(), "recipient_id", n.RecipientID())
	return nil
}

func (s *NotificationMailer) subject(n *domain.Notification) string {
	label := s.title.String(strings.ReplaceAll(n.Type().String(), "_", " "))
	return fmt.Sprintf("[Campus Desk] %s (issue #%d)", label, n.IssueID())
}

func (s *NotificationMailer) compose(to string, n *domain.Notification) *gomail.Message {
	plainBody := fmt.Sprintf("%s\n\nIssue #%d\n", n.Message(), n.IssueID())
	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<p>%s</p>
			<p>Issue #%d</p>
		</body>
		</html>
	`, html.EscapeString(n.Message()), n.IssueID())

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.config.FromAddress, s.config.FromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", s.subject(n))
	m.SetBody("text/plain", plainBody)
	m.AddAlternative("text/html", htmlBody)
	return m
}
