package managers

import (
	"context"
	"fmt"
	"time"

	"github.com/JaineelPandya/social-book/internal/config"
	"github.com/mailgun/mailgun-go/v4"
	"github.com/matcornic/hermes/v2"
	log "github.com/sirupsen/logrus"
)

const mailTimeout = 5 * time.Second

// MailMgr is an interface that outlines the contract for email management.
// It includes methods for sending activation, confirmation and login notification emails.
type MailMgr interface {
	SendActivationMail(email, name, link string) error
	SendConfirmationMail(email, name string) error
	SendLoginNotification(email, name, clientIP string, at time.Time) error
}

// MailManager is a concrete implementation of the MailMgr interface.
// It uses the Mailgun service for sending emails and the Hermes package for formatting emails.
type MailManager struct {
	Hermes      *hermes.Hermes
	Mailgun     *mailgun.MailgunImpl
	from        string
	serviceName string
	sendMails   bool
}

// NewMailManager initializes a new MailManager instance with configured Mailgun and Hermes settings.
// Mails are only sent in production, otherwise they are logged and dropped.
func NewMailManager(cfg *config.Config) MailMgr {
	log.Info("Initializing mail manager")

	if !cfg.IsProduction() {
		log.Info("Running in development mode, email will not be sent to users")
	}

	mm := &MailManager{
		Hermes: &hermes.Hermes{
			Theme:         new(hermes.Default),
			TextDirection: hermes.TDLeftToRight,
			Product: hermes.Product{
				Name:        cfg.ServiceName,
				Link:        cfg.PublicBaseURL,
				Copyright:   "© Social Book",
				TroubleText: "If you’re having trouble with the button '{ACTION}', copy and paste the URL below into your web browser.",
			},
		},
		Mailgun:     mailgun.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey),
		from:        cfg.MailFrom,
		serviceName: cfg.ServiceName,
		sendMails:   cfg.IsProduction(),
	}
	log.Info("Initialized mail manager")
	return mm
}

// SendActivationMail sends the activation link to a freshly registered user.
func (mm *MailManager) SendActivationMail(email, name, link string) error {
	mailBody := hermes.Email{
		Body: hermes.Body{
			Name: name,
			Intros: []string{
				fmt.Sprintf("Welcome to %s! We're very excited to have you on board.", mm.serviceName),
			},
			Actions: []hermes.Action{
				{
					Instructions: "To activate your account, please click the button below:",
					Button: hermes.Button{
						Color: "#22BC66",
						Text:  "Activate your account",
						Link:  link,
					},
				},
			},
			Outros: []string{
				"The link can only be used once and expires after a few days.",
			},
		},
	}

	return mm.send(email, "Activate your account", mailBody)
}

// SendConfirmationMail informs the user that the account has been activated.
func (mm *MailManager) SendConfirmationMail(email, name string) error {
	mailBody := hermes.Email{
		Body: hermes.Body{
			Name: name,
			Intros: []string{
				"Your account has been successfully activated!",
			},
			Outros: []string{
				fmt.Sprintf("Have fun using %s!", mm.serviceName),
			},
		},
	}

	return mm.send(email, "Account successfully activated", mailBody)
}

// SendLoginNotification informs the user about a new browser session on the account.
func (mm *MailManager) SendLoginNotification(email, name, clientIP string, at time.Time) error {
	mailBody := hermes.Email{
		Body: hermes.Body{
			Name: name,
			Intros: []string{
				fmt.Sprintf("A new sign-in to your %s account was detected.", mm.serviceName),
			},
			Dictionary: []hermes.Entry{
				{Key: "Time", Value: at.UTC().Format(time.RFC1123)},
				{Key: "IP address", Value: clientIP},
			},
			Outros: []string{
				"If this was not you, please change your password immediately.",
			},
		},
	}

	return mm.send(email, "New sign-in to your account", mailBody)
}

func (mm *MailManager) send(email, subject string, mailBody hermes.Email) error {
	if !mm.sendMails {
		log.Infof("Skipping mail %q to %s in development mode", subject, email)
		return nil
	}

	htmlBody, err := mm.Hermes.GenerateHTML(mailBody)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotificationDeliveryFailed, err)
	}
	textBody, err := mm.Hermes.GeneratePlainText(mailBody)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotificationDeliveryFailed, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), mailTimeout)
	defer cancel()

	message := mm.Mailgun.NewMessage(mm.from, subject, textBody, email)
	message.SetHtml(htmlBody)
	if _, _, err = mm.Mailgun.Send(ctx, message); err != nil {
		log.Warnf("Error sending mail %q: %v", subject, err)
		return fmt.Errorf("%w: %v", ErrNotificationDeliveryFailed, err)
	}
	log.Debug("Mail sent to ", email)

	return nil
}
