package email

import (
	"fmt"
	"net/smtp"
	"time"

	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"

	"github.com/animotheque/animotheque/internal/config"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
	}
}

// SendPasswordResetNotice tells the account holder that their password was
// just replaced. The reset itself never depends on this mail going out.
func (s *Sender) SendPasswordResetNotice(to string) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = "Votre mot de passe a été réinitialisé"

	body := fmt.Sprintf(
		"Bonjour,\n\n"+
			"Le mot de passe de votre compte Animothèque a été réinitialisé le %s.\n"+
			"Si vous n'êtes pas à l'origine de cette demande, réinitialisez votre mot de passe dès que possible.\n"+
			"\nÀ bientôt,\nAnimothèque",
		time.Now().Format("02/01/2006 15:04"),
	)
	e.Text = []byte(body)

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	if err := e.Send(addr, auth); err != nil {
		s.logger.Errorf("Failed to send email to %s: %v", to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}
