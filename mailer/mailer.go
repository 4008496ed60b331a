// Package mailer sends the transactional mails of the platform over SMTP.
package mailer

import (
	"fmt"

	"github.com/edoctorat/backend/config"
	"gopkg.in/gomail.v2"
)

type Mailer struct {
	dialer      *gomail.Dialer
	sender      string
	frontendURL string
}

func New(cfg config.Config) *Mailer {
	return &Mailer{
		dialer:      gomail.NewDialer(cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPass),
		sender:      cfg.SenderEmail,
		frontendURL: cfg.FrontendURL,
	}
}

func (m *Mailer) SendVerification(email, name, token string) error {
	link := m.frontendURL + "/verify-email?token=" + token
	body := fmt.Sprintf(`
		<p>Bonjour %s,</p>
		<p>Merci de votre inscription sur E-Doctorat. Veuillez confirmer votre
		adresse e-mail en cliquant sur le lien ci-dessous. Ce lien expire dans 24 heures.</p>
		<p><a href="%s">Confirmer mon adresse e-mail</a></p>
		<p>Si vous n'êtes pas à l'origine de cette inscription, ignorez ce message.</p>`,
		name, link)
	return m.send(email, "Confirmez votre inscription - E-Doctorat", body)
}

func (m *Mailer) SendWelcome(email, name string) error {
	body := fmt.Sprintf(`
		<p>Bonjour %s,</p>
		<p>Votre adresse e-mail a été confirmée. Bienvenue sur E-Doctorat !</p>
		<p>Vous pouvez maintenant vous connecter et compléter votre dossier de candidature.</p>`,
		name)
	return m.send(email, "Bienvenue sur E-Doctorat", body)
}

func (m *Mailer) SendPasswordReset(email, token string) error {
	link := m.frontendURL + "/reset-password?token=" + token
	body := fmt.Sprintf(`
		<p>Bonjour,</p>
		<p>Une réinitialisation de votre mot de passe a été demandée. Ce lien expire dans une heure.</p>
		<p><a href="%s">Réinitialiser mon mot de passe</a></p>
		<p>Si vous n'avez pas demandé cette réinitialisation, ignorez ce message.</p>`,
		link)
	return m.send(email, "Réinitialisation de votre mot de passe - E-Doctorat", body)
}

func (m *Mailer) send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.sender)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}
