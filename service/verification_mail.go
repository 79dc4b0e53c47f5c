package service

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
	"gopkg.in/gomail.v2"
)

// MailSender dispatches the verification email. Failures are surfaced once
// and never retried here; the issued token just expires on its own.
type MailSender interface {
	SendVerificationMail(to, url string) error
}

// SMTPMailSender sends the verification mail through the configured SMTP
// relay.
type SMTPMailSender struct{}

func (SMTPMailSender) SendVerificationMail(to, url string) error {
	from := viper.GetString("mail.sender")
	if to == from {
		return errors.New("invalid email address")
	}

	if viper.GetString("mail.host") == "" {
		return errors.New("no mail host configured")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Your document access code")
	m.SetBody("text/html", fmt.Sprintf(
		"Click <a href='%v'>here</a> to view the document.<br><br>This link will expire in %v",
		url, viper.GetDuration("verification.code_ttl")))

	d := gomail.NewDialer(
		viper.GetString("mail.host"),
		viper.GetInt("mail.port"),
		from,
		viper.GetString("mail.password"),
	)

	if err := d.DialAndSend(m); err != nil {
		return err
	}

	return nil
}
