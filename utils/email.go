package utils

import (
	"net/smtp"
	"os"
)

// SendMail delivers an HTML email through the SMTP relay configured by
// SMTP_HOST, SMTP_PORT, SMTP_USER, SMTP_PASSWORD and EMAIL_FROM. Returns
// false without error when no relay is configured.
func SendMail(to, subject, html string) (bool, error) {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		return false, nil
	}

	port := os.Getenv("SMTP_PORT")
	if port == "" {
		port = "587"
	}

	from := os.Getenv("EMAIL_FROM")
	if from == "" {
		from = os.Getenv("SMTP_USER")
	}

	msg := []byte("To: " + to + "\r\n" +
		"From: " + from + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=\"UTF-8\"\r\n" +
		"\r\n" + html + "\r\n")

	auth := smtp.PlainAuth("", os.Getenv("SMTP_USER"), os.Getenv("SMTP_PASSWORD"), host)
	if err := smtp.SendMail(host+":"+port, auth, from, []string{to}, msg); err != nil {
		return false, err
	}

	return true, nil
}
