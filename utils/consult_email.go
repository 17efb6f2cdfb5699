package utils

import (
	"fmt"
	"log"
	"net/smtp"
	"os"
	"strings"
)

// SendConsultationInviteEmail sends the scheduling confirmation with the
// join link. Falls back to a mock log send when SMTP is not configured so
// local development works without a mail server.
func SendConsultationInviteEmail(recipientEmail, patientName, providerName, scheduledAt, meetingLink string) error {
	smtpHost := os.Getenv("SMTP_HOST")
	smtpPort := os.Getenv("SMTP_PORT")
	smtpUser := os.Getenv("SMTP_USERNAME")
	smtpPass := os.Getenv("SMTP_PASSWORD")
	fromName := os.Getenv("SMTP_FROM_NAME")

	if smtpUser == "" || smtpPass == "" || smtpHost == "" || smtpPort == "" {
		log.Printf("[MOCK EMAIL] to:%s provider:%s at:%s link:%s",
			MaskEmail(recipientEmail), providerName, scheduledAt, meetingLink)
		return nil
	}

	safe := func(s string) string {
		return strings.ReplaceAll(strings.TrimSpace(s), "\r\n", " ")
	}
	patientName = safe(patientName)
	providerName = safe(providerName)
	scheduledAt = safe(scheduledAt)
	meetingLink = safe(meetingLink)

	if !(strings.HasPrefix(meetingLink, "http://") || strings.HasPrefix(meetingLink, "https://")) {
		meetingLink = "https://" + strings.TrimLeft(meetingLink, "/")
	}

	from := fmt.Sprintf("%s <%s>", fromName, smtpUser)
	to := []string{recipientEmail}
	auth := smtp.PlainAuth("", smtpUser, smtpPass, smtpHost)
	addr := fmt.Sprintf("%s:%s", smtpHost, smtpPort)

	subject := "Your consultation has been scheduled"
	body := fmt.Sprintf(
		"Dear %s,\n\n"+
			"Your consultation with %s has been scheduled for %s.\n\n"+
			"Join link: %s\n\n"+
			"Please join a few minutes early. The room closes 30 minutes after the scheduled start unless an end time was set.\n",
		patientName, providerName, scheduledAt, meetingLink,
	)

	msg := strings.Join([]string{
		"From: " + from,
		"To: " + recipientEmail,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"utf-8\"",
		"",
		body,
	}, "\r\n")

	if err := smtp.SendMail(addr, auth, smtpUser, to, []byte(msg)); err != nil {
		return fmt.Errorf("send invite email: %w", err)
	}
	return nil
}
