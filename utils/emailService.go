package utils

import (
	"fmt"
	"log"

	"vportal/config"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Generic Send Email
func SendEmail(to, toName, subject, htmlBody string) error {
	if config.AppConfig.SendGridKey == "" {
		log.Printf("SendGrid key not configured, skipping email to %s (%s)", to, subject)
		return nil
	}

	from := mail.NewEmail("Partner Certification Portal", config.AppConfig.EmailSender)
	recipient := mail.NewEmail(toName, to)
	message := mail.NewSingleEmail(from, subject, recipient, "", htmlBody)

	client := sendgrid.NewSendClient(config.AppConfig.SendGridKey)
	resp, err := client.Send(message)
	if err != nil {
		log.Printf("Error sending email to %s: %v", to, err)
		return err
	}
	if resp.StatusCode >= 400 {
		log.Printf("SendGrid rejected email to %s: %d %s", to, resp.StatusCode, resp.Body)
		return fmt.Errorf("sendgrid returned status %d", resp.StatusCode)
	}
	return nil
}

func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #1A1A40; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 22px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1A1A40; line-height: 1.6; }
			.content h2 { color: #1A1A40; margin-top: 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.info-box { background: #E8F0FE; padding: 15px; border-radius: 4px; border-left: 4px solid #4A7BD0; margin: 20px 0; }
			.code-box { font-family: monospace; font-size: 18px; font-weight: bold; letter-spacing: 2px; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>PARTNER CERTIFICATION PORTAL</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				This is an automated notification from the partner certification portal.
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// --- Triggers ---

// 1. Voucher request received
func SendRequestSubmittedEmail(email, name string, candidates int) {
	subject := "Voucher Request Received"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>We have received your certification voucher request for <strong>%d candidate(s)</strong>.</p>
		<p>Our team will review it shortly. You can track the status on your dashboard.</p>
	`, name, candidates)

	go SendEmail(email, name, subject, getEmailTemplate("Request Received", body))
}

// 2. Request approved
func SendRequestApprovedEmail(email, name, candidateName, exam string) {
	subject := "Voucher Request Approved"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your voucher request for <strong>%s</strong> (%s) has been <strong>approved</strong>.</p>
		<p>A voucher code will be issued and sent to you once processing completes.</p>
	`, name, candidateName, exam)

	go SendEmail(email, name, subject, getEmailTemplate("Request Approved", body))
}

// 3. Request rejected
func SendRequestRejectedEmail(email, name, candidateName, reason string) {
	subject := "Voucher Request Rejected"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Unfortunately, your voucher request for <strong>%s</strong> was rejected.</p>
		<div style="color: #dc3545; font-weight: bold;">Reason: %s</div>
		<p>Please review the reason above and submit a new request if applicable.</p>
	`, name, candidateName, reason)

	go SendEmail(email, name, subject, getEmailTemplate("Request Rejected", body))
}

// 4. Voucher code issued
func SendVoucherIssuedEmail(email, name, candidateName, exam, code string) {
	subject := "Voucher Code Issued: " + exam
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>A voucher code has been issued for <strong>%s</strong> (%s):</p>
		<div class="info-box"><span class="code-box">%s</span></div>
		<p>Please share it with the candidate. The code is valid for one exam registration.</p>
	`, name, candidateName, exam, code)

	go SendEmail(email, name, subject, getEmailTemplate("Voucher Issued", body))
}

// 5. Access request received
func SendAccessRequestReceivedEmail(email, name string) {
	subject := "Access Request Received"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>We have received your request for portal access.</p>
		<p>An administrator will review it and you will hear from us soon.</p>
	`, name)

	go SendEmail(email, name, subject, getEmailTemplate("Access Request Received", body))
}
