package utils

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/shopspring/decimal"
	"gopkg.in/gomail.v2"
)

// PaymentReminder carries everything the reminder email template needs.
type PaymentReminder struct {
	PatientName      string
	BillNumber       string
	TotalAmount      decimal.Decimal
	RemainingBalance decimal.Decimal
	DueDate          string
	DaysOverdue      int
}

// SendPaymentReminderEmail emails an overdue-balance notice to a patient.
func SendPaymentReminderEmail(email string, reminder PaymentReminder) error {
	clinicName := os.Getenv("CLINIC_NAME")
	clinicPhone := os.Getenv("CLINIC_PHONE")

	m := gomail.NewMessage()
	m.SetHeader("From", os.Getenv("SMTP_USER"))
	m.SetHeader("To", email)
	m.SetHeader("Subject", fmt.Sprintf("Payment Reminder for Bill %s", reminder.BillNumber))

	m.SetBody("text/plain", fmt.Sprintf(
		"Dear %s,\n\nThis is a reminder that bill %s has an outstanding balance of %s, "+
			"due on %s (%d days overdue).\n\nPlease settle the balance at your earliest convenience. "+
			"For questions, contact %s at %s.\n\nThank you,\n%s",
		reminder.PatientName, reminder.BillNumber, reminder.RemainingBalance.StringFixed(2),
		reminder.DueDate, reminder.DaysOverdue, clinicName, clinicPhone, clinicName))

	htmlBody := `
	<!DOCTYPE html>
	<html>
	<head>
		<title>Payment Reminder</title>
		<style>
			body {
				font-family: Arial, sans-serif;
				background-color: #f4f4f4;
				margin: 0;
				padding: 0;
			}
			.container {
				background-color: #ffffff;
				margin: 20px auto;
				padding: 20px;
				border-radius: 8px;
				box-shadow: 0 2px 4px rgba(0, 0, 0, 0.1);
				max-width: 600px;
			}
			h1 {
				color: #333333;
			}
			p {
				color: #666666;
			}
			.balance {
				font-weight: bold;
				color: #dc3545;
			}
		</style>
	</head>
	<body>
		<div class="container">
			<h1>Payment Reminder</h1>
			<p>Dear ` + reminder.PatientName + `,</p>
			<p>This is a reminder that bill <strong>` + reminder.BillNumber + `</strong> has an outstanding balance of</p>
			<p class="balance">` + reminder.RemainingBalance.StringFixed(2) + `</p>
			<p>It was due on ` + reminder.DueDate + ` and is now ` + strconv.Itoa(reminder.DaysOverdue) + ` days overdue.</p>
			<p>Please settle the balance at your earliest convenience. For questions, contact ` + clinicName + ` at ` + clinicPhone + `.</p>
		</div>
	</body>
	</html>
	`
	m.AddAlternative("text/html", htmlBody)

	return dialAndSend(m)
}

// SendPortalCredentialsEmail emails newly provisioned portal credentials
// to a patient once their bill is fully paid.
func SendPortalCredentialsEmail(email, patientName, username, password string) error {
	clinicName := os.Getenv("CLINIC_NAME")

	m := gomail.NewMessage()
	m.SetHeader("From", os.Getenv("SMTP_USER"))
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Your Patient Portal Account")

	m.SetBody("text/plain", fmt.Sprintf(
		"Dear %s,\n\nA patient portal account has been created for you.\n\n"+
			"Username: %s\nPassword: %s\n\nPlease change your password after your first login.\n\nThank you,\n%s",
		patientName, username, password, clinicName))

	htmlBody := `
	<!DOCTYPE html>
	<html>
	<head>
		<title>Patient Portal Account</title>
		<style>
			body {
				font-family: Arial, sans-serif;
				background-color: #f4f4f4;
				margin: 0;
				padding: 0;
			}
			.container {
				background-color: #ffffff;
				margin: 20px auto;
				padding: 20px;
				border-radius: 8px;
				box-shadow: 0 2px 4px rgba(0, 0, 0, 0.1);
				max-width: 600px;
			}
			h1 {
				color: #333333;
			}
			p {
				color: #666666;
			}
			.credentials {
				font-weight: bold;
				color: #007bff;
			}
		</style>
	</head>
	<body>
		<div class="container">
			<h1>Patient Portal Account</h1>
			<p>Dear ` + patientName + `,</p>
			<p>A patient portal account has been created for you.</p>
			<p class="credentials">Username: ` + username + `<br>Password: ` + password + `</p>
			<p>Please change your password after your first login.</p>
		</div>
	</body>
	</html>
	`
	m.AddAlternative("text/html", htmlBody)

	return dialAndSend(m)
}

func dialAndSend(m *gomail.Message) error {
	smtpHost := os.Getenv("SMTP_HOST")
	smtpPortStr := os.Getenv("SMTP_PORT")
	smtpUser := os.Getenv("SMTP_USER")
	smtpPass := os.Getenv("SMTP_PASS")

	smtpPort, err := strconv.Atoi(smtpPortStr)
	if err != nil {
		log.Printf("Invalid SMTP_PORT value: %v", err)
		return fmt.Errorf("invalid SMTP_PORT value: %w", err)
	}

	d := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPass)
	return d.DialAndSend(m)
}
