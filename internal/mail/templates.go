package mail

import "fmt"

// OTPResetBody is the password-reset email carrying the one-time code.
func OTPResetBody(otp string) string {
	return fmt.Sprintf(`
        <h1>Reset your password</h1>
        <p>Use the following OTP to reset your password:</p>
        <h2>%s</h2>
        <p>This OTP is valid for 10 minutes. If you did not request this, please ignore.</p>
    `, otp)
}

// AdminLoginBody notifies an admin that their account just signed in. The
// code is informational; it does not gate the session.
func AdminLoginBody(otp string) string {
	return fmt.Sprintf(`
        <h1>New sign-in to your admin account</h1>
        <p>A login to your Webinara admin account just succeeded. Confirmation code:</p>
        <h2>%s</h2>
        <p>If this was not you, reset your password immediately.</p>
    `, otp)
}

// BookingConfirmationBody confirms a seat booking.
func BookingConfirmationBody(title, date, startTime, endTime string) string {
	if endTime == "" {
		endTime = "N/A"
	}
	return fmt.Sprintf(`
        <h1>Thank you for your booking!</h1>
        <p>You have successfully booked a seat for the webinar: <strong>%s</strong>.</p>
        <p><strong>Date:</strong> %s</p>
        <p><strong>Time:</strong> %s - %s</p>
        <p>Please join 5 minutes before the start time.</p>
        <p>Best regards,<br/>The Webinara Team</p>
    `, title, date, startTime, endTime)
}
