package email

import "fmt"

// HTML bodies for the transactional messages. Kept as plain formatted
// strings; layout matches the product's existing templates.

func verificationBody(link string) string {
	return fmt.Sprintf(`
      <div style="font-family: Arial, sans-serif; padding: 20px; max-width: 600px; margin: 0 auto;">
        <h1 style="color: #333;">Welcome! Verify Your Email</h1>
        <p style="color: #666; font-size: 16px;">
          Thank you for registering! Please verify your email address to activate your account.
        </p>
        <div style="margin: 30px 0;">
          <a href="%[1]s"
             style="background-color: #4CAF50; color: white; padding: 12px 30px;
                    text-decoration: none; border-radius: 5px; display: inline-block;">
            Verify Email
          </a>
        </div>
        <p style="color: #999; font-size: 14px;">
          Or copy this link: <br/>
          <a href="%[1]s">%[1]s</a>
        </p>
        <p style="color: #999; font-size: 14px;">
          This link will expire in 24 hours.
        </p>
        <p style="color: #999; font-size: 12px;">
          If you didn't create an account, please ignore this email.
        </p>
      </div>`, link)
}

func verificationReminderBody(link string) string {
	return fmt.Sprintf(`
      <div style="font-family: Arial, sans-serif; padding: 20px; max-width: 600px; margin: 0 auto;">
        <h1 style="color: #333;">Email Verification Reminder</h1>
        <p style="color: #666; font-size: 16px;">
          You requested to resend the verification email. Click below to verify your account:
        </p>
        <div style="margin: 30px 0;">
          <a href="%[1]s"
             style="background-color: #4CAF50; color: white; padding: 12px 30px;
                    text-decoration: none; border-radius: 5px; display: inline-block;">
            Verify Email
          </a>
        </div>
        <p style="color: #999; font-size: 14px;">
          This link will expire in 24 hours.
        </p>
      </div>`, link)
}

func passwordResetBody(link string) string {
	return fmt.Sprintf(`
      <div style="font-family: Arial, sans-serif; padding: 20px; max-width: 600px; margin: 0 auto;">
        <h1 style="color: #333;">Password Reset Request</h1>
        <p style="color: #666; font-size: 16px;">
          You requested to reset your password. Click the button below to set a new password:
        </p>
        <div style="margin: 30px 0;">
          <a href="%[1]s"
             style="background-color: #2196F3; color: white; padding: 12px 30px;
                    text-decoration: none; border-radius: 5px; display: inline-block;">
            Reset Password
          </a>
        </div>
        <p style="color: #999; font-size: 14px;">
          Or copy this link: <br/>
          <a href="%[1]s">%[1]s</a>
        </p>
        <p style="color: #999; font-size: 14px;">
          This link will expire in 1 hour.
        </p>
        <p style="color: #999; font-size: 12px;">
          If you didn't request this, please ignore this email. Your password will remain unchanged.
        </p>
      </div>`, link)
}

func welcomeBody(name string) string {
	return fmt.Sprintf(`
      <h1>Welcome, %s!</h1>
      <p>Thank you for registering. We're excited to have you on board!</p>
      <p>Get started by exploring our features.</p>`, name)
}
