package notifier

import (
	"fmt"
	"net/url"
)

// Rupees formats a paise amount as a rupee string
func Rupees(paise int64) string {
	sign := ""
	if paise < 0 {
		sign = "-"
		paise = -paise
	}
	return fmt.Sprintf("%s%d.%02d", sign, paise/100, paise%100)
}

// WithdrawalLink builds the wa.me deep link a user opens to finish a
// withdrawal over WhatsApp. Payouts are settled manually by the operator,
// so the link carries everything they need to pay.
func WithdrawalLink(operatorNumber, username, uid string, gross, fee, net int64, paymentDetails string) string {
	text := fmt.Sprintf(
		"Withdrawal Request\nUser: %s (%s)\nAmount: ₹%s\nFee (5%%): ₹%s\nPayable: ₹%s\nPay to: %s",
		username, uid, Rupees(gross), Rupees(fee), Rupees(net), paymentDetails,
	)
	return fmt.Sprintf("https://wa.me/%s?text=%s", operatorNumber, url.QueryEscape(text))
}

// VerificationLink builds the wa.me deep link a user opens after paying
// for a verification plan. The operator matches the payment and grants
// the badge manually.
func VerificationLink(operatorNumber, username, uid, planName string, price int64, tier string) string {
	text := fmt.Sprintf(
		"*VERIFICATION REQUEST*\n\nUser: %s\nUID: %s\nPlan: %s (₹%s)\nTier: %s\n\nI have made the payment. Please verify my account.",
		username, uid, planName, Rupees(price), tier,
	)
	return fmt.Sprintf("https://wa.me/%s?text=%s", operatorNumber, url.QueryEscape(text))
}

// DepositLink builds the wa.me deep link a user opens after sending money
// to the platform UPI, so the operator can match the transfer to their
// account and credit it.
func DepositLink(operatorNumber, adminUPI, uid string) string {
	text := fmt.Sprintf("I have sent money to %s. My UID: %s", adminUPI, uid)
	return fmt.Sprintf("https://wa.me/%s?text=%s", operatorNumber, url.QueryEscape(text))
}
