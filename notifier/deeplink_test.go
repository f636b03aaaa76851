package notifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRupees(t *testing.T) {
	assert.Equal(t, "100.00", Rupees(10000))
	assert.Equal(t, "0.05", Rupees(5))
	assert.Equal(t, "12.34", Rupees(1234))
	assert.Equal(t, "-5.00", Rupees(-500))
	assert.Equal(t, "0.00", Rupees(0))
}

func TestWithdrawalLink(t *testing.T) {
	link := WithdrawalLink("919999999999", "player", "user-1", 10000, 500, 9500, "UPI player@upi")

	assert.Contains(t, link, "https://wa.me/919999999999?text=")
	// The text is query-escaped; spot-check the encoded pieces
	assert.Contains(t, link, "Withdrawal+Request")
	assert.Contains(t, link, "100.00")
	assert.Contains(t, link, "95.00")
	assert.NotContains(t, link, " ")
}

func TestVerificationLink(t *testing.T) {
	link := VerificationLink("919999999999", "player", "user-1", "Gold Premium", 19900, "GOLD")

	assert.Contains(t, link, "https://wa.me/919999999999?text=")
	assert.Contains(t, link, "%2AVERIFICATION+REQUEST%2A")
	assert.Contains(t, link, "user-1")
	assert.Contains(t, link, "Gold+Premium")
	assert.Contains(t, link, "199.00")
	assert.Contains(t, link, "GOLD")
	assert.NotContains(t, link, " ")
}

func TestDepositLink(t *testing.T) {
	link := DepositLink("919999999999", "arena@upi", "user-1")

	assert.Contains(t, link, "https://wa.me/919999999999?text=")
	assert.Contains(t, link, "I+have+sent+money+to+arena%40upi")
	assert.Contains(t, link, "user-1")
	assert.NotContains(t, link, " ")
}
