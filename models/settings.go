package models

// Settings is the single platform configuration record. MinWithdraw is in
// paise. ReferralTarget is the number of valid referrals that earns the
// premium badge.
type Settings struct {
	MaintenanceMode     bool   `db:"maintenance_mode" json:"maintenance_mode"`
	AdminUPI            string `db:"admin_upi" json:"admin_upi"`
	AdminWhatsapp       string `db:"admin_whatsapp" json:"admin_whatsapp"`
	DepositInstruction  string `db:"deposit_instruction" json:"deposit_instruction"`
	WithdrawInstruction string `db:"withdraw_instruction" json:"withdraw_instruction"`
	MinWithdraw         int64  `db:"min_withdraw" json:"min_withdraw"`
	ReferralTarget      int    `db:"referral_target" json:"referral_target"`
	QRCodeURL           string `db:"qr_code_url" json:"qr_code_url"`
}

// DefaultSettings are applied when the settings row has never been saved
func DefaultSettings() *Settings {
	return &Settings{
		MinWithdraw:    5000, // ₹50
		ReferralTarget: 10,
	}
}
