package models

// VerificationPlan is a purchasable verification package. Prices are in
// paise. Payment is settled manually: the user pays over UPI and sends
// the confirmation to the operator on WhatsApp, who then grants the badge.
type VerificationPlan struct {
	ID       int              `json:"id"`
	Name     string           `json:"name"`
	Price    int64            `json:"price"`
	Tier     VerificationTier `json:"tier"`
	Days     int              `json:"days"`
	Duration string           `json:"duration"`
}

// VerificationPlans returns the fixed plan catalog
func VerificationPlans() []VerificationPlan {
	return []VerificationPlan{
		{ID: 1, Name: "10 Days Trial", Price: 5000, Tier: TierBlue, Days: 10, Duration: "10 Days"},
		{ID: 2, Name: "20 Days Pack", Price: 10000, Tier: TierBlue, Days: 20, Duration: "20 Days"},
		{ID: 3, Name: "Monthly Blue", Price: 9900, Tier: TierBlue, Days: 30, Duration: "1 Month"},
		{ID: 4, Name: "Gold Premium", Price: 19900, Tier: TierGold, Days: 30, Duration: "1 Month"},
	}
}

// VerificationPlanByID looks up a plan; nil when the id is unknown
func VerificationPlanByID(id int) *VerificationPlan {
	for _, plan := range VerificationPlans() {
		if plan.ID == id {
			return &plan
		}
	}
	return nil
}
