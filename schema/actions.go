package schema

// GetDefaultActionTable returns the built-in intervention lookup table.
// Every (segment, band) cell of the cross-product has at least one entry;
// configuration may override individual cells but the validated table must
// stay complete.
func GetDefaultActionTable() map[Segment]map[RiskBand][]Action {
	return map[Segment]map[RiskBand][]Action{
		HighValueSegment: {
			CriticalBand: {
				{Name: "VIP outreach call", UnitCost: 50, Effect: 0.70},
				{Name: "Personal discount offer", UnitCost: 35, Effect: 0.55},
			},
			HighBand: {
				{Name: "VIP outreach call", UnitCost: 50, Effect: 0.60},
				{Name: "Priority support upgrade", UnitCost: 25, Effect: 0.45},
			},
			MediumBand: {
				{Name: "Loyalty bonus points", UnitCost: 15, Effect: 0.40},
				{Name: "Early access invite", UnitCost: 10, Effect: 0.30},
			},
			LowBand: {
				{Name: "Quarterly appreciation note", UnitCost: 5, Effect: 0.15},
			},
		},
		MediumValueSegment: {
			CriticalBand: {
				{Name: "Win-back email with offer", UnitCost: 20, Effect: 0.50},
				{Name: "Limited-time bundle", UnitCost: 25, Effect: 0.45},
			},
			HighBand: {
				{Name: "Personalized email campaign", UnitCost: 20, Effect: 0.50},
				{Name: "Free shipping voucher", UnitCost: 12, Effect: 0.35},
			},
			MediumBand: {
				{Name: "Cross-sell recommendation", UnitCost: 10, Effect: 0.30},
			},
			LowBand: {
				{Name: "Newsletter feature", UnitCost: 2, Effect: 0.10},
			},
		},
		NewSegment: {
			CriticalBand: {
				{Name: "Welcome-back promotion", UnitCost: 30, Effect: 0.60},
				{Name: "First-purchase discount", UnitCost: 15, Effect: 0.40},
			},
			HighBand: {
				{Name: "Welcome-back promotion", UnitCost: 30, Effect: 0.55},
			},
			MediumBand: {
				{Name: "Onboarding tips email", UnitCost: 5, Effect: 0.25},
			},
			LowBand: {
				{Name: "Seasonal catalog mailer", UnitCost: 3, Effect: 0.10},
			},
		},
	}
}
