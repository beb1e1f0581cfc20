package domain

// FinancialSummary holds the backend-computed aggregates over paid work.
// PlatformProfit is reported by the backend and is not re-derived.
type FinancialSummary struct {
	TotalClientPayments float64 `json:"totalClientPayments"`
	TotalHelperPayouts  float64 `json:"totalHelperPayouts"`
	PlatformProfit      float64 `json:"platformProfit"`
}

// RegistrationStatus is the open/closed state of helper self-registration.
type RegistrationStatus struct {
	IsOpen  bool   `json:"isOpen"`
	Message string `json:"message,omitempty"`
}
