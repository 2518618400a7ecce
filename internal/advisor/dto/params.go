package dto

// GetAccountsParam filters the account listing.
type GetAccountsParam struct {
	AccountID *uint
	IsActive  *bool
}

// ListAlertsParam filters the alert listing.
type ListAlertsParam struct {
	IncludeAcknowledged bool
	Symbol              string
}
