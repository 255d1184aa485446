package sqlconfig

// AccountType is stored as text in user_accounts.account_type.
type AccountType string

const (
	AccountTypeChecking    AccountType = "checking"
	AccountTypeSavings     AccountType = "savings"
	AccountTypeTrading     AccountType = "trading"
	AccountTypeMobileMoney AccountType = "mobile_money"
)
