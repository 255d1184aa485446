package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/banking-view/internal/storage"
	"github.com/carson-networks/banking-view/internal/storage/sqlconfig"
)

// AccountService handles account business logic.
type AccountService struct {
	storage *storage.Storage
}

// NewAccountService creates a new AccountService.
func NewAccountService(store *storage.Storage) *AccountService {
	return &AccountService{storage: store}
}

// ListAccounts returns the user's accounts, newest first. A user without
// accounts gets a nil slice and no error.
func (s *AccountService) ListAccounts(ctx context.Context, userID uuid.UUID) ([]Account, error) {
	rows, err := s.storage.Accounts.List(ctx, &sqlconfig.AccountFilter{UserID: userID})
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w: %w", ErrStoreUnavailable, err)
	}

	if len(rows) == 0 {
		return nil, nil
	}

	accounts := make([]Account, len(rows))
	for i, row := range rows {
		accounts[i] = accountFromStorage(row)
	}
	return accounts, nil
}

// CreateAccount validates the form values and inserts an active account with
// a zero balance. Invalid input never reaches the store.
func (s *AccountService) CreateAccount(ctx context.Context, userID uuid.UUID, accountType AccountType, currency string) (*Account, error) {
	accountType, currency, err := ValidateCreateAccount(accountType, currency)
	if err != nil {
		return nil, err
	}

	row, err := s.storage.Accounts.Insert(ctx, &sqlconfig.AccountCreate{
		UserID:   userID,
		Type:     sqlconfig.AccountType(accountType),
		Balance:  decimal.Zero,
		Currency: currency,
		IsActive: true,
	})
	if err != nil {
		if sqlconfig.IsConstraintViolation(err) {
			return nil, fmt.Errorf("create account: %w: %w", ErrConstraintViolation, err)
		}
		return nil, fmt.Errorf("create account: %w: %w", ErrStoreUnavailable, err)
	}

	account := accountFromStorage(row)
	return &account, nil
}

// ValidateCreateAccount checks the creation form and returns the normalized
// values: a known account type and an upper-case three letter currency,
// EUR when none was entered.
func ValidateCreateAccount(accountType AccountType, currency string) (AccountType, string, error) {
	accountType = AccountType(strings.TrimSpace(string(accountType)))
	if accountType == "" {
		return "", "", &ValidationError{Field: "accountType", Reason: "is required"}
	}
	if !accountType.Valid() {
		return "", "", &ValidationError{Field: "accountType", Reason: fmt.Sprintf("unknown account type %q", accountType)}
	}

	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = defaultCurrency
	}
	if !isCurrencyCode(currency) {
		return "", "", &ValidationError{Field: "currency", Reason: "must be a three letter code"}
	}

	return accountType, currency, nil
}

func isCurrencyCode(s string) bool {
	if len(s) != 3 {
		return false
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
