package account

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/banking-view/internal/handlers/v1/apierr"
	"github.com/carson-networks/banking-view/internal/logging"
	"github.com/carson-networks/banking-view/internal/service"
)

// CreateAccountInput is the Huma input for creating an account.
type CreateAccountInput struct {
	Body CreateAccountBody
}

// CreateAccountBody is the request body fields for creating an account.
type CreateAccountBody struct {
	AccountType string `json:"accountType" doc:"One of checking, savings, trading, mobile_money"`
	Currency    string `json:"currency,omitempty" doc:"Three letter currency code, defaults to EUR"`
}

// CreateAccountOutput is the response for creating an account.
type CreateAccountOutput struct {
	Status int
	Body   Account
}

// accountCreator is the interface for creating accounts.
type accountCreator interface {
	CreateAccount(ctx context.Context, userID uuid.UUID, accountType service.AccountType, currency string) (*service.Account, error)
}

// CreateAccountHandler handles POST /v1/account.
type CreateAccountHandler struct {
	View accountCreator
}

// NewCreateAccountHandler creates a new CreateAccountHandler.
func NewCreateAccountHandler(v accountCreator) *CreateAccountHandler {
	return &CreateAccountHandler{View: v}
}

// Register registers the create account endpoint with the Huma API.
func (h *CreateAccountHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-account",
		Method:        http.MethodPost,
		Path:          "/v1/account",
		Summary:       "Create an account",
		Description:   "Submits the account creation form. The account starts active with a zero balance and a server-assigned number.",
		Tags:          []string{"Accounts"},
		DefaultStatus: http.StatusCreated,
	}, h.handle)
}

func (h *CreateAccountHandler) handle(ctx context.Context, input *CreateAccountInput) (*CreateAccountOutput, error) {
	logData := logging.GetLogData(ctx)

	userID, err := apierr.UserID(ctx)
	if err != nil {
		return nil, err
	}

	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("createAccountMs")
	}
	created, err := h.View.CreateAccount(ctx, userID, service.AccountType(input.Body.AccountType), input.Body.Currency)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, apierr.FromView("failed to create account", err)
	}

	if logData != nil {
		logData.AddData("accountID", created.ID.String())
	}

	return &CreateAccountOutput{
		Status: http.StatusCreated,
		Body:   fromService(*created),
	}, nil
}
