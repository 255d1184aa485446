package account

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/banking-view/internal/handlers/v1/apierr"
	"github.com/carson-networks/banking-view/internal/handlers/v1/transaction"
	"github.com/carson-networks/banking-view/internal/logging"
	"github.com/carson-networks/banking-view/internal/view"
)

// SelectAccountInput is the Huma input for selecting an account.
type SelectAccountInput struct {
	AccountID string `path:"accountID" doc:"Account UUID"`
}

// SelectAccountResponseBody is the response body for selecting an account.
type SelectAccountResponseBody struct {
	SelectedAccountID string                    `json:"selectedAccountID" doc:"The selected account"`
	Transactions      []transaction.Transaction `json:"transactions" doc:"Most recent transactions of the account, newest first"`
}

// SelectAccountOutput is the Huma output for selecting an account.
type SelectAccountOutput struct {
	Body SelectAccountResponseBody
}

// accountSelector is the interface for picking an account.
type accountSelector interface {
	Select(ctx context.Context, userID, accountID uuid.UUID) (view.State, error)
}

// SelectAccountHandler handles POST /v1/accounts/{accountID}/select.
type SelectAccountHandler struct {
	View accountSelector
}

// NewSelectAccountHandler creates a new SelectAccountHandler.
func NewSelectAccountHandler(v accountSelector) *SelectAccountHandler {
	return &SelectAccountHandler{View: v}
}

// Register registers the select account endpoint with the Huma API.
func (h *SelectAccountHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "select-account",
		Method:      http.MethodPost,
		Path:        "/v1/accounts/{accountID}/select",
		Summary:     "Select an account",
		Description: "Selects one of the loaded accounts and returns its most recent transactions.",
		Tags:        []string{"Accounts"},
	}, h.handle)
}

func (h *SelectAccountHandler) handle(ctx context.Context, input *SelectAccountInput) (*SelectAccountOutput, error) {
	logData := logging.GetLogData(ctx)

	userID, err := apierr.UserID(ctx)
	if err != nil {
		return nil, err
	}

	accountID, err := uuid.FromString(input.AccountID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid accountID", err)
	}

	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("selectAccountMs")
	}
	st, err := h.View.Select(ctx, userID, accountID)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, apierr.FromView("failed to select account", err)
	}

	if logData != nil {
		logData.AddData("accountID", accountID.String())
		logData.AddData("transactionCount", len(st.Transactions))
	}

	return &SelectAccountOutput{
		Body: SelectAccountResponseBody{
			SelectedAccountID: accountID.String(),
			Transactions:      transaction.FromState(view.HistoryItems(st), st),
		},
	}, nil
}
