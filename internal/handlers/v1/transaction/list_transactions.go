package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/banking-view/internal/handlers/v1/apierr"
	"github.com/carson-networks/banking-view/internal/logging"
	"github.com/carson-networks/banking-view/internal/view"
)

// ListTransactionsInput is the Huma input for the transaction history.
type ListTransactionsInput struct {
	Search  string `query:"search" doc:"Case-insensitive match on description or reference"`
	Account string `query:"account" default:"all" doc:"Owning account display name, or 'all'"`
	Type    string `query:"type" default:"all" doc:"deposit, withdrawal, transfer (credit and debit accepted), or 'all'"`
}

// ListTransactionsResponseBody is the response body for the transaction history.
type ListTransactionsResponseBody struct {
	SelectedAccountID string        `json:"selectedAccountID,omitempty" doc:"Account the loaded transactions belong to"`
	Transactions      []Transaction `json:"transactions" doc:"Matching transactions, newest first"`
}

// ListTransactionsOutput is the Huma output for the transaction history.
type ListTransactionsOutput struct {
	Body ListTransactionsResponseBody
}

// historyViewer is the interface for filtering the loaded history.
type historyViewer interface {
	History(ctx context.Context, userID uuid.UUID, criteria view.Criteria) ([]view.HistoryItem, view.State, error)
}

// ListTransactionsHandler handles GET /v1/transactions.
type ListTransactionsHandler struct {
	View historyViewer
}

// NewListTransactionsHandler creates a new ListTransactionsHandler.
func NewListTransactionsHandler(v historyViewer) *ListTransactionsHandler {
	return &ListTransactionsHandler{View: v}
}

// Register registers the transaction history endpoint with the Huma API.
func (h *ListTransactionsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-transactions",
		Method:      http.MethodGet,
		Path:        "/v1/transactions",
		Summary:     "Transaction history",
		Description: "Filters the transactions loaded for the selected account. No store query is made beyond waiting for the view to settle.",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

func (h *ListTransactionsHandler) handle(ctx context.Context, input *ListTransactionsInput) (*ListTransactionsOutput, error) {
	logData := logging.GetLogData(ctx)

	userID, err := apierr.UserID(ctx)
	if err != nil {
		return nil, err
	}

	criteria := view.Criteria{
		Search:  input.Search,
		Account: input.Account,
		Type:    input.Type,
	}

	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("historyMs")
	}
	items, st, err := h.View.History(ctx, userID, criteria)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, apierr.FromView("failed to load transaction history", err)
	}

	if logData != nil {
		logData.AddData("transactionCount", len(items))
	}

	resp := ListTransactionsResponseBody{
		Transactions: FromState(items, st),
	}
	if id, ok := st.Selection.AccountID(); ok {
		resp.SelectedAccountID = id.String()
	}

	return &ListTransactionsOutput{Body: resp}, nil
}
