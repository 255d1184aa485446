package account

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/banking-view/internal/handlers/v1/apierr"
	"github.com/carson-networks/banking-view/internal/logging"
	"github.com/carson-networks/banking-view/internal/service"
	"github.com/carson-networks/banking-view/internal/view"
)

// ListAccountsResponseBody is the response body for listing accounts.
type ListAccountsResponseBody struct {
	Accounts          []Account `json:"accounts" doc:"Accounts of the caller, newest first"`
	SelectedAccountID string    `json:"selectedAccountID,omitempty" doc:"Account whose transactions are loaded"`
	Summary           Summary   `json:"summary" doc:"Dashboard summary"`
	AccountTypes      []string  `json:"accountTypes" doc:"Account types offered by the creation form"`
}

// ListAccountsOutput is the Huma output for listing accounts.
type ListAccountsOutput struct {
	Body ListAccountsResponseBody
}

// accountsViewer is the interface for reading the account list.
type accountsViewer interface {
	Accounts(ctx context.Context, userID uuid.UUID) (view.State, error)
}

// ListAccountsHandler handles GET /v1/accounts.
type ListAccountsHandler struct {
	View accountsViewer
}

// NewListAccountsHandler creates a new ListAccountsHandler.
func NewListAccountsHandler(v accountsViewer) *ListAccountsHandler {
	return &ListAccountsHandler{View: v}
}

// Register registers the list accounts endpoint with the Huma API.
func (h *ListAccountsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-accounts",
		Method:      http.MethodGet,
		Path:        "/v1/accounts",
		Summary:     "List accounts",
		Description: "Opens the caller's view if needed and returns the account list, the current selection and the dashboard summary.",
		Tags:        []string{"Accounts"},
	}, h.handle)
}

func (h *ListAccountsHandler) handle(ctx context.Context, _ *struct{}) (*ListAccountsOutput, error) {
	logData := logging.GetLogData(ctx)

	userID, err := apierr.UserID(ctx)
	if err != nil {
		return nil, err
	}

	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("listAccountsMs")
	}
	st, err := h.View.Accounts(ctx, userID)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, apierr.FromView("failed to list accounts", err)
	}

	if logData != nil {
		logData.AddData("accountCount", len(st.Accounts))
	}

	resp := ListAccountsResponseBody{
		Accounts:     make([]Account, len(st.Accounts)),
		Summary:      fromSummary(view.Summarize(st.Accounts)),
		AccountTypes: make([]string, len(service.AccountTypes)),
	}
	for i, acc := range st.Accounts {
		resp.Accounts[i] = fromService(acc)
	}
	for i, t := range service.AccountTypes {
		resp.AccountTypes[i] = string(t)
	}
	if id, ok := st.Selection.AccountID(); ok {
		resp.SelectedAccountID = id.String()
	}

	return &ListAccountsOutput{Body: resp}, nil
}
