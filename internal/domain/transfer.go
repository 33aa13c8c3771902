package domain

// CreateTransferParams is the input data for a transfer between two accounts.
type CreateTransferParams struct {
	FromAccountID string `json:"from_account_id"`
	ToAccountID   string `json:"to_account_id"`
	Amount        string `json:"amount"`
}

// TransferResult is the outcome of a successful transfer.
type TransferResult struct {
	FromAccount AccountSnapshot `json:"from_account"`
	ToAccount   AccountSnapshot `json:"to_account"`
	FromEntry   Transaction     `json:"from_entry"`
	ToEntry     Transaction     `json:"to_entry"`
}

// OperationResult is the outcome of a single account deposit or withdrawal.
type OperationResult struct {
	Account     AccountSnapshot `json:"account"`
	Transaction Transaction     `json:"transaction"`
}
