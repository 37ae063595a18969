package repository

import "context"

// TransactionManager defines the interface for managing database transactions.
// Every state-changing operation reads the target record inside Execute with
// a FOR UPDATE lock and validates its transition there, so two concurrent
// calls serialize on the row and cannot both succeed from the same
// precondition state.
type TransactionManager interface {
	// Execute runs a function within a database transaction.
	// If the function returns an error, the transaction is rolled back. Otherwise, it's committed.
	// All repository operations within the function will use the same database transaction.
	Execute(ctx context.Context, fn func(txRepoFactory RepositoryFactory) error) error
}

// RepositoryFactory provides repository instances bound to a specific
// transaction, ensuring all operations within the transaction share one
// database connection.
type RepositoryFactory interface {
	// AccountRepo returns an AccountRepository bound to the current transaction.
	AccountRepo() AccountRepository

	// OrderRepo returns an OrderRepository bound to the current transaction.
	OrderRepo() OrderRepository

	// BillRepo returns a BillRepository bound to the current transaction.
	BillRepo() BillRepository

	// FeedbackRepo returns a FeedbackRepository bound to the current transaction.
	FeedbackRepo() FeedbackRepository
}
