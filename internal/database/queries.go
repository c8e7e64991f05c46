package database

const (
	// User queries
	queryGetUserByID = `
		SELECT id, name, created_at, updated_at
		FROM users
		WHERE id = $1`

	queryLockUser = `
		SELECT id FROM users WHERE id = $1 FOR UPDATE`

	// Account queries
	queryGetAccountByNumber = `
		SELECT id, account_number, user_id, status, balance, registered_at, unregistered_at, created_at, updated_at
		FROM accounts
		WHERE account_number = $1`

	queryGetAccountsByUser = `
		SELECT id, account_number, user_id, status, balance, registered_at, unregistered_at, created_at, updated_at
		FROM accounts
		WHERE user_id = $1
		ORDER BY account_number`

	queryCountAccountsByUser = `
		SELECT COUNT(*) FROM accounts WHERE user_id = $1`

	queryGetLastAccountNumber = `
		SELECT account_number
		FROM accounts
		ORDER BY account_number DESC
		LIMIT 1`

	queryInsertAccount = `
		INSERT INTO accounts (account_number, user_id, status, balance, registered_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		RETURNING id`

	queryUpdateAccount = `
		UPDATE accounts
		SET status = $1, balance = $2, unregistered_at = $3, updated_at = $4
		WHERE id = $5`

	// Transaction queries
	queryGetTransactionByID = `
		SELECT t.id, t.transaction_id, t.account_id, a.account_number, t.transaction_type,
		       t.transaction_result, t.amount, t.balance_snapshot, t.transacted_at,
		       COALESCE(t.original_transaction_id, '')
		FROM transactions t
		JOIN accounts a ON a.id = t.account_id
		WHERE t.transaction_id = $1`

	queryInsertTransaction = `
		INSERT INTO transactions (transaction_id, account_id, transaction_type, transaction_result, amount, balance_snapshot, transacted_at, original_transaction_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''))
		RETURNING id`

	queryIsCancelled = `
		SELECT EXISTS (
			SELECT 1 FROM transactions
			WHERE original_transaction_id = $1
			  AND transaction_type = 'CANCEL'
			  AND transaction_result = 'SUCCESS'
		)`
)
