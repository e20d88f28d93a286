package constants

// Raw queries executed through sqlx. Written with '?' placeholders and
// passed through sqlx.Rebind so they run on both postgres and sqlite.
const (
	PolicyCompletionReport = `
	SELECT u.id AS user_id,
	       u.first_name,
	       u.last_name,
	       u.email,
	       pc.completed_at
	  FROM users u
	  LEFT JOIN policy_completions pc
	    ON pc.user_id = u.id AND pc.policy_id = ?
	 WHERE u.status = 'active'
	   AND u.role IN ('admin', 'member')
	 ORDER BY u.last_name ASC, u.first_name ASC
	`

	GetAPIKeyByID = `
	SELECT id, secret_hash, description, status FROM api_keys WHERE id = ?
	`

	InsertAPIKey = `
	INSERT INTO api_keys (id, secret_hash, description, status, created_at) VALUES (?, ?, ?, ?, ?)
	`
)
