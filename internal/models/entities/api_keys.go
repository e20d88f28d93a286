package entities

type ApiKey struct {
	ID          string `db:"id"`
	SecretHash  string `db:"secret_hash"`
	Description string `db:"description"`
	Status      bool   `db:"status"`
}
