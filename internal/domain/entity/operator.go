package entity

// Operator is the single person allowed to use the application.
// Credentials come from configuration; there is no users table.
type Operator struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string // bcrypt
}
