package dto

// LoginRequest body for POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// OperatorResponse the signed-in operator (never includes the password hash).
type OperatorResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// LoginResponse bearer token plus operator.
type LoginResponse struct {
	Token string           `json:"token"`
	User  OperatorResponse `json:"user"`
}

// SessionResponse body of GET /api/auth/session.
type SessionResponse struct {
	Authenticated bool              `json:"authenticated"`
	User          *OperatorResponse `json:"user,omitempty"`
}
