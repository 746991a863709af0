package domain

// TokenTypeBearer is the only token type the backend issues.
const TokenTypeBearer = "bearer"

// Token is the short-lived credential returned by login and registration.
// Only AccessToken is ever persisted.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Credentials is the login/registration request body.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
