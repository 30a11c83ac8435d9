package models

// Session identifies a logged-in user. Persisted under the userData key;
// absence or corruption of the stored record means unauthenticated.
type Session struct {
	Email     string `json:"email"`
	Token     string `json:"token,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// Credentials is a login request.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegistrationRequest is the body for POST /auth/register.
type RegistrationRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}
