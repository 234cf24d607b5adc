package dto

// AuthRequest describes login/password payload. WorkshopName is read on registration only.
type AuthRequest struct {
	Login        string `json:"login"`
	Password     string `json:"password"`
	WorkshopName string `json:"workshopName,omitempty"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Retry bool   `json:"retry,omitempty"`
}

// TokenResponse repeats the session token for clients that do not keep cookies.
type TokenResponse struct {
	Token string `json:"token"`
}
