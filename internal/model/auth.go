package model

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token       string `json:"token"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Role        Role   `json:"role"`
}

// Identity is the authenticated principal bound to a request by the auth
// middleware. It is request-local and never shared across requests.
type Identity struct {
	Username string
	Role     Role
}
