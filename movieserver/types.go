package movieserver

// AuthRequest is the JSON body sent to the authentication endpoint.
type AuthRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse is the JSON body returned on successful authentication.
type AuthResponse struct {
	Bearer string `json:"bearer"`
}
