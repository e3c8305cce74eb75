package models

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Admin is the identity carried by sessions and tokens.
type Admin struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}
