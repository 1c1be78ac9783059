package domain

// User represents a registered user. Admin users are exempt from
// affordability and cooldown gating but go through the same atomic paths.
type User struct {
	ID       string `json:"user_id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
}
