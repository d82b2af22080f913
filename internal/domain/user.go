package domain

// User is the subset of the identity record the cart needs.
type User struct {
	ID       int    `json:"id" db:"user_id"`
	Username string `json:"username" db:"username"`
	Role     string `json:"role" db:"role"`
}
