package user

type User struct {
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
	Points   int    `json:"points"`
}
