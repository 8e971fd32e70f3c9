package user

type CreateUserRequest struct {
	Username string `json:"username"`
}

// UpdateUserRequest uses pointers so the handler can tell an absent
// field apart from a zero value.
type UpdateUserRequest struct {
	Username *string `json:"username"`
	Points   *int    `json:"points"`
}
