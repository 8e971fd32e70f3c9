package completion

type CreateCompletionRequest struct {
	UserID  int    `json:"user_id"`
	Details string `json:"details"`
}
