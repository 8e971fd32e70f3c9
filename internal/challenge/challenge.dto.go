package challenge

type CreateChallengeRequest struct {
	UserID      int    `json:"user_id"`
	Description string `json:"description"`
	Points      int    `json:"points"`
}

type UpdateChallengeRequest struct {
	UserID      int    `json:"user_id"`
	Description string `json:"description"`
	Points      int    `json:"points"`
}
