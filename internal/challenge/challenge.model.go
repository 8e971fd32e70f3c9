package challenge

type Challenge struct {
	ChallengeID int    `json:"challenge_id"`
	CreatorID   int    `json:"creator_id"`
	Description string `json:"description"`
	Points      int    `json:"points"`
}
