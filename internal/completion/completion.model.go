package completion

type Completion struct {
	CompletionID int    `json:"completion_id"`
	ChallengeID  int    `json:"challenge_id"`
	UserID       int    `json:"user_id"`
	Details      string `json:"details"`
}

// Attempt is the trimmed row returned when listing a challenge's completions.
type Attempt struct {
	UserID  int    `json:"user_id"`
	Details string `json:"details"`
}
