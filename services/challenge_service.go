package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"wellTrackAPI/internal/challenge"
	"wellTrackAPI/internal/completion"
)

var (
	ErrChallengeNotFound = errors.New("challenge not found")
	ErrNotOwner          = errors.New("not the owner")
	ErrNoAttempts        = errors.New("no attempts found")
)

type ChallengeService struct {
	db DB
}

func NewChallengeService(db DB) *ChallengeService {
	return &ChallengeService{db: db}
}

// CreateChallenge records a new challenge. The creator id is taken as
// supplied and is not checked against the users table.
func (s *ChallengeService) CreateChallenge(ctx context.Context, req *challenge.CreateChallengeRequest) (*challenge.Challenge, error) {
	query := `
	INSERT INTO wellness_challenges (creator_id, description, points)
	VALUES ($1, $2, $3)
	RETURNING challenge_id
	`

	c := &challenge.Challenge{
		CreatorID:   req.UserID,
		Description: req.Description,
		Points:      req.Points,
	}
	err := s.db.QueryRow(ctx, query, req.UserID, req.Description, req.Points).Scan(&c.ChallengeID)
	if err != nil {
		return nil, fmt.Errorf("failed to create challenge: %w", err)
	}

	return c, nil
}

func (s *ChallengeService) ListChallenges(ctx context.Context) ([]*challenge.Challenge, error) {
	query := `
	SELECT challenge_id, creator_id, description, points
	FROM wellness_challenges
	`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list challenges: %w", err)
	}
	defer rows.Close()

	challenges := []*challenge.Challenge{}
	for rows.Next() {
		c := &challenge.Challenge{}
		if err := rows.Scan(&c.ChallengeID, &c.CreatorID, &c.Description, &c.Points); err != nil {
			return nil, fmt.Errorf("failed to scan challenge: %w", err)
		}
		challenges = append(challenges, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read challenges: %w", err)
	}

	return challenges, nil
}

// UpdateChallenge lets only the recorded creator change description and
// points. Sequence: fetch creator_id, compare against the caller, update.
func (s *ChallengeService) UpdateChallenge(ctx context.Context, challengeID int, req *challenge.UpdateChallengeRequest) (*challenge.Challenge, error) {
	var creatorID int
	err := s.db.QueryRow(ctx, `SELECT creator_id FROM wellness_challenges WHERE challenge_id = $1`, challengeID).Scan(&creatorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrChallengeNotFound
		}
		return nil, fmt.Errorf("failed to check challenge: %w", err)
	}

	if creatorID != req.UserID {
		return nil, ErrNotOwner
	}

	query := `
	UPDATE wellness_challenges
	SET description = $1, points = $2
	WHERE challenge_id = $3
	`

	if _, err := s.db.Exec(ctx, query, req.Description, req.Points, challengeID); err != nil {
		return nil, fmt.Errorf("failed to update challenge: %w", err)
	}

	return &challenge.Challenge{
		ChallengeID: challengeID,
		CreatorID:   req.UserID,
		Description: req.Description,
		Points:      req.Points,
	}, nil
}

// DeleteChallenge removes a challenge and everything recorded against it.
// Completions go first: there are no foreign keys on user_completions, so
// deleting the challenge first would orphan them.
func (s *ChallengeService) DeleteChallenge(ctx context.Context, challengeID int) error {
	var existingID int
	err := s.db.QueryRow(ctx, `SELECT challenge_id FROM wellness_challenges WHERE challenge_id = $1`, challengeID).Scan(&existingID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrChallengeNotFound
		}
		return fmt.Errorf("failed to check challenge: %w", err)
	}

	if _, err := s.db.Exec(ctx, `DELETE FROM user_completions WHERE challenge_id = $1`, challengeID); err != nil {
		return fmt.Errorf("failed to delete completions: %w", err)
	}

	if _, err := s.db.Exec(ctx, `DELETE FROM wellness_challenges WHERE challenge_id = $1`, challengeID); err != nil {
		return fmt.Errorf("failed to delete challenge: %w", err)
	}

	return nil
}

// CompleteChallenge records an attempt and awards the challenge's points
// to the user. Four sequential steps, each gated on the previous: fetch
// the challenge's points, confirm the user exists, insert the completion,
// add the award to the user's balance. The steps are not wrapped in a
// transaction; if the award fails the completion is not undone.
func (s *ChallengeService) CompleteChallenge(ctx context.Context, challengeID int, req *completion.CreateCompletionRequest) (*completion.Completion, error) {
	var award int
	err := s.db.QueryRow(ctx, `SELECT points FROM wellness_challenges WHERE challenge_id = $1`, challengeID).Scan(&award)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrChallengeNotFound
		}
		return nil, fmt.Errorf("failed to check challenge: %w", err)
	}

	var userPoints int
	err = s.db.QueryRow(ctx, `SELECT points FROM users WHERE user_id = $1`, req.UserID).Scan(&userPoints)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to check user: %w", err)
	}

	insertQuery := `
	INSERT INTO user_completions (challenge_id, user_id, details)
	VALUES ($1, $2, $3)
	RETURNING completion_id
	`

	c := &completion.Completion{
		ChallengeID: challengeID,
		UserID:      req.UserID,
		Details:     req.Details,
	}
	if err := s.db.QueryRow(ctx, insertQuery, challengeID, req.UserID, req.Details).Scan(&c.CompletionID); err != nil {
		return nil, fmt.Errorf("failed to create completion: %w", err)
	}

	// Additive update, not an overwrite.
	if _, err := s.db.Exec(ctx, `UPDATE users SET points = points + $1 WHERE user_id = $2`, award, req.UserID); err != nil {
		return nil, fmt.Errorf("failed to award points: %w", err)
	}

	return c, nil
}

// ListCompletions returns the attempts recorded for a challenge. An empty
// list reports ErrNoAttempts, so a challenge with no attempts yet is
// indistinguishable from one that does not exist.
func (s *ChallengeService) ListCompletions(ctx context.Context, challengeID int) ([]*completion.Attempt, error) {
	query := `
	SELECT user_id, details
	FROM user_completions
	WHERE challenge_id = $1
	`

	rows, err := s.db.Query(ctx, query, challengeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list completions: %w", err)
	}
	defer rows.Close()

	attempts := []*completion.Attempt{}
	for rows.Next() {
		a := &completion.Attempt{}
		if err := rows.Scan(&a.UserID, &a.Details); err != nil {
			return nil, fmt.Errorf("failed to scan completion: %w", err)
		}
		attempts = append(attempts, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read completions: %w", err)
	}

	if len(attempts) == 0 {
		return nil, ErrNoAttempts
	}

	return attempts, nil
}
