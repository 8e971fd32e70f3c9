package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"wellTrackAPI/internal/user"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already exists")
)

type UserService struct {
	db DB
}

func NewUserService(db DB) *UserService {
	return &UserService{db: db}
}

func (s *UserService) CreateUser(ctx context.Context, username string) (*user.User, error) {
	query := `
	INSERT INTO users (username)
	VALUES ($1)
	RETURNING user_id
	`

	u := &user.User{Username: username, Points: 0}
	err := s.db.QueryRow(ctx, query, username).Scan(&u.UserID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return u, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]*user.User, error) {
	query := `
	SELECT user_id, username, points
	FROM users
	`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []*user.User{}
	for rows.Next() {
		u := &user.User{}
		if err := rows.Scan(&u.UserID, &u.Username, &u.Points); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read users: %w", err)
	}

	return users, nil
}

func (s *UserService) GetUser(ctx context.Context, userID int) (*user.User, error) {
	query := `
	SELECT user_id, username, points
	FROM users
	WHERE user_id = $1
	`

	u := &user.User{}
	err := s.db.QueryRow(ctx, query, userID).Scan(&u.UserID, &u.Username, &u.Points)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return u, nil
}

// UpdateUser replaces username and points together. The existence check
// and the update are two separate round-trips, so a concurrent delete of
// the row between them is not guarded against.
func (s *UserService) UpdateUser(ctx context.Context, userID int, username string, points int) (*user.User, error) {
	var existingID int
	err := s.db.QueryRow(ctx, `SELECT user_id FROM users WHERE user_id = $1`, userID).Scan(&existingID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to check user: %w", err)
	}

	query := `
	UPDATE users
	SET username = $1, points = $2
	WHERE user_id = $3
	`

	if _, err := s.db.Exec(ctx, query, username, points, userID); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return &user.User{UserID: userID, Username: username, Points: points}, nil
}
