package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wellTrackAPI/middleware"
	"wellTrackAPI/services"
)

// newTestRouter wires the API routes the same way main.go does, backed by
// a pgxmock pool instead of a live database.
func newTestRouter(t *testing.T) (*mux.Router, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	userHandler := NewUserHandler(services.NewUserService(mock))
	challengeHandler := NewChallengeHandler(services.NewChallengeService(mock))

	r := mux.NewRouter()
	routeNotFound := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"message": "Route not found"})
	})
	r.NotFoundHandler = routeNotFound
	r.MethodNotAllowedHandler = routeNotFound

	r.Handle("/users",
		middleware.RequireFields("username")(http.HandlerFunc(userHandler.CreateUser))).Methods("POST")
	r.HandleFunc("/users", userHandler.GetUsers).Methods("GET")
	r.HandleFunc("/users/{user_id:[0-9]+}", userHandler.GetUser).Methods("GET")
	r.HandleFunc("/users/{user_id:[0-9]+}", userHandler.UpdateUser).Methods("PUT")

	r.Handle("/challenges",
		middleware.RequireFields("user_id", "description", "points")(http.HandlerFunc(challengeHandler.CreateChallenge))).Methods("POST")
	r.HandleFunc("/challenges", challengeHandler.GetChallenges).Methods("GET")
	r.Handle("/challenges/{challenge_id:[0-9]+}",
		middleware.RequireFields("user_id", "description", "points")(http.HandlerFunc(challengeHandler.UpdateChallenge))).Methods("PUT")
	r.HandleFunc("/challenges/{challenge_id:[0-9]+}", challengeHandler.DeleteChallenge).Methods("DELETE")
	r.Handle("/challenges/{challenge_id:[0-9]+}",
		middleware.RequireFields("user_id", "details")(http.HandlerFunc(challengeHandler.CompleteChallenge))).Methods("POST")
	r.HandleFunc("/challenges/{challenge_id:[0-9]+}", challengeHandler.GetChallengeCompletions).Methods("GET")

	return r, mock
}

func doRequest(r *mux.Router, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestCreateUserEndpoint(t *testing.T) {
	r, mock := newTestRouter(t)

	mock.ExpectQuery("INSERT INTO users").
		WithArgs("alice").
		WillReturnRows(pgxmock.NewRows([]string{"user_id"}).AddRow(1))

	rec := doRequest(r, "POST", "/users", `{"username": "alice"}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"user_id": 1, "username": "alice", "points": 0}`, rec.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUserMissingUsername(t *testing.T) {
	r, mock := newTestRouter(t)

	rec := doRequest(r, "POST", "/users", `{"points": 5}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message": "Missing field: username"}`, rec.Body.String())
	// No expectations were set: the request must never reach the store.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUserEmptyUsername(t *testing.T) {
	r, mock := newTestRouter(t)

	rec := doRequest(r, "POST", "/users", `{"username": ""}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUserConflict(t *testing.T) {
	r, mock := newTestRouter(t)

	mock.ExpectQuery("INSERT INTO users").
		WithArgs("alice").
		WillReturnRows(pgxmock.NewRows([]string{"user_id"}).AddRow(1))
	mock.ExpectQuery("INSERT INTO users").
		WithArgs("alice").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	first := doRequest(r, "POST", "/users", `{"username": "alice"}`)
	second := doRequest(r, "POST", "/users", `{"username": "alice"}`)

	assert.Equal(t, http.StatusCreated, first.Code)
	assert.Equal(t, http.StatusConflict, second.Code)
	assert.JSONEq(t, `{"message": "Username already exists"}`, second.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUsersEndpoint(t *testing.T) {
	r, mock := newTestRouter(t)

	mock.ExpectQuery("SELECT user_id, username, points").
		WillReturnRows(pgxmock.NewRows([]string{"user_id", "username", "points"}).
			AddRow(1, "alice", 10).
			AddRow(2, "bob", 0))

	rec := doRequest(r, "GET", "/users", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[
		{"user_id": 1, "username": "alice", "points": 10},
		{"user_id": 2, "username": "bob", "points": 0}
	]`, rec.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserEndpointNotFound(t *testing.T) {
	r, mock := newTestRouter(t)

	mock.ExpectQuery("SELECT user_id, username, points").
		WithArgs(42).
		WillReturnError(pgx.ErrNoRows)

	rec := doRequest(r, "GET", "/users/42", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message": "User not found"}`, rec.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateUserEndpoint(t *testing.T) {
	r, mock := newTestRouter(t)

	mock.ExpectQuery("SELECT user_id FROM users").
		WithArgs(1).
		WillReturnRows(pgxmock.NewRows([]string{"user_id"}).AddRow(1))
	mock.ExpectExec("UPDATE users").
		WithArgs("alice2", 25, 1).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	rec := doRequest(r, "PUT", "/users/1", `{"username": "alice2", "points": 25}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user_id": 1, "username": "alice2", "points": 25}`, rec.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateUserEndpointMissingFields(t *testing.T) {
	r, mock := newTestRouter(t)

	rec := doRequest(r, "PUT", "/users/1", `{"username": "alice2"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message": "Missing username or points"}`, rec.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateUserEndpointNullFields(t *testing.T) {
	r, mock := newTestRouter(t)

	// An explicit null is treated like an absent field and rejected
	// before any store access.
	rec := doRequest(r, "PUT", "/users/1", `{"username": null, "points": null}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message": "Missing username or points"}`, rec.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateUserEndpointNotFound(t *testing.T) {
	r, mock := newTestRouter(t)

	mock.ExpectQuery("SELECT user_id FROM users").
		WithArgs(42).
		WillReturnError(pgx.ErrNoRows)

	rec := doRequest(r, "PUT", "/users/42", `{"username": "ghost", "points": 0}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRouteNotFound(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := doRequest(r, "GET", "/nope", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message": "Route not found"}`, rec.Body.String())
}

func TestRouteNotFoundOnMethodMismatch(t *testing.T) {
	r, _ := newTestRouter(t)

	// A known path with an unmapped verb gets the same 404 as an unknown
	// path, not a 405.
	rec := doRequest(r, "DELETE", "/users/1", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message": "Route not found"}`, rec.Body.String())
}
