// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Spendlog Contributors

package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/spendlog/spendlog/internal/api"
	"github.com/spendlog/spendlog/internal/auth"
	"github.com/spendlog/spendlog/internal/domain"
	"github.com/spendlog/spendlog/internal/expense"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// memUserRepo is an in-memory auth.UserRepository.
type memUserRepo struct {
	users  map[string]*domain.User
	nextID int64
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*domain.User{}, nextID: 1}
}

func (r *memUserRepo) Create(_ context.Context, user *domain.NewUser) (*domain.User, error) {
	key := user.Username.String()
	if _, exists := r.users[key]; exists {
		return nil, auth.ErrUsernameTaken
	}
	created := &domain.User{
		ID:           r.nextID,
		Username:     user.Username,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		CreatedAt:    time.Now(),
	}
	r.nextID++
	r.users[key] = created
	return created, nil
}

func (r *memUserRepo) GetByUsername(_ context.Context, username domain.Username) (*domain.User, error) {
	user, ok := r.users[username.String()]
	if !ok {
		return nil, auth.ErrNotFound
	}
	return user, nil
}

// memExpenseRepo is an in-memory expense.Repository scoped by user id.
type memExpenseRepo struct {
	byUser map[int64][]domain.Expense
	nextID int64
}

func newMemExpenseRepo() *memExpenseRepo {
	return &memExpenseRepo{byUser: map[int64][]domain.Expense{}, nextID: 1}
}

func (r *memExpenseRepo) Create(_ context.Context, userID int64, exp *domain.NewExpense) (*domain.Expense, error) {
	created := domain.Expense{
		ID:          r.nextID,
		Description: exp.Description,
		Amount:      exp.Amount,
		Category:    exp.Category,
		CreatedAt:   time.Now(),
	}
	r.nextID++
	r.byUser[userID] = append(r.byUser[userID], created)
	return &created, nil
}

func (r *memExpenseRepo) List(_ context.Context, userID int64, search string, limit int) ([]domain.Expense, error) {
	matches := func(exp domain.Expense) bool {
		if search == "" {
			return true
		}
		needle := strings.ToLower(search)
		return strings.Contains(strings.ToLower(exp.Description.String()), needle) ||
			strings.Contains(strings.ToLower(exp.Category.String()), needle) ||
			strings.Contains(strconv.FormatInt(exp.Amount.Int64(), 10), needle)
	}

	var out []domain.Expense
	stored := r.byUser[userID]
	// Newest first.
	for i := len(stored) - 1; i >= 0 && len(out) < limit; i-- {
		if matches(stored[i]) {
			out = append(out, stored[i])
		}
	}
	return out, nil
}

func (r *memExpenseRepo) Update(_ context.Context, userID, expenseID int64, description *domain.Description, amount *domain.Amount) (*domain.Expense, error) {
	stored := r.byUser[userID]
	for i := range stored {
		if stored[i].ID != expenseID {
			continue
		}
		if description != nil {
			stored[i].Description = *description
		}
		if amount != nil {
			stored[i].Amount = *amount
		}
		return &stored[i], nil
	}
	return nil, expense.ErrNotFound
}

func (r *memExpenseRepo) Delete(_ context.Context, userID, expenseID int64) error {
	stored := r.byUser[userID]
	for i := range stored {
		if stored[i].ID == expenseID {
			r.byUser[userID] = slices.Delete(stored, i, i+1)
			return nil
		}
	}
	return expense.ErrNotFound
}

// testServer wires real services over in-memory repositories.
type testServer struct {
	router http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	tokens, err := auth.NewTokenService("test-secret")
	require.NoError(t, err)

	authSvc := auth.NewService(newMemUserRepo(), auth.NewArgon2idHasher(), tokens)
	expenseSvc := expense.NewService(newMemExpenseRepo())

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := api.NewHandler(authSvc, expenseSvc, logger)

	return &testServer{router: api.NewRouter(handler, tokens, logger, nil)}
}

// do performs a request against the router and decodes the JSON body, if
// any, into a generic map.
func (s *testServer) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = strings.NewReader(b)
		default:
			encoded, err := json.Marshal(body)
			require.NoError(t, err)
			reader = bytes.NewReader(encoded)
		}
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var decoded map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec, decoded
}

func (s *testServer) register(t *testing.T, username, email, password string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	return s.do(t, http.MethodPost, "/users", "", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})
}

func (s *testServer) login(t *testing.T, username, password string) string {
	t.Helper()
	rec, body := s.do(t, http.MethodPost, "/login", "", map[string]string{
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	token, ok := body["token"].(string)
	require.True(t, ok, "login response missing token")
	return token
}

func TestRegisterEndpoint(t *testing.T) {
	t.Run("creates account", func(t *testing.T) {
		srv := newTestServer(t)

		rec, body := srv.register(t, "alice", "alice@example.com", "hunter22")

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "account created successfully", body["msg"])

		user, ok := body["user"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "alice", user["username"])
		assert.Equal(t, "alice@example.com", user["email"])
		assert.NotContains(t, user, "password")
		assert.NotContains(t, user, "password_hash")
	})

	t.Run("duplicate username conflicts", func(t *testing.T) {
		srv := newTestServer(t)

		rec, _ := srv.register(t, "alice", "alice@example.com", "hunter22")
		require.Equal(t, http.StatusCreated, rec.Code)

		rec, body := srv.register(t, "alice", "other@example.com", "hunter22")
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "username already exists", body["error"])
	})

	t.Run("validation failures", func(t *testing.T) {
		tests := []struct {
			name     string
			username string
			email    string
			password string
			wantMsg  string
		}{
			{name: "short username", username: "ab", email: "a@b.co", password: "hunter22", wantMsg: "invalid length"},
			{name: "empty username", username: "  ", email: "a@b.co", password: "hunter22", wantMsg: "field must not be empty"},
			{name: "bad email", username: "alice", email: "nope", password: "hunter22", wantMsg: "invalid format"},
			{name: "short password", username: "alice", email: "a@b.co", password: "pw", wantMsg: "invalid length"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				srv := newTestServer(t)
				rec, body := srv.register(t, tt.username, tt.email, tt.password)
				assert.Equal(t, http.StatusBadRequest, rec.Code)
				assert.Equal(t, tt.wantMsg, body["error"])
			})
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		srv := newTestServer(t)
		rec, body := srv.do(t, http.MethodPost, "/users", "", "{not json")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "invalid request body", body["error"])
	})
}

func TestLoginEndpoint(t *testing.T) {
	srv := newTestServer(t)
	rec, _ := srv.register(t, "alice", "alice@example.com", "hunter22")
	require.Equal(t, http.StatusCreated, rec.Code)

	t.Run("valid credentials", func(t *testing.T) {
		rec, body := srv.do(t, http.MethodPost, "/login", "", map[string]string{
			"username": "alice",
			"password": "hunter22",
		})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "login successful", body["msg"])
		assert.Equal(t, "Bearer", body["type"])
		assert.NotEmpty(t, body["token"])
	})

	t.Run("wrong password", func(t *testing.T) {
		rec, body := srv.do(t, http.MethodPost, "/login", "", map[string]string{
			"username": "alice",
			"password": "wrongpass",
		})

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "invalid credentials", body["error"])
	})

	t.Run("unknown username and wrong password are indistinguishable", func(t *testing.T) {
		recUnknown, bodyUnknown := srv.do(t, http.MethodPost, "/login", "", map[string]string{
			"username": "mallory",
			"password": "hunter22",
		})
		recWrong, bodyWrong := srv.do(t, http.MethodPost, "/login", "", map[string]string{
			"username": "alice",
			"password": "wrongpass",
		})

		assert.Equal(t, recWrong.Code, recUnknown.Code)
		assert.Equal(t, bodyWrong["error"], bodyUnknown["error"])
	})
}

func TestAuthGate(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name  string
		token string
	}{
		{name: "no token", token: ""},
		{name: "garbage token", token: "junk"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := srv.do(t, http.MethodGet, "/expenses/", tt.token, nil)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "invalid credentials", body["error"])
		})
	}

	t.Run("token signed with a different secret", func(t *testing.T) {
		other, err := auth.NewTokenService("other-secret")
		require.NoError(t, err)
		wrongKey, err := other.Issue(1)
		require.NoError(t, err)

		rec, body := srv.do(t, http.MethodGet, "/expenses/", wrongKey, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "invalid credentials", body["error"])
	})
}

func TestExpenseEndpoints(t *testing.T) {
	srv := newTestServer(t)
	rec, _ := srv.register(t, "alice", "alice@example.com", "hunter22")
	require.Equal(t, http.StatusCreated, rec.Code)
	token := srv.login(t, "alice", "hunter22")

	createExpense := func(t *testing.T, description string, amount int64, category string) map[string]any {
		t.Helper()
		rec, body := srv.do(t, http.MethodPost, "/expenses/", token, map[string]any{
			"description": description,
			"amount":      amount,
			"category":    category,
		})
		require.Equal(t, http.StatusCreated, rec.Code)
		return body
	}

	t.Run("create", func(t *testing.T) {
		body := createExpense(t, "coffee_beans", 1250, "groceries")

		assert.Equal(t, "expense added successfully", body["msg"])
		exp, ok := body["expense"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "coffee_beans", exp["description"])
		assert.Equal(t, float64(1250), exp["amount"])
		assert.Equal(t, "Groceries", exp["category"])
	})

	t.Run("create validation failure", func(t *testing.T) {
		rec, body := srv.do(t, http.MethodPost, "/expenses/", token, map[string]any{
			"description": "coffee",
			"amount":      0,
			"category":    "food",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "invalid amount", body["error"])
	})

	t.Run("create rejects description with spaces", func(t *testing.T) {
		rec, body := srv.do(t, http.MethodPost, "/expenses/", token, map[string]any{
			"description": "coffee beans",
			"amount":      1250,
			"category":    "groceries",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "field contains invalid characters", body["error"])
	})

	t.Run("list and search", func(t *testing.T) {
		createExpense(t, "bus_ticket", 300, "fare")

		rec, body := srv.do(t, http.MethodGet, "/expenses/", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		all, ok := body["expenses"].([]any)
		require.True(t, ok)
		assert.GreaterOrEqual(t, len(all), 2)

		rec, body = srv.do(t, http.MethodGet, "/expenses/?search=bus", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		filtered, ok := body["expenses"].([]any)
		require.True(t, ok)
		require.Len(t, filtered, 1)
		first, ok := filtered[0].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "bus_ticket", first["description"])
	})

	t.Run("update", func(t *testing.T) {
		created := createExpense(t, "old_lamp", 4000, "electronics")
		exp := created["expense"].(map[string]any)
		id := int64(exp["id"].(float64))

		rec, body := srv.do(t, http.MethodPatch, fmt.Sprintf("/expenses/%d", id), token, map[string]any{
			"amount": 3500,
		})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "expense updated successfully", body["msg"])

		updated := body["expense"].(map[string]any)
		assert.Equal(t, float64(3500), updated["amount"])
		assert.Equal(t, "old_lamp", updated["description"])
	})

	t.Run("update missing expense", func(t *testing.T) {
		rec, body := srv.do(t, http.MethodPatch, "/expenses/99999", token, map[string]any{
			"amount": 100,
		})
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "expense not found", body["error"])
	})

	t.Run("non-numeric id reads as not found", func(t *testing.T) {
		rec, body := srv.do(t, http.MethodPatch, "/expenses/abc", token, map[string]any{
			"amount": 100,
		})
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "expense not found", body["error"])
	})

	t.Run("delete", func(t *testing.T) {
		created := createExpense(t, "umbrella", 900, "clothing")
		exp := created["expense"].(map[string]any)
		id := int64(exp["id"].(float64))

		rec, _ := srv.do(t, http.MethodDelete, fmt.Sprintf("/expenses/%d", id), token, nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Zero(t, rec.Body.Len())

		rec, body := srv.do(t, http.MethodDelete, fmt.Sprintf("/expenses/%d", id), token, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "expense not found", body["error"])
	})

	t.Run("expenses are scoped to their owner", func(t *testing.T) {
		created := createExpense(t, "secret_gift", 5000, "leisure")
		exp := created["expense"].(map[string]any)
		id := int64(exp["id"].(float64))

		rec, _ := srv.register(t, "mallory", "mallory@example.com", "hunter22")
		require.Equal(t, http.StatusCreated, rec.Code)
		otherToken := srv.login(t, "mallory", "hunter22")

		rec, body := srv.do(t, http.MethodPatch, fmt.Sprintf("/expenses/%d", id), otherToken, map[string]any{
			"amount": 1,
		})
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "expense not found", body["error"])

		rec, _ = srv.do(t, http.MethodDelete, fmt.Sprintf("/expenses/%d", id), otherToken, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)

		rec, body = srv.do(t, http.MethodGet, "/expenses/", otherToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		list, ok := body["expenses"].([]any)
		require.True(t, ok)
		assert.Empty(t, list)
	})
}
