package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbarlow/tasktrack/internal/domain"
	"github.com/mbarlow/tasktrack/internal/service/auth"
	"github.com/mbarlow/tasktrack/internal/store"
)

// MockUserStore is a mock implementation of store.UserStore for testing
type MockUserStore struct {
	CreateFn        func(ctx context.Context, user *domain.User) error
	GetByIDFn       func(ctx context.Context, id int64) (*domain.User, error)
	GetByUsernameFn func(ctx context.Context, username string) (*domain.User, error)
}

func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}
	return nil
}

func (m *MockUserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, store.ErrUserNotFound
}

func (m *MockUserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.GetByUsernameFn != nil {
		return m.GetByUsernameFn(ctx, username)
	}
	return nil, store.ErrUserNotFound
}

// testTokenExpiry is the fixed expiry MockJWTService signs into its access
// tokens, echoed by the handler as expires_at.
var testTokenExpiry = time.Date(2025, time.April, 1, 13, 0, 0, 0, time.UTC)

// MockJWTService is a mock implementation of auth.JWTService for testing
type MockJWTService struct {
	GenerateTokenFn        func(ctx context.Context, userID int64) (string, time.Time, error)
	ValidateTokenFn        func(ctx context.Context, tokenString string) (*auth.Claims, error)
	GenerateRefreshTokenFn func(ctx context.Context, userID int64) (string, time.Time, error)
	ValidateRefreshTokenFn func(ctx context.Context, tokenString string) (*auth.Claims, error)
}

func (m *MockJWTService) GenerateToken(ctx context.Context, userID int64) (string, time.Time, error) {
	if m.GenerateTokenFn != nil {
		return m.GenerateTokenFn(ctx, userID)
	}
	return "test-access-token", testTokenExpiry, nil
}

func (m *MockJWTService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if m.ValidateTokenFn != nil {
		return m.ValidateTokenFn(ctx, tokenString)
	}
	return nil, auth.ErrInvalidToken
}

func (m *MockJWTService) GenerateRefreshToken(ctx context.Context, userID int64) (string, time.Time, error) {
	if m.GenerateRefreshTokenFn != nil {
		return m.GenerateRefreshTokenFn(ctx, userID)
	}
	return "test-refresh-token", testTokenExpiry.Add(7 * 24 * time.Hour), nil
}

func (m *MockJWTService) ValidateRefreshToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if m.ValidateRefreshTokenFn != nil {
		return m.ValidateRefreshTokenFn(ctx, tokenString)
	}
	return nil, auth.ErrInvalidRefreshToken
}

// stubHasher is a PasswordHasher that returns a fixed hash.
type stubHasher struct {
	err error
}

func (s *stubHasher) Hash(password string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "hashed:" + password, nil
}

// stubVerifier is a PasswordVerifier driven by a single error value.
type stubVerifier struct {
	err error
}

func (s *stubVerifier) Compare(hashedPassword, password string) error {
	return s.err
}

func newAuthRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestAuthHandler_Register(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		requestBody    interface{}
		rawBody        string
		setupStore     func(*MockUserStore)
		hasherErr      error
		expectedStatus int
		expectedErrMsg string
	}{
		{
			name:        "successful_registration",
			requestBody: RegisterRequest{Username: "alice", Password: "pw1"},
			setupStore: func(us *MockUserStore) {
				us.CreateFn = func(ctx context.Context, user *domain.User) error {
					assert.Equal(t, "alice", user.Username)
					assert.Equal(t, "hashed:pw1", user.HashedPassword)
					assert.Empty(t, user.Password)
					user.ID = 1
					return nil
				}
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "invalid_json",
			rawBody:        "{not json",
			expectedStatus: http.StatusBadRequest,
			expectedErrMsg: "Invalid request format",
		},
		{
			name:           "missing_username",
			requestBody:    RegisterRequest{Password: "pw1"},
			expectedStatus: http.StatusBadRequest,
			expectedErrMsg: "Invalid Username: required field",
		},
		{
			name:           "missing_password",
			requestBody:    RegisterRequest{Username: "alice"},
			expectedStatus: http.StatusBadRequest,
			expectedErrMsg: "Invalid Password: required field",
		},
		{
			name:        "duplicate_username",
			requestBody: RegisterRequest{Username: "alice", Password: "pw1"},
			setupStore: func(us *MockUserStore) {
				us.CreateFn = func(ctx context.Context, user *domain.User) error {
					return store.ErrUsernameExists
				}
			},
			expectedStatus: http.StatusConflict,
			expectedErrMsg: "Username already exists",
		},
		{
			name:        "store_failure",
			requestBody: RegisterRequest{Username: "alice", Password: "pw1"},
			setupStore: func(us *MockUserStore) {
				us.CreateFn = func(ctx context.Context, user *domain.User) error {
					return errors.New("connection refused")
				}
			},
			expectedStatus: http.StatusInternalServerError,
			expectedErrMsg: "Failed to create user",
		},
		{
			name:           "hashing_failure",
			requestBody:    RegisterRequest{Username: "alice", Password: "pw1"},
			hasherErr:      errors.New("bcrypt failure"),
			expectedStatus: http.StatusInternalServerError,
			expectedErrMsg: "Failed to create user",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			userStore := &MockUserStore{}
			if tt.setupStore != nil {
				tt.setupStore(userStore)
			}

			handler := NewAuthHandler(
				userStore,
				&MockJWTService{},
				&stubHasher{err: tt.hasherErr},
				&stubVerifier{},
			)

			var req *http.Request
			if tt.rawBody != "" {
				req = httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewBufferString(tt.rawBody))
			} else {
				req = newAuthRequest(t, http.MethodPost, "/auth/register", tt.requestBody)
			}

			rec := httptest.NewRecorder()
			handler.Register(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

			if tt.expectedErrMsg != "" {
				assert.Equal(t, tt.expectedErrMsg, body["error"])
			} else {
				assert.Equal(t, "User registered successfully", body["message"])
			}
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	t.Parallel()

	storedUser := &domain.User{
		ID:             42,
		Username:       "alice",
		HashedPassword: "hashed:pw1",
	}

	tests := []struct {
		name           string
		requestBody    interface{}
		setupStore     func(*MockUserStore)
		verifierErr    error
		expectedStatus int
		expectedErrMsg string
	}{
		{
			name:        "successful_login",
			requestBody: LoginRequest{Username: "alice", Password: "pw1"},
			setupStore: func(us *MockUserStore) {
				us.GetByUsernameFn = func(ctx context.Context, username string) (*domain.User, error) {
					assert.Equal(t, "alice", username)
					return storedUser, nil
				}
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "unknown_user",
			requestBody:    LoginRequest{Username: "mallory", Password: "pw1"},
			expectedStatus: http.StatusUnauthorized,
			expectedErrMsg: "Invalid credentials",
		},
		{
			name:        "wrong_password",
			requestBody: LoginRequest{Username: "alice", Password: "nope"},
			setupStore: func(us *MockUserStore) {
				us.GetByUsernameFn = func(ctx context.Context, username string) (*domain.User, error) {
					return storedUser, nil
				}
			},
			verifierErr:    errors.New("mismatch"),
			expectedStatus: http.StatusUnauthorized,
			expectedErrMsg: "Invalid credentials",
		},
		{
			name:           "missing_fields",
			requestBody:    LoginRequest{},
			expectedStatus: http.StatusBadRequest,
			expectedErrMsg: "Invalid Username: required field",
		},
		{
			name:        "store_failure",
			requestBody: LoginRequest{Username: "alice", Password: "pw1"},
			setupStore: func(us *MockUserStore) {
				us.GetByUsernameFn = func(ctx context.Context, username string) (*domain.User, error) {
					return nil, errors.New("connection refused")
				}
			},
			expectedStatus: http.StatusInternalServerError,
			expectedErrMsg: "Failed to authenticate user",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			userStore := &MockUserStore{}
			if tt.setupStore != nil {
				tt.setupStore(userStore)
			}

			handler := NewAuthHandler(
				userStore,
				&MockJWTService{},
				&stubHasher{},
				&stubVerifier{err: tt.verifierErr},
			)

			req := newAuthRequest(t, http.MethodPost, "/auth/login", tt.requestBody)
			rec := httptest.NewRecorder()
			handler.Login(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

			if tt.expectedErrMsg != "" {
				assert.Equal(t, tt.expectedErrMsg, body["error"])
			} else {
				assert.Equal(t, "test-access-token", body["token"])
				assert.Equal(t, "test-refresh-token", body["refresh_token"])
				// expires_at must echo the expiry signed into the access
				// token, not one recomputed at response time.
				assert.Equal(t, testTokenExpiry.Format(time.RFC3339), body["expires_at"])
			}
		})
	}
}

func TestAuthHandler_RefreshToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		requestBody    interface{}
		setupJWT       func(*MockJWTService)
		expectedStatus int
		expectedErrMsg string
	}{
		{
			name:        "successful_refresh",
			requestBody: RefreshTokenRequest{RefreshToken: "old-refresh-token"},
			setupJWT: func(js *MockJWTService) {
				js.ValidateRefreshTokenFn = func(ctx context.Context, tokenString string) (*auth.Claims, error) {
					assert.Equal(t, "old-refresh-token", tokenString)
					return &auth.Claims{UserID: 42, TokenType: "refresh"}, nil
				}
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:        "expired_refresh_token",
			requestBody: RefreshTokenRequest{RefreshToken: "stale"},
			setupJWT: func(js *MockJWTService) {
				js.ValidateRefreshTokenFn = func(ctx context.Context, tokenString string) (*auth.Claims, error) {
					return nil, auth.ErrExpiredRefreshToken
				}
			},
			expectedStatus: http.StatusUnauthorized,
			expectedErrMsg: "Invalid refresh token",
		},
		{
			name:           "missing_refresh_token",
			requestBody:    RefreshTokenRequest{},
			expectedStatus: http.StatusBadRequest,
			expectedErrMsg: "Invalid RefreshToken: required field",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			jwtService := &MockJWTService{}
			if tt.setupJWT != nil {
				tt.setupJWT(jwtService)
			}

			handler := NewAuthHandler(&MockUserStore{}, jwtService, &stubHasher{}, &stubVerifier{})

			req := newAuthRequest(t, http.MethodPost, "/auth/refresh", tt.requestBody)
			rec := httptest.NewRecorder()
			handler.RefreshToken(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

			if tt.expectedErrMsg != "" {
				assert.Equal(t, tt.expectedErrMsg, body["error"])
			} else {
				assert.Equal(t, "test-access-token", body["token"])
				assert.Equal(t, "test-refresh-token", body["refresh_token"])
			}
		})
	}
}
