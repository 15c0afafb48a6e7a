package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Shashika071/SPD-New-Final-sub000/internal/models"
	"github.com/Shashika071/SPD-New-Final-sub000/internal/repository"
	appErrors "github.com/Shashika071/SPD-New-Final-sub000/pkg/errors"
)

type mockUserRepo struct {
	byEmail       map[string]*models.User
	byID          map[string]*models.User
	tokens        map[string]*models.RefreshToken
	createErr     error
	revokedIDs    []string
	revokedUsers  []string
	lastLoginIDs  []string
	passwordsSet  map[string]string
	profileUpdate bool
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if user, ok := m.byEmail[email]; ok {
		cp := *user
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if user, ok := m.byID[id]; ok {
		cp := *user
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	user.ID = "user-generated"
	user.Active = true
	user.CreatedAt = time.Now()
	return nil
}

func (m *mockUserRepo) UpdateLastLogin(ctx context.Context, id string) error {
	m.lastLoginIDs = append(m.lastLoginIDs, id)
	return nil
}

func (m *mockUserRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	if m.passwordsSet == nil {
		m.passwordsSet = make(map[string]string)
	}
	m.passwordsSet[id] = passwordHash
	return nil
}

func (m *mockUserRepo) UpdateProfile(ctx context.Context, id, fullName string, profileImageURL *string) error {
	m.profileUpdate = true
	if user, ok := m.byID[id]; ok {
		user.FullName = fullName
		user.ProfileImageURL = profileImageURL
	}
	return nil
}

func (m *mockUserRepo) RevokeUserRefreshTokens(ctx context.Context, userID string) error {
	m.revokedUsers = append(m.revokedUsers, userID)
	return nil
}

func (m *mockUserRepo) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	if m.tokens == nil {
		m.tokens = make(map[string]*models.RefreshToken)
	}
	m.tokens[token.Token] = token
	return nil
}

func (m *mockUserRepo) FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	if stored, ok := m.tokens[token]; ok {
		cp := *stored
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) RevokeRefreshToken(ctx context.Context, id string) error {
	m.revokedIDs = append(m.revokedIDs, id)
	return nil
}

func testAuthConfig() AuthConfig {
	return AuthConfig{
		AccessTokenSecret:  "unit-test-secret",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 720 * time.Hour,
		Issuer:             "lms-api-test",
	}
}

func hashPassword(t *testing.T, plain string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func activeUser(t *testing.T, id, email, password string, role models.Role) *models.User {
	t.Helper()
	return &models.User{
		ID:           id,
		Email:        email,
		PasswordHash: hashPassword(t, password),
		FullName:     "Test User",
		Role:         role,
		Active:       true,
	}
}

func TestAuthServiceRegister(t *testing.T) {
	repo := &mockUserRepo{}
	svc := NewAuthService(repo, validator.New(), zap.NewNop(), testAuthConfig())

	info, err := svc.Register(context.Background(), models.RegisterRequest{
		Email:    "new@school.lk",
		Password: "str0ngpass",
		FullName: "New Teacher",
		Role:     models.RoleTeacher,
	})
	require.NoError(t, err)
	assert.Equal(t, "user-generated", info.ID)
	assert.Equal(t, models.RoleTeacher, info.Role)
}

func TestAuthServiceRegisterDuplicateEmail(t *testing.T) {
	repo := &mockUserRepo{createErr: repository.ErrDuplicate}
	svc := NewAuthService(repo, validator.New(), zap.NewNop(), testAuthConfig())

	_, err := svc.Register(context.Background(), models.RegisterRequest{
		Email:    "taken@school.lk",
		Password: "str0ngpass",
		FullName: "Dup",
		Role:     models.RoleStudent,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceRegisterRejectsBadRole(t *testing.T) {
	svc := NewAuthService(&mockUserRepo{}, validator.New(), zap.NewNop(), testAuthConfig())

	_, err := svc.Register(context.Background(), models.RegisterRequest{
		Email:    "x@school.lk",
		Password: "str0ngpass",
		FullName: "X",
		Role:     "admin",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginIssuesValidToken(t *testing.T) {
	user := activeUser(t, "user-1", "stu@school.lk", "secret-pass", models.RoleStudent)
	repo := &mockUserRepo{byEmail: map[string]*models.User{user.Email: user}}
	svc := NewAuthService(repo, validator.New(), zap.NewNop(), testAuthConfig())

	resp, err := svc.Login(context.Background(), models.LoginRequest{Email: user.Email, Password: "secret-pass"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, []string{"user-1"}, repo.lastLoginIDs)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, models.RoleStudent, claims.Role)
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	user := activeUser(t, "user-1", "stu@school.lk", "secret-pass", models.RoleStudent)
	repo := &mockUserRepo{byEmail: map[string]*models.User{user.Email: user}}
	svc := NewAuthService(repo, validator.New(), zap.NewNop(), testAuthConfig())

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: user.Email, Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginUnknownEmailLooksLikeBadPassword(t *testing.T) {
	svc := NewAuthService(&mockUserRepo{}, validator.New(), zap.NewNop(), testAuthConfig())

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "ghost@school.lk", Password: "whatever"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginInactiveAccount(t *testing.T) {
	user := activeUser(t, "user-1", "stu@school.lk", "secret-pass", models.RoleStudent)
	user.Active = false
	repo := &mockUserRepo{byEmail: map[string]*models.User{user.Email: user}}
	svc := NewAuthService(repo, validator.New(), zap.NewNop(), testAuthConfig())

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: user.Email, Password: "secret-pass"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInactiveAccount.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceRefreshRotatesToken(t *testing.T) {
	user := activeUser(t, "user-1", "stu@school.lk", "secret-pass", models.RoleStudent)
	repo := &mockUserRepo{
		byEmail: map[string]*models.User{user.Email: user},
		byID:    map[string]*models.User{user.ID: user},
	}
	svc := NewAuthService(repo, validator.New(), zap.NewNop(), testAuthConfig())

	login, err := svc.Login(context.Background(), models.LoginRequest{Email: user.Email, Password: "secret-pass"})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)
	assert.Len(t, repo.revokedIDs, 1)

	claims, err := svc.ValidateToken(refreshed.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
}

func TestAuthServiceRefreshUnknownToken(t *testing.T) {
	svc := NewAuthService(&mockUserRepo{}, validator.New(), zap.NewNop(), testAuthConfig())

	_, err := svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: "bogus"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLogout(t *testing.T) {
	repo := &mockUserRepo{tokens: map[string]*models.RefreshToken{
		"tok-1": {ID: "rt-1", UserID: "user-1", Token: "tok-1"},
	}}
	svc := NewAuthService(repo, validator.New(), zap.NewNop(), testAuthConfig())

	require.NoError(t, svc.Logout(context.Background(), "tok-1", "user-1"))
	assert.Equal(t, []string{"rt-1"}, repo.revokedIDs)
}

func TestAuthServiceLogoutForeignToken(t *testing.T) {
	repo := &mockUserRepo{tokens: map[string]*models.RefreshToken{
		"tok-1": {ID: "rt-1", UserID: "user-1", Token: "tok-1"},
	}}
	svc := NewAuthService(repo, validator.New(), zap.NewNop(), testAuthConfig())

	err := svc.Logout(context.Background(), "tok-1", "user-2")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.revokedIDs)
}

func TestAuthServiceChangePasswordRevokesSessions(t *testing.T) {
	user := activeUser(t, "user-1", "stu@school.lk", "old-pass-1", models.RoleStudent)
	repo := &mockUserRepo{byID: map[string]*models.User{user.ID: user}}
	svc := NewAuthService(repo, validator.New(), zap.NewNop(), testAuthConfig())

	err := svc.ChangePassword(context.Background(), "user-1", models.ChangePasswordRequest{
		OldPassword: "old-pass-1",
		NewPassword: "new-pass-123",
	})
	require.NoError(t, err)
	assert.Contains(t, repo.passwordsSet, "user-1")
	assert.Equal(t, []string{"user-1"}, repo.revokedUsers)
}

func TestAuthServiceChangePasswordWrongOld(t *testing.T) {
	user := activeUser(t, "user-1", "stu@school.lk", "old-pass-1", models.RoleStudent)
	repo := &mockUserRepo{byID: map[string]*models.User{user.ID: user}}
	svc := NewAuthService(repo, validator.New(), zap.NewNop(), testAuthConfig())

	err := svc.ChangePassword(context.Background(), "user-1", models.ChangePasswordRequest{
		OldPassword: "not-the-old-one",
		NewPassword: "new-pass-123",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.passwordsSet)
}

func TestAuthServiceValidateTokenRejectsForeignSecret(t *testing.T) {
	user := activeUser(t, "user-1", "stu@school.lk", "secret-pass", models.RoleStudent)
	repo := &mockUserRepo{byEmail: map[string]*models.User{user.Email: user}}

	issuer := NewAuthService(repo, validator.New(), zap.NewNop(), testAuthConfig())
	login, err := issuer.Login(context.Background(), models.LoginRequest{Email: user.Email, Password: "secret-pass"})
	require.NoError(t, err)

	otherConfig := testAuthConfig()
	otherConfig.AccessTokenSecret = "another-secret"
	verifier := NewAuthService(repo, validator.New(), zap.NewNop(), otherConfig)

	_, err = verifier.ValidateToken(login.AccessToken)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceUpdateProfile(t *testing.T) {
	user := activeUser(t, "user-1", "stu@school.lk", "secret-pass", models.RoleStudent)
	repo := &mockUserRepo{byID: map[string]*models.User{user.ID: user}}
	svc := NewAuthService(repo, validator.New(), zap.NewNop(), testAuthConfig())

	info, err := svc.UpdateProfile(context.Background(), "user-1", models.UpdateProfileRequest{FullName: "Renamed User"})
	require.NoError(t, err)
	assert.True(t, repo.profileUpdate)
	assert.Equal(t, "Renamed User", info.FullName)
}
