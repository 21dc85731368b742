package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "reelforge/internal/errors"
	"reelforge/internal/model"
)

func TestUserService_CreateUser(t *testing.T) {
	tests := []struct {
		name      string
		input     CreateUserInput
		setupMock func(*MockUserRepository)
		wantErr   error
		wantMsg   string
		wantRole  string
	}{
		{
			name:  "defaults role to user",
			input: CreateUserInput{Name: "Ann", Email: "ann@x.com", Password: "Secret1!"},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "ann@x.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
			wantRole: model.RoleUser,
		},
		{
			name:  "admin role is accepted",
			input: CreateUserInput{Name: "Root", Email: "root@x.com", Password: "Secret1!", Role: model.RoleAdmin},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "root@x.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
			wantRole: model.RoleAdmin,
		},
		{
			name:  "email is normalized before the conflict check",
			input: CreateUserInput{Name: "Ann", Email: "  ANN@X.COM ", Password: "Secret1!"},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "ann@x.com").Return(&model.User{ID: "u1", Email: "ann@x.com"}, nil)
			},
			wantErr: apperrors.ErrConflict,
			wantMsg: "Email already in use",
		},
		{
			name:  "duplicate key on insert is a conflict",
			input: CreateUserInput{Name: "Ann", Email: "ann@x.com", Password: "Secret1!"},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "ann@x.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(gorm.ErrDuplicatedKey)
			},
			wantErr: apperrors.ErrConflict,
			wantMsg: "Email already in use",
		},
		{
			name:      "missing name",
			input:     CreateUserInput{Email: "ann@x.com", Password: "Secret1!"},
			setupMock: func(m *MockUserRepository) {},
			wantErr:   apperrors.ErrValidation,
			wantMsg:   "Name, email and password are required.",
		},
		{
			name:      "invalid email",
			input:     CreateUserInput{Name: "Ann", Email: "ann.x.com", Password: "Secret1!"},
			setupMock: func(m *MockUserRepository) {},
			wantErr:   apperrors.ErrValidation,
			wantMsg:   "Invalid email.",
		},
		{
			name:  "weak password",
			input: CreateUserInput{Name: "Ann", Email: "ann@x.com", Password: "password"},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "ann@x.com").Return(nil, gorm.ErrRecordNotFound)
			},
			wantErr: apperrors.ErrValidation,
			wantMsg: "Password not strong enough.",
		},
		{
			name:  "password at the bcrypt limit",
			input: CreateUserInput{Name: "Ann", Email: "ann@x.com", Password: "Abcd123!" + strings.Repeat("x", 64)},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "ann@x.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
			wantRole: model.RoleUser,
		},
		{
			name:  "password past the bcrypt limit",
			input: CreateUserInput{Name: "Ann", Email: "ann@x.com", Password: "Abcd123!" + strings.Repeat("x", 70)},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "ann@x.com").Return(nil, gorm.ErrRecordNotFound)
			},
			wantErr: apperrors.ErrValidation,
			wantMsg: "Password too long.",
		},
		{
			name:  "taken email wins over a weak password",
			input: CreateUserInput{Name: "Ann", Email: "ANN@x.com", Password: "weak"},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "ann@x.com").Return(&model.User{ID: "u1", Email: "ann@x.com"}, nil)
			},
			wantErr: apperrors.ErrConflict,
			wantMsg: "Email already in use",
		},
		{
			name:      "unknown role",
			input:     CreateUserInput{Name: "Ann", Email: "ann@x.com", Password: "Secret1!", Role: "owner"},
			setupMock: func(m *MockUserRepository) {},
			wantErr:   apperrors.ErrValidation,
			wantMsg:   "Invalid role.",
		},
		{
			name:  "repository failure is not a domain error",
			input: CreateUserInput{Name: "Ann", Email: "ann@x.com", Password: "Secret1!"},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "ann@x.com").Return(nil, errors.New("connection reset"))
			},
			wantMsg: "check user existence: connection reset",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockUserRepository)
			tt.setupMock(repo)
			svc := NewUserService(repo, nil)

			user, err := svc.CreateUser(context.Background(), tt.input)

			if tt.wantMsg != "" {
				require.Error(t, err)
				assert.Nil(t, user)
				assert.Equal(t, tt.wantMsg, err.Error())
				if tt.wantErr != nil {
					assert.ErrorIs(t, err, tt.wantErr)
				}
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantRole, user.Role)
				assert.Equal(t, NormalizeEmail(tt.input.Email), user.Email)
				assert.NotEqual(t, tt.input.Password, user.PasswordHash)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(tt.input.Password)))
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestUserService_VerifyCredentials(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("Secret1!"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := &model.User{ID: "u1", Name: "Ann", Email: "ann@x.com", PasswordHash: string(hash), Role: model.RoleUser}

	repo := new(MockUserRepository)
	repo.On("FindByEmail", mock.Anything, "ann@x.com").Return(stored, nil)
	repo.On("FindByEmail", mock.Anything, "nobody@x.com").Return(nil, gorm.ErrRecordNotFound)
	svc := NewUserService(repo, nil)
	ctx := context.Background()

	user, err := svc.VerifyCredentials(ctx, "ANN@x.com", "Secret1!")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)

	_, wrongPassword := svc.VerifyCredentials(ctx, "ann@x.com", "Wrong1!!")
	_, unknownEmail := svc.VerifyCredentials(ctx, "nobody@x.com", "Secret1!")
	require.Error(t, wrongPassword)
	require.Error(t, unknownEmail)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
	assert.ErrorIs(t, wrongPassword, apperrors.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, apperrors.ErrInvalidCredentials)

	_, missing := svc.VerifyCredentials(ctx, "", "Secret1!")
	assert.ErrorIs(t, missing, apperrors.ErrValidation)
	assert.Equal(t, "Email and password required.", missing.Error())
}

func TestUserService_GetUser(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("FindByID", mock.Anything, "u1").Return(&model.User{ID: "u1", Name: "Ann"}, nil)
	repo.On("FindByID", mock.Anything, "gone").Return(nil, gorm.ErrRecordNotFound)
	svc := NewUserService(repo, nil)

	user, err := svc.GetUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "Ann", user.Name)

	_, err = svc.GetUser(context.Background(), "gone")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	repo.AssertExpectations(t)
}
