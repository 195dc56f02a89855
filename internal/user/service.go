package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"nexoecos/internal/common"
	"nexoecos/internal/dbmysql"
)

const maxUsernameLen = 30

// UserService handles sign-up, sign-in and profile edits. Credentials
// live in the remote identity provider when it is enabled; the local
// row exists for profile data, moderation and authorship.
type UserService struct {
	repo            *UserRepository
	identity        IdentityProvider
	tokens          *common.TokenIssuer
	identityEnabled bool
}

func NewUserService(repo *UserRepository, identity IdentityProvider, tokens *common.TokenIssuer, identityEnabled bool) *UserService {
	return &UserService{
		repo:            repo,
		identity:        identity,
		tokens:          tokens,
		identityEnabled: identityEnabled,
	}
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type UserResponse struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	IsSuperuser bool   `json:"isSuperuser"`
	DisplayName string `json:"displayName"`
	GamerTag    string `json:"gamerTag"`
	Avatar      string `json:"avatar"`
}

func toUserResponse(u *dbmysql.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		IsSuperuser: u.IsSuperuser,
		DisplayName: u.Profile.DisplayName,
		GamerTag:    u.Profile.GamerTag,
		Avatar:      u.Profile.Avatar,
	}
}

// Register creates an account with the identity provider and the local
// row in one go. With the provider disabled it falls back to a local
// bcrypt hash.
func (s *UserService) Register(ctx context.Context, email, password, displayName string) (*AuthResponse, error) {
	email = strings.TrimSpace(email)

	if s.identityEnabled {
		if _, err := s.identity.SignUp(ctx, email, password); err != nil {
			return nil, err
		}
		u, err := s.getOrCreateLocal(ctx, email, displayName)
		if err != nil {
			return nil, err
		}
		return s.issueToken(u)
	}

	if _, err := s.repo.ByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	hash, err := common.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u, err := s.createLocal(ctx, email, displayName, hash)
	if err != nil {
		return nil, err
	}
	return s.issueToken(u)
}

// Login verifies credentials and returns a session token. Accounts
// created through the provider are materialized locally on first
// sign-in from this service.
func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	email = strings.TrimSpace(email)

	if s.identityEnabled {
		if _, err := s.identity.SignIn(ctx, email, password); err != nil {
			return nil, err
		}
		u, err := s.getOrCreateLocal(ctx, email, "")
		if err != nil {
			return nil, err
		}
		return s.issueToken(u)
	}

	u, err := s.repo.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !common.HasUsablePassword(u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	if err := common.CheckPassword(password, u.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issueToken(u)
}

func (s *UserService) Me(ctx context.Context, userID int64) (*UserResponse, error) {
	u, err := s.repo.UserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := toUserResponse(u)
	return &resp, nil
}

type ProfileUpdate struct {
	DisplayName    string `json:"displayName"`
	GamerTag       string `json:"gamerTag"`
	Bio            string `json:"bio"`
	Country        string `json:"country"`
	City           string `json:"city"`
	FavoriteDomain string `json:"favoriteDomain"`
	Avatar         string `json:"avatar"`
}

func (s *UserService) UpdateProfile(ctx context.Context, userID int64, upd ProfileUpdate) (*UserResponse, error) {
	u, err := s.repo.UserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	u.Profile.DisplayName = upd.DisplayName
	u.Profile.GamerTag = upd.GamerTag
	u.Profile.Bio = upd.Bio
	u.Profile.Country = upd.Country
	u.Profile.City = upd.City
	u.Profile.FavoriteDomain = upd.FavoriteDomain
	u.Profile.Avatar = upd.Avatar

	if err := s.repo.UpdateProfile(ctx, &u.Profile); err != nil {
		return nil, err
	}
	resp := toUserResponse(u)
	return &resp, nil
}

func (s *UserService) issueToken(u *dbmysql.User) (*AuthResponse, error) {
	token, err := s.tokens.GenerateToken(u.ID, u.Username)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &AuthResponse{Token: token, User: toUserResponse(u)}, nil
}

func (s *UserService) getOrCreateLocal(ctx context.Context, email, displayName string) (*dbmysql.User, error) {
	u, err := s.repo.ByEmail(ctx, email)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}
	return s.createLocal(ctx, email, displayName, common.UnusablePassword)
}

func (s *UserService) createLocal(ctx context.Context, email, displayName, passwordHash string) (*dbmysql.User, error) {
	username, err := s.generateUsername(ctx, email)
	if err != nil {
		return nil, err
	}

	u := &dbmysql.User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Profile:      dbmysql.Profile{DisplayName: displayName},
	}
	if err := s.repo.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// generateUsername derives a username from the email local part,
// suffixing a counter when it collides
func (s *UserService) generateUsername(ctx context.Context, email string) (string, error) {
	base := email
	if at := strings.Index(email, "@"); at > 0 {
		base = email[:at]
	}
	base = strings.ReplaceAll(base, " ", "")
	base = strings.ToLower(base)
	if base == "" {
		base = "eco"
	}
	if len(base) > maxUsernameLen {
		base = base[:maxUsernameLen]
	}

	candidate := base
	for i := 1; ; i++ {
		taken, err := s.repo.UsernameExists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check username: %w", err)
		}
		if !taken {
			return candidate, nil
		}
		suffix := fmt.Sprintf("_%d", i)
		trimmed := base
		if len(trimmed)+len(suffix) > maxUsernameLen {
			trimmed = trimmed[:maxUsernameLen-len(suffix)]
		}
		candidate = trimmed + suffix
	}
}
