package services

import (
	"chat-hub/auth"
	"chat-hub/contract"
	"chat-hub/domain"
	"chat-hub/errors"
	"chat-hub/repositories"
	"context"
	"fmt"
	"log/slog"
)

// Session is returned on signup and login.
type Session struct {
	domain.Identity
	Token string `json:"token"`
}

type AuthService struct {
	log      *slog.Logger
	users    repositories.IUserRepository
	issuer   *auth.TokenIssuer
	images   contract.ImageStore
	mailer   contract.Mailer
	registry contract.IRegistry
}

func NewAuthService(log *slog.Logger, users repositories.IUserRepository, issuer *auth.TokenIssuer,
	images contract.ImageStore, mailer contract.Mailer, registry contract.IRegistry) *AuthService {
	return &AuthService{log: log, users: users, issuer: issuer, images: images, mailer: mailer, registry: registry}
}

// Signup creates an account and opens a session.
// The welcome e-mail is best effort: its failure is logged, never returned.
func (s *AuthService) Signup(ctx context.Context, req auth.SignupRequest) (Session, error) {
	// Business rules are checked before any expensive cryptographic operation
	if err := auth.ValidateSignup(req); err != nil {
		return Session{}, err
	}

	// Hashed here so the repository never sees plain passwords
	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return Session{}, fmt.Errorf("hashing failed: %w", err)
	}

	user, err := s.users.CreateUser(req.FullName, req.Email, hashedPassword)
	if err != nil {
		return Session{}, err
	}

	token, err := s.issuer.GenerateToken(user.ID)
	if err != nil {
		return Session{}, err
	}

	if s.mailer != nil {
		if err = s.mailer.SendWelcome(ctx, user); err != nil {
			s.log.Warn("Failed to send welcome email", "user_id", user.ID, "error", err)
		}
	}
	return Session{Identity: user, Token: token}, nil
}

func (s *AuthService) Login(ctx context.Context, req auth.LoginRequest) (Session, error) {
	if err := auth.Validate(req); err != nil {
		return Session{}, errors.ErrInvalidCredentials
	}
	user, err := s.users.GetUserByEmail(req.Email)
	if err != nil {
		// Same answer for unknown e-mail and wrong password, against user enumeration
		if errors.Is(err, errors.ErrUserNotFound) {
			return Session{}, errors.ErrInvalidCredentials
		}
		return Session{}, err
	}
	match, err := auth.ComparePassword(req.Password, user.PasswordHash)
	if err != nil || !match {
		return Session{}, errors.ErrInvalidCredentials
	}

	token, err := s.issuer.GenerateToken(user.ID)
	if err != nil {
		return Session{}, err
	}
	return Session{Identity: s.withPresence(user.Identity()), Token: token}, nil
}

// Check returns the profile behind an authenticated session.
func (s *AuthService) Check(ctx context.Context, userID string) (domain.Identity, error) {
	user, err := s.users.GetUser(userID)
	if err != nil {
		if errors.Is(err, errors.ErrUserNotFound) {
			return domain.Identity{}, errors.ErrInvalidToken
		}
		return domain.Identity{}, err
	}
	return s.withPresence(user), nil
}

// UpdateProfile uploads a new profile picture.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, req auth.UpdateProfileRequest) (domain.Identity, error) {
	if err := auth.Validate(req); err != nil {
		return domain.Identity{}, err
	}
	ref, err := s.images.Upload(ctx, req.ProfilePic)
	if err != nil {
		var domainErr *errors.DomainError
		if errors.As(err, &domainErr) {
			return domain.Identity{}, err
		}
		return domain.Identity{}, errors.Persistence(err)
	}
	user, err := s.users.UpdateProfilePic(userID, ref)
	if err != nil {
		return domain.Identity{}, err
	}
	return s.withPresence(user), nil
}

func (s *AuthService) withPresence(user domain.Identity) domain.Identity {
	user.Online = s.registry.IsOnline(user.ID)
	return user
}
