package service

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/labworks/tracker/internal/model"
	"github.com/labworks/tracker/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserNotFound           = errors.New("user not found")
	ErrInvalidCurrentPassword = errors.New("current password is incorrect")
)

// AccountMailer is the part of EmailService used on account removal.
type AccountMailer interface {
	SendAccountDeletedEmail(email, name string) error
}

type UserService struct {
	userRepository repository.UserRepository
	emailService   AccountMailer
}

func NewUserService(userRepository repository.UserRepository, emailService AccountMailer) *UserService {
	return &UserService{
		userRepository: userRepository,
		emailService:   emailService,
	}
}

func (s *UserService) ByID(id string) (*model.User, error) {
	user, err := s.userRepository.ByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *UserService) ByEmail(email string) (*model.User, error) {
	user, err := s.userRepository.ByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// DeleteAccount removes the user after checking their password.
// Their goals and activity entries are removed with them.
func (s *UserService) DeleteAccount(userID, password string) error {
	user, err := s.ByID(userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		return ErrInvalidCurrentPassword
	}

	return s.remove(user)
}

// Remove deletes a user without a password check. Used by the admin CLI.
func (s *UserService) Remove(userID string) error {
	user, err := s.ByID(userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	return s.remove(user)
}

func (s *UserService) remove(user *model.User) error {
	// Foreign key CASCADE removes goals and activities
	err := s.userRepository.Delete(user.ID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	err = s.emailService.SendAccountDeletedEmail(user.Email, user.Name)
	if err != nil {
		slog.Warn("failed to send account deleted email", "user_id", user.ID, "email", user.Email, "error", err)
	}

	return nil
}
