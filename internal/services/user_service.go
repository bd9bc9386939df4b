package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/taskboard-api/internal/models"
	"github.com/yukikurage/taskboard-api/internal/repository"
	"github.com/yukikurage/taskboard-api/internal/utils"
)

var (
	ErrCannotDeleteSeedAdmin = errors.New("the seed admin account cannot be deleted")
	ErrCannotDemoteSeedAdmin = errors.New("the seed admin account cannot be demoted")
	ErrCannotDeleteYourself  = errors.New("you cannot delete your own account")
	ErrInvalidRole           = errors.New("invalid role")
)

// UserService implements the admin user-management operations
type UserService struct {
	userRepo  repository.UserRepository
	seedEmail string
}

// NewUserService creates a new UserService. seedEmail names the protected
// seed admin account.
func NewUserService(userRepo repository.UserRepository, seedEmail string) *UserService {
	return &UserService{
		userRepo:  userRepo,
		seedEmail: strings.ToLower(strings.TrimSpace(seedEmail)),
	}
}

// ListUsers returns a page of users
func (s *UserService) ListUsers(params utils.PaginationParams) ([]models.User, int64, error) {
	users, total, err := s.userRepo.List(params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

// DeleteUser removes a user and all of their boards, lists and tasks
func (s *UserService) DeleteUser(id, actorID uint64) error {
	if id == actorID {
		return ErrCannotDeleteYourself
	}

	user, err := s.getUser(id)
	if err != nil {
		return err
	}
	if s.isSeed(user) {
		return ErrCannotDeleteSeedAdmin
	}

	if err := s.userRepo.Delete(user.ID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// ChangeRole sets a user's role
func (s *UserService) ChangeRole(id uint64, role models.Role) (*models.User, error) {
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	user, err := s.getUser(id)
	if err != nil {
		return nil, err
	}
	if s.isSeed(user) && role != models.RoleAdmin {
		return nil, ErrCannotDemoteSeedAdmin
	}
	if user.Role == role {
		return user, nil
	}

	user.Role = role
	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

func (s *UserService) getUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, notFoundAs(err, ErrUserNotFound, "user")
	}
	return user, nil
}

func (s *UserService) isSeed(user *models.User) bool {
	return s.seedEmail != "" && user.Email == s.seedEmail
}
