package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/plataforma/accounts-api/internal/core/domain"
	"github.com/plataforma/accounts-api/internal/core/ports"
)

const minPasswordLen = 6

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

type accountService struct {
	repo   ports.UserRepository
	hasher ports.PasswordHasher
	tokens ports.TokenService
	cache  ports.ProfileCache
	log    zerolog.Logger
}

// NewAccountService returns an AccountService implementation orchestrating
// registration, login and user CRUD over the given collaborators.
func NewAccountService(
	repo ports.UserRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenService,
	cache ports.ProfileCache,
	log zerolog.Logger,
) ports.AccountService {
	return &accountService{
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
		cache:  cache,
		log:    log,
	}
}

// Register creates an account and issues a token. Role defaults to usuario
// when absent.
func (s *accountService) Register(ctx context.Context, in ports.RegisterInput) (*domain.PublicUser, string, error) {
	role := in.Role
	if role == "" {
		role = domain.RoleUsuario
	}

	user, err := s.createAccount(ctx, in.Name, in.Email, in.Password, role)
	if err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Str("role", user.Role).Msg("user registered")

	view := user.Public()
	return &view, token, nil
}

// Login authenticates by email and password. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *accountService) Login(ctx context.Context, email, password string) (*domain.PublicUser, string, error) {
	if email == "" || password == "" {
		return nil, "", domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("login: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	view := user.Public()
	return &view, token, nil
}

func (s *accountService) ListUsers(ctx context.Context, caller domain.Caller) ([]domain.PublicUser, error) {
	if !domain.CanAccess(caller, domain.OpListUsers, "") {
		return nil, domain.ErrForbidden
	}

	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	views := make([]domain.PublicUser, len(users))
	for i := range users {
		views[i] = users[i].Public()
	}
	return views, nil
}

func (s *accountService) GetUser(ctx context.Context, caller domain.Caller, id string) (*domain.PublicUser, error) {
	if !domain.CanAccess(caller, domain.OpReadUser, id) {
		return nil, domain.ErrForbidden
	}

	if cached, err := s.cache.Get(ctx, id); err != nil {
		s.log.Warn().Err(err).Str("user_id", id).Msg("profile cache read failed")
	} else if cached != nil {
		return cached, nil
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	view := user.Public()
	if err := s.cache.Set(ctx, view); err != nil {
		s.log.Warn().Err(err).Str("user_id", id).Msg("profile cache write failed")
	}
	return &view, nil
}

// CreateUser is the admin-only creation path; unlike Register, the role must
// be given explicitly and no token is issued.
func (s *accountService) CreateUser(ctx context.Context, caller domain.Caller, in ports.CreateUserInput) (*domain.PublicUser, error) {
	if !domain.CanAccess(caller, domain.OpCreateUser, "") {
		return nil, domain.ErrForbidden
	}
	if in.Role == "" {
		return nil, fmt.Errorf("%w: role is required", domain.ErrInvalidInput)
	}

	user, err := s.createAccount(ctx, in.Name, in.Email, in.Password, in.Role)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Str("role", user.Role).Str("created_by", caller.ID).Msg("user created")

	view := user.Public()
	return &view, nil
}

// UpdateUser applies a partial update. Absent fields are untouched; a
// present password is re-hashed; a present role requires the change-role
// privilege before anything is read or written.
func (s *accountService) UpdateUser(ctx context.Context, caller domain.Caller, id string, in ports.UpdateUserInput) (*domain.PublicUser, error) {
	if !domain.CanAccess(caller, domain.OpUpdateUser, id) {
		return nil, domain.ErrForbidden
	}
	if in.Role != nil && !domain.CanAccess(caller, domain.OpChangeRole, id) {
		return nil, domain.ErrForbidden
	}

	if err := validateUpdate(in); err != nil {
		return nil, err
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		user.Name = *in.Name
	}
	if in.Email != nil && *in.Email != user.Email {
		if err := s.checkEmailFree(ctx, *in.Email); err != nil {
			return nil, err
		}
		user.Email = *in.Email
	}
	if in.Password != nil {
		hash, err := s.hasher.Hash(*in.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = hash
	}
	if in.Role != nil {
		user.Role = *in.Role
	}
	user.UpdatedAt = time.Now().UTC()

	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.log.Warn().Err(err).Str("user_id", id).Msg("profile cache invalidation failed")
	}

	view := updated.Public()
	return &view, nil
}

func (s *accountService) DeleteUser(ctx context.Context, caller domain.Caller, id string) error {
	if !domain.CanAccess(caller, domain.OpDeleteUser, id) {
		return domain.ErrForbidden
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.log.Warn().Err(err).Str("user_id", id).Msg("profile cache invalidation failed")
	}

	s.log.Info().Str("user_id", id).Str("deleted_by", caller.ID).Msg("user deleted")
	return nil
}

// createAccount validates, hashes and persists a new account. The email
// pre-check is a fast path; the unique index on the collection is the
// authoritative guard against concurrent duplicates.
func (s *accountService) createAccount(ctx context.Context, name, email, password, role string) (*domain.User, error) {
	if err := validateNewAccount(name, email, password, role); err != nil {
		return nil, err
	}
	if err := s.checkEmailFree(ctx, email); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *accountService) checkEmailFree(ctx context.Context, email string) error {
	_, err := s.repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return domain.ErrEmailTaken
	case errors.Is(err, domain.ErrUserNotFound):
		return nil
	default:
		return fmt.Errorf("check email: %w", err)
	}
}

func validateNewAccount(name, email, password, role string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	if !emailPattern.MatchString(email) {
		return fmt.Errorf("%w: email is not valid", domain.ErrInvalidInput)
	}
	if len(password) < minPasswordLen {
		return fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, minPasswordLen)
	}
	if !domain.ValidRole(role) {
		return fmt.Errorf("%w: role must be admin or usuario", domain.ErrInvalidInput)
	}
	return nil
}

func validateUpdate(in ports.UpdateUserInput) error {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return fmt.Errorf("%w: name cannot be empty", domain.ErrInvalidInput)
	}
	if in.Email != nil && !emailPattern.MatchString(*in.Email) {
		return fmt.Errorf("%w: email is not valid", domain.ErrInvalidInput)
	}
	if in.Password != nil && len(*in.Password) < minPasswordLen {
		return fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, minPasswordLen)
	}
	if in.Role != nil && !domain.ValidRole(*in.Role) {
		return fmt.Errorf("%w: role must be admin or usuario", domain.ErrInvalidInput)
	}
	return nil
}
