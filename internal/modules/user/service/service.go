package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"anoa.com/jornalufc/internal/entity"
	notification "anoa.com/jornalufc/internal/modules/notification/service"
	"anoa.com/jornalufc/internal/modules/user/dto"
	"anoa.com/jornalufc/internal/modules/user/repository"
	"anoa.com/jornalufc/internal/policy"
	"anoa.com/jornalufc/pkg/apperror"
	commonDto "anoa.com/jornalufc/pkg/dto"
	"anoa.com/jornalufc/pkg/password"
	"anoa.com/jornalufc/pkg/ratelimiter"
	"anoa.com/jornalufc/pkg/token"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type Service interface {
	CreateAccount(ctx context.Context, req dto.SignupRequest) (*entity.User, error)
	ActivateByEmailLink(ctx context.Context, email string) error
	RequestPasswordReset(ctx context.Context, email string) error
	CompletePasswordReset(ctx context.Context, resetToken, newPassword string) error
	Authenticate(ctx context.Context, email, plainPassword string) (*dto.AuthResponse, error)
	ResolveAccessToken(ctx context.Context, accessToken string) (*entity.User, error)

	RequestRoleChangeToScholarship(ctx context.Context, userID uint, orientorEmail string) (*entity.User, error)
	RevertToReader(ctx context.Context, userID uint) (*entity.User, error)
	EndSponsorship(ctx context.Context, actor *entity.User, studentID uint) (*entity.User, error)
	ApproveSponsorship(ctx context.Context, actor *entity.User, studentID uint) (*entity.User, error)

	GetByID(ctx context.Context, id uint) (*entity.User, error)
	ListStudents(ctx context.Context, actor *entity.User) ([]*entity.User, error)
	ListUsers(ctx context.Context, actor *entity.User, page, limit int) (*dto.PaginatedUserResponse, error)
}

type Options struct {
	// PublicBaseURL prefixes the activation link sent to professors.
	PublicBaseURL  string
	AccessTokenTTL time.Duration
	ResetTokenTTL  time.Duration
	LoginCooldown  time.Duration
}

type service struct {
	repo       repository.UserRepository
	hasher     password.Hasher
	tokens     token.Issuer
	dispatcher notification.Dispatcher
	limiter    *ratelimiter.Limiter
	opts       Options
	logger     zerolog.Logger
}

func NewService(
	repo repository.UserRepository,
	hasher password.Hasher,
	tokens token.Issuer,
	dispatcher notification.Dispatcher,
	limiter *ratelimiter.Limiter,
	opts Options,
	logger zerolog.Logger,
) Service {
	if opts.AccessTokenTTL <= 0 {
		opts.AccessTokenTTL = 30 * time.Minute
	}
	if opts.ResetTokenTTL <= 0 {
		opts.ResetTokenTTL = 10 * time.Minute
	}
	opts.PublicBaseURL = strings.TrimRight(opts.PublicBaseURL, "/")

	return &service{
		repo:       repo,
		hasher:     hasher,
		tokens:     tokens,
		dispatcher: dispatcher,
		limiter:    limiter,
		opts:       opts,
		logger:     logger,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *service) CreateAccount(ctx context.Context, req dto.SignupRequest) (*entity.User, error) {
	if !req.Role.Valid() {
		return nil, fmt.Errorf("unknown role %q: %w", req.Role, apperror.ErrInvalidInput)
	}
	email := normalizeEmail(req.Email)

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("%s: %w", email, apperror.ErrDuplicateEmail)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, apperror.ErrInvalidInput)
	}

	user := &entity.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         req.Role,
	}

	var orientor *entity.User
	switch req.Role {
	case policy.RoleProfessor:
		user.IsActive = false
	case policy.RoleScholarship:
		orientor, err = s.findProfessor(ctx, req.OrientorEmail, false)
		if err != nil {
			return nil, err
		}
		user.OrientadorID = &orientor.ID
		user.IsActive = false
	default:
		user.IsActive = true
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%s: %w", email, apperror.ErrDuplicateEmail)
		}
		return nil, err
	}

	switch user.Role {
	case policy.RoleProfessor:
		s.dispatcher.Enqueue(notification.ProfessorActivation(s.opts.PublicBaseURL, user.Name, user.Email))
	case policy.RoleScholarship:
		s.dispatcher.Enqueue(notification.SponsorshipRequest(orientor.Email, user.Name, user.Email))
	}

	s.logger.Info().Uint("user_id", user.ID).Str("role", string(user.Role)).Msg("account created")
	return user, nil
}

// findProfessor resolves an orientor e-mail. Any failure to resolve is
// reported as ErrInvalidOrientor.
func (s *service) findProfessor(ctx context.Context, email string, mustBeActive bool) (*entity.User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, fmt.Errorf("orientor email is required: %w", apperror.ErrInvalidOrientor)
	}

	orientor, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%s: %w", email, apperror.ErrInvalidOrientor)
		}
		return nil, err
	}
	if orientor.Role != policy.RoleProfessor || (mustBeActive && !orientor.IsActive) {
		return nil, fmt.Errorf("%s: %w", email, apperror.ErrInvalidOrientor)
	}
	return orientor, nil
}

func (s *service) ActivateByEmailLink(ctx context.Context, email string) error {
	user, err := s.findByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return err
	}
	if user.IsActive {
		return nil
	}

	user.IsActive = true
	return s.repo.Save(ctx, user)
}

func (s *service) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Debug().Msg("password reset requested for unknown email")
			return nil
		}
		return err
	}

	resetToken, _, err := s.tokens.Issue(user.Email, "", token.PurposeReset, s.opts.ResetTokenTTL)
	if err != nil {
		return err
	}

	s.dispatcher.Enqueue(notification.PasswordReset(user.Email, resetToken, s.opts.ResetTokenTTL))
	return nil
}

func (s *service) CompletePasswordReset(ctx context.Context, resetToken, newPassword string) error {
	claims, err := s.tokens.Validate(resetToken)
	if err != nil || claims.Purpose != token.PurposeReset || claims.Subject == "" {
		return apperror.ErrInvalidToken
	}

	user, err := s.findByEmail(ctx, claims.Subject)
	if err != nil {
		return err
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("%v: %w", err, apperror.ErrInvalidInput)
	}
	user.PasswordHash = hash
	return s.repo.Save(ctx, user)
}

func (s *service) Authenticate(ctx context.Context, email, plainPassword string) (*dto.AuthResponse, error) {
	email = normalizeEmail(email)

	allowed, retryAfter, err := s.limiter.Allow(ctx, email, ratelimiter.ScopeLogin, s.opts.LoginCooldown)
	if err != nil {
		s.logger.Warn().Err(err).Msg("login rate limiter unavailable")
	} else if !allowed {
		return nil, &ratelimiter.RateLimitError{
			Message:    "muitas tentativas de login, aguarde alguns segundos",
			RetryAfter: retryAfter,
		}
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrInvalidCredentials
		}
		return nil, err
	}
	if !s.hasher.Verify(plainPassword, user.PasswordHash) {
		return nil, apperror.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, apperror.ErrInactiveAccount
	}

	accessToken, expiresAt, err := s.tokens.Issue(user.Email, string(user.Role), token.PurposeAccess, s.opts.AccessTokenTTL)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken: accessToken,
		TokenType:   "bearer",
		ExpiresIn:   int64(time.Until(expiresAt).Seconds()),
		User:        user,
	}, nil
}

func (s *service) ResolveAccessToken(ctx context.Context, accessToken string) (*entity.User, error) {
	claims, err := s.tokens.Validate(accessToken)
	if err != nil || claims.Purpose != token.PurposeAccess {
		return nil, fmt.Errorf("invalid or expired token: %w", apperror.ErrUnauthorized)
	}

	user, err := s.repo.FindByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user not found: %w", apperror.ErrUnauthorized)
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, apperror.ErrInactiveAccount
	}
	return user, nil
}

func (s *service) RequestRoleChangeToScholarship(ctx context.Context, userID uint, orientorEmail string) (*entity.User, error) {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Role == policy.RoleScholarship {
		return nil, apperror.ErrAlreadyScholarship
	}

	orientor, err := s.findProfessor(ctx, orientorEmail, true)
	if err != nil {
		return nil, err
	}

	user.Role = policy.RoleScholarship
	user.OrientadorID = &orientor.ID
	user.IsActive = false
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.dispatcher.Enqueue(notification.SponsorshipRequest(orientor.Email, user.Name, user.Email))
	return user, nil
}

func (s *service) RevertToReader(ctx context.Context, userID uint) (*entity.User, error) {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Role != policy.RoleScholarship {
		return nil, apperror.ErrNotBolsista
	}

	if err := s.demote(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *service) demote(ctx context.Context, user *entity.User) error {
	user.Role = policy.RoleReader
	user.OrientadorID = nil
	user.IsActive = true
	return s.repo.Save(ctx, user)
}

func (s *service) EndSponsorship(ctx context.Context, actor *entity.User, studentID uint) (*entity.User, error) {
	if !policy.Allows(actor.Role, policy.ActionEndSponsorship) {
		return nil, fmt.Errorf("only professors can end a sponsorship: %w", apperror.ErrForbidden)
	}

	student, err := s.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if student.Role != policy.RoleScholarship {
		return nil, apperror.ErrNotBolsista
	}
	if !policy.CanPerform(actor.Actor(), policy.ActionEndSponsorship, policy.Target{OrientorID: student.OrientadorID}) {
		return nil, fmt.Errorf("student is supervised by another professor: %w", apperror.ErrForbidden)
	}

	if err := s.demote(ctx, student); err != nil {
		return nil, err
	}

	s.dispatcher.Enqueue(notification.SponsorshipEnded(student.Email, student.Name, actor.Name))
	return student, nil
}

func (s *service) ApproveSponsorship(ctx context.Context, actor *entity.User, studentID uint) (*entity.User, error) {
	if !policy.Allows(actor.Role, policy.ActionApproveSponsorship) {
		return nil, fmt.Errorf("only professors can approve a sponsorship: %w", apperror.ErrForbidden)
	}

	student, err := s.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if !policy.CanPerform(actor.Actor(), policy.ActionApproveSponsorship, policy.Target{OrientorID: student.OrientadorID}) {
		return nil, apperror.ErrNotOrientor
	}
	if student.IsActive {
		return nil, apperror.ErrAlreadyActive
	}

	student.IsActive = true
	if err := s.repo.Save(ctx, student); err != nil {
		return nil, err
	}

	s.dispatcher.Enqueue(notification.SponsorshipApproved(student.Email, student.Name, actor.Name))
	return student, nil
}

func (s *service) GetByID(ctx context.Context, id uint) (*entity.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}
	return user, nil
}

func (s *service) findByEmail(ctx context.Context, email string) (*entity.User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}
	return user, nil
}

func (s *service) ListStudents(ctx context.Context, actor *entity.User) ([]*entity.User, error) {
	if !policy.Allows(actor.Role, policy.ActionApproveSponsorship) {
		return nil, fmt.Errorf("only professors supervise students: %w", apperror.ErrForbidden)
	}
	return s.repo.FindStudentsByOrientor(ctx, actor.ID)
}

func (s *service) ListUsers(ctx context.Context, actor *entity.User, page, limit int) (*dto.PaginatedUserResponse, error) {
	if !policy.CanPerform(actor.Actor(), policy.ActionListUsers, policy.Target{}) {
		return nil, fmt.Errorf("admin access required: %w", apperror.ErrForbidden)
	}

	q := commonDto.PaginationQuery{Page: page, Limit: limit}
	offset := q.Normalize(20)

	users, total, err := s.repo.FindAll(ctx, offset, q.Limit)
	if err != nil {
		return nil, err
	}

	return &dto.PaginatedUserResponse{
		Data: users,
		Meta: commonDto.NewPaginationMeta(q.Page, q.Limit, total),
	}, nil
}
