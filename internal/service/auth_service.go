package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"spartanfitness/api/internal/domain"
	"spartanfitness/api/internal/notify"
	"spartanfitness/api/internal/repository"
	"spartanfitness/api/internal/validation"
)

var ErrHashingFailed = errors.New("failed to hash password")

type RegisterCommand struct {
	FirstName    string `json:"firstName" validate:"required,max=100"`
	LastName     string `json:"lastName" validate:"required,max=100"`
	Email        string `json:"email" validate:"required,email,max=256"`
	Password     string `json:"password" validate:"required,min=8,max=128"`
	ProfileImage string `json:"profileImage" validate:"max=2048"`
}

type LoginCommand struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ConfirmEmailCommand struct {
	UserID string `json:"userId" validate:"required,uuid"`
	Token  string `json:"token" validate:"required"`
}

type RequestPasswordResetCommand struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordCommand struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

type AuthService interface {
	Register(ctx context.Context, cmd RegisterCommand) (*AuthResult, error)
	Login(ctx context.Context, cmd LoginCommand) (*AuthResult, error)
	ConfirmEmail(ctx context.Context, cmd ConfirmEmailCommand) error
	// RequestPasswordReset succeeds silently for unknown emails.
	RequestPasswordReset(ctx context.Context, cmd RequestPasswordResetCommand) error
	ResetPassword(ctx context.Context, cmd ResetPasswordCommand) error
}

// AuthConfig carries the settings auth needs beyond its repositories.
type AuthConfig struct {
	FrontendBaseURL string
	ResetTokenTTL   time.Duration
}

type authService struct {
	userRepo   repository.UserRepository
	coachRepo  repository.CoachRepository
	adminRepo  repository.AdministratorRepository
	resetRepo  repository.PasswordResetTokenRepository
	tokens     *TokenManager
	mail       mailer
	cfg        AuthConfig
	log        logrus.FieldLogger
	hashPasswd func(password []byte, cost int) ([]byte, error)
}

func NewAuthService(
	userRepo repository.UserRepository,
	coachRepo repository.CoachRepository,
	adminRepo repository.AdministratorRepository,
	resetRepo repository.PasswordResetTokenRepository,
	tokens *TokenManager,
	email notify.EmailProvider,
	cfg AuthConfig,
	log logrus.FieldLogger,
) AuthService {
	if cfg.ResetTokenTTL <= 0 {
		cfg.ResetTokenTTL = time.Hour
	}
	return &authService{
		userRepo:   userRepo,
		coachRepo:  coachRepo,
		adminRepo:  adminRepo,
		resetRepo:  resetRepo,
		tokens:     tokens,
		mail:       mailer{provider: email, log: log},
		cfg:        cfg,
		log:        log,
		hashPasswd: bcrypt.GenerateFromPassword,
	}
}

func (s *authService) Register(ctx context.Context, cmd RegisterCommand) (*AuthResult, error) {
	if err := validation.Struct(cmd); err != nil {
		return nil, err
	}

	_, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(cmd.Email)))
	if err == nil {
		return nil, domain.ErrDuplicateEmail
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := s.hashPasswd([]byte(cmd.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrHashingFailed
	}

	user := domain.NewUser(cmd.FirstName, cmd.LastName, cmd.ProfileImage, cmd.Email, string(hash))
	if err := s.userRepo.Create(ctx, user); err != nil {
		// Lost a race with a concurrent registration; the unique index decides.
		return nil, conflict(err, domain.ErrDuplicateEmail)
	}

	s.sendConfirmation(ctx, user)

	token, err := s.tokens.IssueAccess(user, nil, nil)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}

func (s *authService) Login(ctx context.Context, cmd LoginCommand) (*AuthResult, error) {
	if err := validation.Struct(cmd); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(cmd.Email)))
	if err != nil {
		return nil, notFound(err, domain.ErrInvalidCredentials)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(cmd.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.accessToken(ctx, user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}

// accessToken embeds the coach and administrator profile ids when they exist.
func (s *authService) accessToken(ctx context.Context, user *domain.User) (string, error) {
	var coach *domain.Coach
	if user.HasRole(domain.RoleCoach) {
		c, err := s.coachRepo.GetByUserID(ctx, user.ID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return "", err
		}
		coach = c
	}
	var admin *domain.Administrator
	if user.HasRole(domain.RoleAdministrator) {
		a, err := s.adminRepo.GetByUserID(ctx, user.ID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return "", err
		}
		admin = a
	}
	return s.tokens.IssueAccess(user, coach, admin)
}

func (s *authService) ConfirmEmail(ctx context.Context, cmd ConfirmEmailCommand) error {
	if err := validation.Struct(cmd); err != nil {
		return err
	}
	claims, err := s.tokens.Parse(cmd.Token, PurposeEmailConfirmation)
	if err != nil || claims.UserID != cmd.UserID {
		return domain.ErrEmailConfirmation
	}
	userID, err := parseID[domain.UserKind](cmd.UserID)
	if err != nil {
		return err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return notFound(err, domain.ErrUserNotFound)
	}
	if user.EmailConfirmed {
		return nil
	}
	user.ConfirmEmail()
	return s.userRepo.Update(ctx, user)
}

func (s *authService) RequestPasswordReset(ctx context.Context, cmd RequestPasswordResetCommand) error {
	if err := validation.Struct(cmd); err != nil {
		return err
	}

	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(cmd.Email)))
	if errors.Is(err, repository.ErrNotFound) {
		s.log.WithField("email_domain", emailDomain(cmd.Email)).Info("password reset requested for unknown email")
		return nil
	}
	if err != nil {
		return err
	}

	if err := s.resetRepo.InvalidateForUser(ctx, user.ID); err != nil {
		return fmt.Errorf("invalidate reset tokens: %w", err)
	}
	token := domain.NewPasswordResetToken(user.ID, s.cfg.ResetTokenTTL)
	if err := s.resetRepo.Create(ctx, token); err != nil {
		return err
	}

	s.mail.send(ctx, notify.TemplatePasswordReset, []string{user.Email}, "Reset your password", notify.PasswordResetData{
		FirstName: user.FirstName,
		Link:      s.link("/reset-password", url.Values{"token": {token.Value}}),
		ExpiresAt: token.ExpiresAt,
	})
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, cmd ResetPasswordCommand) error {
	if err := validation.Struct(cmd); err != nil {
		return err
	}

	token, err := s.resetRepo.GetByValue(ctx, cmd.Token)
	if err != nil {
		return notFound(err, domain.ErrPasswordResetTokenInvalid)
	}
	if !token.Usable(time.Now().UTC()) {
		return domain.ErrPasswordResetTokenInvalid
	}

	user, err := s.userRepo.GetByID(ctx, token.UserID)
	if err != nil {
		return notFound(err, domain.ErrUserNotFound)
	}
	hash, err := s.hashPasswd([]byte(cmd.Password), bcrypt.DefaultCost)
	if err != nil {
		return ErrHashingFailed
	}
	user.SetPasswordHash(string(hash))
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	token.Use()
	return s.resetRepo.Update(ctx, token)
}

func (s *authService) sendConfirmation(ctx context.Context, user *domain.User) {
	token, err := s.tokens.IssueEmailConfirmation(user.ID)
	if err != nil {
		s.log.WithError(err).WithField("user_id", user.ID).Error("issue confirmation token")
		return
	}
	s.mail.send(ctx, notify.TemplateEmailConfirmation, []string{user.Email}, "Confirm your email", notify.LinkData{
		FirstName: user.FirstName,
		Link:      s.link("/confirm-email", url.Values{"userId": {user.ID.String()}, "token": {token}}),
	})
}

func (s *authService) link(path string, query url.Values) string {
	return strings.TrimRight(s.cfg.FrontendBaseURL, "/") + path + "?" + query.Encode()
}

func emailDomain(email string) string {
	if i := strings.LastIndexByte(email, '@'); i >= 0 {
		return email[i+1:]
	}
	return ""
}
