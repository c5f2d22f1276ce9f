package service

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"spartanfitness/api/internal/domain"
	"spartanfitness/api/internal/events"
	"spartanfitness/api/internal/repository"
	"spartanfitness/api/internal/validation"
)

// CoachProfile is a coach joined with the public part of its user account.
type CoachProfile struct {
	*domain.Coach
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	ProfileImage string `json:"profileImage"`
}

type UpdateCoachCommand struct {
	Biography string `json:"biography" validate:"max=2048"`
}

type CoachApplicationCommand struct {
	Note string `json:"note" validate:"max=2048"`
}

type DenyCoachApplicationCommand struct {
	Remarks string `json:"remarks" validate:"max=2048"`
}

type CoachService interface {
	Get(ctx context.Context, id domain.CoachID) (*CoachProfile, error)
	Update(ctx context.Context, caller Principal, id domain.CoachID, cmd UpdateCoachCommand) (*CoachProfile, error)
}

type CoachApplicationService interface {
	Apply(ctx context.Context, caller Principal, cmd CoachApplicationCommand) (*domain.CoachApplication, error)
	// ListPending is for administrators, oldest first.
	ListPending(ctx context.Context, caller Principal) ([]domain.CoachApplication, error)
	Approve(ctx context.Context, caller Principal, id domain.CoachApplicationID) (*domain.CoachApplication, error)
	Deny(ctx context.Context, caller Principal, id domain.CoachApplicationID, cmd DenyCoachApplicationCommand) (*domain.CoachApplication, error)
}

type coachService struct {
	coachRepo repository.CoachRepository
	userRepo  repository.UserRepository
}

func NewCoachService(coachRepo repository.CoachRepository, userRepo repository.UserRepository) CoachService {
	return &coachService{coachRepo: coachRepo, userRepo: userRepo}
}

func (s *coachService) Get(ctx context.Context, id domain.CoachID) (*CoachProfile, error) {
	coach, err := s.coachRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, domain.ErrCoachNotFound)
	}
	return s.profile(ctx, coach)
}

func (s *coachService) Update(ctx context.Context, caller Principal, id domain.CoachID, cmd UpdateCoachCommand) (*CoachProfile, error) {
	if !caller.IsCoach(id) && !caller.IsAdministrator() {
		return nil, domain.ErrAccessDenied
	}
	if err := validation.Struct(cmd); err != nil {
		return nil, err
	}
	coach, err := s.coachRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, domain.ErrCoachNotFound)
	}
	coach.SetBiography(cmd.Biography)
	if err := s.coachRepo.Update(ctx, coach); err != nil {
		return nil, notFound(err, domain.ErrCoachNotFound)
	}
	return s.profile(ctx, coach)
}

func (s *coachService) profile(ctx context.Context, coach *domain.Coach) (*CoachProfile, error) {
	user, err := s.userRepo.GetByID(ctx, coach.UserID)
	if err != nil {
		return nil, notFound(err, domain.ErrCoachNotFound)
	}
	return &CoachProfile{
		Coach:        coach,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		ProfileImage: user.ProfileImage,
	}, nil
}

type coachApplicationService struct {
	applicationRepo repository.CoachApplicationRepository
	coachRepo       repository.CoachRepository
	events          events.Publisher
	log             logrus.FieldLogger
}

func NewCoachApplicationService(
	applicationRepo repository.CoachApplicationRepository,
	coachRepo repository.CoachRepository,
	publisher events.Publisher,
	log logrus.FieldLogger,
) CoachApplicationService {
	return &coachApplicationService{
		applicationRepo: applicationRepo,
		coachRepo:       coachRepo,
		events:          publisher,
		log:             log,
	}
}

func (s *coachApplicationService) Apply(ctx context.Context, caller Principal, cmd CoachApplicationCommand) (*domain.CoachApplication, error) {
	if err := validation.Struct(cmd); err != nil {
		return nil, err
	}
	if caller.HasRole(domain.RoleCoach) {
		return nil, domain.ErrAlreadyCoach
	}
	if _, err := s.coachRepo.GetByUserID(ctx, caller.UserID); err == nil {
		return nil, domain.ErrAlreadyCoach
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	_, err := s.applicationRepo.GetPendingByUserID(ctx, caller.UserID)
	if err == nil {
		return nil, domain.ErrCoachApplicationPending
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	application := domain.NewCoachApplication(caller.UserID, cmd.Note)
	if err := s.applicationRepo.Create(ctx, application); err != nil {
		return nil, conflict(err, domain.ErrCoachApplicationPending)
	}
	return application, nil
}

func (s *coachApplicationService) ListPending(ctx context.Context, caller Principal) ([]domain.CoachApplication, error) {
	if !caller.IsAdministrator() {
		return nil, domain.ErrAccessDenied
	}
	return s.applicationRepo.GetByStatus(ctx, domain.ApplicationPending)
}

func (s *coachApplicationService) Approve(ctx context.Context, caller Principal, id domain.CoachApplicationID) (*domain.CoachApplication, error) {
	return s.close(ctx, caller, id, func(a *domain.CoachApplication) error {
		return a.Approve(*caller.AdministratorID)
	})
}

func (s *coachApplicationService) Deny(ctx context.Context, caller Principal, id domain.CoachApplicationID, cmd DenyCoachApplicationCommand) (*domain.CoachApplication, error) {
	if err := validation.Struct(cmd); err != nil {
		return nil, err
	}
	return s.close(ctx, caller, id, func(a *domain.CoachApplication) error {
		return a.Deny(*caller.AdministratorID, cmd.Remarks)
	})
}

// close applies the decision, runs its handlers, then persists. A failing
// handler leaves the application pending so the decision can be retried.
func (s *coachApplicationService) close(ctx context.Context, caller Principal, id domain.CoachApplicationID, decide func(*domain.CoachApplication) error) (*domain.CoachApplication, error) {
	if !caller.IsAdministrator() {
		return nil, domain.ErrAccessDenied
	}
	application, err := s.applicationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, domain.ErrCoachApplicationNotFound)
	}
	if err := decide(application); err != nil {
		return nil, err
	}
	if err := s.events.Publish(ctx, application.PullEvents()...); err != nil {
		return nil, err
	}
	if err := s.applicationRepo.Update(ctx, application); err != nil {
		return nil, notFound(err, domain.ErrCoachApplicationNotFound)
	}
	s.log.WithFields(logrus.Fields{
		"application_id": application.ID,
		"status":         application.Status,
		"admin_id":       caller.AdministratorID,
	}).Info("coach application closed")
	return application, nil
}
