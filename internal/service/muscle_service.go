package service

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"spartanfitness/api/internal/domain"
	"spartanfitness/api/internal/paging"
	"spartanfitness/api/internal/repository"
	"spartanfitness/api/internal/validation"
)

type MuscleGroupCommand struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=2048"`
	Image       string `json:"image" validate:"max=2048"`
}

type MuscleCommand struct {
	MuscleGroupID string `json:"muscleGroupId" validate:"required,uuid"`
	Name          string `json:"name" validate:"required,max=100"`
	Description   string `json:"description" validate:"max=2048"`
	Image         string `json:"image" validate:"max=2048"`
}

type MuscleGroupService interface {
	GetPage(ctx context.Context, q paging.Query) (paging.Page[domain.MuscleGroup], error)
	Get(ctx context.Context, id domain.MuscleGroupID) (*domain.MuscleGroup, error)
	Create(ctx context.Context, caller Principal, cmd MuscleGroupCommand) (*domain.MuscleGroup, error)
	Update(ctx context.Context, caller Principal, id domain.MuscleGroupID, cmd MuscleGroupCommand) (*domain.MuscleGroup, error)
	// Delete also removes the group's muscles.
	Delete(ctx context.Context, caller Principal, id domain.MuscleGroupID) error
}

type MuscleService interface {
	GetPage(ctx context.Context, q paging.Query) (paging.Page[domain.Muscle], error)
	Get(ctx context.Context, id domain.MuscleID) (*domain.Muscle, error)
	Create(ctx context.Context, caller Principal, cmd MuscleCommand) (*domain.Muscle, error)
	Update(ctx context.Context, caller Principal, id domain.MuscleID, cmd MuscleCommand) (*domain.Muscle, error)
	Delete(ctx context.Context, caller Principal, id domain.MuscleID) error
}

type muscleGroupService struct {
	groupRepo repository.MuscleGroupRepository
	log       logrus.FieldLogger
}

func NewMuscleGroupService(groupRepo repository.MuscleGroupRepository, log logrus.FieldLogger) MuscleGroupService {
	return &muscleGroupService{groupRepo: groupRepo, log: log}
}

func (s *muscleGroupService) GetPage(ctx context.Context, q paging.Query) (paging.Page[domain.MuscleGroup], error) {
	items, err := s.groupRepo.GetBySearchQuery(ctx, q.Search)
	if err != nil {
		return paging.Page[domain.MuscleGroup]{}, err
	}
	return pageOf(items, q)
}

func (s *muscleGroupService) Get(ctx context.Context, id domain.MuscleGroupID) (*domain.MuscleGroup, error) {
	group, err := s.groupRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, domain.ErrMuscleGroupNotFound)
	}
	return group, nil
}

func (s *muscleGroupService) Create(ctx context.Context, caller Principal, cmd MuscleGroupCommand) (*domain.MuscleGroup, error) {
	if caller.CoachID == nil || !caller.HasRole(domain.RoleCoach) {
		return nil, domain.ErrAccessDenied
	}
	if err := validation.Struct(cmd); err != nil {
		return nil, err
	}
	if err := s.ensureNameFree(ctx, cmd.Name, nil); err != nil {
		return nil, err
	}

	group := domain.NewMuscleGroup(*caller.CoachID, cmd.Name, cmd.Description, cmd.Image)
	if err := s.groupRepo.Create(ctx, group); err != nil {
		return nil, conflict(err, domain.ErrDuplicateMuscleGroupName)
	}
	return group, nil
}

func (s *muscleGroupService) Update(ctx context.Context, caller Principal, id domain.MuscleGroupID, cmd MuscleGroupCommand) (*domain.MuscleGroup, error) {
	group, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdministrator() && !caller.IsCoach(group.CreatorID) {
		return nil, domain.ErrAccessDenied
	}
	if err := validation.Struct(cmd); err != nil {
		return nil, err
	}
	if err := s.ensureNameFree(ctx, cmd.Name, &group.ID); err != nil {
		return nil, err
	}

	group.SetName(cmd.Name)
	group.SetDescription(cmd.Description)
	group.SetImage(cmd.Image)
	if err := s.groupRepo.Update(ctx, group); err != nil {
		return nil, conflict(notFound(err, domain.ErrMuscleGroupNotFound), domain.ErrDuplicateMuscleGroupName)
	}
	return group, nil
}

func (s *muscleGroupService) Delete(ctx context.Context, caller Principal, id domain.MuscleGroupID) error {
	group, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !caller.IsAdministrator() && !caller.IsCoach(group.CreatorID) {
		return domain.ErrAccessDenied
	}
	if err := s.groupRepo.Delete(ctx, id); err != nil {
		return notFound(err, domain.ErrMuscleGroupNotFound)
	}
	s.log.WithFields(logrus.Fields{"muscle_group_id": id, "muscles": len(group.MuscleIDs)}).Info("muscle group deleted")
	return nil
}

func (s *muscleGroupService) ensureNameFree(ctx context.Context, name string, self *domain.MuscleGroupID) error {
	existing, err := s.groupRepo.GetByName(ctx, name)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if self != nil && existing.ID == *self {
		return nil
	}
	return domain.ErrDuplicateMuscleGroupName
}

type muscleService struct {
	muscleRepo repository.MuscleRepository
	groupRepo  repository.MuscleGroupRepository
	log        logrus.FieldLogger
}

func NewMuscleService(muscleRepo repository.MuscleRepository, groupRepo repository.MuscleGroupRepository, log logrus.FieldLogger) MuscleService {
	return &muscleService{muscleRepo: muscleRepo, groupRepo: groupRepo, log: log}
}

func (s *muscleService) GetPage(ctx context.Context, q paging.Query) (paging.Page[domain.Muscle], error) {
	items, err := s.muscleRepo.GetBySearchQuery(ctx, q.Search)
	if err != nil {
		return paging.Page[domain.Muscle]{}, err
	}
	return pageOf(items, q)
}

func (s *muscleService) Get(ctx context.Context, id domain.MuscleID) (*domain.Muscle, error) {
	muscle, err := s.muscleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, domain.ErrMuscleNotFound)
	}
	return muscle, nil
}

func (s *muscleService) Create(ctx context.Context, caller Principal, cmd MuscleCommand) (*domain.Muscle, error) {
	if caller.CoachID == nil || !caller.HasRole(domain.RoleCoach) {
		return nil, domain.ErrAccessDenied
	}
	if err := validation.Struct(cmd); err != nil {
		return nil, err
	}
	group, err := s.group(ctx, cmd.MuscleGroupID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureNameFree(ctx, cmd.Name, nil); err != nil {
		return nil, err
	}

	muscle := domain.NewMuscle(group.ID, cmd.Name, cmd.Description, cmd.Image)
	if err := s.muscleRepo.Create(ctx, muscle); err != nil {
		return nil, conflict(err, domain.ErrDuplicateMuscleName)
	}
	group.AddMuscle(muscle.ID)
	if err := s.groupRepo.Update(ctx, group); err != nil {
		return nil, err
	}
	return muscle, nil
}

// Update may move the muscle to another group.
func (s *muscleService) Update(ctx context.Context, caller Principal, id domain.MuscleID, cmd MuscleCommand) (*domain.Muscle, error) {
	muscle, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	current, err := s.groupRepo.GetByID(ctx, muscle.MuscleGroupID)
	if err != nil {
		return nil, notFound(err, domain.ErrMuscleGroupNotFound)
	}
	if !caller.IsAdministrator() && !caller.IsCoach(current.CreatorID) {
		return nil, domain.ErrAccessDenied
	}
	if err := validation.Struct(cmd); err != nil {
		return nil, err
	}
	target, err := s.group(ctx, cmd.MuscleGroupID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureNameFree(ctx, cmd.Name, &muscle.ID); err != nil {
		return nil, err
	}

	muscle.SetName(cmd.Name)
	muscle.SetDescription(cmd.Description)
	muscle.SetImage(cmd.Image)
	moved := target.ID != current.ID
	if moved {
		muscle.MuscleGroupID = target.ID
	}
	if err := s.muscleRepo.Update(ctx, muscle); err != nil {
		return nil, conflict(notFound(err, domain.ErrMuscleNotFound), domain.ErrDuplicateMuscleName)
	}
	if moved {
		current.RemoveMuscle(muscle.ID)
		target.AddMuscle(muscle.ID)
		if err := s.groupRepo.Update(ctx, current); err != nil {
			return nil, err
		}
		if err := s.groupRepo.Update(ctx, target); err != nil {
			return nil, err
		}
	}
	return muscle, nil
}

func (s *muscleService) Delete(ctx context.Context, caller Principal, id domain.MuscleID) error {
	muscle, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !caller.IsAdministrator() {
		group, err := s.groupRepo.GetByID(ctx, muscle.MuscleGroupID)
		if err != nil {
			return notFound(err, domain.ErrMuscleGroupNotFound)
		}
		if !caller.IsCoach(group.CreatorID) {
			return domain.ErrAccessDenied
		}
	}
	if err := s.muscleRepo.Delete(ctx, id); err != nil {
		return notFound(err, domain.ErrMuscleNotFound)
	}
	s.log.WithField("muscle_id", id).Info("muscle deleted")
	return nil
}

func (s *muscleService) group(ctx context.Context, rawID string) (*domain.MuscleGroup, error) {
	groupID, err := parseID[domain.MuscleGroupKind](rawID)
	if err != nil {
		return nil, err
	}
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return nil, notFound(err, domain.ErrMuscleGroupNotFound)
	}
	return group, nil
}

func (s *muscleService) ensureNameFree(ctx context.Context, name string, self *domain.MuscleID) error {
	existing, err := s.muscleRepo.GetByName(ctx, name)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if self != nil && existing.ID == *self {
		return nil
	}
	return domain.ErrDuplicateMuscleName
}
