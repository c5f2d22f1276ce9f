package service

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"spartanfitness/api/internal/domain"
	"spartanfitness/api/internal/events"
	"spartanfitness/api/internal/paging"
	"spartanfitness/api/internal/repository"
	"spartanfitness/api/internal/validation"
)

// ExerciseCommand is the body of create and update requests.
type ExerciseCommand struct {
	Name           string   `json:"name" validate:"required,max=100"`
	Description    string   `json:"description" validate:"required,max=2048"`
	Image          string   `json:"image" validate:"required,max=2048"`
	Video          string   `json:"video" validate:"required,max=2048"`
	MuscleIDs      []string `json:"muscleIds" validate:"unique,dive,uuid"`
	MuscleGroupIDs []string `json:"muscleGroupIds" validate:"unique,dive,uuid"`
}

type ExerciseService interface {
	GetPage(ctx context.Context, q paging.Query) (paging.Page[domain.Exercise], error)
	Get(ctx context.Context, id domain.ExerciseID) (*domain.Exercise, error)
	Create(ctx context.Context, caller Principal, cmd ExerciseCommand) (*domain.Exercise, error)
	// Update is allowed to the creating coach and to administrators.
	Update(ctx context.Context, caller Principal, id domain.ExerciseID, cmd ExerciseCommand) (*domain.Exercise, error)
	// Delete raises ExerciseDeleted before removing the exercise so handlers still see its references.
	// Notifications sent by those handlers are not rolled back if the removal then fails.
	Delete(ctx context.Context, caller Principal, id domain.ExerciseID) error
}

type exerciseService struct {
	exerciseRepo    repository.ExerciseRepository
	muscleRepo      repository.MuscleRepository
	muscleGroupRepo repository.MuscleGroupRepository
	events          events.Publisher
	log             logrus.FieldLogger
}

func NewExerciseService(
	exerciseRepo repository.ExerciseRepository,
	muscleRepo repository.MuscleRepository,
	muscleGroupRepo repository.MuscleGroupRepository,
	publisher events.Publisher,
	log logrus.FieldLogger,
) ExerciseService {
	return &exerciseService{
		exerciseRepo:    exerciseRepo,
		muscleRepo:      muscleRepo,
		muscleGroupRepo: muscleGroupRepo,
		events:          publisher,
		log:             log,
	}
}

func (s *exerciseService) GetPage(ctx context.Context, q paging.Query) (paging.Page[domain.Exercise], error) {
	items, err := s.exerciseRepo.GetBySearchQuery(ctx, q.Search)
	if err != nil {
		return paging.Page[domain.Exercise]{}, err
	}
	return pageOf(items, q)
}

func (s *exerciseService) Get(ctx context.Context, id domain.ExerciseID) (*domain.Exercise, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, domain.ErrExerciseNotFound)
	}
	return exercise, nil
}

func (s *exerciseService) Create(ctx context.Context, caller Principal, cmd ExerciseCommand) (*domain.Exercise, error) {
	if caller.CoachID == nil || !caller.HasRole(domain.RoleCoach) {
		return nil, domain.ErrAccessDenied
	}
	if err := validation.Struct(cmd); err != nil {
		return nil, err
	}
	muscleIDs, groupIDs, err := s.references(ctx, cmd)
	if err != nil {
		return nil, err
	}
	if err := s.ensureNameFree(ctx, cmd.Name, nil); err != nil {
		return nil, err
	}

	exercise := domain.NewExercise(*caller.CoachID, cmd.Name, cmd.Description, cmd.Image, cmd.Video, muscleIDs, groupIDs)
	if err := s.exerciseRepo.Create(ctx, exercise); err != nil {
		return nil, conflict(err, domain.ErrDuplicateExerciseName)
	}
	return exercise, nil
}

func (s *exerciseService) Update(ctx context.Context, caller Principal, id domain.ExerciseID, cmd ExerciseCommand) (*domain.Exercise, error) {
	exercise, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canManageExercise(caller, exercise) {
		return nil, domain.ErrAccessDenied
	}
	if err := validation.Struct(cmd); err != nil {
		return nil, err
	}
	muscleIDs, groupIDs, err := s.references(ctx, cmd)
	if err != nil {
		return nil, err
	}
	if err := s.ensureNameFree(ctx, cmd.Name, &exercise.ID); err != nil {
		return nil, err
	}

	exercise.SetName(cmd.Name)
	exercise.SetDescription(cmd.Description)
	exercise.SetImage(cmd.Image)
	exercise.SetVideo(cmd.Video)
	exercise.SetMuscleIDs(muscleIDs)
	exercise.SetMuscleGroupIDs(groupIDs)
	if err := s.exerciseRepo.Update(ctx, exercise); err != nil {
		return nil, conflict(notFound(err, domain.ErrExerciseNotFound), domain.ErrDuplicateExerciseName)
	}
	return exercise, nil
}

func (s *exerciseService) Delete(ctx context.Context, caller Principal, id domain.ExerciseID) error {
	exercise, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !canManageExercise(caller, exercise) {
		return domain.ErrAccessDenied
	}

	exercise.Delete()
	if err := s.events.Publish(ctx, exercise.PullEvents()...); err != nil {
		return err
	}
	if err := s.exerciseRepo.Delete(ctx, id); err != nil {
		return notFound(err, domain.ErrExerciseNotFound)
	}
	s.log.WithFields(logrus.Fields{"exercise_id": id, "user_id": caller.UserID}).Info("exercise deleted")
	return nil
}

// references parses and checks that every referenced muscle and muscle group exists.
func (s *exerciseService) references(ctx context.Context, cmd ExerciseCommand) ([]domain.MuscleID, []domain.MuscleGroupID, error) {
	muscleIDs, err := parseIDs[domain.MuscleKind](cmd.MuscleIDs)
	if err != nil {
		return nil, nil, err
	}
	groupIDs, err := parseIDs[domain.MuscleGroupKind](cmd.MuscleGroupIDs)
	if err != nil {
		return nil, nil, err
	}
	if len(muscleIDs) > 0 {
		found, err := s.muscleRepo.GetByIDs(ctx, muscleIDs, "")
		if err != nil {
			return nil, nil, err
		}
		if len(found) != len(muscleIDs) {
			return nil, nil, domain.ErrMuscleNotFound
		}
	}
	if len(groupIDs) > 0 {
		found, err := s.muscleGroupRepo.GetByIDs(ctx, groupIDs, "")
		if err != nil {
			return nil, nil, err
		}
		if len(found) != len(groupIDs) {
			return nil, nil, domain.ErrMuscleGroupNotFound
		}
	}
	return muscleIDs, groupIDs, nil
}

// ensureNameFree rejects a name taken by another exercise. self is skipped on update.
func (s *exerciseService) ensureNameFree(ctx context.Context, name string, self *domain.ExerciseID) error {
	existing, err := s.exerciseRepo.GetByName(ctx, name)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if self != nil && existing.ID == *self {
		return nil
	}
	return domain.ErrDuplicateExerciseName
}

func canManageExercise(caller Principal, exercise *domain.Exercise) bool {
	return caller.IsAdministrator() || caller.IsCoach(exercise.CreatorID)
}
