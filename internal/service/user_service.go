package service

import (
	"context"

	"spartanfitness/api/internal/domain"
	"spartanfitness/api/internal/paging"
	"spartanfitness/api/internal/repository"
	"spartanfitness/api/internal/validation"
)

type SaveExerciseCommand struct {
	ExerciseID string `json:"exerciseId" validate:"required,uuid"`
}

type SaveMuscleCommand struct {
	MuscleID string `json:"muscleId" validate:"required,uuid"`
}

type SaveMuscleGroupsCommand struct {
	MuscleGroupIDs []string `json:"muscleGroupIds" validate:"required,min=1,unique,dive,uuid"`
}

type UnsaveMuscleGroupCommand struct {
	MuscleGroupID string `json:"muscleGroupId" validate:"required,uuid"`
}

type SaveWorkoutCommand struct {
	WorkoutID string `json:"workoutId" validate:"required,uuid"`
}

// UserService manages accounts and their saved items. Saved items are only
// visible to and editable by the account owner.
type UserService interface {
	Get(ctx context.Context, id domain.UserID) (*domain.User, error)

	SaveExercise(ctx context.Context, caller Principal, userID domain.UserID, cmd SaveExerciseCommand) (*domain.User, error)
	UnsaveExercise(ctx context.Context, caller Principal, userID domain.UserID, cmd SaveExerciseCommand) (*domain.User, error)
	SaveMuscle(ctx context.Context, caller Principal, userID domain.UserID, cmd SaveMuscleCommand) (*domain.User, error)
	UnsaveMuscle(ctx context.Context, caller Principal, userID domain.UserID, cmd SaveMuscleCommand) (*domain.User, error)
	SaveMuscleGroups(ctx context.Context, caller Principal, userID domain.UserID, cmd SaveMuscleGroupsCommand) (*domain.User, error)
	UnsaveMuscleGroup(ctx context.Context, caller Principal, userID domain.UserID, cmd UnsaveMuscleGroupCommand) (*domain.User, error)
	SaveWorkout(ctx context.Context, caller Principal, userID domain.UserID, cmd SaveWorkoutCommand) (*domain.User, error)
	UnsaveWorkout(ctx context.Context, caller Principal, userID domain.UserID, cmd SaveWorkoutCommand) (*domain.User, error)

	SavedExercisePage(ctx context.Context, caller Principal, userID domain.UserID, q paging.Query) (paging.Page[domain.Exercise], error)
	SavedMusclePage(ctx context.Context, caller Principal, userID domain.UserID, q paging.Query) (paging.Page[domain.Muscle], error)
	SavedMuscleGroupPage(ctx context.Context, caller Principal, userID domain.UserID, q paging.Query) (paging.Page[domain.MuscleGroup], error)
	SavedWorkoutPage(ctx context.Context, caller Principal, userID domain.UserID, q paging.Query) (paging.Page[domain.Workout], error)
}

type userService struct {
	userRepo        repository.UserRepository
	exerciseRepo    repository.ExerciseRepository
	muscleRepo      repository.MuscleRepository
	muscleGroupRepo repository.MuscleGroupRepository
	workoutRepo     repository.WorkoutRepository
}

func NewUserService(
	userRepo repository.UserRepository,
	exerciseRepo repository.ExerciseRepository,
	muscleRepo repository.MuscleRepository,
	muscleGroupRepo repository.MuscleGroupRepository,
	workoutRepo repository.WorkoutRepository,
) UserService {
	return &userService{
		userRepo:        userRepo,
		exerciseRepo:    exerciseRepo,
		muscleRepo:      muscleRepo,
		muscleGroupRepo: muscleGroupRepo,
		workoutRepo:     workoutRepo,
	}
}

func (s *userService) Get(ctx context.Context, id domain.UserID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, domain.ErrUserNotFound)
	}
	return user, nil
}

// owner loads the user after checking the caller acts on its own account.
func (s *userService) owner(ctx context.Context, caller Principal, userID domain.UserID) (*domain.User, error) {
	if caller.UserID != userID {
		return nil, domain.ErrAccessDenied
	}
	return s.Get(ctx, userID)
}

// modify runs change on the owner's account and persists it when it reports a change.
func (s *userService) modify(ctx context.Context, caller Principal, userID domain.UserID, cmd any, change func(*domain.User) (bool, error)) (*domain.User, error) {
	if err := validation.Struct(cmd); err != nil {
		return nil, err
	}
	user, err := s.owner(ctx, caller, userID)
	if err != nil {
		return nil, err
	}
	changed, err := change(user)
	if err != nil {
		return nil, err
	}
	if !changed {
		return user, nil
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, notFound(err, domain.ErrUserNotFound)
	}
	return user, nil
}

func (s *userService) SaveExercise(ctx context.Context, caller Principal, userID domain.UserID, cmd SaveExerciseCommand) (*domain.User, error) {
	return s.modify(ctx, caller, userID, cmd, func(u *domain.User) (bool, error) {
		id, err := parseID[domain.ExerciseKind](cmd.ExerciseID)
		if err != nil {
			return false, err
		}
		if _, err := s.exerciseRepo.GetByID(ctx, id); err != nil {
			return false, notFound(err, domain.ErrExerciseNotFound)
		}
		return u.SaveExercise(id), nil
	})
}

func (s *userService) UnsaveExercise(ctx context.Context, caller Principal, userID domain.UserID, cmd SaveExerciseCommand) (*domain.User, error) {
	return s.modify(ctx, caller, userID, cmd, func(u *domain.User) (bool, error) {
		id, err := parseID[domain.ExerciseKind](cmd.ExerciseID)
		if err != nil {
			return false, err
		}
		return u.UnsaveExercise(id), nil
	})
}

func (s *userService) SaveMuscle(ctx context.Context, caller Principal, userID domain.UserID, cmd SaveMuscleCommand) (*domain.User, error) {
	return s.modify(ctx, caller, userID, cmd, func(u *domain.User) (bool, error) {
		id, err := parseID[domain.MuscleKind](cmd.MuscleID)
		if err != nil {
			return false, err
		}
		if _, err := s.muscleRepo.GetByID(ctx, id); err != nil {
			return false, notFound(err, domain.ErrMuscleNotFound)
		}
		return u.SaveMuscle(id), nil
	})
}

func (s *userService) UnsaveMuscle(ctx context.Context, caller Principal, userID domain.UserID, cmd SaveMuscleCommand) (*domain.User, error) {
	return s.modify(ctx, caller, userID, cmd, func(u *domain.User) (bool, error) {
		id, err := parseID[domain.MuscleKind](cmd.MuscleID)
		if err != nil {
			return false, err
		}
		return u.UnsaveMuscle(id), nil
	})
}

func (s *userService) SaveMuscleGroups(ctx context.Context, caller Principal, userID domain.UserID, cmd SaveMuscleGroupsCommand) (*domain.User, error) {
	return s.modify(ctx, caller, userID, cmd, func(u *domain.User) (bool, error) {
		ids, err := parseIDs[domain.MuscleGroupKind](cmd.MuscleGroupIDs)
		if err != nil {
			return false, err
		}
		found, err := s.muscleGroupRepo.GetByIDs(ctx, ids, "")
		if err != nil {
			return false, err
		}
		if len(found) != len(ids) {
			return false, domain.ErrMuscleGroupNotFound
		}
		return u.SaveMuscleGroups(ids) > 0, nil
	})
}

func (s *userService) UnsaveMuscleGroup(ctx context.Context, caller Principal, userID domain.UserID, cmd UnsaveMuscleGroupCommand) (*domain.User, error) {
	return s.modify(ctx, caller, userID, cmd, func(u *domain.User) (bool, error) {
		id, err := parseID[domain.MuscleGroupKind](cmd.MuscleGroupID)
		if err != nil {
			return false, err
		}
		return u.UnsaveMuscleGroup(id), nil
	})
}

func (s *userService) SaveWorkout(ctx context.Context, caller Principal, userID domain.UserID, cmd SaveWorkoutCommand) (*domain.User, error) {
	return s.modify(ctx, caller, userID, cmd, func(u *domain.User) (bool, error) {
		id, err := parseID[domain.WorkoutKind](cmd.WorkoutID)
		if err != nil {
			return false, err
		}
		if _, err := s.workoutRepo.GetByID(ctx, id); err != nil {
			return false, notFound(err, domain.ErrWorkoutNotFound)
		}
		return u.SaveWorkout(id), nil
	})
}

func (s *userService) UnsaveWorkout(ctx context.Context, caller Principal, userID domain.UserID, cmd SaveWorkoutCommand) (*domain.User, error) {
	return s.modify(ctx, caller, userID, cmd, func(u *domain.User) (bool, error) {
		id, err := parseID[domain.WorkoutKind](cmd.WorkoutID)
		if err != nil {
			return false, err
		}
		return u.UnsaveWorkout(id), nil
	})
}

func (s *userService) SavedExercisePage(ctx context.Context, caller Principal, userID domain.UserID, q paging.Query) (paging.Page[domain.Exercise], error) {
	user, err := s.owner(ctx, caller, userID)
	if err != nil {
		return paging.Page[domain.Exercise]{}, err
	}
	items, err := s.exerciseRepo.GetByIDs(ctx, user.SavedExerciseIDs, q.Search)
	if err != nil {
		return paging.Page[domain.Exercise]{}, err
	}
	return pageOf(items, q)
}

func (s *userService) SavedMusclePage(ctx context.Context, caller Principal, userID domain.UserID, q paging.Query) (paging.Page[domain.Muscle], error) {
	user, err := s.owner(ctx, caller, userID)
	if err != nil {
		return paging.Page[domain.Muscle]{}, err
	}
	items, err := s.muscleRepo.GetByIDs(ctx, user.SavedMuscleIDs, q.Search)
	if err != nil {
		return paging.Page[domain.Muscle]{}, err
	}
	return pageOf(items, q)
}

func (s *userService) SavedMuscleGroupPage(ctx context.Context, caller Principal, userID domain.UserID, q paging.Query) (paging.Page[domain.MuscleGroup], error) {
	user, err := s.owner(ctx, caller, userID)
	if err != nil {
		return paging.Page[domain.MuscleGroup]{}, err
	}
	items, err := s.muscleGroupRepo.GetByIDs(ctx, user.SavedMuscleGroupIDs, q.Search)
	if err != nil {
		return paging.Page[domain.MuscleGroup]{}, err
	}
	return pageOf(items, q)
}

func (s *userService) SavedWorkoutPage(ctx context.Context, caller Principal, userID domain.UserID, q paging.Query) (paging.Page[domain.Workout], error) {
	user, err := s.owner(ctx, caller, userID)
	if err != nil {
		return paging.Page[domain.Workout]{}, err
	}
	items, err := s.workoutRepo.GetByIDs(ctx, user.SavedWorkoutIDs, q.Search)
	if err != nil {
		return paging.Page[domain.Workout]{}, err
	}
	return pageOf(items, q)
}
