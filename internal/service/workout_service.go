package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"spartanfitness/api/internal/domain"
	"spartanfitness/api/internal/paging"
	"spartanfitness/api/internal/repository"
	"spartanfitness/api/internal/validation"
)

// WorkoutExerciseCommand is one line item of a workout request.
type WorkoutExerciseCommand struct {
	OrderNumber  uint   `json:"orderNumber"`
	ExerciseID   string `json:"exerciseId" validate:"required,uuid"`
	Sets         uint   `json:"sets" validate:"gt=0,lt=51"`
	MinReps      uint   `json:"minReps" validate:"gt=0,lt=51,ltefield=MaxReps"`
	MaxReps      uint   `json:"maxReps" validate:"gt=0,lt=51"`
	ExerciseType string `json:"exerciseType" validate:"required,exercisetype"`
}

func (c WorkoutExerciseCommand) Order() uint { return c.OrderNumber }

// WorkoutCommand is the body of create and update requests.
// The workout's muscle groups are derived from its exercises.
type WorkoutCommand struct {
	Name             string                   `json:"name" validate:"required,max=100"`
	Description      string                   `json:"description" validate:"max=2048"`
	Image            string                   `json:"image" validate:"max=2048"`
	WorkoutExercises []WorkoutExerciseCommand `json:"workoutExercises" validate:"required,min=1,ordernumbers,dive"`
}

type WorkoutService interface {
	// GetPage pages over the workouts of every coach.
	GetPage(ctx context.Context, q paging.Query) (paging.Page[domain.Workout], error)
	GetCoachPage(ctx context.Context, coachID domain.CoachID, q paging.Query) (paging.Page[domain.Workout], error)
	Get(ctx context.Context, coachID domain.CoachID, id domain.WorkoutID) (*domain.Workout, error)
	// Create is only allowed to the coach the workout will belong to.
	Create(ctx context.Context, caller Principal, coachID domain.CoachID, cmd WorkoutCommand) (*domain.Workout, error)
	Update(ctx context.Context, caller Principal, coachID domain.CoachID, id domain.WorkoutID, cmd WorkoutCommand) (*domain.Workout, error)
	Delete(ctx context.Context, caller Principal, coachID domain.CoachID, id domain.WorkoutID) error
}

type workoutService struct {
	workoutRepo  repository.WorkoutRepository
	exerciseRepo repository.ExerciseRepository
	coachRepo    repository.CoachRepository
	log          logrus.FieldLogger
}

func NewWorkoutService(
	workoutRepo repository.WorkoutRepository,
	exerciseRepo repository.ExerciseRepository,
	coachRepo repository.CoachRepository,
	log logrus.FieldLogger,
) WorkoutService {
	return &workoutService{
		workoutRepo:  workoutRepo,
		exerciseRepo: exerciseRepo,
		coachRepo:    coachRepo,
		log:          log,
	}
}

func (s *workoutService) GetPage(ctx context.Context, q paging.Query) (paging.Page[domain.Workout], error) {
	items, err := s.workoutRepo.GetBySearchQuery(ctx, q.Search)
	if err != nil {
		return paging.Page[domain.Workout]{}, err
	}
	return pageOf(items, q)
}

func (s *workoutService) GetCoachPage(ctx context.Context, coachID domain.CoachID, q paging.Query) (paging.Page[domain.Workout], error) {
	if _, err := s.coachRepo.GetByID(ctx, coachID); err != nil {
		return paging.Page[domain.Workout]{}, notFound(err, domain.ErrCoachNotFound)
	}
	items, err := s.workoutRepo.GetByCoachID(ctx, coachID)
	if err != nil {
		return paging.Page[domain.Workout]{}, err
	}
	return paging.Resolve(items, q)
}

func (s *workoutService) Get(ctx context.Context, coachID domain.CoachID, id domain.WorkoutID) (*domain.Workout, error) {
	workout, err := s.workoutRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, domain.ErrWorkoutNotFound)
	}
	if workout.CoachID != coachID {
		return nil, domain.ErrWorkoutNotFound
	}
	return workout, nil
}

func (s *workoutService) Create(ctx context.Context, caller Principal, coachID domain.CoachID, cmd WorkoutCommand) (*domain.Workout, error) {
	if !caller.IsCoach(coachID) {
		return nil, domain.ErrAccessDenied
	}
	if err := validation.Struct(cmd); err != nil {
		return nil, err
	}
	if _, err := s.coachRepo.GetByID(ctx, coachID); err != nil {
		return nil, notFound(err, domain.ErrCoachNotFound)
	}
	items, groupIDs, err := s.lineItems(ctx, cmd.WorkoutExercises)
	if err != nil {
		return nil, err
	}

	workout := domain.NewWorkout(coachID, cmd.Name, cmd.Description, cmd.Image, groupIDs, items)
	if err := s.workoutRepo.Create(ctx, workout); err != nil {
		return nil, err
	}
	return workout, nil
}

func (s *workoutService) Update(ctx context.Context, caller Principal, coachID domain.CoachID, id domain.WorkoutID, cmd WorkoutCommand) (*domain.Workout, error) {
	workout, err := s.Get(ctx, coachID, id)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdministrator() && !caller.IsCoach(workout.CoachID) {
		return nil, domain.ErrAccessDenied
	}
	if err := validation.Struct(cmd); err != nil {
		return nil, err
	}
	items, groupIDs, err := s.lineItems(ctx, cmd.WorkoutExercises)
	if err != nil {
		return nil, err
	}

	workout.SetName(cmd.Name)
	workout.SetDescription(cmd.Description)
	workout.SetImage(cmd.Image)
	workout.SetWorkoutExercises(items)
	workout.SetMuscleGroupIDs(groupIDs)
	if err := s.workoutRepo.Update(ctx, workout); err != nil {
		return nil, notFound(err, domain.ErrWorkoutNotFound)
	}
	return workout, nil
}

func (s *workoutService) Delete(ctx context.Context, caller Principal, coachID domain.CoachID, id domain.WorkoutID) error {
	workout, err := s.Get(ctx, coachID, id)
	if err != nil {
		return err
	}
	if !caller.IsAdministrator() && !caller.IsCoach(workout.CoachID) {
		return domain.ErrAccessDenied
	}
	if err := s.workoutRepo.Delete(ctx, id); err != nil {
		return notFound(err, domain.ErrWorkoutNotFound)
	}
	s.log.WithFields(logrus.Fields{"workout_id": id, "coach_id": coachID}).Info("workout deleted")
	return nil
}

// lineItems builds the domain line items, checking every exercise exists, and
// returns the union of the exercises' muscle groups in first-seen order.
func (s *workoutService) lineItems(ctx context.Context, cmds []WorkoutExerciseCommand) ([]domain.WorkoutExercise, []domain.MuscleGroupID, error) {
	items := make([]domain.WorkoutExercise, 0, len(cmds))
	ids := make([]domain.ExerciseID, 0, len(cmds))
	seen := make(map[domain.ExerciseID]struct{}, len(cmds))
	for _, c := range cmds {
		exerciseID, err := parseID[domain.ExerciseKind](c.ExerciseID)
		if err != nil {
			return nil, nil, err
		}
		items = append(items, domain.NewWorkoutExercise(
			c.OrderNumber,
			exerciseID,
			c.Sets,
			domain.RepRange{Min: c.MinReps, Max: c.MaxReps},
			domain.ExerciseType(c.ExerciseType),
		))
		if _, ok := seen[exerciseID]; !ok {
			seen[exerciseID] = struct{}{}
			ids = append(ids, exerciseID)
		}
	}

	exercises, err := s.exerciseRepo.GetByIDs(ctx, ids, "")
	if err != nil {
		return nil, nil, err
	}
	if len(exercises) != len(ids) {
		return nil, nil, domain.ErrExerciseNotFound
	}

	byID := make(map[domain.ExerciseID]domain.Exercise, len(exercises))
	for _, e := range exercises {
		byID[e.ID] = e
	}
	groupIDs := []domain.MuscleGroupID{}
	seenGroups := make(map[domain.MuscleGroupID]struct{})
	for _, id := range ids {
		for _, g := range byID[id].MuscleGroupIDs {
			if _, ok := seenGroups[g]; ok {
				continue
			}
			seenGroups[g] = struct{}{}
			groupIDs = append(groupIDs, g)
		}
	}
	return items, groupIDs, nil
}
