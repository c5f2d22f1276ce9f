package domain

import "time"

// ExerciseType tags how a workout line item is performed.
type ExerciseType string

const (
	ExerciseTypeDefault  ExerciseType = "Default"
	ExerciseTypeDropset  ExerciseType = "Dropset"
	ExerciseTypeSuperset ExerciseType = "Superset"
	ExerciseTypeFailure  ExerciseType = "Failure"
)

// ExerciseTypes lists every accepted exercise type.
var ExerciseTypes = []ExerciseType{
	ExerciseTypeDefault,
	ExerciseTypeDropset,
	ExerciseTypeSuperset,
	ExerciseTypeFailure,
}

func (t ExerciseType) Valid() bool {
	for _, v := range ExerciseTypes {
		if v == t {
			return true
		}
	}
	return false
}

// RepRange is an inclusive min/max rep count.
type RepRange struct {
	Min uint `bson:"min" json:"min"`
	Max uint `bson:"max" json:"max"`
}

// WorkoutExercise is one ordered line item of a workout.
type WorkoutExercise struct {
	ID           WorkoutExerciseID `bson:"id" json:"id"`
	OrderNumber  uint              `bson:"orderNumber" json:"orderNumber"`
	ExerciseID   ExerciseID        `bson:"exerciseId" json:"exerciseId"`
	Sets         uint              `bson:"sets" json:"sets"`
	RepRange     RepRange          `bson:"repRange" json:"repRange"`
	ExerciseType ExerciseType      `bson:"exerciseType" json:"exerciseType"`
}

func NewWorkoutExercise(orderNumber uint, exerciseID ExerciseID, sets uint, reps RepRange, exerciseType ExerciseType) WorkoutExercise {
	return WorkoutExercise{
		ID:           NewID[WorkoutExerciseKind](),
		OrderNumber:  orderNumber,
		ExerciseID:   exerciseID,
		Sets:         sets,
		RepRange:     reps,
		ExerciseType: exerciseType,
	}
}

// Workout is a coach-owned, ordered list of exercises.
type Workout struct {
	ID               WorkoutID         `bson:"_id" json:"id"`
	CoachID          CoachID           `bson:"coachId" json:"coachId"`
	Name             string            `bson:"name" json:"name"`
	Description      string            `bson:"description" json:"description"`
	Image            string            `bson:"image" json:"image"`
	MuscleGroupIDs   []MuscleGroupID   `bson:"muscleGroupIds" json:"muscleGroupIds"`
	WorkoutExercises []WorkoutExercise `bson:"workoutExercises" json:"workoutExercises"`
	CreatedAt        time.Time         `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time         `bson:"updatedAt" json:"updatedAt"`
}

func NewWorkout(coachID CoachID, name, description, image string, muscleGroupIDs []MuscleGroupID, items []WorkoutExercise) *Workout {
	now := time.Now().UTC()
	if muscleGroupIDs == nil {
		muscleGroupIDs = []MuscleGroupID{}
	}
	if items == nil {
		items = []WorkoutExercise{}
	}
	return &Workout{
		ID:               NewID[WorkoutKind](),
		CoachID:          coachID,
		Name:             name,
		Description:      description,
		Image:            image,
		MuscleGroupIDs:   muscleGroupIDs,
		WorkoutExercises: items,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func (w *Workout) SetName(name string)               { w.Name = name; w.touch() }
func (w *Workout) SetDescription(description string) { w.Description = description; w.touch() }
func (w *Workout) SetImage(image string)             { w.Image = image; w.touch() }

func (w *Workout) SetMuscleGroupIDs(ids []MuscleGroupID) {
	w.MuscleGroupIDs = ids
	w.touch()
}

func (w *Workout) SetWorkoutExercises(items []WorkoutExercise) {
	w.WorkoutExercises = items
	w.touch()
}

// ExerciseIDs returns the distinct exercises referenced by the line items.
func (w *Workout) ExerciseIDs() []ExerciseID {
	ids := make([]ExerciseID, 0, len(w.WorkoutExercises))
	for _, we := range w.WorkoutExercises {
		ids, _ = addID(ids, we.ExerciseID)
	}
	return ids
}

func (w *Workout) References(id ExerciseID) bool {
	for _, we := range w.WorkoutExercises {
		if we.ExerciseID == id {
			return true
		}
	}
	return false
}

func (w *Workout) touch() { w.UpdatedAt = time.Now().UTC() }

func (w Workout) SortName() string      { return w.Name }
func (w Workout) Created() time.Time    { return w.CreatedAt }
func (w Workout) Updated() time.Time    { return w.UpdatedAt }
func (w Workout) Matches(q string) bool { return matchesText(q, w.Name, w.Description) }
