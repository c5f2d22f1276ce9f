// internal/domain/exercise.go
package domain

import (
	"strings"
	"time"
)

// Exercise is a single exercise definition in the library, owned by the coach who created it.
type Exercise struct {
	ID             ExerciseID      `bson:"_id" json:"id"`
	CreatorID      CoachID         `bson:"creatorId" json:"creatorId"`
	Name           string          `bson:"name" json:"name"`
	Description    string          `bson:"description" json:"description"`
	Image          string          `bson:"image" json:"image"`
	Video          string          `bson:"video" json:"video"`
	MuscleIDs      []MuscleID      `bson:"muscleIds" json:"muscleIds"`
	MuscleGroupIDs []MuscleGroupID `bson:"muscleGroupIds" json:"muscleGroupIds"`
	CreatedAt      time.Time       `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time       `bson:"updatedAt" json:"updatedAt"`

	eventRecorder `bson:"-" json:"-"`
}

func NewExercise(creatorID CoachID, name, description, image, video string, muscleIDs []MuscleID, muscleGroupIDs []MuscleGroupID) *Exercise {
	now := time.Now().UTC()
	if muscleIDs == nil {
		muscleIDs = []MuscleID{}
	}
	if muscleGroupIDs == nil {
		muscleGroupIDs = []MuscleGroupID{}
	}
	return &Exercise{
		ID:             NewID[ExerciseKind](),
		CreatorID:      creatorID,
		Name:           name,
		Description:    description,
		Image:          image,
		Video:          video,
		MuscleIDs:      muscleIDs,
		MuscleGroupIDs: muscleGroupIDs,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func (e *Exercise) SetName(name string)               { e.Name = name; e.touch() }
func (e *Exercise) SetDescription(description string) { e.Description = description; e.touch() }
func (e *Exercise) SetImage(image string)             { e.Image = image; e.touch() }
func (e *Exercise) SetVideo(video string)             { e.Video = video; e.touch() }

func (e *Exercise) SetMuscleIDs(ids []MuscleID) {
	e.MuscleIDs = ids
	e.touch()
}

func (e *Exercise) SetMuscleGroupIDs(ids []MuscleGroupID) {
	e.MuscleGroupIDs = ids
	e.touch()
}

// Delete records the ExerciseDeleted event. Persistence is the caller's job.
func (e *Exercise) Delete() {
	snapshot := *e
	snapshot.eventRecorder = eventRecorder{}
	e.record(ExerciseDeleted{Exercise: snapshot, At: time.Now().UTC()})
}

func (e *Exercise) touch() { e.UpdatedAt = time.Now().UTC() }

// Paging accessors.
func (e Exercise) SortName() string      { return e.Name }
func (e Exercise) Created() time.Time    { return e.CreatedAt }
func (e Exercise) Updated() time.Time    { return e.UpdatedAt }
func (e Exercise) Matches(q string) bool { return matchesText(q, e.Name, e.Description) }

// matchesText is a case-insensitive substring match over the given fields.
func matchesText(q string, fields ...string) bool {
	q = strings.ToLower(q)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}
