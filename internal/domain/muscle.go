package domain

import "time"

// MuscleGroup groups muscles, e.g. "Chest" or "Legs".
type MuscleGroup struct {
	ID          MuscleGroupID `bson:"_id" json:"id"`
	CreatorID   CoachID       `bson:"creatorId" json:"creatorId"`
	Name        string        `bson:"name" json:"name"`
	Description string        `bson:"description" json:"description"`
	Image       string        `bson:"image" json:"image"`
	MuscleIDs   []MuscleID    `bson:"muscleIds" json:"muscleIds"`
	CreatedAt   time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time     `bson:"updatedAt" json:"updatedAt"`
}

func NewMuscleGroup(creatorID CoachID, name, description, image string) *MuscleGroup {
	now := time.Now().UTC()
	return &MuscleGroup{
		ID:          NewID[MuscleGroupKind](),
		CreatorID:   creatorID,
		Name:        name,
		Description: description,
		Image:       image,
		MuscleIDs:   []MuscleID{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (mg *MuscleGroup) SetName(name string)               { mg.Name = name; mg.touch() }
func (mg *MuscleGroup) SetDescription(description string) { mg.Description = description; mg.touch() }
func (mg *MuscleGroup) SetImage(image string)             { mg.Image = image; mg.touch() }

func (mg *MuscleGroup) AddMuscle(id MuscleID) {
	var changed bool
	mg.MuscleIDs, changed = addID(mg.MuscleIDs, id)
	if changed {
		mg.touch()
	}
}

func (mg *MuscleGroup) RemoveMuscle(id MuscleID) {
	var changed bool
	mg.MuscleIDs, changed = removeID(mg.MuscleIDs, id)
	if changed {
		mg.touch()
	}
}

func (mg *MuscleGroup) touch() { mg.UpdatedAt = time.Now().UTC() }

func (mg MuscleGroup) SortName() string      { return mg.Name }
func (mg MuscleGroup) Created() time.Time    { return mg.CreatedAt }
func (mg MuscleGroup) Updated() time.Time    { return mg.UpdatedAt }
func (mg MuscleGroup) Matches(q string) bool { return matchesText(q, mg.Name, mg.Description) }

// Muscle belongs to exactly one muscle group.
type Muscle struct {
	ID            MuscleID      `bson:"_id" json:"id"`
	MuscleGroupID MuscleGroupID `bson:"muscleGroupId" json:"muscleGroupId"`
	Name          string        `bson:"name" json:"name"`
	Description   string        `bson:"description" json:"description"`
	Image         string        `bson:"image" json:"image"`
	CreatedAt     time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time     `bson:"updatedAt" json:"updatedAt"`
}

func NewMuscle(muscleGroupID MuscleGroupID, name, description, image string) *Muscle {
	now := time.Now().UTC()
	return &Muscle{
		ID:            NewID[MuscleKind](),
		MuscleGroupID: muscleGroupID,
		Name:          name,
		Description:   description,
		Image:         image,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func (m *Muscle) SetName(name string)               { m.Name = name; m.touch() }
func (m *Muscle) SetDescription(description string) { m.Description = description; m.touch() }
func (m *Muscle) SetImage(image string)             { m.Image = image; m.touch() }

func (m *Muscle) touch() { m.UpdatedAt = time.Now().UTC() }

func (m Muscle) SortName() string      { return m.Name }
func (m Muscle) Created() time.Time    { return m.CreatedAt }
func (m Muscle) Updated() time.Time    { return m.UpdatedAt }
func (m Muscle) Matches(q string) bool { return matchesText(q, m.Name, m.Description) }
