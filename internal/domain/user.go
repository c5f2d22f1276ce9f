package domain

import (
	"strings"
	"time"
)

// Role names carried in access tokens.
type Role string

const (
	RoleUser          Role = "user"
	RoleCoach         Role = "coach"
	RoleAdministrator Role = "administrator"
)

// User is an account. The four saved-id sets are bookmarks with set semantics.
type User struct {
	ID             UserID `bson:"_id" json:"id"`
	FirstName      string `bson:"firstName" json:"firstName"`
	LastName       string `bson:"lastName" json:"lastName"`
	ProfileImage   string `bson:"profileImage" json:"profileImage"`
	Email          string `bson:"email" json:"email"`
	PasswordHash   string `bson:"passwordHash" json:"-"`
	Roles          []Role `bson:"roles" json:"roles"`
	EmailConfirmed bool   `bson:"emailConfirmed" json:"emailConfirmed"`

	SavedExerciseIDs    []ExerciseID    `bson:"savedExerciseIds" json:"savedExerciseIds"`
	SavedMuscleIDs      []MuscleID      `bson:"savedMuscleIds" json:"savedMuscleIds"`
	SavedMuscleGroupIDs []MuscleGroupID `bson:"savedMuscleGroupIds" json:"savedMuscleGroupIds"`
	SavedWorkoutIDs     []WorkoutID     `bson:"savedWorkoutIds" json:"savedWorkoutIds"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// NewUser creates an unconfirmed account with the plain user role.
func NewUser(firstName, lastName, profileImage, email, passwordHash string) *User {
	now := time.Now().UTC()
	return &User{
		ID:                  NewID[UserKind](),
		FirstName:           firstName,
		LastName:            lastName,
		ProfileImage:        profileImage,
		Email:               strings.ToLower(strings.TrimSpace(email)),
		PasswordHash:        passwordHash,
		Roles:               []Role{RoleUser},
		SavedExerciseIDs:    []ExerciseID{},
		SavedMuscleIDs:      []MuscleID{},
		SavedMuscleGroupIDs: []MuscleGroupID{},
		SavedWorkoutIDs:     []WorkoutID{},
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func (u *User) HasRole(r Role) bool {
	for _, role := range u.Roles {
		if role == r {
			return true
		}
	}
	return false
}

func (u *User) GrantRole(r Role) {
	if u.HasRole(r) {
		return
	}
	u.Roles = append(u.Roles, r)
	u.touch()
}

func (u *User) SetPasswordHash(hash string) {
	u.PasswordHash = hash
	u.touch()
}

func (u *User) ConfirmEmail() {
	if u.EmailConfirmed {
		return
	}
	u.EmailConfirmed = true
	u.touch()
}

func (u *User) SetProfile(firstName, lastName, profileImage string) {
	u.FirstName = firstName
	u.LastName = lastName
	u.ProfileImage = profileImage
	u.touch()
}

func (u *User) HasSavedExercise(id ExerciseID) bool { return containsID(u.SavedExerciseIDs, id) }
func (u *User) HasSavedMuscle(id MuscleID) bool     { return containsID(u.SavedMuscleIDs, id) }
func (u *User) HasSavedMuscleGroup(id MuscleGroupID) bool {
	return containsID(u.SavedMuscleGroupIDs, id)
}
func (u *User) HasSavedWorkout(id WorkoutID) bool { return containsID(u.SavedWorkoutIDs, id) }

// SaveExercise adds id to the saved set. Returns false if it was already there.
func (u *User) SaveExercise(id ExerciseID) bool {
	var changed bool
	u.SavedExerciseIDs, changed = addID(u.SavedExerciseIDs, id)
	u.touchIf(changed)
	return changed
}

func (u *User) UnsaveExercise(id ExerciseID) bool {
	var changed bool
	u.SavedExerciseIDs, changed = removeID(u.SavedExerciseIDs, id)
	u.touchIf(changed)
	return changed
}

func (u *User) SaveMuscle(id MuscleID) bool {
	var changed bool
	u.SavedMuscleIDs, changed = addID(u.SavedMuscleIDs, id)
	u.touchIf(changed)
	return changed
}

func (u *User) UnsaveMuscle(id MuscleID) bool {
	var changed bool
	u.SavedMuscleIDs, changed = removeID(u.SavedMuscleIDs, id)
	u.touchIf(changed)
	return changed
}

// SaveMuscleGroups adds every id, returning how many were new.
func (u *User) SaveMuscleGroups(ids []MuscleGroupID) int {
	added := 0
	for _, id := range ids {
		var changed bool
		u.SavedMuscleGroupIDs, changed = addID(u.SavedMuscleGroupIDs, id)
		if changed {
			added++
		}
	}
	u.touchIf(added > 0)
	return added
}

func (u *User) UnsaveMuscleGroup(id MuscleGroupID) bool {
	var changed bool
	u.SavedMuscleGroupIDs, changed = removeID(u.SavedMuscleGroupIDs, id)
	u.touchIf(changed)
	return changed
}

func (u *User) SaveWorkout(id WorkoutID) bool {
	var changed bool
	u.SavedWorkoutIDs, changed = addID(u.SavedWorkoutIDs, id)
	u.touchIf(changed)
	return changed
}

func (u *User) UnsaveWorkout(id WorkoutID) bool {
	var changed bool
	u.SavedWorkoutIDs, changed = removeID(u.SavedWorkoutIDs, id)
	u.touchIf(changed)
	return changed
}

func (u *User) touch() { u.UpdatedAt = time.Now().UTC() }

func (u *User) touchIf(changed bool) {
	if changed {
		u.touch()
	}
}
