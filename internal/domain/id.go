package domain

import (
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Kind markers. Each aggregate gets its own ID type so a WorkoutID can
// never be passed where an ExerciseID is expected.
type (
	UserKind               struct{}
	ExerciseKind           struct{}
	MuscleKind             struct{}
	MuscleGroupKind        struct{}
	WorkoutKind            struct{}
	WorkoutExerciseKind    struct{}
	CoachKind              struct{}
	AdministratorKind      struct{}
	CoachApplicationKind   struct{}
	PasswordResetTokenKind struct{}
	UploadKind             struct{}
)

// ID is an opaque identifier wrapping a UUID, parameterised by aggregate kind.
type ID[K any] struct {
	value uuid.UUID
}

type (
	UserID               = ID[UserKind]
	ExerciseID           = ID[ExerciseKind]
	MuscleID             = ID[MuscleKind]
	MuscleGroupID        = ID[MuscleGroupKind]
	WorkoutID            = ID[WorkoutKind]
	WorkoutExerciseID    = ID[WorkoutExerciseKind]
	CoachID              = ID[CoachKind]
	AdministratorID      = ID[AdministratorKind]
	CoachApplicationID   = ID[CoachApplicationKind]
	PasswordResetTokenID = ID[PasswordResetTokenKind]
	UploadID             = ID[UploadKind]
)

// NewID creates a fresh random identifier.
func NewID[K any]() ID[K] {
	return ID[K]{value: uuid.New()}
}

// IDFromUUID wraps an existing UUID.
func IDFromUUID[K any](v uuid.UUID) ID[K] {
	return ID[K]{value: v}
}

// ParseID parses the canonical string form of an identifier.
func ParseID[K any](s string) (ID[K], error) {
	v, err := uuid.Parse(s)
	if err != nil {
		return ID[K]{}, fmt.Errorf("invalid id %q: %w", s, err)
	}
	return ID[K]{value: v}, nil
}

// ParseIDs parses every element of ss, failing on the first invalid one.
func ParseIDs[K any](ss []string) ([]ID[K], error) {
	ids := make([]ID[K], 0, len(ss))
	for _, s := range ss {
		id, err := ParseID[K](s)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// IDStrings is the inverse of ParseIDs.
func IDStrings[K any](ids []ID[K]) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

func (id ID[K]) UUID() uuid.UUID { return id.value }

func (id ID[K]) String() string { return id.value.String() }

func (id ID[K]) IsZero() bool { return id.value == uuid.Nil }

func (id ID[K]) MarshalText() ([]byte, error) {
	return []byte(id.value.String()), nil
}

func (id *ID[K]) UnmarshalText(b []byte) error {
	v, err := uuid.ParseBytes(b)
	if err != nil {
		return err
	}
	id.value = v
	return nil
}

// MarshalBSONValue stores identifiers as their string form so documents stay
// readable and `$in` / equality filters work on plain strings.
func (id ID[K]) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(id.value.String())
}

func (id *ID[K]) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	s, ok := raw.StringValueOK()
	if !ok {
		return fmt.Errorf("cannot decode %s into id", t)
	}
	v, err := uuid.Parse(s)
	if err != nil {
		return err
	}
	id.value = v
	return nil
}

// containsID reports whether id is present in ids.
func containsID[K any](ids []ID[K], id ID[K]) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// addID appends id if absent and reports whether the set changed.
func addID[K any](ids []ID[K], id ID[K]) ([]ID[K], bool) {
	if containsID(ids, id) {
		return ids, false
	}
	return append(ids, id), true
}

// removeID drops id if present and reports whether the set changed.
func removeID[K any](ids []ID[K], id ID[K]) ([]ID[K], bool) {
	for i, v := range ids {
		if v == id {
			return append(ids[:i:i], ids[i+1:]...), true
		}
	}
	return ids, false
}

// UniqueIDs reports whether ids holds no duplicates.
func UniqueIDs[K any](ids []ID[K]) bool {
	seen := make(map[ID[K]]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return false
		}
		seen[id] = struct{}{}
	}
	return true
}
