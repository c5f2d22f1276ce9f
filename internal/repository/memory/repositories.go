package memory

import (
	"cmp"
	"context"
	"slices"
	"time"

	"spartanfitness/api/internal/domain"
	"spartanfitness/api/internal/repository"
)

type userRepository struct{ s *Store }

func (r *userRepository) Create(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == user.Email {
			return repository.ErrDuplicateKey
		}
	}
	if _, ok := r.s.users[user.ID]; ok {
		return repository.ErrDuplicateKey
	}
	r.s.users[user.ID] = cloneUser(*user)
	return nil
}

func (r *userRepository) GetByID(_ context.Context, id domain.UserID) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u = cloneUser(u)
	return &u, nil
}

func (r *userRepository) GetByIDs(_ context.Context, ids []domain.UserID) ([]domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.usersByIDs(ids), nil
}

func (s *Store) usersByIDs(ids []domain.UserID) []domain.User {
	out := []domain.User{}
	for id := range setOf(ids...) {
		if u, ok := s.users[id]; ok {
			out = append(out, cloneUser(u))
		}
	}
	slices.SortFunc(out, func(a, b domain.User) int { return cmp.Compare(a.Email, b.Email) })
	return out
}

func (r *userRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Email == email {
			u = cloneUser(u)
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *userRepository) GetByCoachIDs(_ context.Context, coachIDs []domain.CoachID) ([]domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var userIDs []domain.UserID
	for _, id := range coachIDs {
		if c, ok := r.s.coaches[id]; ok {
			userIDs = append(userIDs, c.UserID)
		}
	}
	return r.s.usersByIDs(userIDs), nil
}

func (r *userRepository) Update(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	r.s.users[user.ID] = cloneUser(*user)
	return nil
}

// subscribers returns the users whose saved set, picked by field, intersects ids.
func subscribers[K comparable](s *Store, field func(domain.User) []K, ids ...K) []domain.User {
	want := setOf(ids...)
	var matched []domain.UserID
	for _, u := range s.users {
		for _, id := range field(u) {
			if _, ok := want[id]; ok {
				matched = append(matched, u.ID)
				break
			}
		}
	}
	return s.usersByIDs(matched)
}

type exerciseRepository struct{ s *Store }

func (r *exerciseRepository) Create(_ context.Context, exercise *domain.Exercise) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.exercises {
		if e.ID == exercise.ID || sameName(e.Name, exercise.Name) {
			return repository.ErrDuplicateKey
		}
	}
	r.s.exercises[exercise.ID] = cloneExercise(*exercise)
	return nil
}

func (r *exerciseRepository) GetByID(_ context.Context, id domain.ExerciseID) (*domain.Exercise, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	e, ok := r.s.exercises[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	e = cloneExercise(e)
	return &e, nil
}

func (r *exerciseRepository) GetByName(_ context.Context, name string) (*domain.Exercise, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, e := range r.s.exercises {
		if sameName(e.Name, name) {
			e = cloneExercise(e)
			return &e, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *exerciseRepository) GetByIDs(_ context.Context, ids []domain.ExerciseID, query string) ([]domain.Exercise, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return cloneAll(byIDs(r.s.exercises, ids, query), cloneExercise), nil
}

func (r *exerciseRepository) GetBySearchQuery(_ context.Context, query string) ([]domain.Exercise, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return cloneAll(search(r.s.exercises, query, nil), cloneExercise), nil
}

func (r *exerciseRepository) GetSubscribers(_ context.Context, id domain.ExerciseID) ([]domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return subscribers(r.s, func(u domain.User) []domain.ExerciseID { return u.SavedExerciseIDs }, id), nil
}

func (r *exerciseRepository) Update(_ context.Context, exercise *domain.Exercise) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.exercises[exercise.ID]
	if !ok {
		return repository.ErrNotFound
	}
	for _, e := range r.s.exercises {
		if e.ID != exercise.ID && sameName(e.Name, exercise.Name) {
			return repository.ErrDuplicateKey
		}
	}
	updated := cloneExercise(*exercise)
	updated.CreatorID = stored.CreatorID
	updated.CreatedAt = stored.CreatedAt
	r.s.exercises[exercise.ID] = updated
	return nil
}

func (r *exerciseRepository) Delete(_ context.Context, id domain.ExerciseID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.exercises[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.exercises, id)

	now := time.Now().UTC()
	drop := setOf(id)
	for uid, u := range r.s.users {
		if kept := without(u.SavedExerciseIDs, drop); len(kept) != len(u.SavedExerciseIDs) {
			u.SavedExerciseIDs = kept
			u.UpdatedAt = now
			r.s.users[uid] = u
		}
	}
	for wid, w := range r.s.workouts {
		kept := make([]domain.WorkoutExercise, 0, len(w.WorkoutExercises))
		for _, we := range w.WorkoutExercises {
			if we.ExerciseID != id {
				kept = append(kept, we)
			}
		}
		if len(kept) != len(w.WorkoutExercises) {
			w.WorkoutExercises = kept
			w.UpdatedAt = now
			r.s.workouts[wid] = w
		}
	}
	return nil
}

type muscleGroupRepository struct{ s *Store }

func (r *muscleGroupRepository) Create(_ context.Context, group *domain.MuscleGroup) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, g := range r.s.muscleGroups {
		if g.ID == group.ID || sameName(g.Name, group.Name) {
			return repository.ErrDuplicateKey
		}
	}
	r.s.muscleGroups[group.ID] = cloneMuscleGroup(*group)
	return nil
}

func (r *muscleGroupRepository) GetByID(_ context.Context, id domain.MuscleGroupID) (*domain.MuscleGroup, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	g, ok := r.s.muscleGroups[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	g = cloneMuscleGroup(g)
	return &g, nil
}

func (r *muscleGroupRepository) GetByName(_ context.Context, name string) (*domain.MuscleGroup, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, g := range r.s.muscleGroups {
		if sameName(g.Name, name) {
			g = cloneMuscleGroup(g)
			return &g, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *muscleGroupRepository) GetByIDs(_ context.Context, ids []domain.MuscleGroupID, query string) ([]domain.MuscleGroup, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return cloneAll(byIDs(r.s.muscleGroups, ids, query), cloneMuscleGroup), nil
}

func (r *muscleGroupRepository) GetBySearchQuery(_ context.Context, query string) ([]domain.MuscleGroup, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return cloneAll(search(r.s.muscleGroups, query, nil), cloneMuscleGroup), nil
}

func (r *muscleGroupRepository) Update(_ context.Context, group *domain.MuscleGroup) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.muscleGroups[group.ID]; !ok {
		return repository.ErrNotFound
	}
	for _, g := range r.s.muscleGroups {
		if g.ID != group.ID && sameName(g.Name, group.Name) {
			return repository.ErrDuplicateKey
		}
	}
	r.s.muscleGroups[group.ID] = cloneMuscleGroup(*group)
	return nil
}

func (r *muscleGroupRepository) Delete(_ context.Context, id domain.MuscleGroupID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.muscleGroups[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.muscleGroups, id)

	var muscleIDs []domain.MuscleID
	for mid, m := range r.s.muscles {
		if m.MuscleGroupID == id {
			muscleIDs = append(muscleIDs, mid)
			delete(r.s.muscles, mid)
		}
	}
	r.s.pullMuscles(setOf(muscleIDs...))

	drop := setOf(id)
	now := time.Now().UTC()
	for eid, e := range r.s.exercises {
		if kept := without(e.MuscleGroupIDs, drop); len(kept) != len(e.MuscleGroupIDs) {
			e.MuscleGroupIDs = kept
			e.UpdatedAt = now
			r.s.exercises[eid] = e
		}
	}
	for wid, w := range r.s.workouts {
		if kept := without(w.MuscleGroupIDs, drop); len(kept) != len(w.MuscleGroupIDs) {
			w.MuscleGroupIDs = kept
			w.UpdatedAt = now
			r.s.workouts[wid] = w
		}
	}
	for uid, u := range r.s.users {
		if kept := without(u.SavedMuscleGroupIDs, drop); len(kept) != len(u.SavedMuscleGroupIDs) {
			u.SavedMuscleGroupIDs = kept
			u.UpdatedAt = now
			r.s.users[uid] = u
		}
	}
	return nil
}

// pullMuscles drops muscle ids from groups, exercises and saved sets. Callers hold the write lock.
func (s *Store) pullMuscles(drop map[domain.MuscleID]struct{}) {
	if len(drop) == 0 {
		return
	}
	now := time.Now().UTC()
	for gid, g := range s.muscleGroups {
		if kept := without(g.MuscleIDs, drop); len(kept) != len(g.MuscleIDs) {
			g.MuscleIDs = kept
			g.UpdatedAt = now
			s.muscleGroups[gid] = g
		}
	}
	for eid, e := range s.exercises {
		if kept := without(e.MuscleIDs, drop); len(kept) != len(e.MuscleIDs) {
			e.MuscleIDs = kept
			e.UpdatedAt = now
			s.exercises[eid] = e
		}
	}
	for uid, u := range s.users {
		if kept := without(u.SavedMuscleIDs, drop); len(kept) != len(u.SavedMuscleIDs) {
			u.SavedMuscleIDs = kept
			u.UpdatedAt = now
			s.users[uid] = u
		}
	}
}

type muscleRepository struct{ s *Store }

func (r *muscleRepository) Create(_ context.Context, muscle *domain.Muscle) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, m := range r.s.muscles {
		if m.ID == muscle.ID || sameName(m.Name, muscle.Name) {
			return repository.ErrDuplicateKey
		}
	}
	r.s.muscles[muscle.ID] = *muscle
	return nil
}

func (r *muscleRepository) GetByID(_ context.Context, id domain.MuscleID) (*domain.Muscle, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	m, ok := r.s.muscles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &m, nil
}

func (r *muscleRepository) GetByName(_ context.Context, name string) (*domain.Muscle, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, m := range r.s.muscles {
		if sameName(m.Name, name) {
			return &m, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *muscleRepository) GetByIDs(_ context.Context, ids []domain.MuscleID, query string) ([]domain.Muscle, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return byIDs(r.s.muscles, ids, query), nil
}

func (r *muscleRepository) GetBySearchQuery(_ context.Context, query string) ([]domain.Muscle, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return search(r.s.muscles, query, nil), nil
}

func (r *muscleRepository) GetByMuscleGroupID(_ context.Context, groupID domain.MuscleGroupID) ([]domain.Muscle, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return search(r.s.muscles, "", func(_ domain.MuscleID, m domain.Muscle) bool {
		return m.MuscleGroupID == groupID
	}), nil
}

func (r *muscleRepository) Update(_ context.Context, muscle *domain.Muscle) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.muscles[muscle.ID]; !ok {
		return repository.ErrNotFound
	}
	for _, m := range r.s.muscles {
		if m.ID != muscle.ID && sameName(m.Name, muscle.Name) {
			return repository.ErrDuplicateKey
		}
	}
	r.s.muscles[muscle.ID] = *muscle
	return nil
}

func (r *muscleRepository) Delete(_ context.Context, id domain.MuscleID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.muscles[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.muscles, id)
	r.s.pullMuscles(setOf(id))
	return nil
}

type workoutRepository struct{ s *Store }

func (r *workoutRepository) Create(_ context.Context, workout *domain.Workout) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.workouts[workout.ID]; ok {
		return repository.ErrDuplicateKey
	}
	r.s.workouts[workout.ID] = cloneWorkout(*workout)
	return nil
}

func (r *workoutRepository) GetByID(_ context.Context, id domain.WorkoutID) (*domain.Workout, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	w, ok := r.s.workouts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	w = cloneWorkout(w)
	return &w, nil
}

func (r *workoutRepository) GetByIDs(_ context.Context, ids []domain.WorkoutID, query string) ([]domain.Workout, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return cloneAll(byIDs(r.s.workouts, ids, query), cloneWorkout), nil
}

func (r *workoutRepository) GetBySearchQuery(_ context.Context, query string) ([]domain.Workout, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return cloneAll(search(r.s.workouts, query, nil), cloneWorkout), nil
}

func (r *workoutRepository) GetByCoachID(_ context.Context, coachID domain.CoachID) ([]domain.Workout, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return cloneAll(search(r.s.workouts, "", func(_ domain.WorkoutID, w domain.Workout) bool {
		return w.CoachID == coachID
	}), cloneWorkout), nil
}

func (r *workoutRepository) GetByExerciseID(_ context.Context, exerciseID domain.ExerciseID) ([]domain.Workout, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return cloneAll(search(r.s.workouts, "", func(_ domain.WorkoutID, w domain.Workout) bool {
		return w.References(exerciseID)
	}), cloneWorkout), nil
}

func (r *workoutRepository) GetSubscribers(_ context.Context, ids []domain.WorkoutID) ([]domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if len(ids) == 0 {
		return []domain.User{}, nil
	}
	return subscribers(r.s, func(u domain.User) []domain.WorkoutID { return u.SavedWorkoutIDs }, ids...), nil
}

func (r *workoutRepository) Update(_ context.Context, workout *domain.Workout) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.workouts[workout.ID]
	if !ok {
		return repository.ErrNotFound
	}
	updated := cloneWorkout(*workout)
	updated.CoachID = stored.CoachID
	updated.CreatedAt = stored.CreatedAt
	r.s.workouts[workout.ID] = updated
	return nil
}

func (r *workoutRepository) Delete(_ context.Context, id domain.WorkoutID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.workouts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.workouts, id)
	drop := setOf(id)
	now := time.Now().UTC()
	for uid, u := range r.s.users {
		if kept := without(u.SavedWorkoutIDs, drop); len(kept) != len(u.SavedWorkoutIDs) {
			u.SavedWorkoutIDs = kept
			u.UpdatedAt = now
			r.s.users[uid] = u
		}
	}
	return nil
}

type coachRepository struct{ s *Store }

func (r *coachRepository) Create(_ context.Context, coach *domain.Coach) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.coaches {
		if c.ID == coach.ID || c.UserID == coach.UserID {
			return repository.ErrDuplicateKey
		}
	}
	r.s.coaches[coach.ID] = *coach
	return nil
}

func (r *coachRepository) GetByID(_ context.Context, id domain.CoachID) (*domain.Coach, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.coaches[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (r *coachRepository) GetByUserID(_ context.Context, userID domain.UserID) (*domain.Coach, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, c := range r.s.coaches {
		if c.UserID == userID {
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *coachRepository) Update(_ context.Context, coach *domain.Coach) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.coaches[coach.ID]; !ok {
		return repository.ErrNotFound
	}
	r.s.coaches[coach.ID] = *coach
	return nil
}

type administratorRepository struct{ s *Store }

func (r *administratorRepository) Create(_ context.Context, admin *domain.Administrator) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.admins {
		if a.ID == admin.ID || a.UserID == admin.UserID {
			return repository.ErrDuplicateKey
		}
	}
	r.s.admins[admin.ID] = *admin
	return nil
}

func (r *administratorRepository) GetByUserID(_ context.Context, userID domain.UserID) (*domain.Administrator, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, a := range r.s.admins {
		if a.UserID == userID {
			return &a, nil
		}
	}
	return nil, repository.ErrNotFound
}

type coachApplicationRepository struct{ s *Store }

func (r *coachApplicationRepository) Create(_ context.Context, application *domain.CoachApplication) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.applications {
		if a.ID == application.ID || (a.UserID == application.UserID && a.IsPending() && application.IsPending()) {
			return repository.ErrDuplicateKey
		}
	}
	r.s.applications[application.ID] = cloneApplication(*application)
	return nil
}

func (r *coachApplicationRepository) GetByID(_ context.Context, id domain.CoachApplicationID) (*domain.CoachApplication, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	a, ok := r.s.applications[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	a = cloneApplication(a)
	return &a, nil
}

func (r *coachApplicationRepository) GetPendingByUserID(_ context.Context, userID domain.UserID) (*domain.CoachApplication, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, a := range r.s.applications {
		if a.UserID == userID && a.IsPending() {
			a = cloneApplication(a)
			return &a, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *coachApplicationRepository) GetByStatus(_ context.Context, status domain.CoachApplicationStatus) ([]domain.CoachApplication, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []domain.CoachApplication{}
	for _, a := range r.s.applications {
		if a.Status == status {
			out = append(out, cloneApplication(a))
		}
	}
	slices.SortFunc(out, func(a, b domain.CoachApplication) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return out, nil
}

func (r *coachApplicationRepository) Update(_ context.Context, application *domain.CoachApplication) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.applications[application.ID]; !ok {
		return repository.ErrNotFound
	}
	r.s.applications[application.ID] = cloneApplication(*application)
	return nil
}

type passwordResetTokenRepository struct{ s *Store }

func (r *passwordResetTokenRepository) Create(_ context.Context, token *domain.PasswordResetToken) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, t := range r.s.resetTokens {
		if t.ID == token.ID || t.Value == token.Value {
			return repository.ErrDuplicateKey
		}
	}
	r.s.resetTokens[token.ID] = *token
	return nil
}

func (r *passwordResetTokenRepository) GetByValue(_ context.Context, value string) (*domain.PasswordResetToken, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, t := range r.s.resetTokens {
		if t.Value == value {
			return &t, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *passwordResetTokenRepository) InvalidateForUser(_ context.Context, userID domain.UserID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, t := range r.s.resetTokens {
		if t.UserID == userID && !t.Used && !t.Invalidated {
			t.Invalidate()
			r.s.resetTokens[id] = t
		}
	}
	return nil
}

func (r *passwordResetTokenRepository) Update(_ context.Context, token *domain.PasswordResetToken) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.resetTokens[token.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.Used = token.Used
	stored.Invalidated = token.Invalidated
	r.s.resetTokens[token.ID] = stored
	return nil
}

func (r *passwordResetTokenRepository) DeleteStale(_ context.Context, now time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, t := range r.s.resetTokens {
		if t.Used || t.Invalidated || t.ExpiresAt.Before(now) {
			delete(r.s.resetTokens, id)
			n++
		}
	}
	return n, nil
}

type uploadRepository struct{ s *Store }

func (r *uploadRepository) Create(_ context.Context, upload *domain.Upload) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.uploads {
		if u.ID == upload.ID || u.ObjectKey == upload.ObjectKey {
			return repository.ErrDuplicateKey
		}
	}
	r.s.uploads[upload.ID] = *upload
	return nil
}

func (r *uploadRepository) GetByID(_ context.Context, id domain.UploadID) (*domain.Upload, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.uploads[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *uploadRepository) GetByOwnerID(_ context.Context, ownerID domain.UserID) ([]domain.Upload, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []domain.Upload{}
	for _, u := range r.s.uploads {
		if u.OwnerID == ownerID {
			out = append(out, u)
		}
	}
	slices.SortFunc(out, func(a, b domain.Upload) int { return b.UploadedAt.Compare(a.UploadedAt) })
	return out, nil
}

func (r *uploadRepository) Delete(_ context.Context, id domain.UploadID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.uploads[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.uploads, id)
	return nil
}
