package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"spartanfitness/api/internal/domain"
	"spartanfitness/api/internal/events"
	"spartanfitness/api/internal/notify"
	"spartanfitness/api/internal/repository"
)

// ExerciseDeletedHandler tells everyone affected by an exercise removal: users
// who saved it, coaches whose workouts use it and users who saved those workouts.
type ExerciseDeletedHandler struct {
	users     repository.UserRepository
	coaches   repository.CoachRepository
	exercises repository.ExerciseRepository
	workouts  repository.WorkoutRepository
	mail      mailer
	log       logrus.FieldLogger
}

func NewExerciseDeletedHandler(
	users repository.UserRepository,
	coaches repository.CoachRepository,
	exercises repository.ExerciseRepository,
	workouts repository.WorkoutRepository,
	email notify.EmailProvider,
	log logrus.FieldLogger,
) *ExerciseDeletedHandler {
	return &ExerciseDeletedHandler{
		users:     users,
		coaches:   coaches,
		exercises: exercises,
		workouts:  workouts,
		mail:      mailer{provider: email, log: log},
		log:       log,
	}
}

func (h *ExerciseDeletedHandler) Handle(ctx context.Context, event domain.Event) error {
	e, ok := event.(domain.ExerciseDeleted)
	if !ok {
		return fmt.Errorf("unexpected event %T", event)
	}

	recipients, workouts := h.Recipients(ctx, e.Exercise.ID)
	subject := h.Subject(ctx, &e.Exercise)

	emails := make([]string, 0, len(recipients))
	for _, u := range recipients {
		emails = append(emails, u.Email)
	}
	names := make([]string, 0, len(workouts))
	for _, w := range workouts {
		names = append(names, w.Name)
	}

	h.log.WithFields(logrus.Fields{
		"exercise_id": e.Exercise.ID,
		"recipients":  len(emails),
		"workouts":    len(workouts),
	}).Info("notifying exercise deletion")

	h.mail.send(ctx, notify.TemplateExerciseDeleted, emails, subject, notify.ExerciseDeletedData{
		Subject:  subject,
		Workouts: names,
	})
	return nil
}

// Recipients returns the affected users without duplicates, plus the workouts
// that referenced the exercise. A failed lookup only shrinks the result.
func (h *ExerciseDeletedHandler) Recipients(ctx context.Context, id domain.ExerciseID) ([]domain.User, []domain.Workout) {
	var groups [][]domain.User

	subscribers, err := h.exercises.GetSubscribers(ctx, id)
	h.logLookup(err, "exercise subscribers", id)
	groups = append(groups, subscribers)

	workouts, err := h.workouts.GetByExerciseID(ctx, id)
	h.logLookup(err, "workouts", id)

	if len(workouts) > 0 {
		coachIDs := make([]domain.CoachID, 0, len(workouts))
		workoutIDs := make([]domain.WorkoutID, 0, len(workouts))
		for _, w := range workouts {
			coachIDs = append(coachIDs, w.CoachID)
			workoutIDs = append(workoutIDs, w.ID)
		}

		owners, err := h.users.GetByCoachIDs(ctx, coachIDs)
		h.logLookup(err, "workout coaches", id)
		groups = append(groups, owners)

		workoutSubscribers, err := h.workouts.GetSubscribers(ctx, workoutIDs)
		h.logLookup(err, "workout subscribers", id)
		groups = append(groups, workoutSubscribers)
	}

	return distinctUsers(groups...), workouts
}

// Subject names the creating coach when both the coach profile and its user resolve.
func (h *ExerciseDeletedHandler) Subject(ctx context.Context, exercise *domain.Exercise) string {
	fallback := fmt.Sprintf("%s exercise has been deleted", exercise.Name)

	coach, err := h.coaches.GetByID(ctx, exercise.CreatorID)
	if err != nil {
		h.logLookup(err, "creator coach", exercise.ID)
		return fallback
	}
	user, err := h.users.GetByID(ctx, coach.UserID)
	if err != nil {
		h.logLookup(err, "creator user", exercise.ID)
		return fallback
	}
	return fmt.Sprintf("%s %s's %s exercise has been deleted", user.FirstName, user.LastName, exercise.Name)
}

func (h *ExerciseDeletedHandler) logLookup(err error, what string, id domain.ExerciseID) {
	if err == nil || errors.Is(err, repository.ErrNotFound) {
		return
	}
	h.log.WithError(err).WithField("exercise_id", id).Warnf("lookup of %s failed", what)
}

func distinctUsers(groups ...[]domain.User) []domain.User {
	seen := make(map[domain.UserID]struct{})
	var out []domain.User
	for _, g := range groups {
		for _, u := range g {
			if _, ok := seen[u.ID]; ok {
				continue
			}
			seen[u.ID] = struct{}{}
			out = append(out, u)
		}
	}
	return out
}

// CoachApplicationHandler reacts to decided coach applications.
type CoachApplicationHandler struct {
	users   repository.UserRepository
	coaches repository.CoachRepository
	mail    mailer
	log     logrus.FieldLogger
}

func NewCoachApplicationHandler(
	users repository.UserRepository,
	coaches repository.CoachRepository,
	email notify.EmailProvider,
	log logrus.FieldLogger,
) *CoachApplicationHandler {
	return &CoachApplicationHandler{
		users:   users,
		coaches: coaches,
		mail:    mailer{provider: email, log: log},
		log:     log,
	}
}

// Approved creates the coach profile, grants the coach role and emails the applicant.
// Running it twice for the same application is harmless.
func (h *CoachApplicationHandler) Approved(ctx context.Context, event domain.Event) error {
	e, ok := event.(domain.CoachApplicationApproved)
	if !ok {
		return fmt.Errorf("unexpected event %T", event)
	}
	user, err := h.users.GetByID(ctx, e.Application.UserID)
	if err != nil {
		return notFound(err, domain.ErrUserNotFound)
	}

	_, err = h.coaches.GetByUserID(ctx, user.ID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		if err := h.coaches.Create(ctx, domain.NewCoach(user.ID, e.Application.Note)); err != nil {
			return fmt.Errorf("create coach: %w", err)
		}
	case err != nil:
		return err
	}

	if !user.HasRole(domain.RoleCoach) {
		user.GrantRole(domain.RoleCoach)
		if err := h.users.Update(ctx, user); err != nil {
			return fmt.Errorf("grant coach role: %w", err)
		}
	}

	h.mail.send(ctx, notify.TemplateCoachApplicationApproved, []string{user.Email},
		"Your coach application has been approved",
		notify.CoachApplicationData{FirstName: user.FirstName})
	return nil
}

func (h *CoachApplicationHandler) Denied(ctx context.Context, event domain.Event) error {
	e, ok := event.(domain.CoachApplicationDenied)
	if !ok {
		return fmt.Errorf("unexpected event %T", event)
	}
	user, err := h.users.GetByID(ctx, e.Application.UserID)
	if err != nil {
		return notFound(err, domain.ErrUserNotFound)
	}
	h.mail.send(ctx, notify.TemplateCoachApplicationDenied, []string{user.Email},
		"Your coach application has been declined",
		notify.CoachApplicationData{FirstName: user.FirstName, Remarks: e.Application.Remarks})
	return nil
}

// RegisterHandlers subscribes the service-level handlers to d.
func RegisterHandlers(d *events.Dispatcher, exerciseDeleted *ExerciseDeletedHandler, applications *CoachApplicationHandler) {
	d.Register(domain.EventExerciseDeleted, exerciseDeleted)
	d.Register(domain.EventCoachApplicationApproved, events.HandlerFunc(applications.Approved))
	d.Register(domain.EventCoachApplicationDenied, events.HandlerFunc(applications.Denied))
}
