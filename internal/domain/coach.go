package domain

import "time"

// Coach is the coaching profile attached to a user account.
type Coach struct {
	ID        CoachID   `bson:"_id" json:"id"`
	UserID    UserID    `bson:"userId" json:"userId"`
	Biography string    `bson:"biography" json:"biography"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

func NewCoach(userID UserID, biography string) *Coach {
	now := time.Now().UTC()
	return &Coach{
		ID:        NewID[CoachKind](),
		UserID:    userID,
		Biography: biography,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (c *Coach) SetBiography(biography string) {
	c.Biography = biography
	c.UpdatedAt = time.Now().UTC()
}

// Administrator is the admin profile attached to a user account.
type Administrator struct {
	ID        AdministratorID `bson:"_id" json:"id"`
	UserID    UserID          `bson:"userId" json:"userId"`
	CreatedAt time.Time       `bson:"createdAt" json:"createdAt"`
}

func NewAdministrator(userID UserID) *Administrator {
	return &Administrator{
		ID:        NewID[AdministratorKind](),
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
}

// CoachApplicationStatus tracks an application's lifecycle.
type CoachApplicationStatus string

const (
	ApplicationPending  CoachApplicationStatus = "pending"
	ApplicationApproved CoachApplicationStatus = "approved"
	ApplicationDenied   CoachApplicationStatus = "denied"
)

// CoachApplication is a user's request to become a coach, decided by an administrator.
type CoachApplication struct {
	ID        CoachApplicationID     `bson:"_id" json:"id"`
	UserID    UserID                 `bson:"userId" json:"userId"`
	Note      string                 `bson:"note" json:"note"`
	Status    CoachApplicationStatus `bson:"status" json:"status"`
	Remarks   string                 `bson:"remarks,omitempty" json:"remarks,omitempty"`
	ClosedBy  *AdministratorID       `bson:"closedBy,omitempty" json:"closedBy,omitempty"`
	CreatedAt time.Time              `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time              `bson:"updatedAt" json:"updatedAt"`

	eventRecorder `bson:"-" json:"-"`
}

func NewCoachApplication(userID UserID, note string) *CoachApplication {
	now := time.Now().UTC()
	return &CoachApplication{
		ID:        NewID[CoachApplicationKind](),
		UserID:    userID,
		Note:      note,
		Status:    ApplicationPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (a *CoachApplication) IsPending() bool { return a.Status == ApplicationPending }

// Approve closes the application and raises CoachApplicationApproved.
func (a *CoachApplication) Approve(by AdministratorID) error {
	if err := a.close(ApplicationApproved, by, ""); err != nil {
		return err
	}
	a.record(CoachApplicationApproved{Application: a.snapshot(), At: a.UpdatedAt})
	return nil
}

// Deny closes the application and raises CoachApplicationDenied.
func (a *CoachApplication) Deny(by AdministratorID, remarks string) error {
	if err := a.close(ApplicationDenied, by, remarks); err != nil {
		return err
	}
	a.record(CoachApplicationDenied{Application: a.snapshot(), At: a.UpdatedAt})
	return nil
}

func (a *CoachApplication) close(status CoachApplicationStatus, by AdministratorID, remarks string) error {
	if !a.IsPending() {
		return ErrCoachApplicationClosed
	}
	a.Status = status
	a.ClosedBy = &by
	a.Remarks = remarks
	a.UpdatedAt = time.Now().UTC()
	return nil
}

func (a *CoachApplication) snapshot() CoachApplication {
	s := *a
	s.eventRecorder = eventRecorder{}
	return s
}
