package service

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"spartanfitness/api/internal/domain"
	"spartanfitness/api/internal/metrics"
	"spartanfitness/api/internal/notify"
	"spartanfitness/api/internal/paging"
	"spartanfitness/api/internal/repository"
)

// Principal is the authenticated caller, built by the API layer from the access token.
type Principal struct {
	UserID          domain.UserID
	Roles           []domain.Role
	CoachID         *domain.CoachID
	AdministratorID *domain.AdministratorID
}

func (p Principal) HasRole(r domain.Role) bool {
	for _, role := range p.Roles {
		if role == r {
			return true
		}
	}
	return false
}

func (p Principal) IsAdministrator() bool {
	return p.AdministratorID != nil && p.HasRole(domain.RoleAdministrator)
}

// IsCoach reports whether the caller acts as the given coach.
func (p Principal) IsCoach(id domain.CoachID) bool {
	return p.CoachID != nil && *p.CoachID == id && p.HasRole(domain.RoleCoach)
}

// notFound replaces repository.ErrNotFound with the given domain error.
func notFound(err error, replacement *domain.Error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return replacement
	}
	return err
}

// conflict replaces repository.ErrDuplicateKey with the given domain error.
func conflict(err error, replacement *domain.Error) error {
	if errors.Is(err, repository.ErrDuplicateKey) {
		return replacement
	}
	return err
}

// pageOf applies the paging query to an already filtered set.
func pageOf[T paging.Item](items []T, q paging.Query) (paging.Page[T], error) {
	// The repositories already matched q.Search.
	q.Search = ""
	return paging.Resolve(items, q)
}

// parseIDs turns validated id strings into typed ids.
func parseIDs[K any](ss []string) ([]domain.ID[K], error) {
	ids, err := domain.ParseIDs[K](ss)
	if err != nil {
		return nil, domain.Validation("General.InvalidId", err.Error())
	}
	return ids, nil
}

func parseID[K any](s string) (domain.ID[K], error) {
	id, err := domain.ParseID[K](s)
	if err != nil {
		return id, domain.Validation("General.InvalidId", err.Error())
	}
	return id, nil
}

// mailer renders a template and hands it to the email provider.
// Delivery failures are logged and counted, never returned.
type mailer struct {
	provider notify.EmailProvider
	log      logrus.FieldLogger
}

func (m mailer) send(ctx context.Context, template string, recipients []string, subject string, data any) {
	if len(recipients) == 0 {
		return
	}
	body, err := notify.Render(template, data)
	if err == nil {
		err = m.provider.Send(ctx, recipients, subject, body)
	}
	metrics.RecordEmail(template, err)
	if err != nil {
		m.log.WithError(err).WithFields(logrus.Fields{
			"template":   template,
			"recipients": len(recipients),
		}).Error("email delivery failed")
	}
}
