package mongo

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"

	"spartanfitness/api/internal/repository"
)

// mapErr translates driver errors into repository sentinels.
func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return repository.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return repository.ErrDuplicateKey
	}
	return err
}
