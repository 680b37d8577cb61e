package db

import (
	"context"
	"errors"

	"github.com/geocoder89/taskhub/internal/apperr"
	"github.com/geocoder89/taskhub/internal/config"
	"github.com/geocoder89/taskhub/internal/domain/user"
)

type Registrar interface {
	Register(ctx context.Context, name, email, password string) (user.Public, error)
}

// EnsureSeedUser registers the configured demo account once. It is a no-op
// when the seed settings are empty or the account already exists.
func EnsureSeedUser(ctx context.Context, reg Registrar, cfg config.Config) (bool, error) {
	if cfg.SeedUserEmail == "" || cfg.SeedUserPassword == "" {
		return false, nil
	}

	name := cfg.SeedUserName
	if name == "" {
		name = "Demo User"
	}

	_, err := reg.Register(ctx, name, cfg.SeedUserEmail, cfg.SeedUserPassword)
	if err != nil {
		if errors.Is(err, apperr.ErrDuplicateUser) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}
