package db

import (
	"github.com/pkg/errors"

	"github.com/palatebot/palate/internal/profile"
	"github.com/palatebot/palate/store"
	"github.com/palatebot/palate/store/db/postgres"
	"github.com/palatebot/palate/store/db/sqlite"
)

// NewDBDriver creates new db driver based on profile.
// SQLite is the default and needs no external service; PostgreSQL is for
// deployments that already run one.
func NewDBDriver(profile *profile.Profile) (store.Driver, error) {
	var driver store.Driver
	var err error

	switch profile.Driver {
	case "sqlite":
		driver, err = sqlite.NewDB(profile)
	case "postgres":
		driver, err = postgres.NewDB(profile)
	default:
		return nil, errors.New("unknown db driver: only 'sqlite' and 'postgres' are supported")
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to create db driver")
	}
	return driver, nil
}
