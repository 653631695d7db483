package helper

//nolint:revive
import (
	"errors"
	"fmt"
	"net/url"

	"campus/config"
	"campus/infras/postgres"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"
)

type Action string

const (
	ActionUp      Action = "up"
	ActionStepUp  Action = "step-up"
	ActionDown    Action = "down"
	ActionDrop    Action = "drop"
	ActionVersion Action = "version"
)

var ErrUnknownAction = errors.New("unknown migration action")

// ConnectionString targets the write database. Migrations never run against a replica.
func ConnectionString(config *config.Config) string {
	return postgres.DSN(config, postgres.RoleWrite, url.Values{
		"x-migrations-table": {config.DB.Postgres.MigrationTable},
	})
}

func getConnection(config *config.Config) (*migrate.Migrate, error) {
	mig, err := migrate.New(config.DB.Postgres.MigrationPath, ConnectionString(config))
	if err != nil {
		return nil, fmt.Errorf("error creating migrate instance: %w", err)
	}

	return mig, nil
}

func Runner(config *config.Config, action Action) error {
	mig, err := getConnection(config)
	if err != nil {
		return err
	}

	defer mig.Close()

	switch action {
	case ActionUp:
		err = mig.Up()
	case ActionStepUp:
		err = mig.Steps(1)
	case ActionDown:
		err = mig.Steps(-1)
	case ActionDrop:
		err = mig.Down()
	case ActionVersion:
		version, dirty, err := mig.Version()
		if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
			return fmt.Errorf("error reading migration version: %w", err)
		}

		log.Info().Uint("version", version).Bool("dirty", dirty).Msg("Current database migration version")

		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownAction, action)
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("error running %s migrations: %w", action, err)
	}

	log.Info().Str("action", string(action)).Msg("Database migrations completed successfully")

	return nil
}

func Up(config *config.Config) error {
	return Runner(config, ActionUp)
}
