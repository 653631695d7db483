package postgres

//nolint:revive
import (
	"net"
	"net/url"
	"time"

	"campus/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	maxIdleConnections = 10
	maxOpenConnections = 10
	connMaxLifetime    = 30 * time.Minute
)

// Role selects the read replica or the primary.
type Role string

const (
	RoleRead  Role = "read"
	RoleWrite Role = "write"
)

// Connection holds both pools. Writes and every transaction go to Write.
type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

func New(cfg *config.Config) *Connection {
	return &Connection{
		Read:  connect(cfg, RoleRead),
		Write: connect(cfg, RoleWrite),
	}
}

type target struct {
	host, port, username, password, name, sslMode string
}

func targetOf(cfg *config.Config, role Role) target {
	pg := cfg.DB.Postgres

	if role == RoleRead {
		return target{pg.Read.Host, pg.Read.Port, pg.Read.Username, pg.Read.Password, pg.Prefix + pg.Read.Name, pg.Read.SSLMode}
	}

	return target{pg.Write.Host, pg.Write.Port, pg.Write.Username, pg.Write.Password, pg.Prefix + pg.Write.Name, pg.Write.SSLMode}
}

// DSN builds the connection URL for role. extra is appended to the query string.
func DSN(cfg *config.Config, role Role, extra url.Values) string {
	t := targetOf(cfg, role)

	query := url.Values{}
	if t.sslMode != "" {
		query.Set("sslmode", t.sslMode)
	}

	for key, values := range extra {
		query[key] = values
	}

	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(t.username, t.password),
		Host:     net.JoinHostPort(t.host, t.port),
		Path:     "/" + t.name,
		RawQuery: query.Encode(),
	}

	return dsn.String()
}

func connect(cfg *config.Config, role Role) *sqlx.DB {
	t := targetOf(cfg, role)
	dsn := DSN(cfg, role, nil)
	attempts := max(cfg.DB.Postgres.MaxRetry, 1)
	wait := time.Duration(cfg.DB.Postgres.RetryWaitTime) * time.Second

	logger := log.With().
		Str("role", string(role)).
		Str("host", t.host).
		Str("port", t.port).
		Str("dbName", t.name).
		Logger()

	var err error

	for attempt := 1; attempt <= attempts; attempt++ {
		var db *sqlx.DB

		db, err = sqlx.Connect("postgres", dsn)
		if err == nil {
			db.SetMaxIdleConns(maxIdleConnections)
			db.SetMaxOpenConns(maxOpenConnections)
			db.SetConnMaxLifetime(connMaxLifetime)

			logger.Info().Msg("Connected to database")

			return db
		}

		logger.Error().Err(err).Int("attempt", attempt).Int("of", attempts).Msg("Failed connecting to database")

		if attempt < attempts {
			time.Sleep(wait)
		}
	}

	logger.Fatal().Err(err).Msg("Giving up connecting to database")

	return nil
}
