package app

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/Egor213/ExceptionSieve/internal/config"
	errorsUtils "github.com/Egor213/ExceptionSieve/pkg/errors"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	log "github.com/sirupsen/logrus"
)

const (
	defaultAttempts = 10
	defaultTimeout  = time.Second
)

// Migrate applies every pending migration from cfg.MigrationsPath.
func Migrate(cfg config.PG) error {
	dbURL, err := migrationURL(cfg.URL)
	if err != nil {
		return errorsUtils.WrapPathErr(err)
	}

	if _, err := os.Stat(cfg.MigrationsPath); os.IsNotExist(err) {
		return fmt.Errorf("migrations directory %q does not exist", cfg.MigrationsPath)
	}
	log.WithField("path", cfg.MigrationsPath).Info("Applying migrations")

	var mgrt *migrate.Migrate
	for attempts := defaultAttempts; attempts > 0; attempts-- {
		mgrt, err = migrate.New("file://"+cfg.MigrationsPath, dbURL)
		if err == nil {
			break
		}
		log.Infof("Postgres trying to connect, attempts left: %d", attempts-1)
		time.Sleep(defaultTimeout)
	}
	if err != nil {
		return errorsUtils.WrapPathErr(err)
	}
	defer mgrt.Close()

	err = mgrt.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		log.Info("Migration no change")
		return nil
	case err != nil:
		return errorsUtils.WrapPathErr(err)
	}

	version, dirty, _ := mgrt.Version()
	log.WithFields(log.Fields{"version": version, "dirty": dirty}).Info("Migration successful up")
	return nil
}

// migrationURL disables TLS unless the URL already chooses an sslmode.
func migrationURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	q := u.Query()
	if q.Get("sslmode") == "" {
		q.Set("sslmode", "disable")
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}
