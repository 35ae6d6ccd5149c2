// Package backend picks the persistence backend once at startup.
package backend

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/bft-labs/practicepicker/internal/adapters/fs"
	resthttp "github.com/bft-labs/practicepicker/internal/adapters/http"
	"github.com/bft-labs/practicepicker/internal/adapters/sqlstore"
	"github.com/bft-labs/practicepicker/internal/cliconfig"
	"github.com/bft-labs/practicepicker/internal/ports"
	"github.com/bft-labs/practicepicker/pkg/log"
)

// Selection is the chosen repository plus a release function.
type Selection struct {
	Repo  ports.SnapshotRepository
	Close func() error
}

// Select chooses the repository for cfg:
//
//  1. a reachable Postgres DSN,
//  2. a valid REST URL and key,
//  3. the local data file (SQLite when its extension says so, JSON otherwise).
//
// Missing remote settings are not an error. An unreachable Postgres DSN is
// logged and skipped.
func Select(ctx context.Context, cfg cliconfig.Config, client ports.HTTPClient, logger log.Logger) Selection {
	if cfg.PostgresDSN != "" {
		repo, err := sqlstore.OpenPostgres(ctx, cfg.PostgresDSN)
		if err == nil {
			logger.Info("using postgres backend")
			return Selection{Repo: repo, Close: repo.Close}
		}
		logger.Warn("postgres unavailable, falling back", log.Err(err))
	}

	if resthttp.ValidCredentials(cfg.RemoteURL, cfg.RemoteKey) {
		logger.Info("using rest backend", log.String("url", cfg.RemoteURL))
		return Selection{Repo: resthttp.NewRESTRepository(client, cfg.RemoteURL, cfg.RemoteKey), Close: noop}
	}
	if cfg.RemoteURL != "" || cfg.RemoteKey != "" {
		logger.Warn("incomplete or invalid remote settings, using local storage")
	}

	if IsSQLitePath(cfg.DataFile) {
		repo, err := sqlstore.OpenSQLite(ctx, cfg.DataFile)
		if err == nil {
			logger.Info("using sqlite backend", log.String("path", cfg.DataFile))
			return Selection{Repo: repo, Close: repo.Close}
		}
		logger.Warn("sqlite unavailable, using json file", log.Err(err))
		return localJSON(strings.TrimSuffix(cfg.DataFile, filepath.Ext(cfg.DataFile))+".json", logger)
	}
	return localJSON(cfg.DataFile, logger)
}

func localJSON(path string, logger log.Logger) Selection {
	logger.Info("using file backend", log.String("path", path))
	return Selection{Repo: fs.NewSnapshotFileRepository(path), Close: noop}
}

// IsSQLitePath reports whether path names a SQLite database by extension.
func IsSQLitePath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	default:
		return false
	}
}

func noop() error { return nil }
