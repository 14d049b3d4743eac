package migrations

import (
	"context"
	"embed"
	"io/fs"
	"sort"

	"booking-core/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
)

//go:embed *.sql
var files embed.FS

type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Apply runs every embedded schema file in name order. The files are
// written with IF NOT EXISTS so applying twice is harmless.
func Apply(ctx context.Context, db Execer) error {
	names, err := fs.Glob(files, "*.sql")
	if err != nil {
		return errs.Wrap(err, "list migrations")
	}
	sort.Strings(names)

	for _, name := range names {
		content, err := files.ReadFile(name)
		if err != nil {
			return errs.Wrapf(err, "read migration %s", name)
		}
		if _, err := db.Exec(ctx, string(content)); err != nil {
			return errs.Wrapf(err, "apply migration %s", name)
		}
	}
	return nil
}
