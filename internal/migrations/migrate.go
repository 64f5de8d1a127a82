package migrations

import (
	"database/sql"
	"embed"
	"fmt"
	"strings"
	"sync"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

const sqliteDialect = "sqlite3"

//go:embed sql/*.sql
var embedded embed.FS

// goose keeps its settings in package globals.
var mu sync.Mutex

// Up runs all pending SQL migrations embedded in the binary.
func Up(db *sql.DB, log *zap.Logger) error {
	mu.Lock()
	defer mu.Unlock()

	goose.SetBaseFS(embedded)
	goose.SetLogger(gooseLogger{log: log.Sugar().Named("goose")})

	if err := goose.SetDialect(sqliteDialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	if err := goose.Up(db, "sql"); err != nil {
		return fmt.Errorf("run goose up migrations: %w", err)
	}

	return nil
}

// gooseLogger routes goose output through zap.
type gooseLogger struct {
	log *zap.SugaredLogger
}

func (l gooseLogger) Printf(format string, v ...any) {
	l.log.Infof(strings.TrimSuffix(format, "\n"), v...)
}

func (l gooseLogger) Fatalf(format string, v ...any) {
	l.log.Fatalf(strings.TrimSuffix(format, "\n"), v...)
}
