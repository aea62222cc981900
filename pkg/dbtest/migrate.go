// Package dbtest prepares a real database for integration tests.
package dbtest

import (
	"fmt"
	"os"
	"strings"

	"github.com/jmoiron/sqlx"
)

// MigrateFromFile executes every SQL file in order over db.
func MigrateFromFile(db *sqlx.DB, fileNames ...string) error {
	for _, fileName := range fileNames {
		query, err := os.ReadFile(fileName)
		if err != nil {
			return fmt.Errorf("os.ReadFile: %w", err)
		}

		if _, err = db.Exec(string(query)); err != nil {
			return fmt.Errorf("db.Exec(%s): %w", fileName, err)
		}
	}

	return nil
}

// Truncate empties tables and resets their identity sequences.
func Truncate(db *sqlx.DB, tables ...string) error {
	if len(tables) == 0 {
		return nil
	}

	if _, err := db.Exec("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY"); err != nil {
		return fmt.Errorf("db.Exec: %w", err)
	}

	return nil
}
