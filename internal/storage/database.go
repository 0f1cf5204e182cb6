package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	_ "modernc.org/sqlite"
)

// Store is the single backing store for accounts and studio records.
// It is constructed once in main and shared for the process lifetime.
type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.Open(): failed to open database: %w", err)
	}
	// sqlite allows a single writer; cap the pool so racing lazy-creates
	// serialize into the owner_id unique constraint instead of SQLITE_BUSY
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("storage.Open(): failed to connect to database: %w", err)
	}

	createUsersTable := `
	CREATE TABLE IF NOT EXISTS users (
			"id" INTEGER PRIMARY KEY AUTOINCREMENT,
			"email" TEXT NOT NULL UNIQUE,
			"name" TEXT NOT NULL,
			"password_hash" TEXT NOT NULL
	);`
	// owner_id is UNIQUE so two racing lazy-creates cannot produce a second
	// row for the same account; the loser re-reads the winner's row.
	createStudiosTable := `
	CREATE TABLE IF NOT EXISTS studios (
			"id" INTEGER PRIMARY KEY AUTOINCREMENT,
			"owner_id" INTEGER NOT NULL UNIQUE,
			"name" TEXT NOT NULL DEFAULT '',
			"cnpj" TEXT NOT NULL DEFAULT '',
			"address" TEXT NOT NULL DEFAULT '',
			"phone" TEXT NOT NULL DEFAULT '',
			FOREIGN KEY(owner_id) REFERENCES users(id)
	);`

	if _, err := db.Exec(createUsersTable); err != nil {
		return nil, fmt.Errorf("storage.Open(): failed to create users table: %w", err)
	}
	if _, err := db.Exec(createStudiosTable); err != nil {
		return nil, fmt.Errorf("storage.Open(): failed to create studios table: %w", err)
	}
	log.Println("storage.Open(): init and create tables successfully!")

	return &Store{db: db}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}
