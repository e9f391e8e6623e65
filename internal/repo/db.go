package repo

import (
	"errors"
	"invoicer/internal/model"
	"strings"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"
)

// ErrDuplicate - нарушение уникального индекса (логин, email, номер счёта).
var ErrDuplicate = errors.New("duplicate key")

// InitDB открывает БД по DSN и применяет миграции.
// DSN вида postgres://... или host=... уходит в Postgres, всё остальное - в SQLite (modernc).
func InitDB(dsn string, maxConns int) (*gorm.DB, error) {
	var dial gorm.Dialector
	if isPostgresDSN(dsn) {
		dial = postgres.Open(dsn)
	} else {
		dial = gormsqlite.Dialector{DriverName: "sqlite", DSN: dsn}
	}
	db, err := gorm.Open(dial, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	// пул соединений ограничен, как и в исходной схеме
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if maxConns > 0 {
		sqlDB.SetMaxOpenConns(maxConns)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate создаёт/обновляет таблицы users и invoices.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&model.User{}, &model.Invoice{})
}

func isPostgresDSN(dsn string) bool {
	d := strings.TrimSpace(dsn)
	return strings.HasPrefix(d, "postgres://") ||
		strings.HasPrefix(d, "postgresql://") ||
		strings.Contains(d, "host=")
}

// isUniqueViolation распознаёт нарушение уникальности. Для modernc/sqlite
// gorm не переводит ошибку в ErrDuplicatedKey, поэтому проверяем и текст.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "sqlstate 23505")
}
