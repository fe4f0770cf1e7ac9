package backend

import (
	"context"
	"errors"
	"fmt"

	domain "github.com/example/taskflow/domain/taskflow"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// SQLite stores each kind in its own table keyed by id.
type SQLite struct {
	db *gorm.DB
}

// OpenSQLite opens the database at path and migrates the schema.
func OpenSQLite(path string, debug bool) (*SQLite, error) {
	logLevel := logger.Silent
	if debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// One connection keeps ":memory:" databases shared and serialises writers.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	s, err := NewSQLite(db)
	if err != nil {
		sqlDB.Close()
		return nil, err
	}
	return s, nil
}

// NewSQLite wraps an open connection and runs the idempotent migration.
func NewSQLite(db *gorm.DB) (*SQLite, error) {
	if err := db.AutoMigrate(&domain.Workspace{}, &domain.Project{}, &domain.Task{}, &domain.Subtask{}); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Name() string {
	return "sqlite"
}

func (s *SQLite) Put(ctx context.Context, kind domain.Kind, entity domain.Entity) (domain.Entity, error) {
	if err := checkKind(kind, entity); err != nil {
		return nil, err
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(entity).Error
	if err != nil {
		return nil, txError("put", kind, entity.EntityID(), err)
	}
	return entity, nil
}

func (s *SQLite) GetAll(ctx context.Context, kind domain.Kind) ([]domain.Entity, error) {
	db := s.db.WithContext(ctx)
	var (
		out []domain.Entity
		err error
	)
	switch kind {
	case domain.KindWorkspaces:
		out, err = findAll[domain.Workspace](db)
	case domain.KindProjects:
		out, err = findAll[domain.Project](db)
	case domain.KindTasks:
		out, err = findAll[domain.Task](db)
	case domain.KindSubtasks:
		out, err = findAll[domain.Subtask](db)
	default:
		return nil, checkKind(kind, nil)
	}
	if err != nil {
		return nil, txError("getAll", kind, "", err)
	}
	return out, nil
}

func (s *SQLite) Get(ctx context.Context, kind domain.Kind, id string) (domain.Entity, error) {
	entity, err := kind.New()
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).First(entity, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, txError("get", kind, id, err)
	}
	return entity, nil
}

func (s *SQLite) Delete(ctx context.Context, kind domain.Kind, id string) error {
	model, err := kind.New()
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Where("id = ?", id).Delete(model).Error; err != nil {
		return txError("delete", kind, id, err)
	}
	return nil
}

func (s *SQLite) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

func (s *SQLite) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

// findAll loads a whole table and converts each row to an Entity.
func findAll[T any, PT interface {
	*T
	domain.Entity
}](db *gorm.DB) ([]domain.Entity, error) {
	var rows []T
	if err := db.Order("rowid").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Entity, len(rows))
	for i := range rows {
		out[i] = PT(&rows[i])
	}
	return out, nil
}
