package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/fawkesdbs/roadguard/internal/domain"
)

// State is a signed-in session: the bearer token and the profile it belongs
// to. A nil State means no session is stored.
type State struct {
	Token string
	User  *domain.Profile
}

// Store persists session state across process restarts.
type Store interface {
	Load(ctx context.Context) (*State, error)
	Save(ctx context.Context, state *State) error
	Clear(ctx context.Context) error
}

// The table holds at most one row. Keeping the row keyed on a constant id
// makes Save an upsert and Load a primary-key lookup.
const stateRowID = 1

type stateRow struct {
	ID        int    `gorm:"primaryKey"`
	Token     string `gorm:"not null"`
	UserJSON  []byte `gorm:"not null"`
	UpdatedAt time.Time
}

func (stateRow) TableName() string { return "session_state" }

// FileStore keeps the session in a local SQLite file via gorm.
type FileStore struct {
	db *gorm.DB
}

// OpenStore opens (and migrates) the session database at path. ":memory:"
// works and is what the tests use.
func OpenStore(path string) (*FileStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	if err := db.AutoMigrate(&stateRow{}); err != nil {
		return nil, fmt.Errorf("migrate session store: %w", err)
	}
	return &FileStore{db: db}, nil
}

func (s *FileStore) Load(ctx context.Context) (*State, error) {
	var row stateRow
	err := s.db.WithContext(ctx).First(&row, stateRowID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	var user domain.Profile
	if err := json.Unmarshal(row.UserJSON, &user); err != nil {
		return nil, fmt.Errorf("decode stored session: %w", err)
	}
	return &State{Token: row.Token, User: &user}, nil
}

func (s *FileStore) Save(ctx context.Context, state *State) error {
	userJSON, err := json.Marshal(state.User)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	row := stateRow{ID: stateRowID, Token: state.Token, UserJSON: userJSON, UpdatedAt: time.Now()}
	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *FileStore) Clear(ctx context.Context) error {
	if err := s.db.WithContext(ctx).Delete(&stateRow{}, stateRowID).Error; err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
