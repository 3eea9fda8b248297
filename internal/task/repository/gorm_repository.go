package repository

import (
	"encoding/json"
	"errors"
	"log"
	"time"

	"taskpilot-backend/internal/task/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TaskCollection is the persisted form of one user's task list: a single
// JSON blob keyed by user id.
type TaskCollection struct {
	UserID    string    `gorm:"primaryKey;column:user_id"`
	Data      []byte    `gorm:"column:data"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

// TableName overrides the GORM default
func (TaskCollection) TableName() string { return "task_collections" }

// gormTaskStore implements TaskStore on a relational table with one
// collection row per user.
type gormTaskStore struct {
	db *gorm.DB
}

// NewGormTaskStore creates a new GORM-based TaskStore
func NewGormTaskStore(db *gorm.DB) TaskStore {
	db.AutoMigrate(&TaskCollection{})
	return &gormTaskStore{db: db}
}

func (s *gormTaskStore) Load(userID string) ([]domain.Task, error) {
	return loadCollection(s.db, userID)
}

func loadCollection(db *gorm.DB, userID string) ([]domain.Task, error) {
	var row TaskCollection
	err := db.Where("user_id = ?", userID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []domain.Task{}, nil
		}
		return nil, domain.NewStorageError("read", err)
	}
	return decodeCollection(userID, row.Data), nil
}

// decodeCollection treats a corrupted blob as an empty collection rather
// than a fatal error.
func decodeCollection(userID string, data []byte) []domain.Task {
	if len(data) == 0 {
		return []domain.Task{}
	}
	var tasks []domain.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		log.Printf("[TaskStore] Discarding unparseable collection for user %s: %v", userID, err)
		return []domain.Task{}
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	return tasks
}

func (s *gormTaskStore) Save(userID string, tasks []domain.Task) error {
	return saveCollection(s.db, userID, tasks)
}

func saveCollection(db *gorm.DB, userID string, tasks []domain.Task) error {
	if tasks == nil {
		tasks = []domain.Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return domain.NewStorageError("write", err)
	}
	row := TaskCollection{
		UserID:    userID,
		Data:      data,
		UpdatedAt: time.Now(),
	}
	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return domain.NewStorageError("write", err)
	}
	return nil
}

// Mutate wraps the read-modify-write cycle in one transaction so an aborted
// compute step never leaves a half-written collection behind.
func (s *gormTaskStore) Mutate(userID string, fn func(tasks []domain.Task) ([]domain.Task, error)) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		tasks, err := loadCollection(tx, userID)
		if err != nil {
			return err
		}
		next, err := fn(tasks)
		if err != nil {
			return err
		}
		return saveCollection(tx, userID, next)
	})
}

func (s *gormTaskStore) Clear(userID string) error {
	err := s.db.Where("user_id = ?", userID).Delete(&TaskCollection{}).Error
	if err != nil {
		return domain.NewStorageError("clear", err)
	}
	return nil
}

func (s *gormTaskStore) All() ([]UserTasks, error) {
	var rows []TaskCollection
	if err := s.db.Find(&rows).Error; err != nil {
		return nil, domain.NewStorageError("read", err)
	}
	out := make([]UserTasks, 0, len(rows))
	for _, row := range rows {
		out = append(out, UserTasks{
			UserID: row.UserID,
			Tasks:  decodeCollection(row.UserID, row.Data),
		})
	}
	return out, nil
}
