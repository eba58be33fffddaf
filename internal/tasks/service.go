package tasks

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/lumenlabs/lumen/backend/internal/faults"
	"github.com/lumenlabs/lumen/backend/internal/identity"
	"github.com/lumenlabs/lumen/backend/internal/storage"
)

var (
	errMissingStore      = errors.New("collection store is required")
	errMissingIDProvider = errors.New("id provider is required")
	noOpLogger           = zap.NewNop()
)

const (
	opServiceNew = "tasks.service.new"
	opCreateTask = "tasks.create_task"
	opUpdateTask = "tasks.update_task"
	opDeleteTask = "tasks.delete_task"
)

// ServiceConfig describes the dependencies of the task repository.
type ServiceConfig struct {
	Store      storage.Store
	Clock      func() time.Time
	IDProvider identity.IDProvider
	Logger     *zap.Logger
}

// Service owns the task collection.
type Service struct {
	collection *storage.Collection[Task]
	clock      func() time.Time
	ids        identity.IDProvider
	logger     *zap.Logger
}

// NewService constructs the task repository.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Store == nil {
		return nil, faults.New(opServiceNew, "missing_store", errMissingStore)
	}
	if cfg.IDProvider == nil {
		return nil, faults.New(opServiceNew, "missing_id_provider", errMissingIDProvider)
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}
	return &Service{
		collection: storage.NewCollection[Task](cfg.Store, CollectionKey, logger),
		clock:      clock,
		ids:        cfg.IDProvider,
		logger:     logger,
	}, nil
}

// ListTasks returns the whole collection in insertion order.
func (s *Service) ListTasks() []Task {
	return s.collection.Load()
}

// CreateTask appends a new task, assigning id and timestamps.
func (s *Service) CreateTask(title, description string, dueDate *time.Time) (Task, error) {
	id, err := s.ids.NewID()
	if err != nil {
		s.logError(opCreateTask, "id_generation_failed", err)
		return Task{}, faults.New(opCreateTask, "id_generation_failed", err)
	}
	now := s.clock().UTC()
	task := Task{
		ID:          id,
		Title:       title,
		Description: description,
		DueDate:     dueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	collection := append(s.collection.Load(), task)
	if err := s.collection.Save(collection); err != nil {
		s.logError(opCreateTask, "collection_write_failed", err)
		return Task{}, faults.New(opCreateTask, "collection_write_failed", err)
	}
	return task, nil
}

// UpdateTask merges the given fields into the existing task and bumps
// UpdatedAt. The first result is false when the id is absent.
func (s *Service) UpdateTask(id string, update TaskUpdate) (bool, error) {
	collection := s.collection.Load()
	for index := range collection {
		if collection[index].ID != id {
			continue
		}
		if update.Title != nil {
			collection[index].Title = *update.Title
		}
		if update.Description != nil {
			collection[index].Description = *update.Description
		}
		if update.Completed != nil {
			collection[index].Completed = *update.Completed
		}
		if update.DueDate != nil {
			collection[index].DueDate = update.DueDate
		}
		collection[index].UpdatedAt = s.clock().UTC()
		if err := s.collection.Save(collection); err != nil {
			s.logError(opUpdateTask, "collection_write_failed", err, zap.String("task_id", id))
			return false, faults.New(opUpdateTask, "collection_write_failed", err)
		}
		return true, nil
	}
	return false, nil
}

// DeleteTask removes the task with the given id. The first result is
// false when the id is absent; no write happens in that case.
func (s *Service) DeleteTask(id string) (bool, error) {
	collection := s.collection.Load()
	remaining := make([]Task, 0, len(collection))
	for _, task := range collection {
		if task.ID != id {
			remaining = append(remaining, task)
		}
	}
	if len(remaining) == len(collection) {
		return false, nil
	}
	if err := s.collection.Save(remaining); err != nil {
		s.logError(opDeleteTask, "collection_write_failed", err, zap.String("task_id", id))
		return false, faults.New(opDeleteTask, "collection_write_failed", err)
	}
	return true, nil
}

func (s *Service) logError(operation, reason string, err error, fields ...zap.Field) {
	attrs := []zap.Field{
		zap.String("operation", operation),
		zap.String("reason", reason),
	}
	if err != nil {
		attrs = append(attrs, zap.Error(err))
	}
	attrs = append(attrs, fields...)
	s.logger.Error("tasks service error", attrs...)
}
