package services

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"garrison/internal/events"

	"gorm.io/gorm"
)

// Scope is a reusable query fragment applied on top of List filters, in
// the shape gorm's Scopes expects.
type Scope = func(*gorm.DB) *gorm.DB

// DateWindow scopes a query to records with a date column inside
// [start, end). Nil bounds are open.
func DateWindow(start, end *time.Time) Scope {
	return func(db *gorm.DB) *gorm.DB {
		if start != nil {
			db = db.Where("date >= ?", *start)
		}
		if end != nil {
			db = db.Where("date < ?", *end)
		}
		return db
	}
}

// CrudService interface defines common CRUD operations
type CrudService[T any] interface {
	Create(ctx context.Context, entity *T) error
	Get(ctx context.Context, id string, includes ...string) (*T, error)
	List(ctx context.Context, filters map[string]interface{}, includes ...string) ([]T, error)
	ListScoped(ctx context.Context, filters map[string]interface{}, scopes ...Scope) ([]T, error)
	Update(ctx context.Context, id string, entity *T) error
	UpdateColumn(ctx context.Context, id string, column string, value interface{}) error
	Delete(ctx context.Context, id string) error
}

// CrudServiceImpl implements CrudService
type CrudServiceImpl[T any] struct {
	db        *gorm.DB
	modelType T
}

func GormTableName(db *gorm.DB, v any) string {
	structName := reflect.TypeOf(v).Name()
	return db.NamingStrategy.TableName(structName)
}

// NewCrudService creates a new generic CRUD service
func NewCrudService[T any](db *gorm.DB, modelType T) CrudService[T] {
	return &CrudServiceImpl[T]{
		db:        db,
		modelType: modelType,
	}
}

// applyIncludes adds preload statements to the query for each include
func (s *CrudServiceImpl[T]) applyIncludes(query *gorm.DB, includes ...string) *gorm.DB {
	for _, include := range includes {
		query = query.Preload(include)
	}
	return query
}

func (s *CrudServiceImpl[T]) Create(ctx context.Context, entity *T) error {
	if err := s.db.WithContext(ctx).Create(entity).Error; err != nil {
		return err
	}

	events.Emit(fmt.Sprintf("%s.created", GormTableName(s.db, s.modelType)), entity)

	return nil
}

func (s *CrudServiceImpl[T]) Get(ctx context.Context, id string, includes ...string) (*T, error) {
	var entity T
	query := s.db.WithContext(ctx)
	query = s.applyIncludes(query, includes...)
	query = query.Where("is_deleted = ?", false)

	if err := query.First(&entity, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &entity, nil
}

func (s *CrudServiceImpl[T]) List(ctx context.Context, filters map[string]interface{}, includes ...string) ([]T, error) {
	var entities []T

	query := s.db.WithContext(ctx).Model(s.modelType)
	for key, value := range filters {
		query = query.Where(key+" = ?", value)
	}
	query = s.applyIncludes(query, includes...)
	query = query.Where("is_deleted = ?", false)
	query = query.Order("created_at DESC")

	if err := query.Find(&entities).Error; err != nil {
		return nil, err
	}

	return entities, nil
}

// ListScoped is List with extra query scopes and no preloads.
func (s *CrudServiceImpl[T]) ListScoped(ctx context.Context, filters map[string]interface{}, scopes ...Scope) ([]T, error) {
	var entities []T

	query := s.db.WithContext(ctx).Model(s.modelType)
	for key, value := range filters {
		query = query.Where(key+" = ?", value)
	}
	query = query.Scopes(scopes...)
	query = query.Where("is_deleted = ?", false)
	query = query.Order("created_at DESC")

	if err := query.Find(&entities).Error; err != nil {
		return nil, err
	}

	return entities, nil
}

func (s *CrudServiceImpl[T]) Update(ctx context.Context, id string, entity *T) error {
	if err := s.db.WithContext(ctx).Model(entity).Where("id = ? AND is_deleted = ?", id, false).Omit("id").Updates(entity).Error; err != nil {
		return err
	}

	events.Emit(fmt.Sprintf("%s.updated", GormTableName(s.db, s.modelType)), entity)

	return nil
}

func (s *CrudServiceImpl[T]) UpdateColumn(ctx context.Context, id string, column string, value interface{}) error {
	if err := s.db.WithContext(ctx).Model(s.modelType).Where("id = ? AND is_deleted = ?", id, false).Update(column, value).Error; err != nil {
		return err
	}

	events.Emit(fmt.Sprintf("%s.updated", GormTableName(s.db, s.modelType)), id)

	return nil
}

func (s *CrudServiceImpl[T]) Delete(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Model(s.modelType).Where("id = ? AND is_deleted = ?", id, false).Update("deleted_at", time.Now()).Update("is_deleted", true).Error; err != nil {
		return err
	}

	events.Emit(fmt.Sprintf("%s.deleted", GormTableName(s.db, s.modelType)), id)

	return nil
}
