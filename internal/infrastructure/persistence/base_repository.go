package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/backoffice/backend/internal/domain/shared"
)

// gormStore is the generic GORM backing for tenant-scoped aggregate
// repositories. Concrete repositories embed it and add their finders.
type gormStore[T any] struct {
	db            *gorm.DB
	sortFields    map[string]bool
	searchColumns []string
	preloads      []string
}

func newGormStore[T any](db *gorm.DB, sortFields map[string]bool, preloads ...string) gormStore[T] {
	return gormStore[T]{db: db, sortFields: sortFields, preloads: preloads}
}

// withSearch names the columns Filter.Search matches against
func (s gormStore[T]) withSearch(columns ...string) gormStore[T] {
	s.searchColumns = columns
	return s
}

func (s *gormStore[T]) query(ctx context.Context) *gorm.DB {
	q := s.db.WithContext(ctx)
	for _, preload := range s.preloads {
		q = q.Preload(preload)
	}
	return q
}

// FindByID finds an aggregate by ID
func (s *gormStore[T]) FindByID(ctx context.Context, id uuid.UUID) (*T, error) {
	var entity T
	if err := s.query(ctx).First(&entity, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &entity, nil
}

// FindByIDForTenant finds an aggregate by ID within a tenant
func (s *gormStore[T]) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*T, error) {
	var entity T
	if err := s.query(ctx).First(&entity, "tenant_id = ? AND id = ?", tenantID, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &entity, nil
}

// FindAll lists aggregates matching the filter
func (s *gormStore[T]) FindAll(ctx context.Context, filter shared.Filter) ([]T, error) {
	var entities []T
	query := s.applySearch(s.query(ctx), filter)
	if err := s.paginate(query, filter).Find(&entities).Error; err != nil {
		return nil, err
	}
	return entities, nil
}

// FindAllForTenant lists aggregates for a tenant matching the filter
func (s *gormStore[T]) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]T, error) {
	var entities []T
	query := s.applySearch(s.query(ctx).Where("tenant_id = ?", tenantID), filter)
	if err := s.paginate(query, filter).Find(&entities).Error; err != nil {
		return nil, err
	}
	return entities, nil
}

// Save creates or updates an aggregate including its child rows
func (s *gormStore[T]) Save(ctx context.Context, entity *T) error {
	return s.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(entity).Error
}

// SaveWithLock saves using optimistic locking on the version column.
// The stored version must match the version the caller loaded; a
// mismatch means another transaction got there first. On success the
// version is bumped as part of the write.
func (s *gormStore[T]) SaveWithLock(ctx context.Context, entity *T) error {
	root, ok := any(entity).(shared.AggregateRoot)
	if !ok {
		return s.Save(ctx, entity)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current struct{ Version int }
		err := tx.Model(new(T)).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("version").
			Where("id = ?", root.GetID()).
			First(&current).Error
		if err != nil {
			return translateError(err)
		}
		if current.Version != root.GetVersion() {
			return shared.ErrConcurrencyConflict
		}
		root.IncrementVersion()
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(entity).Error
	})
}

// Delete removes an aggregate by ID
func (s *gormStore[T]) Delete(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Delete(new(T), "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts aggregates matching the filter
func (s *gormStore[T]) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := s.applySearch(s.db.WithContext(ctx).Model(new(T)), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountForTenant counts a tenant's aggregates so pagination totals match
// the filtered listing
func (s *gormStore[T]) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := s.applySearch(s.db.WithContext(ctx).Model(new(T)).Where("tenant_id = ?", tenantID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applySearch matches the free-text term against the store's configured
// columns; stores with no search columns ignore the term
func (s *gormStore[T]) applySearch(query *gorm.DB, filter shared.Filter) *gorm.DB {
	term := strings.TrimSpace(filter.Search)
	if term == "" || len(s.searchColumns) == 0 {
		return query
	}
	pattern := "%" + term + "%"
	conditions := make([]string, 0, len(s.searchColumns))
	args := make([]interface{}, 0, len(s.searchColumns))
	for _, column := range s.searchColumns {
		conditions = append(conditions, column+" LIKE ?")
		args = append(args, pattern)
	}
	return query.Where(strings.Join(conditions, " OR "), args...)
}

func (s *gormStore[T]) paginate(query *gorm.DB, filter shared.Filter) *gorm.DB {
	sortField := validateSortField(filter.OrderBy, s.sortFields)
	query = query.Order(sortField + " " + validateSortOrder(filter.OrderDir))

	offset := (filter.Page - 1) * filter.PageSize
	if offset < 0 {
		offset = 0
	}
	limit := filter.PageSize
	if limit <= 0 {
		limit = 20
	}
	return query.Offset(offset).Limit(limit)
}

func translateError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	return err
}

// validateSortOrder normalizes the sort direction, defaulting to DESC
func validateSortOrder(orderDir string) string {
	if strings.EqualFold(strings.TrimSpace(orderDir), "asc") {
		return "ASC"
	}
	return "DESC"
}

// validateSortField whitelists the sort column to keep user input out of
// the ORDER BY clause
func validateSortField(field string, allowed map[string]bool) string {
	trimmed := strings.TrimSpace(field)
	if trimmed != "" && allowed[trimmed] {
		return trimmed
	}
	return "created_at"
}

// commonSortFields are accepted by every aggregate
var commonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// withSortFields merges extra sortable columns onto the common set
func withSortFields(extra ...string) map[string]bool {
	fields := make(map[string]bool, len(commonSortFields)+len(extra))
	for field := range commonSortFields {
		fields[field] = true
	}
	for _, field := range extra {
		fields[field] = true
	}
	return fields
}
