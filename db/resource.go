package db

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"

	"github.com/StellaShiina/ginadmin/admin"
)

// GormResource exposes the table of model T as an admin.Resource.
type GormResource[T any] struct {
	db     *gorm.DB
	id     string
	name   string
	schema *schema.Schema
	props  []admin.Property
}

// NewGormResource parses T's schema. T must have a single primary key.
func NewGormResource[T any](db *gorm.DB, id, name string) (*GormResource[T], error) {
	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(new(T)); err != nil {
		return nil, fmt.Errorf("parse %s schema: %w", id, err)
	}
	s := stmt.Schema
	if s.PrioritizedPrimaryField == nil {
		return nil, fmt.Errorf("%s: model needs a single primary key", id)
	}

	return &GormResource[T]{db: db, id: id, name: name, schema: s, props: properties(s)}, nil
}

func properties(s *schema.Schema) []admin.Property {
	props := make([]admin.Property, 0, len(s.Fields))
	for _, f := range s.Fields {
		if f.DBName == "" {
			continue
		}
		props = append(props, admin.Property{Name: f.DBName, Type: propertyType(f), IsID: f.PrimaryKey})
	}
	return props
}

func propertyType(f *schema.Field) string {
	switch f.DataType {
	case schema.Bool:
		return "boolean"
	case schema.Int, schema.Uint, schema.Float:
		return "number"
	case schema.Time:
		return "datetime"
	}
	if strings.EqualFold(f.TagSettings["TYPE"], "text") {
		return "text"
	}
	return "string"
}

func (r *GormResource[T]) ID() string                   { return r.id }
func (r *GormResource[T]) Name() string                 { return r.name }
func (r *GormResource[T]) Properties() []admin.Property { return r.props }

func (r *GormResource[T]) pk() clause.Column {
	return clause.Column{Name: r.schema.PrioritizedPrimaryField.DBName}
}

func (r *GormResource[T]) query(ctx context.Context, filters map[string]string) *gorm.DB {
	q := r.db.WithContext(ctx).Model(new(T))
	for key, value := range filters {
		f := r.schema.LookUpField(key)
		if f == nil || f.DBName == "" || value == "" {
			continue
		}
		q = q.Where("LOWER(CAST(? AS TEXT)) LIKE ?", clause.Column{Name: f.DBName}, "%"+strings.ToLower(value)+"%")
	}
	return q
}

func (r *GormResource[T]) List(ctx context.Context, q admin.ListQuery) ([]admin.Record, error) {
	page, perPage := q.Page, q.PerPage
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	var rows []T
	err := r.query(ctx, q.Filters).
		Order(clause.OrderByColumn{Column: r.pk()}).
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	records := make([]admin.Record, 0, len(rows))
	for i := range rows {
		records = append(records, r.toRecord(ctx, &rows[i]))
	}
	return records, nil
}

func (r *GormResource[T]) Count(ctx context.Context, filters map[string]string) (int, error) {
	var n int64
	if err := r.query(ctx, filters).Count(&n).Error; err != nil {
		return 0, err
	}
	return int(n), nil
}

func (r *GormResource[T]) find(ctx context.Context, id string) (*T, error) {
	row := new(T)
	err := r.db.WithContext(ctx).Where(clause.Eq{Column: r.pk(), Value: id}).First(row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%s %q: %w", r.id, id, admin.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return row, nil
}

func (r *GormResource[T]) Find(ctx context.Context, id string) (admin.Record, error) {
	row, err := r.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return r.toRecord(ctx, row), nil
}

func (r *GormResource[T]) Create(ctx context.Context, params map[string]any) (admin.Record, error) {
	row := new(T)
	if err := r.assign(ctx, row, params); err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return r.toRecord(ctx, row), nil
}

func (r *GormResource[T]) Update(ctx context.Context, id string, params map[string]any) (admin.Record, error) {
	row, err := r.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.assign(ctx, row, params); err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Save(row).Error; err != nil {
		return nil, err
	}
	return r.toRecord(ctx, row), nil
}

func (r *GormResource[T]) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where(clause.Eq{Column: r.pk(), Value: id}).Delete(new(T))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s %q: %w", r.id, id, admin.ErrNotFound)
	}
	return nil
}

func (r *GormResource[T]) toRecord(ctx context.Context, row *T) admin.Record {
	rv := reflect.ValueOf(row).Elem()
	rec := make(admin.Record, len(r.props))
	for _, f := range r.schema.Fields {
		if f.DBName == "" {
			continue
		}
		v, _ := f.ValueOf(ctx, rv)
		rec[f.DBName] = v
	}
	rec["id"] = fmt.Sprint(rec[r.schema.PrioritizedPrimaryField.DBName])
	return rec
}

// assign copies params onto row, converting form strings to field types.
// The primary key is never assigned.
func (r *GormResource[T]) assign(ctx context.Context, row *T, params map[string]any) error {
	rv := reflect.ValueOf(row).Elem()
	for key, raw := range params {
		f := r.schema.LookUpField(key)
		if f == nil || f.PrimaryKey || f.DBName == "" {
			continue
		}
		v, err := coerce(f, raw)
		if err != nil {
			return fmt.Errorf("%s.%s: %w", r.id, key, err)
		}
		if v == nil {
			rv.FieldByIndex(f.StructField.Index).Set(reflect.Zero(f.FieldType))
			continue
		}
		if err := f.Set(ctx, rv, v); err != nil {
			return fmt.Errorf("%s.%s: %w", r.id, key, err)
		}
	}
	return nil
}

func coerce(f *schema.Field, raw any) (any, error) {
	s, ok := raw.(string)
	if !ok {
		return raw, nil
	}
	if s == "" && f.FieldType.Kind() == reflect.Ptr {
		return nil, nil
	}
	switch f.DataType {
	case schema.Bool:
		if s == "" || s == "on" {
			return s == "on", nil
		}
		return strconv.ParseBool(s)
	case schema.Int:
		return strconv.ParseInt(s, 10, 64)
	case schema.Uint:
		return strconv.ParseUint(s, 10, 64)
	case schema.Float:
		return strconv.ParseFloat(s, 64)
	case schema.Time:
		return time.Parse(time.RFC3339, s)
	}
	return s, nil
}
