// Package orm is a small fluent layer over GORM shared by the repositories.
// It adds read-through caching and pagination without leaking *gorm.DB into
// the app layer.
package orm

import (
	"time"

	"github.com/Blawness/SimplePOS/pkg/database"
	"gorm.io/gorm"
)

// Cacher is the read-through cache the kernel wires in at boot (pkg/cache).
// Nil means caching is disabled and every query hits the database.
var CacheStore Cacher

type Cacher interface {
	Get(key string, dest interface{}) bool
	Set(key string, value interface{}, ttl time.Duration) error
}

// Pagination describes one page of a paginated listing.
type Pagination struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

type Query struct {
	db *gorm.DB
}

// DB starts a query chain on the global connection.
func DB() *Query {
	return &Query{db: database.DB}
}

// Wrap starts a query chain on an explicit connection (transactions, tests).
func Wrap(db *gorm.DB) *Query {
	return &Query{db: db}
}

// Gorm exposes the underlying handle for the rare case the wrapper is not
// enough (raw aggregates in the report service).
func (q *Query) Gorm() *gorm.DB { return q.db }

func (q *Query) Model(v interface{}) *Query {
	return &Query{db: q.db.Model(v)}
}

func (q *Query) Where(query string, args ...interface{}) *Query {
	return &Query{db: q.db.Where(query, args...)}
}

func (q *Query) Preload(association string, args ...interface{}) *Query {
	return &Query{db: q.db.Preload(association, args...)}
}

func (q *Query) Order(value string) *Query {
	return &Query{db: q.db.Order(value)}
}

func (q *Query) Limit(n int) *Query {
	return &Query{db: q.db.Limit(n)}
}

func (q *Query) Get(dest interface{}) error {
	return q.db.Find(dest).Error
}

func (q *Query) First(dest interface{}) error {
	return q.db.First(dest).Error
}

func (q *Query) Count(n *int64) error {
	return q.db.Count(n).Error
}

func (q *Query) Create(value interface{}) error {
	return q.db.Create(value).Error
}

func (q *Query) Save(value interface{}) error {
	return q.db.Save(value).Error
}

func (q *Query) Updates(values interface{}) error {
	return q.db.Updates(values).Error
}

func (q *Query) Delete(value interface{}) error {
	return q.db.Delete(value).Error
}

// Cached runs Get, serving from CacheStore under key first and populating it
// on a miss.
func (q *Query) Cached(key string, ttl time.Duration, dest interface{}) error {
	if CacheStore != nil && CacheStore.Get(key, dest) {
		return nil
	}

	if err := q.db.Find(dest).Error; err != nil {
		return err
	}

	if CacheStore != nil {
		_ = CacheStore.Set(key, dest, ttl)
	}
	return nil
}

// GetWithPagination fills dest with one page of results and reports totals.
func (q *Query) GetWithPagination(dest interface{}, page, perPage int) (Pagination, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 200 {
		perPage = 20
	}

	var total int64
	if err := q.db.Count(&total).Error; err != nil {
		return Pagination{}, err
	}

	offset := (page - 1) * perPage
	if err := q.db.Limit(perPage).Offset(offset).Find(dest).Error; err != nil {
		return Pagination{}, err
	}

	totalPages := int((total + int64(perPage) - 1) / int64(perPage))
	return Pagination{Page: page, PerPage: perPage, Total: total, TotalPages: totalPages}, nil
}

// Transaction runs fn inside a database transaction; any error rolls back.
// The sole all-or-nothing boundary in the POS is consuming a password-reset
// token while updating the password.
func Transaction(fn func(tx *gorm.DB) error) error {
	return database.DB.Transaction(fn)
}
