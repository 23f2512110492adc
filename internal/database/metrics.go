package database

import (
	"time"

	"planit/internal/middleware"

	"gorm.io/gorm"
)

const queryStartKey = "metrics:query_start"

// instrumentQueries registers GORM callbacks that record per-query latency
// into the middleware histogram, labeled by operation and table.
func instrumentQueries(db *gorm.DB) {
	start := func(d *gorm.DB) {
		d.InstanceSet(queryStartKey, time.Now())
	}
	finish := func(operation string) func(*gorm.DB) {
		return func(d *gorm.DB) {
			v, ok := d.InstanceGet(queryStartKey)
			if !ok {
				return
			}
			startedAt, ok := v.(time.Time)
			if !ok {
				return
			}
			table := d.Statement.Table
			if table == "" {
				table = "raw"
			}
			middleware.DBQueryLatency.WithLabelValues(operation, table).
				Observe(time.Since(startedAt).Seconds())
		}
	}

	_ = db.Callback().Create().Before("gorm:create").Register("metrics:start_create", start)
	_ = db.Callback().Create().After("gorm:create").Register("metrics:finish_create", finish("create"))
	_ = db.Callback().Query().Before("gorm:query").Register("metrics:start_query", start)
	_ = db.Callback().Query().After("gorm:query").Register("metrics:finish_query", finish("query"))
	_ = db.Callback().Update().Before("gorm:update").Register("metrics:start_update", start)
	_ = db.Callback().Update().After("gorm:update").Register("metrics:finish_update", finish("update"))
	_ = db.Callback().Delete().Before("gorm:delete").Register("metrics:start_delete", start)
	_ = db.Callback().Delete().After("gorm:delete").Register("metrics:finish_delete", finish("delete"))
}
