// Package database 负责创建关系库与 Redis 连接，连接的生命周期由调用方管理。
package database

import (
	"fmt"
	"time"

	"bench-match-go/internal/model"
	"bench-match-go/pkg/log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenMySQL 打开 MySQL 连接并配置连接池。
func OpenMySQL(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Info("MySQL database connected successfully")
	return db, nil
}

// AutoMigrate 创建引擎自己拥有的表。员工相关的源表由上游维护，这里不做迁移。
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.CorpusEntryRecord{},
		&model.RequirementRecord{},
		&model.Shortlist{},
		&model.ShortlistCandidate{},
	)
}

// Close 关闭底层连接池。
func Close(db *gorm.DB) {
	if db == nil {
		return
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
