package database

import (
	"fmt"
	"net/url"

	"trialbalance/config"
	applog "trialbalance/logger"
	"trialbalance/models"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// DSN 构建 MySQL 连接字符串
// 不能带 clientFoundRows：upsert 依赖“重复键时影响行数为 0”判断记录是否已存在
func DSN(cfg config.DatabaseConfig) string {
	loc := cfg.Loc
	if loc == "" {
		loc = "UTC"
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=%s&parseTime=True&loc=%s",
		cfg.Username,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		url.QueryEscape(loc),
	)
}

// Init 初始化数据库连接并迁移表结构
func Init(cfg *config.Config) error {
	logMode := logger.Info
	if cfg.Server.Mode == "release" {
		logMode = logger.Warn
	}

	var err error
	DB, err = gorm.Open(mysql.Open(DSN(cfg.Database)), &gorm.Config{
		Logger: logger.Default.LogMode(logMode),
	})
	if err != nil {
		return fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}

	maxIdle, maxOpen := cfg.Database.MaxIdle, cfg.Database.MaxOpen
	if maxIdle <= 0 {
		maxIdle = 10
	}
	if maxOpen <= 0 {
		maxOpen = 100
	}
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetMaxOpenConns(maxOpen)

	if err := Migrate(DB); err != nil {
		return err
	}

	applog.L().Info("数据库初始化成功",
		zap.String("host", cfg.Database.Host),
		zap.String("db", cfg.Database.DBName))
	return nil
}

// Migrate 自动迁移全部表，顺序与外键依赖一致
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.SourceFile{},
		&models.Category{},
		&models.Document{},
		&models.Outlay{},
	); err != nil {
		return fmt.Errorf("迁移表结构失败: %w", err)
	}
	return nil
}

// GetDB 获取数据库连接
func GetDB() *gorm.DB {
	return DB
}
