package repository

import (
	"fmt"

	"github.com/mandanajignesh-byte/Repo-finder--sub002/internal/domain"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Postgres 承载三个协作方接口的数据库实现:
// port.ClusterStore / port.InteractionLog / port.PoolStore
type Postgres struct {
	db *gorm.DB
}

// NewPostgres 初始化数据库连接并自动迁移表结构
func NewPostgres(dsn string) (*Postgres, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	// AutoMigrate 自动建表，字段变更也会跟着更新
	err = db.AutoMigrate(
		&domain.Cluster{},
		&domain.ClusterMember{},
		&domain.Interaction{},
		&domain.RepoPool{},
		&domain.UserPreferences{},
	)
	if err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	return &Postgres{db: db}, nil
}

// NewPostgresWithDB 用现成的连接构造 (测试注入 sqlmock 用)
func NewPostgresWithDB(db *gorm.DB) *Postgres {
	return &Postgres{db: db}
}
