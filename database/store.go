package database

import (
	"context"
	"errors"
	"fmt"

	"trialbalance/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound 按 id 查询或删除时记录不存在
var ErrNotFound = errors.New("记录不存在")

// outlayBatchSize 批量插入每批行数
const outlayBatchSize = 500

// Repository 持久化操作集合，导入流程和 HTTP 层都只依赖此接口
type Repository interface {
	// UpsertSourceFile 按文件名插入；已存在时 f 被替换为已有记录（不含内容），created 为 false
	UpsertSourceFile(ctx context.Context, f *models.SourceFile) (created bool, err error)
	// UpsertDocument 按 (银行, 起始日, 结束日) 插入；已存在时 d 被替换为已有记录
	UpsertDocument(ctx context.Context, d *models.Document) (created bool, err error)
	// UpsertCategories 插入缺失的类别，返回 names 对应的全部类别
	UpsertCategories(ctx context.Context, names []string) ([]models.Category, error)
	InsertOutlays(ctx context.Context, outlays []models.Outlay) error
	Transaction(ctx context.Context, fn func(tx Repository) error) error

	GetDocument(ctx context.Context, id uint) (*models.Document, error)
	ListDocuments(ctx context.Context) ([]models.Document, error)
	DeleteDocument(ctx context.Context, id uint) error
	GetSourceFile(ctx context.Context, id uint) (*models.SourceFile, error)
	ListSourceFiles(ctx context.Context) ([]models.SourceFile, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	DeleteCategory(ctx context.Context, id uint) error
}

// Store 基于 gorm 的 Repository 实现
type Store struct {
	db *gorm.DB
}

var _ Repository = (*Store)(nil)

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Transaction(ctx context.Context, fn func(tx Repository) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// insertIgnore 执行 INSERT ... ON DUPLICATE KEY UPDATE id=id，返回是否真正插入了新行
func (s *Store) insertIgnore(ctx context.Context, value interface{}) (bool, error) {
	res := s.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(value)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *Store) UpsertSourceFile(ctx context.Context, f *models.SourceFile) (bool, error) {
	created, err := s.insertIgnore(ctx, f)
	if err != nil {
		return false, fmt.Errorf("保存源文件失败: %w", err)
	}
	if created {
		return true, nil
	}

	var existing models.SourceFile
	if err := s.db.WithContext(ctx).
		Omit("content").
		Where("filename = ?", f.Filename).
		First(&existing).Error; err != nil {
		return false, fmt.Errorf("查询源文件失败: %w", err)
	}
	*f = existing
	return false, nil
}

func (s *Store) UpsertDocument(ctx context.Context, d *models.Document) (bool, error) {
	created, err := s.insertIgnore(ctx, d)
	if err != nil {
		return false, fmt.Errorf("保存对账单失败: %w", err)
	}
	if created {
		return true, nil
	}

	var existing models.Document
	if err := s.db.WithContext(ctx).
		Where("bank_name = ? AND start_date = ? AND end_date = ?", d.BankName, d.StartDate, d.EndDate).
		First(&existing).Error; err != nil {
		return false, fmt.Errorf("查询对账单失败: %w", err)
	}
	*d = existing
	return false, nil
}

func (s *Store) UpsertCategories(ctx context.Context, names []string) ([]models.Category, error) {
	if len(names) == 0 {
		return nil, nil
	}

	seen := make(map[string]bool, len(names))
	cats := make([]models.Category, 0, len(names))
	keys := make([]string, 0, len(names))
	for _, name := range names {
		c := models.NewCategory(name)
		if c.Name == "" || seen[c.NameKey] {
			continue
		}
		seen[c.NameKey] = true
		cats = append(cats, c)
		keys = append(keys, c.NameKey)
	}
	if len(cats) == 0 {
		return nil, nil
	}

	if _, err := s.insertIgnore(ctx, &cats); err != nil {
		return nil, fmt.Errorf("保存类别失败: %w", err)
	}

	var out []models.Category
	if err := s.db.WithContext(ctx).
		Where("name_key IN ?", keys).
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, fmt.Errorf("查询类别失败: %w", err)
	}
	return out, nil
}

func (s *Store) InsertOutlays(ctx context.Context, outlays []models.Outlay) error {
	if len(outlays) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).
		Omit(clause.Associations).
		CreateInBatches(&outlays, outlayBatchSize).Error; err != nil {
		return fmt.Errorf("保存账户明细失败: %w", err)
	}
	return nil
}

func (s *Store) GetDocument(ctx context.Context, id uint) (*models.Document, error) {
	var doc models.Document
	err := s.db.WithContext(ctx).
		Preload("Outlays", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Outlays.Category").
		First(&doc, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("查询对账单失败: %w", err)
	}
	return &doc, nil
}

func (s *Store) ListDocuments(ctx context.Context) ([]models.Document, error) {
	var docs []models.Document
	if err := s.db.WithContext(ctx).
		Preload("Outlays", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Outlays.Category").
		Order("start_date DESC, id DESC").
		Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("查询对账单列表失败: %w", err)
	}
	return docs, nil
}

// DeleteDocument 删除对账单及其明细
func (s *Store) DeleteDocument(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("document_id = ?", id).Delete(&models.Outlay{}).Error; err != nil {
			return fmt.Errorf("删除账户明细失败: %w", err)
		}
		res := tx.Delete(&models.Document{}, id)
		if res.Error != nil {
			return fmt.Errorf("删除对账单失败: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (s *Store) GetSourceFile(ctx context.Context, id uint) (*models.SourceFile, error) {
	var f models.SourceFile
	err := s.db.WithContext(ctx).First(&f, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("查询源文件失败: %w", err)
	}
	return &f, nil
}

// ListSourceFiles 不加载文件内容
func (s *Store) ListSourceFiles(ctx context.Context) ([]models.SourceFile, error) {
	var files []models.SourceFile
	if err := s.db.WithContext(ctx).
		Omit("content").
		Order("id DESC").
		Find(&files).Error; err != nil {
		return nil, fmt.Errorf("查询源文件列表失败: %w", err)
	}
	return files, nil
}

func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	var cats []models.Category
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&cats).Error; err != nil {
		return nil, fmt.Errorf("查询类别失败: %w", err)
	}
	return cats, nil
}

// DeleteCategory 删除类别及引用它的明细
func (s *Store) DeleteCategory(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("category_id = ?", id).Delete(&models.Outlay{}).Error; err != nil {
			return fmt.Errorf("删除账户明细失败: %w", err)
		}
		res := tx.Delete(&models.Category{}, id)
		if res.Error != nil {
			return fmt.Errorf("删除类别失败: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
