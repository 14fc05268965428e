package service

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"trialbalance/config"
	"trialbalance/database"
	"trialbalance/logger"
	"trialbalance/models"
	"trialbalance/parser"

	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/sync/singleflight"
)

// ErrEmptyFilename 上传时没有文件名
var ErrEmptyFilename = errors.New("文件名不能为空")

// IngestResult 一次导入的结果
type IngestResult struct {
	DocumentID   uint           `json:"document_id"`
	SourceFileID uint           `json:"source_file_id"`
	Duplicate    bool           `json:"duplicate"`
	Filename     string         `json:"filename"`
	BankName     string         `json:"bank_name"`
	StartDate    time.Time      `json:"start_date"`
	EndDate      time.Time      `json:"end_date"`
	Categories   int            `json:"categories"`
	Outlays      int            `json:"outlays"`
	RowsScanned  int            `json:"rows_scanned"`
	Skipped      map[string]int `json:"skipped"`
}

// Ingestor 对账单导入流程：解析、去重、分类、入库，全部写操作在同一事务中
type Ingestor struct {
	repo     database.Repository
	grammar  *parser.Grammar
	startRow int
	timeout  time.Duration
	group    singleflight.Group
	now      func() time.Time

	mu      sync.Mutex
	seq     uint64
	flights map[string]*flight

	Notifier Notifier
	Metrics  *Metrics
	Log      *zap.Logger
}

// NewIngestor 创建导入服务
func NewIngestor(repo database.Repository, cfg config.IngestConfig) *Ingestor {
	return &Ingestor{
		repo:     repo,
		grammar:  parser.NewGrammar(cfg.CategoryMarker),
		startRow: cfg.DataStartRow,
		timeout:  cfg.Timeout,
		now:      time.Now,
		Log:      logger.L(),
	}
}

// Checksum 文件内容的 BLAKE2b-256 摘要
func Checksum(content []byte) string {
	sum := blake2b.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// Ingest 导入一个上传的工作簿
// 同名且内容相同的并发上传合并为一次执行，共享结果
// 单个调用方取消只影响自己；所有等待方都取消后才中止共享的导入
func (i *Ingestor) Ingest(ctx context.Context, filename string, content []byte) (*IngestResult, error) {
	filename = strings.TrimSpace(filename)
	if filename == "" {
		return nil, ErrEmptyFilename
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	checksum := Checksum(content)
	key := filename + "\x00" + checksum
	f := i.join(ctx, key)
	defer i.leave(key, f)

	// 旧的一组全部取消后，新的调用方开始新的一次执行
	ch := i.group.DoChan(key+"\x00"+strconv.FormatUint(f.id, 10), func() (interface{}, error) {
		return i.ingest(f.ctx, filename, content, checksum)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		if r.Shared {
			i.Log.Debug("合并并发上传", zap.String("filename", filename))
		}
		res := *r.Val.(*IngestResult)
		return &res, nil
	}
}

// flight 合并执行的上传共享的上下文，不继承任何调用方的取消
type flight struct {
	id      uint64
	ctx     context.Context
	cancel  context.CancelFunc
	waiters int
}

func (i *Ingestor) join(ctx context.Context, key string) *flight {
	i.mu.Lock()
	defer i.mu.Unlock()
	if f, ok := i.flights[key]; ok {
		f.waiters++
		return f
	}

	i.seq++
	f := &flight{id: i.seq, waiters: 1}
	base := context.WithoutCancel(ctx)
	if i.timeout > 0 {
		f.ctx, f.cancel = context.WithTimeout(base, i.timeout)
	} else {
		f.ctx, f.cancel = context.WithCancel(base)
	}
	if i.flights == nil {
		i.flights = make(map[string]*flight)
	}
	i.flights[key] = f
	return f
}

func (i *Ingestor) leave(key string, f *flight) {
	i.mu.Lock()
	defer i.mu.Unlock()
	f.waiters--
	if f.waiters > 0 {
		return
	}
	if i.flights[key] == f {
		delete(i.flights, key)
	}
	f.cancel()
}

func (i *Ingestor) ingest(ctx context.Context, filename string, content []byte, checksum string) (*IngestResult, error) {
	start := i.now()

	log := i.Log.With(zap.String("filename", filename), zap.Int("size", len(content)))
	log.Info("开始导入对账单")

	// 结构性错误在任何写操作之前返回
	wb, err := parser.OpenWorkbook(bytes.NewReader(content))
	if err != nil {
		i.countUpload(ResultRejected)
		log.Warn("工作簿无法读取", zap.Error(err))
		return nil, err
	}
	meta, err := parser.ExtractMetadata(wb)
	if err != nil {
		i.countUpload(ResultRejected)
		log.Warn("对账单元数据无效", zap.Error(err))
		return nil, err
	}

	res := &IngestResult{
		Filename:  filename,
		BankName:  meta.BankName,
		StartDate: meta.StartDate,
		EndDate:   meta.EndDate,
		Skipped:   make(map[string]int),
	}
	var skips []parser.RowSkip

	err = i.repo.Transaction(ctx, func(tx database.Repository) error {
		src := &models.SourceFile{
			Filename:   filename,
			Content:    content,
			Size:       int64(len(content)),
			Checksum:   checksum,
			UploadedAt: i.now().UTC(),
		}
		if _, err := tx.UpsertSourceFile(ctx, src); err != nil {
			return err
		}
		res.SourceFileID = src.ID

		srcID := src.ID
		doc := &models.Document{
			BankName:     meta.BankName,
			StartDate:    meta.StartDate,
			EndDate:      meta.EndDate,
			SourceFileID: &srcID,
		}
		created, err := tx.UpsertDocument(ctx, doc)
		if err != nil {
			return err
		}
		res.DocumentID = doc.ID
		if !created {
			res.Duplicate = true
			return ctx.Err()
		}

		names := parser.DiscoverCategories(wb, i.grammar)
		cats, err := tx.UpsertCategories(ctx, names)
		if err != nil {
			return err
		}
		res.Categories = len(names)

		c := &parser.Classifier{
			Grammar:    i.grammar,
			Registry:   parser.NewRegistry(cats),
			DocumentID: doc.ID,
		}
		scan := c.Scan(wb, i.startRow)
		if err := tx.InsertOutlays(ctx, scan.Outlays); err != nil {
			return err
		}
		res.Outlays = len(scan.Outlays)
		res.RowsScanned = scan.RowsScanned
		skips = scan.Skips

		// 超时或取消时放弃提交
		return ctx.Err()
	})
	if err != nil {
		i.countUpload(ResultFailed)
		log.Error("导入失败，事务已回滚", zap.Error(err))
		return nil, fmt.Errorf("导入 %s 失败: %w", filename, err)
	}

	for _, s := range skips {
		res.Skipped[string(s.Reason)]++
		log.Warn("跳过数据行",
			zap.Int("row", s.Row),
			zap.String("reason", string(s.Reason)),
			zap.Int("column", s.Column),
			zap.Strings("cells", s.Cells),
			zap.Error(s.Err))
	}
	i.observe(res, start)

	if res.Duplicate {
		log.Info("对账单已存在，跳过导入",
			zap.Uint("document_id", res.DocumentID),
			zap.String("bank", res.BankName))
		return res, nil
	}

	log.Info("导入完成",
		zap.Uint("document_id", res.DocumentID),
		zap.Uint("source_file_id", res.SourceFileID),
		zap.Int("categories", res.Categories),
		zap.Int("outlays", res.Outlays),
		zap.Int("skipped", len(skips)))

	if i.Notifier != nil {
		report := *res
		go func() {
			if err := i.Notifier.NotifyIngest(context.Background(), &report); err != nil {
				i.Log.Warn("发送导入报告失败", zap.Uint("document_id", report.DocumentID), zap.Error(err))
			}
		}()
	}
	return res, nil
}

func (i *Ingestor) countUpload(result string) {
	if i.Metrics != nil {
		i.Metrics.Uploads.WithLabelValues(result).Inc()
	}
}

func (i *Ingestor) observe(res *IngestResult, start time.Time) {
	if i.Metrics == nil {
		return
	}
	if res.Duplicate {
		i.Metrics.Uploads.WithLabelValues(ResultDuplicate).Inc()
	} else {
		i.Metrics.Uploads.WithLabelValues(ResultCreated).Inc()
	}
	i.Metrics.OutlaysCreated.Add(float64(res.Outlays))
	for reason, n := range res.Skipped {
		i.Metrics.SkippedRows.WithLabelValues(reason).Add(float64(n))
	}
	i.Metrics.IngestDuration.Observe(i.now().Sub(start).Seconds())
}
