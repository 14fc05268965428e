package api

import (
	"context"
	"sync"

	"trialbalance/database"
	"trialbalance/models"
	"trialbalance/service"
)

// stubRepo 只实现 HTTP 层用到的读取和删除，写入方法不会被调用
type stubRepo struct {
	mu    sync.Mutex
	docs  map[uint]*models.Document
	files map[uint]*models.SourceFile
	cats  []models.Category
	err   error
}

var _ database.Repository = (*stubRepo)(nil)

func newStubRepo() *stubRepo {
	return &stubRepo{
		docs:  make(map[uint]*models.Document),
		files: make(map[uint]*models.SourceFile),
	}
}

func (r *stubRepo) UpsertSourceFile(context.Context, *models.SourceFile) (bool, error) {
	panic("not used")
}

func (r *stubRepo) UpsertDocument(context.Context, *models.Document) (bool, error) {
	panic("not used")
}

func (r *stubRepo) UpsertCategories(context.Context, []string) ([]models.Category, error) {
	panic("not used")
}

func (r *stubRepo) InsertOutlays(context.Context, []models.Outlay) error {
	panic("not used")
}

func (r *stubRepo) Transaction(ctx context.Context, fn func(tx database.Repository) error) error {
	return fn(r)
}

func (r *stubRepo) GetDocument(_ context.Context, id uint) (*models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	d, ok := r.docs[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return d, nil
}

func (r *stubRepo) ListDocuments(context.Context) ([]models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	var out []models.Document
	for _, d := range r.docs {
		out = append(out, *d)
	}
	return out, nil
}

func (r *stubRepo) DeleteDocument(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[id]; !ok {
		return database.ErrNotFound
	}
	delete(r.docs, id)
	return nil
}

func (r *stubRepo) GetSourceFile(_ context.Context, id uint) (*models.SourceFile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.files[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return f, nil
}

func (r *stubRepo) ListSourceFiles(context.Context) ([]models.SourceFile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.SourceFile
	for _, f := range r.files {
		cp := *f
		cp.Content = nil
		out = append(out, cp)
	}
	return out, nil
}

func (r *stubRepo) ListCategories(context.Context) ([]models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cats, r.err
}

func (r *stubRepo) DeleteCategory(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, c := range r.cats {
		if c.ID == id {
			r.cats = append(r.cats[:i], r.cats[i+1:]...)
			return nil
		}
	}
	return database.ErrNotFound
}

// stubIngester 返回预设结果，并记录收到的文件
type stubIngester struct {
	res      *service.IngestResult
	err      error
	filename string
	content  []byte
}

func (s *stubIngester) Ingest(_ context.Context, filename string, content []byte) (*service.IngestResult, error) {
	s.filename = filename
	s.content = content
	return s.res, s.err
}
