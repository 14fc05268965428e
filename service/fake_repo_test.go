package service

import (
	"context"
	"sync"

	"trialbalance/database"
	"trialbalance/models"
)

// memRepo 内存版 Repository，Transaction 出错时恢复快照
type memRepo struct {
	txMu sync.Mutex
	mu   sync.Mutex

	nextID  uint
	files   []models.SourceFile
	docs    []models.Document
	cats    []models.Category
	outlays []models.Outlay

	categoryWrites int
	outlayWrites   int
	failOutlays    error

	// 非 nil 时 Transaction 先通知 entered，再等待 gate 关闭，结束后把结果发到 txDone
	entered chan struct{}
	gate    chan struct{}
	txDone  chan error
}

var _ database.Repository = (*memRepo)(nil)

func newMemRepo() *memRepo {
	return &memRepo{}
}

func (r *memRepo) id() uint {
	r.nextID++
	return r.nextID
}

type memSnapshot struct {
	nextID         uint
	files          []models.SourceFile
	docs           []models.Document
	cats           []models.Category
	outlays        []models.Outlay
	categoryWrites int
	outlayWrites   int
}

func (r *memRepo) snapshot() memSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return memSnapshot{
		nextID:         r.nextID,
		files:          append([]models.SourceFile(nil), r.files...),
		docs:           append([]models.Document(nil), r.docs...),
		cats:           append([]models.Category(nil), r.cats...),
		outlays:        append([]models.Outlay(nil), r.outlays...),
		categoryWrites: r.categoryWrites,
		outlayWrites:   r.outlayWrites,
	}
}

func (r *memRepo) restore(s memSnapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID = s.nextID
	r.files = s.files
	r.docs = s.docs
	r.cats = s.cats
	r.outlays = s.outlays
	r.categoryWrites = s.categoryWrites
	r.outlayWrites = s.outlayWrites
}

func (r *memRepo) Transaction(_ context.Context, fn func(tx database.Repository) error) error {
	if r.entered != nil {
		r.entered <- struct{}{}
	}
	if r.gate != nil {
		<-r.gate
	}

	r.txMu.Lock()
	defer r.txMu.Unlock()

	snap := r.snapshot()
	err := fn(r)
	if err != nil {
		r.restore(snap)
	}
	if r.txDone != nil {
		r.txDone <- err
	}
	return err
}

func (r *memRepo) UpsertSourceFile(_ context.Context, f *models.SourceFile) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.files {
		if existing.Filename == f.Filename {
			existing.Content = nil
			*f = existing
			return false, nil
		}
	}
	f.ID = r.id()
	r.files = append(r.files, *f)
	return true, nil
}

func (r *memRepo) UpsertDocument(_ context.Context, d *models.Document) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.docs {
		if existing.BankName == d.BankName && existing.StartDate.Equal(d.StartDate) && existing.EndDate.Equal(d.EndDate) {
			*d = existing
			return false, nil
		}
	}
	d.ID = r.id()
	r.docs = append(r.docs, *d)
	return true, nil
}

func (r *memRepo) UpsertCategories(_ context.Context, names []string) ([]models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.categoryWrites++

	var out []models.Category
	for _, name := range names {
		c := models.NewCategory(name)
		found := false
		for _, existing := range r.cats {
			if existing.NameKey == c.NameKey {
				found = true
				out = append(out, existing)
				break
			}
		}
		if !found {
			c.ID = r.id()
			r.cats = append(r.cats, c)
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *memRepo) InsertOutlays(_ context.Context, outlays []models.Outlay) error {
	if r.failOutlays != nil {
		return r.failOutlays
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outlayWrites++
	for _, o := range outlays {
		o.ID = r.id()
		r.outlays = append(r.outlays, o)
	}
	return nil
}

func (r *memRepo) GetDocument(_ context.Context, id uint) (*models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.docs {
		if d.ID == id {
			for _, o := range r.outlays {
				if o.DocumentID == id {
					d.Outlays = append(d.Outlays, o)
				}
			}
			return &d, nil
		}
	}
	return nil, database.ErrNotFound
}

func (r *memRepo) ListDocuments(ctx context.Context) ([]models.Document, error) {
	var out []models.Document
	for _, d := range r.snapshot().docs {
		doc, err := r.GetDocument(ctx, d.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, *doc)
	}
	return out, nil
}

func (r *memRepo) DeleteDocument(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, d := range r.docs {
		if d.ID == id {
			r.docs = append(r.docs[:i], r.docs[i+1:]...)
			kept := r.outlays[:0]
			for _, o := range r.outlays {
				if o.DocumentID != id {
					kept = append(kept, o)
				}
			}
			r.outlays = kept
			return nil
		}
	}
	return database.ErrNotFound
}

func (r *memRepo) GetSourceFile(_ context.Context, id uint) (*models.SourceFile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.files {
		if f.ID == id {
			return &f, nil
		}
	}
	return nil, database.ErrNotFound
}

func (r *memRepo) ListSourceFiles(_ context.Context) ([]models.SourceFile, error) {
	return r.snapshot().files, nil
}

func (r *memRepo) ListCategories(_ context.Context) ([]models.Category, error) {
	return r.snapshot().cats, nil
}

func (r *memRepo) DeleteCategory(_ context.Context, id uint) error {
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
