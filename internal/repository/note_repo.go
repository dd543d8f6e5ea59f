package repository

import (
	"context"

	"apistarter/internal/domain"

	"gorm.io/gorm"
)

type NoteRepository struct {
	db *gorm.DB
}

func NewNoteRepository(db *gorm.DB) *NoteRepository {
	return &NoteRepository{db: db}
}

func (r *NoteRepository) Create(ctx context.Context, n *domain.Note) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *NoteRepository) GetByID(ctx context.Context, id int64) (*domain.Note, error) {
	var n domain.Note
	err := r.db.WithContext(ctx).First(&n, id).Error
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// ListVisible returns the notes a viewer may see: public ones, plus the
// viewer's own when viewerID is set.
func (r *NoteRepository) ListVisible(ctx context.Context, viewerID *int64, offset, limit int) ([]domain.Note, error) {
	q := r.db.WithContext(ctx).Model(&domain.Note{})
	if viewerID != nil {
		q = q.Where("is_public = ? OR owner_id = ?", true, *viewerID)
	} else {
		q = q.Where("is_public = ?", true)
	}

	var notes []domain.Note
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&notes).Error
	return notes, err
}

func (r *NoteRepository) Update(ctx context.Context, n *domain.Note) error {
	return r.db.WithContext(ctx).Save(n).Error
}

func (r *NoteRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&domain.Note{}, id).Error
}
