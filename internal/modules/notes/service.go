package notes

import (
	"context"
	"errors"

	"apistarter/internal/domain"
	"apistarter/internal/pkg/apierror"

	"gorm.io/gorm"
)

// NoteRepositoryInterface — storage the notes service needs.
type NoteRepositoryInterface interface {
	Create(ctx context.Context, n *domain.Note) error
	GetByID(ctx context.Context, id int64) (*domain.Note, error)
	ListVisible(ctx context.Context, viewerID *int64, offset, limit int) ([]domain.Note, error)
	Update(ctx context.Context, n *domain.Note) error
	Delete(ctx context.Context, id int64) error
}

type Service struct {
	notes NoteRepositoryInterface
}

func NewService(notes NoteRepositoryInterface) *Service {
	return &Service{notes: notes}
}

// List applies the visibility rule: anonymous callers see public notes,
// authenticated ones additionally see their own.
func (s *Service) List(ctx context.Context, viewer *domain.User, offset, limit int) ([]domain.Note, error) {
	var viewerID *int64
	if viewer != nil {
		viewerID = &viewer.ID
	}
	notes, err := s.notes.ListVisible(ctx, viewerID, offset, limit)
	if err != nil {
		return nil, apierror.Internal(err)
	}
	return notes, nil
}

// Get hides private notes of other users behind NotFound so their
// existence does not leak.
func (s *Service) Get(ctx context.Context, id int64, viewer *domain.User) (*domain.Note, error) {
	note, err := s.notes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("Note not found")
		}
		return nil, apierror.Internal(err)
	}

	if !note.IsPublic && (viewer == nil || viewer.ID != note.OwnerID) {
		return nil, apierror.NotFound("Note not found")
	}
	return note, nil
}

func (s *Service) Create(ctx context.Context, owner *domain.User, req CreateNoteRequest) (*domain.Note, error) {
	note := &domain.Note{
		OwnerID:  owner.ID,
		Title:    req.Title,
		Body:     req.Body,
		IsPublic: req.IsPublic,
	}
	if err := s.notes.Create(ctx, note); err != nil {
		return nil, apierror.Internal(err)
	}
	return note, nil
}

func (s *Service) Update(ctx context.Context, id int64, owner *domain.User, req UpdateNoteRequest) (*domain.Note, error) {
	note, err := s.ownedNote(ctx, id, owner)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		note.Title = *req.Title
	}
	if req.Body != nil {
		note.Body = *req.Body
	}
	if req.IsPublic != nil {
		note.IsPublic = *req.IsPublic
	}

	if err := s.notes.Update(ctx, note); err != nil {
		return nil, apierror.Internal(err)
	}
	return note, nil
}

func (s *Service) Delete(ctx context.Context, id int64, owner *domain.User) error {
	if _, err := s.ownedNote(ctx, id, owner); err != nil {
		return err
	}
	if err := s.notes.Delete(ctx, id); err != nil {
		return apierror.Internal(err)
	}
	return nil
}

func (s *Service) ownedNote(ctx context.Context, id int64, owner *domain.User) (*domain.Note, error) {
	note, err := s.notes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("Note not found")
		}
		return nil, apierror.Internal(err)
	}
	if note.OwnerID != owner.ID {
		return nil, apierror.Unauthorized("You do not own this note")
	}
	return note, nil
}
