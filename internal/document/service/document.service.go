package service

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/andela-ekupara/dcman/internal/access"
	"github.com/andela-ekupara/dcman/internal/apperr"
	"github.com/andela-ekupara/dcman/internal/document/model"
	"github.com/andela-ekupara/dcman/internal/document/repository"
	"github.com/andela-ekupara/dcman/socket"
)

type DocumentService struct {
	Repo *repository.DocumentRepository
	Hub  *socket.Hub
}

func NewDocumentService(repo *repository.DocumentRepository, hub *socket.Hub) *DocumentService {
	return &DocumentService{Repo: repo, Hub: hub}
}

func (s *DocumentService) Create(requester access.Requester, req model.CreateDocRequest) (*model.Document, error) {
	if err := req.Validate(); err != nil {
		return nil, validationError(err)
	}

	exists, err := s.Repo.OwnerExists(req.OwnerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.ErrUserNotFound
	}

	level := req.AccessLevel
	if level == "" {
		level = access.LevelPublic
	}
	rank, _ := access.RankForLevel(level)

	now := time.Now().UTC()
	doc := &model.Document{
		ID:           uuid.NewString(),
		Title:        req.Title,
		Content:      req.Content,
		OwnerID:      req.OwnerID,
		Access:       rank,
		AccessLevel:  level,
		DateCreated:  now,
		LastModified: now,
	}

	if err := s.Repo.Insert(doc); err != nil {
		return nil, err
	}
	if err := s.Repo.AddToOwnerDocs(req.OwnerID, doc.ID); err != nil {
		return nil, err
	}

	s.notify(socket.DocCreated, doc, requester.ID)
	return doc, nil
}

func (s *DocumentService) GetOne(id string) (*model.Document, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperr.ErrDocumentNotFound
	}
	doc, err := s.Repo.GetByID(id)
	if err == sql.ErrNoRows {
		return nil, apperr.ErrDocumentNotFound
	}
	return doc, err
}

// List returns documents visible to the requester, newest first. The query's
// role override selects a visibility floor independent of the requester's own
// role, and a positive limit caps the result count.
func (s *DocumentService) List(requester access.Requester, q model.ListQuery) ([]model.Document, error) {
	floor := access.VisibilityFloor(requester.Role)
	if q.Role != "" {
		floor = access.VisibilityFloor(access.Role(q.Role))
	}
	return s.Repo.List(floor, q.Limit)
}

// ByDateRange returns documents created strictly between from and to.
func (s *DocumentService) ByDateRange(from, to string) ([]model.Document, error) {
	fromTime, err := parseDate(from)
	if err != nil {
		return nil, apperr.New(apperr.Validation, "Invalid date range").
			WithFields(map[string]string{"from": "must be a valid date"})
	}
	toTime, err := parseDate(to)
	if err != nil {
		return nil, apperr.New(apperr.Validation, "Invalid date range").
			WithFields(map[string]string{"to": "must be a valid date"})
	}
	return s.Repo.ByDateRange(fromTime, toTime)
}

func (s *DocumentService) Search(requester access.Requester, term string) ([]model.Document, error) {
	floor := access.VisibilityFloor(requester.Role)
	return s.Repo.Search(term, floor)
}

func (s *DocumentService) Update(requester access.Requester, id string, patch model.UpdateDocRequest) (*model.Document, error) {
	doc, err := s.GetOne(id)
	if err != nil {
		return nil, err
	}
	if !access.CanMutate(requester, doc.OwnerID) {
		return nil, apperr.ErrForbidden
	}
	if err := patch.Validate(); err != nil {
		return nil, validationError(err)
	}

	if patch.Title != "" {
		doc.Title = patch.Title
	}
	if patch.Content != "" {
		doc.Content = patch.Content
	}
	if patch.AccessLevel != "" {
		doc.AccessLevel = patch.AccessLevel
		doc.Access, _ = access.RankForLevel(patch.AccessLevel)
	}
	doc.LastModified = time.Now().UTC()

	if err := s.Repo.Update(doc); err != nil {
		return nil, err
	}

	s.notify(socket.DocUpdated, doc, requester.ID)
	return doc, nil
}

func (s *DocumentService) Delete(requester access.Requester, id string) (*model.Document, error) {
	doc, err := s.GetOne(id)
	if err != nil {
		return nil, err
	}
	if !access.CanMutate(requester, doc.OwnerID) {
		return nil, apperr.ErrForbidden
	}

	if err := s.Repo.Delete(id); err != nil {
		return nil, err
	}
	// The ownership row may already be gone when the owner account was
	// removed; the delete still counts as a success.
	if err := s.Repo.RemoveFromOwnerDocs(id); err != nil {
		return nil, err
	}

	s.notify(socket.DocDeleted, doc, requester.ID)
	return doc, nil
}

func (s *DocumentService) notify(eventType socket.EventType, doc *model.Document, userID string) {
	if s.Hub == nil {
		return
	}
	payload, _ := json.Marshal(doc)
	s.Hub.Broadcast <- socket.Event{
		Type:    eventType,
		DocID:   doc.ID,
		UserID:  userID,
		Payload: payload,
	}
}

func validationError(err error) error {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for field, ferr := range verrs {
			fields[field] = ferr.Error()
		}
		return apperr.New(apperr.Validation, "Document validation failed").WithFields(fields)
	}
	return apperr.New(apperr.Validation, err.Error())
}

var dateLayouts = []string{time.RFC3339, "2006-01-02", "01-02-2006"}

func parseDate(raw string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New("unrecognized date: " + raw)
}
