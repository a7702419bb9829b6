package repository

import (
	"database/sql"
	"time"

	"github.com/andela-ekupara/dcman/internal/access"
	"github.com/andela-ekupara/dcman/internal/document/model"
	"github.com/andela-ekupara/dcman/pkg/logger"
)

const docColumns = "id, title, content, owner_id, access, date_created, last_modified"

type DocumentRepository struct {
	DB *sql.DB
}

func NewDocumentRepository(db *sql.DB) *DocumentRepository {
	return &DocumentRepository{DB: db}
}

func (r *DocumentRepository) Insert(doc *model.Document) error {
	_, err := r.DB.Exec(`INSERT INTO documents (id, title, content, owner_id, access, date_created, last_modified) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		doc.ID, doc.Title, doc.Content, doc.OwnerID, doc.Access, doc.DateCreated, doc.LastModified)
	if err != nil {
		logger.Sugar.Errorf("Failed to insert document %s: %v", doc.ID, err)
	}
	return err
}

func (r *DocumentRepository) OwnerExists(ownerID string) (bool, error) {
	var exists bool
	err := r.DB.QueryRow("SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)", ownerID).Scan(&exists)
	if err != nil {
		logger.Sugar.Errorf("Failed to check owner %s: %v", ownerID, err)
	}
	return exists, err
}

func (r *DocumentRepository) AddToOwnerDocs(userID, docID string) error {
	_, err := r.DB.Exec(`INSERT INTO user_documents (user_id, document_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, userID, docID)
	if err != nil {
		logger.Sugar.Errorf("Failed to add doc %s to user %s: %v", docID, userID, err)
	}
	return err
}

// RemoveFromOwnerDocs drops the ownership rows for a document. A document
// whose owner record is gone simply matches zero rows, which is not an error.
func (r *DocumentRepository) RemoveFromOwnerDocs(docID string) error {
	_, err := r.DB.Exec("DELETE FROM user_documents WHERE document_id = $1", docID)
	if err != nil {
		logger.Sugar.Errorf("Failed to remove doc %s from owner set: %v", docID, err)
	}
	return err
}

func (r *DocumentRepository) GetByID(id string) (*model.Document, error) {
	row := r.DB.QueryRow("SELECT "+docColumns+" FROM documents WHERE id = $1", id)
	doc, err := scanDoc(row)
	if err != nil && err != sql.ErrNoRows {
		logger.Sugar.Errorf("Failed to get document %s: %v", id, err)
	}
	return doc, err
}

func (r *DocumentRepository) Update(doc *model.Document) error {
	_, err := r.DB.Exec(`UPDATE documents SET title = $1, content = $2, access = $3, last_modified = $4 WHERE id = $5`,
		doc.Title, doc.Content, doc.Access, doc.LastModified, doc.ID)
	if err != nil {
		logger.Sugar.Errorf("Failed to update document %s: %v", doc.ID, err)
	}
	return err
}

func (r *DocumentRepository) Delete(id string) error {
	_, err := r.DB.Exec("DELETE FROM documents WHERE id = $1", id)
	if err != nil {
		logger.Sugar.Errorf("Failed to delete document %s: %v", id, err)
	}
	return err
}

// List returns documents at or above the visibility floor, newest first.
// A limit of zero means no cap.
func (r *DocumentRepository) List(floor, limit int) ([]model.Document, error) {
	query := "SELECT " + docColumns + " FROM documents WHERE access >= $1 ORDER BY date_created DESC"
	args := []interface{}{floor}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}
	rows, err := r.DB.Query(query, args...)
	if err != nil {
		logger.Sugar.Errorf("Failed to list documents: %v", err)
		return nil, err
	}
	return collectDocs(rows)
}

// ByDateRange returns documents created strictly between from and to,
// newest first.
func (r *DocumentRepository) ByDateRange(from, to time.Time) ([]model.Document, error) {
	rows, err := r.DB.Query("SELECT "+docColumns+" FROM documents WHERE date_created > $1 AND date_created < $2 ORDER BY date_created DESC",
		from, to)
	if err != nil {
		logger.Sugar.Errorf("Failed to query documents by date range: %v", err)
		return nil, err
	}
	return collectDocs(rows)
}

func (r *DocumentRepository) Search(term string, floor int) ([]model.Document, error) {
	rows, err := r.DB.Query("SELECT "+docColumns+" FROM documents WHERE access >= $1 AND (title ILIKE $2 OR content ILIKE $2) ORDER BY date_created DESC",
		floor, "%"+term+"%")
	if err != nil {
		logger.Sugar.Errorf("Failed to search documents for %q: %v", term, err)
		return nil, err
	}
	return collectDocs(rows)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanDoc(row rowScanner) (*model.Document, error) {
	var doc model.Document
	err := row.Scan(&doc.ID, &doc.Title, &doc.Content, &doc.OwnerID, &doc.Access, &doc.DateCreated, &doc.LastModified)
	if err != nil {
		return nil, err
	}
	doc.AccessLevel = access.LevelForRank(doc.Access)
	return &doc, nil
}

func collectDocs(rows *sql.Rows) ([]model.Document, error) {
	defer rows.Close()
	docs := []model.Document{}
	for rows.Next() {
		doc, err := scanDoc(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	return docs, rows.Err()
}
