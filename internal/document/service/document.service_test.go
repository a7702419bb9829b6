package service

import (
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andela-ekupara/dcman/internal/access"
	"github.com/andela-ekupara/dcman/internal/apperr"
	"github.com/andela-ekupara/dcman/internal/document/model"
	"github.com/andela-ekupara/dcman/internal/document/repository"
)

const (
	adminID  = "0e7b3f62-3c17-4a2e-9a5a-111111111111"
	ownerID  = "0e7b3f62-3c17-4a2e-9a5a-222222222222"
	viewerID = "0e7b3f62-3c17-4a2e-9a5a-333333333333"
	docID    = "b1f8a9d0-5e4c-4f3b-8d2a-444444444444"
)

var (
	admin  = access.Requester{ID: adminID, Role: access.RoleAdmin}
	owner  = access.Requester{ID: ownerID, Role: access.RoleUser}
	viewer = access.Requester{ID: viewerID, Role: access.RoleViewer}
)

func newService(t *testing.T) (*DocumentService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewDocumentService(repository.NewDocumentRepository(db), nil), mock
}

func docRows(docs ...model.Document) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "title", "content", "owner_id", "access", "date_created", "last_modified"})
	for _, d := range docs {
		rows.AddRow(d.ID, d.Title, d.Content, d.OwnerID, d.Access, d.DateCreated, d.LastModified)
	}
	return rows
}

func sampleDoc(owner string, rank int) model.Document {
	now := time.Now().UTC()
	return model.Document{
		ID:           docID,
		Title:        "Quarterly report",
		Content:      "Numbers for the quarter",
		OwnerID:      owner,
		Access:       rank,
		DateCreated:  now,
		LastModified: now,
	}
}

func expectOwnerExists(mock sqlmock.Sqlmock, id string, exists bool) {
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(exists))
}

func expectGetByID(mock sqlmock.Sqlmock, doc model.Document) {
	mock.ExpectQuery("SELECT (.+) FROM documents WHERE id = ").
		WithArgs(doc.ID).
		WillReturnRows(docRows(doc))
}

func TestCreateDocument(t *testing.T) {
	svc, mock := newService(t)

	expectOwnerExists(mock, ownerID, true)
	mock.ExpectExec("INSERT INTO documents").
		WithArgs(sqlmock.AnyArg(), "My document", "Some content", ownerID, access.RankPrivate, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO user_documents").
		WithArgs(ownerID, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	doc, err := svc.Create(owner, model.CreateDocRequest{
		Title:       "My document",
		Content:     "Some content",
		OwnerID:     ownerID,
		AccessLevel: "private",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, "My document", doc.Title)
	assert.Equal(t, access.RankPrivate, doc.Access)
	assert.False(t, doc.DateCreated.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateDocumentDefaultsToPublic(t *testing.T) {
	svc, mock := newService(t)

	expectOwnerExists(mock, ownerID, true)
	mock.ExpectExec("INSERT INTO documents").
		WithArgs(sqlmock.AnyArg(), "My document", "Some content", ownerID, access.RankPublic, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO user_documents").
		WithArgs(ownerID, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	doc, err := svc.Create(owner, model.CreateDocRequest{
		Title:   "My document",
		Content: "Some content",
		OwnerID: ownerID,
	})
	require.NoError(t, err)
	assert.Equal(t, "public", doc.AccessLevel)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateDocumentMissingFields(t *testing.T) {
	svc, mock := newService(t)

	_, err := svc.Create(owner, model.CreateDocRequest{OwnerID: ownerID, AccessLevel: "admin"})
	require.Error(t, err)

	e := apperr.From(err)
	assert.Equal(t, apperr.Validation, e.Kind)
	assert.Equal(t, "Document validation failed", e.Msg)
	assert.Contains(t, e.Fields, "title")
	assert.Contains(t, e.Fields, "content")

	// Nothing may be persisted on a validation failure.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateDocumentUnknownOwner(t *testing.T) {
	svc, mock := newService(t)

	expectOwnerExists(mock, viewerID, false)

	_, err := svc.Create(owner, model.CreateDocRequest{
		Title:   "Orphan",
		Content: "No owner",
		OwnerID: viewerID,
	})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.UserNotFound))
	assert.Equal(t, "User not found", err.Error())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOneMalformedID(t *testing.T) {
	svc, mock := newService(t)

	_, err := svc.GetOne("not-a-uuid")
	assert.True(t, apperr.Is(err, apperr.NotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOneUnknownID(t *testing.T) {
	svc, mock := newService(t)

	mock.ExpectQuery("SELECT (.+) FROM documents WHERE id = ").
		WithArgs(docID).
		WillReturnRows(docRows())

	_, err := svc.GetOne(docID)
	assert.True(t, apperr.Is(err, apperr.NotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListAppliesVisibilityFloor(t *testing.T) {
	cases := []struct {
		name      string
		requester access.Requester
		floor     int
	}{
		{"admin sees everything", admin, access.RankAdmin},
		{"owner sees private and public", owner, access.RankPrivate},
		{"viewer sees only public", viewer, access.RankPublic},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, mock := newService(t)

			mock.ExpectQuery("SELECT (.+) FROM documents WHERE access >= (.+) ORDER BY date_created DESC").
				WithArgs(tc.floor).
				WillReturnRows(docRows(sampleDoc(ownerID, access.RankPublic)))

			docs, err := svc.List(tc.requester, model.ListQuery{})
			require.NoError(t, err)
			assert.Len(t, docs, 1)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestListRoleOverride(t *testing.T) {
	svc, mock := newService(t)

	// An admin listing with role=owner gets the owner floor, not their own.
	mock.ExpectQuery("SELECT (.+) FROM documents WHERE access >= (.+) ORDER BY date_created DESC").
		WithArgs(access.RankPrivate).
		WillReturnRows(docRows())

	_, err := svc.List(admin, model.ListQuery{Role: "owner"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListAppliesLimit(t *testing.T) {
	svc, mock := newService(t)

	mock.ExpectQuery("SELECT (.+) FROM documents WHERE access >= (.+) ORDER BY date_created DESC LIMIT").
		WithArgs(access.RankAdmin, 2).
		WillReturnRows(docRows(sampleDoc(ownerID, 0), sampleDoc(ownerID, 1)))

	docs, err := svc.List(admin, model.ListQuery{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, docs, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestByDateRange(t *testing.T) {
	svc, mock := newService(t)

	mock.ExpectQuery("SELECT (.+) FROM documents WHERE date_created > (.+) AND date_created < (.+) ORDER BY date_created DESC").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(docRows(sampleDoc(ownerID, access.RankPublic)))

	docs, err := svc.ByDateRange("2016-03-10", "2016-03-15")
	require.NoError(t, err)
	assert.Len(t, docs, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestByDateRangeMalformed(t *testing.T) {
	svc, mock := newService(t)

	_, err := svc.ByDateRange("yesterday", "2016-03-15")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.Validation))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchRespectsFloor(t *testing.T) {
	svc, mock := newService(t)

	mock.ExpectQuery("SELECT (.+) FROM documents WHERE access >= (.+) ILIKE").
		WithArgs(access.RankPublic, "%report%").
		WillReturnRows(docRows(sampleDoc(ownerID, access.RankPublic)))

	docs, err := svc.Search(viewer, "report")
	require.NoError(t, err)
	assert.Len(t, docs, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateByOwner(t *testing.T) {
	svc, mock := newService(t)

	expectGetByID(mock, sampleDoc(ownerID, access.RankPrivate))
	mock.ExpectExec("UPDATE documents SET").
		WithArgs("Updated Title", "Numbers for the quarter", access.RankPrivate, sqlmock.AnyArg(), docID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	doc, err := svc.Update(owner, docID, model.UpdateDocRequest{Title: "Updated Title"})
	require.NoError(t, err)
	assert.Equal(t, "Updated Title", doc.Title)
	assert.Equal(t, "Numbers for the quarter", doc.Content)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateByAdmin(t *testing.T) {
	svc, mock := newService(t)

	expectGetByID(mock, sampleDoc(ownerID, access.RankPrivate))
	mock.ExpectExec("UPDATE documents SET").
		WithArgs("Quarterly report", "Numbers for the quarter", access.RankPublic, sqlmock.AnyArg(), docID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	doc, err := svc.Update(admin, docID, model.UpdateDocRequest{AccessLevel: "public"})
	require.NoError(t, err)
	assert.Equal(t, access.RankPublic, doc.Access)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateForbidden(t *testing.T) {
	svc, mock := newService(t)

	expectGetByID(mock, sampleDoc(ownerID, access.RankPrivate))

	_, err := svc.Update(viewer, docID, model.UpdateDocRequest{Title: "Hijacked"})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.Forbidden))
	assert.Equal(t, "You have no permission to make changes to this document", err.Error())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteByOwner(t *testing.T) {
	svc, mock := newService(t)

	expectGetByID(mock, sampleDoc(ownerID, access.RankPrivate))
	mock.ExpectExec("DELETE FROM documents WHERE id = ").
		WithArgs(docID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM user_documents WHERE document_id = ").
		WithArgs(docID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	doc, err := svc.Delete(owner, docID)
	require.NoError(t, err)
	assert.Equal(t, docID, doc.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteWithMissingOwnerStillSucceeds(t *testing.T) {
	svc, mock := newService(t)

	expectGetByID(mock, sampleDoc(ownerID, access.RankPrivate))
	mock.ExpectExec("DELETE FROM documents WHERE id = ").
		WithArgs(docID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	// Owner record already gone: the ownership delete matches zero rows.
	mock.ExpectExec("DELETE FROM user_documents WHERE document_id = ").
		WithArgs(docID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := svc.Delete(owner, docID)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteForbidden(t *testing.T) {
	svc, mock := newService(t)

	expectGetByID(mock, sampleDoc(ownerID, access.RankPrivate))

	_, err := svc.Delete(viewer, docID)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.Forbidden))
	assert.Equal(t, "You have no permission to make changes to this document", err.Error())
	assert.NoError(t, mock.ExpectationsWereMet())
}
