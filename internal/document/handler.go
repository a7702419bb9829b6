package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/andela-ekupara/dcman/internal/apperr"
	"github.com/andela-ekupara/dcman/internal/document/model"
	"github.com/andela-ekupara/dcman/internal/document/service"
	"github.com/andela-ekupara/dcman/internal/web"
	"github.com/andela-ekupara/dcman/middleware"
	"github.com/andela-ekupara/dcman/pkg/logger"
)

type DocumentHandler struct {
	Service *service.DocumentService
}

func NewDocumentHandler(service *service.DocumentService) *DocumentHandler {
	return &DocumentHandler{Service: service}
}

// GetDocuments handles GET /documents. A from/to pair selects a date range;
// otherwise the listing is filtered by the requester's visibility floor,
// optionally overridden by the role parameter and capped by limit.
func (h *DocumentHandler) GetDocuments(w http.ResponseWriter, r *http.Request) {
	requester, ok := middleware.RequesterFrom(r.Context())
	if !ok {
		web.Error(w, apperr.ErrUnauthenticated)
		return
	}

	q := r.URL.Query()
	if q.Get("from") != "" || q.Get("to") != "" {
		docs, err := h.Service.ByDateRange(q.Get("from"), q.Get("to"))
		if err != nil {
			web.Error(w, err)
			return
		}
		web.JSON(w, http.StatusOK, docs)
		return
	}

	limit, _ := strconv.Atoi(q.Get("limit"))
	docs, err := h.Service.List(requester, model.ListQuery{
		Limit: limit,
		Role:  q.Get("role"),
	})
	if err != nil {
		logger.Sugar.Errorf("Error listing documents: %v", err)
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusOK, docs)
}

func (h *DocumentHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := h.Service.GetOne(chi.URLParam(r, "id"))
	if err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusOK, doc)
}

func (h *DocumentHandler) SearchDocuments(w http.ResponseWriter, r *http.Request) {
	requester, ok := middleware.RequesterFrom(r.Context())
	if !ok {
		web.Error(w, apperr.ErrUnauthenticated)
		return
	}

	docs, err := h.Service.Search(requester, r.URL.Query().Get("q"))
	if err != nil {
		logger.Sugar.Errorf("Error searching documents: %v", err)
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusOK, docs)
}

func (h *DocumentHandler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	requester, ok := middleware.RequesterFrom(r.Context())
	if !ok {
		web.Error(w, apperr.ErrUnauthenticated)
		return
	}

	var req model.CreateDocRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.Error(w, apperr.New(apperr.Validation, "Invalid request body"))
		return
	}

	doc, err := h.Service.Create(requester, req)
	if err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusOK, model.MutationResponse{Message: "Document created successfully", Doc: doc})
}

func (h *DocumentHandler) UpdateDocument(w http.ResponseWriter, r *http.Request) {
	requester, ok := middleware.RequesterFrom(r.Context())
	if !ok {
		web.Error(w, apperr.ErrUnauthenticated)
		return
	}

	var req model.UpdateDocRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.Error(w, apperr.New(apperr.Validation, "Invalid request body"))
		return
	}

	doc, err := h.Service.Update(requester, chi.URLParam(r, "id"), req)
	if err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusOK, model.MutationResponse{Message: "Document updated successfully", Doc: doc})
}

func (h *DocumentHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	requester, ok := middleware.RequesterFrom(r.Context())
	if !ok {
		web.Error(w, apperr.ErrUnauthenticated)
		return
	}

	doc, err := h.Service.Delete(requester, chi.URLParam(r, "id"))
	if err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusOK, model.MutationResponse{Message: "Document deleted successfully.", Doc: doc})
}
