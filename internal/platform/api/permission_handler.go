package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"go.permitdesk.tech/internal/platform/events"
	"go.permitdesk.tech/internal/platform/permission"
	"go.permitdesk.tech/internal/platform/permission/operations"
	"go.permitdesk.tech/internal/search"
)

// PermissionHandler handles the permission request endpoints
type PermissionHandler struct {
	index search.Gateway

	requestHandler operations.RequestPermissionHandler
	modifyHandler  operations.ModifyPermissionHandler
	getHandler     operations.GetPermissionHandler
	listHandler    operations.ListPermissionsHandler
}

// NewPermissionHandler wires the use cases behind the permission endpoints
func NewPermissionHandler(
	uow permission.Factory,
	index search.Gateway,
	announcer events.Announcer,
) *PermissionHandler {
	return &PermissionHandler{
		index:          index,
		requestHandler: operations.NewRequestPermissionUseCase(uow, index, announcer).Handler(),
		modifyHandler:  operations.NewModifyPermissionUseCase(uow, index, announcer).Handler(),
		getHandler:     operations.NewGetPermissionUseCase(uow, announcer).Handler(),
		listHandler:    operations.NewListPermissionsUseCase(uow, announcer).Handler(),
	}
}

// Routes returns the router for permission endpoints
func (h *PermissionHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/search", h.Search)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Modify)
	r.Get("/{id}/document", h.GetDocument)

	return r
}

// CreatedResponse carries the store-assigned id of a new permission
type CreatedResponse struct {
	ID int64 `json:"id"`
}

// Create handles POST /api/permissions
func (h *PermissionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var cmd operations.RequestPermissionCommand
	if err := DecodeJSON(r, &cmd); err != nil {
		WriteBadRequest(w, "Invalid request body")
		return
	}

	result := h.requestHandler(r.Context(), cmd)
	if result.IsFailure() {
		WriteUseCaseError(w, result.Error())
		return
	}
	WriteJSON(w, http.StatusCreated, CreatedResponse{ID: result.Value()})
}

// Modify handles PUT /api/permissions/{id}
func (h *PermissionHandler) Modify(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		WriteBadRequest(w, "Invalid permission id")
		return
	}

	var cmd operations.ModifyPermissionCommand
	if err := DecodeJSON(r, &cmd); err != nil {
		WriteBadRequest(w, "Invalid request body")
		return
	}
	cmd.ID = id

	result := h.modifyHandler(r.Context(), cmd)
	if result.IsFailure() {
		WriteUseCaseError(w, result.Error())
		return
	}
	WriteJSON(w, http.StatusOK, CreatedResponse{ID: result.Value()})
}

// Get handles GET /api/permissions/{id}
func (h *PermissionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		WriteBadRequest(w, "Invalid permission id")
		return
	}

	WriteUseCaseResult(w, h.getHandler(r.Context(), operations.GetPermissionQuery{ID: id}), http.StatusOK)
}

// List handles GET /api/permissions
func (h *PermissionHandler) List(w http.ResponseWriter, r *http.Request) {
	WriteUseCaseResult(w, h.listHandler(r.Context(), operations.ListPermissionsQuery{}), http.StatusOK)
}

// Search handles GET /api/permissions/search?q=term against the search
// index. An unavailable index yields an empty result, not an error.
func (h *PermissionHandler) Search(w http.ResponseWriter, r *http.Request) {
	term := strings.TrimSpace(r.URL.Query().Get("q"))
	if term == "" {
		WriteBadRequest(w, "Query parameter q is required")
		return
	}

	docs := h.index.SearchDocuments(r.Context(), term)

	dtos := make([]permission.DTO, 0, len(docs))
	for _, doc := range docs {
		dtos = append(dtos, doc.ToDTO())
	}
	WriteJSON(w, http.StatusOK, dtos)
}

// GetDocument handles GET /api/permissions/{id}/document, reading the
// indexed projection rather than the system of record. A 404 here does
// not prove the relational record is absent.
func (h *PermissionHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		WriteBadRequest(w, "Invalid permission id")
		return
	}

	doc, found := h.index.GetDocument(r.Context(), id)
	if !found {
		WriteNotFound(w, "Document not found in search index")
		return
	}
	WriteJSON(w, http.StatusOK, doc.ToDTO())
}
