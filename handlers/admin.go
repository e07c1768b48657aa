package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"disfactory.tw/backoffice/pkg/admin"
	ierr "disfactory.tw/backoffice/pkg/errors"
	"disfactory.tw/backoffice/utils"
)

// MaxSelection caps how many ids one bulk action may name.
const MaxSelection = 10000

var validate = validator.New()

// AdminHandler serves the back-office surfaces of a Site.
type AdminHandler struct {
	site     *admin.Site
	pageSize int
}

func NewAdminHandler(site *admin.Site, pageSize int) *AdminHandler {
	if pageSize <= 0 {
		pageSize = admin.DefaultPageSize
	}
	return &AdminHandler{site: site, pageSize: pageSize}
}

// ListEntities describes every registered surface.
func (h *AdminHandler) ListEntities(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]any{"entities": h.site.Entities()})
}

// List renders one page of a surface. Every query parameter other than
// page and limit is handed to the surface's filters.
func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := admin.ListRequest{
		Params: map[string]string{},
		Page:   1,
		Limit:  h.pageSize,
	}
	if p, err := strconv.Atoi(query.Get("page")); err == nil && p > 0 {
		req.Page = p
	}
	if l, err := strconv.Atoi(query.Get("limit")); err == nil && l > 0 {
		req.Limit = l
	}
	for key := range query {
		if key == "page" || key == "limit" {
			continue
		}
		req.Params[key] = query.Get(key)
	}

	listing, err := h.site.List(r.Context(), mux.Vars(r)["entity"], req)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, listing)
}

// Lookups returns the choices of every filter of a surface.
func (h *AdminHandler) Lookups(w http.ResponseWriter, r *http.Request) {
	lookups, err := h.site.Lookups(r.Context(), mux.Vars(r)["entity"])
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]any{"filters": lookups})
}

// Detail renders one record with its inline sections.
func (h *AdminHandler) Detail(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	detail, err := h.site.Detail(r.Context(), vars["entity"], vars["id"])
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, detail)
}

// actionRequest is the body of a bulk action: the selected ids.
type actionRequest struct {
	IDs []string `json:"ids" validate:"max=10000,dive,required,max=64"`
}

// RunAction runs a bulk action over the selected ids. Actions producing a
// file answer with a download, the others with a JSON summary.
func (h *AdminHandler) RunAction(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var body actionRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.WriteError(w, ierr.WithError(err).
			WithMessage("invalid request body").
			WithHint(`expected {"ids": [...]}`).
			Mark(ierr.ErrValidation))
		return
	}
	if err := validate.Struct(body); err != nil {
		utils.WriteError(w, ierr.WithError(err).
			WithMessage("invalid selection").
			WithHintf("select at most %d non-empty ids", MaxSelection).
			Mark(ierr.ErrValidation))
		return
	}

	result, err := h.site.Run(r.Context(), vars["entity"], vars["action"], body.IDs)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	if result.File != nil {
		w.Header().Set("Content-Type", result.File.ContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", result.File.Name))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(result.File.Body)
		return
	}
	utils.WriteJSON(w, http.StatusOK, result)
}
