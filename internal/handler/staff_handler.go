package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/citadelschools/school-portal/internal/middleware"
	"github.com/citadelschools/school-portal/internal/model"
	"github.com/citadelschools/school-portal/internal/response"
	"github.com/citadelschools/school-portal/internal/service"
	"github.com/citadelschools/school-portal/internal/utils"
	"github.com/go-chi/chi/v5"
)

type StaffHandler struct {
	svc service.StaffService
}

func NewStaffHandler(svc service.StaffService) *StaffHandler {
	return &StaffHandler{svc: svc}
}

// GetAll lists staff accounts
// @Summary      List staff
// @Tags         staff
// @Produce      json
// @Param        role      query  string  false  "Filter by role"
// @Param        section   query  string  false  "Filter by section"
// @Param        search    query  string  false  "Search by name or email"
// @Param        page      query  int     false  "Page number"
// @Param        per_page  query  int     false  "Items per page"
// @Security     BearerAuth
// @Success      200  {object}  response.PaginatedResponse
// @Failure      500  {object}  response.Response
// @Router       /staff [get]
func (h *StaffHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := model.StaffFilter{
		Role:    q.Get("role"),
		Section: q.Get("section"),
		Search:  q.Get("search"),
		Page:    parseIntQuery(q.Get("page"), 1),
		PerPage: parseIntQuery(q.Get("per_page"), 20),
	}

	staff, total, err := h.svc.GetAll(r.Context(), filter)
	if err != nil {
		response.InternalError(w, "Failed to fetch staff")
		return
	}

	totalPages := int((total + int64(filter.PerPage) - 1) / int64(filter.PerPage))
	response.Paginated(w, "Staff fetched", staff, &response.Pagination{
		Page:       filter.Page,
		PerPage:    filter.PerPage,
		TotalItems: total,
		TotalPages: totalPages,
	})
}

// GetByID returns one staff account
// @Summary      Get staff by ID
// @Tags         staff
// @Produce      json
// @Param        id  path  string  true  "Staff ID"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /staff/{id} [get]
func (h *StaffHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	staff, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrStaffNotFound) || errors.Is(err, service.ErrInvalidStaffID) {
			response.NotFound(w, "Staff not found")
			return
		}
		response.InternalError(w, "Failed to fetch staff")
		return
	}

	response.Success(w, "Staff fetched", staff)
}

// Create registers a staff account
// @Summary      Create staff
// @Description  Register a staff account; the login PIN is generated server-side and returned once
// @Tags         staff
// @Accept       json
// @Produce      json
// @Param        request  body  model.CreateStaffRequest  true  "Staff details"
// @Security     BearerAuth
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /staff [post]
func (h *StaffHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateStaffRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", err.Error())
		return
	}

	errs := utils.ValidationErrors{}
	if req.FullName == "" {
		errs["full_name"] = "Full name is required"
	}
	if !utils.IsValidEmail(req.Email) {
		errs["email"] = "A valid email address is required"
	}
	if req.Role == "" {
		errs["role"] = "Role is required"
	}
	if errs.HasErrors() {
		response.BadRequest(w, "Validation failed", errs)
		return
	}

	created, err := h.svc.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			response.Conflict(w, err.Error())
		case errors.Is(err, service.ErrUnknownRole):
			response.BadRequest(w, err.Error(), nil)
		default:
			response.InternalError(w, "Failed to create staff")
		}
		return
	}

	response.Created(w, "Staff created", created)
}

// Update modifies a staff account
// @Summary      Update staff
// @Tags         staff
// @Accept       json
// @Produce      json
// @Param        id       path  string                    true  "Staff ID"
// @Param        request  body  model.UpdateStaffRequest  true  "Fields to update"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /staff/{id} [put]
func (h *StaffHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req model.UpdateStaffRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", err.Error())
		return
	}

	staff, err := h.svc.Update(r.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStaffNotFound), errors.Is(err, service.ErrInvalidStaffID):
			response.NotFound(w, "Staff not found")
		case errors.Is(err, service.ErrEmailTaken):
			response.Conflict(w, err.Error())
		case errors.Is(err, service.ErrUnknownRole):
			response.BadRequest(w, err.Error(), nil)
		default:
			response.InternalError(w, "Failed to update staff")
		}
		return
	}

	response.Success(w, "Staff updated", staff)
}

// Delete removes a staff account
// @Summary      Delete staff
// @Tags         staff
// @Produce      json
// @Param        id  path  string  true  "Staff ID"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /staff/{id} [delete]
func (h *StaffHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	callerID := ""
	if claims := middleware.ClaimsFromContext(r.Context()); claims != nil {
		callerID = claims.SubjectID
	}

	if err := h.svc.Delete(r.Context(), id, callerID); err != nil {
		switch {
		case errors.Is(err, service.ErrCannotDeleteSelf):
			response.BadRequest(w, err.Error(), nil)
		case errors.Is(err, service.ErrStaffNotFound), errors.Is(err, service.ErrInvalidStaffID):
			response.NotFound(w, "Staff not found")
		default:
			response.InternalError(w, "Failed to delete staff")
		}
		return
	}

	response.Success(w, "Staff deleted", nil)
}

// ResetPin issues a fresh login PIN
// @Summary      Reset staff PIN
// @Tags         staff
// @Produce      json
// @Param        id  path  string  true  "Staff ID"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /staff/{id}/reset-pin [post]
func (h *StaffHandler) ResetPin(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	pin, err := h.svc.ResetPin(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrStaffNotFound) || errors.Is(err, service.ErrInvalidStaffID) {
			response.NotFound(w, "Staff not found")
			return
		}
		response.InternalError(w, "Failed to reset PIN")
		return
	}

	response.Success(w, "PIN reset", map[string]string{"pin": pin})
}

// UploadPhoto stores a staff passport photograph
// @Summary      Upload staff passport
// @Tags         staff
// @Accept       multipart/form-data
// @Produce      json
// @Param        id    path      string  true  "Staff ID"
// @Param        file  formData  file    true  "Passport photo (JPG or PNG, max 5MB)"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /staff/{id}/photo [post]
func (h *StaffHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	r.Body = http.MaxBytesReader(w, r.Body, utils.MaxPhotoSize)
	if err := r.ParseMultipartForm(utils.MaxPhotoSize); err != nil {
		response.BadRequest(w, "File too large (max 5MB) or invalid form", nil)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "No file in request", nil)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.InternalError(w, "Failed to read file")
		return
	}

	url, err := h.svc.UploadPhoto(r.Context(), id, data, header.Header.Get("Content-Type"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStaffNotFound), errors.Is(err, service.ErrInvalidStaffID):
			response.NotFound(w, "Staff not found")
		case errors.Is(err, service.ErrUnsupportedPhotoFormat):
			response.BadRequest(w, err.Error(), nil)
		default:
			response.InternalError(w, "Failed to upload photo")
		}
		return
	}

	response.Success(w, "Photo uploaded", map[string]string{"passport_url": url})
}
