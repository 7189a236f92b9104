package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/citadelschools/school-portal/internal/model"
	"github.com/citadelschools/school-portal/internal/response"
	"github.com/citadelschools/school-portal/internal/service"
	"github.com/citadelschools/school-portal/internal/utils"
	"github.com/go-chi/chi/v5"
)

type StudentHandler struct {
	svc service.StudentService
}

func NewStudentHandler(svc service.StudentService) *StudentHandler {
	return &StudentHandler{svc: svc}
}

func parseIntQuery(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return fallback
	}
	return v
}

// GetAll lists students with filters
// @Summary      List students
// @Description  Get a paginated list of students, filtered by search, class or section
// @Tags         students
// @Produce      json
// @Param        search    query  string  false  "Search by name or admission number"
// @Param        class     query  string  false  "Filter by class level"
// @Param        section   query  string  false  "Filter by section (Primary | Secondary)"
// @Param        page      query  int     false  "Page number"
// @Param        per_page  query  int     false  "Items per page"
// @Security     BearerAuth
// @Success      200  {object}  response.PaginatedResponse
// @Failure      500  {object}  response.Response
// @Router       /students [get]
func (h *StudentHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := model.StudentFilter{
		Search:  q.Get("search"),
		Class:   q.Get("class"),
		Section: q.Get("section"),
		Page:    parseIntQuery(q.Get("page"), 1),
		PerPage: parseIntQuery(q.Get("per_page"), 20),
	}

	students, total, err := h.svc.GetAll(r.Context(), filter)
	if err != nil {
		response.InternalError(w, "Failed to fetch students")
		return
	}

	totalPages := int((total + int64(filter.PerPage) - 1) / int64(filter.PerPage))
	response.Paginated(w, "Students fetched", students, &response.Pagination{
		Page:       filter.Page,
		PerPage:    filter.PerPage,
		TotalItems: total,
		TotalPages: totalPages,
	})
}

// GetByID returns one student
// @Summary      Get student by ID
// @Tags         students
// @Produce      json
// @Param        id  path  string  true  "Student ID"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /students/{id} [get]
func (h *StudentHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	student, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrStudentNotFound) || errors.Is(err, service.ErrInvalidStudentID) {
			response.NotFound(w, "Student not found")
			return
		}
		response.InternalError(w, "Failed to fetch student")
		return
	}

	response.Success(w, "Student fetched", student)
}

// GetByClass lists the active students of one class
// @Summary      List students in a class
// @Tags         students
// @Produce      json
// @Param        class  path  string  true  "Class level"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /students/class/{class} [get]
func (h *StudentHandler) GetByClass(w http.ResponseWriter, r *http.Request) {
	classLevel := chi.URLParam(r, "class")

	students, err := h.svc.GetByClass(r.Context(), classLevel)
	if err != nil {
		response.InternalError(w, "Failed to fetch students")
		return
	}

	response.Success(w, "Students fetched", students)
}

// Create enrols a new student
// @Summary      Create a student
// @Description  Enrol a student; the admission number and login PIN are generated server-side and the PIN is returned once
// @Tags         students
// @Accept       json
// @Produce      json
// @Param        request  body  model.CreateStudentRequest  true  "Student details"
// @Security     BearerAuth
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /students [post]
func (h *StudentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateStudentRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", err.Error())
		return
	}

	errs := utils.ValidationErrors{}
	if req.FullName == "" {
		errs["full_name"] = "Full name is required"
	}
	if req.CurrentClass == "" {
		errs["current_class"] = "Class is required"
	}
	if errs.HasErrors() {
		response.BadRequest(w, "Validation failed", errs)
		return
	}

	created, err := h.svc.Create(r.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidDateOfBirth) {
			response.BadRequest(w, err.Error(), nil)
			return
		}
		response.InternalError(w, "Failed to create student")
		return
	}

	response.Created(w, "Student created", created)
}

// Update modifies a student record
// @Summary      Update a student
// @Tags         students
// @Accept       json
// @Produce      json
// @Param        id       path  string                      true  "Student ID"
// @Param        request  body  model.UpdateStudentRequest  true  "Fields to update"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /students/{id} [put]
func (h *StudentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req model.UpdateStudentRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", err.Error())
		return
	}

	student, err := h.svc.Update(r.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStudentNotFound), errors.Is(err, service.ErrInvalidStudentID):
			response.NotFound(w, "Student not found")
		case errors.Is(err, service.ErrInvalidDateOfBirth):
			response.BadRequest(w, err.Error(), nil)
		default:
			response.InternalError(w, "Failed to update student")
		}
		return
	}

	response.Success(w, "Student updated", student)
}

// Delete removes a student record
// @Summary      Delete a student
// @Tags         students
// @Produce      json
// @Param        id  path  string  true  "Student ID"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /students/{id} [delete]
func (h *StudentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrStudentNotFound) || errors.Is(err, service.ErrInvalidStudentID) {
			response.NotFound(w, "Student not found")
			return
		}
		response.InternalError(w, "Failed to delete student")
		return
	}

	response.Success(w, "Student deleted", nil)
}

// SetAccess enables or disables a student's portal access
// @Summary      Toggle student access
// @Description  Enable or disable a student's portal login without touching any records
// @Tags         students
// @Accept       json
// @Produce      json
// @Param        id       path  string                  true  "Student ID"
// @Param        request  body  model.SetAccessRequest  true  "Access flag"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /students/{id}/access [patch]
func (h *StudentHandler) SetAccess(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req model.SetAccessRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", err.Error())
		return
	}

	if err := h.svc.SetAccess(r.Context(), id, req.IsActive); err != nil {
		if errors.Is(err, service.ErrStudentNotFound) || errors.Is(err, service.ErrInvalidStudentID) {
			response.NotFound(w, "Student not found")
			return
		}
		response.InternalError(w, "Failed to update access")
		return
	}

	response.Success(w, "Access updated", nil)
}

// ResetPin issues a fresh login PIN
// @Summary      Reset student PIN
// @Description  Generate a new 4-digit PIN for the student; returned exactly once
// @Tags         students
// @Produce      json
// @Param        id  path  string  true  "Student ID"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /students/{id}/reset-pin [post]
func (h *StudentHandler) ResetPin(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	pin, err := h.svc.ResetPin(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrStudentNotFound) || errors.Is(err, service.ErrInvalidStudentID) {
			response.NotFound(w, "Student not found")
			return
		}
		response.InternalError(w, "Failed to reset PIN")
		return
	}

	response.Success(w, "PIN reset", map[string]string{"pin": pin})
}

// Promote moves all active students of one class to another
// @Summary      Promote a class
// @Description  Move every active student from one class to another; target may be any class name including Graduated
// @Tags         students
// @Accept       json
// @Produce      json
// @Param        request  body  model.PromoteRequest  true  "Source and destination class"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /students/promote [post]
func (h *StudentHandler) Promote(w http.ResponseWriter, r *http.Request) {
	var req model.PromoteRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", err.Error())
		return
	}

	errs := utils.ValidationErrors{}
	if req.FromClass == "" {
		errs["from_class"] = "Source class is required"
	}
	if req.ToClass == "" {
		errs["to_class"] = "Destination class is required"
	}
	if errs.HasErrors() {
		response.BadRequest(w, "Validation failed", errs)
		return
	}

	moved, err := h.svc.Promote(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPromoteSameClass):
			response.BadRequest(w, err.Error(), nil)
		case errors.Is(err, service.ErrNoStudentsInClass):
			response.NotFound(w, err.Error())
		default:
			response.InternalError(w, "Promotion failed")
		}
		return
	}

	response.Success(w, "Students promoted", map[string]int64{"moved": moved})
}

// UploadPhoto stores a passport photograph
// @Summary      Upload student passport
// @Tags         students
// @Accept       multipart/form-data
// @Produce      json
// @Param        id    path      string  true  "Student ID"
// @Param        file  formData  file    true  "Passport photo (JPG or PNG, max 5MB)"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /students/{id}/photo [post]
func (h *StudentHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
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
		case errors.Is(err, service.ErrStudentNotFound), errors.Is(err, service.ErrInvalidStudentID):
			response.NotFound(w, "Student not found")
		case errors.Is(err, service.ErrUnsupportedPhotoFormat):
			response.BadRequest(w, err.Error(), nil)
		default:
			response.InternalError(w, "Failed to upload photo")
		}
		return
	}

	response.Success(w, "Photo uploaded", map[string]string{"passport_url": url})
}
