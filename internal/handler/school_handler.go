package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/citadelschools/school-portal/internal/middleware"
	"github.com/citadelschools/school-portal/internal/model"
	"github.com/citadelschools/school-portal/internal/response"
	"github.com/citadelschools/school-portal/internal/service"
	"github.com/citadelschools/school-portal/internal/utils"
	"github.com/go-chi/chi/v5"
)

type SchoolHandler struct {
	svc service.SchoolService
}

func NewSchoolHandler(svc service.SchoolService) *SchoolHandler {
	return &SchoolHandler{svc: svc}
}

// GetSettings returns the active term and session
// @Summary      Get school settings
// @Tags         school
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Router       /school/settings [get]
func (h *SchoolHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.svc.GetSettings(r.Context())
	if err != nil {
		if errors.Is(err, service.ErrSettingsMissing) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to fetch settings")
		return
	}
	response.Success(w, "Settings fetched", settings)
}

// UpdateSettings moves the school to a new active term/session
// @Summary      Update school settings
// @Description  Set the current term and session; existing results and payments stay keyed to the term they were written in
// @Tags         school
// @Accept       json
// @Produce      json
// @Param        request  body  model.UpdateSettingsRequest  true  "New term and session"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /school/settings [put]
func (h *SchoolHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateSettingsRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", err.Error())
		return
	}

	settings, err := h.svc.UpdateSettings(r.Context(), &req)
	if err != nil {
		response.BadRequest(w, err.Error(), nil)
		return
	}

	response.Success(w, "Settings updated", settings)
}

// GetConfig returns a section's resumption date
// @Summary      Get section config
// @Tags         school
// @Produce      json
// @Param        section  path  string  true  "Section (Primary | Secondary)"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /school/config/{section} [get]
func (h *SchoolHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	section := chi.URLParam(r, "section")

	cfg, err := h.svc.GetConfig(r.Context(), section)
	if err != nil {
		if errors.Is(err, service.ErrInvalidSection) {
			response.BadRequest(w, err.Error(), nil)
			return
		}
		response.InternalError(w, "Failed to fetch config")
		return
	}

	response.Success(w, "Config fetched", cfg)
}

// SetConfig updates a section's resumption date
// @Summary      Set section config
// @Tags         school
// @Accept       json
// @Produce      json
// @Param        section  path  string                     true  "Section (Primary | Secondary)"
// @Param        request  body  model.UpdateConfigRequest  true  "Next term resumption date"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /school/config/{section} [put]
func (h *SchoolHandler) SetConfig(w http.ResponseWriter, r *http.Request) {
	section := chi.URLParam(r, "section")

	var req model.UpdateConfigRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", err.Error())
		return
	}

	if err := h.svc.SetNextTermBegins(r.Context(), section, req.NextTermBegins); err != nil {
		if errors.Is(err, service.ErrInvalidSection) {
			response.BadRequest(w, err.Error(), nil)
			return
		}
		response.InternalError(w, "Failed to update config")
		return
	}

	response.Success(w, "Config updated", nil)
}

// ListUpdates returns school announcements
// @Summary      List announcements
// @Tags         school
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Router       /school/updates [get]
func (h *SchoolHandler) ListUpdates(w http.ResponseWriter, r *http.Request) {
	updates, err := h.svc.ListUpdates(r.Context())
	if err != nil {
		response.InternalError(w, "Failed to fetch announcements")
		return
	}
	response.Success(w, "Announcements fetched", updates)
}

// CreateUpdate posts an announcement
// @Summary      Create an announcement
// @Tags         school
// @Accept       json
// @Produce      json
// @Param        request  body  model.CreateUpdateRequest  true  "Announcement"
// @Security     BearerAuth
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /school/updates [post]
func (h *SchoolHandler) CreateUpdate(w http.ResponseWriter, r *http.Request) {
	var req model.CreateUpdateRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", err.Error())
		return
	}

	update, err := h.svc.CreateUpdate(r.Context(), &req)
	if err != nil {
		response.BadRequest(w, err.Error(), nil)
		return
	}

	response.Created(w, "Announcement created", update)
}

// DeleteUpdate removes an announcement
// @Summary      Delete an announcement
// @Tags         school
// @Produce      json
// @Param        id  path  string  true  "Announcement ID"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /school/updates/{id} [delete]
func (h *SchoolHandler) DeleteUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.svc.DeleteUpdate(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrUpdateNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to delete announcement")
		return
	}

	response.Success(w, "Announcement deleted", nil)
}

// ListSubjects returns subjects visible to the caller's section
// @Summary      List subjects
// @Description  General subjects plus the caller's own section; pass section=General (or none as admin) for everything
// @Tags         school
// @Produce      json
// @Param        section  query  string  false  "Section filter"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Router       /school/subjects [get]
func (h *SchoolHandler) ListSubjects(w http.ResponseWriter, r *http.Request) {
	section := model.Section(r.URL.Query().Get("section"))
	if section == "" {
		if claims := middleware.ClaimsFromContext(r.Context()); claims != nil {
			section = model.Section(claims.Section)
		}
	}

	subjects, err := h.svc.ListSubjects(r.Context(), section)
	if err != nil {
		response.InternalError(w, "Failed to fetch subjects")
		return
	}

	response.Success(w, "Subjects fetched", subjects)
}

// CreateSubject registers a subject
// @Summary      Create a subject
// @Tags         school
// @Accept       json
// @Produce      json
// @Param        request  body  model.CreateSubjectRequest  true  "Subject"
// @Security     BearerAuth
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /school/subjects [post]
func (h *SchoolHandler) CreateSubject(w http.ResponseWriter, r *http.Request) {
	var req model.CreateSubjectRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", err.Error())
		return
	}

	subject, err := h.svc.CreateSubject(r.Context(), &req)
	if err != nil {
		response.BadRequest(w, err.Error(), nil)
		return
	}

	response.Created(w, "Subject created", subject)
}

// DeleteSubject removes a subject
// @Summary      Delete a subject
// @Tags         school
// @Produce      json
// @Param        id  path  int  true  "Subject ID"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /school/subjects/{id} [delete]
func (h *SchoolHandler) DeleteSubject(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid subject ID", nil)
		return
	}

	if err := h.svc.DeleteSubject(r.Context(), id); err != nil {
		response.InternalError(w, "Failed to delete subject")
		return
	}

	response.Success(w, "Subject deleted", nil)
}

// UpsertTermReport writes the non-score half of a result sheet
// @Summary      Upsert a term report
// @Description  Write or revise attendance, skill ratings and the class teacher's remark for one student and term
// @Tags         school
// @Accept       json
// @Produce      json
// @Param        request  body  model.UpsertTermReportRequest  true  "Term report"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /term-reports [put]
func (h *SchoolHandler) UpsertTermReport(w http.ResponseWriter, r *http.Request) {
	var req model.UpsertTermReportRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", err.Error())
		return
	}

	errs := utils.ValidationErrors{}
	if req.StudentID == "" {
		errs["student_id"] = "Student is required"
	}
	if req.Term == "" {
		errs["term"] = "Term is required"
	}
	if req.Session == "" {
		errs["session"] = "Session is required"
	}
	if errs.HasErrors() {
		response.BadRequest(w, "Validation failed", errs)
		return
	}

	report, err := h.svc.UpsertTermReport(r.Context(), &req)
	if err != nil {
		response.BadRequest(w, err.Error(), nil)
		return
	}

	response.Success(w, "Term report saved", report)
}

// GetTermReport fetches one student's term report
// @Summary      Get a term report
// @Tags         school
// @Produce      json
// @Param        id       path   string  true  "Student ID"
// @Param        term     query  string  true  "Term"
// @Param        session  query  string  true  "Session"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /term-reports/{id} [get]
func (h *SchoolHandler) GetTermReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	q := r.URL.Query()

	report, err := h.svc.GetTermReport(r.Context(), id, q.Get("term"), q.Get("session"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidStudentID) {
			response.BadRequest(w, err.Error(), nil)
			return
		}
		response.InternalError(w, "Failed to fetch term report")
		return
	}
	if report == nil {
		response.NotFound(w, "No term report for this student and term")
		return
	}

	response.Success(w, "Term report fetched", report)
}
