package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/citadelschools/school-portal/internal/middleware"
	"github.com/citadelschools/school-portal/internal/response"
	"github.com/citadelschools/school-portal/internal/service"
	"github.com/go-chi/chi/v5"
)

type ReportHandler struct {
	svc service.ReportService
}

func NewReportHandler(svc service.ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

// studentScope blocks students from reading other students' reports.
func studentScope(r *http.Request, studentID string) bool {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		return false
	}
	if claims.Kind == "student" && claims.SubjectID != studentID {
		return false
	}
	return true
}

// Get compiles a student's term report
// @Summary      Get term report
// @Description  Compile the full term report: approved scores, attendance, skills and aggregates. Locked until a result PIN is purchased for the term
// @Tags         reports
// @Produce      json
// @Param        id       path   string  true  "Student ID"
// @Param        term     query  string  true  "Term"
// @Param        session  query  string  true  "Session"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      402  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /reports/{id} [get]
func (h *ReportHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	q := r.URL.Query()

	if !studentScope(r, id) {
		response.Forbidden(w, "You can only view your own report")
		return
	}

	report, err := h.svc.Compile(r.Context(), id, q.Get("term"), q.Get("session"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrReportLocked):
			response.Locked(w, err.Error())
		case errors.Is(err, service.ErrStudentNotFound):
			response.NotFound(w, "Student not found")
		default:
			response.InternalError(w, "Failed to compile report")
		}
		return
	}

	response.Success(w, "Report compiled", report)
}

// PDF renders the printable result sheet
// @Summary      Download result sheet PDF
// @Description  Render the term report as a printable A4 result sheet with a verification QR code
// @Tags         reports
// @Produce      application/pdf
// @Param        id       path   string  true  "Student ID"
// @Param        term     query  string  true  "Term"
// @Param        session  query  string  true  "Session"
// @Security     BearerAuth
// @Success      200  {file}    file
// @Failure      402  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /reports/{id}/pdf [get]
func (h *ReportHandler) PDF(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	q := r.URL.Query()

	if !studentScope(r, id) {
		response.Forbidden(w, "You can only view your own report")
		return
	}

	data, filename, err := h.svc.RenderPDF(r.Context(), id, q.Get("term"), q.Get("session"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrReportLocked):
			response.Locked(w, err.Error())
		case errors.Is(err, service.ErrStudentNotFound):
			response.NotFound(w, "Student not found")
		default:
			response.InternalError(w, "Failed to generate result sheet")
		}
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Write(data)
}

// Verify answers a result sheet's QR code
// @Summary      Verify a result sheet
// @Description  Public check that an issued result sheet is genuine; returns only summary figures
// @Tags         reports
// @Produce      json
// @Param        admissionNumber  path   string  true  "Admission number"
// @Param        term             query  string  true  "Term"
// @Param        session          query  string  true  "Session"
// @Success      200  {object}  response.Response
// @Router       /verify/{admissionNumber} [get]
func (h *ReportHandler) Verify(w http.ResponseWriter, r *http.Request) {
	// admission numbers contain slashes, so the QR link path-escapes them
	admissionNumber := chi.URLParam(r, "admissionNumber")
	if unescaped, err := url.PathUnescape(admissionNumber); err == nil {
		admissionNumber = unescaped
	}
	q := r.URL.Query()

	summary, err := h.svc.Verify(r.Context(), admissionNumber, q.Get("term"), q.Get("session"))
	if err != nil {
		response.InternalError(w, "Verification failed")
		return
	}

	if !summary.Valid {
		response.Success(w, "No issued result matches this code", summary)
		return
	}
	response.Success(w, "Result sheet verified", summary)
}
