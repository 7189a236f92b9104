package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/citadelschools/school-portal/internal/middleware"
	"github.com/citadelschools/school-portal/internal/model"
	"github.com/citadelschools/school-portal/internal/response"
	"github.com/citadelschools/school-portal/internal/service"
	"github.com/citadelschools/school-portal/internal/utils"
	"github.com/go-chi/chi/v5"
)

type ResultHandler struct {
	svc service.ResultService
}

func NewResultHandler(svc service.ResultService) *ResultHandler {
	return &ResultHandler{svc: svc}
}

// Submit uploads one class+subject score batch
// @Summary      Submit scores
// @Description  Batch submit CA and exam scores for one class and subject; totals, grades and positions are computed server-side and every row enters the approval queue as pending
// @Tags         results
// @Accept       json
// @Produce      json
// @Param        request  body  model.SubmitScoresRequest  true  "Score batch"
// @Security     BearerAuth
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /results [post]
func (h *ResultHandler) Submit(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		response.Unauthorized(w, "Not authenticated")
		return
	}

	var req model.SubmitScoresRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", err.Error())
		return
	}

	errs := utils.ValidationErrors{}
	if req.Subject == "" {
		errs["subject"] = "Subject is required"
	}
	if req.ClassLevel == "" {
		errs["class_level"] = "Class level is required"
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

	results, err := h.svc.SubmitScores(r.Context(), req, claims)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptySubmission),
			errors.Is(err, service.ErrScoreOutOfRange),
			errors.Is(err, service.ErrUnknownStudent):
			response.BadRequest(w, err.Error(), nil)
		default:
			response.InternalError(w, "Failed to submit scores")
		}
		return
	}

	response.Created(w, fmt.Sprintf("%d results submitted for approval", len(results)), results)
}

// GetStudentResults returns one student's score rows
// @Summary      Get student results
// @Description  Get a student's score rows for a term; student callers see only their own approved rows
// @Tags         results
// @Produce      json
// @Param        id       path   string  true   "Student ID"
// @Param        term     query  string  true   "Term"
// @Param        session  query  string  true   "Session"
// @Param        status   query  string  false  "Filter by status (pending | approved | rejected)"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /results/student/{id} [get]
func (h *ResultHandler) GetStudentResults(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	id := chi.URLParam(r, "id")
	q := r.URL.Query()

	status := model.ResultStatus(q.Get("status"))
	if claims != nil && claims.Kind == "student" {
		// students see only their own approved rows
		if claims.SubjectID != id {
			response.Forbidden(w, "You can only view your own results")
			return
		}
		status = model.StatusApproved
	}

	results, err := h.svc.GetStudentResults(r.Context(), id, q.Get("term"), q.Get("session"), status)
	if err != nil {
		response.InternalError(w, "Failed to fetch results")
		return
	}

	response.Success(w, "Results fetched", results)
}

// Pending lists the approval queue for the caller's section
// @Summary      List pending batches
// @Description  Group pending score rows into class+subject batches for the caller's section (Head Teacher sees Primary, Principal sees Secondary)
// @Tags         results
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /results/pending [get]
func (h *ResultHandler) Pending(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		response.Unauthorized(w, "Not authenticated")
		return
	}

	batches, err := h.svc.ListPendingBatches(r.Context(), model.Role(claims.Role))
	if err != nil {
		if errors.Is(err, service.ErrNotAnApprover) {
			response.Forbidden(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to fetch pending results")
		return
	}

	response.Success(w, "Pending batches fetched", batches)
}

// Decide approves or rejects a whole batch
// @Summary      Decide a batch
// @Description  Approve or reject every pending row of one class+subject batch in a single transaction
// @Tags         results
// @Accept       json
// @Produce      json
// @Param        request  body  model.DecideBatchRequest  true  "Batch key and decision"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /results/decide [post]
func (h *ResultHandler) Decide(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		response.Unauthorized(w, "Not authenticated")
		return
	}

	var req model.DecideBatchRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", err.Error())
		return
	}

	updated, err := h.svc.DecideBatch(r.Context(), req, model.Role(claims.Role))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDecision):
			response.BadRequest(w, err.Error(), nil)
		case errors.Is(err, service.ErrNotAnApprover), errors.Is(err, service.ErrSectionMismatch):
			response.Forbidden(w, err.Error())
		case errors.Is(err, service.ErrBatchNotFound):
			response.NotFound(w, err.Error())
		default:
			response.InternalError(w, "Failed to decide batch")
		}
		return
	}

	response.Success(w, fmt.Sprintf("Decision applied to %d results", updated), map[string]int64{"updated": updated})
}

// Broadsheet exports a class's approved results as XLSX
// @Summary      Class broadsheet
// @Description  Export the approved results of a class for one term as an XLSX broadsheet, one row per student and one column per subject
// @Tags         results
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        class    query  string  true  "Class level"
// @Param        term     query  string  true  "Term"
// @Param        session  query  string  true  "Session"
// @Security     BearerAuth
// @Success      200  {file}    file
// @Failure      400  {object}  response.Response
// @Router       /results/broadsheet [get]
func (h *ResultHandler) Broadsheet(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	classLevel, term, session := q.Get("class"), q.Get("term"), q.Get("session")
	if classLevel == "" || term == "" || session == "" {
		response.BadRequest(w, "class, term and session are required", nil)
		return
	}

	data, filename, err := h.svc.Broadsheet(r.Context(), classLevel, term, session)
	if err != nil {
		response.InternalError(w, "Failed to generate broadsheet")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Write(data)
}
