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

type PaymentHandler struct {
	svc service.PaymentService
}

func NewPaymentHandler(svc service.PaymentService) *PaymentHandler {
	return &PaymentHandler{svc: svc}
}

func recordedBy(r *http.Request) string {
	if claims := middleware.ClaimsFromContext(r.Context()); claims != nil {
		return claims.Name
	}
	return "Unknown"
}

// Record appends a payment row
// @Summary      Record a payment
// @Description  Append a payment to the ledger; a PIN Purchase row unlocks the student's result for the term
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        request  body  model.RecordPaymentRequest  true  "Payment details"
// @Security     BearerAuth
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /payments [post]
func (h *PaymentHandler) Record(w http.ResponseWriter, r *http.Request) {
	var req model.RecordPaymentRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", err.Error())
		return
	}

	errs := utils.ValidationErrors{}
	if req.StudentID == "" {
		errs["student_id"] = "Student is required"
	}
	if req.Purpose == "" {
		errs["purpose"] = "Purpose is required"
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

	payment, err := h.svc.RecordPayment(r.Context(), &req, recordedBy(r))
	if err != nil {
		h.writePaymentError(w, err)
		return
	}

	response.Created(w, "Payment recorded", payment)
}

// SellPin sells a result PIN
// @Summary      Sell a result PIN
// @Description  Record a PIN Purchase payment, unlocking the student's result for the term; refused if one was already sold
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        request  body  model.SellPinRequest  true  "Sale details"
// @Security     BearerAuth
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /payments/pin [post]
func (h *PaymentHandler) SellPin(w http.ResponseWriter, r *http.Request) {
	var req model.SellPinRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", err.Error())
		return
	}

	payment, err := h.svc.SellPin(r.Context(), &req, recordedBy(r))
	if err != nil {
		h.writePaymentError(w, err)
		return
	}

	response.Created(w, "Result PIN sold", payment)
}

// Recent lists the latest payments
// @Summary      Recent payments
// @Tags         payments
// @Produce      json
// @Param        limit  query  int  false  "Max rows (default 50)"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Router       /payments [get]
func (h *PaymentHandler) Recent(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r.URL.Query().Get("limit"), 50)

	payments, err := h.svc.RecentPayments(r.Context(), limit)
	if err != nil {
		response.InternalError(w, "Failed to fetch payments")
		return
	}

	response.Success(w, "Payments fetched", payments)
}

// StudentHistory lists one student's payments
// @Summary      Student payment history
// @Tags         payments
// @Produce      json
// @Param        id  path  string  true  "Student ID"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /payments/student/{id} [get]
func (h *PaymentHandler) StudentHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	payments, err := h.svc.StudentHistory(r.Context(), id)
	if err != nil {
		h.writePaymentError(w, err)
		return
	}

	response.Success(w, "Payment history fetched", payments)
}

// Stats returns today's collection figures
// @Summary      Today's payment stats
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Router       /payments/stats [get]
func (h *PaymentHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.TodayStats(r.Context())
	if err != nil {
		response.InternalError(w, "Failed to fetch payment stats")
		return
	}

	response.Success(w, "Payment stats fetched", stats)
}

// HistoryPDF exports a student's payment history
// @Summary      Payment history PDF
// @Tags         payments
// @Produce      application/pdf
// @Param        id  path  string  true  "Student ID"
// @Security     BearerAuth
// @Success      200  {file}    file
// @Failure      404  {object}  response.Response
// @Router       /payments/student/{id}/pdf [get]
func (h *PaymentHandler) HistoryPDF(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	data, filename, err := h.svc.HistoryPDF(r.Context(), id)
	if err != nil {
		h.writePaymentError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Write(data)
}

// PinStatus reports whether a PIN was sold for the term
// @Summary      PIN sale status
// @Tags         payments
// @Produce      json
// @Param        id       path   string  true  "Student ID"
// @Param        term     query  string  true  "Term"
// @Param        session  query  string  true  "Session"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Router       /payments/student/{id}/pin-status [get]
func (h *PaymentHandler) PinStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	q := r.URL.Query()

	sold, err := h.svc.PinStatus(r.Context(), id, q.Get("term"), q.Get("session"))
	if err != nil {
		h.writePaymentError(w, err)
		return
	}

	response.Success(w, "PIN status fetched", map[string]bool{"sold": sold})
}

func (h *PaymentHandler) writePaymentError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrPinAlreadySold):
		response.Conflict(w, err.Error())
	case errors.Is(err, service.ErrInvalidAmount):
		response.BadRequest(w, err.Error(), nil)
	case errors.Is(err, service.ErrStudentNotFound), errors.Is(err, service.ErrInvalidStudentID):
		response.NotFound(w, "Student not found")
	default:
		response.InternalError(w, "Payment operation failed")
	}
}
