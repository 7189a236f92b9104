package handler

import (
	"errors"
	"net/http"

	"github.com/citadelschools/school-portal/internal/middleware"
	"github.com/citadelschools/school-portal/internal/response"
	"github.com/citadelschools/school-portal/internal/service"
	"github.com/citadelschools/school-portal/internal/utils"
)

type AuthHandler struct {
	svc service.AuthService
}

func NewAuthHandler(svc service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

type staffLoginRequest struct {
	Email string `json:"email"`
	Pin   string `json:"pin"`
}

type studentLoginRequest struct {
	AdmissionNumber string `json:"admission_number"`
	Pin             string `json:"pin"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// StaffLogin authenticates a staff member
// @Summary      Staff login
// @Description  Authenticate a staff member with email and PIN
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      staffLoginRequest  true  "Login credentials"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Router       /auth/staff/login [post]
func (h *AuthHandler) StaffLogin(w http.ResponseWriter, r *http.Request) {
	var req staffLoginRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", err.Error())
		return
	}

	errs := utils.ValidationErrors{}
	if !utils.IsValidEmail(req.Email) {
		errs["email"] = "A valid email address is required"
	}
	if !utils.IsValidPin(req.Pin) {
		errs["pin"] = "PIN must be 4 digits"
	}
	if errs.HasErrors() {
		response.BadRequest(w, "Validation failed", errs)
		return
	}

	result, err := h.svc.StaffLogin(r.Context(), req.Email, req.Pin)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			response.Unauthorized(w, "Invalid email or PIN")
		case errors.Is(err, service.ErrAccountDisabled):
			response.Forbidden(w, err.Error())
		default:
			response.InternalError(w, "Login failed")
		}
		return
	}

	response.Success(w, "Login successful", result)
}

// StudentLogin authenticates a student
// @Summary      Student login
// @Description  Authenticate a student with admission number and result PIN
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      studentLoginRequest  true  "Login credentials"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Router       /auth/student/login [post]
func (h *AuthHandler) StudentLogin(w http.ResponseWriter, r *http.Request) {
	var req studentLoginRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", err.Error())
		return
	}

	if req.AdmissionNumber == "" || !utils.IsValidPin(req.Pin) {
		response.BadRequest(w, "Admission number and a 4-digit PIN are required", nil)
		return
	}

	result, err := h.svc.StudentLogin(r.Context(), req.AdmissionNumber, req.Pin)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			response.Unauthorized(w, "Invalid admission number or PIN")
		case errors.Is(err, service.ErrAccountDisabled):
			response.Forbidden(w, err.Error())
		default:
			response.InternalError(w, "Login failed")
		}
		return
	}

	response.Success(w, "Login successful", result)
}

// Refresh exchanges a refresh token for a new token pair
// @Summary      Refresh tokens
// @Description  Exchange a valid refresh token for a fresh access/refresh pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      refreshRequest  true  "Refresh token"
// @Success      200      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", err.Error())
		return
	}

	tokens, err := h.svc.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAccountDisabled):
			response.Forbidden(w, err.Error())
		default:
			response.Unauthorized(w, "Invalid or expired refresh token")
		}
		return
	}

	response.Success(w, "Tokens refreshed", tokens)
}

// Me returns the authenticated identity
// @Summary      Current identity
// @Description  Return the claims of the authenticated caller
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Router       /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		response.Unauthorized(w, "Not authenticated")
		return
	}
	response.Success(w, "Authenticated", claims)
}
