package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"bloodconnect/internal/delivery/dto"
	"bloodconnect/internal/delivery/http/middleware"
	"bloodconnect/internal/domain/entity"
	"bloodconnect/internal/domain/repository"
	"bloodconnect/internal/service"
	"bloodconnect/internal/usecase"
	"bloodconnect/pkg/response"
	"bloodconnect/pkg/validator"

	"github.com/gorilla/mux"
)

type DonorHandler struct {
	donorUsecase   usecase.DonorUsecase
	requestUsecase usecase.BloodRequestUsecase
	resolver       service.ProfileResolver
	validator      *validator.CustomValidator
}

func NewDonorHandler(donorUsecase usecase.DonorUsecase, requestUsecase usecase.BloodRequestUsecase, resolver service.ProfileResolver, validator *validator.CustomValidator) *DonorHandler {
	return &DonorHandler{
		donorUsecase:   donorUsecase,
		requestUsecase: requestUsecase,
		resolver:       resolver,
		validator:      validator,
	}
}

func (h *DonorHandler) CreateDonor(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateDonorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	donor, err := h.donorUsecase.Create(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrInvalidBloodType:
			response.Error(w, http.StatusBadRequest, "Invalid blood type", nil)
		case usecase.ErrInvalidDateFormat:
			response.Error(w, http.StatusBadRequest, "Invalid date format, use YYYY-MM-DD", nil)
		default:
			response.InternalServerError(w, "Failed to create donor")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Donor created successfully", donor)
}

func (h *DonorHandler) GetDonor(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	donorID, err := strconv.Atoi(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid donor ID", nil)
		return
	}

	donor, err := h.donorUsecase.GetByID(r.Context(), uint(donorID))
	if err != nil {
		if err == usecase.ErrDonorNotFound {
			response.NotFound(w, "Donor not found")
			return
		}
		response.InternalServerError(w, "Failed to get donor")
		return
	}

	response.Success(w, http.StatusOK, "Donor retrieved successfully", donor)
}

func (h *DonorHandler) GetAllDonors(w http.ResponseWriter, r *http.Request) {
	filter := &repository.DonorFilter{
		BloodType: entity.BloodType(r.URL.Query().Get("blood_type")),
		City:      r.URL.Query().Get("city"),
	}
	if available := r.URL.Query().Get("available"); available != "" {
		parsed, err := strconv.ParseBool(available)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid available filter", nil)
			return
		}
		filter.Available = &parsed
	}

	donors, err := h.donorUsecase.GetAll(r.Context(), filter)
	if err != nil {
		if err == usecase.ErrInvalidBloodType {
			response.Error(w, http.StatusBadRequest, "Invalid blood type", nil)
			return
		}
		response.InternalServerError(w, "Failed to list donors")
		return
	}

	response.Success(w, http.StatusOK, "Donors retrieved successfully", donors)
}

func (h *DonorHandler) GetDonorsByBloodType(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	donors, err := h.donorUsecase.GetByBloodType(r.Context(), vars["bloodType"])
	if err != nil {
		if err == usecase.ErrInvalidBloodType {
			response.Error(w, http.StatusBadRequest, "Invalid blood type", nil)
			return
		}
		response.InternalServerError(w, "Failed to list donors")
		return
	}

	response.Success(w, http.StatusOK, "Donors retrieved successfully", donors)
}

func (h *DonorHandler) UpdateDonor(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	donorID, err := strconv.Atoi(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid donor ID", nil)
		return
	}

	var req dto.UpdateDonorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	donor, err := h.donorUsecase.Update(r.Context(), uint(donorID), &req)
	if err != nil {
		switch err {
		case usecase.ErrDonorNotFound:
			response.NotFound(w, "Donor not found")
		case usecase.ErrInvalidBloodType:
			response.Error(w, http.StatusBadRequest, "Invalid blood type", nil)
		case usecase.ErrInvalidDateFormat:
			response.Error(w, http.StatusBadRequest, "Invalid date format, use YYYY-MM-DD", nil)
		default:
			response.InternalServerError(w, "Failed to update donor")
		}
		return
	}

	response.Success(w, http.StatusOK, "Donor updated successfully", donor)
}

func (h *DonorHandler) DeleteDonor(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	donorID, err := strconv.Atoi(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid donor ID", nil)
		return
	}

	if err := h.donorUsecase.Delete(r.Context(), uint(donorID)); err != nil {
		if err == usecase.ErrDonorNotFound {
			response.NotFound(w, "Donor not found")
			return
		}
		response.InternalServerError(w, "Failed to delete donor")
		return
	}

	response.Success(w, http.StatusOK, "Donor deleted successfully", nil)
}

// GetMyProfile returns the donor profile owned by the authenticated user
func (h *DonorHandler) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	donorID, ok := h.resolveDonorID(w, r)
	if !ok {
		return
	}

	donor, err := h.donorUsecase.GetByID(r.Context(), donorID)
	if err != nil {
		if err == usecase.ErrDonorNotFound {
			response.NotFound(w, "Donor profile not found")
			return
		}
		response.InternalServerError(w, "Failed to get donor profile")
		return
	}

	response.Success(w, http.StatusOK, "Donor profile retrieved successfully", donor)
}

// GetMyHistory returns the authenticated donor's fulfilled requests
func (h *DonorHandler) GetMyHistory(w http.ResponseWriter, r *http.Request) {
	donorID, ok := h.resolveDonorID(w, r)
	if !ok {
		return
	}

	history, err := h.requestUsecase.GetHistory(r.Context(), donorID)
	if err != nil {
		response.InternalServerError(w, "Failed to get donation history")
		return
	}

	response.Success(w, http.StatusOK, "Donation history retrieved successfully", history)
}

func (h *DonorHandler) resolveDonorID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return 0, false
	}

	donorID, err := h.resolver.DonorID(r.Context(), userID)
	if err != nil {
		response.InternalServerError(w, "Failed to resolve donor profile")
		return 0, false
	}
	if donorID == nil {
		response.NotFound(w, "No donor profile linked to this account")
		return 0, false
	}

	return *donorID, true
}

// GetDonorHistory returns the donor's fulfilled requests, most recent first
func (h *DonorHandler) GetDonorHistory(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	donorID, err := strconv.Atoi(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid donor ID", nil)
		return
	}

	history, err := h.requestUsecase.GetHistory(r.Context(), uint(donorID))
	if err != nil {
		response.InternalServerError(w, "Failed to get donation history")
		return
	}

	response.Success(w, http.StatusOK, "Donation history retrieved successfully", history)
}

func (h *DonorHandler) GetDonorStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.donorUsecase.GetStats(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get donor statistics")
		return
	}

	response.Success(w, http.StatusOK, "Donor statistics retrieved successfully", stats)
}
