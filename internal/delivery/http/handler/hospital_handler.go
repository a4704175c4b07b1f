package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"bloodconnect/internal/delivery/dto"
	"bloodconnect/internal/domain/repository"
	"bloodconnect/internal/usecase"
	"bloodconnect/pkg/response"
	"bloodconnect/pkg/validator"

	"github.com/gorilla/mux"
)

type HospitalHandler struct {
	hospitalUsecase usecase.HospitalUsecase
	validator       *validator.CustomValidator
}

func NewHospitalHandler(hospitalUsecase usecase.HospitalUsecase, validator *validator.CustomValidator) *HospitalHandler {
	return &HospitalHandler{
		hospitalUsecase: hospitalUsecase,
		validator:       validator,
	}
}

func (h *HospitalHandler) CreateHospital(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateHospitalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	hospital, err := h.hospitalUsecase.Create(r.Context(), &req)
	if err != nil {
		response.InternalServerError(w, "Failed to create hospital")
		return
	}

	response.Success(w, http.StatusCreated, "Hospital created successfully", hospital)
}

func (h *HospitalHandler) GetHospital(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	hospitalID, err := strconv.Atoi(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid hospital ID", nil)
		return
	}

	hospital, err := h.hospitalUsecase.GetByID(r.Context(), uint(hospitalID))
	if err != nil {
		if err == usecase.ErrHospitalNotFound {
			response.NotFound(w, "Hospital not found")
			return
		}
		response.InternalServerError(w, "Failed to get hospital")
		return
	}

	response.Success(w, http.StatusOK, "Hospital retrieved successfully", hospital)
}

func (h *HospitalHandler) GetAllHospitals(w http.ResponseWriter, r *http.Request) {
	filter := &repository.PlaceFilter{
		City:   r.URL.Query().Get("city"),
		Search: r.URL.Query().Get("search"),
	}

	hospitals, err := h.hospitalUsecase.GetAll(r.Context(), filter)
	if err != nil {
		response.InternalServerError(w, "Failed to list hospitals")
		return
	}

	response.Success(w, http.StatusOK, "Hospitals retrieved successfully", hospitals)
}

func (h *HospitalHandler) UpdateHospital(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	hospitalID, err := strconv.Atoi(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid hospital ID", nil)
		return
	}

	var req dto.UpdateHospitalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	hospital, err := h.hospitalUsecase.Update(r.Context(), uint(hospitalID), &req)
	if err != nil {
		if err == usecase.ErrHospitalNotFound {
			response.NotFound(w, "Hospital not found")
			return
		}
		response.InternalServerError(w, "Failed to update hospital")
		return
	}

	response.Success(w, http.StatusOK, "Hospital updated successfully", hospital)
}

func (h *HospitalHandler) DeleteHospital(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	hospitalID, err := strconv.Atoi(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid hospital ID", nil)
		return
	}

	if err := h.hospitalUsecase.Delete(r.Context(), uint(hospitalID)); err != nil {
		if err == usecase.ErrHospitalNotFound {
			response.NotFound(w, "Hospital not found")
			return
		}
		response.InternalServerError(w, "Failed to delete hospital")
		return
	}

	response.Success(w, http.StatusOK, "Hospital deleted successfully", nil)
}

func (h *HospitalHandler) GetHospitalStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.hospitalUsecase.GetStats(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get hospital statistics")
		return
	}

	response.Success(w, http.StatusOK, "Hospital statistics retrieved successfully", stats)
}
