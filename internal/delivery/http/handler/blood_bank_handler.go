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

type BloodBankHandler struct {
	bankUsecase usecase.BloodBankUsecase
	validator   *validator.CustomValidator
}

func NewBloodBankHandler(bankUsecase usecase.BloodBankUsecase, validator *validator.CustomValidator) *BloodBankHandler {
	return &BloodBankHandler{
		bankUsecase: bankUsecase,
		validator:   validator,
	}
}

func (h *BloodBankHandler) CreateBloodBank(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateBloodBankRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	bank, err := h.bankUsecase.Create(r.Context(), &req)
	if err != nil {
		response.InternalServerError(w, "Failed to create blood bank")
		return
	}

	response.Success(w, http.StatusCreated, "Blood bank created successfully", bank)
}

func (h *BloodBankHandler) GetBloodBank(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bankID, err := strconv.Atoi(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid blood bank ID", nil)
		return
	}

	bank, err := h.bankUsecase.GetByID(r.Context(), uint(bankID))
	if err != nil {
		if err == usecase.ErrBloodBankNotFound {
			response.NotFound(w, "Blood bank not found")
			return
		}
		response.InternalServerError(w, "Failed to get blood bank")
		return
	}

	response.Success(w, http.StatusOK, "Blood bank retrieved successfully", bank)
}

func (h *BloodBankHandler) GetAllBloodBanks(w http.ResponseWriter, r *http.Request) {
	filter := &repository.PlaceFilter{
		City:   r.URL.Query().Get("city"),
		Search: r.URL.Query().Get("search"),
	}

	banks, err := h.bankUsecase.GetAll(r.Context(), filter)
	if err != nil {
		response.InternalServerError(w, "Failed to list blood banks")
		return
	}

	response.Success(w, http.StatusOK, "Blood banks retrieved successfully", banks)
}

func (h *BloodBankHandler) UpdateBloodBank(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bankID, err := strconv.Atoi(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid blood bank ID", nil)
		return
	}

	var req dto.UpdateBloodBankRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	bank, err := h.bankUsecase.Update(r.Context(), uint(bankID), &req)
	if err != nil {
		if err == usecase.ErrBloodBankNotFound {
			response.NotFound(w, "Blood bank not found")
			return
		}
		response.InternalServerError(w, "Failed to update blood bank")
		return
	}

	response.Success(w, http.StatusOK, "Blood bank updated successfully", bank)
}

func (h *BloodBankHandler) DeleteBloodBank(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bankID, err := strconv.Atoi(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid blood bank ID", nil)
		return
	}

	if err := h.bankUsecase.Delete(r.Context(), uint(bankID)); err != nil {
		if err == usecase.ErrBloodBankNotFound {
			response.NotFound(w, "Blood bank not found")
			return
		}
		response.InternalServerError(w, "Failed to delete blood bank")
		return
	}

	response.Success(w, http.StatusOK, "Blood bank deleted successfully", nil)
}

func (h *BloodBankHandler) AddBatch(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bankID, err := strconv.Atoi(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid blood bank ID", nil)
		return
	}

	var req dto.AddBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	batch, err := h.bankUsecase.AddBatch(r.Context(), uint(bankID), &req)
	if err != nil {
		switch err {
		case usecase.ErrBloodBankNotFound:
			response.NotFound(w, "Blood bank not found")
		case usecase.ErrInvalidBloodType:
			response.Error(w, http.StatusBadRequest, "Invalid blood type", nil)
		case usecase.ErrInvalidDateFormat:
			response.Error(w, http.StatusBadRequest, "Invalid date format, use YYYY-MM-DD", nil)
		default:
			response.InternalServerError(w, "Failed to add batch")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Batch added successfully", batch)
}

func (h *BloodBankHandler) UpdateBatch(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bankID, err := strconv.Atoi(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid blood bank ID", nil)
		return
	}
	batchID, err := strconv.Atoi(vars["batchId"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid batch ID", nil)
		return
	}

	var req dto.UpdateBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	batch, err := h.bankUsecase.UpdateBatch(r.Context(), uint(bankID), uint(batchID), &req)
	if err != nil {
		switch err {
		case usecase.ErrBatchNotFound:
			response.NotFound(w, "Batch not found")
		case usecase.ErrBatchNotOwned:
			response.Forbidden(w, "Batch does not belong to this blood bank")
		case usecase.ErrInvalidDateFormat:
			response.Error(w, http.StatusBadRequest, "Invalid date format, use YYYY-MM-DD", nil)
		default:
			response.InternalServerError(w, "Failed to update batch")
		}
		return
	}

	response.Success(w, http.StatusOK, "Batch updated successfully", batch)
}

func (h *BloodBankHandler) DeleteBatch(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bankID, err := strconv.Atoi(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid blood bank ID", nil)
		return
	}
	batchID, err := strconv.Atoi(vars["batchId"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid batch ID", nil)
		return
	}

	if err := h.bankUsecase.DeleteBatch(r.Context(), uint(bankID), uint(batchID)); err != nil {
		if err == usecase.ErrBatchNotOwned {
			response.Forbidden(w, "Batch does not belong to this blood bank")
			return
		}
		response.InternalServerError(w, "Failed to delete batch")
		return
	}

	response.Success(w, http.StatusOK, "Batch deleted successfully", nil)
}

func (h *BloodBankHandler) GetBatches(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bankID, err := strconv.Atoi(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid blood bank ID", nil)
		return
	}

	batches, err := h.bankUsecase.GetBatches(r.Context(), uint(bankID))
	if err != nil {
		if err == usecase.ErrBloodBankNotFound {
			response.NotFound(w, "Blood bank not found")
			return
		}
		response.InternalServerError(w, "Failed to list batches")
		return
	}

	response.Success(w, http.StatusOK, "Batches retrieved successfully", batches)
}

func (h *BloodBankHandler) GetInventory(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bankID, err := strconv.Atoi(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid blood bank ID", nil)
		return
	}

	inventory, err := h.bankUsecase.GetInventory(r.Context(), uint(bankID))
	if err != nil {
		if err == usecase.ErrBloodBankNotFound {
			response.NotFound(w, "Blood bank not found")
			return
		}
		response.InternalServerError(w, "Failed to get inventory")
		return
	}

	response.Success(w, http.StatusOK, "Inventory retrieved successfully", inventory)
}

func (h *BloodBankHandler) GetTotalInventory(w http.ResponseWriter, r *http.Request) {
	totals, err := h.bankUsecase.GetTotalInventory(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get total inventory")
		return
	}

	response.Success(w, http.StatusOK, "Total inventory retrieved successfully", totals)
}

// FindByBloodType lists banks that hold stock of the given type, best-stocked first
func (h *BloodBankHandler) FindByBloodType(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	minUnits := 1
	if raw := r.URL.Query().Get("min_units"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid min_units", nil)
			return
		}
		minUnits = parsed
	}

	banks, err := h.bankUsecase.FindByBloodType(r.Context(), vars["bloodType"], minUnits)
	if err != nil {
		if err == usecase.ErrInvalidBloodType {
			response.Error(w, http.StatusBadRequest, "Invalid blood type", nil)
			return
		}
		response.InternalServerError(w, "Failed to find blood banks")
		return
	}

	response.Success(w, http.StatusOK, "Blood banks retrieved successfully", banks)
}

func (h *BloodBankHandler) OverrideInventory(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bankID, err := strconv.Atoi(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid blood bank ID", nil)
		return
	}

	var req dto.OverrideInventoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	inventory, err := h.bankUsecase.OverrideInventory(r.Context(), uint(bankID), &req)
	if err != nil {
		switch err {
		case usecase.ErrBloodBankNotFound:
			response.NotFound(w, "Blood bank not found")
		case usecase.ErrInvalidBloodType:
			response.Error(w, http.StatusBadRequest, "Invalid blood type", nil)
		default:
			response.InternalServerError(w, "Failed to override inventory")
		}
		return
	}

	response.Success(w, http.StatusOK, "Inventory updated successfully", inventory)
}
