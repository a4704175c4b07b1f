package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"bloodconnect/internal/delivery/dto"
	"bloodconnect/internal/domain/entity"
	"bloodconnect/internal/usecase"
	"bloodconnect/pkg/response"
	"bloodconnect/pkg/validator"

	"github.com/gorilla/mux"
)

type BloodRequestHandler struct {
	requestUsecase usecase.BloodRequestUsecase
	donorUsecase   usecase.DonorUsecase
	validator      *validator.CustomValidator
}

func NewBloodRequestHandler(requestUsecase usecase.BloodRequestUsecase, donorUsecase usecase.DonorUsecase, validator *validator.CustomValidator) *BloodRequestHandler {
	return &BloodRequestHandler{
		requestUsecase: requestUsecase,
		donorUsecase:   donorUsecase,
		validator:      validator,
	}
}

func (h *BloodRequestHandler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateBloodRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	request, err := h.requestUsecase.Create(r.Context(), &req)
	if err != nil {
		h.writeCreateError(w, err)
		return
	}

	response.Success(w, http.StatusCreated, "Blood request created successfully", request)
}

// CreateEmergencyRequest is the unauthenticated emergency channel. Urgency is
// forced to critical no matter what the body says.
func (h *BloodRequestHandler) CreateEmergencyRequest(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateBloodRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	request, err := h.requestUsecase.CreateEmergency(r.Context(), &req)
	if err != nil {
		h.writeCreateError(w, err)
		return
	}

	response.Success(w, http.StatusCreated, "Emergency blood request created successfully", request)
}

func (h *BloodRequestHandler) writeCreateError(w http.ResponseWriter, err error) {
	switch err {
	case usecase.ErrInvalidBloodType:
		response.Error(w, http.StatusBadRequest, "Invalid blood type", nil)
	case usecase.ErrInvalidUrgency:
		response.Error(w, http.StatusBadRequest, "Invalid urgency level", nil)
	case usecase.ErrInvalidComponentType:
		response.Error(w, http.StatusBadRequest, "Invalid component type", nil)
	default:
		response.InternalServerError(w, "Failed to create blood request")
	}
}

func (h *BloodRequestHandler) GetRequest(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	requestID, err := strconv.Atoi(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request ID", nil)
		return
	}

	request, err := h.requestUsecase.GetByID(r.Context(), uint(requestID))
	if err != nil {
		if err == usecase.ErrRequestNotFound {
			response.NotFound(w, "Blood request not found")
			return
		}
		response.InternalServerError(w, "Failed to get blood request")
		return
	}

	response.Success(w, http.StatusOK, "Blood request retrieved successfully", request)
}

func (h *BloodRequestHandler) GetAllRequests(w http.ResponseWriter, r *http.Request) {
	filter := &entity.RequestFilter{
		Status:    entity.RequestStatus(r.URL.Query().Get("status")),
		Urgency:   entity.RequestUrgency(r.URL.Query().Get("urgency")),
		BloodType: entity.BloodType(r.URL.Query().Get("blood_type")),
	}
	if raw := r.URL.Query().Get("hospital_id"); raw != "" {
		hospitalID, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid hospital_id filter", nil)
			return
		}
		id := uint(hospitalID)
		filter.HospitalID = &id
	}

	requests, err := h.requestUsecase.GetAll(r.Context(), filter)
	if err != nil {
		switch err {
		case usecase.ErrInvalidStatus:
			response.Error(w, http.StatusBadRequest, "Invalid status filter", nil)
		case usecase.ErrInvalidUrgency:
			response.Error(w, http.StatusBadRequest, "Invalid urgency filter", nil)
		case usecase.ErrInvalidBloodType:
			response.Error(w, http.StatusBadRequest, "Invalid blood type filter", nil)
		default:
			response.InternalServerError(w, "Failed to list blood requests")
		}
		return
	}

	response.Success(w, http.StatusOK, "Blood requests retrieved successfully", requests)
}

func (h *BloodRequestHandler) GetPendingRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := h.requestUsecase.GetPending(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to list pending requests")
		return
	}

	response.Success(w, http.StatusOK, "Pending requests retrieved successfully", requests)
}

func (h *BloodRequestHandler) GetCriticalRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := h.requestUsecase.GetCritical(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to list critical requests")
		return
	}

	response.Success(w, http.StatusOK, "Critical requests retrieved successfully", requests)
}

// GetMatches lists available donors for the request, nearest first when geocoded
func (h *BloodRequestHandler) GetMatches(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	requestID, err := strconv.Atoi(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request ID", nil)
		return
	}

	matches, err := h.donorUsecase.FindMatches(r.Context(), uint(requestID))
	if err != nil {
		if err == usecase.ErrRequestNotFound {
			response.NotFound(w, "Blood request not found")
			return
		}
		response.InternalServerError(w, "Failed to find matching donors")
		return
	}

	response.Success(w, http.StatusOK, "Matching donors retrieved successfully", matches)
}

func (h *BloodRequestHandler) UpdateRequest(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	requestID, err := strconv.Atoi(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request ID", nil)
		return
	}

	var req dto.UpdateBloodRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	request, err := h.requestUsecase.Update(r.Context(), uint(requestID), &req)
	if err != nil {
		switch err {
		case usecase.ErrRequestNotFound:
			response.NotFound(w, "Blood request not found")
		case usecase.ErrRequestClosed:
			response.Error(w, http.StatusConflict, "Blood request is already fulfilled or cancelled", nil)
		case usecase.ErrInvalidBloodType:
			response.Error(w, http.StatusBadRequest, "Invalid blood type", nil)
		case usecase.ErrInvalidUrgency:
			response.Error(w, http.StatusBadRequest, "Invalid urgency level", nil)
		case usecase.ErrInvalidComponentType:
			response.Error(w, http.StatusBadRequest, "Invalid component type", nil)
		case usecase.ErrInvalidStatus:
			response.Error(w, http.StatusBadRequest, "Invalid request status", nil)
		default:
			response.InternalServerError(w, "Failed to update blood request")
		}
		return
	}

	response.Success(w, http.StatusOK, "Blood request updated successfully", request)
}

func (h *BloodRequestHandler) FulfillRequest(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	requestID, err := strconv.Atoi(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request ID", nil)
		return
	}

	// Body is optional: a fulfillment does not have to credit a donor
	var req dto.FulfillBloodRequestRequest
	json.NewDecoder(r.Body).Decode(&req)

	request, err := h.requestUsecase.Fulfill(r.Context(), uint(requestID), req.DonorID)
	if err != nil {
		switch err {
		case usecase.ErrRequestNotFound:
			response.NotFound(w, "Blood request not found")
		case usecase.ErrRequestClosed:
			response.Error(w, http.StatusConflict, "Blood request is already fulfilled or cancelled", nil)
		default:
			response.InternalServerError(w, "Failed to fulfill blood request")
		}
		return
	}

	response.Success(w, http.StatusOK, "Blood request fulfilled successfully", request)
}

func (h *BloodRequestHandler) CancelRequest(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	requestID, err := strconv.Atoi(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request ID", nil)
		return
	}

	request, err := h.requestUsecase.Cancel(r.Context(), uint(requestID))
	if err != nil {
		switch err {
		case usecase.ErrRequestNotFound:
			response.NotFound(w, "Blood request not found")
		case usecase.ErrRequestClosed:
			response.Error(w, http.StatusConflict, "Blood request is already fulfilled or cancelled", nil)
		default:
			response.InternalServerError(w, "Failed to cancel blood request")
		}
		return
	}

	response.Success(w, http.StatusOK, "Blood request cancelled successfully", request)
}

func (h *BloodRequestHandler) DeleteRequest(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	requestID, err := strconv.Atoi(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request ID", nil)
		return
	}

	if err := h.requestUsecase.Delete(r.Context(), uint(requestID)); err != nil {
		if err == usecase.ErrRequestNotFound {
			response.NotFound(w, "Blood request not found")
			return
		}
		response.InternalServerError(w, "Failed to delete blood request")
		return
	}

	response.Success(w, http.StatusOK, "Blood request deleted successfully", nil)
}

func (h *BloodRequestHandler) GetRequestStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.requestUsecase.GetStats(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get request statistics")
		return
	}

	response.Success(w, http.StatusOK, "Request statistics retrieved successfully", stats)
}
