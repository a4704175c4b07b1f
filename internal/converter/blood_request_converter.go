package converter

import (
	"bloodconnect/internal/delivery/dto"
	"bloodconnect/internal/domain/entity"
)

// BloodRequestToResponse converts a BloodRequest entity to BloodRequestResponse DTO
func BloodRequestToResponse(request *entity.BloodRequest) *dto.BloodRequestResponse {
	if request == nil {
		return nil
	}

	response := &dto.BloodRequestResponse{
		ID:            request.ID,
		BloodType:     string(request.BloodType),
		Units:         request.Units,
		ComponentType: string(request.ComponentType),
		Urgency:       string(request.Urgency),
		IsCritical:    request.IsCritical,
		Status:        string(request.Status),
		PatientName:   request.PatientName,
		Age:           request.Age,
		Gender:        request.Gender,
		Hemoglobin:    request.Hemoglobin,
		Platelets:     request.Platelets,
		HospitalID:    request.HospitalID,
		Diagnosis:     request.Diagnosis,
		PastReaction:  request.PastReaction,
		Allergies:     request.Allergies,
		DoctorName:    request.DoctorName,
		ContactPhone:  request.ContactPhone,
		Notes:         request.Notes,
		DonorID:       request.DonorID,
		FulfilledAt:   request.FulfilledAt,
		CreatedAt:     request.CreatedAt,
	}

	// Flatten hospital info when the relation is loaded
	if request.Hospital != nil {
		response.HospitalName = &request.Hospital.Name
		response.HospitalCity = &request.Hospital.City
		response.HospitalPhone = &request.Hospital.Phone
	}

	if request.Donor != nil {
		response.DonorName = &request.Donor.Name
	}

	return response
}

// BloodRequestsToResponses converts a slice of BloodRequest entities to slice of BloodRequestResponse DTOs
func BloodRequestsToResponses(requests []entity.BloodRequest) []dto.BloodRequestResponse {
	responses := make([]dto.BloodRequestResponse, len(requests))
	for i := range requests {
		resp := BloodRequestToResponse(&requests[i])
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}

// RequestStatsToResponse converts request aggregate counts to RequestStatsResponse DTO
func RequestStatsToResponse(stats *entity.RequestStats) *dto.RequestStatsResponse {
	if stats == nil {
		return nil
	}

	return &dto.RequestStatsResponse{
		Total:       stats.Total,
		Pending:     stats.Pending,
		Fulfilled:   stats.Fulfilled,
		Cancelled:   stats.Cancelled,
		Critical:    stats.Critical,
		ByBloodType: stats.ByBloodType,
	}
}
