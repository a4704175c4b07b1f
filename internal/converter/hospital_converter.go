package converter

import (
	"bloodconnect/internal/delivery/dto"
	"bloodconnect/internal/domain/entity"
)

// HospitalToResponse converts a Hospital entity to HospitalResponse DTO
func HospitalToResponse(hospital *entity.Hospital) *dto.HospitalResponse {
	if hospital == nil {
		return nil
	}

	return &dto.HospitalResponse{
		ID:               hospital.ID,
		UserID:           hospital.UserID,
		Name:             hospital.Name,
		Address:          hospital.Address,
		City:             hospital.City,
		Phone:            hospital.Phone,
		Email:            hospital.Email,
		Latitude:         hospital.Latitude,
		Longitude:        hospital.Longitude,
		EmergencyContact: hospital.EmergencyContact,
		CreatedAt:        hospital.CreatedAt,
		UpdatedAt:        hospital.UpdatedAt,
	}
}

// HospitalsToResponses converts a slice of Hospital entities to slice of HospitalResponse DTOs
func HospitalsToResponses(hospitals []entity.Hospital) []dto.HospitalResponse {
	responses := make([]dto.HospitalResponse, len(hospitals))
	for i, hospital := range hospitals {
		resp := HospitalToResponse(&hospital)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}

// HospitalStatsToResponse converts hospital aggregate counts to HospitalStatsResponse DTO
func HospitalStatsToResponse(stats *entity.HospitalStats) *dto.HospitalStatsResponse {
	if stats == nil {
		return nil
	}

	byCity := make([]dto.CityCountResponse, len(stats.ByCity))
	for i, row := range stats.ByCity {
		byCity[i] = dto.CityCountResponse{City: row.City, Count: row.Count}
	}

	return &dto.HospitalStatsResponse{
		Total:  stats.Total,
		ByCity: byCity,
	}
}
