package converter

import (
	"bloodconnect/internal/delivery/dto"
	"bloodconnect/internal/domain/entity"
)

// DonorToResponse converts a Donor entity to DonorResponse DTO
func DonorToResponse(donor *entity.Donor) *dto.DonorResponse {
	if donor == nil {
		return nil
	}

	response := &dto.DonorResponse{
		ID:        donor.ID,
		UserID:    donor.UserID,
		Name:      donor.Name,
		BloodType: string(donor.BloodType),
		Phone:     donor.Phone,
		Email:     donor.Email,
		City:      donor.City,
		Address:   donor.Address,
		Available: donor.Available,
		Latitude:  donor.Latitude,
		Longitude: donor.Longitude,
		CreatedAt: donor.CreatedAt,
		UpdatedAt: donor.UpdatedAt,
	}

	if donor.LastDonation != nil {
		formatted := donor.LastDonation.Format("2006-01-02")
		response.LastDonation = &formatted
	}

	return response
}

// DonorsToResponses converts a slice of Donor entities to slice of DonorResponse DTOs
func DonorsToResponses(donors []entity.Donor) []dto.DonorResponse {
	responses := make([]dto.DonorResponse, len(donors))
	for i, donor := range donors {
		resp := DonorToResponse(&donor)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}

// DonorStatsToResponse converts donor aggregate counts to DonorStatsResponse DTO
func DonorStatsToResponse(stats *entity.DonorStats) *dto.DonorStatsResponse {
	if stats == nil {
		return nil
	}

	return &dto.DonorStatsResponse{
		Total:     stats.Total,
		Available: stats.Available,
		ByType:    stats.ByType,
	}
}
