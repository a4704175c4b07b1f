package usecase

import (
	"context"
	"testing"

	"bloodconnect/internal/delivery/dto"
	"bloodconnect/internal/domain/repository"
	repoimpl "bloodconnect/internal/repository"
	"bloodconnect/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHospitalUsecase(t *testing.T) HospitalUsecase {
	t.Helper()

	db := openTestDB(t)
	log := testLogger()
	audit := service.NewAuditService(db, log, repoimpl.NewAuditLogRepository())
	return NewHospitalUsecase(db, log, repoimpl.NewHospitalRepository(), audit)
}

func createHospital(t *testing.T, uc HospitalUsecase, name, city string) *dto.HospitalResponse {
	t.Helper()

	resp, err := uc.Create(context.Background(), &dto.CreateHospitalRequest{
		Name:    name,
		Address: "Jl. Diponegoro 71",
		City:    city,
		Phone:   "+62213100001",
	})
	require.NoError(t, err)
	return resp
}

func TestHospitalUpdatePartial(t *testing.T) {
	uc := newHospitalUsecase(t)
	ctx := context.Background()

	created := createHospital(t, uc, "RS Cipto", "Jakarta")

	updated, err := uc.Update(ctx, created.ID, &dto.UpdateHospitalRequest{
		Phone:            strPtr("+62213100999"),
		EmergencyContact: strPtr("dr. Ratna"),
	})
	require.NoError(t, err)

	assert.Equal(t, "+62213100999", updated.Phone)
	require.NotNil(t, updated.EmergencyContact)
	assert.Equal(t, "dr. Ratna", *updated.EmergencyContact)
	assert.Equal(t, "RS Cipto", updated.Name)
	assert.Equal(t, "Jakarta", updated.City)

	_, err = uc.Update(ctx, 999, &dto.UpdateHospitalRequest{Phone: strPtr("+62")})
	assert.ErrorIs(t, err, ErrHospitalNotFound)
}

func TestHospitalGetAllFilters(t *testing.T) {
	uc := newHospitalUsecase(t)
	ctx := context.Background()

	createHospital(t, uc, "RS Cipto", "Jakarta")
	createHospital(t, uc, "RS Hasan Sadikin", "Bandung")

	resp, err := uc.GetAll(ctx, &repository.PlaceFilter{City: "Bandung"})
	require.NoError(t, err)
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, "RS Hasan Sadikin", resp.Hospitals[0].Name)

	resp, err = uc.GetAll(ctx, &repository.PlaceFilter{Search: "Cipto"})
	require.NoError(t, err)
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, "RS Cipto", resp.Hospitals[0].Name)
}

func TestHospitalStatsGroupsByCity(t *testing.T) {
	uc := newHospitalUsecase(t)

	createHospital(t, uc, "RS Cipto", "Jakarta")
	createHospital(t, uc, "RS Fatmawati", "Jakarta")
	createHospital(t, uc, "RS Hasan Sadikin", "Bandung")

	stats, err := uc.GetStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(3), stats.Total)
	byCity := map[string]int64{}
	for _, row := range stats.ByCity {
		byCity[row.City] = row.Count
	}
	assert.Equal(t, int64(2), byCity["Jakarta"])
	assert.Equal(t, int64(1), byCity["Bandung"])
}

func TestHospitalDelete(t *testing.T) {
	uc := newHospitalUsecase(t)
	ctx := context.Background()

	created := createHospital(t, uc, "RS Cipto", "Jakarta")
	require.NoError(t, uc.Delete(ctx, created.ID))

	_, err := uc.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, ErrHospitalNotFound)
}
