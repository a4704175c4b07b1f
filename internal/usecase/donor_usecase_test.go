package usecase

import (
	"context"
	"testing"

	"bloodconnect/internal/delivery/dto"
	"bloodconnect/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateDonorDefaultsAvailable(t *testing.T) {
	f := newDonorFixture(t)

	resp, err := f.usecase.Create(context.Background(), &dto.CreateDonorRequest{
		Name:      "Sari",
		BloodType: "O+",
		Phone:     "+62811000111",
		City:      "Bandung",
	})
	require.NoError(t, err)

	assert.True(t, resp.Available)
	assert.Equal(t, "O+", resp.BloodType)
	assert.Nil(t, resp.LastDonation)
}

func TestCreateDonorUnavailablePersists(t *testing.T) {
	f := newDonorFixture(t)

	resp, err := f.usecase.Create(context.Background(), &dto.CreateDonorRequest{
		Name:      "Dewi",
		BloodType: "B-",
		Phone:     "+62811000222",
		City:      "Surabaya",
		Available: boolPtr(false),
	})
	require.NoError(t, err)
	assert.False(t, resp.Available)

	// The stored row must carry false too, not a column default
	var stored entity.Donor
	require.NoError(t, f.db.First(&stored, resp.ID).Error)
	assert.False(t, stored.Available)

	matches, err := f.usecase.GetByBloodType(context.Background(), "B-")
	require.NoError(t, err)
	assert.Equal(t, 0, matches.Total)
}

func TestCreateDonorValidation(t *testing.T) {
	f := newDonorFixture(t)
	ctx := context.Background()

	_, err := f.usecase.Create(ctx, &dto.CreateDonorRequest{
		Name: "Sari", BloodType: "0+", Phone: "+62811", City: "Bandung",
	})
	assert.ErrorIs(t, err, ErrInvalidBloodType)

	_, err = f.usecase.Create(ctx, &dto.CreateDonorRequest{
		Name: "Sari", BloodType: "O+", Phone: "+62811", City: "Bandung",
		LastDonation: strPtr("01/02/2026"),
	})
	assert.ErrorIs(t, err, ErrInvalidDateFormat)
}

func TestUpdateDonorPartial(t *testing.T) {
	f := newDonorFixture(t)
	ctx := context.Background()

	created, err := f.usecase.Create(ctx, &dto.CreateDonorRequest{
		Name: "Sari", BloodType: "O+", Phone: "+62811", City: "Bandung",
	})
	require.NoError(t, err)

	updated, err := f.usecase.Update(ctx, created.ID, &dto.UpdateDonorRequest{
		Available:    boolPtr(false),
		LastDonation: strPtr("2026-08-15"),
	})
	require.NoError(t, err)

	assert.False(t, updated.Available)
	require.NotNil(t, updated.LastDonation)
	assert.Equal(t, "2026-08-15", *updated.LastDonation)
	// Untouched fields survive
	assert.Equal(t, "Sari", updated.Name)
	assert.Equal(t, "O+", updated.BloodType)
}

func seedDonor(t *testing.T, f *donorFixture, name string, bloodType entity.BloodType, available bool, lat, lng *float64) uint {
	t.Helper()

	donor := &entity.Donor{
		Name:      name,
		BloodType: bloodType,
		Phone:     "+62811",
		City:      "Jakarta",
		Available: available,
		Latitude:  lat,
		Longitude: lng,
	}
	require.NoError(t, f.db.Create(donor).Error)
	return donor.ID
}

func TestFindMatchesExactTypeOnly(t *testing.T) {
	f := newDonorFixture(t)

	match := seedDonor(t, f, "Match", "O-", true, nil, nil)
	seedDonor(t, f, "Unavailable", "O-", false, nil, nil)
	seedDonor(t, f, "WrongType", "O+", true, nil, nil)

	request := &entity.BloodRequest{
		BloodType: "O-",
		Units:     1,
		Urgency:   entity.UrgencyNormal,
		Status:    entity.RequestStatusPending,
	}
	require.NoError(t, f.db.Create(request).Error)

	resp, err := f.usecase.FindMatches(context.Background(), request.ID)
	require.NoError(t, err)
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, match, resp.Donors[0].ID)
}

func TestFindMatchesRanksByDistance(t *testing.T) {
	f := newDonorFixture(t)

	hospital := &entity.Hospital{
		Name:      "RS Cipto",
		Address:   "Jl. Diponegoro 71",
		City:      "Jakarta",
		Phone:     "+62213100001",
		Latitude:  floatPtr(-6.1944),
		Longitude: floatPtr(106.8229),
	}
	require.NoError(t, f.db.Create(hospital).Error)

	far := seedDonor(t, f, "Far", "A+", true, floatPtr(-6.9147), floatPtr(107.6098))
	near := seedDonor(t, f, "Near", "A+", true, floatPtr(-6.2000), floatPtr(106.8200))
	noGeo := seedDonor(t, f, "NoCoords", "A+", true, nil, nil)

	request := &entity.BloodRequest{
		HospitalID: &hospital.ID,
		BloodType:  "A+",
		Units:      1,
		Urgency:    entity.UrgencyCritical,
		Status:     entity.RequestStatusPending,
	}
	require.NoError(t, f.db.Create(request).Error)

	resp, err := f.usecase.FindMatches(context.Background(), request.ID)
	require.NoError(t, err)
	require.Equal(t, 3, resp.Total)

	assert.Equal(t, near, resp.Donors[0].ID)
	assert.Equal(t, far, resp.Donors[1].ID)
	// Donors without coordinates sort after every geocoded donor
	assert.Equal(t, noGeo, resp.Donors[2].ID)
}

func TestFindMatchesUnknownRequest(t *testing.T) {
	f := newDonorFixture(t)

	_, err := f.usecase.FindMatches(context.Background(), 42)
	assert.ErrorIs(t, err, ErrRequestNotFound)
}

func TestGetByBloodType(t *testing.T) {
	f := newDonorFixture(t)

	seedDonor(t, f, "One", "AB-", true, nil, nil)
	seedDonor(t, f, "Two", "A+", true, nil, nil)

	resp, err := f.usecase.GetByBloodType(context.Background(), "AB-")
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total)

	_, err = f.usecase.GetByBloodType(context.Background(), "AB")
	assert.ErrorIs(t, err, ErrInvalidBloodType)
}

func TestDonorStats(t *testing.T) {
	f := newDonorFixture(t)

	seedDonor(t, f, "One", "A+", true, nil, nil)
	seedDonor(t, f, "Two", "A+", false, nil, nil)
	seedDonor(t, f, "Three", "O-", true, nil, nil)

	stats, err := f.usecase.GetStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, int64(2), stats.Available)
	assert.Equal(t, int64(1), stats.ByType["A+"])
	assert.Equal(t, int64(1), stats.ByType["O-"])
}

func TestDeleteDonor(t *testing.T) {
	f := newDonorFixture(t)
	ctx := context.Background()

	id := seedDonor(t, f, "Gone", "B+", true, nil, nil)
	require.NoError(t, f.usecase.Delete(ctx, id))

	_, err := f.usecase.GetByID(ctx, id)
	assert.ErrorIs(t, err, ErrDonorNotFound)

	assert.ErrorIs(t, f.usecase.Delete(ctx, id), ErrDonorNotFound)
}
