package repository

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"bloodconnect/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBSeq int64

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:repo_test_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&entity.Hospital{},
		&entity.Donor{},
		&entity.BloodRequest{},
	))

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	return db
}

func TestUpdateFieldsWhileStatusGuardsTransitions(t *testing.T) {
	db := openTestDB(t)
	repo := NewBloodRequestRepository()

	request := &entity.BloodRequest{
		BloodType: "A+",
		Units:     1,
		Urgency:   entity.UrgencyNormal,
		Status:    entity.RequestStatusPending,
	}
	require.NoError(t, db.Create(request).Error)

	now := time.Now().UTC()
	rows, err := repo.UpdateFieldsWhileStatus(db, request.ID, entity.RequestStatusPending, map[string]interface{}{
		"status":       entity.RequestStatusFulfilled,
		"fulfilled_at": now,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	// The row is no longer pending, so a second guarded write finds nothing
	rows, err = repo.UpdateFieldsWhileStatus(db, request.ID, entity.RequestStatusPending, map[string]interface{}{
		"status": entity.RequestStatusCancelled,
	})
	require.NoError(t, err)
	assert.Zero(t, rows)

	reloaded, err := repo.FindByID(db, request.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded)
	assert.Equal(t, entity.RequestStatusFulfilled, reloaded.Status)
	assert.NotNil(t, reloaded.FulfilledAt)
}

func TestUpdateFieldsWhileStatusUnknownID(t *testing.T) {
	db := openTestDB(t)
	repo := NewBloodRequestRepository()

	rows, err := repo.UpdateFieldsWhileStatus(db, 12345, entity.RequestStatusPending, map[string]interface{}{
		"status": entity.RequestStatusCancelled,
	})
	require.NoError(t, err)
	assert.Zero(t, rows)
}

func TestFindAllConjunctiveFilters(t *testing.T) {
	db := openTestDB(t)
	repo := NewBloodRequestRepository()

	hospital := &entity.Hospital{Name: "RS Cipto", Address: "Jl. Diponegoro 71", City: "Jakarta", Phone: "+6221"}
	require.NoError(t, db.Create(hospital).Error)

	match := &entity.BloodRequest{
		HospitalID: &hospital.ID,
		BloodType:  "O+",
		Units:      1,
		Urgency:    entity.UrgencyUrgent,
		Status:     entity.RequestStatusPending,
	}
	require.NoError(t, db.Create(match).Error)
	require.NoError(t, db.Create(&entity.BloodRequest{
		HospitalID: &hospital.ID,
		BloodType:  "O+",
		Units:      1,
		Urgency:    entity.UrgencyUrgent,
		Status:     entity.RequestStatusCancelled,
	}).Error)
	require.NoError(t, db.Create(&entity.BloodRequest{
		BloodType: "O+",
		Units:     1,
		Urgency:   entity.UrgencyNormal,
		Status:    entity.RequestStatusPending,
	}).Error)

	requests, err := repo.FindAll(db, &entity.RequestFilter{
		Status:     entity.RequestStatusPending,
		Urgency:    entity.UrgencyUrgent,
		BloodType:  "O+",
		HospitalID: &hospital.ID,
	})
	require.NoError(t, err)
	require.Len(t, requests, 1)
	assert.Equal(t, match.ID, requests[0].ID)

	// The hospital relation is loaded for list responses
	require.NotNil(t, requests[0].Hospital)
	assert.Equal(t, "RS Cipto", requests[0].Hospital.Name)
}
