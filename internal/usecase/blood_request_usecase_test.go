package usecase

import (
	"context"
	"testing"
	"time"

	"bloodconnect/internal/delivery/dto"
	"bloodconnect/internal/delivery/http/middleware"
	"bloodconnect/internal/domain/entity"
	"bloodconnect/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRequestDefaults(t *testing.T) {
	f := newRequestFixture(t)

	resp, err := f.usecase.Create(context.Background(), &dto.CreateBloodRequestRequest{
		BloodType: "A+",
	})
	require.NoError(t, err)

	assert.Equal(t, "A+", resp.BloodType)
	assert.Equal(t, 1, resp.Units)
	assert.Equal(t, "Whole Blood", resp.ComponentType)
	assert.Equal(t, "normal", resp.Urgency)
	assert.Equal(t, "pending", resp.Status)
	assert.False(t, resp.IsCritical)
	assert.Nil(t, resp.FulfilledAt)

	assert.Equal(t, []string{service.EventRequestCreated}, f.events.Names())
}

func TestCreateCriticalUrgencyLeavesClinicalFlagFalse(t *testing.T) {
	f := newRequestFixture(t)

	resp, err := f.usecase.Create(context.Background(), &dto.CreateBloodRequestRequest{
		BloodType: "O-",
		Urgency:   strPtr("critical"),
	})
	require.NoError(t, err)

	assert.Equal(t, "critical", resp.Urgency)
	assert.Equal(t, "pending", resp.Status)
	assert.False(t, resp.IsCritical)

	// The alert path keys on urgency, not the clinical flag
	assert.Equal(t, []string{service.EventRequestCreated, service.EventCriticalAlert}, f.events.Names())
}

func TestCreateCarriesExplicitClinicalFlag(t *testing.T) {
	f := newRequestFixture(t)

	resp, err := f.usecase.Create(context.Background(), &dto.CreateBloodRequestRequest{
		BloodType:  "A+",
		IsCritical: boolPtr(true),
	})
	require.NoError(t, err)

	assert.Equal(t, "normal", resp.Urgency)
	assert.True(t, resp.IsCritical)

	// The flag alone does not trigger the alert path
	assert.Equal(t, []string{service.EventRequestCreated}, f.events.Names())
	assert.Empty(t, f.notifier.Instructions())
}

func TestCreateRequestValidation(t *testing.T) {
	f := newRequestFixture(t)
	ctx := context.Background()

	_, err := f.usecase.Create(ctx, &dto.CreateBloodRequestRequest{BloodType: "C+"})
	assert.ErrorIs(t, err, ErrInvalidBloodType)

	_, err = f.usecase.Create(ctx, &dto.CreateBloodRequestRequest{
		BloodType: "A+",
		Urgency:   strPtr("immediately"),
	})
	assert.ErrorIs(t, err, ErrInvalidUrgency)

	_, err = f.usecase.Create(ctx, &dto.CreateBloodRequestRequest{
		BloodType:     "A+",
		ComponentType: strPtr("Marrow"),
	})
	assert.ErrorIs(t, err, ErrInvalidComponentType)
}

func TestCreateEmergencyForcesCritical(t *testing.T) {
	f := newRequestFixture(t)

	require.NoError(t, f.db.Create(&entity.Donor{
		Name:      "Rina",
		BloodType: "O-",
		Phone:     "+628111111111",
		City:      "Jakarta",
		Available: true,
	}).Error)

	resp, err := f.usecase.CreateEmergency(context.Background(), &dto.CreateBloodRequestRequest{
		BloodType:    "O-",
		Urgency:      strPtr("normal"),
		PatientName:  strPtr("Budi"),
		ContactPhone: strPtr("+628122222222"),
	})
	require.NoError(t, err)

	assert.Equal(t, "critical", resp.Urgency)
	assert.False(t, resp.IsCritical)
	assert.Equal(t, "pending", resp.Status)

	assert.Equal(t, []string{service.EventRequestCreated, service.EventCriticalAlert}, f.events.Names())

	// Donor fanout runs on a detached goroutine
	require.Eventually(t, func() bool {
		return len(f.notifier.Instructions()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	inst := f.notifier.Instructions()[0]
	assert.Equal(t, service.ChannelMessage, inst.Channel)
	assert.Equal(t, "+628111111111", inst.Destination)
	assert.Contains(t, inst.Payload, "CRITICAL BLOOD ALERT: O-")
	assert.Contains(t, inst.Payload, "Patient: Budi")
	assert.Contains(t, inst.Payload, "Contact: +628122222222")
}

func TestCriticalCreateSkipsFanoutForNormalUrgency(t *testing.T) {
	f := newRequestFixture(t)

	_, err := f.usecase.Create(context.Background(), &dto.CreateBloodRequestRequest{
		BloodType: "B+",
		Urgency:   strPtr("urgent"),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{service.EventRequestCreated}, f.events.Names())
	assert.Empty(t, f.notifier.Instructions())
}

func seedRequest(t *testing.T, f *requestFixture, urgency entity.RequestUrgency, status entity.RequestStatus, createdAt time.Time) uint {
	t.Helper()

	request := &entity.BloodRequest{
		BloodType:     "A+",
		Units:         1,
		ComponentType: entity.ComponentWholeBlood,
		Urgency:       urgency,
		Status:        status,
		CreatedAt:     createdAt,
	}
	if status == entity.RequestStatusFulfilled {
		now := time.Now().UTC()
		request.FulfilledAt = &now
	}
	require.NoError(t, f.db.Create(request).Error)
	return request.ID
}

func TestGetAllOrdersByUrgencyThenRecency(t *testing.T) {
	f := newRequestFixture(t)
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	oldNormal := seedRequest(t, f, entity.UrgencyNormal, entity.RequestStatusPending, base)
	newNormal := seedRequest(t, f, entity.UrgencyNormal, entity.RequestStatusPending, base.Add(3*time.Hour))
	oldCritical := seedRequest(t, f, entity.UrgencyCritical, entity.RequestStatusPending, base.Add(time.Hour))
	newCritical := seedRequest(t, f, entity.UrgencyCritical, entity.RequestStatusPending, base.Add(2*time.Hour))
	urgent := seedRequest(t, f, entity.UrgencyUrgent, entity.RequestStatusPending, base.Add(4*time.Hour))

	resp, err := f.usecase.GetAll(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, 5, resp.Total)

	got := make([]uint, 0, len(resp.Requests))
	for _, r := range resp.Requests {
		got = append(got, r.ID)
	}
	assert.Equal(t, []uint{newCritical, oldCritical, urgent, newNormal, oldNormal}, got)
}

func TestGetAllRejectsInvalidFilters(t *testing.T) {
	f := newRequestFixture(t)
	ctx := context.Background()

	_, err := f.usecase.GetAll(ctx, &entity.RequestFilter{Status: "open"})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = f.usecase.GetAll(ctx, &entity.RequestFilter{Urgency: "asap"})
	assert.ErrorIs(t, err, ErrInvalidUrgency)

	_, err = f.usecase.GetAll(ctx, &entity.RequestFilter{BloodType: "Z+"})
	assert.ErrorIs(t, err, ErrInvalidBloodType)
}

func TestGetCriticalReturnsOldestPendingFirst(t *testing.T) {
	f := newRequestFixture(t)
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	newer := seedRequest(t, f, entity.UrgencyCritical, entity.RequestStatusPending, base.Add(2*time.Hour))
	older := seedRequest(t, f, entity.UrgencyCritical, entity.RequestStatusPending, base)
	seedRequest(t, f, entity.UrgencyCritical, entity.RequestStatusFulfilled, base.Add(time.Hour))
	seedRequest(t, f, entity.UrgencyNormal, entity.RequestStatusPending, base)

	resp, err := f.usecase.GetCritical(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, resp.Total)
	assert.Equal(t, older, resp.Requests[0].ID)
	assert.Equal(t, newer, resp.Requests[1].ID)
}

func TestFulfillStampsTimestampAndDonor(t *testing.T) {
	f := newRequestFixture(t)

	donor := &entity.Donor{Name: "Sari", BloodType: "A+", Phone: "+62811", City: "Bandung", Available: true}
	require.NoError(t, f.db.Create(donor).Error)

	id := seedRequest(t, f, entity.UrgencyNormal, entity.RequestStatusPending, time.Now().UTC())

	resp, err := f.usecase.Fulfill(context.Background(), id, &donor.ID)
	require.NoError(t, err)

	assert.Equal(t, "fulfilled", resp.Status)
	require.NotNil(t, resp.FulfilledAt)
	require.NotNil(t, resp.DonorID)
	assert.Equal(t, donor.ID, *resp.DonorID)

	assert.Equal(t, []string{service.EventRequestFulfilled}, f.events.Names())
}

func TestFulfillCreditsActingDonorProfile(t *testing.T) {
	f := newRequestFixture(t)

	userID := uuid.New()
	donor := &entity.Donor{
		Name:      "Sari",
		UserID:    &userID,
		BloodType: "A+",
		Phone:     "+62811",
		City:      "Bandung",
		Available: true,
	}
	require.NoError(t, f.db.Create(donor).Error)

	id := seedRequest(t, f, entity.UrgencyNormal, entity.RequestStatusPending, time.Now().UTC())

	// No explicit donor reference: the acting user's own donor profile
	// is resolved and credited
	ctx := context.WithValue(context.Background(), middleware.UserIDKey, userID)
	resp, err := f.usecase.Fulfill(ctx, id, nil)
	require.NoError(t, err)

	assert.Equal(t, "fulfilled", resp.Status)
	require.NotNil(t, resp.DonorID)
	assert.Equal(t, donor.ID, *resp.DonorID)

	history, err := f.usecase.GetHistory(context.Background(), donor.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, history.Total)
}

func TestFulfillWithoutDonorAttribution(t *testing.T) {
	f := newRequestFixture(t)
	id := seedRequest(t, f, entity.UrgencyNormal, entity.RequestStatusPending, time.Now().UTC())

	resp, err := f.usecase.Fulfill(context.Background(), id, nil)
	require.NoError(t, err)

	assert.Equal(t, "fulfilled", resp.Status)
	assert.NotNil(t, resp.FulfilledAt)
	assert.Nil(t, resp.DonorID)
}

func TestClosedRequestsRejectFurtherTransitions(t *testing.T) {
	f := newRequestFixture(t)
	ctx := context.Background()

	fulfilled := seedRequest(t, f, entity.UrgencyNormal, entity.RequestStatusFulfilled, time.Now().UTC())
	cancelled := seedRequest(t, f, entity.UrgencyNormal, entity.RequestStatusCancelled, time.Now().UTC())

	_, err := f.usecase.Fulfill(ctx, fulfilled, nil)
	assert.ErrorIs(t, err, ErrRequestClosed)

	_, err = f.usecase.Cancel(ctx, fulfilled)
	assert.ErrorIs(t, err, ErrRequestClosed)

	_, err = f.usecase.Fulfill(ctx, cancelled, nil)
	assert.ErrorIs(t, err, ErrRequestClosed)

	_, err = f.usecase.Update(ctx, cancelled, &dto.UpdateBloodRequestRequest{Units: intPtr(2)})
	assert.ErrorIs(t, err, ErrRequestClosed)
}

func TestUpdateTouchesOnlyProvidedFields(t *testing.T) {
	f := newRequestFixture(t)

	request := &entity.BloodRequest{
		BloodType:     "A+",
		Units:         2,
		ComponentType: entity.ComponentWholeBlood,
		Urgency:       entity.UrgencyNormal,
		Status:        entity.RequestStatusPending,
		PatientName:   strPtr("Budi"),
		Notes:         strPtr("ward 3"),
	}
	require.NoError(t, f.db.Create(request).Error)

	resp, err := f.usecase.Update(context.Background(), request.ID, &dto.UpdateBloodRequestRequest{
		Units:   intPtr(4),
		Urgency: strPtr("critical"),
	})
	require.NoError(t, err)

	assert.Equal(t, 4, resp.Units)
	assert.Equal(t, "critical", resp.Urgency)
	// Untouched fields survive the partial update
	assert.False(t, resp.IsCritical)
	assert.Equal(t, "A+", resp.BloodType)
	require.NotNil(t, resp.PatientName)
	assert.Equal(t, "Budi", *resp.PatientName)
	require.NotNil(t, resp.Notes)
	assert.Equal(t, "ward 3", *resp.Notes)
	assert.Equal(t, "pending", resp.Status)
}

func TestUpdateClinicalFlagIndependentOfUrgency(t *testing.T) {
	f := newRequestFixture(t)
	id := seedRequest(t, f, entity.UrgencyNormal, entity.RequestStatusPending, time.Now().UTC())

	resp, err := f.usecase.Update(context.Background(), id, &dto.UpdateBloodRequestRequest{
		IsCritical: boolPtr(true),
	})
	require.NoError(t, err)

	assert.True(t, resp.IsCritical)
	assert.Equal(t, "normal", resp.Urgency)

	resp, err = f.usecase.Update(context.Background(), id, &dto.UpdateBloodRequestRequest{
		IsCritical: boolPtr(false),
	})
	require.NoError(t, err)
	assert.False(t, resp.IsCritical)
}

func TestUpdateToFulfilledStampsTimestamp(t *testing.T) {
	f := newRequestFixture(t)
	id := seedRequest(t, f, entity.UrgencyNormal, entity.RequestStatusPending, time.Now().UTC())

	resp, err := f.usecase.Update(context.Background(), id, &dto.UpdateBloodRequestRequest{
		Status: strPtr("fulfilled"),
	})
	require.NoError(t, err)

	assert.Equal(t, "fulfilled", resp.Status)
	assert.NotNil(t, resp.FulfilledAt)
	assert.Equal(t, []string{service.EventRequestFulfilled}, f.events.Names())
}

func TestUpdateRejectsUnknownStatus(t *testing.T) {
	f := newRequestFixture(t)
	id := seedRequest(t, f, entity.UrgencyNormal, entity.RequestStatusPending, time.Now().UTC())

	_, err := f.usecase.Update(context.Background(), id, &dto.UpdateBloodRequestRequest{
		Status: strPtr("archived"),
	})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestCancelLeavesFulfilledAtEmpty(t *testing.T) {
	f := newRequestFixture(t)
	id := seedRequest(t, f, entity.UrgencyUrgent, entity.RequestStatusPending, time.Now().UTC())

	resp, err := f.usecase.Cancel(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, "cancelled", resp.Status)
	assert.Nil(t, resp.FulfilledAt)
	assert.Equal(t, []string{service.EventRequestUpdated}, f.events.Names())
}

func TestGetByIDUnknown(t *testing.T) {
	f := newRequestFixture(t)

	_, err := f.usecase.GetByID(context.Background(), 999)
	assert.ErrorIs(t, err, ErrRequestNotFound)
}

func TestGetHistoryReturnsFulfilledMostRecentFirst(t *testing.T) {
	f := newRequestFixture(t)

	donor := &entity.Donor{Name: "Sari", BloodType: "A+", Phone: "+62811", City: "Bandung", Available: true}
	require.NoError(t, f.db.Create(donor).Error)

	base := time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)
	older := base
	newer := base.Add(48 * time.Hour)

	first := &entity.BloodRequest{
		BloodType: "A+", Units: 1, ComponentType: entity.ComponentWholeBlood,
		Urgency: entity.UrgencyNormal, Status: entity.RequestStatusFulfilled,
		DonorID: &donor.ID, FulfilledAt: &older,
	}
	second := &entity.BloodRequest{
		BloodType: "A+", Units: 1, ComponentType: entity.ComponentWholeBlood,
		Urgency: entity.UrgencyNormal, Status: entity.RequestStatusFulfilled,
		DonorID: &donor.ID, FulfilledAt: &newer,
	}
	pending := &entity.BloodRequest{
		BloodType: "A+", Units: 1, ComponentType: entity.ComponentWholeBlood,
		Urgency: entity.UrgencyNormal, Status: entity.RequestStatusPending,
		DonorID: &donor.ID,
	}
	require.NoError(t, f.db.Create(first).Error)
	require.NoError(t, f.db.Create(second).Error)
	require.NoError(t, f.db.Create(pending).Error)

	resp, err := f.usecase.GetHistory(context.Background(), donor.ID)
	require.NoError(t, err)
	require.Equal(t, 2, resp.Total)
	assert.Equal(t, second.ID, resp.Requests[0].ID)
	assert.Equal(t, first.ID, resp.Requests[1].ID)
}

func TestGetStats(t *testing.T) {
	f := newRequestFixture(t)
	now := time.Now().UTC()

	seedRequest(t, f, entity.UrgencyCritical, entity.RequestStatusPending, now)
	seedRequest(t, f, entity.UrgencyNormal, entity.RequestStatusPending, now)
	seedRequest(t, f, entity.UrgencyNormal, entity.RequestStatusFulfilled, now)
	seedRequest(t, f, entity.UrgencyUrgent, entity.RequestStatusCancelled, now)

	stats, err := f.usecase.GetStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(4), stats.Total)
	assert.Equal(t, int64(2), stats.Pending)
	assert.Equal(t, int64(1), stats.Fulfilled)
	assert.Equal(t, int64(1), stats.Cancelled)
	assert.Equal(t, int64(1), stats.Critical)
	assert.Equal(t, int64(2), stats.ByBloodType["A+"])
}

func TestDeleteRequest(t *testing.T) {
	f := newRequestFixture(t)
	id := seedRequest(t, f, entity.UrgencyNormal, entity.RequestStatusPending, time.Now().UTC())

	require.NoError(t, f.usecase.Delete(context.Background(), id))

	_, err := f.usecase.GetByID(context.Background(), id)
	assert.ErrorIs(t, err, ErrRequestNotFound)

	assert.ErrorIs(t, f.usecase.Delete(context.Background(), id), ErrRequestNotFound)
}
