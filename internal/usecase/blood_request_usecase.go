package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bloodconnect/internal/converter"
	"bloodconnect/internal/delivery/dto"
	"bloodconnect/internal/delivery/http/middleware"
	"bloodconnect/internal/domain/entity"
	"bloodconnect/internal/domain/repository"
	"bloodconnect/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrRequestNotFound      = errors.New("blood request not found")
	ErrRequestClosed        = errors.New("blood request is already fulfilled or cancelled")
	ErrInvalidUrgency       = errors.New("invalid urgency level")
	ErrInvalidComponentType = errors.New("invalid component type")
	ErrInvalidStatus        = errors.New("invalid request status")
)

type BloodRequestUsecase interface {
	Create(ctx context.Context, req *dto.CreateBloodRequestRequest) (*dto.BloodRequestResponse, error)
	// CreateEmergency is the anonymous channel: no authentication, urgency
	// forced to critical regardless of what the caller supplied.
	CreateEmergency(ctx context.Context, req *dto.CreateBloodRequestRequest) (*dto.BloodRequestResponse, error)
	GetByID(ctx context.Context, id uint) (*dto.BloodRequestResponse, error)
	GetAll(ctx context.Context, filter *entity.RequestFilter) (*dto.BloodRequestListResponse, error)
	GetPending(ctx context.Context) (*dto.BloodRequestListResponse, error)
	GetCritical(ctx context.Context) (*dto.BloodRequestListResponse, error)
	GetHistory(ctx context.Context, donorID uint) (*dto.BloodRequestListResponse, error)
	Update(ctx context.Context, id uint, req *dto.UpdateBloodRequestRequest) (*dto.BloodRequestResponse, error)
	Fulfill(ctx context.Context, id uint, donorID *uint) (*dto.BloodRequestResponse, error)
	Cancel(ctx context.Context, id uint) (*dto.BloodRequestResponse, error)
	Delete(ctx context.Context, id uint) error
	GetStats(ctx context.Context) (*dto.RequestStatsResponse, error)
}

type bloodRequestUsecase struct {
	db          *gorm.DB
	log         *logrus.Logger
	requestRepo repository.BloodRequestRepository
	resolver    service.ProfileResolver
	events      service.EventPublisher
	dispatcher  *service.AlertDispatcher
	audit       service.AuditService
}

func NewBloodRequestUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	requestRepo repository.BloodRequestRepository,
	resolver service.ProfileResolver,
	events service.EventPublisher,
	dispatcher *service.AlertDispatcher,
	audit service.AuditService,
) BloodRequestUsecase {
	return &bloodRequestUsecase{
		db:          db,
		log:         log,
		requestRepo: requestRepo,
		resolver:    resolver,
		events:      events,
		dispatcher:  dispatcher,
		audit:       audit,
	}
}

func (u *bloodRequestUsecase) Create(ctx context.Context, req *dto.CreateBloodRequestRequest) (*dto.BloodRequestResponse, error) {
	return u.create(ctx, req, false)
}

func (u *bloodRequestUsecase) CreateEmergency(ctx context.Context, req *dto.CreateBloodRequestRequest) (*dto.BloodRequestResponse, error) {
	return u.create(ctx, req, true)
}

func (u *bloodRequestUsecase) create(ctx context.Context, req *dto.CreateBloodRequestRequest, emergency bool) (*dto.BloodRequestResponse, error) {
	bloodType := entity.BloodType(req.BloodType)
	if !bloodType.IsValid() {
		return nil, ErrInvalidBloodType
	}

	urgency := entity.UrgencyNormal
	if emergency {
		urgency = entity.UrgencyCritical
	} else if req.Urgency != nil {
		urgency = entity.RequestUrgency(*req.Urgency)
		if !urgency.IsValid() {
			return nil, ErrInvalidUrgency
		}
	}

	component := entity.ComponentWholeBlood
	if req.ComponentType != nil {
		component = entity.ComponentType(*req.ComponentType)
		if !component.IsValid() {
			return nil, ErrInvalidComponentType
		}
	}

	units := 1
	if req.Units != nil {
		units = *req.Units
	}

	// Clinical immediate-attention flag, carried independently of the
	// urgency level and defaulting to false
	isCritical := req.IsCritical != nil && *req.IsCritical

	request := &entity.BloodRequest{
		HospitalID:    req.HospitalID,
		PatientName:   req.PatientName,
		Age:           req.Age,
		Gender:        req.Gender,
		Hemoglobin:    req.Hemoglobin,
		Platelets:     req.Platelets,
		BloodType:     bloodType,
		Units:         units,
		ComponentType: component,
		Urgency:       urgency,
		IsCritical:    isCritical,
		Diagnosis:     req.Diagnosis,
		PastReaction:  req.PastReaction,
		Allergies:     req.Allergies,
		DoctorName:    req.DoctorName,
		Status:        entity.RequestStatusPending,
		ContactPhone:  req.ContactPhone,
		Notes:         req.Notes,
	}

	// A hospital principal raising a request without naming a hospital is
	// implicitly raising it for their own facility
	if request.HospitalID == nil {
		if userID, ok := middleware.GetUserIDFromContext(ctx); ok {
			hospitalID, err := u.resolver.HospitalID(ctx, userID)
			if err != nil {
				u.log.Warnf("Failed to resolve hospital for user %s: %+v", userID, err)
				return nil, err
			}
			request.HospitalID = hospitalID
		}
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.requestRepo.Create(tx, request); err != nil {
		u.log.Warnf("Failed to create blood request: %+v", err)
		return nil, err
	}

	if userID, ok := middleware.GetUserIDFromContext(ctx); ok {
		u.audit.LogCreate(ctx, tx, &userID, entity.AuditActionRequestCreate, "blood_request", fmt.Sprintf("%d", request.ID), request)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	// Reload with the hospital relation so events and alerts carry facility info
	full, err := u.requestRepo.FindByID(u.db.WithContext(ctx), request.ID)
	if err != nil || full == nil {
		u.log.Warnf("Failed to reload request %d: %+v", request.ID, err)
		full = request
	}

	u.events.Publish(ctx, service.EventRequestCreated, converter.BloodRequestToResponse(full))

	// Alerting keys on the urgency level, not the clinical flag
	if full.Urgency == entity.UrgencyCritical {
		u.events.Publish(ctx, service.EventCriticalAlert, converter.BloodRequestToResponse(full))

		// Donor fanout runs detached from the request lifecycle
		alertCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		go func() {
			defer cancel()
			u.dispatcher.DispatchCritical(alertCtx, full)
		}()
	}

	u.log.Infof("Blood request created: id=%d, type=%s, urgency=%s", full.ID, full.BloodType, full.Urgency)
	return converter.BloodRequestToResponse(full), nil
}

func (u *bloodRequestUsecase) GetByID(ctx context.Context, id uint) (*dto.BloodRequestResponse, error) {
	request, err := u.requestRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find request %d: %+v", id, err)
		return nil, err
	}
	if request == nil {
		return nil, ErrRequestNotFound
	}

	return converter.BloodRequestToResponse(request), nil
}

func (u *bloodRequestUsecase) GetAll(ctx context.Context, filter *entity.RequestFilter) (*dto.BloodRequestListResponse, error) {
	if filter != nil {
		switch filter.Status {
		case "", entity.RequestStatusPending, entity.RequestStatusFulfilled, entity.RequestStatusCancelled:
		default:
			return nil, ErrInvalidStatus
		}
		if filter.Urgency != "" && !filter.Urgency.IsValid() {
			return nil, ErrInvalidUrgency
		}
		if filter.BloodType != "" && !filter.BloodType.IsValid() {
			return nil, ErrInvalidBloodType
		}
	}

	requests, err := u.requestRepo.FindAll(u.db.WithContext(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to list requests: %+v", err)
		return nil, err
	}

	return &dto.BloodRequestListResponse{
		Requests: converter.BloodRequestsToResponses(requests),
		Total:    len(requests),
	}, nil
}

func (u *bloodRequestUsecase) GetPending(ctx context.Context) (*dto.BloodRequestListResponse, error) {
	return u.GetAll(ctx, &entity.RequestFilter{Status: entity.RequestStatusPending})
}

func (u *bloodRequestUsecase) GetCritical(ctx context.Context) (*dto.BloodRequestListResponse, error) {
	requests, err := u.requestRepo.FindCritical(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to list critical requests: %+v", err)
		return nil, err
	}

	return &dto.BloodRequestListResponse{
		Requests: converter.BloodRequestsToResponses(requests),
		Total:    len(requests),
	}, nil
}

func (u *bloodRequestUsecase) GetHistory(ctx context.Context, donorID uint) (*dto.BloodRequestListResponse, error) {
	requests, err := u.requestRepo.FindHistory(u.db.WithContext(ctx), donorID)
	if err != nil {
		u.log.Warnf("Failed to list history for donor %d: %+v", donorID, err)
		return nil, err
	}

	return &dto.BloodRequestListResponse{
		Requests: converter.BloodRequestsToResponses(requests),
		Total:    len(requests),
	}, nil
}

func (u *bloodRequestUsecase) Update(ctx context.Context, id uint, req *dto.UpdateBloodRequestRequest) (*dto.BloodRequestResponse, error) {
	request, err := u.requestRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find request %d: %+v", id, err)
		return nil, err
	}
	if request == nil {
		return nil, ErrRequestNotFound
	}

	// Fulfilled and cancelled are terminal: nothing about a closed request
	// may change, including its status
	if request.Status.IsTerminal() {
		return nil, ErrRequestClosed
	}

	updates := map[string]interface{}{}
	if req.BloodType != nil {
		bt := entity.BloodType(*req.BloodType)
		if !bt.IsValid() {
			return nil, ErrInvalidBloodType
		}
		updates["blood_type"] = bt
	}
	if req.Units != nil {
		updates["units"] = *req.Units
	}
	if req.ComponentType != nil {
		component := entity.ComponentType(*req.ComponentType)
		if !component.IsValid() {
			return nil, ErrInvalidComponentType
		}
		updates["component_type"] = component
	}
	if req.Urgency != nil {
		urgency := entity.RequestUrgency(*req.Urgency)
		if !urgency.IsValid() {
			return nil, ErrInvalidUrgency
		}
		updates["urgency"] = urgency
	}
	if req.IsCritical != nil {
		updates["is_critical"] = *req.IsCritical
	}
	if req.PatientName != nil {
		updates["patient_name"] = *req.PatientName
	}
	if req.Age != nil {
		updates["age"] = *req.Age
	}
	if req.Gender != nil {
		updates["gender"] = *req.Gender
	}
	if req.Hemoglobin != nil {
		updates["hemoglobin"] = *req.Hemoglobin
	}
	if req.Platelets != nil {
		updates["platelets"] = *req.Platelets
	}
	if req.Diagnosis != nil {
		updates["diagnosis"] = *req.Diagnosis
	}
	if req.PastReaction != nil {
		updates["past_reaction"] = *req.PastReaction
	}
	if req.Allergies != nil {
		updates["allergies"] = *req.Allergies
	}
	if req.DoctorName != nil {
		updates["doctor_name"] = *req.DoctorName
	}
	if req.ContactPhone != nil {
		updates["contact_phone"] = *req.ContactPhone
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if req.DonorID != nil {
		updates["donor_id"] = *req.DonorID
	}

	becameFulfilled := false
	if req.Status != nil {
		newStatus := entity.RequestStatus(*req.Status)
		switch newStatus {
		case entity.RequestStatusPending, entity.RequestStatusFulfilled, entity.RequestStatusCancelled:
		default:
			return nil, ErrInvalidStatus
		}
		if !request.Status.CanTransitionTo(newStatus) {
			return nil, ErrRequestClosed
		}
		updates["status"] = newStatus
		// Fulfillment timestamp travels in the same write as the transition
		if newStatus == entity.RequestStatusFulfilled {
			updates["fulfilled_at"] = time.Now().UTC()
			becameFulfilled = true
		}
	}

	if len(updates) == 0 {
		return converter.BloodRequestToResponse(request), nil
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	// Guarded write: the row must still be pending when the update lands,
	// otherwise a concurrent transition won the race
	rows, err := u.requestRepo.UpdateFieldsWhileStatus(tx, id, entity.RequestStatusPending, updates)
	if err != nil {
		u.log.Warnf("Failed to update request %d: %+v", id, err)
		return nil, err
	}
	if rows == 0 {
		return nil, ErrRequestClosed
	}

	if userID, ok := middleware.GetUserIDFromContext(ctx); ok {
		action := entity.AuditActionRequestUpdate
		if becameFulfilled {
			action = entity.AuditActionRequestFulfill
		}
		u.audit.LogUpdate(ctx, tx, &userID, action, "blood_request", fmt.Sprintf("%d", id), request, updates)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	updated, err := u.requestRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil || updated == nil {
		u.log.Warnf("Failed to reload request %d: %+v", id, err)
		return nil, ErrRequestNotFound
	}

	if becameFulfilled {
		u.events.Publish(ctx, service.EventRequestFulfilled, converter.BloodRequestToResponse(updated))
	} else {
		u.events.Publish(ctx, service.EventRequestUpdated, converter.BloodRequestToResponse(updated))
	}

	return converter.BloodRequestToResponse(updated), nil
}

// Fulfill closes a pending request as satisfied, crediting the donor who
// answered it. Without an explicit donor reference, the acting principal's
// own donor profile (if any) is credited.
func (u *bloodRequestUsecase) Fulfill(ctx context.Context, id uint, donorID *uint) (*dto.BloodRequestResponse, error) {
	request, err := u.requestRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find request %d: %+v", id, err)
		return nil, err
	}
	if request == nil {
		return nil, ErrRequestNotFound
	}
	if request.Status.IsTerminal() {
		return nil, ErrRequestClosed
	}

	if donorID == nil {
		if userID, ok := middleware.GetUserIDFromContext(ctx); ok {
			resolved, err := u.resolver.DonorID(ctx, userID)
			if err != nil {
				u.log.Warnf("Failed to resolve donor for user %s: %+v", userID, err)
				return nil, err
			}
			donorID = resolved
		}
	}

	updates := map[string]interface{}{
		"status":       entity.RequestStatusFulfilled,
		"fulfilled_at": time.Now().UTC(),
	}
	if donorID != nil {
		updates["donor_id"] = *donorID
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	rows, err := u.requestRepo.UpdateFieldsWhileStatus(tx, id, entity.RequestStatusPending, updates)
	if err != nil {
		u.log.Warnf("Failed to fulfill request %d: %+v", id, err)
		return nil, err
	}
	if rows == 0 {
		return nil, ErrRequestClosed
	}

	if userID, ok := middleware.GetUserIDFromContext(ctx); ok {
		u.audit.LogUpdate(ctx, tx, &userID, entity.AuditActionRequestFulfill, "blood_request", fmt.Sprintf("%d", id), request, updates)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	updated, err := u.requestRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil || updated == nil {
		u.log.Warnf("Failed to reload request %d: %+v", id, err)
		return nil, ErrRequestNotFound
	}

	u.events.Publish(ctx, service.EventRequestFulfilled, converter.BloodRequestToResponse(updated))

	u.log.Infof("Blood request fulfilled: id=%d", id)
	return converter.BloodRequestToResponse(updated), nil
}

func (u *bloodRequestUsecase) Cancel(ctx context.Context, id uint) (*dto.BloodRequestResponse, error) {
	request, err := u.requestRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find request %d: %+v", id, err)
		return nil, err
	}
	if request == nil {
		return nil, ErrRequestNotFound
	}
	if request.Status.IsTerminal() {
		return nil, ErrRequestClosed
	}

	updates := map[string]interface{}{
		"status": entity.RequestStatusCancelled,
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	rows, err := u.requestRepo.UpdateFieldsWhileStatus(tx, id, entity.RequestStatusPending, updates)
	if err != nil {
		u.log.Warnf("Failed to cancel request %d: %+v", id, err)
		return nil, err
	}
	if rows == 0 {
		return nil, ErrRequestClosed
	}

	if userID, ok := middleware.GetUserIDFromContext(ctx); ok {
		u.audit.LogUpdate(ctx, tx, &userID, entity.AuditActionRequestCancel, "blood_request", fmt.Sprintf("%d", id), request, updates)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	updated, err := u.requestRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil || updated == nil {
		u.log.Warnf("Failed to reload request %d: %+v", id, err)
		return nil, ErrRequestNotFound
	}

	u.events.Publish(ctx, service.EventRequestUpdated, converter.BloodRequestToResponse(updated))

	u.log.Infof("Blood request cancelled: id=%d", id)
	return converter.BloodRequestToResponse(updated), nil
}

func (u *bloodRequestUsecase) Delete(ctx context.Context, id uint) error {
	request, err := u.requestRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find request %d: %+v", id, err)
		return err
	}
	if request == nil {
		return ErrRequestNotFound
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.requestRepo.Delete(tx, id); err != nil {
		u.log.Warnf("Failed to delete request %d: %+v", id, err)
		return err
	}

	if userID, ok := middleware.GetUserIDFromContext(ctx); ok {
		u.audit.LogDelete(ctx, tx, &userID, entity.AuditActionRequestDelete, "blood_request", fmt.Sprintf("%d", id), request)
	}

	return tx.Commit().Error
}

func (u *bloodRequestUsecase) GetStats(ctx context.Context) (*dto.RequestStatsResponse, error) {
	stats, err := u.requestRepo.Stats(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to compute request stats: %+v", err)
		return nil, err
	}

	return converter.RequestStatsToResponse(stats), nil
}
