package entity

import "time"

// RequestStatus represents the lifecycle state of a blood request
type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "pending"
	RequestStatusFulfilled RequestStatus = "fulfilled"
	RequestStatusCancelled RequestStatus = "cancelled"
)

// IsTerminal reports whether no further transition is permitted out of s
func (s RequestStatus) IsTerminal() bool {
	return s == RequestStatusFulfilled || s == RequestStatusCancelled
}

// CanTransitionTo reports whether the transition s -> to is legal.
// The only legal transitions are pending -> pending (field revision),
// pending -> fulfilled and pending -> cancelled.
func (s RequestStatus) CanTransitionTo(to RequestStatus) bool {
	if s != RequestStatusPending {
		return false
	}
	switch to {
	case RequestStatusPending, RequestStatusFulfilled, RequestStatusCancelled:
		return true
	}
	return false
}

// RequestUrgency governs retrieval ordering priority
type RequestUrgency string

const (
	UrgencyCritical RequestUrgency = "critical"
	UrgencyUrgent   RequestUrgency = "urgent"
	UrgencyNormal   RequestUrgency = "normal"
)

// Rank returns the sort rank of the urgency, critical first
func (u RequestUrgency) Rank() int {
	switch u {
	case UrgencyCritical:
		return 1
	case UrgencyUrgent:
		return 2
	}
	return 3
}

// IsValid reports whether u is a recognized urgency level
func (u RequestUrgency) IsValid() bool {
	switch u {
	case UrgencyCritical, UrgencyUrgent, UrgencyNormal:
		return true
	}
	return false
}

// ComponentType is the requested blood component
type ComponentType string

const (
	ComponentWholeBlood ComponentType = "Whole Blood"
	ComponentPackedRBC  ComponentType = "Packed RBC"
	ComponentPlatelets  ComponentType = "Platelets"
	ComponentPlasma     ComponentType = "Plasma"
)

// IsValid reports whether c is a recognized component type
func (c ComponentType) IsValid() bool {
	switch c {
	case ComponentWholeBlood, ComponentPackedRBC, ComponentPlatelets, ComponentPlasma:
		return true
	}
	return false
}

// BloodRequest is a hospital's (or anonymous emergency) request for blood.
// Invariants: FulfilledAt is non-nil iff Status is fulfilled; DonorID is set
// only on fulfillment and may stay nil when no specific donor was attributed.
type BloodRequest struct {
	ID            uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	HospitalID    *uint          `gorm:"index" json:"hospital_id,omitempty"`
	PatientName   *string        `gorm:"type:varchar(255)" json:"patient_name,omitempty"`
	Age           *int           `json:"age,omitempty"`
	Gender        *string        `gorm:"type:varchar(20)" json:"gender,omitempty"`
	Hemoglobin    *float64       `json:"hemoglobin,omitempty"`
	Platelets     *float64       `json:"platelets,omitempty"`
	BloodType     BloodType      `gorm:"type:varchar(3);not null;index" json:"blood_type"`
	Units         int            `gorm:"not null;default:1" json:"units"`
	ComponentType ComponentType  `gorm:"type:varchar(20);not null;default:'Whole Blood'" json:"component_type"`
	Urgency       RequestUrgency `gorm:"type:varchar(10);not null;default:'normal';index:idx_requests_status_urgency_created,priority:2" json:"urgency"`
	IsCritical    bool           `gorm:"not null;default:false" json:"is_critical"`
	Diagnosis     *string        `gorm:"type:text" json:"diagnosis,omitempty"`
	PastReaction  *string        `gorm:"type:text" json:"past_reaction,omitempty"`
	Allergies     *string        `gorm:"type:text" json:"allergies,omitempty"`
	DoctorName    *string        `gorm:"type:varchar(255)" json:"doctor_name,omitempty"`
	Status        RequestStatus  `gorm:"type:varchar(10);not null;default:'pending';index:idx_requests_status_urgency_created,priority:1" json:"status"`
	DonorID       *uint          `gorm:"index" json:"donor_id,omitempty"`
	ContactPhone  *string        `gorm:"type:varchar(20)" json:"contact_phone,omitempty"`
	Notes         *string        `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt     time.Time      `gorm:"autoCreateTime;index:idx_requests_status_urgency_created,priority:3" json:"created_at"`
	FulfilledAt   *time.Time     `json:"fulfilled_at,omitempty"`

	// Relationships
	Hospital *Hospital `gorm:"foreignKey:HospitalID" json:"hospital,omitempty"`
	Donor    *Donor    `gorm:"foreignKey:DonorID" json:"donor,omitempty"`
}

func (BloodRequest) TableName() string {
	return "blood_requests"
}

// IsPending checks if the request is still open
func (r *BloodRequest) IsPending() bool {
	return r.Status == RequestStatusPending
}

// IsFulfilled checks if the request was satisfied
func (r *BloodRequest) IsFulfilled() bool {
	return r.Status == RequestStatusFulfilled
}

// IsCancelled checks if the request was withdrawn
func (r *BloodRequest) IsCancelled() bool {
	return r.Status == RequestStatusCancelled
}

// RequestFilter holds the optional, conjunctive retrieval filters
type RequestFilter struct {
	Status     RequestStatus
	Urgency    RequestUrgency
	BloodType  BloodType
	HospitalID *uint
}

// RequestStats is the aggregate view over all requests
type RequestStats struct {
	Total       int64            `json:"total"`
	Pending     int64            `json:"pending"`
	Fulfilled   int64            `json:"fulfilled"`
	Cancelled   int64            `json:"cancelled"`
	Critical    int64            `json:"critical"`
	ByBloodType map[string]int64 `json:"byBloodType"`
}
