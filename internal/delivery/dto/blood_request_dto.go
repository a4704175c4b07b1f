package dto

import "time"

type CreateBloodRequestRequest struct {
	BloodType     string   `json:"blood_type" validate:"required"`
	Units         *int     `json:"units" validate:"omitempty,gte=1"`
	ComponentType *string  `json:"component_type"`
	Urgency       *string  `json:"urgency" validate:"omitempty,oneof=critical urgent normal"`
	IsCritical    *bool    `json:"is_critical"`
	PatientName   *string  `json:"patient_name" validate:"omitempty,max=255"`
	Age           *int     `json:"age" validate:"omitempty,gte=0,lte=150"`
	Gender        *string  `json:"gender" validate:"omitempty,oneof=male female other"`
	Hemoglobin    *float64 `json:"hemoglobin" validate:"omitempty,gte=0"`
	Platelets     *float64 `json:"platelets" validate:"omitempty,gte=0"`
	HospitalID    *uint    `json:"hospital_id"`
	Diagnosis     *string  `json:"diagnosis"`
	PastReaction  *string  `json:"past_reaction"`
	Allergies     *string  `json:"allergies"`
	DoctorName    *string  `json:"doctor_name" validate:"omitempty,max=255"`
	ContactPhone  *string  `json:"contact_phone" validate:"omitempty,max=20"`
	Notes         *string  `json:"notes"`
}

// UpdateBloodRequestRequest carries a partial update: only non-nil fields
// change. Setting Status to fulfilled stamps fulfilled_at in the same write.
type UpdateBloodRequestRequest struct {
	BloodType     *string  `json:"blood_type"`
	Units         *int     `json:"units" validate:"omitempty,gte=1"`
	ComponentType *string  `json:"component_type"`
	Urgency       *string  `json:"urgency" validate:"omitempty,oneof=critical urgent normal"`
	IsCritical    *bool    `json:"is_critical"`
	Status        *string  `json:"status" validate:"omitempty,oneof=pending fulfilled cancelled"`
	PatientName   *string  `json:"patient_name" validate:"omitempty,max=255"`
	Age           *int     `json:"age" validate:"omitempty,gte=0,lte=150"`
	Gender        *string  `json:"gender" validate:"omitempty,oneof=male female other"`
	Hemoglobin    *float64 `json:"hemoglobin" validate:"omitempty,gte=0"`
	Platelets     *float64 `json:"platelets" validate:"omitempty,gte=0"`
	Diagnosis     *string  `json:"diagnosis"`
	PastReaction  *string  `json:"past_reaction"`
	Allergies     *string  `json:"allergies"`
	DoctorName    *string  `json:"doctor_name" validate:"omitempty,max=255"`
	ContactPhone  *string  `json:"contact_phone" validate:"omitempty,max=20"`
	Notes         *string  `json:"notes"`
	DonorID       *uint    `json:"donor_id"`
}

type FulfillBloodRequestRequest struct {
	DonorID *uint `json:"donor_id"`
}

type BloodRequestResponse struct {
	ID            uint       `json:"id"`
	BloodType     string     `json:"blood_type"`
	Units         int        `json:"units"`
	ComponentType string     `json:"component_type"`
	Urgency       string     `json:"urgency"`
	IsCritical    bool       `json:"is_critical"`
	Status        string     `json:"status"`
	PatientName   *string    `json:"patient_name,omitempty"`
	Age           *int       `json:"age,omitempty"`
	Gender        *string    `json:"gender,omitempty"`
	Hemoglobin    *float64   `json:"hemoglobin,omitempty"`
	Platelets     *float64   `json:"platelets,omitempty"`
	HospitalID    *uint      `json:"hospital_id,omitempty"`
	HospitalName  *string    `json:"hospital_name,omitempty"`
	HospitalCity  *string    `json:"hospital_city,omitempty"`
	HospitalPhone *string    `json:"hospital_phone,omitempty"`
	Diagnosis     *string    `json:"diagnosis,omitempty"`
	PastReaction  *string    `json:"past_reaction,omitempty"`
	Allergies     *string    `json:"allergies,omitempty"`
	DoctorName    *string    `json:"doctor_name,omitempty"`
	ContactPhone  *string    `json:"contact_phone,omitempty"`
	Notes         *string    `json:"notes,omitempty"`
	DonorID       *uint      `json:"donor_id,omitempty"`
	DonorName     *string    `json:"donor_name,omitempty"`
	FulfilledAt   *time.Time `json:"fulfilled_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

type BloodRequestListResponse struct {
	Requests []BloodRequestResponse `json:"requests"`
	Total    int                    `json:"total"`
}

type RequestStatsResponse struct {
	Total       int64            `json:"total"`
	Pending     int64            `json:"pending"`
	Fulfilled   int64            `json:"fulfilled"`
	Cancelled   int64            `json:"cancelled"`
	Critical    int64            `json:"critical"`
	ByBloodType map[string]int64 `json:"by_blood_type"`
}
