package entity

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID
	Name         string
	PasswordHash string
}

type Appointment struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"uid"`
	Title      string    `json:"title"`
	Date       string    `json:"appointment_date"`
	Time       string    `json:"appointment_time"`
	DoctorName string    `json:"doctor_name,omitempty"`
	Location   string    `json:"location,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// StartTime combines Date ("2006-01-02") and Time ("15:04") into a UTC instant
func (a *Appointment) StartTime() (time.Time, error) {
	return time.Parse("2006-01-02 15:04", a.Date+" "+a.Time)
}

type AppointmentPatch struct {
	Title      *string `json:"title,omitempty"`
	Date       *string `json:"appointment_date,omitempty"`
	Time       *string `json:"appointment_time,omitempty"`
	DoctorName *string `json:"doctor_name,omitempty"`
	Location   *string `json:"location,omitempty"`
	Notes      *string `json:"notes,omitempty"`
}

func (p *AppointmentPatch) IsEmpty() bool {
	return p.Title == nil && p.Date == nil && p.Time == nil &&
		p.DoctorName == nil && p.Location == nil && p.Notes == nil
}

type Medication struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"uid"`
	Name      string    `json:"name"`
	Dosage    string    `json:"dosage"`
	Frequency string    `json:"frequency"`
	TimeOfDay []string  `json:"time_of_day"`
	StartDate string    `json:"start_date"`
	EndDate   string    `json:"end_date,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type MedicationPatch struct {
	Name      *string   `json:"name,omitempty"`
	Dosage    *string   `json:"dosage,omitempty"`
	Frequency *string   `json:"frequency,omitempty"`
	TimeOfDay *[]string `json:"time_of_day,omitempty"`
	StartDate *string   `json:"start_date,omitempty"`
	EndDate   *string   `json:"end_date,omitempty"`
	Notes     *string   `json:"notes,omitempty"`
	IsActive  *bool     `json:"is_active,omitempty"`
}

func (p *MedicationPatch) IsEmpty() bool {
	return p.Name == nil && p.Dosage == nil && p.Frequency == nil &&
		p.TimeOfDay == nil && p.StartDate == nil && p.EndDate == nil &&
		p.Notes == nil && p.IsActive == nil
}

type MedicationLog struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"uid"`
	MedicationID  uuid.UUID `json:"medication_id"`
	ScheduledTime string    `json:"scheduled_time"`
	TakenAt       time.Time `json:"taken_at"`
}

type Profile struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"uid"`
	FullName  string    `json:"full_name,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
