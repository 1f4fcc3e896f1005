package domain

import (
	"fmt"
	"strings"
	"time"
)

// Gender of a resident.
type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	GenderOther  Gender = "OTHER"
)

// ParseGender accepts any casing. An empty string yields an empty Gender.
func ParseGender(s string) (Gender, error) {
	if strings.TrimSpace(s) == "" {
		return "", nil
	}
	g := Gender(strings.ToUpper(strings.TrimSpace(s)))
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return g, nil
	}
	return "", fmt.Errorf("%w: unknown gender %q", ErrInvalidInput, s)
}

// DateLayout is the format of a resident's date of birth.
const DateLayout = "2006-01-02"

// ValidateDOB checks that a non-empty date of birth matches DateLayout.
func ValidateDOB(dob string) error {
	if dob == "" {
		return nil
	}
	if _, err := time.Parse(DateLayout, dob); err != nil {
		return fmt.Errorf("%w: dob must be YYYY-MM-DD", ErrInvalidInput)
	}
	return nil
}

// Resident is a person living in the facility.
type Resident struct {
	ID                string    `json:"id"`
	FirstName         string    `json:"firstName"`
	MiddleName        string    `json:"middleName,omitempty"`
	LastName          string    `json:"lastName"`
	DOB               string    `json:"dob,omitempty"`
	Gender            Gender    `json:"gender,omitempty"`
	Phone             string    `json:"phone,omitempty"`
	EmergencyContact  string    `json:"emergencyContact,omitempty"`
	EmergencyPhone    string    `json:"emergencyPhone,omitempty"`
	Doctor            string    `json:"doctor,omitempty"`
	DoctorPhone       string    `json:"doctorPhone,omitempty"`
	MedicalConditions string    `json:"medicalConditions,omitempty"`
	FoodAllergies     string    `json:"foodAllergies,omitempty"`
	Medications       string    `json:"medications,omitempty"`
	RoomNumber        string    `json:"roomNumber,omitempty"`
	CaregiverID       string    `json:"caregiverId,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// FullName joins first and last name.
func (r *Resident) FullName() string {
	return strings.TrimSpace(r.FirstName + " " + r.LastName)
}

// SetName splits a display name on its last space into first and last name.
func (r *Resident) SetName(name string) {
	name = strings.TrimSpace(name)
	if i := strings.LastIndex(name, " "); i > 0 {
		r.FirstName = strings.TrimSpace(name[:i])
		r.LastName = strings.TrimSpace(name[i+1:])
		return
	}
	r.FirstName = name
	r.LastName = ""
}
