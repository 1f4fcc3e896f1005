package handler

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Auth ---

type registerRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type registerResponse struct {
	Token string `json:"token"`
}

type loginResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

type meResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}

// --- Residents ---

type createResidentRequest struct {
	FirstName         string `json:"firstName"         validate:"required,max=100"`
	MiddleName        string `json:"middleName"        validate:"max=100"`
	LastName          string `json:"lastName"          validate:"required,max=100"`
	DOB               string `json:"dob"`
	Gender            string `json:"gender"`
	Phone             string `json:"phone"`
	EmergencyContact  string `json:"emergencyContact"`
	EmergencyPhone    string `json:"emergencyPhone"`
	Doctor            string `json:"doctor"`
	DoctorPhone       string `json:"doctorPhone"`
	MedicalConditions string `json:"medicalConditions"`
	FoodAllergies     string `json:"foodAllergies"`
	Medications       string `json:"medications"`
	RoomNumber        string `json:"roomNumber"`
}

type updateResidentRequest struct {
	Name              string `json:"name"`
	RoomNumber        string `json:"roomNumber"`
	FoodAllergies     string `json:"foodAllergies"`
	MedicalConditions string `json:"medicalConditions"`
}

type assignCaregiverRequest struct {
	CaregiverID *string `json:"caregiverId"`
}

type residentCardResponse struct {
	ID            string `json:"id"`
	FullName      string `json:"fullName"`
	RoomNumber    string `json:"roomNumber"`
	FoodAllergies string `json:"foodAllergies"`
}

// caregiverResidentResponse is the care-relevant subset of a resident shown
// to the assigned caregiver. Contact and doctor details stay admin-only.
type caregiverResidentResponse struct {
	ID                string `json:"id"`
	FirstName         string `json:"firstName"`
	LastName          string `json:"lastName"`
	RoomNumber        string `json:"roomNumber"`
	MedicalConditions string `json:"medicalConditions"`
	FoodAllergies     string `json:"foodAllergies"`
	Medications       string `json:"medications"`
}

// --- Staff ---

type staffResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type deleteResponse struct {
	Message string `json:"message"`
}
