package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/traymate/backend/internal/core/ports"
)

// HeaderIdempotencyKey makes resident creation safe to retry.
const HeaderIdempotencyKey = "Idempotency-Key"

// ResidentHandler handles the admin resident endpoints.
type ResidentHandler struct {
	service ports.ResidentService
}

func NewResidentHandler(service ports.ResidentService) *ResidentHandler {
	return &ResidentHandler{service: service}
}

// Create handles POST /admin/residents.
//
// @Summary      Admit a resident
// @Description  Repeating a request with the same Idempotency-Key returns the resident created by the first call with 200.
// @Tags         residents
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string                 false  "Client-chosen key for safe retries"
// @Param        body             body      createResidentRequest  true   "Resident details"
// @Success      201              {object}  domain.Resident
// @Success      200              {object}  domain.Resident
// @Failure      400              {object}  errorResponse
// @Failure      401              {object}  errorResponse
// @Failure      403              {object}  errorResponse
// @Failure      500              {object}  errorResponse
// @Router       /admin/residents [post]
func (h *ResidentHandler) Create(c echo.Context) error {
	var req createResidentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.service.CreateResident(c.Request().Context(), ports.CreateResidentInput{
		FirstName:         req.FirstName,
		MiddleName:        req.MiddleName,
		LastName:          req.LastName,
		DOB:               req.DOB,
		Gender:            req.Gender,
		Phone:             req.Phone,
		EmergencyContact:  req.EmergencyContact,
		EmergencyPhone:    req.EmergencyPhone,
		Doctor:            req.Doctor,
		DoctorPhone:       req.DoctorPhone,
		MedicalConditions: req.MedicalConditions,
		FoodAllergies:     req.FoodAllergies,
		Medications:       req.Medications,
		RoomNumber:        req.RoomNumber,
		IdempotencyKey:    strings.TrimSpace(c.Request().Header.Get(HeaderIdempotencyKey)),
	})
	if err != nil {
		return err
	}

	status := http.StatusCreated
	if res.AlreadyExisted {
		status = http.StatusOK
	}
	return c.JSON(status, res.Resident)
}

// Update handles PUT /admin/residents/:id.
//
// @Summary      Update a resident
// @Description  Non-empty fields overwrite the stored values; name is split into first and last name on its last space.
// @Tags         residents
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true  "Resident ID"
// @Param        body  body      updateResidentRequest  true  "Fields to change"
// @Success      200   {object}  domain.Resident
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /admin/residents/{id} [put]
func (h *ResidentHandler) Update(c echo.Context) error {
	var req updateResidentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	resident, err := h.service.UpdateResident(c.Request().Context(), c.Param("id"), ports.UpdateResidentInput{
		Name:              req.Name,
		RoomNumber:        req.RoomNumber,
		FoodAllergies:     req.FoodAllergies,
		MedicalConditions: req.MedicalConditions,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resident)
}

// List handles GET /admin/residents.
//
// @Summary      List residents
// @Tags         residents
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   residentCardResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /admin/residents [get]
func (h *ResidentHandler) List(c echo.Context) error {
	cards, err := h.service.ListResidents(c.Request().Context())
	if err != nil {
		return err
	}

	out := make([]residentCardResponse, 0, len(cards))
	for _, card := range cards {
		out = append(out, residentCardResponse{
			ID:            card.ID,
			FullName:      card.FullName,
			RoomNumber:    card.RoomNumber,
			FoodAllergies: card.FoodAllergies,
		})
	}
	return c.JSON(http.StatusOK, out)
}

// Assign handles PUT /admin/residents/:id/assign.
//
// @Summary      Assign a caregiver
// @Description  A null caregiverId removes the current assignment.
// @Tags         residents
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                  true  "Resident ID"
// @Param        body  body      assignCaregiverRequest  true  "Caregiver to assign"
// @Success      200   {object}  domain.Resident
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /admin/residents/{id}/assign [put]
func (h *ResidentHandler) Assign(c echo.Context) error {
	var req assignCaregiverRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	resident, err := h.service.AssignCaregiver(c.Request().Context(), c.Param("id"), req.CaregiverID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resident)
}

// CaregiverResidents handles GET /caregiver/residents.
//
// @Summary      Residents assigned to the caller
// @Tags         caregiver
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   caregiverResidentResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /caregiver/residents [get]
func (h *ResidentHandler) CaregiverResidents(c echo.Context) error {
	residents, err := h.service.ResidentsForCaregiver(c.Request().Context())
	if err != nil {
		return err
	}

	out := make([]caregiverResidentResponse, 0, len(residents))
	for _, r := range residents {
		out = append(out, caregiverResidentResponse{
			ID:                r.ID,
			FirstName:         r.FirstName,
			LastName:          r.LastName,
			RoomNumber:        r.RoomNumber,
			MedicalConditions: r.MedicalConditions,
			FoodAllergies:     r.FoodAllergies,
			Medications:       r.Medications,
		})
	}
	return c.JSON(http.StatusOK, out)
}
