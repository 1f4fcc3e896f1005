package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/traymate/backend/internal/core/domain"
	"github.com/traymate/backend/internal/core/ports"
)

// StaffHandler serves the admin staff listings and deletions.
type StaffHandler struct {
	service ports.StaffService
}

func NewStaffHandler(service ports.StaffService) *StaffHandler {
	return &StaffHandler{service: service}
}

// Caregivers handles GET /admin/caregivers.
//
// @Summary      List caregivers
// @Tags         staff
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   staffResponse
// @Failure      403  {object}  errorResponse
// @Router       /admin/caregivers [get]
func (h *StaffHandler) Caregivers(c echo.Context) error {
	return h.list(c, domain.RoleCaregiver)
}

// Kitchen handles GET /admin/kitchen.
//
// @Summary      List kitchen staff
// @Tags         staff
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   staffResponse
// @Failure      403  {object}  errorResponse
// @Router       /admin/kitchen [get]
func (h *StaffHandler) Kitchen(c echo.Context) error {
	return h.list(c, domain.RoleKitchenStaff)
}

func (h *StaffHandler) list(c echo.Context, role domain.Role) error {
	members, err := h.service.ListByRole(c.Request().Context(), role)
	if err != nil {
		return err
	}

	out := make([]staffResponse, 0, len(members))
	for _, m := range members {
		out = append(out, staffResponse{ID: m.ID, Name: m.Name, Email: m.Email})
	}
	return c.JSON(http.StatusOK, out)
}

// Delete handles DELETE /admin/delete/:type/:id.
//
// @Summary      Delete a resident or user
// @Description  Deleting a user first removes it as caregiver from every resident.
// @Tags         staff
// @Produce      json
// @Security     BearerAuth
// @Param        type  path      string  true  "resident or user"
// @Param        id    path      string  true  "Entity ID"
// @Success      200   {object}  deleteResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /admin/delete/{type}/{id} [delete]
func (h *StaffHandler) Delete(c echo.Context) error {
	if err := h.service.DeleteEntity(c.Request().Context(), c.Param("type"), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, deleteResponse{Message: "Deleted successfully"})
}
