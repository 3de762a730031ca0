package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/restaurant-api/internal/application/dto"
	"github.com/jhoicas/restaurant-api/internal/application/staff"
	"github.com/jhoicas/restaurant-api/internal/interfaces/http/metrics"
)

// UserHandler gestión de usuarios del restaurante y sus asignaciones rol-sede.
// El tenant sale siempre del token; cualquier restaurant_id del cliente se ignora.
type UserHandler struct {
	uc *staff.StaffUseCase
}

// NewUserHandler construye el handler.
func NewUserHandler(uc *staff.StaffUseCase) *UserHandler {
	return &UserHandler{uc: uc}
}

// Create godoc
// @Summary      Crear usuario
// @Description  Crea el usuario y expande los pares rol-sedes en una sola transacción.
// @Tags         users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateUserRequest  true  "datos y pares rol-sedes"
// @Success      201   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/users [post]
func (h *UserHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateUserRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.CreateUser(c.UserContext(), GetCaller(c), in)
	metrics.AssignmentWritesTotal.WithLabelValues("create_user", resultOf(err)).Inc()
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar usuarios del restaurante
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Param        limit        query  int     false  "Límite"   default(20)
// @Param        offset       query  int     false  "Offset"   default(0)
// @Param        status       query  string  false  "active | inactive"
// @Param        role_id      query  int     false  "Filtra por rol"
// @Param        location_id  query  string  false  "Filtra por sede"
// @Param        search       query  string  false  "Nombre o email"
// @Success      200  {object}  dto.UserListResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	var in dto.UserListRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	in.DefaultPage()
	if ok, err := check(c, &in); !ok {
		return err
	}
	out, err := h.uc.ListUsers(c.UserContext(), GetCaller(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener usuario con sus roles reconstruidos
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del usuario"
// @Success      200  {object}  dto.UserResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/users/{id} [get]
func (h *UserHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetUser(c.UserContext(), GetCaller(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Editar usuario
// @Description  roles ausente conserva las asignaciones; si viene, las reemplaza por completo.
// @Tags         users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID del usuario"
// @Param        body  body  dto.UpdateUserRequest  true  "campos a modificar"
// @Success      200   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/users/{id} [put]
func (h *UserHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateUserRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.UpdateUser(c.UserContext(), GetCaller(c), c.Params("id"), in)
	metrics.AssignmentWritesTotal.WithLabelValues("update_user", resultOf(err)).Inc()
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Deactivate godoc
// @Summary      Desactivar usuario
// @Description  Marca el usuario y sus asignaciones como inactivos. Es idempotente.
// @Tags         users
// @Security     Bearer
// @Param        id   path  string  true  "ID del usuario"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/users/{id}/deactivate [post]
func (h *UserHandler) Deactivate(c *fiber.Ctx) error {
	err := h.uc.DeactivateUser(c.UserContext(), GetCaller(c), c.Params("id"))
	metrics.AssignmentWritesTotal.WithLabelValues("deactivate_user", resultOf(err)).Inc()
	if err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Delete godoc
// @Summary      Eliminar usuario
// @Tags         users
// @Security     Bearer
// @Param        id   path  string  true  "ID del usuario"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/users/{id} [delete]
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	err := h.uc.DeleteUser(c.UserContext(), GetCaller(c), c.Params("id"))
	metrics.AssignmentWritesTotal.WithLabelValues("delete_user", resultOf(err)).Inc()
	if err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// History godoc
// @Summary      Historial de asignaciones del usuario
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Param        id     path   string  true   "ID del usuario"
// @Param        limit  query  int     false  "Límite (máximo 100)" default(100)
// @Success      200  {array}   dto.AssignmentAuditResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/users/{id}/history [get]
func (h *UserHandler) History(c *fiber.Ctx) error {
	out, err := h.uc.History(c.UserContext(), GetCaller(c), c.Params("id"), c.QueryInt("limit", dto.MaxPageLimit))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// AvailableRoles godoc
// @Summary      Roles que el llamador puede asignar
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Param        user_id          query  string  false  "Usuario en edición"
// @Param        editing_role_id  query  int     false  "Rol del par en edición"
// @Success      200  {array}  dto.RoleResponse
// @Router       /api/users/roles [get]
func (h *UserHandler) AvailableRoles(c *fiber.Ctx) error {
	var in dto.AvailableRolesRequest
	if ok, err := bindQuery(c, &in); !ok {
		return err
	}
	out, err := h.uc.AvailableRoles(c.UserContext(), GetCaller(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// AvailableLocations godoc
// @Summary      Sedes activas asignables
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.LocationResponse
// @Router       /api/users/locations [get]
func (h *UserHandler) AvailableLocations(c *fiber.Ctx) error {
	out, err := h.uc.AvailableLocations(c.UserContext(), GetCaller(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// RosterPDF godoc
// @Summary      Planilla de personal en PDF
// @Tags         users
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}  binary
// @Router       /api/users/roster.pdf [get]
func (h *UserHandler) RosterPDF(c *fiber.Ctx) error {
	out, err := h.uc.RosterPDF(c.UserContext(), GetCaller(c))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="personal.pdf"`)
	return c.Send(out)
}
