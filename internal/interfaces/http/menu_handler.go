package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/restaurant-api/internal/application/dto"
	"github.com/jhoicas/restaurant-api/internal/application/usecase"
)

const defaultMenuLang = "es"

// MenuHandler categorías, ítems y carta del restaurante.
type MenuHandler struct {
	uc *usecase.MenuUseCase
}

// NewMenuHandler construye el handler.
func NewMenuHandler(uc *usecase.MenuUseCase) *MenuHandler {
	return &MenuHandler{uc: uc}
}

// ListCategories godoc
// @Summary      Listar categorías
// @Tags         menu
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.CategoryResponse
// @Router       /api/menu/categories [get]
func (h *MenuHandler) ListCategories(c *fiber.Ctx) error {
	out, err := h.uc.ListCategories(c.UserContext(), GetRestaurantID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CreateCategory godoc
// @Summary      Crear categoría
// @Tags         menu
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCategoryRequest  true  "nombre, traducciones y posición"
// @Success      201   {object}  dto.CategoryResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/menu/categories [post]
func (h *MenuHandler) CreateCategory(c *fiber.Ctx) error {
	var in dto.CreateCategoryRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.CreateCategory(c.UserContext(), GetRestaurantID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateCategory godoc
// @Summary      Editar categoría
// @Tags         menu
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID de la categoría"
// @Param        body  body  dto.UpdateCategoryRequest  true  "campos a modificar"
// @Success      200   {object}  dto.CategoryResponse
// @Router       /api/menu/categories/{id} [put]
func (h *MenuHandler) UpdateCategory(c *fiber.Ctx) error {
	var in dto.UpdateCategoryRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.UpdateCategory(c.UserContext(), GetRestaurantID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DeleteCategory godoc
// @Summary      Eliminar categoría vacía
// @Tags         menu
// @Security     Bearer
// @Param        id  path  string  true  "ID de la categoría"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/menu/categories/{id} [delete]
func (h *MenuHandler) DeleteCategory(c *fiber.Ctx) error {
	if err := h.uc.DeleteCategory(c.UserContext(), GetRestaurantID(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListItems godoc
// @Summary      Listar ítems
// @Tags         menu
// @Security     Bearer
// @Produce      json
// @Param        category_id  query  string  false  "Filtra por categoría"
// @Success      200  {array}  dto.ItemResponse
// @Router       /api/menu/items [get]
func (h *MenuHandler) ListItems(c *fiber.Ctx) error {
	out, err := h.uc.ListItems(c.UserContext(), GetRestaurantID(c), c.Query("category_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CreateItem godoc
// @Summary      Crear ítem
// @Tags         menu
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateItemRequest  true  "ítem con precio decimal y traducciones"
// @Success      201   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/menu/items [post]
func (h *MenuHandler) CreateItem(c *fiber.Ctx) error {
	var in dto.CreateItemRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.CreateItem(c.UserContext(), GetRestaurantID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateItem godoc
// @Summary      Editar ítem
// @Tags         menu
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID del ítem"
// @Param        body  body  dto.UpdateItemRequest  true  "campos a modificar"
// @Success      200   {object}  dto.ItemResponse
// @Router       /api/menu/items/{id} [put]
func (h *MenuHandler) UpdateItem(c *fiber.Ctx) error {
	var in dto.UpdateItemRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.UpdateItem(c.UserContext(), GetRestaurantID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DeleteItem godoc
// @Summary      Eliminar ítem
// @Tags         menu
// @Security     Bearer
// @Param        id  path  string  true  "ID del ítem"
// @Success      204
// @Router       /api/menu/items/{id} [delete]
func (h *MenuHandler) DeleteItem(c *fiber.Ctx) error {
	if err := h.uc.DeleteItem(c.UserContext(), GetRestaurantID(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Menu godoc
// @Summary      Carta localizada del restaurante
// @Tags         menu
// @Security     Bearer
// @Produce      json
// @Param        lang  query  string  false  "Idioma (ISO 639-1)"  default(es)
// @Success      200  {object}  dto.MenuResponse
// @Router       /api/menu [get]
func (h *MenuHandler) Menu(c *fiber.Ctx) error {
	out, err := h.uc.Menu(c.UserContext(), GetRestaurantID(c), c.Query("lang", defaultMenuLang))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// MenuPDF godoc
// @Summary      Carta imprimible en PDF
// @Tags         menu
// @Security     Bearer
// @Produce      application/pdf
// @Param        lang  query  string  false  "Idioma (ISO 639-1)"  default(es)
// @Success      200  {file}  binary
// @Router       /api/menu/pdf [get]
func (h *MenuHandler) MenuPDF(c *fiber.Ctx) error {
	out, err := h.uc.MenuPDF(c.UserContext(), GetRestaurantID(c), c.Query("lang", defaultMenuLang))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="carta.pdf"`)
	return c.Send(out)
}

// PublicMenu godoc
// @Summary      Carta pública por subdominio
// @Tags         menu
// @Produce      json
// @Param        subdomain  path   string  true   "Subdominio del restaurante"
// @Param        lang       query  string  false  "Idioma (ISO 639-1)"  default(es)
// @Success      200  {object}  dto.MenuResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/public/{subdomain}/menu [get]
func (h *MenuHandler) PublicMenu(c *fiber.Ctx) error {
	out, err := h.uc.PublicMenu(c.UserContext(), c.Params("subdomain"), c.Query("lang", defaultMenuLang))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
