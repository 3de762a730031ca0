package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/restaurant-api/internal/application/dto"
	"github.com/jhoicas/restaurant-api/internal/application/usecase"
)

// RestaurantHandler datos del restaurante del token.
type RestaurantHandler struct {
	uc *usecase.RestaurantUseCase
}

// NewRestaurantHandler construye el handler.
func NewRestaurantHandler(uc *usecase.RestaurantUseCase) *RestaurantHandler {
	return &RestaurantHandler{uc: uc}
}

// Get godoc
// @Summary      Restaurante actual
// @Tags         restaurant
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.RestaurantResponse
// @Router       /api/restaurant [get]
func (h *RestaurantHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetRestaurantID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Editar restaurante actual
// @Tags         restaurant
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateRestaurantRequest  true  "campos a modificar"
// @Success      200   {object}  dto.RestaurantResponse
// @Router       /api/restaurant [put]
func (h *RestaurantHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateRestaurantRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), GetRestaurantID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
