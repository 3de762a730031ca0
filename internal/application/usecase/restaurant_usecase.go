package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/restaurant-api/internal/application/dto"
	"github.com/jhoicas/restaurant-api/internal/domain"
	"github.com/jhoicas/restaurant-api/internal/domain/entity"
	"github.com/jhoicas/restaurant-api/internal/domain/repository"
)

// RestaurantUseCase lectura y edición de los datos del tenant del llamador.
type RestaurantUseCase struct {
	repo repository.RestaurantRepository
}

// NewRestaurantUseCase construye el caso de uso con el puerto de persistencia.
func NewRestaurantUseCase(repo repository.RestaurantRepository) *RestaurantUseCase {
	return &RestaurantUseCase{repo: repo}
}

// Get obtiene el restaurante del llamador.
func (uc *RestaurantUseCase) Get(ctx context.Context, restaurantID string) (*dto.RestaurantResponse, error) {
	r, err := uc.repo.GetByID(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domain.ErrNotFound
	}
	out := ToRestaurantResponse(r)
	return &out, nil
}

// IsActive informa si el restaurante existe y no está suspendido.
func (uc *RestaurantUseCase) IsActive(ctx context.Context, restaurantID string) (bool, error) {
	r, err := uc.repo.GetByID(ctx, restaurantID)
	if err != nil {
		return false, err
	}
	return r != nil && r.Status == entity.RestaurantStatusActive, nil
}

// Update actualiza nombre y contacto. El subdominio no se edita: forma parte del login.
func (uc *RestaurantUseCase) Update(ctx context.Context, restaurantID string, in dto.UpdateRestaurantRequest) (*dto.RestaurantResponse, error) {
	r, err := uc.repo.GetByID(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		r.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		r.Email = entity.NormalizeEmail(*in.Email)
	}
	if in.Phone != nil {
		r.Phone = strings.TrimSpace(*in.Phone)
	}
	r.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, r); err != nil {
		return nil, err
	}
	out := ToRestaurantResponse(r)
	return &out, nil
}

// ToRestaurantResponse mapeo de restaurante a DTO.
func ToRestaurantResponse(r *entity.Restaurant) dto.RestaurantResponse {
	return dto.RestaurantResponse{
		ID:        r.ID,
		Name:      r.Name,
		Subdomain: r.Subdomain,
		Email:     r.Email,
		Phone:     r.Phone,
		Status:    r.Status,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
