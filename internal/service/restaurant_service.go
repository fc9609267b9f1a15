package service

import (
	"context"
	"fmt"

	"dk-delivery/internal/domain"
)

type RestaurantService struct {
	repo RestaurantRepository
}

func NewRestaurantService(repo RestaurantRepository) *RestaurantService {
	return &RestaurantService{repo: repo}
}

func (s *RestaurantService) List(ctx context.Context, search, category string) ([]domain.Restaurant, error) {
	return s.repo.ListRestaurants(ctx, search, category)
}

func (s *RestaurantService) Featured(ctx context.Context) ([]domain.Restaurant, error) {
	return s.repo.ListFeatured(ctx)
}

func (s *RestaurantService) Get(ctx context.Context, id int) (*domain.Restaurant, error) {
	rest, err := s.repo.GetRestaurant(ctx, id)
	if err != nil {
		return nil, err
	}
	if rest == nil {
		return nil, fmt.Errorf("%w: restaurant %d", ErrNotFound, id)
	}
	return rest, nil
}

var _ RestaurantServiceInterface = (*RestaurantService)(nil)
