// Package facility is the catalog of bookable facilities. The booking
// core consumes it only as a lookup capability: existence plus
// price-per-hour.
package facility

import (
	"fmt"
	"time"

	"ms-facility-booking/internal/models"

	"github.com/google/uuid"
)

type DBLayer interface {
	CreateFacility(facility models.Facility) error
	GetFacilityByID(id string) (*models.Facility, error)
	UpdateFacility(facility models.Facility) error
	SoftDeleteFacility(id string) error
	AllFacilities() ([]models.Facility, error)
}

type Service struct {
	DB DBLayer
}

func NewService(db DBLayer) *Service {
	return &Service{DB: db}
}

func (s *Service) Create(req models.FacilityRequest) (*models.Facility, error) {
	facility := models.Facility{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Description:  req.Description,
		PricePerHour: req.PricePerHour,
		Location:     req.Location,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.DB.CreateFacility(facility); err != nil {
		return nil, fmt.Errorf("failed to create facility: %w", err)
	}
	return &facility, nil
}

func (s *Service) Update(id string, req models.FacilityRequest) (*models.Facility, error) {
	facility, err := s.DB.GetFacilityByID(id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		facility.Name = req.Name
	}
	if req.Description != "" {
		facility.Description = req.Description
	}
	if req.PricePerHour > 0 {
		facility.PricePerHour = req.PricePerHour
	}
	if req.Location != "" {
		facility.Location = req.Location
	}

	if err := s.DB.UpdateFacility(*facility); err != nil {
		return nil, fmt.Errorf("failed to update facility %s: %w", id, err)
	}
	return facility, nil
}

func (s *Service) Delete(id string) (*models.Facility, error) {
	facility, err := s.DB.GetFacilityByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.DB.SoftDeleteFacility(id); err != nil {
		return nil, fmt.Errorf("failed to delete facility %s: %w", id, err)
	}
	facility.IsDeleted = true
	return facility, nil
}

func (s *Service) All() ([]models.Facility, error) {
	return s.DB.AllFacilities()
}

// Lookup is the capability the booking core depends on. Soft-deleted
// facilities are not found.
func (s *Service) Lookup(id string) (*models.Facility, error) {
	return s.DB.GetFacilityByID(id)
}
