package entity

import (
	"context"
	"errors"
	"strings"
	"time"
)

const ProjectStatusPlanning = "planning"

// Project is a real-estate development whose units are on sale.
type Project struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Location       *string   `json:"location,omitempty"`
	Type           *string   `json:"type,omitempty"`
	TotalUnits     int       `json:"total_units"`
	AvailableUnits int       `json:"available_units"`
	Progress       int       `json:"progress"`
	BasePrice      *float64  `json:"base_price,omitempty"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

func (p *Project) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("name is required")
	}
	if p.TotalUnits < 0 || p.AvailableUnits < 0 {
		return errors.New("unit counts must not be negative")
	}
	if p.AvailableUnits > p.TotalUnits {
		return errors.New("available_units must not exceed total_units")
	}
	if p.Progress < 0 || p.Progress > 100 {
		return errors.New("progress must be between 0 and 100")
	}
	return nil
}

type ProjectPatch struct {
	Name           *string  `json:"name"`
	Location       *string  `json:"location"`
	Type           *string  `json:"type"`
	TotalUnits     *int     `json:"total_units"`
	AvailableUnits *int     `json:"available_units"`
	Progress       *int     `json:"progress"`
	BasePrice      *float64 `json:"base_price"`
	Status         *string  `json:"status"`
}

type ProjectRepositoryInterface interface {
	List(ctx context.Context, search string) ([]*Project, error)
	Create(ctx context.Context, p *Project) (int64, error)
	Update(ctx context.Context, id int64, patch ProjectPatch) error
}
