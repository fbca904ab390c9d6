package services

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/postmasterly/dmarcview/internal/models"
)

var (
	ErrViewNotFound      = errors.New("view not found")
	ErrFilterSetNotFound = errors.New("filter set not found")
)

// ViewService manages saved analysis views, their ordering and cloning.
type ViewService struct {
	db *gorm.DB
}

func NewViewService(db *gorm.DB) *ViewService {
	return &ViewService{db: db}
}

// ListViews returns all views ascending by position, with filter sets and
// criteria preloaded. enabledOnly restricts to enabled views.
func (s *ViewService) ListViews(enabledOnly bool) ([]models.View, error) {
	var views []models.View
	q := s.db.
		Preload("FilterSets.Criteria").
		Preload("FilterSets", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Criteria").
		Order("position ASC")
	if enabledOnly {
		q = q.Where("enabled = ?", true)
	}
	if err := q.Find(&views).Error; err != nil {
		return nil, fmt.Errorf("listing views: %w", err)
	}
	return views, nil
}

// GetView loads one view with its full filter tree.
func (s *ViewService) GetView(id uuid.UUID) (*models.View, error) {
	var view models.View
	err := s.db.
		Preload("FilterSets.Criteria").
		Preload("FilterSets", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Criteria").
		First(&view, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrViewNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading view: %w", err)
	}
	return &view, nil
}

// FirstView returns the first view in display order, or ErrViewNotFound
// when none exist.
func (s *ViewService) FirstView() (*models.View, error) {
	var view models.View
	err := s.db.Order("position ASC").First(&view).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrViewNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading first view: %w", err)
	}
	return s.GetView(view.ID)
}

// CreateView persists a new view with its filter sets and criteria. The
// display position is assigned automatically.
func (s *ViewService) CreateView(view *models.View) error {
	view.Position = s.nextPosition()
	if err := s.db.Create(view).Error; err != nil {
		return fmt.Errorf("creating view: %w", err)
	}
	return nil
}

// nextPosition returns max(position)+1 over all views. Any failure falls
// back to 0 without being surfaced.
func (s *ViewService) nextPosition() int {
	var max *int
	err := s.db.Model(&models.View{}).Select("MAX(position)").Scan(&max).Error
	if err != nil || max == nil {
		if err != nil {
			slog.Debug("position lookup failed, defaulting to 0", "error", err)
		}
		return 0
	}
	return *max + 1
}

// UpdateView replaces a view's attributes and its full filter tree.
func (s *ViewService) UpdateView(id uuid.UUID, updated *models.View) (*models.View, error) {
	existing, err := s.GetView(id)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("view_id = ?", id).Delete(&models.FilterSet{}).Error; err != nil {
			return err
		}
		if err := tx.Where("view_id = ?", id).Delete(&models.FilterCriterion{}).Error; err != nil {
			return err
		}

		existing.Title = updated.Title
		existing.Description = updated.Description
		existing.Enabled = updated.Enabled
		existing.TypeMap = updated.TypeMap
		existing.TypeTable = updated.TypeTable
		existing.TypeLine = updated.TypeLine
		existing.FilterSets = updated.FilterSets
		existing.Criteria = updated.Criteria
		for i := range existing.FilterSets {
			existing.FilterSets[i].ViewID = id
		}
		for i := range existing.Criteria {
			existing.Criteria[i].ViewID = &id
		}
		return tx.Save(existing).Error
	})
	if err != nil {
		return nil, fmt.Errorf("updating view: %w", err)
	}
	return existing, nil
}

// DeleteView removes a view; filter sets and criteria cascade.
func (s *ViewService) DeleteView(id uuid.UUID) error {
	result := s.db.Delete(&models.View{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("deleting view: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrViewNotFound
	}
	return nil
}

// AssignOrder overwrites each referenced view's position with its index
// in the given list and persists the result.
func (s *ViewService) AssignOrder(ids []uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		for idx, id := range ids {
			result := tx.Model(&models.View{}).Where("id = ?", id).Update("position", idx)
			if result.Error != nil {
				return fmt.Errorf("ordering view %s: %w", id, result.Error)
			}
			if result.RowsAffected == 0 {
				return ErrViewNotFound
			}
		}
		return nil
	})
}
