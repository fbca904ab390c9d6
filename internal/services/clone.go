package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/postmasterly/dmarcview/internal/models"
)

// Clone traversal works off an explicit registry of owned child relations
// instead of schema introspection: each entity kind maps to descriptors
// that extract its loaded children and re-parent a copy onto the freshly
// created parent.

type relationDescriptor struct {
	children func(parent any) []any
	reparent func(child, parent any)
}

var cloneRegistry = map[string][]relationDescriptor{
	"view": {
		{
			children: func(parent any) []any {
				v := parent.(*models.View)
				out := make([]any, len(v.FilterSets))
				for i := range v.FilterSets {
					out[i] = &v.FilterSets[i]
				}
				return out
			},
			reparent: func(child, parent any) {
				child.(*models.FilterSet).ViewID = parent.(*models.View).ID
			},
		},
		{
			children: func(parent any) []any {
				v := parent.(*models.View)
				out := make([]any, len(v.Criteria))
				for i := range v.Criteria {
					out[i] = &v.Criteria[i]
				}
				return out
			},
			reparent: func(child, parent any) {
				id := parent.(*models.View).ID
				child.(*models.FilterCriterion).ViewID = &id
			},
		},
	},
	"filter_set": {
		{
			children: func(parent any) []any {
				fs := parent.(*models.FilterSet)
				out := make([]any, len(fs.Criteria))
				for i := range fs.Criteria {
					out[i] = &fs.Criteria[i]
				}
				return out
			},
			reparent: func(child, parent any) {
				id := parent.(*models.FilterSet).ID
				child.(*models.FilterCriterion).FilterSetID = &id
			},
		},
	},
}

func entityKind(e any) string {
	switch e.(type) {
	case *models.View:
		return "view"
	case *models.FilterSet:
		return "filter_set"
	case *models.FilterCriterion:
		return "filter_criterion"
	}
	return ""
}

// reidentify gives the entity a fresh primary key so creating it inserts
// a new row.
func reidentify(e any) {
	switch v := e.(type) {
	case *models.View:
		v.ID = uuid.New()
		v.CreatedAt = time.Time{}
		v.UpdatedAt = time.Time{}
	case *models.FilterSet:
		v.ID = uuid.New()
		v.CreatedAt = time.Time{}
	case *models.FilterCriterion:
		v.ID = uuid.New()
		v.CreatedAt = time.Time{}
	}
}

// CloneView deep-copies a view together with its filter sets and all
// criteria. Every copied entity gets a new identity and every child is
// re-parented to its newly created parent. The copy runs in one
// transaction; a failure is surfaced and rolls the copy back.
func (s *ViewService) CloneView(id uuid.UUID) (*models.View, error) {
	view, err := s.GetView(id)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		return cloneEntity(tx, view)
	})
	if err != nil {
		return nil, fmt.Errorf("cloning view: %w", err)
	}
	return view, nil
}

func cloneEntity(tx *gorm.DB, entity any) error {
	relations := cloneRegistry[entityKind(entity)]

	// Snapshot children per relation before the parent is re-identified,
	// mirroring the traversal order of the relation registry.
	snapshots := make([][]any, len(relations))
	for i, rel := range relations {
		snapshots[i] = rel.children(entity)
	}

	reidentify(entity)
	if err := tx.Omit(clause.Associations).Create(entity).Error; err != nil {
		return err
	}

	for i, rel := range relations {
		for _, child := range snapshots[i] {
			rel.reparent(child, entity)
			if err := cloneEntity(tx, child); err != nil {
				return err
			}
		}
	}
	return nil
}
