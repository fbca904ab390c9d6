package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// View is a saved analysis configuration: an ordered, named container of
// filter sets plus view-level criteria shared by every set.
type View struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title       string    `gorm:"size:100;not null" json:"title"`
	Description *string   `gorm:"type:text" json:"description,omitempty"`
	Enabled     bool      `gorm:"default:true" json:"enabled"`
	TypeMap     bool      `gorm:"default:true" json:"type_map"`
	TypeTable   bool      `gorm:"default:true" json:"type_table"`
	TypeLine    bool      `gorm:"default:true" json:"type_line"`
	Position    int       `gorm:"default:0;index" json:"position"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	FilterSets []FilterSet `gorm:"foreignKey:ViewID;constraint:OnDelete:CASCADE" json:"filter_sets"`
	// View-level criteria apply to every filter set of this view.
	Criteria []FilterCriterion `gorm:"foreignKey:ViewID;constraint:OnDelete:CASCADE" json:"criteria"`
}

// FilterSet is a labelled, colored group of criteria inside a view.
type FilterSet struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ViewID uuid.UUID `gorm:"type:uuid;not null;index" json:"view_id"`
	Label  string    `gorm:"size:100;not null" json:"label"`
	Color  string    `gorm:"size:7;not null" json:"color"`
	// Tri-state override for multiple-DKIM-domain filtering; nil means
	// no override. Kept for the editor, not consulted by the query
	// composition.
	MultipleDKIM *bool     `gorm:"column:multiple_dkim" json:"multiple_dkim,omitempty"`
	CreatedAt    time.Time `json:"created_at"`

	Criteria []FilterCriterion `gorm:"foreignKey:FilterSetID;constraint:OnDelete:CASCADE" json:"criteria"`
}

// FilterCriterion is one atomic filtering rule. The criterion family is a
// closed tagged-variant type: Kind selects the variant and the target
// record field, Value carries the variant's payload as JSON.
//
// A criterion belongs to either a filter set (applies to that set only) or
// directly to a view (applies to every set of the view), never both.
type FilterCriterion struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	FilterSetID *uuid.UUID     `gorm:"type:uuid;index" json:"filter_set_id,omitempty"`
	ViewID      *uuid.UUID     `gorm:"type:uuid;index" json:"view_id,omitempty"`
	Kind        CriterionKind  `gorm:"size:32;not null;index" json:"kind"`
	Value       datatypes.JSON `gorm:"type:jsonb;not null" json:"value"`
	CreatedAt   time.Time      `json:"created_at"`
}

func (FilterCriterion) TableName() string {
	return "filter_criteria"
}
