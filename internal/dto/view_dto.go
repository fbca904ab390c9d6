package dto

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"gorm.io/datatypes"

	"github.com/postmasterly/dmarcview/internal/models"
	"github.com/postmasterly/dmarcview/internal/query"
)

var validate = validator.New()

// CriterionRequest carries one filter criterion; Value is decoded and
// checked against the variant selected by Kind.
type CriterionRequest struct {
	Kind  models.CriterionKind `json:"kind"`
	Value json.RawMessage      `json:"value"`
}

type FilterSetRequest struct {
	Label        string             `json:"label" validate:"required,max=100"`
	Color        string             `json:"color" validate:"required,hexcolor"`
	MultipleDKIM *bool              `json:"multiple_dkim"`
	Criteria     []CriterionRequest `json:"criteria"`
}

type ViewRequest struct {
	Title       string             `json:"title" validate:"required,max=100"`
	Description *string            `json:"description"`
	Enabled     bool               `json:"enabled"`
	TypeMap     bool               `json:"type_map"`
	TypeTable   bool               `json:"type_table"`
	TypeLine    bool               `json:"type_line"`
	FilterSets  []FilterSetRequest `json:"filter_sets"`
	Criteria    []CriterionRequest `json:"criteria"`
}

// OrderRequest is the full display order, view ids first to last.
type OrderRequest []uuid.UUID

// ToModel validates the request and converts it into an unsaved view
// tree. Validation failures across filter sets and criteria are
// collected, not short-circuited.
func (r *ViewRequest) ToModel() (*models.View, error) {
	var errs *multierror.Error

	if err := validate.Struct(r); err != nil {
		errs = multierror.Append(errs, err)
	}

	view := &models.View{
		Title:       r.Title,
		Description: r.Description,
		Enabled:     r.Enabled,
		TypeMap:     r.TypeMap,
		TypeTable:   r.TypeTable,
		TypeLine:    r.TypeLine,
	}

	for i, cr := range r.Criteria {
		criterion, err := cr.toModel()
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("view criterion %d: %w", i, err))
			continue
		}
		view.Criteria = append(view.Criteria, *criterion)
	}

	for i, fsr := range r.FilterSets {
		fs := models.FilterSet{
			Label:        fsr.Label,
			Color:        fsr.Color,
			MultipleDKIM: fsr.MultipleDKIM,
		}
		for j, cr := range fsr.Criteria {
			criterion, err := cr.toModel()
			if err != nil {
				errs = multierror.Append(errs, fmt.Errorf("filter set %d, criterion %d: %w", i, j, err))
				continue
			}
			fs.Criteria = append(fs.Criteria, *criterion)
		}
		view.FilterSets = append(view.FilterSets, fs)
	}

	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return view, nil
}

func (cr *CriterionRequest) toModel() (*models.FilterCriterion, error) {
	if !models.KnownKind(cr.Kind) {
		return nil, fmt.Errorf("unknown criterion kind %q", cr.Kind)
	}
	criterion := &models.FilterCriterion{
		Kind:  cr.Kind,
		Value: datatypes.JSON(cr.Value),
	}
	if err := validatePayload(criterion); err != nil {
		return nil, err
	}
	return criterion, nil
}

func validatePayload(c *models.FilterCriterion) error {
	switch c.Kind {
	case models.KindDateRange:
		v, err := c.DecodeDateRange()
		if err != nil {
			return err
		}
		// Resolution exercises the same checks the query layer applies.
		_, _, err = query.ResolveBeginEnd(v, time.Now())
		return err
	case models.KindMultipleDKIM:
		_, err := c.DecodeFlag()
		return err
	case models.KindReportType, models.KindRawDKIMResult, models.KindRawSPFResult,
		models.KindAlignedDKIMResult, models.KindAlignedSPFResult, models.KindDisposition:
		v, err := c.DecodeEnum()
		if err != nil {
			return err
		}
		return validate.Struct(v)
	default:
		v, err := c.DecodeString()
		if err != nil {
			return err
		}
		return validate.Struct(v)
	}
}
