package query

import (
	"gorm.io/gorm/clause"

	"github.com/postmasterly/dmarcview/internal/models"
)

// Compose builds a filter set's effective predicate from its own criteria
// and the view-level criteria of its owning view.
//
// Each collection of same-variant criteria forms one OR group. The two
// levels keep separate groups even for the same variant, and every group
// is ANDed together; the original system derived one collection per
// concrete criterion class per owner and merged them exactly like this.
//
// A nil return with nil error is the universal predicate: no criteria
// exist at either level and every record matches.
func Compose(setCriteria, viewCriteria []models.FilterCriterion) (clause.Expression, error) {
	groups := make([]clause.Expression, 0, len(models.AllCriterionKinds)*2)

	for _, level := range [][]models.FilterCriterion{setCriteria, viewCriteria} {
		for _, kind := range models.AllCriterionKinds {
			group, err := orGroup(level, kind)
			if err != nil {
				return nil, err
			}
			if group != nil {
				groups = append(groups, group)
			}
		}
	}

	if len(groups) == 0 {
		return nil, nil
	}
	return clause.And(groups...), nil
}

func orGroup(criteria []models.FilterCriterion, kind models.CriterionKind) (clause.Expression, error) {
	var exprs []clause.Expression
	for _, c := range criteria {
		if c.Kind != kind {
			continue
		}
		expr, err := CriterionExpression(c)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
	}
	switch len(exprs) {
	case 0:
		return nil, nil
	case 1:
		return exprs[0], nil
	default:
		return clause.Or(exprs...), nil
	}
}

// Union ORs the composed predicates of several filter sets, the shape the
// table view queries with. A universal member (nil) makes the whole union
// universal; an empty input matches nothing and is signalled by ok=false.
func Union(predicates []clause.Expression) (expr clause.Expression, ok bool) {
	if len(predicates) == 0 {
		return nil, false
	}
	for _, p := range predicates {
		if p == nil {
			return nil, true
		}
	}
	if len(predicates) == 1 {
		return predicates[0], true
	}
	return clause.Or(predicates...), true
}
