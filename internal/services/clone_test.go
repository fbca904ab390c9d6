package services

import (
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/postmasterly/dmarcview/internal/models"
)

// dryRunDB builds the clone statements without executing them, so the
// traversal and re-parenting can be asserted without a live database.
func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 conn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Discard,
	})
	if err != nil {
		t.Fatalf("open gorm: %v", err)
	}
	return db.Session(&gorm.Session{DryRun: true})
}

func setCriteria(setID uuid.UUID, result models.DMARCResult) []models.FilterCriterion {
	return []models.FilterCriterion{
		{
			ID:          uuid.New(),
			FilterSetID: &setID,
			Kind:        models.KindAlignedDKIMResult,
			Value:       models.MustJSON(models.EnumValue{Value: int(result)}),
		},
		{
			ID:          uuid.New(),
			FilterSetID: &setID,
			Kind:        models.KindDisposition,
			Value:       models.MustJSON(models.EnumValue{Value: int(models.DispositionNone)}),
		},
		{
			ID:          uuid.New(),
			FilterSetID: &setID,
			Kind:        models.KindSourceIP,
			Value:       models.MustJSON(models.StringValue{Value: "192.0.2.1"}),
		},
	}
}

func clonableView() *models.View {
	viewID := uuid.New()
	set1ID := uuid.New()
	set2ID := uuid.New()

	return &models.View{
		ID:    viewID,
		Title: "Authentication results",
		FilterSets: []models.FilterSet{
			{
				ID:       set1ID,
				ViewID:   viewID,
				Label:    "DKIM pass",
				Color:    "#00cc00",
				Criteria: setCriteria(set1ID, models.DMARCPass),
			},
			{
				ID:       set2ID,
				ViewID:   viewID,
				Label:    "DKIM fail",
				Color:    "#cc0000",
				Criteria: setCriteria(set2ID, models.DMARCFail),
			},
		},
		Criteria: []models.FilterCriterion{{
			ID:     uuid.New(),
			ViewID: &viewID,
			Kind:   models.KindSourceIP,
			Value:  models.MustJSON(models.StringValue{Value: "192.0.2.1"}),
		}},
	}
}

func collectIDs(v *models.View) map[uuid.UUID]bool {
	ids := map[uuid.UUID]bool{v.ID: true}
	for i := range v.FilterSets {
		ids[v.FilterSets[i].ID] = true
		for j := range v.FilterSets[i].Criteria {
			ids[v.FilterSets[i].Criteria[j].ID] = true
		}
	}
	for i := range v.Criteria {
		ids[v.Criteria[i].ID] = true
	}
	return ids
}

func TestCloneGivesEveryEntityANewIdentity(t *testing.T) {
	view := clonableView()
	originalIDs := collectIDs(view)

	if err := cloneEntity(dryRunDB(t), view); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for id := range collectIDs(view) {
		if originalIDs[id] {
			t.Errorf("identity %s survived the clone", id)
		}
	}
}

func TestCloneReparentsChildren(t *testing.T) {
	view := clonableView()

	if err := cloneEntity(dryRunDB(t), view); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := range view.FilterSets {
		fs := &view.FilterSets[i]
		if fs.ViewID != view.ID {
			t.Errorf("filter set %q points at %s, want new view %s", fs.Label, fs.ViewID, view.ID)
		}
		for j := range fs.Criteria {
			c := &fs.Criteria[j]
			if c.FilterSetID == nil || *c.FilterSetID != fs.ID {
				t.Errorf("criterion of %q not re-parented onto the new set", fs.Label)
			}
			if c.ViewID != nil {
				t.Errorf("set-level criterion of %q gained a view parent", fs.Label)
			}
		}
	}
	for i := range view.Criteria {
		c := &view.Criteria[i]
		if c.ViewID == nil || *c.ViewID != view.ID {
			t.Errorf("view-level criterion not re-parented onto the new view")
		}
		if c.FilterSetID != nil {
			t.Errorf("view-level criterion gained a filter set parent")
		}
	}
}

func TestClonePreservesStructureAndPayloads(t *testing.T) {
	view := clonableView()
	originalTitle := view.Title

	if err := cloneEntity(dryRunDB(t), view); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if view.Title != originalTitle {
		t.Errorf("title changed during clone: %q", view.Title)
	}
	if len(view.FilterSets) != 2 || len(view.Criteria) != 1 {
		t.Fatalf("clone lost children: %d sets, %d view criteria", len(view.FilterSets), len(view.Criteria))
	}
	for i := range view.FilterSets {
		if len(view.FilterSets[i].Criteria) != 3 {
			t.Errorf("filter set %d has %d criteria, want 3", i, len(view.FilterSets[i].Criteria))
		}
	}
	if view.FilterSets[0].Criteria[0].Kind != models.KindAlignedDKIMResult {
		t.Errorf("criterion kind changed: %s", view.FilterSets[0].Criteria[0].Kind)
	}
	if string(view.Criteria[0].Value) != string(models.MustJSON(models.StringValue{Value: "192.0.2.1"})) {
		t.Errorf("criterion payload changed: %s", view.Criteria[0].Value)
	}
}
