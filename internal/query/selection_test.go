package query

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/starford/folio/internal/catalog"
	"github.com/starford/folio/internal/models"
)

func TestReduce_Transitions(t *testing.T) {
	c := scenarioCatalog(t)
	s := DefaultSelection()

	s = Reduce(c, s, Action{Kind: ActionSetModule, Value: "AI Workflow"})
	s = Reduce(c, s, Action{Kind: ActionSetTag, Value: "Prompt"})
	s = Reduce(c, s, Action{Kind: ActionSetQuery, Value: "prom"})
	s = Reduce(c, s, Action{Kind: ActionOpenProject, Value: "P5"})

	want := Selection{Module: "AI Workflow", Tag: "Prompt", Query: "prom", SelectedID: "P5"}
	if diff := cmp.Diff(want, s); diff != "" {
		t.Errorf("selection (-want +got):\n%s", diff)
	}

	s = Reduce(c, s, Action{Kind: ActionResetFilters})
	want = Selection{Module: All, Tag: All, SelectedID: "P5"}
	if diff := cmp.Diff(want, s); diff != "" {
		t.Errorf("reset keeps detail (-want +got):\n%s", diff)
	}

	s = Reduce(c, s, Action{Kind: ActionCloseProject})
	if diff := cmp.Diff(DefaultSelection(), s); diff != "" {
		t.Errorf("close (-want +got):\n%s", diff)
	}
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	c := scenarioCatalog(t)
	before := DefaultSelection()
	_ = Reduce(c, before, Action{Kind: ActionSetModule, Value: "Vibe Coding"})
	if before.Module != All {
		t.Errorf("input selection changed: %+v", before)
	}
}

func TestReduce_OpenUnknownStaysClosed(t *testing.T) {
	c := scenarioCatalog(t)
	s := Reduce(c, DefaultSelection(), Action{Kind: ActionOpenProject, Value: "placeholder-1"})
	if s.SelectedID != "" {
		t.Errorf("unknown id should not open: %+v", s)
	}
	if d := DetailFor(c, s); d.State != DetailClosed || d.Project != nil {
		t.Errorf("detail = %+v, want closed", d)
	}

	// From an open drawer, an unresolvable id closes it.
	s = Reduce(c, DefaultSelection(), Action{Kind: ActionOpenProject, Value: "P1"})
	s = Reduce(c, s, Action{Kind: ActionOpenProject, Value: "ghost"})
	if d := DetailFor(c, s); d.State != DetailClosed {
		t.Errorf("detail = %+v, want closed", d)
	}
}

func TestReduce_BlankValuesMeanAll(t *testing.T) {
	c := scenarioCatalog(t)
	s := Reduce(c, Selection{Module: "AI Workflow", Tag: "Prompt"}, Action{Kind: ActionSetModule})
	s = Reduce(c, s, Action{Kind: ActionSetTag, Value: ""})
	if s.Module != All || s.Tag != All {
		t.Errorf("blank values should select All: %+v", s)
	}
}

func TestReduce_UnknownActionIsNoop(t *testing.T) {
	c := scenarioCatalog(t)
	s := Selection{Module: "Vibe Coding", Tag: All, Query: "x"}
	got := Reduce(c, s, Action{Kind: "teleport", Value: "P1"})
	if diff := cmp.Diff(s, got); diff != "" {
		t.Errorf("unknown action changed state (-want +got):\n%s", diff)
	}
}

func TestDetailFor_CatalogReloadDropsVanishedProject(t *testing.T) {
	before := scenarioCatalog(t)
	s := Reduce(before, DefaultSelection(), Action{Kind: ActionOpenProject, Value: "P5"})

	after := catalog.MustNew(nil, []models.Project{{ID: "P1", Module: "Vibe Coding"}})
	if d := DetailFor(after, s); d.State != DetailClosed {
		t.Errorf("detail = %+v, want closed after P5 vanished", d)
	}
}

func TestCompute(t *testing.T) {
	c := catalog.MustNew([]string{"Vibe Coding", "AI Workflow"}, []models.Project{
		{ID: "P1", Module: "Vibe Coding", Tags: []string{"ML", "Pipeline"}},
		{ID: "P4", Module: "Vibe Coding", Tags: []string{"API"}, FeaturedRank: rank(2)},
		{ID: "P5", Module: "AI Workflow", Tags: []string{"Prompt"}},
		{ID: "P6", Module: "AI Workflow", Tags: []string{"QC"}, FeaturedRank: rank(1)},
	})

	v := Compute(c, Selection{Module: "Vibe Coding", SelectedID: "P6"}, DefaultFeaturedLimit)

	if v.Selection.Tag != All {
		t.Errorf("blank tag should normalize to All, got %q", v.Selection.Tag)
	}
	if diff := cmp.Diff([]string{"P1", "P4"}, ids(v.Projects)); diff != "" {
		t.Errorf("projects (-want +got):\n%s", diff)
	}
	if v.Count != 2 {
		t.Errorf("count = %d", v.Count)
	}
	if diff := cmp.Diff([]string{"P6", "P4"}, ids(v.Featured)); diff != "" {
		t.Errorf("featured (-want +got):\n%s", diff)
	}
	if v.Detail.State != DetailOpen || v.Detail.Project == nil || v.Detail.Project.ID != "P6" {
		t.Errorf("detail = %+v", v.Detail)
	}
	if diff := cmp.Diff([]string{"API", "ML", "Pipeline", "Prompt", "QC"}, v.Tags); diff != "" {
		t.Errorf("tags (-want +got):\n%s", diff)
	}
}
