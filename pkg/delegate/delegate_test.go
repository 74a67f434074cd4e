package delegate

import (
	"strings"
	"testing"

	"github.com/hfoster/opq/pkg/roster"
)

func testRoster() *roster.Roster {
	return &roster.Roster{Members: []roster.Member{
		{
			Name:     "Mara Lindqvist",
			Email:    "mara@studio.example",
			Lanes:    []string{"finance", "admin"},
			Projects: []string{"GMG", "Harbor Supply"},
			Capacity: "high",
		},
		{
			Name:     "Jonas Reyes",
			Email:    "jonas@studio.example",
			Lanes:    []string{"creative", "design"},
			Projects: []string{"Atlas Rebrand", "GMG"},
			Capacity: "medium",
		},
		{
			Name:     "Priya Nair",
			Email:    "priya@studio.example",
			Lanes:    []string{"production", "web"},
			Projects: []string{"Harbor Supply", "Corelink"},
			Capacity: "low",
		},
	}}
}

func TestCanDelegate(t *testing.T) {
	cases := []struct {
		title string
		want  bool
	}{
		{"Authorize payment for supplier", false},
		{"Sign the new lease", false},
		{"Approve vacation request", false},
		{"Review strategic plan", false},
		{"Confidential salary review", false},
		{"Contract renewal for GMG", false},
		{"Follow up with GMG re: invoice", true},
		{"Update the website banner", true},
		{"", true},
	}
	for _, c := range cases {
		if got := CanDelegate(c.title); got != c.want {
			t.Errorf("CanDelegate(%q) = %v, want %v", c.title, got, c.want)
		}
	}
}

func TestSuggestOwnerOnlyReturnsNothing(t *testing.T) {
	a := New(testRoster())
	if got := a.Suggest("Authorize payment for supplier", "finance", "GMG"); len(got) != 0 {
		t.Errorf("owner-only task produced suggestions: %v", got)
	}
}

func TestSuggestRanking(t *testing.T) {
	a := New(testRoster())
	got := a.Suggest("Follow up with GMG re: invoice", "Finance", "GMG")
	if len(got) == 0 {
		t.Fatal("expected suggestions, got none")
	}
	top := got[0]
	if top.Name != "Mara Lindqvist" {
		t.Errorf("top suggestion = %s, want Mara Lindqvist", top.Name)
	}
	// Lane + project match times high capacity: (2 + 3) * 1.2.
	if top.Score != 6.0 {
		t.Errorf("top score = %v, want 6.0", top.Score)
	}
	if !strings.Contains(top.Reason, "finance specialist") || !strings.Contains(top.Reason, "works on GMG") {
		t.Errorf("top reason = %q, missing lane/project reasons", top.Reason)
	}
	// The top entry must beat everyone without a lane+project match.
	for _, s := range got[1:] {
		if s.Score >= top.Score {
			t.Errorf("suggestion %s score %v should be below top %v", s.Name, s.Score, top.Score)
		}
	}
}

func TestSuggestFamiliarityBonus(t *testing.T) {
	a := New(testRoster())
	// No lane or project supplied; only title familiarity applies.
	got := a.Suggest("Ship the Corelink staging build", "", "")
	if len(got) != 1 {
		t.Fatalf("suggestions = %v, want exactly Priya", got)
	}
	// 1.5 familiarity times low capacity modifier.
	if got[0].Name != "Priya Nair" || got[0].Score != 0.75 {
		t.Errorf("got %s %v, want Priya Nair 0.75", got[0].Name, got[0].Score)
	}
	if got[0].Reason != "familiar with Corelink" {
		t.Errorf("reason = %q", got[0].Reason)
	}
}

func TestSuggestProjectMatchNotDoubleCounted(t *testing.T) {
	a := New(testRoster())
	// "GMG" is both the supplied project and present in the title; the
	// familiarity bonus must not stack on top of the project match.
	got := a.Suggest("GMG asset delivery", "", "GMG")
	for _, s := range got {
		if s.Name == "Jonas Reyes" {
			// Project match only: 3 * 1.0.
			if s.Score != 3.0 {
				t.Errorf("Jonas score = %v, want 3.0 (no familiarity stacking)", s.Score)
			}
			return
		}
	}
	t.Fatal("Jonas Reyes missing from suggestions")
}

func TestSuggestCapsAtThree(t *testing.T) {
	r := &roster.Roster{Members: []roster.Member{
		{Name: "A", Lanes: []string{"web"}, Capacity: "high"},
		{Name: "B", Lanes: []string{"web"}, Capacity: "medium"},
		{Name: "C", Lanes: []string{"web"}, Capacity: "medium"},
		{Name: "D", Lanes: []string{"web"}, Capacity: "low"},
	}}
	got := New(r).Suggest("Update the homepage", "web", "")
	if len(got) != 3 {
		t.Fatalf("suggestions = %d, want 3", len(got))
	}
	// Equal scores keep roster order: B before C.
	if got[1].Name != "B" || got[2].Name != "C" {
		t.Errorf("tie order = %s, %s; want B, C", got[1].Name, got[2].Name)
	}
}

func TestFormatSuggestion(t *testing.T) {
	a := New(testRoster())
	if got := a.FormatSuggestion("Sign the venue contract", "", ""); got != "Owner-only task, do not delegate" {
		t.Errorf("owner-only format = %q", got)
	}
	got := a.FormatSuggestion("Follow up with GMG re: invoice", "finance", "GMG")
	if !strings.HasPrefix(got, "Delegate to Mara Lindqvist") {
		t.Errorf("format = %q, want Mara suggestion", got)
	}
	if got := a.FormatSuggestion("Completely unrelated chore", "", ""); got != "" {
		t.Errorf("no-candidate format = %q, want empty", got)
	}
}
