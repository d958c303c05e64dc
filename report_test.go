package linguist

import (
	"testing"
)

func TestSummarize(t *testing.T) {
	report := Summarize(loadFixture(t))
	assert_equal(t, report.Language, "ru_RU")

	want := Stats{Total: 18, Finished: 14, Unfinished: 2, Vanished: 1, Obsolete: 1}
	if report.Total != want {
		t.Errorf("got %+v, want %+v", report.Total, want)
	}
	if len(report.Contexts) != 5 {
		t.Fatalf("expected 5 contexts, got %d", len(report.Contexts))
	}
	if s := report.Contexts[0].Stats; s != (Stats{Total: 2, Finished: 1, Unfinished: 1}) {
		t.Errorf("DiveTripModel: %+v", s)
	}

	var incomplete []string
	for _, cr := range report.Incomplete() {
		incomplete = append(incomplete, cr.Name)
	}
	assertDeepEqual(t, incomplete, []string{"DiveTripModel", "DiveListView"})

	assertDeepEqual(t, report.Unfinished, []Untranslated{
		{Context: "DiveTripModel", Source: "Trip details", Location: Location{"../qt-models/divetripmodel.cpp", 481}},
		{Context: "DiveListView", Source: "%n cylinder(s)", Location: Location{"../desktop-widgets/divelistview.cpp", 747}},
	})
}

func TestStatsPercent(t *testing.T) {
	for _, test := range []struct {
		stats Stats
		want  float64
	}{
		{Stats{}, 100},
		{Stats{Total: 4, Finished: 3, Unfinished: 1}, 75},
		{Stats{Total: 3, Finished: 1, Unfinished: 1, Vanished: 1}, 50},
		{Stats{Total: 1, Obsolete: 1}, 100},
	} {
		if got := test.stats.Percent(); got != test.want {
			t.Errorf("%+v: got %v, want %v", test.stats, got, test.want)
		}
	}
}
