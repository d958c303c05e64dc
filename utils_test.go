package linguist

import (
	"reflect"
	"testing"
)

func assert_equal(t *testing.T, expected string, got string) {
	t.Helper()
	if expected != got {
		t.Logf("%s != %s", expected, got)
		t.Fail()
	}
}

func assertDeepEqual(t *testing.T, expected, got interface{}) {
	t.Helper()
	if !reflect.DeepEqual(expected, got) {
		t.Logf("%v != %v", expected, got)
		t.Fail()
	}
}

// assertResult compares lookup results field by field.
func assertResult(t *testing.T, got, want Result) {
	t.Helper()
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

// assertNoWarnings fails the test when a catalog is not clean.
func assertNoWarnings(t *testing.T, c *Catalog) {
	t.Helper()
	for _, w := range Validate(c, c.PluralRule()) {
		t.Errorf("unexpected warning: %s", w)
	}
}
