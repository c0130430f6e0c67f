package core

import (
	"reflect"
	"testing"
)

func TestResolveTargets_EmptyOptionReturnsDefaults(t *testing.T) {
	defaults := []string{"dist", "dist-dev"}

	got := ResolveTargets("", defaults, true)
	if !reflect.DeepEqual(got, defaults) {
		t.Errorf("expected %v, got %v", defaults, got)
	}

	got = ResolveTargets("   ", defaults, true)
	if !reflect.DeepEqual(got, defaults) {
		t.Errorf("expected %v for blank option, got %v", defaults, got)
	}

	got = ResolveTargets("", defaults, false)
	if !reflect.DeepEqual(got, defaults) {
		t.Errorf("expected %v in non-strict mode, got %v", defaults, got)
	}
}

func TestResolveTargets_StrictDropsUnknownEntries(t *testing.T) {
	defaults := []string{"a", "b"}

	got := ResolveTargets("a,b,bogus", defaults, true)
	if !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("expected [a b], got %v", got)
	}
}

func TestResolveTargets_StrictFallsBackWhenNothingValid(t *testing.T) {
	defaults := []string{"a", "b"}

	got := ResolveTargets("bogus", defaults, true)
	if !reflect.DeepEqual(got, defaults) {
		t.Errorf("expected fallback to %v, got %v", defaults, got)
	}
}

func TestResolveTargets_NonStrictPassesThroughVerbatim(t *testing.T) {
	defaults := []string{"dist"}

	got := ResolveTargets("x, y , ,z", defaults, false)
	if !reflect.DeepEqual(got, []string{"x", "y", "z"}) {
		t.Errorf("expected [x y z], got %v", got)
	}
}

func TestResolveTargets_DropsDuplicates(t *testing.T) {
	got := ResolveTargets("a,a,b,a", []string{"a", "b"}, true)
	if !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("expected [a b], got %v", got)
	}

	got = ResolveTargets("x,x,y", nil, false)
	if !reflect.DeepEqual(got, []string{"x", "y"}) {
		t.Errorf("expected [x y], got %v", got)
	}
}
