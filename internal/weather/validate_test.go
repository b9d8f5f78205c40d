package weather

import (
	"strings"
	"testing"
)

func TestValidateParams(t *testing.T) {
	for _, loc := range []string{"", "  ", "\t\n"} {
		err := ValidateParams(loc, Imperial)
		if !IsInvalidArgument(err) {
			t.Fatalf("location %q: expected invalid argument, got %v", loc, err)
		}
		if !strings.Contains(err.Error(), "Location parameter is required") {
			t.Errorf("location %q: unexpected message %q", loc, err.Error())
		}
	}

	for _, units := range []Units{"kelvin", "fahrenheit", "celsius", "invalid", "", "Metric"} {
		err := ValidateParams("Huntsville, AL", units)
		if !IsInvalidArgument(err) {
			t.Fatalf("units %q: expected invalid argument, got %v", units, err)
		}
		if !strings.Contains(err.Error(), "Units must be") {
			t.Errorf("units %q: unexpected message %q", units, err.Error())
		}
	}

	for _, units := range []Units{Imperial, Metric} {
		if err := ValidateParams("Huntsville, AL", units); err != nil {
			t.Errorf("units %q: unexpected error %v", units, err)
		}
	}
}

func TestErrorKinds(t *testing.T) {
	err := &Error{Kind: KindAuth, Message: "Invalid API key", Status: 401}
	if !IsAuth(err) {
		t.Fatal("expected auth error")
	}
	if IsUpstream(err) {
		t.Fatal("auth error must not match upstream")
	}
	if KindOf(err) != KindAuth {
		t.Fatalf("expected kind %s, got %s", KindAuth, KindOf(err))
	}
	if !IsNotFound(NotFound("Location 'x' not found")) {
		t.Fatal("expected not found")
	}
}
