package validator

import "testing"

func TestCheckKeepsFirstMessage(t *testing.T) {
	v := New()
	v.Check(false, "seats", "must be positive")
	v.Check(false, "seats", "second message")

	if v.Valid() {
		t.Fatalf("validator must be invalid")
	}
	if got := v.Errors["seats"]; got != "must be positive" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestHelpers(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
	}{
		{"permitted", PermittedValue("rider", "rider", "driver")},
		{"not permitted", !PermittedValue("admin", "rider", "driver")},
		{"phone", Matches("+7 701 123-45-67", PhoneRX)},
		{"bad phone", !Matches("call me", PhoneRX)},
		{"blank", !NotBlank("   ")},
		{"max chars", MaxChars("Алматы", 6)},
		{"between", Between(5, 1, 5)},
		{"not between", !Between(0.5, 1.0, 5.0)},
	}
	for _, tt := range tests {
		if !tt.ok {
			t.Fatalf("%s: check failed", tt.name)
		}
	}
}
