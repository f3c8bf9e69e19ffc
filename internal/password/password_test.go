package password

import "testing"

func TestHashAndVerify(t *testing.T) {
	t.Run("round_trip", func(t *testing.T) {
		digest, err := Hash("Abc12345!")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !Verify("Abc12345!", digest) {
			t.Error("expected verification to succeed for matching plaintext")
		}
	})

	t.Run("salted", func(t *testing.T) {
		first, err := Hash("Abc12345!")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		second, err := Hash("Abc12345!")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if first == second {
			t.Error("expected two hashes of the same plaintext to differ")
		}
	})

	t.Run("wrong_password", func(t *testing.T) {
		digest, err := Hash("Abc12345!")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if Verify("Xyz98765?", digest) {
			t.Error("expected verification to fail for different plaintext")
		}
	})

	t.Run("malformed_digest", func(t *testing.T) {
		for _, digest := range []string{"", "not-a-digest", "!!!", "$2a$broken"} {
			if Verify("Abc12345!", digest) {
				t.Errorf("expected verification to fail for malformed digest %q", digest)
			}
		}
	})
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name     string
		password string
		ok       bool
	}{
		{"valid", "Abc12345!", true},
		{"valid_long", "Longpassword9#", true},
		{"too_short", "Ab1!", false},
		{"empty", "", false},
		{"starts_with_digit", "1Abcdefg!", false},
		{"starts_with_special", "!Abcdefg1", false},
		{"no_digit", "Abcdefgh!", false},
		{"no_special", "Abcdefg1", false},
		{"no_letter_after_first", "A1234567", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ok, reason := Validate(tc.password)
			if ok != tc.ok {
				t.Errorf("Validate(%q) = %v (%s), want %v", tc.password, ok, reason, tc.ok)
			}
			if !ok && reason == "OK" {
				t.Error("failing validation should carry a reason")
			}
		})
	}
}
