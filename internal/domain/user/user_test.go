package user

import "testing"

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "08031234567", "08031234567"},
		{"with_plus_and_spaces", "+234 803 123 4567", "2348031234567"},
		{"with_dashes", "0803-123-4567", "08031234567"},
		{"empty", "", ""},
		{"letters_only", "call-me", ""},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePhone(tt.in); got != tt.want {
				t.Fatalf("NormalizePhone(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestPhoneMatches(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want bool
	}{
		{"exact", "08031234567", "08031234567", true},
		{"no_leading_zero", "08031234567", "8031234567", true},
		{"country_code_vs_local", "2348031234567", "8031234567", true},
		{"reversed_direction", "8031234567", "08031234567", true},
		{"different_numbers", "08031234567", "08099999999", false},
		{"too_short_to_trust", "4567", "08031234567", false},
		{"both_empty", "", "", false},
		{"one_empty", "08031234567", "", false},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			if got := PhoneMatches(tt.a, tt.b); got != tt.want {
				t.Fatalf("PhoneMatches(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestAdminWith(t *testing.T) {
	flagged := User{Email: "x@y.com", IsAdmin: true}
	if !flagged.AdminWith("") {
		t.Fatal("flagged admin should be admin regardless of config")
	}

	configured := User{Email: "Admin@Shop.com"}
	if !configured.AdminWith("admin@shop.com") {
		t.Fatal("configured email match should be case-insensitive")
	}

	plain := User{Email: "user@shop.com"}
	if plain.AdminWith("admin@shop.com") {
		t.Fatal("non-admin should not match")
	}
}
