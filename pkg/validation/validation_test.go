package validation

import (
	"strings"
	"testing"

	"equipment-inventory-api/internal/model"
)

func TestValidateEquipmentInput(t *testing.T) {
	tests := []struct {
		name        string
		input       model.EquipmentInput
		expectField string
	}{
		{
			name: "Valid input",
			input: model.EquipmentInput{
				Type: "Laptop", Name: "Dell Latitude 5420", PurchaseDate: "2024-01-01", Status: "Active",
			},
		},
		{
			name:  "Valid input without purchase date",
			input: model.EquipmentInput{Type: "Monitor", Name: "LG 27UL500", Status: "In Repair"},
		},
		{
			name:        "Missing name",
			input:       model.EquipmentInput{Type: "Laptop", Status: "Active"},
			expectField: "name",
		},
		{
			name:        "Whitespace name",
			input:       model.EquipmentInput{Type: "Laptop", Name: "   ", Status: "Active"},
			expectField: "name",
		},
		{
			name:        "Missing type",
			input:       model.EquipmentInput{Name: "T1", Status: "Active"},
			expectField: "type",
		},
		{
			name:        "Missing status",
			input:       model.EquipmentInput{Type: "Laptop", Name: "T1"},
			expectField: "status",
		},
		{
			name:        "Bad purchase date",
			input:       model.EquipmentInput{Type: "Laptop", Name: "T1", Status: "Active", PurchaseDate: "01/02/2024"},
			expectField: "purchase_date",
		},
		{
			name:        "Name too long",
			input:       model.EquipmentInput{Type: "Laptop", Name: strings.Repeat("a", 256), Status: "Active"},
			expectField: "name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateEquipmentInput(&tt.input)
			if tt.expectField == "" {
				if len(errs) != 0 {
					t.Errorf("Expected no errors, got %v", errs)
				}
				return
			}
			if _, ok := errs[tt.expectField]; !ok {
				t.Errorf("Expected error for field %s, got %v", tt.expectField, errs)
			}
		})
	}
}

func TestValidateEquipmentInput_TrimsFields(t *testing.T) {
	in := model.EquipmentInput{Type: " Laptop ", Name: " T1 ", Status: " Active ", PurchaseDate: " 2024-01-01 "}
	if errs := ValidateEquipmentInput(&in); len(errs) != 0 {
		t.Fatalf("Unexpected errors: %v", errs)
	}
	if in.Type != "Laptop" || in.Name != "T1" || in.Status != "Active" || in.PurchaseDate != "2024-01-01" {
		t.Errorf("Fields were not trimmed: %+v", in)
	}
}

func TestValidateRegisterInput(t *testing.T) {
	tests := []struct {
		name        string
		input       model.RegisterInput
		expectField string
		contains    string
	}{
		{
			name:  "Valid registration",
			input: model.RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "s3cret!"},
		},
		{
			name:        "Invalid email",
			input:       model.RegisterInput{Name: "Alice", Email: "not-an-email", Password: "s3cret!"},
			expectField: "email",
			contains:    "valid email",
		},
		{
			name:        "Short password",
			input:       model.RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "12345"},
			expectField: "password",
			contains:    "at least 6 characters",
		},
		{
			name:  "Password of exactly 72 bytes",
			input: model.RegisterInput{Name: "Alice", Email: "alice@example.com", Password: strings.Repeat("a", 72)},
		},
		{
			name:        "Password over 72 bytes",
			input:       model.RegisterInput{Name: "Alice", Email: "alice@example.com", Password: strings.Repeat("a", 73)},
			expectField: "password",
			contains:    "cannot exceed 72 bytes",
		},
		{
			// 32 runes, 96 bytes
			name:        "Multibyte password over 72 bytes",
			input:       model.RegisterInput{Name: "Alice", Email: "alice@example.com", Password: strings.Repeat("รหัส", 8)},
			expectField: "password",
			contains:    "cannot exceed 72 bytes",
		},
		{
			name:        "Missing name",
			input:       model.RegisterInput{Email: "alice@example.com", Password: "s3cret!"},
			expectField: "name",
			contains:    "is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateRegisterInput(&tt.input)
			if tt.expectField == "" {
				if len(errs) != 0 {
					t.Errorf("Expected no errors, got %v", errs)
				}
				return
			}
			msg, ok := errs[tt.expectField]
			if !ok {
				t.Fatalf("Expected error for field %s, got %v", tt.expectField, errs)
			}
			if !strings.Contains(msg, tt.contains) {
				t.Errorf("Expected message to contain %q, got %q", tt.contains, msg)
			}
		})
	}
}

func TestValidateRegisterInput_NormalizesEmail(t *testing.T) {
	in := model.RegisterInput{Name: "Alice", Email: "  Alice@Example.COM ", Password: "s3cret!"}
	ValidateRegisterInput(&in)
	if in.Email != "alice@example.com" {
		t.Errorf("Expected normalized email, got %q", in.Email)
	}
}

func TestValidateUserUpdateInput_PasswordOptional(t *testing.T) {
	in := model.UserUpdateInput{Name: "Bob", Email: "bob@example.com"}
	if errs := ValidateUserUpdateInput(&in); len(errs) != 0 {
		t.Errorf("Expected no errors, got %v", errs)
	}

	in.Password = "abc"
	if errs := ValidateUserUpdateInput(&in); errs["password"] == "" {
		t.Errorf("Expected password error, got %v", errs)
	}

	in.Password = strings.Repeat("пароль", 7)
	if errs := ValidateUserUpdateInput(&in); !strings.Contains(errs["password"], "bytes") {
		t.Errorf("Expected byte length error, got %v", errs)
	}
}

func TestIsKnownStatus(t *testing.T) {
	if !IsKnownStatus("in repair") {
		t.Error("Expected 'in repair' to be a known status")
	}
	if IsKnownStatus("Lost") {
		t.Error("Expected 'Lost' to be unknown")
	}
}
