package validation

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestConfigValidator_Required(t *testing.T) {
	cv := NewConfigValidator("TestConfig")
	cv.Required("Name", "")

	if !cv.HasErrors() {
		t.Error("Expected error for empty required field")
	}

	cv2 := NewConfigValidator("TestConfig")
	cv2.Required("Name", "value")

	if cv2.HasErrors() {
		t.Error("Expected no error for non-empty required field")
	}
}

func TestConfigValidator_MaxInt(t *testing.T) {
	cv := NewConfigValidator("TestConfig")
	cv.MaxInt("Workers", 64, 64)

	if cv.HasErrors() {
		t.Error("Expected no error for value at maximum")
	}

	cv2 := NewConfigValidator("TestConfig")
	cv2.MaxInt("Hops", 100, 50)

	if !cv2.HasErrors() {
		t.Error("Expected error for value above maximum")
	}
}

func TestConfigValidator_RangeInt(t *testing.T) {
	tests := []struct {
		name      string
		value     int
		expectErr bool
	}{
		{"in range", 16, false},
		{"at min", 1, false},
		{"at max", 256, false},
		{"below", 0, true},
		{"above", 257, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cv := NewConfigValidator("TestConfig")
			cv.RangeInt("MaxWellHops", tt.value, 1, 256)
			if cv.HasErrors() != tt.expectErr {
				t.Errorf("RangeInt(%d) error = %v, want %v", tt.value, cv.Error(), tt.expectErr)
			}
		})
	}
}

func TestConfigValidator_Floats(t *testing.T) {
	tests := []struct {
		name      string
		apply     func(*ConfigValidator)
		expectErr bool
	}{
		{"positive", func(cv *ConfigValidator) { cv.PositiveFloat("Roughness", 0.015) }, false},
		{"zero not positive", func(cv *ConfigValidator) { cv.PositiveFloat("Roughness", 0) }, true},
		{"nan not positive", func(cv *ConfigValidator) { cv.PositiveFloat("Roughness", math.NaN()) }, true},
		{"zero non-negative", func(cv *ConfigValidator) { cv.NonNegativeFloat("Tolerance", 0) }, false},
		{"negative", func(cv *ConfigValidator) { cv.NonNegativeFloat("Tolerance", -1) }, true},
		{"range", func(cv *ConfigValidator) { cv.RangeFloat("Temperature", 20, -60, 200) }, false},
		{"out of range", func(cv *ConfigValidator) { cv.RangeFloat("Temperature", 300, -60, 200) }, true},
		{"nan out of range", func(cv *ConfigValidator) { cv.RangeFloat("Temperature", math.NaN(), -60, 200) }, true},
		{"finite", func(cv *ConfigValidator) { cv.Finite("Value", 1) }, false},
		{"infinite", func(cv *ConfigValidator) { cv.Finite("Value", math.Inf(1)) }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cv := NewConfigValidator("TestConfig")
			tt.apply(cv)
			if cv.HasErrors() != tt.expectErr {
				t.Errorf("HasErrors() = %v, want %v (%v)", cv.HasErrors(), tt.expectErr, cv.Error())
			}
		})
	}
}

func TestConfigValidator_Positive(t *testing.T) {
	tests := []struct {
		value     int
		expectErr bool
	}{
		{1, false},
		{100, false},
		{0, true},
		{-1, true},
	}

	for _, tt := range tests {
		cv := NewConfigValidator("TestConfig")
		cv.Positive("Count", tt.value)

		if cv.HasErrors() != tt.expectErr {
			t.Errorf("Positive(%d): expected error=%v, got error=%v", tt.value, tt.expectErr, cv.HasErrors())
		}
	}
}

func TestConfigValidator_OneOf(t *testing.T) {
	allowed := []string{"debug", "info", "warn", "error"}

	cv := NewConfigValidator("TestConfig")
	cv.OneOf("Level", "info", allowed)

	if cv.HasErrors() {
		t.Error("Expected no error for allowed value")
	}

	cv2 := NewConfigValidator("TestConfig")
	cv2.OneOf("Level", "trace", allowed)

	if !cv2.HasErrors() {
		t.Error("Expected error for disallowed value")
	}
}

func TestConfigValidator_Custom(t *testing.T) {
	errCustom := errors.New("custom failure")

	cv := NewConfigValidator("TestConfig")
	cv.Custom("Field", func() error { return errCustom })

	if !errors.Is(cv.Error(), errCustom) {
		t.Errorf("Expected wrapped custom error, got: %v", cv.Error())
	}

	cv2 := NewConfigValidator("TestConfig")
	cv2.Custom("Field", func() error { return nil })

	if cv2.HasErrors() {
		t.Error("Expected no error when custom validation passes")
	}
}

func TestConfigValidator_When(t *testing.T) {
	cv := NewConfigValidator("TestConfig")
	cv.When(true, func(v *ConfigValidator) {
		v.Required("Dir", "")
	})

	if !cv.HasErrors() {
		t.Error("Expected error when condition is true")
	}

	cv2 := NewConfigValidator("TestConfig")
	cv2.When(false, func(v *ConfigValidator) {
		v.Required("Dir", "")
	})

	if cv2.HasErrors() {
		t.Error("Expected no error when condition is false")
	}
}

func TestConfigValidator_MultipleErrors(t *testing.T) {
	cv := NewConfigValidator("TestConfig")
	cv.Required("Name", "").
		Positive("Count", -1).
		PositiveFloat("Length", 0)

	err := cv.Validate()
	if err == nil {
		t.Fatal("Expected error from Validate()")
	}
	if !strings.Contains(err.Error(), "3 errors") {
		t.Errorf("Expected error count in %v", err)
	}
	for _, field := range []string{"TestConfig.Name", "TestConfig.Count", "TestConfig.Length"} {
		if !strings.Contains(err.Error(), field) {
			t.Errorf("Expected %q in %v", field, err)
		}
	}
}

func TestConfigValidator_Validate(t *testing.T) {
	cv := NewConfigValidator("TestConfig")
	cv.Required("Name", "")

	if err := cv.Validate(); err == nil {
		t.Error("Expected error from Validate()")
	}

	cv2 := NewConfigValidator("TestConfig")
	cv2.Required("Name", "valid")

	if err := cv2.Validate(); err != nil {
		t.Errorf("Expected no error from Validate(), got: %v", err)
	}
}

func TestDefaultOr(t *testing.T) {
	if DefaultOr("", "default") != "default" {
		t.Error("Expected default for empty string")
	}
	if DefaultOr("value", "default") != "value" {
		t.Error("Expected value for non-empty string")
	}
	if DefaultOr(0.0, 0.015) != 0.015 {
		t.Error("Expected default for zero float")
	}
}

func TestDefaultOrInt(t *testing.T) {
	if DefaultOrInt(0, 10) != 10 {
		t.Error("Expected default for zero")
	}
	if DefaultOrInt(-5, 10) != 10 {
		t.Error("Expected default for negative")
	}
	if DefaultOrInt(5, 10) != 5 {
		t.Error("Expected value for positive")
	}
}

func TestClampInt(t *testing.T) {
	tests := []struct {
		value, min, max, expected int
	}{
		{5, 1, 10, 5},   // in range
		{0, 1, 10, 1},   // below min
		{15, 1, 10, 10}, // above max
		{1, 1, 10, 1},   // at min
		{10, 1, 10, 10}, // at max
	}

	for _, tt := range tests {
		result := ClampInt(tt.value, tt.min, tt.max)
		if result != tt.expected {
			t.Errorf("ClampInt(%d, %d, %d) = %d, want %d", tt.value, tt.min, tt.max, result, tt.expected)
		}
	}
}

// Example of a validatable config struct
type ExampleConfig struct {
	Workers   int
	Roughness float64
}

func (c *ExampleConfig) Validate() error {
	return NewConfigValidator("ExampleConfig").
		Positive("Workers", c.Workers).
		PositiveFloat("Roughness", c.Roughness).
		Validate()
}

func TestValidateConfig(t *testing.T) {
	if err := ValidateConfig(&ExampleConfig{Workers: 4, Roughness: 0.015}); err != nil {
		t.Errorf("Expected valid config, got error: %v", err)
	}

	if err := ValidateConfig(&ExampleConfig{}); err == nil {
		t.Error("Expected error for invalid config")
	}
}

func TestValidateConfig_Nil(t *testing.T) {
	err := ValidateConfig(nil)
	if err == nil {
		t.Error("Expected error for nil config")
	}
}
