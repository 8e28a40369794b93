package validation

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/dd0wney/cluso-pipenet/pkg/network"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate

	// Validation constants
	MaxIDLength = 64

	// Regular expressions
	idPattern = regexp.MustCompile(`^[A-Za-z0-9_.:/-]+$`)
)

func init() {
	validate = validator.New()
	validate.RegisterValidation("nodekind", func(fl validator.FieldLevel) bool {
		_, err := network.ParseNodeKind(fl.Field().String())
		return err == nil
	})
	validate.RegisterValidation("nodeid", func(fl validator.FieldLevel) bool {
		return ValidateID(fl.Field().String()) == nil
	})
}

// NodeRecord is one node of a network file
type NodeRecord struct {
	ID       string   `yaml:"id" json:"id" validate:"required,nodeid"`
	Kind     string   `yaml:"kind" json:"kind" validate:"required,nodekind"`
	Altitude *float64 `yaml:"altitude,omitempty" json:"altitude,omitempty"`
}

// PipeRecord is one pipe of a network file. Unknown node references are
// accepted here and resolved by the loader.
type PipeRecord struct {
	From      string  `yaml:"from" json:"from" validate:"required"`
	To        string  `yaml:"to" json:"to" validate:"required"`
	Commodity int     `yaml:"commodity" json:"commodity" validate:"gte=0"`
	Diameter  float64 `yaml:"diameter" json:"diameter" validate:"gt=0"`
	Length    float64 `yaml:"length" json:"length" validate:"gte=0"`
}

// FluidRecord holds the fluid properties of a well
type FluidRecord struct {
	OilDensity           float64 `yaml:"oil_density" json:"oil_density" validate:"gte=0"`
	WaterDensity         float64 `yaml:"water_density" json:"water_density" validate:"gte=0"`
	GasDensity           float64 `yaml:"gas_density" json:"gas_density" validate:"gte=0"`
	OilViscosity         float64 `yaml:"oil_viscosity" json:"oil_viscosity" validate:"gte=0"`
	WaterViscosity       float64 `yaml:"water_viscosity" json:"water_viscosity" validate:"gte=0"`
	GasFactor            float64 `yaml:"gas_factor" json:"gas_factor" validate:"gte=0"`
	BubblePointPressure  float64 `yaml:"bubble_point_pressure" json:"bubble_point_pressure" validate:"gte=0"`
	ReservoirPressure    float64 `yaml:"reservoir_pressure" json:"reservoir_pressure" validate:"gte=0"`
	ReservoirTemperature float64 `yaml:"reservoir_temperature" json:"reservoir_temperature"`
	ParticleContent      float64 `yaml:"particle_content" json:"particle_content" validate:"gte=0"`
}

// WellRecord is the boundary data of one well. A missing line pressure
// means the pressure was not measured.
type WellRecord struct {
	Node         string      `yaml:"node" json:"node" validate:"required"`
	LinePressure *float64    `yaml:"line_pressure,omitempty" json:"line_pressure,omitempty" validate:"omitempty,gt=0"`
	LiquidRate   float64     `yaml:"liquid_rate" json:"liquid_rate" validate:"gte=0"`
	Watercut     float64     `yaml:"watercut" json:"watercut" validate:"gte=0,lte=1"`
	Fluid        FluidRecord `yaml:"fluid" json:"fluid"`
}

// ValidateNodeRecord validates a node record
func ValidateNodeRecord(rec *NodeRecord) error {
	if rec == nil {
		return errors.New("node record cannot be nil")
	}
	if err := validate.Struct(rec); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// ValidatePipeRecord validates a pipe record
func ValidatePipeRecord(rec *PipeRecord) error {
	if rec == nil {
		return errors.New("pipe record cannot be nil")
	}
	if err := validate.Struct(rec); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// ValidateWellRecord validates a well record and its fluid
func ValidateWellRecord(rec *WellRecord) error {
	if rec == nil {
		return errors.New("well record cannot be nil")
	}
	if err := validate.Struct(rec); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// ValidateID validates a node identifier
func ValidateID(id string) error {
	if id == "" {
		return errors.New("id cannot be empty")
	}
	if len(id) > MaxIDLength {
		return fmt.Errorf("id '%s' exceeds maximum length of %d characters", id, MaxIDLength)
	}
	if !idPattern.MatchString(id) {
		return fmt.Errorf("id '%s' contains invalid characters", id)
	}
	return nil
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	// Return the first validation error in a user-friendly format
	for _, e := range validationErrs {
		field := e.Namespace()
		tag := e.Tag()
		param := e.Param()

		switch tag {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "gt":
			return fmt.Errorf("%s: must be greater than %s", field, param)
		case "gte":
			return fmt.Errorf("%s: must be at least %s", field, param)
		case "lte":
			return fmt.Errorf("%s: must not exceed %s", field, param)
		case "nodekind":
			return fmt.Errorf("%s: unknown node kind %q", field, e.Value())
		case "nodeid":
			return fmt.Errorf("%s: invalid identifier %q", field, e.Value())
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, tag)
		}
	}

	return err
}
