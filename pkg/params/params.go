// Package params defines the closed schema of planning parameters and the
// validated sets the simulator consumes. Every parameter is typed, bounded,
// and validated at construction; out-of-bounds values are reported as
// errors, never clamped.
package params

import (
	"fmt"
	"strings"
)

// Category groups parameters by the planning dimension they influence.
type Category string

const (
	CategoryVolume     Category = "volume"
	CategoryStaffing   Category = "staffing"
	CategoryOperations Category = "operations"
	CategoryExternal   Category = "external"
)

// Type discriminates the value union of a Parameter.
type Type string

const (
	TypeNumber     Type = "number"
	TypePercentage Type = "percentage"
	TypeBoolean    Type = "boolean"
	TypeEnum       Type = "enum"
)

// Known parameter identifiers. The schema is closed: these are the only
// planning dimensions the engine understands.
const (
	BaseVolume          = "base_volume"
	VolumeVariance      = "volume_variance"
	SeasonalAdjustment  = "seasonal_adjustment"
	ServiceLevelTarget  = "service_level_target"
	AverageHandleTime   = "average_handle_time"
	ShrinkageRate       = "shrinkage_rate"
	MultiSkillRatio     = "multi_skill_ratio"
	OvertimeAllowed     = "overtime_allowed"
	ExternalEventImpact = "external_event_impact"
	WeatherImpact       = "weather_impact"
)

// Bounds constrains numeric and percentage parameters.
type Bounds struct {
	Min  float64 `json:"min" yaml:"min"`
	Max  float64 `json:"max" yaml:"max"`
	Step float64 `json:"step,omitempty" yaml:"step,omitempty"`
}

// Parameter is one typed, bounded planning input. Exactly one of the value
// fields is meaningful, selected by Type.
type Parameter struct {
	ID         string   `json:"id" yaml:"id"`
	Category   Category `json:"category" yaml:"category"`
	Type       Type     `json:"type" yaml:"type"`
	Number     float64  `json:"number,omitempty" yaml:"number,omitempty"`
	Bool       bool     `json:"bool,omitempty" yaml:"bool,omitempty"`
	Enum       string   `json:"enum,omitempty" yaml:"enum,omitempty"`
	Bounds     *Bounds  `json:"bounds,omitempty" yaml:"bounds,omitempty"`
	EnumValues []string `json:"enumValues,omitempty" yaml:"enumValues,omitempty"`
}

// FieldError describes a single invalid parameter.
type FieldError struct {
	ID      string
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("parameter %s: %s", e.ID, e.Message)
}

// ValidationError aggregates every violated parameter in a set. Callers can
// correct all violations in one pass instead of discovering them one by one.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Error()
	}
	return fmt.Sprintf("invalid parameter set: %s", strings.Join(msgs, "; "))
}

// validate checks a single parameter against its own schema.
func (p Parameter) validate() *FieldError {
	switch p.Type {
	case TypeNumber, TypePercentage:
		if p.Bounds == nil {
			return &FieldError{ID: p.ID, Message: "numeric parameter requires bounds"}
		}
		if p.Bounds.Min > p.Bounds.Max {
			return &FieldError{ID: p.ID, Message: fmt.Sprintf("bounds min %.4g exceeds max %.4g", p.Bounds.Min, p.Bounds.Max)}
		}
		if p.Number < p.Bounds.Min || p.Number > p.Bounds.Max {
			return &FieldError{ID: p.ID, Message: fmt.Sprintf("value %.4g outside bounds [%.4g, %.4g]", p.Number, p.Bounds.Min, p.Bounds.Max)}
		}
	case TypeBoolean:
		// Any bool is valid.
	case TypeEnum:
		if len(p.EnumValues) == 0 {
			return &FieldError{ID: p.ID, Message: "enum parameter requires enumValues"}
		}
		for _, v := range p.EnumValues {
			if v == p.Enum {
				return nil
			}
		}
		return &FieldError{ID: p.ID, Message: fmt.Sprintf("value %q not in enumValues %v", p.Enum, p.EnumValues)}
	default:
		return &FieldError{ID: p.ID, Message: fmt.Sprintf("unknown parameter type %q", p.Type)}
	}
	return nil
}

// Set is an ordered mapping of parameter ID to Parameter. The zero value is
// not usable; construct sets with NewSet or DefaultSet.
type Set struct {
	order  []string
	values map[string]Parameter
}

// NewSet builds a Set from parameters in the given order. Duplicate IDs and
// schema violations are all collected into a single ValidationError.
func NewSet(parameters ...Parameter) (*Set, error) {
	s := &Set{values: make(map[string]Parameter, len(parameters))}
	var verr ValidationError
	for _, p := range parameters {
		if _, exists := s.values[p.ID]; exists {
			verr.Fields = append(verr.Fields, FieldError{ID: p.ID, Message: "duplicate parameter id"})
			continue
		}
		if ferr := p.validate(); ferr != nil {
			verr.Fields = append(verr.Fields, *ferr)
		}
		s.order = append(s.order, p.ID)
		s.values[p.ID] = p
	}
	if len(verr.Fields) > 0 {
		return nil, &verr
	}
	return s, nil
}

// DefaultSet returns the full planning schema with baseline values.
func DefaultSet() *Set {
	s, err := NewSet(
		Parameter{ID: BaseVolume, Category: CategoryVolume, Type: TypeNumber, Number: 250, Bounds: &Bounds{Min: 0, Max: 100000, Step: 1}},
		Parameter{ID: VolumeVariance, Category: CategoryVolume, Type: TypePercentage, Number: 10, Bounds: &Bounds{Min: 0, Max: 50, Step: 1}},
		Parameter{ID: SeasonalAdjustment, Category: CategoryVolume, Type: TypePercentage, Number: 0, Bounds: &Bounds{Min: -50, Max: 50, Step: 1}},
		Parameter{ID: ServiceLevelTarget, Category: CategoryStaffing, Type: TypePercentage, Number: 80, Bounds: &Bounds{Min: 50, Max: 99, Step: 1}},
		Parameter{ID: AverageHandleTime, Category: CategoryStaffing, Type: TypeNumber, Number: 180, Bounds: &Bounds{Min: 30, Max: 1800, Step: 5}},
		Parameter{ID: ShrinkageRate, Category: CategoryStaffing, Type: TypePercentage, Number: 25, Bounds: &Bounds{Min: 0, Max: 99, Step: 1}},
		Parameter{ID: MultiSkillRatio, Category: CategoryOperations, Type: TypePercentage, Number: 30, Bounds: &Bounds{Min: 0, Max: 100, Step: 5}},
		Parameter{ID: OvertimeAllowed, Category: CategoryOperations, Type: TypeBoolean, Bool: false},
		Parameter{ID: ExternalEventImpact, Category: CategoryExternal, Type: TypePercentage, Number: 0, Bounds: &Bounds{Min: -100, Max: 100, Step: 5}},
		Parameter{ID: WeatherImpact, Category: CategoryExternal, Type: TypeEnum, Enum: "none", EnumValues: []string{"none", "mild", "moderate", "severe"}},
	)
	if err != nil {
		panic(fmt.Sprintf("default parameter schema is invalid: %v", err))
	}
	return s
}

// IDs returns the parameter identifiers in declaration order.
func (s *Set) IDs() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Get returns a parameter by ID.
func (s *Set) Get(id string) (Parameter, bool) {
	p, ok := s.values[id]
	return p, ok
}

// Number returns the numeric value of a number or percentage parameter.
func (s *Set) Number(id string) (float64, error) {
	p, ok := s.values[id]
	if !ok {
		return 0, fmt.Errorf("unknown parameter %q", id)
	}
	if p.Type != TypeNumber && p.Type != TypePercentage {
		return 0, fmt.Errorf("parameter %q is not numeric (type %s)", id, p.Type)
	}
	return p.Number, nil
}

// Fraction returns a percentage parameter scaled to [0,1].
func (s *Set) Fraction(id string) (float64, error) {
	p, ok := s.values[id]
	if !ok {
		return 0, fmt.Errorf("unknown parameter %q", id)
	}
	if p.Type != TypePercentage {
		return 0, fmt.Errorf("parameter %q is not a percentage (type %s)", id, p.Type)
	}
	return p.Number / 100, nil
}

// Bool returns the value of a boolean parameter.
func (s *Set) Bool(id string) (bool, error) {
	p, ok := s.values[id]
	if !ok {
		return false, fmt.Errorf("unknown parameter %q", id)
	}
	if p.Type != TypeBoolean {
		return false, fmt.Errorf("parameter %q is not boolean (type %s)", id, p.Type)
	}
	return p.Bool, nil
}

// Enum returns the value of an enum parameter.
func (s *Set) Enum(id string) (string, error) {
	p, ok := s.values[id]
	if !ok {
		return "", fmt.Errorf("unknown parameter %q", id)
	}
	if p.Type != TypeEnum {
		return "", fmt.Errorf("parameter %q is not an enum (type %s)", id, p.Type)
	}
	return p.Enum, nil
}

// SetNumber updates a numeric parameter, rejecting out-of-bounds values.
func (s *Set) SetNumber(id string, value float64) error {
	p, ok := s.values[id]
	if !ok {
		return fmt.Errorf("unknown parameter %q", id)
	}
	if p.Type != TypeNumber && p.Type != TypePercentage {
		return fmt.Errorf("parameter %q is not numeric (type %s)", id, p.Type)
	}
	p.Number = value
	if ferr := p.validate(); ferr != nil {
		return &ValidationError{Fields: []FieldError{*ferr}}
	}
	s.values[id] = p
	return nil
}

// SetBool updates a boolean parameter.
func (s *Set) SetBool(id string, value bool) error {
	p, ok := s.values[id]
	if !ok {
		return fmt.Errorf("unknown parameter %q", id)
	}
	if p.Type != TypeBoolean {
		return fmt.Errorf("parameter %q is not boolean (type %s)", id, p.Type)
	}
	p.Bool = value
	s.values[id] = p
	return nil
}

// SetEnum updates an enum parameter, rejecting unknown values.
func (s *Set) SetEnum(id string, value string) error {
	p, ok := s.values[id]
	if !ok {
		return fmt.Errorf("unknown parameter %q", id)
	}
	if p.Type != TypeEnum {
		return fmt.Errorf("parameter %q is not an enum (type %s)", id, p.Type)
	}
	p.Enum = value
	if ferr := p.validate(); ferr != nil {
		return &ValidationError{Fields: []FieldError{*ferr}}
	}
	s.values[id] = p
	return nil
}

// Validate re-checks every parameter against its schema and reports all
// violations at once.
func (s *Set) Validate() error {
	var verr ValidationError
	for _, id := range s.order {
		p := s.values[id]
		if ferr := p.validate(); ferr != nil {
			verr.Fields = append(verr.Fields, *ferr)
		}
	}
	if len(verr.Fields) > 0 {
		return &verr
	}
	return nil
}

// Clone returns an independent deep copy of the set. Simulation results hold
// clones so later edits to the working set never change a produced result.
func (s *Set) Clone() *Set {
	c := &Set{
		order:  make([]string, len(s.order)),
		values: make(map[string]Parameter, len(s.values)),
	}
	copy(c.order, s.order)
	for id, p := range s.values {
		if p.Bounds != nil {
			b := *p.Bounds
			p.Bounds = &b
		}
		if p.EnumValues != nil {
			ev := make([]string, len(p.EnumValues))
			copy(ev, p.EnumValues)
			p.EnumValues = ev
		}
		c.values[id] = p
	}
	return c
}

// Parameters returns the parameters in declaration order.
func (s *Set) Parameters() []Parameter {
	out := make([]Parameter, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.values[id])
	}
	return out
}
