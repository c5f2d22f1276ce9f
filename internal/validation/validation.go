// Package validation runs the declarative `validate:"..."` rules attached to
// service commands and turns failures into field-level domain errors.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"spartanfitness/api/internal/domain"
)

// Ordered is implemented by list items that carry a 1-based position.
type Ordered interface {
	Order() uint
}

const (
	tagOrderNumbers = "ordernumbers"
	tagExerciseType = "exercisetype"
)

const orderNumbersMessage = "The order of exercises has to contain unique values, has to be consecutive and has to start with 1"

// Validator wraps a configured go-playground validator.
type Validator struct {
	v *validator.Validate
}

var std = New()

// New builds a validator with the custom rules registered and json field names in errors.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonName)
	if err := RegisterRules(v); err != nil {
		panic(err)
	}
	return &Validator{v: v}
}

// RegisterRules adds the custom tags to v. It is also used on gin's binding engine.
func RegisterRules(v *validator.Validate) error {
	if err := v.RegisterValidation(tagOrderNumbers, validOrderNumbers); err != nil {
		return fmt.Errorf("register %s: %w", tagOrderNumbers, err)
	}
	if err := v.RegisterValidation(tagExerciseType, validExerciseType); err != nil {
		return fmt.Errorf("register %s: %w", tagExerciseType, err)
	}
	return nil
}

// Struct validates s with the package default validator.
func Struct(s any) error { return std.Struct(s) }

// Struct returns nil, a *domain.Error of kind Validation, or an error for a misuse such as a nil argument.
func (val *Validator) Struct(s any) error {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate: %w", err)
	}

	fields := make(map[string][]string, len(verrs))
	for _, fe := range verrs {
		key := fieldKey(fe)
		fields[key] = append(fields[key], message(fe))
	}
	return domain.ValidationFields(fields)
}

// OrderNumbers reports whether the numbers are a permutation of 1..N.
func OrderNumbers(numbers []uint) bool {
	sorted := slices.Clone(numbers)
	slices.Sort(sorted)
	for i, n := range sorted {
		if n != uint(i+1) {
			return false
		}
	}
	return true
}

func validOrderNumbers(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.Slice && field.Kind() != reflect.Array {
		return false
	}
	numbers := make([]uint, 0, field.Len())
	for i := 0; i < field.Len(); i++ {
		item, ok := field.Index(i).Interface().(Ordered)
		if !ok {
			return false
		}
		numbers = append(numbers, item.Order())
	}
	return OrderNumbers(numbers)
}

func validExerciseType(fl validator.FieldLevel) bool {
	if fl.Field().Kind() != reflect.String {
		return false
	}
	return domain.ExerciseType(fl.Field().String()).Valid()
}

func jsonName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	switch name {
	case "-":
		return ""
	case "":
		return f.Name
	}
	return name
}

// fieldKey drops the root struct name from the namespace: "CreateWorkout.workoutExercises[0].sets" -> "workoutExercises[0].sets".
func fieldKey(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	name := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("'%s' must not be empty.", name)
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("The length of '%s' must be %s characters or fewer.", name, fe.Param())
		}
		return fmt.Sprintf("'%s' must be less than or equal to %s.", name, fe.Param())
	case "min":
		return fmt.Sprintf("'%s' must be at least %s.", name, fe.Param())
	case "lt":
		return fmt.Sprintf("'%s' must be less than %s.", name, fe.Param())
	case "gt":
		return fmt.Sprintf("'%s' must be greater than %s.", name, fe.Param())
	case "ltefield":
		return fmt.Sprintf("'%s' must be less than or equal to '%s'.", name, lowerFirst(fe.Param()))
	case "uuid", "uuid4":
		return fmt.Sprintf("'%s' must be a valid identifier.", name)
	case "unique":
		return fmt.Sprintf("'%s' must contain unique values.", name)
	case "email":
		return fmt.Sprintf("'%s' is not a valid email address.", name)
	case "url":
		return fmt.Sprintf("'%s' must be a valid URL.", name)
	case "oneof":
		return fmt.Sprintf("'%s' must be one of: %s.", name, fe.Param())
	case tagOrderNumbers:
		return orderNumbersMessage
	case tagExerciseType:
		return fmt.Sprintf("'%s' must be one of: %s.", name, exerciseTypeList())
	}
	return fmt.Sprintf("'%s' is invalid (%s).", name, fe.Tag())
}

func exerciseTypeList() string {
	names := make([]string, len(domain.ExerciseTypes))
	for i, t := range domain.ExerciseTypes {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
