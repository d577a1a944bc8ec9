package generator

import (
	"fmt"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"

	"github.com/alfredjeanlab/dbfaker/internal/model"
)

// Defaults for the numeric generators.
const (
	defaultMin  = 1
	defaultMax  = 9999
	defaultStep = 1
)

var defaultOptions = []any{"Y", "N"}

const defaultFixed = "fixed"

// integer returns min + k*step for a random k, bounded by max.
func integer(f *gofakeit.Faker, spec model.FieldSpec) (any, error) {
	return randomInt(f, spec)
}

// float returns an integer result as float64.
func float(f *gofakeit.Faker, spec model.FieldSpec) (any, error) {
	n, err := randomInt(f, spec)
	if err != nil {
		return nil, err
	}
	return float64(n), nil
}

func randomInt(f *gofakeit.Faker, spec model.FieldSpec) (int, error) {
	lo, err := spec.Int("min", defaultMin)
	if err != nil {
		return 0, err
	}
	hi, err := spec.Int("max", defaultMax)
	if err != nil {
		return 0, err
	}
	step, err := spec.Int("step", defaultStep)
	if err != nil {
		return 0, err
	}
	if step <= 0 {
		return 0, fmt.Errorf("step must be positive, got %d", step)
	}
	if lo > hi {
		return 0, fmt.Errorf("min %d is greater than max %d", lo, hi)
	}
	k := f.Number(0, (hi-lo)/step)
	return lo + k*step, nil
}

func choose(f *gofakeit.Faker, spec model.FieldSpec) (any, error) {
	options, err := spec.List("options", defaultOptions)
	if err != nil {
		return nil, err
	}
	if len(options) == 0 {
		return nil, fmt.Errorf("options must not be empty")
	}
	return options[f.Number(0, len(options)-1)], nil
}

func fixed(_ *gofakeit.Faker, spec model.FieldSpec) (any, error) {
	return spec.Value("value", defaultFixed), nil
}

func uuidV4(_ *gofakeit.Faker, _ model.FieldSpec) (any, error) {
	return uuid.NewString(), nil
}
