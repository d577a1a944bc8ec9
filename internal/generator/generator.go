// Package generator maps field specifications to synthetic values.
//
// Each type tag is served by a registered Func. Tags that are not registered
// fall back to the masked-text generator, so an unknown tag never fails a run.
package generator

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/alfredjeanlab/dbfaker/internal/model"
)

// ErrMissingType is returned when a field specification has no type tag.
var ErrMissingType = errors.New("field specification has no type")

// Func produces one value for spec using the registry's faker.
type Func func(f *gofakeit.Faker, spec model.FieldSpec) (any, error)

// Registry dispatches type tags to generator funcs.
type Registry struct {
	faker    *gofakeit.Faker
	funcs    map[string]Func
	fallback Func
}

// New returns a registry with every built-in tag registered. A zero seed
// draws a random one.
func New(seed uint64) *Registry {
	r := &Registry{
		faker:    gofakeit.New(seed),
		funcs:    make(map[string]Func),
		fallback: maskedText,
	}
	for tag, fn := range builtins {
		r.funcs[tag] = fn
	}
	return r
}

var builtins = map[string]Func{
	"email":        email,
	"emailunique":  emailUnique,
	"name":         name,
	"first_name":   firstName,
	"last_name":    lastName,
	"phone_number": phoneNumber,
	"credit_card":  creditCard,
	"address":      address,
	"city":         city,
	"postcode":     postcode,
	"company_name": companyName,
	"job":          job,
	"paragraph":    paragraph,
	"sentence":     sentence,
	"isbn":         isbn,
	"filename":     fileName,
	"fileext":      fileExt,
	"filepath":     filePath,
	"mimetype":     mimeType,
	"integer":      integer,
	"float":        float,
	"choose":       choose,
	"fixed":        fixed,
	"uuid":         uuidV4,
}

// Register adds or replaces the generator for tag.
func (r *Registry) Register(tag string, fn Func) {
	r.funcs[tag] = fn
}

// Lookup returns the generator registered for tag.
func (r *Registry) Lookup(tag string) (Func, bool) {
	fn, ok := r.funcs[tag]
	return fn, ok
}

// Tags returns the registered tags in sorted order.
func (r *Registry) Tags() []string {
	tags := make([]string, 0, len(r.funcs))
	for tag := range r.funcs {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Generate produces one value for spec.
func (r *Registry) Generate(spec model.FieldSpec) (any, error) {
	if strings.TrimSpace(spec.Type) == "" {
		return nil, ErrMissingType
	}
	fn, ok := r.funcs[spec.Type]
	if !ok {
		fn = r.fallback
	}
	v, err := fn(r.faker, spec)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", spec.Type, err)
	}
	return v, nil
}
