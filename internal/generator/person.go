package generator

import (
	"fmt"
	"strings"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/gosimple/slug"

	"github.com/alfredjeanlab/dbfaker/internal/model"
)

func email(f *gofakeit.Faker, _ model.FieldSpec) (any, error) {
	return f.Email(), nil
}

// emailUnique composes first.last+digits@company-slug.com from independently
// generated parts, which keeps collisions rare across large tables.
func emailUnique(f *gofakeit.Faker, _ model.FieldSpec) (any, error) {
	return fmt.Sprintf("%s.%s+%s@%s.com",
		localPart(f.FirstName()),
		localPart(f.LastName()),
		f.Numerify("###"),
		slug.Make(f.Company()),
	), nil
}

// localPart lowercases a name and drops characters that are not valid in an
// unquoted email local part.
func localPart(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return -1
		}
	}, strings.ToLower(s))
}

func name(f *gofakeit.Faker, _ model.FieldSpec) (any, error) {
	return f.Name(), nil
}

func firstName(f *gofakeit.Faker, _ model.FieldSpec) (any, error) {
	return f.FirstName(), nil
}

func lastName(f *gofakeit.Faker, _ model.FieldSpec) (any, error) {
	return f.LastName(), nil
}

func phoneNumber(f *gofakeit.Faker, _ model.FieldSpec) (any, error) {
	return f.Phone(), nil
}

func creditCard(f *gofakeit.Faker, _ model.FieldSpec) (any, error) {
	return f.CreditCardNumber(nil), nil
}

func address(f *gofakeit.Faker, _ model.FieldSpec) (any, error) {
	return f.Address().Address, nil
}

func city(f *gofakeit.Faker, _ model.FieldSpec) (any, error) {
	return f.City(), nil
}

func postcode(f *gofakeit.Faker, _ model.FieldSpec) (any, error) {
	return f.Zip(), nil
}

func companyName(f *gofakeit.Faker, _ model.FieldSpec) (any, error) {
	return f.Company(), nil
}

func job(f *gofakeit.Faker, _ model.FieldSpec) (any, error) {
	return f.JobTitle(), nil
}
