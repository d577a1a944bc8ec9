package generator

import (
	"path"
	"strconv"
	"strings"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/alfredjeanlab/dbfaker/internal/model"
)

func fileName(f *gofakeit.Faker, _ model.FieldSpec) (any, error) {
	return baseName(f), nil
}

func fileExt(f *gofakeit.Faker, _ model.FieldSpec) (any, error) {
	return f.FileExtension(), nil
}

func filePath(f *gofakeit.Faker, _ model.FieldSpec) (any, error) {
	return path.Join("/", pathWord(f), baseName(f)), nil
}

func mimeType(f *gofakeit.Faker, _ model.FieldSpec) (any, error) {
	return f.FileMimeType(), nil
}

func baseName(f *gofakeit.Faker) string {
	return pathWord(f) + "." + f.FileExtension()
}

// pathWord returns a lowercase word safe to use as a path segment.
func pathWord(f *gofakeit.Faker) string {
	w := strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' {
			return r
		}
		return -1
	}, strings.ToLower(f.Word()))
	if w == "" {
		return "file"
	}
	return w
}

// isbn returns an ISBN-13 in EAN-group-registrant-publication-check form.
func isbn(f *gofakeit.Faker, spec model.FieldSpec) (any, error) {
	sep := spec.String("separator", "-")

	ean := f.RandomString([]string{"978", "979"})
	group := f.Numerify("#")
	registrant := f.Numerify("####")
	publication := f.Numerify("####")

	check := isbnCheckDigit(ean + group + registrant + publication)
	return strings.Join([]string{ean, group, registrant, publication, strconv.Itoa(check)}, sep), nil
}

// isbnCheckDigit computes the ISBN-13 check digit for the first 12 digits.
func isbnCheckDigit(digits string) int {
	sum := 0
	for i, r := range digits {
		d := int(r - '0')
		if i%2 == 1 {
			d *= 3
		}
		sum += d
	}
	return (10 - sum%10) % 10
}
