package generator

import (
	"fmt"
	"strings"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/alfredjeanlab/dbfaker/internal/model"
)

const (
	sentenceWords      = 8
	paragraphSentences = 3
)

const (
	maskGroups    = 3
	maskGroupSize = 10
)

// paragraph joins num paragraphs with a newline.
func paragraph(f *gofakeit.Faker, spec model.FieldSpec) (any, error) {
	return units(spec, "\n", func() string {
		return f.Paragraph(1, paragraphSentences, sentenceWords, " ")
	})
}

// sentence joins num sentences with a space.
func sentence(f *gofakeit.Faker, spec model.FieldSpec) (any, error) {
	return units(spec, " ", func() string {
		return f.Sentence(sentenceWords)
	})
}

func units(spec model.FieldSpec, sep string, unit func() string) (any, error) {
	num, err := spec.Int("num", 1)
	if err != nil {
		return nil, err
	}
	if num < 0 {
		return nil, fmt.Errorf("num must not be negative, got %d", num)
	}
	parts := make([]string, num)
	for i := range parts {
		parts[i] = unit()
	}
	return strings.Join(parts, sep), nil
}

// maskedText is the fallback for unregistered tags: space separated groups
// of random letters drawn from the registry's faker, so a fixed seed
// reproduces them.
func maskedText(f *gofakeit.Faker, _ model.FieldSpec) (any, error) {
	group := strings.Repeat("?", maskGroupSize)
	groups := make([]string, maskGroups)
	for i := range groups {
		groups[i] = f.Lexify(group)
	}
	return strings.Join(groups, " "), nil
}
