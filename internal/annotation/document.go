// Package annotation reads per-model interaction annotations from JSON or
// YAML documents, optionally gzip-compressed.
package annotation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/rnapolis/rnative/internal/models"
	"github.com/rnapolis/rnative/internal/validation"
	"gopkg.in/yaml.v3"
)

// Document is the on-disk shape of one model annotation.
type Document struct {
	Name      string                     `yaml:"name,omitempty" json:"name,omitempty" mapstructure:"name"`
	Residues  []models.ResidueIdentifier `yaml:"residues" json:"residues" mapstructure:"residues"`
	BasePairs []Pair                     `yaml:"basePairs,omitempty" json:"basePairs,omitempty" mapstructure:"basePairs"`
	Stackings []Pair                     `yaml:"stackings,omitempty" json:"stackings,omitempty" mapstructure:"stackings"`
}

// Pair is one annotated interaction. LW is ignored for stackings.
type Pair struct {
	NT1 models.ResidueIdentifier `yaml:"nt1" json:"nt1" mapstructure:"nt1"`
	NT2 models.ResidueIdentifier `yaml:"nt2" json:"nt2" mapstructure:"nt2"`
	LW  models.LW                `yaml:"lw,omitempty" json:"lw,omitempty" mapstructure:"lw"`
}

// SchemaError lists every schema violation found in one document.
type SchemaError struct {
	Source   string
	Problems []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s does not match the annotation schema: %s", e.Source, strings.Join(e.Problems, "; "))
}

// Decode parses, validates and converts an annotation document. source names
// the document in errors and is the model name when the document has none.
func Decode(data []byte, source string) (*models.Model, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", source, err)
	}
	if raw == nil {
		return nil, &SchemaError{Source: source, Problems: []string{"document is empty"}}
	}
	if problems := validation.ValidateAnnotationDocument(raw); len(problems) > 0 {
		return nil, &SchemaError{Source: source, Problems: problems}
	}

	var doc Document
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(residueHook, lwHook),
		Result:     &doc,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", source, err)
	}

	if doc.Name == "" {
		doc.Name = source
	}
	return doc.Model(), nil
}

// Model builds the normalized model the document describes.
func (d Document) Model() *models.Model {
	basePairs := make([]models.Interaction, 0, len(d.BasePairs))
	for _, p := range d.BasePairs {
		basePairs = append(basePairs, models.NewBasePair(p.NT1, p.NT2, p.LW))
	}
	stackings := make([]models.Interaction, 0, len(d.Stackings))
	for _, p := range d.Stackings {
		stackings = append(stackings, models.NewStacking(p.NT1, p.NT2))
	}
	return models.NewModel(d.Name, d.Residues, basePairs, stackings)
}

var (
	residueType = reflect.TypeOf(models.ResidueIdentifier{})
	lwType      = reflect.TypeOf(models.LW(""))
)

func residueHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != residueType {
		return data, nil
	}
	return models.ParseResidue(data.(string))
}

func lwHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != lwType {
		return data, nil
	}
	return models.ParseLW(data.(string)), nil
}
