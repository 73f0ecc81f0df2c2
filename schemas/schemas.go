// Package schemas embeds the JSON Schemas for annotation documents and
// project configuration.
package schemas

import _ "embed"

//go:embed annotation.schema.json
var AnnotationSchemaJSON string

//go:embed config.schema.json
var ConfigSchemaJSON string
