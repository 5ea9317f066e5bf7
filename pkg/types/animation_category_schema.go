package types

import "github.com/invopop/jsonschema"

// JSONSchema 分类在 JSON Schema 中表示为名称枚举
func (AnimationCategory) JSONSchema() *jsonschema.Schema {
	names := make([]interface{}, 0, animationCategoryCount)
	for _, name := range AnimationCategoryNames() {
		names = append(names, name)
	}
	return &jsonschema.Schema{
		Type:        "string",
		Enum:        names,
		Description: "Animation category name",
	}
}
