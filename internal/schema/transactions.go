package schema

import "github.com/guestify/kitstate/model"

// txSchema wraps a payload schema in the common {type, payload} envelope.
func txSchema(txType string, payload *Schema) *Schema {
	return &Schema{
		Type:     TypeObject,
		Required: []string{"type", "payload"},
		Properties: map[string]*Schema{
			"type":    {Type: TypeString, Const: txType},
			"payload": payload,
		},
	}
}

// Transactions maps each transaction type to its envelope schema.
var Transactions = map[string]*Schema{
	model.TxAddComponent: txSchema(model.TxAddComponent, &Schema{
		Type:     TypeObject,
		Required: []string{"id", "type"},
		Properties: map[string]*Schema{
			"id":    {Type: TypeString, Pattern: IDPattern},
			"type":  {Type: TypeString},
			"props": {Type: TypeObject},
			"data":  {Type: TypeObject},
		},
	}),

	model.TxRemoveComponent: txSchema(model.TxRemoveComponent,
		&Schema{Type: TypeString, Pattern: IDPattern}),

	model.TxUpdateComponent: txSchema(model.TxUpdateComponent, &Schema{
		Type:     TypeObject,
		Required: []string{"componentId", "newProps"},
		Properties: map[string]*Schema{
			"componentId": {Type: TypeString, Pattern: IDPattern},
			"newProps":    {Type: TypeObject},
		},
	}),

	model.TxMoveComponent: txSchema(model.TxMoveComponent, &Schema{
		Type:     TypeObject,
		Required: []string{"componentId", "direction"},
		Properties: map[string]*Schema{
			"componentId": {Type: TypeString, Pattern: IDPattern},
			"direction":   {Type: TypeString, Enum: []string{"up", "down"}},
		},
	}),

	model.TxSetLayout: txSchema(model.TxSetLayout, &Schema{
		Type:  TypeArray,
		Items: &Schema{Type: TypeString, Pattern: IDPattern},
	}),

	model.TxSetState: txSchema(model.TxSetState, Document),

	model.TxUpdateGlobalSettings: txSchema(model.TxUpdateGlobalSettings,
		&Schema{Type: TypeObject}),

	model.TxAddSection: txSchema(model.TxAddSection, &Schema{
		Type:     TypeObject,
		Required: []string{"section_id", "section_type"},
		Properties: map[string]*Schema{
			"section_id":   {Type: TypeString, Pattern: IDPattern},
			"section_type": {Type: TypeString, Enum: SectionTypes},
		},
	}),

	model.TxRemoveSection: txSchema(model.TxRemoveSection,
		&Schema{Type: TypeString, Pattern: IDPattern}),

	model.TxUpdateSection: txSchema(model.TxUpdateSection, &Schema{
		Type:     TypeObject,
		Required: []string{"sectionId", "updates"},
		Properties: map[string]*Schema{
			"sectionId": {Type: TypeString, Pattern: IDPattern},
			"updates":   {Type: TypeObject},
		},
	}),

	model.TxUpdateSections: txSchema(model.TxUpdateSections, &Schema{
		Type: TypeArray,
		Items: &Schema{
			Type:     TypeObject,
			Required: []string{"section_id", "section_type"},
			Properties: map[string]*Schema{
				"section_id":   {Type: TypeString},
				"section_type": {Type: TypeString},
			},
		},
	}),
}
