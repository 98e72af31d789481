package schema

var limits = DefaultConstraints()

// componentEntry is the schema for a single placed component. The type field
// is deliberately unconstrained beyond being a short string: the known-type
// list is advisory (see ComponentTypes).
var componentEntry = &Schema{
	Type:     TypeObject,
	Required: []string{"id", "type"},
	Properties: map[string]*Schema{
		"id":    {Type: TypeString, Pattern: IDPattern, MaxLength: limits.MaxComponentIDLength},
		"type":  {Type: TypeString, MinLength: 1, MaxLength: 50},
		"props": {Type: TypeObject},
		// data duplicates props for documents written by older builder
		// versions; both remain readable.
		"data": {Type: TypeObject},
		"metadata": {
			Type: TypeObject,
			Properties: map[string]*Schema{
				"created": {Type: TypeString, Format: "date-time"},
				"updated": {Type: TypeString, Format: "date-time"},
				"version": {Type: TypeString},
			},
		},
	},
	AdditionalProperties: Closed,
}

// Section is the schema for one section configuration.
var Section = &Schema{
	Type:     TypeObject,
	Required: []string{"section_id", "section_type"},
	Properties: map[string]*Schema{
		"section_id":   {Type: TypeString, Pattern: IDPattern},
		"section_type": {Type: TypeString, Enum: SectionTypes},
		"layout": {
			Type: TypeObject,
			Properties: map[string]*Schema{
				"width":                 {Type: TypeString},
				"max_width":             {Type: TypeString},
				"padding":               {Type: TypeString},
				"columns":               {Type: TypeInteger, Minimum: f64(1), Maximum: f64(12)},
				"column_gap":            {Type: TypeString},
				"row_gap":               {Type: TypeString},
				"display":               {Type: TypeString},
				"align_items":           {Type: TypeString},
				"justify_content":       {Type: TypeString},
				"grid_template_columns": {Type: TypeString},
				"min_height":            {Type: TypeString},
			},
		},
		"section_options": {
			Type: TypeObject,
			Properties: map[string]*Schema{
				"background_type":  {Type: TypeString, Enum: []string{"none", "color", "gradient"}},
				"background_color": {Type: TypeString, Pattern: "^(#[0-9A-Fa-f]{6}|transparent)$"},
				"spacing_top":      {Type: TypeString, Enum: []string{"none", "small", "medium", "large"}},
				"spacing_bottom":   {Type: TypeString, Enum: []string{"none", "small", "medium", "large"}},
			},
		},
		"responsive": {
			Type: TypeObject,
			Properties: map[string]*Schema{
				"mobile": {Type: TypeObject},
				"tablet": {Type: TypeObject},
			},
		},
		"components": {
			Type: TypeArray,
			Items: &Schema{
				Type:     TypeObject,
				Required: []string{"component_id"},
				Properties: map[string]*Schema{
					"component_id": {Type: TypeString, Pattern: IDPattern},
					"column":       {Type: TypeInteger, Minimum: f64(1)},
					"order":        {Type: TypeInteger, Minimum: f64(0)},
					"assigned_at":  {Type: TypeNumber},
				},
			},
		},
		"created_at": {Type: TypeNumber},
		"updated_at": {Type: TypeNumber},
	},
	AdditionalProperties: Closed,
}

// GlobalSettings is partially schematized and deliberately open: undeclared
// keys are permitted for forward compatibility.
var GlobalSettings = &Schema{
	Type: TypeObject,
	Properties: map[string]*Schema{
		"theme": {
			Type: TypeObject,
			Properties: map[string]*Schema{
				"primaryColor":   {Type: TypeString, Pattern: HexColorPattern},
				"secondaryColor": {Type: TypeString, Pattern: HexColorPattern},
				"fontFamily":     {Type: TypeString},
				"fontSize":       {Type: TypeString, Enum: []string{"small", "medium", "large"}},
			},
		},
		"layout": {
			Type: TypeObject,
			Properties: map[string]*Schema{
				"maxWidth":  {Type: TypeString},
				"spacing":   {Type: TypeString, Enum: []string{"compact", "normal", "spacious"}},
				"alignment": {Type: TypeString, Enum: []string{"left", "center", "right"}},
			},
		},
		"advanced": {
			Type: TypeObject,
			Properties: map[string]*Schema{
				"customCSS": {Type: TypeString, MaxLength: limits.MaxCustomCSSLength},
				"customJS":  {Type: TypeString, MaxLength: limits.MaxCustomJSLength},
			},
		},
	},
	AdditionalProperties: Open,
}

// Document is the whole-document schema.
var Document = &Schema{
	Type:     TypeObject,
	Required: []string{"layout", "components", "globalSettings"},
	Properties: map[string]*Schema{
		"layout": {
			Type: TypeArray,
			Items: &Schema{
				Type:      TypeString,
				Pattern:   IDPattern,
				MinLength: 1,
				MaxLength: limits.MaxComponentIDLength,
			},
			UniqueItems: true,
		},
		"components": {
			Type: TypeObject,
			PatternProperties: map[string]*Schema{
				IDPattern: componentEntry,
			},
			AdditionalProperties: Closed,
		},
		"sections": {
			Type:  TypeArray,
			Items: Section,
		},
		"globalSettings": GlobalSettings,
		"version":        {Type: TypeString, Pattern: VersionPattern},
	},
	AdditionalProperties: Closed,
}
