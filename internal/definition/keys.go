package definition

// Well-known attribute keys.
const (
	KeyID          = "id"
	KeyGroup       = "group"
	KeyTitle       = "title"
	KeyTitleShort  = "title short"
	KeyLabel       = "label"
	KeyHelp        = "help"
	KeyRealField   = "real field"
	KeyRealTable   = "real table"
	KeyEntityType  = "entity type"
	KeyEntityField = "entity field"

	// KeyTableEntityType is where a table-level "entity type" lands on an
	// enriched definition, so it never collides with a field's own entity type.
	KeyTableEntityType = "entity_type"

	KeyPluginType            = "plugin_type"
	KeyProvider              = "provider"
	KeyOriginalConfiguration = "original_configuration"
	KeyAcceptDepthModifier   = "accept depth modifier"
	KeyAggregatable          = "aggregatable"
)

// InheritedKeys lists the attributes a handler definition may inherit from
// its field and table, in the order they are considered.
var InheritedKeys = []string{
	KeyGroup,
	KeyTitle,
	KeyTitleShort,
	KeyLabel,
	KeyHelp,
	KeyRealField,
	KeyRealTable,
	KeyEntityType,
	KeyEntityField,
}

// BrokenPluginID is the plugin id of the handler that stands in for missing
// or unbuildable handlers in every category.
const BrokenPluginID = "broken"
