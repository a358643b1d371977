package invalidation

import (
	"fmt"
	"strings"
)

// parseTags extracts tags from the arguments of an invalidation event.
func parseTags(data ...any) ([]string, error) {
	var tags []string
	for _, d := range data {
		switch v := d.(type) {
		case nil:
		case string:
			if v != "" {
				tags = append(tags, v)
			}
		case []string:
			for _, s := range v {
				if s != "" {
					tags = append(tags, s)
				}
			}
		case []any:
			nested, err := parseTags(v...)
			if err != nil {
				return nil, err
			}
			tags = append(tags, nested...)
		case map[string]any:
			raw, ok := v["tags"]
			if !ok {
				return nil, fmt.Errorf("invalidation payload object has no \"tags\" key")
			}
			nested, err := parseTags(raw)
			if err != nil {
				return nil, err
			}
			tags = append(tags, nested...)
		default:
			return nil, fmt.Errorf("unsupported invalidation payload element of type %T", d)
		}
	}
	return tags, nil
}

// isPattern reports whether tag uses glob meta characters.
func isPattern(tag string) bool {
	return strings.ContainsAny(tag, "*?[{")
}
