package nodes

import (
	"encoding/json"
	"fmt"
)

// bindingFromRow lifts a raw profile_meta row into the typed binding. Levels
// are stored as a JSON array; drivers disagree on numeric and boolean scan
// types so the accessors normalize.
func bindingFromRow(row map[string]any) (*DimensionBinding, error) {
	levels, err := decodeLevels(row["levels"])
	if err != nil {
		return nil, fmt.Errorf("nodes: decode levels: %w", err)
	}
	return &DimensionBinding{
		ID:        asInt64(row["id"]),
		ProfileID: asInt64(row["profile_id"]),
		Ordering:  int(asInt64(row["ordering"])),
		Slug:      asString(row["slug"]),
		Dimension: asString(row["dimension"]),
		Hierarchy: asString(row["hierarchy"]),
		Levels:    levels,
		Measure:   asString(row["measure"]),
		CubeName:  asString(row["cube_name"]),
		Visible:   asBool(row["visible"]),
	}, nil
}

func bindingRow(b DimensionBinding) map[string]any {
	levels, _ := json.Marshal(b.Levels)
	return map[string]any{
		"profile_id": b.ProfileID,
		"ordering":   b.Ordering,
		"slug":       b.Slug,
		"dimension":  b.Dimension,
		"hierarchy":  b.Hierarchy,
		"levels":     string(levels),
		"measure":    b.Measure,
		"cube_name":  b.CubeName,
		"visible":    b.Visible,
	}
}

func decodeLevels(value any) ([]string, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out, nil
	case string:
		if v == "" {
			return nil, nil
		}
		var out []string
		if err := json.Unmarshal([]byte(v), &out); err != nil {
			return nil, err
		}
		return out, nil
	case []byte:
		return decodeLevels(string(v))
	default:
		return nil, fmt.Errorf("unsupported levels type %T", value)
	}
}

func asInt64(value any) int64 {
	switch v := value.(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return 0
	}
}

func asString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return ""
	}
}

func asBool(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case int64:
		return v != 0
	case int:
		return v != 0
	default:
		return false
	}
}
