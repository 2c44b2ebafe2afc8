package reconcile

import (
	"encoding/json"
	"fmt"
)

// translationsField is the newEntityData key carrying {lang: label} for the created entity.
const translationsField = "translations"

// applyOverrides overlays fields onto record through its JSON form.
func applyOverrides[T any](record T, overrides map[string]any) (T, error) {
	if len(overrides) == 0 {
		return record, nil
	}

	raw, err := json.Marshal(record)
	if err != nil {
		return record, fmt.Errorf("failed to encode record: %w", err)
	}

	fields := map[string]any{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return record, fmt.Errorf("failed to decode record: %w", err)
	}

	for key, value := range overrides {
		if key == translationsField {
			continue
		}
		fields[key] = value
	}

	raw, err = json.Marshal(fields)
	if err != nil {
		return record, fmt.Errorf("failed to encode overrides: %w", err)
	}

	var merged T
	if err := json.Unmarshal(raw, &merged); err != nil {
		return record, fmt.Errorf("invalid newEntityData: %w", err)
	}

	return merged, nil
}

// overrideLabels reads the translations override as {lang: label}.
func overrideLabels(overrides map[string]any) (map[string]string, bool) {
	raw, ok := overrides[translationsField].(map[string]any)
	if !ok {
		return nil, false
	}

	labels := make(map[string]string, len(raw))
	for lang, label := range raw {
		if s, ok := label.(string); ok {
			labels[lang] = s
		}
	}
	return labels, true
}
