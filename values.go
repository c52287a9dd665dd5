package hxform

// GetFieldValues collects the values of a form, skipping labels.
//
// A FieldMap is keyed by its own keys; any other group by the field names
// with the first letter lower-cased. Nullable choices with nothing selected
// and actions map to nil.
func GetFieldValues(fields Group) map[string]any {
	values := make(map[string]any)
	if m, ok := fields.(FieldMap); ok {
		for key, field := range m {
			if field.Kind() == KindLabel {
				continue
			}
			values[key] = field.AnyValue()
		}
		return values
	}
	for _, field := range fields.Flatten() {
		if field.Kind() == KindLabel {
			continue
		}
		values[DecapitalizeFirstLetter(field.Name())] = field.AnyValue()
	}
	return values
}
