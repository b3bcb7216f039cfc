package workspace

// Merge applies updates onto base in place. Where both sides hold an object
// under the same key the objects are merged recursively; every other value in
// updates, arrays included, replaces what base had.
func Merge(base, updates map[string]any) {
	for key, value := range updates {
		if existing, ok := base[key].(map[string]any); ok {
			if incoming, ok := value.(map[string]any); ok {
				Merge(existing, incoming)
				continue
			}
		}
		base[key] = value
	}
}
