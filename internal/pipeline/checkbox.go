package pipeline

// Task-list checkbox fragments. They replace task-list markers verbatim,
// so their tags, attributes and classes must be covered by DefaultPolicy.
// They are written in the serialized form the sanitizer emits, so a
// sanitized document contains them byte for byte.
const (
	CheckboxUnchecked = `<div class="form-check"><input class="form-check-input" type="checkbox"></div>`
	CheckboxChecked   = `<div class="form-check"><input class="form-check-input" type="checkbox" checked=""></div>`
)

// Checkbox returns the fragment for a task-list marker.
func Checkbox(checked bool) string {
	if checked {
		return CheckboxChecked
	}
	return CheckboxUnchecked
}
