package ui

import (
	"strings"

	"sheetview/internal/model"
)

// colorizeRecord renders rec as an indented JSON object with keys in column
// order. Keys outside cols are not shown.
func colorizeRecord(cols []string, rec model.Record, st Styles) string {
	var b strings.Builder
	b.WriteString(st.JSONPunct.Render("{"))
	if len(cols) > 0 {
		b.WriteString("\n")
	}
	for i, c := range cols {
		b.WriteString("  ")
		b.WriteString(st.JSONKey.Render("\"" + escapeString(c) + "\""))
		b.WriteString(st.JSONPunct.Render(": "))
		renderValue(&b, rec.Get(c), st)
		if i < len(cols)-1 {
			b.WriteString(st.JSONPunct.Render(","))
		}
		b.WriteString("\n")
	}
	b.WriteString(st.JSONPunct.Render("}"))
	return b.String()
}

func renderValue(b *strings.Builder, v model.Value, st Styles) {
	switch v.Kind() {
	case model.KindNull:
		b.WriteString(st.JSONNull.Render("null"))
	case model.KindNumber:
		b.WriteString(st.JSONNumber.Render(v.String()))
	default:
		b.WriteString(st.JSONString.Render("\"" + escapeString(v.String()) + "\""))
	}
}

func escapeString(s string) string {
	// Minimal escape for quotes and backslashes
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	return s
}
