package ui

import (
	"strings"

	"sheetview/internal/model"
)

var cellReplacer = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\t", " ")

// cellText is the single-line table rendering of a value. Null renders empty.
func cellText(v model.Value) string {
	s := v.String()
	if !strings.ContainsAny(s, "\r\n\t") {
		return s
	}
	return cellReplacer.Replace(s)
}
