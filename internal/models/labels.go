// internal/models/labels.go
package models

import (
	"strings"

	"github.com/placese/placese-beatstore/internal/i18n"
)

// VerboseName is the human readable label for an entity type name
// such as "Beat" or "LicenseType".
func VerboseName(typeName, lang string) string {
	return i18n.T(lang, "model."+strings.ToLower(typeName))
}

func VerboseNamePlural(typeName, lang string) string {
	return i18n.T(lang, "model."+strings.ToLower(typeName)+".plural")
}
