package validator

import "embed"

// Locales holds the message catalogs shipped with the package, one YAML file
// per language, keyed as validation.<rule>.
//
//go:embed locales/*.yaml
var Locales embed.FS

// SourceLanguage is the language DefaultMessages is written in.
const SourceLanguage = "pt-BR"
