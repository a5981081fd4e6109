// Package i18n serves localized message catalogs.
//
// Catalogs are nested key/value trees, one per language, loaded through a
// TranslationAdapter from a map, a single file or any fs.FS (embedded or on
// disk). Keys are dot separated ("validation.minLength") and templates use
// {{ name }} placeholders.
//
// Language tags are canonicalised with golang.org/x/text/language, so
// "pt-br", "pt_BR" and "pt-BR" name the same catalog, and requests for a
// language without a catalog are matched to the closest one or to the
// default language.
//
// # Usage
//
//	tr, err := i18n.NewTranslator(ctx,
//		i18n.NewFSAdapter(i18n.NewYAMLParser(), validator.Locales, "locales"),
//		i18n.WithDefaultLanguage("pt-BR"),
//	)
//	if err != nil {
//		return err
//	}
//
//	msg := tr.T("en-US", "validation.minLength", map[string]any{"min": 3})
//	// msg == "Must be at least 3 characters long"
//
// # HTTP
//
// Middleware stores the negotiated language in the request context, where
// Tc and GetLocale pick it up:
//
//	r.Use(i18n.Middleware(i18n.DefaultLangExtractor(
//		i18n.WithSupportedLanguages(tr.Languages()...),
//	)))
//
// # Reloading
//
// NewWatcher follows a catalog directory with fsnotify and calls Reload when
// a .yaml, .yml or .json file changes. A reload that fails keeps the
// catalogs already loaded.
//
// Plural forms and locale aware number formatting are out of scope.
package i18n
