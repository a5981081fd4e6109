// Package api exposes the validation engine over HTTP with a chi router.
//
// Every body is a JSON envelope {"data": ..., "error": {"code", "message",
// "details"}}. Messages are rendered in the language negotiated by the i18n
// middleware (lang cookie, lang query parameter, Language or
// Accept-Language header).
//
//	GET    /healthz
//	GET    /v1/rules
//	GET    /v1/messages
//	POST   /v1/validate
//	POST   /v1/validate/rules
//	POST   /v1/validate/fields
//	GET    /v1/forms
//	GET    /v1/forms/{name}
//	PUT    /v1/forms/{name}
//	DELETE /v1/forms/{name}
//	POST   /v1/forms/{name}/validate
//
// The forms routes exist only when a formstore.Store is configured.
package api
