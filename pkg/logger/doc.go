// Package logger builds *slog.Logger values from functional options and
// decorates their handlers with ContextExtractor callbacks, so request scoped
// values such as the request id or the negotiated language show up on every
// record logged with a context.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithEnvironment(cfg.Env, "formrules"),
//	    logger.WithContextExtractors(requestIDFromContext),
//	)
//	logger.SetAsDefault(log)
//
//	log.InfoContext(ctx, "form validated",
//	    logger.Form("signup"),
//	    logger.FailedFields(2),
//	    logger.Duration(time.Since(start)),
//	)
//
// # Configuration
//
//   - WithDevelopment, WithStaging, WithProduction and WithEnvironment pick
//     level and format for a deployment.
//   - WithFormat, WithTextFormatter and WithJSONFormatter override the format.
//   - WithLevel sets the minimum level; ParseLevel reads one from config.
//   - WithAttr attaches static attributes.
//   - WithContextExtractors and WithContextValue inject attributes from context.
//
// Error and Errors return an empty Attr for nil errors, which slog drops, so
// they can be passed without a nil check.
package logger
