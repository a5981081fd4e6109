// Package httpserver runs an http.Handler with sane timeouts and graceful
// shutdown on context cancellation, SIGINT or SIGTERM.
//
//	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, router); err != nil {
//	    return err
//	}
//
// Errors are wrapped with ErrStart or ErrShutdown for errors.Is checks.
package httpserver
