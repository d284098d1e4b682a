// Package logging builds the slog logger shared by the binaries and carries
// request-scoped loggers through contexts.
//
//	logger := logging.NewLogger(logging.Options{})
//	slog.SetDefault(logger)
//
//	func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
//	    log := logging.WithRequestID(r.Context(), slog.Default())
//	    log.Info("decoding page")
//	}
package logging
