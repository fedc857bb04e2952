// Package log provides the slog setup for column2pdf.
//
// Logs go to stderr so that reports written to stdout stay machine readable.
// Every logger built here wraps its handler in a SecureHandler, which masks
// session material before it reaches the output:
//   - cookie jars and single cookie values (the column is often read logged in)
//   - Xueqiu session tokens such as xq_a_token and xq_r_token
//   - bearer and JWT tokens found in attribute values
//   - token query parameters embedded in URLs
//
// # Usage
//
//	logger := log.New(os.Stderr, log.Options{Verbose: verbose, JSON: logJSON})
//	slog.SetDefault(logger)
//
//	logger.Info("cookies applied", "cookies", cfg.Cookies) // masked
package log
