// Package logging carries log output from lilv worlds to the application's
// logger.
//
// A World logs at debug level when it is created, when a node is first
// materialized and when it is destroyed, and at error level when native
// teardown reports failures. The same messages are emitted whether Close was
// called explicitly or the world was released after becoming unreachable.
// Worlds built without WithLogger use Discard.
//
// Two backends are provided. New writes through log/slog:
//
//	w, err := lilv.NewWorld(lilv.WithLogger(logging.New(slog.Default())))
//
// NewZap writes through a zap logger using its sugared key/value form, which
// is how cmd/lilvworld logs:
//
//	zl, _ := zap.NewProduction()
//	w, err := lilv.NewWorld(lilv.WithLogger(logging.NewZap(zl)))
//
// Arguments are alternating key/value pairs in both cases, for example
// "identifier", "lv2:AudioPort".
package logging
