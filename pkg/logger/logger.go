// Package logger is a thin logging facade. Backends implement Instance;
// every log call fans out to all configured backends. The process installs
// its backends once at startup via Init.
package logger

// Instance is a logging backend.
type Instance interface {
	Debug(message string, keyvals ...any)
	Info(message string, keyvals ...any)
	Warn(message string, keyvals ...any)
	Error(message string, keyvals ...any)
	Fatal(message string, keyvals ...any)
}

var instances []Instance

// Init installs the given backends, replacing any previous set. It must be
// called before logging; calls before Init are silently dropped.
func Init(backends ...Instance) {
	instances = backends
}

// Debug writes a message at DEBUG level to all configured backends.
func Debug(message string, keyvals ...any) {
	for _, instance := range instances {
		instance.Debug(message, keyvals...)
	}
}

// Info writes a message at INFO level to all configured backends.
func Info(message string, keyvals ...any) {
	for _, instance := range instances {
		instance.Info(message, keyvals...)
	}
}

// Warn writes a message at WARN level to all configured backends.
func Warn(message string, keyvals ...any) {
	for _, instance := range instances {
		instance.Warn(message, keyvals...)
	}
}

// Error writes a message at ERROR level to all configured backends.
func Error(message string, keyvals ...any) {
	for _, instance := range instances {
		instance.Error(message, keyvals...)
	}
}

// Fatal writes a message at FATAL level; backends are expected to
// terminate the process.
func Fatal(message string, keyvals ...any) {
	for _, instance := range instances {
		instance.Fatal(message, keyvals...)
	}
}
