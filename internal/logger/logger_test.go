package logger

import (
	"testing"
)

func TestNewCarriesServiceName(t *testing.T) {
	log := New("reminder-service")
	// Logging must not panic and the logger must be usable immediately.
	log.Info().Str("check", "startup").Msg("logger smoke test")
	log.Error().Stack().Err(errTest).Msg("stack marshaling on a plain error")
}

var errTest = errFixture{}

type errFixture struct{}

func (errFixture) Error() string { return "fixture error" }
