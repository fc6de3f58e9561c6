package sonic_test

import (
	"testing"

	"doclingo/internal/codec/codectest"
	"doclingo/internal/codec/sonic"
)

func TestSerializer(t *testing.T) {
	codectest.Run(t, sonic.New(), sonic.Name)
}
