package otel_test

import (
	"testing"
	"time"

	"campus/infras/otel"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
)

type slotName int

func (s slotName) String() string {
	return "slot"
}

func TestAttribute(t *testing.T) {
	at := time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		value any
		want  attribute.Value
	}{
		{name: "bool", value: true, want: attribute.BoolValue(true)},
		{name: "int64 id", value: int64(42), want: attribute.Int64Value(42)},
		{name: "int", value: 3, want: attribute.IntValue(3)},
		{name: "instant", value: at, want: attribute.StringValue("2025-03-10T18:00:00Z")},
		{name: "duration", value: time.Hour, want: attribute.StringValue("1h0m0s")},
		{name: "stringer", value: slotName(1), want: attribute.StringValue("slot")},
		{name: "ids", value: []int64{1, 2}, want: attribute.Int64SliceValue([]int64{1, 2})},
		{name: "fallback", value: struct{ A int }{A: 1}, want: attribute.StringValue("{1}")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := otel.Attribute("key", tt.value)

			assert.Equal(t, attribute.Key("key"), kv.Key)
			assert.Equal(t, tt.want, kv.Value)
		})
	}
}
