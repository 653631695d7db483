package mocks

import (
	"context"

	"campus/infras/otel"
)

// NewOtel returns a tracer whose scopes discard everything.
func NewOtel() otel.Otel {
	return noopOtel{}
}

type noopOtel struct{}

func (noopOtel) NewScope(ctx context.Context, _, _ string) (context.Context, otel.Scope) {
	return ctx, noopScope{}
}

func (noopOtel) Shutdown(context.Context) error {
	return nil
}

type noopScope struct{}

func (noopScope) End() {}
func (noopScope) TraceError(error) {}
func (noopScope) TraceIfError(error) {}
func (noopScope) AddEvent(string) {}
func (noopScope) SetAttribute(string, any) {}
func (noopScope) SetAttributes(map[string]any) {}
