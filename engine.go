// Package graphkit provides a thin, request-scoped wrapper around the graphql package: logging,
// error wrapping, and the asynchronous resolver plumbing needed to let field resolvers suspend on
// I/O without blocking the rest of a selection set.
package graphkit

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/graphkit-go/graphkit/graphql"
	"github.com/graphkit-go/graphkit/graphql/executor"
)

// Engine executes GraphQL requests against a fixed schema.
type Engine struct {
	schema *graphql.Schema
	logger logrus.FieldLogger
}

// NewEngine validates and wraps a schema definition for execution.
func NewEngine(def *graphql.SchemaDefinition, logger logrus.FieldLogger) (*Engine, error) {
	schema, err := graphql.NewSchema(def)
	if err != nil {
		return nil, errors.Wrap(err, "error building graphql schema")
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Engine{
		schema: schema,
		logger: logger,
	}, nil
}

// Schema returns the engine's underlying schema.
func (e *Engine) Schema() *graphql.Schema {
	return e.schema
}

// asyncResolution pairs an async resolver's result with the promise it must be delivered to.
type asyncResolution struct {
	Result executor.ResolveResult
	Dest   executor.ResolvePromise
}

// requestState tracks the in-flight asynchronous resolutions for a single Execute call.
type requestState struct {
	asyncResolutions chan asyncResolution
}

// IdleHandler drains at least one pending asynchronous resolution, then any others that are
// immediately available, before returning control to the executor.
func (r *requestState) IdleHandler() {
	resolution := <-r.asyncResolutions
	resolution.Dest <- resolution.Result
	for {
		select {
		case resolution := <-r.asyncResolutions:
			resolution.Dest <- resolution.Result
		default:
			return
		}
	}
}

type requestStateContextKeyType int

var requestStateContextKey requestStateContextKeyType

func ctxRequestState(ctx context.Context) *requestState {
	return ctx.Value(requestStateContextKey).(*requestState)
}

// Async causes the given resolver to be executed in a new goroutine, concurrently with other
// asynchronous resolvers in the same selection set.
func Async(resolve func(ctx *graphql.FieldContext) (interface{}, error)) func(ctx *graphql.FieldContext) (interface{}, error) {
	return func(ctx *graphql.FieldContext) (interface{}, error) {
		state := ctxRequestState(ctx.Context)
		if state.asyncResolutions == nil {
			state.asyncResolutions = make(chan asyncResolution)
		}
		ch := make(executor.ResolvePromise, 1)
		go func() {
			v, err := resolve(ctx)
			state.asyncResolutions <- asyncResolution{
				Result: executor.ResolveResult{Value: v, Error: err},
				Dest:   ch,
			}
		}()
		return ch, nil
	}
}

// Execute runs query against the engine's schema, allowing resolvers wrapped in Async to suspend
// without blocking sibling field resolution.
func (e *Engine) Execute(ctx context.Context, query string, operationName string, variableValues map[string]interface{}, initialValue interface{}) *graphql.Response {
	state := &requestState{}
	ctx = context.WithValue(ctx, requestStateContextKey, state)

	resp := graphql.Execute(&graphql.Request{
		Context:        ctx,
		Query:          query,
		Schema:         e.schema,
		OperationName:  operationName,
		VariableValues: variableValues,
		InitialValue:   initialValue,
		IdleHandler:    state.IdleHandler,
	})

	for _, err := range resp.Errors {
		e.logger.WithField("kind", err.Kind).WithError(err).Debug("graphql error")
	}

	return resp
}
