// Package future provides a minimal poll-based future, used by the executor to let field
// resolvers suspend without blocking sibling work in the same selection set.
package future

import "reflect"

// Result holds either a value or an error produced by a resolved Future.
type Result struct {
	Value interface{}
	Error error
}

// IsOk reports whether the result holds a value rather than an error. A typed nil error (e.g. a
// nil *MyError stored in the error interface) is treated as ok, matching Go's usual "nil error
// means success" convention even when the concrete type isn't the bare error interface.
func (r Result) IsOk() bool {
	return r.Error == nil || reflect.ValueOf(r.Error).IsNil()
}

// IsErr reports whether the result holds an error.
func (r Result) IsErr() bool {
	return !r.IsOk()
}

// Future is a result that becomes available at some later point, polled until ready. It plays the
// same role as Rust's Future trait, minus an async runtime: callers drive progress by calling
// Poll repeatedly (typically from an idle handler) until IsReady returns true.
type Future struct {
	result Result
	poll   func() (Result, bool)
}

// New builds a Future from a poll function. poll should return (Result{}, false) while the value
// isn't ready yet, and (result, true) exactly once when it is.
func New(poll func() (Result, bool)) Future {
	return Future{poll: poll}
}

// Ok builds a Future that is immediately ready with v.
func Ok(v interface{}) Future {
	return Future{result: Result{Value: v}}
}

// Err builds a Future that is immediately ready with err.
func Err(err error) Future {
	return Future{result: Result{Error: err}}
}

// IsReady reports whether the future's result is available.
func (f Future) IsReady() bool {
	return f.poll == nil
}

// Result returns the future's result. Only meaningful once IsReady is true.
func (f Future) Result() Result {
	return f.result
}

// Poll advances the future toward readiness, invoking its poll function at most once per call.
func (f *Future) Poll() {
	if f.poll == nil {
		return
	}
	if result, done := f.poll(); done {
		f.result, f.poll = result, nil
	}
}

// Map transforms a future's result (value or error) once it resolves.
func (f Future) Map(transform func(Result) Result) Future {
	if f.IsReady() {
		return Future{result: transform(f.result)}
	}
	inner := f.poll
	return New(func() (Result, bool) {
		if result, done := inner(); done {
			return transform(result), true
		}
		return Result{}, false
	})
}

// MapOk transforms a future's value, leaving an error result untouched.
func (f Future) MapOk(transform func(interface{}) interface{}) Future {
	return f.Map(func(r Result) Result {
		if r.IsOk() {
			r.Value = transform(r.Value)
		}
		return r
	})
}

// Then chains a dependent future once f resolves: next is called with f's result and its return
// value becomes the continuation of the chain.
func (f Future) Then(next func(Result) Future) Future {
	if f.IsReady() {
		return next(f.result)
	}

	inner := f.poll
	var continuation Future
	var started bool
	return New(func() (Result, bool) {
		if !started {
			result, done := inner()
			if !done {
				return Result{}, false
			}
			continuation = next(result)
			started = true
		}
		continuation.Poll()
		return continuation.result, continuation.IsReady()
	})
}

// pollRemaining polls every not-yet-ready future in fs, reporting whether all are now ready and
// the first error result encountered, if any.
func pollRemaining(fs []Future) (allReady bool, failure Result, failed bool) {
	allReady = true
	for i := range fs {
		if fs[i].IsReady() {
			continue
		}
		fs[i].Poll()
		if !fs[i].IsReady() {
			allReady = false
			continue
		}
		if r := fs[i].Result(); r.IsErr() {
			return false, r, true
		}
	}
	return allReady, Result{}, false
}

// Join combines the values of fs into a single future resolving to []interface{} in the same
// order. If any future errors, the returned future resolves to that error immediately.
func Join(fs ...Future) Future {
	values := make([]interface{}, len(fs))
	for i, f := range fs {
		if f.IsReady() {
			if r := f.Result(); r.IsErr() {
				return Err(r.Error)
			} else {
				values[i] = r.Value
			}
		}
	}

	if ready, failure, failed := pollRemaining(fs); failed {
		return Err(failure.Error)
	} else if ready {
		return Ok(values)
	}

	return New(func() (Result, bool) {
		ready, failure, failed := pollRemaining(fs)
		if failed {
			return Result{Error: failure.Error}, true
		}
		for i, f := range fs {
			if f.IsReady() {
				values[i] = f.Result().Value
			}
		}
		if ready {
			return Result{Value: values}, true
		}
		return Result{}, false
	})
}

// After resolves once every future in fs has resolved, or as soon as any one of them errors.
// Unlike Join, the resolved value is always nil, which avoids allocating a values slice when
// callers only care about completion and error propagation.
func After(fs ...Future) Future {
	for _, f := range fs {
		if f.IsReady() {
			if r := f.Result(); r.IsErr() {
				return Err(r.Error)
			}
		}
	}

	if ready, failure, failed := pollRemaining(fs); failed {
		return Err(failure.Error)
	} else if ready {
		return Ok(nil)
	}

	return New(func() (Result, bool) {
		ready, failure, failed := pollRemaining(fs)
		if failed {
			return Result{Error: failure.Error}, true
		}
		if ready {
			return Result{}, true
		}
		return Result{}, false
	})
}
