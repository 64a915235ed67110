package llm

import (
	"context"
)

// Client sends one request to a single provider. Every failure it returns is
// an *Error whose Kind says whether the model, the API, or something else
// was at fault.
type Client interface {
	Synchronous(ctx context.Context, req *Request) (*Response, error)
}

// Middleware observes or rewrites a question on its way to the provider.
type Middleware interface {
	// BeforeRequest may replace the request. A non-nil error stops the
	// call before anything is sent.
	BeforeRequest(ctx context.Context, req *Request) (*Request, error)

	// AfterResponse may replace the answer. Returning a nil response
	// without an error is reported to the caller as an unexpected failure.
	AfterResponse(ctx context.Context, req *Request, resp *Response) (*Response, error)

	// OnError sees every provider failure. A nil return keeps err as is,
	// which is what an observer such as a logger should do.
	OnError(ctx context.Context, req *Request, err error) error
}

// MiddlewareFunc adapts plain functions to Middleware. Unset hooks pass
// their input through.
type MiddlewareFunc struct {
	BeforeRequestFunc func(ctx context.Context, req *Request) (*Request, error)
	AfterResponseFunc func(ctx context.Context, req *Request, resp *Response) (*Response, error)
	OnErrorFunc       func(ctx context.Context, req *Request, err error) error
}

func (f MiddlewareFunc) BeforeRequest(ctx context.Context, req *Request) (*Request, error) {
	if f.BeforeRequestFunc != nil {
		return f.BeforeRequestFunc(ctx, req)
	}
	return req, nil
}

func (f MiddlewareFunc) AfterResponse(ctx context.Context, req *Request, resp *Response) (*Response, error) {
	if f.AfterResponseFunc != nil {
		return f.AfterResponseFunc(ctx, req, resp)
	}
	return resp, nil
}

func (f MiddlewareFunc) OnError(ctx context.Context, req *Request, err error) error {
	if f.OnErrorFunc != nil {
		return f.OnErrorFunc(ctx, req, err)
	}
	return nil
}

// WrapWithMiddleware returns client decorated with middleware. BeforeRequest
// hooks run in order and AfterResponse hooks in reverse, so the first
// middleware sees both the outgoing question and the final answer.
func WrapWithMiddleware(client Client, middleware ...Middleware) Client {
	if len(middleware) == 0 {
		return client
	}
	return &clientWithMiddleware{
		client:     client,
		middleware: middleware,
	}
}

type clientWithMiddleware struct {
	client     Client
	middleware []Middleware
}

func (c *clientWithMiddleware) Synchronous(ctx context.Context, req *Request) (*Response, error) {
	for _, mw := range c.middleware {
		var err error
		req, err = mw.BeforeRequest(ctx, req)
		if err != nil {
			return nil, err
		}
		if req == nil {
			return nil, NewUnexpectedFailure("middleware returned no request", nil)
		}
	}

	resp, err := c.client.Synchronous(ctx, req)
	if err != nil {
		for _, mw := range c.middleware {
			if handled := mw.OnError(ctx, req, err); handled != nil {
				err = handled
			}
		}
		return nil, err
	}

	for i := len(c.middleware) - 1; i >= 0; i-- {
		var err error
		resp, err = c.middleware[i].AfterResponse(ctx, req, resp)
		if err != nil {
			return nil, err
		}
		if resp == nil {
			return nil, NewUnexpectedFailure("middleware returned no response", nil)
		}
	}

	return resp, nil
}

var _ Client = (*clientWithMiddleware)(nil)
