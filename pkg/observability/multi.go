package observability

import (
	"context"
	"time"
)

// MultiResolution fans resolution events out to every non-nil hook in order.
func MultiResolution(hooks ...ResolutionHooks) ResolutionHooks {
	var m multiResolution
	for _, h := range hooks {
		if h != nil {
			m = append(m, h)
		}
	}
	if len(m) == 0 {
		return NoopResolutionHooks{}
	}
	if len(m) == 1 {
		return m[0]
	}
	return m
}

type multiResolution []ResolutionHooks

func (m multiResolution) OnStageStart(ctx context.Context, ecosystem, stage string) {
	for _, h := range m {
		h.OnStageStart(ctx, ecosystem, stage)
	}
}

func (m multiResolution) OnStageComplete(ctx context.Context, ecosystem, stage, outcome string, d time.Duration, err error) {
	for _, h := range m {
		h.OnStageComplete(ctx, ecosystem, stage, outcome, d, err)
	}
}

// MultiHTTP fans HTTP events out to every non-nil hook in order.
func MultiHTTP(hooks ...HTTPHooks) HTTPHooks {
	var m multiHTTP
	for _, h := range hooks {
		if h != nil {
			m = append(m, h)
		}
	}
	if len(m) == 0 {
		return NoopHTTPHooks{}
	}
	if len(m) == 1 {
		return m[0]
	}
	return m
}

type multiHTTP []HTTPHooks

func (m multiHTTP) OnRequest(ctx context.Context, method, host, path string) {
	for _, h := range m {
		h.OnRequest(ctx, method, host, path)
	}
}

func (m multiHTTP) OnResponse(ctx context.Context, method, host, path string, status int, d time.Duration) {
	for _, h := range m {
		h.OnResponse(ctx, method, host, path, status, d)
	}
}

func (m multiHTTP) OnError(ctx context.Context, method, host, path string, err error) {
	for _, h := range m {
		h.OnError(ctx, method, host, path, err)
	}
}
