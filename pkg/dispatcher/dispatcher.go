package dispatcher

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strconv"

	"github.com/tracelight/tracelight/pkg/registry"
)

const logPrefix = "dispatcher:dispatch"

// Dispatcher routes diagnostic requests to channel registry methods.
type Dispatcher struct {
	registry *registry.Registry
}

// NewDispatcher creates a new Dispatcher.
func NewDispatcher(reg *registry.Registry) *Dispatcher {
	return &Dispatcher{registry: reg}
}

// Dispatch routes a request to the matching method and returns a response.
// Panics in handlers are caught and converted to structured errors, so a
// single failing diagnostic call cannot end the inspector session. The
// request context's deadline is enforced on entry; handlers themselves are
// in-memory and do not block.
func (d *Dispatcher) Dispatch(ctx context.Context, req *DiagnosticRequest) (resp *DiagnosticResponse) {
	slog.Debug(fmt.Sprintf("%s - method=%s id=%s", logPrefix, req.Method, req.ID))

	defer func() {
		if rec := recover(); rec != nil {
			resp = errorResponse(req.ID, req.Method, fmt.Sprintf("panic: %v", rec))
		}
	}()

	if err := ctx.Err(); err != nil {
		return errorResponse(req.ID, req.Method, fmt.Sprintf("request context done: %v", err))
	}

	switch req.Method {
	case "setChannel":
		return d.handleSetChannel(req)
	case "listChannels":
		return d.handleListChannels(req)
	default:
		return errorResponse(req.ID, req.Method, fmt.Sprintf("unknown method: %s", req.Method))
	}
}

func (d *Dispatcher) handleSetChannel(req *DiagnosticRequest) *DiagnosticResponse {
	var params SetChannelParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errorResponse(req.ID, req.Method, "failed to parse setChannel params")
	}
	if params.Channel == "" {
		return errorResponse(req.ID, req.Method, "setChannel requires a channel name")
	}

	enable, err := strconv.ParseBool(params.Enable)
	if err != nil {
		return errorResponse(req.ID, req.Method, fmt.Sprintf("invalid enable value %q", params.Enable))
	}

	d.registry.SetEnabled(params.Channel, enable)

	// Empty acknowledgment.
	return &DiagnosticResponse{ID: req.ID, Ok: true, Result: struct{}{}}
}

func (d *Dispatcher) handleListChannels(req *DiagnosticRequest) *DiagnosticResponse {
	infos := d.registry.List()

	channels := make(map[string]ChannelDescription, len(infos))
	for _, info := range infos {
		channels[info.Name] = ChannelDescription{
			Enabled:     strconv.FormatBool(info.Enabled),
			Description: info.Description,
		}
	}
	return &DiagnosticResponse{ID: req.ID, Ok: true, Result: &ListChannelsResult{Channels: channels}}
}

// errorResponse wraps an internal fault into the diagnostic error shape,
// capturing the current stack.
func errorResponse(id, method, exception string) *DiagnosticResponse {
	return &DiagnosticResponse{
		ID: id,
		Ok: false,
		Error: &ErrorDetail{
			Exception: exception,
			Stack:     string(debug.Stack()),
			Method:    method,
		},
	}
}
