// Package server orchestrates all components: NATS client, channel registry,
// listeners, diagnostic dispatcher, HTTP status page.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	comms "github.com/nats-io/nats.go"

	"github.com/tracelight/tracelight/internal/config"
	"github.com/tracelight/tracelight/pkg/bootstrap"
	"github.com/tracelight/tracelight/pkg/commsutil"
	"github.com/tracelight/tracelight/pkg/devlog"
	"github.com/tracelight/tracelight/pkg/dispatcher"
	"github.com/tracelight/tracelight/pkg/events"
	"github.com/tracelight/tracelight/pkg/httptrace"
	"github.com/tracelight/tracelight/pkg/registry"
)

const logPrefix = "server:server"

// Server is the tracelight service orchestrator.
type Server struct {
	cfg        *config.Config
	nc         *comms.Conn
	httpServer *http.Server
	reg        *registry.Registry
	factory    *httptrace.Factory
	started    time.Time
}

// Run starts the service, blocks until a shutdown signal, then cleans up.
func Run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("%s - failed to load config: %w", logPrefix, err)
	}
	if err := cfg.ValidateForServe(); err != nil {
		return err
	}

	slog.SetDefault(devlog.New(devlog.Config{
		Level:  devlog.ParseLevel(cfg.LogLevel),
		Format: devlog.ParseFormat(cfg.LogFormat),
		Output: os.Stdout,
	}))
	slog.Info(fmt.Sprintf("%s - Starting tracelight", logPrefix))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := &Server{cfg: cfg, started: time.Now()}

	// Step 1: Registry, developer-log sink, HTTP instrumentation
	reg := registry.NewRegistry(registry.NewRegistryParams{
		Listeners: []registry.Listener{devlog.NewSink(slog.Default())},
	})
	s.reg = reg

	s.factory = httptrace.NewFactory(reg)
	httptrace.InstallOnEnable(reg, s.factory)
	if err := httptrace.RegisterChannel(reg); err != nil {
		return fmt.Errorf("%s - register http channel: %w", logPrefix, err)
	}

	// Step 2: Channel definitions
	channelsCfg, err := bootstrap.LoadChannelsConfig(cfg.ChannelsFile)
	if err != nil {
		return fmt.Errorf("%s - failed to load channel definitions: %w", logPrefix, err)
	}
	if err := bootstrap.Apply(channelsCfg, reg); err != nil {
		return fmt.Errorf("%s - failed to apply channel definitions: %w", logPrefix, err)
	}

	// Step 3: COMMS connection
	nc, err := commsutil.Connect(cfg.COMMSURL, cfg.COMMSName)
	if err != nil {
		return err
	}
	s.nc = nc

	// Step 4: Entry stream (optional)
	if cfg.EntryStream {
		publisherOpts := &events.CommsPublisherOpts{}
		if cfg.EntryStreamSubject != "" {
			publisherOpts.GlobalEntrySubject = cfg.EntryStreamSubject
		}
		reg.AddListener(events.NewPublisherListener(events.NewCommsPublisher(nc, publisherOpts)))
		slog.Info(fmt.Sprintf("%s - Entry stream enabled", logPrefix))
	}

	// Step 5: Diagnostic dispatcher
	disp := dispatcher.NewDispatcher(reg)

	diagnosticSubject := cfg.DiagnosticSubject
	if diagnosticSubject == "" {
		diagnosticSubject = commsutil.SubjectDiagnostic
	}

	requestTimeout := cfg.RequestTimeout
	sub, err := nc.Subscribe(diagnosticSubject, func(msg *comms.Msg) {
		var req dispatcher.DiagnosticRequest
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			slog.Error(fmt.Sprintf("%s - failed to decode request: %v", logPrefix, err))
			resp := &dispatcher.DiagnosticResponse{
				Ok:    false,
				Error: &dispatcher.ErrorDetail{Exception: "failed to decode request"},
			}
			data, _ := json.Marshal(resp)
			msg.Respond(data)
			return
		}

		reqCtx, reqCancel := context.WithTimeout(ctx, requestTimeout)
		defer reqCancel()

		resp := disp.Dispatch(reqCtx, &req)

		data, err := json.Marshal(resp)
		if err != nil {
			slog.Error(fmt.Sprintf("%s - failed to encode response: %v", logPrefix, err))
			return
		}
		msg.Respond(data)
	})
	if err != nil {
		nc.Close()
		return fmt.Errorf("%s - failed to subscribe to %s: %w", logPrefix, diagnosticSubject, err)
	}
	slog.Info(fmt.Sprintf("%s - Subscribed to %s", logPrefix, diagnosticSubject))

	// Step 6: HTTP status server
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleHome())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(s.health())
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ready"})
	})

	httpAddr := fmt.Sprintf(":%d", cfg.HTTPPort)
	s.httpServer = &http.Server{Addr: httpAddr, Handler: mux}
	go func() {
		slog.Info(fmt.Sprintf("%s - HTTP status server listening on %s", logPrefix, httpAddr))
		if err := s.httpServer.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error(fmt.Sprintf("%s - HTTP server error: %v", logPrefix, err))
		}
	}()

	slog.Info(fmt.Sprintf("%s - tracelight is ready", logPrefix))

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	slog.Info(fmt.Sprintf("%s - Received signal %s, shutting down", logPrefix, sig))

	// Graceful shutdown
	sub.Unsubscribe()
	s.httpServer.Shutdown(ctx)
	nc.Drain()

	slog.Info(fmt.Sprintf("%s - Shutdown complete", logPrefix))
	return nil
}

// healthOutput is the /health response body.
type healthOutput struct {
	Status        string `json:"status"`
	Channels      int    `json:"channels"`
	Enabled       int    `json:"enabled"`
	HTTPInstalled bool   `json:"httpInstalled"`
	UptimeSeconds int64  `json:"uptimeSeconds"`
	Timestamp     string `json:"timestamp"`
}

func (s *Server) health() *healthOutput {
	infos := s.reg.List()
	enabled := 0
	for _, info := range infos {
		if info.Enabled {
			enabled++
		}
	}
	return &healthOutput{
		Status:        "healthy",
		Channels:      len(infos),
		Enabled:       enabled,
		HTTPInstalled: s.factory.Installed(),
		UptimeSeconds: int64(time.Since(s.started).Seconds()),
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
	}
}

// homePageTemplate is the HTML for the status home page.
const homePageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>tracelight</title>
  <style>
    * { box-sizing: border-box; }
    body { background: #fff; color: #000; font-family: system-ui, sans-serif; margin: 0; padding: 2rem; line-height: 1.5; }
    a { color: #0066cc; }
    h1, h2 { color: #0066cc; }
    table { border-collapse: collapse; width: 100%; max-width: 700px; margin-top: 0.5rem; }
    th, td { text-align: left; padding: 0.5rem 0.75rem; border: 1px solid #ccc; }
    th { background: #f0f4f8; color: #0066cc; }
    .on { color: #0066cc; font-weight: bold; }
    .off { color: #666; }
    .meta { color: #333; font-size: 0.9rem; margin-top: 1rem; }
    section { margin-bottom: 2rem; }
  </style>
</head>
<body>
  <h1>tracelight</h1>
  <p class="meta">Channel registry state and service health.</p>

  <section>
    <h2>Health</h2>
    <p>Status: <span class="on">{{.Health.Status}}</span></p>
    <p>HTTP instrumentation installed: {{.Health.HTTPInstalled}}</p>
    <p>Uptime: {{.Health.UptimeSeconds}}s</p>
  </section>

  <section>
    <h2>Channels</h2>
    {{if not .Channels}}
    <p>No channels registered.</p>
    {{else}}
    <table>
      <thead>
        <tr><th>Channel</th><th>Description</th><th>Enabled</th></tr>
      </thead>
      <tbody>
        {{range .Channels}}
        <tr>
          <td>{{.Name}}</td>
          <td>{{.Description}}</td>
          <td>{{if .Enabled}}<span class="on">enabled</span>{{else}}<span class="off">disabled</span>{{end}}</td>
        </tr>
        {{end}}
      </tbody>
    </table>
    {{end}}
  </section>
</body>
</html>
`

// homeData is the data passed to the home page template.
type homeData struct {
	Health   *healthOutput
	Channels []registry.ChannelInfo
}

// handleHome returns an HTTP handler for the status home page.
func (s *Server) handleHome() http.HandlerFunc {
	tmpl := template.Must(template.New("home").Parse(homePageTemplate))
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}

		data := homeData{Health: s.health(), Channels: s.reg.List()}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := tmpl.Execute(w, data); err != nil {
			slog.Error(fmt.Sprintf("%s - home template execute: %v", logPrefix, err))
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
	}
}
