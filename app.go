package main

import (
	"context"
	"encoding/base64"
	"errors"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/wailsapp/wails/v2/pkg/runtime"

	"github.com/chazu/meshlens/pkg/advisor"
	"github.com/chazu/meshlens/pkg/analysis"
	"github.com/chazu/meshlens/pkg/config"
	"github.com/chazu/meshlens/pkg/logging"
	"github.com/chazu/meshlens/pkg/mesh"
	"github.com/chazu/meshlens/pkg/topology"
)

// Events pushed to the frontend while a recommendation streams.
const (
	EventChunk = "advisor:chunk"
	EventDone  = "advisor:done"
	EventError = "advisor:error"
)

// App is the Wails backend. It exposes methods to the frontend via bindings.
type App struct {
	ctx     context.Context
	session *analysis.Session
	advisor *advisor.Advisor
	logger  *log.Logger
	emit    func(event string, data ...interface{})

	mu       sync.Mutex
	streamID uint64
	cancel   context.CancelFunc
}

// AnalyzeResult is returned to the frontend after a file is loaded. On
// failure Error is set, Stats and Validation are nil, and Render is empty
// but non-nil.
type AnalyzeResult struct {
	Name         string           `json:"name"`
	Format       string           `json:"format"`
	Stats        *mesh.Stats      `json:"stats"`
	Validation   *topology.Result `json:"validation"`
	DroppedFaces int              `json:"droppedFaces"`
	Render       mesh.Render      `json:"render"`
	Error        string           `json:"error"`
}

// RecommendParams are the user's choices for a recommendation. Geometry
// counts come from the loaded mesh.
type RecommendParams struct {
	Description string   `json:"description"`
	Material    string   `json:"material"`
	Methods     []string `json:"methods"`
	Goal        string   `json:"goal"`
}

// StreamEvent is the payload of every advisor event. Text is the answer so
// far; ID identifies the stream so the frontend can ignore stale ones.
type StreamEvent struct {
	ID    uint64 `json:"id"`
	Text  string `json:"text"`
	Error string `json:"error,omitempty"`
}

// AdvisorOptions lists the choices offered in the recommendation form.
type AdvisorOptions struct {
	Materials   []string `json:"materials"`
	Methods     []string `json:"methods"`
	Goals       []string `json:"goals"`
	DefaultGoal string   `json:"defaultGoal"`
}

// NewApp creates an App talking to the model endpoint named in cfg.
func NewApp(cfg config.Config, logger *log.Logger) *App {
	a := cfg.Advisor
	return newApp(cfg, advisor.NewOpenAIBackend(a.BaseURL, a.APIKey(), a.Model), logger)
}

func newApp(cfg config.Config, b advisor.Backend, logger *log.Logger) *App {
	logger = logging.Or(logger)
	analyzer := &analysis.Analyzer{MaxFileBytes: cfg.Analysis.MaxFileBytes, Logger: logger}
	return &App{
		ctx:     context.Background(),
		session: analysis.NewSession(analyzer),
		advisor: advisor.New(b, cfg.Advisor.Timeout(), logger),
		logger:  logger,
		emit:    func(string, ...interface{}) {},
	}
}

// startup is called by Wails on app startup. The context is saved
// so events can be emitted through the Wails runtime.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
	a.emit = func(event string, data ...interface{}) {
		runtime.EventsEmit(ctx, event, data...)
	}
	a.logger.Info("app started", "session", a.session.ID)
}

// shutdown stops any running stream.
func (a *App) shutdown(context.Context) {
	a.session.Close()
}

// Analyze loads a file sent by the frontend as base64. The previous mesh
// is replaced, and any running recommendation is cancelled, whether or not
// the new file loads.
func (a *App) Analyze(name, data string) AnalyzeResult {
	result := AnalyzeResult{
		Name:   name,
		Render: mesh.Present(&mesh.Mesh{}),
	}

	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		a.session.Clear()
		result.Error = "invalid upload encoding: " + err.Error()
		return result
	}

	r, err := a.session.Load(name, raw)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	result.Format = r.Format.String()
	result.Stats = &r.Stats
	result.Validation = &r.Validation
	result.DroppedFaces = r.Mesh.DroppedFaces
	result.Render = mesh.Present(r.Mesh)
	return result
}

// Recommend starts streaming a recommendation for the loaded mesh and
// returns its stream ID. Chunks arrive as EventChunk events; the stream
// ends with exactly one EventDone or EventError. A running stream is
// cancelled first.
func (a *App) Recommend(p RecommendParams) (uint64, error) {
	ctx, cancel, r, err := a.session.Bind(a.ctx)
	if err != nil {
		if errors.Is(err, analysis.ErrNoMesh) {
			return 0, errors.New("load a mesh first")
		}
		return 0, err
	}

	a.mu.Lock()
	if a.cancel != nil {
		a.cancel()
	}
	a.streamID++
	id := a.streamID
	a.cancel = cancel
	a.mu.Unlock()

	events := a.advisor.Stream(ctx, advisor.Request{
		Description: p.Description,
		Material:    p.Material,
		Methods:     p.Methods,
		Goal:        p.Goal,
		VertexCount: r.Stats.VertexCount,
		FaceCount:   r.Stats.FaceCount,
	})
	go a.forward(id, events, cancel)
	return id, nil
}

func (a *App) forward(id uint64, events <-chan advisor.Event, cancel context.CancelFunc) {
	defer func() {
		cancel()
		a.mu.Lock()
		if a.streamID == id {
			a.cancel = nil
		}
		a.mu.Unlock()
	}()

	for ev := range events {
		switch {
		case ev.Err != nil:
			a.emit(EventError, StreamEvent{ID: id, Text: ev.Text, Error: ev.Err.Error()})
		case ev.Done:
			a.emit(EventDone, StreamEvent{ID: id, Text: ev.Text})
		default:
			a.emit(EventChunk, StreamEvent{ID: id, Text: ev.Text})
		}
	}
}

// Cancel stops the running recommendation, if any.
func (a *App) Cancel() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cancel != nil {
		a.cancel()
	}
}

// Options returns the recommendation form choices.
func (a *App) Options() AdvisorOptions {
	return AdvisorOptions{
		Materials:   advisor.Materials,
		Methods:     advisor.Methods,
		Goals:       advisor.Goals,
		DefaultGoal: advisor.DefaultGoal,
	}
}
