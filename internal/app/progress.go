package app

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/Frans-Willem/WadeHerringboneGears/internal/render"
)

// progress tracks the running batch for the status endpoint.
type progress struct {
	mu        sync.Mutex
	total     int
	started   int
	succeeded int
	cancelled int
	failed    []string
	running   map[int]string
	done      bool
}

// progressSnapshot is the JSON document served at /status.
type progressSnapshot struct {
	Total     int      `json:"total"`
	Started   int      `json:"started"`
	Succeeded int      `json:"succeeded"`
	Cancelled int      `json:"cancelled"`
	Failed    []string `json:"failed"`
	Running   []string `json:"running"`
	Done      bool     `json:"done"`
}

var _ render.Notifier = (*progress)(nil)

func (p *progress) begin(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.total = total
	p.running = make(map[int]string)
}

func (p *progress) finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done = true
}

// RenderStarted implements render.Notifier.
func (p *progress) RenderStarted(_ context.Context, job render.Job) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.started++
	if p.running == nil {
		p.running = make(map[int]string)
	}
	p.running[job.Index] = job.Name
}

// RenderFinished implements render.Notifier.
func (p *progress) RenderFinished(_ context.Context, res render.Result) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.running, res.Index)
	switch {
	case res.Cancelled:
		p.cancelled++
	case res.Failed():
		p.failed = append(p.failed, res.Name)
	default:
		p.succeeded++
	}
}

func (p *progress) snapshot() progressSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := progressSnapshot{
		Total:     p.total,
		Started:   p.started,
		Succeeded: p.succeeded,
		Cancelled: p.cancelled,
		Failed:    append([]string{}, p.failed...),
		Running:   make([]string, 0, len(p.running)),
		Done:      p.done,
	}
	for _, i := range slices.Sorted(maps.Keys(p.running)) {
		s.Running = append(s.Running, p.running[i])
	}
	return s
}
