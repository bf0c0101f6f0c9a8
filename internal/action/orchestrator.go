package action

import (
	"context"
	"time"

	"github.com/simkit/sim-cli/internal/driver"
	"github.com/simkit/sim-cli/internal/model"
)

// DefaultSettle is the pause between dispatching a gesture and taking the
// post snapshot, long enough for most screen transitions to finish.
const DefaultSettle = time.Second

// Status classifies a completed or aborted cycle.
type Status string

const (
	StatusSucceeded       Status = "succeeded"
	StatusElementNotFound Status = "element-not-found"
	StatusCommandFailed   Status = "external-command-failed"
)

// Result is the outcome of one cycle. When an error is returned alongside
// it, Result still carries whatever snapshots were taken before the
// failure, so partial state stays observable.
type Result struct {
	Action   string             `yaml:"action"             json:"action"`
	Target   string             `yaml:"target"             json:"target"`
	Status   Status             `yaml:"status"             json:"status"`
	Resolved *model.Point       `yaml:"resolved,omitempty" json:"resolved,omitempty"`
	Element  *model.UIElement   `yaml:"-"                  json:"-"`
	Gesture  driver.Gesture     `yaml:"-"                  json:"-"`
	Pre      *model.Snapshot    `yaml:"-"                  json:"-"`
	Post     *model.Snapshot    `yaml:"-"                  json:"-"`
	Diff     *model.DiffSummary `yaml:"diff,omitempty"     json:"diff,omitempty"`
}

// Orchestrator runs the validated action cycle against a device driver.
// The order is fixed: pre-capture, resolve (element-addressed actions
// only), dispatch, settle, post-capture. There are no retries; every
// failure is terminal and carries its phase in the error type.
type Orchestrator struct {
	intro  driver.Introspector
	act    driver.Actuator
	settle time.Duration
}

// Option adjusts an Orchestrator.
type Option func(*Orchestrator)

// WithSettle overrides the post-dispatch pause. Zero disables it, which
// tests use to keep cycles instant.
func WithSettle(d time.Duration) Option {
	return func(o *Orchestrator) { o.settle = d }
}

// New builds an Orchestrator on the given driver halves.
func New(intro driver.Introspector, act driver.Actuator, opts ...Option) *Orchestrator {
	o := &Orchestrator{intro: intro, act: act, settle: DefaultSettle}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run executes one cycle. Parameter validation happens before any external
// call; a *ConfigError therefore comes back with a nil Result, since no
// cycle started. After the pre-capture, element resolution failures abort
// before the device is touched. Once a gesture has been dispatched the
// post-capture is always attempted, even when the dispatch failed.
func (o *Orchestrator) Run(ctx context.Context, target string, req Request) (*Result, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}

	res := &Result{Action: req.Kind(), Target: target}

	pre, err := o.intro.Capture(ctx, target, false)
	if err != nil {
		res.Status = StatusCommandFailed
		return res, err
	}
	res.Pre = pre

	var g driver.Gesture
	if te, ok := req.(TapElement); ok {
		el, found := model.Resolve(pre, te.Label)
		if !found {
			res.Status = StatusElementNotFound
			return res, &ElementNotFoundError{
				Query:        te.Label,
				ElementCount: pre.Len(),
				Labels:       model.Labels(pre),
			}
		}
		center := el.Center()
		res.Resolved = &center
		res.Element = el
		g = driver.Tap{X: center.X, Y: center.Y}
	} else {
		g, err = Translate(req, pre)
		if err != nil {
			res.Status = StatusCommandFailed
			return res, err
		}
	}

	res.Gesture = g
	dispatchErr := o.act.Perform(ctx, target, g)

	o.waitSettle(ctx)
	post, postErr := o.intro.Capture(ctx, target, false)
	res.Post = post

	if dispatchErr != nil {
		// The post snapshot above was best-effort; the dispatch failure
		// is the error that matters.
		res.Status = StatusCommandFailed
		return res, dispatchErr
	}
	if postErr != nil {
		res.Status = StatusCommandFailed
		return res, postErr
	}

	res.Diff = model.DiffSnapshots(pre, post)
	res.Status = StatusSucceeded
	return res, nil
}

func (o *Orchestrator) waitSettle(ctx context.Context) {
	if o.settle <= 0 {
		return
	}
	t := time.NewTimer(o.settle)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
