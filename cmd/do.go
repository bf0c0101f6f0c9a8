package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/simkit/sim-cli/internal/action"
	"github.com/simkit/sim-cli/internal/driver"
	"github.com/simkit/sim-cli/internal/model"
	"github.com/simkit/sim-cli/internal/output"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var doCmd = &cobra.Command{
	Use:   "do",
	Short: "Run a batch of actions from YAML on stdin",
	Long: `Run a sequence of actions from a YAML list on stdin. Each step is a
command name with its parameters as a map. Steps run sequentially, each
one through the full capture-act-capture cycle, and by default the batch
stops at the first error.

Step types: tap, tap-element, swipe, scroll, text, key, button, openurl,
wait, sleep, screenshot.

Example:
  sim-cli do --udid booted <<'EOF'
  - tap-element: { label: "Sign In" }
  - text: { text: "tester@example.com" }
  - key: { key: "tab" }
  - text: { text: "hunter2" }
  - tap-element: { label: "Submit" }
  - wait: { for-label: "Welcome", timeout: 10 }
  EOF`,
	RunE: runDo,
}

func init() {
	doCmd.Flags().Bool("stop-on-error", true, "stop the batch at the first failing step")
	rootCmd.AddCommand(doCmd)
}

// doStep is one parsed batch entry.
type doStep struct {
	Action string
	Params map[string]interface{}
}

type doStepResult struct {
	Step     int           `yaml:"step"               json:"step"`
	OK       bool          `yaml:"ok"                 json:"ok"`
	Action   string        `yaml:"action"             json:"action"`
	Status   action.Status `yaml:"status,omitempty"   json:"status,omitempty"`
	Resolved *model.Point  `yaml:"resolved,omitempty" json:"resolved,omitempty"`
	Diff     *model.DiffSummary `yaml:"diff,omitempty" json:"diff,omitempty"`
	Elapsed  string        `yaml:"elapsed,omitempty"  json:"elapsed,omitempty"`
	Error    string        `yaml:"error,omitempty"    json:"error,omitempty"`
}

type doReport struct {
	OK        bool           `yaml:"ok"              json:"ok"`
	Action    string         `yaml:"action"          json:"action"`
	Target    string         `yaml:"target"          json:"target"`
	Steps     int            `yaml:"steps"           json:"steps"`
	Completed int            `yaml:"completed"       json:"completed"`
	Error     string         `yaml:"error,omitempty" json:"error,omitempty"`
	Results   []doStepResult `yaml:"results"         json:"results"`
}

// parseSteps decodes the stdin YAML into ordered steps, enforcing exactly
// one action key per list entry.
func parseSteps(data []byte) ([]doStep, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("no steps provided on stdin — pipe a YAML list of actions")
	}
	var raw []map[string]map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing YAML steps: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("no steps provided — expected a YAML list of actions")
	}

	steps := make([]doStep, 0, len(raw))
	for i, entry := range raw {
		if len(entry) != 1 {
			return nil, fmt.Errorf("step %d: expected exactly one action key, got %d", i+1, len(entry))
		}
		for name, params := range entry {
			steps = append(steps, doStep{Action: name, Params: params})
		}
	}
	return steps, nil
}

// buildStepRequest maps an action step onto its request. Steps that do not
// run a gesture cycle (wait, sleep, screenshot) are handled elsewhere.
func buildStepRequest(name string, params map[string]interface{}) (action.Request, error) {
	switch name {
	case "tap":
		return action.TapPoint{
			X:        floatParam(params, "x", 0),
			Y:        floatParam(params, "y", 0),
			Duration: floatParam(params, "duration", 0),
		}, nil
	case "tap-element":
		return action.TapElement{Label: stringParam(params, "label", "")}, nil
	case "swipe":
		return action.SwipePoints{
			FromX:    floatParam(params, "x1", 0),
			FromY:    floatParam(params, "y1", 0),
			ToX:      floatParam(params, "x2", 0),
			ToY:      floatParam(params, "y2", 0),
			Duration: floatParam(params, "duration", 0),
			Delta:    intParam(params, "delta", 0),
		}, nil
	case "scroll":
		dir, err := action.ParseDirection(stringParam(params, "direction", "down"))
		if err != nil {
			return nil, err
		}
		return action.Scroll{
			Direction: dir,
			Distance:  floatParam(params, "distance", 0),
			Speed:     floatParam(params, "speed", 0),
		}, nil
	case "text":
		return action.TypeText{Text: stringParam(params, "text", "")}, nil
	case "key":
		return action.KeyPress{Key: stringParam(params, "key", "")}, nil
	case "button":
		return action.PressButton{Name: stringParam(params, "name", "")}, nil
	case "openurl":
		return action.OpenURL{URL: stringParam(params, "url", "")}, nil
	default:
		return nil, fmt.Errorf("unknown step type %q — supported: tap, tap-element, swipe, scroll, text, key, button, openurl, wait, sleep, screenshot", name)
	}
}

// doRunner executes batch steps against one resolved target.
type doRunner struct {
	provider driver.Provider
	orch     *action.Orchestrator
	target   string
}

func (r *doRunner) executeStep(step doStep) doStepResult {
	res := doStepResult{Action: step.Action}
	start := time.Now()

	// Each step gets its own deadline so a long batch is not starved by
	// the single-command budget.
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout.D())
	defer cancel()

	switch step.Action {
	case "sleep":
		seconds := floatParam(step.Params, "seconds", 1)
		time.Sleep(time.Duration(seconds * float64(time.Second)))
		res.OK = true

	case "wait":
		query := stringParam(step.Params, "for-label", "")
		if query == "" {
			res.Error = "wait step requires for-label"
			return res
		}
		gone := boolParam(step.Params, "gone", false)
		timeout := time.Duration(floatParam(step.Params, "timeout", 30) * float64(time.Second))
		interval := time.Duration(floatParam(step.Params, "interval", 0.5) * float64(time.Second))
		_, elapsed, ok := pollUntil(context.Background(), r.provider.Introspector, r.target,
			timeout, interval, func(snap *model.Snapshot) bool {
				_, met := waitSatisfied(snap, query, gone)
				return met
			})
		res.OK = ok
		res.Elapsed = elapsed.Round(time.Millisecond).String()
		if !ok {
			res.Error = fmt.Sprintf("timed out after %s waiting for '%s'", timeout, query)
		}
		return res

	case "screenshot":
		path := stringParam(step.Params, "path", "")
		if path == "" {
			res.Error = "screenshot step requires path"
			return res
		}
		if err := r.provider.Screens.Screenshot(ctx, r.target, path); err != nil {
			res.Error = err.Error()
			return res
		}
		res.OK = true

	default:
		req, err := buildStepRequest(step.Action, step.Params)
		if err != nil {
			res.Error = err.Error()
			return res
		}
		cycle, err := r.orch.Run(ctx, r.target, req)
		if cycle != nil {
			res.Status = cycle.Status
			res.Resolved = cycle.Resolved
			res.Diff = cycle.Diff
		}
		if err != nil {
			res.Error = err.Error()
			return res
		}
		res.OK = true
	}

	res.Elapsed = time.Since(start).Round(time.Millisecond).String()
	return res
}

func runDo(cmd *cobra.Command, args []string) error {
	stopOnError, _ := cmd.Flags().GetBool("stop-on-error")

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("reading stdin: %w", err)
	}
	steps, err := parseSteps(data)
	if err != nil {
		return err
	}

	p := newProvider()
	ctx, cancel := commandContext()
	target, err := requireTarget(ctx, p)
	cancel()
	if err != nil {
		return err
	}

	runner := &doRunner{
		provider: p,
		orch:     action.New(p.Introspector, p.Actuator, action.WithSettle(cfg.Settle.D())),
		target:   target,
	}

	results := make([]doStepResult, 0, len(steps))
	completed := 0
	var firstErr string
	for i, step := range steps {
		res := runner.executeStep(step)
		res.Step = i + 1
		results = append(results, res)
		if res.OK {
			completed++
			continue
		}
		if firstErr == "" {
			firstErr = fmt.Sprintf("step %d (%s): %s", res.Step, res.Action, res.Error)
		}
		if stopOnError {
			break
		}
	}

	rep := doReport{
		OK:        firstErr == "",
		Action:    "do",
		Target:    target,
		Steps:     len(steps),
		Completed: completed,
		Error:     firstErr,
		Results:   results,
	}
	if err := output.Print(rep); err != nil {
		return err
	}
	if firstErr != "" {
		return fmt.Errorf("batch failed: %s", firstErr)
	}
	return nil
}

// Param readers tolerate YAML's loose scalar typing: numbers may arrive as
// int, int64, or float64, and numeric-looking strings are passed through.

func stringParam(params map[string]interface{}, key, defaultVal string) string {
	if v, ok := params[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
		return fmt.Sprintf("%v", v)
	}
	return defaultVal
}

func floatParam(params map[string]interface{}, key string, defaultVal float64) float64 {
	if v, ok := params[key]; ok {
		switch n := v.(type) {
		case float64:
			return n
		case int:
			return float64(n)
		case int64:
			return float64(n)
		}
	}
	return defaultVal
}

func intParam(params map[string]interface{}, key string, defaultVal int) int {
	if v, ok := params[key]; ok {
		switch n := v.(type) {
		case int:
			return n
		case float64:
			return int(n)
		case int64:
			return int(n)
		}
	}
	return defaultVal
}

func boolParam(params map[string]interface{}, key string, defaultVal bool) bool {
	if v, ok := params[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return defaultVal
}
