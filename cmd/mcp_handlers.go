package cmd

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/simkit/sim-cli/internal/action"
	"github.com/simkit/sim-cli/internal/driver"
	"github.com/simkit/sim-cli/internal/driver/simctl"
	"github.com/simkit/sim-cli/internal/model"
	"github.com/simkit/sim-cli/internal/output"
	"gopkg.in/yaml.v3"
)

// yamlResult serializes v to YAML for an MCP text response.
func yamlResult(v interface{}) string {
	b, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Sprintf("marshal error: %v", err)
	}
	return string(b)
}

// toolContext bounds a tool call by the configured command timeout.
func toolContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, cfg.Timeout.D())
}

// resolveUDID picks the device for a tool call: the udid argument first,
// then the server-wide default. "booted" resolves through discovery and
// requires exactly one booted simulator.
func (s *mcpServer) resolveUDID(ctx context.Context, params map[string]interface{}) (string, error) {
	udid := stringParam(params, "udid", s.defaultUDID)
	if udid == "" {
		return "", fmt.Errorf("no target: pass udid, or start the server with --udid")
	}
	if udid != driver.TargetBooted {
		return udid, nil
	}
	targets, err := s.provider.Devices.List(ctx)
	if err != nil {
		return "", err
	}
	t, err := driver.ResolveBooted(targets)
	if err != nil {
		return "", err
	}
	return t.UDID, nil
}

// runCycle executes one validated action cycle for a tool call and returns
// the same report the CLI prints in structured mode. The cache entry for
// the target is dropped afterwards since the screen has presumably changed.
func (s *mcpServer) runCycle(ctx context.Context, params map[string]interface{}, req action.Request) (*mcp.CallToolResult, error) {
	s.deviceMu.Lock()
	defer s.deviceMu.Unlock()

	ctx, cancel := toolContext(ctx)
	defer cancel()

	target, err := s.resolveUDID(ctx, params)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	res, runErr := s.orch.Run(ctx, target, req)
	s.cache.invalidateTarget(target)

	rep := newCycleReport(req, target, res, runErr)
	if runErr != nil {
		return mcp.NewToolResultError(yamlResult(rep)), nil
	}
	return mcp.NewToolResultText(yamlResult(rep)), nil
}

func (s *mcpServer) handleList(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	bootedOnly := boolParam(params, "booted", false)

	s.deviceMu.Lock()
	defer s.deviceMu.Unlock()

	ctx, cancel := toolContext(ctx)
	defer cancel()

	targets, err := s.provider.Devices.List(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if bootedOnly {
		var booted []driver.Target
		for _, t := range targets {
			if t.Booted() {
				booted = append(booted, t)
			}
		}
		targets = booted
	}
	return mcp.NewToolResultText(yamlResult(targets)), nil
}

func (s *mcpServer) handleBoot(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	udid := stringParam(params, "udid", "")
	if udid == "" {
		return mcp.NewToolResultError("udid is required"), nil
	}

	s.deviceMu.Lock()
	defer s.deviceMu.Unlock()

	bootCtx, cancel := toolContext(ctx)
	defer cancel()
	if err := s.provider.Devices.Boot(bootCtx, udid); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	// Agents want a usable device back, so always wait for the boot to
	// finish rather than exposing a flag.
	waitCtx, waitCancel := context.WithTimeout(ctx, 60*time.Second)
	defer waitCancel()
	if err := simctl.NewClient(driver.ExecRunner{}).WaitForBoot(waitCtx, udid); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	s.cache.invalidateTarget(udid)

	return mcp.NewToolResultText(yamlResult(lifecycleResult{OK: true, Action: "boot", UDID: udid, State: "Booted"})), nil
}

func (s *mcpServer) handleShutdown(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	udid := stringParam(params, "udid", "")
	if udid == "" {
		return mcp.NewToolResultError("udid is required"), nil
	}

	s.deviceMu.Lock()
	defer s.deviceMu.Unlock()

	ctx, cancel := toolContext(ctx)
	defer cancel()
	if err := s.provider.Devices.Shutdown(ctx, udid); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	s.cache.invalidateTarget(udid)
	return mcp.NewToolResultText(yamlResult(lifecycleResult{OK: true, Action: "shutdown", UDID: udid, State: "Shutdown"})), nil
}

func (s *mcpServer) handleInstall(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	path := stringParam(params, "path", "")
	if path == "" {
		return mcp.NewToolResultError("path is required"), nil
	}

	s.deviceMu.Lock()
	defer s.deviceMu.Unlock()

	ctx, cancel := toolContext(ctx)
	defer cancel()

	target, err := s.resolveUDID(ctx, params)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.provider.Apps.Install(ctx, target, path); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(yamlResult(appResult{OK: true, Action: "install", Path: path})), nil
}

func (s *mcpServer) handleLaunch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	bundleID := stringParam(params, "bundle-id", "")
	if bundleID == "" {
		return mcp.NewToolResultError("bundle-id is required"), nil
	}

	s.deviceMu.Lock()
	defer s.deviceMu.Unlock()

	ctx, cancel := toolContext(ctx)
	defer cancel()

	target, err := s.resolveUDID(ctx, params)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.provider.Apps.Launch(ctx, target, bundleID); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	s.cache.invalidateTarget(target)

	// Give the app its first frame, then report what came on screen.
	time.Sleep(launchSettle)
	res := appResult{OK: true, Action: "launch", BundleID: bundleID}
	if snap, err := s.provider.Introspector.Capture(ctx, target, false); err == nil {
		res.Summary = output.Summarize(snap)
	}
	return mcp.NewToolResultText(yamlResult(res)), nil
}

func (s *mcpServer) handleTerminate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	bundleID := stringParam(params, "bundle-id", "")
	if bundleID == "" {
		return mcp.NewToolResultError("bundle-id is required"), nil
	}

	s.deviceMu.Lock()
	defer s.deviceMu.Unlock()

	ctx, cancel := toolContext(ctx)
	defer cancel()

	target, err := s.resolveUDID(ctx, params)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.provider.Apps.Terminate(ctx, target, bundleID); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	s.cache.invalidateTarget(target)
	return mcp.NewToolResultText(yamlResult(appResult{OK: true, Action: "terminate", BundleID: bundleID})), nil
}

func (s *mcpServer) handleListApps(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.deviceMu.Lock()
	defer s.deviceMu.Unlock()

	ctx, cancel := toolContext(ctx)
	defer cancel()

	target, err := s.resolveUDID(ctx, request.GetArguments())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	apps, err := s.provider.Apps.ListApps(ctx, target)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(yamlResult(apps)), nil
}

func (s *mcpServer) handleDescribe(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	full := boolParam(params, "full", false)
	nested := boolParam(params, "nested", false)
	role := stringParam(params, "role", "")
	filter := stringParam(params, "filter", "")

	s.deviceMu.Lock()
	defer s.deviceMu.Unlock()

	ctx, cancel := toolContext(ctx)
	defer cancel()

	target, err := s.resolveUDID(ctx, params)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	snap, err := s.cache.capture(ctx, s.provider.Introspector, target, nested)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	// Filters apply per call; the cache keeps the unfiltered snapshot.
	if role != "" || filter != "" {
		rep := describeReport{OK: true, Action: "describe", Target: target,
			Role: role, Filter: filter, Total: snap.Len()}
		for _, el := range filterSnapshot(snap, role, filter) {
			rep.Elements = append(rep.Elements, newFoundElement(el))
		}
		return mcp.NewToolResultText(yamlResult(rep)), nil
	}

	if full {
		return mcp.NewToolResultText(yamlResult(snap.Elements)), nil
	}
	return mcp.NewToolResultText(yamlResult(output.Summarize(snap))), nil
}

func (s *mcpServer) handleFind(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	label := stringParam(params, "label", "")
	if label == "" {
		return mcp.NewToolResultError("label is required"), nil
	}

	s.deviceMu.Lock()
	defer s.deviceMu.Unlock()

	ctx, cancel := toolContext(ctx)
	defer cancel()

	target, err := s.resolveUDID(ctx, params)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	snap, err := s.cache.capture(ctx, s.provider.Introspector, target, false)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	el, ok := model.Resolve(snap, label)
	if !ok {
		rep := findReport{Action: "find", Target: target, Query: label,
			Labels: model.Labels(snap),
			Error:  fmt.Sprintf("no element matching %q (%d elements on screen)", label, snap.Len())}
		return mcp.NewToolResultError(yamlResult(rep)), nil
	}
	rep := findReport{OK: true, Action: "find", Target: target, Query: label, Element: newFoundElement(el)}
	return mcp.NewToolResultText(yamlResult(rep)), nil
}

func (s *mcpServer) handleScreenshot(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	annotate := boolParam(params, "annotate", false)
	filter := stringParam(params, "filter", "")
	scale := floatParam(params, "scale", 1.0)
	if scale <= 0 || scale > 1.0 {
		return mcp.NewToolResultError(fmt.Sprintf("invalid scale %.2f: must be in (0, 1.0]", scale)), nil
	}

	s.deviceMu.Lock()
	defer s.deviceMu.Unlock()

	ctx, cancel := toolContext(ctx)
	defer cancel()

	target, err := s.resolveUDID(ctx, params)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	tmp, err := os.CreateTemp("", "sim-cli-*.png")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	if err := s.provider.Screens.Screenshot(ctx, target, tmpPath); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if annotate || scale != 1.0 {
		img, err := loadPNG(tmpPath)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if scale != 1.0 {
			img = scaleImage(img, scale)
		}
		if annotate {
			snap, err := s.provider.Introspector.Capture(ctx, target, false)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			annotated, _ := annotateSnapshot(img, snap, false, filter)
			img = annotated
		}
		if err := savePNG(tmpPath, img); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	data, err := os.ReadFile(tmpPath)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.ImageContent{
				Type:     "image",
				Data:     base64.StdEncoding.EncodeToString(data),
				MIMEType: "image/png",
			},
		},
	}, nil
}

func (s *mcpServer) handleTap(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	return s.runCycle(ctx, params, action.TapPoint{
		X:        floatParam(params, "x", 0),
		Y:        floatParam(params, "y", 0),
		Duration: floatParam(params, "duration", 0),
	})
}

func (s *mcpServer) handleTapElement(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	return s.runCycle(ctx, params, action.TapElement{Label: stringParam(params, "label", "")})
}

func (s *mcpServer) handleSwipe(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	return s.runCycle(ctx, params, action.SwipePoints{
		FromX:    floatParam(params, "x1", 0),
		FromY:    floatParam(params, "y1", 0),
		ToX:      floatParam(params, "x2", 0),
		ToY:      floatParam(params, "y2", 0),
		Duration: floatParam(params, "duration", 0),
		Delta:    intParam(params, "delta", 0),
	})
}

func (s *mcpServer) handleScroll(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	dir, err := action.ParseDirection(stringParam(params, "direction", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.runCycle(ctx, params, action.Scroll{
		Direction: dir,
		Distance:  floatParam(params, "distance", 0),
		Speed:     floatParam(params, "speed", 0),
	})
}

func (s *mcpServer) handleText(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	return s.runCycle(ctx, params, action.TypeText{Text: stringParam(params, "text", "")})
}

func (s *mcpServer) handleKey(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	return s.runCycle(ctx, params, action.KeyPress{Key: stringParam(params, "key", "")})
}

func (s *mcpServer) handleButton(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	return s.runCycle(ctx, params, action.PressButton{Name: stringParam(params, "name", "")})
}

func (s *mcpServer) handleOpenURL(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	return s.runCycle(ctx, params, action.OpenURL{URL: stringParam(params, "url", "")})
}

func (s *mcpServer) handleWait(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	query := stringParam(params, "for-label", "")
	if query == "" {
		return mcp.NewToolResultError("for-label is required"), nil
	}
	gone := boolParam(params, "gone", false)
	timeout := time.Duration(floatParam(params, "timeout", 30) * float64(time.Second))
	interval := time.Duration(floatParam(params, "interval", 0.5) * float64(time.Second))

	s.deviceMu.Lock()
	defer s.deviceMu.Unlock()

	resCtx, cancel := toolContext(ctx)
	target, err := s.resolveUDID(resCtx, params)
	cancel()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	// Polling bypasses the snapshot cache: waiting on a cached screen
	// would never observe the transition.
	var match *model.UIElement
	polls, elapsed, ok := pollUntil(ctx, s.provider.Introspector, target,
		timeout, interval, func(snap *model.Snapshot) bool {
			el, met := waitSatisfied(snap, query, gone)
			match = el
			return met
		})

	rep := waitReport{
		OK:      ok,
		Action:  "wait",
		Target:  target,
		Query:   query,
		Gone:    gone,
		Elapsed: elapsed.Round(time.Millisecond).String(),
		Polls:   polls,
	}
	if match != nil {
		rep.Element = newFoundElement(match)
	}
	if !ok {
		rep.TimedOut = true
		rep.Error = fmt.Sprintf("timed out after %s", timeout)
		return mcp.NewToolResultError(yamlResult(rep)), nil
	}
	return mcp.NewToolResultText(yamlResult(rep)), nil
}

func (s *mcpServer) handleClipboardRead(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.deviceMu.Lock()
	defer s.deviceMu.Unlock()

	ctx, cancel := toolContext(ctx)
	defer cancel()

	target, err := s.resolveUDID(ctx, request.GetArguments())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	text, err := s.provider.Clipboard.PasteFrom(ctx, target)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(yamlResult(clipboardReport{OK: true, Action: "clipboard-read", Target: target, Text: text})), nil
}

func (s *mcpServer) handleClipboardWrite(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	text := stringParam(params, "text", "")

	s.deviceMu.Lock()
	defer s.deviceMu.Unlock()

	ctx, cancel := toolContext(ctx)
	defer cancel()

	target, err := s.resolveUDID(ctx, params)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.provider.Clipboard.CopyTo(ctx, target, text); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(yamlResult(clipboardReport{OK: true, Action: "clipboard-write", Target: target})), nil
}
