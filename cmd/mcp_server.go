package cmd

import (
	"fmt"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/simkit/sim-cli/internal/action"
	"github.com/simkit/sim-cli/internal/driver"
	"github.com/simkit/sim-cli/internal/version"
)

// mcpServer wraps the MCP server with the device drivers and snapshot cache.
type mcpServer struct {
	provider    driver.Provider
	orch        *action.Orchestrator
	cache       *mcpSnapshotCache
	defaultUDID string
	// deviceMu serializes tool calls that touch a simulator. idb handles
	// one injection at a time; concurrent agents queue here.
	deviceMu sync.Mutex
	mcp      *mcpserver.MCPServer
}

// MCPConfig holds MCP server configuration.
type MCPConfig struct {
	Transport   string
	Port        int
	CacheTTL    time.Duration
	DefaultUDID string
}

// newMCPServer creates and configures an MCP server with the sim-cli tools.
func newMCPServer(mcpCfg MCPConfig) (*mcpServer, error) {
	p := newProvider()

	s := &mcpServer{
		provider:    p,
		orch:        action.New(p.Introspector, p.Actuator, action.WithSettle(cfg.Settle.D())),
		cache:       newMCPSnapshotCache(mcpCfg.CacheTTL),
		defaultUDID: mcpCfg.DefaultUDID,
	}

	s.mcp = mcpserver.NewMCPServer(
		"sim-cli",
		version.Version,
	)

	s.registerTools()
	return s, nil
}

// serve starts the MCP server with the configured transport.
func (s *mcpServer) serve(mcpCfg MCPConfig) error {
	switch mcpCfg.Transport {
	case "stdio":
		return mcpserver.ServeStdio(s.mcp)
	case "streamable-http":
		httpServer := mcpserver.NewStreamableHTTPServer(s.mcp)
		return httpServer.Start(fmt.Sprintf(":%d", mcpCfg.Port))
	default:
		return fmt.Errorf("unsupported transport: %s (use stdio or streamable-http)", mcpCfg.Transport)
	}
}

// udidParam documents the udid argument shared by every device tool.
func udidParam() mcp.ToolOption {
	return mcp.WithString("udid", mcp.Description("Simulator UDID, or 'booted' for the single booted device. Optional when the server was started with --udid."))
}

func (s *mcpServer) registerTools() {
	// list
	s.mcp.AddTool(
		mcp.NewTool("list",
			mcp.WithDescription("List simulator devices with their UDIDs, runtimes, and states"),
			mcp.WithBoolean("booted", mcp.Description("Only list booted devices")),
		),
		s.handleList,
	)

	// boot
	s.mcp.AddTool(
		mcp.NewTool("boot",
			mcp.WithDescription("Boot a simulator device and wait until it is ready"),
			mcp.WithString("udid", mcp.Description("Simulator UDID to boot"), mcp.Required()),
		),
		s.handleBoot,
	)

	// shutdown
	s.mcp.AddTool(
		mcp.NewTool("shutdown",
			mcp.WithDescription("Shut down a simulator device"),
			mcp.WithString("udid", mcp.Description("Simulator UDID to shut down"), mcp.Required()),
		),
		s.handleShutdown,
	)

	// install
	s.mcp.AddTool(
		mcp.NewTool("install",
			mcp.WithDescription("Install an .app bundle on the simulator"),
			mcp.WithString("path", mcp.Description("Path to the .app bundle"), mcp.Required()),
			udidParam(),
		),
		s.handleInstall,
	)

	// launch
	s.mcp.AddTool(
		mcp.NewTool("launch",
			mcp.WithDescription("Launch an installed app and report what came on screen"),
			mcp.WithString("bundle-id", mcp.Description("Bundle identifier, e.g. com.example.MyApp"), mcp.Required()),
			udidParam(),
		),
		s.handleLaunch,
	)

	// terminate
	s.mcp.AddTool(
		mcp.NewTool("terminate",
			mcp.WithDescription("Terminate a running app"),
			mcp.WithString("bundle-id", mcp.Description("Bundle identifier to terminate"), mcp.Required()),
			udidParam(),
		),
		s.handleTerminate,
	)

	// list-apps
	s.mcp.AddTool(
		mcp.NewTool("list-apps",
			mcp.WithDescription("List installed apps with bundle IDs and process state"),
			udidParam(),
		),
		s.handleListApps,
	)

	// describe
	s.mcp.AddTool(
		mcp.NewTool("describe",
			mcp.WithDescription("Read the UI as structured data: frontmost app, element count, and interactive elements with ready-to-tap coordinates"),
			mcp.WithBoolean("full", mcp.Description("Return every element instead of the interactive summary")),
			mcp.WithBoolean("nested", mcp.Description("Capture the nested tree form instead of the flat listing")),
			mcp.WithString("role", mcp.Description("Only return elements with this role, e.g. button or AXButton")),
			mcp.WithString("filter", mcp.Description("Only return elements whose label, title, or value contains this text")),
			udidParam(),
		),
		s.handleDescribe,
	)

	// find
	s.mcp.AddTool(
		mcp.NewTool("find",
			mcp.WithDescription("Find a UI element by label, title, or value; returns its frame and tap coordinates. A miss lists what is on screen."),
			mcp.WithString("label", mcp.Description("Text to match, exact first then substring"), mcp.Required()),
			udidParam(),
		),
		s.handleFind,
	)

	// screenshot
	s.mcp.AddTool(
		mcp.NewTool("screenshot",
			mcp.WithDescription("Capture the simulator screen as a PNG image"),
			mcp.WithBoolean("annotate", mcp.Description("Draw element boxes and tap coordinates onto the image")),
			mcp.WithString("filter", mcp.Description("With annotate, only mark elements whose text contains this string")),
			mcp.WithNumber("scale", mcp.Description("Scale factor 0.1-1.0 (default 1.0)")),
			udidParam(),
		),
		s.handleScreenshot,
	)

	// tap
	s.mcp.AddTool(
		mcp.NewTool("tap",
			mcp.WithDescription("Tap at coordinates in logical points. Runs the full capture-act-capture cycle and reports the UI diff."),
			mcp.WithNumber("x", mcp.Description("X coordinate in points"), mcp.Required()),
			mcp.WithNumber("y", mcp.Description("Y coordinate in points"), mcp.Required()),
			mcp.WithNumber("duration", mcp.Description("Hold duration in seconds (long-press)")),
			udidParam(),
		),
		s.handleTap,
	)

	// tap-element
	s.mcp.AddTool(
		mcp.NewTool("tap-element",
			mcp.WithDescription("Find an element by label and tap its center. Preferred over raw tap: coordinates come from a snapshot taken immediately before the gesture."),
			mcp.WithString("label", mcp.Description("Element label, title, or value to tap"), mcp.Required()),
			udidParam(),
		),
		s.handleTapElement,
	)

	// swipe
	s.mcp.AddTool(
		mcp.NewTool("swipe",
			mcp.WithDescription("Swipe between two points in logical points"),
			mcp.WithNumber("x1", mcp.Description("Start X"), mcp.Required()),
			mcp.WithNumber("y1", mcp.Description("Start Y"), mcp.Required()),
			mcp.WithNumber("x2", mcp.Description("End X"), mcp.Required()),
			mcp.WithNumber("y2", mcp.Description("End Y"), mcp.Required()),
			mcp.WithNumber("duration", mcp.Description("Swipe duration in seconds")),
			mcp.WithNumber("delta", mcp.Description("Pixel step between touch events")),
			udidParam(),
		),
		s.handleSwipe,
	)

	// scroll
	s.mcp.AddTool(
		mcp.NewTool("scroll",
			mcp.WithDescription("Scroll content in a direction from the screen center. 'down' reveals content below (finger moves up)."),
			mcp.WithString("direction", mcp.Description("up, down, left, or right"), mcp.Required()),
			mcp.WithNumber("distance", mcp.Description("Scroll distance in points (default 300)")),
			mcp.WithNumber("speed", mcp.Description("Gesture duration in seconds (default 0.4)")),
			udidParam(),
		),
		s.handleScroll,
	)

	// text
	s.mcp.AddTool(
		mcp.NewTool("text",
			mcp.WithDescription("Type text into the focused element. Tap a field first to focus it."),
			mcp.WithString("text", mcp.Description("Text to type"), mcp.Required()),
			udidParam(),
		),
		s.handleText,
	)

	// key
	s.mcp.AddTool(
		mcp.NewTool("key",
			mcp.WithDescription("Press a key by name (enter, escape, tab, delete, arrows, …) or numeric HID code"),
			mcp.WithString("key", mcp.Description("Key name or HID code"), mcp.Required()),
			udidParam(),
		),
		s.handleKey,
	)

	// button
	s.mcp.AddTool(
		mcp.NewTool("button",
			mcp.WithDescription("Press a hardware button: APPLE_PAY, HOME, LOCK, SIDE_BUTTON, SIRI"),
			mcp.WithString("name", mcp.Description("Button name"), mcp.Required()),
			udidParam(),
		),
		s.handleButton,
	)

	// openurl
	s.mcp.AddTool(
		mcp.NewTool("openurl",
			mcp.WithDescription("Open a URL or deep link on the simulator"),
			mcp.WithString("url", mcp.Description("URL to open, e.g. https://… or myapp://…"), mcp.Required()),
			udidParam(),
		),
		s.handleOpenURL,
	)

	// wait
	s.mcp.AddTool(
		mcp.NewTool("wait",
			mcp.WithDescription("Poll the UI until an element appears or disappears"),
			mcp.WithString("for-label", mcp.Description("Element label, title, or value to wait for"), mcp.Required()),
			mcp.WithBoolean("gone", mcp.Description("Wait for the element to disappear instead")),
			mcp.WithNumber("timeout", mcp.Description("Seconds to keep polling (default 30)")),
			mcp.WithNumber("interval", mcp.Description("Seconds between polls (default 0.5)")),
			udidParam(),
		),
		s.handleWait,
	)

	// clipboard-read
	s.mcp.AddTool(
		mcp.NewTool("clipboard-read",
			mcp.WithDescription("Read the simulator pasteboard"),
			udidParam(),
		),
		s.handleClipboardRead,
	)

	// clipboard-write
	s.mcp.AddTool(
		mcp.NewTool("clipboard-write",
			mcp.WithDescription("Write text to the simulator pasteboard, for pasting into the UI"),
			mcp.WithString("text", mcp.Description("Text to place on the pasteboard"), mcp.Required()),
			udidParam(),
		),
		s.handleClipboardWrite,
	)
}
