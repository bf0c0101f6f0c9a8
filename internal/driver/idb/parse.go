package idb

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/simkit/sim-cli/internal/driver"
	"github.com/simkit/sim-cli/internal/model"
)

// The describe-all output is a loosely-typed contract: fields come and go
// between idb releases, values shift type (AXValue may be a string, number,
// or bool), and unknown keys appear freely. Parsing therefore goes through
// generic maps with tolerant extraction; an absent field is a default,
// never an error. Only output that is not JSON at all fails the capture.

func parseSnapshot(data []byte, nested bool) (*model.Snapshot, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("describe output was empty")
	}

	var items []map[string]interface{}
	if data[0] == '{' {
		// Nested mode reports a single root object.
		var root map[string]interface{}
		if err := json.Unmarshal(data, &root); err != nil {
			return nil, fmt.Errorf("unparseable describe output: %w", err)
		}
		items = []map[string]interface{}{root}
	} else {
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("unparseable describe output: %w", err)
		}
	}

	els := make([]model.UIElement, 0, len(items))
	for _, m := range items {
		els = append(els, elementFromMap(m))
	}
	return &model.Snapshot{Elements: els, Nested: nested, TakenAt: time.Now()}, nil
}

func elementFromMap(m map[string]interface{}) model.UIElement {
	el := model.UIElement{
		Role:  stringField(m, "role"),
		Type:  stringField(m, "type"),
		Label: stringField(m, "AXLabel"),
		Title: stringField(m, "title"),
		Value: stringField(m, "AXValue"),
		Frame: rectField(m, "frame"),
	}
	if v, ok := m["enabled"].(bool); ok && !v {
		f := false
		el.Enabled = &f
	}
	if kids, ok := m["children"].([]interface{}); ok {
		for _, k := range kids {
			if km, ok := k.(map[string]interface{}); ok {
				el.Children = append(el.Children, elementFromMap(km))
			}
		}
	}
	return el
}

func stringField(m map[string]interface{}, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

func floatField(m map[string]interface{}, key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func rectField(m map[string]interface{}, key string) model.Rect {
	fm, ok := m[key].(map[string]interface{})
	if !ok {
		return model.Rect{}
	}
	r := model.Rect{
		X:      floatField(fm, "x"),
		Y:      floatField(fm, "y"),
		Width:  floatField(fm, "width"),
		Height: floatField(fm, "height"),
	}
	if r.Width < 0 {
		r.Width = 0
	}
	if r.Height < 0 {
		r.Height = 0
	}
	return r
}

// parseApps accepts both shapes idb has shipped: a single JSON array, and
// one JSON object per line.
func parseApps(data []byte) ([]driver.AppInfo, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	var items []map[string]interface{}
	if err := json.Unmarshal(data, &items); err == nil {
		return appsFromMaps(items), nil
	}

	for _, line := range bytes.Split(data, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		var m map[string]interface{}
		if err := json.Unmarshal(line, &m); err != nil {
			return nil, fmt.Errorf("unparseable app listing: %w", err)
		}
		items = append(items, m)
	}
	return appsFromMaps(items), nil
}

func appsFromMaps(items []map[string]interface{}) []driver.AppInfo {
	apps := make([]driver.AppInfo, 0, len(items))
	for _, m := range items {
		app := driver.AppInfo{
			BundleID:     stringField(m, "bundle_id"),
			Name:         stringField(m, "name"),
			InstallType:  stringField(m, "install_type"),
			ProcessState: stringField(m, "process_state"),
		}
		if v, ok := m["debuggable"].(bool); ok {
			app.Debuggable = v
		}
		apps = append(apps, app)
	}
	return apps
}
