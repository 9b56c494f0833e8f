package replay

import (
	"context"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/threesixty/pointer"
)

//go:embed scripts/*.tengo
var ScriptsFS embed.FS

// LoadScript reads a gesture script from disk, falling back to the
// embedded scripts directory.
func LoadScript(name string) ([]byte, error) {
	if data, err := os.ReadFile(name); err == nil {
		return data, nil
	}
	return ScriptsFS.ReadFile(cleanScriptPath(name))
}

func cleanScriptPath(path string) string {
	s := filepath.ToSlash(path)
	if after, ok := strings.CutPrefix(s, "replay/"); ok {
		s = after
	}
	if after, ok := strings.CutPrefix(s, "scripts/"); ok {
		s = after
	}
	if filepath.Ext(s) == "" {
		s += ".tengo"
	}
	return fmt.Sprintf("scripts/%s", s)
}

// Params are exposed to scripts as the globals width and total_frames.
type Params struct {
	Width       float64
	TotalFrames int
}

// Step is one scripted pointer event, At relative to the replay start.
type Step struct {
	At   time.Duration
	Kind pointer.Kind
	X    float64
}

// Compile runs a gesture script and returns its events. The script must
// define an array named events whose items are maps with kind ("down",
// "move" or "up"), x and at (milliseconds, non-decreasing).
func Compile(ctx context.Context, src []byte, params Params) ([]Step, error) {
	script := tengo.NewScript(src)
	_ = script.Add("width", params.Width)
	_ = script.Add("total_frames", params.TotalFrames)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.RunContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("replay: run script: %w", err)
	}
	if !compiled.IsDefined("events") {
		return nil, fmt.Errorf("replay: script does not define events")
	}

	items := compiled.Get("events").Array()
	steps := make([]Step, 0, len(items))
	var prev time.Duration
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("replay: event %d: expected a map, got %T", i, item)
		}
		step, err := parseStep(m)
		if err != nil {
			return nil, fmt.Errorf("replay: event %d: %w", i, err)
		}
		if step.At < prev {
			return nil, fmt.Errorf("replay: event %d: at %v is before the previous event", i, step.At)
		}
		prev = step.At
		steps = append(steps, step)
	}
	return steps, nil
}

func parseStep(m map[string]any) (Step, error) {
	name, ok := m["kind"].(string)
	if !ok {
		return Step{}, fmt.Errorf("missing kind")
	}
	kind, err := pointer.ParseKind(name)
	if err != nil {
		return Step{}, err
	}
	x, _ := number(m["x"])
	at, ok := number(m["at"])
	if !ok || at < 0 {
		return Step{}, fmt.Errorf("at must be a non-negative number")
	}
	if kind != pointer.KindUp {
		if _, ok := m["x"]; !ok {
			return Step{}, fmt.Errorf("%s event without x", kind)
		}
	}
	return Step{At: time.Duration(at * float64(time.Millisecond)), Kind: kind, X: x}, nil
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}
