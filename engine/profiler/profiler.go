//go:build profile

// Package profiler records named scopes on the render thread and dumps them
// as a speedscope (https://www.speedscope.app) evented profile.
//
// Without the "profile" build tag every function is a no-op.
package profiler

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

const Enabled = true

// ErrEmpty is returned by Dump when nothing was recorded.
var ErrEmpty = errors.New("profiler: no spans recorded")

type span struct {
	name       int
	start, end int64 // unix nanoseconds
}

var (
	mu      sync.Mutex
	spans   []span
	written uint64
	names   []string
	nameIDs map[string]int
)

// Init sizes the span ring. Older spans are overwritten once it is full.
func Init(capacity int) {
	if capacity <= 0 {
		capacity = 1 << 16
	}
	mu.Lock()
	defer mu.Unlock()
	spans = make([]span, capacity)
	written = 0
}

// Start opens a scope; call the returned func to close it.
func Start(name string) func() {
	start := time.Now().UnixNano()
	return func() {
		end := time.Now().UnixNano()
		mu.Lock()
		defer mu.Unlock()
		if len(spans) == 0 {
			return
		}
		spans[written%uint64(len(spans))] = span{name: intern(name), start: start, end: max(end, start)}
		written++
	}
}

func intern(name string) int {
	if id, ok := nameIDs[name]; ok {
		return id
	}
	if nameIDs == nil {
		nameIDs = make(map[string]int)
	}
	id := len(names)
	nameIDs[name] = id
	names = append(names, name)
	return id
}

// Dump writes the recorded spans to dir and returns the file path.
func Dump(dir string) (string, error) {
	mu.Lock()
	recorded := snapshot()
	frames := make([]ssFrame, len(names))
	for i, n := range names {
		frames[i] = ssFrame{Name: n}
	}
	mu.Unlock()

	if len(recorded) == 0 {
		return "", ErrEmpty
	}
	doc := speedscope(recorded, frames)

	path := filepath.Join(dir, "lumen.speedscope.json")
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return "", fmt.Errorf("profiler: %w", err)
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(&doc); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return "", fmt.Errorf("profiler: encode: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("profiler: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", fmt.Errorf("profiler: %w", err)
	}
	return path, nil
}

// snapshot returns the live spans oldest first. mu must be held.
func snapshot() []span {
	n := uint64(len(spans))
	if n == 0 || written == 0 {
		return nil
	}
	from := uint64(0)
	if written > n {
		from = written - n
	}
	out := make([]span, 0, written-from)
	for k := from; k < written; k++ {
		out = append(out, spans[k%n])
	}
	return out
}

type ssFile struct {
	Schema   string      `json:"$schema"`
	Shared   ssShared    `json:"shared"`
	Profiles []ssProfile `json:"profiles"`
	Exporter string      `json:"exporter,omitempty"`
	Name     string      `json:"name,omitempty"`
}

type ssShared struct {
	Frames []ssFrame `json:"frames"`
}

type ssFrame struct {
	Name string `json:"name"`
}

type ssProfile struct {
	Type       string    `json:"type"`
	Name       string    `json:"name"`
	Unit       string    `json:"unit"`
	StartValue int64     `json:"startValue"`
	EndValue   int64     `json:"endValue"`
	Events     []ssEvent `json:"events"`
}

type ssEvent struct {
	Type  string `json:"type"` // "O" or "C"
	At    int64  `json:"at"`   // microseconds since the first span
	Frame int    `json:"frame"`
}

// speedscope turns completed spans into balanced open/close events. Spans
// from nested scopes never partially overlap, so a containment stack over
// spans sorted by start is enough to rebuild the call tree.
func speedscope(recorded []span, frames []ssFrame) ssFile {
	order := make([]int, len(recorded))
	for i := range order {
		order[i] = i
	}
	// Children finish, and so are recorded, before their parents.
	sort.SliceStable(order, func(i, j int) bool {
		a, b := recorded[order[i]], recorded[order[j]]
		if a.start != b.start {
			return a.start < b.start
		}
		if da, db := a.end-a.start, b.end-b.start; da != db {
			return da > db
		}
		return order[i] > order[j]
	})

	base := recorded[order[0]].start
	micros := func(ns int64) int64 { return (ns - base) / 1000 }

	var (
		events []ssEvent
		stack  []span
		end    int64
	)
	closeTop := func() {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		at := micros(top.end)
		events = append(events, ssEvent{Type: "C", At: at, Frame: top.name})
		end = max(end, at)
	}
	for _, i := range order {
		s := recorded[i]
		for len(stack) > 0 {
			top := stack[len(stack)-1]
			if top.start <= s.start && s.end <= top.end {
				break
			}
			closeTop()
		}
		events = append(events, ssEvent{Type: "O", At: micros(s.start), Frame: s.name})
		stack = append(stack, s)
	}
	for len(stack) > 0 {
		closeTop()
	}

	return ssFile{
		Schema: "https://www.speedscope.app/file-format-schema.json",
		Shared: ssShared{Frames: frames},
		Profiles: []ssProfile{{
			Type:     "evented",
			Name:     "lumen render thread",
			Unit:     "microseconds",
			EndValue: end,
			Events:   events,
		}},
		Exporter: "lumen-profiler",
		Name:     "lumen capture",
	}
}
