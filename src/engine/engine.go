// Package engine hands a resolved BuildConfig to the tool that actually
// bundles. Engines register themselves by name; the CLI picks one.
package engine

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sofmeright/packcfg/src/config"
)

// Engine is the interface every bundler engine implements.
type Engine interface {
	Name() string
	Plan(ctx context.Context, cfg *config.BuildConfig, opts Options) (*Plan, error)
	Execute(ctx context.Context, plan *Plan) (*Result, error)
}

// Options carries invocation details that are not part of the build config.
type Options struct {
	// WorkDir is the absolute directory the entry path is relative to.
	WorkDir string
}

// Plan is an engine's translation of a BuildConfig, ready to execute.
type Plan struct {
	Engine string
	Config *config.BuildConfig
	// Loaders maps file extensions to how the engine will treat them.
	Loaders map[string]string
	// Warnings are parts of the config the engine cannot honor exactly.
	Warnings []string

	payload any
}

// Result captures the outcome of executing a plan.
type Result struct {
	Engine   string
	Outputs  []string
	Warnings []string
	Duration time.Duration
}

var (
	registryMu sync.RWMutex
	registry   = map[string]func() Engine{}
)

// Register adds an engine constructor to the global registry.
// Called from init() in each engine file.
func Register(name string, constructor func() Engine) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[name]; exists {
		panic(fmt.Sprintf("engine: duplicate engine registration: %s", name))
	}
	registry[name] = constructor
}

// Get returns a new instance of the named engine.
func Get(name string) (Engine, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("engine: unknown engine %q (available: %v)", name, allLocked())
	}
	return ctor(), nil
}

// All returns sorted names of all registered engines.
func All() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return allLocked()
}

func allLocked() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run plans and executes cfg with the named engine.
func Run(ctx context.Context, name string, cfg *config.BuildConfig, opts Options) (*Result, error) {
	e, err := Get(name)
	if err != nil {
		return nil, err
	}
	plan, err := e.Plan(ctx, cfg, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: planning: %w", name, err)
	}
	res, err := e.Execute(ctx, plan)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return res, nil
}
