package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/rs/zerolog/log"

	"github.com/sofmeright/packcfg/src/config"
)

func init() {
	Register("esbuild", func() Engine { return &esbuildEngine{} })
}

// probeExtensions are tested against every rule pattern to find which
// esbuild loader a file extension should get.
var probeExtensions = []string{
	".css", ".scss", ".less",
	".png", ".jpg", ".jpeg", ".gif", ".svg", ".webp", ".avif", ".ico", ".bmp",
	".woff", ".woff2", ".ttf", ".otf", ".eot",
	".txt", ".md", ".html", ".json", ".wasm",
	".js", ".mjs", ".cjs", ".jsx", ".ts", ".tsx",
}

var assetLoaders = map[string]api.Loader{
	config.AssetAuto:     api.LoaderFile,
	config.AssetResource: api.LoaderFile,
	config.AssetInline:   api.LoaderDataURL,
	config.AssetSource:   api.LoaderText,
}

// handlerLoaders maps common handler identifiers to the esbuild loader that
// does the same job. A nil entry means esbuild covers it implicitly.
var handlerLoaders = map[string]func(ext string) (api.Loader, bool){
	"css-loader":   fixed(api.LoaderCSS),
	"style-loader": nil,
	"raw-loader":   fixed(api.LoaderText),
	"file-loader":  fixed(api.LoaderFile),
	"url-loader":   fixed(api.LoaderDataURL),
	"json-loader":  fixed(api.LoaderJSON),
	"babel-loader": sourceLoader,
	"ts-loader":    sourceLoader,
	"swc-loader":   sourceLoader,
}

var loaderNames = map[api.Loader]string{
	api.LoaderCSS:     "css",
	api.LoaderText:    "text",
	api.LoaderFile:    "file",
	api.LoaderDataURL: "dataurl",
	api.LoaderJSON:    "json",
	api.LoaderJS:      "js",
	api.LoaderJSX:     "jsx",
	api.LoaderTS:      "ts",
	api.LoaderTSX:     "tsx",
}

func fixed(l api.Loader) func(string) (api.Loader, bool) {
	return func(string) (api.Loader, bool) { return l, true }
}

func sourceLoader(ext string) (api.Loader, bool) {
	switch ext {
	case ".js", ".mjs", ".cjs":
		return api.LoaderJS, true
	case ".jsx":
		return api.LoaderJSX, true
	case ".ts":
		return api.LoaderTS, true
	case ".tsx":
		return api.LoaderTSX, true
	}
	return api.LoaderNone, false
}

type esbuildEngine struct{}

func (e *esbuildEngine) Name() string { return "esbuild" }

func (e *esbuildEngine) Plan(ctx context.Context, cfg *config.BuildConfig, opts Options) (*Plan, error) {
	if !filepath.IsAbs(opts.WorkDir) {
		return nil, fmt.Errorf("work dir %q must be absolute", opts.WorkDir)
	}

	plan := &Plan{
		Engine:  e.Name(),
		Config:  cfg,
		Loaders: map[string]string{},
	}

	loaders := map[string]api.Loader{}
	warned := map[string]bool{}
	for _, ext := range probeExtensions {
		rule, ok := cfg.RuleFor("file" + ext)
		if !ok {
			continue
		}
		l, unmapped := loaderFor(rule, ext)
		for _, h := range unmapped {
			if !warned[h] {
				warned[h] = true
				plan.Warnings = append(plan.Warnings, fmt.Sprintf("handler %q has no esbuild equivalent; ignored", h))
			}
		}
		if l == api.LoaderNone {
			continue
		}
		loaders[ext] = l
		plan.Loaders[ext] = loaderNames[l]
	}

	bo := api.BuildOptions{
		EntryPoints:   []string{cfg.EntryPath},
		AbsWorkingDir: opts.WorkDir,
		Outfile:       cfg.OutputPath(),
		Bundle:        true,
		Write:         true,
		Loader:        loaders,
		LogLevel:      api.LogLevelSilent,
		Metafile:      true,
		Define: map[string]string{
			"process.env.NODE_ENV": fmt.Sprintf("%q", string(cfg.Mode)),
		},
	}

	switch cfg.Mode {
	case config.ModeProduction:
		bo.MinifyWhitespace = true
		bo.MinifyIdentifiers = true
		bo.MinifySyntax = true
		bo.TreeShaking = api.TreeShakingTrue
		bo.Sourcemap = api.SourceMapNone
	case config.ModeDevelopment:
		bo.Sourcemap = api.SourceMapLinked
	}

	plan.payload = bo
	return plan, nil
}

// loaderFor picks the esbuild loader for a rule. Handlers apply last to
// first, so the last mappable handler decides.
func loaderFor(rule config.LoaderRule, ext string) (api.Loader, []string) {
	if rule.AssetType != "" {
		return assetLoaders[rule.AssetType], nil
	}

	var unmapped []string
	chosen := api.LoaderNone
	for i := len(rule.Handlers) - 1; i >= 0; i-- {
		h := rule.Handlers[i]
		fn, known := handlerLoaders[h]
		if !known {
			unmapped = append(unmapped, h)
			continue
		}
		if fn == nil || chosen != api.LoaderNone {
			continue
		}
		if l, ok := fn(ext); ok {
			chosen = l
		}
	}
	sort.Strings(unmapped)
	return chosen, unmapped
}

func (e *esbuildEngine) Execute(ctx context.Context, plan *Plan) (*Result, error) {
	bo, ok := plan.payload.(api.BuildOptions)
	if !ok {
		return nil, errors.New("plan was not produced by the esbuild engine")
	}

	start := time.Now()
	bctx, cerr := api.Context(bo)
	if cerr != nil {
		return nil, messagesError(cerr.Errors)
	}
	defer bctx.Dispose()

	done := make(chan api.BuildResult, 1)
	go func() { done <- bctx.Rebuild() }()

	var br api.BuildResult
	select {
	case br = <-done:
	case <-ctx.Done():
		bctx.Cancel()
		<-done
		return nil, ctx.Err()
	}

	if len(br.Errors) > 0 {
		for _, msg := range br.Errors {
			log.Error().Str("error", msg.Text).Msg("Build error")
		}
		return nil, messagesError(br.Errors)
	}

	res := &Result{
		Engine:   e.Name(),
		Warnings: append([]string(nil), plan.Warnings...),
		Duration: time.Since(start),
	}
	for _, w := range br.Warnings {
		res.Warnings = append(res.Warnings, formatMessage(w))
	}
	for _, f := range br.OutputFiles {
		log.Debug().Str("file", f.Path).Msg("Built file")
		res.Outputs = append(res.Outputs, f.Path)
	}

	meta := MetafilePath(plan.Config)
	if err := os.WriteFile(meta, []byte(br.Metafile), 0o644); err != nil {
		return nil, fmt.Errorf("writing metafile: %w", err)
	}
	log.Debug().Str("file", meta).Msg("Wrote metafile")
	res.Outputs = append(res.Outputs, meta)

	sort.Strings(res.Outputs)
	return res, nil
}

// MetafilePath is where the esbuild engine writes its build metadata: next
// to the bundle, named after it ("bundle.js" gets "bundle.meta.json").
func MetafilePath(cfg *config.BuildConfig) string {
	base := strings.TrimSuffix(cfg.OutputFilename, filepath.Ext(cfg.OutputFilename))
	return filepath.Join(cfg.OutputDirectory, base+".meta.json")
}

func messagesError(msgs []api.Message) error {
	if len(msgs) == 0 {
		return errors.New("esbuild failed with errors")
	}
	lines := make([]string, 0, len(msgs))
	for _, m := range msgs {
		lines = append(lines, formatMessage(m))
	}
	return fmt.Errorf("esbuild failed: %s", strings.Join(lines, "; "))
}

func formatMessage(m api.Message) string {
	if m.Location == nil {
		return m.Text
	}
	return fmt.Sprintf("%s:%d:%d: %s", m.Location.File, m.Location.Line, m.Location.Column, m.Text)
}
