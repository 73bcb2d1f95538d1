package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/lixenwraith/nsconfig"
)

const appName = "nsconfig"

type commandContext struct {
	configFlag *string
	nameFlag   *string
	mountFlags *[]string
	verbose    *bool

	configOnce sync.Once
	root       *nsconfig.Namespace
	configErr  error
}

func newCommandContext(configFlag, nameFlag *string, mountFlags *[]string, verbose *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		nameFlag:   nameFlag,
		mountFlags: mountFlags,
		verbose:    verbose,
	}
}

// ensureConfig builds the namespace tree once per invocation.
func (c *commandContext) ensureConfig(stderr io.Writer) (*nsconfig.Namespace, error) {
	c.configOnce.Do(func() {
		logger := newLogger(stderr, *c.verbose)

		path := strings.TrimSpace(*c.configFlag)
		if path == "" {
			path = nsconfig.DiscoverFile(nsconfig.DefaultDiscoveryOptions(appName), nil)
		}
		if path == "" {
			path = defaultConfigPath()
		}

		builder := nsconfig.NewBuilder(*c.nameFlag).
			WithArgs(nil).
			WithFile(path).
			WithLogger(logger)

		for _, spec := range *c.mountFlags {
			name, mountPath, ok := strings.Cut(spec, "=")
			if !ok || name == "" || mountPath == "" {
				c.configErr = fmt.Errorf("invalid --mount %q, expected name=path", spec)
				return
			}
			builder.WithMount(name, nsconfig.New("",
				nsconfig.WithFile(mountPath),
				nsconfig.WithLogger(logger),
			))
		}

		c.root, c.configErr = builder.Build()
	})
	return c.root, c.configErr
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// defaultConfigPath is where a fresh config is written when none was found.
func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return appName + ".json"
	}
	return filepath.Join(dir, appName, appName+".json")
}
