// FILE: lixenwraith/nsconfig/example/main.go
package main

import (
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/lixenwraith/nsconfig"
)

// UserSettings are the per-user defaults kept in their own file.
type UserSettings struct {
	Editor string `toml:"editor"`
	Module struct {
		Author  string        `toml:"author"`
		License string        `toml:"license"`
		Timeout time.Duration `toml:"timeout"`
	} `toml:"module"`
}

func main() {
	dir, err := os.MkdirTemp("", "nsconfig-example")
	if err != nil {
		log.Fatalf("❌ Failed to create work dir: %v", err)
	}
	defer os.RemoveAll(dir)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))

	// =========================================================================
	// PART 1: A root namespace with a nested section and a mounted file
	// =========================================================================
	log.Println("---")
	log.Println("➡️  PART 1: Building the tree...")

	userFile := filepath.Join(dir, "user.json")
	user := nsconfig.NewJSON(userFile, nsconfig.WithLogger(logger))

	defaults := &UserSettings{Editor: "vim"}
	defaults.Module.License = "Apache-2.0"
	defaults.Module.Timeout = 30 * time.Second

	cfg, err := nsconfig.NewBuilder("config").
		WithLogger(logger).
		WithMount("user", user).
		Build()
	if err != nil {
		log.Fatalf("❌ Failed to build config: %v", err)
	}
	if err := user.RegisterDefaults("", defaults); err != nil {
		log.Fatalf("❌ Failed to register defaults: %v", err)
	}

	session, err := cfg.Namespace("session")
	if err != nil {
		log.Fatalf("❌ Failed to nest namespace: %v", err)
	}
	if err := session.Set("started", time.Now().Format(time.RFC3339)); err != nil {
		log.Fatalf("❌ Failed to set value: %v", err)
	}

	log.Printf("✅ %s is nested, %s is mounted from %s", session.Name(), user.Name(), user.File())

	// =========================================================================
	// PART 2: Reading through dotted paths materializes defaults
	// =========================================================================
	log.Println("---")
	log.Println("➡️  PART 2: Reading values...")

	editor, _ := cfg.String("user.editor")
	license, _ := cfg.String("user.module.license")
	missing, _ := cfg.GetPath("bar.baz")
	log.Printf("  user.editor = %s", editor)
	log.Printf("  user.module.license = %s", license)
	log.Printf("  bar.baz = %v (unknown paths read as empty maps)", missing)

	var settings UserSettings
	if err := cfg.Scan(&settings, "user"); err != nil {
		log.Fatalf("❌ Failed to scan: %v", err)
	}
	log.Printf("  scanned module timeout = %s", settings.Module.Timeout)

	// =========================================================================
	// PART 3: Saving. The root has no file; the mounted file is written.
	// =========================================================================
	log.Println("---")
	log.Println("➡️  PART 3: Saving...")

	if err := cfg.SetPath("user.module.author", "Jane Doe"); err != nil {
		log.Fatalf("❌ Failed to set value: %v", err)
	}
	if err := cfg.SaveAll(); err != nil {
		log.Fatalf("❌ Failed to save: %v", err)
	}

	root, _ := cfg.ToMap()
	log.Printf("  root ToMap (mounted data excluded): %v", root)

	raw, err := os.ReadFile(userFile)
	if err != nil {
		log.Fatalf("❌ Failed to read %s: %v", userFile, err)
	}
	log.Printf("  %s:\n%s", userFile, raw)

	log.Println("---")
	log.Print(cfg.Debug())
}
