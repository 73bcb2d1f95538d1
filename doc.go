// File: lixenwraith/nsconfig/doc.go

// Package nsconfig provides hierarchical, lazily-loaded configuration namespaces
// for Go applications. A tree of named namespaces holds key/value settings;
// children are either nested (kept in memory and saved with their parent) or
// mounted (backed by their own JSON, TOML or YAML file).
//
// Features:
//   - Lazy loading: a backing file is read on the first access, exactly once
//   - Missing files mean "no settings yet", unreadable files give a *LoadError
//   - Declared defaults, produced and stored on first read
//   - Nested and mounted namespaces with dotted full names
//   - ToMap flattening that leaves out separately persisted mounted files
//   - Dotted path access, typed accessors and struct scanning (mapstructure)
//   - Struct defaults registration and a fluent builder
//
// Quick Start:
//
//	cfg := nsconfig.New("config")
//	user := nsconfig.NewJSON(filepath.Join(home, ".myapp", "user.json"))
//	if err := cfg.Mount("user", user); err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := user.Value("editor", nsconfig.DefaultTo(func() any { return "vim" })); err != nil {
//	    log.Fatal(err)
//	}
//
//	editor, _ := cfg.String("user.editor") // "vim", now stored in user
//	_ = user.Set("theme", "dark")
//	_ = cfg.SaveAll()                      // writes user.json
//
// Unknown keys read as empty maps, so chained lookups such as
// cfg.GetPath("bar.baz") return map[string]any{} instead of failing.
//
// Thread Safety:
// A Namespace is not safe for concurrent use. The lazy load in particular is
// not atomic; callers sharing a tree across goroutines must synchronize.
package nsconfig
