// FILE: lixenwraith/nsconfig/namespace_test.go
package nsconfig

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// childOf fetches key from n and requires it to be a namespace
func childOf(t *testing.T, n *Namespace, key string) *Namespace {
	t.Helper()
	value, err := n.Get(key)
	require.NoError(t, err)
	child, ok := value.(*Namespace)
	require.True(t, ok, "expected *Namespace at %q, got %T", key, value)
	return child
}

// newTestTree builds the root "config" with a nested "nested" and a JSON file mounted at "mounted"
func newTestTree(t *testing.T) (*Namespace, *memFS) {
	t.Helper()
	mem := newMemFS()

	cfg := New("config")
	_, err := cfg.Namespace("nested")
	require.NoError(t, err)

	path := filepath.Join("path", "to", "mounted")
	require.NoError(t, cfg.Mount("mounted", NewJSON(path, WithFilesystem(mem))))

	return cfg, mem
}

// TestLoadData tests lazy loading and load error translation
func TestLoadData(t *testing.T) {
	path := filepath.Join("path", "to", "my", "config", "file")

	t.Run("FileDeletedMidRead", func(t *testing.T) {
		mem := newMemFS()
		mem.readErrs[path] = &fs.PathError{Op: "open", Path: path, Err: fmt.Errorf("error: %w", fs.ErrNotExist)}
		ns := New("new_namespace", WithFile(path), WithFilesystem(mem))

		_, err := ns.Get("test")
		require.Error(t, err)

		var loadErr *LoadError
		require.ErrorAs(t, err, &loadErr)
		assert.Contains(t, err.Error(), "error")
		assert.Equal(t, mem.readErrs[path].Error(), err.Error())
		assert.Equal(t, path, loadErr.Path)
		assert.ErrorIs(t, err, ErrLoad)
		assert.ErrorIs(t, err, fs.ErrNotExist)
	})

	t.Run("FileUnreadable", func(t *testing.T) {
		mem := newMemFS()
		mem.readErrs[path] = &fs.PathError{Op: "open", Path: path, Err: fs.ErrPermission}
		ns := New("new_namespace", WithFile(path), WithFilesystem(mem))

		_, err := ns.Get("test")
		require.Error(t, err)
		assert.EqualError(t, err, fmt.Sprintf("Unable to open %s for reading", path))
		assert.ErrorIs(t, err, ErrLoad)
		assert.ErrorIs(t, err, fs.ErrPermission)
	})

	t.Run("LoadAttemptedOnce", func(t *testing.T) {
		mem := newMemFS()
		mem.readErrs[path] = &fs.PathError{Op: "open", Path: path, Err: fs.ErrPermission}
		ns := New("new_namespace", WithFile(path), WithFilesystem(mem))

		_, err1 := ns.Get("test")
		err2 := ns.Set("test", 1)
		_, err3 := ns.ToMap()

		assert.ErrorIs(t, err1, ErrLoad)
		assert.Same(t, err1, err2)
		assert.Same(t, err1, err3)
		assert.Equal(t, 1, mem.reads[path])
		assert.False(t, ns.Loaded())
	})

	t.Run("OtherReadErrorsPropagateUnchanged", func(t *testing.T) {
		mem := newMemFS()
		mem.readErrs[path] = errDiskFailure
		ns := New("new_namespace", WithFile(path), WithFilesystem(mem))

		_, err := ns.Get("test")
		assert.Equal(t, errDiskFailure, err)
		assert.NotErrorIs(t, err, ErrLoad)
	})

	t.Run("DecodeErrorsPropagate", func(t *testing.T) {
		mem := newMemFS()
		mem.files[path] = []byte(`{"broken": `)
		ns := New("new_namespace", WithFile(path), WithStore(JSONStore{}), WithFilesystem(mem))

		_, err := ns.Get("test")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse JSON")
		assert.NotErrorIs(t, err, ErrLoad)
	})

	t.Run("MissingFileIsEmpty", func(t *testing.T) {
		mem := newMemFS()
		ns := New("new_namespace", WithFile(path), WithFilesystem(mem))

		data, err := ns.ToMap()
		require.NoError(t, err)
		assert.Empty(t, data)
		assert.True(t, ns.Loaded())
		assert.Equal(t, 0, mem.reads[path])
	})

	t.Run("LoadsLazilyAndOnce", func(t *testing.T) {
		mem := newMemFS()
		mem.files[path] = []byte(`{"test": "value", "port": 8080}`)
		ns := New("new_namespace", WithFile(path), WithStore(JSONStore{}), WithFilesystem(mem))

		assert.False(t, ns.Loaded())
		assert.Equal(t, 0, mem.reads[path])

		value, err := ns.Get("test")
		require.NoError(t, err)
		assert.Equal(t, "value", value)

		// File changes after the load are not picked up
		mem.files[path] = []byte(`{"test": "changed"}`)
		value, err = ns.Get("test")
		require.NoError(t, err)
		assert.Equal(t, "value", value)
		assert.Equal(t, 1, mem.reads[path])
	})

	t.Run("StoreChosenFromExtension", func(t *testing.T) {
		mem := newMemFS()
		tomlPath := filepath.Join("path", "to", "settings.toml")
		mem.files[tomlPath] = []byte("[server]\nport = 9000\n")
		ns := New("settings", WithFile(tomlPath), WithFilesystem(mem))

		assert.Equal(t, FormatTOML, ns.Store().Format())
		port, err := ns.Int64("server.port")
		require.NoError(t, err)
		assert.Equal(t, int64(9000), port)
	})

	t.Run("ExtensionlessFileSniffed", func(t *testing.T) {
		mem := newMemFS()
		mem.files[path] = []byte("server:\n  port: 9000\n")
		ns := New("new_namespace", WithFile(path), WithFilesystem(mem))
		assert.Nil(t, ns.Store())

		port, err := ns.Int64("server.port")
		require.NoError(t, err)
		assert.Equal(t, int64(9000), port)
		require.NotNil(t, ns.Store())
		assert.Equal(t, FormatYAML, ns.Store().Format())

		// Saved back in the detected format
		require.NoError(t, ns.Set("name", "demo"))
		require.NoError(t, ns.Save())
		assert.Contains(t, string(mem.files[path]), "name: demo")
	})

	t.Run("ExtensionlessNewFileSavedAsJSON", func(t *testing.T) {
		mem := newMemFS()
		ns := New("new_namespace", WithFile(path), WithFilesystem(mem))
		require.NoError(t, ns.Set("name", "demo"))
		require.NoError(t, ns.Save())
		assert.JSONEq(t, `{"name": "demo"}`, string(mem.files[path]))
	})

	t.Run("InMemoryNamespaceNeverTouchesFilesystem", func(t *testing.T) {
		mem := newMemFS()
		ns := New("config", WithFilesystem(mem))
		require.NoError(t, ns.Set("a", 1))
		assert.Empty(t, mem.reads)
		assert.Nil(t, ns.Store())
	})
}

// TestGet tests key access
func TestGet(t *testing.T) {
	t.Run("StringAndNamedKeysShareSlot", func(t *testing.T) {
		type symbol string

		cfg := New("config")
		require.NoError(t, cfg.Set("foo", "bar"))

		byString, err := cfg.Get("foo")
		require.NoError(t, err)
		bySymbol, err := cfg.Get(string(symbol("foo")))
		require.NoError(t, err)

		assert.Equal(t, "bar", byString)
		assert.Equal(t, "bar", bySymbol)
	})

	t.Run("ArbitrarilyDeepValues", func(t *testing.T) {
		cfg := New("config")
		require.NoError(t, cfg.Set("foo", "bar"))

		value, err := cfg.Get("bar")
		require.NoError(t, err)
		assert.Equal(t, map[string]any{}, value)

		deep, err := cfg.GetPath("bar.baz")
		require.NoError(t, err)
		assert.Equal(t, map[string]any{}, deep)
	})

	t.Run("PlaceholderNotPersisted", func(t *testing.T) {
		cfg := New("config")

		value, err := cfg.Get("bar")
		require.NoError(t, err)
		value.(map[string]any)["baz"] = 1

		data, err := cfg.ToMap()
		require.NoError(t, err)
		assert.NotContains(t, data, "bar")

		again, err := cfg.Get("bar")
		require.NoError(t, err)
		assert.Empty(t, again)
	})

	t.Run("SetOverwrites", func(t *testing.T) {
		cfg := New("config")
		require.NoError(t, cfg.Set("foo", "bar"))
		require.NoError(t, cfg.Set("foo", []any{"a", "b"}))

		value, err := cfg.Get("foo")
		require.NoError(t, err)
		assert.Equal(t, []any{"a", "b"}, value)
	})
}

// TestNamespace tests nested namespace creation
func TestNamespace(t *testing.T) {
	cfg := New("config")
	created, err := cfg.Namespace("test")
	require.NoError(t, err)

	t.Run("MountsNewNamespace", func(t *testing.T) {
		child := childOf(t, cfg, "test")
		assert.Same(t, created, child)
	})

	t.Run("SetsName", func(t *testing.T) {
		assert.Equal(t, "config.test", childOf(t, cfg, "test").Name())
		assert.Equal(t, "test", created.BaseName())
	})

	t.Run("SetsParent", func(t *testing.T) {
		assert.Same(t, cfg, childOf(t, cfg, "test").Parent())
	})

	t.Run("HasNoFile", func(t *testing.T) {
		assert.Empty(t, childOf(t, cfg, "test").File())
	})

	t.Run("SecondCallReplaces", func(t *testing.T) {
		root := New("config")
		first, err := root.Namespace("dup")
		require.NoError(t, err)
		require.NoError(t, first.Set("a", 1))

		second, err := root.Namespace("dup")
		require.NoError(t, err)
		assert.NotSame(t, first, second)
		assert.Same(t, second, childOf(t, root, "dup"))

		value, err := second.Get("a")
		require.NoError(t, err)
		assert.Equal(t, map[string]any{}, value)
	})

	t.Run("SeededFromLoadedSection", func(t *testing.T) {
		mem := newMemFS()
		mem.files["cfg.json"] = []byte(`{"ui": {"theme": "dark"}}`)
		root := New("config", WithFile("cfg.json"), WithFilesystem(mem))

		ui, err := root.Namespace("ui")
		require.NoError(t, err)
		theme, err := ui.Get("theme")
		require.NoError(t, err)
		assert.Equal(t, "dark", theme)
	})
}

// TestMount tests mounting externally constructed namespaces
func TestMount(t *testing.T) {
	cfg := New("config")
	mounted := New("")
	require.NoError(t, cfg.Mount("test_mount", mounted))

	t.Run("MountsProvidedNamespace", func(t *testing.T) {
		assert.Same(t, mounted, childOf(t, cfg, "test_mount"))
	})

	t.Run("SetsName", func(t *testing.T) {
		assert.Equal(t, "config.test_mount", childOf(t, cfg, "test_mount").Name())
	})

	t.Run("SetsParent", func(t *testing.T) {
		assert.Same(t, cfg, childOf(t, cfg, "test_mount").Parent())
	})

	t.Run("KeepsOwnFile", func(t *testing.T) {
		mem := newMemFS()
		file := NewJSON("user.json", WithFilesystem(mem))
		require.NoError(t, cfg.Mount("user", file))
		assert.Equal(t, "user.json", file.File())
		assert.False(t, file.Loaded(), "mounting must not load the child")
	})

	t.Run("NotWrittenIntoData", func(t *testing.T) {
		data, err := cfg.ToMap()
		require.NoError(t, err)
		assert.NotContains(t, data, "test_mount")

		keys, err := cfg.Keys()
		require.NoError(t, err)
		assert.Contains(t, keys, "test_mount")
	})

	t.Run("NilRejected", func(t *testing.T) {
		assert.Error(t, cfg.Mount("nothing", nil))
	})

	t.Run("SetReplacesMount", func(t *testing.T) {
		root := New("config")
		user := New("")
		require.NoError(t, root.Mount("x", user))
		require.NoError(t, root.Set("x", "v"))

		value, err := root.Get("x")
		require.NoError(t, err)
		assert.Equal(t, "v", value)
		assert.Nil(t, user.Parent())

		keys, err := root.Keys()
		require.NoError(t, err)
		assert.Equal(t, []string{"x"}, keys)
	})

	t.Run("NamespaceReplacesMount", func(t *testing.T) {
		root := New("config")
		user := New("")
		require.NoError(t, root.Mount("x", user))

		child, err := root.Namespace("x")
		require.NoError(t, err)
		assert.Same(t, child, childOf(t, root, "x"))
		assert.False(t, user.IsChild())

		snapshot, err := root.Snapshot()
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"x": map[string]any{}}, snapshot)
	})

	t.Run("MountReplacesNested", func(t *testing.T) {
		mem := newMemFS()
		root := NewJSON("root.json", WithFilesystem(mem))
		nested, err := root.Namespace("x")
		require.NoError(t, err)
		require.NoError(t, nested.Set("secret", "s"))

		user := NewJSON("user.json", WithFilesystem(mem))
		require.NoError(t, root.Mount("x", user))
		assert.Same(t, user, childOf(t, root, "x"))
		assert.Nil(t, nested.Parent())

		data, err := root.ToMap()
		require.NoError(t, err)
		assert.NotContains(t, data, "x")

		require.NoError(t, root.Save())
		assert.Equal(t, "{}\n", string(mem.files["root.json"]))
	})

	t.Run("MountReplacesValue", func(t *testing.T) {
		root := New("config")
		require.NoError(t, root.Set("x", map[string]any{"old": true}))
		require.NoError(t, root.Mount("x", New("")))

		data, err := root.ToMap()
		require.NoError(t, err)
		assert.Empty(t, data)
	})

	t.Run("RemountMovesChild", func(t *testing.T) {
		first := New("first")
		second := New("second")
		user := New("")
		require.NoError(t, first.Mount("user", user))
		require.NoError(t, second.Mount("settings", user))

		assert.Equal(t, "second.settings", user.Name())
		keys, err := first.Keys()
		require.NoError(t, err)
		assert.Empty(t, keys)
	})

	t.Run("RejectsCycles", func(t *testing.T) {
		root := New("config")
		nested, err := root.Namespace("nested")
		require.NoError(t, err)

		assert.Error(t, root.Mount("self", root))
		assert.Error(t, nested.Mount("up", root))
		assert.Equal(t, "config.nested", nested.Name())
		assert.False(t, root.IsChild())
	})
}

// TestValue tests default value declarations
func TestValue(t *testing.T) {
	t.Run("ConfiguresDefault", func(t *testing.T) {
		cfg := New("config")
		require.NoError(t, cfg.Value("my_value", DefaultTo(func() any { return "foo" })))

		value, err := cfg.Get("my_value")
		require.NoError(t, err)
		assert.Equal(t, "foo", value)
	})

	t.Run("DefaultProducedOnce", func(t *testing.T) {
		cfg := New("config")
		calls := 0
		require.NoError(t, cfg.Value("counter", DefaultTo(func() any {
			calls++
			return map[string]any{"call": calls}
		})))

		first, err := cfg.Get("counter")
		require.NoError(t, err)
		second, err := cfg.Get("counter")
		require.NoError(t, err)

		assert.Equal(t, 1, calls)
		assert.Equal(t, first, second)

		data, err := cfg.ToMap()
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"call": 1}, data["counter"])
	})

	t.Run("DeclarationDoesNotMaterialize", func(t *testing.T) {
		cfg := New("config")
		require.NoError(t, cfg.Value("lazy", DefaultValue(42)))

		data, err := cfg.ToMap()
		require.NoError(t, err)
		assert.NotContains(t, data, "lazy")
	})

	t.Run("SetBypassesDefault", func(t *testing.T) {
		cfg := New("config")
		called := false
		require.NoError(t, cfg.Value("v", DefaultTo(func() any {
			called = true
			return "default"
		})))
		require.NoError(t, cfg.Set("v", "explicit"))

		value, err := cfg.Get("v")
		require.NoError(t, err)
		assert.Equal(t, "explicit", value)
		assert.False(t, called)
	})

	t.Run("StoredValueWinsOverDefault", func(t *testing.T) {
		mem := newMemFS()
		mem.files["cfg.json"] = []byte(`{"editor": "emacs"}`)
		cfg := New("config", WithFile("cfg.json"), WithFilesystem(mem))
		require.NoError(t, cfg.Value("editor", DefaultValue("vim")))

		value, err := cfg.Get("editor")
		require.NoError(t, err)
		assert.Equal(t, "emacs", value)
	})
}

// TestName tests dotted name composition
func TestName(t *testing.T) {
	cfg, _ := newTestTree(t)

	t.Run("RootNamespace", func(t *testing.T) {
		assert.Equal(t, "config", cfg.Name())
	})

	t.Run("NestedNamespace", func(t *testing.T) {
		assert.Equal(t, "config.nested", childOf(t, cfg, "nested").Name())
	})

	t.Run("MountedFile", func(t *testing.T) {
		assert.Equal(t, "config.mounted", childOf(t, cfg, "mounted").Name())
	})

	t.Run("DeeplyNested", func(t *testing.T) {
		nested := childOf(t, cfg, "nested")
		deeper, err := nested.Namespace("deeper")
		require.NoError(t, err)
		assert.Equal(t, "config.nested.deeper", deeper.Name())
	})

	t.Run("FreeStanding", func(t *testing.T) {
		assert.Equal(t, "", New("").Name())
	})
}

// TestToMap tests selective serialization
func TestToMap(t *testing.T) {
	cfg, _ := newTestTree(t)

	require.NoError(t, cfg.Set("in_root", true))
	require.NoError(t, childOf(t, cfg, "nested").Set("value", "is saved too"))
	require.NoError(t, childOf(t, cfg, "mounted").Set("value", "is saved to a different file"))

	t.Run("IncludesNamespaceContents", func(t *testing.T) {
		data, err := cfg.ToMap()
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"value": "is saved too"}, data["nested"])
	})

	t.Run("IncludesOwnValues", func(t *testing.T) {
		data, err := cfg.ToMap()
		require.NoError(t, err)
		assert.Equal(t, true, data["in_root"])
	})

	t.Run("ExcludesMountedFiles", func(t *testing.T) {
		data, err := cfg.ToMap()
		require.NoError(t, err)
		assert.NotContains(t, data, "mounted")
	})

	t.Run("ReturnsFreshMap", func(t *testing.T) {
		data, err := cfg.ToMap()
		require.NoError(t, err)
		data["in_root"] = false
		delete(data, "nested")

		again, err := cfg.ToMap()
		require.NoError(t, err)
		assert.Equal(t, true, again["in_root"])
		assert.Contains(t, again, "nested")
	})

	t.Run("CopiesPlainSections", func(t *testing.T) {
		root := New("config")
		require.NoError(t, root.Set("server", map[string]any{
			"host":  "localhost",
			"hosts": []any{map[string]any{"name": "a"}},
		}))

		data, err := root.ToMap()
		require.NoError(t, err)
		server := data["server"].(map[string]any)
		server["host"] = "changed"
		server["hosts"].([]any)[0].(map[string]any)["name"] = "changed"

		host, err := root.String("server.host")
		require.NoError(t, err)
		assert.Equal(t, "localhost", host)

		stored, err := root.GetPath("server.hosts")
		require.NoError(t, err)
		assert.Equal(t, []any{map[string]any{"name": "a"}}, stored)
	})

	t.Run("SnapshotIncludesMounts", func(t *testing.T) {
		snapshot, err := cfg.Snapshot()
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"value": "is saved to a different file"}, snapshot["mounted"])
	})
}

// TestIsChild tests child detection
func TestIsChild(t *testing.T) {
	cfg, _ := newTestTree(t)

	t.Run("RootNamespace", func(t *testing.T) {
		assert.False(t, cfg.IsChild())
	})

	t.Run("NestedNamespace", func(t *testing.T) {
		assert.True(t, childOf(t, cfg, "nested").IsChild())
	})

	t.Run("MountedFile", func(t *testing.T) {
		assert.True(t, childOf(t, cfg, "mounted").IsChild())
	})
}

// TestIncludeInParent tests which children are serialized with their parent
func TestIncludeInParent(t *testing.T) {
	cfg, _ := newTestTree(t)

	t.Run("RootNamespace", func(t *testing.T) {
		assert.False(t, cfg.IncludeInParent())
	})

	t.Run("NestedNamespace", func(t *testing.T) {
		assert.True(t, childOf(t, cfg, "nested").IncludeInParent())
	})

	t.Run("MountedFile", func(t *testing.T) {
		assert.False(t, childOf(t, cfg, "mounted").IncludeInParent())
	})
}

// TestKeys tests key listing
func TestKeys(t *testing.T) {
	cfg, _ := newTestTree(t)
	require.NoError(t, cfg.Set("b", 1))
	require.NoError(t, cfg.Set("a", 2))

	keys, err := cfg.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "mounted", "nested"}, keys)
}
