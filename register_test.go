package nsconfig

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type moduleDefaults struct {
	Author  string        `toml:"author"`
	License string        `toml:"license"`
	Timeout time.Duration `toml:"timeout"`
}

type userDefaults struct {
	Editor   string         `toml:"editor"`
	Module   moduleDefaults `toml:"module"`
	Skipped  string         `toml:"-"`
	Optional *moduleDefaults
	Started  time.Time `toml:"started"`
	internal string
}

func TestRegisterDefaults(t *testing.T) {
	defaults := userDefaults{
		Editor:  "vim",
		Module:  moduleDefaults{License: "Apache-2.0", Timeout: 30 * time.Second},
		Skipped: "never",
		Started: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	t.Run("DeclaresDefaultsAsRules", func(t *testing.T) {
		mem := newMemFS()
		ns := NewJSON("user.json", WithFilesystem(mem))
		require.NoError(t, ns.RegisterDefaults("", &defaults))

		// Nothing is stored until read
		data, err := ns.ToMap()
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"module": map[string]any{}}, data)

		editor, err := ns.String("editor")
		require.NoError(t, err)
		assert.Equal(t, "vim", editor)

		license, err := ns.String("module.license")
		require.NoError(t, err)
		assert.Equal(t, "Apache-2.0", license)

		value, err := ns.GetPath("started")
		require.NoError(t, err)
		assert.Equal(t, defaults.Started, value)

		_, err = ns.String("Skipped")
		assert.ErrorIs(t, err, ErrPathNotFound)
		_, err = ns.String("internal")
		assert.ErrorIs(t, err, ErrPathNotFound)
	})

	t.Run("StoredValuesWin", func(t *testing.T) {
		mem := newMemFS()
		mem.files["user.json"] = []byte(`{"editor": "emacs", "module": {"author": "me"}}`)
		ns := NewJSON("user.json", WithFilesystem(mem))
		require.NoError(t, ns.RegisterDefaults("", defaults))

		editor, err := ns.String("editor")
		require.NoError(t, err)
		assert.Equal(t, "emacs", editor)

		author, err := ns.String("module.author")
		require.NoError(t, err)
		assert.Equal(t, "me", author)

		license, err := ns.String("module.license")
		require.NoError(t, err)
		assert.Equal(t, "Apache-2.0", license)
	})

	t.Run("NonNilPointerSection", func(t *testing.T) {
		withOptional := defaults
		withOptional.Optional = &moduleDefaults{Author: "someone"}

		ns := New("config")
		require.NoError(t, ns.RegisterDefaults("", withOptional))

		author, err := ns.String("Optional.author")
		require.NoError(t, err)
		assert.Equal(t, "someone", author)
	})

	t.Run("Prefix", func(t *testing.T) {
		cfg, mem := newTestTree(t)
		require.NoError(t, cfg.RegisterDefaults("mounted.module", moduleDefaults{License: "MIT"}))

		license, err := cfg.String("mounted.module.license")
		require.NoError(t, err)
		assert.Equal(t, "MIT", license)

		// The mount was reused, not shadowed
		require.NoError(t, cfg.SaveAll())
		assert.Contains(t, string(mem.files["path/to/mounted"]), `"license": "MIT"`)
	})

	t.Run("InvalidKeys", func(t *testing.T) {
		type bad struct {
			Good  string `toml:"good"`
			Dots  string `toml:"has.dot"`
			Space string `toml:"has space"`
		}
		ns := New("config")
		err := ns.RegisterDefaults("", bad{Good: "ok"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to register 2 field(s)")

		good, err := ns.String("good")
		require.NoError(t, err)
		assert.Equal(t, "ok", good)
	})

	t.Run("RejectsNonStructs", func(t *testing.T) {
		ns := New("config")
		assert.Error(t, ns.RegisterDefaults("", 42))
		assert.Error(t, ns.RegisterDefaults("", (*userDefaults)(nil)))
	})
}
