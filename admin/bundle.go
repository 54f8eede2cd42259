package admin

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"os"
	"path/filepath"
)

//go:embed frontend/app.css frontend/app.js
var frontendFS embed.FS

// Initialize writes the frontend into BundleDir and builds
// components.bundle.js from the registered components. Only the first call
// does any work; later calls return its result.
func (a *Admin) Initialize(ctx context.Context) error {
	a.initOnce.Do(func() {
		a.initErr = a.bundle(ctx)
		if a.initErr == nil {
			close(a.ready)
		}
	})
	return a.initErr
}

// Ready is closed once Initialize has succeeded.
func (a *Admin) Ready() <-chan struct{} {
	return a.ready
}

func (a *Admin) bundle(ctx context.Context) error {
	dir := a.options.BundleDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create bundle dir: %w", err)
	}

	for _, name := range []string{StyleBundle, AppBundle} {
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := frontendFS.ReadFile("frontend/" + name)
		if err != nil {
			return fmt.Errorf("read embedded %s: %w", name, err)
		}
		if err := writeFileAtomic(filepath.Join(dir, name), data); err != nil {
			return err
		}
	}

	var buf bytes.Buffer
	buf.WriteString("window.GinAdmin = window.GinAdmin || { components: {} };\n")
	for _, name := range sortedKeys(a.options.Components) {
		if err := ctx.Err(); err != nil {
			return err
		}
		src, err := os.ReadFile(a.options.Components[name])
		if err != nil {
			return fmt.Errorf("read component %s: %w", name, err)
		}
		fmt.Fprintf(&buf, "\n/* %s */\n(function () {\n%s\n})();\n", name, bytes.TrimSpace(src))
	}
	return writeFileAtomic(filepath.Join(dir, ComponentsBundle), buf.Bytes())
}

// writeFileAtomic writes through a temp file so readers never see a partial bundle.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", path, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
