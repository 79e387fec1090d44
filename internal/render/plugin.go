package render

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
)

const templateFuncName = "Templates"

// LoadPluginDir evaluates every .go file in dir and registers the templates
// each declares via Templates() map[string]string. Files are applied in path
// order, so later files win name collisions deterministically. A missing
// directory is not an error.
func (r *Registry) LoadPluginDir(dir string) error {
	trimmed := strings.TrimSpace(dir)
	if trimmed == "" {
		return nil
	}
	entries, err := os.ReadDir(trimmed)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("render: read plugin dir %s: %w", trimmed, err)
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".go" {
			continue
		}
		paths = append(paths, filepath.Join(trimmed, entry.Name()))
	}
	sort.Strings(paths)
	for _, path := range paths {
		if err := r.loadPluginFile(path); err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry) loadPluginFile(path string) error {
	code, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("render: read plugin %s: %w", path, err)
	}
	if len(strings.TrimSpace(string(code))) == 0 {
		return fmt.Errorf("render: plugin %s is empty", path)
	}
	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return fmt.Errorf("render: plugin %s: %w", path, err)
	}
	if _, err := i.EvalPath(path); err != nil {
		return fmt.Errorf("render: interpret %s: %w", path, err)
	}
	fnValue, err := i.Eval(templateFuncName)
	if err != nil {
		return fmt.Errorf("render: plugin %s must define %s() map[string]string: %w", path, templateFuncName, err)
	}
	templates, err := invokeTemplateFunc(fnValue)
	if err != nil {
		return fmt.Errorf("render: plugin %s: %w", path, err)
	}
	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := r.Register(name, templates[name]); err != nil {
			return fmt.Errorf("render: plugin %s: %w", path, err)
		}
	}
	return nil
}

func invokeTemplateFunc(value reflect.Value) (map[string]string, error) {
	if !value.IsValid() {
		return nil, fmt.Errorf("missing %s function", templateFuncName)
	}
	if value.Kind() != reflect.Func {
		return nil, fmt.Errorf("%s is not a function", templateFuncName)
	}
	results := value.Call(nil)
	if len(results) != 1 {
		return nil, fmt.Errorf("%s must return map[string]string", templateFuncName)
	}
	if templates, ok := results[0].Interface().(map[string]string); ok {
		return templates, nil
	}
	raw := results[0]
	if raw.Kind() != reflect.Map {
		return nil, fmt.Errorf("%s must return map[string]string", templateFuncName)
	}
	out := make(map[string]string, raw.Len())
	for _, key := range raw.MapKeys() {
		name, ok := key.Interface().(string)
		if !ok {
			return nil, fmt.Errorf("%s returned non-string key", templateFuncName)
		}
		text, ok := raw.MapIndex(key).Interface().(string)
		if !ok {
			return nil, fmt.Errorf("%s returned non-string value for %q", templateFuncName, name)
		}
		out[name] = text
	}
	return out, nil
}
