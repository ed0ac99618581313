package prompt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-mdform/pkg/meta"
)

// Missing returns the required keys that are absent from m or blank, in
// the order given.
func Missing(m meta.Meta, required []string) []string {
	var out []string
	for _, key := range required {
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" {
			continue
		}
		value, ok := m.Get(key)
		if !ok || strings.TrimSpace(value.String()) == "" {
			out = append(out, key)
		}
	}
	return out
}

// Fill asks for every missing required key and returns a copy of m with the
// answers added. Keys listed in listKeys are split on commas.
func Fill(ctx context.Context, driver Driver, m meta.Meta, required, listKeys []string) (meta.Meta, error) {
	if driver == nil {
		return nil, errors.New("prompt: driver is nil")
	}
	lists := make(map[string]bool, len(listKeys))
	for _, key := range listKeys {
		lists[strings.ToLower(strings.TrimSpace(key))] = true
	}

	out := make(meta.Meta, len(m))
	for key, value := range m {
		out[key] = value
	}

	for _, key := range Missing(m, required) {
		cfg := InputConfig{
			Message:   fmt.Sprintf("%s:", key),
			Validator: nonBlank,
		}
		if lists[key] {
			cfg.Help = "Separate values with commas."
		}
		answer, err := driver.Input(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if lists[key] {
			var items []string
			for _, item := range strings.Split(answer, ",") {
				if item = strings.TrimSpace(item); item != "" {
					items = append(items, item)
				}
			}
			out[key] = meta.List(items...)
			continue
		}
		out[key] = meta.String(strings.TrimSpace(answer))
	}
	return out, nil
}

func nonBlank(value string) error {
	if strings.TrimSpace(value) == "" {
		return errors.New("a value is required")
	}
	return nil
}
