package markdown

import (
	"fmt"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// Policy names a bluemonday sanitising policy applied to converter output.
type Policy string

const (
	PolicyNone   Policy = "none"
	PolicyUGC    Policy = "ugc"
	PolicyStrict Policy = "strict"
)

// ParsePolicy maps a configuration string onto a Policy. Empty input selects
// PolicyNone.
func ParsePolicy(raw string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(raw))) {
	case "", PolicyNone:
		return PolicyNone, nil
	case PolicyUGC:
		return PolicyUGC, nil
	case PolicyStrict:
		return PolicyStrict, nil
	default:
		return "", fmt.Errorf("markdown: unknown sanitize policy %q", raw)
	}
}

var (
	ugcPolicyOnce    sync.Once
	ugcPolicy        *bluemonday.Policy
	strictPolicyOnce sync.Once
	strictPolicy     *bluemonday.Policy
)

func ugcSanitizer() *bluemonday.Policy {
	ugcPolicyOnce.Do(func() {
		policy := bluemonday.UGCPolicy()
		policy.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("code", "pre")
		policy.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6")
		policy.AllowAttrs("type", "checked", "disabled").OnElements("input")
		ugcPolicy = policy
	})
	return ugcPolicy
}

func strictSanitizer() *bluemonday.Policy {
	strictPolicyOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
	})
	return strictPolicy
}

type sanitizingConverter struct {
	inner  Converter
	policy *bluemonday.Policy
}

// Sanitize wraps converter so its output passes through policy. PolicyNone
// returns converter unchanged.
func Sanitize(converter Converter, policy Policy) (Converter, error) {
	if converter == nil {
		return nil, fmt.Errorf("markdown: converter is required")
	}
	switch policy {
	case "", PolicyNone:
		return converter, nil
	case PolicyUGC:
		return &sanitizingConverter{inner: converter, policy: ugcSanitizer()}, nil
	case PolicyStrict:
		return &sanitizingConverter{inner: converter, policy: strictSanitizer()}, nil
	default:
		return nil, fmt.Errorf("markdown: unknown sanitize policy %q", policy)
	}
}

func (c *sanitizingConverter) Name() string {
	return c.inner.Name()
}

func (c *sanitizingConverter) Convert(src []byte) (string, error) {
	out, err := c.inner.Convert(src)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(c.policy.Sanitize(out)), nil
}
