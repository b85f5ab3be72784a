package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"

	"github.com/snapnote-lab/snapnote/pkg/service/notechat"
	"github.com/snapnote-lab/snapnote/pkg/service/reconcile"
)

// GenerationPolicy tunes the generation boundary: how much raw screenshot
// text is embedded into prompts and how many suggestions survive. Zero
// values keep the built-in defaults.
type GenerationPolicy struct {
	RawTextLimit     int `toml:"raw_text_limit"`
	ContextTextLimit int `toml:"context_text_limit"`
	MaxSuggestions   int `toml:"max_suggestions"`
}

// Validate checks the policy values
func (p *GenerationPolicy) Validate() error {
	if p.RawTextLimit < 0 {
		return goerr.New("raw_text_limit must not be negative", goerr.V("value", p.RawTextLimit))
	}
	if p.ContextTextLimit < 0 {
		return goerr.New("context_text_limit must not be negative", goerr.V("value", p.ContextTextLimit))
	}
	if p.MaxSuggestions < 0 {
		return goerr.New("max_suggestions must not be negative", goerr.V("value", p.MaxSuggestions))
	}
	return nil
}

// Policy holds the CLI flag pointing at a TOML generation policy file
type Policy struct {
	path string
}

// Flags returns CLI flags for policy configuration
func (x *Policy) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "policy",
			Usage:       "Path to a TOML generation policy file",
			Sources:     cli.EnvVars("SNAPNOTE_POLICY"),
			Destination: &x.path,
		},
	}
}

// Load reads and validates the policy file. Without a path the zero policy
// is returned and defaults apply.
func (x *Policy) Load() (*GenerationPolicy, error) {
	policy := &GenerationPolicy{}
	if x.path == "" {
		return policy, nil
	}

	data, err := os.ReadFile(x.path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read policy file", goerr.V("path", x.path))
	}
	if err := toml.Unmarshal(data, policy); err != nil {
		return nil, goerr.Wrap(err, "failed to parse policy file", goerr.V("path", x.path))
	}
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	return policy, nil
}

// ReconcileOptions converts the policy into reconciliation service options
func (p *GenerationPolicy) ReconcileOptions() []reconcile.Option {
	var opts []reconcile.Option
	if p.RawTextLimit > 0 {
		opts = append(opts, reconcile.WithRawTextLimit(p.RawTextLimit))
	}
	if p.MaxSuggestions > 0 {
		opts = append(opts, reconcile.WithMaxSuggestions(p.MaxSuggestions))
	}
	return opts
}

// NoteChatOptions converts the policy into note-chat service options
func (p *GenerationPolicy) NoteChatOptions() []notechat.Option {
	var opts []notechat.Option
	if p.ContextTextLimit > 0 {
		opts = append(opts, notechat.WithContextTextLimit(p.ContextTextLimit))
	}
	return opts
}
