package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gollem/llm/gemini"
	"github.com/urfave/cli/v3"

	"github.com/snapnote-lab/snapnote/pkg/service/llm"
	"github.com/snapnote-lab/snapnote/pkg/service/vision"
	"github.com/snapnote-lab/snapnote/pkg/utils/logging"
)

// Gemini holds configuration for the generation boundary. Two credentials can
// apply: a Vertex AI project for the text paths and an API key for the vision
// path. A missing credential selects the canned substitute for that path, it
// never fails at runtime.
type Gemini struct {
	projectID string
	location  string
	apiKey    string
}

// Flags returns CLI flags for Gemini configuration
func (g *Gemini) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "gemini-project",
			Usage:       "Google Cloud project ID for Gemini text generation",
			Sources:     cli.EnvVars("SNAPNOTE_GEMINI_PROJECT"),
			Destination: &g.projectID,
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Usage:       "Google Cloud location for Gemini text generation",
			Value:       "us-central1",
			Sources:     cli.EnvVars("SNAPNOTE_GEMINI_LOCATION"),
			Destination: &g.location,
		},
		&cli.StringFlag{
			Name:        "gemini-api-key",
			Usage:       "Gemini API key for screenshot analysis",
			Sources:     cli.EnvVars("SNAPNOTE_GEMINI_API_KEY"),
			Destination: &g.apiKey,
		},
	}
}

// LogAttrs returns log attributes for the Gemini configuration
func (g *Gemini) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("project_id", g.projectID),
		slog.String("location", g.location),
		slog.Bool("api_key", g.apiKey != ""),
	}
}

// Configure creates the LLM client for the regeneration and chat paths.
// Without a project ID the canned client is returned.
func (g *Gemini) Configure(ctx context.Context) (gollem.LLMClient, error) {
	if g.projectID == "" {
		logging.Default().Warn("Gemini project not configured, using canned generation responses")
		return llm.NewCanned(), nil
	}

	client, err := gemini.New(ctx, g.projectID, g.location)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Gemini client")
	}
	return client, nil
}

// ConfigureAnalyzer creates the screenshot analyzer for the vision path.
// Without an API key the canned analyzer is returned.
func (g *Gemini) ConfigureAnalyzer(ctx context.Context) (vision.Analyzer, error) {
	if g.apiKey == "" {
		logging.Default().Warn("Gemini API key not configured, using canned screenshot analysis")
		return vision.NewCanned(), nil
	}

	analyzer, err := vision.NewGenAI(ctx, g.apiKey)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create vision analyzer")
	}
	return analyzer, nil
}
