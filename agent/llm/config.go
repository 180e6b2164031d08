package llm

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/tanpawarit/advisor-query-dispatch/agent/contract"
	openrouterx "github.com/tanpawarit/advisor-query-dispatch/pkg/openrouter"
)

const (
	BackendEino   = "eino"
	BackendOpenAI = "openai"
)

// Role names one of the two model calls of a dispatch.
type Role string

const (
	RoleSelection Role = "selection"
	RoleSummarize Role = "summarize"
)

type Config struct {
	Backend            string        `envconfig:"BACKEND" default:"eino"`
	BaseURL            string        `envconfig:"BASE_URL" split_words:"true" default:"https://openrouter.ai/api/v1"`
	APIKey             string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	Model              string        `envconfig:"MODEL" split_words:"true" required:"true"`
	MaxCompletionToken int           `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"2000"`
	Temperature        float32       `envconfig:"TEMPERATURE" split_words:"true" default:"0.5"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
	SiteURL            string        `envconfig:"SITE_URL" split_words:"true"`
	SiteName           string        `envconfig:"SITE_NAME" split_words:"true"`

	SelectionModel       string  `envconfig:"SELECTION_MODEL" split_words:"true"`
	SummaryModel         string  `envconfig:"SUMMARY_MODEL" split_words:"true"`
	SelectionTemperature float32 `envconfig:"SELECTION_TEMPERATURE" split_words:"true" default:"-1"`
	SummaryTemperature   float32 `envconfig:"SUMMARY_TEMPERATURE" split_words:"true" default:"-1"`
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: llm api key is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%w: default model is required", contractx.ErrValidation)
	}
	switch c.backend() {
	case BackendEino, BackendOpenAI:
	default:
		return fmt.Errorf("%w: unsupported llm backend=%q", contractx.ErrValidation, c.Backend)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: llm timeout must be > 0", contractx.ErrValidation)
	}
	return nil
}

func (c Config) backend() string {
	b := strings.ToLower(strings.TrimSpace(c.Backend))
	if b == "" {
		return BackendEino
	}
	return b
}

// OpenRouterFor resolves the endpoint settings of one role, applying the
// per-role model and temperature overrides.
func (c Config) OpenRouterFor(role Role) openrouterx.Config {
	modelName := strings.TrimSpace(c.Model)
	temp := c.Temperature

	switch role {
	case RoleSelection:
		if v := strings.TrimSpace(c.SelectionModel); v != "" {
			modelName = v
		}
		if c.SelectionTemperature >= 0 {
			temp = c.SelectionTemperature
		}
	case RoleSummarize:
		if v := strings.TrimSpace(c.SummaryModel); v != "" {
			modelName = v
		}
		if c.SummaryTemperature >= 0 {
			temp = c.SummaryTemperature
		}
	}

	maxCompletionToken := c.MaxCompletionToken
	return openrouterx.Config{
		BaseURL:            strings.TrimSpace(c.BaseURL),
		APIKey:             strings.TrimSpace(c.APIKey),
		Model:              modelName,
		MaxCompletionToken: &maxCompletionToken,
		Temperature:        temp,
		Timeout:            c.Timeout,
		SiteURL:            strings.TrimSpace(c.SiteURL),
		SiteName:           strings.TrimSpace(c.SiteName),
	}
}
