package mockas

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config describes the mock authorization server and its registered
// clients.
type Config struct {
	Address         string               `yaml:"address"`
	Issuer          string               `yaml:"issuer" validate:"required,url"`
	TokenTTLSeconds int                  `yaml:"token_ttl_seconds"`
	Clients         []ClientRegistration `yaml:"clients" validate:"required,min=1,dive"`
}

// ClientRegistration is a statically registered OAuth2 client. A client
// without a secret is treated as a public client.
type ClientRegistration struct {
	ClientID     string   `yaml:"client_id" validate:"required"`
	ClientSecret string   `yaml:"client_secret"`
	RedirectURIs []string `yaml:"redirect_uris" validate:"required,min=1"`
	Scopes       []string `yaml:"scopes"`
}

func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var config Config
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("unmarshal config file: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks the constraints expressed in the struct tags.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	return nil
}

func (c *Config) client(clientID string) *ClientRegistration {
	for i := range c.Clients {
		if c.Clients[i].ClientID == clientID {
			return &c.Clients[i]
		}
	}
	return nil
}

func (r *ClientRegistration) allowsRedirect(uri string) bool {
	for _, allowed := range r.RedirectURIs {
		if uri == allowed {
			return true
		}
	}
	return false
}

// allowsScope checks a space-delimited scope request against the
// registration. Clients without registered scopes may request anything.
func (r *ClientRegistration) allowsScope(scope string) bool {
	if scope == "" || len(r.Scopes) == 0 {
		return true
	}
	for _, requested := range strings.Fields(scope) {
		registered := false
		for _, allowed := range r.Scopes {
			if requested == allowed {
				registered = true
				break
			}
		}
		if !registered {
			return false
		}
	}
	return true
}
