package setup

import (
	"context"

	"kitchen_dashboard/internal/config"
)

// Credential describes one external API credential the kitchen backend uses
type Credential struct {
	Name        string `json:"name"`
	EnvVar      string `json:"env_var"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
	Configured  bool   `json:"configured"`
}

// Status is the configuration status of all external integrations
type Status struct {
	AllRequired bool         `json:"all_required"`
	Credentials []Credential `json:"credentials"`
	Missing     []string     `json:"missing"`
}

// Checker reports which integration credentials are configured
type Checker struct {
	integrations config.IntegrationsConfig
}

// NewChecker creates a checker over the loaded integrations config
func NewChecker(integrations config.IntegrationsConfig) *Checker {
	return &Checker{integrations: integrations}
}

// Status evaluates the credentials. AllRequired is false when any required one is empty.
func (c *Checker) Status(ctx context.Context) (Status, error) {
	if err := ctx.Err(); err != nil {
		return Status{}, err
	}

	creds := Credentials(c.integrations)
	status := Status{
		AllRequired: true,
		Credentials: creds,
		Missing:     []string{},
	}
	for _, cred := range creds {
		if cred.Required && !cred.Configured {
			status.AllRequired = false
			status.Missing = append(status.Missing, cred.EnvVar)
		}
	}
	return status, nil
}

// Credentials lists every known credential with its configured flag
func Credentials(i config.IntegrationsConfig) []Credential {
	return []Credential{
		{
			Name:        "Maps",
			EnvVar:      "MAP_API_KEY",
			Description: "Distance lookups for delivery fees",
			Required:    true,
			Configured:  i.MapAPIKey != "",
		},
		{
			Name:        "Weather",
			EnvVar:      "WEATHER_API_KEY",
			Description: "Weather surcharge on deliveries",
			Required:    true,
			Configured:  i.WeatherAPIKey != "",
		},
		{
			Name:        "Google sign-in",
			EnvVar:      "GOOGLE_OAUTH_CLIENT_ID",
			Description: "OAuth client for staff login",
			Required:    true,
			Configured:  i.GoogleOAuthClientID != "",
		},
		{
			Name:        "Cloudinary",
			EnvVar:      "CLOUDINARY_URL",
			Description: "Menu image hosting",
			Required:    false,
			Configured:  i.CloudinaryURL != "",
		},
		{
			Name:        "Brevo",
			EnvVar:      "BREVO_API_KEY",
			Description: "Transactional email",
			Required:    false,
			Configured:  i.BrevoAPIKey != "",
		},
	}
}

// AllRequired reports whether every required credential is configured
func (c *Checker) AllRequired(ctx context.Context) (bool, error) {
	status, err := c.Status(ctx)
	if err != nil {
		return false, err
	}
	return status.AllRequired, nil
}
