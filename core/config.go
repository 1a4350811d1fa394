package core

import (
	"fmt"
	"strings"
)

const (
	DefaultIdentityField     = "_id"
	DefaultAlternateKeyField = "handle"
	VersionField             = "__v"
	PasswordField            = "password"
	CreatedAtField           = "createdAt"
	UpdatedAtField           = "updatedAt"

	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

type PaginationConfig struct {
	DefaultLimit int `koanf:"default_limit" mapstructure:"default_limit"`
	MaxLimit     int `koanf:"max_limit" mapstructure:"max_limit"`
}

type ProjectionConfig struct {
	ExcludeFields []string `koanf:"exclude_fields" mapstructure:"exclude_fields"`
}

type Config struct {
	ResourceName      string           `koanf:"resource_name" mapstructure:"resource_name"`
	PluralName        string           `koanf:"plural_name" mapstructure:"plural_name"`
	IdentityField     string           `koanf:"identity_field" mapstructure:"identity_field"`
	AlternateKeyField string           `koanf:"alternate_key_field" mapstructure:"alternate_key_field"`
	Pagination        PaginationConfig `koanf:"pagination" mapstructure:"pagination"`
	Projection        ProjectionConfig `koanf:"projection" mapstructure:"projection"`
}

func DefaultConfig() Config {
	return Config{
		IdentityField:     DefaultIdentityField,
		AlternateKeyField: DefaultAlternateKeyField,
		Pagination: PaginationConfig{
			DefaultLimit: DefaultPageLimit,
			MaxLimit:     MaxPageLimit,
		},
		Projection: ProjectionConfig{},
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.ResourceName) == "" {
		return fmt.Errorf("core: resource_name is required")
	}
	if c.Pagination.DefaultLimit <= 0 {
		return fmt.Errorf("core: pagination.default_limit must be positive")
	}
	if c.Pagination.MaxLimit < c.Pagination.DefaultLimit {
		return fmt.Errorf("core: pagination.max_limit must be >= default_limit")
	}
	if strings.TrimSpace(c.IdentityField) == strings.TrimSpace(c.AlternateKeyField) {
		return fmt.Errorf("core: identity_field and alternate_key_field must differ")
	}
	return nil
}

// normalized fills derived values after layering.
func (c Config) normalized() Config {
	c.ResourceName = strings.TrimSpace(c.ResourceName)
	c.PluralName = strings.TrimSpace(c.PluralName)
	if c.PluralName == "" && c.ResourceName != "" {
		c.PluralName = c.ResourceName + "s"
	}
	if strings.TrimSpace(c.IdentityField) == "" {
		c.IdentityField = DefaultIdentityField
	}
	if strings.TrimSpace(c.AlternateKeyField) == "" {
		c.AlternateKeyField = DefaultAlternateKeyField
	}
	return c
}

// projection always strips version metadata and the password field.
func (c Config) projection() Projection {
	fields := append([]string{VersionField, PasswordField}, c.Projection.ExcludeFields...)
	return NewProjection(fields...)
}
