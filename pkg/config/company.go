package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jhoicas/gst-invoicing/internal/domain/entity"
)

// LoadCompanyProfile lee el perfil del vendedor desde un YAML. Los campos que
// faltan conservan los valores por defecto; una ruta vacía devuelve los defaults.
func LoadCompanyProfile(path string) (entity.CompanyProfile, error) {
	profile := entity.DefaultCompanyProfile()
	if path == "" {
		return profile, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return entity.CompanyProfile{}, fmt.Errorf("config: read company profile: %w", err)
	}
	if err := yaml.Unmarshal(raw, &profile); err != nil {
		return entity.CompanyProfile{}, fmt.Errorf("config: parse company profile: %w", err)
	}
	if profile.State == "" {
		return entity.CompanyProfile{}, fmt.Errorf("config: company profile %s has no state", path)
	}
	if !entity.IsIndianState(profile.State) {
		return entity.CompanyProfile{}, fmt.Errorf("config: company state %q is not a canonical state name", profile.State)
	}
	return profile, nil
}
