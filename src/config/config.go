package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/quantstash/expiry-snapshot/src/models"
)

type IndexYAML struct {
	Name          string  `yaml:"name"`
	Token         string  `yaml:"token"`
	StrikeStep    float64 `yaml:"strike_step"`
	RoundMultiple float64 `yaml:"round_multiple"`
	Buffer        float64 `yaml:"buffer"`
}

type ProfilesYAML struct {
	Indexes []IndexYAML `yaml:"indexes"`
}

// LoadIndexProfiles reads the per-index configuration. Profiles are immutable
// after this point.
func LoadIndexProfiles(path string) ([]models.IndexProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("LoadIndexProfiles: failed to read %s: %w", path, err)
	}

	var doc ProfilesYAML
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("LoadIndexProfiles: failed to unmarshal %s: %w", path, err)
	}

	if len(doc.Indexes) == 0 {
		return nil, fmt.Errorf("LoadIndexProfiles: %s contains no indexes", path)
	}

	var profiles []models.IndexProfile
	for _, idx := range doc.Indexes {
		profile := models.IndexProfile{
			Name:          idx.Name,
			Token:         idx.Token,
			StrikeStep:    idx.StrikeStep,
			RoundMultiple: idx.RoundMultiple,
			Buffer:        idx.Buffer,
		}

		if err := profile.Validate(); err != nil {
			return nil, fmt.Errorf("LoadIndexProfiles: %w", err)
		}

		profiles = append(profiles, profile)
	}

	return profiles, nil
}
