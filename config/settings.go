package config

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
)

// Settings persists paths between runs so the tool can be relaunched
// without retyping them. Missing file is not an error.
type Settings struct {
	SourcePath string `json:"source_path"`
	OutputPath string `json:"output_path"`
	BakerPath  string `json:"baker_path"`
}

func LoadSettings(path string) (Settings, error) {
	var s Settings
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return s, errors.Wrapf(err, "Failed to read settings %q", path)
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return Settings{}, errors.Wrapf(err, "Failed to parse settings %q", path)
	}
	return s, nil
}

func (s Settings) Save(path string) error {
	data, err := json.MarshalIndent(s, "", "    ")
	if err != nil {
		return errors.Wrapf(err, "Failed to marshal settings")
	}
	if err := os.WriteFile(path, data, 0666); err != nil {
		return errors.Wrapf(err, "Failed to write settings %q", path)
	}
	return nil
}
