package config

import (
	"strings"
)

var projectName string = "project"

// SetProjectName sets the gem-style project prefix used in asset hints
// ("{project}/meshes/...", "{project}/materials/..."). Lowercased to match
// asset-processor expectations.
func SetProjectName(name string) {
	if name != "" {
		projectName = strings.ToLower(name)
	}
}

func GetProjectName() string {
	return projectName
}
