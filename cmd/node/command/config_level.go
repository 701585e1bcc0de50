package command

import (
	"fmt"
	"os"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-frontline/internal/level"
)

type LevelConfig struct {
	AreasPath      string `json:"areas_path"`
	ObjectivesPath string `json:"objectives_path"`
}

func (c *LevelConfig) validate() error {
	el := errors.NewErrorList()

	el.Add(checkDir("areas_path", c.AreasPath))
	el.Add(checkDir("objectives_path", c.ObjectivesPath))

	return el.Err()
}

func checkDir(name, path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%s: invalid path %q: %w", name, path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: %q is not a directory", name, path)
	}
	return nil
}

func (c *LevelConfig) Discover(serverID, regionID int64) (*level.Level, error) {
	return level.Discover(c.AreasPath, c.ObjectivesPath, serverID, regionID)
}
