package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
)

type Config struct {
	ReportInterval string        `json:"report_interval"`
	Development    bool          `json:"development"`
	Server         ServerConfig  `json:"server"`
	Manager        ManagerConfig `json:"manager"`
	Level          LevelConfig   `json:"level"`
}

func (c *Config) Validate() error {
	el := errors.NewErrorList()

	if c.ReportInterval != "" {
		d, err := time.ParseDuration(c.ReportInterval)
		if err != nil {
			el.Add(fmt.Errorf("parsing report_interval: %w", err))
		} else if d < time.Second {
			el.Add(fmt.Errorf("report_interval must be at least 1 second"))
		}
	}

	el.Add(c.Server.validate())
	el.Add(c.Manager.validate(c.Development))
	el.Add(c.Level.validate())

	return el.Err()
}
