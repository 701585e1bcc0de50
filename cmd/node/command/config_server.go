package command

import (
	"fmt"

	"github.com/pixil98/go-errors"
)

type ServerConfig struct {
	ID          int64  `json:"id"`
	RegionID    int64  `json:"region_id"`
	PrivateAddr string `json:"private_addr"`
}

func (c *ServerConfig) validate() error {
	el := errors.NewErrorList()

	if c.ID <= 0 {
		el.Add(fmt.Errorf("server id must be a positive integer"))
	}
	if c.RegionID <= 0 {
		el.Add(fmt.Errorf("region_id must be a positive integer"))
	}

	return el.Err()
}
