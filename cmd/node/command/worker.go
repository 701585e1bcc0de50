package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-frontline/internal/capture"
	"github.com/pixil98/go-frontline/internal/driver"
	"github.com/pixil98/go-frontline/internal/events"
	"github.com/pixil98/go-frontline/internal/manager"
	"github.com/pixil98/go-frontline/internal/state"
	service "github.com/pixil98/go-service"
)

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}

	// Discover the authored level geometry and seed the world cache with it.
	lvl, err := cfg.Level.Discover(cfg.Server.ID, cfg.Server.RegionID)
	if err != nil {
		return nil, fmt.Errorf("discovering level: %w", err)
	}

	world := state.NewWorld(cfg.Server.ID, cfg.Server.RegionID)
	world.SetFactions(state.DefaultFactions())
	world.SetAreas(lvl.Areas)
	world.SetObjectives(lvl.Objectives)
	world.SetActiveAreaIndexes(lvl.ActiveAreaIndexes)

	bus := events.NewBus()
	engine := capture.NewEngine(world, bus)

	workers := service.WorkerList{}

	if cfg.Manager.URL != "" {
		rest, err := cfg.Manager.BuildClient(cfg.Server.ID, cfg.Development)
		if err != nil {
			return nil, fmt.Errorf("creating manager client: %w", err)
		}

		dial, err := cfg.Manager.BuildBrokerDialer(cfg.Development)
		if err != nil {
			return nil, fmt.Errorf("creating broker dialer: %w", err)
		}

		sync := manager.NewSyncClient(world, rest, bus, engine,
			manager.WithBrokerDialer(dial),
			manager.WithDevelopmentMode(cfg.Development),
			manager.WithPrivateAddr(cfg.Server.PrivateAddr),
			manager.WithManagerHost(cfg.Manager.Host),
		)
		engine.SetSubmitter(sync)
		workers["manager-sync"] = sync

		var tickOpts []driver.NodeDriverOpt
		if cfg.ReportInterval != "" {
			d, err := time.ParseDuration(cfg.ReportInterval)
			if err != nil {
				return nil, fmt.Errorf("parsing report_interval: %w", err)
			}
			tickOpts = append(tickOpts, driver.WithTickLength(d))
		}
		workers["driver"] = driver.NewNodeDriver(map[string]driver.Manager{"manager-sync": sync}, tickOpts...)
	}

	return workers, nil
}
