package commands

import (
	"ptb/internal/cli"
	"ptb/internal/config"
	"ptb/internal/event"
	"ptb/internal/orchestrate"
	"ptb/internal/runner"
	"ptb/internal/storage"
	"ptb/internal/tool"
)

// deps is the wired application graph for one resolved project directory.
// Every command builds it fresh from its positional argument, so two
// commands pointed at different projects never share state.
type deps struct {
	cfg        *config.Config
	starter    *runner.PHPUnitStarter
	run        *orchestrate.Run
	watch      *orchestrate.Watch
	bus        *event.Bus
	store      storage.Storage
	dispatcher *tool.Dispatcher
}

func buildDeps(projectDir string, flags *cli.Flags) (*deps, error) {
	cfg, err := config.Load(projectDir, flags.ToConfigFlags())
	if err != nil {
		return nil, err
	}

	starter := runner.NewPHPUnitStarter(cfg)
	bus := event.NewBus()
	store := storage.NewJSONStorage(cfg)

	run := orchestrate.NewRun(starter, cfg.ProjectPath, cfg.RunTimeout, cfg.Workers)
	run.SetStorage(store)
	watch := orchestrate.NewWatch(starter, cfg.ProjectPath, bus)

	return &deps{
		cfg:        cfg,
		starter:    starter,
		run:        run,
		watch:      watch,
		bus:        bus,
		store:      store,
		dispatcher: tool.NewDefaultDispatcher(run, watch),
	}, nil
}
