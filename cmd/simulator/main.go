// Command simulator runs the headless faction simulation for a fixed
// number of ticks, writing an append-only event log and periodic snapshots
// to an output directory. Adapted from the teacher's worldsim entrypoint:
// same slog setup and world/agent bootstrap shape, batch-driven instead of
// the teacher's HTTP-served, real-time loop.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/talgya/crossroads/internal/agents"
	"github.com/talgya/crossroads/internal/config"
	"github.com/talgya/crossroads/internal/director"
	"github.com/talgya/crossroads/internal/engine"
	"github.com/talgya/crossroads/internal/events"
	"github.com/talgya/crossroads/internal/intervention"
	"github.com/talgya/crossroads/internal/prng"
	"github.com/talgya/crossroads/internal/scenario"
	"github.com/talgya/crossroads/internal/snapshot"
	"github.com/talgya/crossroads/internal/social"
	"github.com/talgya/crossroads/internal/tension"
	"github.com/talgya/crossroads/internal/world"
)

// populationPerFaction is how many agents SpawnPopulation mints at each
// faction's HQ on a fresh (non-resumed) run.
const populationPerFaction = 12

var flags struct {
	seed               int64
	ticks              uint64
	snapshotInterval   uint64
	ritualInterval     uint64
	outputInitialState bool
	fromSnapshot       string
	startTick          uint64
	outputDir          string
	scenarioFile       string
}

func main() {
	root := &cobra.Command{
		Use:   "simulator",
		Short: "Runs the headless medieval faction simulation",
		RunE:  run,
	}

	root.Flags().Int64Var(&flags.seed, "seed", 42, "deterministic PRNG seed")
	root.Flags().Uint64Var(&flags.ticks, "ticks", 1000, "number of ticks to run")
	root.Flags().Uint64Var(&flags.snapshotInterval, "snapshot-interval", 100, "ticks between periodic snapshots")
	root.Flags().Uint64Var(&flags.ritualInterval, "ritual-interval", 500, "ticks between a faction's scheduled rituals")
	root.Flags().BoolVar(&flags.outputInitialState, "output-initial-state", false, "write the initial state as current_state.json before ticking")
	root.Flags().StringVar(&flags.fromSnapshot, "from-snapshot", "", "resume from a previously written snapshot file")
	root.Flags().Uint64Var(&flags.startTick, "start-tick", 0, "tick to resume at when --from-snapshot is set (defaults to the snapshot's own tick)")
	root.Flags().StringVar(&flags.outputDir, "output-dir", "./run", "directory for the event log, snapshots, and intervention drop box")
	root.Flags().StringVar(&flags.scenarioFile, "scenario", "", "optional YAML manifest overriding faction names, population, and starting resources on a fresh run")

	if err := root.Execute(); err != nil {
		slog.Error("simulator: fatal", "error", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	if err := os.MkdirAll(flags.outputDir, 0755); err != nil {
		return fmt.Errorf("simulator: create output dir: %w", err)
	}

	tuning := config.LoadTuning(flags.outputDir + "/tuning.toml")
	directorCfg := config.LoadDirectorConfig(flags.outputDir + "/director.toml")
	templates, err := director.LoadTemplates(flags.outputDir + "/commentary.toml")
	if err != nil {
		slog.Warn("simulator: commentary templates unavailable, captions disabled", "error", err)
	}

	log, err := events.OpenLog(flags.outputDir + "/events.jsonl")
	if err != nil {
		return fmt.Errorf("simulator: open event log: %w", err)
	}
	defer log.Close()

	interventionDir := flags.outputDir + "/interventions"
	watcher, err := intervention.NewWatcher(interventionDir)
	if err != nil {
		return fmt.Errorf("simulator: start intervention watcher: %w", err)
	}
	defer watcher.Close()

	locations, factions, population, resumeTick, restoredTensions, err := bootstrap()
	if err != nil {
		return err
	}

	sim := engine.NewSimulation(engine.Config{
		Seed:            flags.seed,
		Locations:       locations,
		Factions:        factions,
		Agents:          population,
		Log:             log,
		InterventionDir: interventionDir,
		Tuning:          tuning,
		DirectorConfig:  directorCfg,
		Templates:       templates,
		RitualInterval:  flags.ritualInterval,
	})
	sim.Tick = resumeTick
	if restoredTensions != nil {
		sim.Tensions.Restore(restoredTensions)
	}

	slog.Info("simulator: starting",
		"seed", flags.seed,
		"start_tick", resumeTick,
		"ticks", humanize.Comma(int64(flags.ticks)),
		"agents", len(population),
		"factions", len(factions),
	)

	if flags.outputInitialState || flags.fromSnapshot != "" {
		if err := writeInitialState(sim); err != nil {
			return err
		}
	}

	if err := sim.Run(flags.ticks, flags.snapshotInterval, flags.outputDir); err != nil {
		return fmt.Errorf("simulator: run: %w", err)
	}

	slog.Info("simulator: finished", "final_tick", humanize.Comma(int64(sim.Tick)))
	return nil
}

// bootstrap builds the initial (or resumed) world, faction, and population
// state the simulation is constructed from.
func bootstrap() (*world.Registry, []*social.Faction, []*agents.Agent, uint64, []*tension.Tension, error) {
	if flags.fromSnapshot != "" {
		return bootstrapFromSnapshot()
	}
	locations, factions, population := bootstrapFresh()
	return locations, factions, population, 0, nil, nil
}

// bootstrapFresh generates a new world from scratch: a location graph seeded
// from flags.seed, one faction per village HQ, and a spawned population at
// each HQ with a leader and reader assigned and a founding archive entry
// written so the first scheduled ritual has something to recite.
func bootstrapFresh() (*world.Registry, []*social.Faction, []*agents.Agent) {
	genCfg := world.DefaultGenConfig()
	genCfg.Seed = flags.seed
	locations := world.Generate(genCfg)

	var hqs []world.LocationID
	for _, loc := range locations.All() {
		if loc.Type == world.TypeVillage {
			hqs = append(hqs, loc.ID)
		}
	}
	factions := social.SeedFactions(hqs)

	var manifest *scenario.Manifest
	if flags.scenarioFile != "" {
		m, err := scenario.Load(flags.scenarioFile)
		if err != nil {
			slog.Warn("simulator: scenario manifest unavailable, using procedural defaults", "error", err)
		} else {
			manifest = m
			manifest.Apply(factions)
		}
	}

	spawnStream := prng.New(flags.seed)
	spawner := agents.NewSpawner(spawnStream)

	var population []*agents.Agent
	for i, f := range factions {
		count := populationPerFaction
		if manifest != nil {
			count = manifest.PopulationFor(i, populationPerFaction)
		}
		members := spawner.SpawnPopulation(count, f.HQLocation, f.ID)
		population = append(population, members...)
		f.MemberCount = len(members)

		for _, a := range members {
			switch a.Role {
			case agents.RoleLeader:
				f.LeaderID = a.ID
			case agents.RoleReader:
				f.ReaderID = a.ID
			}
		}
		f.Archive.Write(f.LeaderID, leaderName(members, f.LeaderID),
			fmt.Sprintf("Here is recorded the founding of %s.", f.Name), 0)
	}

	return locations, factions, population
}

func leaderName(members []*agents.Agent, leaderID agents.AgentID) string {
	for _, a := range members {
		if a.ID == leaderID {
			return a.Name
		}
	}
	return "the founder"
}

// bootstrapFromSnapshot regenerates the deterministic location graph from
// the snapshot's own seed (the graph itself is never persisted) and restores
// agents, factions, and tensions from the snapshot file.
func bootstrapFromSnapshot() (*world.Registry, []*social.Faction, []*agents.Agent, uint64, []*tension.Tension, error) {
	snap, err := snapshot.Load(flags.fromSnapshot)
	if err != nil {
		return nil, nil, nil, 0, nil, fmt.Errorf("simulator: load snapshot: %w", err)
	}

	genCfg := world.DefaultGenConfig()
	genCfg.Seed = snap.Seed
	locations := world.Generate(genCfg)

	flags.seed = snap.Seed
	resumeTick := snap.Timestamp.Tick
	if flags.startTick != 0 {
		resumeTick = flags.startTick
	}

	slog.Info("simulator: resuming from snapshot", "snapshot_id", snap.SnapshotID, "tick", resumeTick)
	return locations, snap.Factions, snap.Agents, resumeTick, snap.Tensions, nil
}

func writeInitialState(sim *engine.Simulation) error {
	snap := snapshot.Build(sim.Tick, sim.Seed, sim.AgentIndex, sim.Factions, sim.Tensions)
	if err := snapshot.WriteCurrent(flags.outputDir, snap); err != nil {
		return fmt.Errorf("simulator: write initial state: %w", err)
	}
	return nil
}
