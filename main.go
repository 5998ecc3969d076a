package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/szqjl/guandan-score/archive"
	"github.com/szqjl/guandan-score/config"
	"github.com/szqjl/guandan-score/console"
	"github.com/szqjl/guandan-score/engine"
	"github.com/szqjl/guandan-score/experiments"
	"github.com/szqjl/guandan-score/experiments/metrics"
)

const usage = `usage: guandan-score <command> [flags]

commands:
  play       keep score at the table
  simulate   play random games and write CSV metrics
  history    list archived games`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	var err error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "play":
		err = runPlay(args)
	case "simulate":
		err = runSimulate(args)
	case "history":
		err = runHistory(args)
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("failed")
	}
}

func setupLogging(cfg config.Config) {
	zerolog.SetGlobalLevel(cfg.Level())
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
}

func openArchive(cfg config.Config) (*archive.Store, error) {
	if cfg.ArchivePath == "" {
		return nil, nil
	}
	return archive.Open(cfg.ArchivePath, cfg.ArchiveLimit)
}

func runPlay(args []string) error {
	cfg, err := config.ParseConfig(flag.NewFlagSet("play", flag.ExitOnError), args)
	if err != nil {
		return err
	}
	setupLogging(cfg)

	rules, err := cfg.Rules()
	if err != nil {
		return err
	}
	options := []engine.Option{engine.WithLogger(log.Logger)}
	store, err := openArchive(cfg)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
		options = append(options, engine.WithArchiver(store))
	}

	e, err := engine.NewLocalEngine(rules, options...)
	if err != nil {
		return err
	}
	return console.New(e, os.Stdout).Run(os.Stdin)
}

func runSimulate(args []string) error {
	fs := flag.NewFlagSet("simulate", flag.ExitOnError)
	games := fs.Int("games", 100, "Games per rule config")
	seed := fs.Uint64("seed", 0, "Random seed; 0 picks one")
	out := fs.String("out", "experiments", "Directory for the CSV output")
	cfg, err := config.ParseConfig(fs, args)
	if err != nil {
		return err
	}
	setupLogging(cfg)

	if *seed == 0 {
		*seed = rand.Uint64()
	}
	log.Info().Msgf("seed %d", *seed)
	rng := rand.New(rand.NewPCG(*seed, *seed))

	res, err := experiments.Simulate(experiments.DefaultConfigs, *games, rng, metrics.NewCollector())
	if err != nil {
		return err
	}
	dir, err := experiments.Write(*out, "simulate", experiments.DefaultConfigs, res)
	if err != nil {
		return err
	}
	for _, s := range res.Summaries {
		fmt.Printf("%-12s %2d rounds: A %d, B %d, draw %d, avg %.1f rounds, advisory in %d games\n",
			s.Config.Mode, s.Config.MaxRounds, s.WinsA, s.WinsB, s.Draws, s.AvgRounds(), s.Flagged)
	}
	fmt.Printf("records written to %s\n", dir)
	return nil
}

func runHistory(args []string) error {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	del := fs.String("delete", "", "Delete the archived game with this id")
	clearAll := fs.Bool("clear", false, "Delete every archived game")
	cfg, err := config.ParseConfig(fs, args)
	if err != nil {
		return err
	}
	setupLogging(cfg)

	store, err := openArchive(cfg)
	if err != nil {
		return err
	}
	if store == nil {
		return fmt.Errorf("no archive configured")
	}
	defer store.Close()

	ctx := context.Background()
	switch {
	case *clearAll:
		return store.Clear(ctx)
	case *del != "":
		return store.Delete(ctx, *del)
	}

	records, err := store.List(ctx)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("no archived games")
		return nil
	}
	for _, r := range records {
		fmt.Printf("%s  %s  %-11s %2d rounds  A %-3s B %-3s  %s (%s)\n",
			r.ID, r.FinishedAt.Local().Format("2006-01-02 15:04"), r.RuleMode, r.Rounds,
			r.Level[0], r.Level[1], r.Winner, r.Reason)
	}
	return nil
}
