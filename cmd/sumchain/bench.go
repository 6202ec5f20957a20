package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/togatoga/codevs-reborn/engine"
	"github.com/togatoga/codevs-reborn/protocol"
)

type benchInfo struct {
	turn   int
	player engine.GameStatus
	enemy  engine.GameStatus
}

func benchCommand(args []string) error {
	fs := flag.NewFlagSet("bench", flag.ExitOnError)
	var common commonFlags
	common.register(fs)
	packGlob := fs.String("pack", "", "pack file or glob of pack files")
	infoPath := fs.String("info", "", "status snapshot: turn, player and enemy")
	output := fs.String("output", "", "CSV file, or a directory when several packs match")
	jobs := fs.Int("jobs", runtime.NumCPU(), "pack files evaluated in parallel")
	if err := fs.Parse(args); err != nil {
		return err
	}
	common.setupLogging()
	if *packGlob == "" || *infoPath == "" || *output == "" {
		fs.Usage()
		return fmt.Errorf("bench needs -pack, -info and -output")
	}
	config, err := common.config()
	if err != nil {
		return err
	}
	packFiles, err := filepath.Glob(*packGlob)
	if err != nil {
		return fmt.Errorf("pack glob: %w", err)
	}
	if len(packFiles) == 0 {
		return fmt.Errorf("no pack file matches %q", *packGlob)
	}
	return runBench(packFiles, *infoPath, *output, config, *jobs)
}

func readBenchInfo(path string) (benchInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return benchInfo{}, err
	}
	defer f.Close()
	sc := protocol.NewScanner(f)
	var info benchInfo
	if info.turn, err = sc.ReadTurn(); err != nil {
		return info, fmt.Errorf("%s: turn: %w", path, err)
	}
	if info.player, err = sc.ReadGameStatus(); err != nil {
		return info, fmt.Errorf("%s: player: %w", path, err)
	}
	if info.enemy, err = sc.ReadGameStatus(); err != nil {
		return info, fmt.Errorf("%s: enemy: %w", path, err)
	}
	return info, nil
}

func readPackFile(path string) ([][]engine.PackVariant, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	packs, err := protocol.NewScanner(f).ReadPacks(engine.MaxTurn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return packs, nil
}

// runBench thinks once per pack file against the same snapshot. Each file
// gets its own Solver, so they run in parallel without sharing caches.
func runBench(packFiles []string, infoPath, output string, config engine.Config, jobs int) error {
	info, err := readBenchInfo(infoPath)
	if err != nil {
		return err
	}
	outputFor := func(string) string { return output }
	if len(packFiles) > 1 {
		if err := os.MkdirAll(output, 0o755); err != nil {
			return err
		}
		outputFor = func(packFile string) string {
			base := strings.TrimSuffix(filepath.Base(packFile), filepath.Ext(packFile))
			return filepath.Join(output, base+".csv")
		}
	}

	g := errgroup.Group{}
	if jobs > 0 {
		g.SetLimit(jobs)
	}
	for _, packFile := range packFiles {
		packFile := packFile
		g.Go(func() error {
			packs, err := readPackFile(packFile)
			if err != nil {
				return err
			}
			start := time.Now()
			solver := engine.NewSolver(packs, config)
			solver.SetGameStatus(info.player, info.enemy)
			result := solver.Think(info.turn)
			log.Info().
				Str("component", "bench").
				Str("pack", packFile).
				Dur("elapsed", time.Since(start)).
				Object("result", result).
				Msg("bench done")

			f, err := os.Create(outputFor(packFile))
			if err != nil {
				return err
			}
			if err := protocol.WriteResultCSV(f, result); err != nil {
				f.Close()
				return err
			}
			return f.Close()
		})
	}
	return g.Wait()
}
