package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"io"
	"os"

	"lukechampine.com/frand"

	"github.com/togatoga/codevs-reborn/engine"
	"github.com/togatoga/codevs-reborn/protocol"
)

func genpackCommand(args []string) error {
	fs := flag.NewFlagSet("genpack", flag.ExitOnError)
	var common commonFlags
	common.register(fs)
	output := fs.String("output", "", "pack file to write (stdout when empty)")
	count := fs.Int("count", engine.MaxTurn, "number of packs")
	if err := fs.Parse(args); err != nil {
		return err
	}
	common.setupLogging()

	var w io.Writer = os.Stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	return generatePacks(w, newPackRNG(common.seed), *count)
}

// newPackRNG is reproducible when seed is non-zero.
func newPackRNG(seed uint64) *frand.RNG {
	if seed == 0 {
		return frand.New()
	}
	key := make([]byte, 32)
	binary.LittleEndian.PutUint64(key, seed)
	return frand.NewCustom(key, 1024, 12)
}

// generatePacks writes count random packs. Every cell holds 1 to 9 and one
// pack in eight has a single blank cell.
func generatePacks(w io.Writer, rng *frand.RNG, count int) error {
	if count <= 0 {
		return fmt.Errorf("pack count %d must be positive", count)
	}
	packs := make([][4]engine.Block, count)
	for i := range packs {
		for c := range packs[i] {
			packs[i][c] = engine.Block(1 + rng.Intn(9))
		}
		if rng.Intn(8) == 0 {
			packs[i][rng.Intn(4)] = engine.EmptyBlock
		}
	}
	return protocol.WritePacks(w, packs)
}
