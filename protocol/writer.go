package protocol

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/togatoga/codevs-reborn/engine"
)

var resultCSVHeader = []string{"cumulative_game_score", "last_chain_count", "search_depth"}

func WriteCommand(w io.Writer, cmd engine.Command) error {
	_, err := fmt.Fprintln(w, cmd.String())
	return err
}

// WriteResultCSV writes the header and a single record for result.
func WriteResultCSV(w io.Writer, result engine.SearchResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(resultCSVHeader); err != nil {
		return err
	}
	record := []string{
		strconv.Itoa(result.CumulativeGameScore),
		strconv.Itoa(result.LastChainCount),
		strconv.Itoa(result.SearchDepth),
	}
	if err := cw.Write(record); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// WritePacks writes a piece feed in the format ReadPacks accepts.
func WritePacks(w io.Writer, packs [][4]engine.Block) error {
	for _, p := range packs {
		if _, err := fmt.Fprintf(w, "%d %d\n%d %d\n%s\n", p[0], p[1], p[2], p[3], endToken); err != nil {
			return err
		}
	}
	return nil
}
