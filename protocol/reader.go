package protocol

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/togatoga/codevs-reborn/engine"
)

const endToken = "END"

// Scanner reads the whitespace separated game protocol.
type Scanner struct {
	sc *bufio.Scanner
}

func NewScanner(r io.Reader) *Scanner {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	return &Scanner{sc: sc}
}

func (s *Scanner) token() (string, error) {
	if s.sc.Scan() {
		return s.sc.Text(), nil
	}
	if err := s.sc.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

func (s *Scanner) field(what string) (string, error) {
	tok, err := s.token()
	if errors.Is(err, io.EOF) {
		return "", fmt.Errorf("%w: reading %s", ErrUnexpectedEOF, what)
	}
	return tok, err
}

func (s *Scanner) number(what string) (int, error) {
	tok, err := s.field(what)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not a number", ErrMalformedInput, what, tok)
	}
	return v, nil
}

func (s *Scanner) block(what string, maxValue engine.Block) (engine.Block, error) {
	v, err := s.number(what)
	if err != nil {
		return 0, err
	}
	if v < 0 || v > int(maxValue) {
		return 0, fmt.Errorf("%w: %s value %d outside [0, %d]", ErrMalformedInput, what, v, maxValue)
	}
	return engine.Block(v), nil
}

func (s *Scanner) end(what string) error {
	tok, err := s.field(what + " terminator")
	if err != nil {
		return err
	}
	if tok != endToken {
		return fmt.Errorf("%w: expected %s after %s, got %q", ErrMalformedInput, endToken, what, tok)
	}
	return nil
}

// ReadPackBlocks reads n raw packs laid out as "a b / c d / END".
func (s *Scanner) ReadPackBlocks(n int) ([][4]engine.Block, error) {
	packs := make([][4]engine.Block, n)
	for turn := 0; turn < n; turn++ {
		for i := 0; i < 4; i++ {
			b, err := s.block(fmt.Sprintf("pack %d", turn), 9)
			if err != nil {
				return nil, err
			}
			packs[turn][i] = b
		}
		if err := s.end(fmt.Sprintf("pack %d", turn)); err != nil {
			return nil, err
		}
	}
	return packs, nil
}

// ReadPacks reads the piece feed and expands every pack into its distinct
// settled rotations.
func (s *Scanner) ReadPacks(n int) ([][]engine.PackVariant, error) {
	raw, err := s.ReadPackBlocks(n)
	if err != nil {
		return nil, err
	}
	packs := make([][]engine.PackVariant, len(raw))
	for turn, blocks := range raw {
		packs[turn] = engine.Variants(blocks)
	}
	log.Debug().Str("component", "protocol").Int("packs", len(packs)).Msg("pack feed loaded")
	return packs, nil
}

// ReadTurn returns io.EOF when the stream ends cleanly between turns.
func (s *Scanner) ReadTurn() (int, error) {
	tok, err := s.token()
	if err != nil {
		return 0, err
	}
	turn, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("%w: turn %q is not a number", ErrMalformedInput, tok)
	}
	if turn < 0 || turn >= engine.MaxTurn {
		return 0, fmt.Errorf("%w: turn %d outside [0, %d)", ErrMalformedInput, turn, engine.MaxTurn)
	}
	return turn, nil
}

// ReadGameStatus reads one player's block. The grid arrives top row first
// and is flipped so that row 0 is the bottom.
func (s *Scanner) ReadGameStatus() (engine.GameStatus, error) {
	var status engine.GameStatus
	var err error
	if status.RestTimeMs, err = s.number("rest time"); err != nil {
		return status, err
	}
	if status.ObstacleBlockCount, err = s.number("obstacle count"); err != nil {
		return status, err
	}
	if status.SkillPoint, err = s.number("skill point"); err != nil {
		return status, err
	}
	if status.CumulativeGameScore, err = s.number("game score"); err != nil {
		return status, err
	}
	var grid [engine.InputFieldHeight][engine.FieldWidth]engine.Block
	for i := 0; i < engine.InputFieldHeight; i++ {
		y := engine.InputFieldHeight - 1 - i
		for x := 0; x < engine.FieldWidth; x++ {
			if grid[y][x], err = s.block("board cell", engine.ObstacleBlock); err != nil {
				return status, err
			}
		}
	}
	if err := s.end("game status"); err != nil {
		return status, err
	}
	status.Board = engine.NewBoard(grid)
	return status, nil
}
