package engine

import (
	"fmt"
	"sync"
)

const (
	DefaultBeamDepth              = 13
	DefaultBeamWidth              = 600
	DefaultFireMaxChainCount      = 12
	DefaultFatalFireMaxChainCount = 15
	DefaultSeed                   = 31
	MaxTurn                       = 500
)

type Config struct {
	BeamDepth int `json:"beam_depth"`
	BeamWidth int `json:"beam_width"`

	// Time tiers: below HighTimeMs the mid beam is used, below MidTimeMs the low one.
	HighTimeMs   int `json:"high_time_ms"`
	MidTimeMs    int `json:"mid_time_ms"`
	MidBeamDepth int `json:"mid_beam_depth"`
	MidBeamWidth int `json:"mid_beam_width"`
	LowBeamDepth int `json:"low_beam_depth"`
	LowBeamWidth int `json:"low_beam_width"`

	FireMaxChainCount      int `json:"fire_max_chain_count"`
	FatalFireMaxChainCount int `json:"fatal_fire_max_chain_count"`
	PruneChainCount        int `json:"prune_chain_count"`
	FireSpawnLines         int `json:"fire_spawn_lines"`

	SpellSkillPoint      int `json:"spell_skill_point"`
	KillBomberSkillPoint int `json:"kill_bomber_skill_point"`
	KillBomberScoreLead  int `json:"kill_bomber_score_lead"`

	Seed          uint64 `json:"seed"`
	CacheMaxBytes int64  `json:"cache_max_bytes"`
	LogStats      bool   `json:"log_stats"`

	Heuristics HeuristicConfig `json:"heuristics"`
}

type HeuristicConfig struct {
	MaxChain      float64 `json:"max_chain"`
	MaxChainCount float64 `json:"max_chain_count"`
	LiveBlock     float64 `json:"live_block"`
	Keima         float64 `json:"keima"`
	Jump          float64 `json:"jump"`
	Height        float64 `json:"height"`
	Adjacency     float64 `json:"adjacency"`
}

type ConfigStore struct {
	mu     sync.RWMutex
	config Config
}

func DefaultConfig() Config {
	return Config{
		BeamDepth: DefaultBeamDepth,
		BeamWidth: DefaultBeamWidth,

		HighTimeMs:   30000,
		MidTimeMs:    10000,
		MidBeamDepth: 5,
		MidBeamWidth: 100,
		LowBeamDepth: 3,
		LowBeamWidth: 100,

		FireMaxChainCount:      DefaultFireMaxChainCount,
		FatalFireMaxChainCount: DefaultFatalFireMaxChainCount,
		PruneChainCount:        10,
		FireSpawnLines:         3,

		SpellSkillPoint:      80,
		KillBomberSkillPoint: 48,
		KillBomberScoreLead:  50,

		Seed:          DefaultSeed,
		CacheMaxBytes: 512 << 20,

		Heuristics: HeuristicConfig{
			MaxChain:      1e5,
			MaxChainCount: 0.1,
			LiveBlock:     1000.0,
			Keima:         20.0,
			Jump:          10.0,
			Height:        0.01,
			Adjacency:     0.1,
		},
	}
}

func resolvedHeuristicConfig(config Config) HeuristicConfig {
	defaults := DefaultConfig().Heuristics
	heuristics := config.Heuristics
	if heuristics == (HeuristicConfig{}) {
		return defaults
	}
	if heuristics.MaxChain == 0 {
		heuristics.MaxChain = defaults.MaxChain
	}
	if heuristics.MaxChainCount == 0 {
		heuristics.MaxChainCount = defaults.MaxChainCount
	}
	if heuristics.LiveBlock == 0 {
		heuristics.LiveBlock = defaults.LiveBlock
	}
	if heuristics.Keima == 0 {
		heuristics.Keima = defaults.Keima
	}
	if heuristics.Jump == 0 {
		heuristics.Jump = defaults.Jump
	}
	if heuristics.Height == 0 {
		heuristics.Height = defaults.Height
	}
	if heuristics.Adjacency == 0 {
		heuristics.Adjacency = defaults.Adjacency
	}
	return heuristics
}

func (c Config) Validate() error {
	checkBeam := func(name string, depth, width int) error {
		if depth < 1 || depth > MaxSearchDepth {
			return fmt.Errorf("%w: %s depth %d not in [1, %d]", ErrInvalidConfig, name, depth, MaxSearchDepth)
		}
		if width < 1 {
			return fmt.Errorf("%w: %s width %d must be positive", ErrInvalidConfig, name, width)
		}
		return nil
	}
	if err := checkBeam("beam", c.BeamDepth, c.BeamWidth); err != nil {
		return err
	}
	if err := checkBeam("mid beam", c.MidBeamDepth, c.MidBeamWidth); err != nil {
		return err
	}
	if err := checkBeam("low beam", c.LowBeamDepth, c.LowBeamWidth); err != nil {
		return err
	}
	if c.MidTimeMs > c.HighTimeMs {
		return fmt.Errorf("%w: mid time %dms above high time %dms", ErrInvalidConfig, c.MidTimeMs, c.HighTimeMs)
	}
	if c.FatalFireMaxChainCount < 1 || c.FatalFireMaxChainCount > MaxChainCount {
		return fmt.Errorf("%w: fatal chain count %d", ErrInvalidConfig, c.FatalFireMaxChainCount)
	}
	if c.PruneChainCount < 0 {
		return fmt.Errorf("%w: prune chain count %d", ErrInvalidConfig, c.PruneChainCount)
	}
	if c.CacheMaxBytes <= 0 {
		return fmt.Errorf("%w: cache ceiling %d", ErrInvalidConfig, c.CacheMaxBytes)
	}
	return nil
}

func NewConfigStore(config Config) *ConfigStore {
	return &ConfigStore{config: config}
}

func (c *ConfigStore) Get() Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config
}

func (c *ConfigStore) Update(newConfig Config) error {
	if err := newConfig.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	c.config = newConfig
	c.mu.Unlock()
	return nil
}
