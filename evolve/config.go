package evolve

import (
	"fmt"

	"gopkg.in/ini.v1"
)

// Config stores the configuration of an evolution run.
type Config struct {
	Population PopulationConfig
	Raster     RasterConfig
	Run        RunConfig
	Report     ReportConfig
}

// PopulationConfig holds parameters of the population engine itself.
type PopulationConfig struct {
	Size    int    `ini:"size"`
	Workers int    `ini:"workers"` // 0 means runtime.GOMAXPROCS(0)
	Seed    uint64 `ini:"seed"`    // 0 means a random seed
}

// RasterConfig holds parameters of the image genome.
type RasterConfig struct {
	MutationRate    float64 `ini:"mutation_rate"`    // per-pixel probability of a point mutation
	MutationDivisor int     `ini:"mutation_divisor"` // a random int8 divided by this is added to each channel
}

// RunConfig holds parameters of the driving loop.
type RunConfig struct {
	StepSize     int    `ini:"step_size"` // generations between reports
	TargetImage  string `ini:"target_image"`
	CurrentImage string `ini:"current_image"`
}

// ReportConfig holds the optional reporting sinks. Empty values disable a sink.
type ReportConfig struct {
	MetricsAddr string `ini:"metrics_addr"`
	NatsURL     string `ini:"nats_url"`
	NatsSubject string `ini:"nats_subject"`
	HistoryDB   string `ini:"history_db"`
	PlotPath    string `ini:"plot_path"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	config := &Config{}
	config.applyDefaults()
	return config
}

// LoadConfig loads configuration parameters from an INI file.
// Keys missing from the file keep their default value.
func LoadConfig(filePath string) (*Config, error) {
	// Values are cut at the first '#' or ';', so inline comments are allowed.
	cfg, err := ini.Load(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file '%s': %w", filePath, err)
	}

	config := &Config{}
	if err := cfg.Section("population").MapTo(&config.Population); err != nil {
		return nil, fmt.Errorf("failed to map [population] section: %w", err)
	}
	if err := cfg.Section("raster").MapTo(&config.Raster); err != nil {
		return nil, fmt.Errorf("failed to map [raster] section: %w", err)
	}
	if err := cfg.Section("run").MapTo(&config.Run); err != nil {
		return nil, fmt.Errorf("failed to map [run] section: %w", err)
	}
	if err := cfg.Section("report").MapTo(&config.Report); err != nil {
		return nil, fmt.Errorf("failed to map [report] section: %w", err)
	}

	// A zero size in the file is treated as "not set"; an explicit negative one fails Validate.
	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) applyDefaults() {
	if c.Population.Size == 0 {
		c.Population.Size = 1000
	}
	if c.Raster.MutationRate == 0 {
		c.Raster.MutationRate = 0.001
	}
	if c.Raster.MutationDivisor == 0 {
		c.Raster.MutationDivisor = 4
	}
	if c.Run.StepSize == 0 {
		c.Run.StepSize = 100
	}
	if c.Run.TargetImage == "" {
		c.Run.TargetImage = "target.png"
	}
	if c.Run.CurrentImage == "" {
		c.Run.CurrentImage = "curr.png"
	}
	if c.Report.NatsSubject == "" {
		c.Report.NatsSubject = "evolvers.progress"
	}
}

// Validate checks value ranges. It is called by LoadConfig and should be called again
// after command-line overrides are applied.
func (c *Config) Validate() error {
	if c.Population.Size < 1 {
		return fmt.Errorf("config error: population size must be positive")
	}
	if c.Population.Workers < 0 {
		return fmt.Errorf("config error: workers cannot be negative")
	}
	if c.Raster.MutationRate < 0 || c.Raster.MutationRate > 1 {
		return fmt.Errorf("config error: mutation_rate must be between 0 and 1")
	}
	if c.Raster.MutationDivisor <= 0 {
		return fmt.Errorf("config error: mutation_divisor must be positive")
	}
	if c.Run.StepSize <= 0 {
		return fmt.Errorf("config error: step_size must be positive")
	}
	return nil
}

// Options converts the population section into construction options for New.
func (pc PopulationConfig) Options() []Option {
	return []Option{WithWorkers(pc.Workers), WithSeed(pc.Seed)}
}
