package neat

import (
	"fmt"

	"gopkg.in/ini.v1"
)

// GenomeParams is the on-disk configuration for how genomes are constructed and
// mutated, loaded from an INI file the same way the rest of this stack's
// configuration is loaded.
type GenomeParams struct {
	InputSize               int    `ini:"input_size"`
	OutputSize              int    `ini:"output_size"`
	PreestablishConnections bool   `ini:"preestablish_connections"`
	WindowSize              int    `ini:"window_size"`
	HiddenActivation        string `ini:"hidden_activation"`
	OutputActivation        string `ini:"output_activation"`

	Mutation     GenomeMutationProbabilities `ini:"-"`
	WeightChange WeightChangeProbabilities   `ini:"-"`
}

// EvolutionParams is the on-disk configuration for the evolution driver itself: how
// many species to run, how big each one is, and when to stop.
type EvolutionParams struct {
	SpeciesCount            int     `ini:"species_count"`
	SpeciesSize             int     `ini:"species_size"`
	DistanceThreshold       float64 `ini:"distance_threshold"`
	CrossoverRetries        int     `ini:"crossover_retries"`
	ReplaceWorstEveryNthGen int     `ini:"replace_worst_every_nth_gen"` // 0 disables periodic replacement
	ParallelChunkSize       int     `ini:"parallel_chunk_size"`
}

// iniMutationSection mirrors GenomeMutationProbabilities with INI tags; ini.v1 maps
// a dedicated struct per section rather than tagging fields of an embedded struct
// directly, which is why this shadow type exists purely for MapTo/ReflectFrom.
type iniMutationSection struct {
	ChangeWeight     int `ini:"change_weight"`
	SplitConnection  int `ini:"split_connection"`
	CreateConnection int `ini:"create_connection"`
	ToggleWeight     int `ini:"toggle_weight"`
	Nothing          int `ini:"nothing"`
}

type iniWeightChangeSection struct {
	AdditionSmall       int `ini:"addition_small"`
	AdditionLarge       int `ini:"addition_large"`
	MultiplicationSmall int `ini:"multiplication_small"`
	MultiplicationLarge int `ini:"multiplication_large"`
	ChangeSign          int `ini:"change_sign"`
}

// LoadGenomeParams reads genome construction and mutation settings from an INI file
// with a [genome] section, an optional [mutation] section, and an optional
// [weight_change] section. Missing sections fall back to the package defaults.
func LoadGenomeParams(filePath string) (*GenomeParams, error) {
	cfg, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment:        true,
		UnescapeValueCommentSymbols: true,
	}, filePath)
	if err != nil {
		return nil, fmt.Errorf("neat: loading genome config %q: %w", filePath, err)
	}

	params := &GenomeParams{
		WindowSize:       10,
		HiddenActivation: "leaky_relu",
		OutputActivation: "sigmoid",
	}
	if err := cfg.Section("genome").MapTo(params); err != nil {
		return nil, fmt.Errorf("neat: parsing [genome] section: %w", err)
	}

	mutation := iniMutationSection(DefaultGenomeMutationProbabilities())
	if cfg.HasSection("mutation") {
		if err := cfg.Section("mutation").MapTo(&mutation); err != nil {
			return nil, fmt.Errorf("neat: parsing [mutation] section: %w", err)
		}
	}
	params.Mutation = GenomeMutationProbabilities(mutation)

	weightChange := iniWeightChangeSection(DefaultWeightChangeProbabilities())
	if cfg.HasSection("weight_change") {
		if err := cfg.Section("weight_change").MapTo(&weightChange); err != nil {
			return nil, fmt.Errorf("neat: parsing [weight_change] section: %w", err)
		}
	}
	params.WeightChange = WeightChangeProbabilities(weightChange)

	if err := params.Validate(); err != nil {
		return nil, err
	}
	return params, nil
}

// Validate checks the invariants LoadGenomeParams cannot enforce through struct tags
// alone.
func (p *GenomeParams) Validate() error {
	if p.InputSize <= 0 {
		return fmt.Errorf("neat: genome config: input_size must be positive, got %d", p.InputSize)
	}
	if p.OutputSize <= 0 {
		return fmt.Errorf("neat: genome config: output_size must be positive, got %d", p.OutputSize)
	}
	if p.WindowSize <= 0 {
		return fmt.Errorf("neat: genome config: window_size must be positive, got %d", p.WindowSize)
	}
	if _, err := GetActivation(p.HiddenActivation); err != nil {
		return fmt.Errorf("neat: genome config: hidden_activation: %w", err)
	}
	if _, err := GetActivation(p.OutputActivation); err != nil {
		return fmt.Errorf("neat: genome config: output_activation: %w", err)
	}
	return nil
}

// LoadEvolutionParams reads evolution-driver settings from an INI file's
// [evolution] section. Missing fields fall back to package defaults.
func LoadEvolutionParams(filePath string) (*EvolutionParams, error) {
	cfg, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment:        true,
		UnescapeValueCommentSymbols: true,
	}, filePath)
	if err != nil {
		return nil, fmt.Errorf("neat: loading evolution config %q: %w", filePath, err)
	}

	params := &EvolutionParams{
		SpeciesCount:      6,
		SpeciesSize:       25,
		DistanceThreshold: 0.2,
		CrossoverRetries:  5,
		ParallelChunkSize: 1,
	}
	if err := cfg.Section("evolution").MapTo(params); err != nil {
		return nil, fmt.Errorf("neat: parsing [evolution] section: %w", err)
	}

	if err := params.Validate(); err != nil {
		return nil, err
	}
	return params, nil
}

// Validate checks the invariants LoadEvolutionParams cannot enforce through struct
// tags alone.
func (p *EvolutionParams) Validate() error {
	if p.SpeciesCount <= 0 {
		return fmt.Errorf("neat: evolution config: species_count must be positive, got %d", p.SpeciesCount)
	}
	if p.SpeciesSize < 2 {
		return fmt.Errorf("neat: evolution config: species_size must be at least 2, got %d", p.SpeciesSize)
	}
	if p.DistanceThreshold <= 0 {
		return fmt.Errorf("neat: evolution config: distance_threshold must be positive, got %f", p.DistanceThreshold)
	}
	if p.CrossoverRetries < 0 {
		return fmt.Errorf("neat: evolution config: crossover_retries must not be negative, got %d", p.CrossoverRetries)
	}
	if p.ParallelChunkSize <= 0 {
		return fmt.Errorf("neat: evolution config: parallel_chunk_size must be positive, got %d", p.ParallelChunkSize)
	}
	return nil
}
