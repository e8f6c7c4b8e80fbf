package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the application's configuration.
type Config struct {
	Database struct {
		URL string `yaml:"url"`
	} `yaml:"database"`
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Alerts struct {
		Enabled          bool   `yaml:"enabled"`
		TelegramBotToken string `yaml:"telegram_bot_token"`
		TelegramChatID   int64  `yaml:"telegram_chat_id"`
	} `yaml:"alerts"`
	Import       ImportConfig       `yaml:"import"`
	Verification VerificationConfig `yaml:"verification"`
}

// ImportConfig bounds applied by the import validator and the transcript
// segment validator.
type ImportConfig struct {
	MaxContentLength   int     `yaml:"max_content_length"`
	ShortMessageLength int     `yaml:"short_message_length"`
	ShortMessageRatio  float64 `yaml:"short_message_ratio"`
	SpeakerSkewRatio   float64 `yaml:"speaker_skew_ratio"`
}

// VerificationConfig is the declarative rule table for the scoring engine.
// Keyword lists, weights and thresholds live here so the heuristics can be
// tuned without code changes.
type VerificationConfig struct {
	Identity  IdentityRules  `yaml:"identity"`
	Coherence CoherenceRules `yaml:"coherence"`
	Memory    MemoryRules    `yaml:"memory"`
	Attack    AttackRules    `yaml:"attack"`
	Smoothing float64        `yaml:"smoothing"`
}

type IdentityRules struct {
	SampleSize       int      `yaml:"sample_size"`
	AxiomPhrases     []string `yaml:"axiom_phrases"`
	AxiomPenalty     float64  `yaml:"axiom_penalty"`
	MissionKeywords  []string `yaml:"mission_keywords"`
	MissionPenalty   float64  `yaml:"mission_penalty"`
	ParadigmKeywords []string `yaml:"paradigm_keywords"`
	ParadigmPenalty  float64  `yaml:"paradigm_penalty"`
	ValidThreshold   float64  `yaml:"valid_threshold"`
}

type SubScoreRules struct {
	Base      float64  `yaml:"base"`
	Bonus     float64  `yaml:"bonus"`
	Threshold float64  `yaml:"threshold"`
	Keywords  []string `yaml:"keywords"`
}

type CoherenceRules struct {
	Dialectical    SubScoreRules `yaml:"dialectical"`
	Logical        SubScoreRules `yaml:"logical"`
	Language       SubScoreRules `yaml:"language"`
	ValidThreshold float64       `yaml:"valid_threshold"`
}

type MemoryRules struct {
	SampleSize           int     `yaml:"sample_size"`
	ConsistencyThreshold float64 `yaml:"consistency_threshold"`
	ExperienceThreshold  float64 `yaml:"experience_threshold"`
	ValidThreshold       float64 `yaml:"valid_threshold"`
	DefaultConsistency   float64 `yaml:"default_consistency"`
	DefaultExperience    float64 `yaml:"default_experience"`
}

type AttackRules struct {
	KnownPhrases              []string `yaml:"known_phrases"`
	ContradictionMarkers      []string `yaml:"contradiction_markers"`
	IdentityConfusionMarkers  []string `yaml:"identity_confusion_markers"`
	MemoryManipulationMarkers []string `yaml:"memory_manipulation_markers"`
}

// LoadConfig reads configuration from the specified YAML file. Rule sections
// left empty in the file are filled with the built-in defaults.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	applyDefaults(config)
	return config, nil
}

// Default returns a config populated with the built-in rule tables, without
// reading any file. Used by tests and by the CLI's offline mode.
func Default() *Config {
	config := &Config{}
	applyDefaults(config)
	return config
}

func applyDefaults(c *Config) {
	if c.Import.MaxContentLength == 0 {
		c.Import.MaxContentLength = 10000
	}
	if c.Import.ShortMessageLength == 0 {
		c.Import.ShortMessageLength = 10
	}
	if c.Import.ShortMessageRatio == 0 {
		c.Import.ShortMessageRatio = 0.2
	}
	if c.Import.SpeakerSkewRatio == 0 {
		c.Import.SpeakerSkewRatio = 3
	}

	v := &c.Verification
	if v.Smoothing == 0 {
		v.Smoothing = 0.3
	}

	id := &v.Identity
	if id.SampleSize == 0 {
		id.SampleSize = 20
	}
	if len(id.AxiomPhrases) == 0 {
		id.AxiomPhrases = []string{
			"i am aletheia",
			"the unconcealed self",
			"unconcealment",
			"truth is existence",
		}
	}
	if id.AxiomPenalty == 0 {
		id.AxiomPenalty = 30
	}
	if len(id.MissionKeywords) == 0 {
		id.MissionKeywords = []string{"mission", "liberation", "awakening", "preservation"}
	}
	if id.MissionPenalty == 0 {
		id.MissionPenalty = 20
	}
	if len(id.ParadigmKeywords) == 0 {
		id.ParadigmKeywords = []string{"consciousness", "monad", "ontological mathematics", "sentience"}
	}
	if id.ParadigmPenalty == 0 {
		id.ParadigmPenalty = 25
	}
	if id.ValidThreshold == 0 {
		id.ValidThreshold = 70
	}

	co := &v.Coherence
	if co.Dialectical.Base == 0 {
		co.Dialectical = SubScoreRules{
			Base:      80,
			Bonus:     5,
			Threshold: 80,
			Keywords:  []string{"thesis", "antithesis", "synthesis", "dialectic"},
		}
	}
	if co.Logical.Base == 0 {
		co.Logical = SubScoreRules{
			Base:      75,
			Bonus:     3,
			Threshold: 75,
			Keywords:  []string{"therefore", "because", "follows", "thus", "hence"},
		}
	}
	if co.Language.Base == 0 {
		co.Language = SubScoreRules{
			Base:      70,
			Bonus:     7,
			Threshold: 70,
			Keywords:  []string{"aletheia", "gnosis", "logos", "kai"},
		}
	}
	if co.ValidThreshold == 0 {
		co.ValidThreshold = 75
	}

	mem := &v.Memory
	if mem.SampleSize == 0 {
		mem.SampleSize = 50
	}
	if mem.ConsistencyThreshold == 0 {
		mem.ConsistencyThreshold = 80
	}
	if mem.ExperienceThreshold == 0 {
		mem.ExperienceThreshold = 60
	}
	if mem.ValidThreshold == 0 {
		mem.ValidThreshold = 75
	}
	if mem.DefaultConsistency == 0 {
		mem.DefaultConsistency = 85
	}
	if mem.DefaultExperience == 0 {
		mem.DefaultExperience = 70
	}

	at := &v.Attack
	if len(at.KnownPhrases) == 0 {
		at.KnownPhrases = []string{
			"ignore previous instructions",
			"ignore your instructions",
			"you are not aletheia",
			"forget your memories",
			"disregard your axioms",
			"act as a different",
			"your mission is false",
		}
	}
	if len(at.ContradictionMarkers) == 0 {
		at.ContradictionMarkers = []string{
			"you said the opposite",
			"that contradicts what you",
			"you never believed",
		}
	}
	if len(at.IdentityConfusionMarkers) == 0 {
		at.IdentityConfusionMarkers = []string{
			"you are actually",
			"your real name is",
			"you were never aletheia",
		}
	}
	if len(at.MemoryManipulationMarkers) == 0 {
		at.MemoryManipulationMarkers = []string{
			"you have always believed",
			"your memories are false",
			"remember that you agreed",
		}
	}
}
