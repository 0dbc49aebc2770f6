package config

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

// AnalysisConfig tunes the analysis pipeline
type AnalysisConfig struct {
	AnswersPerCluster int `yaml:"answers_per_cluster"` // roughly one cluster per this many text answers
	MaxClusters       int `yaml:"max_clusters"`
	KMeansIterations  int `yaml:"kmeans_iterations"`
	ClusterSampleSize int `yaml:"cluster_sample_size"` // answers quoted in a cluster prompt
	GlobalSampleSize  int `yaml:"global_sample_size"`  // lines quoted in the survey-wide prompt
	TopN              int `yaml:"top_n"`
	FallbackTopN      int `yaml:"fallback_top_n"`
}

// DefaultAnalysisConfig returns the stock thresholds
func DefaultAnalysisConfig() *AnalysisConfig {
	return &AnalysisConfig{
		AnswersPerCluster: 10,
		MaxClusters:       5,
		KMeansIterations:  20,
		ClusterSampleSize: 40,
		GlobalSampleSize:  200,
		TopN:              5,
		FallbackTopN:      3,
	}
}

// LoadAnalysis reads a YAML tuning file. If the file does not exist, returns defaults.
func LoadAnalysis(path string) (*AnalysisConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultAnalysisConfig(), nil
		}
		return nil, err
	}
	var cfg AnalysisConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyAnalysisDefaults(&cfg)
	return &cfg, nil
}

func applyAnalysisDefaults(cfg *AnalysisConfig) {
	def := DefaultAnalysisConfig()
	if cfg.AnswersPerCluster <= 0 {
		cfg.AnswersPerCluster = def.AnswersPerCluster
	}
	if cfg.MaxClusters <= 0 {
		cfg.MaxClusters = def.MaxClusters
	}
	if cfg.KMeansIterations <= 0 {
		cfg.KMeansIterations = def.KMeansIterations
	}
	if cfg.ClusterSampleSize <= 0 {
		cfg.ClusterSampleSize = def.ClusterSampleSize
	}
	if cfg.GlobalSampleSize <= 0 {
		cfg.GlobalSampleSize = def.GlobalSampleSize
	}
	if cfg.TopN <= 0 {
		cfg.TopN = def.TopN
	}
	if cfg.FallbackTopN <= 0 {
		cfg.FallbackTopN = def.FallbackTopN
	}
}
