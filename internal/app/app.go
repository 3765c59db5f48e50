// Package app wires configuration into a ready-to-run classification
// pipeline: it resolves model assets, loads the tokenizer, embedding model
// and classifier once, and hands back the shared pipeline.
package app

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"github.com/ramou/TooT-BERT-T/internal/bert"
	"github.com/ramou/TooT-BERT-T/internal/cache"
	"github.com/ramou/TooT-BERT-T/internal/classify"
	"github.com/ramou/TooT-BERT-T/internal/config"
)

// BuildPipeline loads every model collaborator described by cfg. The returned
// cleanup releases the embedding session and the feature cache; callers must
// invoke it at process exit. Any failure here is a setup failure and aborts
// the run.
func BuildPipeline(ctx context.Context, cfg *config.Config) (*classify.Pipeline, func(), error) {
	if cfg == nil || cfg.Model == nil || cfg.Classifier == nil {
		return nil, nil, fmt.Errorf("model and classifier config are required")
	}

	spec := modelSpec(cfg.Model)
	cacheDir, err := bert.ResolveCacheDir(cfg.Model.CacheDir)
	if err != nil {
		return nil, nil, err
	}

	modelPath := cfg.Model.ModelPath
	if modelPath == "" {
		modelPath = filepath.Join(bert.ModelDir(cacheDir, spec.ID), bert.DefaultModelFileName)
		if err := bert.EnsureFile(ctx, modelPath, spec.ModelURL, spec.ModelSHA256); err != nil {
			return nil, nil, fmt.Errorf("failed to fetch embedding model: %w", err)
		}
	}
	tokenizerPath := cfg.Model.TokenizerPath
	if tokenizerPath == "" {
		tokenizerPath = filepath.Join(bert.ModelDir(cacheDir, spec.ID), bert.DefaultTokenizerFileName)
		if err := bert.EnsureFile(ctx, tokenizerPath, spec.TokenizerURL, spec.TokenizerSHA256); err != nil {
			return nil, nil, fmt.Errorf("failed to fetch tokenizer: %w", err)
		}
	}

	tk, err := bert.NewHFTokenizer(tokenizerPath)
	if err != nil {
		return nil, nil, err
	}
	embedder, err := bert.NewOnnxEmbedder(bert.OnnxConfig{
		ModelPath:   modelPath,
		LibraryPath: cfg.Model.LibraryPath,
		Device:      cfg.Model.Device,
		TypeIDsName: cfg.Model.TypeIDsName,
		OutputName:  cfg.Model.OutputName,
	})
	if err != nil {
		return nil, nil, err
	}

	lr, err := classify.LoadLogisticRegression(cfg.Classifier.Path)
	if err != nil {
		_ = embedder.Close()
		return nil, nil, err
	}

	pipeline := &classify.Pipeline{
		Tokenizer:  tk,
		Embedder:   embedder,
		Classifier: lr,
		MaxTokens:  cfg.Model.MaxSeqLen,
	}

	var featureStore *cache.Store
	if cfg.Cache != nil && cfg.Cache.Enabled {
		path := cfg.Cache.Path
		if path == "" {
			path = filepath.Join(bert.ModelDir(cacheDir, spec.ID), "features.db")
		}
		featureStore, err = cache.Open(path, spec.ID)
		if err != nil {
			log.Printf("feature cache disabled: %v", err)
		} else {
			pipeline.Cache = featureStore
		}
	}

	cleanup := func() {
		if featureStore != nil {
			if err := featureStore.Close(); err != nil {
				log.Printf("failed to close feature cache: %v", err)
			}
		}
		if err := embedder.Close(); err != nil {
			log.Printf("failed to close embedder: %v", err)
		}
	}
	return pipeline, cleanup, nil
}

func modelSpec(cfg *config.ModelConfig) bert.ModelSpec {
	spec := bert.DefaultModelSpec()
	if cfg.ID != "" {
		spec.ID = cfg.ID
	}
	if cfg.ModelURL != "" {
		spec.ModelURL = cfg.ModelURL
	}
	if cfg.ModelSHA256 != "" {
		spec.ModelSHA256 = cfg.ModelSHA256
	}
	if cfg.TokenizerURL != "" {
		spec.TokenizerURL = cfg.TokenizerURL
	}
	if cfg.TokenizerSHA256 != "" {
		spec.TokenizerSHA256 = cfg.TokenizerSHA256
	}
	return spec
}
