package data

import (
	"loopmod/internal/conf"
	"loopmod/internal/pkg/analyzer"
	"loopmod/internal/pkg/oracle"
	pkgredis "loopmod/internal/pkg/redis"

	"github.com/go-kratos/kratos/v2/log"
)

// NewOraclePool creates the scoring-service replica pool from configuration.
func NewOraclePool(conf *conf.Moderation) analyzer.Classifier {
	cfg := oracle.DefaultConfig("")
	if conf.Oracle != nil {
		if conf.Oracle.Model != "" {
			cfg.Model = conf.Oracle.Model
		}
		if t := conf.Oracle.Timeout.AsDuration(); t > 0 {
			cfg.Timeout = t
		}
	}

	var endpoints []string
	if conf.Oracle != nil {
		endpoints = conf.Oracle.Endpoints
	}
	return oracle.NewPool(cfg, endpoints)
}

// NewTermMatcher creates the flagged-term matcher over the shared redis cache.
func NewTermMatcher(cache pkgredis.Cache) *analyzer.TermMatcher {
	return analyzer.NewTermMatcher(cache, analyzer.DefaultTermMatcherConfig())
}

// NewVisualAnalyzer creates the visual analyzer from configuration.
func NewVisualAnalyzer(
	conf *conf.Moderation,
	classifier analyzer.Classifier,
	resultCache analyzer.ResultCache,
	cache pkgredis.Cache,
	store analyzer.KnownVisualStore,
	logger log.Logger,
) *analyzer.VisualAnalyzer {
	cfg := analyzer.DefaultVisualAnalyzerConfig()
	if conf.Visual != nil {
		if conf.Visual.UnsafeThreshold > 0 {
			cfg.UnsafeThreshold = conf.Visual.UnsafeThreshold
		}
		if conf.Visual.MaxHammingDistance > 0 {
			cfg.MaxHammingDistance = conf.Visual.MaxHammingDistance
		}
	}
	return analyzer.NewVisualAnalyzer(cfg, classifier, resultCache, cache, store, logger)
}

// NewAudioAnalyzer creates the audio analyzer.
func NewAudioAnalyzer(
	classifier analyzer.Classifier,
	resultCache analyzer.ResultCache,
	terms *analyzer.TermMatcher,
	logger log.Logger,
) *analyzer.AudioAnalyzer {
	return analyzer.NewAudioAnalyzer(classifier, resultCache, terms, logger)
}

// NewMetadataAnalyzer creates the metadata analyzer.
func NewMetadataAnalyzer(
	classifier analyzer.Classifier,
	resultCache analyzer.ResultCache,
	terms *analyzer.TermMatcher,
	logger log.Logger,
) *analyzer.MetadataAnalyzer {
	return analyzer.NewMetadataAnalyzer(classifier, resultCache, terms, logger)
}
