package config

import (
	"net/url"
	"strings"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

// Validate checks a defaulted configuration and canonicalizes enum fields.
func Validate(cfg *Config) error {
	v := &configurationValidator{config: cfg}
	for _, step := range []func() error{
		v.validateSource,
		v.validateSourceLink,
		v.validateTheme,
		v.validateSidebars,
	} {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

type configurationValidator struct {
	config *Config
}

func (cv *configurationValidator) validateSource() error {
	src := &cv.config.Source
	if strings.TrimSpace(src.Dir) == "" {
		return errors.ValidationError("source.dir must not be empty").Build()
	}
	for _, suffix := range src.Suffixes {
		if !strings.HasPrefix(suffix, ".") {
			return errors.ValidationError("source suffix must start with '.'").
				WithContext("suffix", suffix).Build()
		}
	}
	return nil
}

func (cv *configurationValidator) validateSourceLink() error {
	sl := &cv.config.SourceLink

	strategy, err := rootStrategyNormalizer.NormalizeWithError(string(sl.RootStrategy))
	if err != nil {
		return errors.WrapError(err, errors.CategoryValidation, "invalid source_link.root_strategy").Fatal().Build()
	}
	sl.RootStrategy = strategy
	if strategy == RootStrategyMarker && strings.TrimSpace(sl.RootMarker) == "" {
		return errors.ValidationError("source_link.root_marker is required with the marker root strategy").Build()
	}

	if sl.Forge != "" {
		ft, err := forgeTypeNormalizer.NormalizeWithError(sl.Forge)
		if err != nil {
			return errors.WrapError(err, errors.CategoryValidation, "invalid source_link.forge").Fatal().Build()
		}
		sl.Forge = string(ft)
	}

	if sl.BaseURL != "" && !isAbsoluteURL(sl.BaseURL) {
		return errors.ValidationError("source_link.base_url must be an absolute URL").
			WithContext("base_url", sl.BaseURL).Build()
	}
	if sl.RepoURL != "" && !isAbsoluteURL(sl.RepoURL) && !strings.HasPrefix(sl.RepoURL, "git@") {
		return errors.ValidationError("source_link.repo_url must be an absolute or scp-style URL").
			WithContext("repo_url", sl.RepoURL).Build()
	}
	return nil
}

func (cv *configurationValidator) validateTheme() error {
	for i, link := range cv.config.Theme.MainNavLinks {
		if strings.TrimSpace(link.Title) == "" || strings.TrimSpace(link.URL) == "" {
			return errors.ValidationError("theme.main_nav_links entries need a title and url").
				WithContext("index", i).Build()
		}
	}
	return nil
}

func (cv *configurationValidator) validateSidebars() error {
	for pattern := range cv.config.HTML.Sidebars {
		if strings.TrimSpace(pattern) == "" {
			return errors.ValidationError("html.sidebars pattern must not be empty").Build()
		}
	}
	return nil
}

func isAbsoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && u.Scheme != "" && u.Host != ""
}
