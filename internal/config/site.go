package config

import "fmt"

// SiteConfig describes one column listing and how its articles are printed.
// Every field is optional; empty fields keep the built-in defaults.
type SiteConfig struct {
	// StartURL is the first listing page.
	StartURL string `yaml:"startURL,omitempty"`

	// Origin is prepended to site-relative article links.
	Origin string `yaml:"origin,omitempty"`

	// PaginationSelector matches the "next page" control.
	PaginationSelector string `yaml:"paginationSelector,omitempty"`

	// LinkSelector matches the article anchors.
	LinkSelector string `yaml:"linkSelector,omitempty"`

	// PageIndicatorSelector matches the current page number.
	PageIndicatorSelector string `yaml:"pageIndicatorSelector,omitempty"`

	// ModalSelector matches overlays hidden before each click.
	ModalSelector string `yaml:"modalSelector,omitempty"`

	// TitleSelector matches the article headline.
	TitleSelector string `yaml:"titleSelector,omitempty"`

	// TimeSelector matches the publish time element.
	TimeSelector string `yaml:"timeSelector,omitempty"`

	// TimeAttribute is read from the publish time element.
	TimeAttribute string `yaml:"timeAttribute,omitempty"`

	// CleanupSelectors are removed before printing an article.
	CleanupSelectors []string `yaml:"cleanupSelectors,omitempty"`

	// Cookies are set in the browser before the first navigation.
	Cookies map[string]string `yaml:"cookies,omitempty"`

	// URLFile overrides the URL list path for this site.
	URLFile string `yaml:"urlFile,omitempty"`

	// OutputDir overrides the PDF directory for this site.
	OutputDir string `yaml:"outputDir,omitempty"`
}

// File represents the structure of the .column2pdf configuration file.
type File struct {
	// Sites maps a profile name to its configuration.
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults applies to every profile unless overridden.
	Defaults SiteConfig `yaml:"defaults,omitempty"`
}

// GetSiteConfig returns the named profile merged over the defaults.
// An empty name returns the defaults. An unknown name is an error.
func (cf *File) GetSiteConfig(name string) (SiteConfig, error) {
	result := cf.Defaults
	if name == "" {
		return result, nil
	}

	site, ok := cf.Sites[name]
	if !ok {
		return SiteConfig{}, fmt.Errorf("%w: %s", ErrUnknownSite, name)
	}
	return mergeSiteConfig(result, site), nil
}

// SiteNames returns the profile names defined in the file.
func (cf *File) SiteNames() []string {
	names := make([]string, 0, len(cf.Sites))
	for name := range cf.Sites {
		names = append(names, name)
	}
	return names
}

// mergeSiteConfig overlays non-zero fields of override onto defaults.
func mergeSiteConfig(defaults, override SiteConfig) SiteConfig {
	result := defaults

	if override.StartURL != "" {
		result.StartURL = override.StartURL
	}
	if override.Origin != "" {
		result.Origin = override.Origin
	}
	if override.PaginationSelector != "" {
		result.PaginationSelector = override.PaginationSelector
	}
	if override.LinkSelector != "" {
		result.LinkSelector = override.LinkSelector
	}
	if override.PageIndicatorSelector != "" {
		result.PageIndicatorSelector = override.PageIndicatorSelector
	}
	if override.ModalSelector != "" {
		result.ModalSelector = override.ModalSelector
	}
	if override.TitleSelector != "" {
		result.TitleSelector = override.TitleSelector
	}
	if override.TimeSelector != "" {
		result.TimeSelector = override.TimeSelector
	}
	if override.TimeAttribute != "" {
		result.TimeAttribute = override.TimeAttribute
	}
	if len(override.CleanupSelectors) > 0 {
		result.CleanupSelectors = override.CleanupSelectors
	}
	if len(override.Cookies) > 0 {
		merged := make(map[string]string, len(result.Cookies)+len(override.Cookies))
		for k, v := range result.Cookies {
			merged[k] = v
		}
		for k, v := range override.Cookies {
			merged[k] = v
		}
		result.Cookies = merged
	}
	if override.URLFile != "" {
		result.URLFile = override.URLFile
	}
	if override.OutputDir != "" {
		result.OutputDir = override.OutputDir
	}

	return result
}
