package vision

import (
	"fmt"

	"docrecon/internal/config"
	"docrecon/internal/port"
)

// ProviderFactory builds a VisionExtractor from a provider config.
type ProviderFactory func(cfg *config.VisionProviderConfig) (port.VisionExtractor, error)

// registry of provider factories, populated by RegisterProvider from main.
var providers = map[string]ProviderFactory{}

// RegisterProvider registers an extraction provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// NewExtractor creates a VisionExtractor using the registered factory.
func NewExtractor(cfg *config.VisionProviderConfig) (port.VisionExtractor, error) {
	factory, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown vision provider: %s", cfg.Provider)
	}
	return factory(cfg)
}

// NewChain builds the primary extractor and, when configured, wraps it with
// the secondary in a FallbackExtractor.
func NewChain(cfg *config.VisionConfig) (port.VisionExtractor, error) {
	primary, err := NewExtractor(&cfg.Primary)
	if err != nil {
		return nil, fmt.Errorf("primary: %w", err)
	}
	secondaryCfg := cfg.SecondaryConfig()
	if secondaryCfg == nil {
		return primary, nil
	}
	secondary, err := NewExtractor(secondaryCfg)
	if err != nil {
		return nil, fmt.Errorf("secondary: %w", err)
	}
	return NewFallbackExtractor(
		[]port.VisionExtractor{primary, secondary},
		[]string{cfg.Primary.Provider, secondaryCfg.Provider},
	), nil
}
