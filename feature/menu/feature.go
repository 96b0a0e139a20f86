package menu

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature wires the menu service into the application loader.
type Feature struct {
	service *Service
	logger  *zap.Logger
}

// NewFeature creates the menu feature.
func NewFeature(service *Service, logger *zap.Logger) *Feature {
	return &Feature{service: service, logger: logger}
}

// Name returns the feature identifier.
func (f *Feature) Name() string {
	return "menu"
}

// IsEnabled reports whether the feature should be loaded.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature routes.
func (f *Feature) Load(app fiber.Router) error {
	NewHandler(f.service, f.logger).RegisterRoutes(app)
	return nil
}
