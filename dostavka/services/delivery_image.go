package services

import (
	"context"
	"os"

	"log/slog"

	"github.com/whitewenty/dostavka/dostavka/economy/buffs"
)

const (
	customDeliveryImage   = "delivery_custom.jpg"
	fallbackDeliveryImage = "delivery.png"
	spacesDeliveryImage   = "delivery/delivery.png"
)

// ImageService resolves the delivery graphic and buff item images.
// Generation of the graphics themselves is outside this service; it only
// locates an existing one.
type ImageService struct {
	spaces *SpacesService
}

// NewImageService creates an image service. spaces may be nil when no
// bucket is configured; only local files are used then.
func NewImageService(spaces *SpacesService) *ImageService {
	return &ImageService{spaces: spaces}
}

// DeliveryImagePath returns the path of a local delivery graphic if one
// exists: an operator-provided custom image wins over the bundled fallback.
func (s *ImageService) DeliveryImagePath() (string, bool) {
	for _, path := range []string{customDeliveryImage, fallbackDeliveryImage} {
		if info, err := os.Stat(path); err == nil && info.Size() > 0 {
			return path, true
		}
	}
	return "", false
}

// DeliveryImageURL returns a hosted URL for the delivery graphic when no
// local file is available.
func (s *ImageService) DeliveryImageURL(ctx context.Context) (string, bool) {
	if s.spaces == nil {
		return "", false
	}
	if !s.spaces.Exists(ctx, spacesDeliveryImage) {
		slog.Warn("Delivery image missing from bucket",
			slog.String("type", "sys"),
			slog.String("key", spacesDeliveryImage))
		return "", false
	}
	return s.spaces.PublicURL(spacesDeliveryImage), true
}

// BuffImageURL returns the hosted image for a shop item, or "" when no
// bucket is configured.
func (s *ImageService) BuffImageURL(item buffs.Item) string {
	if s.spaces == nil || item.ImageKey == "" {
		return ""
	}
	return s.spaces.PublicURL(item.ImageKey)
}
