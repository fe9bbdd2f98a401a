package lighting

import (
	"fmt"

	"github.com/Faultbox/lumen/internal/engine/components"
)

// ShadowQualityResolution maps a resolution class to square pixel dimensions.
func ShadowQualityResolution(q components.ShadowQuality) (width, height int32, err error) {
	switch q {
	case components.ShadowQualityLow:
		return 256, 256, nil
	case components.ShadowQualityMedium:
		return 512, 512, nil
	case components.ShadowQualityHigh:
		return 1024, 1024, nil
	case components.ShadowQualityUltra:
		return 2048, 2048, nil
	case components.ShadowQualityNightmare:
		return 4096, 4096, nil
	default:
		return 0, 0, fmt.Errorf("no shadow resolution for quality %v", q)
	}
}
