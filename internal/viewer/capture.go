package viewer

import (
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/lumen/internal/engine/debug"
	"github.com/Faultbox/lumen/internal/engine/framebuffer"
	"github.com/Faultbox/lumen/internal/engine/render"
)

type colorReader interface {
	ReadColor(i int) ([]byte, error)
	Size() (int32, int32)
}

type depthReader interface {
	ReadDepth() ([]float32, error)
	Size() (int32, int32)
}

var attachmentNames = map[int]string{
	framebuffer.GBufferPosition: "position",
	framebuffer.GBufferNormal:   "normal",
	framebuffer.GBufferAlbedo:   "albedo",
}

// captureFrame writes the presented G-buffer attachment and the directional
// shadow map of out to disk. Targets that cannot be read back are skipped.
func captureFrame(c *debug.Capture, out render.FrameOutput, attachment int) ([]string, error) {
	var files []string
	var err error

	if gb, ok := out.Geometry.GBuffer.(colorReader); ok {
		w, h := gb.Size()
		pixels, readErr := gb.ReadColor(attachment)
		if readErr == nil {
			var name string
			name, readErr = c.SaveRGBA(attachmentNames[attachment], pixels, int(w), int(h))
			files = append(files, name)
		}
		err = multierr.Append(err, readErr)
	}

	if sm, ok := out.Shadowmap.Target.(depthReader); ok {
		w, h := sm.Size()
		depths, readErr := sm.ReadDepth()
		if readErr == nil {
			var name string
			name, readErr = c.SaveDepth("shadowmap", depths, int(w), int(h))
			files = append(files, name)
		}
		err = multierr.Append(err, readErr)
	}

	if err != nil {
		return files, fmt.Errorf("capturing frame: %w", err)
	}
	return files, nil
}

func (v *Viewer) capture(out render.FrameOutput) {
	files, err := captureFrame(v.captures, out, v.presented)
	if err != nil {
		v.log.Warn("capture failed", zap.Error(err))
	}
	for _, f := range files {
		if f != "" {
			v.log.Info("capture saved", zap.String("file", f))
		}
	}
}
