package resolver

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
)

// ImageDecoder turns a resolved image file into a platform asset. It is an
// optional capability: without one, ResolveImage still selects the variant
// and leaves Image.Asset nil.
type ImageDecoder interface {
	DecodeImage(r io.Reader, scale int) (any, error)
}

// Image is a resolved density variant.
type Image struct {
	Result
	// Scale is the density of the selected variant.
	Scale int
	// Asset is the decoder's output, nil when no decoder is installed.
	Asset any
}

// DensitySuffix returns the file suffix for a scale: "" for 1, "@<n>x" otherwise.
func DensitySuffix(scale int) string {
	if scale <= 1 {
		return ""
	}
	return fmt.Sprintf("@%dx", scale)
}

// ImageCandidates lists the requests ResolveImage tries for name, in order.
func (r *Resolver) ImageCandidates(name, subdirectory string) []Request {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	if strings.TrimSpace(subdirectory) == "" {
		subdirectory = r.settings.ImageDirectory
	}
	out := make([]Request, 0, len(r.settings.Densities))
	for _, scale := range r.settings.Densities {
		out = append(out, Request{
			Name:         name + DensitySuffix(scale),
			Type:         r.settings.ImageExtension,
			Subdirectory: subdirectory,
		})
	}
	return out
}

// ResolveImage resolves the highest-preference density variant of name
// inside subdirectory (the image directory when empty). Each variant goes
// through ResolvePath, so container fallback applies per variant. A variant
// the decoder rejects counts as missing.
func (r *Resolver) ResolveImage(name, subdirectory string) (Image, bool) {
	candidates := r.ImageCandidates(name, subdirectory)
	for i, req := range candidates {
		res := r.ResolvePath(req)
		if !res.Found() {
			continue
		}
		scale := r.settings.Densities[i]
		img := Image{Result: res, Scale: scale}
		if r.decoder == nil {
			return img, true
		}
		asset, err := r.decode(res, scale)
		if err != nil {
			r.logger.Warn("image variant not decodable", zap.String("path", res.Path), zap.Error(err))
			continue
		}
		img.Asset = asset
		return img, true
	}
	return Image{}, false
}

func (r *Resolver) decode(res Result, scale int) (any, error) {
	f, err := res.Container.Open(res.Entry)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return r.decoder.DecodeImage(f, scale)
}
