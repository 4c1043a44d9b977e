package probe

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"

	"github.com/anhprgm/dev-info/internal/domain"
)

var (
	wmSizeRE    = regexp.MustCompile(`(?m)^\s*(Physical|Override) size:\s*(\d+)x(\d+)`)
	wmDensityRE = regexp.MustCompile(`(?m)^\s*(Physical|Override) density:\s*(\d+)`)
	dpiRE       = regexp.MustCompile(`([\d.]+) x ([\d.]+) dpi`)
	refreshREs  = []*regexp.Regexp{
		regexp.MustCompile(`renderFrameRate ([\d.]+)`),
		regexp.MustCompile(`fps=([\d.]+)`),
		regexp.MustCompile(`refreshRate ([\d.]+)`),
	}
)

// Display reads the primary display through `wm` and `dumpsys display`.
// Hosts without a window manager report Available=false.
func (p *Probe) Display(ctx context.Context) (domain.DisplayInfo, error) {
	size, err := p.android(ctx, "wm", "size")
	if err != nil {
		return domain.DisplayInfo{}, ctx.Err()
	}
	density, err := p.android(ctx, "wm", "density")
	if err != nil && ctx.Err() != nil {
		return domain.DisplayInfo{}, ctx.Err()
	}
	dump, err := p.android(ctx, "dumpsys", "display")
	if err != nil && ctx.Err() != nil {
		return domain.DisplayInfo{}, ctx.Err()
	}
	return displayFromOutput(string(size), string(density), string(dump)), nil
}

// displayFromOutput uses the physical size (as real display metrics do) and
// the effective density, which honors a density override.
func displayFromOutput(size, density, dump string) domain.DisplayInfo {
	var info domain.DisplayInfo
	for _, m := range wmSizeRE.FindAllStringSubmatch(size, -1) {
		if m[1] == "Physical" {
			info.WidthPixels, _ = strconv.Atoi(m[2])
			info.HeightPixels, _ = strconv.Atoi(m[3])
		}
	}
	if info.WidthPixels == 0 || info.HeightPixels == 0 {
		return domain.DisplayInfo{}
	}
	info.Available = true
	info.Resolution = fmt.Sprintf("%d x %d", info.WidthPixels, info.HeightPixels)

	for _, m := range wmDensityRE.FindAllStringSubmatch(density, -1) {
		dpi, _ := strconv.Atoi(m[2])
		if m[1] == "Override" || info.DensityDPI == 0 {
			info.DensityDPI = dpi
		}
	}
	if info.DensityDPI > 0 {
		info.DensityBucket = densityBucket(float64(info.DensityDPI) / 160)
	}

	if m := dpiRE.FindStringSubmatch(dump); m != nil {
		info.XDPI, _ = strconv.ParseFloat(m[1], 64)
		info.YDPI, _ = strconv.ParseFloat(m[2], 64)
	}
	if info.XDPI > 0 && info.YDPI > 0 {
		w := float64(info.WidthPixels) / info.XDPI
		h := float64(info.HeightPixels) / info.YDPI
		info.ScreenSizeInches = math.Round(math.Hypot(w, h)*100) / 100
	}

	for _, re := range refreshREs {
		if m := re.FindStringSubmatch(dump); m != nil {
			info.RefreshRateHz, _ = strconv.ParseFloat(m[1], 64)
			break
		}
	}
	return info
}

func densityBucket(scale float64) string {
	switch {
	case scale >= 4:
		return "xxxhdpi"
	case scale >= 3:
		return "xxhdpi"
	case scale >= 2:
		return "xhdpi"
	case scale >= 1.5:
		return "hdpi"
	case scale >= 1:
		return "mdpi"
	}
	return "ldpi"
}
