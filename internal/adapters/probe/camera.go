package probe

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/anhprgm/dev-info/internal/domain"
)

var (
	cameraHALRE    = regexp.MustCompile(`Camera HAL device \S+/(\S+) .*static information`)
	cameraLegacyRE = regexp.MustCompile(`^\s*Camera (\S+) static information:`)
	bracketRE      = regexp.MustCompile(`\[\s*([^\]]*?)\s*\]`)
)

// Camera lists camera devices from `dumpsys media.camera`. Hosts without a
// camera service report none.
func (p *Probe) Camera(ctx context.Context) (domain.CameraInfo, error) {
	raw, err := p.android(ctx, "dumpsys", "media.camera")
	if err != nil {
		if ctx.Err() != nil {
			return domain.CameraInfo{}, ctx.Err()
		}
		return domain.CameraInfo{Cameras: []domain.Camera{}}, nil
	}
	cams := camerasFromDump(string(raw))
	return domain.CameraInfo{CameraCount: len(cams), Cameras: cams}, nil
}

// camerasFromDump walks the static characteristics of each device. A tag
// line names the key and the next bracketed line holds its value.
func camerasFromDump(dump string) []domain.Camera {
	cams := []domain.Camera{}
	seen := make(map[string]bool)
	cur := -1
	pending := ""

	for _, line := range strings.Split(dump, "\n") {
		id := ""
		if m := cameraHALRE.FindStringSubmatch(line); m != nil {
			id = m[1]
		} else if m := cameraLegacyRE.FindStringSubmatch(line); m != nil {
			id = m[1]
		}
		if id != "" {
			pending = ""
			if seen[id] {
				cur = -1
				continue
			}
			seen[id] = true
			cams = append(cams, domain.Camera{ID: id, Facing: domain.FacingUnknown})
			cur = len(cams) - 1
			continue
		}
		if cur < 0 {
			continue
		}

		switch {
		case strings.Contains(line, "android.lens.facing ("):
			pending = "facing"
			continue
		case strings.Contains(line, "android.flash.info.available ("):
			pending = "flash"
			continue
		case strings.Contains(line, "android.sensor.orientation ("):
			pending = "orientation"
			continue
		}
		if pending == "" {
			continue
		}
		m := bracketRE.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		v := strings.ToUpper(m[1])
		switch pending {
		case "facing":
			cams[cur].Facing = lensFacing(v)
		case "flash":
			cams[cur].FlashAvailable = v == "TRUE" || v == "1"
		case "orientation":
			cams[cur].SensorOrientation, _ = strconv.Atoi(v)
		}
		pending = ""
	}
	return cams
}

// lensFacing accepts the enum name or the numeric LENS_FACING value.
func lensFacing(v string) string {
	switch v {
	case "BACK", "1":
		return domain.FacingBack
	case "FRONT", "0":
		return domain.FacingFront
	case "EXTERNAL", "2":
		return domain.FacingExternal
	}
	return domain.FacingUnknown
}
