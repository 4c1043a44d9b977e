package probe

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/anhprgm/dev-info/internal/domain"
)

var packageNameRE = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*(\.[A-Za-z0-9_]+)*$`)

// AppDetail reads version, install time, code path and requested
// permissions of one package from `dumpsys package`.
func (p *Probe) AppDetail(ctx context.Context, name string) (domain.AppInfo, error) {
	if !packageNameRE.MatchString(name) {
		return domain.AppInfo{}, fmt.Errorf("%w: %q", domain.ErrAppNotFound, name)
	}
	raw, err := p.android(ctx, "dumpsys", "package", name)
	if err != nil {
		if ctx.Err() != nil {
			return domain.AppInfo{}, ctx.Err()
		}
		return domain.AppInfo{}, fmt.Errorf("dumpsys package %s: %w", name, err)
	}

	info, ok := appFromDump(string(raw), name)
	if !ok {
		return domain.AppInfo{}, fmt.Errorf("%w: %s", domain.ErrAppNotFound, name)
	}
	// code paths are only meaningful on the local filesystem
	if p.cfg.Shell == "" && info.CodePath != "" {
		info.SizeBytes = dirSize(info.CodePath)
	}
	return info, nil
}

// appFromDump extracts the "Package [name]" block. dumpsys has no
// application label, so AppName falls back to the package name.
func appFromDump(dump, name string) (domain.AppInfo, bool) {
	lines := strings.Split(dump, "\n")
	header := "Package [" + name + "]"

	start := -1
	for i, l := range lines {
		if strings.HasPrefix(strings.TrimSpace(l), header) {
			start = i
			break
		}
	}
	if start < 0 {
		return domain.AppInfo{}, false
	}

	info := domain.AppInfo{PackageName: name, AppName: name}
	base := indent(lines[start])
	inPerms := false
	permIndent := 0

	for _, l := range lines[start+1:] {
		t := strings.TrimSpace(l)
		if t == "" {
			continue
		}
		ind := indent(l)
		if ind <= base {
			break
		}
		if inPerms {
			if ind > permIndent {
				perm, _, _ := strings.Cut(t, ":")
				info.Permissions = append(info.Permissions, perm)
				continue
			}
			inPerms = false
		}

		switch {
		case t == "requested permissions:":
			inPerms = true
			permIndent = ind
		case strings.HasPrefix(t, "versionName="):
			info.VersionName = strings.TrimPrefix(t, "versionName=")
		case strings.HasPrefix(t, "versionCode="):
			code, _, _ := strings.Cut(strings.TrimPrefix(t, "versionCode="), " ")
			info.VersionCode, _ = strconv.ParseInt(code, 10, 64)
		case strings.HasPrefix(t, "firstInstallTime="):
			info.InstallTime = strings.TrimPrefix(t, "firstInstallTime=")
		case strings.HasPrefix(t, "lastUpdateTime="):
			info.UpdateTime = strings.TrimPrefix(t, "lastUpdateTime=")
		case strings.HasPrefix(t, "codePath="):
			info.CodePath = strings.TrimPrefix(t, "codePath=")
		case strings.HasPrefix(t, "pkgFlags=["):
			flags := strings.Fields(strings.Trim(strings.TrimPrefix(t, "pkgFlags="), "[]"))
			for _, f := range flags {
				if f == "SYSTEM" {
					info.System = true
				}
			}
		}
	}
	return info, true
}

func indent(line string) int {
	return len(line) - len(strings.TrimLeft(line, " \t"))
}

func dirSize(root string) int64 {
	var total int64
	_ = filepath.WalkDir(root, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.Type().IsRegular() {
			if fi, err := d.Info(); err == nil {
				total += fi.Size()
			}
		}
		return nil
	})
	return total
}
