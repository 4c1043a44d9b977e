package probe

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"sort"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/anhprgm/dev-info/internal/domain"
)

// CommandRunner runs an external command and returns its stdout.
type CommandRunner interface {
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

type ExecRunner struct{}

func (ExecRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Apps lists installed packages through the Android package manager. Hosts
// without one report no apps.
func (p *Probe) Apps(ctx context.Context) (domain.AppManagerInfo, error) {
	system, err := p.listPackages(ctx, "-s")
	if err != nil {
		if ctx.Err() != nil {
			return domain.AppManagerInfo{}, ctx.Err()
		}
		return domain.AppManagerInfo{Apps: []domain.AppInfo{}}, nil
	}
	user, err := p.listPackages(ctx, "-3")
	if err != nil {
		if ctx.Err() != nil {
			return domain.AppManagerInfo{}, ctx.Err()
		}
		user = nil
	}
	return mergeApps(system, user), nil
}

func (p *Probe) listPackages(ctx context.Context, filter string) ([]string, error) {
	cmd, err := splitCommand("package_manager", p.cfg.PackageManager)
	if err != nil {
		return nil, err
	}
	args := append(cmd[1:], "list", "packages", filter)
	raw, err := p.runner.Output(ctx, cmd[0], args...)
	if err != nil {
		return nil, err
	}
	return parsePackages(raw), nil
}

// splitCommand splits a configured command line, so a remote tool such as
// "adb -s emulator-5554 shell pm" works too.
func splitCommand(field, line string) ([]string, error) {
	words, err := shellquote.Split(line)
	if err != nil {
		return nil, fmt.Errorf("%s %q: %w", field, line, err)
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("%s is empty", field)
	}
	return words, nil
}

// android runs an Android shell tool, through cfg.Shell when it is set.
func (p *Probe) android(ctx context.Context, tool string, args ...string) ([]byte, error) {
	if strings.TrimSpace(p.cfg.Shell) == "" {
		return p.runner.Output(ctx, tool, args...)
	}
	prefix, err := splitCommand("shell", p.cfg.Shell)
	if err != nil {
		return nil, err
	}
	argv := make([]string, 0, len(prefix)+len(args))
	argv = append(argv, prefix[1:]...)
	argv = append(argv, tool)
	argv = append(argv, args...)
	return p.runner.Output(ctx, prefix[0], argv...)
}

// parsePackages reads "package:<name>" lines.
func parsePackages(raw []byte) []string {
	var out []string
	sc := bufio.NewScanner(bytes.NewReader(raw))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		name, ok := strings.CutPrefix(line, "package:")
		if !ok || name == "" {
			continue
		}
		out = append(out, name)
	}
	return out
}

func mergeApps(system, user []string) domain.AppManagerInfo {
	seen := make(map[string]bool, len(system)+len(user))
	apps := make([]domain.AppInfo, 0, len(system)+len(user))
	add := func(names []string, sys bool) int {
		n := 0
		for _, name := range names {
			if seen[name] {
				continue
			}
			seen[name] = true
			apps = append(apps, domain.AppInfo{PackageName: name, System: sys})
			n++
		}
		return n
	}
	sysCount := add(system, true)
	userCount := add(user, false)

	sort.Slice(apps, func(i, j int) bool { return apps[i].PackageName < apps[j].PackageName })
	return domain.AppManagerInfo{
		TotalApps:  len(apps),
		SystemApps: sysCount,
		UserApps:   userCount,
		Apps:       apps,
	}
}

func (p *Probe) getprop(ctx context.Context, key string) string {
	raw, err := p.android(ctx, "getprop", key)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(raw))
}
