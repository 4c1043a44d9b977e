package probe

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/anhprgm/dev-info/internal/domain"
)

const dumpsysPackageTmpl = `Activity Resolver Table:
  Non-Data Actions:
      android.intent.action.MAIN:
        1d2c3b4 org.example.notes/.MainActivity filter 5e6f7a8

Packages:
  Package [org.example.notes] (a1b2c3d):
    userId=10123
    pkg=Package{a1b2c3d org.example.notes}
    codePath=%s
    versionCode=42 minSdk=24 targetSdk=34
    versionName=1.4.2
    flags=[ HAS_CODE ALLOW_CLEAR_USER_DATA ]
    pkgFlags=[ HAS_CODE ALLOW_CLEAR_USER_DATA ]
    timeStamp=2026-01-05 10:00:00
    firstInstallTime=2026-01-05 10:00:01
    lastUpdateTime=2026-02-10 08:30:00
    requested permissions:
      android.permission.INTERNET
      android.permission.CAMERA: restricted=true
    install permissions:
      android.permission.INTERNET: granted=true
  Package [org.example.other] (ffff):
    versionName=9.9
`

func TestAppDetailFromDumpsys(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "base.apk"), make([]byte, 2048), 0o644); err != nil {
		t.Fatalf("write apk: %v", err)
	}
	r := &fakeRunner{out: map[string]string{
		"dumpsys package org.example.notes": fmtDump(dir),
	}}
	p := New(Config{}, WithRunner(r))

	got, err := p.AppDetail(context.Background(), "org.example.notes")
	if err != nil {
		t.Fatalf("app detail: %v", err)
	}
	if got.PackageName != "org.example.notes" || got.AppName != "org.example.notes" {
		t.Fatalf("unexpected names: %+v", got)
	}
	if got.VersionName != "1.4.2" || got.VersionCode != 42 {
		t.Fatalf("unexpected version: %s/%d", got.VersionName, got.VersionCode)
	}
	if got.InstallTime != "2026-01-05 10:00:01" || got.UpdateTime != "2026-02-10 08:30:00" {
		t.Fatalf("unexpected times: %s / %s", got.InstallTime, got.UpdateTime)
	}
	if got.System {
		t.Fatalf("user package reported as system")
	}
	if got.SizeBytes != 2048 {
		t.Fatalf("expected 2048 bytes, got %d", got.SizeBytes)
	}
	want := []string{"android.permission.INTERNET", "android.permission.CAMERA"}
	if len(got.Permissions) != len(want) {
		t.Fatalf("expected %v, got %v", want, got.Permissions)
	}
	for i := range want {
		if got.Permissions[i] != want[i] {
			t.Fatalf("permission %d: expected %s, got %s", i, want[i], got.Permissions[i])
		}
	}
}

func TestAppDetailSystemThroughShell(t *testing.T) {
	dump := "Packages:\n  Package [com.android.settings] (1):\n    codePath=/system/priv-app/Settings\n    pkgFlags=[ SYSTEM HAS_CODE ]\n"
	r := &fakeRunner{out: map[string]string{
		"adb shell dumpsys package com.android.settings": dump,
	}}
	p := New(Config{Shell: "adb shell"}, WithRunner(r))

	got, err := p.AppDetail(context.Background(), "com.android.settings")
	if err != nil {
		t.Fatalf("app detail: %v", err)
	}
	if !got.System || got.CodePath != "/system/priv-app/Settings" {
		t.Fatalf("unexpected detail: %+v", got)
	}
	if got.SizeBytes != 0 {
		t.Fatalf("remote code path must not be sized locally, got %d", got.SizeBytes)
	}
	if got.Permissions != nil {
		t.Fatalf("expected no permissions, got %v", got.Permissions)
	}
}

func TestAppDetailNotFound(t *testing.T) {
	r := &fakeRunner{out: map[string]string{
		"dumpsys package org.example.gone": "Unable to find package: org.example.gone\n",
	}}
	p := New(Config{}, WithRunner(r))

	for _, name := range []string{"org.example.gone", "../etc", "a b", ""} {
		if _, err := p.AppDetail(context.Background(), name); !errors.Is(err, domain.ErrAppNotFound) {
			t.Fatalf("%q: expected ErrAppNotFound, got %v", name, err)
		}
	}
	for _, call := range r.calls {
		if call != "dumpsys package org.example.gone" {
			t.Fatalf("invalid name reached the runner: %q", call)
		}
	}
}

func TestAppDetailWithoutDumpsys(t *testing.T) {
	p := New(Config{}, WithRunner(&fakeRunner{}))
	_, err := p.AppDetail(context.Background(), "org.example.notes")
	if err == nil || errors.Is(err, domain.ErrAppNotFound) {
		t.Fatalf("expected a command error, got %v", err)
	}
}

func fmtDump(codePath string) string {
	return fmt.Sprintf(dumpsysPackageTmpl, codePath)
}
