package update

import (
	"context"
	"os"
	"os/exec"
)

// Installer runs post-update commands in a manifest's directory.
type Installer interface {
	// Install installs dependencies (npm install).
	Install(ctx context.Context, dir string) error
	// AuditFix applies automatic vulnerability fixes (npm audit fix).
	AuditFix(ctx context.Context, dir string) error
}

// NpmInstaller shells out to npm with the parent's standard streams.
type NpmInstaller struct{}

// Install runs "npm install" in dir.
func (NpmInstaller) Install(ctx context.Context, dir string) error {
	return runNpm(ctx, dir, "install")
}

// AuditFix runs "npm audit fix" in dir.
func (NpmInstaller) AuditFix(ctx context.Context, dir string) error {
	return runNpm(ctx, dir, "audit", "fix")
}

func runNpm(ctx context.Context, dir string, args ...string) error {
	cmd := exec.CommandContext(ctx, "npm", args...)
	cmd.Dir = dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

var _ Installer = NpmInstaller{}
