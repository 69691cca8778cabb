package core

import (
	"go.uber.org/zap"

	"github.com/oneconcern/buildsync/pkg/model"
)

// target is one (architecture, local build directory) pair in scope
// for this run.
type target struct {
	arch string
	dir  string
}

// selectTargets resolves the architectures to process for a build, in
// the build record's own order. Architectures filtered out by the user
// are skipped silently apart from a debug trace; architectures whose
// output is not present locally are skipped with a diagnostic.
func (p *Publisher) selectTargets(build model.BuildRecord) []target {
	var targets []target
	for _, arch := range build.Arches {
		if !p.archSelected(arch) {
			p.l.Debug("architecture filtered out", zap.String("arch", arch))
			continue
		}
		ok, err := p.builds.HasDir(build.ID, arch)
		if err != nil || !ok {
			p.l.Warn("architecture not present locally, skipping",
				zap.String("build", build.ID),
				zap.String("arch", arch),
				zap.Error(err))
			continue
		}
		targets = append(targets, target{arch: arch, dir: p.builds.DirFor(build.ID, arch)})
	}
	return targets
}

func (p *Publisher) archSelected(arch string) bool {
	if len(p.arches) == 0 {
		return true
	}
	for _, a := range p.arches {
		if a == arch {
			return true
		}
	}
	return false
}
