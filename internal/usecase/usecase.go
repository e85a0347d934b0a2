// Package usecase orchestrates the generation pipelines over injected
// collaborator ports.
package usecase

import (
	"github.com/gchongg/lofi-video-generator/internal/ports"
)

type Deps struct {
	Probe ports.Prober
	Enc   ports.Encoder
	DL    ports.Downloader
}

// Logf is the logging hook threaded through every pipeline.
type Logf func(format string, args ...any)

func noLog(string, ...any) {}
