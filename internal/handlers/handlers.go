package handlers

import (
	"time"

	"showcase-media/internal/contributors"
	"showcase-media/internal/pipeline"
	"showcase-media/internal/startup"
	"showcase-media/internal/upload"
)

type Handlers struct {
	pipeline     *pipeline.Pipeline
	trackers     *upload.Registry
	contributors *contributors.Service
	config       *startup.Config
	startTime    time.Time
}

func New(pipe *pipeline.Pipeline, trackers *upload.Registry, contribs *contributors.Service, config *startup.Config) *Handlers {
	return &Handlers{
		pipeline:     pipe,
		trackers:     trackers,
		contributors: contribs,
		config:       config,
		startTime:    time.Now(),
	}
}
