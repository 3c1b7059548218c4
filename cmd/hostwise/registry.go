package main

import (
	"github.com/hostwise/hostwise/internal/logger"
	"github.com/hostwise/hostwise/internal/processors"
	commandprocessor "github.com/hostwise/hostwise/internal/processors/command"
	fileprocessor "github.com/hostwise/hostwise/internal/processors/file"
	repoprocessor "github.com/hostwise/hostwise/internal/processors/repo"
)

// newProcessorRegistry wires every built-in unit processor factory.
func newProcessorRegistry(log *logger.Logger) (*processors.Registry, error) {
	registry := processors.NewRegistry(log)

	if err := registry.Register(commandprocessor.NewFactory()); err != nil {
		return nil, err
	}
	if err := registry.Register(fileprocessor.NewFactory()); err != nil {
		return nil, err
	}
	if err := registry.Register(repoprocessor.NewFactory()); err != nil {
		return nil, err
	}

	return registry, nil
}
