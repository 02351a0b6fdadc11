// SPDX-License-Identifier: Apache-2.0

// Package lintlog is the structured logging surface the replay engine
// and loaders log through, mirroring pkg/migrations.Logger's shape: an
// interface backed by pterm.DefaultLogger, plus a no-op implementation
// for tests and library embedding.
package lintlog

import "github.com/pterm/pterm"

// Logger is the logging capability the rest of pgmlint depends on.
// Key/value pairs follow pterm's Args convention: alternating key,
// value, ... .
type Logger interface {
	Debug(msg string, kv ...any)
	Info(msg string, kv ...any)
	Warn(msg string, kv ...any)
	Error(msg string, kv ...any)
}

type ptermLogger struct {
	logger pterm.Logger
}

// New returns a Logger backed by pterm's default logger.
func New() Logger {
	return &ptermLogger{logger: pterm.DefaultLogger}
}

func (l *ptermLogger) Debug(msg string, kv ...any) {
	l.logger.Debug(msg, l.logger.Args(kv...))
}

func (l *ptermLogger) Info(msg string, kv ...any) {
	l.logger.Info(msg, l.logger.Args(kv...))
}

func (l *ptermLogger) Warn(msg string, kv ...any) {
	l.logger.Warn(msg, l.logger.Args(kv...))
}

func (l *ptermLogger) Error(msg string, kv ...any) {
	l.logger.Error(msg, l.logger.Args(kv...))
}

type noopLogger struct{}

// NewNoopLogger returns a Logger whose methods do nothing, for tests and
// callers embedding pgmlint as a library without wanting its log output.
func NewNoopLogger() Logger {
	return &noopLogger{}
}

func (*noopLogger) Debug(string, ...any) {}
func (*noopLogger) Info(string, ...any)  {}
func (*noopLogger) Warn(string, ...any)  {}
func (*noopLogger) Error(string, ...any) {}
