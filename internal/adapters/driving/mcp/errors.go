// Package mcp provides an MCP (Model Context Protocol) server adapter for paperink.
// It lets AI assistants convert paper captures and inspect ink containers.
package mcp

import "errors"

// ErrMissingConversionService is returned when the conversion service is not provided.
var ErrMissingConversionService = errors.New("mcp: conversion service is required")

// ErrMissingSettingsService is returned when the settings service is not provided.
var ErrMissingSettingsService = errors.New("mcp: settings service is required")

// ErrMissingInspectService is returned when the inspect service is not provided.
var ErrMissingInspectService = errors.New("mcp: inspect service is required")
