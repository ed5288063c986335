// Package driver implements the CI stage orchestration for elements-miniscript.
// It resolves the run configuration, pins dependencies for old toolchains and executes the declared
// stages in order through a Runner. Commands are rendered with mvdan.cc/sh and, unless a dry run was
// requested, executed by its interpreter.
package driver
