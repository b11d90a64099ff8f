package main

import (
	"github.com/reusee/dscope"
	"github.com/reusee/exindent/debugs"
	"github.com/reusee/exindent/sources"
	"github.com/reusee/exindent/styleconfigs"
)

type Module struct {
	dscope.Module
	Sources      sources.Module
	StyleConfigs styleconfigs.Module
	Debugs       debugs.Module
}
