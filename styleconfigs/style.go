package styleconfigs

import (
	"github.com/reusee/exindent/cmds"
	"github.com/reusee/exindent/configs"
	"github.com/reusee/exindent/styles"
	"github.com/reusee/exindent/vars"
)

var (
	presetFlag = cmds.Var[string]("-preset")
	mixFlag    = cmds.Switch("-mix")
	unitFlag   = cmds.Var[int]("-unit")
	tabFlag    = cmds.Var[int]("-tab")
)

func (Module) Style(
	loader configs.Loader,
) styles.Style {
	name := vars.FirstNonZero(
		*presetFlag,
		configs.First[string](loader, "preset"),
	)
	if *mixFlag {
		name = "mix"
	}
	style, err := styles.Preset(name)
	if err != nil {
		panic(err)
	}

	// config
	style.UnitWidth = vars.FirstNonZero(
		*unitFlag,
		configs.First[int](loader, "unit_width"),
		style.UnitWidth,
	)
	style.TabWidth = vars.FirstNonZero(
		*tabFlag,
		configs.First[int](loader, "tab_width"),
		style.TabWidth,
	)
	for path, ptr := range map[string]*int{
		"block_units":        &style.BlockUnits,
		"delimiter_units":    &style.DelimiterUnits,
		"continuation_units": &style.ContinuationUnits,
		"header_arg_units":   &style.HeaderArgUnits,
		"header_close_units": &style.HeaderCloseUnits,
	} {
		if n, ok := configs.Lookup[int](loader, path); ok {
			*ptr = n
		}
	}
	if flatten, ok := configs.Lookup[bool](loader, "flatten_continuations"); ok {
		style.FlattenContinuations = flatten
	}
	for path, ptr := range map[string]*[]string{
		"block_openers":          &style.BlockOpeners,
		"block_closers":          &style.BlockClosers,
		"mid_keywords":           &style.MidKeywords,
		"header_keywords":        &style.HeaderKeywords,
		"keywords":               &style.Keywords,
		"continuation_operators": &style.ContinuationOperators,
		"leading_operators":      &style.LeadingOperators,
		"align_keywords":         &style.AlignKeywords,
	} {
		if list, ok := configs.Lookup[[]string](loader, path); ok {
			*ptr = list
		}
	}

	// extra header keywords from every config file add up
	for extra := range configs.All[[]string](loader, "extra_header_keywords") {
		style.HeaderKeywords = append(style.HeaderKeywords, extra...)
	}

	return style
}
