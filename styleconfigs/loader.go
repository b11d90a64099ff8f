package styleconfigs

import (
	_ "embed"
	"os"
	"path/filepath"

	"github.com/reusee/exindent/cmds"
	"github.com/reusee/exindent/configs"
	"github.com/reusee/exindent/logs"
)

//go:embed schema.cue
var schema string

var configFlag = cmds.Collect[string]("-config")

var filenames = []string{
	"exindent.cue",
	".exindent.cue",
}

// ConfigsLoader loads explicit -config files first, then the first match in
// the working directory, the user config dir and /etc.
func (Module) ConfigsLoader(
	logger logs.Logger,
) configs.Loader {

	paths := append([]string(nil), *configFlag...)
	defer func() {
		if len(paths) > 0 {
			logger.Info("config file",
				"paths", paths,
			)
		}
	}()

	var dirs []string
	if workingDir, err := os.Getwd(); err == nil {
		dirs = append(dirs, workingDir)
	}
	if configDir, err := os.UserConfigDir(); err == nil {
		dirs = append(dirs, configDir)
	}
	dirs = append(dirs, "/etc")

	paths = append(paths, discover(dirs)...)

	return configs.NewLoader(paths, schema)
}

func discover(dirs []string) (paths []string) {
	for _, dir := range dirs {
		for _, filename := range filenames {
			path := filepath.Join(dir, filename)
			if _, err := os.Stat(path); err == nil {
				paths = append(paths, path)
			}
		}
	}
	return
}
