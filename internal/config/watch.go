package config

import (
	"log/slog"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/preston-bernstein/gaming-haven/internal/logging"
)

// Watch re-resolves the config whenever the backing file is written and hands it to onChange.
// It returns false when v was not loaded from a file.
func Watch(v *viper.Viper, logger *slog.Logger, onChange func(Config)) bool {
	if v == nil || v.ConfigFileUsed() == "" || onChange == nil {
		return false
	}
	v.OnConfigChange(configEventHandler(v, logger, onChange))
	v.WatchConfig()
	return true
}

func configEventHandler(v *viper.Viper, logger *slog.Logger, onChange func(Config)) func(fsnotify.Event) {
	return func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		logging.Info(logger, "config file changed", "file", e.Name, "op", e.Op.String())
		onChange(FromViper(v))
	}
}
