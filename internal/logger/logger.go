package logger

import (
	"os"

	log "github.com/sirupsen/logrus"
)

// Init global logrus ayarlarını yapar. Birden çok kez çağrılabilir.
func Init(level string) {
	log.SetOutput(os.Stdout)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	if level == "" {
		level = "info"
	}
	if lvl, err := log.ParseLevel(level); err == nil {
		log.SetLevel(lvl)
	} else {
		log.SetLevel(log.InfoLevel)
	}
}

// L global logger'ı döner.
func L() *log.Logger { return log.StandardLogger() }
