package log

import (
	log "github.com/sirupsen/logrus"
)

type typedLog struct {
	Main      *log.Entry
	Directory *log.Entry
	Geo       *log.Entry
	Probe     *log.Entry
	Report    *log.Entry
	Latency   *log.Entry
}

var (
	Logger *typedLog
)

func init() {
	Logger = &typedLog{
		Main:      log.WithFields(log.Fields{"module": "main"}),
		Directory: log.WithFields(log.Fields{"module": "directory"}),
		Geo:       log.WithFields(log.Fields{"module": "geo"}),
		Probe:     log.WithFields(log.Fields{"module": "probe"}),
		Report:    log.WithFields(log.Fields{"module": "report"}),
		Latency:   log.WithFields(log.Fields{"module": "latency"}),
	}
}

func Setup(lvl string) error {
	logLevel, err := log.ParseLevel(lvl)
	if err != nil {
		return err
	}

	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	log.SetLevel(logLevel)
	return nil
}
