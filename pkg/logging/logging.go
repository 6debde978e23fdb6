package logging

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
)

// ComponentField is the log field holding the dotted component path, ex: ado.http
const ComponentField = "component"

// Logger is the logger to use in simple-ado
var Logger = log.Logger{
	Out: os.Stderr,
	Formatter: &log.TextFormatter{
		DisableColors: true,
		FullTimestamp: true,
	},
	Hooks:        make(log.LevelHooks),
	Level:        log.InfoLevel,
	ExitFunc:     os.Exit,
	ReportCaller: false,
}

// Root returns the top level "ado" entry, or a child of parent if one is supplied
func Root(parent *log.Entry) *log.Entry {
	if parent == nil {
		return log.NewEntry(&Logger).WithField(ComponentField, "ado")
	}
	return Child(parent, "ado")
}

// Child returns an entry whose component is the parent's component with name appended
func Child(parent *log.Entry, name string) *log.Entry {
	if current, ok := parent.Data[ComponentField]; ok {
		return parent.WithField(ComponentField, fmt.Sprintf("%v.%s", current, name))
	}
	return parent.WithField(ComponentField, name)
}
