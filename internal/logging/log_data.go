package logging

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// LogData collects the fields of one request so they are written as a single
// log line. Handlers and the services they call add to it concurrently.
type LogData struct {
	mu        sync.Mutex
	timeItems map[string]int64
	dataItems logrus.Fields
	logger    *logrus.Logger
}

func NewLogData(logger *logrus.Logger) *LogData {
	return &LogData{
		timeItems: make(map[string]int64),
		dataItems: make(logrus.Fields),
		logger:    logger,
	}
}

// AddTiming starts a timer; calling the returned func records the elapsed
// milliseconds under entryName.
func (l *LogData) AddTiming(entryName string) func() {
	return l.timer(entryName, false)
}

// AddToExistingTiming is AddTiming that accumulates across calls.
func (l *LogData) AddToExistingTiming(entryName string) func() {
	return l.timer(entryName, true)
}

func (l *LogData) timer(entryName string, accumulate bool) func() {
	startTime := time.Now()

	return func() {
		elapsed := time.Since(startTime).Milliseconds()
		l.mu.Lock()
		defer l.mu.Unlock()
		if accumulate {
			l.timeItems[entryName] += elapsed
			return
		}
		l.timeItems[entryName] = elapsed
	}
}

func (l *LogData) AddData(key string, value any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.dataItems[key] = value
}

// Log returns an entry carrying every collected field.
func (l *LogData) Log() *logrus.Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	fields := make(logrus.Fields, len(l.dataItems)+len(l.timeItems))
	for key, value := range l.dataItems {
		fields[key] = value
	}
	for key, value := range l.timeItems {
		fields[key] = value
	}
	return logrus.NewEntry(l.logger).WithFields(fields)
}
