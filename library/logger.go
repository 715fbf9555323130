// SPDX-License-Identifier: EPL-2.0

package library

import (
	"fmt"
	"log/slog"
	"strings"
)

// badgerLogger routes badger's printf style logging into slog. Badger info
// messages are logged at debug level and its debug messages are dropped.
type badgerLogger struct {
	log *slog.Logger
}

func (b badgerLogger) Errorf(f string, v ...any)   { b.log.Error(msg(f, v)) }
func (b badgerLogger) Warningf(f string, v ...any) { b.log.Warn(msg(f, v)) }
func (b badgerLogger) Infof(f string, v ...any)    { b.log.Debug(msg(f, v)) }
func (b badgerLogger) Debugf(string, ...any)       {}

func msg(f string, v []any) string {
	return strings.TrimSpace(fmt.Sprintf(f, v...))
}
