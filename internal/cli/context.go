package cli

import (
	"sync"

	"github.com/newshound/newshound/internal/app"
)

// The application instance is process-wide; cobra commands share it
// through these accessors rather than threading it through contexts.
var (
	appMu     sync.Mutex
	globalApp *app.Application
)

func setApp(a *app.Application) {
	appMu.Lock()
	defer appMu.Unlock()
	globalApp = a
}

func getApp() *app.Application {
	appMu.Lock()
	defer appMu.Unlock()
	return globalApp
}
