package contracts

import "github.com/julienschmidt/httprouter"

type Handler interface {
	RegisterRoutes(*httprouter.Router)
}

// Worker is a background loop owned by the application, started after
// the server is configured and stopped during graceful shutdown.
type Worker interface {
	Start()
	Stop()
}
