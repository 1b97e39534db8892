package trader

import (
	"github.com/pkg/errors"
)

//
// Service generically provides an interface to any isolated service in the software.
//
type Service interface {

	//
	// Start fires up the service. It is up to the caller to not call this multiple times in a row
	// without stopping the service and waiting for full termination in between. A channel that can be
	// blocked on for a "true" value – which indicates that start up is complete – is returned.
	//
	Start() (<-chan bool, error)

	//
	// Stop tells the service to shut down. It is up to the caller to not call this multiple times in
	// a row without starting the service first. A channel that can be blocked on for a "true" value –
	// which indicates that shut down is complete – is returned.
	//
	Stop() (<-chan bool, error)
}

//
// StartAll starts the provided services in order and blocks until each reports that start up is
// complete. If any service fails to start, the ones that already started are stopped again.
//
func StartAll(services ...Service) error {
	for i, svc := range services {
		chStarted, err := svc.Start()
		if err != nil {
			StopAll(services[:i]...)

			return errors.Wrapf(err, "failed to start service %d of %d", i+1, len(services))
		}

		<-chStarted
	}

	return nil
}

//
// StopAll stops the provided services in reverse order and blocks until each reports that shut
// down is complete. Services that fail to stop are skipped.
//
func StopAll(services ...Service) {
	for i := len(services) - 1; i >= 0; i-- {
		chStopped, err := services[i].Stop()
		if err != nil {
			continue
		}

		<-chStopped
	}
}
