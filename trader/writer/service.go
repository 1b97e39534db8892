package writer

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/logrusorgru/aurora"
	"github.com/lukehollenback/krakenpriv/constants"
	"github.com/lukehollenback/krakenpriv/trader"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const (
	Name         = "≪writer-service≫"
	FileName     = "krakenpriv.csv"
	TimestampKey = "Timestamp"
	CategoryKey  = "Category"
	LabelKey     = "Label"
	ValueKey     = "Value"
)

var (
	o      *Service
	once   sync.Once
	logger *log.Logger

	cfgOutputDir *string

	ErrNotRunning = errors.New("the writer service is not running")
)

func init() {
	//
	// Initialize the logger.
	//
	logger = log.New(log.Writer(), fmt.Sprintf(constants.LogPrefixFmt, Name), log.Ldate|log.Ltime|log.Lmsgprefix)

	//
	// Determine the current working directory. If that cannot be done for some reason, we are in a
	// critical failure state.
	//
	workingDir, err := os.Getwd()
	if err != nil {
		logger.Fatalf("Failed to determine the current working directory. (Error: %s)", err)
	}

	//
	// Register configuration flags.
	//
	cfgOutputDir = flag.String(
		"writer-dir",
		workingDir,
		"The directory the writer service should output CSV files with balance and order data to.",
	)
}

var _ trader.Service = (*Service)(nil)

//
// Service represents a service instance.
//
type Service struct {
	mu         *sync.Mutex
	chKill     chan bool
	chStopped  chan bool
	outputDir  string
	outputFile *os.File
	writer     *csv.Writer
}

//
// Instance returns a singleton instance of the service.
//
func Instance() *Service {
	once.Do(func() {
		o = &Service{
			mu:        &sync.Mutex{},
			outputDir: *cfgOutputDir,
		}
	})

	return o
}

//
// SetOutputDir overrides the configured output directory. It only takes effect on the next start.
//
func (o *Service) SetOutputDir(dir string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.outputDir = dir
}

//
// Start fires up the service. It is up to the caller to not call this multiple times in a row
// without stopping the service and waiting for full termination in between. A channel that can be
// blocked on for a "true" value – which indicates that start up is complete – is returned.
//
func (o *Service) Start() (<-chan bool, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	//
	// (Re)initialize our instance variables.
	//
	o.chKill = make(chan bool, 1)
	o.chStopped = make(chan bool, 1)

	//
	// Create the output CSV file.
	//
	var err error

	outputFilePath := filepath.Join(o.outputDir, FileName)

	o.outputFile, err = os.Create(outputFilePath)
	if err != nil {
		return nil, err
	}

	logger.Printf("Outputting CSV to %s.", aurora.Cyan(outputFilePath))

	//
	// Create the CSV writer and use it to write out the header row.
	//
	o.writer = csv.NewWriter(o.outputFile)

	if err := o.writer.Write([]string{TimestampKey, CategoryKey, LabelKey, ValueKey}); err != nil {
		return nil, err
	}

	//
	// Fire off a goroutine as the executor for the service.
	//
	go o.service(o.chKill, o.chStopped)

	//
	// Return our "started" channel in case the caller wants to block on it and log some debug info.
	//
	chStarted := make(chan bool, 1)
	chStarted <- true

	logger.Printf("Started.")

	return chStarted, nil
}

//
// Stop tells the service to shut down. It is up to the caller to not call this multiple times in
// a row without starting the service first. A channel that can be blocked on for a "true" value –
// which indicates that shut down is complete – is returned.
//
func (o *Service) Stop() (<-chan bool, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.chKill == nil {
		return nil, ErrNotRunning
	}

	logger.Printf("Stopping...")

	//
	// Tell the goroutines that were spun off by the service to shutdown. Further stops are rejected
	// until the next start.
	//
	o.chKill <- true
	o.chKill = nil

	return o.chStopped, nil
}

//
// Write records a single data point. The label identifies what the value is about (e.g. an asset
// code or a pair).
//
func (o *Service) Write(timestamp time.Time, category Type, label string, value decimal.Decimal) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.writer == nil {
		return ErrNotRunning
	}

	return o.writer.Write([]string{
		timestamp.UTC().Format(time.RFC3339Nano),
		category.String(),
		label,
		value.String(),
	})
}

//
// service executes the top-level logic of the service. It is intended to be spun off into its own
// goroutine when the service is started.
//
func (o *Service) service(chKill <-chan bool, chStopped chan<- bool) {
	//
	// Yield indefinitely.
	//
	<-chKill

	o.mu.Lock()

	//
	// Flush the CSV writer's buffer to the output file and close the handle on it.
	//
	o.writer.Flush()

	if err := o.writer.Error(); err != nil {
		logger.Printf("Failed to flush output file. (Error: %s)", err)
	}

	if err := o.outputFile.Close(); err != nil {
		logger.Printf("Failed to close handle on output file. (Error: %s)", err)
	}

	o.writer = nil
	o.outputFile = nil

	o.mu.Unlock()

	//
	// Send the signal that we have shut down.
	//
	chStopped <- true
}
