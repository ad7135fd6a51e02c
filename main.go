package main

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aneshas/parkfee/tariff"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04:05"
	tsLayout   = dateLayout + " " + timeLayout
)

// stayFee is the bill for one stay
type stayFee struct {
	Vehicle  string
	Entry    time.Time
	Exit     time.Time
	Segments []tariff.DaySegment
}

// billedWork carries the bills for one batch of work
type billedWork struct {
	seq   int
	stays []*stayFee
}

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		logger = zap.NewNop()
	}

	err = newRootCmd(logger).Execute()
	_ = logger.Sync()

	if err != nil {
		os.Exit(1)
	}
}

// pipeline bills CSV stay records read from a source and writes the
// fees to a sink.
type pipeline struct {
	workers   int
	unitPrice decimal.Decimal
	segments  bool
	logger    *zap.Logger
}

func newPipeline(cfg config, segments bool, logger *zap.Logger) *pipeline {
	return &pipeline{
		workers:   cfg.Workers,
		unitPrice: cfg.UnitPrice,
		segments:  segments,
		logger:    logger,
	}
}

func (p *pipeline) run(src io.Reader, sink io.Writer) error {
	pool := newWorkPool(2 * p.workers)
	workChan := make(chan *work, p.workers)
	billChan := make(chan *billedWork, p.workers)

	errc := make(chan error, 1)

	go func() {
		errc <- produceWork(src, pool, workChan, p.logger)
	}()
	go spawnWorkers(p.workers, pool, workChan, billChan, p.logger)

	sinkErr := runCSVSink(sink, billChan, p.unitPrice, p.segments)

	if err := <-errc; err != nil {
		return err
	}

	return sinkErr
}

func produceWork(source io.Reader, pool workPool, workChan chan<- *work, logger *zap.Logger) error {
	defer close(workChan)

	reader := csv.NewReader(source)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var seq int
	w := pool.get(seq)

	for line := 0; ; line++ {
		record, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				workChan <- w
				return nil
			}

			workChan <- w
			return errors.Wrap(err, "could not read stays")
		}

		if line == 0 && isHeader(record) {
			if !strings.EqualFold(strings.TrimSpace(record[1]), "entry") {
				logger.Warn("skipping first record as header", zap.Strings("record", record))
			}
			continue
		}

		w.records = append(w.records, record)

		if len(w.records) == batchSize {
			workChan <- w

			seq++
			w = pool.get(seq)
		}
	}
}

func isHeader(record []string) bool {
	if len(record) < 2 {
		return false
	}

	_, err := tariff.ParseInstant(record[1])
	return err != nil
}

func spawnWorkers(numWorkers int, pool workPool, workChan <-chan *work, sink chan<- *billedWork, logger *zap.Logger) {
	defer close(sink)

	var wg sync.WaitGroup

	wg.Add(numWorkers)

	for i := 0; i < numWorkers; i++ {
		go func() {
			defer wg.Done()

			for w := range workChan {
				billed := &billedWork{
					seq:   w.seq,
					stays: make([]*stayFee, 0, len(w.records)),
				}

				for _, record := range w.records {
					fee, err := billStay(record)
					if err != nil {
						logger.Warn("skipping stay",
							zap.String("record", strings.Join(record, ",")),
							zap.Error(err))
						continue
					}

					billed.stays = append(billed.stays, fee)
				}

				pool.put(w)
				sink <- billed
			}
		}()
	}

	wg.Wait()
}

func billStay(record []string) (*stayFee, error) {
	if len(record) != 3 {
		return nil, errors.Errorf("want 3 fields, got %d", len(record))
	}

	entry, err := tariff.ParseInstant(record[1])
	if err != nil {
		return nil, errors.Wrap(err, "entry")
	}

	exit, err := tariff.ParseInstant(record[2])
	if err != nil {
		return nil, errors.Wrap(err, "exit")
	}

	if exit.Before(entry) {
		return nil, errors.New("exit is before entry")
	}

	return &stayFee{
		Vehicle:  strings.TrimSpace(record[0]),
		Entry:    entry,
		Exit:     exit,
		Segments: tariff.Split(entry, exit),
	}, nil
}

// runCSVSink writes bills in batch order. It keeps draining billChan
// after a write error so the workers can finish.
func runCSVSink(sink io.Writer, billChan <-chan *billedWork, unitPrice decimal.Decimal, segments bool) error {
	writer := csv.NewWriter(sink)

	pending := make(map[int]*billedWork)
	next := 0

	var err error

	for billed := range billChan {
		pending[billed.seq] = billed

		for {
			b, ok := pending[next]
			if !ok {
				break
			}

			delete(pending, next)
			next++

			if err != nil {
				continue
			}

			for _, stay := range b.stays {
				if err = writeStay(writer, stay, unitPrice, segments); err != nil {
					break
				}
			}
		}
	}

	if err != nil {
		return errors.Wrap(err, "could not write fees")
	}

	writer.Flush()

	return errors.Wrap(writer.Error(), "could not write fees")
}

func writeStay(writer *csv.Writer, stay *stayFee, unitPrice decimal.Decimal, segments bool) error {
	if segments {
		for _, seg := range stay.Segments {
			err := writer.Write([]string{
				stay.Vehicle,
				seg.Date().Format(dateLayout),
				seg.Start.Format(timeLayout),
				seg.End.Format(timeLayout),
				strconv.Itoa(seg.Minutes()),
				strconv.Itoa(seg.Fee),
			})
			if err != nil {
				return err
			}
		}
	}

	units := tariff.Total(stay.Segments)

	return writer.Write([]string{
		stay.Vehicle,
		stay.Entry.Format(tsLayout),
		stay.Exit.Format(tsLayout),
		strconv.Itoa(len(stay.Segments)),
		strconv.Itoa(units),
		amount(units, unitPrice),
	})
}

func amount(units int, unitPrice decimal.Decimal) string {
	return decimal.NewFromInt(int64(units)).Mul(unitPrice).StringFixed(2)
}
