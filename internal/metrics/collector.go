package metrics

import (
	"errors"
	"fmt"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "eeprom"

// Collector - Counts device operations issued by a backend. A nil *Collector is valid and counts nothing.
type Collector struct {
	Programs       prometheus.Counter
	Erases         prometheus.Counter
	Syncs          prometheus.Counter
	SkippedUpdates prometheus.Counter
	SectorRewrites prometheus.Counter
}

// New - Creates a Collector labelled with the backend name and registers it on reg.
// A nil reg gives working counters that are not exposed anywhere.
func New(reg prometheus.Registerer, backend string) (collector *Collector, err error) {
	labels := prometheus.Labels{"backend": backend}
	collector = &Collector{
		Programs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "device_programs_total", ConstLabels: labels,
			Help: "Number of program (write) operations issued to the storage device.",
		}),
		Erases: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "sector_erases_total", ConstLabels: labels,
			Help: "Number of sector erase operations issued to the flash device.",
		}),
		Syncs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "device_syncs_total", ConstLabels: labels,
			Help: "Number of block sync operations issued to the flash device.",
		}),
		SkippedUpdates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "skipped_updates_total", ConstLabels: labels,
			Help: "Number of updates that found the stored value unchanged and wrote nothing.",
		}),
		SectorRewrites: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "sector_rewrites_total", ConstLabels: labels,
			Help: "Number of read-modify-erase-program cycles needed to set cleared bits.",
		}),
	}

	if reg == nil {
		return
	}

	counters := []*prometheus.Counter{
		&collector.Programs, &collector.Erases, &collector.Syncs, &collector.SkippedUpdates, &collector.SectorRewrites,
	}
	for _, c := range counters {
		if err = reg.Register(*c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				*c = are.ExistingCollector.(prometheus.Counter)
				err = nil
				continue
			}
			err = fmt.Errorf("error while registering eeprom metrics: %w", err)
			return
		}
	}

	return
}

// Program - Counts one program operation
func (C *Collector) Program() {
	if C != nil {
		C.Programs.Inc()
	}
}

// Erase - Counts one sector erase
func (C *Collector) Erase() {
	if C != nil {
		C.Erases.Inc()
	}
}

// Sync - Counts one block sync
func (C *Collector) Sync() {
	if C != nil {
		C.Syncs.Inc()
	}
}

// SkippedUpdate - Counts one update that needed no write
func (C *Collector) SkippedUpdate() {
	if C != nil {
		C.SkippedUpdates.Inc()
	}
}

// SectorRewrite - Counts one sector read-modify-erase-program cycle
func (C *Collector) SectorRewrite() {
	if C != nil {
		C.SectorRewrites.Inc()
	}
}
