package inspect

import (
	"context"
	"fmt"

	"github.com/scottbass3/imgprobe/internal/pool"
	"github.com/scottbass3/imgprobe/internal/probe"
	"github.com/scottbass3/imgprobe/internal/target"
)

// Prober turns one request value into a metadata record. Implementations
// report every failure through the record's status.
type Prober interface {
	Probe(ctx context.Context, request string) probe.Record
}

type Inspector struct {
	concurrency int
	probers     map[target.Kind]Prober
}

func New(concurrency int, remote, local Prober) *Inspector {
	return &Inspector{
		concurrency: concurrency,
		probers: map[target.Kind]Prober{
			target.Remote: remote,
			target.Local:  local,
		},
	}
}

// Run probes every target once and returns records aligned with targets.
// onDone, when set, is called as each record settles and may be called
// from several goroutines at once.
func (in *Inspector) Run(ctx context.Context, targets []target.Target, onDone func(probe.Record)) []probe.Record {
	results := pool.Run(ctx, targets, in.concurrency, func(ctx context.Context, t target.Target) (probe.Record, error) {
		rec := in.probe(ctx, t)
		if onDone != nil {
			onDone(rec)
		}
		return rec, nil
	})

	records := make([]probe.Record, len(targets))
	for i, res := range results {
		if res.Err != nil {
			rec := identify(probe.Record{}, targets[i])
			rec.Status = []probe.Status{{Phase: probe.PhaseProbe, Outcome: probe.OutcomeFailed, Detail: res.Err.Error()}}
			if onDone != nil {
				onDone(rec)
			}
			records[i] = rec
			continue
		}
		records[i] = res.Value
	}
	return records
}

func (in *Inspector) probe(ctx context.Context, t target.Target) probe.Record {
	prober, ok := in.probers[t.Kind]
	if !ok || prober == nil {
		rec := identify(probe.Record{}, t)
		rec.Status = []probe.Status{{
			Phase:   probe.PhaseProbe,
			Outcome: probe.OutcomeFailed,
			Detail:  fmt.Sprintf("no prober for %s targets", t.Kind),
		}}
		return rec
	}
	return identify(prober.Probe(ctx, t.Request), t)
}

func identify(rec probe.Record, t target.Target) probe.Record {
	rec.ID = t.ID
	rec.Target = t.Display
	rec.Kind = t.Kind
	if len(rec.Status) == 0 {
		rec.Status = []probe.Status{{Phase: probe.PhaseProbe, Outcome: probe.OutcomeFailed, Detail: "no status reported"}}
	}
	return rec
}
