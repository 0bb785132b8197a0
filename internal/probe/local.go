package probe

import (
	"context"
	"errors"
	"io/fs"
	"os"
)

// Local reads size from the filesystem and dimensions from the file's
// leading bytes. Sizes reported here are exact.
type Local struct{}

func NewLocal() *Local {
	return &Local{}
}

func (p *Local) Probe(ctx context.Context, path string) Record {
	var rec Record
	if err := ctx.Err(); err != nil {
		rec.add(transportStatus(PhaseFile, err))
		return rec
	}

	info, err := os.Stat(path)
	if err != nil {
		rec.add(fileStatus(err))
		return rec
	}
	if !info.Mode().IsRegular() {
		rec.add(Status{Phase: PhaseFile, Outcome: OutcomeNotFile})
		return rec
	}
	rec.setSize(info.Size())

	if err := ctx.Err(); err != nil {
		rec.add(transportStatus(PhaseFile, err))
		return rec
	}
	f, err := os.Open(path)
	if err != nil {
		rec.add(fileStatus(err))
		return rec
	}
	defer f.Close()

	dims, _, err := DecodeDimensions(f)
	if err != nil {
		rec.add(failed(PhaseDecode, err))
		return rec
	}
	rec.Dims = &dims

	if len(rec.Status) == 0 {
		rec.add(Status{Phase: PhaseFile, Outcome: OutcomeOK})
	}
	return rec
}

func fileStatus(err error) Status {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return Status{Phase: PhaseFile, Outcome: OutcomeNotFound}
	case errors.Is(err, fs.ErrPermission):
		return Status{Phase: PhaseFile, Outcome: OutcomePermission}
	default:
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			err = pathErr.Err
		}
		return failed(PhaseFile, err)
	}
}
