package sink

import "context"

// Recorder is an in-memory Sink that keeps every row it is given, for
// exercising the pipeline without a database. The command-line driver
// always writes through Postgres and does not use it.
type Recorder struct {
	Nodes         []NodeRow
	Ways          []WayRow
	WayProperties []WayPropertyRow
	Restrictions  []RestrictionRow

	TopologyRebuilt   bool
	TopologyEPSGCode string
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) WriteNodes(_ context.Context, rows []NodeRow) error {
	r.Nodes = append(r.Nodes, rows...)
	return nil
}

func (r *Recorder) WriteWays(_ context.Context, rows []WayRow) error {
	r.Ways = append(r.Ways, rows...)
	return nil
}

func (r *Recorder) WriteWayProperties(_ context.Context, rows []WayPropertyRow) error {
	r.WayProperties = append(r.WayProperties, rows...)
	return nil
}

func (r *Recorder) WriteRestrictions(_ context.Context, rows []RestrictionRow) error {
	r.Restrictions = append(r.Restrictions, rows...)
	return nil
}

func (r *Recorder) RebuildTopology(_ context.Context, epsgCode string) error {
	r.TopologyRebuilt = true
	r.TopologyEPSGCode = epsgCode
	return nil
}

func (r *Recorder) Close() error {
	return nil
}

var _ Sink = (*Recorder)(nil)
