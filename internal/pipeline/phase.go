package pipeline

// Phase identifies one of the three pipeline phases.
type Phase int

const (
	PhaseCalibrate Phase = iota
	PhaseMerge
	PhaseStack
)

func (p Phase) String() string {
	names := [...]string{"calibrate", "merge", "stack"}
	if int(p) < len(names) {
		return names[p]
	}
	return "unknown"
}
