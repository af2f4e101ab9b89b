package metrics

// Recorder counts the portal events worth graphing. Collaborators take the
// interface so tests and minimal deployments can run with the noop
// implementation.
type Recorder interface {
	LoginStarted()
	LoginCompleted()
	GrantIssued()
	NotifierFailure()
}

type noopRecorder struct{}

// NewNoopRecorder returns a Recorder that discards everything.
func NewNoopRecorder() Recorder {
	return noopRecorder{}
}

func (noopRecorder) LoginStarted()    {}
func (noopRecorder) LoginCompleted()  {}
func (noopRecorder) GrantIssued()     {}
func (noopRecorder) NotifierFailure() {}
