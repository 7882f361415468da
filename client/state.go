package client

// State is the view state of the upload flow. Exactly one variant is live at
// a time; Reduce moves between them and ignores events that do not apply to
// the current variant.
type State interface {
	viewState()
}

// Idle means no upload is in flight.
type Idle struct{}

// Uploading means file bytes are moving to the server.
type Uploading struct {
	Filename string
}

// Processing means the document is uploaded and simplification is running.
type Processing struct {
	DocumentID string
	Filename   string
}

// Completed means a simplified result is available.
type Completed struct {
	DocumentID string
}

// Failed is terminal for this attempt. Stage records where the flow broke;
// Reset is the only way out. CanRetry tells the UI whether offering a fresh
// attempt (reset, then a new upload) makes sense.
type Failed struct {
	Stage    string
	Reason   string
	CanRetry bool
}

func (Idle) viewState()       {}
func (Uploading) viewState()  {}
func (Processing) viewState() {}
func (Completed) viewState()  {}
func (Failed) viewState()     {}

// Stages reported in Failed.
const (
	StageUpload     = "upload"
	StageProcessing = "processing"
)

// Event is an input to the state machine.
type Event interface {
	viewEvent()
}

// UploadStarted fires when a validated file begins uploading.
type UploadStarted struct {
	Filename string
}

// UploadSucceeded fires when the server accepted the file. Processing begins
// immediately, so this lands in Processing.
type UploadSucceeded struct {
	DocumentID string
}

// UploadFailed fires when validation rejected the file or the upload request
// failed.
type UploadFailed struct {
	Reason string
}

// ProcessingSucceeded fires when a simplified result arrived.
type ProcessingSucceeded struct{}

// ProcessingFailed fires when processing broke anywhere in the pipeline. It
// always lands in Failed; there is no path from a processing error back to
// Processing.
type ProcessingFailed struct {
	Reason string
}

// Reset returns to Idle from any state.
type Reset struct{}

func (UploadStarted) viewEvent()       {}
func (UploadSucceeded) viewEvent()     {}
func (UploadFailed) viewEvent()        {}
func (ProcessingSucceeded) viewEvent() {}
func (ProcessingFailed) viewEvent()    {}
func (Reset) viewEvent()               {}

// Reduce applies an event to a state. Events that are not valid for the
// current state return the state unchanged.
func Reduce(state State, event Event) State {
	if _, ok := event.(Reset); ok {
		return Idle{}
	}

	switch s := state.(type) {
	case Idle:
		if e, ok := event.(UploadStarted); ok {
			return Uploading{Filename: e.Filename}
		}
	case Uploading:
		switch e := event.(type) {
		case UploadSucceeded:
			return Processing{DocumentID: e.DocumentID, Filename: s.Filename}
		case UploadFailed:
			return Failed{Stage: StageUpload, Reason: e.Reason, CanRetry: true}
		}
	case Processing:
		switch e := event.(type) {
		case ProcessingSucceeded:
			return Completed{DocumentID: s.DocumentID}
		case ProcessingFailed:
			return Failed{Stage: StageProcessing, Reason: e.Reason, CanRetry: true}
		}
	}
	return state
}
