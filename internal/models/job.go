package models

import (
	"os"
	"path/filepath"
)

// BatchStatus represents the lifecycle state of a batch run
type BatchStatus string

const (
	BatchStatusIdle          BatchStatus = "idle"
	BatchStatusRunning       BatchStatus = "running"
	BatchStatusCompleted     BatchStatus = "completed"
	BatchStatusCancelled     BatchStatus = "cancelled"
	BatchStatusFailedToStart BatchStatus = "failed_to_start"
)

// OutcomeStatus classifies the result of processing one file
type OutcomeStatus string

const (
	OutcomeSuccess OutcomeStatus = "success"
	OutcomeError   OutcomeStatus = "error"
)

// AudioFileRef identifies one queued input file
type AudioFileRef struct {
	Path string `json:"path"`
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// NewAudioFileRef builds a file reference from a local path.
// Size is best-effort; a stat failure leaves it at zero and is caught
// later by the client's own pre-flight check.
func NewAudioFileRef(path string) AudioFileRef {
	ref := AudioFileRef{
		Path: path,
		Name: filepath.Base(path),
	}
	if info, err := os.Stat(path); err == nil {
		ref.Size = info.Size()
	}
	return ref
}

// FileOutcome records how one file in a batch ended up
type FileOutcome struct {
	File   string        `json:"file"`
	Status OutcomeStatus `json:"status"`
	Reason string        `json:"reason,omitempty"`
}

// BatchJob holds the queue and run-scoped state for one batch.
// It is mutated only by the orchestrator's worker path; callers read a
// snapshot for display.
type BatchJob struct {
	Files        []AudioFileRef
	DoCorrection bool

	Outcomes  []FileOutcome
	Processed int
	Errors    int

	// OutputDir is the timestamped batch directory, set when the run starts.
	OutputDir string
}

// NewBatchJob builds a job from local file paths in queue order.
func NewBatchJob(paths []string, doCorrection bool) *BatchJob {
	job := &BatchJob{DoCorrection: doCorrection}
	for _, p := range paths {
		job.Files = append(job.Files, NewAudioFileRef(p))
	}
	return job
}

// RecordSuccess appends a success outcome and bumps the processed counter.
func (j *BatchJob) RecordSuccess(file string) {
	j.Outcomes = append(j.Outcomes, FileOutcome{File: file, Status: OutcomeSuccess})
	j.Processed++
}

// RecordError appends an error outcome and bumps the error counter.
func (j *BatchJob) RecordError(file, reason string) {
	j.Outcomes = append(j.Outcomes, FileOutcome{File: file, Status: OutcomeError, Reason: reason})
	j.Errors++
}
