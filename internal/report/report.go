// Package report writes per-trial SVD results and a running progress
// log to disk, one results file and one progress file per run,
// timestamped the same way the teacher-family's known-answer test
// logger names its files.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	progressDirName = "progress"
	resultsDirName  = "results"
)

// TrialResult is one decomposition attempt's outcome, serialized as a
// single JSON line in the results file.
type TrialResult struct {
	Rows              int     `json:"rows"`
	Cols              int     `json:"cols"`
	UsedLibrary       bool    `json:"used_library"`
	KeptRank          int     `json:"kept_rank"`
	DiscardedWeight   float64 `json:"discarded_weight"`
	MaxReconstruction float64 `json:"max_reconstruction_error"`
	RetryAttempts     int     `json:"retry_attempts"`
	DurationSeconds   float64 `json:"duration_seconds"`
	Error             string  `json:"error,omitempty"`
}

// Log holds the open files for one run.
type Log struct {
	progressFile      *os.File
	resultFile        *os.File
	progressFilePath  string
	resultFilePath    string
	reportingPeriod   int
	startTime         time.Time
	trialsSinceHeader int
}

// NewLog creates progress/ and results/ directories under baseDir (if
// they do not already exist) and opens one timestamped file in each,
// named after dimension.
func NewLog(baseDir string, dimension, reportingPeriod int) (*Log, error) {
	caller := "NewLog"
	l := &Log{
		reportingPeriod: reportingPeriod,
		startTime:       time.Now(),
	}
	timeStamp := l.startTime.Format("2006_01_02T15_04_05")

	for _, dirName := range []string{progressDirName, resultsDirName} {
		if err := createDirectory(filepath.Join(baseDir, dirName), caller); err != nil {
			return nil, err
		}
	}

	var err error
	l.progressFilePath = filepath.Join(baseDir, progressDirName, fmt.Sprintf("dim_%d-%s", dimension, timeStamp))
	l.progressFile, err = os.OpenFile(l.progressFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("%s: could not open %s: %w", caller, l.progressFilePath, err)
	}

	l.resultFilePath = filepath.Join(baseDir, resultsDirName, fmt.Sprintf("dim_%d-%s", dimension, timeStamp))
	l.resultFile, err = os.OpenFile(l.resultFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("%s: could not open %s: %w", caller, l.resultFilePath, err)
	}
	return l, nil
}

// ReportProgress appends one CSV line to the progress file,
// reporting every reportingPeriod-th trial (and always writing the
// header on the first call).
func (l *Log) ReportProgress(trialNumber int, r TrialResult) error {
	caller := "ReportProgress"
	if l.trialsSinceHeader == 0 {
		if _, err := l.progressFile.WriteString(
			"time since start,trial,rows,cols,kept rank,discarded weight,error\n",
		); err != nil {
			return fmt.Errorf("%s: could not write header to %s: %w", caller, l.progressFilePath, err)
		}
	}
	l.trialsSinceHeader++

	if trialNumber%l.reportingPeriod != 0 {
		return nil
	}
	_, err := l.progressFile.WriteString(fmt.Sprintf("%v,%d,%d,%d,%d,%g,%s\n",
		time.Since(l.startTime), trialNumber, r.Rows, r.Cols, r.KeptRank, r.DiscardedWeight, r.Error))
	if err != nil {
		return fmt.Errorf("%s: could not write progress to %s: %w", caller, l.progressFilePath, err)
	}
	return nil
}

// ReportResult appends r, marshaled as one JSON line, to the results
// file.
func (l *Log) ReportResult(r TrialResult) error {
	caller := "ReportResult"
	b, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("%s: could not marshal result: %w", caller, err)
	}
	if _, err := l.resultFile.Write(append(b, '\n')); err != nil {
		return fmt.Errorf("%s: could not write result to %s: %w", caller, l.resultFilePath, err)
	}
	return nil
}

// Close closes both underlying files.
func (l *Log) Close() error {
	err1 := l.progressFile.Close()
	err2 := l.resultFile.Close()
	if err1 != nil {
		return err1
	}
	return err2
}

func createDirectory(directoryPath, caller string) error {
	caller = fmt.Sprintf("%s-createDirectory", caller)
	_, err := os.Stat(directoryPath)
	if os.IsNotExist(err) {
		if mkErr := os.Mkdir(directoryPath, 0755); mkErr != nil {
			return fmt.Errorf("%s: could not create directory %s: %w", caller, directoryPath, mkErr)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s: could not stat directory %s: %w", caller, directoryPath, err)
	}
	return nil
}
