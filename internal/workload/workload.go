// Package workload loads scenario submissions from YAML files.
//
// A workload file names one scenario and carries the input for it:
//
//	scenario: backup
//	region: eu-west-1
//	backup:
//	  size: 500 GB
//	  frequency: Weekly
//	  part_size_mb: 64
//	  classes: [STANDARD_IA, GLACIER]
package workload

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rshade/s3-cost-simulator/internal/calculator"
	"github.com/rshade/s3-cost-simulator/internal/storageclass"
)

// ErrInvalidWorkload is returned for files that do not describe exactly
// one known scenario. It matches calculator.ErrInvalidInput.
var ErrInvalidWorkload = fmt.Errorf("%w: workload", calculator.ErrInvalidInput)

// File is one decoded workload file.
type File struct {
	Scenario calculator.Scenario `yaml:"scenario"`

	// Region applies to the scenario input when it names none.
	Region string `yaml:"region,omitempty"`

	Transfer  *calculator.TransferInput  `yaml:"transfer,omitempty"`
	Backup    *calculator.BackupInput    `yaml:"backup,omitempty"`
	Lifecycle *calculator.LifecycleInput `yaml:"lifecycle,omitempty"`
	Tiering   *calculator.TieringInput   `yaml:"tiering,omitempty"`
	Retrieval *calculator.RetrievalInput `yaml:"retrieval,omitempty"`
}

// Load reads and decodes the workload file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading workload: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse decodes a workload document. Unknown keys are rejected. Storage
// classes may be given by code or display name.
func Parse(data []byte) (*File, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidWorkload)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidWorkload, err)
	}
	if err := f.normalize(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *File) normalize() error {
	sections := map[calculator.Scenario]bool{
		calculator.ScenarioTransfer:  f.Transfer != nil,
		calculator.ScenarioBackup:    f.Backup != nil,
		calculator.ScenarioLifecycle: f.Lifecycle != nil,
		calculator.ScenarioTiering:   f.Tiering != nil,
		calculator.ScenarioRetrieval: f.Retrieval != nil,
	}
	present, known := sections[f.Scenario]
	if !known {
		return fmt.Errorf("%w: unknown scenario %q", ErrInvalidWorkload, f.Scenario)
	}
	if !present {
		return fmt.Errorf("%w: scenario %s has no %s section", ErrInvalidWorkload, f.Scenario, f.Scenario)
	}
	for s, ok := range sections {
		if ok && s != f.Scenario {
			return fmt.Errorf("%w: section %s does not match scenario %s", ErrInvalidWorkload, s, f.Scenario)
		}
	}

	var err error
	switch f.Scenario {
	case calculator.ScenarioTransfer:
		f.Transfer.Region = f.regionOr(f.Transfer.Region)
		f.Transfer.Classes, err = parseClasses(f.Transfer.Classes)
	case calculator.ScenarioBackup:
		f.Backup.Region = f.regionOr(f.Backup.Region)
		f.Backup.Classes, err = parseClasses(f.Backup.Classes)
	case calculator.ScenarioLifecycle:
		f.Lifecycle.Region = f.regionOr(f.Lifecycle.Region)
		if f.Lifecycle.Source, err = parseClass(f.Lifecycle.Source); err != nil {
			return err
		}
		f.Lifecycle.Target, err = parseClass(f.Lifecycle.Target)
	case calculator.ScenarioTiering:
		f.Tiering.Region = f.regionOr(f.Tiering.Region)
	case calculator.ScenarioRetrieval:
		f.Retrieval.Region = f.regionOr(f.Retrieval.Region)
		f.Retrieval.Classes, err = parseClasses(f.Retrieval.Classes)
	}
	return err
}

func (f *File) regionOr(code string) string {
	if code == "" {
		return f.Region
	}
	return code
}

// parseClass resolves display names to class codes. Empty stays empty so
// the calculator reports the missing selection.
func parseClass(c storageclass.StorageClass) (storageclass.StorageClass, error) {
	if c == "" {
		return "", nil
	}
	return storageclass.Parse(string(c))
}

func parseClasses(classes []storageclass.StorageClass) ([]storageclass.StorageClass, error) {
	out := make([]storageclass.StorageClass, 0, len(classes))
	for _, c := range classes {
		parsed, err := parseClass(c)
		if err != nil {
			return nil, err
		}
		out = append(out, parsed)
	}
	return out, nil
}
