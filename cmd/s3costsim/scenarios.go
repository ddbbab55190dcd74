package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/s3-cost-simulator/internal/calculator"
	"github.com/rshade/s3-cost-simulator/internal/render"
	"github.com/rshade/s3-cost-simulator/internal/simulator"
	"github.com/rshade/s3-cost-simulator/internal/storageclass"
	"github.com/rshade/s3-cost-simulator/internal/units"
	"github.com/rshade/s3-cost-simulator/internal/workload"
)

func parseClasses(names []string) ([]storageclass.StorageClass, error) {
	out := make([]storageclass.StorageClass, 0, len(names))
	for _, n := range names {
		c, err := storageclass.Parse(n)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// loadWorkload reads path and checks it describes want.
func loadWorkload(path string, want calculator.Scenario) (*workload.File, error) {
	f, err := workload.Load(path)
	if err != nil {
		return nil, err
	}
	if f.Scenario != want {
		return nil, fmt.Errorf("%w: %s describes a %s scenario, not %s", workload.ErrInvalidWorkload, path, f.Scenario, want)
	}
	return f, nil
}

func (a *app) transferCmd() *cobra.Command {
	in := calculator.TransferInput{Size: units.Quantity{Value: 1, Unit: units.TB}}
	var classes []string
	var workloadPath string

	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Price a one-shot multipart upload of a deduplicated data set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if workloadPath != "" {
				f, err := loadWorkload(workloadPath, calculator.ScenarioTransfer)
				if err != nil {
					return err
				}
				in = *f.Transfer
			} else {
				var err error
				if in.Classes, err = parseClasses(classes); err != nil {
					return err
				}
			}
			return a.transfer(cmd.Context(), in)
		},
	}
	flags := cmd.Flags()
	flags.Var(&in.Size, "size", "data set size, e.g. \"1 PB\"")
	flags.Float64Var(&in.DedupePercent, "dedupe", 0, "deduplication percentage (0-100)")
	flags.Int64Var(&in.PartSizeMB, "part-size", 64, "multipart part size in MB (32-1024)")
	flags.StringSliceVar(&classes, "class", nil, "storage class to compare (repeatable)")
	flags.StringVar(&workloadPath, "workload", "", "read the input from a workload file")
	return cmd
}

func (a *app) backupCmd() *cobra.Command {
	in := calculator.BackupInput{Size: units.Quantity{Value: 100, Unit: units.GB}}
	var classes []string
	var frequency, workloadPath string

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Price a year of recurring backups deleted after their retention",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if workloadPath != "" {
				f, err := loadWorkload(workloadPath, calculator.ScenarioBackup)
				if err != nil {
					return err
				}
				in = *f.Backup
			} else {
				var err error
				if in.Classes, err = parseClasses(classes); err != nil {
					return err
				}
				in.Frequency = calculator.Frequency(frequency)
			}
			return a.backup(cmd.Context(), in)
		},
	}
	flags := cmd.Flags()
	flags.Var(&in.Size, "size", "backup file size, at most 5 TB")
	flags.StringVar(&frequency, "frequency", string(calculator.Daily), "Daily, Weekly, Monthly or Yearly")
	flags.Int64Var(&in.PartSizeMB, "part-size", 8, "multipart part size in MB (5-1024)")
	flags.StringSliceVar(&classes, "class", nil, "storage class to compare (repeatable)")
	flags.StringVar(&workloadPath, "workload", "", "read the input from a workload file")
	return cmd
}

func (a *app) lifecycleCmd() *cobra.Command {
	in := calculator.LifecycleInput{AverageSize: units.Quantity{Value: 1, Unit: units.MB}}
	var source, target, workloadPath string

	cmd := &cobra.Command{
		Use:   "lifecycle",
		Short: "Price moving objects between two classes with a lifecycle rule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if workloadPath != "" {
				f, err := loadWorkload(workloadPath, calculator.ScenarioLifecycle)
				if err != nil {
					return err
				}
				in = *f.Lifecycle
			} else {
				var err error
				if in.Source, err = storageclass.Parse(source); err != nil {
					return fmt.Errorf("source: %w", err)
				}
				if target != "" {
					if in.Target, err = storageclass.Parse(target); err != nil {
						return fmt.Errorf("target: %w", err)
					}
				}
			}
			return a.lifecycle(cmd.Context(), in)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&source, "source", string(storageclass.Standard), "class the objects start in")
	flags.StringVar(&target, "target", "", "class the objects transition to")
	flags.Int64Var(&in.ObjectCount, "objects", 1000, "number of objects")
	flags.Var(&in.AverageSize, "average-size", "average object size, e.g. \"4 MB\"")
	flags.IntVar(&in.DaysUntilTransition, "days", 30, "days after creation before the transition (0-365)")
	flags.IntVar(&in.ForecastDays, "forecast-days", 365, "length of the forecast in days")
	flags.StringVar(&workloadPath, "workload", "", "read the input from a workload file")
	return cmd
}

func (a *app) tieringCmd() *cobra.Command {
	in := calculator.TieringInput{
		ObjectCount:     1000,
		AverageSize:     units.Quantity{Value: 1, Unit: units.MB},
		FrequentPercent: 100,
	}
	var workloadPath string

	cmd := &cobra.Command{
		Use:   "tiering",
		Short: "Price an Intelligent-Tiering data set spread across access tiers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if workloadPath != "" {
				f, err := loadWorkload(workloadPath, calculator.ScenarioTiering)
				if err != nil {
					return err
				}
				in = *f.Tiering
			}
			return a.tiering(cmd.Context(), in)
		},
	}
	flags := cmd.Flags()
	flags.Int64Var(&in.ObjectCount, "objects", in.ObjectCount, "number of objects")
	flags.Var(&in.AverageSize, "average-size", "average object size")
	flags.IntVar(&in.FrequentPercent, "frequent", in.FrequentPercent, "percent in Frequent Access")
	flags.IntVar(&in.InfrequentPercent, "infrequent", 0, "percent in Infrequent Access")
	flags.IntVar(&in.InstantPercent, "instant", 0, "percent in Archive Instant Access")
	flags.IntVar(&in.ArchivePercent, "archive", 0, "percent in Archive Access")
	flags.IntVar(&in.DeepArchivePercent, "deep-archive", 0, "percent in Deep Archive Access")
	flags.BoolVar(&in.ArchiveEnabled, "enable-archive", false, "activate the Archive Access tier")
	flags.IntVar(&in.ArchiveDays, "archive-days", 0, "days before Archive Access (90-730, default 90)")
	flags.BoolVar(&in.DeepArchiveEnabled, "enable-deep-archive", false, "activate the Deep Archive Access tier")
	flags.IntVar(&in.DeepArchiveDays, "deep-archive-days", 0, "days before Deep Archive Access (180-730, default 180)")
	flags.StringVar(&workloadPath, "workload", "", "read the input from a workload file")
	return cmd
}

func (a *app) retrieveCmd() *cobra.Command {
	in := calculator.RetrievalInput{FileSize: units.Quantity{Value: 1, Unit: units.GB}}
	var classes []string
	var workloadPath string

	cmd := &cobra.Command{
		Use:     "retrieve",
		Aliases: []string{"retrieval"},
		Short:   "Price reading files back from each class",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if workloadPath != "" {
				f, err := loadWorkload(workloadPath, calculator.ScenarioRetrieval)
				if err != nil {
					return err
				}
				in = *f.Retrieval
			} else {
				var err error
				if in.Classes, err = parseClasses(classes); err != nil {
					return err
				}
			}
			return a.retrieval(cmd.Context(), in)
		},
	}
	flags := cmd.Flags()
	flags.Var(&in.FileSize, "file-size", "size of each file")
	flags.Int64Var(&in.FileCount, "files", 1, "number of files")
	flags.StringSliceVar(&classes, "class", nil, "storage class to compare (repeatable)")
	flags.StringVar(&workloadPath, "workload", "", "read the input from a workload file")
	return cmd
}

func (a *app) runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run WORKLOAD",
		Short: "Price the scenario described by a workload file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := workload.Load(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			switch f.Scenario {
			case calculator.ScenarioTransfer:
				return a.transfer(ctx, *f.Transfer)
			case calculator.ScenarioBackup:
				return a.backup(ctx, *f.Backup)
			case calculator.ScenarioLifecycle:
				return a.lifecycle(ctx, *f.Lifecycle)
			case calculator.ScenarioTiering:
				return a.tiering(ctx, *f.Tiering)
			case calculator.ScenarioRetrieval:
				return a.retrieval(ctx, *f.Retrieval)
			}
			return fmt.Errorf("%w: unknown scenario %q", workload.ErrInvalidWorkload, f.Scenario)
		},
	}
}

func (a *app) transfer(ctx context.Context, in calculator.TransferInput) error {
	return calculate(ctx, a, in, (*simulator.Service).Transfer, func(r *calculator.TransferResult) *calculator.Breakdown { return r.Breakdown })
}

func (a *app) backup(ctx context.Context, in calculator.BackupInput) error {
	return calculate(ctx, a, in, (*simulator.Service).Backup, func(r *calculator.BackupResult) *calculator.Breakdown { return r.Breakdown })
}

func (a *app) lifecycle(ctx context.Context, in calculator.LifecycleInput) error {
	return calculate(ctx, a, in, (*simulator.Service).Lifecycle, func(r *calculator.LifecycleResult) *calculator.Breakdown { return r.Breakdown })
}

func (a *app) tiering(ctx context.Context, in calculator.TieringInput) error {
	return calculate(ctx, a, in, (*simulator.Service).Tiering, func(r *calculator.TieringResult) *calculator.Breakdown { return r.Breakdown })
}

func (a *app) retrieval(ctx context.Context, in calculator.RetrievalInput) error {
	return calculate(ctx, a, in, (*simulator.Service).Retrieval, func(r *calculator.RetrievalResult) *calculator.Breakdown { return r.Breakdown })
}

func calculate[I, O any](
	ctx context.Context,
	a *app,
	in I,
	run func(*simulator.Service, context.Context, I) (*O, error),
	breakdown func(*O) *calculator.Breakdown,
) error {
	svc, err := a.service(ctx, nil)
	if err != nil {
		return err
	}
	res, err := run(svc, ctx, in)
	if err != nil {
		return err
	}
	return render.Result(a.out, a.format, res, breakdown(res))
}
